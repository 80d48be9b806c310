// Copyright 2024 Tomas Machalek <tomas.machalek@gmail.com>
// Copyright 2024 Institute of the Czech National Corpus,
//                Faculty of Arts, Charles University
//   This file is part of PLVOCAB.
//
//  PLVOCAB is free software: you can redistribute it and/or modify
//  it under the terms of the GNU General Public License as published by
//  the Free Software Foundation, either version 3 of the License, or
//  (at your option) any later version.
//
//  PLVOCAB is distributed in the hope that it will be useful,
//  but WITHOUT ANY WARRANTY; without even the implied warranty of
//  MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
//  GNU General Public License for more details.
//
//  You should have received a copy of the GNU General Public License
//  along with PLVOCAB.  If not, see <https://www.gnu.org/licenses/>.

package export

import (
	"fmt"
	"os"
	"strings"
	"sync"
)

var tsvEscaper = strings.NewReplacer("\t", " ", "\n", " ", "\r", " ")

// DeckWriter appends records to the deck artifact: a TSV file
// with a fixed front/back/tags column schema. Rows are written
// with O_APPEND and flushed one by one, so an aborted run leaves
// no partially written deck behind.
type DeckWriter struct {
	f *os.File
}

func OpenDeckWriter(path string) (*DeckWriter, error) {
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		return nil, fmt.Errorf("failed to open deck %s: %w", path, err)
	}
	return &DeckWriter{f: f}, nil
}

func (dw *DeckWriter) Append(rec Record) error {
	line := fmt.Sprintf(
		"%s\t%s\t%s\n",
		tsvEscaper.Replace(rec.Front),
		tsvEscaper.Replace(rec.Back),
		tsvEscaper.Replace(rec.Tags),
	)
	if _, err := dw.f.WriteString(line); err != nil {
		return fmt.Errorf("failed to append deck row: %w", err)
	}
	if err := dw.f.Sync(); err != nil {
		return fmt.Errorf("failed to flush deck: %w", err)
	}
	return nil
}

func (dw *DeckWriter) Close() error {
	return dw.f.Close()
}

// ------------------------------

// Tracker is the cross-run dedup/export gate. It is the only
// shared mutable resource between concurrently processed
// documents, so all its operations are serialized by a mutex
// (two documents must never both emit the same new key as a
// first occurrence).
type Tracker struct {
	lock  sync.Mutex
	store KeyStore
	deck  *DeckWriter
}

func NewTracker(store KeyStore, deck *DeckWriter) *Tracker {
	return &Tracker{
		store: store,
		deck:  deck,
	}
}

// Offer considers one record for export. Oversize rows are
// discarded before key computation and never counted as seen.
// The returned flag tells whether the record was appended to the
// deck (false = deduplicated or oversize).
func (tr *Tracker) Offer(rec Record) (bool, error) {
	if rec.Oversize() {
		return false, nil
	}
	tr.lock.Lock()
	defer tr.lock.Unlock()
	key := rec.DedupKey()
	seen, err := tr.store.Contains(key)
	if err != nil {
		return false, err
	}
	if seen {
		return false, nil
	}
	if err := tr.deck.Append(rec); err != nil {
		return false, err
	}
	if err := tr.store.Add(key); err != nil {
		return false, err
	}
	return true, nil
}

// Seen reports whether the record's key is already part of the
// persisted set. Callers may use it to skip expensive record
// augmentation for duplicates; Offer re-checks under the same
// lock, so a stale answer can never produce a double append.
func (tr *Tracker) Seen(rec Record) (bool, error) {
	tr.lock.Lock()
	defer tr.lock.Unlock()
	return tr.store.Contains(rec.DedupKey())
}

// SeenKeys returns the current size of the persisted key set.
func (tr *Tracker) SeenKeys() (int, error) {
	tr.lock.Lock()
	defer tr.lock.Unlock()
	return tr.store.Size()
}

func (tr *Tracker) Close() error {
	tr.lock.Lock()
	defer tr.lock.Unlock()
	if err := tr.deck.Close(); err != nil {
		tr.store.Close()
		return err
	}
	return tr.store.Close()
}
