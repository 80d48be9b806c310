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
	"bufio"
	"fmt"
	"os"
	"strings"
	"unicode/utf8"

	"plvocab/verror"
)

// KeyStore is a durable set of previously exported dedup keys.
// Implementations must append new keys durably enough that a
// crash between runs cannot lose previously stored keys.
type KeyStore interface {
	Contains(key string) (bool, error)
	Add(key string) error
	Size() (int, error)
	Close() error
}

// ------------------------------

// fileKeyStore is the default single-writer backend: one key
// per line, appended and flushed per write, never rewritten.
type fileKeyStore struct {
	path string
	seen map[string]bool
	f    *os.File
}

// OpenFileKeyStore loads the persisted key set and opens the
// file for appending. A corrupt or unreadable existing state is
// recoverable: the returned store is usable but treats the set
// as empty for reads, the underlying file is left untouched and
// the StateError tells the caller the history was lost.
func OpenFileKeyStore(path string) (KeyStore, error) {
	ans := &fileKeyStore{
		path: path,
		seen: make(map[string]bool),
	}
	var stateErr error
	data, err := os.ReadFile(path)
	if err != nil && !os.IsNotExist(err) {
		stateErr = verror.StateError{
			Msg: fmt.Sprintf("failed to read dedup state %s: %s", path, err)}

	} else if err == nil {
		if !utf8.Valid(data) {
			stateErr = verror.StateError{
				Msg: fmt.Sprintf("dedup state %s is not valid text", path)}

		} else {
			sc := bufio.NewScanner(strings.NewReader(string(data)))
			for sc.Scan() {
				key := strings.TrimSpace(sc.Text())
				if key != "" {
					ans.seen[key] = true
				}
			}
		}
	}
	if stateErr != nil {
		ans.seen = make(map[string]bool)
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		return nil, fmt.Errorf("failed to open dedup state %s for appending: %w", path, err)
	}
	ans.f = f
	return ans, stateErr
}

func (fs *fileKeyStore) Contains(key string) (bool, error) {
	return fs.seen[key], nil
}

func (fs *fileKeyStore) Add(key string) error {
	if fs.seen[key] {
		return nil
	}
	if _, err := fs.f.WriteString(key + "\n"); err != nil {
		return fmt.Errorf("failed to append dedup key: %w", err)
	}
	if err := fs.f.Sync(); err != nil {
		return fmt.Errorf("failed to flush dedup state: %w", err)
	}
	fs.seen[key] = true
	return nil
}

func (fs *fileKeyStore) Size() (int, error) {
	return len(fs.seen), nil
}

func (fs *fileKeyStore) Close() error {
	return fs.f.Close()
}
