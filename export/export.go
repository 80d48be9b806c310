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

// Package export maintains the cumulative flashcard deck: an
// append-only tabular artifact plus a persisted set of
// deduplication keys preventing the same vocabulary item from
// being emitted twice across runs.
package export

import (
	"fmt"
	"strings"

	"github.com/cespare/xxhash/v2"
	"github.com/rs/zerolog/log"

	"plvocab/verror"
)

const (
	// MaxExampleLen is the fixed cutoff for example sentences;
	// longer rows are discarded before dedup-key computation and
	// never reach the deck or the key store.
	MaxExampleLen = 300

	BackendFile     = "file"
	BackendRedis    = "redis"
	BackendPostgres = "postgres"
)

type Conf struct {
	// DeckPath is the append-only TSV artifact the records are
	// written to.
	DeckPath string `json:"deckPath" yaml:"deckPath"`

	// Backend selects the dedup key store: `file`, `redis` or
	// `postgres`.
	Backend string `json:"backend" yaml:"backend"`

	// StatePath is the key file used by the `file` backend.
	StatePath string `json:"statePath,omitempty" yaml:"statePath,omitempty"`

	// RedisKey is the Redis SET name used by the `redis` backend.
	RedisKey string `json:"redisKey,omitempty" yaml:"redisKey,omitempty"`

	// PostgresDSN is the connection string used by the
	// `postgres` backend.
	PostgresDSN string `json:"postgresDsn,omitempty" yaml:"postgresDsn,omitempty"`
}

func (conf *Conf) ValidateAndDefaults() error {
	if conf.DeckPath == "" {
		return verror.InputError{Msg: "export.deckPath not specified"}
	}
	if conf.Backend == "" {
		conf.Backend = BackendFile
		log.Warn().Str("backend", conf.Backend).Msg("export.backend not specified, using default")
	}
	switch conf.Backend {
	case BackendFile:
		if conf.StatePath == "" {
			conf.StatePath = conf.DeckPath + ".seen"
			log.Warn().
				Str("statePath", conf.StatePath).
				Msg("export.statePath not specified, deriving from deckPath")
		}
	case BackendRedis:
		if conf.RedisKey == "" {
			conf.RedisKey = dfltRedisSeenKey
			log.Warn().
				Str("redisKey", conf.RedisKey).
				Msg("export.redisKey not specified, using default")
		}
	case BackendPostgres:
		if conf.PostgresDSN == "" {
			return verror.InputError{Msg: "export.postgresDsn required for the postgres backend"}
		}
	default:
		return verror.InputError{
			Msg: fmt.Sprintf("unknown export.backend: %s", conf.Backend)}
	}
	return nil
}

// Record is a single flashcard row considered for export.
type Record struct {
	// Front is the term side of the card (lemma or surface form)
	Front string `json:"front"`

	// Back is the answer side (gloss/translation plus the known
	// surface forms)
	Back string `json:"back"`

	// Tags carries provenance (source document)
	Tags string `json:"tags"`

	// Example is an optional example sentence; it contributes to
	// the dedup key so the same lemma may reappear with a new
	// example in sentence-level decks.
	Example string `json:"example,omitempty"`
}

// DedupKey produces the cross-run identity of the record: the
// normalized front term, extended with a hash of the example
// sentence when one is attached.
func (rec Record) DedupKey() string {
	base := strings.ToLower(strings.TrimSpace(rec.Front))
	if rec.Example == "" {
		return base
	}
	return fmt.Sprintf("%s:%x", base, xxhash.Sum64String(rec.Example))
}

// Oversize reports whether the example sentence exceeds the
// fixed length cutoff (measured in characters, not bytes).
func (rec Record) Oversize() bool {
	return len([]rune(rec.Example)) > MaxExampleLen
}
