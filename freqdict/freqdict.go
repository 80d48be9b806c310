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

// Package freqdict provides the reference corpus frequency
// source. A frequency dictionary is a plain text file with one
// entry per line: a word followed by a numeric value, separated
// by whitespace. The value is either a Zipf value or a raw
// occurrence count, depending on the configured format. Loading
// is performed once per process (the file may be large) and the
// loaded table serves all documents of a run.
package freqdict

import (
	"bufio"
	"fmt"
	"math"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog/log"

	"plvocab/verror"
)

const (
	FormatZipf   = "zipf"
	FormatCounts = "counts"

	// handles very long lines in machine-generated dictionaries
	scannerBufSize = 4 * 1024 * 1024
)

type Conf struct {
	Path string `json:"path" yaml:"path"`

	// Format is either `zipf` (second column holds Zipf values
	// directly) or `counts` (second column holds raw occurrence
	// counts which are converted using CorpusSize).
	Format string `json:"format" yaml:"format"`

	// CorpusSize is the token count of the corpus the dictionary
	// was built from; required for the `counts` format.
	CorpusSize int64 `json:"corpusSize,omitempty" yaml:"corpusSize,omitempty"`
}

func (conf *Conf) ValidateAndDefaults() error {
	if conf.Path == "" {
		return verror.InputError{Msg: "freqDict.path not specified"}
	}
	if conf.Format == "" {
		conf.Format = FormatZipf
		log.Warn().Str("format", conf.Format).Msg("freqDict.format not specified, using default")
	}
	if conf.Format != FormatZipf && conf.Format != FormatCounts {
		return verror.InputError{
			Msg: fmt.Sprintf("unknown freqDict.format: %s", conf.Format)}
	}
	if conf.Format == FormatCounts && conf.CorpusSize <= 0 {
		return verror.InputError{
			Msg: "freqDict.corpusSize must be positive for the `counts` format"}
	}
	return nil
}

// Dict is an in-memory frequency dictionary implementing
// vocab.ZipfSource. It is read-only after Load and safe for
// concurrent lookups.
type Dict struct {
	values map[string]float64
}

func (d *Dict) ZipfFrequency(lemma string) (float64, bool) {
	v, ok := d.values[strings.ToLower(lemma)]
	return v, ok
}

func (d *Dict) Size() int {
	return len(d.values)
}

func countToZipf(count, corpusSize int64) float64 {
	return math.Log10(float64(count)/float64(corpusSize)*1e6) + 3
}

// Load reads a frequency dictionary from disk. Lines starting
// with `#` and malformed lines are skipped with a warning (a few
// bad lines must not invalidate an otherwise usable dictionary).
func Load(conf *Conf) (*Dict, error) {
	t0 := time.Now()
	f, err := os.Open(conf.Path)
	if err != nil {
		return nil, fmt.Errorf("failed to load frequency dictionary: %w", err)
	}
	defer f.Close()

	ans := &Dict{values: make(map[string]float64)}
	var numSkipped int
	sc := bufio.NewScanner(f)
	sc.Buffer(make([]byte, scannerBufSize), scannerBufSize)
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		items := strings.Fields(line)
		if len(items) != 2 {
			numSkipped++
			continue
		}
		word := strings.ToLower(items[0])
		var value float64
		switch conf.Format {
		case FormatCounts:
			count, err := strconv.ParseInt(items[1], 10, 64)
			if err != nil || count <= 0 {
				numSkipped++
				continue
			}
			value = countToZipf(count, conf.CorpusSize)
		default:
			value, err = strconv.ParseFloat(items[1], 64)
			if err != nil {
				numSkipped++
				continue
			}
		}
		// on duplicate entries, the more frequent reading wins
		if prev, ok := ans.values[word]; !ok || value > prev {
			ans.values[word] = value
		}
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("failed to load frequency dictionary: %w", err)
	}
	if numSkipped > 0 {
		log.Warn().
			Int("numSkipped", numSkipped).
			Str("path", conf.Path).
			Msg("skipped malformed frequency dictionary lines")
	}
	log.Info().
		Int("size", ans.Size()).
		Str("path", conf.Path).
		Dur("procTime", time.Since(t0)).
		Msg("loaded frequency dictionary")
	return ans, nil
}

// Static wraps a plain map as a frequency source; used in tests
// and as an empty fallback when no dictionary is configured.
type Static map[string]float64

func (s Static) ZipfFrequency(lemma string) (float64, bool) {
	v, ok := s[strings.ToLower(lemma)]
	return v, ok
}
