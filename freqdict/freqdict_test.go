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

package freqdict

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
)

func writeDict(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "freq.txt")
	assert.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestLoadZipfFormat(t *testing.T) {
	path := writeDict(t, "# comment\nkot\t5.31\npies 5.05\n\nrower\t4.2\n")
	dict, err := Load(&Conf{Path: path, Format: FormatZipf})
	assert.NoError(t, err)
	assert.Equal(t, 3, dict.Size())
	v, ok := dict.ZipfFrequency("kot")
	assert.True(t, ok)
	assert.Equal(t, 5.31, v)
	_, ok = dict.ZipfFrequency("żyrafa")
	assert.False(t, ok)
}

func TestLoadCaseInsensitiveLookup(t *testing.T) {
	path := writeDict(t, "kot\t5.0\n")
	dict, err := Load(&Conf{Path: path, Format: FormatZipf})
	assert.NoError(t, err)
	v, ok := dict.ZipfFrequency("Kot")
	assert.True(t, ok)
	assert.Equal(t, 5.0, v)
}

func TestLoadCountsFormat(t *testing.T) {
	// 1000 occurrences in a 1M corpus => 1000 per million => zipf 6
	path := writeDict(t, "kot 1000\n")
	dict, err := Load(&Conf{Path: path, Format: FormatCounts, CorpusSize: 1000000})
	assert.NoError(t, err)
	v, ok := dict.ZipfFrequency("kot")
	assert.True(t, ok)
	assert.InDelta(t, 6.0, v, 1e-9)
}

func TestLoadSkipsMalformedLines(t *testing.T) {
	path := writeDict(t, "kot 5.0\nbroken-line\npies abc\nrower 4.0\n")
	dict, err := Load(&Conf{Path: path, Format: FormatZipf})
	assert.NoError(t, err)
	assert.Equal(t, 2, dict.Size())
}

func TestLoadDuplicateKeepsHigherValue(t *testing.T) {
	path := writeDict(t, "kot 4.0\nKot 5.5\nkot 3.0\n")
	dict, err := Load(&Conf{Path: path, Format: FormatZipf})
	assert.NoError(t, err)
	v, _ := dict.ZipfFrequency("kot")
	assert.Equal(t, 5.5, v)
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(&Conf{Path: "/nonexistent/freq.txt", Format: FormatZipf})
	assert.Error(t, err)
}

func TestConfValidateAndDefaults(t *testing.T) {
	conf := &Conf{Path: "x"}
	assert.NoError(t, conf.ValidateAndDefaults())
	assert.Equal(t, FormatZipf, conf.Format)

	conf = &Conf{Path: "x", Format: "unknown"}
	assert.Error(t, conf.ValidateAndDefaults())

	conf = &Conf{Path: "x", Format: FormatCounts}
	assert.Error(t, conf.ValidateAndDefaults())
}
