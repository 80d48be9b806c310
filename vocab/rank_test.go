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

package vocab

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func rankFixture(t *testing.T, src ZipfSource, sconf ScoringConf, opts FilterOptions, tokens []Token) []RankedRow {
	t.Helper()
	agg := Aggregate(tokens)
	scores, err := ScoreAll(agg, src, sconf)
	assert.NoError(t, err)
	return Rank(agg, scores, "doc1", opts)
}

func TestRankExcludesSingletonsByDefault(t *testing.T) {
	tokens := []Token{
		tok("kot", "kot", "doc1", 0),
		tok("koty", "kot", "doc1", 1),
		tok("kot", "kot", "doc1", 2),
		tok("pies", "pies", "doc1", 3),
	}
	rows := rankFixture(
		t, newFakeZipf(nil), DfltScoringConf(), DfltFilterOptions(), tokens)
	assert.Len(t, rows, 1)
	assert.Equal(t, "kot", rows[0].Lemma)
}

func TestRankIncludeSingletons(t *testing.T) {
	tokens := []Token{
		tok("kot", "kot", "doc1", 0),
		tok("kot", "kot", "doc1", 1),
		tok("pies", "pies", "doc1", 2),
	}
	opts := DfltFilterOptions()
	opts.IncludeSingletons = true
	rows := rankFixture(t, newFakeZipf(nil), DfltScoringConf(), opts, tokens)
	assert.Len(t, rows, 2)
}

func TestRankZipfRangeExclusion(t *testing.T) {
	tokens := []Token{
		tok("i", "i", "doc1", 0),
		tok("i", "i", "doc1", 1),
		tok("rower", "rower", "doc1", 2),
		tok("rower", "rower", "doc1", 3),
	}
	zmax := 6.0
	opts := DfltFilterOptions()
	opts.ZipfMax = &zmax
	src := newFakeZipf(map[string]float64{"i": 7.2, "rower": 4.1})
	rows := rankFixture(t, src, DfltScoringConf(), opts, tokens)
	assert.Len(t, rows, 1)
	assert.Equal(t, "rower", rows[0].Lemma)
}

func TestRankUnknownLemmaBypassesZipfRange(t *testing.T) {
	// unknown words must never be dropped just for being unknown,
	// even though their substituted global Zipf lies below zipfMin
	tokens := []Token{
		tok("rzadkiew", "rzadkiew", "doc1", 0),
		tok("rzadkiew", "rzadkiew", "doc1", 1),
	}
	zmin := 2.0
	opts := DfltFilterOptions()
	opts.ZipfMin = &zmin
	rows := rankFixture(t, newFakeZipf(nil), DfltScoringConf(), opts, tokens)
	assert.Len(t, rows, 1)
	assert.Equal(t, "rzadkiew", rows[0].Lemma)
	assert.False(t, rows[0].GlobalKnown)
}

func TestRankDeterministicOrder(t *testing.T) {
	tokens := []Token{
		tok("abak", "abak", "doc1", 0),
		tok("abak", "abak", "doc1", 1),
		tok("cedr", "cedr", "doc1", 2),
		tok("cedr", "cedr", "doc1", 3),
		tok("burak", "burak", "doc1", 4),
		tok("burak", "burak", "doc1", 5),
	}
	// identical counts and global values => order must fall back
	// to ascending lemma
	src := newFakeZipf(map[string]float64{"abak": 3.0, "burak": 3.0, "cedr": 3.0})
	first := rankFixture(t, src, DfltScoringConf(), DfltFilterOptions(), tokens)
	assert.Equal(t, []string{"abak", "burak", "cedr"},
		[]string{first[0].Lemma, first[1].Lemma, first[2].Lemma})
	for i := 0; i < 10; i++ {
		again := rankFixture(t, src, DfltScoringConf(), DfltFilterOptions(), tokens)
		assert.Equal(t, first, again)
	}
}

func TestRankTieBrokenByLocalCount(t *testing.T) {
	agg := Aggregate([]Token{
		tok("a", "aronia", "doc1", 0),
		tok("a", "aronia", "doc1", 1),
		tok("b", "bez", "doc1", 2),
		tok("b", "bez", "doc1", 3),
		tok("b", "bez", "doc1", 4),
	})
	scores := map[string]Score{
		"aronia": {Lemma: "aronia", LocalCount: 2, Blended: 4.0},
		"bez":    {Lemma: "bez", LocalCount: 3, Blended: 4.0},
	}
	rows := Rank(agg, scores, "doc1", DfltFilterOptions())
	assert.Equal(t, "bez", rows[0].Lemma)
	assert.Equal(t, "aronia", rows[1].Lemma)
}

func TestRankTruncation(t *testing.T) {
	tokens := make([]Token, 0, 20)
	lemmas := []string{"ala", "bok", "cel", "dom", "echo"}
	for i, lemma := range lemmas {
		tokens = append(tokens, tok(lemma, lemma, "doc1", 2*i), tok(lemma, lemma, "doc1", 2*i+1))
	}
	opts := DfltFilterOptions()
	opts.MaxRowsPerDoc = 3
	rows := rankFixture(t, newFakeZipf(nil), DfltScoringConf(), opts, tokens)
	assert.Len(t, rows, 3)
}

func TestRankInflectionExpansion(t *testing.T) {
	tokens := []Token{
		tok("kot", "kot", "doc1", 0),
		tok("kot", "kot", "doc1", 1),
		tok("koty", "kot", "doc1", 2),
	}
	opts := DfltFilterOptions()
	opts.IncludeInflections = true
	rows := rankFixture(t, newFakeZipf(nil), DfltScoringConf(), opts, tokens)
	assert.Len(t, rows, 2)
	assert.Equal(t, "kot", rows[0].Form)
	assert.Equal(t, "koty", rows[1].Form)
	assert.Equal(t, rows[0].Score, rows[1].Score)
}

func TestRankIgnorePatterns(t *testing.T) {
	tokens := []Token{
		tok("kot", "kot", "doc1", 0),
		tok("kot", "kot", "doc1", 1),
		tok("kotek", "kotek", "doc1", 2),
		tok("kotek", "kotek", "doc1", 3),
		tok("pies", "pies", "doc1", 4),
		tok("pies", "pies", "doc1", 5),
	}
	opts := DfltFilterOptions()
	opts.IgnoreLemmas = []string{"kot*"}
	rows := rankFixture(t, newFakeZipf(nil), DfltScoringConf(), opts, tokens)
	assert.Len(t, rows, 1)
	assert.Equal(t, "pies", rows[0].Lemma)
}

func TestFilterOptionsValidate(t *testing.T) {
	opts := DfltFilterOptions()
	assert.NoError(t, opts.Validate())
	lo, hi := 5.0, 2.0
	opts.ZipfMin = &lo
	opts.ZipfMax = &hi
	assert.Error(t, opts.Validate())
}
