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

func tok(form, lemma, docID string, pos int) Token {
	return Token{Form: form, Lemma: lemma, DocID: docID, Position: pos}
}

func TestAggregateGroupsByLemma(t *testing.T) {
	tokens := []Token{
		tok("kot", "kot", "doc1", 0),
		tok("koty", "kot", "doc1", 1),
		tok("kot", "kot", "doc1", 2),
		tok("pies", "pies", "doc1", 3),
	}
	agg := Aggregate(tokens)
	assert.Equal(t, 4, agg.TotalTokens)
	assert.Len(t, agg.Records, 2)
	assert.Equal(t, 3, agg.Records["kot"].Total)
	assert.Equal(t, 1, agg.Records["pies"].Total)
	assert.Equal(t, map[string]int{"kot": 2, "koty": 1}, agg.Records["kot"].Forms)
	assert.Equal(t, 3, agg.Records["kot"].DocCounts["doc1"])
}

func TestAggregatePreservesTokenCount(t *testing.T) {
	tokens := []Token{
		tok("psa", "pies", "a", 0),
		tok("psy", "pies", "b", 1),
		tok("kotem", "kot", "a", 2),
		tok("i", "i", "a", 3),
		tok("i", "i", "b", 4),
	}
	agg := Aggregate(tokens)
	var total int
	for _, rec := range agg.Records {
		total += rec.Total
	}
	assert.Equal(t, len(tokens), total)
	assert.Equal(t, len(tokens), agg.TotalTokens)
}

func TestAggregateEmptyInput(t *testing.T) {
	agg := Aggregate(nil)
	assert.Empty(t, agg.Records)
	assert.Equal(t, 0, agg.TotalTokens)
}

func TestAggregateNormalizesCase(t *testing.T) {
	tokens := []Token{
		tok("Kot", "Kot", "doc1", 0),
		tok("KOT", "kot", "doc1", 1),
	}
	agg := Aggregate(tokens)
	assert.Len(t, agg.Records, 1)
	assert.Equal(t, 2, agg.Records["kot"].Total)
}

func TestAggregateFallsBackToSurfaceForm(t *testing.T) {
	tokens := []Token{
		tok("neologizm", "", "doc1", 0),
	}
	agg := Aggregate(tokens)
	assert.Equal(t, 1, agg.Records["neologizm"].Total)
}

func TestSortedFormsOrder(t *testing.T) {
	rec := &LemmaRecord{
		Lemma: "kot",
		Forms: map[string]int{"kota": 2, "kot": 5, "koty": 2},
	}
	assert.Equal(t, []string{"kot", "kota", "koty"}, rec.SortedForms())
}
