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
	"sort"
	"strings"
)

// Token is a single item produced by an external
// tokenizer/lemmatizer. The core treats the lemmatizer as an
// opaque oracle and never tries to correct its output.
type Token struct {
	Form     string `json:"form"`
	Lemma    string `json:"lemma"`
	PoS      string `json:"pos,omitempty"`
	Position int    `json:"position"`
	DocID    string `json:"docId"`
}

// LemmaRecord groups all tokens mapped to a single lemma
// within a run. Within a run, every token belongs to exactly
// one LemmaRecord.
type LemmaRecord struct {
	Lemma string `json:"lemma"`

	// Forms maps each distinct surface form to its occurrence count
	Forms map[string]int `json:"forms"`

	// DocCounts maps document ID to the number of occurrences there
	DocCounts map[string]int `json:"docCounts"`

	// Total is the aggregate occurrence count across the run
	Total int `json:"total"`
}

// SortedForms returns the surface forms of the lemma ordered by
// descending occurrence count, ties broken alphabetically. This
// is the order used both for row expansion and for the "forms"
// column of exported records.
func (rec *LemmaRecord) SortedForms() []string {
	ans := make([]string, 0, len(rec.Forms))
	for form := range rec.Forms {
		ans = append(ans, form)
	}
	sort.Slice(ans, func(i, j int) bool {
		if rec.Forms[ans[i]] != rec.Forms[ans[j]] {
			return rec.Forms[ans[i]] > rec.Forms[ans[j]]
		}
		return ans[i] < ans[j]
	})
	return ans
}

// Aggregation is the output of the lemma aggregator: a mapping
// from lemma to its record plus the total token count used later
// for frequency normalization.
type Aggregation struct {
	Records     map[string]*LemmaRecord
	TotalTokens int
}

// Lemmas returns all aggregated lemmas in ascending
// lexicographical order.
func (agg Aggregation) Lemmas() []string {
	ans := make([]string, 0, len(agg.Records))
	for lemma := range agg.Records {
		ans = append(ans, lemma)
	}
	sort.Strings(ans)
	return ans
}

// Aggregate groups an ordered token sequence by lemma, counting
// occurrences per document and in total and recording the set of
// distinct surface forms seen for each lemma. Empty input yields
// an empty mapping and no error. The operation has no side
// effects beyond building the returned value.
func Aggregate(tokens []Token) Aggregation {
	ans := Aggregation{
		Records: make(map[string]*LemmaRecord),
	}
	for _, tok := range tokens {
		lemma := strings.ToLower(strings.TrimSpace(tok.Lemma))
		if lemma == "" {
			lemma = strings.ToLower(strings.TrimSpace(tok.Form))
		}
		if lemma == "" {
			continue
		}
		rec, ok := ans.Records[lemma]
		if !ok {
			rec = &LemmaRecord{
				Lemma:     lemma,
				Forms:     make(map[string]int),
				DocCounts: make(map[string]int),
			}
			ans.Records[lemma] = rec
		}
		form := strings.ToLower(tok.Form)
		if form == "" {
			form = lemma
		}
		rec.Forms[form]++
		rec.DocCounts[tok.DocID]++
		rec.Total++
		ans.TotalTokens++
	}
	return ans
}
