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
	"fmt"
	"sort"
	"strings"

	"plvocab/verror"
)

const (
	DfltMaxRowsPerDoc = 50
)

// FilterOptions configures the filter & rank engine.
type FilterOptions struct {
	// IncludeSingletons keeps lemmas with a single local
	// occurrence; default is to discard them.
	IncludeSingletons bool `json:"includeSingletons" yaml:"includeSingletons"`

	// IncludeInflections expands each ranked lemma into one row
	// per distinct surface form seen, each inheriting the lemma's
	// score.
	IncludeInflections bool `json:"includeInflections" yaml:"includeInflections"`

	// ZipfMin and ZipfMax, when set, exclude lemmas whose global
	// Zipf value falls outside the closed interval. The bounds
	// never apply to lemmas unknown to the reference corpus.
	ZipfMin *float64 `json:"zipfMin,omitempty" yaml:"zipfMin,omitempty"`
	ZipfMax *float64 `json:"zipfMax,omitempty" yaml:"zipfMax,omitempty"`

	// MaxRowsPerDoc truncates the ranked list (applied before
	// inflection expansion).
	MaxRowsPerDoc int `json:"maxRowsPerDoc" yaml:"maxRowsPerDoc"`

	// IgnoreLemmas lists lemma patterns excluded before ranking.
	// A pattern is either a literal lemma or a prefix followed
	// by `*`.
	IgnoreLemmas []string `json:"ignoreLemmas,omitempty" yaml:"ignoreLemmas,omitempty"`
}

func (opts FilterOptions) Validate() error {
	if opts.MaxRowsPerDoc < 0 {
		return verror.InputError{
			Msg: fmt.Sprintf("maxRowsPerDoc must be >= 0, got %d", opts.MaxRowsPerDoc)}
	}
	if opts.ZipfMin != nil && opts.ZipfMax != nil && *opts.ZipfMin > *opts.ZipfMax {
		return verror.InputError{
			Msg: fmt.Sprintf(
				"invalid Zipf range [%01.1f, %01.1f]", *opts.ZipfMin, *opts.ZipfMax)}
	}
	return nil
}

// DfltFilterOptions returns the default filtering setup.
func DfltFilterOptions() FilterOptions {
	return FilterOptions{
		MaxRowsPerDoc: DfltMaxRowsPerDoc,
	}
}

func (opts FilterOptions) ignores(lemma string) bool {
	for _, pattern := range opts.IgnoreLemmas {
		if prefix, ok := strings.CutSuffix(pattern, "*"); ok {
			if strings.HasPrefix(lemma, prefix) {
				return true
			}

		} else if lemma == pattern {
			return true
		}
	}
	return false
}

// RankedRow is a single item of the ordered output of the
// filter & rank engine.
type RankedRow struct {
	Lemma string `json:"lemma"`

	// Form is a concrete surface form; filled only when inflection
	// expansion is on, otherwise equal to the lemma.
	Form string `json:"form"`

	Score       float64 `json:"score"`
	LocalCount  int     `json:"localCount"`
	GlobalZipf  float64 `json:"globalZipf"`
	GlobalKnown bool    `json:"globalKnown"`
	DocID       string  `json:"docId,omitempty"`

	// Forms preserves all surface forms of the lemma in their
	// canonical order (count desc, form asc).
	Forms []string `json:"forms,omitempty"`
}

// Rank applies threshold filters and produces a deterministic
// ordered row list: blended score descending, ties broken by
// descending local count and then by ascending lemma. The sort
// is stable; re-running on the same score set yields the same
// order every time.
func Rank(agg Aggregation, scores map[string]Score, docID string, opts FilterOptions) []RankedRow {
	selected := make([]Score, 0, len(scores))
	for _, lemma := range agg.Lemmas() {
		score, ok := scores[lemma]
		if !ok {
			continue
		}
		if opts.ignores(lemma) {
			continue
		}
		if score.LocalCount <= 1 && !opts.IncludeSingletons {
			continue
		}
		if score.GlobalKnown {
			if opts.ZipfMin != nil && score.GlobalZipf < *opts.ZipfMin {
				continue
			}
			if opts.ZipfMax != nil && score.GlobalZipf > *opts.ZipfMax {
				continue
			}
		}
		selected = append(selected, score)
	}
	sort.SliceStable(selected, func(i, j int) bool {
		if selected[i].Blended != selected[j].Blended {
			return selected[i].Blended > selected[j].Blended
		}
		if selected[i].LocalCount != selected[j].LocalCount {
			return selected[i].LocalCount > selected[j].LocalCount
		}
		return selected[i].Lemma < selected[j].Lemma
	})
	if opts.MaxRowsPerDoc > 0 && len(selected) > opts.MaxRowsPerDoc {
		selected = selected[:opts.MaxRowsPerDoc]
	}

	ans := make([]RankedRow, 0, len(selected))
	for _, score := range selected {
		rec := agg.Records[score.Lemma]
		forms := rec.SortedForms()
		if opts.IncludeInflections {
			for _, form := range forms {
				ans = append(ans, RankedRow{
					Lemma:       score.Lemma,
					Form:        form,
					Score:       score.Blended,
					LocalCount:  score.LocalCount,
					GlobalZipf:  score.GlobalZipf,
					GlobalKnown: score.GlobalKnown,
					DocID:       docID,
					Forms:       forms,
				})
			}

		} else {
			ans = append(ans, RankedRow{
				Lemma:       score.Lemma,
				Form:        score.Lemma,
				Score:       score.Blended,
				LocalCount:  score.LocalCount,
				GlobalZipf:  score.GlobalZipf,
				GlobalKnown: score.GlobalKnown,
				DocID:       docID,
				Forms:       forms,
			})
		}
	}
	return ans
}
