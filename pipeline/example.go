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

package pipeline

import (
	"regexp"
	"strings"

	"plvocab/vocab"
)

var sentenceRegexp = regexp.MustCompile(`[^.!?…]+[.!?…]*`)

// findExamples picks, for each ranked lemma, the first sentence
// of the document containing any of its surface forms. Lemmas
// without a matching sentence get no example.
func findExamples(text string, rows []vocab.RankedRow) map[string]string {
	sentences := sentenceRegexp.FindAllString(text, -1)
	lowered := make([]string, len(sentences))
	for i, s := range sentences {
		lowered[i] = strings.ToLower(s)
	}
	ans := make(map[string]string)
	for _, row := range rows {
		if _, ok := ans[row.Lemma]; ok {
			continue
		}
		for i, ls := range lowered {
			if containsAnyForm(ls, row.Forms) {
				ans[row.Lemma] = strings.TrimSpace(sentences[i])
				break
			}
		}
	}
	return ans
}

func containsAnyForm(sentence string, forms []string) bool {
	for _, form := range forms {
		if strings.Contains(sentence, form) {
			return true
		}
	}
	return false
}
