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

package input

import (
	"regexp"
	"strings"
)

var (
	timestampRegexp = regexp.MustCompile(
		`^\s*\d{2}:\d{2}:\d{2}\.\d{3}\s+-->\s+\d{2}:\d{2}:\d{2}\.\d{3}`)
	cueTagRegexp = regexp.MustCompile(`<[^>]+>`)
	digitsRegexp = regexp.MustCompile(`^\d+$`)
)

// CaptionText converts a WebVTT caption document into plain
// text. Headers, cue numbers, timestamps and inline cue tags are
// dropped. Auto-generated captions commonly repeat each line in
// consecutive cues; immediate repeats are collapsed.
func CaptionText(vtt string) string {
	var chunks []string
	for _, raw := range strings.Split(vtt, "\n") {
		line := strings.TrimSpace(raw)
		if line == "" || line == "WEBVTT" {
			continue
		}
		if strings.HasPrefix(line, "NOTE") {
			continue
		}
		if timestampRegexp.MatchString(line) {
			continue
		}
		if digitsRegexp.MatchString(line) {
			continue
		}
		clean := strings.TrimSpace(cueTagRegexp.ReplaceAllString(line, ""))
		if clean == "" {
			continue
		}
		if len(chunks) > 0 && chunks[len(chunks)-1] == clean {
			continue
		}
		chunks = append(chunks, clean)
	}
	return strings.Join(chunks, " ")
}
