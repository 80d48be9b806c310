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

import "github.com/rs/zerolog"

// SkippedItem explains why a document was left out of a run.
type SkippedItem struct {
	DocID  string `json:"docId"`
	Reason string `json:"reason"`
}

// Summary is the user-visible account of a batch run. Skipped
// documents and their reasons are always surfaced, never
// silently swallowed.
type Summary struct {
	RunID           string        `json:"runId"`
	NumDocs         int           `json:"numDocs"`
	NumProcessed    int           `json:"numProcessed"`
	Skipped         []SkippedItem `json:"skipped,omitempty"`
	TotalTokens     int           `json:"totalTokens"`
	NumRanked       int           `json:"numRanked"`
	NumExported     int           `json:"numExported"`
	NumDeduplicated int           `json:"numDeduplicated"`
	NumOversize     int           `json:"numOversize"`
	ProcTimeSecs    float64       `json:"procTimeSecs"`
}

// MarshalZerologObject lets a summary be attached to a log
// event as a structured value.
func (s Summary) MarshalZerologObject(e *zerolog.Event) {
	e.Str("runId", s.RunID).
		Int("numDocs", s.NumDocs).
		Int("numProcessed", s.NumProcessed).
		Int("numSkipped", len(s.Skipped)).
		Int("totalTokens", s.TotalTokens).
		Int("numRanked", s.NumRanked).
		Int("numExported", s.NumExported).
		Int("numDeduplicated", s.NumDeduplicated).
		Int("numOversize", s.NumOversize).
		Float64("procTimeSecs", s.ProcTimeSecs)
}
