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

// Package results defines the values workers compute and publish
// back through the job queue.
package results

import (
	"errors"
	"math"

	"plvocab/pipeline"
	"plvocab/vocab"
)

type ResultType string

func (rt ResultType) String() string {
	return string(rt)
}

const (
	ResultTypeVocabExtract ResultType = "vocabExtract"
	ResultTypeVocabExport  ResultType = "vocabExport"
	ResultTypeZipfProbe    ResultType = "zipfProbe"
	ResultTypeDeckInfo     ResultType = "deckInfo"
	ResultTypeError        ResultType = "error"
)

// SerializableResult is implemented by all worker answers.
type SerializableResult interface {
	Type() ResultType
	Err() error
}

func errToStr(err error) string {
	if err != nil {
		return err.Error()
	}
	return ""
}

func strToErr(v string) error {
	if v != "" {
		return errors.New(v)
	}
	return nil
}

// NormRound performs a normalized rounding to three decimal
// places so all the results provide consistent score values.
func NormRound(val float64) float64 {
	return math.Round(val*1000) / 1000
}

// ----------------

type VocabExtract struct {
	DocID       string            `json:"docId"`
	TotalTokens int               `json:"totalTokens"`
	NumLemmas   int               `json:"numLemmas"`
	Rows        []vocab.RankedRow `json:"rows"`
	Error       string            `json:"error,omitempty"`
}

func (res VocabExtract) Type() ResultType {
	return ResultTypeVocabExtract
}

func (res VocabExtract) Err() error {
	return strToErr(res.Error)
}

// WithRoundedScores normalizes row scores for presentation.
func (res VocabExtract) WithRoundedScores() VocabExtract {
	rows := make([]vocab.RankedRow, len(res.Rows))
	for i, row := range res.Rows {
		row.Score = NormRound(row.Score)
		row.GlobalZipf = NormRound(row.GlobalZipf)
		rows[i] = row
	}
	res.Rows = rows
	return res
}

// ----------------

type VocabExport struct {
	Summary pipeline.Summary `json:"summary"`
	Error   string           `json:"error,omitempty"`
}

func (res VocabExport) Type() ResultType {
	return ResultTypeVocabExport
}

func (res VocabExport) Err() error {
	return strToErr(res.Error)
}

// ----------------

type ZipfProbe struct {
	Lemma string  `json:"lemma"`
	Zipf  float64 `json:"zipf"`
	Known bool    `json:"known"`
	Error string  `json:"error,omitempty"`
}

func (res ZipfProbe) Type() ResultType {
	return ResultTypeZipfProbe
}

func (res ZipfProbe) Err() error {
	return strToErr(res.Error)
}

// ----------------

type DeckInfo struct {
	DeckPath string `json:"deckPath"`
	NumRows  int    `json:"numRows"`
	SeenKeys int    `json:"seenKeys"`
	Error    string `json:"error,omitempty"`
}

func (res DeckInfo) Type() ResultType {
	return ResultTypeDeckInfo
}

func (res DeckInfo) Err() error {
	return strToErr(res.Error)
}

// ----------------

type ErrorResult struct {
	Func  string `json:"func"`
	Error string `json:"error"`
}

func (res ErrorResult) Type() ResultType {
	return ResultTypeError
}

func (res ErrorResult) Err() error {
	return strToErr(res.Error)
}

// NewErrorResult wraps an error raised before or during a worker
// job.
func NewErrorResult(fn string, err error) ErrorResult {
	return ErrorResult{Func: fn, Error: errToStr(err)}
}
