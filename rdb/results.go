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

package rdb

import (
	"encoding/json"
	"fmt"

	"github.com/bytedance/sonic"

	"plvocab/pipeline"
	"plvocab/results"
)

// Function names workers dispatch on. The API server and the
// batch runner enqueue queries with these values.
const (
	FuncExtractVocab = "extractVocab"
	FuncExportVocab  = "exportVocab"
	FuncZipfProbe    = "zipfProbe"
	FuncDeckInfo     = "deckInfo"
)

// ExtractArgs are the arguments of the extractVocab function.
type ExtractArgs struct {
	Doc  pipeline.Document `json:"doc"`
	Conf pipeline.Conf     `json:"conf"`
}

// ExportArgs are the arguments of the exportVocab function. The
// worker extracts and then exports in one job so the document
// text does not have to travel through the queue twice.
type ExportArgs struct {
	Docs []pipeline.Document `json:"docs"`
	Conf pipeline.Conf       `json:"conf"`
}

// ZipfProbeArgs are the arguments of the zipfProbe function.
type ZipfProbeArgs struct {
	Lemma string `json:"lemma"`
}

// DeckInfoArgs are the arguments of the deckInfo function
// (currently empty, kept for signature uniformity).
type DeckInfoArgs struct {
}

// WorkerResult is the envelope a worker publishes back. The
// concrete value is kept serialized so the queue layer does not
// have to know all result types.
type WorkerResult struct {
	ResultType results.ResultType `json:"resultType"`
	Value      json.RawMessage    `json:"value"`
	HasUserErr bool               `json:"hasUserErr"`
}

// AttachValue sets the envelope payload. Serialization failures
// here are programming errors so we just panic.
func (wr *WorkerResult) AttachValue(value results.SerializableResult) {
	rawValue, err := sonic.Marshal(value)
	if err != nil {
		panic(fmt.Sprintf("failed to serialize %s result: %s", value.Type(), err))
	}
	wr.ResultType = value.Type()
	wr.Value = rawValue
}

// CreateWorkerResult wraps a result value into an envelope ready
// for publishing.
func CreateWorkerResult(value results.SerializableResult) (*WorkerResult, error) {
	rawValue, err := sonic.Marshal(value)
	if err != nil {
		return nil, fmt.Errorf("failed to serialize %s result: %w", value.Type(), err)
	}
	return &WorkerResult{ResultType: value.Type(), Value: rawValue}, nil
}

// DeserializeVocabExtractResult unwraps an extraction answer.
func DeserializeVocabExtractResult(w *WorkerResult) (results.VocabExtract, error) {
	var ans results.VocabExtract
	err := sonic.Unmarshal(w.Value, &ans)
	if err != nil {
		err = fmt.Errorf("failed to deserialize VocabExtract: %w", err)
	}
	return ans, err
}

// DeserializeVocabExportResult unwraps an export answer.
func DeserializeVocabExportResult(w *WorkerResult) (results.VocabExport, error) {
	var ans results.VocabExport
	err := sonic.Unmarshal(w.Value, &ans)
	if err != nil {
		err = fmt.Errorf("failed to deserialize VocabExport: %w", err)
	}
	return ans, err
}

// DeserializeZipfProbeResult unwraps a frequency probe answer.
func DeserializeZipfProbeResult(w *WorkerResult) (results.ZipfProbe, error) {
	var ans results.ZipfProbe
	err := sonic.Unmarshal(w.Value, &ans)
	if err != nil {
		err = fmt.Errorf("failed to deserialize ZipfProbe: %w", err)
	}
	return ans, err
}

// DeserializeDeckInfoResult unwraps a deck info answer.
func DeserializeDeckInfoResult(w *WorkerResult) (results.DeckInfo, error) {
	var ans results.DeckInfo
	err := sonic.Unmarshal(w.Value, &ans)
	if err != nil {
		err = fmt.Errorf("failed to deserialize DeckInfo: %w", err)
	}
	return ans, err
}

// DeserializeErrorResult unwraps an error answer.
func DeserializeErrorResult(w *WorkerResult) (results.ErrorResult, error) {
	var ans results.ErrorResult
	err := sonic.Unmarshal(w.Value, &ans)
	if err != nil {
		err = fmt.Errorf("failed to deserialize ErrorResult: %w", err)
	}
	return ans, err
}
