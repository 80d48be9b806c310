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

// Package handlers exposes the vocabulary extraction operations
// via HTTP. The handlers themselves do no processing; they pass
// jobs to workers through the Redis queue and wait for answers.
package handlers

import (
	"fmt"
	"net/http"

	"github.com/czcorpus/cnc-gokit/uniresp"
	"github.com/gin-gonic/gin"

	"plvocab/pipeline"
	"plvocab/rdb"
	"plvocab/results"
)

type Actions struct {
	radapter *rdb.Adapter
	baseConf pipeline.Conf
}

// ExtractionOptions are per-request overrides of the server-wide
// extraction defaults. Absent fields keep the configured values.
type ExtractionOptions struct {
	BalanceWeight      *float64 `json:"balanceWeight,omitempty"`
	IncludeSingletons  *bool    `json:"includeSingletons,omitempty"`
	IncludeInflections *bool    `json:"includeInflections,omitempty"`
	ZipfMin            *float64 `json:"zipfMin,omitempty"`
	ZipfMax            *float64 `json:"zipfMax,omitempty"`
	MaxRowsPerDoc      *int     `json:"maxRowsPerDoc,omitempty"`
	IgnoreLemmas       []string `json:"ignoreLemmas,omitempty"`
	AttachExamples     *bool    `json:"attachExamples,omitempty"`
	StartMarker        *string  `json:"startMarker,omitempty"`
	EndMarker          *string  `json:"endMarker,omitempty"`
}

// apply patches a copy of the base configuration.
func (opts *ExtractionOptions) apply(conf pipeline.Conf) pipeline.Conf {
	if opts == nil {
		return conf
	}
	if opts.BalanceWeight != nil {
		conf.Scoring.BalanceWeight = *opts.BalanceWeight
	}
	if opts.IncludeSingletons != nil {
		conf.Filter.IncludeSingletons = *opts.IncludeSingletons
	}
	if opts.IncludeInflections != nil {
		conf.Filter.IncludeInflections = *opts.IncludeInflections
	}
	if opts.ZipfMin != nil {
		conf.Filter.ZipfMin = opts.ZipfMin
	}
	if opts.ZipfMax != nil {
		conf.Filter.ZipfMax = opts.ZipfMax
	}
	if opts.MaxRowsPerDoc != nil {
		conf.Filter.MaxRowsPerDoc = *opts.MaxRowsPerDoc
	}
	if len(opts.IgnoreLemmas) > 0 {
		conf.Filter.IgnoreLemmas = opts.IgnoreLemmas
	}
	if opts.AttachExamples != nil {
		conf.AttachExamples = *opts.AttachExamples
	}
	if opts.StartMarker != nil {
		conf.StartMarker = *opts.StartMarker
	}
	if opts.EndMarker != nil {
		conf.EndMarker = *opts.EndMarker
	}
	return conf
}

type extractionRequest struct {
	Doc     pipeline.Document  `json:"doc"`
	Options *ExtractionOptions `json:"options,omitempty"`
}

type exportRequest struct {
	Docs    []pipeline.Document `json:"docs"`
	Options *ExtractionOptions  `json:"options,omitempty"`
}

func (a *Actions) publishAndWait(ctx *gin.Context, query rdb.Query) (*rdb.WorkerResult, bool) {
	isActive, err := a.radapter.SomeoneListens(query)
	if err != nil {
		uniresp.RespondWithErrorJSON(ctx, err, http.StatusInternalServerError)
		return nil, false
	}
	if !isActive {
		uniresp.RespondWithErrorJSON(
			ctx, fmt.Errorf("no worker available"), http.StatusServiceUnavailable)
		return nil, false
	}
	wait, err := a.radapter.CacheResult(a.radapter.PublishQuery, query)
	if err != nil {
		uniresp.RespondWithErrorJSON(ctx, err, http.StatusInternalServerError)
		return nil, false
	}
	rawResult := <-wait
	if rawResult.ResultType == results.ResultTypeError {
		ans, err := rdb.DeserializeErrorResult(rawResult)
		if err != nil {
			uniresp.RespondWithErrorJSON(ctx, err, http.StatusInternalServerError)
			return nil, false
		}
		uniresp.RespondWithErrorJSON(ctx, ans.Err(), http.StatusInternalServerError)
		return nil, false
	}
	return rawResult, true
}

// Extraction godoc
// @Summary      Extraction
// @Description  Extract, score and rank vocabulary of a single document.
// @Accept       json
// @Produce      json
// @Param        req body extractionRequest true "document and extraction options"
// @Success      200 {object} results.VocabExtract
// @Router       /extraction [post]
func (a *Actions) Extraction(ctx *gin.Context) {
	var req extractionRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		uniresp.RespondWithErrorJSON(ctx, err, http.StatusBadRequest)
		return
	}
	if req.Doc.ID == "" {
		uniresp.RespondWithErrorJSON(
			ctx, fmt.Errorf("missing document ID"), http.StatusUnprocessableEntity)
		return
	}
	query, err := rdb.NewQuery(
		rdb.FuncExtractVocab,
		rdb.ExtractArgs{Doc: req.Doc, Conf: req.Options.apply(a.baseConf)},
	)
	if err != nil {
		uniresp.RespondWithErrorJSON(ctx, err, http.StatusInternalServerError)
		return
	}
	rawResult, ok := a.publishAndWait(ctx, query)
	if !ok {
		return
	}
	ans, err := rdb.DeserializeVocabExtractResult(rawResult)
	if err != nil {
		uniresp.RespondWithErrorJSON(ctx, err, http.StatusInternalServerError)
		return
	}
	if ans.Err() != nil {
		uniresp.RespondWithErrorJSON(ctx, ans.Err(), http.StatusUnprocessableEntity)
		return
	}
	uniresp.WriteJSONResponse(ctx.Writer, ans)
}

// Export godoc
// @Summary      Export
// @Description  Extract vocabulary of a document batch and append new cards to the configured deck. Previously exported items are deduplicated.
// @Accept       json
// @Produce      json
// @Param        req body exportRequest true "documents and extraction options"
// @Success      200 {object} results.VocabExport
// @Router       /export [post]
func (a *Actions) Export(ctx *gin.Context) {
	var req exportRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		uniresp.RespondWithErrorJSON(ctx, err, http.StatusBadRequest)
		return
	}
	if len(req.Docs) == 0 {
		uniresp.RespondWithErrorJSON(
			ctx, fmt.Errorf("empty document batch"), http.StatusUnprocessableEntity)
		return
	}
	query, err := rdb.NewQuery(
		rdb.FuncExportVocab,
		rdb.ExportArgs{Docs: req.Docs, Conf: req.Options.apply(a.baseConf)},
	)
	if err != nil {
		uniresp.RespondWithErrorJSON(ctx, err, http.StatusInternalServerError)
		return
	}
	rawResult, ok := a.publishAndWait(ctx, query)
	if !ok {
		return
	}
	ans, err := rdb.DeserializeVocabExportResult(rawResult)
	if err != nil {
		uniresp.RespondWithErrorJSON(ctx, err, http.StatusInternalServerError)
		return
	}
	if ans.Err() != nil {
		uniresp.RespondWithErrorJSON(ctx, ans.Err(), http.StatusUnprocessableEntity)
		return
	}
	uniresp.WriteJSONResponse(ctx.Writer, ans)
}

// ZipfOf godoc
// @Summary      ZipfOf
// @Description  Look up the global Zipf frequency of a lemma in the configured frequency dictionary.
// @Produce      json
// @Param        lemma path string true "a lemma to look up"
// @Success      200 {object} results.ZipfProbe
// @Router       /zipf/{lemma} [get]
func (a *Actions) ZipfOf(ctx *gin.Context) {
	query, err := rdb.NewQuery(
		rdb.FuncZipfProbe,
		rdb.ZipfProbeArgs{Lemma: ctx.Param("lemma")},
	)
	if err != nil {
		uniresp.RespondWithErrorJSON(ctx, err, http.StatusInternalServerError)
		return
	}
	rawResult, ok := a.publishAndWait(ctx, query)
	if !ok {
		return
	}
	ans, err := rdb.DeserializeZipfProbeResult(rawResult)
	if err != nil {
		uniresp.RespondWithErrorJSON(ctx, err, http.StatusInternalServerError)
		return
	}
	uniresp.WriteJSONResponse(ctx.Writer, ans)
}

// DeckInfo godoc
// @Summary      DeckInfo
// @Description  Show the size of the export deck and of the dedup state.
// @Produce      json
// @Success      200 {object} results.DeckInfo
// @Router       /deck/info [get]
func (a *Actions) DeckInfo(ctx *gin.Context) {
	query, err := rdb.NewQuery(rdb.FuncDeckInfo, rdb.DeckInfoArgs{})
	if err != nil {
		uniresp.RespondWithErrorJSON(ctx, err, http.StatusInternalServerError)
		return
	}
	rawResult, ok := a.publishAndWait(ctx, query)
	if !ok {
		return
	}
	ans, err := rdb.DeserializeDeckInfoResult(rawResult)
	if err != nil {
		uniresp.RespondWithErrorJSON(ctx, err, http.StatusInternalServerError)
		return
	}
	if ans.Err() != nil {
		uniresp.RespondWithErrorJSON(ctx, ans.Err(), http.StatusConflict)
		return
	}
	uniresp.WriteJSONResponse(ctx.Writer, ans)
}

func NewActions(radapter *rdb.Adapter, baseConf pipeline.Conf) *Actions {
	return &Actions{
		radapter: radapter,
		baseConf: baseConf,
	}
}
