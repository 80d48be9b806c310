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

// Package pipeline runs the per-document processing chain:
// input normalization, tokenization/lemmatization, aggregation,
// scoring, filtering/ranking and (optionally) deduplicated
// export. Errors local to one document are contained and
// reported per item; only structural failures abort a batch.
package pipeline

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"plvocab/export"
	"plvocab/gloss"
	"plvocab/input"
	"plvocab/lemmatize"
	"plvocab/verror"
	"plvocab/vocab"
)

// Conf bundles the per-run processing options. The zero value is
// not usable; obtain defaults via ValidateAndDefaults.
type Conf struct {
	Scoring vocab.ScoringConf   `json:"scoring" yaml:"scoring"`
	Filter  vocab.FilterOptions `json:"filter" yaml:"filter"`

	// StartMarker and EndMarker cut a single article out of a
	// full HTML page (both must match to take effect).
	StartMarker string `json:"startMarker,omitempty" yaml:"startMarker,omitempty"`
	EndMarker   string `json:"endMarker,omitempty" yaml:"endMarker,omitempty"`

	// AttachExamples looks up an example sentence for each ranked
	// lemma in the source document.
	AttachExamples bool `json:"attachExamples" yaml:"attachExamples"`
}

func (conf *Conf) ValidateAndDefaults() error {
	if conf.Scoring == (vocab.ScoringConf{}) {
		conf.Scoring = vocab.DfltScoringConf()
		log.Warn().
			Float64("balanceWeight", conf.Scoring.BalanceWeight).
			Msg("extraction.scoring not specified, using defaults")
	}
	if err := conf.Scoring.Validate(); err != nil {
		return err
	}
	if conf.Filter.MaxRowsPerDoc == 0 {
		conf.Filter.MaxRowsPerDoc = vocab.DfltMaxRowsPerDoc
		log.Warn().
			Int("maxRowsPerDoc", conf.Filter.MaxRowsPerDoc).
			Msg("extraction.filter.maxRowsPerDoc not specified, using default")
	}
	return conf.Filter.Validate()
}

// Document is a single input item of a batch.
type Document struct {
	ID     string `json:"id"`
	Data   string `json:"data"`
	Format string `json:"format"`
}

// DocResult carries the ranked output of one document.
type DocResult struct {
	DocID       string            `json:"docId"`
	TotalTokens int               `json:"totalTokens"`
	NumLemmas   int               `json:"numLemmas"`
	Rows        []vocab.RankedRow `json:"rows"`

	// Examples maps lemma to an example sentence found in the
	// document (filled only with AttachExamples on).
	Examples map[string]string `json:"examples,omitempty"`
}

// ExportStats counts the outcomes of offering one document's
// rows to the dedup/export tracker.
type ExportStats struct {
	NumExported     int `json:"numExported"`
	NumDeduplicated int `json:"numDeduplicated"`
	NumOversize     int `json:"numOversize"`
}

// Pipeline owns the external boundaries for the lifetime of a
// process: the lemmatizer and the frequency source may be slow
// to initialize and are acquired once, not per document.
type Pipeline struct {
	lemmatizer lemmatize.Lemmatizer
	zipfSrc    vocab.ZipfSource
	glosser    gloss.Provider
	tracker    *export.Tracker
}

// New creates a pipeline. The tracker may be nil for
// extract-only deployments (no export operation available then).
func New(
	lemmatizer lemmatize.Lemmatizer,
	zipfSrc vocab.ZipfSource,
	glosser gloss.Provider,
	tracker *export.Tracker,
) *Pipeline {
	return &Pipeline{
		lemmatizer: lemmatizer,
		zipfSrc:    zipfSrc,
		glosser:    glosser,
		tracker:    tracker,
	}
}

// Extract runs one document through tokenization, aggregation,
// scoring and ranking. An empty document (no tokens after
// normalization) yields an InputError; the caller skips the item
// and continues with the batch.
func (p *Pipeline) Extract(ctx context.Context, doc Document, conf Conf) (DocResult, error) {
	text, err := input.Text(doc.Data, doc.Format, conf.StartMarker, conf.EndMarker)
	if err != nil {
		return DocResult{}, verror.InputError{
			Msg: fmt.Sprintf("document %s: %s", doc.ID, err)}
	}
	tokens, err := p.lemmatizer.Lemmatize(ctx, doc.ID, text)
	if err != nil {
		return DocResult{}, fmt.Errorf("document %s: %w", doc.ID, err)
	}
	agg := vocab.Aggregate(tokens)
	if agg.TotalTokens == 0 {
		return DocResult{}, verror.InputError{
			Msg: fmt.Sprintf("document %s contains no tokens", doc.ID)}
	}
	// global lookups are memoized for the scope of this document run
	memo := vocab.NewMemoZipf(p.zipfSrc)
	scores, err := vocab.ScoreAll(agg, memo, conf.Scoring)
	if err != nil {
		return DocResult{}, err
	}
	rows := vocab.Rank(agg, scores, doc.ID, conf.Filter)
	ans := DocResult{
		DocID:       doc.ID,
		TotalTokens: agg.TotalTokens,
		NumLemmas:   len(agg.Records),
		Rows:        rows,
	}
	if conf.AttachExamples {
		ans.Examples = findExamples(text, rows)
	}
	return ans, nil
}

// Export offers the ranked rows of a document to the shared
// tracker. Gloss lookups are best-effort side augmentations;
// a failed or slow gloss never blocks the export.
func (p *Pipeline) Export(ctx context.Context, res DocResult) (ExportStats, error) {
	if p.tracker == nil {
		return ExportStats{}, verror.InternalError{Msg: "export not configured"}
	}
	var ans ExportStats
	for _, row := range res.Rows {
		rec := export.Record{
			Front:   row.Form,
			Tags:    res.DocID,
			Example: res.Examples[row.Lemma],
		}
		if rec.Oversize() {
			ans.NumOversize++
			continue
		}
		// the gloss does not enter the dedup key, so duplicates
		// are rejected before spending a remote lookup on them
		seen, err := p.tracker.Seen(rec)
		if err != nil {
			return ans, err
		}
		if seen {
			ans.NumDeduplicated++
			continue
		}
		rec.Back = p.cardBack(ctx, row)
		added, err := p.tracker.Offer(rec)
		if err != nil {
			return ans, err
		}
		if added {
			ans.NumExported++

		} else {
			ans.NumDeduplicated++
		}
	}
	return ans, nil
}

func (p *Pipeline) cardBack(ctx context.Context, row vocab.RankedRow) string {
	var items []string
	if g := p.glosser.Gloss(ctx, row.Lemma); g != "" {
		items = append(items, g)
	}
	if len(row.Forms) > 1 || (len(row.Forms) == 1 && row.Forms[0] != row.Form) {
		items = append(items, fmt.Sprintf("(%s)", strings.Join(row.Forms, ", ")))
	}
	if len(items) == 0 {
		return row.Lemma
	}
	return strings.Join(items, " ")
}

// ProcessBatch runs documents sequentially through Extract and,
// when doExport is on, Export. Per-document failures are
// collected into the summary; a tracker failure is structural
// and aborts the batch.
func (p *Pipeline) ProcessBatch(ctx context.Context, docs []Document, conf Conf, doExport bool) (Summary, error) {
	t0 := time.Now()
	ans := Summary{
		RunID:   uuid.New().String(),
		NumDocs: len(docs),
	}
	for _, doc := range docs {
		res, err := p.Extract(ctx, doc, conf)
		if err != nil {
			log.Warn().Err(err).Str("docId", doc.ID).Msg("skipping document")
			ans.Skipped = append(ans.Skipped, SkippedItem{DocID: doc.ID, Reason: err.Error()})
			continue
		}
		ans.NumProcessed++
		ans.TotalTokens += res.TotalTokens
		ans.NumRanked += len(res.Rows)
		if doExport {
			stats, err := p.Export(ctx, res)
			ans.NumExported += stats.NumExported
			ans.NumDeduplicated += stats.NumDeduplicated
			ans.NumOversize += stats.NumOversize
			if err != nil {
				return ans, fmt.Errorf("failed to export document %s: %w", doc.ID, err)
			}
		}
	}
	ans.ProcTimeSecs = time.Since(t0).Seconds()
	return ans, nil
}
