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

package worker

import (
	"bufio"
	"context"
	"os"

	"plvocab/export"
	"plvocab/pipeline"
	"plvocab/rdb"
	"plvocab/results"
	"plvocab/vocab"

	"github.com/czcorpus/cnc-gokit/fs"
)

// Env groups the shared resources all workers of a process use:
// the processing pipeline, a direct handle on the frequency
// source for probes and the export configuration for deck
// introspection. Tracker may be nil when export is not set up.
type Env struct {
	Pipeline   *pipeline.Pipeline
	ZipfSrc    vocab.ZipfSource
	Tracker    *export.Tracker
	ExportConf *export.Conf
	Scoring    vocab.ScoringConf
}

func (w *Worker) extractVocab(ctx context.Context, args rdb.ExtractArgs) results.VocabExtract {
	if err := args.Conf.ValidateAndDefaults(); err != nil {
		return results.VocabExtract{DocID: args.Doc.ID, Error: err.Error()}
	}
	res, err := w.env.Pipeline.Extract(ctx, args.Doc, args.Conf)
	if err != nil {
		return results.VocabExtract{DocID: args.Doc.ID, Error: err.Error()}
	}
	ans := results.VocabExtract{
		DocID:       res.DocID,
		TotalTokens: res.TotalTokens,
		NumLemmas:   res.NumLemmas,
		Rows:        res.Rows,
	}
	return ans.WithRoundedScores()
}

func (w *Worker) exportVocab(ctx context.Context, args rdb.ExportArgs) results.VocabExport {
	if err := args.Conf.ValidateAndDefaults(); err != nil {
		return results.VocabExport{Error: err.Error()}
	}
	summary, err := w.env.Pipeline.ProcessBatch(ctx, args.Docs, args.Conf, true)
	ans := results.VocabExport{Summary: summary}
	if err != nil {
		ans.Error = err.Error()
	}
	return ans
}

func (w *Worker) zipfProbe(args rdb.ZipfProbeArgs) results.ZipfProbe {
	zipf, known := w.env.ZipfSrc.ZipfFrequency(args.Lemma)
	if !known {
		zipf = w.env.Scoring.UnknownGlobalZipf
	}
	return results.ZipfProbe{
		Lemma: args.Lemma,
		Zipf:  results.NormRound(zipf),
		Known: known,
	}
}

func (w *Worker) deckInfo(args rdb.DeckInfoArgs) results.DeckInfo {
	if w.env.Tracker == nil || w.env.ExportConf == nil {
		return results.DeckInfo{Error: "export not configured"}
	}
	ans := results.DeckInfo{DeckPath: w.env.ExportConf.DeckPath}
	numSeen, err := w.env.Tracker.SeenKeys()
	if err != nil {
		ans.Error = err.Error()
		return ans
	}
	ans.SeenKeys = numSeen
	numRows, err := countDeckRows(w.env.ExportConf.DeckPath)
	if err != nil {
		ans.Error = err.Error()
		return ans
	}
	ans.NumRows = numRows
	return ans
}

func countDeckRows(path string) (int, error) {
	if !fs.PathExists(path) {
		return 0, nil
	}
	f, err := os.Open(path)
	if err != nil {
		return 0, err
	}
	defer f.Close()
	var ans int
	scn := bufio.NewScanner(f)
	for scn.Scan() {
		if len(scn.Bytes()) > 0 {
			ans++
		}
	}
	return ans, scn.Err()
}
