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
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"

	"plvocab/freqdict"
	"plvocab/gloss"
	"plvocab/lemmatize"
	"plvocab/pipeline"
	"plvocab/rdb"
	"plvocab/vocab"
)

func testWorker(t *testing.T) *Worker {
	t.Helper()
	dict := freqdict.Static{"kot": 5.3}
	return &Worker{
		ID: "test",
		env: &Env{
			Pipeline: pipeline.New(&lemmatize.RegexTokenizer{}, dict, gloss.Null{}, nil),
			ZipfSrc:  dict,
			Scoring:  vocab.DfltScoringConf(),
		},
	}
}

func TestZipfProbeKnownLemma(t *testing.T) {
	w := testWorker(t)
	ans := w.zipfProbe(rdb.ZipfProbeArgs{Lemma: "kot"})
	assert.True(t, ans.Known)
	assert.Equal(t, 5.3, ans.Zipf)
}

func TestZipfProbeUnknownLemmaUsesFloor(t *testing.T) {
	w := testWorker(t)
	ans := w.zipfProbe(rdb.ZipfProbeArgs{Lemma: "niematakiego"})
	assert.False(t, ans.Known)
	assert.Equal(t, vocab.DfltUnknownGlobalZipf, ans.Zipf)
}

func TestExtractVocabReportsDocumentError(t *testing.T) {
	w := testWorker(t)
	ans := w.extractVocab(context.Background(), rdb.ExtractArgs{
		Doc: pipeline.Document{ID: "doc1", Data: "   "},
	})
	assert.Equal(t, "doc1", ans.DocID)
	assert.Error(t, ans.Err())
}

func TestDeckInfoWithoutExport(t *testing.T) {
	w := testWorker(t)
	ans := w.deckInfo(rdb.DeckInfoArgs{})
	assert.Error(t, ans.Err())
}

func TestCountDeckRows(t *testing.T) {
	path := filepath.Join(t.TempDir(), "deck.tsv")
	assert.NoError(t, os.WriteFile(path, []byte("kot\tcat\tdoc1\npies\tdog\tdoc1\n"), 0644))
	ans, err := countDeckRows(path)
	assert.NoError(t, err)
	assert.Equal(t, 2, ans)
}

func TestCountDeckRowsMissingFile(t *testing.T) {
	ans, err := countDeckRows(filepath.Join(t.TempDir(), "nope.tsv"))
	assert.NoError(t, err)
	assert.Equal(t, 0, ans)
}
