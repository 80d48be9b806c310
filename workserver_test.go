// Copyright 2024 Tomas Machalek <tomas.machalek@gmail.com>
// Copyright 2024 Institute of the Czech National Corpus,
//                Faculty of Arts, Charles University
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
// http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package main

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"

	"plvocab/cnf"
	"plvocab/export"
	"plvocab/freqdict"
	"plvocab/lemmatize"
	"plvocab/pipeline"
)

func testWorkerConf(t *testing.T) *cnf.Conf {
	t.Helper()
	dir := t.TempDir()
	freqPath := filepath.Join(dir, "freq.tsv")
	assert.NoError(t, os.WriteFile(freqPath, []byte("kot\t5.3\n"), 0644))
	conf := &cnf.Conf{
		Extraction: &pipeline.Conf{},
		Lemmatizer: &lemmatize.Conf{},
		FreqDict:   &freqdict.Conf{Path: freqPath},
		Export: &export.Conf{
			DeckPath: filepath.Join(dir, "deck.tsv"),
		},
	}
	assert.NoError(t, conf.Extraction.ValidateAndDefaults())
	assert.NoError(t, conf.Lemmatizer.ValidateAndDefaults())
	assert.NoError(t, conf.FreqDict.ValidateAndDefaults())
	assert.NoError(t, conf.Export.ValidateAndDefaults())
	return conf
}

func TestBuildWorkerEnvCorruptDedupStateProceeds(t *testing.T) {
	conf := testWorkerConf(t)
	assert.NoError(t, os.WriteFile(conf.Export.StatePath, []byte{0xff, 0xfe, 0x00, 0x80}, 0644))

	env, err := buildWorkerEnv(context.Background(), conf, nil)
	assert.NoError(t, err)
	assert.NotNil(t, env)
	assert.NotNil(t, env.Tracker)
	defer env.Tracker.Close()

	// the empty in-memory key set accepts fresh records
	added, err := env.Tracker.Offer(export.Record{Front: "kot", Back: "cat", Tags: "doc1"})
	assert.NoError(t, err)
	assert.True(t, added)
}

func TestBuildWorkerEnvStructuralFailureAborts(t *testing.T) {
	conf := testWorkerConf(t)
	conf.Export.DeckPath = filepath.Join(filepath.Dir(conf.Export.DeckPath), "missing", "deck.tsv")

	_, err := buildWorkerEnv(context.Background(), conf, nil)
	assert.Error(t, err)
}
