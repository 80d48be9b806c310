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
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"

	"github.com/bytedance/sonic"
	"github.com/rs/zerolog/log"

	"plvocab/cnf"
	"plvocab/input"
	"plvocab/pipeline"
	"plvocab/rdb"
)

func detectFormat(path string) string {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".html", ".htm":
		return input.FormatHTML
	case ".vtt":
		return input.FormatVTT
	}
	return input.FormatPlain
}

func loadDocuments(paths []string) ([]pipeline.Document, error) {
	ans := make([]pipeline.Document, 0, len(paths))
	for _, path := range paths {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read input file: %w", err)
		}
		ans = append(ans, pipeline.Document{
			ID:     strings.TrimSuffix(filepath.Base(path), filepath.Ext(path)),
			Data:   string(data),
			Format: detectFormat(path),
		})
	}
	return ans, nil
}

// runBatchExtract processes input files directly, without the job
// queue. With doExport on, new cards are appended to the deck the
// same way a worker would do it.
func runBatchExtract(conf *cnf.Conf, paths []string, doExport bool) {
	if len(paths) == 0 {
		log.Fatal().Msg("no input files specified")
		return
	}
	if doExport && conf.Export == nil {
		log.Fatal().Msg("export requested but not configured")
		return
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// the adapter is needed here only if the dedup state lives in Redis
	radapter := rdb.NewAdapter(ctx, conf.Redis)
	env, err := buildWorkerEnv(ctx, conf, radapter)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to initialize extraction")
		return
	}
	defer func() {
		if env.Tracker != nil {
			if err := env.Tracker.Close(); err != nil {
				log.Error().Err(err).Msg("failed to close export tracker")
			}
		}
	}()

	docs, err := loadDocuments(paths)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load input files")
		return
	}

	summary, err := env.Pipeline.ProcessBatch(ctx, docs, *conf.Extraction, doExport)
	if err != nil {
		log.Fatal().Err(err).Msg("batch processing failed")
		return
	}
	log.Info().Object("summary", summary).Msg("finished batch run")
	rawSummary, err := sonic.MarshalIndent(summary, "", "  ")
	if err != nil {
		log.Fatal().Err(err).Msg("failed to serialize run summary")
		return
	}
	fmt.Println(string(rawSummary))
}
