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
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"sync"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"plvocab/cnf"
	"plvocab/export"
	"plvocab/freqdict"
	"plvocab/gloss"
	"plvocab/lemmatize"
	"plvocab/monitoring"
	monitoringHandlers "plvocab/monitoring/handlers"
	"plvocab/pipeline"
	"plvocab/rdb"
	"plvocab/verror"
	"plvocab/worker"
)

func getWorkerID() (workerID string) {
	workerID = getEnv("WORKER_ID")
	if workerID == "" {
		workerID = strconv.Itoa(os.Getpid())
	}
	return
}

// openKeyStore creates the dedup key store matching the
// configured backend. The Redis variant shares the queue
// adapter's connection.
func openKeyStore(ctx context.Context, conf *cnf.Conf, radapter *rdb.Adapter) (export.KeyStore, error) {
	switch conf.Export.Backend {
	case export.BackendFile:
		return export.OpenFileKeyStore(conf.Export.StatePath)
	case export.BackendRedis:
		return export.NewRedisKeyStore(ctx, radapter.Client(), conf.Export.RedisKey), nil
	case export.BackendPostgres:
		return export.OpenPGKeyStore(ctx, conf.Export.PostgresDSN)
	}
	return nil, fmt.Errorf("unknown export backend: %s", conf.Export.Backend)
}

func buildWorkerEnv(ctx context.Context, conf *cnf.Conf, radapter *rdb.Adapter) (*worker.Env, error) {
	freqDict, err := freqdict.Load(conf.FreqDict)
	if err != nil {
		return nil, fmt.Errorf("failed to load frequency dictionary: %w", err)
	}
	log.Info().
		Int("numEntries", freqDict.Size()).
		Str("path", conf.FreqDict.Path).
		Msg("loaded frequency dictionary")

	env := &worker.Env{
		ZipfSrc: freqDict,
		Scoring: conf.Extraction.Scoring,
	}

	if conf.Export != nil {
		store, err := openKeyStore(ctx, conf, radapter)
		if err != nil {
			// an unreadable persisted key set is recoverable: the
			// store comes back usable with an empty read set and the
			// artifact stays untouched
			if errors.As(err, &verror.StateError{}) && store != nil {
				log.Warn().
					Err(err).
					Msg("dedup state unreadable, continuing with an empty in-memory key set")

			} else {
				return nil, fmt.Errorf("failed to open dedup key store: %w", err)
			}
		}
		deck, err := export.OpenDeckWriter(conf.Export.DeckPath)
		if err != nil {
			return nil, fmt.Errorf("failed to open deck file: %w", err)
		}
		env.Tracker = export.NewTracker(store, deck)
		env.ExportConf = conf.Export

	} else {
		log.Warn().Msg("export not configured, the worker will serve extraction only")
	}

	var glosser gloss.Provider
	if conf.Gloss != nil {
		glosser = gloss.NewProvider(conf.Gloss)

	} else {
		glosser = gloss.Null{}
	}

	env.Pipeline = pipeline.New(
		lemmatize.NewLemmatizer(conf.Lemmatizer),
		freqDict,
		glosser,
		env.Tracker,
	)
	return env, nil
}

// -------

type statusServer struct {
	server *http.Server
	conf   *cnf.Conf
	logger *monitoring.WorkerJobLogger
}

func (api *statusServer) Start(ctx context.Context) {
	engine := gin.New()
	engine.Use(gin.Recovery())
	actions := monitoringHandlers.NewActions(api.logger, api.conf.TimezoneLocation())
	engine.GET("/workers/load", actions.WorkersLoad)
	engine.GET("/workers/jobs", actions.RecentRecords)
	engine.GET("/workers/:workerId/load", actions.SingleWorkerLoad)
	addr := fmt.Sprintf("%s:%d", api.conf.ListenAddress, api.conf.WorkerStatusListenPort)
	log.Info().Msgf("starting worker status server at %s", addr)
	api.server = &http.Server{
		Handler: engine,
		Addr:    addr,
	}
	go func() {
		if err := api.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("worker status server error")
		}
	}()
}

func (api *statusServer) Stop(ctx context.Context) error {
	log.Warn().Msg("shutting down worker status server")
	return api.server.Shutdown(ctx)
}

// -------

func runWorker(conf *cnf.Conf) {
	workerID := getWorkerID()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	radapter := rdb.NewAdapter(ctx, conf.Redis)

	err := radapter.TestConnection(redisConnectionTestTimeout)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to Redis")
	}

	env, err := buildWorkerEnv(ctx, conf, radapter)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to initialize worker")
	}
	defer func() {
		if env.Tracker != nil {
			if err := env.Tracker.Close(); err != nil {
				log.Error().Err(err).Msg("failed to close export tracker")
			}
		}
	}()

	jobLogger := monitoring.NewWorkerJobLogger(
		monitoring.LogStatusWriter{}, conf.TimezoneLocation())
	jobLogger.Start(ctx)

	ch := radapter.Subscribe()
	wrk := worker.NewWorker(workerID, radapter, ch, env, jobLogger)

	services := []service{wrk}
	if conf.WorkerStatusListenPort > 0 {
		services = append(services, &statusServer{conf: conf, logger: jobLogger})
	}
	for _, m := range services {
		m.Start(ctx)
	}
	<-ctx.Done()
	log.Warn().Msg("shutdown signal received")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	var wg sync.WaitGroup
	for _, s := range services {
		wg.Add(1)
		go func(srv service) {
			defer wg.Done()
			if err := srv.Stop(shutdownCtx); err != nil {
				log.Error().Err(err).Type("service", srv).Msg("Error shutting down service")
			}
		}(s)
	}

	done := make(chan struct{})
	go func() {
		wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		log.Info().Msg("Graceful shutdown completed")
	case <-shutdownCtx.Done():
		log.Warn().Msg("Shutdown timed out")
	}
}
