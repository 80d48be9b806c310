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

package monitoring

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"plvocab/rdb"
)

func testLogger(t *testing.T) *WorkerJobLogger {
	t.Helper()
	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)
	logger := NewWorkerJobLogger(LogStatusWriter{}, time.UTC)
	logger.Start(ctx)
	return logger
}

func jobRec(workerID, fn string, dur time.Duration, err error) rdb.JobLog {
	begin := time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)
	return rdb.JobLog{
		WorkerID: workerID,
		Func:     fn,
		Begin:    begin,
		End:      begin.Add(dur),
		Err:      err,
	}
}

func TestLoggerAggregatesLoad(t *testing.T) {
	logger := testLogger(t)
	logger.Log(jobRec("w1", "extractVocab", 2*time.Second, nil))
	logger.Log(jobRec("w1", "exportVocab", 3*time.Second, errors.New("failed")))
	logger.Log(jobRec("w2", "zipfProbe", time.Second, nil))

	total := logger.TotalLoad()
	assert.Equal(t, 3, total.NumJobs)
	assert.Equal(t, 1, total.NumErrors)
	assert.Equal(t, 2, total.NumWorkers)
	assert.InDelta(t, 6.0, total.TotalTimeSecs, 0.001)
}

func TestLoggerSingleWorkerLoad(t *testing.T) {
	logger := testLogger(t)
	logger.Log(jobRec("w1", "extractVocab", 2*time.Second, nil))

	load, err := logger.TotalWorkerLoad("w1")
	assert.NoError(t, err)
	assert.Equal(t, 1, load.NumJobs)

	_, err = logger.TotalWorkerLoad("unknown")
	assert.Equal(t, ErrWorkerNotFound, err)

	_, err = logger.RecentWorkerLoad("unknown")
	assert.Equal(t, ErrWorkerNotFound, err)
}

func TestLoggerRecentRecordsOrder(t *testing.T) {
	logger := testLogger(t)
	logger.Log(jobRec("w1", "extractVocab", time.Second, nil))
	logger.Log(jobRec("w1", "deckInfo", time.Second, nil))

	recs := logger.RecentRecords()
	assert.Len(t, recs, 2)
	assert.Equal(t, "extractVocab", recs[0].Func)
	assert.Equal(t, "deckInfo", recs[1].Func)
}
