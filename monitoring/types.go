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
	"time"

	"github.com/bytedance/sonic"
	"github.com/rs/zerolog/log"

	"plvocab/rdb"
)

// WorkerLoad is an aggregated account of jobs done either by a
// single worker or by all of them together.
type WorkerLoad struct {
	NumJobs       int
	TotalTimeSecs float64
	NumErrors     int
	FirstUpdate   time.Time
	LastUpdate    time.Time
	NumWorkers    int
}

// TotalSpan returns time span covered by the load info
func (wl WorkerLoad) TotalSpan() time.Duration {
	return wl.LastUpdate.Sub(wl.FirstUpdate)
}

func (wl WorkerLoad) AvgLoad() float64 {
	if wl.TotalTimeSecs == 0 || wl.NumWorkers == 0 {
		return 0
	}
	span := wl.TotalSpan().Seconds()
	if span == 0 {
		return 0
	}
	return wl.TotalTimeSecs / span / float64(wl.NumWorkers)
}

func (wl WorkerLoad) MarshalJSON() ([]byte, error) {
	var t0, t1 *time.Time
	if !wl.FirstUpdate.IsZero() {
		t0 = &wl.FirstUpdate
	}
	if !wl.LastUpdate.IsZero() {
		t1 = &wl.LastUpdate
	}
	return sonic.Marshal(
		struct {
			NumJobs       int        `json:"numJobs"`
			TotalTimeSecs float64    `json:"totalTimeSecs"`
			NumErrors     int        `json:"numErrors"`
			FirstUpdate   *time.Time `json:"firstUpdate,omitempty"`
			LastUpdate    *time.Time `json:"lastUpdate,omitempty"`
			AvgLoad       float64    `json:"avgLoad"`
		}{
			NumJobs:       wl.NumJobs,
			TotalTimeSecs: wl.TotalTimeSecs,
			NumErrors:     wl.NumErrors,
			FirstUpdate:   t0,
			LastUpdate:    t1,
			AvgLoad:       wl.AvgLoad(),
		},
	)
}

// ----

// WorkersLoad maps worker ID to its cumulative load.
type WorkersLoad map[string]WorkerLoad

func (wsl WorkersLoad) SumLoad(tz *time.Location) WorkerLoad {
	var ans WorkerLoad
	for _, item := range wsl {
		ans.NumJobs += item.NumJobs
		ans.NumErrors += item.NumErrors
		ans.TotalTimeSecs += item.TotalTimeSecs
		if ans.FirstUpdate.IsZero() || item.FirstUpdate.Before(ans.FirstUpdate) {
			ans.FirstUpdate = item.FirstUpdate
		}
		if item.LastUpdate.After(ans.LastUpdate) {
			ans.LastUpdate = item.LastUpdate
		}
		ans.NumWorkers++
	}
	if !ans.FirstUpdate.IsZero() {
		ans.FirstUpdate = ans.FirstUpdate.In(tz)
		ans.LastUpdate = ans.LastUpdate.In(tz)
	}
	return ans
}

func (wsl WorkersLoad) cleanOldRecords() {
	limit := time.Now().Add(-StaleWorkerLoadTTL)
	for workerID, item := range wsl {
		if item.LastUpdate.Before(limit) {
			delete(wsl, workerID)
		}
	}
}

// ----

// StatusWriter receives every finished job record. It is the
// durable counterpart of the in-memory load stats.
type StatusWriter interface {
	Write(item rdb.JobLog)
}

// LogStatusWriter reports finished jobs via the application log.
type LogStatusWriter struct{}

func (sw LogStatusWriter) Write(item rdb.JobLog) {
	evt := log.Info()
	if item.Err != nil {
		evt = log.Warn().Err(item.Err)
	}
	evt.
		Str("workerId", item.WorkerID).
		Str("func", item.Func).
		Float64("durationSecs", item.TimeSpent().Seconds()).
		Msg("finished worker job")
}
