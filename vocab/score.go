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

package vocab

import (
	"fmt"
	"math"

	"plvocab/verror"
)

const (
	// DfltUnknownGlobalZipf is substituted for lemmas missing from
	// the reference corpus. The low value biases unknown words
	// toward high novelty.
	DfltUnknownGlobalZipf = 1.0

	// DfltLocalZipfFloor is the minimum local Zipf value; it keeps
	// singleton occurrences in very short documents from producing
	// negative or undefined scores.
	DfltLocalZipfFloor = 0.0
)

// ZipfSource provides global (reference corpus) frequency
// estimates on the Zipf scale. The second return value is false
// when the lemma is not present in the reference corpus.
type ZipfSource interface {
	ZipfFrequency(lemma string) (float64, bool)
}

// ScoringConf collects the tunable constants of the scorer.
// These are policy choices, not physical constants, and are
// therefore exposed through configuration.
type ScoringConf struct {
	// BalanceWeight is the local-vs-global blend in [0, 1]:
	// 0 = pure local frequency ranking, 1 = pure novelty
	// (local minus global) ranking.
	BalanceWeight float64 `json:"balanceWeight" yaml:"balanceWeight"`

	// LocalZipfFloor is the minimum allowed local Zipf value
	LocalZipfFloor float64 `json:"localZipfFloor" yaml:"localZipfFloor"`

	// UnknownGlobalZipf substitutes the global Zipf value of
	// lemmas unknown to the reference corpus
	UnknownGlobalZipf float64 `json:"unknownGlobalZipf" yaml:"unknownGlobalZipf"`
}

func (conf ScoringConf) Validate() error {
	if conf.BalanceWeight < 0 || conf.BalanceWeight > 1 {
		return verror.InputError{
			Msg: fmt.Sprintf("balanceWeight must be in [0, 1], got %01.2f", conf.BalanceWeight)}
	}
	return nil
}

// DfltScoringConf returns the default scorer tuning.
func DfltScoringConf() ScoringConf {
	return ScoringConf{
		BalanceWeight:     0.5,
		LocalZipfFloor:    DfltLocalZipfFloor,
		UnknownGlobalZipf: DfltUnknownGlobalZipf,
	}
}

// Score is the frequency score of a single lemma. Given the same
// (count, total tokens, global frequency, weight), the blended
// value is bit-for-bit reproducible.
type Score struct {
	Lemma       string  `json:"lemma"`
	LocalCount  int     `json:"localCount"`
	LocalZipf   float64 `json:"localZipf"`
	GlobalZipf  float64 `json:"globalZipf"`
	GlobalKnown bool    `json:"globalKnown"`
	Blended     float64 `json:"blended"`
}

// LocalZipf converts a raw occurrence count into a Zipf-like
// logarithmic value: log10 of occurrences per million tokens,
// shifted by 3, floored at floor.
func LocalZipf(count, totalTokens int, floor float64) float64 {
	perMillion := float64(count) / float64(totalTokens) * 1e6
	ans := math.Log10(perMillion) + 3
	if ans < floor || math.IsInf(ans, -1) || math.IsNaN(ans) {
		return floor
	}
	return ans
}

// BlendScore combines local and global Zipf values:
// weight * (local - global) + (1 - weight) * local.
func BlendScore(localZipf, globalZipf, weight float64) float64 {
	return weight*(localZipf-globalZipf) + (1-weight)*localZipf
}

// ScoreLemma scores a single lemma. totalTokens must be positive.
func ScoreLemma(lemma string, count, totalTokens int, src ZipfSource, conf ScoringConf) (Score, error) {
	if totalTokens <= 0 {
		return Score{}, verror.InputError{
			Msg: fmt.Sprintf("cannot score lemma %s: document has no tokens", lemma)}
	}
	ans := Score{
		Lemma:      lemma,
		LocalCount: count,
		LocalZipf:  LocalZipf(count, totalTokens, conf.LocalZipfFloor),
	}
	gz, known := src.ZipfFrequency(lemma)
	if !known {
		gz = conf.UnknownGlobalZipf
	}
	ans.GlobalZipf = gz
	ans.GlobalKnown = known
	ans.Blended = BlendScore(ans.LocalZipf, ans.GlobalZipf, conf.BalanceWeight)
	return ans, nil
}

// ScoreAll scores every lemma of an aggregation. An aggregation
// with zero tokens (i.e. an empty document which should have been
// skipped upstream) produces an InputError.
func ScoreAll(agg Aggregation, src ZipfSource, conf ScoringConf) (map[string]Score, error) {
	if agg.TotalTokens == 0 {
		return nil, verror.InputError{Msg: "cannot score an empty document"}
	}
	ans := make(map[string]Score, len(agg.Records))
	for lemma, rec := range agg.Records {
		score, err := ScoreLemma(lemma, rec.Total, agg.TotalTokens, src, conf)
		if err != nil {
			return nil, err
		}
		ans[lemma] = score
	}
	return ans, nil
}

// ---------------------------------

// MemoZipf caches the answers of a wrapped ZipfSource for the
// lifetime of a run. The underlying lookup may be slow (external
// model or large on-disk table) and must not be hit repeatedly
// for the same lemma.
type MemoZipf struct {
	src   ZipfSource
	cache map[string]memoZipfItem
}

type memoZipfItem struct {
	value float64
	known bool
}

func (m *MemoZipf) ZipfFrequency(lemma string) (float64, bool) {
	if item, ok := m.cache[lemma]; ok {
		return item.value, item.known
	}
	value, known := m.src.ZipfFrequency(lemma)
	m.cache[lemma] = memoZipfItem{value: value, known: known}
	return value, known
}

// NewMemoZipf wraps src with a per-run memoization cache.
// The wrapper is not safe for concurrent use; each worker run
// owns its own instance.
func NewMemoZipf(src ZipfSource) *MemoZipf {
	return &MemoZipf{
		src:   src,
		cache: make(map[string]memoZipfItem),
	}
}
