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
	"math"
	"testing"

	"plvocab/verror"

	"github.com/stretchr/testify/assert"
)

type fakeZipf struct {
	values map[string]float64
	calls  map[string]int
}

func newFakeZipf(values map[string]float64) *fakeZipf {
	return &fakeZipf{values: values, calls: make(map[string]int)}
}

func (fz *fakeZipf) ZipfFrequency(lemma string) (float64, bool) {
	fz.calls[lemma]++
	v, ok := fz.values[lemma]
	return v, ok
}

func TestLocalZipfValue(t *testing.T) {
	// 10 occurrences in 1000 tokens = 10000 per million
	v := LocalZipf(10, 1000, 0)
	assert.InDelta(t, 7.0, v, 1e-12)
}

func TestLocalZipfFloored(t *testing.T) {
	conf := DfltScoringConf()
	v := LocalZipf(0, 1000, conf.LocalZipfFloor)
	assert.Equal(t, conf.LocalZipfFloor, v)
}

func TestScoreLemmaDeterminism(t *testing.T) {
	src := newFakeZipf(map[string]float64{"kot": 5.1})
	conf := DfltScoringConf()
	conf.BalanceWeight = 0.37
	s1, err := ScoreLemma("kot", 4, 120, src, conf)
	assert.NoError(t, err)
	s2, err := ScoreLemma("kot", 4, 120, src, conf)
	assert.NoError(t, err)
	assert.Equal(t, s1.Blended, s2.Blended)
}

func TestScoreLemmaPureLocal(t *testing.T) {
	// weight 0 must ignore the global frequency entirely
	conf := DfltScoringConf()
	conf.BalanceWeight = 0
	s1, err := ScoreLemma("kot", 5, 100, newFakeZipf(map[string]float64{"kot": 6.0}), conf)
	assert.NoError(t, err)
	s2, err := ScoreLemma("kot", 5, 100, newFakeZipf(map[string]float64{"kot": 1.5}), conf)
	assert.NoError(t, err)
	assert.Equal(t, s1.Blended, s2.Blended)
	assert.Equal(t, s1.LocalZipf, s1.Blended)
}

func TestScoreLemmaPureNovelty(t *testing.T) {
	conf := DfltScoringConf()
	conf.BalanceWeight = 1
	src := newFakeZipf(map[string]float64{"kot": 4.5})
	s, err := ScoreLemma("kot", 5, 100, src, conf)
	assert.NoError(t, err)
	assert.InDelta(t, s.LocalZipf-4.5, s.Blended, 1e-12)
}

func TestScoreLemmaUnknownGlobal(t *testing.T) {
	conf := DfltScoringConf()
	src := newFakeZipf(map[string]float64{})
	s, err := ScoreLemma("rzadkiew", 3, 100, src, conf)
	assert.NoError(t, err)
	assert.False(t, s.GlobalKnown)
	assert.Equal(t, conf.UnknownGlobalZipf, s.GlobalZipf)
	assert.False(t, math.IsNaN(s.Blended))
	assert.False(t, math.IsInf(s.Blended, 0))
}

func TestScoreAllEmptyDocument(t *testing.T) {
	agg := Aggregate(nil)
	_, err := ScoreAll(agg, newFakeZipf(nil), DfltScoringConf())
	assert.ErrorAs(t, err, &verror.InputError{})
}

func TestScoringConfValidate(t *testing.T) {
	conf := DfltScoringConf()
	assert.NoError(t, conf.Validate())
	conf.BalanceWeight = 1.2
	assert.Error(t, conf.Validate())
	conf.BalanceWeight = -0.1
	assert.Error(t, conf.Validate())
}

func TestMemoZipfCachesLookups(t *testing.T) {
	src := newFakeZipf(map[string]float64{"kot": 5.0})
	memo := NewMemoZipf(src)
	for i := 0; i < 5; i++ {
		v, ok := memo.ZipfFrequency("kot")
		assert.True(t, ok)
		assert.Equal(t, 5.0, v)
		_, ok = memo.ZipfFrequency("pies")
		assert.False(t, ok)
	}
	assert.Equal(t, 1, src.calls["kot"])
	assert.Equal(t, 1, src.calls["pies"])
}
