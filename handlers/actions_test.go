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

package handlers

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"plvocab/pipeline"
	"plvocab/vocab"
)

func baseConf(t *testing.T) pipeline.Conf {
	t.Helper()
	conf := pipeline.Conf{}
	assert.NoError(t, conf.ValidateAndDefaults())
	return conf
}

func TestOptionsNilKeepsDefaults(t *testing.T) {
	base := baseConf(t)
	var opts *ExtractionOptions
	ans := opts.apply(base)
	assert.Equal(t, base, ans)
}

func TestOptionsPatchOverrides(t *testing.T) {
	base := baseConf(t)
	weight := 0.8
	zipfMax := 5.0
	maxRows := 10
	singletons := true
	opts := &ExtractionOptions{
		BalanceWeight:     &weight,
		ZipfMax:           &zipfMax,
		MaxRowsPerDoc:     &maxRows,
		IncludeSingletons: &singletons,
		IgnoreLemmas:      []string{"być"},
	}
	ans := opts.apply(base)
	assert.Equal(t, 0.8, ans.Scoring.BalanceWeight)
	assert.Equal(t, 5.0, *ans.Filter.ZipfMax)
	assert.Nil(t, ans.Filter.ZipfMin)
	assert.Equal(t, 10, ans.Filter.MaxRowsPerDoc)
	assert.True(t, ans.Filter.IncludeSingletons)
	assert.Equal(t, []string{"być"}, ans.Filter.IgnoreLemmas)
}

func TestOptionsPatchLeavesBaseUntouched(t *testing.T) {
	base := baseConf(t)
	weight := 1.0
	opts := &ExtractionOptions{BalanceWeight: &weight}
	opts.apply(base)
	assert.Equal(t, vocab.DfltScoringConf().BalanceWeight, base.Scoring.BalanceWeight)
}
