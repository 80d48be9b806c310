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

package rdb

import (
	"crypto/sha1"
	"encoding/hex"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"

	"plvocab/results"
)

func cacheFilePath(dir string, query Query) string {
	hashKey := sha1.Sum(query.Args)
	return filepath.Join(dir, query.Func+hex.EncodeToString(hashKey[:]))
}

func stubProbeAnswer(t *testing.T, called *bool) func(Query) (<-chan *WorkerResult, error) {
	t.Helper()
	return func(q Query) (<-chan *WorkerResult, error) {
		*called = true
		wr, err := CreateWorkerResult(results.ZipfProbe{Lemma: "kot", Zipf: 5.3, Known: true})
		assert.NoError(t, err)
		ch := make(chan *WorkerResult, 1)
		ch <- wr
		return ch, nil
	}
}

func TestCacheResultServesStoredFile(t *testing.T) {
	dir := t.TempDir()
	a := &Adapter{cachePath: dir}
	query, err := NewQuery(FuncZipfProbe, ZipfProbeArgs{Lemma: "kot"})
	assert.NoError(t, err)
	stored := "zipfProbe\n{\"lemma\":\"kot\",\"zipf\":5.3,\"known\":true}"
	assert.NoError(t, os.WriteFile(cacheFilePath(dir, query), []byte(stored), 0644))

	var called bool
	wait, err := a.CacheResult(stubProbeAnswer(t, &called), query)
	assert.NoError(t, err)
	res := <-wait
	assert.False(t, called)
	assert.Equal(t, results.ResultTypeZipfProbe, res.ResultType)
	ans, err := DeserializeZipfProbeResult(res)
	assert.NoError(t, err)
	assert.Equal(t, 5.3, ans.Zipf)
}

func TestCacheResultTruncatedFileRecomputes(t *testing.T) {
	dir := t.TempDir()
	a := &Adapter{cachePath: dir}
	query, err := NewQuery(FuncZipfProbe, ZipfProbeArgs{Lemma: "kot"})
	assert.NoError(t, err)
	// a torn write: the type line without the separating newline
	assert.NoError(t, os.WriteFile(cacheFilePath(dir, query), []byte("zipfProbe"), 0644))

	var called bool
	wait, err := a.CacheResult(stubProbeAnswer(t, &called), query)
	assert.NoError(t, err)
	res := <-wait
	assert.True(t, called)
	assert.Equal(t, results.ResultTypeZipfProbe, res.ResultType)

	content, err := os.ReadFile(cacheFilePath(dir, query))
	assert.NoError(t, err)
	assert.Contains(t, string(content), "\n")
}
