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
	"encoding/json"
	"os"
	"path/filepath"
	"strings"

	"github.com/czcorpus/cnc-gokit/fs"
	"github.com/rs/zerolog/log"

	"plvocab/results"
)

// CacheResult wraps a query-publishing function with an on-disk
// cache keyed by function name and argument hash. With no cache
// path configured it is a pass-through. Export jobs are never
// cached as they mutate the dedup state.
func (a *Adapter) CacheResult(fn func(Query) (<-chan *WorkerResult, error), query Query) (<-chan *WorkerResult, error) {
	if len(a.cachePath) == 0 || query.Func == FuncExportVocab {
		return fn(query)
	}

	hashKey := sha1.Sum(query.Args)
	path := filepath.Join(a.cachePath, query.Func+hex.EncodeToString(hashKey[:]))

	pe := fs.PathExists(path)
	isf, _ := fs.IsFile(path)
	ans := make(chan *WorkerResult)
	if pe && isf {
		content, err := os.ReadFile(path)
		if err != nil {
			log.Err(err).Msgf("Error while reading cache file %s", path)

		} else if split := strings.SplitN(string(content), "\n", 2); len(split) == 2 {
			go func() {
				result := new(WorkerResult)
				result.ResultType = results.ResultType(split[0])
				result.Value = json.RawMessage(split[1])
				ans <- result
			}()
			return ans, nil

		} else {
			// a file without the type/value separator is a torn
			// write; treat it as a miss and let the fresh result
			// overwrite it
			log.Warn().Msgf("Malformed cache file %s, recomputing", path)
		}
	}

	wr, err := fn(query)
	go func(wr <-chan *WorkerResult) {
		rawResult := <-wr
		f, err := os.Create(path)
		if err != nil {
			log.Err(err).Msgf("Error while creating cache file %s", path)
		}
		defer f.Close()
		_, err = f.WriteString(rawResult.ResultType.String() + "\n")
		if err != nil {
			log.Err(err).Msgf("Error while writing cache file %s", path)
		}
		_, err = f.Write(rawResult.Value)
		if err != nil {
			log.Err(err).Msgf("Error while writing cache file %s", path)
		}
		ans <- rawResult
	}(wr)
	return ans, err
}
