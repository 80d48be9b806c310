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

package export

import (
	"context"
	"fmt"

	"github.com/redis/go-redis/v9"
)

const (
	dfltRedisSeenKey = "plvocabSeenKeys"
)

// redisKeyStore keeps the dedup key set in a Redis SET. Redis
// serializes concurrent SADD/SISMEMBER calls, which makes this
// backend suitable for deployments with multiple workers sharing
// one deck.
type redisKeyStore struct {
	ctx     context.Context
	c       *redis.Client
	setName string
}

// NewRedisKeyStore wraps an existing Redis connection as a
// KeyStore; the connection is owned by the caller (it is shared
// with the job queue adapter) and is not closed here.
func NewRedisKeyStore(ctx context.Context, c *redis.Client, setName string) KeyStore {
	if setName == "" {
		setName = dfltRedisSeenKey
	}
	return &redisKeyStore{
		ctx:     ctx,
		c:       c,
		setName: setName,
	}
}

func (rs *redisKeyStore) Contains(key string) (bool, error) {
	cmd := rs.c.SIsMember(rs.ctx, rs.setName, key)
	if cmd.Err() != nil {
		return false, fmt.Errorf("failed to test dedup key: %w", cmd.Err())
	}
	return cmd.Val(), nil
}

func (rs *redisKeyStore) Add(key string) error {
	if err := rs.c.SAdd(rs.ctx, rs.setName, key).Err(); err != nil {
		return fmt.Errorf("failed to store dedup key: %w", err)
	}
	return nil
}

func (rs *redisKeyStore) Size() (int, error) {
	cmd := rs.c.SCard(rs.ctx, rs.setName)
	if cmd.Err() != nil {
		return 0, fmt.Errorf("failed to read dedup state size: %w", cmd.Err())
	}
	return int(cmd.Val()), nil
}

func (rs *redisKeyStore) Close() error {
	return nil
}
