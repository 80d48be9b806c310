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
	"database/sql"
	"fmt"

	sq "github.com/Masterminds/squirrel"
	_ "github.com/jackc/pgx/v5/stdlib"
)

const (
	seenKeysTable = "plvocab_seen_keys"
)

// pgKeyStore keeps the dedup key set in a Postgres table with
// the key as primary key. Inserts use ON CONFLICT DO NOTHING so
// concurrent workers never fail on a key already stored by
// another one.
type pgKeyStore struct {
	ctx context.Context
	db  *sql.DB
	sb  sq.StatementBuilderType
}

// OpenPGKeyStore connects to Postgres via the pgx stdlib driver
// and ensures the key table exists.
func OpenPGKeyStore(ctx context.Context, dsn string) (KeyStore, error) {
	db, err := sql.Open("pgx", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open dedup state database: %w", err)
	}
	if err := db.PingContext(ctx); err != nil {
		return nil, fmt.Errorf("failed to open dedup state database: %w", err)
	}
	ans := NewPGKeyStore(ctx, db)
	_, err = db.ExecContext(
		ctx,
		fmt.Sprintf("CREATE TABLE IF NOT EXISTS %s (key TEXT PRIMARY KEY)", seenKeysTable),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize dedup state table: %w", err)
	}
	return ans, nil
}

// NewPGKeyStore wraps an existing database handle (exposed
// mostly for tests).
func NewPGKeyStore(ctx context.Context, db *sql.DB) KeyStore {
	return &pgKeyStore{
		ctx: ctx,
		db:  db,
		sb:  sq.StatementBuilder.PlaceholderFormat(sq.Dollar),
	}
}

func (ps *pgKeyStore) Contains(key string) (bool, error) {
	query, args, err := ps.sb.
		Select("1").
		From(seenKeysTable).
		Where(sq.Eq{"key": key}).
		ToSql()
	if err != nil {
		return false, fmt.Errorf("failed to test dedup key: %w", err)
	}
	var one int
	err = ps.db.QueryRowContext(ps.ctx, query, args...).Scan(&one)
	if err == sql.ErrNoRows {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("failed to test dedup key: %w", err)
	}
	return true, nil
}

func (ps *pgKeyStore) Add(key string) error {
	query, args, err := ps.sb.
		Insert(seenKeysTable).
		Columns("key").
		Values(key).
		Suffix("ON CONFLICT (key) DO NOTHING").
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to store dedup key: %w", err)
	}
	if _, err := ps.db.ExecContext(ps.ctx, query, args...); err != nil {
		return fmt.Errorf("failed to store dedup key: %w", err)
	}
	return nil
}

func (ps *pgKeyStore) Size() (int, error) {
	query, args, err := ps.sb.
		Select("COUNT(*)").
		From(seenKeysTable).
		ToSql()
	if err != nil {
		return 0, fmt.Errorf("failed to read dedup state size: %w", err)
	}
	var size int
	if err := ps.db.QueryRowContext(ps.ctx, query, args...).Scan(&size); err != nil {
		return 0, fmt.Errorf("failed to read dedup state size: %w", err)
	}
	return size, nil
}

func (ps *pgKeyStore) Close() error {
	return ps.db.Close()
}
