// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package election

import (
	"context"
	"database/sql"
	"time"

	"github.com/danielhkuo/quickly-elect/db"
)

// Store is the shared handle every component works through. It holds no
// election state of its own; each operation reads fresh from the database.
type Store struct {
	conn    *sql.DB
	dialect db.Dialect
	now     func() time.Time
	metrics *Metrics
}

type Option func(*Store)

// WithClock replaces time.Now, used for age checks and receipts
func WithClock(now func() time.Time) Option {
	return func(s *Store) {
		s.now = now
	}
}

func WithMetrics(m *Metrics) Option {
	return func(s *Store) {
		s.metrics = m
	}
}

func NewStore(conn *sql.DB, dialect db.Dialect, opts ...Option) *Store {
	s := &Store{
		conn:    conn,
		dialect: dialect,
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Metrics returns the collectors attached to the store, or nil
func (s *Store) Metrics() *Metrics {
	return s.metrics
}

// querier is satisfied by both *sql.DB and *sql.Tx
type querier interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// withTx runs fn in a transaction. Anything other than a nil return from fn
// followed by a successful commit rolls back.
func (s *Store) withTx(ctx context.Context, op string, fn func(tx *sql.Tx) error) error {
	tx, err := s.conn.BeginTx(ctx, nil)
	if err != nil {
		return storeError(op+": begin", err)
	}
	defer tx.Rollback()

	if err := fn(tx); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return storeError(op+": commit", err)
	}
	return nil
}

// affected returns the row count of an exec result
func affected(op string, res sql.Result) (int64, error) {
	n, err := res.RowsAffected()
	if err != nil {
		return 0, storeError(op, err)
	}
	return n, nil
}

// nullableBytes stores empty blobs as NULL
func nullableBytes(b []byte) any {
	if len(b) == 0 {
		return nil
	}
	return b
}

func nullableString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}
