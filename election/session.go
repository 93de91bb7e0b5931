// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package election

import (
	"context"
	"database/sql"
	"errors"
	"log/slog"

	"github.com/danielhkuo/quickly-elect/db"
)

// Session controls the voting window: a single persisted active flag.
type Session struct {
	store *Store
}

func NewSession(store *Store) *Session {
	return &Session{store: store}
}

// StartVoting opens the voting window
func (s *Session) StartVoting(ctx context.Context) error {
	if err := s.setActive(ctx, true); err != nil {
		return err
	}
	slog.Info("voting started")
	return nil
}

// StopVoting closes the voting window
func (s *Session) StopVoting(ctx context.Context) error {
	if err := s.setActive(ctx, false); err != nil {
		return err
	}
	slog.Info("voting stopped")
	return nil
}

// IsActive reads the flag, creating the status row as inactive if missing
func (s *Session) IsActive(ctx context.Context) (bool, error) {
	var active bool
	err := s.store.withTx(ctx, "read voting status", func(tx *sql.Tx) error {
		var err error
		active, err = readActive(ctx, tx)
		return err
	})
	return active, err
}

// ResetAll wipes every candidate, voter and voter session, restarts the
// candidate and voter ids at 1 and closes voting. Positions survive. This cannot be undone.
func (s *Session) ResetAll(ctx context.Context) error {
	const op = "reset election"

	var candidates, voters int64
	err := s.store.withTx(ctx, op, func(tx *sql.Tx) error {
		res, err := tx.ExecContext(ctx, `DELETE FROM candidates`)
		if err != nil {
			return storeError(op+": delete candidates", err)
		}
		if candidates, err = affected(op, res); err != nil {
			return err
		}

		// Sessions go with their voters; ids are about to be reused
		if _, err := tx.ExecContext(ctx, `DELETE FROM voter_sessions`); err != nil {
			return storeError(op+": delete voter sessions", err)
		}

		res, err = tx.ExecContext(ctx, `DELETE FROM voters`)
		if err != nil {
			return storeError(op+": delete voters", err)
		}
		if voters, err = affected(op, res); err != nil {
			return err
		}

		if err := db.ResetSequences(ctx, tx, s.store.dialect, "candidates", "voters"); err != nil {
			return storeError(op+": reset sequences", err)
		}

		return writeActive(ctx, tx, false)
	})
	if err != nil {
		return err
	}

	s.store.metrics.reset()
	slog.Warn("election reset", "candidates_removed", candidates, "voters_removed", voters)
	return nil
}

func (s *Session) setActive(ctx context.Context, active bool) error {
	return s.store.withTx(ctx, "write voting status", func(tx *sql.Tx) error {
		return writeActive(ctx, tx, active)
	})
}

func readActive(ctx context.Context, q querier) (bool, error) {
	var active bool
	err := q.QueryRowContext(ctx, `SELECT is_active FROM voting_status WHERE id = 1`).Scan(&active)
	if errors.Is(err, sql.ErrNoRows) {
		_, err = q.ExecContext(ctx, `
			INSERT INTO voting_status (id, is_active)
			VALUES (1, FALSE)
			ON CONFLICT (id) DO NOTHING
		`)
		if err != nil {
			return false, storeError("init voting status", err)
		}
		return false, nil
	}
	if err != nil {
		return false, storeError("read voting status", err)
	}
	return active, nil
}

func writeActive(ctx context.Context, q querier, active bool) error {
	_, err := q.ExecContext(ctx, `
		INSERT INTO voting_status (id, is_active)
		VALUES (1, $1)
		ON CONFLICT (id) DO UPDATE SET is_active = excluded.is_active
	`, active)
	if err != nil {
		return storeError("write voting status", err)
	}
	return nil
}
