// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package db

import (
	"context"
	"database/sql"
	"fmt"
)

// CreateSchema creates all tables needed for the application.
// Safe to call multiple times - uses IF NOT EXISTS.
func CreateSchema(db *sql.DB, dialect Dialect) error {
	schema, err := schemaFor(dialect)
	if err != nil {
		return err
	}

	_, err = db.Exec(schema)
	if err != nil {
		return fmt.Errorf("failed to create schema: %w", err)
	}

	return nil
}

// SeedAdmin inserts the singleton admin credential unless one already exists.
// An existing row is never overwritten.
func SeedAdmin(db *sql.DB, username, password string) error {
	_, err := db.Exec(`
		INSERT INTO admin (id, username, password)
		VALUES (1, $1, $2)
		ON CONFLICT (id) DO NOTHING
	`, username, password)
	if err != nil {
		return fmt.Errorf("failed to seed admin: %w", err)
	}
	return nil
}

// ResetSequences restarts the auto-increment counters of the given tables so
// the next inserted row gets id 1. Intended to run right after the tables
// were emptied, inside the same transaction.
func ResetSequences(ctx context.Context, tx *sql.Tx, dialect Dialect, tables ...string) error {
	for _, table := range tables {
		var err error
		switch dialect {
		case Postgres:
			_, err = tx.ExecContext(ctx, `SELECT setval(pg_get_serial_sequence($1, 'id'), 1, false)`, table)
		case SQLite:
			_, err = tx.ExecContext(ctx, `DELETE FROM sqlite_sequence WHERE name = $1`, table)
		default:
			err = fmt.Errorf("unsupported dialect %q", dialect)
		}
		if err != nil {
			return fmt.Errorf("failed to reset sequence for %s: %w", table, err)
		}
	}
	return nil
}

func schemaFor(dialect Dialect) (string, error) {
	switch dialect {
	case Postgres:
		return postgresSchema, nil
	case SQLite:
		return sqliteSchema, nil
	}
	return "", fmt.Errorf("unsupported dialect %q", dialect)
}

const postgresSchema = `
-- Admin (singleton credential)
CREATE TABLE IF NOT EXISTS admin (
    id INTEGER PRIMARY KEY CHECK (id = 1),
    username TEXT NOT NULL UNIQUE,
    password TEXT NOT NULL
);

-- Positions
CREATE TABLE IF NOT EXISTS positions (
    name TEXT PRIMARY KEY
);

-- Candidates
CREATE TABLE IF NOT EXISTS candidates (
    id SERIAL PRIMARY KEY,
    name TEXT NOT NULL,
    symbol TEXT NOT NULL DEFAULT '',
    age INTEGER NOT NULL,
    position TEXT NOT NULL REFERENCES positions(name),
    photo BYTEA,
    bio TEXT,
    votes INTEGER NOT NULL DEFAULT 0 CHECK (votes >= 0)
);

CREATE INDEX IF NOT EXISTS idx_candidates_position ON candidates(position);

-- Voters
CREATE TABLE IF NOT EXISTS voters (
    id SERIAL PRIMARY KEY,
    name TEXT NOT NULL UNIQUE,
    password TEXT NOT NULL,
    dob DATE NOT NULL,
    has_voted BOOLEAN NOT NULL DEFAULT FALSE,
    verified BOOLEAN NOT NULL DEFAULT FALSE
);

CREATE INDEX IF NOT EXISTS idx_voters_verified ON voters(verified);

-- Voter sessions (one row per login)
CREATE TABLE IF NOT EXISTS voter_sessions (
    token TEXT PRIMARY KEY,
    voter_id INTEGER NOT NULL REFERENCES voters(id) ON DELETE CASCADE
);

CREATE INDEX IF NOT EXISTS idx_voter_sessions_voter ON voter_sessions(voter_id);

-- Voting status (singleton flag)
CREATE TABLE IF NOT EXISTS voting_status (
    id INTEGER PRIMARY KEY CHECK (id = 1),
    is_active BOOLEAN NOT NULL DEFAULT FALSE
);
`

// SQLite keeps dob as ISO-8601 text; the driver would otherwise guess at
// DATE-typed columns.
const sqliteSchema = `
-- Admin (singleton credential)
CREATE TABLE IF NOT EXISTS admin (
    id INTEGER PRIMARY KEY CHECK (id = 1),
    username TEXT NOT NULL UNIQUE,
    password TEXT NOT NULL
);

-- Positions
CREATE TABLE IF NOT EXISTS positions (
    name TEXT PRIMARY KEY
);

-- Candidates
CREATE TABLE IF NOT EXISTS candidates (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    name TEXT NOT NULL,
    symbol TEXT NOT NULL DEFAULT '',
    age INTEGER NOT NULL,
    position TEXT NOT NULL REFERENCES positions(name),
    photo BLOB,
    bio TEXT,
    votes INTEGER NOT NULL DEFAULT 0 CHECK (votes >= 0)
);

CREATE INDEX IF NOT EXISTS idx_candidates_position ON candidates(position);

-- Voters
CREATE TABLE IF NOT EXISTS voters (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    name TEXT NOT NULL UNIQUE,
    password TEXT NOT NULL,
    dob TEXT NOT NULL,
    has_voted BOOLEAN NOT NULL DEFAULT FALSE,
    verified BOOLEAN NOT NULL DEFAULT FALSE
);

CREATE INDEX IF NOT EXISTS idx_voters_verified ON voters(verified);

-- Voter sessions (one row per login)
CREATE TABLE IF NOT EXISTS voter_sessions (
    token TEXT PRIMARY KEY,
    voter_id INTEGER NOT NULL REFERENCES voters(id) ON DELETE CASCADE
);

CREATE INDEX IF NOT EXISTS idx_voter_sessions_voter ON voter_sessions(voter_id);

-- Voting status (singleton flag)
CREATE TABLE IF NOT EXISTS voting_status (
    id INTEGER PRIMARY KEY CHECK (id = 1),
    is_active BOOLEAN NOT NULL DEFAULT FALSE
);
`
