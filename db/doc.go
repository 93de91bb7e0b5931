// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package db opens the election store and manages its schema.

# Dialects

Two SQL dialects are supported, selected by name:

	conn, err := db.Open(db.SQLite, "election.db")
	conn, err := db.Open(db.Postgres, "postgres://...")

SQLite uses the pure-Go modernc.org/sqlite driver. Its DSN is extended with
a busy timeout, WAL journaling, foreign keys and BEGIN IMMEDIATE
transactions so that concurrent ballots serialize on the write lock rather
than failing. PostgreSQL uses github.com/lib/pq.

# Schema Creation

CreateSchema initializes all required tables:

	if err := db.CreateSchema(conn, db.SQLite); err != nil {
		log.Fatal(err)
	}

Safe to call multiple times - uses IF NOT EXISTS for all tables and indexes.

# Tables

  - admin: singleton credential row (id = 1)
  - positions: contested offices, keyed by name
  - candidates: one row per candidate, with photo blob and vote counter
  - voters: registered voters with verification and has-voted flags
  - voter_sessions: random login tokens, each mapped to one voter
  - voting_status: singleton active flag (id = 1)

# Relationships

	positions 1──* candidates (candidates.position → positions.name)
	voters    1──* voter_sessions (voter_sessions.voter_id → voters.id)

The candidate foreign key has no cascade: a position cannot be removed
while any candidate references it. Sessions cascade with their voter.

# Helpers

  - SeedAdmin: insert the admin credential on first start
  - ResetSequences: restart auto-increment ids after a full wipe
  - IsUniqueViolation / IsForeignKeyViolation: classify driver errors
*/
package db
