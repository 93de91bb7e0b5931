// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package main provides the entry point for the Quickly Elect API server.

Quickly Elect runs a single election: an admin registers positions and
candidates, verifies the voters who sign up, opens voting, and closes it
to publish results. Each verified voter casts exactly one ballot, choosing
at most one candidate per position.

# Starting the Server

The server reads CLI flags, environment variables and an optional .env
file. SQLite is the default store:

	ADMIN_KEY_SALT=change-me go run . -d election.db

Or PostgreSQL:

	go run . -t postgres -d "postgres://..." -admin-salt change-me

# Configuration

Required settings:

  - DATABASE_URL (-d): SQLite file path or PostgreSQL connection string
  - ADMIN_KEY_SALT (-admin-salt): Secret for admin key HMACs

Optional settings:

  - PORT (-p): Server port (default: 3318)
  - DATABASE_TYPE (-t): sqlite or postgres (default: sqlite)
  - ADMIN_USERNAME, ADMIN_PASSWORD: Seeded admin credential (default: admin/admin123)
  - LOG_LEVEL (-log-level): debug, info, warn or error (default: info)

# Architecture

The server uses a handler-based architecture with dependency injection:

  - election: Ballot engine, registry, voter directory, session and results
  - handlers: HTTP request handlers over the election core
  - router: Route definitions using Go 1.22+ routing, health and metrics
  - middleware: CORS, logging with request ids, JSON helpers
  - models: Domain records and request/response types
  - auth: Admin key and voter token generation and validation
  - db: Connection, schema creation and admin seed
  - cliparse: Configuration parsing

See package documentation for each component.
*/
package main
