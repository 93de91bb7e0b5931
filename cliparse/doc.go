// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package cliparse handles command-line argument parsing and configuration.

# Configuration

ParseFlags returns a Config struct with all settings:

	cfg, err := cliparse.ParseFlags(os.Args[1:])

# Config Fields

  - Port: Server listen port (default: 3318)
  - DatabaseURL: SQLite file path or PostgreSQL connection string (required)
  - DatabaseType: "sqlite" (default) or "postgres"
  - AdminKeySalt: Secret for admin key and voter token HMACs (required)
  - AdminUsername / AdminPassword: singleton admin seeded on first start
    (default: admin / admin123)
  - LogLevel: slog level (default: info)

# CLI Flags

	-p               Server port
	-d               Database URL
	-t               Database type
	-admin-salt      Admin key salt
	-admin-user      Admin username
	-admin-password  Admin password
	-log-level       Log level

# Environment Variables

Flags fall back to environment variables:

	PORT           → -p
	DATABASE_URL   → -d
	DATABASE_TYPE  → -t
	ADMIN_KEY_SALT → -admin-salt
	ADMIN_USERNAME → -admin-user
	ADMIN_PASSWORD → -admin-password
	LOG_LEVEL      → -log-level

CLI flags take precedence over environment variables. A .env file in the
working directory is loaded before flags are parsed; it never overrides
variables that are already set.

# Validation

ParseFlags returns an error if required values are missing or malformed:

  - DATABASE_URL must be provided
  - ADMIN_KEY_SALT must be provided
  - DATABASE_TYPE must be sqlite or postgres
  - PORT must be in 1-65535
*/
package cliparse
