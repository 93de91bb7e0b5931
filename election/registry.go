// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package election

import (
	"context"
	"database/sql"
	"errors"
	"log/slog"
	"strings"

	"github.com/dustin/go-humanize"

	"github.com/danielhkuo/quickly-elect/db"
	"github.com/danielhkuo/quickly-elect/models"
)

// Registry manages positions and the candidates standing for them.
type Registry struct {
	store *Store
}

func NewRegistry(store *Store) *Registry {
	return &Registry{store: store}
}

const candidateColumns = `id, name, symbol, age, position, photo, bio, votes`

// AddPosition inserts name unless it already exists
func (r *Registry) AddPosition(ctx context.Context, name string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return invalid("name", "position name is required")
	}

	if err := upsertPosition(ctx, r.store.conn, name); err != nil {
		return err
	}

	slog.Info("position added", "position", name)
	return nil
}

// DeletePosition removes a position that no candidate references
func (r *Registry) DeletePosition(ctx context.Context, name string) error {
	const op = "delete position"

	name = strings.TrimSpace(name)
	if name == "" {
		return invalid("name", "position name is required")
	}

	err := r.store.withTx(ctx, op, func(tx *sql.Tx) error {
		var count int
		err := tx.QueryRowContext(ctx, `
			SELECT COUNT(*) FROM candidates WHERE position = $1
		`, name).Scan(&count)
		if err != nil {
			return storeError(op+": count candidates", err)
		}
		if count > 0 {
			return ErrPositionInUse
		}

		res, err := tx.ExecContext(ctx, `DELETE FROM positions WHERE name = $1`, name)
		if err != nil {
			// A candidate added after the count still holds the foreign key
			if db.IsForeignKeyViolation(err) {
				return ErrPositionInUse
			}
			return storeError(op, err)
		}
		n, err := affected(op, res)
		if err != nil {
			return err
		}
		if n == 0 {
			return ErrPositionNotFound
		}
		return nil
	})
	if err != nil {
		return err
	}

	slog.Info("position deleted", "position", name)
	return nil
}

// ListPositions returns all position names in lexical order
func (r *Registry) ListPositions(ctx context.Context) ([]string, error) {
	const op = "list positions"

	rows, err := r.store.conn.QueryContext(ctx, `SELECT name FROM positions ORDER BY name`)
	if err != nil {
		return nil, storeError(op, err)
	}
	defer rows.Close()

	positions := []string{}
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, storeError(op, err)
		}
		positions = append(positions, name)
	}
	if err := rows.Err(); err != nil {
		return nil, storeError(op, err)
	}
	return positions, nil
}

// AddCandidate stores a new candidate with zero votes. The position is
// created if it does not exist yet.
func (r *Registry) AddCandidate(ctx context.Context, nc models.NewCandidate) (models.Candidate, error) {
	const op = "add candidate"

	nc.Name = strings.TrimSpace(nc.Name)
	nc.Symbol = strings.TrimSpace(nc.Symbol)
	nc.Position = strings.TrimSpace(nc.Position)
	if nc.Name == "" {
		return models.Candidate{}, invalid("name", "candidate name is required")
	}
	if nc.Position == "" {
		return models.Candidate{}, invalid("position", "position is required")
	}
	if nc.Age <= 0 {
		return models.Candidate{}, invalid("age", "age must be a positive number")
	}

	var id int64
	err := r.store.withTx(ctx, op, func(tx *sql.Tx) error {
		if err := upsertPosition(ctx, tx, nc.Position); err != nil {
			return err
		}

		err := tx.QueryRowContext(ctx, `
			INSERT INTO candidates (name, symbol, age, position, photo, bio, votes)
			VALUES ($1, $2, $3, $4, $5, $6, 0)
			RETURNING id
		`, nc.Name, nc.Symbol, nc.Age, nc.Position, nullableBytes(nc.Photo), nullableString(nc.Bio)).Scan(&id)
		if err != nil {
			return storeError(op, err)
		}
		return nil
	})
	if err != nil {
		return models.Candidate{}, err
	}

	slog.Info("candidate added",
		"candidate_id", id,
		"position", nc.Position,
		"photo", humanize.Bytes(uint64(len(nc.Photo))),
	)

	return models.Candidate{
		ID:       id,
		Name:     nc.Name,
		Symbol:   nc.Symbol,
		Age:      nc.Age,
		Position: nc.Position,
		Photo:    nc.Photo,
		Bio:      nc.Bio,
		Votes:    0,
	}, nil
}

// EditCandidate applies the non-nil fields of u. The vote tally is never
// touched and an omitted photo keeps the stored one.
func (r *Registry) EditCandidate(ctx context.Context, id int64, u models.CandidateUpdate) (models.Candidate, error) {
	const op = "edit candidate"

	if u.Name != nil {
		trimmed := strings.TrimSpace(*u.Name)
		if trimmed == "" {
			return models.Candidate{}, invalid("name", "candidate name cannot be blank")
		}
		u.Name = &trimmed
	}
	if u.Position != nil {
		trimmed := strings.TrimSpace(*u.Position)
		if trimmed == "" {
			return models.Candidate{}, invalid("position", "position cannot be blank")
		}
		u.Position = &trimmed
	}
	if u.Age != nil && *u.Age <= 0 {
		return models.Candidate{}, invalid("age", "age must be a positive number")
	}

	var c models.Candidate
	err := r.store.withTx(ctx, op, func(tx *sql.Tx) error {
		if u.Position != nil {
			if err := upsertPosition(ctx, tx, *u.Position); err != nil {
				return err
			}
		}

		if !u.IsEmpty() {
			res, err := tx.ExecContext(ctx, `
				UPDATE candidates SET
					name = COALESCE($1, name),
					symbol = COALESCE($2, symbol),
					age = COALESCE($3, age),
					position = COALESCE($4, position),
					photo = COALESCE($5, photo),
					bio = COALESCE($6, bio)
				WHERE id = $7
			`, u.Name, u.Symbol, u.Age, u.Position, nullableBytes(u.Photo), u.Bio, id)
			if err != nil {
				return storeError(op, err)
			}
			n, err := affected(op, res)
			if err != nil {
				return err
			}
			if n == 0 {
				return ErrCandidateNotFound
			}
		}

		var err error
		c, err = getCandidate(ctx, tx, id)
		return err
	})
	if err != nil {
		return models.Candidate{}, err
	}

	slog.Info("candidate updated", "candidate_id", id, "photo_replaced", u.Photo != nil)
	return c, nil
}

// DeleteCandidate removes a candidate and its tally
func (r *Registry) DeleteCandidate(ctx context.Context, id int64) error {
	const op = "delete candidate"

	res, err := r.store.conn.ExecContext(ctx, `DELETE FROM candidates WHERE id = $1`, id)
	if err != nil {
		return storeError(op, err)
	}
	n, err := affected(op, res)
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrCandidateNotFound
	}

	slog.Info("candidate deleted", "candidate_id", id)
	return nil
}

func (r *Registry) GetCandidate(ctx context.Context, id int64) (models.Candidate, error) {
	return getCandidate(ctx, r.store.conn, id)
}

// ListCandidates returns every candidate, or only those standing for
// position when it is non-empty, ordered by id.
func (r *Registry) ListCandidates(ctx context.Context, position string) ([]models.Candidate, error) {
	const op = "list candidates"

	var rows *sql.Rows
	var err error
	position = strings.TrimSpace(position)
	if position == "" {
		rows, err = r.store.conn.QueryContext(ctx, `
			SELECT `+candidateColumns+` FROM candidates ORDER BY id
		`)
	} else {
		rows, err = r.store.conn.QueryContext(ctx, `
			SELECT `+candidateColumns+` FROM candidates WHERE position = $1 ORDER BY id
		`, position)
	}
	if err != nil {
		return nil, storeError(op, err)
	}
	defer rows.Close()

	candidates := []models.Candidate{}
	for rows.Next() {
		c, err := scanCandidate(rows)
		if err != nil {
			return nil, storeError(op, err)
		}
		candidates = append(candidates, c)
	}
	if err := rows.Err(); err != nil {
		return nil, storeError(op, err)
	}
	return candidates, nil
}

func upsertPosition(ctx context.Context, q querier, name string) error {
	_, err := q.ExecContext(ctx, `
		INSERT INTO positions (name) VALUES ($1)
		ON CONFLICT (name) DO NOTHING
	`, name)
	if err != nil {
		return storeError("add position", err)
	}
	return nil
}

func getCandidate(ctx context.Context, q querier, id int64) (models.Candidate, error) {
	row := q.QueryRowContext(ctx, `SELECT `+candidateColumns+` FROM candidates WHERE id = $1`, id)
	c, err := scanCandidate(row)
	if errors.Is(err, sql.ErrNoRows) {
		return models.Candidate{}, ErrCandidateNotFound
	}
	if err != nil {
		return models.Candidate{}, storeError("get candidate", err)
	}
	return c, nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanCandidate(s scanner) (models.Candidate, error) {
	var c models.Candidate
	var bio sql.NullString
	err := s.Scan(&c.ID, &c.Name, &c.Symbol, &c.Age, &c.Position, &c.Photo, &bio, &c.Votes)
	if err != nil {
		return models.Candidate{}, err
	}
	c.Bio = bio.String
	return c, nil
}
