// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package election

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/danielhkuo/quickly-elect/auth"
	"github.com/danielhkuo/quickly-elect/db"
	"github.com/danielhkuo/quickly-elect/models"
)

// MinimumVotingAge is the age in whole years required at registration
const MinimumVotingAge = 18

// Directory manages voter registration, verification and login, plus the
// admin credential check.
type Directory struct {
	store *Store
}

func NewDirectory(store *Store) *Directory {
	return &Directory{store: store}
}

const voterColumns = `id, name, password, dob, has_voted, verified`

// AgeOn returns the age in completed years of someone born on dob, as of
// today. The birthday itself counts.
func AgeOn(dob, today time.Time) int {
	ty, tm, td := today.Date()
	by, bm, bd := dob.Date()
	age := ty - by
	if tm < bm || (tm == bm && td < bd) {
		age--
	}
	return age
}

// Register adds an unverified voter. The voter must be at least
// MinimumVotingAge on the current date.
func (d *Directory) Register(ctx context.Context, name, password string, dob time.Time) (models.Voter, error) {
	const op = "register voter"

	name = strings.TrimSpace(name)
	if name == "" {
		return models.Voter{}, invalid("name", "name is required")
	}
	if password == "" {
		return models.Voter{}, invalid("password", "password is required")
	}
	if dob.IsZero() {
		return models.Voter{}, invalid("dob", "date of birth is required")
	}

	today := d.store.now()
	if dob.After(today) {
		return models.Voter{}, invalid("dob", "date of birth is in the future")
	}
	if age := AgeOn(dob, today); age < MinimumVotingAge {
		slog.Info("registration rejected", "reason", "underage", "age", age)
		return models.Voter{}, ErrUnderage
	}

	dob = dateOnly(dob)
	var id int64
	err := d.store.withTx(ctx, op, func(tx *sql.Tx) error {
		var exists bool
		err := tx.QueryRowContext(ctx, `
			SELECT EXISTS(SELECT 1 FROM voters WHERE name = $1)
		`, name).Scan(&exists)
		if err != nil {
			return storeError(op+": check name", err)
		}
		if exists {
			return ErrDuplicateVoter
		}

		err = tx.QueryRowContext(ctx, `
			INSERT INTO voters (name, password, dob, has_voted, verified)
			VALUES ($1, $2, $3, FALSE, FALSE)
			RETURNING id
		`, name, password, dob.Format(models.DateLayout)).Scan(&id)
		if err != nil {
			if db.IsUniqueViolation(err) {
				return ErrDuplicateVoter
			}
			return storeError(op, err)
		}
		return nil
	})
	if err != nil {
		return models.Voter{}, err
	}

	slog.Info("voter registered", "voter_id", id, "name", name)

	return models.Voter{
		ID:       id,
		Name:     name,
		Password: password,
		DOB:      dob,
	}, nil
}

// Authenticate returns the voter matching the credentials. A matching but
// unverified voter yields ErrNotVerified.
func (d *Directory) Authenticate(ctx context.Context, name, password string) (models.Voter, error) {
	row := d.store.conn.QueryRowContext(ctx, `
		SELECT `+voterColumns+` FROM voters WHERE name = $1 AND password = $2
	`, strings.TrimSpace(name), password)
	v, err := scanVoter(row)
	if errors.Is(err, sql.ErrNoRows) {
		return models.Voter{}, ErrInvalidCredentials
	}
	if err != nil {
		return models.Voter{}, storeError("authenticate voter", err)
	}
	if !v.Verified {
		slog.Info("login rejected", "voter_id", v.ID, "reason", "not verified")
		return models.Voter{}, ErrNotVerified
	}
	return v, nil
}

// OpenSession issues a fresh voter token for voterID. Tokens stay valid
// until the voter is deleted or the election is reset.
func (d *Directory) OpenSession(ctx context.Context, voterID int64) (string, error) {
	const op = "open voter session"

	token, err := auth.GenerateVoterToken()
	if err != nil {
		slog.Error("failed to generate voter token", "error", err)
		return "", fmt.Errorf("%s: %w", op, ErrPersistence)
	}

	_, err = d.store.conn.ExecContext(ctx, `
		INSERT INTO voter_sessions (token, voter_id) VALUES ($1, $2)
	`, token, voterID)
	if err != nil {
		if db.IsForeignKeyViolation(err) {
			return "", ErrVoterNotFound
		}
		return "", storeError(op, err)
	}

	slog.Info("voter logged in", "voter_id", voterID)
	return token, nil
}

// resolveSession maps a voter token to its voter id
func resolveSession(ctx context.Context, q querier, token string) (int64, error) {
	if token == "" {
		return 0, ErrInvalidSession
	}
	var voterID int64
	err := q.QueryRowContext(ctx, `
		SELECT voter_id FROM voter_sessions WHERE token = $1
	`, token).Scan(&voterID)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, ErrInvalidSession
	}
	if err != nil {
		return 0, storeError("resolve voter session", err)
	}
	return voterID, nil
}

// AuthenticateAdmin checks the singleton admin credential
func (d *Directory) AuthenticateAdmin(ctx context.Context, username, password string) error {
	var ok bool
	err := d.store.conn.QueryRowContext(ctx, `
		SELECT EXISTS(SELECT 1 FROM admin WHERE username = $1 AND password = $2)
	`, username, password).Scan(&ok)
	if err != nil {
		return storeError("authenticate admin", err)
	}
	if !ok {
		return ErrInvalidCredentials
	}
	return nil
}

// SetVerified marks a voter eligible (or not) to vote
func (d *Directory) SetVerified(ctx context.Context, id int64, verified bool) error {
	const op = "set voter verification"

	res, err := d.store.conn.ExecContext(ctx, `UPDATE voters SET verified = $1 WHERE id = $2`, verified, id)
	if err != nil {
		return storeError(op, err)
	}
	n, err := affected(op, res)
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrVoterNotFound
	}

	slog.Info("voter verification set", "voter_id", id, "verified", verified)
	return nil
}

// EditVoter applies the non-nil fields of u. Forcing HasVoted or Verified
// here skips the ballot and verification paths entirely.
func (d *Directory) EditVoter(ctx context.Context, id int64, u models.VoterUpdate) (models.Voter, error) {
	const op = "edit voter"

	if u.Name != nil {
		trimmed := strings.TrimSpace(*u.Name)
		if trimmed == "" {
			return models.Voter{}, invalid("name", "name cannot be blank")
		}
		u.Name = &trimmed
	}
	if u.Password != nil && *u.Password == "" {
		return models.Voter{}, invalid("password", "password cannot be blank")
	}
	var dob *string
	if u.DOB != nil {
		if u.DOB.IsZero() {
			return models.Voter{}, invalid("dob", "date of birth cannot be blank")
		}
		s := u.DOB.Format(models.DateLayout)
		dob = &s
	}

	var v models.Voter
	err := d.store.withTx(ctx, op, func(tx *sql.Tx) error {
		res, err := tx.ExecContext(ctx, `
			UPDATE voters SET
				name = COALESCE($1, name),
				password = COALESCE($2, password),
				dob = COALESCE($3, dob),
				has_voted = COALESCE($4, has_voted),
				verified = COALESCE($5, verified)
			WHERE id = $6
		`, u.Name, u.Password, dob, u.HasVoted, u.Verified, id)
		if err != nil {
			if db.IsUniqueViolation(err) {
				return ErrDuplicateVoter
			}
			return storeError(op, err)
		}
		n, err := affected(op, res)
		if err != nil {
			return err
		}
		if n == 0 {
			return ErrVoterNotFound
		}

		v, err = getVoter(ctx, tx, id)
		return err
	})
	if err != nil {
		return models.Voter{}, err
	}

	if u.HasVoted != nil || u.Verified != nil {
		slog.Warn("voter flags forced", "voter_id", id, "has_voted", v.HasVoted, "verified", v.Verified)
	}
	slog.Info("voter updated", "voter_id", id)
	return v, nil
}

// DeleteVoter removes a voter. Tallies the voter contributed are kept.
func (d *Directory) DeleteVoter(ctx context.Context, id int64) error {
	const op = "delete voter"

	res, err := d.store.conn.ExecContext(ctx, `DELETE FROM voters WHERE id = $1`, id)
	if err != nil {
		return storeError(op, err)
	}
	n, err := affected(op, res)
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrVoterNotFound
	}

	slog.Info("voter deleted", "voter_id", id)
	return nil
}

func (d *Directory) GetVoter(ctx context.Context, id int64) (models.Voter, error) {
	return getVoter(ctx, d.store.conn, id)
}

// ListVoters returns all voters ordered by id
func (d *Directory) ListVoters(ctx context.Context) ([]models.Voter, error) {
	return d.listVoters(ctx, `SELECT `+voterColumns+` FROM voters ORDER BY id`)
}

// ListUnverified returns the voters still awaiting admin verification
func (d *Directory) ListUnverified(ctx context.Context) ([]models.Voter, error) {
	return d.listVoters(ctx, `SELECT `+voterColumns+` FROM voters WHERE verified = FALSE ORDER BY id`)
}

func (d *Directory) listVoters(ctx context.Context, query string) ([]models.Voter, error) {
	const op = "list voters"

	rows, err := d.store.conn.QueryContext(ctx, query)
	if err != nil {
		return nil, storeError(op, err)
	}
	defer rows.Close()

	voters := []models.Voter{}
	for rows.Next() {
		v, err := scanVoter(rows)
		if err != nil {
			return nil, storeError(op, err)
		}
		voters = append(voters, v)
	}
	if err := rows.Err(); err != nil {
		return nil, storeError(op, err)
	}
	return voters, nil
}

func getVoter(ctx context.Context, q querier, id int64) (models.Voter, error) {
	row := q.QueryRowContext(ctx, `SELECT `+voterColumns+` FROM voters WHERE id = $1`, id)
	v, err := scanVoter(row)
	if errors.Is(err, sql.ErrNoRows) {
		return models.Voter{}, ErrVoterNotFound
	}
	if err != nil {
		return models.Voter{}, storeError("get voter", err)
	}
	return v, nil
}

func scanVoter(s scanner) (models.Voter, error) {
	var v models.Voter
	var dob dateColumn
	if err := s.Scan(&v.ID, &v.Name, &v.Password, &dob, &v.HasVoted, &v.Verified); err != nil {
		return models.Voter{}, err
	}
	v.DOB = dob.Time
	return v, nil
}

// dateColumn scans a DATE from Postgres or ISO text from SQLite
type dateColumn struct {
	Time time.Time
}

func (d *dateColumn) Scan(src any) error {
	switch v := src.(type) {
	case time.Time:
		d.Time = dateOnly(v)
		return nil
	case string:
		return d.parse(v)
	case []byte:
		return d.parse(string(v))
	case nil:
		d.Time = time.Time{}
		return nil
	}
	return fmt.Errorf("unsupported date type %T", src)
}

func (d *dateColumn) parse(s string) error {
	// Drivers may hand back a full timestamp for date-only values
	if len(s) > len(models.DateLayout) {
		s = s[:len(models.DateLayout)]
	}
	t, err := time.Parse(models.DateLayout, s)
	if err != nil {
		return fmt.Errorf("invalid date %q: %w", s, err)
	}
	d.Time = t
	return nil
}

func dateOnly(t time.Time) time.Time {
	y, m, day := t.Date()
	return time.Date(y, m, day, 0, 0, 0, 0, time.UTC)
}
