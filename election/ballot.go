// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package election

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"strings"

	"github.com/danielhkuo/quickly-elect/models"
)

// BallotEngine casts ballots: one per voter, applied all-or-nothing.
type BallotEngine struct {
	store *Store
}

func NewBallotEngine(store *Store) *BallotEngine {
	return &BallotEngine{store: store}
}

// CastVote records voterID's ballot. Every selected candidate's tally goes
// up by one and the voter is marked as having voted, in one transaction.
//
// Tallies are bumped with votes = votes + 1 so concurrent ballots never
// lose an increment. The has_voted flag is flipped with a conditional
// update, so of two concurrent ballots from the same voter only the first
// to commit succeeds; the other gets ErrAlreadyVoted.
func (e *BallotEngine) CastVote(ctx context.Context, voterID int64, ballot models.Ballot) (models.BallotReceipt, error) {
	return e.record(e.castVote(ctx, ballot, func(context.Context, *sql.Tx) (int64, error) {
		return voterID, nil
	}))
}

// CastVoteWithToken is CastVote for the voter a login token was issued to.
// The token is resolved inside the ballot transaction; a token whose
// voter was deleted or reset away yields ErrInvalidSession.
func (e *BallotEngine) CastVoteWithToken(ctx context.Context, token string, ballot models.Ballot) (models.BallotReceipt, error) {
	return e.record(e.castVote(ctx, ballot, func(ctx context.Context, tx *sql.Tx) (int64, error) {
		return resolveSession(ctx, tx, token)
	}))
}

func (e *BallotEngine) record(receipt models.BallotReceipt, err error) (models.BallotReceipt, error) {
	if err != nil {
		e.store.metrics.ballotRejected(err)
		slog.Info("ballot rejected", "voter_id", receipt.VoterID, "reason", err)
		return models.BallotReceipt{}, err
	}

	e.store.metrics.ballotCast(len(receipt.Positions))
	slog.Info("vote cast", "voter_id", receipt.VoterID, "positions", len(receipt.Positions))
	return receipt, nil
}

// voterFunc names the voter a ballot is for, from inside the ballot
// transaction
type voterFunc func(ctx context.Context, tx *sql.Tx) (int64, error)

// castVote reports the resolved voter id in the receipt even on failure
func (e *BallotEngine) castVote(ctx context.Context, ballot models.Ballot, voter voterFunc) (models.BallotReceipt, error) {
	const op = "cast vote"

	if len(ballot) == 0 {
		return models.BallotReceipt{}, ErrNoSelection
	}

	// Fixed order keeps row locks acquired consistently across ballots
	positions := make([]string, 0, len(ballot))
	for position, candidateID := range ballot {
		if strings.TrimSpace(position) == "" {
			return models.BallotReceipt{}, invalid("selections", "position name is required")
		}
		if candidateID <= 0 {
			return models.BallotReceipt{}, invalid("selections", fmt.Sprintf("invalid candidate id for %q", position))
		}
		positions = append(positions, position)
	}
	sort.Strings(positions)

	var voterID int64
	err := e.store.withTx(ctx, op, func(tx *sql.Tx) error {
		active, err := readActive(ctx, tx)
		if err != nil {
			return err
		}
		if !active {
			return ErrVotingInactive
		}
		if voterID, err = voter(ctx, tx); err != nil {
			return err
		}

		var verified, hasVoted bool
		err = tx.QueryRowContext(ctx, `
			SELECT verified, has_voted FROM voters WHERE id = $1
		`, voterID).Scan(&verified, &hasVoted)
		if errors.Is(err, sql.ErrNoRows) {
			return ErrVoterNotFound
		}
		if err != nil {
			return storeError(op+": read voter", err)
		}
		if !verified {
			return ErrVoterNotEligible
		}
		if hasVoted {
			return ErrAlreadyVoted
		}

		// Claim the voter first; a concurrent ballot for the same voter
		// blocks here and then matches no row.
		res, err := tx.ExecContext(ctx, `
			UPDATE voters SET has_voted = TRUE
			WHERE id = $1 AND has_voted = FALSE AND verified = TRUE
		`, voterID)
		if err != nil {
			return storeError(op+": mark voter", err)
		}
		n, err := affected(op, res)
		if err != nil {
			return err
		}
		if n == 0 {
			return ErrAlreadyVoted
		}

		for _, position := range positions {
			candidateID := ballot[position]
			res, err := tx.ExecContext(ctx, `
				UPDATE candidates SET votes = votes + 1
				WHERE id = $1 AND position = $2
			`, candidateID, position)
			if err != nil {
				return storeError(op+": increment tally", err)
			}
			n, err := affected(op, res)
			if err != nil {
				return err
			}
			if n == 0 {
				return fmt.Errorf("%w: candidate %d for %q", ErrInvalidCandidateReference, candidateID, position)
			}
		}
		return nil
	})
	if err != nil {
		return models.BallotReceipt{VoterID: voterID}, err
	}

	return models.BallotReceipt{
		VoterID:   voterID,
		Positions: positions,
		CastAt:    e.store.now().UTC(),
	}, nil
}
