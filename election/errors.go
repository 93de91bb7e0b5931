// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package election

import (
	"errors"
	"fmt"
	"log/slog"
)

// Validation
var (
	ErrValidation  = errors.New("invalid input")
	ErrNoSelection = errors.New("ballot has no selections")
)

// Eligibility
var (
	ErrVoterNotEligible = errors.New("voter is not verified")
	ErrNotVerified      = errors.New("voter account is not verified by admin")
	ErrAlreadyVoted     = errors.New("voter has already voted")
	ErrVotingInactive   = errors.New("voting is not active")
	ErrUnderage         = errors.New("voter must be at least 18 years old")
	ErrDuplicateVoter   = errors.New("voter name already registered")
	ErrResultsSealed    = errors.New("results are sealed while voting is active")
)

// Authentication
var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrInvalidSession     = errors.New("voter token is not valid")
)

// Referential integrity
var (
	ErrPositionInUse             = errors.New("position has candidates")
	ErrInvalidCandidateReference = errors.New("candidate does not stand for position")
)

// Lookup
var (
	ErrPositionNotFound  = errors.New("position not found")
	ErrCandidateNotFound = errors.New("candidate not found")
	ErrVoterNotFound     = errors.New("voter not found")
)

// ErrPersistence covers store failures. The wrapped message names the
// operation, never the driver error.
var ErrPersistence = errors.New("store operation failed")

// Kind classifies an error for callers
type Kind string

const (
	KindNone                 Kind = ""
	KindValidation           Kind = "validation"
	KindEligibility          Kind = "eligibility"
	KindAuthentication       Kind = "authentication"
	KindReferentialIntegrity Kind = "referential_integrity"
	KindNotFound             Kind = "not_found"
	KindPersistence          Kind = "persistence"
)

var kinds = []struct {
	err  error
	kind Kind
}{
	{ErrValidation, KindValidation},
	{ErrNoSelection, KindValidation},
	{ErrInvalidCredentials, KindAuthentication},
	{ErrInvalidSession, KindAuthentication},
	{ErrNotVerified, KindEligibility},
	{ErrVoterNotEligible, KindEligibility},
	{ErrAlreadyVoted, KindEligibility},
	{ErrVotingInactive, KindEligibility},
	{ErrUnderage, KindEligibility},
	{ErrDuplicateVoter, KindEligibility},
	{ErrResultsSealed, KindEligibility},
	{ErrPositionInUse, KindReferentialIntegrity},
	{ErrInvalidCandidateReference, KindReferentialIntegrity},
	{ErrPositionNotFound, KindNotFound},
	{ErrCandidateNotFound, KindNotFound},
	{ErrVoterNotFound, KindNotFound},
	{ErrPersistence, KindPersistence},
}

// KindOf classifies err. Errors that did not come from this package are
// reported as persistence failures.
func KindOf(err error) Kind {
	if err == nil {
		return KindNone
	}
	for _, k := range kinds {
		if errors.Is(err, k.err) {
			return k.kind
		}
	}
	return KindPersistence
}

// ValidationError reports bad or missing input for a single field
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return e.Field + ": " + e.Reason
}

func (e *ValidationError) Is(target error) bool {
	return target == ErrValidation
}

func invalid(field, reason string) error {
	return &ValidationError{Field: field, Reason: reason}
}

// storeError logs the driver error and returns a classified error that
// carries only the operation name.
func storeError(op string, err error) error {
	slog.Error("store operation failed", "op", op, "error", err)
	return fmt.Errorf("%s: %w", op, ErrPersistence)
}
