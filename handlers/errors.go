// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/danielhkuo/quickly-elect/auth"
	"github.com/danielhkuo/quickly-elect/election"
	"github.com/danielhkuo/quickly-elect/middleware"
)

// Header names for the two credentials the API accepts
const (
	AdminKeyHeader   = "X-Admin-Key"
	VoterTokenHeader = "X-Voter-Token"
)

// statusFor maps a core error to an HTTP status code
func statusFor(err error) int {
	switch {
	case errors.Is(err, election.ErrNotVerified),
		errors.Is(err, election.ErrVoterNotEligible),
		errors.Is(err, election.ErrResultsSealed):
		return http.StatusForbidden
	case errors.Is(err, election.ErrUnderage),
		errors.Is(err, election.ErrInvalidCandidateReference):
		return http.StatusUnprocessableEntity
	}

	switch election.KindOf(err) {
	case election.KindValidation:
		return http.StatusBadRequest
	case election.KindAuthentication:
		return http.StatusUnauthorized
	case election.KindEligibility, election.KindReferentialIntegrity:
		return http.StatusConflict
	case election.KindNotFound:
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}

// writeError renders a core error. Persistence failures get a generic
// message; the driver detail was already logged by the store.
func writeError(w http.ResponseWriter, op string, err error) {
	code := statusFor(err)
	kind := election.KindOf(err)
	if code == http.StatusInternalServerError {
		slog.Error("request failed", "op", op, "error", err)
		middleware.ErrorResponseKind(w, code, "Database error", string(kind))
		return
	}
	middleware.ErrorResponseKind(w, code, err.Error(), string(kind))
}

func isAdmin(r *http.Request, salt string) bool {
	_, err := auth.ValidateAdminKey(r.Header.Get(AdminKeyHeader), salt)
	return err == nil
}

// requireAdmin validates the X-Admin-Key header, writing 401 on failure
func requireAdmin(w http.ResponseWriter, r *http.Request, salt string) bool {
	if !isAdmin(r, salt) {
		middleware.ErrorResponse(w, http.StatusUnauthorized, "Invalid admin key")
		return false
	}
	return true
}

// pathID parses the {id} path segment, writing 400 on failure
func pathID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil || id <= 0 {
		middleware.ErrorResponse(w, http.StatusBadRequest, "id must be a positive integer")
		return 0, false
	}
	return id, true
}
