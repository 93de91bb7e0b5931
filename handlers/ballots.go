// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"net/http"

	"github.com/danielhkuo/quickly-elect/cliparse"
	"github.com/danielhkuo/quickly-elect/election"
	"github.com/danielhkuo/quickly-elect/middleware"
	"github.com/danielhkuo/quickly-elect/models"
)

// BallotHandler serves ballot submission and the results view
type BallotHandler struct {
	engine  *election.BallotEngine
	results *election.Results
	cfg     cliparse.Config
}

func NewBallotHandler(store *election.Store, cfg cliparse.Config) *BallotHandler {
	return &BallotHandler{
		engine:  election.NewBallotEngine(store),
		results: election.NewResults(store),
		cfg:     cfg,
	}
}

// CastBallot handles POST /ballots
func (h *BallotHandler) CastBallot(w http.ResponseWriter, r *http.Request) {
	token := r.Header.Get(VoterTokenHeader)
	if token == "" {
		middleware.ErrorResponse(w, http.StatusUnauthorized, "X-Voter-Token header required")
		return
	}

	var req models.CastBallotRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

	receipt, err := h.engine.CastVoteWithToken(r.Context(), token, models.Ballot(req.Selections))
	if err != nil {
		writeError(w, "cast ballot", err)
		return
	}

	middleware.JSONResponse(w, http.StatusCreated, receipt)
}

// GetResults handles GET /results. Results are sealed while voting is active.
func (h *BallotHandler) GetResults(w http.ResponseWriter, r *http.Request) {
	results, err := h.results.Tally(r.Context())
	if err != nil {
		writeError(w, "get results", err)
		return
	}

	middleware.JSONResponse(w, http.StatusOK, results)
}
