// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/dustin/go-humanize"

	"github.com/danielhkuo/quickly-elect/cliparse"
	"github.com/danielhkuo/quickly-elect/election"
	"github.com/danielhkuo/quickly-elect/middleware"
	"github.com/danielhkuo/quickly-elect/models"
)

// CandidateHandler serves positions and candidates
type CandidateHandler struct {
	registry *election.Registry
	cfg      cliparse.Config
}

func NewCandidateHandler(store *election.Store, cfg cliparse.Config) *CandidateHandler {
	return &CandidateHandler{registry: election.NewRegistry(store), cfg: cfg}
}

// ListPositions handles GET /positions
func (h *CandidateHandler) ListPositions(w http.ResponseWriter, r *http.Request) {
	positions, err := h.registry.ListPositions(r.Context())
	if err != nil {
		writeError(w, "list positions", err)
		return
	}
	if positions == nil {
		positions = []string{}
	}

	middleware.JSONResponse(w, http.StatusOK, models.PositionsResponse{Positions: positions})
}

// AddPosition handles POST /positions
func (h *CandidateHandler) AddPosition(w http.ResponseWriter, r *http.Request) {
	if !requireAdmin(w, r, h.cfg.AdminKeySalt) {
		return
	}

	var req models.AddPositionRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

	if err := h.registry.AddPosition(r.Context(), req.Name); err != nil {
		writeError(w, "add position", err)
		return
	}

	middleware.JSONResponse(w, http.StatusCreated, models.Position{Name: strings.TrimSpace(req.Name)})
}

// DeletePosition handles DELETE /positions/{name}
func (h *CandidateHandler) DeletePosition(w http.ResponseWriter, r *http.Request) {
	if !requireAdmin(w, r, h.cfg.AdminKeySalt) {
		return
	}

	name := r.PathValue("name")
	if err := h.registry.DeletePosition(r.Context(), name); err != nil {
		writeError(w, "delete position", err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// ListCandidates handles GET /candidates, optionally filtered by ?position=.
// Vote counts are only included for admin callers.
func (h *CandidateHandler) ListCandidates(w http.ResponseWriter, r *http.Request) {
	admin := isAdmin(r, h.cfg.AdminKeySalt)
	candidates, err := h.registry.ListCandidates(r.Context(), r.URL.Query().Get("position"))
	if err != nil {
		writeError(w, "list candidates", err)
		return
	}

	resp := make([]models.CandidateResponse, 0, len(candidates))
	for _, c := range candidates {
		resp = append(resp, candidateResponse(c, admin))
	}

	middleware.JSONResponse(w, http.StatusOK, resp)
}

// GetCandidate handles GET /candidates/{id}
func (h *CandidateHandler) GetCandidate(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	c, err := h.registry.GetCandidate(r.Context(), id)
	if err != nil {
		writeError(w, "get candidate", err)
		return
	}

	middleware.JSONResponse(w, http.StatusOK, candidateResponse(c, isAdmin(r, h.cfg.AdminKeySalt)))
}

// GetPhoto handles GET /candidates/{id}/photo and streams the raw image
func (h *CandidateHandler) GetPhoto(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	c, err := h.registry.GetCandidate(r.Context(), id)
	if err != nil {
		writeError(w, "get photo", err)
		return
	}
	if len(c.Photo) == 0 {
		middleware.ErrorResponse(w, http.StatusNotFound, "Candidate has no photo")
		return
	}

	w.Header().Set("Content-Type", http.DetectContentType(c.Photo))
	w.Header().Set("Content-Length", strconv.Itoa(len(c.Photo)))
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(c.Photo); err != nil {
		slog.Warn("failed to write photo", "candidate_id", id, "error", err)
	}
}

// CreateCandidate handles POST /candidates
func (h *CandidateHandler) CreateCandidate(w http.ResponseWriter, r *http.Request) {
	if !requireAdmin(w, r, h.cfg.AdminKeySalt) {
		return
	}

	var req models.CreateCandidateRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

	c, err := h.registry.AddCandidate(r.Context(), models.NewCandidate{
		Name:     req.Name,
		Symbol:   req.Symbol,
		Age:      req.Age,
		Position: req.Position,
		Photo:    req.Photo,
		Bio:      req.Bio,
	})
	if err != nil {
		writeError(w, "create candidate", err)
		return
	}

	middleware.JSONResponse(w, http.StatusCreated, candidateResponse(c, true))
}

// UpdateCandidate handles PATCH /candidates/{id}. Omitted fields are kept.
func (h *CandidateHandler) UpdateCandidate(w http.ResponseWriter, r *http.Request) {
	if !requireAdmin(w, r, h.cfg.AdminKeySalt) {
		return
	}

	id, ok := pathID(w, r)
	if !ok {
		return
	}

	var req models.UpdateCandidateRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

	c, err := h.registry.EditCandidate(r.Context(), id, models.CandidateUpdate{
		Name:     req.Name,
		Symbol:   req.Symbol,
		Age:      req.Age,
		Position: req.Position,
		Photo:    req.Photo,
		Bio:      req.Bio,
	})
	if err != nil {
		writeError(w, "update candidate", err)
		return
	}

	middleware.JSONResponse(w, http.StatusOK, candidateResponse(c, true))
}

// DeleteCandidate handles DELETE /candidates/{id}
func (h *CandidateHandler) DeleteCandidate(w http.ResponseWriter, r *http.Request) {
	if !requireAdmin(w, r, h.cfg.AdminKeySalt) {
		return
	}

	id, ok := pathID(w, r)
	if !ok {
		return
	}

	if err := h.registry.DeleteCandidate(r.Context(), id); err != nil {
		writeError(w, "delete candidate", err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func candidateResponse(c models.Candidate, withVotes bool) models.CandidateResponse {
	resp := models.CandidateResponse{
		ID:       c.ID,
		Name:     c.Name,
		Symbol:   c.Symbol,
		Age:      c.Age,
		Position: c.Position,
		Bio:      c.Bio,
		HasPhoto: len(c.Photo) > 0,
	}
	if withVotes {
		votes := c.Votes
		resp.Votes = &votes
	}
	if resp.HasPhoto {
		resp.PhotoSize = humanize.Bytes(uint64(len(c.Photo)))
	}
	return resp
}
