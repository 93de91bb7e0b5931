// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"net/http"
	"time"

	"github.com/danielhkuo/quickly-elect/cliparse"
	"github.com/danielhkuo/quickly-elect/election"
	"github.com/danielhkuo/quickly-elect/middleware"
	"github.com/danielhkuo/quickly-elect/models"
)

type VoterHandler struct {
	directory *election.Directory
	cfg       cliparse.Config
}

func NewVoterHandler(store *election.Store, cfg cliparse.Config) *VoterHandler {
	return &VoterHandler{directory: election.NewDirectory(store), cfg: cfg}
}

// Register handles POST /voters/register. New voters wait for admin
// verification before they can log in.
func (h *VoterHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req models.RegisterVoterRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

	dob, ok := parseDOB(w, req.DOB)
	if !ok {
		return
	}

	v, err := h.directory.Register(r.Context(), req.Name, req.Password, dob)
	if err != nil {
		writeError(w, "register voter", err)
		return
	}

	middleware.JSONResponse(w, http.StatusCreated, voterResponse(v))
}

// Login handles POST /voters/login
func (h *VoterHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req models.VoterLoginRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

	if req.Name == "" || req.Password == "" {
		middleware.ErrorResponse(w, http.StatusBadRequest, "name and password are required")
		return
	}

	v, err := h.directory.Authenticate(r.Context(), req.Name, req.Password)
	if err != nil {
		writeError(w, "voter login", err)
		return
	}

	token, err := h.directory.OpenSession(r.Context(), v.ID)
	if err != nil {
		writeError(w, "voter login", err)
		return
	}

	middleware.JSONResponse(w, http.StatusOK, models.VoterLoginResponse{
		VoterToken: token,
		Voter:      voterResponse(v),
	})
}

// ListVoters handles GET /voters; ?unverified=true limits the list to
// voters awaiting verification
func (h *VoterHandler) ListVoters(w http.ResponseWriter, r *http.Request) {
	if !requireAdmin(w, r, h.cfg.AdminKeySalt) {
		return
	}

	var voters []models.Voter
	var err error
	if r.URL.Query().Get("unverified") == "true" {
		voters, err = h.directory.ListUnverified(r.Context())
	} else {
		voters, err = h.directory.ListVoters(r.Context())
	}
	if err != nil {
		writeError(w, "list voters", err)
		return
	}

	resp := make([]models.VoterResponse, 0, len(voters))
	for _, v := range voters {
		resp = append(resp, voterResponse(v))
	}

	middleware.JSONResponse(w, http.StatusOK, resp)
}

// VerifyVoter handles POST /voters/{id}/verify
func (h *VoterHandler) VerifyVoter(w http.ResponseWriter, r *http.Request) {
	if !requireAdmin(w, r, h.cfg.AdminKeySalt) {
		return
	}

	id, ok := pathID(w, r)
	if !ok {
		return
	}

	req := models.VerifyVoterRequest{Verified: true}
	if r.ContentLength != 0 {
		if err := middleware.ParseJSONBody(r, &req); err != nil {
			middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
			return
		}
	}

	if err := h.directory.SetVerified(r.Context(), id, req.Verified); err != nil {
		writeError(w, "verify voter", err)
		return
	}

	v, err := h.directory.GetVoter(r.Context(), id)
	if err != nil {
		writeError(w, "verify voter", err)
		return
	}

	middleware.JSONResponse(w, http.StatusOK, voterResponse(v))
}

// UpdateVoter handles PATCH /voters/{id}. Omitted fields are kept.
func (h *VoterHandler) UpdateVoter(w http.ResponseWriter, r *http.Request) {
	if !requireAdmin(w, r, h.cfg.AdminKeySalt) {
		return
	}

	id, ok := pathID(w, r)
	if !ok {
		return
	}

	var req models.UpdateVoterRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

	update := models.VoterUpdate{
		Name:     req.Name,
		Password: req.Password,
		HasVoted: req.HasVoted,
		Verified: req.Verified,
	}
	if req.DOB != nil {
		dob, ok := parseDOB(w, *req.DOB)
		if !ok {
			return
		}
		update.DOB = &dob
	}

	v, err := h.directory.EditVoter(r.Context(), id, update)
	if err != nil {
		writeError(w, "update voter", err)
		return
	}

	middleware.JSONResponse(w, http.StatusOK, voterResponse(v))
}

// DeleteVoter handles DELETE /voters/{id}
func (h *VoterHandler) DeleteVoter(w http.ResponseWriter, r *http.Request) {
	if !requireAdmin(w, r, h.cfg.AdminKeySalt) {
		return
	}

	id, ok := pathID(w, r)
	if !ok {
		return
	}

	if err := h.directory.DeleteVoter(r.Context(), id); err != nil {
		writeError(w, "delete voter", err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func parseDOB(w http.ResponseWriter, s string) (time.Time, bool) {
	if s == "" {
		middleware.ErrorResponseKind(w, http.StatusBadRequest, "dob: date of birth is required", string(election.KindValidation))
		return time.Time{}, false
	}
	dob, err := time.Parse(models.DateLayout, s)
	if err != nil {
		middleware.ErrorResponseKind(w, http.StatusBadRequest, "dob: must be YYYY-MM-DD", string(election.KindValidation))
		return time.Time{}, false
	}
	return dob, true
}

func voterResponse(v models.Voter) models.VoterResponse {
	return models.VoterResponse{
		ID:       v.ID,
		Name:     v.Name,
		DOB:      v.DOB.Format(models.DateLayout),
		HasVoted: v.HasVoted,
		Verified: v.Verified,
	}
}
