// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"net/http"

	"github.com/danielhkuo/quickly-elect/auth"
	"github.com/danielhkuo/quickly-elect/cliparse"
	"github.com/danielhkuo/quickly-elect/election"
	"github.com/danielhkuo/quickly-elect/middleware"
	"github.com/danielhkuo/quickly-elect/models"
)

// AdminHandler serves admin login and the voting session controls
type AdminHandler struct {
	directory *election.Directory
	session   *election.Session
	cfg       cliparse.Config
}

func NewAdminHandler(store *election.Store, cfg cliparse.Config) *AdminHandler {
	return &AdminHandler{
		directory: election.NewDirectory(store),
		session:   election.NewSession(store),
		cfg:       cfg,
	}
}

// Login handles POST /admin/login
func (h *AdminHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req models.AdminLoginRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

	if req.Username == "" || req.Password == "" {
		middleware.ErrorResponse(w, http.StatusBadRequest, "username and password are required")
		return
	}

	if err := h.directory.AuthenticateAdmin(r.Context(), req.Username, req.Password); err != nil {
		writeError(w, "admin login", err)
		return
	}

	middleware.JSONResponse(w, http.StatusOK, models.AdminLoginResponse{
		AdminKey: auth.GenerateAdminKey(req.Username, h.cfg.AdminKeySalt),
	})
}

// GetVotingStatus handles GET /voting/status
func (h *AdminHandler) GetVotingStatus(w http.ResponseWriter, r *http.Request) {
	active, err := h.session.IsActive(r.Context())
	if err != nil {
		writeError(w, "voting status", err)
		return
	}

	middleware.JSONResponse(w, http.StatusOK, models.VotingStatusResponse{Active: active})
}

// StartVoting handles POST /voting/start
func (h *AdminHandler) StartVoting(w http.ResponseWriter, r *http.Request) {
	if !requireAdmin(w, r, h.cfg.AdminKeySalt) {
		return
	}

	if err := h.session.StartVoting(r.Context()); err != nil {
		writeError(w, "start voting", err)
		return
	}

	middleware.JSONResponse(w, http.StatusOK, models.VotingStatusResponse{Active: true})
}

// StopVoting handles POST /voting/stop
func (h *AdminHandler) StopVoting(w http.ResponseWriter, r *http.Request) {
	if !requireAdmin(w, r, h.cfg.AdminKeySalt) {
		return
	}

	if err := h.session.StopVoting(r.Context()); err != nil {
		writeError(w, "stop voting", err)
		return
	}

	middleware.JSONResponse(w, http.StatusOK, models.VotingStatusResponse{Active: false})
}

// ResetAll handles POST /voting/reset. Candidates and voters are removed;
// positions survive.
func (h *AdminHandler) ResetAll(w http.ResponseWriter, r *http.Request) {
	if !requireAdmin(w, r, h.cfg.AdminKeySalt) {
		return
	}

	if err := h.session.ResetAll(r.Context()); err != nil {
		writeError(w, "reset", err)
		return
	}

	middleware.JSONResponse(w, http.StatusOK, models.MessageResponse{
		Message: "All candidates and voters have been removed",
	})
}
