// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package router

import (
	"database/sql"
	"net/http"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/danielhkuo/quickly-elect/cliparse"
	"github.com/danielhkuo/quickly-elect/db"
	"github.com/danielhkuo/quickly-elect/election"
	"github.com/danielhkuo/quickly-elect/handlers"
	"github.com/danielhkuo/quickly-elect/middleware"
)

func NewRouter(conn *sql.DB, cfg cliparse.Config) *http.ServeMux {
	mux := http.NewServeMux()

	metrics := election.NewMetrics()
	store := election.NewStore(conn, db.Dialect(cfg.DatabaseType), election.WithMetrics(metrics))

	// Initialize handlers
	adminHandler := handlers.NewAdminHandler(store, cfg)
	candidateHandler := handlers.NewCandidateHandler(store, cfg)
	voterHandler := handlers.NewVoterHandler(store, cfg)
	ballotHandler := handlers.NewBallotHandler(store, cfg)

	// Health check
	mux.HandleFunc("GET /health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	})
	mux.Handle("GET /metrics", promhttp.HandlerFor(metrics.Registry, promhttp.HandlerOpts{}))

	// Admin session
	mux.HandleFunc("POST /admin/login", middleware.WithLogging(adminHandler.Login))
	mux.HandleFunc("GET /voting/status", middleware.WithLogging(adminHandler.GetVotingStatus))
	mux.HandleFunc("POST /voting/start", middleware.WithLogging(adminHandler.StartVoting))
	mux.HandleFunc("POST /voting/stop", middleware.WithLogging(adminHandler.StopVoting))
	mux.HandleFunc("POST /voting/reset", middleware.WithLogging(adminHandler.ResetAll))

	// Election registry (reads public, writes admin)
	mux.HandleFunc("GET /positions", middleware.WithLogging(candidateHandler.ListPositions))
	mux.HandleFunc("POST /positions", middleware.WithLogging(candidateHandler.AddPosition))
	mux.HandleFunc("DELETE /positions/{name}", middleware.WithLogging(candidateHandler.DeletePosition))
	mux.HandleFunc("GET /candidates", middleware.WithLogging(candidateHandler.ListCandidates))
	mux.HandleFunc("POST /candidates", middleware.WithLogging(candidateHandler.CreateCandidate))
	mux.HandleFunc("GET /candidates/{id}", middleware.WithLogging(candidateHandler.GetCandidate))
	mux.HandleFunc("GET /candidates/{id}/photo", middleware.WithLogging(candidateHandler.GetPhoto))
	mux.HandleFunc("PATCH /candidates/{id}", middleware.WithLogging(candidateHandler.UpdateCandidate))
	mux.HandleFunc("DELETE /candidates/{id}", middleware.WithLogging(candidateHandler.DeleteCandidate))

	// Voter directory
	mux.HandleFunc("POST /voters/register", middleware.WithLogging(voterHandler.Register))
	mux.HandleFunc("POST /voters/login", middleware.WithLogging(voterHandler.Login))
	mux.HandleFunc("GET /voters", middleware.WithLogging(voterHandler.ListVoters))
	mux.HandleFunc("POST /voters/{id}/verify", middleware.WithLogging(voterHandler.VerifyVoter))
	mux.HandleFunc("PATCH /voters/{id}", middleware.WithLogging(voterHandler.UpdateVoter))
	mux.HandleFunc("DELETE /voters/{id}", middleware.WithLogging(voterHandler.DeleteVoter))

	// Ballots and results
	mux.HandleFunc("POST /ballots", middleware.WithLogging(ballotHandler.CastBallot))
	mux.HandleFunc("GET /results", middleware.WithLogging(ballotHandler.GetResults))

	// Root endpoint
	mux.HandleFunc("GET /", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("quickly-elect API v1"))
	})

	return mux
}
