// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package router defines HTTP routes for the Quickly Elect API.

# Route Registration

NewRouter creates a configured http.ServeMux with all endpoints:

	mux := router.NewRouter(db, cfg)

# Endpoints

Health and metrics:

	GET /health
	GET /metrics - Prometheus counters for ballots, rejections and resets

Admin session (requires X-Admin-Key except login and status):

	POST /admin/login   - Exchange credentials for an admin key
	GET  /voting/status - Whether ballots are accepted
	POST /voting/start  - Open voting
	POST /voting/stop   - Close voting and unseal results
	POST /voting/reset  - Remove all candidates and voters

Registry (reads public, writes require X-Admin-Key):

	GET    /positions
	POST   /positions
	DELETE /positions/{name}
	GET    /candidates?position=
	POST   /candidates
	GET    /candidates/{id}
	GET    /candidates/{id}/photo
	PATCH  /candidates/{id}
	DELETE /candidates/{id}

Voters:

	POST   /voters/register    - Public sign-up
	POST   /voters/login       - Returns X-Voter-Token once verified
	GET    /voters?unverified= - Admin
	POST   /voters/{id}/verify - Admin
	PATCH  /voters/{id}        - Admin
	DELETE /voters/{id}        - Admin

Ballots and results:

	POST /ballots - Requires X-Voter-Token
	GET  /results - Sealed while voting is active

# Handler Initialization

The router builds one election.Store with its own metrics registry and
hands it to every handler:

	adminHandler := handlers.NewAdminHandler(store, cfg)
	candidateHandler := handlers.NewCandidateHandler(store, cfg)
	voterHandler := handlers.NewVoterHandler(store, cfg)
	ballotHandler := handlers.NewBallotHandler(store, cfg)
*/
package router
