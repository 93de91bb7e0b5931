// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package handlers contains HTTP request handlers for the Quickly Elect API.

# Handler Types

Each handler is a struct over the election core and config:

  - AdminHandler: Admin login and the voting session controls
  - CandidateHandler: Positions, candidates and candidate photos
  - VoterHandler: Registration, login, verification and voter edits
  - BallotHandler: Ballot submission and results

Handlers are created via constructor functions that accept the shared
*election.Store and Config:

	store := election.NewStore(conn, db.SQLite, election.WithMetrics(m))
	ballotHandler := handlers.NewBallotHandler(store, cfg)

# Credentials

Admin operations require the X-Admin-Key header, obtained from
POST /admin/login. Ballots require the X-Voter-Token header, obtained from
POST /voters/login once an admin has verified the voter.

# Election Lifecycle

	POST /positions, POST /candidates  → registry is prepared
	POST /voters/register              → voter waits for verification
	POST /voters/{id}/verify           → admin verifies
	POST /voting/start                 → ballots accepted
	POST /ballots                      → one ballot per voter
	POST /voting/stop                  → GET /results unsealed

# Errors

Core errors are mapped to status codes by kind: validation 400,
authentication 401, eligibility 403 or 409, not found 404, referential
integrity 409 or 422 and store failures 500. The kind is included in the
JSON error body. Store failures never expose driver text.
*/
package handlers
