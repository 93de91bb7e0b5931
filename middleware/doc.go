// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package middleware provides HTTP middleware and helper functions.

# Request Logging

Wrap handlers with request logging:

	mux.HandleFunc("POST /ballots", middleware.WithLogging(handler))

Each request gets an id, taken from X-Request-ID when the client sends one
and generated otherwise. The id is echoed in the response and attached to
the start and completion log lines along with status and duration_ms.

# CORS Middleware

Enable cross-origin requests for the voting kiosk and admin frontends:

	server := http.Server{
		Handler: middleware.CORS(mux),
	}

Allows methods GET, POST, PATCH, DELETE, OPTIONS with headers
Content-Type, X-Admin-Key, X-Voter-Token, X-Request-ID.

# JSON Helpers

Write JSON responses:

	middleware.JSONResponse(w, http.StatusOK, data)
	middleware.ErrorResponseKind(w, http.StatusConflict, "voter has already voted", "eligibility")

Parse JSON request bodies:

	var req models.CastBallotRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

# Client IP Extraction

Get the original client IP (handles X-Forwarded-For, X-Real-IP):

	ip := middleware.GetClientIP(r)
*/
package middleware
