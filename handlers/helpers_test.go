// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"context"
	"database/sql"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/danielhkuo/quickly-elect/auth"
	"github.com/danielhkuo/quickly-elect/cliparse"
	"github.com/danielhkuo/quickly-elect/db"
	"github.com/danielhkuo/quickly-elect/election"
	"github.com/danielhkuo/quickly-elect/testutil"
)

// setupHandlers returns a fresh store over a temp SQLite database
func setupHandlers(t *testing.T) (*election.Store, *sql.DB, cliparse.Config) {
	t.Helper()
	conn := testutil.SetupTestDB(t)
	return election.NewStore(conn, db.SQLite), conn, testutil.GetTestConfig()
}

func adminHeaders(cfg cliparse.Config) map[string]string {
	return map[string]string{
		AdminKeyHeader: auth.GenerateAdminKey(testutil.TestAdminUsername, cfg.AdminKeySalt),
	}
}

// voterHeaders opens a session for voterID the way login would
func voterHeaders(t *testing.T, store *election.Store, voterID int64) map[string]string {
	t.Helper()
	token, err := election.NewDirectory(store).OpenSession(context.Background(), voterID)
	if err != nil {
		t.Fatalf("Failed to open voter session: %v", err)
	}
	return map[string]string{VoterTokenHeader: token}
}

// serve runs a handler against a request, setting path values first
func serve(h http.HandlerFunc, req *http.Request, pathValues ...string) *httptest.ResponseRecorder {
	for i := 0; i+1 < len(pathValues); i += 2 {
		req.SetPathValue(pathValues[i], pathValues[i+1])
	}
	w := httptest.NewRecorder()
	h(w, req)
	return w
}
