// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package testutil

import (
	"bytes"
	"database/sql"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/danielhkuo/quickly-elect/cliparse"
	"github.com/danielhkuo/quickly-elect/db"
	"github.com/danielhkuo/quickly-elect/models"
)

// Admin credentials seeded by SetupTestDB
const (
	TestAdminUsername = "admin"
	TestAdminPassword = "admin123"
)

// SetupTestDB creates a fresh SQLite database file with the full schema
// and the admin credential. The file lives in t.TempDir().
func SetupTestDB(t *testing.T) *sql.DB {
	t.Helper()

	path := filepath.Join(t.TempDir(), "election.db")
	conn, err := db.Open(db.SQLite, path)
	if err != nil {
		t.Fatalf("Failed to open test database: %v", err)
	}
	t.Cleanup(func() { conn.Close() })

	if err := db.CreateSchema(conn, db.SQLite); err != nil {
		t.Fatalf("Failed to create schema: %v", err)
	}
	if err := db.SeedAdmin(conn, TestAdminUsername, TestAdminPassword); err != nil {
		t.Fatalf("Failed to seed admin: %v", err)
	}

	return conn
}

// GetTestConfig returns a standard test configuration
func GetTestConfig() cliparse.Config {
	return cliparse.Config{
		Port:          3318,
		DatabaseURL:   "file:test.db",
		DatabaseType:  cliparse.DatabaseSQLite,
		AdminKeySalt:  "test-admin-salt",
		AdminUsername: TestAdminUsername,
		AdminPassword: TestAdminPassword,
	}
}

// AdultDOB returns a date of birth that makes a voter the given age today
func AdultDOB(years int) time.Time {
	return time.Now().AddDate(-years, 0, -1)
}

// CreateTestVoter inserts a voter directly and returns its id
func CreateTestVoter(t *testing.T, conn *sql.DB, name string, verified bool) int64 {
	t.Helper()

	var id int64
	err := conn.QueryRow(`
		INSERT INTO voters (name, password, dob, has_voted, verified)
		VALUES ($1, 'secret', $2, FALSE, $3)
		RETURNING id
	`, name, AdultDOB(30).Format(models.DateLayout), verified).Scan(&id)
	if err != nil {
		t.Fatalf("Failed to create test voter: %v", err)
	}

	return id
}

// CreateTestCandidate inserts a candidate (and its position) and returns its id
func CreateTestCandidate(t *testing.T, conn *sql.DB, name, position string) int64 {
	t.Helper()

	_, err := conn.Exec(`INSERT INTO positions (name) VALUES ($1) ON CONFLICT (name) DO NOTHING`, position)
	if err != nil {
		t.Fatalf("Failed to create test position: %v", err)
	}

	var id int64
	err = conn.QueryRow(`
		INSERT INTO candidates (name, symbol, age, position, votes)
		VALUES ($1, $2, 40, $3, 0)
		RETURNING id
	`, name, name[:1], position).Scan(&id)
	if err != nil {
		t.Fatalf("Failed to create test candidate: %v", err)
	}

	return id
}

// SetVotingActive writes the voting status row directly
func SetVotingActive(t *testing.T, conn *sql.DB, active bool) {
	t.Helper()

	_, err := conn.Exec(`
		INSERT INTO voting_status (id, is_active) VALUES (1, $1)
		ON CONFLICT (id) DO UPDATE SET is_active = excluded.is_active
	`, active)
	if err != nil {
		t.Fatalf("Failed to set voting status: %v", err)
	}
}

// CandidateVotes reads a candidate's stored tally
func CandidateVotes(t *testing.T, conn *sql.DB, id int64) int64 {
	t.Helper()

	var votes int64
	if err := conn.QueryRow(`SELECT votes FROM candidates WHERE id = $1`, id).Scan(&votes); err != nil {
		t.Fatalf("Failed to read votes: %v", err)
	}
	return votes
}

// VoterHasVoted reads a voter's stored has_voted flag
func VoterHasVoted(t *testing.T, conn *sql.DB, id int64) bool {
	t.Helper()

	var hasVoted bool
	if err := conn.QueryRow(`SELECT has_voted FROM voters WHERE id = $1`, id).Scan(&hasVoted); err != nil {
		t.Fatalf("Failed to read has_voted: %v", err)
	}
	return hasVoted
}

// CountRows returns the number of rows in table
func CountRows(t *testing.T, conn *sql.DB, table string) int {
	t.Helper()

	var n int
	if err := conn.QueryRow(`SELECT COUNT(*) FROM ` + table).Scan(&n); err != nil {
		t.Fatalf("Failed to count %s: %v", table, err)
	}
	return n
}

// MakeRequest creates an HTTP test request
func MakeRequest(method, path string, body interface{}, headers map[string]string) *http.Request {
	var req *http.Request
	if body != nil {
		jsonBody, _ := json.Marshal(body)
		req = httptest.NewRequest(method, path, bytes.NewReader(jsonBody))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, path, nil)
	}

	for k, v := range headers {
		req.Header.Set(k, v)
	}

	return req
}

// AssertStatus checks that the response has the expected status code
func AssertStatus(t *testing.T, w *httptest.ResponseRecorder, expected int) {
	t.Helper()
	if w.Code != expected {
		t.Errorf("Expected status %d, got %d. Body: %s", expected, w.Code, w.Body.String())
	}
}

// AssertJSON decodes the response body into the provided struct
func AssertJSON(t *testing.T, w *httptest.ResponseRecorder, v interface{}) {
	t.Helper()
	if err := json.NewDecoder(w.Body).Decode(v); err != nil {
		t.Fatalf("Failed to decode JSON response: %v", err)
	}
}
