// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package router

import (
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"testing"

	"github.com/danielhkuo/quickly-elect/models"
	"github.com/danielhkuo/quickly-elect/testutil"
)

func TestHealthEndpoint(t *testing.T) {
	db := testutil.SetupTestDB(t)

	cfg := testutil.GetTestConfig()
	mux := NewRouter(db, cfg)

	req := httptest.NewRequest("GET", "/health", nil)
	w := httptest.NewRecorder()

	mux.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Errorf("Expected status 200, got %d", w.Code)
	}

	if w.Body.String() != "OK" {
		t.Errorf("Expected body 'OK', got '%s'", w.Body.String())
	}
}

func TestRootEndpoint(t *testing.T) {
	db := testutil.SetupTestDB(t)

	cfg := testutil.GetTestConfig()
	mux := NewRouter(db, cfg)

	req := httptest.NewRequest("GET", "/", nil)
	w := httptest.NewRecorder()

	mux.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Errorf("Expected status 200, got %d", w.Code)
	}

	expected := "quickly-elect API v1"
	if w.Body.String() != expected {
		t.Errorf("Expected body '%s', got '%s'", expected, w.Body.String())
	}
}

func TestRouteExistence(t *testing.T) {
	db := testutil.SetupTestDB(t)

	cfg := testutil.GetTestConfig()
	mux := NewRouter(db, cfg)

	// 400, 401, 404 are all valid responses depending on handler logic
	testCases := []struct {
		method string
		path   string
	}{
		{"GET", "/health"},
		{"GET", "/metrics"},
		{"GET", "/"},

		{"POST", "/admin/login"},
		{"GET", "/voting/status"},
		{"POST", "/voting/start"},
		{"POST", "/voting/stop"},
		{"POST", "/voting/reset"},

		{"GET", "/positions"},
		{"POST", "/positions"},
		{"DELETE", "/positions/President"},
		{"GET", "/candidates"},
		{"POST", "/candidates"},
		{"GET", "/candidates/1"},
		{"GET", "/candidates/1/photo"},
		{"PATCH", "/candidates/1"},
		{"DELETE", "/candidates/1"},

		{"POST", "/voters/register"},
		{"POST", "/voters/login"},
		{"GET", "/voters"},
		{"POST", "/voters/1/verify"},
		{"PATCH", "/voters/1"},
		{"DELETE", "/voters/1"},

		{"POST", "/ballots"},
		{"GET", "/results"},
	}

	for _, tc := range testCases {
		t.Run(tc.method+" "+tc.path, func(t *testing.T) {
			req := httptest.NewRequest(tc.method, tc.path, nil)
			w := httptest.NewRecorder()

			mux.ServeHTTP(w, req)

			if w.Code == http.StatusMethodNotAllowed {
				t.Errorf("Route %s %s returned 405, expected route handler to exist", tc.method, tc.path)
			}
		})
	}
}

func TestMethodNotAllowed(t *testing.T) {
	db := testutil.SetupTestDB(t)

	cfg := testutil.GetTestConfig()
	mux := NewRouter(db, cfg)

	testCases := []struct {
		method string
		path   string
	}{
		{"POST", "/health"},      // Only GET is defined
		{"PUT", "/candidates/1"}, // PATCH, not PUT
		{"DELETE", "/ballots"},   // Only POST is defined
		{"POST", "/results"},     // Only GET is defined
	}

	for _, tc := range testCases {
		t.Run(tc.method+" "+tc.path, func(t *testing.T) {
			req := httptest.NewRequest(tc.method, tc.path, nil)
			w := httptest.NewRecorder()

			mux.ServeHTTP(w, req)

			if w.Code != http.StatusMethodNotAllowed {
				t.Errorf("Expected 405 for %s %s, got %d", tc.method, tc.path, w.Code)
			}
		})
	}
}

// TestElectionWorkflow drives a whole election through the router:
// setup, registration, verification, voting, closing and results.
func TestElectionWorkflow(t *testing.T) {
	db := testutil.SetupTestDB(t)

	cfg := testutil.GetTestConfig()
	mux := NewRouter(db, cfg)

	do := func(t *testing.T, method, path string, body interface{}, headers map[string]string, expected int) *httptest.ResponseRecorder {
		t.Helper()
		w := httptest.NewRecorder()
		mux.ServeHTTP(w, testutil.MakeRequest(method, path, body, headers))
		testutil.AssertStatus(t, w, expected)
		return w
	}

	// Step 1: admin login
	w := do(t, "POST", "/admin/login", models.AdminLoginRequest{
		Username: testutil.TestAdminUsername,
		Password: testutil.TestAdminPassword,
	}, nil, http.StatusOK)
	var login models.AdminLoginResponse
	testutil.AssertJSON(t, w, &login)
	admin := map[string]string{"X-Admin-Key": login.AdminKey}

	// Step 2: positions and candidates
	do(t, "POST", "/positions", models.AddPositionRequest{Name: "President"}, admin, http.StatusCreated)
	candidateIDs := map[string]int64{}
	for _, name := range []string{"Alice", "Bob"} {
		w := do(t, "POST", "/candidates", models.CreateCandidateRequest{
			Name: name, Symbol: name[:1], Age: 50, Position: "President",
		}, admin, http.StatusCreated)
		var c models.CandidateResponse
		testutil.AssertJSON(t, w, &c)
		candidateIDs[name] = c.ID
	}

	// Step 3: voters register and are verified
	voterTokens := map[string]string{}
	for _, name := range []string{"carol", "dave", "erin"} {
		w := do(t, "POST", "/voters/register", models.RegisterVoterRequest{
			Name: name, Password: "pw-" + name, DOB: testutil.AdultDOB(25).Format(models.DateLayout),
		}, nil, http.StatusCreated)
		var v models.VoterResponse
		testutil.AssertJSON(t, w, &v)

		// Login is refused until verification
		do(t, "POST", "/voters/login", models.VoterLoginRequest{Name: name, Password: "pw-" + name}, nil, http.StatusForbidden)
		do(t, "POST", "/voters/"+strconv.FormatInt(v.ID, 10)+"/verify", nil, admin, http.StatusOK)

		w = do(t, "POST", "/voters/login", models.VoterLoginRequest{Name: name, Password: "pw-" + name}, nil, http.StatusOK)
		var vl models.VoterLoginResponse
		testutil.AssertJSON(t, w, &vl)
		voterTokens[name] = vl.VoterToken
	}

	// Step 4: ballots before voting opens are refused
	do(t, "POST", "/ballots", models.CastBallotRequest{
		Selections: map[string]int64{"President": candidateIDs["Alice"]},
	}, map[string]string{"X-Voter-Token": voterTokens["carol"]}, http.StatusConflict)

	// Step 5: open voting and cast
	do(t, "POST", "/voting/start", nil, admin, http.StatusOK)
	choices := map[string]string{"carol": "Alice", "dave": "Bob", "erin": "Alice"}
	for voter, candidate := range choices {
		do(t, "POST", "/ballots", models.CastBallotRequest{
			Selections: map[string]int64{"President": candidateIDs[candidate]},
		}, map[string]string{"X-Voter-Token": voterTokens[voter]}, http.StatusCreated)
	}
	do(t, "POST", "/ballots", models.CastBallotRequest{
		Selections: map[string]int64{"President": candidateIDs["Bob"]},
	}, map[string]string{"X-Voter-Token": voterTokens["carol"]}, http.StatusConflict)
	do(t, "GET", "/results", nil, nil, http.StatusForbidden)

	// Step 6: close and read results
	do(t, "POST", "/voting/stop", nil, admin, http.StatusOK)
	w = do(t, "GET", "/results", nil, nil, http.StatusOK)
	var results models.ElectionResults
	testutil.AssertJSON(t, w, &results)

	if len(results.Positions) != 1 {
		t.Fatalf("Expected 1 position, got %d", len(results.Positions))
	}
	president := results.Positions[0]
	if president.TotalVotes != 3 {
		t.Errorf("Expected 3 votes, got %d", president.TotalVotes)
	}
	if len(president.Winners) != 1 || president.Winners[0] != candidateIDs["Alice"] {
		t.Errorf("Expected Alice to win, got %v", president.Winners)
	}
	if results.VotersVoted != 3 || results.VotersTotal != 3 {
		t.Errorf("Expected turnout 3/3, got %d/%d", results.VotersVoted, results.VotersTotal)
	}

	// Step 7: the counters saw three ballots and one double vote
	w = do(t, "GET", "/metrics", nil, nil, http.StatusOK)
	body := w.Body.String()
	for _, want := range []string{
		"election_ballots_cast_total 3",
		`election_ballot_rejections_total{reason="already_voted"} 1`,
		`election_ballot_rejections_total{reason="voting_inactive"} 1`,
	} {
		if !strings.Contains(body, want) {
			t.Errorf("Expected metrics to contain %q", want)
		}
	}
}

// TestResetRevokesVoterTokens replays a login token issued before a reset.
// Voter ids restart at 1, so the old token must not carry over to the
// voter who now holds that id.
func TestResetRevokesVoterTokens(t *testing.T) {
	db := testutil.SetupTestDB(t)

	cfg := testutil.GetTestConfig()
	mux := NewRouter(db, cfg)

	do := func(t *testing.T, method, path string, body interface{}, headers map[string]string, expected int) *httptest.ResponseRecorder {
		t.Helper()
		w := httptest.NewRecorder()
		mux.ServeHTTP(w, testutil.MakeRequest(method, path, body, headers))
		testutil.AssertStatus(t, w, expected)
		return w
	}
	w := do(t, "POST", "/admin/login", models.AdminLoginRequest{
		Username: testutil.TestAdminUsername,
		Password: testutil.TestAdminPassword,
	}, nil, http.StatusOK)
	var login models.AdminLoginResponse
	testutil.AssertJSON(t, w, &login)
	admin := map[string]string{"X-Admin-Key": login.AdminKey}

	enroll := func(t *testing.T, name string) (int64, string) {
		t.Helper()
		w := do(t, "POST", "/voters/register", models.RegisterVoterRequest{
			Name: name, Password: "pw-" + name, DOB: testutil.AdultDOB(30).Format(models.DateLayout),
		}, nil, http.StatusCreated)
		var v models.VoterResponse
		testutil.AssertJSON(t, w, &v)
		do(t, "POST", "/voters/"+strconv.FormatInt(v.ID, 10)+"/verify", nil, admin, http.StatusOK)

		w = do(t, "POST", "/voters/login", models.VoterLoginRequest{Name: name, Password: "pw-" + name}, nil, http.StatusOK)
		var vl models.VoterLoginResponse
		testutil.AssertJSON(t, w, &vl)
		return v.ID, vl.VoterToken
	}

	aliceID, aliceToken := enroll(t, "alice")
	do(t, "POST", "/voting/reset", nil, admin, http.StatusOK)

	bobID, bobToken := enroll(t, "bob")
	if bobID != aliceID {
		t.Fatalf("Expected bob to reuse voter id %d, got %d", aliceID, bobID)
	}

	do(t, "POST", "/positions", models.AddPositionRequest{Name: "President"}, admin, http.StatusCreated)
	w = do(t, "POST", "/candidates", models.CreateCandidateRequest{
		Name: "Ada", Symbol: "A", Age: 50, Position: "President",
	}, admin, http.StatusCreated)
	var ada models.CandidateResponse
	testutil.AssertJSON(t, w, &ada)
	do(t, "POST", "/voting/start", nil, admin, http.StatusOK)

	ballot := models.CastBallotRequest{Selections: map[string]int64{"President": ada.ID}}
	do(t, "POST", "/ballots", ballot, map[string]string{"X-Voter-Token": aliceToken}, http.StatusUnauthorized)

	if testutil.VoterHasVoted(t, db, bobID) {
		t.Error("Stale token marked bob as voted")
	}
	if votes := testutil.CandidateVotes(t, db, ada.ID); votes != 0 {
		t.Errorf("Stale token recorded %d votes", votes)
	}

	// Bob's own ballot still goes through
	do(t, "POST", "/ballots", ballot, map[string]string{"X-Voter-Token": bobToken}, http.StatusCreated)
	if votes := testutil.CandidateVotes(t, db, ada.ID); votes != 1 {
		t.Errorf("Expected 1 vote, got %d", votes)
	}
}
