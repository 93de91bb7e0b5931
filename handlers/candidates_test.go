// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"bytes"
	"net/http"
	"strconv"
	"testing"

	"github.com/danielhkuo/quickly-elect/models"
	"github.com/danielhkuo/quickly-elect/testutil"
)

var pngHeader = []byte("\x89PNG\r\n\x1a\n\x00\x00\x00\rIHDR")

func TestPositions(t *testing.T) {
	store, conn, cfg := setupHandlers(t)
	handler := NewCandidateHandler(store, cfg)

	// Adding needs the admin key
	w := serve(handler.AddPosition, testutil.MakeRequest("POST", "/positions", models.AddPositionRequest{Name: "President"}, nil))
	testutil.AssertStatus(t, w, http.StatusUnauthorized)

	for _, name := range []string{"Treasurer", "  President ", "Treasurer"} {
		w := serve(handler.AddPosition, testutil.MakeRequest("POST", "/positions", models.AddPositionRequest{Name: name}, adminHeaders(cfg)))
		testutil.AssertStatus(t, w, http.StatusCreated)
	}

	w = serve(handler.AddPosition, testutil.MakeRequest("POST", "/positions", models.AddPositionRequest{Name: "   "}, adminHeaders(cfg)))
	testutil.AssertStatus(t, w, http.StatusBadRequest)

	w = serve(handler.ListPositions, testutil.MakeRequest("GET", "/positions", nil, nil))
	testutil.AssertStatus(t, w, http.StatusOK)
	var list models.PositionsResponse
	testutil.AssertJSON(t, w, &list)
	if len(list.Positions) != 2 || list.Positions[0] != "President" || list.Positions[1] != "Treasurer" {
		t.Errorf("Expected [President Treasurer], got %v", list.Positions)
	}

	// A position with candidates cannot be deleted
	testutil.CreateTestCandidate(t, conn, "Alice", "President")

	tests := []struct {
		name           string
		position       string
		expectedStatus int
	}{
		{"in use", "President", http.StatusConflict},
		{"unused", "Treasurer", http.StatusNoContent},
		{"already gone", "Treasurer", http.StatusNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := testutil.MakeRequest("DELETE", "/positions/"+tt.position, nil, adminHeaders(cfg))
			w := serve(handler.DeletePosition, req, "name", tt.position)
			testutil.AssertStatus(t, w, tt.expectedStatus)
		})
	}

	if n := testutil.CountRows(t, conn, "positions"); n != 1 {
		t.Errorf("Expected 1 position left, got %d", n)
	}
}

func TestCreateCandidate(t *testing.T) {
	store, conn, cfg := setupHandlers(t)
	handler := NewCandidateHandler(store, cfg)

	tests := []struct {
		name           string
		body           models.CreateCandidateRequest
		headers        map[string]string
		expectedStatus int
	}{
		{
			name:           "valid candidate with photo",
			body:           models.CreateCandidateRequest{Name: "Alice", Symbol: "A", Age: 45, Position: "President", Photo: pngHeader, Bio: "Incumbent"},
			headers:        adminHeaders(cfg),
			expectedStatus: http.StatusCreated,
		},
		{
			name:           "missing admin key",
			body:           models.CreateCandidateRequest{Name: "Mallory", Symbol: "M", Age: 30, Position: "President"},
			expectedStatus: http.StatusUnauthorized,
		},
		{
			name:           "missing name",
			body:           models.CreateCandidateRequest{Symbol: "X", Age: 30, Position: "President"},
			headers:        adminHeaders(cfg),
			expectedStatus: http.StatusBadRequest,
		},
		{
			name:           "non-positive age",
			body:           models.CreateCandidateRequest{Name: "Bob", Symbol: "B", Age: 0, Position: "President"},
			headers:        adminHeaders(cfg),
			expectedStatus: http.StatusBadRequest,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := serve(handler.CreateCandidate, testutil.MakeRequest("POST", "/candidates", tt.body, tt.headers))
			testutil.AssertStatus(t, w, tt.expectedStatus)

			if tt.expectedStatus != http.StatusCreated {
				return
			}
			var resp models.CandidateResponse
			testutil.AssertJSON(t, w, &resp)
			if resp.ID == 0 {
				t.Error("Expected an assigned id")
			}
			if !resp.HasPhoto || resp.PhotoSize == "" {
				t.Errorf("Expected photo metadata, got has_photo=%v size=%q", resp.HasPhoto, resp.PhotoSize)
			}
			if resp.Votes == nil || *resp.Votes != 0 {
				t.Errorf("Expected admin to see votes=0, got %v", resp.Votes)
			}
		})
	}

	if n := testutil.CountRows(t, conn, "candidates"); n != 1 {
		t.Errorf("Expected exactly 1 candidate stored, got %d", n)
	}
	// The position was created along with the candidate
	if n := testutil.CountRows(t, conn, "positions"); n != 1 {
		t.Errorf("Expected position to be created, got %d", n)
	}
}

func TestGetCandidate(t *testing.T) {
	store, conn, cfg := setupHandlers(t)
	handler := NewCandidateHandler(store, cfg)

	id := testutil.CreateTestCandidate(t, conn, "Alice", "President")
	idStr := strconv.FormatInt(id, 10)

	t.Run("public view hides votes", func(t *testing.T) {
		w := serve(handler.GetCandidate, testutil.MakeRequest("GET", "/candidates/"+idStr, nil, nil), "id", idStr)
		testutil.AssertStatus(t, w, http.StatusOK)
		var resp models.CandidateResponse
		testutil.AssertJSON(t, w, &resp)
		if resp.Name != "Alice" || resp.Position != "President" {
			t.Errorf("Unexpected candidate: %+v", resp)
		}
		if resp.Votes != nil {
			t.Errorf("Expected votes to be hidden, got %d", *resp.Votes)
		}
	})

	t.Run("admin view shows votes", func(t *testing.T) {
		w := serve(handler.GetCandidate, testutil.MakeRequest("GET", "/candidates/"+idStr, nil, adminHeaders(cfg)), "id", idStr)
		testutil.AssertStatus(t, w, http.StatusOK)
		var resp models.CandidateResponse
		testutil.AssertJSON(t, w, &resp)
		if resp.Votes == nil {
			t.Error("Expected votes for admin")
		}
	})

	t.Run("not found", func(t *testing.T) {
		w := serve(handler.GetCandidate, testutil.MakeRequest("GET", "/candidates/999", nil, nil), "id", "999")
		testutil.AssertStatus(t, w, http.StatusNotFound)
	})

	t.Run("bad id", func(t *testing.T) {
		w := serve(handler.GetCandidate, testutil.MakeRequest("GET", "/candidates/abc", nil, nil), "id", "abc")
		testutil.AssertStatus(t, w, http.StatusBadRequest)
	})
}

func TestListCandidates(t *testing.T) {
	store, conn, cfg := setupHandlers(t)
	handler := NewCandidateHandler(store, cfg)

	testutil.CreateTestCandidate(t, conn, "Alice", "President")
	testutil.CreateTestCandidate(t, conn, "Bob", "President")
	testutil.CreateTestCandidate(t, conn, "Cy", "Treasurer")

	tests := []struct {
		path     string
		expected int
	}{
		{"/candidates", 3},
		{"/candidates?position=President", 2},
		{"/candidates?position=Treasurer", 1},
		{"/candidates?position=Nobody", 0},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			w := serve(handler.ListCandidates, testutil.MakeRequest("GET", tt.path, nil, nil))
			testutil.AssertStatus(t, w, http.StatusOK)
			var resp []models.CandidateResponse
			testutil.AssertJSON(t, w, &resp)
			if len(resp) != tt.expected {
				t.Errorf("Expected %d candidates, got %d", tt.expected, len(resp))
			}
		})
	}
}

func TestGetPhoto(t *testing.T) {
	store, conn, cfg := setupHandlers(t)
	handler := NewCandidateHandler(store, cfg)

	w := serve(handler.CreateCandidate, testutil.MakeRequest("POST", "/candidates",
		models.CreateCandidateRequest{Name: "Alice", Symbol: "A", Age: 45, Position: "President", Photo: pngHeader},
		adminHeaders(cfg)))
	testutil.AssertStatus(t, w, http.StatusCreated)
	var created models.CandidateResponse
	testutil.AssertJSON(t, w, &created)
	idStr := strconv.FormatInt(created.ID, 10)

	w = serve(handler.GetPhoto, testutil.MakeRequest("GET", "/candidates/"+idStr+"/photo", nil, nil), "id", idStr)
	testutil.AssertStatus(t, w, http.StatusOK)
	if ct := w.Header().Get("Content-Type"); ct != "image/png" {
		t.Errorf("Expected image/png, got %s", ct)
	}
	if !bytes.Equal(w.Body.Bytes(), pngHeader) {
		t.Error("Photo bytes were not returned unchanged")
	}

	// Candidates without a photo
	noPhoto := strconv.FormatInt(testutil.CreateTestCandidate(t, conn, "Bob", "President"), 10)
	w = serve(handler.GetPhoto, testutil.MakeRequest("GET", "/candidates/"+noPhoto+"/photo", nil, nil), "id", noPhoto)
	testutil.AssertStatus(t, w, http.StatusNotFound)
}

func TestUpdateCandidate(t *testing.T) {
	store, conn, cfg := setupHandlers(t)
	handler := NewCandidateHandler(store, cfg)

	id := testutil.CreateTestCandidate(t, conn, "Alice", "President")
	idStr := strconv.FormatInt(id, 10)
	if _, err := conn.Exec(`UPDATE candidates SET votes = 4 WHERE id = $1`, id); err != nil {
		t.Fatalf("Failed to seed votes: %v", err)
	}

	newBio := "Two terms"
	newPosition := "Chair"
	w := serve(handler.UpdateCandidate, testutil.MakeRequest("PATCH", "/candidates/"+idStr,
		models.UpdateCandidateRequest{Bio: &newBio, Position: &newPosition}, adminHeaders(cfg)), "id", idStr)
	testutil.AssertStatus(t, w, http.StatusOK)

	var resp models.CandidateResponse
	testutil.AssertJSON(t, w, &resp)
	if resp.Name != "Alice" {
		t.Errorf("Expected name to be kept, got %q", resp.Name)
	}
	if resp.Bio != newBio || resp.Position != newPosition {
		t.Errorf("Expected bio and position to change, got %+v", resp)
	}
	if resp.Votes == nil || *resp.Votes != 4 {
		t.Errorf("Expected votes to be untouched at 4, got %v", resp.Votes)
	}

	blank := " "
	w = serve(handler.UpdateCandidate, testutil.MakeRequest("PATCH", "/candidates/"+idStr,
		models.UpdateCandidateRequest{Name: &blank}, adminHeaders(cfg)), "id", idStr)
	testutil.AssertStatus(t, w, http.StatusBadRequest)

	w = serve(handler.UpdateCandidate, testutil.MakeRequest("PATCH", "/candidates/999",
		models.UpdateCandidateRequest{Bio: &newBio}, adminHeaders(cfg)), "id", "999")
	testutil.AssertStatus(t, w, http.StatusNotFound)
}

func TestDeleteCandidate(t *testing.T) {
	store, conn, cfg := setupHandlers(t)
	handler := NewCandidateHandler(store, cfg)

	idStr := strconv.FormatInt(testutil.CreateTestCandidate(t, conn, "Alice", "President"), 10)

	w := serve(handler.DeleteCandidate, testutil.MakeRequest("DELETE", "/candidates/"+idStr, nil, nil), "id", idStr)
	testutil.AssertStatus(t, w, http.StatusUnauthorized)

	w = serve(handler.DeleteCandidate, testutil.MakeRequest("DELETE", "/candidates/"+idStr, nil, adminHeaders(cfg)), "id", idStr)
	testutil.AssertStatus(t, w, http.StatusNoContent)

	w = serve(handler.DeleteCandidate, testutil.MakeRequest("DELETE", "/candidates/"+idStr, nil, adminHeaders(cfg)), "id", idStr)
	testutil.AssertStatus(t, w, http.StatusNotFound)
}
