package models

import "time"

// DateLayout is the wire and storage format for voter dates of birth
const DateLayout = "2006-01-02"

// Domain types

type Position struct {
	Name string `json:"name"`
}

type Candidate struct {
	ID       int64
	Name     string
	Symbol   string
	Age      int
	Position string
	Photo    []byte // opaque image bytes, nil when absent
	Bio      string
	Votes    int64
}

// NewCandidate carries the fields an admin supplies when adding a candidate.
// Votes always start at zero and the id is assigned by the store.
type NewCandidate struct {
	Name     string
	Symbol   string
	Age      int
	Position string
	Photo    []byte
	Bio      string
}

// CandidateUpdate is a partial update: nil fields are left unchanged.
// A nil Photo keeps the stored photo; there is no way to clear it here.
// Vote counts cannot be edited.
type CandidateUpdate struct {
	Name     *string
	Symbol   *string
	Age      *int
	Position *string
	Photo    []byte
	Bio      *string
}

// IsEmpty reports whether the update touches no field
func (u CandidateUpdate) IsEmpty() bool {
	return u.Name == nil && u.Symbol == nil && u.Age == nil &&
		u.Position == nil && u.Photo == nil && u.Bio == nil
}

type Voter struct {
	ID       int64
	Name     string
	Password string
	DOB      time.Time
	HasVoted bool
	Verified bool
}

// VoterUpdate is a partial update: nil fields are left unchanged.
// HasVoted and Verified bypass the ballot and verification paths.
type VoterUpdate struct {
	Name     *string
	Password *string
	DOB      *time.Time
	HasVoted *bool
	Verified *bool
}

// Ballot maps position name -> candidate id. Positions left out are not voted on.
type Ballot map[string]int64

type BallotReceipt struct {
	VoterID   int64     `json:"voter_id"`
	Positions []string  `json:"positions"`
	CastAt    time.Time `json:"cast_at"`
}

// Result types

type Standing struct {
	CandidateID int64  `json:"candidate_id"`
	Name        string `json:"name"`
	Symbol      string `json:"symbol"`
	Votes       int64  `json:"votes"`
	Rank        int    `json:"rank"` // 1-indexed, ties share a rank
}

type PositionResult struct {
	Position   string     `json:"position"`
	TotalVotes int64      `json:"total_votes"`
	Standings  []Standing `json:"standings"`
	Winners    []int64    `json:"winners"` // empty when nobody received a vote
}

type ElectionResults struct {
	Positions   []PositionResult `json:"positions"`
	VotersTotal int              `json:"voters_total"`
	VotersVoted int              `json:"voters_voted"`
	ComputedAt  time.Time        `json:"computed_at"`
}

// Request types

type AdminLoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type RegisterVoterRequest struct {
	Name     string `json:"name"`
	Password string `json:"password"`
	DOB      string `json:"dob"` // YYYY-MM-DD
}

type VoterLoginRequest struct {
	Name     string `json:"name"`
	Password string `json:"password"`
}

type AddPositionRequest struct {
	Name string `json:"name"`
}

// Photo is base64 in JSON
type CreateCandidateRequest struct {
	Name     string `json:"name"`
	Symbol   string `json:"symbol"`
	Age      int    `json:"age"`
	Position string `json:"position"`
	Photo    []byte `json:"photo"`
	Bio      string `json:"bio"`
}

type UpdateCandidateRequest struct {
	Name     *string `json:"name"`
	Symbol   *string `json:"symbol"`
	Age      *int    `json:"age"`
	Position *string `json:"position"`
	Photo    []byte  `json:"photo"`
	Bio      *string `json:"bio"`
}

type VerifyVoterRequest struct {
	Verified bool `json:"verified"`
}

type UpdateVoterRequest struct {
	Name     *string `json:"name"`
	Password *string `json:"password"`
	DOB      *string `json:"dob"`
	HasVoted *bool   `json:"has_voted"`
	Verified *bool   `json:"verified"`
}

type CastBallotRequest struct {
	Selections map[string]int64 `json:"selections"`
}

// Response types

type AdminLoginResponse struct {
	AdminKey string `json:"admin_key"`
}

type VoterLoginResponse struct {
	VoterToken string        `json:"voter_token"`
	Voter      VoterResponse `json:"voter"`
}

type CandidateResponse struct {
	ID        int64  `json:"id"`
	Name      string `json:"name"`
	Symbol    string `json:"symbol"`
	Age       int    `json:"age"`
	Position  string `json:"position"`
	Bio       string `json:"bio,omitempty"`
	Votes     *int64 `json:"votes,omitempty"` // admin only
	HasPhoto  bool   `json:"has_photo"`
	PhotoSize string `json:"photo_size,omitempty"` // human readable
}

// Password is never exposed in JSON
type VoterResponse struct {
	ID       int64  `json:"id"`
	Name     string `json:"name"`
	DOB      string `json:"dob"`
	HasVoted bool   `json:"has_voted"`
	Verified bool   `json:"verified"`
}

type PositionsResponse struct {
	Positions []string `json:"positions"`
}

type VotingStatusResponse struct {
	Active bool `json:"active"`
}

type MessageResponse struct {
	Message string `json:"message"`
}

// Error response

type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
	Kind    string `json:"kind,omitempty"`
}
