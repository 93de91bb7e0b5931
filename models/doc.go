// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package models defines domain, request and response types for the election.

# Domain Types

Records as stored:

  - Position: a contested office, identified by name
  - Candidate: a candidate standing for one position, with photo and tally
  - Voter: a registered voter with verification and has-voted flags
  - Ballot: position name -> chosen candidate id
  - BallotReceipt: confirmation of a cast ballot

Partial updates use explicit optional fields rather than sentinel values:

  - NewCandidate: fields for adding a candidate
  - CandidateUpdate: optional candidate fields; vote counts are not editable
  - VoterUpdate: optional voter fields, including forced flags

# Result Types

  - Standing: one candidate's tally and rank within a position
  - PositionResult: standings, total and winners for a position
  - ElectionResults: all positions plus turnout

# Request Types

Types for parsing incoming JSON:

  - AdminLoginRequest, VoterLoginRequest: credentials
  - RegisterVoterRequest: name, password, dob (YYYY-MM-DD)
  - AddPositionRequest: name
  - CreateCandidateRequest, UpdateCandidateRequest: candidate fields,
    photo as base64
  - VerifyVoterRequest: verified flag
  - UpdateVoterRequest: optional voter fields
  - CastBallotRequest: selections (map[string]int64)

# Response Types

Types for JSON responses:

  - AdminLoginResponse: admin_key
  - VoterLoginResponse: voter_token, voter
  - CandidateResponse: candidate without photo bytes; votes only for admins
  - VoterResponse: voter without password
  - PositionsResponse, VotingStatusResponse, MessageResponse
  - ErrorResponse: error, message, kind
*/
package models
