// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package election implements the election state engine: positions and
candidates, voter registration and verification, the voting window, and
ballot casting.

# Components

All components share one Store, which wraps the database handle. Nothing is
cached in memory; every call reads the committed state.

	store := election.NewStore(conn, db.SQLite, election.WithMetrics(election.NewMetrics()))
	registry := election.NewRegistry(store)     // positions, candidates
	directory := election.NewDirectory(store)   // voters, admin login
	session := election.NewSession(store)       // voting window, reset
	ballots := election.NewBallotEngine(store)  // CastVote
	results := election.NewResults(store)       // standings once voting stops

# Casting a Ballot

	receipt, err := ballots.CastVote(ctx, voterID, models.Ballot{
		"President": presidentID,
		"Treasurer": treasurerID,
	})

CastVote succeeds only while voting is active, for a verified voter who has
not voted yet, and only if every candidate stands for the position it is
listed under. Positions may be left out, but at least one selection is
required. Tally increments and the has-voted flag commit together or not at
all.

# Errors

Failures are sentinel errors, grouped by KindOf:

  - KindValidation: ErrValidation (*ValidationError), ErrNoSelection
  - KindEligibility: ErrVoterNotEligible, ErrAlreadyVoted, ErrVotingInactive,
    ErrUnderage, ErrDuplicateVoter, ErrResultsSealed
  - KindAuthentication: ErrInvalidCredentials, ErrNotVerified
  - KindReferentialIntegrity: ErrPositionInUse, ErrInvalidCandidateReference
  - KindNotFound: ErrPositionNotFound, ErrCandidateNotFound, ErrVoterNotFound
  - KindPersistence: ErrPersistence

Store failures are logged with the driver detail and returned as
ErrPersistence wrapped with the operation name only.

# Metrics

NewMetrics creates counters on a private Prometheus registry:

  - election_ballots_cast_total
  - election_votes_recorded_total
  - election_ballot_rejections_total{reason}
  - election_resets_total
*/
package election
