// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package election

import (
	"errors"

	"github.com/prometheus/client_golang/prometheus"
)

const metricNamePrefix = "election_"

// Metrics holds the election counters. A nil *Metrics is valid and records
// nothing.
type Metrics struct {
	Registry *prometheus.Registry

	ballotsCast   prometheus.Counter
	votesRecorded prometheus.Counter
	rejections    *prometheus.CounterVec
	resets        prometheus.Counter
}

func NewMetrics() *Metrics {
	m := &Metrics{
		Registry: prometheus.NewRegistry(),
		ballotsCast: prometheus.NewCounter(
			prometheus.CounterOpts{
				Name: metricNamePrefix + "ballots_cast_total",
				Help: "Total number of ballots committed",
			},
		),
		votesRecorded: prometheus.NewCounter(
			prometheus.CounterOpts{
				Name: metricNamePrefix + "votes_recorded_total",
				Help: "Total number of candidate tally increments committed",
			},
		),
		rejections: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: metricNamePrefix + "ballot_rejections_total",
				Help: "Total number of rejected ballots by reason",
			},
			[]string{"reason"},
		),
		resets: prometheus.NewCounter(
			prometheus.CounterOpts{
				Name: metricNamePrefix + "resets_total",
				Help: "Total number of full election resets",
			},
		),
	}
	m.Registry.MustRegister(m.ballotsCast, m.votesRecorded, m.rejections, m.resets)
	return m
}

func (m *Metrics) ballotCast(selections int) {
	if m == nil {
		return
	}
	m.ballotsCast.Inc()
	m.votesRecorded.Add(float64(selections))
}

func (m *Metrics) ballotRejected(err error) {
	if m == nil {
		return
	}
	m.rejections.WithLabelValues(rejectionReason(err)).Inc()
}

func (m *Metrics) reset() {
	if m == nil {
		return
	}
	m.resets.Inc()
}

func rejectionReason(err error) string {
	switch {
	case errors.Is(err, ErrNoSelection):
		return "no_selection"
	case errors.Is(err, ErrValidation):
		return "validation"
	case errors.Is(err, ErrVotingInactive):
		return "voting_inactive"
	case errors.Is(err, ErrInvalidSession):
		return "invalid_session"
	case errors.Is(err, ErrVoterNotFound):
		return "voter_not_found"
	case errors.Is(err, ErrVoterNotEligible):
		return "not_eligible"
	case errors.Is(err, ErrAlreadyVoted):
		return "already_voted"
	case errors.Is(err, ErrInvalidCandidateReference):
		return "invalid_candidate"
	}
	return "persistence"
}
