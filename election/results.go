// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package election

import (
	"context"
	"database/sql"
	"sort"

	"github.com/danielhkuo/quickly-elect/models"
)

// Results computes standings from the stored tallies. Results stay sealed
// while voting is active.
type Results struct {
	store *Store
}

func NewResults(store *Store) *Results {
	return &Results{store: store}
}

// Tally returns per-position standings, read in a single transaction
func (r *Results) Tally(ctx context.Context) (models.ElectionResults, error) {
	const op = "tally results"

	var out models.ElectionResults
	err := r.store.withTx(ctx, op, func(tx *sql.Tx) error {
		active, err := readActive(ctx, tx)
		if err != nil {
			return err
		}
		if active {
			return ErrResultsSealed
		}

		byPosition := map[string]*models.PositionResult{}
		var order []string

		rows, err := tx.QueryContext(ctx, `SELECT name FROM positions ORDER BY name`)
		if err != nil {
			return storeError(op+": positions", err)
		}
		for rows.Next() {
			var name string
			if err := rows.Scan(&name); err != nil {
				rows.Close()
				return storeError(op+": positions", err)
			}
			byPosition[name] = &models.PositionResult{Position: name, Standings: []models.Standing{}, Winners: []int64{}}
			order = append(order, name)
		}
		rows.Close()
		if err := rows.Err(); err != nil {
			return storeError(op+": positions", err)
		}

		rows, err = tx.QueryContext(ctx, `SELECT id, name, symbol, position, votes FROM candidates ORDER BY id`)
		if err != nil {
			return storeError(op+": candidates", err)
		}
		for rows.Next() {
			var s models.Standing
			var position string
			if err := rows.Scan(&s.CandidateID, &s.Name, &s.Symbol, &position, &s.Votes); err != nil {
				rows.Close()
				return storeError(op+": candidates", err)
			}
			pr, ok := byPosition[position]
			if !ok {
				pr = &models.PositionResult{Position: position, Standings: []models.Standing{}, Winners: []int64{}}
				byPosition[position] = pr
				order = append(order, position)
			}
			pr.Standings = append(pr.Standings, s)
			pr.TotalVotes += s.Votes
		}
		rows.Close()
		if err := rows.Err(); err != nil {
			return storeError(op+": candidates", err)
		}

		err = tx.QueryRowContext(ctx, `
			SELECT COUNT(*), COALESCE(SUM(CASE WHEN has_voted THEN 1 ELSE 0 END), 0) FROM voters
		`).Scan(&out.VotersTotal, &out.VotersVoted)
		if err != nil {
			return storeError(op+": turnout", err)
		}

		sort.Strings(order)
		out.Positions = make([]models.PositionResult, 0, len(order))
		for _, name := range order {
			pr := byPosition[name]
			rankStandings(pr)
			out.Positions = append(out.Positions, *pr)
		}
		return nil
	})
	if err != nil {
		return models.ElectionResults{}, err
	}

	out.ComputedAt = r.store.now().UTC()
	return out, nil
}

// rankStandings orders by votes descending then id, assigns competition
// ranks (ties share a rank) and collects the leaders.
func rankStandings(pr *models.PositionResult) {
	sort.SliceStable(pr.Standings, func(i, j int) bool {
		a, b := pr.Standings[i], pr.Standings[j]
		if a.Votes != b.Votes {
			return a.Votes > b.Votes
		}
		return a.CandidateID < b.CandidateID
	})

	for i := range pr.Standings {
		if i > 0 && pr.Standings[i].Votes == pr.Standings[i-1].Votes {
			pr.Standings[i].Rank = pr.Standings[i-1].Rank
		} else {
			pr.Standings[i].Rank = i + 1
		}
	}

	if len(pr.Standings) == 0 || pr.Standings[0].Votes == 0 {
		return
	}
	top := pr.Standings[0].Votes
	for _, s := range pr.Standings {
		if s.Votes != top {
			break
		}
		pr.Winners = append(pr.Winners, s.CandidateID)
	}
}
