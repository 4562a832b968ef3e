package ranking

import (
	"sort"
	"strings"

	"github.com/jonathan/candidate-screener/internal/types"
)

// Query filters a job's candidates
type Query struct {
	// Text matches name or email, case-insensitive substring
	Text string `json:"text,omitempty"`
	// Status is a workflow status, "All" or empty
	Status string `json:"status,omitempty"`
}

// Search returns the candidates of a job matching q, ordered by JD match
// score (descending) and then candidate ID (ascending).
func (r *Ranker) Search(jobID string, q Query) ([]types.CandidateScore, error) {
	status, err := parseStatusFilter(q.Status)
	if err != nil {
		return nil, err
	}

	text := strings.ToLower(strings.TrimSpace(q.Text))
	results := r.snapshot(jobID, func(s *types.CandidateScore) bool {
		if status != "" && s.Status != status {
			return false
		}
		return matchesText(s, text)
	})

	sortRanked(results)
	return results, nil
}

// Leaderboard returns the top limit candidates of a job in ranking order.
// A limit of zero or less returns every candidate.
func (r *Ranker) Leaderboard(jobID string, limit int) []types.CandidateScore {
	results := r.snapshot(jobID, nil)
	sortRanked(results)
	if limit > 0 && len(results) > limit {
		results = results[:limit]
	}
	return results
}

// CountsByStatus counts a job's candidates per status, including zero
// counts and the synthetic "All" total.
func (r *Ranker) CountsByStatus(jobID string) map[string]int {
	counts := make(map[string]int, len(types.Statuses)+1)
	for _, s := range types.Statuses {
		counts[string(s)] = 0
	}

	entries := r.snapshot(jobID, nil)
	for _, e := range entries {
		counts[string(e.Status)]++
	}
	counts[types.StatusAll] = len(entries)

	return counts
}

func parseStatusFilter(filter string) (types.Status, error) {
	if filter == "" || filter == types.StatusAll {
		return "", nil
	}
	status := types.Status(filter)
	if !status.Valid() {
		return "", &InvalidStatusFilterError{Filter: filter}
	}
	return status, nil
}

func matchesText(s *types.CandidateScore, lowered string) bool {
	if lowered == "" {
		return true
	}
	return strings.Contains(strings.ToLower(s.Name), lowered) ||
		strings.Contains(strings.ToLower(s.Contact.Email), lowered)
}

// sortRanked orders by JD match score descending, then candidate ID ascending
func sortRanked(scores []types.CandidateScore) {
	sort.Slice(scores, func(i, j int) bool {
		if scores[i].JDMatchScore != scores[j].JDMatchScore {
			return scores[i].JDMatchScore > scores[j].JDMatchScore
		}
		return scores[i].CandidateID < scores[j].CandidateID
	})
}
