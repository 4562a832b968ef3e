// Package scoring combines per-skill matches and verification checks into
// aggregate scores and maps those scores to recommendations.
package scoring

import "github.com/jonathan/candidate-screener/internal/types"

const (
	maxSkillScore = 10
	maxScore      = 100
)

// AggregateJDMatch computes the JD match score in [0,100] as
// round(100 * sum(score) / (10 * N)) with N the number of required skills.
// A job without required skills scores 0. Matches are paired with required
// skills by position; extra matches are ignored.
func AggregateJDMatch(requiredSkills []string, matches []types.SkillMatchResult) int {
	n := len(requiredSkills)
	if n == 0 {
		return 0
	}

	sum := 0
	for i := 0; i < n && i < len(matches); i++ {
		sum += clamp(matches[i].Score, 0, maxSkillScore)
	}

	return clamp(roundRatio(maxScore*sum, maxSkillScore*n), 0, maxScore)
}

// AggregateVerification computes the share of passed checks in [0,100].
// An empty check set scores 0.
func AggregateVerification(checks map[string]bool) int {
	total := len(checks)
	if total == 0 {
		return 0
	}

	passed := 0
	for _, ok := range checks {
		if ok {
			passed++
		}
	}

	return roundRatio(maxScore*passed, total)
}

// roundRatio returns num/den rounded half up; both must be non-negative and den > 0
func roundRatio(num, den int) int {
	return (2*num + den) / (2 * den)
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
