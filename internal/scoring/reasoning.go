package scoring

import (
	"fmt"
	"strings"

	"github.com/jonathan/candidate-screener/internal/types"
)

// Reasoning builds a short deterministic explanation of a recommendation
func Reasoning(rec types.Recommendation, matches []types.SkillMatchResult) string {
	var found, missing []string
	for _, m := range matches {
		if m.Found {
			found = append(found, m.Skill)
		} else {
			missing = append(missing, m.Skill)
		}
	}

	var parts []string
	switch rec {
	case types.RecommendationStrong:
		parts = append(parts, "Strong alignment with the job requirements")
	case types.RecommendationNormal:
		parts = append(parts, "Good alignment with most job requirements")
	default:
		parts = append(parts, "Significant gaps against the job requirements")
	}

	if len(matches) == 0 {
		parts = append(parts, "No required skills declared for this job")
		return strings.Join(parts, ". ")
	}

	if len(found) > 0 {
		parts = append(parts, fmt.Sprintf("Evidenced skills: %s", strings.Join(found, ", ")))
	} else {
		parts = append(parts, "No required skills evidenced")
	}
	if len(missing) > 0 {
		parts = append(parts, fmt.Sprintf("Missing skills: %s", strings.Join(missing, ", ")))
	}

	return strings.Join(parts, ". ")
}
