package skills

import (
	"math"
	"sort"

	"github.com/jonathan/candidate-screener/internal/types"
)

const (
	minSkillScore = 0
	maxSkillScore = 10
)

// MatchSkill scores a candidate's evidence against one required skill.
// A skill missing from the evidence is a valid "not found" outcome with score 0.
func MatchSkill(skill string, evidence *types.CandidateEvidence) types.SkillMatchResult {
	result := types.SkillMatchResult{Skill: skill}
	if evidence == nil {
		return result
	}

	entry, ok := lookup(skill, evidence.SkillEvidence)
	if !ok {
		return result
	}

	result.Found = entry.Found
	result.Score = clampScore(entry.Confidence)
	return result
}

// MatchRequired matches every required skill in order
func MatchRequired(requiredSkills []string, evidence *types.CandidateEvidence) []types.SkillMatchResult {
	matches := make([]types.SkillMatchResult, 0, len(requiredSkills))
	for _, skill := range requiredSkills {
		matches = append(matches, MatchSkill(skill, evidence))
	}
	return matches
}

// lookup finds the evidence entry for skill, trying the exact name before
// the normalized form. Among several normalized hits the smallest key wins.
func lookup(skill string, evidence map[string]types.SkillEvidence) (types.SkillEvidence, bool) {
	if entry, ok := evidence[skill]; ok {
		return entry, true
	}

	var keys []string
	for name := range evidence {
		if SameSkill(name, skill) {
			keys = append(keys, name)
		}
	}
	if len(keys) == 0 {
		return types.SkillEvidence{}, false
	}
	sort.Strings(keys)
	return evidence[keys[0]], true
}

// clampScore clamps confidence to [0,10] and rounds half up
func clampScore(confidence float64) int {
	if math.IsNaN(confidence) || confidence <= minSkillScore {
		return minSkillScore
	}
	if confidence >= maxSkillScore {
		return maxSkillScore
	}
	return int(math.Floor(confidence + 0.5))
}
