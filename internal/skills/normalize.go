// Package skills matches candidate skill evidence against the skills a job requires.
package skills

import (
	"strings"
)

// skillNormalizations maps common skill name variants to canonical names
var skillNormalizations = map[string]string{
	"golang":     "Go",
	"go lang":    "Go",
	"javascript": "JavaScript",
	"js":         "JavaScript",
	"typescript": "TypeScript",
	"ts":         "TypeScript",
	"k8s":        "Kubernetes",
	"kubernetes": "Kubernetes",
	"react.js":   "React",
	"reactjs":    "React",
	"next.js":    "Next.js",
	"nextjs":     "Next.js",
	"vue.js":     "Vue",
	"vuejs":      "Vue",
	"node.js":    "Node.js",
	"nodejs":     "Node.js",
	"postgres":   "PostgreSQL",
	"postgresql": "PostgreSQL",
	"tailwind":   "Tailwind CSS",
	"ml":         "Machine Learning",
	"tf":         "TensorFlow",
}

// NormalizeSkillName normalizes a skill name to its canonical form.
// Names without a known alias are returned trimmed with inner whitespace collapsed.
func NormalizeSkillName(skillName string) string {
	normalized := strings.Join(strings.Fields(skillName), " ")
	if normalized == "" {
		return ""
	}

	if canonical, ok := skillNormalizations[strings.ToLower(normalized)]; ok {
		return canonical
	}

	return normalized
}

// skillKey is the comparison key for two skill names
func skillKey(skillName string) string {
	return strings.ToLower(NormalizeSkillName(skillName))
}

// SameSkill reports whether two skill names refer to the same skill
func SameSkill(a, b string) bool {
	ka := skillKey(a)
	return ka != "" && ka == skillKey(b)
}

// DedupeSkills drops empty and duplicate skill names while keeping order.
// The first spelling of a duplicated skill is kept.
func DedupeSkills(skills []string) []string {
	if len(skills) == 0 {
		return []string{}
	}

	result := make([]string, 0, len(skills))
	seen := make(map[string]bool, len(skills))
	for _, skill := range skills {
		trimmed := strings.TrimSpace(skill)
		key := skillKey(trimmed)
		if key == "" || seen[key] {
			continue
		}
		seen[key] = true
		result = append(result, trimmed)
	}

	return result
}
