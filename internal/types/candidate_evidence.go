// Package types provides type definitions for structured data used throughout the candidate-screener system.
//
//nolint:revive // types is a standard Go package name pattern
package types

import (
	"github.com/go-playground/validator/v10"
)

// validate caches struct metadata across calls; it is safe for concurrent use
var validate = validator.New()

// Verification check names reported by the parsing collaborator
const (
	CheckExperience = "experience"
	CheckEducation  = "education"
	CheckSkills     = "skills"
	CheckProjects   = "projects"
)

// CandidateEvidence is the structured profile of one candidate as produced by resume parsing
type CandidateEvidence struct {
	CandidateID        string                   `json:"candidate_id" validate:"required"`
	Name               string                   `json:"name"`
	Contact            Contact                  `json:"contact"`
	Links              Links                    `json:"links"`
	SkillEvidence      map[string]SkillEvidence `json:"skill_evidence"`
	VerificationChecks map[string]bool          `json:"verification_checks"`
}

// Contact holds candidate contact details
type Contact struct {
	Email string `json:"email,omitempty" validate:"omitempty,email"`
	Phone string `json:"phone,omitempty"`
}

// Links holds candidate profile links
type Links struct {
	LinkedIn string `json:"linkedin,omitempty" validate:"omitempty,url"`
	GitHub   string `json:"github,omitempty" validate:"omitempty,url"`
}

// SkillEvidence is the raw parser confidence for a single skill
type SkillEvidence struct {
	Confidence float64 `json:"confidence"` // expected in [0,10]; clamped when scored
	Found      bool    `json:"found"`
}

// Validate validates the CandidateEvidence using the validator.
func (e *CandidateEvidence) Validate() error {
	return validate.Struct(e)
}
