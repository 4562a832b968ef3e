// Package types provides type definitions for structured data used throughout the candidate-screener system.
//
//nolint:revive // types is a standard Go package name pattern
package types

import "time"

// Recommendation is the fixed-band judgment derived from the JD match score
type Recommendation string

const (
	RecommendationStrong Recommendation = "Strongly Recommended"
	RecommendationNormal Recommendation = "Recommended"
	RecommendationNone   Recommendation = "Not Recommended"
)

// Status is the reviewer workflow state of a candidate for a job
type Status string

const (
	StatusShortlisted   Status = "Shortlisted"
	StatusRejected      Status = "Rejected"
	StatusPendingReview Status = "Pending Review"
)

// StatusAll is the synthetic filter and count key covering every status
const StatusAll = "All"

// Statuses lists every workflow status in display order
var Statuses = []Status{StatusShortlisted, StatusRejected, StatusPendingReview}

// Valid reports whether s is a known workflow status
func (s Status) Valid() bool {
	switch s {
	case StatusShortlisted, StatusRejected, StatusPendingReview:
		return true
	}
	return false
}

// IsDecision reports whether s is a terminal reviewer decision
func (s Status) IsDecision() bool {
	return s == StatusShortlisted || s == StatusRejected
}

// Eligibility is the computed pre-decision outcome of screening
type Eligibility string

const (
	EligibilityPendingReview Eligibility = "Pending Review"
	EligibilityEligible      Eligibility = "Eligible For Review"
)

// SkillMatchResult is the outcome of matching one required skill
type SkillMatchResult struct {
	Skill string `json:"skill"`
	Found bool   `json:"found"`
	Score int    `json:"score"` // 0-10, independent of Found
}

// CandidateScore is the screening result for one candidate against one job.
// It is replaced on re-screening; only Status and DecidedAt change in place.
type CandidateScore struct {
	CandidateID       string             `json:"candidate_id"`
	JobID             string             `json:"job_id"`
	Name              string             `json:"name"`
	Contact           Contact            `json:"contact"`
	Links             Links              `json:"links"`
	JDMatchScore      int                `json:"jd_match_score"`
	VerificationScore int                `json:"verification_score"`
	SkillMatches      []SkillMatchResult `json:"skill_matches"`
	Recommendation    Recommendation     `json:"recommendation"`
	Eligibility       Eligibility        `json:"eligibility"`
	// LowMatch is set when the JD match score is under the configured threshold
	LowMatch bool `json:"low_match"`
	// NeedsManualVerification is set when the verification score is under the configured threshold
	NeedsManualVerification bool       `json:"needs_manual_verification"`
	Reasoning               string     `json:"reasoning"`
	Status                  Status     `json:"status"`
	ScreenedAt              time.Time  `json:"screened_at"`
	DecidedAt               *time.Time `json:"decided_at,omitempty"`
}

// StatusDecision is a reviewer transition applied to a screened candidate
type StatusDecision struct {
	JobID       string `json:"job_id"`
	CandidateID string `json:"candidate_id"`
	Status      Status `json:"status"`
}
