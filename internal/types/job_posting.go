// Package types provides type definitions for structured data used throughout the candidate-screener system.
//
//nolint:revive // types is a standard Go package name pattern
package types

// JobStatus is the lifecycle state of a job posting
type JobStatus string

const (
	JobStatusActive JobStatus = "Active"
	JobStatusClosed JobStatus = "Closed"
)

// JobPosting represents a job and the skills a candidate is screened against
type JobPosting struct {
	ID             string    `json:"id" validate:"required"`
	Title          string    `json:"title" validate:"required"`
	Status         JobStatus `json:"status" validate:"oneof=Active Closed"`
	Description    string    `json:"description,omitempty"`
	RequiredSkills []string  `json:"required_skills" validate:"dive,required"` // order is display priority
}

// JobStats holds counters derived from the candidate set of a job.
// They are recomputed on every read and are never authoritative.
type JobStats struct {
	JobID            string `json:"job_id"`
	TotalCandidates  int    `json:"total_candidates"`
	ScreenedCount    int    `json:"screened_count"`
	ShortlistedCount int    `json:"shortlisted_count"`
}

// JobSummary is a job posting together with its current stats
type JobSummary struct {
	JobPosting
	Stats JobStats `json:"stats"`
}

// Validate validates the JobPosting using the validator.
func (j *JobPosting) Validate() error {
	return validate.Struct(j)
}
