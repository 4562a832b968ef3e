// Package types provides type definitions for structured data used throughout the candidate-screener system.
//
//nolint:revive // types is a standard Go package name pattern
package types

import "github.com/google/uuid"

// BatchResult is the partial-failure outcome of screening a batch of candidates.
// A non-empty Failed list does not mean the batch failed.
type BatchResult struct {
	BatchID   uuid.UUID        `json:"batch_id"`
	JobID     string           `json:"job_id"`
	Succeeded []CandidateScore `json:"succeeded"`
	Failed    []BatchFailure   `json:"failed"`
}

// BatchFailure reports why one batch item was not screened
type BatchFailure struct {
	Index       int    `json:"index"`
	CandidateID string `json:"candidate_id,omitempty"`
	Reason      string `json:"reason"`
}
