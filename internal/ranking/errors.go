package ranking

import (
	"fmt"

	"github.com/jonathan/candidate-screener/internal/types"
)

// InvalidStatusTransitionError is returned when a status outside the workflow set is requested
type InvalidStatusTransitionError struct {
	Status types.Status
}

func (e *InvalidStatusTransitionError) Error() string {
	return fmt.Sprintf("invalid status transition: %q is not one of Shortlisted, Rejected, Pending Review", e.Status)
}

// InvalidStatusFilterError is returned when a search filter names no known status
type InvalidStatusFilterError struct {
	Filter string
}

func (e *InvalidStatusFilterError) Error() string {
	return fmt.Sprintf("invalid status filter: %q", e.Filter)
}

// CandidateNotFoundError is returned when no score exists for the job and candidate
type CandidateNotFoundError struct {
	JobID       string
	CandidateID string
}

func (e *CandidateNotFoundError) Error() string {
	return fmt.Sprintf("candidate %s not found for job %s", e.CandidateID, e.JobID)
}

// InvalidScoreError is returned when a score cannot be keyed
type InvalidScoreError struct {
	Field string
}

func (e *InvalidScoreError) Error() string {
	return fmt.Sprintf("invalid candidate score: missing %s", e.Field)
}
