// Package jobs keeps the job postings candidates are screened against.
package jobs

import (
	"fmt"
	"sort"
	"sync"

	"github.com/google/uuid"

	"github.com/jonathan/candidate-screener/internal/skills"
	"github.com/jonathan/candidate-screener/internal/types"
)

// NotFoundError is returned for a job id the registry does not know
type NotFoundError struct {
	JobID string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("unknown job: %s", e.JobID)
}

// InvalidJobError is returned when a job posting fails validation
type InvalidJobError struct {
	Message string
	Cause   error
}

func (e *InvalidJobError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("invalid job: %s: %v", e.Message, e.Cause)
	}
	return fmt.Sprintf("invalid job: %s", e.Message)
}

func (e *InvalidJobError) Unwrap() error {
	return e.Cause
}

// Registry stores job postings and the candidate ids submitted to each
type Registry struct {
	mu        sync.RWMutex
	jobs      map[string]types.JobPosting
	submitted map[string]map[string]struct{}
}

// NewRegistry creates an empty Registry
func NewRegistry() *Registry {
	return &Registry{
		jobs:      make(map[string]types.JobPosting),
		submitted: make(map[string]map[string]struct{}),
	}
}

// Register validates and stores a job, replacing any job with the same id.
// A missing id is generated. A missing status keeps the status of the job
// being replaced, or defaults to Active for a new job.
// Required skills are deduplicated keeping their first spelling and order.
func (r *Registry) Register(job types.JobPosting) (types.JobPosting, error) {
	if job.ID == "" {
		job.ID = uuid.NewString()
	}
	job.RequiredSkills = skills.DedupeSkills(job.RequiredSkills)

	r.mu.Lock()
	defer r.mu.Unlock()

	if job.Status == "" {
		job.Status = types.JobStatusActive
		if existing, ok := r.jobs[job.ID]; ok {
			job.Status = existing.Status
		}
	}
	if err := job.Validate(); err != nil {
		return types.JobPosting{}, &InvalidJobError{Message: "validation failed", Cause: err}
	}

	r.jobs[job.ID] = cloneJob(job)
	if _, ok := r.submitted[job.ID]; !ok {
		r.submitted[job.ID] = make(map[string]struct{})
	}
	return cloneJob(job), nil
}

// Get returns the job with the given id
func (r *Registry) Get(jobID string) (types.JobPosting, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	job, ok := r.jobs[jobID]
	if !ok {
		return types.JobPosting{}, &NotFoundError{JobID: jobID}
	}
	return cloneJob(job), nil
}

// List returns every job ordered by id
func (r *Registry) List() []types.JobPosting {
	r.mu.RLock()
	defer r.mu.RUnlock()

	result := make([]types.JobPosting, 0, len(r.jobs))
	for _, job := range r.jobs {
		result = append(result, cloneJob(job))
	}
	sort.Slice(result, func(i, j int) bool {
		return result[i].ID < result[j].ID
	})
	return result
}

// Close marks a job as Closed
func (r *Registry) Close(jobID string) (types.JobPosting, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	job, ok := r.jobs[jobID]
	if !ok {
		return types.JobPosting{}, &NotFoundError{JobID: jobID}
	}
	job.Status = types.JobStatusClosed
	r.jobs[jobID] = job
	return cloneJob(job), nil
}

// MarkSubmitted records that a candidate was submitted for a job
func (r *Registry) MarkSubmitted(jobID, candidateID string) {
	if candidateID == "" {
		return
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	set, ok := r.submitted[jobID]
	if !ok {
		return
	}
	set[candidateID] = struct{}{}
}

// Submitted returns how many distinct candidates were submitted for a job
func (r *Registry) Submitted(jobID string) int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.submitted[jobID])
}

func cloneJob(job types.JobPosting) types.JobPosting {
	job.RequiredSkills = append([]string{}, job.RequiredSkills...)
	return job
}
