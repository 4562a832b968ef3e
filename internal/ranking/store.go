// Package ranking keeps the screened candidates of every job and serves
// ordered, filtered views over them.
package ranking

import (
	"sync"
	"time"

	"github.com/jonathan/candidate-screener/internal/types"
)

// Ranker holds one board of candidate scores per job.
// Writes to a board are serialized; reads copy a consistent snapshot.
type Ranker struct {
	mu     sync.RWMutex
	boards map[string]*board
	now    func() time.Time
}

type board struct {
	mu      sync.RWMutex
	entries map[string]types.CandidateScore
}

// UpsertOptions controls how an existing score is replaced
type UpsertOptions struct {
	// ResetStatus discards a prior reviewer decision instead of carrying it over
	ResetStatus bool
}

// New creates an empty Ranker
func New() *Ranker {
	return &Ranker{
		boards: make(map[string]*board),
		now:    time.Now,
	}
}

// getBoard returns the board for jobID, creating it when create is set
func (r *Ranker) getBoard(jobID string, create bool) *board {
	r.mu.RLock()
	b, ok := r.boards[jobID]
	r.mu.RUnlock()
	if ok || !create {
		return b
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if b, ok = r.boards[jobID]; ok {
		return b
	}
	b = &board{entries: make(map[string]types.CandidateScore)}
	r.boards[jobID] = b
	return b
}

// Upsert stores score, replacing any score for the same job and candidate.
// A prior Shortlisted or Rejected decision survives unless opts.ResetStatus
// is set; otherwise the stored status is Pending Review.
func (r *Ranker) Upsert(score types.CandidateScore, opts UpsertOptions) (types.CandidateScore, error) {
	if score.JobID == "" {
		return types.CandidateScore{}, &InvalidScoreError{Field: "job_id"}
	}
	if score.CandidateID == "" {
		return types.CandidateScore{}, &InvalidScoreError{Field: "candidate_id"}
	}

	stored := cloneScore(score)
	stored.Status = types.StatusPendingReview
	stored.DecidedAt = nil

	b := r.getBoard(score.JobID, true)
	b.mu.Lock()
	defer b.mu.Unlock()

	if prior, ok := b.entries[score.CandidateID]; ok && prior.Status.IsDecision() && !opts.ResetStatus {
		stored.Status = prior.Status
		stored.DecidedAt = cloneTime(prior.DecidedAt)
	}
	b.entries[score.CandidateID] = stored

	return cloneScore(stored), nil
}

// Restore loads saved scores as they are, keeping their status and decision
// time. Nothing is stored unless every score is keyed and has a workflow
// status; an empty status loads as Pending Review.
func (r *Ranker) Restore(scores []types.CandidateScore) error {
	restored := make([]types.CandidateScore, 0, len(scores))
	for _, score := range scores {
		switch {
		case score.JobID == "":
			return &InvalidScoreError{Field: "job_id"}
		case score.CandidateID == "":
			return &InvalidScoreError{Field: "candidate_id"}
		case score.Status == "":
			score.Status = types.StatusPendingReview
		case !score.Status.Valid():
			return &InvalidStatusTransitionError{Status: score.Status}
		}
		restored = append(restored, cloneScore(score))
	}

	for _, score := range restored {
		b := r.getBoard(score.JobID, true)
		b.mu.Lock()
		b.entries[score.CandidateID] = score
		b.mu.Unlock()
	}
	return nil
}

// ClearJob drops every score of a job and returns how many were stored
func (r *Ranker) ClearJob(jobID string) int {
	r.mu.Lock()
	b, ok := r.boards[jobID]
	delete(r.boards, jobID)
	r.mu.Unlock()
	if !ok {
		return 0
	}

	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.entries)
}

// SetStatus applies a reviewer decision. The prior status is kept when
// status is not a workflow status.
func (r *Ranker) SetStatus(jobID, candidateID string, status types.Status) (types.CandidateScore, error) {
	if !status.Valid() {
		return types.CandidateScore{}, &InvalidStatusTransitionError{Status: status}
	}

	b := r.getBoard(jobID, false)
	if b == nil {
		return types.CandidateScore{}, &CandidateNotFoundError{JobID: jobID, CandidateID: candidateID}
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	entry, ok := b.entries[candidateID]
	if !ok {
		return types.CandidateScore{}, &CandidateNotFoundError{JobID: jobID, CandidateID: candidateID}
	}

	entry.Status = status
	entry.DecidedAt = nil
	if status.IsDecision() {
		decided := r.now().UTC()
		entry.DecidedAt = &decided
	}
	b.entries[candidateID] = entry

	return cloneScore(entry), nil
}

// Get returns the current score of a candidate for a job
func (r *Ranker) Get(jobID, candidateID string) (types.CandidateScore, bool) {
	b := r.getBoard(jobID, false)
	if b == nil {
		return types.CandidateScore{}, false
	}

	b.mu.RLock()
	defer b.mu.RUnlock()

	entry, ok := b.entries[candidateID]
	if !ok {
		return types.CandidateScore{}, false
	}
	return cloneScore(entry), true
}

// snapshot copies every score of a job that passes keep
func (r *Ranker) snapshot(jobID string, keep func(*types.CandidateScore) bool) []types.CandidateScore {
	b := r.getBoard(jobID, false)
	if b == nil {
		return []types.CandidateScore{}
	}

	b.mu.RLock()
	defer b.mu.RUnlock()

	result := make([]types.CandidateScore, 0, len(b.entries))
	for _, entry := range b.entries {
		if keep == nil || keep(&entry) {
			result = append(result, cloneScore(entry))
		}
	}
	return result
}

func cloneScore(s types.CandidateScore) types.CandidateScore {
	if s.SkillMatches != nil {
		s.SkillMatches = append([]types.SkillMatchResult(nil), s.SkillMatches...)
	}
	s.DecidedAt = cloneTime(s.DecidedAt)
	return s
}

func cloneTime(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	c := *t
	return &c
}
