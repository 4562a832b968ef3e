// Package screening runs candidate evidence through skill matching, score
// aggregation and classification, and records the results for ranking.
package screening

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
	"k8s.io/utils/keymutex"

	"github.com/jonathan/candidate-screener/internal/jobs"
	"github.com/jonathan/candidate-screener/internal/metrics"
	"github.com/jonathan/candidate-screener/internal/ranking"
	"github.com/jonathan/candidate-screener/internal/scoring"
	"github.com/jonathan/candidate-screener/internal/types"
)

const defaultWorkers = 4

// Options configures a Session
type Options struct {
	Thresholds scoring.Thresholds
	// Workers bounds how many candidates of a batch are screened at once
	Workers int
	Logger  *zap.Logger
}

// BatchOptions controls a single screening call
type BatchOptions struct {
	// ResetStatus discards prior reviewer decisions of re-screened candidates
	ResetStatus bool
}

// Session owns the jobs and the ranking store and screens candidates into it
type Session struct {
	jobs       *jobs.Registry
	ranker     *ranking.Ranker
	thresholds scoring.Thresholds
	workers    int
	keys       keymutex.KeyMutex
	logger     *zap.Logger
	now        func() time.Time

	// postings is held exclusively while a job is re-registered so that no
	// score computed against the replaced posting is stored afterwards
	postings sync.RWMutex
}

// New creates a Session with an empty job registry and ranking store
func New(opts Options) (*Session, error) {
	if err := opts.Thresholds.Validate(); err != nil {
		return nil, fmt.Errorf("invalid thresholds: %w", err)
	}

	workers := opts.Workers
	if workers <= 0 {
		workers = defaultWorkers
	}

	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	return &Session{
		jobs:       jobs.NewRegistry(),
		ranker:     ranking.New(),
		thresholds: opts.Thresholds,
		workers:    workers,
		keys:       keymutex.NewHashed(0),
		logger:     logger,
		now:        time.Now,
	}, nil
}

// Thresholds returns the thresholds the session classifies with
func (s *Session) Thresholds() scoring.Thresholds {
	return s.thresholds
}

// RegisterJob adds or replaces a job posting. Replacing a posting with
// different required skills drops the job's stored scores, since they were
// computed against the old requirements.
func (s *Session) RegisterJob(job types.JobPosting) (types.JobPosting, error) {
	s.postings.Lock()
	defer s.postings.Unlock()

	var previous *types.JobPosting
	if job.ID != "" {
		if existing, err := s.jobs.Get(job.ID); err == nil {
			previous = &existing
		}
	}

	registered, err := s.jobs.Register(job)
	if err != nil {
		return types.JobPosting{}, err
	}
	s.logger.Info("job registered",
		zap.String("job_id", registered.ID),
		zap.String("title", registered.Title),
		zap.String("status", string(registered.Status)),
		zap.Strings("required_skills", registered.RequiredSkills),
	)

	if previous != nil && !slices.Equal(previous.RequiredSkills, registered.RequiredSkills) {
		dropped := s.ranker.ClearJob(registered.ID)
		s.logger.Info("required skills changed, stored scores dropped",
			zap.String("job_id", registered.ID),
			zap.Strings("previous_skills", previous.RequiredSkills),
			zap.Int("dropped", dropped),
		)
	}
	return registered, nil
}

// CloseJob stops a job from accepting new candidates
func (s *Session) CloseJob(jobID string) (types.JobPosting, error) {
	job, err := s.jobs.Close(jobID)
	if err != nil {
		return types.JobPosting{}, s.jobError(jobID, err)
	}
	s.logger.Info("job closed", zap.String("job_id", jobID))
	return job, nil
}

// Job returns a registered job
func (s *Session) Job(jobID string) (types.JobPosting, error) {
	job, err := s.jobs.Get(jobID)
	if err != nil {
		return types.JobPosting{}, s.jobError(jobID, err)
	}
	return job, nil
}

// Jobs returns every job with its current stats
func (s *Session) Jobs() []types.JobSummary {
	list := s.jobs.List()
	summaries := make([]types.JobSummary, 0, len(list))
	for _, job := range list {
		summaries = append(summaries, types.JobSummary{JobPosting: job, Stats: s.stats(job.ID)})
	}
	return summaries
}

// ScreenBatch screens every evidence record against a job. Invalid records
// and records not started before ctx is cancelled are reported in Failed;
// only an unknown or closed job fails the call. Succeeded keeps input order.
func (s *Session) ScreenBatch(ctx context.Context, jobID string, batch []types.CandidateEvidence, opts BatchOptions) (*types.BatchResult, error) {
	return s.ScreenIntake(ctx, jobID, &Intake{Evidence: batch}, opts)
}

// ScreenIntake screens a decoded batch. Records rejected while decoding are
// reported in Failed next to the records that fail screening, by batch index.
func (s *Session) ScreenIntake(ctx context.Context, jobID string, in *Intake, opts BatchOptions) (*types.BatchResult, error) {
	start := time.Now()
	defer func() {
		metrics.BatchDurationSeconds.Observe(time.Since(start).Seconds())
	}()

	job, err := s.Job(jobID)
	if err != nil {
		return nil, err
	}
	if job.Status == types.JobStatusClosed {
		return nil, &JobClosedError{JobID: jobID}
	}

	batch := in.Evidence
	batchID := uuid.New()
	log := s.logger.With(zap.String("job_id", jobID), zap.String("batch_id", batchID.String()))
	log.Info("screening batch", zap.Int("candidates", in.Len()))

	scores := make([]*types.CandidateScore, len(batch))
	failures := make([]error, len(batch))

	var g errgroup.Group
	g.SetLimit(s.workers)
	for i := range batch {
		if err := ctx.Err(); err != nil {
			failures[i] = err
			continue
		}
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				failures[i] = err
				return nil
			}
			score, err := s.screen(job, &batch[i], opts)
			if err != nil {
				failures[i] = err
				return nil
			}
			scores[i] = &score
			return nil
		})
	}
	_ = g.Wait() // workers report through failures

	result := &types.BatchResult{
		BatchID:   batchID,
		JobID:     jobID,
		Succeeded: make([]types.CandidateScore, 0, len(batch)),
		Failed:    make([]types.BatchFailure, 0, len(in.Rejected)),
	}
	for _, rejected := range in.Rejected {
		s.jobs.MarkSubmitted(jobID, rejected.CandidateID)
		result.Failed = append(result.Failed, rejected)
		metrics.CandidatesScreenedTotal.WithLabelValues(metrics.OutcomeInvalid).Inc()
		log.Warn("candidate not screened",
			zap.Int("index", rejected.Index),
			zap.String("candidate_id", rejected.CandidateID),
			zap.String("reason", rejected.Reason),
		)
	}
	for i := range batch {
		if scores[i] != nil {
			result.Succeeded = append(result.Succeeded, *scores[i])
			metrics.CandidatesScreenedTotal.WithLabelValues(metrics.OutcomeSucceeded).Inc()
			continue
		}
		result.Failed = append(result.Failed, types.BatchFailure{
			Index:       in.position(i),
			CandidateID: batch[i].CandidateID,
			Reason:      failures[i].Error(),
		})
		outcome := metrics.OutcomeInvalid
		if errors.Is(failures[i], context.Canceled) || errors.Is(failures[i], context.DeadlineExceeded) {
			outcome = metrics.OutcomeCancelled
		}
		metrics.CandidatesScreenedTotal.WithLabelValues(outcome).Inc()
		log.Warn("candidate not screened",
			zap.Int("index", in.position(i)),
			zap.String("candidate_id", batch[i].CandidateID),
			zap.Error(failures[i]),
		)
	}
	sort.SliceStable(result.Failed, func(a, b int) bool {
		return result.Failed[a].Index < result.Failed[b].Index
	})

	log.Info("batch screened",
		zap.Int("succeeded", len(result.Succeeded)),
		zap.Int("failed", len(result.Failed)),
		zap.Duration("elapsed", time.Since(start)),
	)
	return result, nil
}

// ScreenOne screens a single candidate against a job
func (s *Session) ScreenOne(ctx context.Context, jobID string, ev types.CandidateEvidence, opts BatchOptions) (types.CandidateScore, error) {
	if err := ctx.Err(); err != nil {
		return types.CandidateScore{}, err
	}
	job, err := s.Job(jobID)
	if err != nil {
		return types.CandidateScore{}, err
	}
	if job.Status == types.JobStatusClosed {
		return types.CandidateScore{}, &JobClosedError{JobID: jobID}
	}
	return s.screen(job, &ev, opts)
}

// screen evaluates and stores one candidate. Screenings of the same job and
// candidate hold the same key lock from evaluation to upsert.
func (s *Session) screen(job types.JobPosting, ev *types.CandidateEvidence, opts BatchOptions) (types.CandidateScore, error) {
	s.jobs.MarkSubmitted(job.ID, ev.CandidateID)

	if err := ev.Validate(); err != nil {
		return types.CandidateScore{}, &InvalidEvidenceError{
			CandidateID: ev.CandidateID,
			Reason:      "validation failed",
			Cause:       err,
		}
	}

	key := lockKey(job.ID, ev.CandidateID)
	s.keys.LockKey(key)
	defer func() {
		_ = s.keys.UnlockKey(key)
	}()

	s.postings.RLock()
	defer s.postings.RUnlock()
	if current, err := s.jobs.Get(job.ID); err == nil {
		job = current
	}

	score := Evaluate(job, ev, s.thresholds)
	score.ScreenedAt = s.now().UTC()

	stored, err := s.ranker.Upsert(score, ranking.UpsertOptions{ResetStatus: opts.ResetStatus})
	if err != nil {
		return types.CandidateScore{}, &InvalidEvidenceError{CandidateID: ev.CandidateID, Reason: "not stored", Cause: err}
	}
	metrics.JDMatchScore.Observe(float64(stored.JDMatchScore))

	s.logger.Debug("candidate screened",
		zap.String("job_id", job.ID),
		zap.String("candidate_id", stored.CandidateID),
		zap.Int("jd_match_score", stored.JDMatchScore),
		zap.Int("verification_score", stored.VerificationScore),
		zap.String("recommendation", string(stored.Recommendation)),
		zap.String("status", string(stored.Status)),
	)
	return stored, nil
}

// Restore reloads saved scores of a job, keeping their reviewer decisions,
// so that a later screening of the same candidates carries them over.
func (s *Session) Restore(jobID string, scores []types.CandidateScore) error {
	s.postings.RLock()
	defer s.postings.RUnlock()

	if _, err := s.Job(jobID); err != nil {
		return err
	}
	for i := range scores {
		if scores[i].JobID != jobID {
			return fmt.Errorf("score %d belongs to job %q, not %q", i, scores[i].JobID, jobID)
		}
	}
	if err := s.ranker.Restore(scores); err != nil {
		return err
	}
	for i := range scores {
		s.jobs.MarkSubmitted(jobID, scores[i].CandidateID)
	}
	s.logger.Info("scores restored", zap.String("job_id", jobID), zap.Int("candidates", len(scores)))
	return nil
}

// Decide applies a reviewer status transition
func (s *Session) Decide(d types.StatusDecision) (types.CandidateScore, error) {
	if _, err := s.Job(d.JobID); err != nil {
		return types.CandidateScore{}, err
	}

	key := lockKey(d.JobID, d.CandidateID)
	s.keys.LockKey(key)
	defer func() {
		_ = s.keys.UnlockKey(key)
	}()

	updated, err := s.ranker.SetStatus(d.JobID, d.CandidateID, d.Status)
	if err != nil {
		return types.CandidateScore{}, err
	}
	metrics.StatusTransitionsTotal.WithLabelValues(string(d.Status)).Inc()
	s.logger.Info("status updated",
		zap.String("job_id", d.JobID),
		zap.String("candidate_id", d.CandidateID),
		zap.String("status", string(d.Status)),
	)
	return updated, nil
}

// Candidate returns the current score of one candidate
func (s *Session) Candidate(jobID, candidateID string) (types.CandidateScore, error) {
	if _, err := s.Job(jobID); err != nil {
		return types.CandidateScore{}, err
	}
	score, ok := s.ranker.Get(jobID, candidateID)
	if !ok {
		return types.CandidateScore{}, &ranking.CandidateNotFoundError{JobID: jobID, CandidateID: candidateID}
	}
	return score, nil
}

// Search returns a job's candidates matching q in ranking order
func (s *Session) Search(jobID string, q ranking.Query) ([]types.CandidateScore, error) {
	if _, err := s.Job(jobID); err != nil {
		return nil, err
	}
	return s.ranker.Search(jobID, q)
}

// Leaderboard returns the top candidates of a job
func (s *Session) Leaderboard(jobID string, limit int) ([]types.CandidateScore, error) {
	if _, err := s.Job(jobID); err != nil {
		return nil, err
	}
	return s.ranker.Leaderboard(jobID, limit), nil
}

// CountsByStatus counts a job's candidates per status plus "All"
func (s *Session) CountsByStatus(jobID string) (map[string]int, error) {
	if _, err := s.Job(jobID); err != nil {
		return nil, err
	}
	return s.ranker.CountsByStatus(jobID), nil
}

// JobStats recomputes the derived counters of a job
func (s *Session) JobStats(jobID string) (types.JobStats, error) {
	if _, err := s.Job(jobID); err != nil {
		return types.JobStats{}, err
	}
	return s.stats(jobID), nil
}

func (s *Session) stats(jobID string) types.JobStats {
	counts := s.ranker.CountsByStatus(jobID)
	screened := counts[types.StatusAll]
	return types.JobStats{
		JobID:            jobID,
		TotalCandidates:  max(s.jobs.Submitted(jobID), screened),
		ScreenedCount:    screened,
		ShortlistedCount: counts[string(types.StatusShortlisted)],
	}
}

func (s *Session) jobError(jobID string, err error) error {
	var notFound *jobs.NotFoundError
	if errors.As(err, &notFound) {
		return &UnknownJobError{JobID: jobID}
	}
	return err
}

func lockKey(jobID, candidateID string) string {
	return jobID + "\x00" + candidateID
}
