package screening

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/jonathan/candidate-screener/internal/jobs"
	"github.com/jonathan/candidate-screener/internal/ranking"
	"github.com/jonathan/candidate-screener/internal/scoring"
	"github.com/jonathan/candidate-screener/internal/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newTestSession(t *testing.T) *Session {
	t.Helper()
	s, err := New(Options{Thresholds: scoring.DefaultThresholds(), Workers: 8, Logger: zap.NewNop()})
	require.NoError(t, err)
	return s
}

func registerJob(t *testing.T, s *Session, id string, skills ...string) types.JobPosting {
	t.Helper()
	job, err := s.RegisterJob(types.JobPosting{ID: id, Title: "Job " + id, RequiredSkills: skills})
	require.NoError(t, err)
	return job
}

func allChecks(passed bool) map[string]bool {
	return map[string]bool{
		types.CheckExperience: passed,
		types.CheckEducation:  passed,
		types.CheckSkills:     passed,
		types.CheckProjects:   passed,
	}
}

func candidate(id string, skills map[string]types.SkillEvidence) types.CandidateEvidence {
	return types.CandidateEvidence{
		CandidateID:        id,
		Name:               "Candidate " + id,
		Contact:            types.Contact{Email: id + "@email.com"},
		SkillEvidence:      skills,
		VerificationChecks: allChecks(true),
	}
}

func TestScreenBatch_Example(t *testing.T) {
	s := newTestSession(t)
	registerJob(t, s, "job-1", "Python", "AWS")

	ev := candidate("a", map[string]types.SkillEvidence{
		"Python": {Confidence: 8, Found: true},
		"AWS":    {Confidence: 0, Found: false},
	})
	ev.VerificationChecks = map[string]bool{"experience": true, "education": true, "skills": true, "projects": false}

	result, err := s.ScreenBatch(context.Background(), "job-1", []types.CandidateEvidence{ev}, BatchOptions{})
	require.NoError(t, err)
	require.Len(t, result.Succeeded, 1)
	assert.Empty(t, result.Failed)

	score := result.Succeeded[0]
	assert.Equal(t, []types.SkillMatchResult{
		{Skill: "Python", Found: true, Score: 8},
		{Skill: "AWS", Found: false, Score: 0},
	}, score.SkillMatches)
	assert.Equal(t, 40, score.JDMatchScore)
	assert.Equal(t, 75, score.VerificationScore)
	assert.Equal(t, types.RecommendationNone, score.Recommendation)
	assert.Equal(t, types.EligibilityPendingReview, score.Eligibility)
	assert.True(t, score.LowMatch)
	assert.True(t, score.NeedsManualVerification)
	assert.Equal(t, types.StatusPendingReview, score.Status)
	assert.Equal(t, "job-1", score.JobID)
	assert.False(t, score.ScreenedAt.IsZero())
	assert.NotEmpty(t, result.BatchID.String())
}

func TestScreenBatch_PerfectCandidateIsEligibleNotShortlisted(t *testing.T) {
	s := newTestSession(t)
	registerJob(t, s, "job-1", "React", "TypeScript")

	ev := candidate("a", map[string]types.SkillEvidence{
		"React":      {Confidence: 10, Found: true},
		"TypeScript": {Confidence: 10, Found: true},
	})

	result, err := s.ScreenBatch(context.Background(), "job-1", []types.CandidateEvidence{ev}, BatchOptions{})
	require.NoError(t, err)
	require.Len(t, result.Succeeded, 1)

	score := result.Succeeded[0]
	assert.Equal(t, 100, score.JDMatchScore)
	assert.Equal(t, 100, score.VerificationScore)
	assert.Equal(t, types.RecommendationStrong, score.Recommendation)
	assert.Equal(t, types.EligibilityEligible, score.Eligibility)
	assert.Equal(t, types.StatusPendingReview, score.Status)
}

func TestScreenBatch_NoRequiredSkills(t *testing.T) {
	s := newTestSession(t)
	registerJob(t, s, "job-1")

	result, err := s.ScreenBatch(context.Background(), "job-1",
		[]types.CandidateEvidence{candidate("a", map[string]types.SkillEvidence{"Go": {Confidence: 10, Found: true}})},
		BatchOptions{})
	require.NoError(t, err)
	require.Len(t, result.Succeeded, 1)
	assert.Equal(t, 0, result.Succeeded[0].JDMatchScore)
	assert.Empty(t, result.Succeeded[0].SkillMatches)
}

func TestScreenBatch_PartialFailure(t *testing.T) {
	s := newTestSession(t)
	registerJob(t, s, "job-1", "Go")

	batch := []types.CandidateEvidence{
		candidate("a", map[string]types.SkillEvidence{"Go": {Confidence: 9, Found: true}}),
		{Name: "No Id"},
		candidate("c", map[string]types.SkillEvidence{"Go": {Confidence: 5, Found: true}}),
		{CandidateID: "d", Contact: types.Contact{Email: "broken"}},
		candidate("e", nil),
	}

	result, err := s.ScreenBatch(context.Background(), "job-1", batch, BatchOptions{})
	require.NoError(t, err)

	var succeeded []string
	for _, sc := range result.Succeeded {
		succeeded = append(succeeded, sc.CandidateID)
	}
	assert.Equal(t, []string{"a", "c", "e"}, succeeded, "successes keep input order")

	require.Len(t, result.Failed, 2)
	assert.Equal(t, 1, result.Failed[0].Index)
	assert.Empty(t, result.Failed[0].CandidateID)
	assert.Contains(t, result.Failed[0].Reason, "invalid evidence")
	assert.Equal(t, 3, result.Failed[1].Index)
	assert.Equal(t, "d", result.Failed[1].CandidateID)

	_, ok := s.ranker.Get("job-1", "d")
	assert.False(t, ok, "invalid evidence is never stored")
}

func TestScreenBatch_UnknownJob(t *testing.T) {
	s := newTestSession(t)

	result, err := s.ScreenBatch(context.Background(), "missing", []types.CandidateEvidence{candidate("a", nil)}, BatchOptions{})
	assert.Nil(t, result)
	var unknown *UnknownJobError
	require.True(t, errors.As(err, &unknown))
	assert.Equal(t, "missing", unknown.JobID)
}

func TestScreenBatch_ClosedJob(t *testing.T) {
	s := newTestSession(t)
	registerJob(t, s, "job-4", "Agile")
	_, err := s.CloseJob("job-4")
	require.NoError(t, err)

	_, err = s.ScreenBatch(context.Background(), "job-4", []types.CandidateEvidence{candidate("a", nil)}, BatchOptions{})
	var closed *JobClosedError
	assert.True(t, errors.As(err, &closed))

	_, err = s.ScreenOne(context.Background(), "job-4", candidate("a", nil), BatchOptions{})
	assert.True(t, errors.As(err, &closed))
}

func TestScreenBatch_EmptyBatch(t *testing.T) {
	s := newTestSession(t)
	registerJob(t, s, "job-1", "Go")

	result, err := s.ScreenBatch(context.Background(), "job-1", nil, BatchOptions{})
	require.NoError(t, err)
	assert.Empty(t, result.Succeeded)
	assert.Empty(t, result.Failed)
}

func TestScreenBatch_CancelledBeforeStart(t *testing.T) {
	s := newTestSession(t)
	registerJob(t, s, "job-1", "Go")

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	batch := []types.CandidateEvidence{candidate("a", nil), candidate("b", nil)}
	result, err := s.ScreenBatch(ctx, "job-1", batch, BatchOptions{})
	require.NoError(t, err)
	assert.Empty(t, result.Succeeded)
	require.Len(t, result.Failed, 2)
	assert.Contains(t, result.Failed[0].Reason, context.Canceled.Error())

	counts, err := s.CountsByStatus("job-1")
	require.NoError(t, err)
	assert.Equal(t, 0, counts[types.StatusAll])
}

func TestScreenBatch_RescreenPreservesDecision(t *testing.T) {
	s := newTestSession(t)
	registerJob(t, s, "job-1", "Go", "SQL")
	ctx := context.Background()

	first := candidate("a", map[string]types.SkillEvidence{
		"Go":  {Confidence: 9, Found: true},
		"SQL": {Confidence: 9, Found: true},
	})
	_, err := s.ScreenBatch(ctx, "job-1", []types.CandidateEvidence{first}, BatchOptions{})
	require.NoError(t, err)

	_, err = s.Decide(types.StatusDecision{JobID: "job-1", CandidateID: "a", Status: types.StatusShortlisted})
	require.NoError(t, err)

	second := candidate("a", map[string]types.SkillEvidence{
		"Go": {Confidence: 4, Found: true},
	})
	result, err := s.ScreenBatch(ctx, "job-1", []types.CandidateEvidence{second}, BatchOptions{})
	require.NoError(t, err)
	require.Len(t, result.Succeeded, 1)
	assert.Equal(t, 20, result.Succeeded[0].JDMatchScore)
	assert.Equal(t, types.StatusShortlisted, result.Succeeded[0].Status)

	shortlisted, err := s.Search("job-1", ranking.Query{Status: "Shortlisted"})
	require.NoError(t, err)
	require.Len(t, shortlisted, 1)
	assert.Equal(t, 20, shortlisted[0].JDMatchScore)

	reset, err := s.ScreenOne(ctx, "job-1", second, BatchOptions{ResetStatus: true})
	require.NoError(t, err)
	assert.Equal(t, types.StatusPendingReview, reset.Status)
}

func TestScreenBatch_Idempotent(t *testing.T) {
	s := newTestSession(t)
	registerJob(t, s, "job-1", "Python", "Django", "PostgreSQL")
	ctx := context.Background()

	ev := candidate("a", map[string]types.SkillEvidence{
		"Python":   {Confidence: 7.5, Found: true},
		"postgres": {Confidence: 6, Found: true},
	})

	first, err := s.ScreenOne(ctx, "job-1", ev, BatchOptions{})
	require.NoError(t, err)
	second, err := s.ScreenOne(ctx, "job-1", ev, BatchOptions{})
	require.NoError(t, err)

	first.ScreenedAt = second.ScreenedAt
	assert.Equal(t, first, second)
	assert.Equal(t, 47, second.JDMatchScore) // (8 + 0 + 6) / 30

	counts, err := s.CountsByStatus("job-1")
	require.NoError(t, err)
	assert.Equal(t, 1, counts[types.StatusAll])
}

func TestScreenBatch_ConcurrentBatchesDistinctKeys(t *testing.T) {
	s := newTestSession(t)
	registerJob(t, s, "job-1", "Go")
	ctx := context.Background()

	const batches, perBatch = 20, 50
	var wg sync.WaitGroup
	for b := 0; b < batches; b++ {
		wg.Add(1)
		go func(b int) {
			defer wg.Done()
			batch := make([]types.CandidateEvidence, perBatch)
			for i := range batch {
				id := fmt.Sprintf("cand-%02d-%02d", b, i)
				batch[i] = candidate(id, map[string]types.SkillEvidence{"Go": {Confidence: float64(i % 11), Found: true}})
			}
			result, err := s.ScreenBatch(ctx, "job-1", batch, BatchOptions{})
			assert.NoError(t, err)
			assert.Len(t, result.Succeeded, perBatch)
		}(b)
	}
	wg.Wait()

	counts, err := s.CountsByStatus("job-1")
	require.NoError(t, err)
	assert.Equal(t, batches*perBatch, counts[types.StatusAll])
}

func TestScreenBatch_ConcurrentSameCandidate(t *testing.T) {
	s := newTestSession(t)
	registerJob(t, s, "job-1", "Go")
	ctx := context.Background()

	var wg sync.WaitGroup
	for i := 0; i < 100; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			ev := candidate("same", map[string]types.SkillEvidence{"Go": {Confidence: float64(i % 11), Found: true}})
			_, err := s.ScreenOne(ctx, "job-1", ev, BatchOptions{})
			assert.NoError(t, err)
		}(i)
	}
	wg.Wait()

	results, err := s.Search("job-1", ranking.Query{})
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, results[0].SkillMatches[0].Score*10, results[0].JDMatchScore)
}

func TestDecide(t *testing.T) {
	s := newTestSession(t)
	registerJob(t, s, "job-1", "Go")
	_, err := s.ScreenOne(context.Background(), "job-1", candidate("a", nil), BatchOptions{})
	require.NoError(t, err)

	updated, err := s.Decide(types.StatusDecision{JobID: "job-1", CandidateID: "a", Status: types.StatusRejected})
	require.NoError(t, err)
	assert.Equal(t, types.StatusRejected, updated.Status)
	assert.NotNil(t, updated.DecidedAt)

	_, err = s.Decide(types.StatusDecision{JobID: "job-1", CandidateID: "a", Status: "Maybe"})
	var transition *ranking.InvalidStatusTransitionError
	assert.True(t, errors.As(err, &transition))

	current, err := s.Candidate("job-1", "a")
	require.NoError(t, err)
	assert.Equal(t, types.StatusRejected, current.Status)

	_, err = s.Decide(types.StatusDecision{JobID: "job-1", CandidateID: "zz", Status: types.StatusRejected})
	var notFound *ranking.CandidateNotFoundError
	assert.True(t, errors.As(err, &notFound))

	_, err = s.Decide(types.StatusDecision{JobID: "nope", CandidateID: "a", Status: types.StatusRejected})
	var unknown *UnknownJobError
	assert.True(t, errors.As(err, &unknown))
}

func TestQueries_UnknownJob(t *testing.T) {
	s := newTestSession(t)
	var unknown *UnknownJobError

	_, err := s.Search("nope", ranking.Query{})
	assert.True(t, errors.As(err, &unknown))
	_, err = s.CountsByStatus("nope")
	assert.True(t, errors.As(err, &unknown))
	_, err = s.Leaderboard("nope", 5)
	assert.True(t, errors.As(err, &unknown))
	_, err = s.JobStats("nope")
	assert.True(t, errors.As(err, &unknown))
	_, err = s.Candidate("nope", "a")
	assert.True(t, errors.As(err, &unknown))
	_, err = s.CloseJob("nope")
	assert.True(t, errors.As(err, &unknown))
}

func TestJobStats(t *testing.T) {
	s := newTestSession(t)
	registerJob(t, s, "job-1", "Go")
	ctx := context.Background()

	batch := []types.CandidateEvidence{
		candidate("a", nil),
		candidate("b", nil),
		{CandidateID: "c", Contact: types.Contact{Email: "broken"}},
		candidate("a", nil),
	}
	_, err := s.ScreenBatch(ctx, "job-1", batch, BatchOptions{})
	require.NoError(t, err)
	_, err = s.Decide(types.StatusDecision{JobID: "job-1", CandidateID: "b", Status: types.StatusShortlisted})
	require.NoError(t, err)

	stats, err := s.JobStats("job-1")
	require.NoError(t, err)
	assert.Equal(t, types.JobStats{JobID: "job-1", TotalCandidates: 3, ScreenedCount: 2, ShortlistedCount: 1}, stats)
	assert.LessOrEqual(t, stats.ScreenedCount, stats.TotalCandidates)

	summaries := s.Jobs()
	require.Len(t, summaries, 1)
	assert.Equal(t, stats, summaries[0].Stats)
}

func TestRegisterJob_Invalid(t *testing.T) {
	s := newTestSession(t)

	_, err := s.RegisterJob(types.JobPosting{ID: "x"})
	var invalid *jobs.InvalidJobError
	assert.True(t, errors.As(err, &invalid))
}

func TestNew_InvalidThresholds(t *testing.T) {
	_, err := New(Options{Thresholds: scoring.Thresholds{JDMatch: 120, Verification: 80}})
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "invalid thresholds")
}

func TestNew_Defaults(t *testing.T) {
	s, err := New(Options{Thresholds: scoring.DefaultThresholds()})
	require.NoError(t, err)
	assert.Equal(t, defaultWorkers, s.workers)
	assert.NotNil(t, s.logger)
	assert.Equal(t, scoring.DefaultThresholds(), s.Thresholds())
}

func TestRestore_CarriesDecisionsIntoRescreen(t *testing.T) {
	s := newTestSession(t)
	registerJob(t, s, "job-1", "Go")

	decided := time.Date(2026, 9, 1, 9, 0, 0, 0, time.UTC)
	saved := []types.CandidateScore{{
		JobID: "job-1", CandidateID: "a", JDMatchScore: 90,
		Status: types.StatusShortlisted, DecidedAt: &decided,
	}}
	require.NoError(t, s.Restore("job-1", saved))

	stats, err := s.JobStats("job-1")
	require.NoError(t, err)
	assert.Equal(t, 1, stats.ShortlistedCount)
	assert.Equal(t, 1, stats.TotalCandidates)

	rescreened, err := s.ScreenOne(context.Background(), "job-1", candidate("a", nil), BatchOptions{})
	require.NoError(t, err)
	assert.Equal(t, 0, rescreened.JDMatchScore)
	assert.Equal(t, types.StatusShortlisted, rescreened.Status)
}

func TestRestore_Errors(t *testing.T) {
	s := newTestSession(t)
	registerJob(t, s, "job-1", "Go")

	var unknown *UnknownJobError
	assert.True(t, errors.As(s.Restore("nope", nil), &unknown))

	err := s.Restore("job-1", []types.CandidateScore{{JobID: "job-2", CandidateID: "a"}})
	assert.ErrorContains(t, err, "belongs to job")
}

func TestRegisterJob_SkillChangeDropsStaleScores(t *testing.T) {
	s := newTestSession(t)
	registerJob(t, s, "job-1", "Python")
	ctx := context.Background()

	ev := candidate("a", map[string]types.SkillEvidence{"Python": {Confidence: 10, Found: true}})
	score, err := s.ScreenOne(ctx, "job-1", ev, BatchOptions{})
	require.NoError(t, err)
	require.Equal(t, 100, score.JDMatchScore)

	_, err = s.CloseJob("job-1")
	require.NoError(t, err)

	job := registerJob(t, s, "job-1", "Go", "Rust")
	assert.Equal(t, types.JobStatusClosed, job.Status)
	assert.Equal(t, []string{"Go", "Rust"}, job.RequiredSkills)

	_, err = s.Candidate("job-1", "a")
	var notFound *ranking.CandidateNotFoundError
	assert.ErrorAs(t, err, &notFound)

	stats, err := s.JobStats("job-1")
	require.NoError(t, err)
	assert.Zero(t, stats.ScreenedCount)
	assert.Equal(t, 1, stats.TotalCandidates)

	_, err = s.ScreenOne(ctx, "job-1", ev, BatchOptions{})
	var closed *JobClosedError
	assert.ErrorAs(t, err, &closed)
}

func TestRegisterJob_SameSkillsKeepScores(t *testing.T) {
	s := newTestSession(t)
	registerJob(t, s, "job-1", "Python")
	ctx := context.Background()

	ev := candidate("a", map[string]types.SkillEvidence{"Python": {Confidence: 7, Found: true}})
	_, err := s.ScreenOne(ctx, "job-1", ev, BatchOptions{})
	require.NoError(t, err)
	_, err = s.Decide(types.StatusDecision{JobID: "job-1", CandidateID: "a", Status: types.StatusShortlisted})
	require.NoError(t, err)

	renamed, err := s.RegisterJob(types.JobPosting{ID: "job-1", Title: "Renamed", RequiredSkills: []string{"Python", "python"}})
	require.NoError(t, err)
	assert.Equal(t, "Renamed", renamed.Title)

	stored, err := s.Candidate("job-1", "a")
	require.NoError(t, err)
	assert.Equal(t, 70, stored.JDMatchScore)
	assert.Equal(t, types.StatusShortlisted, stored.Status)
}
