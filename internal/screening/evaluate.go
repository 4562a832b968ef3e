package screening

import (
	"github.com/jonathan/candidate-screener/internal/scoring"
	"github.com/jonathan/candidate-screener/internal/skills"
	"github.com/jonathan/candidate-screener/internal/types"
)

// Evaluate scores one candidate against a job. It is a pure function of its
// inputs; ScreenedAt and Status are left for the caller to fill.
func Evaluate(job types.JobPosting, ev *types.CandidateEvidence, t scoring.Thresholds) types.CandidateScore {
	matches := skills.MatchRequired(job.RequiredSkills, ev)
	jd := scoring.AggregateJDMatch(job.RequiredSkills, matches)
	verification := scoring.AggregateVerification(ev.VerificationChecks)
	assessment := scoring.Assess(jd, verification, t)

	return types.CandidateScore{
		CandidateID:             ev.CandidateID,
		JobID:                   job.ID,
		Name:                    ev.Name,
		Contact:                 ev.Contact,
		Links:                   ev.Links,
		JDMatchScore:            jd,
		VerificationScore:       verification,
		SkillMatches:            matches,
		Recommendation:          assessment.Recommendation,
		Eligibility:             assessment.Eligibility,
		LowMatch:                assessment.LowMatch,
		NeedsManualVerification: assessment.NeedsManualVerification,
		Reasoning:               scoring.Reasoning(assessment.Recommendation, matches),
		Status:                  types.StatusPendingReview,
	}
}
