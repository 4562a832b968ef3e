package scoring

import (
	"fmt"

	"github.com/jonathan/candidate-screener/internal/types"
)

// Fixed recommendation bands; they do not follow the configurable thresholds.
const (
	strongBandFloor      = 80
	recommendedBandFloor = 65
)

// Default thresholds
const (
	DefaultJDMatchThreshold      = 75
	DefaultVerificationThreshold = 80
)

// Thresholds controls when a candidate is flagged for manual review
type Thresholds struct {
	JDMatch      int `json:"jd_match_threshold"`
	Verification int `json:"verification_threshold"`
}

// DefaultThresholds returns the thresholds used when none are configured
func DefaultThresholds() Thresholds {
	return Thresholds{
		JDMatch:      DefaultJDMatchThreshold,
		Verification: DefaultVerificationThreshold,
	}
}

// Validate checks that both thresholds are within [0,100]
func (t Thresholds) Validate() error {
	if t.JDMatch < 0 || t.JDMatch > maxScore {
		return fmt.Errorf("jd_match_threshold must be within [0,100], got %d", t.JDMatch)
	}
	if t.Verification < 0 || t.Verification > maxScore {
		return fmt.Errorf("verification_threshold must be within [0,100], got %d", t.Verification)
	}
	return nil
}

// Classify maps a JD match score to its recommendation band.
// Each band includes its lower bound.
func Classify(jdMatchScore int) types.Recommendation {
	switch {
	case jdMatchScore >= strongBandFloor:
		return types.RecommendationStrong
	case jdMatchScore >= recommendedBandFloor:
		return types.RecommendationNormal
	default:
		return types.RecommendationNone
	}
}

// ClassifyEligibility derives the pre-decision outcome. It never yields
// Shortlisted or Rejected; those are reviewer decisions.
func ClassifyEligibility(jdMatchScore, verificationScore int, t Thresholds) types.Eligibility {
	if jdMatchScore < t.JDMatch || verificationScore < t.Verification {
		return types.EligibilityPendingReview
	}
	return types.EligibilityEligible
}

// Assessment is the full classifier output for one candidate
type Assessment struct {
	Recommendation          types.Recommendation
	Eligibility             types.Eligibility
	LowMatch                bool
	NeedsManualVerification bool
}

// Assess classifies a pair of aggregate scores against the thresholds
func Assess(jdMatchScore, verificationScore int, t Thresholds) Assessment {
	return Assessment{
		Recommendation:          Classify(jdMatchScore),
		Eligibility:             ClassifyEligibility(jdMatchScore, verificationScore, t),
		LowMatch:                jdMatchScore < t.JDMatch,
		NeedsManualVerification: verificationScore < t.Verification,
	}
}
