package schemas

import (
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jonathan/candidate-screener/internal/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidate_JobPosting(t *testing.T) {
	valid := `{"id": "job-1", "title": "Senior Backend Engineer", "status": "Active", "required_skills": ["Python", "AWS"]}`
	assert.NoError(t, Validate(JobPosting, []byte(valid)))

	missingTitle := `{"id": "job-1", "required_skills": ["Python"]}`
	err := Validate(JobPosting, []byte(missingTitle))
	var ve *ValidationError
	require.True(t, errors.As(err, &ve))
	assert.Equal(t, JobPosting, ve.Schema)
	assert.NotEmpty(t, ve.Errors)
	assert.Contains(t, err.Error(), "title")

	badStatus := `{"title": "PM", "status": "Paused"}`
	assert.Error(t, Validate(JobPosting, []byte(badStatus)))
}

func TestValidate_CandidateEvidence(t *testing.T) {
	batch := `[
		{"candidate_id": "a", "skill_evidence": {"Go": {"confidence": 7.5, "found": true}}, "verification_checks": {"experience": true}},
		{"name": "no id is allowed here"}
	]`
	assert.NoError(t, Validate(CandidateEvidence, []byte(batch)))

	wrongType := `[{"candidate_id": "a", "skill_evidence": {"Go": {"confidence": "high"}}}]`
	err := Validate(CandidateEvidence, []byte(wrongType))
	var ve *ValidationError
	require.True(t, errors.As(err, &ve))

	notArray := `{"candidate_id": "a"}`
	assert.Error(t, Validate(CandidateEvidence, []byte(notArray)))
}

func TestValidate_CandidateEvidenceItem(t *testing.T) {
	assert.NoError(t, Validate(CandidateEvidenceItem, []byte(`{"candidate_id": "a", "skill_evidence": {"Go": {"confidence": 7, "found": true}}}`)))

	err := Validate(CandidateEvidenceItem, []byte(`{"candidate_id": "a", "skill_evidence": {"Go": {"confidence": "high"}}}`))
	var ve *ValidationError
	require.True(t, errors.As(err, &ve))
	assert.Equal(t, CandidateEvidenceItem, ve.Schema)
	assert.Equal(t, "skill_evidence.Go.confidence", ve.Errors[0].Field)

	assert.Error(t, Validate(CandidateEvidenceItem, []byte(`{"candidate_id": 7}`)))
	assert.Error(t, Validate(CandidateEvidenceItem, []byte(`[{"candidate_id": "a"}]`)))
	assert.Error(t, Validate(CandidateEvidenceItem, []byte(`null`)))
}

func TestValidate_UnresolvedFragment(t *testing.T) {
	err := Validate(CandidateEvidence+"#/definitions/missing", []byte(`{}`))
	var loadErr *SchemaLoadError
	require.True(t, errors.As(err, &loadErr))
}

func TestValidate_ScreeningResult(t *testing.T) {
	result := types.BatchResult{
		BatchID: uuid.New(),
		JobID:   "job-1",
		Succeeded: []types.CandidateScore{{
			CandidateID:    "a",
			JobID:          "job-1",
			JDMatchScore:   40,
			SkillMatches:   []types.SkillMatchResult{{Skill: "Python", Found: true, Score: 8}},
			Recommendation: types.RecommendationNone,
			Eligibility:    types.EligibilityPendingReview,
			Status:         types.StatusPendingReview,
			ScreenedAt:     time.Now(),
		}},
		Failed: []types.BatchFailure{{Index: 1, Reason: "invalid evidence"}},
	}
	data, err := json.Marshal(result)
	require.NoError(t, err)
	assert.NoError(t, Validate(ScreeningResult, data))

	result.Succeeded[0].JDMatchScore = 140
	data, err = json.Marshal(result)
	require.NoError(t, err)
	assert.Error(t, Validate(ScreeningResult, data))
}

func TestValidate_UnknownSchema(t *testing.T) {
	err := Validate("missing.schema.json", []byte(`{}`))
	var loadErr *SchemaLoadError
	require.True(t, errors.As(err, &loadErr))
	assert.Equal(t, "missing.schema.json", loadErr.Name)
}

func TestValidate_MalformedDocument(t *testing.T) {
	err := Validate(JobPosting, []byte(`{not json`))
	assert.Error(t, err)
}

func TestValidateJSONString(t *testing.T) {
	schema := `{"type": "object", "required": ["skill"], "properties": {"skill": {"type": "string"}}}`

	assert.NoError(t, ValidateJSONString(schema, `{"skill": "Go"}`))

	err := ValidateJSONString(schema, `{}`)
	var ve *ValidationError
	require.True(t, errors.As(err, &ve))
	assert.Equal(t, "(root)", ve.Errors[0].Field)
}
