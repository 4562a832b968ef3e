package screening

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/jonathan/candidate-screener/internal/schemas"
	"github.com/jonathan/candidate-screener/internal/types"
)

// Intake is a candidate batch decoded record by record. Records that do not
// fit the candidate evidence schema are kept out of Evidence and reported in
// Rejected with their batch index.
type Intake struct {
	Evidence []types.CandidateEvidence
	// Positions holds the batch index of each Evidence record; nil means
	// Evidence is the whole batch in order
	Positions []int
	Rejected  []types.BatchFailure
}

// Len is the number of records submitted, rejected ones included
func (in *Intake) Len() int {
	return len(in.Evidence) + len(in.Rejected)
}

func (in *Intake) position(i int) int {
	if in.Positions == nil {
		return i
	}
	return in.Positions[i]
}

// DecodeBatch decodes a JSON array of candidate evidence. A record with a
// wrong-typed field is rejected on its own; only a document that is not an
// array fails the whole batch.
func DecodeBatch(data []byte) (*Intake, error) {
	var items []json.RawMessage
	if err := json.Unmarshal(data, &items); err != nil {
		return nil, fmt.Errorf("candidate batch must be a JSON array: %w", err)
	}
	if items == nil {
		return nil, errors.New("candidate batch must be a JSON array, got null")
	}

	in := &Intake{
		Evidence:  make([]types.CandidateEvidence, 0, len(items)),
		Positions: make([]int, 0, len(items)),
		Rejected:  []types.BatchFailure{},
	}
	for i, raw := range items {
		ev, err := decodeEvidence(raw)
		if err != nil {
			in.Rejected = append(in.Rejected, types.BatchFailure{
				Index:       i,
				CandidateID: err.CandidateID,
				Reason:      err.Error(),
			})
			continue
		}
		in.Evidence = append(in.Evidence, ev)
		in.Positions = append(in.Positions, i)
	}
	return in, nil
}

func decodeEvidence(raw json.RawMessage) (types.CandidateEvidence, *InvalidEvidenceError) {
	if err := schemas.Validate(schemas.CandidateEvidenceItem, raw); err != nil {
		return types.CandidateEvidence{}, &InvalidEvidenceError{
			CandidateID: peekCandidateID(raw),
			Reason:      "schema validation failed",
			Cause:       fieldErrors(err),
		}
	}

	var ev types.CandidateEvidence
	if err := json.Unmarshal(raw, &ev); err != nil {
		return types.CandidateEvidence{}, &InvalidEvidenceError{
			CandidateID: peekCandidateID(raw),
			Reason:      "malformed record",
			Cause:       err,
		}
	}
	return ev, nil
}

// peekCandidateID reads candidate_id when it is a string, for reporting
func peekCandidateID(raw json.RawMessage) string {
	var head struct {
		CandidateID any `json:"candidate_id"`
	}
	if err := json.Unmarshal(raw, &head); err != nil {
		return ""
	}
	id, _ := head.CandidateID.(string)
	return id
}

// fieldErrors flattens a schema error to one line so it fits a failure reason
func fieldErrors(err error) error {
	var ve *schemas.ValidationError
	if !errors.As(err, &ve) {
		return err
	}
	parts := make([]string, 0, len(ve.Errors))
	for _, fe := range ve.Errors {
		parts = append(parts, fe.Field+": "+fe.Message)
	}
	return errors.New(strings.Join(parts, "; "))
}
