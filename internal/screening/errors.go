package screening

import "fmt"

// UnknownJobError is returned when screening or querying a job the session does not know.
// It fails the whole call.
type UnknownJobError struct {
	JobID string
}

func (e *UnknownJobError) Error() string {
	return fmt.Sprintf("unknown job: %s", e.JobID)
}

// JobClosedError is returned when screening against a closed job
type JobClosedError struct {
	JobID string
}

func (e *JobClosedError) Error() string {
	return fmt.Sprintf("job %s is closed and does not accept candidates", e.JobID)
}

// InvalidEvidenceError reports a batch item that could not be screened.
// It excludes that item only; the rest of the batch continues.
type InvalidEvidenceError struct {
	CandidateID string
	Reason      string
	Cause       error
}

func (e *InvalidEvidenceError) Error() string {
	id := e.CandidateID
	if id == "" {
		id = "(missing candidate_id)"
	}
	if e.Cause != nil {
		return fmt.Sprintf("invalid evidence for %s: %s: %v", id, e.Reason, e.Cause)
	}
	return fmt.Sprintf("invalid evidence for %s: %s", id, e.Reason)
}

func (e *InvalidEvidenceError) Unwrap() error {
	return e.Cause
}
