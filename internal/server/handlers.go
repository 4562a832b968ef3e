package server

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"

	"github.com/jonathan/candidate-screener/internal/ranking"
	"github.com/jonathan/candidate-screener/internal/schemas"
	"github.com/jonathan/candidate-screener/internal/screening"
	"github.com/jonathan/candidate-screener/internal/types"
)

// ScreenRequest is the body of POST /jobs/{id}/screen
type ScreenRequest struct {
	Candidates json.RawMessage `json:"candidates"`
	// ResetStatus discards earlier reviewer decisions of re-screened candidates
	ResetStatus bool `json:"reset_status,omitempty"`
}

// StatusRequest is the body of PUT /jobs/{id}/candidates/{candidate_id}/status
type StatusRequest struct {
	Status types.Status `json:"status"`
}

// CandidatesResponse is a filtered, ranked view of a job's candidates
type CandidatesResponse struct {
	JobID      string                 `json:"job_id"`
	Total      int                    `json:"total"`
	Candidates []types.CandidateScore `json:"candidates"`
}

// readBody reads a bounded request body and checks it against a schema
func readBody(w http.ResponseWriter, r *http.Request, schema string) ([]byte, error) {
	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err != nil {
		return nil, &ErrValidation{Field: "body", Message: err.Error()}
	}
	if !json.Valid(body) {
		return nil, &ErrValidation{Field: "body", Message: "malformed JSON"}
	}
	if schema != "" {
		if err := schemas.Validate(schema, body); err != nil {
			return nil, err
		}
	}
	return body, nil
}

// handleCreateJob registers or replaces a job posting
func (s *Server) handleCreateJob(w http.ResponseWriter, r *http.Request) {
	body, err := readBody(w, r, schemas.JobPosting)
	if err != nil {
		s.fail(w, err)
		return
	}

	var job types.JobPosting
	if err := json.Unmarshal(body, &job); err != nil {
		s.errorResponse(w, http.StatusBadRequest, "Invalid request body: "+err.Error())
		return
	}

	registered, err := s.session.RegisterJob(job)
	if err != nil {
		s.fail(w, err)
		return
	}
	s.jsonResponse(w, http.StatusCreated, registered)
}

// handleListJobs lists every job with its stats
func (s *Server) handleListJobs(w http.ResponseWriter, _ *http.Request) {
	s.jsonResponse(w, http.StatusOK, map[string]any{"jobs": s.session.Jobs()})
}

// handleGetJob returns one job with its stats
func (s *Server) handleGetJob(w http.ResponseWriter, r *http.Request) {
	jobID := r.PathValue("id")
	job, err := s.session.Job(jobID)
	if err != nil {
		s.fail(w, err)
		return
	}
	stats, err := s.session.JobStats(jobID)
	if err != nil {
		s.fail(w, err)
		return
	}
	s.jsonResponse(w, http.StatusOK, types.JobSummary{JobPosting: job, Stats: stats})
}

// handleCloseJob stops a job from accepting candidates
func (s *Server) handleCloseJob(w http.ResponseWriter, r *http.Request) {
	job, err := s.session.CloseJob(r.PathValue("id"))
	if err != nil {
		s.fail(w, err)
		return
	}
	s.jsonResponse(w, http.StatusOK, job)
}

// handleCounts returns per-status candidate counts of a job
func (s *Server) handleCounts(w http.ResponseWriter, r *http.Request) {
	counts, err := s.session.CountsByStatus(r.PathValue("id"))
	if err != nil {
		s.fail(w, err)
		return
	}
	s.jsonResponse(w, http.StatusOK, counts)
}

// handleScreen screens a batch of candidate evidence against a job.
// Per-candidate failures, schema violations included, are reported in the
// result, not as an error status.
func (s *Server) handleScreen(w http.ResponseWriter, r *http.Request) {
	body, err := readBody(w, r, "")
	if err != nil {
		s.fail(w, err)
		return
	}

	var req ScreenRequest
	if err := json.Unmarshal(body, &req); err != nil {
		s.errorResponse(w, http.StatusBadRequest, "Invalid request body: "+err.Error())
		return
	}
	if len(req.Candidates) == 0 {
		s.fail(w, &ErrValidation{Field: "candidates", Message: "required"})
		return
	}
	intake, err := screening.DecodeBatch(req.Candidates)
	if err != nil {
		s.fail(w, &ErrValidation{Field: "candidates", Message: err.Error()})
		return
	}

	result, err := s.session.ScreenIntake(r.Context(), r.PathValue("id"), intake, screening.BatchOptions{ResetStatus: req.ResetStatus})
	if err != nil {
		s.fail(w, err)
		return
	}
	s.jsonResponse(w, http.StatusOK, result)
}

// handleListCandidates returns a job's candidates filtered by ?q= and
// ?status=, ranked, optionally truncated by ?limit=
func (s *Server) handleListCandidates(w http.ResponseWriter, r *http.Request) {
	jobID := r.PathValue("id")
	query := r.URL.Query()

	limit := 0
	if raw := query.Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 0 {
			s.fail(w, &ErrValidation{Field: "limit", Message: fmt.Sprintf("must be a non-negative integer, got %q", raw)})
			return
		}
		limit = n
	}

	results, err := s.session.Search(jobID, ranking.Query{Text: query.Get("q"), Status: query.Get("status")})
	if err != nil {
		s.fail(w, err)
		return
	}

	total := len(results)
	if limit > 0 && total > limit {
		results = results[:limit]
	}
	s.jsonResponse(w, http.StatusOK, CandidatesResponse{JobID: jobID, Total: total, Candidates: results})
}

// handleGetCandidate returns one candidate's score
func (s *Server) handleGetCandidate(w http.ResponseWriter, r *http.Request) {
	score, err := s.session.Candidate(r.PathValue("id"), r.PathValue("candidate_id"))
	if err != nil {
		s.fail(w, err)
		return
	}
	s.jsonResponse(w, http.StatusOK, score)
}

// handleUpdateStatus applies a reviewer decision
func (s *Server) handleUpdateStatus(w http.ResponseWriter, r *http.Request) {
	var req StatusRequest
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes)).Decode(&req); err != nil {
		s.errorResponse(w, http.StatusBadRequest, "Invalid request body: "+err.Error())
		return
	}
	if req.Status == "" {
		s.fail(w, &ErrValidation{Field: "status", Message: "required"})
		return
	}

	updated, err := s.session.Decide(types.StatusDecision{
		JobID:       r.PathValue("id"),
		CandidateID: r.PathValue("candidate_id"),
		Status:      req.Status,
	})
	if err != nil {
		s.fail(w, err)
		return
	}
	s.jsonResponse(w, http.StatusOK, updated)
}
