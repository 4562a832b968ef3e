package server

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/jonathan/candidate-screener/internal/jobs"
	"github.com/jonathan/candidate-screener/internal/ranking"
	"github.com/jonathan/candidate-screener/internal/schemas"
	"github.com/jonathan/candidate-screener/internal/screening"
)

// ErrValidation indicates request validation failure
type ErrValidation struct {
	Field   string
	Message string
}

func (e *ErrValidation) Error() string {
	return fmt.Sprintf("validation error: %s - %s", e.Field, e.Message)
}

// HTTPStatus returns the appropriate HTTP status code for an error
func HTTPStatus(err error) int {
	var (
		unknownJob   *screening.UnknownJobError
		notFound     *ranking.CandidateNotFoundError
		closed       *screening.JobClosedError
		evidence     *screening.InvalidEvidenceError
		invalidJob   *jobs.InvalidJobError
		transition   *ranking.InvalidStatusTransitionError
		filter       *ranking.InvalidStatusFilterError
		validation   *ErrValidation
		schemaFailed *schemas.ValidationError
	)

	switch {
	case errors.As(err, &unknownJob), errors.As(err, &notFound):
		return http.StatusNotFound
	case errors.As(err, &closed):
		return http.StatusConflict
	case errors.As(err, &evidence), errors.As(err, &invalidJob),
		errors.As(err, &transition), errors.As(err, &filter),
		errors.As(err, &validation), errors.As(err, &schemaFailed):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

// validationDetails returns per-field schema errors carried by err, if any
func validationDetails(err error) []schemas.FieldError {
	var ve *schemas.ValidationError
	if errors.As(err, &ve) {
		return ve.Errors
	}
	return nil
}
