package httpx

import (
	"errors"
	"net/http"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// Sentinel errors understood by the classifier. Domain code wraps these with
// fmt.Errorf("%w: ...") so the boundary can map them to a status code.
var (
	ErrUnauthorized = errors.New("unauthorized")
	ErrForbidden    = errors.New("forbidden")
	ErrNotFound     = errors.New("not found")
	ErrValidation   = errors.New("validation failed")
	ErrConflict     = errors.New("conflict")
	ErrBadRequest   = errors.New("bad request")
)

// ValidationError carries field-level details alongside ErrValidation.
type ValidationError struct {
	Msg     string
	Details map[string]string
}

func (e *ValidationError) Error() string { return e.Msg }

func (e *ValidationError) Unwrap() error { return ErrValidation }

// NewValidationError builds a ValidationError with field details.
func NewValidationError(msg string, details map[string]string) error {
	return &ValidationError{Msg: msg, Details: details}
}

const (
	pgUniqueViolation     = "23505"
	pgForeignKeyViolation = "23503"
	pgNotNullViolation    = "23502"
	pgCheckViolation      = "23514"
	pgInvalidTextRep      = "22P02"
)

// Classify translates an internal error into the response taxonomy. Store
// errors are recognized at this single boundary; anything unclassified
// becomes a sanitized internal error.
func Classify(err error) (int, Envelope) {
	var verr *ValidationError
	if errors.As(err, &verr) {
		var details any
		if len(verr.Details) > 0 {
			details = verr.Details
		}
		return http.StatusUnprocessableEntity, Invalid(verr.Msg, details)
	}

	switch {
	case errors.Is(err, ErrUnauthorized):
		return http.StatusUnauthorized, Unauthorized()
	case errors.Is(err, ErrForbidden):
		return http.StatusForbidden, Forbidden(err.Error())
	case errors.Is(err, ErrNotFound), errors.Is(err, pgx.ErrNoRows):
		return http.StatusNotFound, NotFound(err.Error())
	case errors.Is(err, ErrValidation):
		return http.StatusUnprocessableEntity, Invalid(err.Error(), nil)
	case errors.Is(err, ErrConflict):
		return http.StatusConflict, Conflict(err.Error())
	case errors.Is(err, ErrBadRequest):
		return http.StatusBadRequest, BadRequest(err.Error())
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case pgUniqueViolation:
			return http.StatusConflict, Conflict("duplicate value for " + pgErr.ConstraintName)
		case pgForeignKeyViolation, pgNotNullViolation, pgCheckViolation, pgInvalidTextRep:
			return http.StatusBadRequest, BadRequest(pgErr.Message)
		}
	}

	return http.StatusInternalServerError, Internal("internal server error")
}

// WriteError classifies err and writes the resulting envelope.
func WriteError(w http.ResponseWriter, err error) {
	status, env := Classify(err)
	Write(w, status, env)
}
