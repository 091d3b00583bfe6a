// Package httpx provides the uniform response envelope shared by every
// resource endpoint, together with error classification and message
// sanitization.
package httpx

import (
	"encoding/json"
	"net/http"

	"github.com/brickfolio/brickfolio/internal/shared"
)

// ErrorInfo carries the caller-facing description of a failure.
type ErrorInfo struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Details any    `json:"details,omitempty"`
}

// Envelope is the wrapper shape returned by every operation, success or
// failure. Success is true iff Error is nil; Data is nil on failure.
type Envelope struct {
	Success bool               `json:"success"`
	Data    any                `json:"data"`
	Error   *ErrorInfo         `json:"error"`
	Meta    *shared.Pagination `json:"meta,omitempty"`
}

// OK builds a success envelope.
func OK(data any) Envelope {
	return Envelope{Success: true, Data: data}
}

// Paginated builds a success envelope carrying list pagination metadata.
func Paginated(data any, meta shared.Pagination) Envelope {
	return Envelope{Success: true, Data: data, Meta: &meta}
}

// Message builds a success envelope holding only a human-readable message,
// used by delete endpoints.
func Message(msg string) Envelope {
	return Envelope{Success: true, Data: map[string]string{"message": msg}}
}

func failure(code, msg string, details any) Envelope {
	return Envelope{
		Success: false,
		Error:   &ErrorInfo{Code: code, Message: Sanitize(msg), Details: details},
	}
}

// Unauthorized builds the envelope for requests without a valid principal.
func Unauthorized() Envelope {
	return failure("unauthorized", "authentication required", nil)
}

// Forbidden builds the envelope for a disallowed ownership attachment.
func Forbidden(msg string) Envelope {
	return failure("forbidden", msg, nil)
}

// NotFound builds the envelope for a missing or inaccessible target.
func NotFound(msg string) Envelope {
	return failure("not_found", msg, nil)
}

// Invalid builds the envelope for malformed input, with field-level details.
func Invalid(msg string, details any) Envelope {
	return failure("validation_error", msg, details)
}

// Conflict builds the envelope for a uniqueness violation on a
// caller-controlled key.
func Conflict(msg string) Envelope {
	return failure("conflict", msg, nil)
}

// BadRequest builds the envelope for a store rejection attributable to the
// caller.
func BadRequest(msg string) Envelope {
	return failure("bad_request", msg, nil)
}

// Internal builds the envelope for an unclassified failure.
func Internal(msg string) Envelope {
	return failure("internal_error", msg, nil)
}

// Write serializes the envelope with the given status code.
func Write(w http.ResponseWriter, status int, env Envelope) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(env)
}

// DecodeJSON decodes a JSON request body into the target struct.
func DecodeJSON(r *http.Request, target any) error {
	return json.NewDecoder(r.Body).Decode(target)
}
