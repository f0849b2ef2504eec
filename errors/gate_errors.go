// errors/gate_errors.go
package errors

import (
	"errors"
	"net/http"
)

var (
	ErrUnauthenticated   = errors.New("unauthenticated")
	ErrInvalidSignature  = errors.New("invalid token signature")
	ErrAudienceMismatch  = errors.New("token audience mismatch")
	ErrExpired           = errors.New("token expired")
	ErrMissingSubject    = errors.New("token missing subject")
	ErrKeySetUnavailable = errors.New("key set unavailable")
	ErrRateLimitExceeded = errors.New("rate limit exceeded")
	ErrInternal          = errors.New("internal error")
)

var (
	ErrNotFound              = errors.New("object not found")
	ErrRouteNotFound         = errors.New("route not found")
	ErrStorageObjectNotFound = errors.New("object not found in storage")
	ErrMissingBody           = errors.New("missing body")
	ErrInvalidRequest        = errors.New("invalid request")
	ErrObjectConflict        = errors.New("object conflict")
	ErrDatabaseOperation     = errors.New("database operation failed")
)

type outcome struct {
	status  int
	message string
}

// Ordered so that the first match wins for errors wrapping more than one sentinel.
var taxonomy = []struct {
	err error
	outcome
}{
	{ErrUnauthenticated, outcome{http.StatusUnauthorized, "Invalid token"}},
	{ErrInvalidSignature, outcome{http.StatusUnauthorized, "Access token signature invalid"}},
	{ErrAudienceMismatch, outcome{http.StatusForbidden, "Access token aud mismatch"}},
	{ErrExpired, outcome{http.StatusUnauthorized, "Access token expired"}},
	{ErrMissingSubject, outcome{http.StatusUnauthorized, "Access token missing sub"}},
	{ErrKeySetUnavailable, outcome{http.StatusInternalServerError, "Failed to load Access JWKS"}},
	{ErrRateLimitExceeded, outcome{http.StatusTooManyRequests, "Rate limit exceeded"}},
	{ErrNotFound, outcome{http.StatusNotFound, "Not found"}},
	{ErrRouteNotFound, outcome{http.StatusNotFound, "Route not found"}},
	{ErrStorageObjectNotFound, outcome{http.StatusNotFound, "Not found in storage"}},
	{ErrMissingBody, outcome{http.StatusBadRequest, "Missing body"}},
	{ErrInvalidRequest, outcome{http.StatusBadRequest, "Invalid request"}},
	{ErrObjectConflict, outcome{http.StatusConflict, "Object already exists"}},
	{ErrDatabaseOperation, outcome{http.StatusInternalServerError, "Internal error"}},
	{ErrInternal, outcome{http.StatusInternalServerError, "Internal error"}},
}

// GateError overrides the public message of a sentinel while still matching it with errors.Is.
type GateError struct {
	Kind    error
	Message string
}

func (e *GateError) Error() string {
	return e.Kind.Error() + ": " + e.Message
}

func (e *GateError) Unwrap() error {
	return e.Kind
}

// WithMessage returns kind carrying a caller-facing message.
func WithMessage(kind error, message string) error {
	return &GateError{Kind: kind, Message: message}
}

// Status maps err to the HTTP status and public message of its kind.
// Errors of no known kind map to ErrInternal.
func Status(err error) (int, string) {
	var ge *GateError
	if errors.As(err, &ge) {
		status, _ := Status(ge.Kind)
		return status, ge.Message
	}
	for _, t := range taxonomy {
		if errors.Is(err, t.err) {
			return t.status, t.message
		}
	}
	return http.StatusInternalServerError, "Internal error"
}
