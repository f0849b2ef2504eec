package errors_test

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"

	vault_errors "github.com/dev-mohitbeniwal/neonvault/errors"
)

func TestStatus(t *testing.T) {
	tests := []struct {
		name    string
		err     error
		status  int
		message string
	}{
		{"unauthenticated", vault_errors.ErrUnauthenticated, http.StatusUnauthorized, "Invalid token"},
		{"signature", fmt.Errorf("%w: bad", vault_errors.ErrInvalidSignature), http.StatusUnauthorized, "Access token signature invalid"},
		{"audience", vault_errors.ErrAudienceMismatch, http.StatusForbidden, "Access token aud mismatch"},
		{"expired", vault_errors.ErrExpired, http.StatusUnauthorized, "Access token expired"},
		{"missing sub", vault_errors.ErrMissingSubject, http.StatusUnauthorized, "Access token missing sub"},
		{"key set", fmt.Errorf("fetch: %w", vault_errors.ErrKeySetUnavailable), http.StatusInternalServerError, "Failed to load Access JWKS"},
		{"rate limit", vault_errors.ErrRateLimitExceeded, http.StatusTooManyRequests, "Rate limit exceeded"},
		{"not found", vault_errors.ErrNotFound, http.StatusNotFound, "Not found"},
		{"route", vault_errors.ErrRouteNotFound, http.StatusNotFound, "Route not found"},
		{"unknown", errors.New("boom"), http.StatusInternalServerError, "Internal error"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			status, message := vault_errors.Status(tt.err)
			assert.Equal(t, tt.status, status)
			assert.Equal(t, tt.message, message)
		})
	}
}

func TestWithMessage(t *testing.T) {
	err := vault_errors.WithMessage(vault_errors.ErrUnauthenticated, "Missing Access token (Cf-Access-Jwt-Assertion)")

	assert.True(t, errors.Is(err, vault_errors.ErrUnauthenticated))
	status, message := vault_errors.Status(fmt.Errorf("auth: %w", err))
	assert.Equal(t, http.StatusUnauthorized, status)
	assert.Equal(t, "Missing Access token (Cf-Access-Jwt-Assertion)", message)
}
