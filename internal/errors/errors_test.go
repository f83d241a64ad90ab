package errors_test

import (
	"context"
	stderrors "errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/systmms/vector-aws-secrets/internal/errors"
	"github.com/systmms/vector-aws-secrets/internal/logging"
)

func TestSecretErrorFormatting(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		err      *errors.SecretError
		expected string
	}{
		{
			name:     "kind and message",
			err:      errors.New(errors.NotFound, "db.password", "parameter %q not found", "db.password"),
			expected: `NotFound: parameter "db.password" not found`,
		},
		{
			name:     "falls back to cause",
			err:      errors.Wrap(errors.BackendFailure, "x", fmt.Errorf("connection refused"), ""),
			expected: "BackendFailure: connection refused",
		},
		{
			name:     "bare kind",
			err:      &errors.SecretError{Kind: errors.Throttled},
			expected: "Throttled",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.expected, tt.err.Error())
		})
	}
}

func TestSecretErrorMatchesKindSentinel(t *testing.T) {
	t.Parallel()

	cause := fmt.Errorf("ParameterNotFound")
	err := fmt.Errorf("fetching: %w", errors.Wrap(errors.NotFound, "a", cause, "missing"))

	assert.True(t, stderrors.Is(err, errors.NotFound))
	assert.False(t, stderrors.Is(err, errors.AccessDenied))
	assert.True(t, stderrors.Is(err, cause), "cause must stay reachable")
}

func TestKindOf(t *testing.T) {
	t.Parallel()

	assert.Equal(t, errors.Kind(""), errors.KindOf(nil))
	assert.Equal(t, errors.AccessDenied, errors.KindOf(errors.New(errors.AccessDenied, "a", "denied")))
	assert.Equal(t, errors.UnsupportedVersion, errors.KindOf(fmt.Errorf("wrapped: %w", errors.UnsupportedVersion)))
	assert.Equal(t, errors.StartupMisconfiguration, errors.KindOf(errors.ConfigError{Field: "concurrency", Message: "must be positive"}))
	assert.Equal(t, errors.BackendFailure, errors.KindOf(fmt.Errorf("something odd")))
}

// TestUserErrorFormatting verifies UserError displays properly
func TestUserErrorFormatting(t *testing.T) {
	t.Parallel()

	err := errors.UserError{
		Message:    "Failed to load AWS configuration",
		Details:    "shared config profile not found",
		Suggestion: "Check AWS_PROFILE",
	}

	errMsg := err.Error()

	assert.Contains(t, errMsg, "Failed to load AWS configuration")
	assert.Contains(t, errMsg, "shared config profile not found")
	assert.Contains(t, errMsg, "Check AWS_PROFILE")
}

// TestConfigErrorFormatting verifies ConfigError displays with context
func TestConfigErrorFormatting(t *testing.T) {
	t.Parallel()

	err := errors.ConfigError{
		Field:      "endpoint_url",
		Value:      "::bad",
		Message:    "invalid URL",
		Suggestion: "Use format: http://hostname:port",
	}

	errMsg := err.Error()

	assert.Contains(t, errMsg, "endpoint_url")
	assert.Contains(t, errMsg, "::bad")
	assert.Contains(t, errMsg, "invalid URL")
	assert.Contains(t, errMsg, "http://hostname:port")
}

func TestSuggestion(t *testing.T) {
	t.Parallel()

	assert.Contains(t, errors.Suggestion(errors.AccessDenied, "ssm"), "kms:Decrypt")
	assert.Contains(t, errors.Suggestion(errors.NotFound, "secretsmanager"), "list-secrets")
	assert.Empty(t, errors.Suggestion(errors.BackendFailure, "ssm"))
}

func TestIsRetryable(t *testing.T) {
	t.Parallel()

	assert.False(t, errors.IsRetryable(nil))
	assert.True(t, errors.IsRetryable(errors.New(errors.Throttled, "a", "slow down")))
	assert.True(t, errors.IsRetryable(context.DeadlineExceeded))
	assert.True(t, errors.IsRetryable(fmt.Errorf("read: connection reset by peer")))
	assert.False(t, errors.IsRetryable(errors.New(errors.NotFound, "a", "gone")))
}

func TestSecretErrorNeverCarriesRedactedValue(t *testing.T) {
	t.Parallel()

	value := "api-key-super-secret-123"
	err := errors.New(errors.BackendFailure, "api.key", "unexpected payload %s", logging.Secret(value))

	assert.Contains(t, err.Error(), "[REDACTED]")
	assert.NotContains(t, err.Error(), value)
}
