package logging

import (
	"bytes"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSecretRedaction(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{
			name:     "secret is redacted",
			input:    "my-secret-password",
			expected: "[REDACTED]",
		},
		{
			name:     "empty secret is still redacted",
			input:    "",
			expected: "[REDACTED]",
		},
		{
			name:     "complex secret is redacted",
			input:    "password123!@#",
			expected: "[REDACTED]",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := Secret(tt.input).String()
			if result != tt.expected {
				t.Errorf("Secret(%q).String() = %q, want %q", tt.input, result, tt.expected)
			}
			if got := Secret(tt.input).GoString(); got != tt.expected {
				t.Errorf("Secret(%q).GoString() = %q, want %q", tt.input, got, tt.expected)
			}
		})
	}
}

func TestSecretRedactedInFormattedMessage(t *testing.T) {
	var buf bytes.Buffer
	logger := NewWithWriter(&buf, false, true)

	secretValue := "super-secret-password-12345"
	logger.Info("Retrieved secret: %s", Secret(secretValue))

	out := buf.String()
	assert.Contains(t, out, "[REDACTED]")
	assert.Contains(t, out, "Retrieved secret")
	assert.NotContains(t, out, secretValue)
}

func TestSecretRedactedInStructuredAttrs(t *testing.T) {
	var buf bytes.Buffer
	logger := NewWithWriter(&buf, true, true).With("value", Secret("debug-secret-api-key-67890"))

	logger.Debug("fetched")

	out := buf.String()
	assert.Contains(t, out, "value=[REDACTED]")
	assert.NotContains(t, out, "debug-secret-api-key-67890")
}

func TestLoggerDebugMode(t *testing.T) {
	var quiet, loud bytes.Buffer

	New(false, true) // stderr constructor must not panic
	NewWithWriter(&quiet, false, true).Debug("hidden %d", 1)
	NewWithWriter(&loud, true, true).Debug("shown %d", 2)

	assert.Empty(t, quiet.String())
	assert.Contains(t, loud.String(), "shown 2")
}

func TestLoggerLevels(t *testing.T) {
	var buf bytes.Buffer
	logger := NewWithWriter(&buf, true, true)

	logger.Info("info message")
	logger.Warn("warn message")
	logger.Error("error message")
	logger.Debug("debug message")
	logger.Info("formatted %s message", "info")

	out := buf.String()
	for _, want := range []string{"INF info message", "WRN warn message", "ERR error message", "DBG debug message", "formatted info message"} {
		assert.Contains(t, out, want)
	}
}

func TestLevelEnvOverride(t *testing.T) {
	t.Setenv(LevelEnv, "error")

	var buf bytes.Buffer
	logger := NewWithWriter(&buf, true, true)
	logger.Warn("dropped")
	logger.Error("kept")

	assert.NotContains(t, buf.String(), "dropped")
	assert.Contains(t, buf.String(), "kept")
}

func TestParseLevel(t *testing.T) {
	l, err := ParseLevel("")
	require.NoError(t, err)
	assert.Equal(t, slog.LevelInfo, l)

	l, err = ParseLevel("debug")
	require.NoError(t, err)
	assert.Equal(t, slog.LevelDebug, l)

	_, err = ParseLevel("chatty")
	assert.Error(t, err)
}
