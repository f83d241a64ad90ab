package testutil

import (
	"bytes"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/systmms/vector-aws-secrets/internal/logging"
)

// TestLogger captures log output for validation in tests.
//
// It hands out a real *logging.Logger whose output lands in an in-memory
// buffer, so tests can verify that secret values never reach the logs.
//
// Example usage:
//
//	tl := testutil.NewTestLogger(t, true)
//	r := resolve.New(b, resolve.WithLogger(tl.Logger()))
//	...
//	tl.AssertNotContains(t, "s3cr3t")
type TestLogger struct {
	buf    *syncBuffer
	logger *logging.Logger
}

// NewTestLogger creates a TestLogger. debug enables debug level capture.
func NewTestLogger(t *testing.T, debug bool) *TestLogger {
	t.Helper()

	buf := &syncBuffer{}
	return &TestLogger{
		buf:    buf,
		logger: logging.NewWithWriter(buf, debug, true),
	}
}

// Logger returns the logger writing into the capture buffer.
func (l *TestLogger) Logger() *logging.Logger {
	return l.logger
}

// GetOutput returns everything logged so far.
func (l *TestLogger) GetOutput() string {
	return l.buf.String()
}

// Clear clears the captured log output.
func (l *TestLogger) Clear() {
	l.buf.Reset()
}

// AssertContains asserts that the log output contains the specified substring.
func (l *TestLogger) AssertContains(t *testing.T, substr string) {
	t.Helper()
	assert.Contains(t, l.GetOutput(), substr, "Expected log output to contain %q", substr)
}

// AssertNotContains asserts that the log output does NOT contain the specified substring.
//
// This is particularly useful for verifying that secret values never leak.
func (l *TestLogger) AssertNotContains(t *testing.T, substr string) {
	t.Helper()
	assert.NotContains(t, l.GetOutput(), substr, "Expected log output to NOT contain %q", substr)
}

// AssertRedacted asserts that value is absent and the [REDACTED] marker is present.
func (l *TestLogger) AssertRedacted(t *testing.T, value string) {
	t.Helper()

	output := l.GetOutput()
	assert.NotContains(t, output, value, "Secret value %q should be redacted, but appears in logs", value)
	assert.Contains(t, output, "[REDACTED]", "Expected [REDACTED] marker in logs")
}

// syncBuffer is a bytes.Buffer safe for concurrent loggers.
type syncBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *syncBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *syncBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.String()
}

func (b *syncBuffer) Reset() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.buf.Reset()
}
