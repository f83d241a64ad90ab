package errors

import (
	"context"
	"errors"
	"fmt"
	"strings"
)

// Kind classifies a failure for the exec protocol. Every error that reaches
// the wire is reported as "<Kind>: <message>".
type Kind string

const (
	// Per secret, reported in-band under the secret's name.
	InvalidSecretName     Kind = "InvalidSecretName"
	NotFound              Kind = "NotFound"
	AccessDenied          Kind = "AccessDenied"
	Throttled             Kind = "Throttled"
	UnsupportedSecretType Kind = "UnsupportedSecretType"
	BackendFailure        Kind = "BackendFailure"

	// Per request, reported as the top-level error of a reply.
	MalformedRequest   Kind = "MalformedRequest"
	UnsupportedVersion Kind = "UnsupportedVersion"

	// Process fatal, reported on stderr before any request is read.
	StartupMisconfiguration Kind = "StartupMisconfiguration"
)

// Error lets a bare Kind act as a sentinel for errors.Is.
func (k Kind) Error() string {
	return string(k)
}

// SecretError is a classified failure for one secret or one request.
type SecretError struct {
	Kind    Kind
	Name    string // secret name, empty for request-level failures
	Message string
	Err     error
}

// New creates a SecretError of the given kind.
func New(kind Kind, name, format string, args ...interface{}) *SecretError {
	return &SecretError{
		Kind:    kind,
		Name:    name,
		Message: fmt.Sprintf(format, args...),
	}
}

// Wrap creates a SecretError of the given kind around a cause.
func Wrap(kind Kind, name string, err error, format string, args ...interface{}) *SecretError {
	return &SecretError{
		Kind:    kind,
		Name:    name,
		Message: fmt.Sprintf(format, args...),
		Err:     err,
	}
}

func (e *SecretError) Error() string {
	msg := e.Message
	if msg == "" && e.Err != nil {
		msg = e.Err.Error()
	}
	if msg == "" {
		return string(e.Kind)
	}
	return string(e.Kind) + ": " + msg
}

func (e *SecretError) Unwrap() error {
	return e.Err
}

// Is matches a bare Kind sentinel, so errors.Is(err, errors.NotFound) works.
func (e *SecretError) Is(target error) bool {
	if k, ok := target.(Kind); ok {
		return e.Kind == k
	}
	return false
}

// KindOf returns the kind carried by err. Unclassified errors are treated as
// backend failures; configuration errors as startup misconfiguration.
func KindOf(err error) Kind {
	if err == nil {
		return ""
	}
	var se *SecretError
	if errors.As(err, &se) {
		return se.Kind
	}
	var k Kind
	if errors.As(err, &k) {
		return k
	}
	var ce ConfigError
	if errors.As(err, &ce) {
		return StartupMisconfiguration
	}
	return BackendFailure
}

// UserError represents an error that should be shown to the user with helpful context
type UserError struct {
	Message    string
	Suggestion string
	Details    string
	Err        error
}

func (e UserError) Error() string {
	var parts []string

	if e.Message != "" {
		parts = append(parts, e.Message)
	} else if e.Err != nil {
		parts = append(parts, e.Err.Error())
	}

	if e.Details != "" {
		parts = append(parts, "\n  Details: "+e.Details)
	}

	if e.Suggestion != "" {
		parts = append(parts, "\n  Try: "+e.Suggestion)
	}

	return strings.Join(parts, "")
}

func (e UserError) Unwrap() error {
	return e.Err
}

// ConfigError represents a configuration error with helpful context
type ConfigError struct {
	Field      string
	Value      interface{}
	Message    string
	Suggestion string
}

func (e ConfigError) Error() string {
	msg := "Configuration error"
	if e.Field != "" {
		msg += fmt.Sprintf(" in field '%s'", e.Field)
	}
	if e.Value != nil {
		msg += fmt.Sprintf(" (value: %v)", e.Value)
	}
	msg += ": " + e.Message

	if e.Suggestion != "" {
		msg += "\n  Try: " + e.Suggestion
	}

	return msg
}

// Suggestion returns an operator hint for a classified backend failure.
func Suggestion(kind Kind, backend string) string {
	switch kind {
	case NotFound:
		switch backend {
		case "ssm":
			return "Verify the parameter name and region. SSM parameter names are case-sensitive"
		case "secretsmanager":
			return "Verify the secret name and region. List secrets with: 'aws secretsmanager list-secrets'"
		}
		return "Verify the secret name and region"
	case AccessDenied:
		switch backend {
		case "ssm":
			return "Check IAM permissions: ssm:GetParameter and kms:Decrypt (for SecureString)"
		case "secretsmanager":
			return "Check IAM permissions for secretsmanager:GetSecretValue and kms:Decrypt"
		}
		return "Check AWS credentials and IAM permissions"
	case Throttled:
		return "AWS rate limit exceeded. Reduce concurrency or raise max_attempts"
	case UnsupportedSecretType:
		return "Store the secret as a string value"
	case InvalidSecretName:
		return "Use only ASCII letters, digits, '_' and '.' in secret names"
	}
	return ""
}

// IsRetryable checks if an error is retryable
func IsRetryable(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, Throttled) || errors.Is(err, context.DeadlineExceeded) {
		return true
	}

	errStr := strings.ToLower(err.Error())
	retryablePatterns := []string{
		"timeout",
		"temporary failure",
		"connection reset",
		"broken pipe",
		"rate limit",
		"throttling",
		"too many requests",
	}

	for _, pattern := range retryablePatterns {
		if strings.Contains(errStr, pattern) {
			return true
		}
	}

	return false
}
