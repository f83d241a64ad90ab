// Package backend resolves secret names against AWS Systems Manager Parameter
// Store or AWS Secrets Manager.
//
// Exactly two variants exist. Each receives an already authenticated SDK
// client, so tests can inject fakes, and maps SDK failures into the error
// taxonomy of internal/errors before returning.
package backend

import (
	"context"
	"fmt"

	"github.com/systmms/vector-aws-secrets/internal/logging"
)

// Backend fetches one secret value by name.
//
// The interface is sealed: only SSM and SecretsManager implement it.
type Backend interface {
	// Kind reports which store this backend talks to.
	Kind() Kind
	// Fetch returns the value of name or a *errors.SecretError.
	Fetch(ctx context.Context, name string) (string, error)

	sealed()
}

type options struct {
	withDecryption bool
	prefix         string
	dotsAsPath     bool
	logger         *logging.Logger
}

func defaultOptions() options {
	return options{
		withDecryption: true,
		logger:         logging.New(false, true),
	}
}

// Option configures a backend.
type Option func(*options)

// WithDecryption controls SecureString decryption for Parameter Store. It is on by default.
func WithDecryption(decrypt bool) Option {
	return func(o *options) {
		o.withDecryption = decrypt
	}
}

// WithPrefix prepends prefix to every identifier sent to the store.
func WithPrefix(prefix string) Option {
	return func(o *options) {
		o.prefix = prefix
	}
}

// WithDotsAsPath translates dotted names into slash-separated store paths.
func WithDotsAsPath(enabled bool) Option {
	return func(o *options) {
		o.dotsAsPath = enabled
	}
}

// WithLogger sets the logger used for debug output.
func WithLogger(logger *logging.Logger) Option {
	return func(o *options) {
		if logger != nil {
			o.logger = logger
		}
	}
}

// New loads AWS configuration and builds the backend for kind.
func New(ctx context.Context, kind Kind, awsOpts AWSOptions, opts ...Option) (Backend, error) {
	cfg, err := LoadAWSConfig(ctx, awsOpts)
	if err != nil {
		return nil, err
	}

	switch kind {
	case KindSSM:
		return NewSSM(NewSSMClient(cfg, awsOpts.EndpointURL), opts...), nil
	case KindSecretsManager:
		return NewSecretsManager(NewSecretsManagerClient(cfg, awsOpts.EndpointURL), opts...), nil
	default:
		return nil, fmt.Errorf("unsupported backend kind %d", int(kind))
	}
}
