package backend

import (
	"context"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/secretsmanager"
	"github.com/systmms/vector-aws-secrets/internal/errors"
)

// SecretsManagerClientAPI defines the Secrets Manager operations the backend uses.
type SecretsManagerClientAPI interface {
	GetSecretValue(ctx context.Context, params *secretsmanager.GetSecretValueInput, optFns ...func(*secretsmanager.Options)) (*secretsmanager.GetSecretValueOutput, error)
}

// SecretsManager resolves names as Secrets Manager secret ids and returns
// the current version's string value.
type SecretsManager struct {
	client SecretsManagerClientAPI
	options
}

// NewSecretsManager creates a Secrets Manager backend around client.
func NewSecretsManager(client SecretsManagerClientAPI, opts ...Option) *SecretsManager {
	s := &SecretsManager{client: client, options: defaultOptions()}
	for _, opt := range opts {
		opt(&s.options)
	}
	return s
}

func (s *SecretsManager) Kind() Kind { return KindSecretsManager }

func (s *SecretsManager) sealed() {}

// SecretID returns the secret identifier sent to the store for name.
func (s *SecretsManager) SecretID(name string) string {
	if s.dotsAsPath {
		name = strings.ReplaceAll(name, ".", "/")
	}
	return s.prefix + name
}

// Fetch reads the current version of one secret. Binary-only secrets are
// rejected: Vector consumes strings.
func (s *SecretsManager) Fetch(ctx context.Context, name string) (string, error) {
	secretID := s.SecretID(name)
	s.logger.Debug("Fetching secret from Secrets Manager: %s", secretID)

	result, err := s.client.GetSecretValue(ctx, &secretsmanager.GetSecretValueInput{
		SecretId: aws.String(secretID),
	})
	if err != nil {
		return "", classify(KindSecretsManager, name, err)
	}

	switch {
	case result == nil:
		return "", errors.New(errors.NotFound, name, "secret %q has no value", secretID)
	case result.SecretString != nil:
		return *result.SecretString, nil
	case len(result.SecretBinary) > 0:
		return "", errors.New(errors.UnsupportedSecretType, name, "secret %q holds binary data, only string secrets are supported", secretID)
	default:
		return "", errors.New(errors.NotFound, name, "secret %q has no value", secretID)
	}
}
