package backend

import (
	"context"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/ssm"
	"github.com/systmms/vector-aws-secrets/internal/errors"
)

// SSMClientAPI defines the Parameter Store operations the backend uses.
// This allows for mocking in tests
type SSMClientAPI interface {
	GetParameter(ctx context.Context, params *ssm.GetParameterInput, optFns ...func(*ssm.Options)) (*ssm.GetParameterOutput, error)
}

// SSM resolves names as Systems Manager Parameter Store parameters.
type SSM struct {
	client SSMClientAPI
	options
}

// NewSSM creates a Parameter Store backend around client.
func NewSSM(client SSMClientAPI, opts ...Option) *SSM {
	s := &SSM{client: client, options: defaultOptions()}
	for _, opt := range opts {
		opt(&s.options)
	}
	return s
}

func (s *SSM) Kind() Kind { return KindSSM }

func (s *SSM) sealed() {}

// ParameterName returns the parameter identifier sent to the store for name.
func (s *SSM) ParameterName(name string) string {
	if !s.dotsAsPath {
		return s.prefix + name
	}
	path := "/" + strings.ReplaceAll(name, ".", "/")
	return strings.TrimSuffix(s.prefix, "/") + path
}

// Fetch reads one parameter. SecureString values are decrypted unless
// decryption was turned off.
func (s *SSM) Fetch(ctx context.Context, name string) (string, error) {
	parameterName := s.ParameterName(name)
	s.logger.Debug("Fetching parameter from SSM: %s", parameterName)

	result, err := s.client.GetParameter(ctx, &ssm.GetParameterInput{
		Name:           aws.String(parameterName),
		WithDecryption: aws.Bool(s.withDecryption),
	})
	if err != nil {
		return "", classify(KindSSM, name, err)
	}

	if result == nil || result.Parameter == nil || result.Parameter.Value == nil {
		return "", errors.New(errors.NotFound, name, "parameter %q has no value", parameterName)
	}

	return *result.Parameter.Value, nil
}
