package backend_test

import (
	"context"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	smtypes "github.com/aws/aws-sdk-go-v2/service/secretsmanager/types"
	"github.com/aws/smithy-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/systmms/vector-aws-secrets/internal/backend"
	"github.com/systmms/vector-aws-secrets/internal/errors"
	"github.com/systmms/vector-aws-secrets/tests/fakes"
)

func TestSecretsManagerFetch(t *testing.T) {
	t.Parallel()

	fake := fakes.NewFakeSecretsManagerClient()
	fake.AddSecretString("api_key", "abc123")

	b := backend.NewSecretsManager(fake)
	value, err := b.Fetch(context.Background(), "api_key")

	require.NoError(t, err)
	assert.Equal(t, "abc123", value)
	assert.Equal(t, backend.KindSecretsManager, b.Kind())
	assert.Equal(t, 1, fake.Calls("api_key"))
}

func TestSecretsManagerSecretID(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "db.password", backend.NewSecretsManager(nil).SecretID("db.password"))
	assert.Equal(t, "db/password", backend.NewSecretsManager(nil, backend.WithDotsAsPath(true)).SecretID("db.password"))
	assert.Equal(t, "prod/db/password",
		backend.NewSecretsManager(nil, backend.WithDotsAsPath(true), backend.WithPrefix("prod/")).SecretID("db.password"))
}

func TestSecretsManagerFetchBinary(t *testing.T) {
	t.Parallel()

	fake := fakes.NewFakeSecretsManagerClient()
	fake.AddSecretBinary("cert", []byte{0x00, 0x01, 0x02})

	_, err := backend.NewSecretsManager(fake).Fetch(context.Background(), "cert")

	require.Error(t, err)
	assert.Equal(t, errors.UnsupportedSecretType, errors.KindOf(err))
}

func TestSecretsManagerFetchNoValue(t *testing.T) {
	t.Parallel()

	fake := fakes.NewFakeSecretsManagerClient()
	fake.Secrets["hollow"] = &fakes.SecretData{}

	_, err := backend.NewSecretsManager(fake).Fetch(context.Background(), "hollow")

	require.Error(t, err)
	assert.Equal(t, errors.NotFound, errors.KindOf(err))
}

func TestSecretsManagerFetchErrors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		err      error
		expected errors.Kind
	}{
		{name: "missing secret", expected: errors.NotFound},
		{name: "decryption failure", err: &smtypes.DecryptionFailure{Message: aws.String("kms denied")}, expected: errors.AccessDenied},
		{name: "access denied", err: &smithy.GenericAPIError{Code: "AccessDeniedException", Message: "not authorized"}, expected: errors.AccessDenied},
		{name: "expired token", err: &smithy.GenericAPIError{Code: "ExpiredTokenException"}, expected: errors.AccessDenied},
		{name: "throttled", err: &smithy.GenericAPIError{Code: "TooManyRequestsException"}, expected: errors.Throttled},
		{name: "invalid request", err: &smtypes.InvalidRequestException{Message: aws.String("scheduled for deletion")}, expected: errors.BackendFailure},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			fake := fakes.NewFakeSecretsManagerClient()
			if tt.err != nil {
				fake.AddError("db.password", tt.err)
			}

			_, err := backend.NewSecretsManager(fake).Fetch(context.Background(), "db.password")

			require.Error(t, err)
			assert.Equal(t, tt.expected, errors.KindOf(err))
		})
	}
}
