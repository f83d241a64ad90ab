package config_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/systmms/vector-aws-secrets/internal/backend"
	"github.com/systmms/vector-aws-secrets/internal/config"
	dserrors "github.com/systmms/vector-aws-secrets/internal/errors"
)

func TestLoadEmptyPathReturnsDefaults(t *testing.T) {
	t.Parallel()

	cfg, err := config.Load("")
	require.NoError(t, err)

	assert.Equal(t, config.DefaultTimeoutMs, cfg.TimeoutMs)
	assert.Equal(t, config.DefaultConcurrency, cfg.Concurrency)
	require.NotNil(t, cfg.SSM.WithDecryption)
	assert.True(t, *cfg.SSM.WithDecryption)
	assert.NoError(t, cfg.Validate())
}

func TestLoadFile(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
region: eu-central-1
endpoint_url: http://localhost:4566
timeout_ms: 5000
concurrency: 4
log_level: debug
ssm:
  with_decryption: false
  parameter_prefix: /prod
  dots_as_path: true
secretsmanager:
  prefix: prod/
`), 0o600))

	cfg, err := config.Load(path)
	require.NoError(t, err)
	require.NoError(t, cfg.Validate())

	assert.Equal(t, "eu-central-1", cfg.Region)
	assert.Equal(t, "http://localhost:4566", cfg.EndpointURL)
	assert.Equal(t, 5000, cfg.TimeoutMs)
	assert.Equal(t, 4, cfg.Concurrency)
	assert.False(t, *cfg.SSM.WithDecryption)
	assert.Equal(t, "/prod", cfg.SSM.ParameterPrefix)
	assert.True(t, cfg.SSM.DotsAsPath)
	assert.Equal(t, "prod/", cfg.SecretsManager.Prefix)

	opts := cfg.AWSOptions()
	assert.Equal(t, "eu-central-1", opts.Region)
	assert.Equal(t, "http://localhost:4566", opts.EndpointURL)
}

func TestLoadMissingFile(t *testing.T) {
	t.Parallel()

	_, err := config.Load(filepath.Join(t.TempDir(), "nope.yaml"))
	require.Error(t, err)
	assert.Equal(t, dserrors.StartupMisconfiguration, dserrors.KindOf(err))
}

func TestParseRejectsUnknownKeys(t *testing.T) {
	t.Parallel()

	_, err := config.Parse([]byte("regoin: us-east-1\n"))
	require.Error(t, err)
	assert.Equal(t, dserrors.StartupMisconfiguration, dserrors.KindOf(err))
}

func TestParseEmptyDocument(t *testing.T) {
	t.Parallel()

	cfg, err := config.Parse(nil)
	require.NoError(t, err)
	assert.Equal(t, config.DefaultConcurrency, cfg.Concurrency)
}

func TestValidate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		mutate func(*config.Config)
		field  string
	}{
		{name: "negative concurrency", mutate: func(c *config.Config) { c.Concurrency = -1 }, field: "concurrency"},
		{name: "negative timeout", mutate: func(c *config.Config) { c.TimeoutMs = -5 }, field: "timeout_ms"},
		{name: "negative attempts", mutate: func(c *config.Config) { c.MaxAttempts = -1 }, field: "max_attempts"},
		{name: "half static credentials", mutate: func(c *config.Config) { c.AccessKeyID = "AKIA" }, field: "access_key_id"},
		{name: "external id without role", mutate: func(c *config.Config) { c.ExternalID = "x" }, field: "external_id"},
		{name: "bad endpoint", mutate: func(c *config.Config) { c.EndpointURL = "localhost" }, field: "endpoint_url"},
		{name: "bad log level", mutate: func(c *config.Config) { c.LogLevel = "loud" }, field: "log_level"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			cfg := config.Default()
			tt.mutate(cfg)

			err := cfg.Validate()
			require.Error(t, err)

			var ce dserrors.ConfigError
			require.ErrorAs(t, err, &ce)
			assert.Equal(t, tt.field, ce.Field)
		})
	}
}

func TestBackendOptions(t *testing.T) {
	t.Parallel()

	cfg := config.Default()
	cfg.SSM.DotsAsPath = true
	cfg.SSM.ParameterPrefix = "/prod"
	cfg.SecretsManager.Prefix = "prod/"

	ssm := backend.NewSSM(nil, cfg.BackendOptions(backend.KindSSM)...)
	assert.Equal(t, "/prod/db/password", ssm.ParameterName("db.password"))

	sm := backend.NewSecretsManager(nil, cfg.BackendOptions(backend.KindSecretsManager)...)
	assert.Equal(t, "prod/db.password", sm.SecretID("db.password"))
}
