// Package config loads the optional YAML configuration file and validates it
// before any request is read.
package config

import (
	"bytes"
	stderrors "errors"
	"io"
	"net/url"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/systmms/vector-aws-secrets/internal/backend"
	dserrors "github.com/systmms/vector-aws-secrets/internal/errors"
	"github.com/systmms/vector-aws-secrets/internal/logging"
)

// PathEnv names the configuration file when --config is not given.
const PathEnv = "VECTOR_AWS_SECRETS_CONFIG"

const (
	DefaultTimeoutMs   = 30000
	DefaultConcurrency = 10
)

// Config holds the runtime configuration
type Config struct {
	Region          string `yaml:"region,omitempty"`
	Profile         string `yaml:"profile,omitempty"`
	EndpointURL     string `yaml:"endpoint_url,omitempty"`
	AssumeRole      string `yaml:"assume_role,omitempty"`
	ExternalID      string `yaml:"external_id,omitempty"`
	RoleSessionName string `yaml:"role_session_name,omitempty"`
	AccessKeyID     string `yaml:"access_key_id,omitempty"`
	SecretAccessKey string `yaml:"secret_access_key,omitempty"`
	MaxAttempts     int    `yaml:"max_attempts,omitempty"`

	TimeoutMs   int    `yaml:"timeout_ms,omitempty"`
	Concurrency int    `yaml:"concurrency,omitempty"`
	LogLevel    string `yaml:"log_level,omitempty"`
	MetricsFile string `yaml:"metrics_file,omitempty"`

	SSM            SSMConfig            `yaml:"ssm,omitempty"`
	SecretsManager SecretsManagerConfig `yaml:"secretsmanager,omitempty"`
}

// SSMConfig holds Parameter Store specific settings
type SSMConfig struct {
	WithDecryption  *bool  `yaml:"with_decryption,omitempty"`
	ParameterPrefix string `yaml:"parameter_prefix,omitempty"`
	DotsAsPath      bool   `yaml:"dots_as_path,omitempty"`
}

// SecretsManagerConfig holds Secrets Manager specific settings
type SecretsManagerConfig struct {
	Prefix     string `yaml:"prefix,omitempty"`
	DotsAsPath bool   `yaml:"dots_as_path,omitempty"`
}

// Default returns a configuration with every default applied.
func Default() *Config {
	c := &Config{}
	c.ApplyDefaults()
	return c
}

// Load reads path and applies defaults. An empty path yields the defaults.
func Load(path string) (*Config, error) {
	if path == "" {
		return Default(), nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, dserrors.ConfigError{
				Field:      "path",
				Value:      path,
				Message:    "configuration file not found",
				Suggestion: "Check the --config flag or " + PathEnv,
			}
		}
		return nil, dserrors.UserError{
			Message:    "Failed to read configuration file",
			Details:    err.Error(),
			Suggestion: "Check file permissions and path",
			Err:        err,
		}
	}

	cfg, err := Parse(data)
	if err != nil {
		return nil, err
	}
	return cfg, nil
}

// Parse decodes YAML configuration. Unknown keys are rejected.
func Parse(data []byte) (*Config, error) {
	var c Config
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&c); err != nil && !stderrors.Is(err, io.EOF) {
		return nil, dserrors.ConfigError{
			Message:    "invalid configuration file: " + err.Error(),
			Suggestion: "Check for indentation errors, misspelled keys, or invalid characters",
		}
	}
	c.ApplyDefaults()
	return &c, nil
}

// ApplyDefaults fills unset fields.
func (c *Config) ApplyDefaults() {
	if c.TimeoutMs == 0 {
		c.TimeoutMs = DefaultTimeoutMs
	}
	if c.Concurrency == 0 {
		c.Concurrency = DefaultConcurrency
	}
	if c.SSM.WithDecryption == nil {
		decrypt := true
		c.SSM.WithDecryption = &decrypt
	}
}

// Validate reports the first invalid setting as a ConfigError.
func (c *Config) Validate() error {
	if c.Concurrency < 1 {
		return dserrors.ConfigError{
			Field:      "concurrency",
			Value:      c.Concurrency,
			Message:    "must be at least 1",
			Suggestion: "Use the default of 10 unless AWS throttles requests",
		}
	}
	if c.TimeoutMs < 0 {
		return dserrors.ConfigError{
			Field:   "timeout_ms",
			Value:   c.TimeoutMs,
			Message: "must not be negative",
		}
	}
	if c.MaxAttempts < 0 {
		return dserrors.ConfigError{
			Field:   "max_attempts",
			Value:   c.MaxAttempts,
			Message: "must not be negative",
		}
	}
	if (c.AccessKeyID == "") != (c.SecretAccessKey == "") {
		return dserrors.ConfigError{
			Field:      "access_key_id",
			Message:    "access_key_id and secret_access_key must be set together",
			Suggestion: "Set both keys, or neither to use the default credential chain",
		}
	}
	if c.ExternalID != "" && c.AssumeRole == "" {
		return dserrors.ConfigError{
			Field:   "external_id",
			Value:   c.ExternalID,
			Message: "external_id requires assume_role",
		}
	}
	if c.EndpointURL != "" {
		u, err := url.Parse(c.EndpointURL)
		if err != nil || u.Scheme == "" || u.Host == "" {
			return dserrors.ConfigError{
				Field:      "endpoint_url",
				Value:      c.EndpointURL,
				Message:    "invalid URL",
				Suggestion: "Use format: http://hostname:port",
			}
		}
	}
	if _, err := logging.ParseLevel(c.LogLevel); err != nil {
		return dserrors.ConfigError{
			Field:      "log_level",
			Value:      c.LogLevel,
			Message:    err.Error(),
			Suggestion: "Use one of: debug, info, warn, error",
		}
	}
	return nil
}

// AWSOptions returns the SDK settings.
func (c *Config) AWSOptions() backend.AWSOptions {
	return backend.AWSOptions{
		Region:          c.Region,
		Profile:         c.Profile,
		EndpointURL:     c.EndpointURL,
		AssumeRole:      c.AssumeRole,
		ExternalID:      c.ExternalID,
		RoleSessionName: c.RoleSessionName,
		AccessKeyID:     c.AccessKeyID,
		SecretAccessKey: c.SecretAccessKey,
		MaxAttempts:     c.MaxAttempts,
	}
}

// BackendOptions returns the store specific options for kind.
func (c *Config) BackendOptions(kind backend.Kind) []backend.Option {
	switch kind {
	case backend.KindSSM:
		decrypt := c.SSM.WithDecryption == nil || *c.SSM.WithDecryption
		return []backend.Option{
			backend.WithDecryption(decrypt),
			backend.WithPrefix(c.SSM.ParameterPrefix),
			backend.WithDotsAsPath(c.SSM.DotsAsPath),
		}
	case backend.KindSecretsManager:
		return []backend.Option{
			backend.WithPrefix(c.SecretsManager.Prefix),
			backend.WithDotsAsPath(c.SecretsManager.DotsAsPath),
		}
	}
	return nil
}
