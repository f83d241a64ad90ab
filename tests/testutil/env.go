package testutil

import (
	"path/filepath"
	"testing"
)

// awsEnvVars are cleared by IsolateAWSEnv.
var awsEnvVars = []string{
	"AWS_REGION",
	"AWS_DEFAULT_REGION",
	"AWS_PROFILE",
	"AWS_ACCESS_KEY_ID",
	"AWS_SECRET_ACCESS_KEY",
	"AWS_SESSION_TOKEN",
	"AWS_ROLE_ARN",
	"AWS_WEB_IDENTITY_TOKEN_FILE",
	"AWS_ENDPOINT_URL",
}

// IsolateAWSEnv keeps the host's AWS environment and shared config files out
// of a test. Values are restored when the test completes.
//
// It uses t.Setenv, so the calling test must not be parallel.
func IsolateAWSEnv(t *testing.T) {
	t.Helper()

	dir := t.TempDir()
	t.Setenv("AWS_CONFIG_FILE", filepath.Join(dir, "config"))
	t.Setenv("AWS_SHARED_CREDENTIALS_FILE", filepath.Join(dir, "credentials"))
	for _, key := range awsEnvVars {
		t.Setenv(key, "")
	}
}

// SetupTestEnv sets environment variables for the duration of a test.
//
// Example usage:
//
//	SetupTestEnv(t, map[string]string{
//	    "AWS_REGION": "us-east-1",
//	})
func SetupTestEnv(t *testing.T, vars map[string]string) {
	t.Helper()
	for key, value := range vars {
		t.Setenv(key, value)
	}
}
