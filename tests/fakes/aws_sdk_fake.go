package fakes

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/secretsmanager"
	smtypes "github.com/aws/aws-sdk-go-v2/service/secretsmanager/types"
	"github.com/aws/aws-sdk-go-v2/service/ssm"
	ssmtypes "github.com/aws/aws-sdk-go-v2/service/ssm/types"
)

// callLog records calls per name and tracks concurrency.
type callLog struct {
	mu          sync.Mutex
	calls       map[string]int
	decrypt     map[string]bool
	inFlight    int
	maxInFlight int
}

func (c *callLog) enter(name string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.calls == nil {
		c.calls = make(map[string]int)
	}
	c.calls[name]++
	c.inFlight++
	if c.inFlight > c.maxInFlight {
		c.maxInFlight = c.inFlight
	}
}

func (c *callLog) leave() {
	c.mu.Lock()
	c.inFlight--
	c.mu.Unlock()
}

// Calls returns how many times name was requested.
func (c *callLog) Calls(name string) int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.calls[name]
}

// TotalCalls returns the number of requests across all names.
func (c *callLog) TotalCalls() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	total := 0
	for _, n := range c.calls {
		total += n
	}
	return total
}

// MaxInFlight returns the highest number of concurrent requests observed.
func (c *callLog) MaxInFlight() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.maxInFlight
}

func wait(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return nil
	}
	select {
	case <-time.After(d):
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// FakeSSMClient is a mock implementation of the SSM GetParameter API.
//
// Populate it before use; lookups are safe for concurrent callers.
type FakeSSMClient struct {
	callLog

	// Parameters maps parameter names to their values
	Parameters map[string]string
	// Errors maps parameter names to errors to return
	Errors map[string]error
	// Delay is applied to every call, honoring context cancellation
	Delay time.Duration
	// GetParameterFunc allows custom behavior for GetParameter
	GetParameterFunc func(ctx context.Context, params *ssm.GetParameterInput) (*ssm.GetParameterOutput, error)
}

// NewFakeSSMClient creates a new mock SSM client
func NewFakeSSMClient() *FakeSSMClient {
	return &FakeSSMClient{
		Parameters: make(map[string]string),
		Errors:     make(map[string]error),
	}
}

// AddParameter adds a parameter to the mock client
func (f *FakeSSMClient) AddParameter(name, value string) {
	f.Parameters[name] = value
}

// AddError configures the mock to return an error for a specific parameter
func (f *FakeSSMClient) AddError(name string, err error) {
	f.Errors[name] = err
}

// Decrypted reports whether the last request for name asked for decryption.
func (f *FakeSSMClient) Decrypted(name string) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.decrypt[name]
}

// GetParameter mocks the GetParameter operation
func (f *FakeSSMClient) GetParameter(ctx context.Context, params *ssm.GetParameterInput, optFns ...func(*ssm.Options)) (*ssm.GetParameterOutput, error) {
	name := aws.ToString(params.Name)
	f.enter(name)
	defer f.leave()

	f.mu.Lock()
	if f.decrypt == nil {
		f.decrypt = make(map[string]bool)
	}
	f.decrypt[name] = aws.ToBool(params.WithDecryption)
	f.mu.Unlock()

	if err := wait(ctx, f.Delay); err != nil {
		return nil, err
	}

	if f.GetParameterFunc != nil {
		return f.GetParameterFunc(ctx, params)
	}

	if err, exists := f.Errors[name]; exists {
		return nil, err
	}

	value, exists := f.Parameters[name]
	if !exists {
		return nil, &ssmtypes.ParameterNotFound{
			Message: aws.String(fmt.Sprintf("Parameter %s not found.", name)),
		}
	}

	return &ssm.GetParameterOutput{
		Parameter: &ssmtypes.Parameter{
			Name:    aws.String(name),
			Value:   aws.String(value),
			Type:    ssmtypes.ParameterTypeSecureString,
			Version: 1,
			ARN:     aws.String(fmt.Sprintf("arn:aws:ssm:us-east-1:123456789012:parameter/%s", name)),
		},
	}, nil
}

// SecretData holds the data for a mock secret
type SecretData struct {
	SecretString *string
	SecretBinary []byte
	VersionId    *string
	CreatedDate  *time.Time
}

// FakeSecretsManagerClient is a mock implementation of the Secrets Manager GetSecretValue API.
type FakeSecretsManagerClient struct {
	callLog

	// Secrets maps secret names to their data
	Secrets map[string]*SecretData
	// Errors maps secret names to errors to return
	Errors map[string]error
	// Delay is applied to every call, honoring context cancellation
	Delay time.Duration
	// GetSecretValueFunc allows custom behavior for GetSecretValue
	GetSecretValueFunc func(ctx context.Context, params *secretsmanager.GetSecretValueInput) (*secretsmanager.GetSecretValueOutput, error)
}

// NewFakeSecretsManagerClient creates a new mock Secrets Manager client
func NewFakeSecretsManagerClient() *FakeSecretsManagerClient {
	return &FakeSecretsManagerClient{
		Secrets: make(map[string]*SecretData),
		Errors:  make(map[string]error),
	}
}

// AddSecretString adds a string secret to the mock client
func (f *FakeSecretsManagerClient) AddSecretString(name, value string) {
	now := time.Now()
	f.Secrets[name] = &SecretData{
		SecretString: aws.String(value),
		VersionId:    aws.String("v1-abc123"),
		CreatedDate:  &now,
	}
}

// AddSecretBinary adds a binary secret to the mock client
func (f *FakeSecretsManagerClient) AddSecretBinary(name string, value []byte) {
	now := time.Now()
	f.Secrets[name] = &SecretData{
		SecretBinary: value,
		VersionId:    aws.String("v1-abc123"),
		CreatedDate:  &now,
	}
}

// AddError configures the mock to return an error for a specific secret
func (f *FakeSecretsManagerClient) AddError(name string, err error) {
	f.Errors[name] = err
}

// GetSecretValue mocks the GetSecretValue operation
func (f *FakeSecretsManagerClient) GetSecretValue(ctx context.Context, params *secretsmanager.GetSecretValueInput, optFns ...func(*secretsmanager.Options)) (*secretsmanager.GetSecretValueOutput, error) {
	secretName := aws.ToString(params.SecretId)
	f.enter(secretName)
	defer f.leave()

	if err := wait(ctx, f.Delay); err != nil {
		return nil, err
	}

	if f.GetSecretValueFunc != nil {
		return f.GetSecretValueFunc(ctx, params)
	}

	if err, exists := f.Errors[secretName]; exists {
		return nil, err
	}

	data, exists := f.Secrets[secretName]
	if !exists {
		return nil, &smtypes.ResourceNotFoundException{
			Message: aws.String(fmt.Sprintf("Secrets Manager can't find the specified secret: %s", secretName)),
		}
	}

	return &secretsmanager.GetSecretValueOutput{
		ARN:           aws.String(fmt.Sprintf("arn:aws:secretsmanager:us-east-1:123456789012:secret:%s", secretName)),
		Name:          params.SecretId,
		SecretString:  data.SecretString,
		SecretBinary:  data.SecretBinary,
		VersionId:     data.VersionId,
		VersionStages: []string{"AWSCURRENT"},
		CreatedDate:   data.CreatedDate,
	}, nil
}
