package backend

import (
	"context"
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/credentials/stscreds"
	"github.com/aws/aws-sdk-go-v2/service/secretsmanager"
	"github.com/aws/aws-sdk-go-v2/service/ssm"
	"github.com/aws/aws-sdk-go-v2/service/sts"
	"github.com/systmms/vector-aws-secrets/internal/errors"
)

// AWSOptions selects region, credentials and endpoint for the SDK clients.
// Zero values fall through to the standard AWS environment and shared config.
type AWSOptions struct {
	Region          string
	Profile         string
	EndpointURL     string // Optional custom endpoint for LocalStack or testing
	AssumeRole      string
	ExternalID      string
	RoleSessionName string
	AccessKeyID     string
	SecretAccessKey string
	MaxAttempts     int
}

// LoadAWSConfig resolves an aws.Config from the standard credential chain,
// then applies the explicit overrides in o.
func LoadAWSConfig(ctx context.Context, o AWSOptions) (aws.Config, error) {
	var configOpts []func(*awsconfig.LoadOptions) error

	if o.Region != "" {
		configOpts = append(configOpts, awsconfig.WithRegion(o.Region))
	}
	if o.Profile != "" {
		configOpts = append(configOpts, awsconfig.WithSharedConfigProfile(o.Profile))
	}
	if o.AccessKeyID != "" && o.SecretAccessKey != "" {
		configOpts = append(configOpts, awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(o.AccessKeyID, o.SecretAccessKey, ""),
		))
	}
	if o.MaxAttempts > 0 {
		configOpts = append(configOpts, awsconfig.WithRetryMaxAttempts(o.MaxAttempts))
	}

	cfg, err := awsconfig.LoadDefaultConfig(ctx, configOpts...)
	if err != nil {
		return aws.Config{}, errors.UserError{
			Message:    "Failed to load AWS configuration",
			Details:    err.Error(),
			Suggestion: "Check AWS_PROFILE and the shared config files (~/.aws/config, ~/.aws/credentials)",
			Err:        err,
		}
	}

	if cfg.Region == "" {
		return aws.Config{}, errors.ConfigError{
			Field:      "region",
			Message:    "no AWS region configured",
			Suggestion: "Set --region, AWS_REGION, or a region in the selected profile",
		}
	}

	if o.AssumeRole != "" {
		stsClient := sts.NewFromConfig(cfg, func(so *sts.Options) {
			if o.EndpointURL != "" {
				so.BaseEndpoint = aws.String(o.EndpointURL)
			}
		})
		sessionName := o.RoleSessionName
		if sessionName == "" {
			sessionName = fmt.Sprintf("vector-aws-secrets-%d", time.Now().Unix())
		}
		provider := stscreds.NewAssumeRoleProvider(stsClient, o.AssumeRole, func(ao *stscreds.AssumeRoleOptions) {
			ao.RoleSessionName = sessionName
			if o.ExternalID != "" {
				ao.ExternalID = aws.String(o.ExternalID)
			}
		})
		cfg.Credentials = aws.NewCredentialsCache(provider)
	}

	return cfg, nil
}

// NewSSMClient creates a Parameter Store client, optionally pinned to endpoint.
func NewSSMClient(cfg aws.Config, endpoint string) *ssm.Client {
	return ssm.NewFromConfig(cfg, func(o *ssm.Options) {
		if endpoint != "" {
			o.BaseEndpoint = aws.String(endpoint)
		}
	})
}

// NewSecretsManagerClient creates a Secrets Manager client, optionally pinned to endpoint.
func NewSecretsManagerClient(cfg aws.Config, endpoint string) *secretsmanager.Client {
	return secretsmanager.NewFromConfig(cfg, func(o *secretsmanager.Options) {
		if endpoint != "" {
			o.BaseEndpoint = aws.String(endpoint)
		}
	})
}
