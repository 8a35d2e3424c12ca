package backend

import (
	"context"
	"fmt"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
)

// Settings holds the endpoint, region and credentials shared by both backends.
// It is resolved once at startup and never mutated.
type Settings struct {
	Endpoint        string
	Region          string
	AccessKeyID     string
	SecretAccessKey string
}

// LoadAWSConfig builds the shared SDK configuration. Retries are disabled so
// that every route performs exactly one backend call.
func LoadAWSConfig(ctx context.Context, s Settings) (aws.Config, error) {
	opts := []func(*config.LoadOptions) error{
		config.WithRegion(s.Region),
		config.WithRetryMaxAttempts(1),
	}

	if s.AccessKeyID != "" && s.SecretAccessKey != "" {
		creds := credentials.NewStaticCredentialsProvider(s.AccessKeyID, s.SecretAccessKey, "")
		opts = append(opts, config.WithCredentialsProvider(creds))
	}

	cfg, err := config.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return aws.Config{}, fmt.Errorf("failed to load AWS config: %w", err)
	}
	return cfg, nil
}

// endpointOverride returns the base endpoint and whether HTTPS must be
// disabled for it. An empty endpoint keeps the SDK's regional resolution.
func endpointOverride(endpoint string) (*string, bool) {
	if endpoint == "" {
		return nil, false
	}
	return aws.String(endpoint), strings.HasPrefix(endpoint, "http://")
}
