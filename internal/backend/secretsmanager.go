package backend

import (
	"context"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/secretsmanager"
)

const opGetSecretValue = "GetSecretValue"

type secretsManagerAPI interface {
	GetSecretValue(ctx context.Context, params *secretsmanager.GetSecretValueInput, optFns ...func(*secretsmanager.Options)) (*secretsmanager.GetSecretValueOutput, error)
}

// SecretsManagerStore reads secret values from Secrets Manager.
type SecretsManagerStore struct {
	client secretsManagerAPI
}

// NewSecretsManagerStore creates a Secrets Manager client bound to the configured endpoint.
func NewSecretsManagerStore(cfg aws.Config, s Settings) *SecretsManagerStore {
	client := secretsmanager.NewFromConfig(cfg, func(o *secretsmanager.Options) {
		o.Region = s.Region
		if endpoint, plain := endpointOverride(s.Endpoint); endpoint != nil {
			o.BaseEndpoint = endpoint
			o.EndpointOptions.DisableHTTPS = plain
		}
	})
	return &SecretsManagerStore{client: client}
}

// GetSecret fetches the current string value of the secret identified by id.
// Binary-only secrets are reported as ErrEmptyResponse.
func (s *SecretsManagerStore) GetSecret(ctx context.Context, id string) (Secret, error) {
	out, err := s.client.GetSecretValue(ctx, &secretsmanager.GetSecretValueInput{
		SecretId: aws.String(id),
	})
	if err != nil {
		return Secret{}, newClientError(opGetSecretValue, err)
	}
	if out == nil || out.SecretString == nil {
		return Secret{}, newClientError(opGetSecretValue, ErrEmptyResponse)
	}

	return Secret{
		Name:  aws.ToString(out.Name),
		Value: aws.ToString(out.SecretString),
	}, nil
}
