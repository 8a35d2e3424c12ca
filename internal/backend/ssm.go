package backend

import (
	"context"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/ssm"
)

const opGetParameter = "GetParameter"

type ssmAPI interface {
	GetParameter(ctx context.Context, params *ssm.GetParameterInput, optFns ...func(*ssm.Options)) (*ssm.GetParameterOutput, error)
}

// SSMStore reads parameters from SSM Parameter Store.
type SSMStore struct {
	client ssmAPI
}

// NewSSMStore creates a Parameter Store client bound to the configured endpoint.
func NewSSMStore(cfg aws.Config, s Settings) *SSMStore {
	client := ssm.NewFromConfig(cfg, func(o *ssm.Options) {
		o.Region = s.Region
		if endpoint, plain := endpointOverride(s.Endpoint); endpoint != nil {
			o.BaseEndpoint = endpoint
			o.EndpointOptions.DisableHTTPS = plain
		}
	})
	return &SSMStore{client: client}
}

// GetParameter fetches a single parameter, optionally decrypting SecureString values.
func (s *SSMStore) GetParameter(ctx context.Context, name string, withDecryption bool) (Parameter, error) {
	out, err := s.client.GetParameter(ctx, &ssm.GetParameterInput{
		Name:           aws.String(name),
		WithDecryption: aws.Bool(withDecryption),
	})
	if err != nil {
		return Parameter{}, newClientError(opGetParameter, err)
	}
	if out == nil || out.Parameter == nil {
		return Parameter{}, newClientError(opGetParameter, ErrEmptyResponse)
	}

	p := out.Parameter
	return Parameter{
		Name:  aws.ToString(p.Name),
		Value: aws.ToString(p.Value),
		Type:  string(p.Type),
	}, nil
}
