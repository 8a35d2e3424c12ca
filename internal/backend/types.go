package backend

import "context"

// Parameter is a single Parameter Store record as returned by the backend.
type Parameter struct {
	Name  string
	Value string
	Type  string
}

// Secret is the current value of a Secrets Manager secret.
type Secret struct {
	Name  string
	Value string
}

// ParameterStore reads parameters by name.
type ParameterStore interface {
	GetParameter(ctx context.Context, name string, withDecryption bool) (Parameter, error)
}

// SecretStore reads secret values by identifier.
type SecretStore interface {
	GetSecret(ctx context.Context, id string) (Secret, error)
}
