package backend

import (
	"errors"

	"github.com/aws/smithy-go"
)

var (
	// ErrEmptyResponse is returned when the backend answers without the requested payload.
	ErrEmptyResponse = errors.New("backend returned an empty response")
)

// ClientError describes a failed backend call. Not-found, auth, network and
// malformed-request failures all surface as a ClientError.
type ClientError struct {
	Operation string
	Code      string
	Err       error
}

func (e *ClientError) Error() string {
	if e.Err == nil {
		return e.Operation + ": unknown error"
	}
	return e.Err.Error()
}

func (e *ClientError) Unwrap() error {
	return e.Err
}

func newClientError(operation string, err error) *ClientError {
	ce := &ClientError{Operation: operation, Err: err}
	var apiErr smithy.APIError
	if errors.As(err, &apiErr) {
		ce.Code = apiErr.ErrorCode()
	}
	return ce
}

var notFoundCodes = map[string]struct{}{
	"ParameterNotFound":         {},
	"ParameterVersionNotFound":  {},
	"ResourceNotFoundException": {},
}

// IsNotFound reports whether err is a ClientError for a missing parameter or secret.
func IsNotFound(err error) bool {
	var ce *ClientError
	if !errors.As(err, &ce) {
		return false
	}
	_, ok := notFoundCodes[ce.Code]
	return ok
}
