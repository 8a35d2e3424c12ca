package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"os"
	"time"

	"go.uber.org/zap"

	"github.com/eugenenazirov/config-gateway/internal/backend"
	"github.com/eugenenazirov/config-gateway/internal/environment"
)

type contextKey string

const requestIDContextKey contextKey = "requestID"

const (
	// ParameterName is the only parameter the config route reads.
	ParameterName = "/myapp/config/environment"
	// SecretID is the only secret the secret route reads.
	SecretID = "myapp/database/password"

	sourceParameterStore = "SSM Parameter Store"
	sourceSecretsManager = "Secrets Manager"

	noteCheckInit     = "Make sure LocalStack initialization has run"
	noteExposedSecret = "In production, never expose secrets like this!"
)

// BackendInfo describes where the backends live. It is reported verbatim by
// the info route.
type BackendInfo struct {
	Region   string
	Endpoint string
}

// Handler wires the parameter and secret backends into HTTP handlers.
type Handler struct {
	parameters backend.ParameterStore
	secrets    backend.SecretStore
	info       BackendInfo

	logger         *zap.Logger
	environ        func() []string
	envPrefixes    []string
	backendTimeout time.Duration
}

// HandlerOption configures Handler behaviour.
type HandlerOption func(*Handler)

// WithLogger sets the logger used to report backend failures.
func WithLogger(logger *zap.Logger) HandlerOption {
	return func(h *Handler) {
		h.logger = logger
	}
}

// WithEnviron overrides the environment snapshot source, primarily for tests.
func WithEnviron(environ func() []string) HandlerOption {
	return func(h *Handler) {
		h.environ = environ
	}
}

// WithBackendTimeout bounds each backend call. Zero disables the bound.
func WithBackendTimeout(d time.Duration) HandlerOption {
	return func(h *Handler) {
		h.backendTimeout = d
	}
}

// NewHandler constructs a Handler with the provided dependencies.
func NewHandler(params backend.ParameterStore, secrets backend.SecretStore, info BackendInfo, opts ...HandlerOption) *Handler {
	h := &Handler{
		parameters:  params,
		secrets:     secrets,
		info:        info,
		logger:      zap.NewNop(),
		environ:     os.Environ,
		envPrefixes: environment.DefaultPrefixes,
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

func (h *Handler) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, healthResponse{Status: "healthy"})
}

func (h *Handler) handleIndex(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, indexResponse{
		Message:     "Hello from ECS prototype!",
		Environment: "local-development",
		Endpoints:   endpointDescriptions(),
	})
}

func (h *Handler) handleConfig(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := h.backendContext(r.Context())
	defer cancel()

	param, err := h.parameters.GetParameter(ctx, ParameterName, true)
	if err != nil {
		h.logBackendError(r.Context(), "parameter lookup failed", ParameterName, err)
		writeError(w, http.StatusNotFound, "Parameter not found or error accessing SSM", err.Error(), noteCheckInit)
		return
	}

	writeJSON(w, http.StatusOK, configResponse{
		Source:    sourceParameterStore,
		Parameter: param.Name,
		Value:     param.Value,
		Type:      param.Type,
	})
}

func (h *Handler) handleSecret(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := h.backendContext(r.Context())
	defer cancel()

	secret, err := h.secrets.GetSecret(ctx, SecretID)
	if err != nil {
		h.logBackendError(r.Context(), "secret lookup failed", SecretID, err)
		writeError(w, http.StatusNotFound, "Secret not found or error accessing Secrets Manager", err.Error(), noteCheckInit)
		return
	}

	writeJSON(w, http.StatusOK, secretResponse{
		Source:      sourceSecretsManager,
		SecretName:  secret.Name,
		SecretValue: secret.Value,
		Note:        noteExposedSecret,
	})
}

func (h *Handler) handleInfo(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, infoResponse{
		AWSRegion:            h.info.Region,
		AWSEndpoint:          h.info.Endpoint,
		EnvironmentVariables: environment.FilterByPrefix(h.environ(), h.envPrefixes...),
	})
}

func (h *Handler) backendContext(ctx context.Context) (context.Context, context.CancelFunc) {
	if h.backendTimeout > 0 {
		return context.WithTimeout(ctx, h.backendTimeout)
	}
	return ctx, func() {}
}

func (h *Handler) logBackendError(ctx context.Context, msg, key string, err error) {
	fields := []zap.Field{
		zap.String("key", key),
		zap.Bool("not_found", backend.IsNotFound(err)),
		zap.String("request_id", requestIDFromContext(ctx)),
		zap.Error(err),
	}
	var ce *backend.ClientError
	if errors.As(err, &ce) {
		fields = append(fields, zap.String("operation", ce.Operation), zap.String("code", ce.Code))
	}
	h.logger.Warn(msg, fields...)
}

func endpointDescriptions() map[string]string {
	return map[string]string{
		"/health": "Health check",
		"/config": "Get configuration from Parameter Store",
		"/secret": "Get secret from Secrets Manager",
		"/info":   "Get environment info",
	}
}

func requestIDFromContext(ctx context.Context) string {
	if v := ctx.Value(requestIDContextKey); v != nil {
		if id, ok := v.(string); ok {
			return id
		}
	}
	return ""
}

type healthResponse struct {
	Status string `json:"status"`
}

type indexResponse struct {
	Message     string            `json:"message"`
	Environment string            `json:"environment"`
	Endpoints   map[string]string `json:"endpoints"`
}

type configResponse struct {
	Source    string `json:"source"`
	Parameter string `json:"parameter"`
	Value     string `json:"value"`
	Type      string `json:"type"`
}

type secretResponse struct {
	Source      string `json:"source"`
	SecretName  string `json:"secret_name"`
	SecretValue string `json:"secret_value"`
	Note        string `json:"note"`
}

type infoResponse struct {
	AWSRegion            string            `json:"aws_region"`
	AWSEndpoint          string            `json:"aws_endpoint"`
	EnvironmentVariables map[string]string `json:"environment_variables"`
}

type errorResponse struct {
	Error   string `json:"error"`
	Details string `json:"details,omitempty"`
	Note    string `json:"note,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	if status != 0 {
		w.WriteHeader(status)
	}
	_ = json.NewEncoder(w).Encode(payload)
}

func writeError(w http.ResponseWriter, status int, message, details string, note ...string) {
	resp := errorResponse{
		Error:   message,
		Details: details,
	}
	if len(note) > 0 {
		resp.Note = note[0]
	}
	writeJSON(w, status, resp)
}

func writeInternalError(w http.ResponseWriter, err error) {
	writeError(w, http.StatusInternalServerError, "Internal error", err.Error())
}
