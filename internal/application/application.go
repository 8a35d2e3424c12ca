package application

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"go.uber.org/zap"

	"github.com/eugenenazirov/config-gateway/internal/api"
	"github.com/eugenenazirov/config-gateway/internal/backend"
	"github.com/eugenenazirov/config-gateway/internal/config"
)

// App encapsulates the application dependencies and HTTP server.
type App struct {
	parameters backend.ParameterStore
	secrets    backend.SecretStore
	handler    *api.Handler
	router     http.Handler
	logger     *zap.Logger
	server     *http.Server
}

// New initializes the application with all dependencies from the provided configuration.
func New(ctx context.Context, cfg config.Config, logger *zap.Logger) (*App, error) {
	settings := BackendSettings(cfg)
	awsCfg, err := backend.LoadAWSConfig(ctx, settings)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize backend clients: %w", err)
	}

	params := backend.NewSSMStore(awsCfg, settings)
	secrets := backend.NewSecretsManagerStore(awsCfg, settings)

	handler := api.NewHandler(params, secrets,
		api.BackendInfo{Region: cfg.AWS.Region, Endpoint: cfg.AWS.Endpoint},
		api.WithLogger(logger),
		api.WithBackendTimeout(cfg.BackendTimeout),
	)
	router := api.NewRouter(handler, logger,
		api.WithLogging(cfg.EnableRequestLogging),
		api.WithRateLimit(cfg.RateLimitRPS, cfg.RateLimitBurst),
		api.WithDebug(cfg.Debug),
	)

	logger.Info("backend clients configured",
		zap.String("endpoint", settings.Endpoint),
		zap.String("region", settings.Region),
		zap.Bool("debug", cfg.Debug),
	)

	return &App{
		parameters: params,
		secrets:    secrets,
		handler:    handler,
		router:     router,
		logger:     logger,
		server:     NewServer(cfg, router),
	}, nil
}

// BackendSettings extracts the immutable backend settings from cfg.
func BackendSettings(cfg config.Config) backend.Settings {
	return backend.Settings{
		Endpoint:        cfg.AWS.Endpoint,
		Region:          cfg.AWS.Region,
		AccessKeyID:     cfg.AWS.AccessKeyID,
		SecretAccessKey: cfg.AWS.SecretAccessKey,
	}
}

// NewServer creates and configures an HTTP server from the provided configuration.
func NewServer(cfg config.Config, handler http.Handler) *http.Server {
	return &http.Server{
		Addr:              cfg.Address(),
		Handler:           handler,
		ReadHeaderTimeout: cfg.ReadHeaderTimeout,
		WriteTimeout:      cfg.WriteTimeout,
		IdleTimeout:       cfg.IdleTimeout,
	}
}

// Start starts the HTTP server in a goroutine and logs the listening address.
func (a *App) Start() error {
	go func() {
		a.logger.Info("server listening", zap.String("addr", a.server.Addr))
		if err := a.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			a.logger.Fatal("server error", zap.Error(err))
		}
	}()
	return nil
}

// Server returns the HTTP server instance for shutdown handling.
func (a *App) Server() *http.Server {
	return a.server
}
