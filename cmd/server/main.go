package main

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/alecthomas/kingpin/v2"
	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"github.com/eugenenazirov/config-gateway/internal/application"
	"github.com/eugenenazirov/config-gateway/internal/config"
	"github.com/eugenenazirov/config-gateway/internal/logging"
)

var signalNotify = signal.Notify

func main() {
	kingpinApp := kingpin.New("config-gateway", "Config/Secret Gateway - serves parameters and secrets from SSM and Secrets Manager")
	configFile := kingpinApp.Flag("config", "Path to YAML configuration file").String()
	envFile := kingpinApp.Flag("env-file", "Path to an optional .env file loaded before configuration").Default(".env").String()
	host := kingpinApp.Flag("host", "Interface the HTTP server binds to").String()
	port := kingpinApp.Flag("port", "HTTP port exposed by the service").String()
	var debugSet bool
	debug := kingpinApp.Flag("debug", "Enable debug logging and detailed panic responses").IsSetByUser(&debugSet).Bool()
	rateLimitRPSFlag := kingpinApp.Flag("rate-limit-rps", "Requests per second allowed (set 0 to disable)").Default("-1").Float64()
	rateLimitBurstFlag := kingpinApp.Flag("rate-limit-burst", "Burst capacity for rate limiter (set 0 to disable)").Default("-1").Int()

	kingpin.MustParse(kingpinApp.Parse(os.Args[1:]))

	if err := loadDotEnv(*envFile); err != nil {
		panic(fmt.Sprintf("failed to load env file: %v", err))
	}

	overrides := &config.CLIOverrides{
		ConfigFile: *configFile,
	}

	if *host != "" {
		overrides.Host = host
	}

	if *port != "" {
		overrides.Port = port
	}

	if debugSet {
		overrides.Debug = debug
	}

	if *rateLimitRPSFlag >= 0 {
		overrides.RateLimitRPS = rateLimitRPSFlag
	}

	if *rateLimitBurstFlag >= 0 {
		overrides.RateLimitBurst = rateLimitBurstFlag
	}

	cfg, err := config.Load(overrides)
	if err != nil {
		panic(fmt.Sprintf("failed to load configuration: %v", err))
	}

	logger, err := logging.New(cfg.Debug)
	if err != nil {
		panic(fmt.Sprintf("failed to initialize logger: %v", err))
	}
	defer func() {
		_ = logger.Sync()
	}()

	app, err := application.New(context.Background(), cfg, logger)
	if err != nil {
		logger.Fatal("failed to initialize application", zap.Error(err))
	}

	if err := app.Start(); err != nil {
		logger.Fatal("failed to start server", zap.Error(err))
	}

	shutdown(app.Server(), cfg.ShutdownGracePeriod, logger)
}

// loadDotEnv populates the process environment from path. A missing file is
// not an error and variables already set are left untouched.
func loadDotEnv(path string) error {
	if path == "" {
		return nil
	}
	if err := godotenv.Load(path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return err
	}
	return nil
}

func shutdown(server *http.Server, timeout time.Duration, logger *zap.Logger) {
	quit := make(chan os.Signal, 1)
	signalNotify(quit, os.Interrupt, syscall.SIGINT, syscall.SIGTERM)

	<-quit
	logger.Info("shutting down server")

	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		logger.Warn("graceful shutdown failed", zap.Error(err))
		if closeErr := server.Close(); closeErr != nil {
			logger.Error("forced close failed", zap.Error(closeErr))
		}
	}
}
