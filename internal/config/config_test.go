package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var configEnvVars = []string{
	"HOST", "PORT", "DEBUG",
	"SHUTDOWN_GRACE_PERIOD", "READ_HEADER_TIMEOUT", "WRITE_TIMEOUT", "IDLE_TIMEOUT",
	"ENABLE_REQUEST_LOGGING", "RATE_LIMIT_RPS", "RATE_LIMIT_BURST", "BACKEND_TIMEOUT",
	"AWS_ENDPOINT_URL", "AWS_DEFAULT_REGION", "AWS_ACCESS_KEY_ID", "AWS_SECRET_ACCESS_KEY",
}

func clearConfigEnv(t *testing.T) {
	t.Helper()
	for _, name := range configEnvVars {
		t.Setenv(name, "")
	}
}

func writeYAML(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestLoadDefaults(t *testing.T) {
	clearConfigEnv(t)

	cfg, err := Load(nil)
	require.NoError(t, err)

	assert.Equal(t, defaultPort, cfg.Port)
	assert.Equal(t, "0.0.0.0:8080", cfg.Address())
	assert.False(t, cfg.Debug)
	assert.True(t, cfg.EnableRequestLogging)
	assert.Equal(t, 10*time.Second, cfg.ShutdownGracePeriod)
	assert.Zero(t, cfg.BackendTimeout)
	assert.Zero(t, cfg.RateLimitRPS)
	assert.Equal(t, AWS{
		Endpoint:        "http://localstack:4566",
		Region:          "us-east-1",
		AccessKeyID:     "test",
		SecretAccessKey: "test",
	}, cfg.AWS)
}

func TestLoadEnvOverrides(t *testing.T) {
	clearConfigEnv(t)
	t.Setenv("PORT", "9000")
	t.Setenv("DEBUG", "true")
	t.Setenv("BACKEND_TIMEOUT", "3s")
	t.Setenv("AWS_ENDPOINT_URL", "http://127.0.0.1:4566")
	t.Setenv("AWS_DEFAULT_REGION", "eu-central-1")
	t.Setenv("AWS_ACCESS_KEY_ID", "AKIAEXAMPLE")
	t.Setenv("AWS_SECRET_ACCESS_KEY", "example-secret")

	cfg, err := Load(nil)
	require.NoError(t, err)

	assert.Equal(t, "9000", cfg.Port)
	assert.True(t, cfg.Debug)
	assert.Equal(t, 3*time.Second, cfg.BackendTimeout)
	assert.Equal(t, "http://127.0.0.1:4566", cfg.AWS.Endpoint)
	assert.Equal(t, "eu-central-1", cfg.AWS.Region)
	assert.Equal(t, "AKIAEXAMPLE", cfg.AWS.AccessKeyID)
	assert.Equal(t, "example-secret", cfg.AWS.SecretAccessKey)
}

func TestLoadRejectsMalformedEnv(t *testing.T) {
	clearConfigEnv(t)
	t.Setenv("RATE_LIMIT_BURST", "lots")

	_, err := Load(nil)
	assert.Error(t, err)
}

func TestLoadYAMLThenEnvThenCLI(t *testing.T) {
	clearConfigEnv(t)
	path := writeYAML(t, `
port: "7000"
debug: true
enable_request_logging: false
backend_timeout: 2s
rate_limit:
  rps: 5
  burst: 10
aws:
  endpoint: http://yaml-endpoint:4566
  region: ap-south-1
`)
	t.Setenv("AWS_DEFAULT_REGION", "us-west-2")

	port := "7100"
	debug := false
	cfg, err := Load(&CLIOverrides{ConfigFile: path, Port: &port, Debug: &debug})
	require.NoError(t, err)

	assert.Equal(t, "7100", cfg.Port, "CLI beats YAML")
	assert.False(t, cfg.Debug, "CLI beats YAML")
	assert.False(t, cfg.EnableRequestLogging)
	assert.Equal(t, 2*time.Second, cfg.BackendTimeout)
	assert.Equal(t, 5.0, cfg.RateLimitRPS)
	assert.Equal(t, 10, cfg.RateLimitBurst)
	assert.Equal(t, "http://yaml-endpoint:4566", cfg.AWS.Endpoint)
	assert.Equal(t, "us-west-2", cfg.AWS.Region, "env beats YAML")
	assert.Equal(t, "test", cfg.AWS.AccessKeyID, "defaults survive")
}

func TestLoadYAMLErrors(t *testing.T) {
	clearConfigEnv(t)

	t.Run("missing file", func(t *testing.T) {
		_, err := Load(&CLIOverrides{ConfigFile: filepath.Join(t.TempDir(), "absent.yaml")})
		assert.Error(t, err)
	})

	t.Run("invalid duration", func(t *testing.T) {
		path := writeYAML(t, "write_timeout: soon\n")
		_, err := Load(&CLIOverrides{ConfigFile: path})
		assert.ErrorContains(t, err, "write_timeout")
	})

	t.Run("invalid yaml", func(t *testing.T) {
		path := writeYAML(t, "port: [\n")
		_, err := Load(&CLIOverrides{ConfigFile: path})
		assert.Error(t, err)
	})
}

func TestValidateConfig(t *testing.T) {
	t.Run("negative rate limit", func(t *testing.T) {
		cfg := defaultConfig()
		cfg.RateLimitRPS = -1
		assert.Error(t, validateConfig(cfg))
	})

	t.Run("negative backend timeout", func(t *testing.T) {
		cfg := defaultConfig()
		cfg.BackendTimeout = -time.Second
		assert.Error(t, validateConfig(cfg))
	})

	t.Run("empty region", func(t *testing.T) {
		cfg := defaultConfig()
		cfg.AWS.Region = " "
		assert.Error(t, validateConfig(cfg))
	})

	t.Run("defaults are valid", func(t *testing.T) {
		assert.NoError(t, validateConfig(defaultConfig()))
	})
}

func TestAddress(t *testing.T) {
	cfg := defaultConfig()
	cfg.Host = "127.0.0.1"
	cfg.Port = "9090"
	assert.Equal(t, "127.0.0.1:9090", cfg.Address())

	cfg.Port = ":9191"
	assert.Equal(t, ":9191", cfg.Address())
}
