// Package config loads runtime configuration from multiple sources (YAML files,
// environment variables, CLI flags) with precedence: CLI flags > Environment
// variables > YAML config > Defaults. Backend endpoint, region and credentials
// are read from the standard AWS_* variables and default to LocalStack values.
package config
