// Package config handles configuration for the item service.
package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"
)

// Config is the root configuration for the service.
type Config struct {
	Server        ServerConfig        `yaml:"server"`
	Database      DatabaseConfig      `yaml:"database"`
	Observability ObservabilityConfig `yaml:"observability"`
	Startup       StartupConfig       `yaml:"startup"`
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Address      string        `yaml:"address"`
	Port         int           `yaml:"port"`
	ReadTimeout  time.Duration `yaml:"readTimeout"`
	WriteTimeout time.Duration `yaml:"writeTimeout"`
	IdleTimeout  time.Duration `yaml:"idleTimeout"`
}

// DatabaseConfig holds relational store connection parameters.
type DatabaseConfig struct {
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	User     string `yaml:"user"`
	Password string `yaml:"password"`
	Name     string `yaml:"name"`
	SSLMode  string `yaml:"sslMode"`
	MaxConns int32  `yaml:"maxConns"`
}

// ObservabilityConfig holds logging, tracing, and metrics settings.
type ObservabilityConfig struct {
	ServiceName       string  `yaml:"serviceName"`
	ServiceVersion    string  `yaml:"serviceVersion"`
	Environment       string  `yaml:"environment"`
	LogLevel          string  `yaml:"logLevel"`
	LogFormat         string  `yaml:"logFormat"`
	TracingEnabled    bool    `yaml:"tracingEnabled"`
	OTLPEndpoint      string  `yaml:"otlpEndpoint"`
	TracingSampleRate float64 `yaml:"tracingSampleRate"`
	TracingInsecure   bool    `yaml:"tracingInsecure"`
	MetricsEnabled    bool    `yaml:"metricsEnabled"`
}

// StartupConfig bounds the schema-initialization retry loop.
type StartupConfig struct {
	MaxAttempts int           `yaml:"maxAttempts"`
	RetryDelay  time.Duration `yaml:"retryDelay"`
}

// Default returns the configuration defaults.
func Default() *Config {
	return &Config{
		Server: ServerConfig{
			Port:         8000,
			ReadTimeout:  30 * time.Second,
			WriteTimeout: 30 * time.Second,
			IdleTimeout:  120 * time.Second,
		},
		Database: DatabaseConfig{
			Host:     "localhost",
			Port:     5432,
			User:     "postgres",
			Password: "postgres",
			Name:     "items",
			SSLMode:  "disable",
			MaxConns: 10,
		},
		Observability: ObservabilityConfig{
			ServiceName:       "itemsvc",
			ServiceVersion:    "1.0.0",
			Environment:       "development",
			LogLevel:          "info",
			LogFormat:         "json",
			TracingEnabled:    true,
			OTLPEndpoint:      "localhost:4317",
			TracingSampleRate: 1.0,
			TracingInsecure:   true,
			MetricsEnabled:    true,
		},
		Startup: StartupConfig{
			MaxAttempts: 5,
			RetryDelay:  5 * time.Second,
		},
	}
}

// Load reads configuration from an optional YAML file, then applies
// environment overrides. An empty path yields defaults plus environment.
func Load(path string) (*Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("config: read %s: %w", path, err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("config: parse %s: %w", path, err)
		}
	}

	cfg.applyEnv()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// applyEnv overlays environment variables onto the configuration.
func (c *Config) applyEnv() {
	if v := os.Getenv("LOG_LEVEL"); v != "" {
		c.Observability.LogLevel = v
	}
	if v := os.Getenv("OTLP_ENDPOINT"); v != "" {
		c.Observability.OTLPEndpoint = v
	}
	if v := os.Getenv("SERVER_PORT"); v != "" {
		if port, err := strconv.Atoi(v); err == nil {
			c.Server.Port = port
		}
	}
	if v := os.Getenv("DATABASE_HOST"); v != "" {
		c.Database.Host = v
	}
	if v := os.Getenv("DATABASE_PORT"); v != "" {
		if port, err := strconv.Atoi(v); err == nil {
			c.Database.Port = port
		}
	}
	if v := os.Getenv("DATABASE_USER"); v != "" {
		c.Database.User = v
	}
	if v := os.Getenv("DATABASE_PASSWORD"); v != "" {
		c.Database.Password = v
	}
	if v := os.Getenv("DATABASE_NAME"); v != "" {
		c.Database.Name = v
	}
}

// Validate checks the configuration for invalid values.
func (c *Config) Validate() error {
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("config: invalid server port %d", c.Server.Port)
	}
	if c.Database.Port <= 0 || c.Database.Port > 65535 {
		return fmt.Errorf("config: invalid database port %d", c.Database.Port)
	}
	if c.Database.Host == "" {
		return fmt.Errorf("config: database host is required")
	}
	if c.Database.Name == "" {
		return fmt.Errorf("config: database name is required")
	}
	if c.Observability.TracingSampleRate < 0 || c.Observability.TracingSampleRate > 1 {
		return fmt.Errorf("config: tracing sample rate %v out of range [0,1]",
			c.Observability.TracingSampleRate)
	}
	if c.Startup.MaxAttempts <= 0 {
		return fmt.Errorf("config: startup max attempts must be positive")
	}
	if c.Startup.RetryDelay <= 0 {
		return fmt.Errorf("config: startup retry delay must be positive")
	}
	return nil
}
