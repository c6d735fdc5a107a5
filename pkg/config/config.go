package config

import (
	"fmt"
	"log/slog"
	"os"
	"strconv"

	"gopkg.in/yaml.v3"
)

// Config holds server configuration. Values come from an optional YAML file
// pointed at by CONFIG_FILE, with environment variables overriding the file.
type Config struct {
	Port              int    `yaml:"port"`
	LogLevel          string `yaml:"log_level"`
	ClusterName       string `yaml:"cluster_name"`
	ExtractorEndpoint string `yaml:"extractor_endpoint"`
	OTelEnabled       bool   `yaml:"otel_enabled"`
	OTelEndpoint      string `yaml:"otel_endpoint"`
}

// Load builds the effective Config: defaults, then the YAML file named by
// CONFIG_FILE if set, then environment variables.
func Load() (*Config, error) {
	cfg := &Config{
		Port:     8080,
		LogLevel: "info",
	}

	if path := os.Getenv("CONFIG_FILE"); path != "" {
		data, err := os.ReadFile(path) // #nosec G304
		if err != nil {
			return nil, fmt.Errorf("reading config file %s: %w", path, err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parsing config file %s: %w", path, err)
		}
	}

	cfg.applyEnv()
	return cfg, nil
}

func (c *Config) applyEnv() {
	if v := os.Getenv("PORT"); v != "" {
		if p, err := strconv.Atoi(v); err == nil {
			c.Port = p
		}
	}
	if v := os.Getenv("LOG_LEVEL"); v != "" {
		c.LogLevel = v
	}
	if v := os.Getenv("CLUSTER_NAME"); v != "" {
		c.ClusterName = v
	}
	if v := os.Getenv("EXTRACTOR_ENDPOINT"); v != "" {
		c.ExtractorEndpoint = v
	}
	if v := os.Getenv("OTEL_ENABLED"); v != "" {
		parsed, err := strconv.ParseBool(v)
		if err != nil {
			slog.Warn("invalid OTEL_ENABLED value, keeping previous setting")
		} else {
			c.OTelEnabled = parsed
		}
	}
	if v := os.Getenv("OTEL_EXPORTER_OTLP_ENDPOINT"); v != "" {
		c.OTelEndpoint = v
	} else if v := os.Getenv("OTEL_ENDPOINT"); v != "" {
		c.OTelEndpoint = v
	}
}

// SetupLogging configures slog with a JSON handler at the configured log level.
func (c *Config) SetupLogging() {
	handler := slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: c.SlogLevel()})
	slog.SetDefault(slog.New(handler))
}

// SlogLevel returns the configured slog.Level for use with OTel log bridge setup.
func (c *Config) SlogLevel() slog.Level {
	switch c.LogLevel {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
