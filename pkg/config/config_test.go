package config

import (
	"os"
	"path/filepath"
	"testing"
)

func clearEnv(t *testing.T) {
	t.Helper()
	for _, k := range []string{"CONFIG_FILE", "PORT", "LOG_LEVEL", "CLUSTER_NAME",
		"EXTRACTOR_ENDPOINT", "OTEL_ENABLED", "OTEL_ENDPOINT", "OTEL_EXPORTER_OTLP_ENDPOINT"} {
		t.Setenv(k, "")
		os.Unsetenv(k)
	}
}

func TestLoadDefaults(t *testing.T) {
	clearEnv(t)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	if cfg.Port != 8080 {
		t.Errorf("expected default port 8080, got %d", cfg.Port)
	}
	if cfg.LogLevel != "info" {
		t.Errorf("expected default log level info, got %s", cfg.LogLevel)
	}
	if cfg.ExtractorEndpoint != "" {
		t.Errorf("expected empty extractor endpoint, got %s", cfg.ExtractorEndpoint)
	}
	if cfg.OTelEnabled {
		t.Errorf("expected OTel disabled by default")
	}
}

func TestLoadEnvOverrides(t *testing.T) {
	clearEnv(t)
	t.Setenv("PORT", "9090")
	t.Setenv("LOG_LEVEL", "debug")
	t.Setenv("CLUSTER_NAME", "prod-us-east")
	t.Setenv("EXTRACTOR_ENDPOINT", "http://extractor:8000/extract")
	t.Setenv("OTEL_ENABLED", "true")
	t.Setenv("OTEL_ENDPOINT", "localhost:4317")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	if cfg.Port != 9090 {
		t.Errorf("expected port 9090, got %d", cfg.Port)
	}
	if cfg.LogLevel != "debug" {
		t.Errorf("expected log level debug, got %s", cfg.LogLevel)
	}
	if cfg.ClusterName != "prod-us-east" {
		t.Errorf("expected cluster name prod-us-east, got %s", cfg.ClusterName)
	}
	if cfg.ExtractorEndpoint != "http://extractor:8000/extract" {
		t.Errorf("unexpected extractor endpoint %s", cfg.ExtractorEndpoint)
	}
	if !cfg.OTelEnabled {
		t.Errorf("expected OTel enabled")
	}
	if cfg.OTelEndpoint != "localhost:4317" {
		t.Errorf("expected OTel endpoint localhost:4317, got %s", cfg.OTelEndpoint)
	}
}

func TestLoadFileThenEnv(t *testing.T) {
	clearEnv(t)

	path := filepath.Join(t.TempDir(), "config.yaml")
	content := "port: 7070\nlog_level: warn\ncluster_name: staging\n"
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("writing config file: %v", err)
	}

	t.Setenv("CONFIG_FILE", path)
	t.Setenv("LOG_LEVEL", "error")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	if cfg.Port != 7070 {
		t.Errorf("expected port 7070 from file, got %d", cfg.Port)
	}
	if cfg.LogLevel != "error" {
		t.Errorf("expected env to override file log level, got %s", cfg.LogLevel)
	}
	if cfg.ClusterName != "staging" {
		t.Errorf("expected cluster name staging from file, got %s", cfg.ClusterName)
	}
}

func TestLoadBadFile(t *testing.T) {
	clearEnv(t)

	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte("port: [not a number"), 0o600); err != nil {
		t.Fatalf("writing config file: %v", err)
	}
	t.Setenv("CONFIG_FILE", path)

	if _, err := Load(); err == nil {
		t.Fatal("expected error for malformed config file")
	}
}

func TestSlogLevel(t *testing.T) {
	for in, want := range map[string]string{
		"debug": "DEBUG", "warn": "WARN", "error": "ERROR", "info": "INFO", "bogus": "INFO",
	} {
		cfg := &Config{LogLevel: in}
		if got := cfg.SlogLevel().String(); got != want {
			t.Errorf("SlogLevel(%q) = %s, want %s", in, got, want)
		}
	}
}
