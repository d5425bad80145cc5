package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func validConfig() Config {
	return Config{
		HTTP: HTTPConfig{
			Port:    8080,
			Address: "0.0.0.0",
		},
		Transcription: TranscriptionConfig{
			BaseURL:               "https://api.assemblyai.com",
			APIKey:                "test-key",
			PollIntervalSeconds:   3,
			PollTimeoutSeconds:    300,
			RequestTimeoutSeconds: 30,
		},
		Media: MediaConfig{
			MaxUploadBytes: 50 << 20,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "json",
			Output: "stdout",
		},
	}
}

func TestConfigValidation(t *testing.T) {
	tests := []struct {
		name        string
		mutate      func(*Config)
		expectError bool
		errorMsg    string
	}{
		{
			name:   "valid configuration",
			mutate: func(*Config) {},
		},
		{
			name:   "missing API key is allowed",
			mutate: func(c *Config) { c.Transcription.APIKey = "" },
		},
		{
			name:        "invalid http port",
			mutate:      func(c *Config) { c.HTTP.Port = 70000 },
			expectError: true,
			errorMsg:    "port must be between 1 and 65535",
		},
		{
			name:        "empty bind address",
			mutate:      func(c *Config) { c.HTTP.Address = "" },
			expectError: true,
			errorMsg:    "address cannot be empty",
		},
		{
			name:        "empty provider base url",
			mutate:      func(c *Config) { c.Transcription.BaseURL = "" },
			expectError: true,
			errorMsg:    "base_url cannot be empty",
		},
		{
			name:        "zero poll interval",
			mutate:      func(c *Config) { c.Transcription.PollIntervalSeconds = 0 },
			expectError: true,
			errorMsg:    "poll_interval_seconds must be at least 1",
		},
		{
			name: "ceiling below interval",
			mutate: func(c *Config) {
				c.Transcription.PollIntervalSeconds = 10
				c.Transcription.PollTimeoutSeconds = 5
			},
			expectError: true,
			errorMsg:    "poll_timeout_seconds must be at least poll_interval_seconds",
		},
		{
			name:        "non-positive upload limit",
			mutate:      func(c *Config) { c.Media.MaxUploadBytes = 0 },
			expectError: true,
			errorMsg:    "max_upload_bytes must be positive",
		},
		{
			name:        "unknown log level",
			mutate:      func(c *Config) { c.Logging.Level = "verbose" },
			expectError: true,
			errorMsg:    "level must be one of",
		},
		{
			name:        "unknown log format",
			mutate:      func(c *Config) { c.Logging.Format = "xml" },
			expectError: true,
			errorMsg:    "format must be json or text",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validConfig()
			tt.mutate(&cfg)

			err := cfg.Validate()
			if tt.expectError {
				if err == nil {
					t.Fatal("expected validation error, got nil")
				}
				if !strings.Contains(err.Error(), tt.errorMsg) {
					t.Errorf("expected error containing %q, got %q", tt.errorMsg, err.Error())
				}
				return
			}
			if err != nil {
				t.Errorf("expected valid configuration, got %v", err)
			}
		})
	}
}

func TestLoad(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")

	content := `
http:
  port: 9090
transcription:
  api_key: "file-key"
  poll_interval_seconds: 2
logging:
  level: debug
`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("writing config file: %v", err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if cfg.HTTP.Port != 9090 {
		t.Errorf("expected port 9090, got %d", cfg.HTTP.Port)
	}
	if cfg.HTTP.Address != "0.0.0.0" {
		t.Errorf("expected default bind address, got %q", cfg.HTTP.Address)
	}
	if cfg.Transcription.APIKey != "file-key" {
		t.Errorf("expected API key from file, got %q", cfg.Transcription.APIKey)
	}
	if cfg.Transcription.GetPollInterval() != 2*time.Second {
		t.Errorf("expected 2s poll interval, got %v", cfg.Transcription.GetPollInterval())
	}
	if cfg.Transcription.GetPollTimeout() != 5*time.Minute {
		t.Errorf("expected default 5m poll ceiling, got %v", cfg.Transcription.GetPollTimeout())
	}
	if cfg.Logging.Level != "debug" {
		t.Errorf("expected debug level, got %q", cfg.Logging.Level)
	}
}

func TestLoadEnvOverridesAPIKey(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")

	content := `
transcription:
  api_key: "file-key"
`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("writing config file: %v", err)
	}

	t.Setenv(APIKeyEnv, "env-key")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.Transcription.APIKey != "env-key" {
		t.Errorf("environment must override the file credential, got %q", cfg.Transcription.APIKey)
	}
}

func TestLoadMissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Error("expected an error for a missing config file")
	}
}

func TestLoadMalformedYAML(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	if err := os.WriteFile(path, []byte("http: [not a mapping"), 0o644); err != nil {
		t.Fatalf("writing config file: %v", err)
	}

	if _, err := Load(path); err == nil {
		t.Error("expected an error for malformed YAML")
	}
}
