package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// APIKeyEnv is the environment variable that overrides the provider API key
// from the configuration file.
const APIKeyEnv = "ASSEMBLYAI_API_KEY"

// Config represents the complete service configuration
type Config struct {
	HTTP          HTTPConfig          `yaml:"http"`
	Transcription TranscriptionConfig `yaml:"transcription"`
	Media         MediaConfig         `yaml:"media"`
	Logging       LoggingConfig       `yaml:"logging"`
}

// HTTPConfig contains HTTP API server configuration
type HTTPConfig struct {
	Port    int    `yaml:"port"`
	Address string `yaml:"address"`
}

// TranscriptionConfig contains transcription provider configuration.
// APIKey may be empty; media analysis then fails fast per request while
// text analysis keeps working.
type TranscriptionConfig struct {
	BaseURL               string `yaml:"base_url"`
	APIKey                string `yaml:"api_key"`
	PollIntervalSeconds   int    `yaml:"poll_interval_seconds"`
	PollTimeoutSeconds    int    `yaml:"poll_timeout_seconds"`
	RequestTimeoutSeconds int    `yaml:"request_timeout_seconds"`
}

// MediaConfig contains media upload constraints
type MediaConfig struct {
	MaxUploadBytes int64 `yaml:"max_upload_bytes"`
}

// LoggingConfig contains logging configuration
type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
	Output string `yaml:"output"`
}

// Load reads and parses the configuration file, applies defaults and the
// environment credential override, and validates the result.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
	}

	var config Config
	if err := yaml.Unmarshal(data, &config); err != nil {
		return nil, fmt.Errorf("failed to parse config file %s: %w", path, err)
	}

	config.applyDefaults()

	if key := os.Getenv(APIKeyEnv); key != "" {
		config.Transcription.APIKey = key
	}

	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return &config, nil
}

// applyDefaults fills zero values with the service defaults
func (c *Config) applyDefaults() {
	if c.HTTP.Port == 0 {
		c.HTTP.Port = 8080
	}
	if c.HTTP.Address == "" {
		c.HTTP.Address = "0.0.0.0"
	}
	if c.Transcription.BaseURL == "" {
		c.Transcription.BaseURL = "https://api.assemblyai.com"
	}
	if c.Transcription.PollIntervalSeconds == 0 {
		c.Transcription.PollIntervalSeconds = 3
	}
	if c.Transcription.PollTimeoutSeconds == 0 {
		c.Transcription.PollTimeoutSeconds = 300
	}
	if c.Transcription.RequestTimeoutSeconds == 0 {
		c.Transcription.RequestTimeoutSeconds = 30
	}
	if c.Media.MaxUploadBytes == 0 {
		c.Media.MaxUploadBytes = 50 << 20
	}
	if c.Logging.Level == "" {
		c.Logging.Level = "info"
	}
	if c.Logging.Format == "" {
		c.Logging.Format = "text"
	}
	if c.Logging.Output == "" {
		c.Logging.Output = "stdout"
	}
}

// Validate performs validation of the complete configuration
func (c *Config) Validate() error {
	if err := c.HTTP.Validate(); err != nil {
		return fmt.Errorf("http config: %w", err)
	}

	if err := c.Transcription.Validate(); err != nil {
		return fmt.Errorf("transcription config: %w", err)
	}

	if err := c.Media.Validate(); err != nil {
		return fmt.Errorf("media config: %w", err)
	}

	if err := c.Logging.Validate(); err != nil {
		return fmt.Errorf("logging config: %w", err)
	}

	return nil
}

// Validate checks HTTP server configuration
func (c *HTTPConfig) Validate() error {
	if c.Port < 1 || c.Port > 65535 {
		return fmt.Errorf("port must be between 1 and 65535, got %d", c.Port)
	}
	if c.Address == "" {
		return fmt.Errorf("address cannot be empty")
	}
	return nil
}

// Validate checks transcription provider configuration
func (c *TranscriptionConfig) Validate() error {
	if c.BaseURL == "" {
		return fmt.Errorf("base_url cannot be empty")
	}
	if c.PollIntervalSeconds < 1 {
		return fmt.Errorf("poll_interval_seconds must be at least 1, got %d", c.PollIntervalSeconds)
	}
	if c.PollTimeoutSeconds < c.PollIntervalSeconds {
		return fmt.Errorf("poll_timeout_seconds must be at least poll_interval_seconds, got %d", c.PollTimeoutSeconds)
	}
	if c.RequestTimeoutSeconds < 1 {
		return fmt.Errorf("request_timeout_seconds must be at least 1, got %d", c.RequestTimeoutSeconds)
	}
	return nil
}

// Validate checks media upload constraints
func (c *MediaConfig) Validate() error {
	if c.MaxUploadBytes < 1 {
		return fmt.Errorf("max_upload_bytes must be positive, got %d", c.MaxUploadBytes)
	}
	return nil
}

// Validate checks logging configuration
func (c *LoggingConfig) Validate() error {
	switch c.Level {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("level must be one of debug, info, warn, error, got %q", c.Level)
	}

	switch c.Format {
	case "json", "text":
	default:
		return fmt.Errorf("format must be json or text, got %q", c.Format)
	}

	return nil
}

// GetPollInterval returns the poll interval as a time.Duration
func (c *TranscriptionConfig) GetPollInterval() time.Duration {
	return time.Duration(c.PollIntervalSeconds) * time.Second
}

// GetPollTimeout returns the poll ceiling as a time.Duration
func (c *TranscriptionConfig) GetPollTimeout() time.Duration {
	return time.Duration(c.PollTimeoutSeconds) * time.Second
}

// GetRequestTimeout returns the per-request HTTP timeout as a time.Duration
func (c *TranscriptionConfig) GetRequestTimeout() time.Duration {
	return time.Duration(c.RequestTimeoutSeconds) * time.Second
}
