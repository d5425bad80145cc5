// Package config provides configuration loading and validation for the fraud
// screening service. It handles YAML-based configuration with per-section
// validation and an environment override for the transcription provider
// credential, which is never written back or logged.
package config
