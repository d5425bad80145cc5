package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/ajaysinh69/fraudshield-ai/internal/analysis"
	"github.com/ajaysinh69/fraudshield-ai/internal/config"
	"github.com/ajaysinh69/fraudshield-ai/internal/metrics"
	"github.com/ajaysinh69/fraudshield-ai/internal/server"
	"github.com/ajaysinh69/fraudshield-ai/internal/transcription"
)

const (
	defaultConfigPath = "configs/config.yaml"
	serviceName       = "fraudshield-ai"
	serviceVersion    = "1.0.0"
)

func main() {
	// Parse command line flags
	configPath := flag.String("config", defaultConfigPath, "Path to configuration file")
	flag.Parse()

	// Load .env before config resolution; absence is fine
	_ = godotenv.Load()

	// Load configuration
	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	// Initialize logger based on configuration
	logger := initLogger(cfg.Logging)

	// Log service startup
	logger.Info("Service starting",
		slog.String("service", serviceName),
		slog.String("version", serviceVersion),
		slog.String("config_path", *configPath),
	)

	// Log configuration summary (without sensitive data)
	logger.Info("Configuration loaded",
		slog.Int("http_port", cfg.HTTP.Port),
		slog.String("bind_address", cfg.HTTP.Address),
		slog.String("transcription_base_url", cfg.Transcription.BaseURL),
		slog.Bool("api_key_configured", cfg.Transcription.APIKey != ""),
		slog.Duration("poll_interval", cfg.Transcription.GetPollInterval()),
		slog.Duration("poll_timeout", cfg.Transcription.GetPollTimeout()),
		slog.Int64("max_upload_bytes", cfg.Media.MaxUploadBytes),
		slog.String("log_level", cfg.Logging.Level),
	)

	// Initialize Prometheus metrics
	appMetrics := metrics.NewMetrics()
	logger.Info("Prometheus metrics initialized")

	// Initialize transcription client when a credential is present.
	// Without one, text analysis still works and media analysis fails fast
	// with a configuration error.
	var transcriber analysis.Transcriber
	if cfg.Transcription.APIKey != "" {
		client, err := transcription.NewClient(transcription.Config{
			BaseURL:        cfg.Transcription.BaseURL,
			APIKey:         cfg.Transcription.APIKey,
			PollInterval:   cfg.Transcription.GetPollInterval(),
			PollTimeout:    cfg.Transcription.GetPollTimeout(),
			RequestTimeout: cfg.Transcription.GetRequestTimeout(),
		}, logger)
		if err != nil {
			logger.Error("Failed to create transcription client", slog.String("error", err.Error()))
			os.Exit(1)
		}
		transcriber = client
		logger.Info("Transcription client initialized",
			slog.String("base_url", cfg.Transcription.BaseURL),
		)
	} else {
		logger.Warn("No transcription credential configured; media analysis is disabled",
			slog.String("env", config.APIKeyEnv),
		)
	}

	// Initialize analysis service
	analyzer := analysis.NewService(logger, appMetrics, transcriber, analysis.Config{
		MaxUploadBytes: cfg.Media.MaxUploadBytes,
	})
	logger.Info("Analysis service initialized")

	// Initialize and start HTTP API server
	httpServer := server.NewHTTPServer(cfg.HTTP, logger, cfg, analyzer, appMetrics)
	if err := httpServer.Start(); err != nil {
		logger.Error("Failed to start HTTP server", slog.String("error", err.Error()))
		os.Exit(1)
	}

	// Setup signal handling for graceful shutdown
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	logger.Info("Service started successfully, waiting for signals...",
		slog.String("http_address", fmt.Sprintf("%s:%d", cfg.HTTP.Address, cfg.HTTP.Port)),
	)

	sig := <-sigChan
	logger.Info("Received shutdown signal", slog.String("signal", sig.String()))

	logger.Info("Starting graceful shutdown...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := httpServer.Stop(shutdownCtx); err != nil {
		logger.Error("Error stopping HTTP server", slog.String("error", err.Error()))
	}

	// Final statistics
	stats := analyzer.TranscriptionStats()
	logger.Info("Final service statistics",
		slog.Int("total_reports", analyzer.ReportCount()),
		slog.Uint64("transcription_requests", stats.TotalRequests),
		slog.Uint64("transcription_successes", stats.SuccessRequests),
		slog.Uint64("transcription_failures", stats.FailedRequests),
		slog.Uint64("transcription_timeouts", stats.TimedOutRequests),
	)

	logger.Info("Service stopped")
}

// initLogger creates and configures the structured logger based on configuration
func initLogger(cfg config.LoggingConfig) *slog.Logger {
	var level slog.Level
	switch cfg.Level {
	case "debug":
		level = slog.LevelDebug
	case "info":
		level = slog.LevelInfo
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		level = slog.LevelInfo
	}

	opts := &slog.HandlerOptions{
		Level:     level,
		AddSource: level == slog.LevelDebug,
	}

	var output *os.File
	switch cfg.Output {
	case "stderr":
		output = os.Stderr
	case "stdout", "":
		output = os.Stdout
	default:
		// Assume it's a file path
		file, err := os.OpenFile(cfg.Output, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Failed to open log file %s: %v, falling back to stdout\n", cfg.Output, err)
			output = os.Stdout
		} else {
			output = file
		}
	}

	var handler slog.Handler
	switch cfg.Format {
	case "json":
		handler = slog.NewJSONHandler(output, opts)
	default:
		handler = slog.NewTextHandler(output, opts)
	}

	return slog.New(handler)
}
