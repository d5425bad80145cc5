package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/ajaysinh69/fraudshield-ai/internal/analysis"
	"github.com/ajaysinh69/fraudshield-ai/internal/config"
	"github.com/ajaysinh69/fraudshield-ai/internal/media"
	"github.com/ajaysinh69/fraudshield-ai/internal/metrics"
	"github.com/ajaysinh69/fraudshield-ai/internal/transcription"
)

// HTTPServer provides the HTTP API for analyses, reports, and monitoring
type HTTPServer struct {
	server   *http.Server
	logger   *slog.Logger
	config   *config.Config
	analyzer *analysis.Service
	metrics  *metrics.Metrics

	startTime time.Time
}

// NewHTTPServer creates a new HTTP API server
func NewHTTPServer(cfg config.HTTPConfig, logger *slog.Logger,
	appConfig *config.Config, analyzer *analysis.Service, m *metrics.Metrics) *HTTPServer {

	h := &HTTPServer{
		logger:    logger,
		config:    appConfig,
		analyzer:  analyzer,
		metrics:   m,
		startTime: time.Now(),
	}

	mux := http.NewServeMux()
	h.setupRoutes(mux)

	h.server = &http.Server{
		Addr:    fmt.Sprintf("%s:%d", cfg.Address, cfg.Port),
		Handler: mux,
		// No WriteTimeout: media analysis legitimately blocks for the
		// duration of the provider poll loop, up to the poll ceiling.
		ReadTimeout: 60 * time.Second,
		IdleTimeout: 120 * time.Second,
	}

	return h
}

// setupRoutes configures HTTP API routes
func (h *HTTPServer) setupRoutes(mux *http.ServeMux) {
	// Analysis endpoints
	mux.HandleFunc("/v1/analyze/text", h.withMetrics("/v1/analyze/text", h.handleAnalyzeText))
	mux.HandleFunc("/v1/analyze/media", h.withMetrics("/v1/analyze/media", h.handleAnalyzeMedia))

	// Report registry endpoints
	mux.HandleFunc("/v1/reports", h.withMetrics("/v1/reports", h.handleReports))
	mux.HandleFunc("/v1/reports/", h.withMetrics("/v1/reports/{id}", h.handleReportDetail))

	// Monitoring endpoints
	mux.HandleFunc("/health", h.withMetrics("/health", h.handleHealth))
	mux.HandleFunc("/config", h.withMetrics("/config", h.handleConfig))
	mux.HandleFunc("/stats", h.withMetrics("/stats", h.handleStats))

	// Prometheus metrics endpoint
	mux.Handle("/metrics", promhttp.Handler())

	// Root endpoint with API documentation
	mux.HandleFunc("/", h.withMetrics("/", h.handleRoot))
}

// withMetrics wraps an HTTP handler with metrics collection
func (h *HTTPServer) withMetrics(endpoint string, handler http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		startTime := time.Now()

		ww := &responseWriter{ResponseWriter: w, statusCode: 200}
		handler(ww, r)

		if h.metrics == nil {
			return
		}

		duration := time.Since(startTime).Seconds()
		h.metrics.RecordHTTPRequest(r.Method, endpoint, fmt.Sprintf("%d", ww.statusCode), duration)

		if ww.statusCode >= 400 {
			errorType := "client_error"
			if ww.statusCode >= 500 {
				errorType = "server_error"
			}
			h.metrics.RecordHTTPError(r.Method, endpoint, errorType)
		}
	}
}

// responseWriter wraps http.ResponseWriter to capture status code
type responseWriter struct {
	http.ResponseWriter
	statusCode int
}

func (rw *responseWriter) WriteHeader(code int) {
	rw.statusCode = code
	rw.ResponseWriter.WriteHeader(code)
}

// Start starts the HTTP server
func (h *HTTPServer) Start() error {
	h.logger.Info("Starting HTTP API server",
		slog.String("address", h.server.Addr),
	)

	go func() {
		if err := h.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			h.logger.Error("HTTP server error", slog.String("error", err.Error()))
		}
	}()

	return nil
}

// Stop gracefully stops the HTTP server
func (h *HTTPServer) Stop(ctx context.Context) error {
	h.logger.Info("Stopping HTTP API server...")

	return h.server.Shutdown(ctx)
}

// Handler returns the server's root handler, for tests.
func (h *HTTPServer) Handler() http.Handler {
	return h.server.Handler
}

// analyzeTextRequest is the body of POST /v1/analyze/text
type analyzeTextRequest struct {
	Text string `json:"text"`
}

// handleAnalyzeText implements POST /v1/analyze/text
func (h *HTTPServer) handleAnalyzeText(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var req analyzeTextRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	if strings.TrimSpace(req.Text) == "" {
		h.writeError(w, http.StatusBadRequest, "No input detected.")
		return
	}

	report := h.analyzer.AnalyzeText(req.Text)
	h.writeJSON(w, http.StatusOK, report)
}

// handleAnalyzeMedia implements POST /v1/analyze/media. The request is a
// multipart form with a "file" part and a "media_kind" value of audio or
// video. The response is only written once the provider pipeline finishes,
// so the request can stay open for minutes.
func (h *HTTPServer) handleAnalyzeMedia(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	if err := r.ParseMultipartForm(h.config.Media.MaxUploadBytes); err != nil {
		h.writeError(w, http.StatusBadRequest, "error parsing multipart form")
		return
	}

	kind := transcription.MediaKind(r.FormValue("media_kind"))
	if kind != transcription.MediaAudio && kind != transcription.MediaVideo {
		h.writeError(w, http.StatusBadRequest, "media_kind must be audio or video")
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		h.writeError(w, http.StatusBadRequest, "missing file upload")
		return
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		h.writeError(w, http.StatusBadRequest, "error reading file upload")
		return
	}

	report, err := h.analyzer.AnalyzeMedia(r.Context(), media.Upload{
		Data:     data,
		Filename: header.Filename,
		MIMEType: header.Header.Get("Content-Type"),
		Kind:     kind,
	})
	if err != nil {
		status := pipelineErrorStatus(err)
		h.writeError(w, status, err.Error())
		return
	}

	h.writeJSON(w, http.StatusOK, report)
}

// pipelineErrorStatus maps each failure kind to a distinct HTTP status so
// callers can tell a bad credential from a provider rejection from a timeout.
func pipelineErrorStatus(err error) int {
	var (
		configErr     *transcription.ConfigError
		validationErr *media.ValidationError
		timeoutErr    *transcription.TimeoutError
	)

	switch {
	case errors.As(err, &configErr):
		return http.StatusServiceUnavailable
	case errors.As(err, &validationErr):
		return http.StatusBadRequest
	case errors.As(err, &timeoutErr):
		return http.StatusGatewayTimeout
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return http.StatusRequestTimeout
	default:
		// Upload, job creation, poll, and provider-reported failures
		return http.StatusBadGateway
	}
}

// handleReports implements GET /v1/reports
func (h *HTTPServer) handleReports(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	reports := h.analyzer.ListReports()
	h.writeJSON(w, http.StatusOK, map[string]interface{}{
		"total_reports": len(reports),
		"timestamp":     time.Now().UTC(),
		"reports":       reports,
	})
}

// assignActionRequest is the body of POST /v1/reports/{id}/action
type assignActionRequest struct {
	Action string `json:"action"`
}

// handleReportDetail implements GET /v1/reports/{id} and
// POST /v1/reports/{id}/action
func (h *HTTPServer) handleReportDetail(w http.ResponseWriter, r *http.Request) {
	rest := strings.TrimPrefix(r.URL.Path, "/v1/reports/")
	if rest == "" {
		h.writeError(w, http.StatusBadRequest, "report ID required")
		return
	}

	if id, ok := strings.CutSuffix(rest, "/action"); ok {
		h.handleAssignAction(w, r, id)
		return
	}

	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	report, ok := h.analyzer.GetReport(rest)
	if !ok {
		h.writeError(w, http.StatusNotFound, "report not found")
		return
	}
	h.writeJSON(w, http.StatusOK, report)
}

// handleAssignAction records the user's decision on a report
func (h *HTTPServer) handleAssignAction(w http.ResponseWriter, r *http.Request, id string) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var req assignActionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	action, err := analysis.ParseAction(req.Action)
	if err != nil {
		h.writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	report, err := h.analyzer.AssignAction(id, action)
	if err != nil {
		if errors.Is(err, analysis.ErrReportNotFound) {
			h.writeError(w, http.StatusNotFound, "report not found")
			return
		}
		h.writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	h.writeJSON(w, http.StatusOK, report)
}

// handleHealth implements the /health endpoint
func (h *HTTPServer) handleHealth(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	transcriptionStats := h.analyzer.TranscriptionStats()

	health := map[string]interface{}{
		"status":    "healthy",
		"timestamp": time.Now().UTC(),
		"uptime":    time.Since(h.startTime).String(),
		"service": map[string]interface{}{
			"name":    "fraudshield-ai",
			"version": "1.0.0",
		},
		"components": map[string]interface{}{
			"analysis": map[string]interface{}{
				"status":        "running",
				"total_reports": h.analyzer.ReportCount(),
			},
			"transcription": map[string]interface{}{
				"configured":     h.analyzer.TranscriptionConfigured(),
				"total_requests": transcriptionStats.TotalRequests,
				"poll_attempts":  transcriptionStats.PollAttempts,
			},
		},
	}

	h.writeJSON(w, http.StatusOK, health)
}

// handleConfig implements the /config endpoint
func (h *HTTPServer) handleConfig(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	// Sanitized configuration; the API key is intentionally omitted
	sanitizedConfig := map[string]interface{}{
		"http": map[string]interface{}{
			"port":    h.config.HTTP.Port,
			"address": h.config.HTTP.Address,
		},
		"transcription": map[string]interface{}{
			"base_url":                h.config.Transcription.BaseURL,
			"api_key_configured":      h.config.Transcription.APIKey != "",
			"poll_interval_seconds":   h.config.Transcription.PollIntervalSeconds,
			"poll_timeout_seconds":    h.config.Transcription.PollTimeoutSeconds,
			"request_timeout_seconds": h.config.Transcription.RequestTimeoutSeconds,
		},
		"media": map[string]interface{}{
			"max_upload_bytes": h.config.Media.MaxUploadBytes,
		},
		"logging": map[string]interface{}{
			"level":  h.config.Logging.Level,
			"format": h.config.Logging.Format,
			"output": h.config.Logging.Output,
		},
	}

	h.writeJSON(w, http.StatusOK, sanitizedConfig)
}

// handleStats implements the /stats endpoint
func (h *HTTPServer) handleStats(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	stats := map[string]interface{}{
		"uptime":    time.Since(h.startTime).String(),
		"timestamp": time.Now().UTC(),
		"analysis": map[string]interface{}{
			"total_reports": h.analyzer.ReportCount(),
		},
		"transcription": h.analyzer.TranscriptionStats(),
	}

	h.writeJSON(w, http.StatusOK, stats)
}

// handleRoot implements the / endpoint with API documentation
func (h *HTTPServer) handleRoot(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		http.Error(w, "Not found", http.StatusNotFound)
		return
	}

	docs := map[string]interface{}{
		"service": "fraudshield-ai",
		"version": "1.0.0",
		"endpoints": map[string]string{
			"POST /v1/analyze/text":        "Analyze typed text for scam keyword evidence",
			"POST /v1/analyze/media":       "Transcribe an audio/video upload and analyze the transcript",
			"GET /v1/reports":              "List recent analysis reports",
			"GET /v1/reports/{id}":         "Get one analysis report",
			"POST /v1/reports/{id}/action": "Assign a block/report/ignore action to a report",
			"GET /health":                  "Health check",
			"GET /config":                  "Sanitized service configuration",
			"GET /stats":                   "Service statistics",
			"GET /metrics":                 "Prometheus metrics",
		},
	}

	h.writeJSON(w, http.StatusOK, docs)
}

// writeJSON writes a JSON response with the given status code
func (h *HTTPServer) writeJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		h.logger.Error("Failed to encode response", slog.String("error", err.Error()))
	}
}

// writeError writes a JSON error response
func (h *HTTPServer) writeError(w http.ResponseWriter, status int, message string) {
	h.writeJSON(w, status, map[string]string{"error": message})
}
