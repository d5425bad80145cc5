package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics contains all Prometheus metrics for the service
type Metrics struct {
	// Analysis metrics
	AnalysesTotal *prometheus.CounterVec
	FraudVerdicts *prometheus.CounterVec
	RiskScores    *prometheus.HistogramVec
	ActionsChosen *prometheus.CounterVec

	// Transcription pipeline metrics
	TranscriptionRequests  prometheus.Counter
	TranscriptionSuccesses prometheus.Counter
	TranscriptionFailures  prometheus.Counter
	TranscriptionTimeouts  prometheus.Counter
	TranscriptionDuration  prometheus.Histogram

	// HTTP API metrics
	HTTPRequests        *prometheus.CounterVec
	HTTPRequestDuration *prometheus.HistogramVec
	HTTPErrors          *prometheus.CounterVec
}

// NewMetrics creates and registers all Prometheus metrics
func NewMetrics() *Metrics {
	return &Metrics{
		AnalysesTotal: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "fraudshield_analyses_total",
			Help: "Total number of content analyses by submission channel",
		}, []string{"channel"}),
		FraudVerdicts: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "fraudshield_fraud_verdicts_total",
			Help: "Total number of analyses that produced a FRAUD verdict",
		}, []string{"channel"}),
		RiskScores: promauto.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "fraudshield_risk_score",
			Help:    "Distribution of risk scores produced by analyses",
			Buckets: prometheus.LinearBuckets(0, 10, 11), // 0 to 100
		}, []string{"channel"}),
		ActionsChosen: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "fraudshield_actions_chosen_total",
			Help: "Total number of user-assigned report actions",
		}, []string{"action"}),

		TranscriptionRequests: promauto.NewCounter(prometheus.CounterOpts{
			Name: "fraudshield_transcription_requests_total",
			Help: "Total number of transcription pipeline runs started",
		}),
		TranscriptionSuccesses: promauto.NewCounter(prometheus.CounterOpts{
			Name: "fraudshield_transcription_successes_total",
			Help: "Total number of transcription pipeline runs that completed",
		}),
		TranscriptionFailures: promauto.NewCounter(prometheus.CounterOpts{
			Name: "fraudshield_transcription_failures_total",
			Help: "Total number of transcription pipeline runs that failed",
		}),
		TranscriptionTimeouts: promauto.NewCounter(prometheus.CounterOpts{
			Name: "fraudshield_transcription_timeouts_total",
			Help: "Total number of transcription pipeline runs that hit the poll ceiling",
		}),
		TranscriptionDuration: promauto.NewHistogram(prometheus.HistogramOpts{
			Name:    "fraudshield_transcription_duration_seconds",
			Help:    "End-to-end duration of transcription pipeline runs",
			Buckets: prometheus.ExponentialBuckets(0.5, 2, 10), // 0.5s to ~8.5 minutes
		}),

		HTTPRequests: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "fraudshield_http_requests_total",
			Help: "Total number of HTTP requests",
		}, []string{"method", "endpoint", "status_code"}),
		HTTPRequestDuration: promauto.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "fraudshield_http_request_duration_seconds",
			Help:    "Duration of HTTP requests",
			Buckets: prometheus.DefBuckets,
		}, []string{"method", "endpoint"}),
		HTTPErrors: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "fraudshield_http_errors_total",
			Help: "Total number of HTTP errors",
		}, []string{"method", "endpoint", "error_type"}),
	}
}

// RecordAnalysis records one completed analysis with its verdict outcome
func (m *Metrics) RecordAnalysis(channel string, score int, flagged bool) {
	m.AnalysesTotal.WithLabelValues(channel).Inc()
	m.RiskScores.WithLabelValues(channel).Observe(float64(score))
	if flagged {
		m.FraudVerdicts.WithLabelValues(channel).Inc()
	}
}

// RecordActionChosen records a user-assigned report action
func (m *Metrics) RecordActionChosen(action string) {
	m.ActionsChosen.WithLabelValues(action).Inc()
}

// RecordTranscriptionStarted increments the pipeline runs counter
func (m *Metrics) RecordTranscriptionStarted() {
	m.TranscriptionRequests.Inc()
}

// RecordTranscriptionSuccess records a completed pipeline run and its duration
func (m *Metrics) RecordTranscriptionSuccess(durationSeconds float64) {
	m.TranscriptionSuccesses.Inc()
	m.TranscriptionDuration.Observe(durationSeconds)
}

// RecordTranscriptionFailure increments the failed pipeline runs counter
func (m *Metrics) RecordTranscriptionFailure() {
	m.TranscriptionFailures.Inc()
}

// RecordTranscriptionTimeout increments the timed-out pipeline runs counter
func (m *Metrics) RecordTranscriptionTimeout() {
	m.TranscriptionTimeouts.Inc()
}

// RecordHTTPRequest records an HTTP request with its duration
func (m *Metrics) RecordHTTPRequest(method, endpoint, statusCode string, durationSeconds float64) {
	m.HTTPRequests.WithLabelValues(method, endpoint, statusCode).Inc()
	m.HTTPRequestDuration.WithLabelValues(method, endpoint).Observe(durationSeconds)
}

// RecordHTTPError records an HTTP error by type
func (m *Metrics) RecordHTTPError(method, endpoint, errorType string) {
	m.HTTPErrors.WithLabelValues(method, endpoint, errorType).Inc()
}
