package analysis

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/ajaysinh69/fraudshield-ai/internal/media"
	"github.com/ajaysinh69/fraudshield-ai/internal/metrics"
	"github.com/ajaysinh69/fraudshield-ai/internal/risk"
	"github.com/ajaysinh69/fraudshield-ai/internal/transcription"
)

// DefaultMaxReports bounds the in-memory report registry.
const DefaultMaxReports = 1000

// ErrReportNotFound is returned when a report ID is unknown.
var ErrReportNotFound = errors.New("report not found")

// Transcriber obtains a transcript for a media submission. Implemented by
// transcription.Client; abstracted so the service is testable without a
// provider.
type Transcriber interface {
	Transcribe(ctx context.Context, request transcription.Request) (transcription.Outcome, error)
	GetStats() transcription.Stats
}

// Config contains analysis service configuration.
type Config struct {
	MaxUploadBytes int64
	MaxReports     int
}

// Service runs analyses and keeps the bounded registry of finished reports.
// It is safe for concurrent use; concurrent media analyses run as fully
// independent pipelines.
type Service struct {
	logger               *slog.Logger
	metrics              *metrics.Metrics
	transcriber          Transcriber
	textClassifier       *risk.Classifier
	transcriptClassifier *risk.Classifier
	maxUploadBytes       int64
	maxReports           int

	mu      sync.RWMutex
	reports map[string]*Report
	order   []string // insertion order, oldest first
}

// NewService creates the analysis service. transcriber may be nil when no
// provider credential is configured; media analyses then fail fast with a
// transcription.ConfigError while text analyses keep working.
func NewService(logger *slog.Logger, m *metrics.Metrics, transcriber Transcriber, config Config) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	if config.MaxReports <= 0 {
		config.MaxReports = DefaultMaxReports
	}

	return &Service{
		logger:               logger,
		metrics:              m,
		transcriber:          transcriber,
		textClassifier:       risk.NewTextClassifier(),
		transcriptClassifier: risk.NewTranscriptClassifier(),
		maxUploadBytes:       config.MaxUploadBytes,
		maxReports:           config.MaxReports,
		reports:              make(map[string]*Report),
	}
}

// AnalyzeText classifies user-typed text and stores the report. It never
// fails; text without evidence yields the zero-score verdict.
func (s *Service) AnalyzeText(text string) Report {
	verdict := s.textClassifier.Classify(text)

	explanation := verdict.Explanation
	if explanation == "" {
		explanation = "No evidence terms found."
	}

	report := &Report{
		ID:          uuid.NewString(),
		Channel:     ChannelText,
		CreatedAt:   time.Now().UTC(),
		Verdict:     verdict,
		Explanation: explanation,
		Highlights:  risk.Highlight(text, s.textClassifier.Keywords()),
	}
	s.store(report)

	s.logger.Info("Text analyzed",
		slog.String("report_id", report.ID),
		slog.String("label", string(verdict.Label)),
		slog.Int("score", verdict.Score),
		slog.Int("evidence_count", len(verdict.Evidence)),
	)
	if s.metrics != nil {
		s.metrics.RecordAnalysis(string(ChannelText), verdict.Score, verdict.Label == risk.LabelFraud)
	}

	return *report
}

// AnalyzeMedia validates the upload, obtains a transcript through the
// provider pipeline, classifies it, and stores the report. The call blocks
// for the duration of the provider job, potentially minutes. Every pipeline
// failure aborts immediately with the step's typed error; no partial report
// is stored.
func (s *Service) AnalyzeMedia(ctx context.Context, upload media.Upload) (Report, error) {
	if s.transcriber == nil {
		return Report{}, &transcription.ConfigError{Reason: "API key is missing; set ASSEMBLYAI_API_KEY"}
	}

	if err := media.Validate(upload, s.maxUploadBytes); err != nil {
		return Report{}, err
	}

	if s.metrics != nil {
		s.metrics.RecordTranscriptionStarted()
	}
	startTime := time.Now()

	outcome, err := s.transcriber.Transcribe(ctx, transcription.Request{
		Data:      upload.Data,
		MIMEType:  media.NormalizeMIME(upload.MIMEType, upload.Kind),
		Filename:  upload.Filename,
		MediaKind: upload.Kind,
	})
	if err != nil {
		s.recordPipelineFailure(err)
		s.logger.Error("Media analysis failed",
			slog.String("filename", upload.Filename),
			slog.String("media_kind", string(upload.Kind)),
			slog.String("error", err.Error()),
		)
		return Report{}, err
	}

	if s.metrics != nil {
		s.metrics.RecordTranscriptionSuccess(time.Since(startTime).Seconds())
	}

	verdict := s.transcriptClassifier.Classify(outcome.Text)

	report := &Report{
		ID:          uuid.NewString(),
		Channel:     channelFor(upload.Kind),
		CreatedAt:   time.Now().UTC(),
		Verdict:     verdict,
		Explanation: verdict.Explanation,
		Highlights:  risk.Highlight(outcome.Text, s.transcriptClassifier.Keywords()),
		Transcript:  outcome.Text,
		Filename:    outcome.Filename,
		MIMEType:    outcome.MIMEType,
	}
	s.store(report)

	s.logger.Info("Media analyzed",
		slog.String("report_id", report.ID),
		slog.String("filename", outcome.Filename),
		slog.String("media_kind", string(outcome.MediaKind)),
		slog.Int("transcript_length", len(outcome.Text)),
		slog.Int("score", verdict.Score),
		slog.Duration("elapsed", time.Since(startTime)),
	)
	if s.metrics != nil {
		s.metrics.RecordAnalysis(string(report.Channel), verdict.Score, verdict.Label == risk.LabelFraud)
	}

	return *report, nil
}

// recordPipelineFailure distinguishes a poll-ceiling timeout from other
// pipeline failures in the metrics.
func (s *Service) recordPipelineFailure(err error) {
	if s.metrics == nil {
		return
	}
	var timeoutErr *transcription.TimeoutError
	if errors.As(err, &timeoutErr) {
		s.metrics.RecordTranscriptionTimeout()
		return
	}
	s.metrics.RecordTranscriptionFailure()
}

// store inserts a report, evicting the oldest once the registry is full.
func (s *Service) store(report *Report) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.reports[report.ID] = report
	s.order = append(s.order, report.ID)

	for len(s.order) > s.maxReports {
		oldest := s.order[0]
		s.order = s.order[1:]
		delete(s.reports, oldest)
	}
}

// GetReport returns a snapshot of one report by ID.
func (s *Service) GetReport(id string) (Report, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	report, ok := s.reports[id]
	if !ok {
		return Report{}, false
	}
	return *report, true
}

// ListReports returns snapshots of all stored reports, newest first.
func (s *Service) ListReports() []Report {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]Report, 0, len(s.order))
	for i := len(s.order) - 1; i >= 0; i-- {
		if report, ok := s.reports[s.order[i]]; ok {
			out = append(out, *report)
		}
	}
	return out
}

// ReportCount returns the number of stored reports.
func (s *Service) ReportCount() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.reports)
}

// AssignAction records the user's decision on a report. This is the only
// mutation a report permits after creation.
func (s *Service) AssignAction(id string, action Action) (Report, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	report, ok := s.reports[id]
	if !ok {
		return Report{}, ErrReportNotFound
	}
	report.Action = action

	if s.metrics != nil {
		s.metrics.RecordActionChosen(string(action))
	}
	s.logger.Info("Report action assigned",
		slog.String("report_id", id),
		slog.String("action", string(action)),
	)

	return *report, nil
}

// TranscriptionStats returns provider client counters, or zeros when no
// provider is configured.
func (s *Service) TranscriptionStats() transcription.Stats {
	if s.transcriber == nil {
		return transcription.Stats{}
	}
	return s.transcriber.GetStats()
}

// TranscriptionConfigured reports whether a provider credential is present.
func (s *Service) TranscriptionConfigured() bool {
	return s.transcriber != nil
}
