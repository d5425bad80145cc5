package transcription

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"sync"
	"time"
)

// Default configuration values. Poll interval and ceiling are the provider
// contract values; they are configurable only so tests can run without a
// real clock.
const (
	DefaultBaseURL        = "https://api.assemblyai.com"
	DefaultPollInterval   = 3 * time.Second
	DefaultPollTimeout    = 5 * time.Minute
	DefaultRequestTimeout = 30 * time.Second
)

// Provider job status values. Anything outside this set is treated as
// still in progress.
const (
	StatusQueued     = "queued"
	StatusProcessing = "processing"
	StatusCompleted  = "completed"
	StatusError      = "error"
)

// MediaKind distinguishes the two supported media channels.
type MediaKind string

const (
	// MediaAudio marks an audio submission.
	MediaAudio MediaKind = "audio"
	// MediaVideo marks a video submission.
	MediaVideo MediaKind = "video"
)

// Config contains transcription client configuration. The credential is
// injected here rather than read from the environment at call time.
type Config struct {
	BaseURL        string
	APIKey         string
	PollInterval   time.Duration
	PollTimeout    time.Duration
	RequestTimeout time.Duration
}

// Request is one immutable media submission: the raw payload plus the
// metadata echoed back in the outcome.
type Request struct {
	Data      []byte
	MIMEType  string
	Filename  string
	MediaKind MediaKind
}

// Outcome is the successful result of one transcription. It is produced only
// when the provider job reaches completed status; Text defaults to the empty
// string when the provider omits it.
type Outcome struct {
	Text      string
	Filename  string
	MIMEType  string
	MediaKind MediaKind
}

// Stats is a snapshot of client counters since startup.
type Stats struct {
	TotalRequests     uint64        `json:"total_requests"`
	SuccessRequests   uint64        `json:"success_requests"`
	FailedRequests    uint64        `json:"failed_requests"`
	TimedOutRequests  uint64        `json:"timed_out_requests"`
	PollAttempts      uint64        `json:"poll_attempts"`
	AvgTranscribeTime time.Duration `json:"avg_transcribe_time"`
}

// uploadResponse is the provider's upload endpoint response body.
type uploadResponse struct {
	UploadURL string `json:"upload_url"`
}

// jobResponse is the provider's job creation and poll response body.
type jobResponse struct {
	ID     string `json:"id"`
	Status string `json:"status"`
	Text   string `json:"text"`
	Error  string `json:"error"`
}

// Client drives the provider's upload -> create job -> poll protocol.
// It is safe for concurrent use; independent calls share nothing but the
// read-only configuration.
type Client struct {
	config     Config
	httpClient *http.Client
	logger     *slog.Logger

	// Statistics
	totalRequests     uint64
	successRequests   uint64
	failedRequests    uint64
	timedOutRequests  uint64
	pollAttempts      uint64
	avgTranscribeTime time.Duration

	mu sync.RWMutex
}

// NewClient creates a transcription client. A missing API key fails here,
// before any network activity.
func NewClient(config Config, logger *slog.Logger) (*Client, error) {
	if config.APIKey == "" {
		return nil, &ConfigError{Reason: "API key is missing; set ASSEMBLYAI_API_KEY"}
	}

	if config.BaseURL == "" {
		config.BaseURL = DefaultBaseURL
	}
	if config.PollInterval <= 0 {
		config.PollInterval = DefaultPollInterval
	}
	if config.PollTimeout <= 0 {
		config.PollTimeout = DefaultPollTimeout
	}
	if config.RequestTimeout <= 0 {
		config.RequestTimeout = DefaultRequestTimeout
	}

	if logger == nil {
		logger = slog.Default()
	}

	httpClient := &http.Client{
		Timeout: config.RequestTimeout,
		Transport: &http.Transport{
			MaxIdleConns:        100,
			MaxIdleConnsPerHost: 10,
			IdleConnTimeout:     90 * time.Second,
		},
	}

	return &Client{
		config:     config,
		httpClient: httpClient,
		logger:     logger,
	}, nil
}

// Transcribe runs the full pipeline for one request: upload the bytes,
// create a job for the uploaded location, then poll until the job reaches a
// terminal status or the poll ceiling is exceeded. Each step is strictly
// sequential and no failed step is retried. The call blocks for the duration
// of the provider job, potentially minutes.
func (c *Client) Transcribe(ctx context.Context, request Request) (Outcome, error) {
	c.incrementTotalRequests()
	startTime := time.Now()

	uploadURL, err := c.upload(ctx, request)
	if err != nil {
		c.incrementFailedRequests()
		return Outcome{}, err
	}

	jobID, err := c.createJob(ctx, uploadURL)
	if err != nil {
		c.incrementFailedRequests()
		return Outcome{}, err
	}

	c.logger.Info("Transcription job created",
		slog.String("job_id", jobID),
		slog.String("filename", request.Filename),
		slog.String("media_kind", string(request.MediaKind)),
	)

	outcome, err := c.poll(ctx, request, jobID)
	if err != nil {
		if _, ok := err.(*TimeoutError); ok {
			c.incrementTimedOutRequests()
		} else {
			c.incrementFailedRequests()
		}
		return Outcome{}, err
	}

	c.recordSuccess(time.Since(startTime))
	return outcome, nil
}

// upload sends the raw payload to the provider's binary upload endpoint and
// returns the upload location.
func (c *Client) upload(ctx context.Context, request Request) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost,
		c.config.BaseURL+"/v2/upload", bytes.NewReader(request.Data))
	if err != nil {
		return "", &UploadError{Message: "building upload request", Err: err}
	}
	req.Header.Set("authorization", c.config.APIKey)
	req.Header.Set("Content-Type", "application/octet-stream")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", &UploadError{Message: "upload request failed", Err: err}
	}
	defer resp.Body.Close()

	body, readErr := io.ReadAll(resp.Body)

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return "", &UploadError{Message: errorBody(body, readErr, "Upload failed")}
	}

	var parsed uploadResponse
	if readErr != nil {
		return "", &UploadError{Message: "reading upload response", Err: readErr}
	}
	if err := json.Unmarshal(body, &parsed); err != nil {
		return "", &UploadError{Message: "parsing upload response", Err: err}
	}
	if parsed.UploadURL == "" {
		return "", &UploadError{Message: "missing upload_url"}
	}

	return parsed.UploadURL, nil
}

// createJob submits the upload location to the provider's job-creation
// endpoint and returns the job identifier.
func (c *Client) createJob(ctx context.Context, uploadURL string) (string, error) {
	payload, err := json.Marshal(map[string]string{"audio_url": uploadURL})
	if err != nil {
		return "", &JobCreationError{Message: "encoding job request", Err: err}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost,
		c.config.BaseURL+"/v2/transcribe", bytes.NewReader(payload))
	if err != nil {
		return "", &JobCreationError{Message: "building job request", Err: err}
	}
	req.Header.Set("authorization", c.config.APIKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", &JobCreationError{Message: "job request failed", Err: err}
	}
	defer resp.Body.Close()

	body, readErr := io.ReadAll(resp.Body)

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return "", &JobCreationError{Message: errorBody(body, readErr, "Create job failed")}
	}

	var parsed jobResponse
	if readErr != nil {
		return "", &JobCreationError{Message: "reading job response", Err: readErr}
	}
	if err := json.Unmarshal(body, &parsed); err != nil {
		return "", &JobCreationError{Message: "parsing job response", Err: err}
	}
	if parsed.ID == "" {
		return "", &JobCreationError{Message: "missing job id"}
	}

	return parsed.ID, nil
}

// poll fetches job status at the configured interval until the job reaches a
// terminal status or the ceiling elapses. The ceiling is measured from the
// first poll attempt, so upload and job-creation latency never count against
// it. A status outside the known terminal set means the job is still in
// progress and polling continues.
func (c *Client) poll(ctx context.Context, request Request, jobID string) (Outcome, error) {
	started := time.Now()

	for time.Since(started) < c.config.PollTimeout {
		job, err := c.fetchJob(ctx, jobID)
		if err != nil {
			return Outcome{}, err
		}

		switch job.Status {
		case StatusCompleted:
			return Outcome{
				Text:      job.Text,
				Filename:  request.Filename,
				MIMEType:  request.MIMEType,
				MediaKind: request.MediaKind,
			}, nil
		case StatusError:
			message := job.Error
			if message == "" {
				message = "Transcription failed"
			}
			return Outcome{}, &JobFailedError{Message: message}
		}

		c.logger.Debug("Transcription job in progress",
			slog.String("job_id", jobID),
			slog.String("status", job.Status),
			slog.Duration("elapsed", time.Since(started)),
		)

		select {
		case <-time.After(c.config.PollInterval):
		case <-ctx.Done():
			return Outcome{}, ctx.Err()
		}
	}

	return Outcome{}, &TimeoutError{Ceiling: c.config.PollTimeout}
}

// fetchJob performs a single poll request. A non-success HTTP status is
// fatal; the poll call itself is never retried.
func (c *Client) fetchJob(ctx context.Context, jobID string) (jobResponse, error) {
	c.incrementPollAttempts()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet,
		fmt.Sprintf("%s/v2/transcribe/%s", c.config.BaseURL, jobID), nil)
	if err != nil {
		return jobResponse{}, &PollError{Message: "building poll request", Err: err}
	}
	req.Header.Set("authorization", c.config.APIKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return jobResponse{}, &PollError{Message: "poll request failed", Err: err}
	}
	defer resp.Body.Close()

	body, readErr := io.ReadAll(resp.Body)

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return jobResponse{}, &PollError{Message: errorBody(body, readErr, "Poll failed")}
	}

	var parsed jobResponse
	if readErr != nil {
		return jobResponse{}, &PollError{Message: "reading poll response", Err: readErr}
	}
	if err := json.Unmarshal(body, &parsed); err != nil {
		return jobResponse{}, &PollError{Message: "parsing poll response", Err: err}
	}

	return parsed, nil
}

// errorBody picks the provider's raw error text when available, otherwise
// the generic per-step fallback.
func errorBody(body []byte, readErr error, fallback string) string {
	if readErr != nil || len(body) == 0 {
		return fallback
	}
	return string(body)
}

// Statistics methods

func (c *Client) incrementTotalRequests() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.totalRequests++
}

func (c *Client) incrementFailedRequests() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.failedRequests++
}

func (c *Client) incrementTimedOutRequests() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.timedOutRequests++
}

func (c *Client) incrementPollAttempts() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.pollAttempts++
}

func (c *Client) recordSuccess(elapsed time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.successRequests++

	// Simple moving average
	if c.avgTranscribeTime == 0 {
		c.avgTranscribeTime = elapsed
	} else {
		c.avgTranscribeTime = (c.avgTranscribeTime + elapsed) / 2
	}
}

// GetStats returns a snapshot of client counters.
func (c *Client) GetStats() Stats {
	c.mu.RLock()
	defer c.mu.RUnlock()

	return Stats{
		TotalRequests:     c.totalRequests,
		SuccessRequests:   c.successRequests,
		FailedRequests:    c.failedRequests,
		TimedOutRequests:  c.timedOutRequests,
		PollAttempts:      c.pollAttempts,
		AvgTranscribeTime: c.avgTranscribeTime,
	}
}
