// Package transcription implements the HTTP client for the external
// speech-to-text provider. It drives the provider's three-step protocol
// (upload raw bytes, create a transcription job, poll the job by identifier)
// as a strictly sequential pipeline with a bounded polling phase and typed
// per-step failure reporting. No step is retried; a transport failure aborts
// the pipeline immediately.
package transcription
