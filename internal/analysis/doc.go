// Package analysis orchestrates content screening: typed text is classified
// directly, media uploads are validated, transcribed via the provider
// pipeline, and the transcript is classified. Finished reports are kept in a
// bounded in-memory registry so callers can list them and assign a final
// action to a verdict.
package analysis
