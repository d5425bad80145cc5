// Package risk implements keyword-evidence fraud classification.
// It provides two configured variants of one case-insensitive substring scan:
// an evidence-only classifier for typed text (fixed score on any match) and a
// scaled classifier for transcripts, plus a highlighter that partitions text
// into plain and matched segments for display.
package risk
