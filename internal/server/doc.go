// Package server implements the HTTP API for the fraud screening service.
// It exposes the text and media analysis endpoints, the report registry,
// and monitoring/management endpoints, and maps each distinct pipeline
// failure kind to a distinct HTTP status and message.
package server
