package media

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/ajaysinh69/fraudshield-ai/internal/transcription"
)

// DefaultMaxUploadBytes caps media payloads at 50 MB.
const DefaultMaxUploadBytes = 50 << 20

// ValidationError reports an upload rejected before any provider contact.
type ValidationError struct {
	Reason string
}

func (e *ValidationError) Error() string {
	return e.Reason
}

// Upload is one user-submitted media payload with its declared metadata.
type Upload struct {
	Data     []byte
	Filename string
	MIMEType string
	Kind     transcription.MediaKind
}

var audioExtensions = map[string]bool{
	".mp3": true,
	".wav": true,
	".m4a": true,
}

var videoExtensions = map[string]bool{
	".mp4": true,
	".mov": true,
	".avi": true,
}

// Validate checks an upload against the media constraints. maxBytes <= 0
// applies DefaultMaxUploadBytes.
func Validate(upload Upload, maxBytes int64) error {
	if maxBytes <= 0 {
		maxBytes = DefaultMaxUploadBytes
	}

	if len(upload.Data) == 0 {
		return &ValidationError{Reason: "uploaded file is empty"}
	}
	if int64(len(upload.Data)) > maxBytes {
		return &ValidationError{Reason: fmt.Sprintf("uploaded file exceeds the %d byte limit", maxBytes)}
	}

	extension := strings.ToLower(filepath.Ext(upload.Filename))

	switch upload.Kind {
	case transcription.MediaAudio:
		if !audioExtensions[extension] {
			return &ValidationError{Reason: "Please upload a valid audio/video file."}
		}
	case transcription.MediaVideo:
		if !videoExtensions[extension] {
			return &ValidationError{Reason: "Please upload a valid audio/video file."}
		}
	default:
		return &ValidationError{Reason: fmt.Sprintf("unknown media kind %q", upload.Kind)}
	}

	return nil
}

// NormalizeMIME returns the declared MIME type, or the per-kind fallback when
// the caller did not declare one.
func NormalizeMIME(mimeType string, kind transcription.MediaKind) string {
	if mimeType != "" {
		return mimeType
	}
	if kind == transcription.MediaVideo {
		return "video/mp4"
	}
	return "audio/mpeg"
}
