package media

import (
	"errors"
	"testing"

	"github.com/ajaysinh69/fraudshield-ai/internal/transcription"
)

func TestValidate(t *testing.T) {
	tests := []struct {
		name        string
		upload      Upload
		maxBytes    int64
		expectError bool
	}{
		{
			name: "valid mp3 audio",
			upload: Upload{
				Data:     []byte("audio bytes"),
				Filename: "call.mp3",
				Kind:     transcription.MediaAudio,
			},
		},
		{
			name: "valid wav with upper-case extension",
			upload: Upload{
				Data:     []byte("audio bytes"),
				Filename: "CALL.WAV",
				Kind:     transcription.MediaAudio,
			},
		},
		{
			name: "valid mov video",
			upload: Upload{
				Data:     []byte("video bytes"),
				Filename: "clip.mov",
				Kind:     transcription.MediaVideo,
			},
		},
		{
			name: "audio extension rejected for video kind",
			upload: Upload{
				Data:     []byte("bytes"),
				Filename: "call.mp3",
				Kind:     transcription.MediaVideo,
			},
			expectError: true,
		},
		{
			name: "unsupported extension",
			upload: Upload{
				Data:     []byte("bytes"),
				Filename: "document.pdf",
				Kind:     transcription.MediaAudio,
			},
			expectError: true,
		},
		{
			name: "missing extension",
			upload: Upload{
				Data:     []byte("bytes"),
				Filename: "recording",
				Kind:     transcription.MediaAudio,
			},
			expectError: true,
		},
		{
			name: "empty payload",
			upload: Upload{
				Data:     nil,
				Filename: "call.mp3",
				Kind:     transcription.MediaAudio,
			},
			expectError: true,
		},
		{
			name: "payload over the limit",
			upload: Upload{
				Data:     make([]byte, 1024),
				Filename: "call.mp3",
				Kind:     transcription.MediaAudio,
			},
			maxBytes:    512,
			expectError: true,
		},
		{
			name: "unknown media kind",
			upload: Upload{
				Data:     []byte("bytes"),
				Filename: "call.mp3",
				Kind:     transcription.MediaKind("image"),
			},
			expectError: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := Validate(tt.upload, tt.maxBytes)

			if tt.expectError {
				var validationErr *ValidationError
				if !errors.As(err, &validationErr) {
					t.Errorf("expected ValidationError, got %v", err)
				}
				return
			}
			if err != nil {
				t.Errorf("expected upload to validate, got %v", err)
			}
		})
	}
}

func TestNormalizeMIME(t *testing.T) {
	tests := []struct {
		name     string
		mimeType string
		kind     transcription.MediaKind
		want     string
	}{
		{name: "declared type wins", mimeType: "audio/wav", kind: transcription.MediaAudio, want: "audio/wav"},
		{name: "audio fallback", mimeType: "", kind: transcription.MediaAudio, want: "audio/mpeg"},
		{name: "video fallback", mimeType: "", kind: transcription.MediaVideo, want: "video/mp4"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := NormalizeMIME(tt.mimeType, tt.kind); got != tt.want {
				t.Errorf("NormalizeMIME(%q, %s) = %q, want %q", tt.mimeType, tt.kind, got, tt.want)
			}
		})
	}
}
