package analysis

import (
	"fmt"
	"time"

	"github.com/ajaysinh69/fraudshield-ai/internal/risk"
	"github.com/ajaysinh69/fraudshield-ai/internal/transcription"
)

// Channel identifies how the analyzed content was submitted.
type Channel string

const (
	// ChannelText is user-typed text.
	ChannelText Channel = "text"
	// ChannelAudio is an uploaded audio file.
	ChannelAudio Channel = "audio"
	// ChannelVideo is an uploaded video file.
	ChannelVideo Channel = "video"
)

// Action is the user's final decision on a report. The classifier only ever
// recommends; it never assigns one of these.
type Action string

const (
	// ActionBlock blocks the analyzed content.
	ActionBlock Action = "block"
	// ActionReport reports the content to the relevant authority.
	ActionReport Action = "report"
	// ActionIgnore dismisses the report.
	ActionIgnore Action = "ignore"
)

// ParseAction validates a user-supplied action string.
func ParseAction(value string) (Action, error) {
	switch Action(value) {
	case ActionBlock, ActionReport, ActionIgnore:
		return Action(value), nil
	default:
		return "", fmt.Errorf("unknown action %q", value)
	}
}

// Report is the stored result of one analysis. Everything except Action is
// immutable once the report is created.
type Report struct {
	ID          string         `json:"id"`
	Channel     Channel        `json:"channel"`
	CreatedAt   time.Time      `json:"created_at"`
	Verdict     risk.Verdict   `json:"verdict"`
	Explanation string         `json:"explanation"`
	Highlights  []risk.Segment `json:"highlights"`
	Transcript  string         `json:"transcript,omitempty"`
	Filename    string         `json:"filename,omitempty"`
	MIMEType    string         `json:"mime_type,omitempty"`
	Action      Action         `json:"action,omitempty"`
}

// channelFor maps a media kind to its submission channel.
func channelFor(kind transcription.MediaKind) Channel {
	if kind == transcription.MediaVideo {
		return ChannelVideo
	}
	return ChannelAudio
}
