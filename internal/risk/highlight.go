package risk

import (
	"regexp"
	"strings"
)

// Segment is one slice of highlighted text. Match reports whether the slice
// matched an evidence keyword; Text preserves the original casing.
type Segment struct {
	Text  string `json:"text"`
	Match bool   `json:"match"`
}

// Highlight partitions text into an ordered sequence of plain and matched
// segments using a single case-insensitive alternation over the keyword list.
// Matching is greedy left-to-right with first match winning at each position,
// so highlights never overlap. Concatenating all segment texts reproduces the
// input exactly.
func Highlight(text string, keywords []string) []Segment {
	if text == "" {
		return nil
	}

	quoted := make([]string, 0, len(keywords))
	for _, keyword := range keywords {
		if keyword != "" {
			quoted = append(quoted, regexp.QuoteMeta(keyword))
		}
	}
	if len(quoted) == 0 {
		return []Segment{{Text: text}}
	}

	pattern := regexp.MustCompile("(?i)(" + strings.Join(quoted, "|") + ")")

	segments := make([]Segment, 0, 4)
	last := 0
	for _, loc := range pattern.FindAllStringIndex(text, -1) {
		if loc[0] > last {
			segments = append(segments, Segment{Text: text[last:loc[0]]})
		}
		segments = append(segments, Segment{Text: text[loc[0]:loc[1]], Match: true})
		last = loc[1]
	}
	if last < len(text) {
		segments = append(segments, Segment{Text: text[last:]})
	}

	return segments
}
