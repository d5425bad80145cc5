package risk

import (
	"fmt"
	"strings"
)

// Label is the coarse outcome of a classification.
type Label string

const (
	// LabelFraud indicates at least one evidence keyword was found.
	LabelFraud Label = "FRAUD"
	// LabelUncertain indicates no evidence keyword was found.
	LabelUncertain Label = "UNCERTAIN"
)

// RecommendedAction is the classifier's suggestion to the caller. The caller
// decides the final action; the classifier never applies one itself.
type RecommendedAction string

const (
	// ActionBlock is recommended when evidence was found.
	ActionBlock RecommendedAction = "BLOCK"
	// ActionReview is recommended when no evidence was found.
	ActionReview RecommendedAction = "REVIEW"
)

// Verdict is the immutable output of one classification call.
type Verdict struct {
	Label             Label             `json:"label"`
	Score             int               `json:"score"`
	Evidence          []string          `json:"evidence"`
	Explanation       string            `json:"explanation"`
	RecommendedAction RecommendedAction `json:"recommended_action"`
}

// Policy parameterizes the shared keyword scan with variant-specific scoring
// and explanation rules.
type Policy struct {
	// Score maps the number of matched keywords to a risk score.
	Score func(hits int) int
	// Explain builds the human-readable explanation from the analyzed text
	// and the matched evidence.
	Explain func(text string, evidence []string) string
}

// Classifier scans text for a fixed keyword list and produces a Verdict
// according to its Policy. It is pure and safe for concurrent use.
type Classifier struct {
	keywords []string
	policy   Policy
}

// New creates a classifier over the given keyword list and policy.
func New(keywords []string, policy Policy) *Classifier {
	return &Classifier{
		keywords: keywords,
		policy:   policy,
	}
}

// DefaultTextKeywords is the evidence list for user-typed text.
func DefaultTextKeywords() []string {
	return []string{
		"urgent",
		"click now",
		"verify account",
		"suspended",
		"winner",
		"congratulations",
		"transfer now",
		"otp",
		"account blocked",
		"legal action",
		"police",
	}
}

// DefaultTranscriptKeywords is the evidence list for transcribed speech.
func DefaultTranscriptKeywords() []string {
	return []string{"transfer", "otp", "blocked", "police", "urgent"}
}

// NewTextClassifier returns the evidence-only variant: any match yields the
// fixed score of 90, no match yields 0. The score is intentionally binary
// rather than proportional to match count; the substring heuristic claims
// evidence presence, not calibrated probability.
func NewTextClassifier() *Classifier {
	return New(DefaultTextKeywords(), Policy{
		Score: func(hits int) int {
			if hits > 0 {
				return 90
			}
			return 0
		},
		Explain: func(_ string, evidence []string) string {
			if len(evidence) == 0 {
				return ""
			}
			return fmt.Sprintf("Contains %s", strings.Join(evidence, ", "))
		},
	})
}

// NewTranscriptClassifier returns the scaled variant used for transcripts:
// min(100, hits*20+40) when at least one keyword matches, 0 otherwise.
func NewTranscriptClassifier() *Classifier {
	return New(DefaultTranscriptKeywords(), Policy{
		Score: ScaledScore,
		Explain: func(text string, _ []string) string {
			if len(text) > 0 {
				return "Transcript analyzed. Risk derived from scam keyword presence."
			}
			return "No transcript text returned."
		},
	})
}

// ScaledScore is the transcript scoring formula. The constant 40 floor is
// preserved as observed in production behavior.
func ScaledScore(hits int) int {
	if hits == 0 {
		return 0
	}
	score := hits*20 + 40
	if score > 100 {
		return 100
	}
	return score
}

// Keywords returns the classifier's keyword list in scan order.
func (c *Classifier) Keywords() []string {
	out := make([]string, len(c.keywords))
	copy(out, c.keywords)
	return out
}

// Classify scans text against the keyword list and returns the verdict.
// Matching is case-insensitive substring containment; evidence preserves
// keyword-list scan order. Classify never fails: empty or unmatched input
// yields the zero-evidence verdict.
func (c *Classifier) Classify(text string) Verdict {
	lowered := strings.ToLower(text)

	evidence := make([]string, 0, len(c.keywords))
	for _, keyword := range c.keywords {
		if strings.Contains(lowered, strings.ToLower(keyword)) {
			evidence = append(evidence, keyword)
		}
	}

	verdict := Verdict{
		Score:       c.policy.Score(len(evidence)),
		Evidence:    evidence,
		Explanation: c.policy.Explain(text, evidence),
	}

	if len(evidence) > 0 {
		verdict.Label = LabelFraud
		verdict.RecommendedAction = ActionBlock
	} else {
		verdict.Label = LabelUncertain
		verdict.RecommendedAction = ActionReview
	}

	return verdict
}
