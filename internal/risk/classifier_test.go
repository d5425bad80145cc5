package risk

import (
	"reflect"
	"testing"
)

func TestTextClassifierFlagsEvidence(t *testing.T) {
	classifier := NewTextClassifier()

	input := "Urgent: Your account is blocked. Transfer the OTP now or the police will be notified."
	verdict := classifier.Classify(input)

	if verdict.Label != LabelFraud {
		t.Errorf("expected label %s, got %s", LabelFraud, verdict.Label)
	}
	if verdict.Score != 90 {
		t.Errorf("expected fixed score 90, got %d", verdict.Score)
	}
	if verdict.RecommendedAction != ActionBlock {
		t.Errorf("expected recommended action %s, got %s", ActionBlock, verdict.RecommendedAction)
	}

	for _, want := range []string{"urgent", "otp", "police"} {
		found := false
		for _, got := range verdict.Evidence {
			if got == want {
				found = true
				break
			}
		}
		if !found {
			t.Errorf("evidence %v missing expected keyword %q", verdict.Evidence, want)
		}
	}
}

func TestTextClassifierNoEvidence(t *testing.T) {
	classifier := NewTextClassifier()

	tests := []struct {
		name string
		text string
	}{
		{name: "benign text", text: "see you at lunch tomorrow"},
		{name: "empty text", text: ""},
		{name: "whitespace only", text: "   \n\t  "},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			verdict := classifier.Classify(tt.text)

			if verdict.Label != LabelUncertain {
				t.Errorf("expected label %s, got %s", LabelUncertain, verdict.Label)
			}
			if verdict.Score != 0 {
				t.Errorf("expected score 0, got %d", verdict.Score)
			}
			if len(verdict.Evidence) != 0 {
				t.Errorf("expected empty evidence, got %v", verdict.Evidence)
			}
			if verdict.Explanation != "" {
				t.Errorf("expected empty explanation, got %q", verdict.Explanation)
			}
			if verdict.RecommendedAction != ActionReview {
				t.Errorf("expected recommended action %s, got %s", ActionReview, verdict.RecommendedAction)
			}
		})
	}
}

func TestTextClassifierExplanation(t *testing.T) {
	classifier := NewTextClassifier()

	tests := []struct {
		name string
		text string
		want string
	}{
		{
			name: "single match",
			text: "this is urgent",
			want: "Contains urgent",
		},
		{
			name: "multiple matches joined in scan order",
			text: "urgent winner, share your otp",
			want: "Contains urgent, winner, otp",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			verdict := classifier.Classify(tt.text)
			if verdict.Explanation != tt.want {
				t.Errorf("expected explanation %q, got %q", tt.want, verdict.Explanation)
			}
		})
	}
}

func TestTranscriptClassifierScoring(t *testing.T) {
	classifier := NewTranscriptClassifier()

	tests := []struct {
		name         string
		transcript   string
		wantScore    int
		wantEvidence []string
	}{
		{
			name:         "no scam keywords",
			transcript:   "hello there, nothing unusual here",
			wantScore:    0,
			wantEvidence: []string{},
		},
		{
			name:         "three hits",
			transcript:   "urgent, transfer now, otp required",
			wantScore:    100, // min(100, 3*20+40)
			wantEvidence: []string{"transfer", "otp", "urgent"},
		},
		{
			name:         "single hit gets the floor",
			transcript:   "please share the otp",
			wantScore:    60, // 1*20+40
			wantEvidence: []string{"otp"},
		},
		{
			name:         "two hits",
			transcript:   "your card is blocked, act urgent",
			wantScore:    80, // 2*20+40
			wantEvidence: []string{"blocked", "urgent"},
		},
		{
			name:         "all five hits cap at 100",
			transcript:   "transfer the otp, account blocked, police involved, urgent",
			wantScore:    100,
			wantEvidence: []string{"transfer", "otp", "blocked", "police", "urgent"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			verdict := classifier.Classify(tt.transcript)

			if verdict.Score != tt.wantScore {
				t.Errorf("expected score %d, got %d", tt.wantScore, verdict.Score)
			}
			if !reflect.DeepEqual(verdict.Evidence, tt.wantEvidence) {
				t.Errorf("expected evidence %v, got %v", tt.wantEvidence, verdict.Evidence)
			}
		})
	}
}

func TestTranscriptClassifierExplanation(t *testing.T) {
	classifier := NewTranscriptClassifier()

	withText := classifier.Classify("just a normal call")
	if withText.Explanation != "Transcript analyzed. Risk derived from scam keyword presence." {
		t.Errorf("unexpected explanation for non-empty transcript: %q", withText.Explanation)
	}

	empty := classifier.Classify("")
	if empty.Explanation != "No transcript text returned." {
		t.Errorf("unexpected explanation for empty transcript: %q", empty.Explanation)
	}
}

func TestClassifyIsIdempotent(t *testing.T) {
	classifiers := map[string]*Classifier{
		"text":       NewTextClassifier(),
		"transcript": NewTranscriptClassifier(),
	}
	input := "URGENT: transfer now, the OTP is blocked"

	for name, classifier := range classifiers {
		t.Run(name, func(t *testing.T) {
			first := classifier.Classify(input)
			second := classifier.Classify(input)
			if !reflect.DeepEqual(first, second) {
				t.Errorf("classification is not deterministic:\nfirst:  %+v\nsecond: %+v", first, second)
			}
		})
	}
}

func TestEvidenceMonotonicity(t *testing.T) {
	classifier := NewTextClassifier()

	base := classifier.Classify("this is urgent")
	extended := classifier.Classify("this is urgent, you are a winner")

	if len(extended.Evidence) < len(base.Evidence) {
		t.Errorf("adding a matching keyword shrank evidence: %v -> %v", base.Evidence, extended.Evidence)
	}
	if base.Score != 90 || extended.Score != 90 {
		t.Errorf("fixed score must stay 90 once evidence exists, got %d and %d", base.Score, extended.Score)
	}
}

func TestCaseInsensitiveMatching(t *testing.T) {
	classifier := NewTextClassifier()

	verdict := classifier.Classify("CLICK NOW to VERIFY ACCOUNT")
	want := []string{"click now", "verify account"}
	if !reflect.DeepEqual(verdict.Evidence, want) {
		t.Errorf("expected evidence %v, got %v", want, verdict.Evidence)
	}
}

func TestScaledScore(t *testing.T) {
	tests := []struct {
		hits int
		want int
	}{
		{hits: 0, want: 0},
		{hits: 1, want: 60},
		{hits: 2, want: 80},
		{hits: 3, want: 100},
		{hits: 5, want: 100},
	}

	for _, tt := range tests {
		if got := ScaledScore(tt.hits); got != tt.want {
			t.Errorf("ScaledScore(%d) = %d, want %d", tt.hits, got, tt.want)
		}
	}
}
