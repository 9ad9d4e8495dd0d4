package agents

import (
	"context"
	"errors"
	"testing"

	"github.com/preplab/interviewd/internal/models"
)

func TestDetectFromModelOutput(t *testing.T) {
	stub := respond("The user's intent is: repeat_question")
	d := NewIntentDetector(stub, quietLogger())

	got := d.Detect(context.Background(), "Sorry, what was that?", "Tell me about channels.")
	if got != models.IntentRepeatQuestion {
		t.Fatalf("expected repeat_question, got %s", got)
	}
	if stub.calls != 1 {
		t.Fatalf("expected 1 oracle call, got %d", stub.calls)
	}
}

func TestDetectPriorityOrder(t *testing.T) {
	// Both names present: the fixed priority order decides.
	stub := respond("could be hint_request or repeat_question")
	d := NewIntentDetector(stub, quietLogger())

	got := d.Detect(context.Background(), "huh?", "Q")
	if got != models.IntentRepeatQuestion {
		t.Fatalf("expected repeat_question to win priority, got %s", got)
	}
}

func TestDetectRetriesOnceThenKeywords(t *testing.T) {
	stub := respond("no canonical name here", "still nothing usable")
	d := NewIntentDetector(stub, quietLogger())

	got := d.Detect(context.Background(), "hold on a second", "Q")
	if got != models.IntentNeedTime {
		t.Fatalf("expected need_time from keyword fallback, got %s", got)
	}
	if stub.calls != 2 {
		t.Fatalf("expected exactly 2 oracle calls, got %d", stub.calls)
	}
}

func TestDetectKeywordFallbackWhenOracleFails(t *testing.T) {
	cases := []struct {
		input string
		want  models.Intent
	}{
		{"Can you repeat that?", models.IntentRepeatQuestion},
		{"I didn't catch the last part", models.IntentRepeatQuestion},
		{"Can you help me out here?", models.IntentHintRequest},
		{"this one is really difficult", models.IntentHintRequest},
		{"let me think about it", models.IntentNeedTime},
		{"I would reach for goroutines and a worker pool", models.IntentNormalAnswer},
	}

	for _, tc := range cases {
		t.Run(tc.input, func(t *testing.T) {
			d := NewIntentDetector(failWith(errors.New("oracle down")), quietLogger())
			got := d.Detect(context.Background(), tc.input, "any question")
			if got != tc.want {
				t.Fatalf("Detect(%q) = %s, want %s", tc.input, got, tc.want)
			}
		})
	}
}

func TestDetectEmptyInputSkipsOracle(t *testing.T) {
	stub := respond("repeat_question")
	d := NewIntentDetector(stub, quietLogger())

	got := d.Detect(context.Background(), "   ", "Q")
	if got != models.IntentNormalAnswer {
		t.Fatalf("expected normal_answer for blank input, got %s", got)
	}
	if stub.calls != 0 {
		t.Fatalf("expected no oracle calls for blank input, got %d", stub.calls)
	}
}
