package agents

import (
	"context"
	"errors"
	"strings"
	"testing"
)

func plannedCount(t *testing.T, prompt string) int {
	t.Helper()
	switch {
	case strings.Contains(prompt, "numbered 1-1"):
		return 1
	case strings.Contains(prompt, "numbered 1-2"):
		return 2
	}
	t.Fatalf("prompt does not state a question count: %q", prompt)
	return 0
}

func TestFollowUpGenerateParsesNumberedList(t *testing.T) {
	stub := respond("1. What specific steps did you take in that situation?\n2. How did your team respond to the change?\n3. What would you do differently next time?")
	p := NewFollowUpPlanner(stub, NewRand(7), quietLogger())

	got := p.Generate(context.Background(), "Tell me about a conflict.", "We disagreed about scope...", "AI Engineer", "Behavioral")

	n := plannedCount(t, stub.prompts[0])
	if len(got) != n {
		t.Fatalf("expected %d follow-ups, got %d: %v", n, len(got), got)
	}
	if got[0] != "What specific steps did you take in that situation?" {
		t.Fatalf("unexpected first follow-up: %q", got[0])
	}
	if stub.calls != 1 {
		t.Fatalf("expected 1 oracle call, got %d", stub.calls)
	}
}

func TestFollowUpGenerateDiscardsShortLines(t *testing.T) {
	stub := respond("1. Why?\n2. Ok\n3. How did you measure the outcome of that decision?")
	p := NewFollowUpPlanner(stub, NewRand(7), quietLogger())

	got := p.Generate(context.Background(), "Q", "A", "Python Developer", "Technical")
	for _, q := range got {
		if len(q) <= minFollowUpLen {
			t.Fatalf("short line survived parsing: %q", q)
		}
	}
}

func TestFollowUpGenerateRetriesWhenUnderTarget(t *testing.T) {
	// First reply has no parseable questions, second does.
	stub := respond(
		"I cannot produce follow-ups right now.",
		"1. Can you walk me through the tradeoffs you considered?\n2. What metrics confirmed the improvement?",
	)
	p := NewFollowUpPlanner(stub, NewRand(3), quietLogger())

	got := p.Generate(context.Background(), "Q", "A", "Python Developer", "Technical")
	if stub.calls != 2 {
		t.Fatalf("expected retry, got %d calls", stub.calls)
	}
	if len(got) == 0 {
		t.Fatal("expected follow-ups from retry output")
	}
	if n := plannedCount(t, stub.prompts[0]); len(got) > n {
		t.Fatalf("result exceeds planned count %d: %v", n, got)
	}
}

func TestFollowUpGenerateEmptyOnOracleFailure(t *testing.T) {
	stub := failWith(errors.New("oracle down"))
	p := NewFollowUpPlanner(stub, NewRand(1), quietLogger())

	got := p.Generate(context.Background(), "Q", "A", "Python Developer", "Technical")
	if len(got) != 0 {
		t.Fatalf("expected no follow-ups on failure, got %v", got)
	}
	if stub.calls != 2 {
		t.Fatalf("expected exactly 2 attempts, got %d", stub.calls)
	}
}

func TestFollowUpGenerateDeterministicUnderSeed(t *testing.T) {
	out := "1. What was the hardest part of that migration?\n2. How did you validate the rollback path?"

	a := NewFollowUpPlanner(respond(out), NewRand(42), quietLogger()).
		Generate(context.Background(), "Q", "A", "Python Developer", "Technical")
	b := NewFollowUpPlanner(respond(out), NewRand(42), quietLogger()).
		Generate(context.Background(), "Q", "A", "Python Developer", "Technical")

	if len(a) != len(b) {
		t.Fatalf("same seed produced different counts: %d vs %d", len(a), len(b))
	}
	for i := range a {
		if a[i] != b[i] {
			t.Fatalf("same seed produced different follow-ups at %d: %q vs %q", i, a[i], b[i])
		}
	}
}
