package agents

import (
	"context"
	"errors"
	"strings"
	"testing"
)

func TestHintReturnsModelOutput(t *testing.T) {
	stub := respond("  Think about what happens to memory when references go out of scope.  ")
	h := NewHintAgent(stub, quietLogger())

	got := h.Hint(context.Background(), "How does garbage collection work?", "Python Developer", "Technical")
	if got != "Think about what happens to memory when references go out of scope." {
		t.Fatalf("hint = %q", got)
	}
}

func TestHintTruncatesLongOutput(t *testing.T) {
	stub := respond(strings.Repeat("x", 500))
	h := NewHintAgent(stub, quietLogger())

	got := h.Hint(context.Background(), "Q", "Python Developer", "Technical")
	if len(got) != maxHintLen+3 || !strings.HasSuffix(got, "...") {
		t.Fatalf("expected truncation to %d chars plus ellipsis, got len %d", maxHintLen, len(got))
	}
}

func TestHintFallbackOnFailureOrEmpty(t *testing.T) {
	h := NewHintAgent(failWith(errors.New("oracle down")), quietLogger())
	if got := h.Hint(context.Background(), "Q", "Python Developer", "Technical"); got != fallbackHint {
		t.Fatalf("expected fallback hint on failure, got %q", got)
	}

	h = NewHintAgent(respond("   "), quietLogger())
	if got := h.Hint(context.Background(), "Q", "Python Developer", "Technical"); got != fallbackHint {
		t.Fatalf("expected fallback hint on empty output, got %q", got)
	}
}
