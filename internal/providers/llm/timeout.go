package llm

import (
	"context"
	"time"
)

type timeoutProvider struct {
	next Provider
	d    time.Duration
}

// WithTimeout bounds every Complete call with a deadline. A timed-out call
// returns context.DeadlineExceeded and is handled by callers like any other
// oracle failure.
func WithTimeout(p Provider, d time.Duration) Provider {
	if d <= 0 {
		return p
	}
	return &timeoutProvider{next: p, d: d}
}

func (t *timeoutProvider) Complete(ctx context.Context, system string, history []Message, temperature float32) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, t.d)
	defer cancel()
	return t.next.Complete(ctx, system, history, temperature)
}

func (t *timeoutProvider) Close() error { return t.next.Close() }
