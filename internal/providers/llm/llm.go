package llm

import "context"

type Message struct {
	Role    string // "user" | "assistant"
	Content string
}

type Provider interface {
	// Complete sends one chat turn and blocks until the model answers.
	// history must end with the user message being answered.
	Complete(ctx context.Context, system string, history []Message, temperature float32) (string, error)
	Close() error
}
