package agents

import (
	"context"
	"io"

	"github.com/sirupsen/logrus"

	"github.com/preplab/interviewd/internal/providers/llm"
)

// scriptedProvider replays canned replies in order; the last one repeats.
// It records the user prompt of every call.
type scriptedProvider struct {
	replies []reply
	calls   int
	prompts []string
}

type reply struct {
	out string
	err error
}

func (p *scriptedProvider) Complete(_ context.Context, _ string, history []llm.Message, _ float32) (string, error) {
	if len(history) > 0 {
		p.prompts = append(p.prompts, history[len(history)-1].Content)
	}
	idx := p.calls
	p.calls++
	if idx >= len(p.replies) {
		idx = len(p.replies) - 1
	}
	if idx < 0 {
		return "", nil
	}
	r := p.replies[idx]
	return r.out, r.err
}

func (p *scriptedProvider) Close() error { return nil }

func respond(outs ...string) *scriptedProvider {
	p := &scriptedProvider{}
	for _, out := range outs {
		p.replies = append(p.replies, reply{out: out})
	}
	return p
}

func failWith(err error) *scriptedProvider {
	return &scriptedProvider{replies: []reply{{err: err}}}
}

func quietLogger() *logrus.Logger {
	l := logrus.New()
	l.SetOutput(io.Discard)
	return l
}
