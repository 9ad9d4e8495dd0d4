package llm

import (
	"context"
	"errors"
	"strings"

	vertexgenai "cloud.google.com/go/vertexai/genai"
)

type VertexGemini struct {
	client *vertexgenai.Client
	model  string
}

func NewVertexGemini(ctx context.Context, projectID, location, modelName string) (*VertexGemini, error) {
	c, err := vertexgenai.NewClient(ctx, projectID, location)
	if err != nil {
		return nil, err
	}

	if modelName == "" {
		modelName = "gemini-1.5-flash"
	}

	return &VertexGemini{client: c, model: modelName}, nil
}

func (v *VertexGemini) Close() error { return v.client.Close() }

func (v *VertexGemini) Complete(ctx context.Context, system string, history []Message, temperature float32) (string, error) {
	if len(history) == 0 {
		return "", errors.New("empty history")
	}

	m := v.client.GenerativeModel(v.model)
	m.SetTemperature(temperature)
	if system != "" {
		m.SystemInstruction = &vertexgenai.Content{
			Parts: []vertexgenai.Part{vertexgenai.Text(system)},
		}
	}

	cs := m.StartChat()
	for _, msg := range history[:len(history)-1] {
		role := "user"
		if msg.Role == "assistant" {
			role = "model"
		}
		cs.History = append(cs.History, &vertexgenai.Content{
			Role:  role,
			Parts: []vertexgenai.Part{vertexgenai.Text(msg.Content)},
		})
	}

	resp, err := cs.SendMessage(ctx, vertexgenai.Text(history[len(history)-1].Content))
	if err != nil {
		return "", err
	}

	var sb strings.Builder
	for _, cand := range resp.Candidates {
		if cand.Content == nil {
			continue
		}
		for _, part := range cand.Content.Parts {
			if t, ok := part.(vertexgenai.Text); ok {
				sb.WriteString(string(t))
			}
		}
	}

	out := strings.TrimSpace(sb.String())
	if out == "" {
		return "", errors.New("empty model response")
	}
	return out, nil
}
