package agents

import (
	"context"
	"fmt"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/preplab/interviewd/config"
	"github.com/preplab/interviewd/internal/providers/llm"
)

// HintAgent produces a short guiding hint for the active question without
// revealing the answer.
type HintAgent struct {
	llm llm.Provider
	log *logrus.Logger
}

func NewHintAgent(p llm.Provider, log *logrus.Logger) *HintAgent {
	return &HintAgent{llm: p, log: log}
}

const hintSystem = "You are skilled at guiding candidates with subtle hints that help them think without giving away the solution."

const maxHintLen = 300

const fallbackHint = "Take a moment to structure your thoughts. Start with the core concept the question is asking about, then build on it with an example from your own experience."

func (h *HintAgent) Hint(ctx context.Context, question, jobRole, interviewType string) string {
	prompt := hintPrompt(question, jobRole, interviewType)

	raw, err := h.llm.Complete(ctx, hintSystem, []llm.Message{{Role: "user", Content: prompt}}, 0.7)
	if err != nil {
		h.log.WithError(err).Warn("hint generation call failed")
		return fallbackHint
	}

	hint := strings.TrimSpace(raw)
	if hint == "" {
		return fallbackHint
	}
	if len(hint) > maxHintLen {
		hint = hint[:maxHintLen] + "..."
	}
	return hint
}

func hintPrompt(question, jobRole, interviewType string) string {
	if config.IsBehavioral(interviewType) {
		return fmt.Sprintf(`Provide a short, guiding hint for the following behavioral interview question using the STAR framework. Do NOT reveal the full answer or solution.

Question: %s

Requirements:
- Keep it concise (1-2 sentences)
- Guide the candidate to use the STAR framework (Situation, Task, Action, Result)
- Suggest they recall a specific experience and structure it clearly
- Be encouraging and supportive
- Example: Try recalling a specific experience - start by describing the situation first, then your role, actions, and final outcome.`, question)
	}

	skills := strings.Join(config.SkillsFor(jobRole), ", ")
	return fmt.Sprintf(`Provide a short, guiding hint for the following interview question. Do NOT reveal the full answer or solution.

Question: %s
Job Role: %s (%s interview)
Required Skills: %s

Requirements:
- Keep it concise (1-2 sentences)
- Provide guidance without spoiling the answer
- Help the candidate think in the right direction
- Be encouraging and supportive`, question, jobRole, interviewType, skills)
}
