package agents

import (
	"context"
	"fmt"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/preplab/interviewd/internal/models"
	"github.com/preplab/interviewd/internal/providers/llm"
)

// IntentDetector maps a free-text candidate turn onto one of the four
// conversational intents. It never fails: when the model is unavailable or
// unusable it falls back to a deterministic keyword heuristic.
type IntentDetector struct {
	llm llm.Provider
	log *logrus.Logger
}

func NewIntentDetector(p llm.Provider, log *logrus.Logger) *IntentDetector {
	return &IntentDetector{llm: p, log: log}
}

const intentSystem = "You are an expert at understanding conversational intent and user needs from context."

// canonicalIntents is the whitelist matched against model output, in fixed
// priority order; the first substring hit wins.
var canonicalIntents = []models.Intent{
	models.IntentRepeatQuestion,
	models.IntentHintRequest,
	models.IntentNeedTime,
	models.IntentNormalAnswer,
}

func (d *IntentDetector) Detect(ctx context.Context, userInput, currentQuestion string) models.Intent {
	if strings.TrimSpace(userInput) == "" {
		return models.IntentNormalAnswer
	}

	prompt := intentPrompt(userInput, currentQuestion)

	for attempt := 0; attempt < 2; attempt++ {
		out, err := d.llm.Complete(ctx, intentSystem, []llm.Message{{Role: "user", Content: prompt}}, 0.3)
		if err != nil {
			d.log.WithError(err).WithField("attempt", attempt+1).Debug("intent classification call failed")
			continue
		}
		if intent, ok := matchIntent(out); ok {
			return intent
		}
	}

	return keywordIntent(userInput)
}

func matchIntent(out string) (models.Intent, bool) {
	lower := strings.ToLower(out)
	for _, intent := range canonicalIntents {
		if strings.Contains(lower, string(intent)) {
			return intent, true
		}
	}
	return "", false
}

// keywordIntent is the deterministic fallback classifier. It is usable on its
// own, independent of any live text-generation service.
func keywordIntent(userInput string) models.Intent {
	lower := strings.ToLower(userInput)
	switch {
	case containsAny(lower, []string{"repeat", "again", "didn't catch", "didn't hear", "what did you say", "say that"}):
		return models.IntentRepeatQuestion
	case containsAny(lower, []string{"hint", "help", "not sure", "unsure", "hard", "difficult", "stuck"}):
		return models.IntentHintRequest
	case containsAny(lower, []string{"wait", "hold on", "give me", "moment", "think", "pause"}):
		return models.IntentNeedTime
	default:
		return models.IntentNormalAnswer
	}
}

func intentPrompt(userInput, currentQuestion string) string {
	return fmt.Sprintf(`Analyze the following user input from an interview candidate and determine their intent.
The current question is: %s

User input: "%s"

Determine the user's intent based on the natural language meaning, not keywords. Classify as one of:
- "repeat_question": User wants to hear the question again, is confused, didn't catch it, or asks for clarification
- "hint_request": User is unsure, asking for help, expressing difficulty, or needs guidance
- "need_time": User wants to pause, needs time to think, or is hesitating
- "normal_answer": User is providing an actual answer to the question

Examples:
- "Sorry, I didn't catch that" -> repeat_question
- "What did you say again?" -> repeat_question
- "Can you repeat that?" -> repeat_question
- "I'm not sure" -> hint_request
- "This is hard" -> hint_request
- "Can you help me?" -> hint_request
- "Give me a moment" -> need_time
- "Let me think" -> need_time
- "Hold on" -> need_time

Respond with ONLY one word: repeat_question, hint_request, need_time, or normal_answer`, currentQuestion, userInput)
}
