package agents

import (
	"context"
	"fmt"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/preplab/interviewd/config"
	"github.com/preplab/interviewd/internal/models"
	"github.com/preplab/interviewd/internal/providers/llm"
)

// Evaluator scores one answer against the interview-type rubric. The model is
// asked for a rigidly formatted block; parsing tolerates format drift and
// every failure path degrades to usable output, so Evaluate never errors.
type Evaluator struct {
	llm llm.Provider
	log *logrus.Logger
}

func NewEvaluator(p llm.Provider, log *logrus.Logger) *Evaluator {
	return &Evaluator{llm: p, log: log}
}

var behavioralMetrics = []string{
	"Situation Clarity",
	"Task Definition",
	"Action Effectiveness",
	"Result Impact",
	"Communication Skill",
}

var defaultMetrics = []string{
	"Technical Accuracy",
	"Clarity of Communication",
	"Depth of Understanding",
	"Relevance to Role",
	"Overall Quality",
}

// Metrics returns the rubric metric set for the given interview type.
func Metrics(interviewType string) []string {
	if config.IsBehavioral(interviewType) {
		return behavioralMetrics
	}
	return defaultMetrics
}

const (
	genericFeedback  = "Thank you for your answer.\nLet's continue with the next question."
	continuationLine = "Let's continue."

	irrelevantFirstLine  = "I notice your answer doesn't directly address the question."
	irrelevantSecondLine = "Please provide a relevant answer that specifically addresses what was asked."
)

func (e *Evaluator) Evaluate(ctx context.Context, question, answer, jobRole, interviewType string) models.Evaluation {
	behavioral := config.IsBehavioral(interviewType)
	prompt := evaluationPrompt(question, answer, jobRole, interviewType)
	system := evaluatorSystem(behavioral)
	metrics := Metrics(interviewType)

	var raw, feedback string
	scores := map[string]string{}

	if out, err := e.llm.Complete(ctx, system, []llm.Message{{Role: "user", Content: prompt}}, 0.7); err == nil {
		raw = out
		feedback, scores = parseEvaluation(out)
	} else {
		e.log.WithError(err).Warn("answer evaluation call failed")
	}

	// Second, simpler attempt when the first yielded no usable feedback.
	if feedback == "" {
		if out, err := e.llm.Complete(ctx, "", []llm.Message{{Role: "user", Content: prompt}}, 0.7); err == nil {
			raw = out
			feedback = extractFeedbackLoose(out)
			scores = extractMetricLines(out, metrics)
		} else {
			e.log.WithError(err).Warn("answer evaluation retry failed")
		}
	}

	if feedback == "" {
		feedback = genericFeedback
	}
	feedback = normalizeFeedback(feedback)

	irrelevant := detectIrrelevance(scores, raw, behavioral)
	if irrelevant {
		feedback = overrideIrrelevantFeedback(feedback)
	}

	return models.Evaluation{
		ShortFeedback: feedback,
		RubricScores:  scores,
		RawText:       raw,
		IsIrrelevant:  irrelevant,
	}
}

// parseEvaluation walks the marker grammar: a SHORT_FEEDBACK section of up to
// two non-empty lines, a DETAILED_EVALUATION section of "Metric: value" pairs,
// and trailing ADDITIONAL_NOTES.
func parseEvaluation(raw string) (feedback string, scores map[string]string) {
	scores = map[string]string{}

	var feedbackLines []string
	inFeedback := false
	inDetailed := false

	for _, line := range strings.Split(raw, "\n") {
		line = strings.TrimSpace(line)
		switch {
		case strings.HasPrefix(line, "SHORT_FEEDBACK:"):
			if first := strings.TrimSpace(strings.TrimPrefix(line, "SHORT_FEEDBACK:")); first != "" {
				feedbackLines = append(feedbackLines, first)
			}
			inFeedback = true
			inDetailed = false
		case strings.HasPrefix(line, "DETAILED_EVALUATION:"):
			inFeedback = false
			inDetailed = true
		case strings.HasPrefix(line, "ADDITIONAL_NOTES:"):
			inFeedback = false
			inDetailed = false
		case inFeedback && line != "":
			if len(feedbackLines) < 2 {
				feedbackLines = append(feedbackLines, line)
			}
			if len(feedbackLines) == 2 {
				inFeedback = false
			}
		case inDetailed && strings.Contains(line, ":"):
			metric, value, _ := strings.Cut(line, ":")
			metric = strings.TrimSpace(metric)
			value = strings.TrimSpace(value)
			if metric != "" {
				scores[metric] = value
			}
		}
	}

	return strings.Join(feedbackLines, "\n"), scores
}

// extractFeedbackLoose is the retry-path extraction: split on the markers when
// present, otherwise take the first two meaningful lines.
func extractFeedbackLoose(raw string) string {
	text := raw
	if _, after, found := strings.Cut(raw, "SHORT_FEEDBACK:"); found {
		text = after
		if before, _, found := strings.Cut(text, "DETAILED_EVALUATION:"); found {
			text = before
		}
	}
	lines := nonEmptyLines(text)
	if len(lines) == 0 {
		if len(raw) > 200 {
			return raw[:200]
		}
		return strings.TrimSpace(raw)
	}
	if len(lines) > 2 {
		lines = lines[:2]
	}
	return strings.Join(lines, "\n")
}

// extractMetricLines scans for each known metric name anywhere in the output.
func extractMetricLines(raw string, metrics []string) map[string]string {
	scores := map[string]string{}
	lines := strings.Split(raw, "\n")
	for _, metric := range metrics {
		for _, line := range lines {
			if !strings.Contains(line, metric) {
				continue
			}
			if _, value, found := strings.Cut(line, ":"); found {
				scores[metric] = strings.TrimSpace(value)
			} else {
				scores[metric] = "N/A"
			}
			break
		}
	}
	return scores
}

// normalizeFeedback coerces feedback to exactly two non-empty lines.
func normalizeFeedback(feedback string) string {
	lines := nonEmptyLines(feedback)
	switch {
	case len(lines) == 0:
		return genericFeedback
	case len(lines) == 1:
		return lines[0] + "\n" + continuationLine
	default:
		return strings.Join(lines[:2], "\n")
	}
}

var irrelevanceKeywords = []string{
	"irrelevant", "not relevant", "off-topic", "unrelated",
	"doesn't address", "does not address",
}

var irrelevanceTextKeywords = []string{
	"irrelevant", "not relevant", "off-topic", "unrelated",
	"doesn't address the question", "does not address the question",
}

var lowRelevancePhrases = []string{"low relevance", "poor relevance", "lack of relevance"}

// detectIrrelevance flags answers that do not address the question. The score
// path uses the Relevance to Role metric; behavioral rubrics have no such
// metric and rely on the raw-text keyword scan, which additionally requires a
// low-relevance phrase to co-occur so stray mentions of "relevance" do not
// trip it.
func detectIrrelevance(scores map[string]string, raw string, behavioral bool) bool {
	if !behavioral {
		if relevance, ok := scores["Relevance to Role"]; ok {
			if score, parsed := parseScore(relevance); parsed {
				if score <= 4 {
					return true
				}
			} else if containsAny(strings.ToLower(relevance), irrelevanceKeywords) {
				return true
			}
		}
	}

	lower := strings.ToLower(raw)
	if containsAny(lower, irrelevanceTextKeywords) &&
		strings.Contains(lower, "relevance") &&
		containsAny(lower, lowRelevancePhrases) {
		return true
	}
	return false
}

// overrideIrrelevantFeedback rewrites normalized feedback so the candidate is
// explicitly asked for a relevant answer. Runs after normalization, as the
// final step.
func overrideIrrelevantFeedback(feedback string) string {
	lines := nonEmptyLines(feedback)
	first := irrelevantFirstLine
	if len(lines) > 0 && len(lines[0]) > 20 {
		first = lines[0]
	}
	return first + "\n" + irrelevantSecondLine
}

func evaluatorSystem(behavioral bool) string {
	if behavioral {
		return "You are an experienced behavioral interviewer who evaluates answers using the STAR framework. Always write feedback in exactly 2 lines, directly addressing the answer without starting with phrases like 'The candidate provided'. Be conversational, warm, and natural. Focus on how well the candidate structured their response using Situation, Task, Action, and Result."
	}
	return "You are an experienced technical interviewer who provides balanced, helpful feedback. Always write feedback in exactly 2 lines, directly addressing the answer without starting with phrases like 'The candidate provided'. Be conversational and natural."
}

func evaluationPrompt(question, answer, jobRole, interviewType string) string {
	if config.IsBehavioral(interviewType) {
		return fmt.Sprintf(`Evaluate the following behavioral interview answer using the STAR (Situation, Task, Action, Result) framework.

Question: %s
Candidate Answer: %s

Provide:
1. A SHORT 2-line feedback (immediate response) - MUST be exactly 2 lines
2. A DETAILED rubric evaluation with scores on:
   - Situation Clarity (1-10) - How well did the candidate describe the context/situation?
   - Task Definition (1-10) - How clearly did they explain their role and responsibilities?
   - Action Effectiveness (1-10) - How well did they describe the specific actions they took?
   - Result Impact (1-10) - How well did they explain the outcomes and impact?
   - Communication Skill (1-10) - How clear and structured was their communication?

IMPORTANT GUIDELINES:
- The SHORT_FEEDBACK must be exactly 2 lines
- Do NOT start with "The candidate provided" or similar phrases
- Write feedback directly addressing the answer quality, insights, or areas for improvement
- Be concise, constructive, and conversational
- Use natural language that flows well
- Focus on STAR framework elements: Situation, Task, Action, Result
- CRITICAL: If the answer is IRRELEVANT to the question (doesn't address the question, is off-topic), the SHORT_FEEDBACK MUST explicitly ask the candidate to provide a relevant answer that addresses the question

Format your response as:
SHORT_FEEDBACK: [exactly 2 lines of feedback]
DETAILED_EVALUATION:
Situation Clarity: [score]/10 - [brief explanation]
Task Definition: [score]/10 - [brief explanation]
Action Effectiveness: [score]/10 - [brief explanation]
Result Impact: [score]/10 - [brief explanation]
Communication Skill: [score]/10 - [brief explanation]
ADDITIONAL_NOTES: [any additional observations]`, question, answer)
	}

	skills := strings.Join(config.SkillsFor(jobRole), ", ")
	return fmt.Sprintf(`Evaluate the following interview answer for a %s position (%s interview).

Question: %s
Candidate Answer: %s
Required Skills: %s

Provide:
1. A SHORT 2-line feedback (immediate response) - MUST be exactly 2 lines
2. A DETAILED rubric evaluation with scores on:
   - Technical Accuracy (1-10)
   - Clarity of Communication (1-10)
   - Depth of Understanding (1-10)
   - Relevance to Role (1-10)
   - Overall Quality (1-10)

IMPORTANT GUIDELINES:
- The SHORT_FEEDBACK must be exactly 2 lines
- Do NOT start with "The candidate provided" or similar phrases
- Write feedback directly addressing the answer quality, insights, or areas for improvement
- Be concise, constructive, and conversational
- Use natural language that flows well
- CRITICAL: If the answer is IRRELEVANT to the question (doesn't address the question, is off-topic, or unrelated to the role), the SHORT_FEEDBACK MUST explicitly ask the candidate to provide a relevant answer that addresses the question

Format your response as:
SHORT_FEEDBACK: [exactly 2 lines of feedback]
DETAILED_EVALUATION:
Technical Accuracy: [score]/10 - [brief explanation]
Clarity of Communication: [score]/10 - [brief explanation]
Depth of Understanding: [score]/10 - [brief explanation]
Relevance to Role: [score]/10 - [brief explanation]
Overall Quality: [score]/10 - [brief explanation]
ADDITIONAL_NOTES: [any additional observations]`, jobRole, interviewType, question, answer, skills)
}
