package agents

import (
	"context"
	"fmt"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/preplab/interviewd/config"
	"github.com/preplab/interviewd/internal/providers/llm"
)

// Recruiter owns the conversational framing of the interview: welcome and
// closing messages plus the canned polite phrases between turns.
type Recruiter struct {
	llm llm.Provider
	rng *Rand
	log *logrus.Logger
}

func NewRecruiter(p llm.Provider, rng *Rand, log *logrus.Logger) *Recruiter {
	return &Recruiter{llm: p, rng: rng, log: log}
}

var nextQuestionMessages = []string{
	"Great! Let's move on to the next question.",
	"Excellent! Here's the next question for you.",
	"Thank you for that answer. Let's continue with the next question.",
	"Well done! Moving forward to the next question.",
	"I appreciate your response. Let's proceed to the next question.",
	"Good answer! Here's what I'd like to ask next.",
	"Thanks for sharing that. Let's explore the next question.",
	"That's helpful. Moving on to the next question now.",
}

// PoliteMessage returns the canned phrase for a turn transition. kind "next"
// draws from a pool so consecutive transitions do not sound identical.
func (r *Recruiter) PoliteMessage(kind string) string {
	switch kind {
	case "repeat":
		return "Of course! Let me repeat that question for you."
	case "pause":
		return "Take your time. I'm here whenever you're ready to continue."
	case "welcome":
		return "Welcome! I'm excited to learn more about your background."
	case "next":
		return nextQuestionMessages[r.rng.Intn(len(nextQuestionMessages))]
	case "complete":
		return "Thank you for completing the interview! I'll prepare your detailed feedback now."
	default:
		return ""
	}
}

// WelcomeMessage greets the candidate at session start. Only behavioral
// interviews open with one; other types return "".
func (r *Recruiter) WelcomeMessage(ctx context.Context, name, interviewType string) string {
	if !config.IsBehavioral(interviewType) {
		return ""
	}

	fallback := fmt.Sprintf("Hi %s, welcome to your behavioral mock interview. I'll ask a few questions to understand how you handle real-life situations at work.", name)

	prompt := fmt.Sprintf(`Generate a warm, professional welcome message for a behavioral mock interview.

Candidate Name: %s

Requirements:
- Start with a friendly greeting using the candidate's name
- Welcome them to their behavioral mock interview
- Briefly explain that you'll ask questions to understand how they handle real-life situations at work
- Keep it conversational and human-like (not robotic)
- Maximum 2-3 sentences
- Be warm, professional, and encouraging

Example format: "Hi [Name], welcome to your behavioral mock interview. I'll ask a few questions to understand how you handle real-life situations at work."

Generate the welcome message:`, name)

	raw, err := r.llm.Complete(ctx, "", []llm.Message{{Role: "user", Content: prompt}}, 0.8)
	if err != nil {
		r.log.WithError(err).Warn("welcome message generation failed")
		return fallback
	}
	msg := trimQuotes(raw)
	if msg == "" {
		return fallback
	}
	return msg
}

// ClosingMessage wraps up the interview. Behavioral interviews get a
// personalized model-written message referencing the candidate's average
// score; other types use a fixed template with no oracle call.
func (r *Recruiter) ClosingMessage(ctx context.Context, name, interviewType string, overallScores map[string]string) string {
	if !config.IsBehavioral(interviewType) {
		return fmt.Sprintf("Thank you, %s, for completing the interview. Your detailed feedback is ready.", name)
	}

	avg := averageOverallScore(overallScores)
	fallback := fmt.Sprintf("Thank you, %s. You showed strong communication and thoughtful examples. Keep structuring your answers with clear results to make them even stronger.", name)

	prompt := fmt.Sprintf(`Generate a warm, professional closing message for a behavioral mock interview.

Candidate Name: %s
Average Performance Score: %.1f/10

Requirements:
- Thank the candidate by name
- Provide a brief, encouraging summary of their performance
- Mention specific strengths observed (e.g., communication, thoughtful examples)
- Give one constructive tip for improvement (e.g., structuring answers with clear results)
- Keep it conversational and human-like (not robotic)
- Maximum 2-3 sentences
- Be warm, professional, and encouraging

Example format: "Thank you, [Name]. You showed strong communication and thoughtful examples. Keep structuring your answers with clear results to make them even stronger."

Generate the closing message:`, name, avg)

	raw, err := r.llm.Complete(ctx, "", []llm.Message{{Role: "user", Content: prompt}}, 0.8)
	if err != nil {
		r.log.WithError(err).Warn("closing message generation failed")
		return fallback
	}
	msg := trimQuotes(raw)
	if msg == "" {
		return fallback
	}
	return msg
}

// averageOverallScore averages the numeric parts of "Score: X/10" values.
func averageOverallScore(overallScores map[string]string) float64 {
	var sum float64
	var n int
	for _, v := range overallScores {
		if _, after, found := strings.Cut(v, ":"); found {
			if score, ok := parseScore(after); ok {
				sum += score
				n++
			}
		}
	}
	if n == 0 {
		return 0
	}
	return sum / float64(n)
}

func trimQuotes(s string) string {
	s = strings.TrimSpace(s)
	s = strings.Trim(s, `"'`)
	return strings.TrimSpace(s)
}
