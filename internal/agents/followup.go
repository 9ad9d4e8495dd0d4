package agents

import (
	"context"
	"fmt"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/preplab/interviewd/config"
	"github.com/preplab/interviewd/internal/providers/llm"
)

// FollowUpPlanner generates 1-2 probing questions after a main-question
// answer. An empty result means "no follow-up this turn", never an error.
type FollowUpPlanner struct {
	llm llm.Provider
	rng *Rand
	log *logrus.Logger
}

func NewFollowUpPlanner(p llm.Provider, rng *Rand, log *logrus.Logger) *FollowUpPlanner {
	return &FollowUpPlanner{llm: p, rng: rng, log: log}
}

const followUpSystem = "You excel at asking follow-up questions that reveal deeper understanding and clarify candidate responses."

// Lines this short are treated as parsing noise, not real questions.
const minFollowUpLen = 10

func (f *FollowUpPlanner) Generate(ctx context.Context, question, answer, jobRole, interviewType string) []string {
	n := 1 + f.rng.Intn(2)
	prompt := followUpPrompt(question, answer, jobRole, interviewType, n)

	var followUps []string
	if raw, err := f.llm.Complete(ctx, followUpSystem, []llm.Message{{Role: "user", Content: prompt}}, 0.7); err == nil {
		followUps = parseListLines(raw, minFollowUpLen)
	} else {
		f.log.WithError(err).Warn("follow-up generation call failed")
	}

	if len(followUps) < n {
		if raw, err := f.llm.Complete(ctx, "", []llm.Message{{Role: "user", Content: prompt}}, 0.7); err == nil {
			followUps = parseListLines(raw, minFollowUpLen)
		} else {
			f.log.WithError(err).Warn("follow-up generation retry failed")
		}
	}

	if len(followUps) > n {
		followUps = followUps[:n]
	}
	return followUps
}

func followUpPrompt(question, answer, jobRole, interviewType string, n int) string {
	if config.IsBehavioral(interviewType) {
		return fmt.Sprintf(`Based on the following behavioral interview interaction, generate %d natural, conversational follow-up question(s) that probe deeper into the candidate's STAR response.

Original Question: %s
Candidate Answer: %s

Requirements:
- Questions should be context-aware and build naturally on the candidate's answer
- Focus on STAR framework elements: probe for more details about Situation, Task, Action, or Result
- Use natural, conversational language (not robotic)
- Examples of good follow-ups:
  * "What specific steps did you take in that situation?"
  * "How did your team respond?"
  * "What was the outcome of that approach?"
  * "Can you tell me more about the challenges you faced?"
- Do NOT repeat the original question
- Make them specific and relevant to what the candidate shared
- Return only the questions, one per line, numbered 1-%d`, n, question, answer, n)
	}

	skills := strings.Join(config.SkillsFor(jobRole), ", ")
	return fmt.Sprintf(`Based on the following interview interaction, generate %d follow-up question(s) that probe deeper or clarify the candidate's response.

Original Question: %s
Candidate Answer: %s
Job Role: %s (%s interview)
Required Skills: %s

Requirements:
- Questions should be context-aware and build on the candidate's answer
- They should probe for clarification, deeper understanding, or extension
- Do NOT repeat the original question
- Make them specific and relevant
- Return only the questions, one per line, numbered 1-%d`, n, question, answer, jobRole, interviewType, skills, n)
}
