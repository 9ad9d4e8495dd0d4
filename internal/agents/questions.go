package agents

import (
	"context"
	"fmt"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/preplab/interviewd/config"
	"github.com/preplab/interviewd/internal/providers/llm"
)

// QuestionGenerator produces the fixed question set for a session. It may
// return fewer than count when generation underperforms; callers handle short
// lists. For recognized roles the skills fallback keeps it from returning
// nothing at all.
type QuestionGenerator struct {
	llm llm.Provider
	log *logrus.Logger
}

func NewQuestionGenerator(p llm.Provider, log *logrus.Logger) *QuestionGenerator {
	return &QuestionGenerator{llm: p, log: log}
}

const questionSystem = "You are an expert at creating interview questions that effectively assess candidates' knowledge and skills."

func (g *QuestionGenerator) Generate(ctx context.Context, jobRole, interviewType string, count int) []string {
	prompt := questionPrompt(jobRole, interviewType, count)

	var questions []string
	if raw, err := g.llm.Complete(ctx, questionSystem, []llm.Message{{Role: "user", Content: prompt}}, 0.7); err == nil {
		questions = parseListLines(raw, 0)
	} else {
		g.log.WithError(err).Warn("question generation call failed")
	}

	if len(questions) < count {
		if raw, err := g.llm.Complete(ctx, "", []llm.Message{{Role: "user", Content: prompt}}, 0.7); err == nil {
			questions = parseListLines(raw, 10)
		} else {
			g.log.WithError(err).Warn("question generation retry failed")
		}
	}

	if len(questions) > count {
		questions = questions[:count]
	}
	if len(questions) > 0 {
		return questions
	}

	skills := config.SkillsFor(jobRole)
	if len(skills) > count {
		skills = skills[:count]
	}
	fallback := make([]string, 0, len(skills))
	for _, skill := range skills {
		fallback = append(fallback, fmt.Sprintf("Tell me about your experience with %s", skill))
	}
	return fallback
}

func questionPrompt(jobRole, interviewType string, count int) string {
	if config.IsBehavioral(interviewType) {
		return fmt.Sprintf(`Generate %d behavioral interview questions using the STAR (Situation, Task, Action, Result) framework.

Requirements:
- Questions should be general and applicable to all professions (NOT job-specific)
- Focus on soft skills: teamwork, adaptability, leadership, communication, problem-solving
- Questions should prompt candidates to share real-life work experiences
- Use the STAR framework structure (Situation, Task, Action, Result)
- Make questions realistic and engaging
- Examples of good questions:
  * "Tell me about a time you had to deal with a difficult teammate."
  * "Describe a challenge you faced and how you overcame it."
  * "Share an example of when you had to manage pressure under a tight deadline."
  * "Tell me about a time you took initiative to solve a problem."
  * "Describe a situation where you learned from a mistake."
- Return only the questions, one per line, numbered 1-%d
- Do not include explanations or answers`, count, count)
	}

	skills := strings.Join(config.SkillsFor(jobRole), ", ")
	return fmt.Sprintf(`Generate %d %s interview questions for a %s skilled in %s.

Requirements:
- Questions should be specific to the %s role and %s interview type
- Questions should test knowledge and understanding of: %s
- Make questions realistic and challenging
- Return only the questions, one per line, numbered 1-%d
- Do not include explanations or answers`,
		count, strings.ToLower(interviewType), jobRole, skills, jobRole, interviewType, skills, count)
}
