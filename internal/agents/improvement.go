package agents

import (
	"context"
	"fmt"
	"math"
	"strings"

	"github.com/montanaflynn/stats"
	"github.com/sirupsen/logrus"

	"github.com/preplab/interviewd/config"
	"github.com/preplab/interviewd/internal/models"
	"github.com/preplab/interviewd/internal/providers/llm"
)

// Improvement categories every summary reports on.
const (
	CategoryCommunication     = "Communication"
	CategoryKnowledgeAccuracy = "Knowledge Accuracy"
	CategoryClarity           = "Clarity"
)

var improvementCategories = []string{
	CategoryCommunication,
	CategoryKnowledgeAccuracy,
	CategoryClarity,
}

// ImprovementAdvisor aggregates the evaluation history into per-category
// averages and actionable improvement bullets, with a fixed bullet set as the
// safety net when generation or parsing fails.
type ImprovementAdvisor struct {
	llm llm.Provider
	log *logrus.Logger
}

func NewImprovementAdvisor(p llm.Provider, log *logrus.Logger) *ImprovementAdvisor {
	return &ImprovementAdvisor{llm: p, log: log}
}

// metricCategoryMap maps rubric metrics onto the three improvement categories.
func metricCategoryMap(interviewType string) map[string]string {
	if config.IsBehavioral(interviewType) {
		return map[string]string{
			"Communication Skill":  CategoryCommunication,
			"Situation Clarity":    CategoryClarity,
			"Task Definition":      CategoryClarity,
			"Action Effectiveness": CategoryKnowledgeAccuracy,
			"Result Impact":        CategoryKnowledgeAccuracy,
		}
	}
	return map[string]string{
		"Clarity of Communication": CategoryCommunication,
		"Technical Accuracy":       CategoryKnowledgeAccuracy,
		"Depth of Understanding":   CategoryClarity,
	}
}

// CategoryAverages averages all parsed scores per category across the
// session. A category with no contributing scores reports 0.0.
func (a *ImprovementAdvisor) CategoryAverages(evals []models.EvaluationRecord, interviewType string) map[string]float64 {
	mapping := metricCategoryMap(interviewType)

	collected := map[string][]float64{}
	for _, rec := range evals {
		for metric, category := range mapping {
			value, ok := rec.Evaluation.RubricScores[metric]
			if !ok {
				continue
			}
			if score, parsed := parseScore(value); parsed {
				collected[category] = append(collected[category], score)
			}
		}
	}

	averages := make(map[string]float64, len(improvementCategories))
	for _, category := range improvementCategories {
		scores := collected[category]
		if len(scores) == 0 {
			averages[category] = 0.0
			continue
		}
		mean, err := stats.Mean(scores)
		if err != nil {
			averages[category] = 0.0
			continue
		}
		averages[category] = math.Round(mean*10) / 10
	}
	return averages
}

// OverallScores averages every rubric metric across the session and formats
// it for the summary. Metrics with no parsed scores report "Score: 0/10".
func (a *ImprovementAdvisor) OverallScores(evals []models.EvaluationRecord, interviewType string) map[string]string {
	overall := map[string]string{}
	for _, metric := range Metrics(interviewType) {
		var scores []float64
		for _, rec := range evals {
			if value, ok := rec.Evaluation.RubricScores[metric]; ok {
				if score, parsed := parseScore(value); parsed {
					scores = append(scores, score)
				}
			}
		}
		if len(scores) == 0 {
			overall[metric] = "Score: 0/10"
			continue
		}
		mean, err := stats.Mean(scores)
		if err != nil {
			overall[metric] = "Score: 0/10"
			continue
		}
		overall[metric] = fmt.Sprintf("Score: %.1f/10", math.Round(mean*10)/10)
	}
	return overall
}

const improvementSystem = "You are an expert career coach who provides constructive, specific feedback to help candidates improve their interview performance."

// Generate produces per-category improvement bullets. Every bullet starts
// with a bolded key phrase; on any failure the fixed defaults are returned.
func (a *ImprovementAdvisor) Generate(ctx context.Context, evals []models.EvaluationRecord, jobRole, interviewType string) map[string]string {
	averages := a.CategoryAverages(evals, interviewType)
	prompt := improvementPrompt(evals, jobRole, interviewType, averages)

	improvements := map[string]string{}
	if raw, err := a.llm.Complete(ctx, improvementSystem, []llm.Message{{Role: "user", Content: prompt}}, 0.7); err == nil {
		improvements = parseImprovements(raw)
	} else {
		a.log.WithError(err).Warn("improvement generation call failed")
	}

	if empty(improvements) {
		if raw, err := a.llm.Complete(ctx, "", []llm.Message{{Role: "user", Content: prompt}}, 0.7); err == nil {
			improvements = parseImprovements(raw)
		} else {
			a.log.WithError(err).Warn("improvement generation retry failed")
		}
	}

	if empty(improvements) {
		return defaultImprovements()
	}

	for _, category := range improvementCategories {
		bullets := normalizeBullets(improvements[category])
		if bullets == "" {
			bullets = "- **Focus Area**: Continue strengthening this skill based on the interview feedback."
		}
		improvements[category] = bullets
	}
	return improvements
}

func empty(improvements map[string]string) bool {
	for _, v := range improvements {
		if strings.TrimSpace(v) != "" {
			return false
		}
	}
	return true
}

var improvementMarkers = map[string]string{
	"COMMUNICATION_IMPROVEMENTS:":      CategoryCommunication,
	"KNOWLEDGE_ACCURACY_IMPROVEMENTS:": CategoryKnowledgeAccuracy,
	"CLARITY_IMPROVEMENTS:":            CategoryClarity,
}

func parseImprovements(raw string) map[string]string {
	improvements := map[string]string{}

	var current string
	for _, line := range strings.Split(raw, "\n") {
		line = strings.TrimSpace(line)

		if category, ok := improvementMarkers[firstToken(line)]; ok {
			current = category
			if _, after, found := strings.Cut(line, ":"); found {
				if content := strings.TrimSpace(after); content != "" {
					improvements[current] = content
				}
			}
			continue
		}
		if current == "" || line == "" {
			continue
		}
		if improvements[current] != "" {
			improvements[current] += "\n" + line
		} else {
			improvements[current] = line
		}
	}
	return improvements
}

func firstToken(line string) string {
	for marker := range improvementMarkers {
		if strings.HasPrefix(line, marker) {
			return marker
		}
	}
	return ""
}

// normalizeBullets coerces every line into the "- **Key Phrase**: text" shape.
func normalizeBullets(block string) string {
	var out []string
	for _, line := range nonEmptyLines(block) {
		if !strings.HasPrefix(line, "-") {
			line = "- " + line
		}
		if !strings.Contains(line, "**") {
			if prefix, rest, found := strings.Cut(line, ":"); found {
				key := strings.TrimSpace(strings.TrimLeft(prefix, "- "))
				line = fmt.Sprintf("- **%s**:%s", key, rest)
			} else {
				content := strings.TrimSpace(strings.TrimLeft(line, "- "))
				line = fmt.Sprintf("- **%s**", content)
			}
		}
		out = append(out, line)
	}
	return strings.Join(out, "\n")
}

// defaultImprovements is the hardcoded safety net, returned verbatim when
// generation fails entirely.
func defaultImprovements() map[string]string {
	return map[string]string{
		CategoryCommunication:     "- **Incorporate Examples**: Relate your explanations to concrete projects or experiences to keep your responses engaging and relevant.\n- **Practice Active Listening**: Rephrase or confirm the question before answering to stay aligned with the interviewer.",
		CategoryKnowledgeAccuracy: "- **Deepen Technical Knowledge**: Refresh core concepts and be ready to explain them accurately.\n- **Stay Updated**: Keep up with recent developments so your answers reflect current best practices.",
		CategoryClarity:           "- **Use Structured Responses**: Organise answers with clear frameworks such as STAR.\n- **Summarise Key Points**: Close with a brief recap to reinforce your main message.",
	}
}

func improvementPrompt(evals []models.EvaluationRecord, jobRole, interviewType string, averages map[string]float64) string {
	// First five evaluations are enough context for the advisor.
	var feedback []string
	for i, rec := range evals {
		if i == 5 {
			break
		}
		feedback = append(feedback, fmt.Sprintf("Feedback: %s\nDetailed: %s", rec.Evaluation.ShortFeedback, rec.Evaluation.RawText))
	}

	return fmt.Sprintf(`Based on the following interview evaluations for a %s position (%s interview), provide specific areas of improvement for each focus area. You must prioritise the rubric guidance provided below when crafting suggestions.

RUBRIC TO FOLLOW:
%s

INTERVIEW FEEDBACK SUMMARY:
%s

AVERAGE SCORES (OUT OF 10):
- Communication: %.1f/10
- Knowledge Accuracy: %.1f/10
- Clarity: %.1f/10

INSTRUCTIONS:
- Give 2-3 actionable suggestions per focus area.
- Each suggestion MUST begin with "- **Key Phrase**:" where the bold phrase clearly names the improvement (e.g., "- **Incorporate Examples**: ...").
- Keep the tone constructive and specific, referencing interview observations when helpful.

FORMAT YOUR RESPONSE EXACTLY AS:
COMMUNICATION_IMPROVEMENTS:
- **Key Phrase**: suggestion text
- **Key Phrase**: suggestion text

KNOWLEDGE_ACCURACY_IMPROVEMENTS:
- **Key Phrase**: suggestion text
- **Key Phrase**: suggestion text

CLARITY_IMPROVEMENTS:
- **Key Phrase**: suggestion text
- **Key Phrase**: suggestion text`,
		jobRole, interviewType,
		rubricGuidance(interviewType),
		strings.Join(feedback, "\n\n"),
		averages[CategoryCommunication],
		averages[CategoryKnowledgeAccuracy],
		averages[CategoryClarity])
}

func rubricGuidance(interviewType string) string {
	if config.IsBehavioral(interviewType) {
		return `COMMUNICATION GUIDANCE:
- **Incorporate Examples**: When discussing concepts, include specific examples tied to real projects or experiences.
- **Practice Active Listening**: Confirm understanding of the question before answering to stay aligned and engaged.
- **Use Structured Responses**: Organize answers with clear frameworks (e.g., STAR) so your points remain coherent.

KNOWLEDGE ACCURACY GUIDANCE (STAR Framework):
- **Describe Situation Clearly**: Start by setting the context - when, where, and what was happening.
- **Define Your Task**: Clearly explain your role and responsibilities in that situation.
- **Detail Your Actions**: Be specific about the steps you took - what did you actually do?
- **Highlight Results**: Quantify outcomes when possible - what was the impact? What did you learn?

CLARITY GUIDANCE:
- **Organize Ideas Before Speaking**: Take a breath to outline your answer mentally before responding.
- **Use Signposting Language**: Guide the interviewer through your answer with cues like "First... Next... Finally...".
- **Summarize Key Points**: End answers with a brief recap to reinforce your main message.`
	}

	return `COMMUNICATION GUIDANCE:
- **Incorporate Examples**: When discussing concepts, include specific examples tied to real projects or experiences.
- **Practice Active Listening**: Confirm understanding of the question before answering to stay aligned and engaged.
- **Use Structured Responses**: Organize answers with clear frameworks (e.g., STAR) so your points remain coherent.

KNOWLEDGE ACCURACY GUIDANCE:
- **Deepen Technical Knowledge**: Review core fundamentals (e.g., backpropagation, architectures, tuning) to articulate them accurately.
- **Stay Updated**: Follow current research, articles, and industry advances so your answers reflect up-to-date knowledge.
- **Practice Problem-Solving**: Work through coding challenges or case studies to sharpen accuracy under interview conditions.

CLARITY GUIDANCE:
- **Organize Ideas Before Speaking**: Take a breath to outline your answer mentally before responding.
- **Use Signposting Language**: Guide the interviewer through your answer with cues like "First... Next... Finally...".
- **Summarize Key Points**: End answers with a brief recap to reinforce your main message.`
}
