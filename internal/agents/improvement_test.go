package agents

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/preplab/interviewd/internal/models"
)

func evalRecord(scores map[string]string) models.EvaluationRecord {
	return models.EvaluationRecord{
		Question:   "Q",
		Evaluation: models.Evaluation{ShortFeedback: "ok\nok", RubricScores: scores},
	}
}

func TestCategoryAveragesTechnicalMapping(t *testing.T) {
	a := NewImprovementAdvisor(respond(""), quietLogger())
	evals := []models.EvaluationRecord{
		evalRecord(map[string]string{
			"Technical Accuracy":       "8/10 - good",
			"Clarity of Communication": "6/10 - fine",
			"Depth of Understanding":   "7/10 - solid",
			"Relevance to Role":        "9/10 - strong", // unmapped, ignored
		}),
		evalRecord(map[string]string{
			"Technical Accuracy":       "6/10",
			"Clarity of Communication": "7/10",
			"Depth of Understanding":   "8/10",
		}),
	}

	got := a.CategoryAverages(evals, "Technical")
	if got[CategoryKnowledgeAccuracy] != 7.0 {
		t.Fatalf("Knowledge Accuracy = %v, want 7.0", got[CategoryKnowledgeAccuracy])
	}
	if got[CategoryCommunication] != 6.5 {
		t.Fatalf("Communication = %v, want 6.5", got[CategoryCommunication])
	}
	if got[CategoryClarity] != 7.5 {
		t.Fatalf("Clarity = %v, want 7.5", got[CategoryClarity])
	}
}

func TestCategoryAveragesEmptyCategoryReportsZero(t *testing.T) {
	a := NewImprovementAdvisor(respond(""), quietLogger())
	evals := []models.EvaluationRecord{
		evalRecord(map[string]string{"Technical Accuracy": "8/10"}),
	}

	got := a.CategoryAverages(evals, "Technical")
	if got[CategoryCommunication] != 0.0 {
		t.Fatalf("category with no scores = %v, want 0.0", got[CategoryCommunication])
	}
	if got[CategoryClarity] != 0.0 {
		t.Fatalf("category with no scores = %v, want 0.0", got[CategoryClarity])
	}
	if got[CategoryKnowledgeAccuracy] != 8.0 {
		t.Fatalf("Knowledge Accuracy = %v, want 8.0", got[CategoryKnowledgeAccuracy])
	}
}

func TestCategoryAveragesBehavioralMapping(t *testing.T) {
	a := NewImprovementAdvisor(respond(""), quietLogger())
	evals := []models.EvaluationRecord{
		evalRecord(map[string]string{
			"Communication Skill":  "8/10",
			"Situation Clarity":    "6/10",
			"Task Definition":      "8/10",
			"Action Effectiveness": "5/10",
			"Result Impact":        "7/10",
		}),
	}

	got := a.CategoryAverages(evals, "Behavioral")
	if got[CategoryCommunication] != 8.0 {
		t.Fatalf("Communication = %v, want 8.0", got[CategoryCommunication])
	}
	if got[CategoryClarity] != 7.0 {
		t.Fatalf("Clarity = %v, want 7.0", got[CategoryClarity])
	}
	if got[CategoryKnowledgeAccuracy] != 6.0 {
		t.Fatalf("Knowledge Accuracy = %v, want 6.0", got[CategoryKnowledgeAccuracy])
	}
}

func TestOverallScoresFormatting(t *testing.T) {
	a := NewImprovementAdvisor(respond(""), quietLogger())
	evals := []models.EvaluationRecord{
		evalRecord(map[string]string{"Technical Accuracy": "8/10 - good"}),
		evalRecord(map[string]string{"Technical Accuracy": "7/10 - fine"}),
	}

	got := a.OverallScores(evals, "Technical")
	if got["Technical Accuracy"] != "Score: 7.5/10" {
		t.Fatalf("Technical Accuracy = %q, want %q", got["Technical Accuracy"], "Score: 7.5/10")
	}
	// Metrics never scored still appear, at zero.
	if got["Overall Quality"] != "Score: 0/10" {
		t.Fatalf("Overall Quality = %q, want %q", got["Overall Quality"], "Score: 0/10")
	}
	if len(got) != len(Metrics("Technical")) {
		t.Fatalf("expected an entry per rubric metric, got %d", len(got))
	}
}

func TestGenerateParsesMarkedSections(t *testing.T) {
	stub := respond(`COMMUNICATION_IMPROVEMENTS:
- **Incorporate Examples**: Tie answers to concrete projects.
- **Practice Active Listening**: Confirm the question before diving in.

KNOWLEDGE_ACCURACY_IMPROVEMENTS:
- **Deepen Fundamentals**: Revisit core concepts before the next round.

CLARITY_IMPROVEMENTS:
- **Use Signposting**: Guide the listener through your answer.`)
	a := NewImprovementAdvisor(stub, quietLogger())

	got := a.Generate(context.Background(), nil, "Python Developer", "Technical")
	if !strings.Contains(got[CategoryCommunication], "**Incorporate Examples**") {
		t.Fatalf("communication block missing bullet: %q", got[CategoryCommunication])
	}
	if lines := nonEmptyLines(got[CategoryCommunication]); len(lines) != 2 {
		t.Fatalf("expected 2 communication bullets, got %d", len(lines))
	}
	if !strings.HasPrefix(got[CategoryClarity], "- **Use Signposting**") {
		t.Fatalf("unexpected clarity block: %q", got[CategoryClarity])
	}
	if stub.calls != 1 {
		t.Fatalf("expected 1 oracle call, got %d", stub.calls)
	}
}

func TestGenerateNormalizesUnformattedBullets(t *testing.T) {
	stub := respond(`COMMUNICATION_IMPROVEMENTS:
Speak Slower: pace your delivery so key points land.

KNOWLEDGE_ACCURACY_IMPROVEMENTS:
- Review Basics: refresh the fundamentals.

CLARITY_IMPROVEMENTS:
- **Summarize**: end with a recap.`)
	a := NewImprovementAdvisor(stub, quietLogger())

	got := a.Generate(context.Background(), nil, "Python Developer", "Technical")
	if !strings.HasPrefix(got[CategoryCommunication], "- **Speak Slower**:") {
		t.Fatalf("bullet not normalized: %q", got[CategoryCommunication])
	}
	if !strings.HasPrefix(got[CategoryKnowledgeAccuracy], "- **Review Basics**:") {
		t.Fatalf("bullet not normalized: %q", got[CategoryKnowledgeAccuracy])
	}
	if got[CategoryClarity] != "- **Summarize**: end with a recap." {
		t.Fatalf("already-formed bullet altered: %q", got[CategoryClarity])
	}
}

func TestGenerateMissingSectionGetsPlaceholder(t *testing.T) {
	stub := respond(`COMMUNICATION_IMPROVEMENTS:
- **Incorporate Examples**: Tie answers to concrete projects.`)
	a := NewImprovementAdvisor(stub, quietLogger())

	got := a.Generate(context.Background(), nil, "Python Developer", "Technical")
	if !strings.HasPrefix(got[CategoryClarity], "- **Focus Area**:") {
		t.Fatalf("expected placeholder bullet for missing section, got %q", got[CategoryClarity])
	}
}

func TestGenerateDefaultsOnOracleFailure(t *testing.T) {
	stub := failWith(errors.New("oracle down"))
	a := NewImprovementAdvisor(stub, quietLogger())

	got := a.Generate(context.Background(), nil, "Python Developer", "Technical")
	want := defaultImprovements()
	for _, category := range improvementCategories {
		if got[category] != want[category] {
			t.Fatalf("category %s: got %q, want defaults", category, got[category])
		}
	}
	if stub.calls != 2 {
		t.Fatalf("expected exactly 2 attempts, got %d", stub.calls)
	}
}

func TestGenerateRetriesOnUnparseableOutput(t *testing.T) {
	stub := respond(
		"Here is some advice with no sections at all.",
		"COMMUNICATION_IMPROVEMENTS:\n- **Key**: bullet\nKNOWLEDGE_ACCURACY_IMPROVEMENTS:\n- **Key**: bullet\nCLARITY_IMPROVEMENTS:\n- **Key**: bullet",
	)
	a := NewImprovementAdvisor(stub, quietLogger())

	got := a.Generate(context.Background(), nil, "Python Developer", "Technical")
	if stub.calls != 2 {
		t.Fatalf("expected retry, got %d calls", stub.calls)
	}
	if got[CategoryCommunication] != "- **Key**: bullet" {
		t.Fatalf("retry output not used: %q", got[CategoryCommunication])
	}
}
