package models

import (
	"sync"
	"time"
)

// Intent classifies a single candidate turn. The first four values come from
// the natural-language classifier; the rest are produced by the controller's
// pre-filters before classification runs.
type Intent string

const (
	IntentRepeatQuestion Intent = "repeat_question"
	IntentHintRequest    Intent = "hint_request"
	IntentNeedTime       Intent = "need_time"
	IntentNormalAnswer   Intent = "normal_answer"

	IntentSilence Intent = "silence"
	IntentNoise   Intent = "noise"
	IntentAskTime Intent = "ask_time"
)

// Evaluation is the structured result of scoring one answer.
type Evaluation struct {
	ShortFeedback string            `json:"short_feedback"` // always exactly two non-empty lines
	RubricScores  map[string]string `json:"rubric_scores"`  // metric -> "7/10 - explanation"
	RawText       string            `json:"detailed_evaluation"`
	IsIrrelevant  bool              `json:"is_irrelevant"`
}

type AnswerRecord struct {
	Question            string `json:"question"`
	Answer              string `json:"answer"`
	IsFollowUp          bool   `json:"is_followup"`
	ParentQuestionIndex int    `json:"parent_question_index,omitempty"`
	Feedback            string `json:"feedback"`
	RawEvaluation       string `json:"detailed_evaluation"`
}

type EvaluationRecord struct {
	Question   string     `json:"question"`
	Evaluation Evaluation `json:"evaluation"`
}

// Session is one interview instance. All mutation goes through the interview
// service while holding the session's own lock, so concurrent interactions on
// the same id never interleave partial state updates.
type Session struct {
	mu sync.Mutex

	SessionID     string    `json:"session_id"`
	Name          string    `json:"name"`
	JobRole       string    `json:"job_role"`
	InterviewType string    `json:"interview_type"`
	CreatedAt     time.Time `json:"created_at"`

	Questions            []string `json:"questions"`
	CurrentQuestionIndex int      `json:"current_question_index"`

	FollowUpQuestions    []string `json:"follow_up_questions"`
	CurrentFollowUpIndex int      `json:"current_follow_up_index"`
	// NextFollowUpAfter is the 1-based question number at which the next
	// follow-up injection is eligible. It names an ordinal, not a countdown.
	NextFollowUpAfter int `json:"next_followup_after"`

	Answers     []AnswerRecord     `json:"answers"`
	Evaluations []EvaluationRecord `json:"evaluations"`

	LastQuestion string `json:"last_question"`
	Completed    bool   `json:"completed"`
}

func (s *Session) Lock()   { s.mu.Lock() }
func (s *Session) Unlock() { s.mu.Unlock() }

// InFollowUp reports whether the session is in follow-up mode. Exactly one of
// main-question mode and follow-up mode is active at any time.
func (s *Session) InFollowUp() bool {
	return s.CurrentFollowUpIndex < len(s.FollowUpQuestions)
}

// InteractionResponse is the wire shape returned per interaction. Field
// presence depends on the branch taken by the controller.
type InteractionResponse struct {
	Message          string `json:"message,omitempty"`
	Question         string `json:"question,omitempty"`
	NextQuestion     string `json:"next_question,omitempty"`
	FollowUpQuestion string `json:"follow_up_question,omitempty"`
	Feedback         string `json:"feedback,omitempty"`
	Hint             string `json:"hint,omitempty"`
	IsFollowUp       bool   `json:"is_followup"`
	SessionID        string `json:"session_id"`
	Intent           Intent `json:"intent"`
	QuestionNumber   int    `json:"question_number,omitempty"`
	TotalQuestions   int    `json:"total_questions,omitempty"`
	Completed        bool   `json:"completed,omitempty"`
	PauseSeconds     int    `json:"pause_seconds,omitempty"`
}

type StartResponse struct {
	SessionID      string `json:"session_id"`
	Name           string `json:"name"`
	JobRole        string `json:"job_role"`
	InterviewType  string `json:"interview_type"`
	FirstQuestion  string `json:"first_question"`
	TotalQuestions int    `json:"total_questions"`
	WelcomeMessage string `json:"welcome_message,omitempty"`
}

// Summary is the end-of-interview report.
type Summary struct {
	SessionID          string            `json:"session_id"`
	Name               string            `json:"name"`
	JobRole            string            `json:"job_role"`
	InterviewType      string            `json:"interview_type"`
	TotalQuestions     int               `json:"total_questions"`
	TotalAnswers       int               `json:"total_answers"`
	OverallScores      map[string]string `json:"overall_scores"`       // metric -> "Score: X/10"
	AreasOfImprovement map[string]string `json:"areas_of_improvement"` // category -> bullet list
	ClosingMessage     string            `json:"closing_message"`
}
