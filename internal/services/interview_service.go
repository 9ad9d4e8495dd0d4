package services

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/preplab/interviewd/config"
	"github.com/preplab/interviewd/internal/agents"
	"github.com/preplab/interviewd/internal/models"
	"github.com/preplab/interviewd/internal/utils"
)

// InterviewService is the per-session conversational controller. Interact is
// the main transition; everything else is session lifecycle around it.
type InterviewService interface {
	Start(ctx context.Context, name, jobRole, interviewType string) (*models.StartResponse, error)
	Interact(ctx context.Context, sessionID, userInput string) (*models.InteractionResponse, error)
	AdvanceQuestion(ctx context.Context, sessionID string) (*models.InteractionResponse, error)
	End(ctx context.Context, sessionID string) (*models.Summary, error)
	Get(ctx context.Context, sessionID string) (*models.Session, error)
	Delete(ctx context.Context, sessionID string) error
}

// InterviewDeps wires the controller's collaborators.
type InterviewDeps struct {
	Store     SessionStore
	Questions *agents.QuestionGenerator
	Intents   *agents.IntentDetector
	Evaluator *agents.Evaluator
	FollowUps *agents.FollowUpPlanner
	Hints     *agents.HintAgent
	Recruiter *agents.Recruiter
	Advisor   *agents.ImprovementAdvisor
	Rand      *agents.Rand
	Logger    *logrus.Logger

	QuestionCount int
}

type interviewService struct {
	InterviewDeps
}

func NewInterviewService(d InterviewDeps) InterviewService {
	if d.QuestionCount <= 0 {
		d.QuestionCount = 5
	}
	if d.Logger == nil {
		d.Logger = logrus.New()
	}
	return &interviewService{InterviewDeps: d}
}

func (s *interviewService) Start(ctx context.Context, name, jobRole, interviewType string) (*models.StartResponse, error) {
	const op = "InterviewService.Start"

	name = strings.TrimSpace(name)
	jobRole = strings.TrimSpace(jobRole)
	interviewType = strings.TrimSpace(interviewType)

	if name == "" {
		return nil, utils.E(utils.CodeInvalidArgument, op, "name is required", nil)
	}
	if !config.ValidJobRole(jobRole) {
		return nil, utils.E(utils.CodeInvalidArgument, op, "invalid job role", nil)
	}
	if !config.ValidInterviewType(interviewType) {
		return nil, utils.E(utils.CodeInvalidArgument, op, "invalid interview type", nil)
	}

	session := s.Store.Create(name, jobRole, interviewType)
	questions := s.Questions.Generate(ctx, jobRole, interviewType, s.QuestionCount)

	session.Lock()
	session.Questions = questions
	firstQuestion := "No questions generated"
	if len(questions) > 0 {
		session.CurrentQuestionIndex = 0
		session.LastQuestion = questions[0]
		firstQuestion = questions[0]
	}
	session.Unlock()

	s.Logger.WithFields(logrus.Fields{
		"session_id":     session.SessionID,
		"job_role":       jobRole,
		"interview_type": interviewType,
		"questions":      len(questions),
	}).Info("interview started")

	resp := &models.StartResponse{
		SessionID:      session.SessionID,
		Name:           name,
		JobRole:        jobRole,
		InterviewType:  interviewType,
		FirstQuestion:  firstQuestion,
		TotalQuestions: len(questions),
	}
	resp.WelcomeMessage = s.Recruiter.WelcomeMessage(ctx, name, interviewType)
	return resp, nil
}

// fillerRe matches turns made up solely of hesitation tokens, ellipses, and
// whitespace.
var fillerRe = regexp.MustCompile(`^(?:uh+|um+|er+|ah+|hmm+|\.+|…+|[\s,!?]+)+$`)

var askTimePhrases = []string{"give me a moment", "one minute", "wait a second", "need time"}

func (s *interviewService) Interact(ctx context.Context, sessionID, userInput string) (resp *models.InteractionResponse, err error) {
	const op = "InterviewService.Interact"

	session, getErr := s.Store.Get(sessionID)
	if getErr != nil {
		return nil, utils.E(utils.CodeNotFound, op, "session not found", getErr)
	}

	session.Lock()
	defer session.Unlock()

	// Collaborator failures during evaluation and branching must not escape
	// as a crash; they come back as a structured error result.
	defer func() {
		if r := recover(); r != nil {
			s.Logger.WithField("session_id", sessionID).Errorf("interaction panic: %v", r)
			resp = nil
			err = utils.E(utils.CodeInternal, op, "interaction failed", fmt.Errorf("%v", r))
		}
	}()

	trimmed := strings.TrimSpace(userInput)
	lower := strings.ToLower(trimmed)

	// Pre-filters run before any classification.
	if len(trimmed) < 3 {
		return &models.InteractionResponse{
			Message:   "Answer too short or empty",
			SessionID: sessionID,
			Intent:    models.IntentSilence,
		}, nil
	}
	if fillerRe.MatchString(lower) {
		return &models.InteractionResponse{
			Message:   "Answer contains only filler words",
			SessionID: sessionID,
			Intent:    models.IntentNoise,
		}, nil
	}
	for _, phrase := range askTimePhrases {
		if strings.Contains(lower, phrase) {
			return &models.InteractionResponse{
				Message:   "Sure, I will give you a moment. Ready when you are.",
				SessionID: sessionID,
				Intent:    models.IntentAskTime,
			}, nil
		}
	}

	currentQuestion := session.LastQuestion
	if currentQuestion == "" && session.CurrentQuestionIndex < len(session.Questions) {
		currentQuestion = session.Questions[session.CurrentQuestionIndex]
	}

	intent := s.Intents.Detect(ctx, trimmed, currentQuestion)

	switch intent {
	case models.IntentRepeatQuestion:
		return &models.InteractionResponse{
			Message:   s.Recruiter.PoliteMessage("repeat"),
			Question:  session.LastQuestion,
			SessionID: sessionID,
			Intent:    intent,
		}, nil

	case models.IntentHintRequest:
		if session.LastQuestion == "" {
			return nil, utils.E(utils.CodeFailedPrecondition, op, "no question available for hint", nil)
		}
		hint := s.Hints.Hint(ctx, session.LastQuestion, session.JobRole, session.InterviewType)
		return &models.InteractionResponse{
			Hint:      hint,
			Message:   "Here's a hint to help guide your thinking:",
			SessionID: sessionID,
			Intent:    intent,
		}, nil

	case models.IntentNeedTime:
		return &models.InteractionResponse{
			Message:      s.Recruiter.PoliteMessage("pause"),
			SessionID:    sessionID,
			Intent:       intent,
			PauseSeconds: 10,
		}, nil

	default:
		return s.handleAnswer(ctx, session, trimmed), nil
	}
}

// handleAnswer runs the NormalAnswer transition. The session lock is held.
func (s *interviewService) handleAnswer(ctx context.Context, session *models.Session, answer string) *models.InteractionResponse {
	if session.Completed || (!session.InFollowUp() && session.CurrentQuestionIndex >= len(session.Questions)) {
		// Late interaction on a finished interview: same completion signal,
		// no state transition.
		session.Completed = true
		return &models.InteractionResponse{
			Message:   s.Recruiter.PoliteMessage("complete"),
			Completed: true,
			SessionID: session.SessionID,
			Intent:    models.IntentNormalAnswer,
		}
	}

	if session.InFollowUp() {
		return s.answerFollowUp(ctx, session, answer)
	}
	return s.answerMainQuestion(ctx, session, answer)
}

func (s *interviewService) answerFollowUp(ctx context.Context, session *models.Session, answer string) *models.InteractionResponse {
	followUp := session.FollowUpQuestions[session.CurrentFollowUpIndex]

	evaluation := s.Evaluator.Evaluate(ctx, followUp, answer, session.JobRole, session.InterviewType)
	session.Answers = append(session.Answers, models.AnswerRecord{
		Question:            followUp,
		Answer:              answer,
		IsFollowUp:          true,
		ParentQuestionIndex: session.CurrentQuestionIndex,
		Feedback:            evaluation.ShortFeedback,
		RawEvaluation:       evaluation.RawText,
	})
	session.Evaluations = append(session.Evaluations, models.EvaluationRecord{
		Question:   followUp,
		Evaluation: evaluation,
	})

	session.CurrentFollowUpIndex++

	if session.InFollowUp() {
		next := session.FollowUpQuestions[session.CurrentFollowUpIndex]
		session.LastQuestion = next
		return &models.InteractionResponse{
			Feedback:     evaluation.ShortFeedback,
			NextQuestion: next,
			IsFollowUp:   true,
			SessionID:    session.SessionID,
			Intent:       models.IntentNormalAnswer,
		}
	}

	// Follow-ups exhausted: reset and advance, carrying the feedback forward.
	session.FollowUpQuestions = nil
	session.CurrentFollowUpIndex = 0
	return s.advanceMainQuestion(session, evaluation.ShortFeedback)
}

func (s *interviewService) answerMainQuestion(ctx context.Context, session *models.Session, answer string) *models.InteractionResponse {
	question := session.Questions[session.CurrentQuestionIndex]

	evaluation := s.Evaluator.Evaluate(ctx, question, answer, session.JobRole, session.InterviewType)
	session.Answers = append(session.Answers, models.AnswerRecord{
		Question:      question,
		Answer:        answer,
		IsFollowUp:    false,
		Feedback:      evaluation.ShortFeedback,
		RawEvaluation: evaluation.RawText,
	})
	session.Evaluations = append(session.Evaluations, models.EvaluationRecord{
		Question:   question,
		Evaluation: evaluation,
	})

	// NextFollowUpAfter names a 1-based question ordinal; it is checked,
	// never decremented.
	answeredOrdinal := session.CurrentQuestionIndex + 1
	if answeredOrdinal == session.NextFollowUpAfter {
		followUps := s.FollowUps.Generate(ctx, question, answer, session.JobRole, session.InterviewType)
		if len(followUps) > 0 {
			session.FollowUpQuestions = followUps
			session.CurrentFollowUpIndex = 0
			session.LastQuestion = followUps[0]
			session.NextFollowUpAfter = answeredOrdinal + 5 + s.Rand.Intn(2)

			return &models.InteractionResponse{
				Feedback:         evaluation.ShortFeedback,
				FollowUpQuestion: followUps[0],
				IsFollowUp:       true,
				SessionID:        session.SessionID,
				Intent:           models.IntentNormalAnswer,
			}
		}
	}

	return s.advanceMainQuestion(session, evaluation.ShortFeedback)
}

// advanceMainQuestion moves the cursor forward and builds the next-question
// or completion response. The session lock is held.
func (s *interviewService) advanceMainQuestion(session *models.Session, feedback string) *models.InteractionResponse {
	session.CurrentQuestionIndex++

	if session.CurrentQuestionIndex < len(session.Questions) {
		next := session.Questions[session.CurrentQuestionIndex]
		session.LastQuestion = next
		return &models.InteractionResponse{
			Message:        s.Recruiter.PoliteMessage("next"),
			NextQuestion:   next,
			Feedback:       feedback,
			IsFollowUp:     false,
			SessionID:      session.SessionID,
			Intent:         models.IntentNormalAnswer,
			QuestionNumber: session.CurrentQuestionIndex + 1,
			TotalQuestions: len(session.Questions),
		}
	}

	session.Completed = true
	return &models.InteractionResponse{
		Message:   s.Recruiter.PoliteMessage("complete"),
		Feedback:  feedback,
		Completed: true,
		SessionID: session.SessionID,
		Intent:    models.IntentNormalAnswer,
	}
}

// AdvanceQuestion skips ahead to the next main question without evaluating an
// answer, clearing any in-progress follow-ups. On a completed session it is a
// no-op returning the completion payload.
func (s *interviewService) AdvanceQuestion(ctx context.Context, sessionID string) (*models.InteractionResponse, error) {
	const op = "InterviewService.AdvanceQuestion"

	session, err := s.Store.Get(sessionID)
	if err != nil {
		return nil, utils.E(utils.CodeNotFound, op, "session not found", err)
	}

	session.Lock()
	defer session.Unlock()

	if session.Completed {
		return &models.InteractionResponse{
			Message:   s.Recruiter.PoliteMessage("complete"),
			Completed: true,
			SessionID: session.SessionID,
			Intent:    models.IntentNormalAnswer,
		}, nil
	}

	session.FollowUpQuestions = nil
	session.CurrentFollowUpIndex = 0
	return s.advanceMainQuestion(session, ""), nil
}

// End compiles the final report and marks the session completed.
func (s *interviewService) End(ctx context.Context, sessionID string) (*models.Summary, error) {
	const op = "InterviewService.End"

	session, err := s.Store.Get(sessionID)
	if err != nil {
		return nil, utils.E(utils.CodeNotFound, op, "session not found", err)
	}

	session.Lock()
	defer session.Unlock()

	overallScores := s.Advisor.OverallScores(session.Evaluations, session.InterviewType)
	improvements := s.Advisor.Generate(ctx, session.Evaluations, session.JobRole, session.InterviewType)
	closing := s.Recruiter.ClosingMessage(ctx, session.Name, session.InterviewType, overallScores)

	session.Completed = true

	return &models.Summary{
		SessionID:          session.SessionID,
		Name:               session.Name,
		JobRole:            session.JobRole,
		InterviewType:      session.InterviewType,
		TotalQuestions:     len(session.Questions),
		TotalAnswers:       len(session.Answers),
		OverallScores:      overallScores,
		AreasOfImprovement: improvements,
		ClosingMessage:     closing,
	}, nil
}

func (s *interviewService) Get(ctx context.Context, sessionID string) (*models.Session, error) {
	const op = "InterviewService.Get"

	session, err := s.Store.Get(sessionID)
	if err != nil {
		if errors.Is(err, utils.ErrNotFound) {
			return nil, utils.E(utils.CodeNotFound, op, "session not found", err)
		}
		return nil, utils.E(utils.CodeInternal, op, "failed to get session", err)
	}
	return session, nil
}

func (s *interviewService) Delete(ctx context.Context, sessionID string) error {
	const op = "InterviewService.Delete"

	if !s.Store.Delete(sessionID) {
		return utils.E(utils.CodeNotFound, op, "session not found", nil)
	}
	return nil
}
