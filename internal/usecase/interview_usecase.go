package usecase

import (
	"context"
	"errors"
	"strconv"
	"strings"
	"time"

	"github.com/fadilmartias/mock-interview/internal/aioutput"
	"github.com/fadilmartias/mock-interview/internal/model"
	"github.com/fadilmartias/mock-interview/internal/prompts"
	"github.com/fadilmartias/mock-interview/internal/repository"
	"github.com/fadilmartias/mock-interview/internal/service"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

const (
	DefaultPageSize = 10
	MaxPageSize     = 50
)

type InterviewUsecase struct {
	users      *repository.UserRepository
	interviews *repository.InterviewRepository
	gate       *PlanGate
	llm        service.Completer
	prompts    *prompts.PromptManager
	plan       aioutput.QuestionPlan
	logger     *zap.Logger
	now        func() time.Time
}

func NewInterviewUsecase(
	users *repository.UserRepository,
	interviews *repository.InterviewRepository,
	gate *PlanGate,
	llm service.Completer,
	pm *prompts.PromptManager,
	logger *zap.Logger,
) *InterviewUsecase {
	return &InterviewUsecase{
		users:      users,
		interviews: interviews,
		gate:       gate,
		llm:        llm,
		prompts:    pm,
		plan:       aioutput.DefaultQuestionPlan,
		logger:     logger,
		now:        time.Now,
	}
}

// AnswerResult is the stored evaluation together with the updated session.
type AnswerResult struct {
	Answer  model.AnsweredItem
	Session *model.InterviewSession
}

// Start generates the questions of a new session. Nothing is stored unless
// the model returned a valid question list.
func (uc *InterviewUsecase) Start(ctx context.Context, userID uuid.UUID, role, details string) (*model.InterviewSession, error) {
	role = strings.TrimSpace(role)
	details = strings.TrimSpace(details)
	if role == "" {
		return nil, invalidInput("role is required")
	}

	user, err := uc.users.FindByID(ctx, userID)
	if err != nil {
		return nil, notFound(err, "user")
	}
	if err := uc.gate.Check(ctx, user, CategoryInterview); err != nil {
		return nil, err
	}

	prompt, err := uc.prompts.BuildPrompt(prompts.Questions, map[string]string{
		"Role":       role,
		"Details":    details,
		"Total":      strconv.Itoa(uc.plan.Total()),
		"Technical":  strconv.Itoa(uc.plan.Technical),
		"Behavioral": strconv.Itoa(uc.plan.Behavioral),
	})
	if err != nil {
		return nil, err
	}

	raw, call, err := callLLM(ctx, uc.llm, prompts.Questions, prompt)
	if err != nil {
		uc.logger.Error("question generation failed", zap.String("user_id", userID.String()), zap.Error(err))
		return nil, err
	}
	questions, err := aioutput.ParseQuestions(aioutput.RawText(raw), uc.plan)
	call.finish(err)
	if err != nil {
		uc.logger.Warn("question generation returned malformed output", zap.String("user_id", userID.String()), zap.Error(err))
		return nil, err
	}

	session := &model.InterviewSession{
		UserID:  userID,
		Role:    role,
		Details: details,
	}
	if err := session.Transition(model.StatusQuestionsGenerated, uc.now()); err != nil {
		return nil, err
	}
	for i, q := range questions {
		session.Questions = append(session.Questions, model.QuestionItem{
			Position: i + 1,
			Question: q.Question,
			Category: model.QuestionCategory(q.Category),
		})
	}
	if err := uc.interviews.Create(ctx, session); err != nil {
		return nil, err
	}

	if err := uc.users.IncrementUsage(ctx, userID, repository.UsageInterviews); err != nil {
		uc.logger.Error("failed to count interview usage", zap.String("user_id", userID.String()), zap.Error(err))
	}
	uc.logger.Info("interview started",
		zap.String("session_id", session.ID.String()), zap.String("role", role))
	return session, nil
}

// EvaluateAnswer grades one answer and appends it to the session. A malformed
// evaluation appends nothing.
func (uc *InterviewUsecase) EvaluateAnswer(ctx context.Context, userID, sessionID uuid.UUID, question, answer string) (*AnswerResult, error) {
	question = strings.TrimSpace(question)
	answer = strings.TrimSpace(answer)
	if question == "" || answer == "" {
		return nil, invalidInput("question and answer are required")
	}

	session, err := uc.interviews.FindByIDForUser(ctx, sessionID, userID)
	if err != nil {
		return nil, notFound(err, "interview session")
	}
	if err := canAppend(session); err != nil {
		return nil, err
	}

	prompt, err := uc.prompts.BuildPrompt(prompts.Evaluation, map[string]string{
		"Question": question,
		"Answer":   answer,
	})
	if err != nil {
		return nil, err
	}
	raw, call, err := callLLM(ctx, uc.llm, prompts.Evaluation, prompt)
	if err != nil {
		uc.logger.Error("answer evaluation failed", zap.String("session_id", sessionID.String()), zap.Error(err))
		return nil, err
	}
	evaluation, err := aioutput.ParseEvaluation(aioutput.RawText(raw))
	call.finish(err)
	if err != nil {
		uc.logger.Warn("answer evaluation returned malformed output", zap.String("session_id", sessionID.String()), zap.Error(err))
		return nil, err
	}

	updated, err := uc.interviews.AppendAnswer(ctx, sessionID, userID, model.AnsweredItem{
		Question:    question,
		Answer:      answer,
		Score:       evaluation.Score,
		Comment:     evaluation.Comment,
		Suggestions: evaluation.Suggestions,
	}, canAppend, uc.now())
	if errors.Is(err, repository.ErrVersionConflict) {
		return nil, ErrConcurrentUpdate
	}
	if err != nil {
		return nil, notFound(err, "interview session")
	}

	if err := uc.users.IncrementUsage(ctx, userID, repository.UsageAnswers); err != nil {
		uc.logger.Error("failed to count answer usage", zap.String("user_id", userID.String()), zap.Error(err))
	}
	return &AnswerResult{
		Answer:  updated.Answers[len(updated.Answers)-1],
		Session: updated,
	}, nil
}

func canAppend(session *model.InterviewSession) error {
	if session.IsCompleted() {
		return ErrSessionCompleted
	}
	if session.Remaining() <= 0 {
		return ErrAllAnswered
	}
	return nil
}

// Complete ends the session. Completing twice is not an error.
func (uc *InterviewUsecase) Complete(ctx context.Context, userID, sessionID uuid.UUID) (*model.InterviewSession, error) {
	session, err := uc.interviews.Complete(ctx, sessionID, userID, uc.now())
	if errors.Is(err, repository.ErrVersionConflict) {
		return nil, ErrConcurrentUpdate
	}
	if err != nil {
		return nil, notFound(err, "interview session")
	}
	return session, nil
}

func (uc *InterviewUsecase) Get(ctx context.Context, userID, sessionID uuid.UUID) (*model.InterviewSession, error) {
	session, err := uc.interviews.FindByIDForUser(ctx, sessionID, userID)
	if err != nil {
		return nil, notFound(err, "interview session")
	}
	return session, nil
}

// ListForUser returns one page of the user's sessions, newest first.
func (uc *InterviewUsecase) ListForUser(ctx context.Context, userID uuid.UUID, page, pageSize int) ([]model.InterviewSession, int64, error) {
	page, pageSize = NormalizePage(page, pageSize)
	return uc.interviews.ListForUser(ctx, userID, page, pageSize)
}

func NormalizePage(page, pageSize int) (int, int) {
	if page < 1 {
		page = 1
	}
	if pageSize < 1 {
		pageSize = DefaultPageSize
	}
	if pageSize > MaxPageSize {
		pageSize = MaxPageSize
	}
	return page, pageSize
}
