package usecase

import (
	"context"
	"fmt"
	"strings"

	"github.com/fadilmartias/mock-interview/internal/aioutput"
	"github.com/fadilmartias/mock-interview/internal/metrics"
	"github.com/fadilmartias/mock-interview/internal/model"
	"github.com/fadilmartias/mock-interview/internal/prompts"
	"github.com/fadilmartias/mock-interview/internal/repository"
	"github.com/fadilmartias/mock-interview/internal/service"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/datatypes"
)

type FeedbackUsecase struct {
	users      *repository.UserRepository
	interviews *repository.InterviewRepository
	feedbacks  *repository.FeedbackRepository
	gate       *PlanGate
	llm        service.Completer
	prompts    *prompts.PromptManager
	logger     *zap.Logger
}

func NewFeedbackUsecase(
	users *repository.UserRepository,
	interviews *repository.InterviewRepository,
	feedbacks *repository.FeedbackRepository,
	gate *PlanGate,
	llm service.Completer,
	pm *prompts.PromptManager,
	logger *zap.Logger,
) *FeedbackUsecase {
	return &FeedbackUsecase{
		users:      users,
		interviews: interviews,
		feedbacks:  feedbacks,
		gate:       gate,
		llm:        llm,
		prompts:    pm,
		logger:     logger,
	}
}

// Generate writes the final report of a session. Model output that cannot be
// parsed still yields a report, degraded to a summary; only a failed model
// call is an error.
func (uc *FeedbackUsecase) Generate(ctx context.Context, interviewID, userID uuid.UUID) (*model.FeedbackReport, error) {
	session, err := uc.interviews.FindByIDForUser(ctx, interviewID, userID)
	if err != nil {
		return nil, notFound(err, "interview session")
	}
	if len(session.Answers) == 0 {
		return nil, invalidInput("interview has no answers yet")
	}

	user, err := uc.users.FindByID(ctx, userID)
	if err != nil {
		return nil, notFound(err, "user")
	}
	if err := uc.gate.Check(ctx, user, CategoryFeedback); err != nil {
		return nil, err
	}

	prompt, err := uc.prompts.BuildPrompt(prompts.Feedback, map[string]string{
		"Role":       session.Role,
		"Transcript": BuildTranscript(session),
	})
	if err != nil {
		return nil, err
	}
	raw, call, err := callLLM(ctx, uc.llm, prompts.Feedback, prompt)
	if err != nil {
		uc.logger.Error("feedback generation failed", zap.String("session_id", interviewID.String()), zap.Error(err))
		return nil, err
	}

	fields := aioutput.ParseFeedback(aioutput.RawText(raw))
	call.finish(nil)
	if fields.Degraded {
		metrics.DegradedFeedback()
		uc.logger.Warn("feedback output degraded to summary", zap.String("session_id", interviewID.String()))
	}

	report, err := uc.feedbacks.Upsert(ctx, &model.FeedbackReport{
		InterviewID:    session.ID,
		UserID:         userID,
		TechnicalScore: fields.TechnicalScore,
		Communication:  fields.Communication,
		Confidence:     fields.Confidence,
		Strengths:      datatypes.JSONSlice[string](fields.Strengths),
		Weaknesses:     datatypes.JSONSlice[string](fields.Weaknesses),
		Summary:        fields.Summary,
		Degraded:       fields.Degraded,
	})
	if err != nil {
		return nil, err
	}
	if err := uc.interviews.SetFeedbackSummary(ctx, session.ID, report.Summary); err != nil {
		uc.logger.Error("failed to store feedback summary on session", zap.String("session_id", interviewID.String()), zap.Error(err))
	}
	if err := uc.users.IncrementUsage(ctx, userID, repository.UsageFeedbacks); err != nil {
		uc.logger.Error("failed to count feedback usage", zap.String("user_id", userID.String()), zap.Error(err))
	}
	return report, nil
}

func (uc *FeedbackUsecase) ListForUser(ctx context.Context, userID uuid.UUID) ([]model.FeedbackReport, error) {
	return uc.feedbacks.ListForUser(ctx, userID)
}

func (uc *FeedbackUsecase) GetBySession(ctx context.Context, userID, interviewID uuid.UUID) (*model.FeedbackReport, error) {
	report, err := uc.feedbacks.FindByInterview(ctx, interviewID, userID)
	if err != nil {
		return nil, notFound(err, "feedback report")
	}
	return report, nil
}

// BuildTranscript renders every question of the session with the answer given
// to it, matched by question text. Answers to questions outside the generated
// list follow under their own question.
func BuildTranscript(session *model.InterviewSession) string {
	byQuestion := make(map[string][]int)
	for i, a := range session.Answers {
		key := questionKey(a.Question)
		byQuestion[key] = append(byQuestion[key], i)
	}
	used := make([]bool, len(session.Answers))

	var b strings.Builder
	for _, q := range session.Questions {
		fmt.Fprintf(&b, "Q%d (%s): %s\n", q.Position, q.Category, q.Question)
		key := questionKey(q.Question)
		if idx := byQuestion[key]; len(idx) > 0 {
			byQuestion[key] = idx[1:]
			used[idx[0]] = true
			writeAnswer(&b, session.Answers[idx[0]])
		} else {
			b.WriteString("Answer: (not answered)\n")
		}
		b.WriteString("\n")
	}

	for i, a := range session.Answers {
		if used[i] {
			continue
		}
		fmt.Fprintf(&b, "Additional question: %s\n", a.Question)
		writeAnswer(&b, a)
		b.WriteString("\n")
	}
	return strings.TrimSpace(b.String())
}

func writeAnswer(b *strings.Builder, a model.AnsweredItem) {
	fmt.Fprintf(b, "Answer: %s\n", a.Answer)
	fmt.Fprintf(b, "Score: %d/10\n", a.Score)
	if a.Comment != "" {
		fmt.Fprintf(b, "Comment: %s\n", a.Comment)
	}
}

// questionKey compares question texts ignoring case and whitespace runs.
func questionKey(q string) string {
	return strings.ToLower(strings.Join(strings.Fields(q), " "))
}
