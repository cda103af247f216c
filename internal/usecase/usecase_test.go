package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/fadilmartias/mock-interview/internal/model"
	"github.com/fadilmartias/mock-interview/internal/prompts"
	"github.com/fadilmartias/mock-interview/internal/repository"
	"github.com/fadilmartias/mock-interview/internal/testutil"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// stubLLM returns the queued responses in order and records every prompt.
type stubLLM struct {
	responses []string
	err       error
	prompts   []string
}

func (s *stubLLM) Complete(_ context.Context, prompt string) (string, error) {
	s.prompts = append(s.prompts, prompt)
	if s.err != nil {
		return "", s.err
	}
	if len(s.responses) == 0 {
		return "", errors.New("stub: no response queued")
	}
	out := s.responses[0]
	s.responses = s.responses[1:]
	return out, nil
}

func (s *stubLLM) calls() int { return len(s.prompts) }

type testEnv struct {
	db         *gorm.DB
	llm        *stubLLM
	users      *repository.UserRepository
	interviews *repository.InterviewRepository
	feedbacks  *repository.FeedbackRepository
	interview  *InterviewUsecase
	feedback   *FeedbackUsecase
	analytics  *AnalyticsUsecase
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	db := testutil.NewDB(t)
	testutil.SeedPlans(t, db)

	pm, err := prompts.NewPromptManager()
	require.NoError(t, err)

	env := &testEnv{
		db:         db,
		llm:        &stubLLM{},
		users:      repository.NewUserRepository(db),
		interviews: repository.NewInterviewRepository(db),
		feedbacks:  repository.NewFeedbackRepository(db),
	}
	plans := repository.NewPlanRepository(db)
	gate := NewPlanGate(plans)
	env.interview = NewInterviewUsecase(env.users, env.interviews, gate, env.llm, pm, zap.NewNop())
	env.feedback = NewFeedbackUsecase(env.users, env.interviews, env.feedbacks, gate, env.llm, pm, zap.NewNop())
	env.analytics = NewAnalyticsUsecase(env.users, plans, env.interviews, env.feedbacks)
	return env
}

func (e *testEnv) countSessions(t *testing.T) int64 {
	t.Helper()
	var n int64
	require.NoError(t, e.db.Model(&model.InterviewSession{}).Count(&n).Error)
	return n
}

func (e *testEnv) reloadUser(t *testing.T, id uuid.UUID) *model.User {
	t.Helper()
	u, err := e.users.FindByID(context.Background(), id)
	require.NoError(t, err)
	return u
}

// seedSession stores an in-progress session with the given number of
// questions, the first answered of which are already evaluated.
func (e *testEnv) seedSession(t *testing.T, userID uuid.UUID, questions, answered int) *model.InterviewSession {
	t.Helper()
	s := &model.InterviewSession{UserID: userID, Role: "QA Engineer", Status: model.StatusQuestionsGenerated}
	for i := 1; i <= questions; i++ {
		s.Questions = append(s.Questions, model.QuestionItem{
			Position: i,
			Question: fmt.Sprintf("Question %d?", i),
			Category: model.CategoryTechnical,
		})
	}
	for i := 1; i <= answered; i++ {
		s.Answers = append(s.Answers, model.AnsweredItem{
			Position: i,
			Question: fmt.Sprintf("Question %d?", i),
			Answer:   fmt.Sprintf("Answer %d", i),
			Score:    6,
			Comment:  "fine",
		})
	}
	require.NoError(t, e.interviews.Create(context.Background(), s))
	return s
}

func questionsJSON(technical, behavioral int) string {
	var items []string
	for i := 1; i <= technical; i++ {
		items = append(items, fmt.Sprintf(`{"question": "Technical question %d?", "category": "Technical"}`, i))
	}
	for i := 1; i <= behavioral; i++ {
		items = append(items, fmt.Sprintf(`{"question": "Behavioral question %d?", "category": "Behavioral"}`, i))
	}
	return "[" + strings.Join(items, ",\n") + "]"
}
