package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/fadilmartias/mock-interview/internal/config"
	"github.com/fadilmartias/mock-interview/internal/middleware"
	"github.com/fadilmartias/mock-interview/internal/prompts"
	"github.com/fadilmartias/mock-interview/internal/repository"
	"github.com/fadilmartias/mock-interview/internal/testutil"
	"github.com/fadilmartias/mock-interview/internal/usecase"
	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tidwall/gjson"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

const sevenQuestions = "```json\n[" +
	`{"question":"What is a test plan?","category":"Technical"},` +
	`{"question":"Explain regression testing.","category":"Technical"},` +
	`{"question":"What is a flaky test?","category":"technical"},` +
	`{"question":"How do you test an API?","category":"Technical"},` +
	`{"question":"What is boundary value analysis?","category":"Technical"},` +
	`{"question":"Describe a conflict with a developer.","category":"Behavioral"},` +
	`{"question":"Tell me about a missed bug.","category":"behavioural"}` +
	"]\n```"

type fakeLLM struct {
	responses []string
	err       error
	calls     int
}

func (f *fakeLLM) Complete(context.Context, string) (string, error) {
	f.calls++
	if f.err != nil {
		return "", f.err
	}
	if len(f.responses) == 0 {
		return "", errors.New("no response queued")
	}
	out := f.responses[0]
	f.responses = f.responses[1:]
	return out, nil
}

type testServer struct {
	app *fiber.App
	db  *gorm.DB
	llm *fakeLLM
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	db := testutil.NewDB(t)
	testutil.SeedPlans(t, db)
	pm, err := prompts.NewPromptManager()
	require.NoError(t, err)
	llm := &fakeLLM{}
	log := zap.NewNop()

	users := repository.NewUserRepository(db)
	plans := repository.NewPlanRepository(db)
	interviews := repository.NewInterviewRepository(db)
	feedbacks := repository.NewFeedbackRepository(db)
	gate := usecase.NewPlanGate(plans)
	authUC := usecase.NewAuthUsecase(users, &config.AuthConfig{JWTSecret: "test", TokenTTL: time.Hour})

	app := fiber.New()
	auth := middleware.JWTAuth(authUC)
	NewAuthHandler(authUC).RegisterRoutes(app)
	NewInterviewHandler(usecase.NewInterviewUsecase(users, interviews, gate, llm, pm, log)).RegisterRoutes(app, auth)
	NewFeedbackHandler(usecase.NewFeedbackUsecase(users, interviews, feedbacks, gate, llm, pm, log)).RegisterRoutes(app, auth)
	NewAnalyticsHandler(usecase.NewAnalyticsUsecase(users, plans, interviews, feedbacks)).RegisterRoutes(app, auth)

	return &testServer{app: app, db: db, llm: llm}
}

func (s *testServer) do(t *testing.T, method, path, token string, body any) (int, gjson.Result) {
	t.Helper()
	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp, err := s.app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()
	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp.StatusCode, gjson.ParseBytes(raw)
}

func (s *testServer) login(t *testing.T, email string) string {
	t.Helper()
	code, _ := s.do(t, http.MethodPost, "/auth/register", "", map[string]string{
		"email": email, "name": "Candidate", "password": "long-password",
	})
	require.Equal(t, fiber.StatusCreated, code)
	code, body := s.do(t, http.MethodPost, "/auth/login", "", map[string]string{
		"email": email, "password": "long-password",
	})
	require.Equal(t, fiber.StatusOK, code)
	token := body.Get("data.token").String()
	require.NotEmpty(t, token)
	return token
}

func TestInterviewFlow(t *testing.T) {
	s := newTestServer(t)
	token := s.login(t, "qa@example.com")

	s.llm.responses = []string{sevenQuestions}
	code, body := s.do(t, http.MethodPost, "/interviews", token, map[string]string{
		"role": "QA Engineer", "details": "Manual and automated testing",
	})
	require.Equal(t, fiber.StatusCreated, code, body.Raw)
	id := body.Get("data.id").String()
	assert.Equal(t, "in-progress", body.Get("data.status").String())
	assert.Len(t, body.Get("data.questions").Array(), 7)
	assert.Equal(t, "Technical", body.Get("data.questions.2.category").String())
	assert.Equal(t, "Behavioral", body.Get("data.questions.6.category").String())

	s.llm.responses = []string{`{"score": 8, "comment": "Good.", "suggestions": "Add an example."}`}
	code, body = s.do(t, http.MethodPost, "/interviews/"+id+"/answers", token, map[string]string{
		"question": "What is a test plan?", "answer": "A document describing scope and approach.",
	})
	require.Equal(t, fiber.StatusCreated, code, body.Raw)
	assert.EqualValues(t, 8, body.Get("data.evaluation.score").Int())
	assert.EqualValues(t, 6, body.Get("data.remaining").Int())

	code, body = s.do(t, http.MethodGet, "/interviews/"+id, token, nil)
	require.Equal(t, fiber.StatusOK, code)
	assert.Len(t, body.Get("data.answers").Array(), 1)

	code, body = s.do(t, http.MethodGet, "/interviews?page=1&page_size=5", token, nil)
	require.Equal(t, fiber.StatusOK, code)
	assert.EqualValues(t, 1, body.Get("pagination.total_items").Int())
	assert.Len(t, body.Get("data").Array(), 1)

	code, body = s.do(t, http.MethodPost, "/interviews/"+id+"/complete", token, nil)
	require.Equal(t, fiber.StatusOK, code)
	assert.Equal(t, "completed", body.Get("data.status").String())

	s.llm.responses = []string{"Overall a promising candidate."}
	code, body = s.do(t, http.MethodPost, "/interviews/"+id+"/feedback", token, nil)
	require.Equal(t, fiber.StatusCreated, code, body.Raw)
	assert.True(t, body.Get("data.degraded").Bool())
	assert.Equal(t, "Overall a promising candidate.", body.Get("data.summary").String())
	assert.Equal(t, "QA Engineer", body.Get("data.role").String())

	code, body = s.do(t, http.MethodGet, "/interviews/"+id+"/feedback", token, nil)
	require.Equal(t, fiber.StatusOK, code)
	assert.Equal(t, "completed", body.Get("data.interview_status").String())

	code, body = s.do(t, http.MethodGet, "/feedback", token, nil)
	require.Equal(t, fiber.StatusOK, code)
	assert.Len(t, body.Get("data").Array(), 1)

	code, body = s.do(t, http.MethodGet, "/analytics/me", token, nil)
	require.Equal(t, fiber.StatusOK, code)
	assert.EqualValues(t, 1, body.Get("data.usage.interviews_conducted").Int())
	assert.EqualValues(t, 1, body.Get("data.usage.answers_evaluated").Int())
	assert.EqualValues(t, 1, body.Get("data.usage.feedbacks_generated").Int())
	assert.EqualValues(t, 3, body.Get("data.max_interviews").Int())
}

func TestMalformedOutputReturnsDiagnostics(t *testing.T) {
	s := newTestServer(t)
	token := s.login(t, "qa@example.com")

	s.llm.responses = []string{"Sure! ```json\n[{\"question\": \"only one\"}]\n```"}
	code, body := s.do(t, http.MethodPost, "/interviews", token, map[string]string{"role": "QA Engineer"})
	assert.Equal(t, fiber.StatusBadGateway, code)
	assert.False(t, body.Get("success").Bool())
	assert.Contains(t, body.Get("details.raw").String(), "Sure!")
	assert.Equal(t, `[{"question": "only one"}]`, body.Get("details.cleaned").String())

	code, body = s.do(t, http.MethodGet, "/interviews", token, nil)
	require.Equal(t, fiber.StatusOK, code)
	assert.Empty(t, body.Get("data").Array())
}

func TestQuotaExceededReturns403(t *testing.T) {
	s := newTestServer(t)
	token := s.login(t, "qa@example.com")
	require.NoError(t, s.db.Exec("UPDATE users SET interviews_conducted = 3").Error)

	code, body := s.do(t, http.MethodPost, "/interviews", token, map[string]string{"role": "QA Engineer"})
	assert.Equal(t, fiber.StatusForbidden, code)
	assert.EqualValues(t, 3, body.Get("details.limit").Int())
	assert.Equal(t, 0, s.llm.calls)
}

func TestUpstreamFailureReturns502(t *testing.T) {
	s := newTestServer(t)
	token := s.login(t, "qa@example.com")
	s.llm.err = errors.New("timeout")

	code, _ := s.do(t, http.MethodPost, "/interviews", token, map[string]string{"role": "QA Engineer"})
	assert.Equal(t, fiber.StatusBadGateway, code)
}

func TestRequestErrors(t *testing.T) {
	s := newTestServer(t)
	token := s.login(t, "qa@example.com")

	code, _ := s.do(t, http.MethodGet, "/interviews", "", nil)
	assert.Equal(t, fiber.StatusUnauthorized, code)

	code, _ = s.do(t, http.MethodGet, "/interviews/not-a-uuid", token, nil)
	assert.Equal(t, fiber.StatusBadRequest, code)

	code, _ = s.do(t, http.MethodGet, "/interviews/7a0d8f5e-1111-4c3b-9a57-1f0d8b1b2c3d", token, nil)
	assert.Equal(t, fiber.StatusNotFound, code)

	code, body := s.do(t, http.MethodPost, "/interviews", token, map[string]string{"details": "no role"})
	assert.Equal(t, fiber.StatusBadRequest, code)
	assert.Equal(t, "role is required", body.Get("details.role").String())

	code, _ = s.do(t, http.MethodPost, "/auth/register", "", map[string]string{
		"email": "qa@example.com", "password": "long-password",
	})
	assert.Equal(t, fiber.StatusConflict, code)

	code, _ = s.do(t, http.MethodPost, "/auth/login", "", map[string]string{
		"email": "qa@example.com", "password": "wrong-password",
	})
	assert.Equal(t, fiber.StatusUnauthorized, code)
	assert.Equal(t, 0, s.llm.calls)
}
