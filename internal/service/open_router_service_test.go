package service

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/fadilmartias/mock-interview/internal/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tidwall/gjson"
	"go.uber.org/zap"
)

func newTestOpenRouter(t *testing.T, handler http.HandlerFunc) *OpenRouterService {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	svc, err := NewOpenRouterService(
		&config.OpenRouterConfig{APIKey: "test-key", Model: "test/model", BaseURL: srv.URL},
		&config.LLMConfig{RequestTimeout: 5 * time.Second},
		zap.NewNop(),
	)
	require.NoError(t, err)
	return svc
}

func TestOpenRouterComplete(t *testing.T) {
	svc := newTestOpenRouter(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/chat/completions", r.URL.Path)
		assert.Equal(t, "Bearer test-key", r.Header.Get("Authorization"))

		body, _ := io.ReadAll(r.Body)
		assert.Equal(t, "test/model", gjson.GetBytes(body, "model").String())
		assert.Equal(t, "hello", gjson.GetBytes(body, "messages.0.content").String())

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"choices":[{"message":{"role":"assistant","content":"[1,2,3]"}}]}`))
	})

	text, err := svc.Complete(context.Background(), "hello")
	require.NoError(t, err)
	assert.Equal(t, "[1,2,3]", text)
}

func TestOpenRouterUpstreamError(t *testing.T) {
	calls := 0
	svc := newTestOpenRouter(t, func(w http.ResponseWriter, r *http.Request) {
		calls++
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte(`{"error":{"message":"invalid key"}}`))
	})

	_, err := svc.Complete(context.Background(), "hello")
	var pe *ProviderError
	require.True(t, errors.As(err, &pe))
	assert.Equal(t, http.StatusUnauthorized, pe.Status)
	assert.Equal(t, "invalid key", pe.Message)
	assert.Equal(t, 1, calls)
}

func TestOpenRouterEmptyChoices(t *testing.T) {
	svc := newTestOpenRouter(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"choices":[]}`))
	})

	_, err := svc.Complete(context.Background(), "hello")
	assert.ErrorContains(t, err, "no response from LLM")
}

func TestOpenRouterRejectsEmptyPrompt(t *testing.T) {
	svc := newTestOpenRouter(t, func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("provider must not be called")
	})
	_, err := svc.Complete(context.Background(), "   ")
	assert.Error(t, err)
}

func TestNewCompleterUnknownProvider(t *testing.T) {
	_, err := NewCompleter(context.Background(), &config.LLMConfig{Provider: "nope"}, zap.NewNop())
	assert.ErrorContains(t, err, "unsupported LLM provider")
}

func TestIsRetryableError(t *testing.T) {
	assert.False(t, isRetryableError(nil))
	assert.False(t, isRetryableError(context.DeadlineExceeded))
	assert.True(t, isRetryableError(errors.New("read: connection reset by peer")))
	assert.False(t, isRetryableError(errors.New("bad request")))
}
