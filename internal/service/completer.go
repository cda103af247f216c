package service

import (
	"context"
	"fmt"

	"github.com/fadilmartias/mock-interview/internal/config"
	"go.uber.org/zap"
)

// Completer is the only operation the interview flow needs from a language
// model: prompt in, free text out.
type Completer interface {
	Complete(ctx context.Context, prompt string) (string, error)
}

// ProviderError is returned for transport, auth and empty-response failures.
type ProviderError struct {
	Provider string
	Status   int
	Message  string
	Err      error
}

func (e *ProviderError) Error() string {
	msg := e.Provider + " error: " + e.Message
	if e.Status != 0 {
		msg = fmt.Sprintf("%s (status %d)", msg, e.Status)
	}
	if e.Err != nil {
		msg += " (" + e.Err.Error() + ")"
	}
	return msg
}

func (e *ProviderError) Unwrap() error { return e.Err }

func NewCompleter(ctx context.Context, cfg *config.LLMConfig, logger *zap.Logger) (Completer, error) {
	switch cfg.Provider {
	case "gemini":
		return NewGeminiService(ctx, config.LoadGeminiConfig(), cfg, logger)
	case "openrouter":
		return NewOpenRouterService(config.LoadOpenRouterConfig(), cfg, logger)
	default:
		return nil, fmt.Errorf("unsupported LLM provider: %s", cfg.Provider)
	}
}
