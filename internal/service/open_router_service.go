package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/fadilmartias/mock-interview/internal/config"
	"github.com/go-resty/resty/v2"
	"github.com/tidwall/gjson"
	"go.uber.org/zap"
)

type OpenRouterService struct {
	client *resty.Client
	model  string
	logger *zap.Logger
}

func NewOpenRouterService(orConfig *config.OpenRouterConfig, llmConfig *config.LLMConfig, logger *zap.Logger) (*OpenRouterService, error) {
	if orConfig.APIKey == "" {
		return nil, fmt.Errorf("OPENROUTER_API_KEY not set")
	}
	client := resty.New().
		SetBaseURL(strings.TrimRight(orConfig.BaseURL, "/")).
		SetAuthToken(orConfig.APIKey).
		SetHeader("Content-Type", "application/json").
		SetTimeout(llmConfig.RequestTimeout).
		SetRetryCount(llmConfig.MaxRetries).
		SetRetryWaitTime(time.Second)
	return &OpenRouterService{client: client, model: orConfig.Model, logger: logger}, nil
}

func (s *OpenRouterService) Complete(ctx context.Context, prompt string) (string, error) {
	if strings.TrimSpace(prompt) == "" {
		return "", fmt.Errorf("prompt cannot be empty")
	}

	start := time.Now()
	resp, err := s.client.R().
		SetContext(ctx).
		SetBody(map[string]any{
			"model": s.model,
			"messages": []map[string]string{
				{"role": "user", "content": prompt},
			},
		}).
		Post("/chat/completions")
	if err != nil {
		return "", &ProviderError{Provider: "openrouter", Message: "request failed", Err: err}
	}
	if resp.IsError() {
		return "", &ProviderError{
			Provider: "openrouter",
			Status:   resp.StatusCode(),
			Message:  gjson.Get(resp.String(), "error.message").String(),
		}
	}

	text := gjson.Get(resp.String(), "choices.0.message.content").String()
	if strings.TrimSpace(text) == "" {
		return "", &ProviderError{Provider: "openrouter", Status: resp.StatusCode(), Message: "no response from LLM"}
	}

	s.logger.Debug("openrouter completion finished",
		zap.String("model", s.model), zap.Duration("elapsed", time.Since(start)))
	return text, nil
}
