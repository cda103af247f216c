package config

import (
	"sync"
	"time"
)

// LLMConfig selects the completion provider. Requests are never retried by
// default; MaxRetries exists for operators who explicitly opt in.
type LLMConfig struct {
	Provider       string // "gemini" or "openrouter"
	RequestTimeout time.Duration
	MaxRetries     int
}

var (
	llmConfig *LLMConfig
	llmOnce   sync.Once
)

func LoadLLMConfig() *LLMConfig {
	llmOnce.Do(func() {
		llmConfig = &LLMConfig{
			Provider:       getEnv("LLM_PROVIDER", "gemini"),
			RequestTimeout: getEnvDuration("LLM_REQUEST_TIMEOUT", 90*time.Second),
			MaxRetries:     getEnvInt("LLM_MAX_RETRIES", 0),
		}
	})
	return llmConfig
}
