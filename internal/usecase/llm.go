package usecase

import (
	"context"
	"errors"
	"time"

	"github.com/fadilmartias/mock-interview/internal/aioutput"
	"github.com/fadilmartias/mock-interview/internal/metrics"
	"github.com/fadilmartias/mock-interview/internal/service"
)

// llmCall times one model call of an operation. finish must be called once
// the response has been parsed, with the parse error if any.
type llmCall struct {
	operation string
	start     time.Time
}

func callLLM(ctx context.Context, llm service.Completer, operation, prompt string) (string, *llmCall, error) {
	call := &llmCall{operation: operation, start: time.Now()}
	raw, err := llm.Complete(ctx, prompt)
	if err != nil {
		call.finish(err)
		return "", nil, upstream(err)
	}
	return raw, call, nil
}

func (c *llmCall) finish(err error) {
	elapsed := time.Since(c.start)
	var malformed *aioutput.MalformedOutputError
	switch {
	case err == nil:
		metrics.ObserveLLM(c.operation, metrics.OutcomeOK, elapsed)
	case errors.As(err, &malformed):
		metrics.ObserveLLM(c.operation, metrics.OutcomeMalformed, elapsed)
		metrics.MalformedOutput(malformed.Shape)
	default:
		metrics.ObserveLLM(c.operation, metrics.OutcomeError, elapsed)
	}
}
