package prompts

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestManager(t *testing.T) *PromptManager {
	t.Helper()
	pm, err := NewPromptManager()
	require.NoError(t, err)
	return pm
}

func TestTemplatesLoaded(t *testing.T) {
	pm := newTestManager(t)
	assert.Equal(t, []string{Evaluation, Feedback, Questions}, pm.Names())
}

func TestBuildQuestionPrompt(t *testing.T) {
	pm := newTestManager(t)
	prompt, err := pm.BuildPrompt(Questions, map[string]string{
		"Role":       "QA Engineer",
		"Details":    "Tests REST APIs",
		"Total":      "7",
		"Technical":  "5",
		"Behavioral": "2",
	})
	require.NoError(t, err)

	assert.Contains(t, prompt, `"QA Engineer"`)
	assert.Contains(t, prompt, "Tests REST APIs")
	assert.Contains(t, prompt, `exactly 7 interview questions: 5 with category "Technical" followed by 2 with category "Behavioral"`)
	assert.Contains(t, prompt, "pure JSON array")
	assert.NotContains(t, prompt, "{{.")
}

func TestBuildEvaluationPrompt(t *testing.T) {
	pm := newTestManager(t)
	prompt, err := pm.BuildPrompt(Evaluation, map[string]string{
		"Question": "What is idempotency?",
		"Answer":   "Same result when repeated.",
	})
	require.NoError(t, err)
	assert.Contains(t, prompt, `"score": <integer from 1 to 10>`)
	assert.Contains(t, prompt, `"suggestions"`)
	assert.Contains(t, prompt, "Same result when repeated.")
}

func TestBuildFeedbackPrompt(t *testing.T) {
	pm := newTestManager(t)
	prompt, err := pm.BuildPrompt(Feedback, map[string]string{
		"Role":       "Backend Engineer",
		"Transcript": "Q1: ...",
	})
	require.NoError(t, err)
	for _, field := range []string{"technicalScore", "communication", "confidence", "strengths", "weaknesses", "summary"} {
		assert.Contains(t, prompt, `"`+field+`"`)
	}
}

func TestBuildPromptErrors(t *testing.T) {
	pm := newTestManager(t)

	_, err := pm.BuildPrompt("unknown", nil)
	assert.Error(t, err)

	_, err = pm.BuildPrompt(Evaluation, map[string]string{"Question": "only question"})
	assert.ErrorContains(t, err, "Answer")
}
