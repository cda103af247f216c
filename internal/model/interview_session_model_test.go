package model

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSessionTransitions(t *testing.T) {
	now := time.Now()
	s := &InterviewSession{}

	require.NoError(t, s.Transition(StatusQuestionsGenerated, now))
	assert.Equal(t, StatusQuestionsGenerated, s.Status)
	assert.Nil(t, s.CompletedAt)

	require.NoError(t, s.Transition(StatusCompleted, now))
	assert.True(t, s.IsCompleted())
	require.NotNil(t, s.CompletedAt)

	// completing twice keeps the original timestamp
	require.NoError(t, s.Transition(StatusCompleted, now.Add(time.Hour)))
	assert.Equal(t, now, *s.CompletedAt)
}

func TestSessionRejectsBackwardTransitions(t *testing.T) {
	s := &InterviewSession{Status: StatusCompleted}
	assert.Error(t, s.Transition(StatusQuestionsGenerated, time.Now()))

	fresh := &InterviewSession{}
	assert.Error(t, fresh.Transition(StatusCompleted, time.Now()))
}

func TestSessionRemaining(t *testing.T) {
	s := &InterviewSession{
		Questions: make([]QuestionItem, 7),
		Answers:   make([]AnsweredItem, 3),
	}
	assert.Equal(t, 4, s.Remaining())
}
