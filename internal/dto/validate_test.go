package dto

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRegisterRequestValidate(t *testing.T) {
	errs := RegisterRequest{Email: "not-an-email", Password: "short"}.Validate()
	assert.Equal(t, "must be a valid email address", errs["email"])
	assert.Equal(t, "must be at least 8 characters", errs["password"])

	errs = RegisterRequest{Email: "qa@example.com", Password: "long-password"}.Validate()
	assert.Empty(t, errs)
}

func TestLoginRequestValidate(t *testing.T) {
	errs := LoginRequest{}.Validate()
	assert.Equal(t, "email is required", errs["email"])
	assert.Equal(t, "password is required", errs["password"])
}

func TestStartInterviewRequestRejectsBlankRole(t *testing.T) {
	errs := StartInterviewRequest{Role: "   ", Details: "backend"}.Validate()
	assert.Equal(t, "role is required", errs["role"])

	errs = StartInterviewRequest{Role: "Backend Engineer", Details: strings.Repeat("x", 4001)}.Validate()
	assert.Equal(t, "must be at most 4000 characters", errs["details"])
}

func TestAnswerRequestValidate(t *testing.T) {
	errs := AnswerRequest{Question: "What is a goroutine?"}.Validate()
	assert.Equal(t, "answer is required", errs["answer"])
	assert.NotContains(t, errs, "question")
}
