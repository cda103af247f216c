package dto

import (
	"time"

	"github.com/fadilmartias/mock-interview/internal/model"
	"github.com/google/uuid"
)

type StartInterviewRequest struct {
	Role    string `json:"role" validate:"notblank,max=200"`
	Details string `json:"details" validate:"max=4000"`
}

func (r StartInterviewRequest) Validate() map[string]string { return validateStruct(r) }

type AnswerRequest struct {
	Question string `json:"question" validate:"notblank"`
	Answer   string `json:"answer" validate:"notblank,max=8000"`
}

func (r AnswerRequest) Validate() map[string]string { return validateStruct(r) }

type QuestionDTO struct {
	Position int    `json:"position"`
	Question string `json:"question"`
	Category string `json:"category"`
}

type AnswerDTO struct {
	Position    int       `json:"position"`
	Question    string    `json:"question"`
	Answer      string    `json:"answer"`
	Score       int       `json:"score"`
	Comment     string    `json:"comment"`
	Suggestions string    `json:"suggestions"`
	CreatedAt   time.Time `json:"created_at"`
}

type InterviewSessionDTO struct {
	ID              uuid.UUID     `json:"id"`
	Role            string        `json:"role"`
	Details         string        `json:"details"`
	Status          string        `json:"status"`
	Questions       []QuestionDTO `json:"questions"`
	Answers         []AnswerDTO   `json:"answers"`
	Remaining       int           `json:"remaining"`
	FeedbackSummary *string       `json:"feedback_summary,omitempty"`
	CreatedAt       time.Time     `json:"created_at"`
	UpdatedAt       time.Time     `json:"updated_at"`
	CompletedAt     *time.Time    `json:"completed_at,omitempty"`
}

type AnswerResponse struct {
	Evaluation AnswerDTO `json:"evaluation"`
	Status     string    `json:"status"`
	Remaining  int       `json:"remaining"`
}

func NewAnswerDTO(a model.AnsweredItem) AnswerDTO {
	return AnswerDTO{
		Position:    a.Position,
		Question:    a.Question,
		Answer:      a.Answer,
		Score:       a.Score,
		Comment:     a.Comment,
		Suggestions: a.Suggestions,
		CreatedAt:   a.CreatedAt,
	}
}

func NewInterviewSessionDTO(s *model.InterviewSession) InterviewSessionDTO {
	out := InterviewSessionDTO{
		ID:              s.ID,
		Role:            s.Role,
		Details:         s.Details,
		Status:          string(s.Status),
		Questions:       make([]QuestionDTO, 0, len(s.Questions)),
		Answers:         make([]AnswerDTO, 0, len(s.Answers)),
		Remaining:       s.Remaining(),
		FeedbackSummary: s.FeedbackSummary,
		CreatedAt:       s.CreatedAt,
		UpdatedAt:       s.UpdatedAt,
		CompletedAt:     s.CompletedAt,
	}
	for _, q := range s.Questions {
		out.Questions = append(out.Questions, QuestionDTO{
			Position: q.Position,
			Question: q.Question,
			Category: string(q.Category),
		})
	}
	for _, a := range s.Answers {
		out.Answers = append(out.Answers, NewAnswerDTO(a))
	}
	return out
}
