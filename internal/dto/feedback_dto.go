package dto

import (
	"time"

	"github.com/fadilmartias/mock-interview/internal/model"
	"github.com/google/uuid"
)

type FeedbackReportDTO struct {
	ID                 uuid.UUID `json:"id"`
	InterviewID        uuid.UUID `json:"interview_id"`
	Role               string    `json:"role,omitempty"`
	InterviewStatus    string    `json:"interview_status,omitempty"`
	InterviewCreatedAt time.Time `json:"interview_created_at,omitempty"`
	TechnicalScore     *int      `json:"technical_score"`
	Communication      string    `json:"communication"`
	Confidence         string    `json:"confidence"`
	Strengths          []string  `json:"strengths"`
	Weaknesses         []string  `json:"weaknesses"`
	Summary            string    `json:"summary"`
	Degraded           bool      `json:"degraded"`
	CreatedAt          time.Time `json:"created_at"`
	UpdatedAt          time.Time `json:"updated_at"`
}

func NewFeedbackReportDTO(r *model.FeedbackReport) FeedbackReportDTO {
	out := FeedbackReportDTO{
		ID:             r.ID,
		InterviewID:    r.InterviewID,
		TechnicalScore: r.TechnicalScore,
		Communication:  r.Communication,
		Confidence:     r.Confidence,
		Strengths:      nonNil(r.Strengths),
		Weaknesses:     nonNil(r.Weaknesses),
		Summary:        r.Summary,
		Degraded:       r.Degraded,
		CreatedAt:      r.CreatedAt,
		UpdatedAt:      r.UpdatedAt,
	}
	if r.Interview != nil {
		out.Role = r.Interview.Role
		out.InterviewStatus = string(r.Interview.Status)
		out.InterviewCreatedAt = r.Interview.CreatedAt
	}
	return out
}

func nonNil(items []string) []string {
	if items == nil {
		return []string{}
	}
	return items
}
