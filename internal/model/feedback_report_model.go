package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// FeedbackReport is unique per interview; regenerating replaces the row.
// TechnicalScore is nil when the model output could not be parsed and the
// report was degraded to a summary.
type FeedbackReport struct {
	ID             uuid.UUID                   `gorm:"type:uuid;primaryKey" json:"id"`
	InterviewID    uuid.UUID                   `gorm:"type:uuid;not null;uniqueIndex" json:"interview_id"`
	UserID         uuid.UUID                   `gorm:"type:uuid;not null;index" json:"user_id"`
	TechnicalScore *int                        `json:"technical_score,omitempty"`
	Communication  string                      `gorm:"type:text" json:"communication"`
	Confidence     string                      `gorm:"type:text" json:"confidence"`
	Strengths      datatypes.JSONSlice[string] `json:"strengths"`
	Weaknesses     datatypes.JSONSlice[string] `json:"weaknesses"`
	Summary        string                      `gorm:"type:text;not null" json:"summary"`
	Degraded       bool                        `gorm:"not null;default:false" json:"degraded"`
	CreatedAt      time.Time                   `json:"created_at"`
	UpdatedAt      time.Time                   `json:"updated_at"`

	Interview *InterviewSession `gorm:"foreignKey:InterviewID" json:"interview,omitempty"`
}

func (r *FeedbackReport) BeforeCreate(tx *gorm.DB) error {
	if r.ID == uuid.Nil {
		r.ID = uuid.New()
	}
	return nil
}
