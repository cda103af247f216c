package model

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type SessionStatus string

const (
	// StatusCreated is never persisted: a session is only stored once its
	// questions exist.
	StatusCreated            SessionStatus = "created"
	StatusQuestionsGenerated SessionStatus = "in-progress"
	StatusCompleted          SessionStatus = "completed"
)

type QuestionCategory string

const (
	CategoryTechnical  QuestionCategory = "Technical"
	CategoryBehavioral QuestionCategory = "Behavioral"
)

type InterviewSession struct {
	ID              uuid.UUID      `gorm:"type:uuid;primaryKey" json:"id"`
	UserID          uuid.UUID      `gorm:"type:uuid;not null;index" json:"user_id"`
	Role            string         `gorm:"type:varchar(255);not null" json:"role"`
	Details         string         `gorm:"type:text" json:"details"`
	Status          SessionStatus  `gorm:"type:varchar(50);not null" json:"status"`
	FeedbackSummary *string        `gorm:"type:text" json:"feedback_summary,omitempty"`
	Version         int            `gorm:"not null;default:0" json:"version"`
	Questions       []QuestionItem `gorm:"foreignKey:SessionID;constraint:OnDelete:CASCADE" json:"questions"`
	Answers         []AnsweredItem `gorm:"foreignKey:SessionID;constraint:OnDelete:CASCADE" json:"answers"`
	CreatedAt       time.Time      `gorm:"index" json:"created_at"`
	UpdatedAt       time.Time      `json:"updated_at"`
	CompletedAt     *time.Time     `json:"completed_at,omitempty"`
}

type QuestionItem struct {
	ID        uint             `gorm:"primaryKey" json:"-"`
	SessionID uuid.UUID        `gorm:"type:uuid;not null;uniqueIndex:idx_question_position" json:"-"`
	Position  int              `gorm:"not null;uniqueIndex:idx_question_position" json:"position"`
	Question  string           `gorm:"type:text;not null" json:"question"`
	Category  QuestionCategory `gorm:"type:varchar(20);not null" json:"category"`
}

type AnsweredItem struct {
	ID          uint      `gorm:"primaryKey" json:"-"`
	SessionID   uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_answer_position" json:"-"`
	Position    int       `gorm:"not null;uniqueIndex:idx_answer_position" json:"position"`
	Question    string    `gorm:"type:text;not null" json:"question"`
	Answer      string    `gorm:"type:text;not null" json:"answer"`
	Score       int       `gorm:"not null" json:"score"`
	Comment     string    `gorm:"type:text" json:"comment"`
	Suggestions string    `gorm:"type:text" json:"suggestions"`
	CreatedAt   time.Time `json:"created_at"`
}

func (s *InterviewSession) BeforeCreate(tx *gorm.DB) error {
	if s.ID == uuid.Nil {
		s.ID = uuid.New()
	}
	return nil
}

// Transition moves the session along created -> in-progress -> completed.
// Completing an already completed session is a no-op.
func (s *InterviewSession) Transition(to SessionStatus, now time.Time) error {
	from := s.Status
	if from == "" {
		from = StatusCreated
	}
	switch {
	case from == StatusCreated && to == StatusQuestionsGenerated:
	case from == StatusQuestionsGenerated && to == StatusCompleted:
		s.CompletedAt = &now
	case from == StatusCompleted && to == StatusCompleted:
		return nil
	default:
		return fmt.Errorf("invalid session transition %s -> %s", from, to)
	}
	s.Status = to
	return nil
}

func (s *InterviewSession) IsCompleted() bool {
	return s.Status == StatusCompleted
}

// Remaining reports how many questions are still unanswered.
func (s *InterviewSession) Remaining() int {
	return len(s.Questions) - len(s.Answers)
}
