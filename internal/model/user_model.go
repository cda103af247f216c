package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// UsageCounter is embedded in User. Counters only grow; resets belong to plan
// renewal, which lives outside this service.
type UsageCounter struct {
	InterviewsConducted int `gorm:"not null;default:0" json:"interviews_conducted"`
	FeedbacksGenerated  int `gorm:"not null;default:0" json:"feedbacks_generated"`
	AnswersEvaluated    int `gorm:"not null;default:0" json:"answers_evaluated"`
}

type User struct {
	ID           uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	Email        string    `gorm:"type:varchar(255);uniqueIndex;not null" json:"email"`
	Name         string    `gorm:"type:varchar(255)" json:"name"`
	PasswordHash string    `gorm:"type:varchar(255);not null" json:"-"`
	Plan         string    `gorm:"type:varchar(50);not null;default:free" json:"plan"`
	UsageCounter `gorm:"embedded"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

func (u *User) BeforeCreate(tx *gorm.DB) error {
	if u.ID == uuid.Nil {
		u.ID = uuid.New()
	}
	return nil
}
