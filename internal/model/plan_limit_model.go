package model

import "time"

type PlanLimit struct {
	Name          string    `gorm:"type:varchar(50);primaryKey" json:"name"`
	MaxInterviews int       `gorm:"not null" json:"max_interviews"`
	MaxFeedbacks  int       `gorm:"not null" json:"max_feedbacks"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}
