package model

import "gorm.io/gorm"

func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&User{},
		&PlanLimit{},
		&InterviewSession{},
		&QuestionItem{},
		&AnsweredItem{},
		&FeedbackReport{},
	)
}
