package repository

import (
	"context"

	"github.com/fadilmartias/mock-interview/internal/model"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type FeedbackRepository struct {
	db *gorm.DB
}

func NewFeedbackRepository(db *gorm.DB) *FeedbackRepository {
	return &FeedbackRepository{db}
}

// Upsert stores the report of a session, replacing a previous one, and
// returns the stored row.
func (r *FeedbackRepository) Upsert(ctx context.Context, report *model.FeedbackReport) (*model.FeedbackReport, error) {
	db := r.db.WithContext(ctx)
	err := db.Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "interview_id"}},
		DoUpdates: clause.AssignmentColumns([]string{
			"technical_score", "communication", "confidence",
			"strengths", "weaknesses", "summary", "degraded", "updated_at",
		}),
	}).Create(report).Error
	if err != nil {
		return nil, err
	}
	return r.FindByInterview(ctx, report.InterviewID, report.UserID)
}

func (r *FeedbackRepository) FindByInterview(ctx context.Context, interviewID, userID uuid.UUID) (*model.FeedbackReport, error) {
	var report model.FeedbackReport
	err := r.db.WithContext(ctx).
		Preload("Interview").
		Where("interview_id = ? AND user_id = ?", interviewID, userID).
		First(&report).Error
	if err != nil {
		return nil, err
	}
	return &report, nil
}

// ListForUser returns every report of the user with its session, newest first.
func (r *FeedbackRepository) ListForUser(ctx context.Context, userID uuid.UUID) ([]model.FeedbackReport, error) {
	var reports []model.FeedbackReport
	err := r.db.WithContext(ctx).
		Preload("Interview").
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&reports).Error
	return reports, err
}

// AverageTechnicalScore averages the scores of non-degraded reports. ok is
// false when there are none.
func (r *FeedbackRepository) AverageTechnicalScore(ctx context.Context, userID uuid.UUID) (avg float64, ok bool, err error) {
	var row struct {
		Avg   float64
		Count int64
	}
	err = r.db.WithContext(ctx).Model(&model.FeedbackReport{}).
		Select("COALESCE(AVG(technical_score), 0) AS avg, COUNT(*) AS count").
		Where("user_id = ? AND degraded = ? AND technical_score IS NOT NULL", userID, false).
		Scan(&row).Error
	return row.Avg, row.Count > 0, err
}
