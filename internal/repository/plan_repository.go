package repository

import (
	"context"

	"github.com/fadilmartias/mock-interview/internal/model"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type PlanRepository struct {
	db *gorm.DB
}

func NewPlanRepository(db *gorm.DB) *PlanRepository {
	return &PlanRepository{db}
}

// FindByName expects an already normalized (lower-case, trimmed) name.
func (r *PlanRepository) FindByName(ctx context.Context, name string) (*model.PlanLimit, error) {
	var plan model.PlanLimit
	err := r.db.WithContext(ctx).First(&plan, "name = ?", name).Error
	if err != nil {
		return nil, err
	}
	return &plan, nil
}

func (r *PlanRepository) List(ctx context.Context) ([]model.PlanLimit, error) {
	var plans []model.PlanLimit
	err := r.db.WithContext(ctx).Order("name").Find(&plans).Error
	return plans, err
}

// Seed inserts the plans, overwriting the limits of plans that already exist.
func (r *PlanRepository) Seed(ctx context.Context, plans []model.PlanLimit) error {
	if len(plans) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "name"}},
		DoUpdates: clause.AssignmentColumns([]string{"max_interviews", "max_feedbacks", "updated_at"}),
	}).Create(&plans).Error
}
