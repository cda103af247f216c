package repository

import (
	"context"
	"fmt"

	"github.com/fadilmartias/mock-interview/internal/model"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Usage counter columns of users.
const (
	UsageInterviews = "interviews_conducted"
	UsageFeedbacks  = "feedbacks_generated"
	UsageAnswers    = "answers_evaluated"
)

type UserRepository struct {
	db *gorm.DB
}

func NewUserRepository(db *gorm.DB) *UserRepository {
	return &UserRepository{db}
}

func (r *UserRepository) Create(ctx context.Context, user *model.User) error {
	return r.db.WithContext(ctx).Create(user).Error
}

func (r *UserRepository) FindByID(ctx context.Context, id uuid.UUID) (*model.User, error) {
	var user model.User
	err := r.db.WithContext(ctx).First(&user, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *UserRepository) FindByEmail(ctx context.Context, email string) (*model.User, error) {
	var user model.User
	err := r.db.WithContext(ctx).First(&user, "email = ?", email).Error
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// IncrementUsage adds one to a usage counter in a single UPDATE so that
// concurrent increments are never lost.
func (r *UserRepository) IncrementUsage(ctx context.Context, id uuid.UUID, column string) error {
	switch column {
	case UsageInterviews, UsageFeedbacks, UsageAnswers:
	default:
		return fmt.Errorf("unknown usage counter %q", column)
	}
	res := r.db.WithContext(ctx).Model(&model.User{}).
		Where("id = ?", id).
		UpdateColumn(column, gorm.Expr(column+" + ?", 1))
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
