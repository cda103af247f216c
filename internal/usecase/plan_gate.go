package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/fadilmartias/mock-interview/internal/metrics"
	"github.com/fadilmartias/mock-interview/internal/model"
	"github.com/fadilmartias/mock-interview/internal/repository"
	"gorm.io/gorm"
)

type Category string

const (
	CategoryInterview Category = "interview"
	CategoryFeedback  Category = "feedback"
)

// PlanGate enforces the per-plan usage limits. It must run before any
// language model call of a metered operation.
type PlanGate struct {
	plans *repository.PlanRepository
}

func NewPlanGate(plans *repository.PlanRepository) *PlanGate {
	return &PlanGate{plans: plans}
}

func (g *PlanGate) Check(ctx context.Context, user *model.User, category Category) error {
	name := strings.ToLower(strings.TrimSpace(user.Plan))
	plan, err := g.plans.FindByName(ctx, name)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return fmt.Errorf("%w: %q", ErrPlanNotFound, name)
	}
	if err != nil {
		return err
	}

	var used, limit int
	switch category {
	case CategoryInterview:
		used, limit = user.InterviewsConducted, plan.MaxInterviews
	case CategoryFeedback:
		used, limit = user.FeedbacksGenerated, plan.MaxFeedbacks
	default:
		return invalidInput(fmt.Sprintf("unknown usage category %q", category))
	}
	if used >= limit {
		metrics.QuotaRejected(string(category))
		return &QuotaError{Plan: name, Category: category, Used: used, Limit: limit}
	}
	return nil
}
