package usecase

import (
	"context"
	"errors"
	"strings"

	"github.com/fadilmartias/mock-interview/internal/model"
	"github.com/fadilmartias/mock-interview/internal/repository"
	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
	"gorm.io/gorm"
)

type UserAnalytics struct {
	Plan                  string                        `json:"plan"`
	MaxInterviews         *int                          `json:"max_interviews,omitempty"`
	MaxFeedbacks          *int                          `json:"max_feedbacks,omitempty"`
	Usage                 model.UsageCounter            `json:"usage"`
	SessionsByStatus      map[model.SessionStatus]int64 `json:"sessions_by_status"`
	AverageAnswerScore    *float64                      `json:"average_answer_score,omitempty"`
	AverageTechnicalScore *float64                      `json:"average_technical_score,omitempty"`
}

type AnalyticsUsecase struct {
	users      *repository.UserRepository
	plans      *repository.PlanRepository
	interviews *repository.InterviewRepository
	feedbacks  *repository.FeedbackRepository
}

func NewAnalyticsUsecase(
	users *repository.UserRepository,
	plans *repository.PlanRepository,
	interviews *repository.InterviewRepository,
	feedbacks *repository.FeedbackRepository,
) *AnalyticsUsecase {
	return &AnalyticsUsecase{users: users, plans: plans, interviews: interviews, feedbacks: feedbacks}
}

// ForUser summarizes usage against the plan and the scores so far. Limits are
// omitted when the user's plan has no limits record. The aggregate queries
// run concurrently.
func (uc *AnalyticsUsecase) ForUser(ctx context.Context, userID uuid.UUID) (*UserAnalytics, error) {
	user, err := uc.users.FindByID(ctx, userID)
	if err != nil {
		return nil, notFound(err, "user")
	}
	out := &UserAnalytics{
		Plan:  strings.ToLower(strings.TrimSpace(user.Plan)),
		Usage: user.UsageCounter,
	}

	plan, err := uc.plans.FindByName(ctx, out.Plan)
	switch {
	case err == nil:
		out.MaxInterviews = &plan.MaxInterviews
		out.MaxFeedbacks = &plan.MaxFeedbacks
	case !errors.Is(err, gorm.ErrRecordNotFound):
		return nil, err
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		counts, err := uc.interviews.CountByStatus(gctx, userID)
		out.SessionsByStatus = counts
		return err
	})
	g.Go(func() error {
		avg, ok, err := uc.interviews.AverageAnswerScore(gctx, userID)
		if ok {
			out.AverageAnswerScore = &avg
		}
		return err
	})
	g.Go(func() error {
		avg, ok, err := uc.feedbacks.AverageTechnicalScore(gctx, userID)
		if ok {
			out.AverageTechnicalScore = &avg
		}
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return out, nil
}
