package repository

import (
	"context"
	"errors"
	"time"

	"github.com/fadilmartias/mock-interview/internal/model"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ErrVersionConflict is returned when another writer changed the session
// between read and write, on every attempt.
var ErrVersionConflict = errors.New("interview session was modified concurrently")

const maxWriteAttempts = 3

type InterviewRepository struct {
	db *gorm.DB
}

func NewInterviewRepository(db *gorm.DB) *InterviewRepository {
	return &InterviewRepository{db}
}

// Create stores the session together with its questions.
func (r *InterviewRepository) Create(ctx context.Context, session *model.InterviewSession) error {
	return r.db.WithContext(ctx).Create(session).Error
}

func (r *InterviewRepository) FindByIDForUser(ctx context.Context, id, userID uuid.UUID) (*model.InterviewSession, error) {
	return findSession(r.db.WithContext(ctx), id, userID)
}

func findSession(db *gorm.DB, id, userID uuid.UUID) (*model.InterviewSession, error) {
	var session model.InterviewSession
	err := withItems(db).
		Where("id = ? AND user_id = ?", id, userID).
		First(&session).Error
	if err != nil {
		return nil, err
	}
	return &session, nil
}

func withItems(db *gorm.DB) *gorm.DB {
	byPosition := func(db *gorm.DB) *gorm.DB { return db.Order("position ASC") }
	return db.Preload("Questions", byPosition).Preload("Answers", byPosition)
}

// ListForUser returns one page of sessions, newest first, and the total count.
func (r *InterviewRepository) ListForUser(ctx context.Context, userID uuid.UUID, page, pageSize int) ([]model.InterviewSession, int64, error) {
	db := r.db.WithContext(ctx)

	var total int64
	if err := db.Model(&model.InterviewSession{}).Where("user_id = ?", userID).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var sessions []model.InterviewSession
	err := withItems(db).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Offset((page - 1) * pageSize).
		Limit(pageSize).
		Find(&sessions).Error
	return sessions, total, err
}

// AppendAnswer inserts answer at the next position of the session. guard is
// run against the freshly loaded session inside the transaction and may veto
// the write. The answer that fills the last question completes the session in
// the same write. Lost races are retried against the database only.
func (r *InterviewRepository) AppendAnswer(
	ctx context.Context,
	id, userID uuid.UUID,
	answer model.AnsweredItem,
	guard func(*model.InterviewSession) error,
	now time.Time,
) (*model.InterviewSession, error) {
	var result *model.InterviewSession
	err := r.retryOnConflict(ctx, func(tx *gorm.DB) error {
		session, err := findSession(tx, id, userID)
		if err != nil {
			return err
		}
		if err := guard(session); err != nil {
			return err
		}

		item := answer
		item.ID = 0
		item.SessionID = session.ID
		item.Position = len(session.Answers) + 1
		item.CreatedAt = now
		if err := tx.Create(&item).Error; err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				return ErrVersionConflict
			}
			return err
		}
		session.Answers = append(session.Answers, item)

		if session.Remaining() == 0 {
			if err := session.Transition(model.StatusCompleted, now); err != nil {
				return err
			}
		}
		if err := bumpVersion(tx, session, now); err != nil {
			return err
		}
		result = session
		return nil
	})
	return result, err
}

// Complete moves the session to completed. An already completed session is
// returned unchanged.
func (r *InterviewRepository) Complete(ctx context.Context, id, userID uuid.UUID, now time.Time) (*model.InterviewSession, error) {
	var result *model.InterviewSession
	err := r.retryOnConflict(ctx, func(tx *gorm.DB) error {
		session, err := findSession(tx, id, userID)
		if err != nil {
			return err
		}
		if session.IsCompleted() {
			result = session
			return nil
		}
		if err := session.Transition(model.StatusCompleted, now); err != nil {
			return err
		}
		if err := bumpVersion(tx, session, now); err != nil {
			return err
		}
		result = session
		return nil
	})
	return result, err
}

func (r *InterviewRepository) SetFeedbackSummary(ctx context.Context, id uuid.UUID, summary string) error {
	return r.db.WithContext(ctx).Model(&model.InterviewSession{}).
		Where("id = ?", id).
		Updates(map[string]any{"feedback_summary": summary, "updated_at": time.Now()}).Error
}

// CountByStatus counts the user's sessions per status.
func (r *InterviewRepository) CountByStatus(ctx context.Context, userID uuid.UUID) (map[model.SessionStatus]int64, error) {
	var rows []struct {
		Status model.SessionStatus
		Count  int64
	}
	err := r.db.WithContext(ctx).Model(&model.InterviewSession{}).
		Select("status, COUNT(*) AS count").
		Where("user_id = ?", userID).
		Group("status").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	counts := make(map[model.SessionStatus]int64, len(rows))
	for _, row := range rows {
		counts[row.Status] = row.Count
	}
	return counts, nil
}

// AverageAnswerScore averages every evaluated answer of the user. ok is false
// when there are none.
func (r *InterviewRepository) AverageAnswerScore(ctx context.Context, userID uuid.UUID) (avg float64, ok bool, err error) {
	var row struct {
		Avg   float64
		Count int64
	}
	err = r.db.WithContext(ctx).Model(&model.AnsweredItem{}).
		Select("COALESCE(AVG(answered_items.score), 0) AS avg, COUNT(*) AS count").
		Joins("JOIN interview_sessions ON interview_sessions.id = answered_items.session_id").
		Where("interview_sessions.user_id = ?", userID).
		Scan(&row).Error
	return row.Avg, row.Count > 0, err
}

func (r *InterviewRepository) retryOnConflict(ctx context.Context, fn func(tx *gorm.DB) error) error {
	var err error
	for attempt := 0; attempt < maxWriteAttempts; attempt++ {
		err = r.db.WithContext(ctx).Transaction(fn)
		if !errors.Is(err, ErrVersionConflict) {
			return err
		}
	}
	return err
}

func bumpVersion(tx *gorm.DB, session *model.InterviewSession, now time.Time) error {
	res := tx.Model(&model.InterviewSession{}).
		Where("id = ? AND version = ?", session.ID, session.Version).
		Updates(map[string]any{
			"version":      session.Version + 1,
			"status":       string(session.Status),
			"completed_at": session.CompletedAt,
			"updated_at":   now,
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrVersionConflict
	}
	session.Version++
	session.UpdatedAt = now
	return nil
}
