package usecase

import (
	"errors"
	"fmt"

	"gorm.io/gorm"
)

var (
	ErrNotFound           = errors.New("not found")
	ErrQuotaExceeded      = errors.New("usage quota exceeded")
	ErrPlanNotFound       = errors.New("plan limits not found")
	ErrUpstream           = errors.New("language model request failed")
	ErrSessionCompleted   = errors.New("interview session is already completed")
	ErrAllAnswered        = errors.New("all interview questions are already answered")
	ErrConcurrentUpdate   = errors.New("interview session was modified concurrently, try again")
	ErrInvalidInput       = errors.New("invalid input")
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrEmailTaken         = errors.New("email is already registered")
)

// QuotaError carries the numbers behind ErrQuotaExceeded.
type QuotaError struct {
	Plan     string
	Category Category
	Used     int
	Limit    int
}

func (e *QuotaError) Error() string {
	return fmt.Sprintf("%s quota exceeded for plan %s (%d/%d)", e.Category, e.Plan, e.Used, e.Limit)
}

func (e *QuotaError) Is(target error) bool { return target == ErrQuotaExceeded }

func invalidInput(msg string) error {
	return fmt.Errorf("%w: %s", ErrInvalidInput, msg)
}

func upstream(err error) error {
	return fmt.Errorf("%w: %w", ErrUpstream, err)
}

// notFound maps a missing row to ErrNotFound and leaves other errors alone.
func notFound(err error, what string) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return fmt.Errorf("%s %w", what, ErrNotFound)
	}
	return err
}
