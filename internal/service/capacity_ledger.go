package service

import (
	"errors"

	"go.uber.org/zap"

	"thesisflow/internal/models"
	"thesisflow/internal/repository"
	appErrors "thesisflow/pkg/errors"
)

type ledgerCourseRepository interface {
	FindByID(courseID string) (*models.Course, error)
	Update(course models.Course) error
}

type ledgerUserRepository interface {
	FindByID(role models.UserRole, userID string) (*models.UserAccount, error)
	Update(account models.UserAccount) error
}

// CapacityLedger applies bounded adjustments to the capacity counters:
// course seats and per-judge defense quotas. Both counters refuse to go
// below zero; a refused decrement leaves the stored value untouched.
type CapacityLedger struct {
	courses ledgerCourseRepository
	users   ledgerUserRepository
	logger  *zap.Logger
}

// NewCapacityLedger creates the ledger over both counter-bearing collections.
func NewCapacityLedger(courses ledgerCourseRepository, users ledgerUserRepository, logger *zap.Logger) *CapacityLedger {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &CapacityLedger{courses: courses, users: users, logger: logger}
}

// AdjustCourseCapacity shifts a course's remaining seats by delta.
func (l *CapacityLedger) AdjustCourseCapacity(courseID string, delta int) error {
	course, err := l.courses.FindByID(courseID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return appErrors.Clone(appErrors.ErrNotFound, "course not found")
		}
		return appErrors.Wrap(err, appErrors.ErrPersistence.Code, "load course")
	}

	next := course.Capacity + delta
	if next < 0 {
		return appErrors.Clone(appErrors.ErrPreconditionFailed, "course capacity exhausted")
	}
	course.Capacity = next
	if err := l.courses.Update(*course); err != nil {
		return appErrors.Wrap(err, appErrors.ErrPersistence.Code, "update course capacity")
	}

	l.logger.Debug("course capacity adjusted",
		zap.String("course_id", courseID),
		zap.Int("delta", delta),
		zap.Int("capacity", next))
	return nil
}

// AdjustJudgeCapacity shifts a judge's remaining defense quota by delta.
func (l *CapacityLedger) AdjustJudgeCapacity(role models.UserRole, userID string, delta int) error {
	if !role.IsJudgeRole() {
		return appErrors.Clone(appErrors.ErrValidation, "role carries no judge capacity")
	}

	account, err := l.users.FindByID(role, userID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return appErrors.Clone(appErrors.ErrNotFound, "judge not found")
		}
		return appErrors.Wrap(err, appErrors.ErrPersistence.Code, "load judge")
	}

	next := account.JudgeCapacity + delta
	if next < 0 {
		return appErrors.Clone(appErrors.ErrPreconditionFailed, "judge capacity exhausted")
	}
	account.JudgeCapacity = next
	if err := l.users.Update(*account); err != nil {
		return appErrors.Wrap(err, appErrors.ErrPersistence.Code, "update judge capacity")
	}

	l.logger.Debug("judge capacity adjusted",
		zap.String("user_id", userID),
		zap.String("role", string(role)),
		zap.Int("delta", delta),
		zap.Int("capacity", next))
	return nil
}
