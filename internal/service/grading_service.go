package service

import (
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"thesisflow/internal/models"
	"thesisflow/internal/repository"
	appErrors "thesisflow/pkg/errors"
)

type gradingDefenseRepository interface {
	FindByID(id string) (*models.DefenseRequest, error)
	ListApprovedByJudge(judgeID string) ([]models.DefenseRequest, error)
	Update(request models.DefenseRequest) error
}

type gradingThesisRepository interface {
	Append(thesis models.ArchivedThesis) error
}

// GradeOutcome reports what a grade submission did: which seat it filled,
// the letter equivalent of the submitted grade, whether it completed the
// pair and closed the defense, and any soft failures along the way.
type GradeOutcome struct {
	Seat      models.JudgeRole
	Letter    models.LetterGrade
	Request   models.DefenseRequest
	Finalized bool
	Warnings  []string
}

// GradingService runs the grading workflow for both judging seats, and
// finalizes the thesis once the second grade lands.
type GradingService struct {
	defenses gradingDefenseRepository
	theses   gradingThesisRepository
	ledger   judgeCapacityLedger
	logger   *zap.Logger
	now      func() time.Time
}

// NewGradingService constructs the service with sane defaults.
func NewGradingService(defenses gradingDefenseRepository, theses gradingThesisRepository, ledger judgeCapacityLedger, logger *zap.Logger) *GradingService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &GradingService{
		defenses: defenses,
		theses:   theses,
		ledger:   ledger,
		logger:   logger,
		now:      time.Now,
	}
}

// GradableForJudge lists approved defenses on which the user holds a seat
// and whose defense date has arrived.
func (s *GradingService) GradableForJudge(judgeID string) ([]models.DefenseRequest, error) {
	requests, err := s.defenses.ListApprovedByJudge(judgeID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrPersistence.Code, "load defense requests")
	}

	today := s.today()
	var result []models.DefenseRequest
	for _, req := range requests {
		date, err := time.Parse(models.DateLayout, req.DefenseDate)
		if err != nil || date.After(today) {
			continue
		}
		result = append(result, req)
	}
	return result, nil
}

// SubmitGrade records one judge's grade. Overwriting an existing grade
// requires the overwrite flag; without it the call fails with a conflict so
// the caller can ask for confirmation. The judge's capacity seat is
// released on the first submission only. When both grades are present the
// defense is finalized: average, letter grade, closed status, and an
// archive snapshot.
func (s *GradingService) SubmitGrade(judgeID, requestID string, grade float64, overwrite bool) (*GradeOutcome, error) {
	if grade < models.GradeMin || grade > models.GradeMax {
		return nil, appErrors.Clone(appErrors.ErrValidation,
			fmt.Sprintf("grade must be between %g and %g", models.GradeMin, models.GradeMax))
	}

	request, err := s.defenses.FindByID(requestID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "defense request not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrPersistence.Code, "load defense request")
	}

	seat, ok := request.JudgeRoleFor(judgeID)
	if !ok {
		return nil, appErrors.Clone(appErrors.ErrForbidden, "user holds no judging seat on this defense")
	}
	if request.Status != models.DefenseStatusApproved {
		return nil, appErrors.Clone(appErrors.ErrPreconditionFailed, "defense is not open for grading")
	}
	if date, err := time.Parse(models.DateLayout, request.DefenseDate); err != nil || date.After(s.today()) {
		return nil, appErrors.Clone(appErrors.ErrPreconditionFailed, "the defense has not taken place yet")
	}

	var slot **float64
	var dateSlot *string
	switch seat {
	case models.JudgeRoleInternal:
		slot = &request.InternalGrade
		dateSlot = &request.InternalGradeDate
	case models.JudgeRoleExternal:
		slot = &request.ExternalGrade
		dateSlot = &request.ExternalGradeDate
	}

	firstSubmission := *slot == nil
	if !firstSubmission && !overwrite {
		return nil, appErrors.Clone(appErrors.ErrConflict, "a grade is already recorded for this seat")
	}

	value := grade
	*slot = &value
	*dateSlot = s.now().Format(models.DateLayout)

	finalized := request.InternalGrade != nil && request.ExternalGrade != nil
	if finalized {
		final := (*request.InternalGrade + *request.ExternalGrade) / 2
		request.FinalGrade = &final
		request.FinalLetterGrade = models.LetterGradeFor(final)
		request.Status = models.DefenseStatusClosed
	}

	if err := s.defenses.Update(*request); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrPersistence.Code, "save defense request")
	}

	outcome := &GradeOutcome{
		Seat:      seat,
		Letter:    models.LetterGradeFor(grade),
		Finalized: finalized,
	}

	if firstSubmission {
		role := models.RoleProfessor
		if seat == models.JudgeRoleExternal {
			role = models.RoleExternalJudge
		}
		if err := s.ledger.AdjustJudgeCapacity(role, judgeID, 1); err != nil {
			s.logger.Warn("judge capacity release failed after grading",
				zap.String("request_id", requestID),
				zap.String("judge_id", judgeID),
				zap.Error(err))
			outcome.Warnings = append(outcome.Warnings,
				fmt.Sprintf("capacity for judge %s could not be released: %v", judgeID, err))
		}
	}

	if finalized {
		if err := s.theses.Append(models.Snapshot(*request)); err != nil {
			return nil, appErrors.Wrap(err, appErrors.ErrPersistence.Code, "archive defended thesis")
		}
		s.logger.Info("defense finalized",
			zap.String("request_id", requestID),
			zap.Float64p("final_grade", request.FinalGrade),
			zap.String("letter_grade", string(request.FinalLetterGrade)))
	} else {
		s.logger.Info("grade recorded",
			zap.String("request_id", requestID),
			zap.String("judge_id", judgeID),
			zap.String("seat", string(seat)))
	}

	outcome.Request = *request
	return outcome, nil
}

func (s *GradingService) today() time.Time {
	now := s.now()
	return time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
}
