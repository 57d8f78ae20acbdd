package service

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"thesisflow/internal/models"
	"thesisflow/internal/repository"
	appErrors "thesisflow/pkg/errors"
)

type defenseRepository interface {
	FindByID(id string) (*models.DefenseRequest, error)
	FindActiveByStudent(studentID string) (*models.DefenseRequest, error)
	FindLatestByStudent(studentID string) (*models.DefenseRequest, error)
	ListPendingByProfessor(professorID string) ([]models.DefenseRequest, error)
	Append(request *models.DefenseRequest) error
	Update(request models.DefenseRequest) error
}

type defenseEnrollmentRepository interface {
	FindApprovedByStudent(studentID string) (*models.EnrollmentRequest, error)
}

type defenseUserRepository interface {
	List(role models.UserRole) ([]models.UserAccount, error)
	FindByID(role models.UserRole, userID string) (*models.UserAccount, error)
}

type judgeCapacityLedger interface {
	AdjustJudgeCapacity(role models.UserRole, userID string, delta int) error
}

type documentStore interface {
	CopyIn(source, filename string) (string, error)
}

// DefenseSubmission carries the student's input for a new defense request.
// Artifact fields are paths to files the student provides; they are copied
// into managed storage under canonical names on submission.
type DefenseSubmission struct {
	Title      string   `validate:"required"`
	Abstract   string   `validate:"required"`
	Keywords   []string `validate:"required,min=1,dive,required"`
	ThesisFile string   `validate:"required"`
	FirstPage  string   `validate:"required"`
	SecondPage string   `validate:"required"`
}

// Eligibility reports whether a student may file a defense request now, and
// if not, why and when.
type Eligibility struct {
	Eligible   bool
	Reason     string
	EligibleOn string
	MonthsLeft int
	DaysLeft   int
	Enrollment *models.EnrollmentRequest
}

// DefenseService runs the defense-request workflow: eligibility, artifact
// intake, and the supervising professor's scheduling decision.
type DefenseService struct {
	defenses    defenseRepository
	enrollments defenseEnrollmentRepository
	users       defenseUserRepository
	ledger      judgeCapacityLedger
	documents   documentStore
	validate    *validator.Validate
	logger      *zap.Logger
	now         func() time.Time
}

// NewDefenseService constructs the service with sane defaults.
func NewDefenseService(
	defenses defenseRepository,
	enrollments defenseEnrollmentRepository,
	users defenseUserRepository,
	ledger judgeCapacityLedger,
	documents documentStore,
	validate *validator.Validate,
	logger *zap.Logger,
) *DefenseService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &DefenseService{
		defenses:    defenses,
		enrollments: enrollments,
		users:       users,
		ledger:      ledger,
		documents:   documents,
		validate:    validate,
		logger:      logger,
		now:         time.Now,
	}
}

// Eligibility evaluates the three gates for filing a defense request: an
// approved enrollment, three calendar months since its approval, and no
// other non-rejected defense request on file.
func (s *DefenseService) Eligibility(studentID string) (*Eligibility, error) {
	enrollment, err := s.enrollments.FindApprovedByStudent(studentID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return &Eligibility{Reason: "no approved thesis enrollment on file"}, nil
		}
		return nil, appErrors.Wrap(err, appErrors.ErrPersistence.Code, "load enrollment")
	}

	if _, err := s.defenses.FindActiveByStudent(studentID); err == nil {
		return &Eligibility{Reason: "a defense request is already on file"}, nil
	} else if !errors.Is(err, repository.ErrNotFound) {
		return nil, appErrors.Wrap(err, appErrors.ErrPersistence.Code, "load defense requests")
	}

	approved, err := time.Parse(models.DateLayout, enrollment.ApprovedDate)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, "parse enrollment approval date")
	}

	// Cooldown is three calendar months, not ninety days: approval on
	// January 10th opens the window on April 10th.
	earliest := approved.AddDate(0, 3, 0)
	today := s.today()
	if today.Before(earliest) {
		months := 0
		cursor := today
		for !cursor.AddDate(0, 1, 0).After(earliest) {
			months++
			cursor = cursor.AddDate(0, 1, 0)
		}
		days := int(earliest.Sub(cursor).Hours() / 24)
		return &Eligibility{
			Reason:     "the three-month waiting period after enrollment approval has not passed",
			EligibleOn: earliest.Format(models.DateLayout),
			MonthsLeft: months,
			DaysLeft:   days,
			Enrollment: enrollment,
		}, nil
	}

	return &Eligibility{Eligible: true, Enrollment: enrollment}, nil
}

// Submit validates the student's artifacts, copies them into managed storage
// under canonical names, and files the request for the supervising professor.
func (s *DefenseService) Submit(studentID string, input DefenseSubmission) (*models.DefenseRequest, error) {
	if err := s.validate.Struct(input); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, "invalid defense submission")
	}

	eligibility, err := s.Eligibility(studentID)
	if err != nil {
		return nil, err
	}
	if !eligibility.Eligible {
		return nil, appErrors.Clone(appErrors.ErrPreconditionFailed, eligibility.Reason)
	}
	enrollment := eligibility.Enrollment

	if err := checkArtifact(input.ThesisFile, ".pdf"); err != nil {
		return nil, err
	}
	for _, page := range []string{input.FirstPage, input.SecondPage} {
		if err := checkArtifact(page, ".jpg", ".jpeg", ".png"); err != nil {
			return nil, err
		}
	}

	base := fmt.Sprintf("%s.%s", studentID, enrollment.CourseID)
	thesisName := filepath.Join("theses", base+".pdf")
	pageNames := []string{
		filepath.Join("images", base+".page1.jpg"),
		filepath.Join("images", base+".page2.jpg"),
	}

	filePath, err := s.documents.CopyIn(input.ThesisFile, thesisName)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrPersistence.Code, "store thesis file")
	}
	imagePaths := make([]string, 0, len(pageNames))
	for i, source := range []string{input.FirstPage, input.SecondPage} {
		stored, err := s.documents.CopyIn(source, pageNames[i])
		if err != nil {
			return nil, appErrors.Wrap(err, appErrors.ErrPersistence.Code, "store defense image")
		}
		imagePaths = append(imagePaths, stored)
	}

	request := &models.DefenseRequest{
		StudentID:      studentID,
		ProfessorID:    enrollment.ProfessorID,
		CourseID:       enrollment.CourseID,
		Title:          input.Title,
		Abstract:       input.Abstract,
		Keywords:       input.Keywords,
		Status:         models.DefenseStatusPending,
		SubmissionDate: s.now().Format(models.DateLayout),
		FilePath:       filePath,
		ImagePaths:     imagePaths,
	}
	if err := s.defenses.Append(request); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrPersistence.Code, "save defense request")
	}

	s.logger.Info("defense request submitted",
		zap.String("request_id", request.ID),
		zap.String("student_id", studentID),
		zap.String("course_id", request.CourseID))
	return request, nil
}

// PendingForProfessor lists requests awaiting the professor's decision.
func (s *DefenseService) PendingForProfessor(professorID string) ([]models.DefenseRequest, error) {
	requests, err := s.defenses.ListPendingByProfessor(professorID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrPersistence.Code, "load defense requests")
	}
	return requests, nil
}

// AvailableInternalJudges lists professors with remaining judge capacity,
// excluding the supervising professor who cannot judge their own student.
func (s *DefenseService) AvailableInternalJudges(supervisorID string) ([]models.UserAccount, error) {
	professors, err := s.users.List(models.RoleProfessor)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrPersistence.Code, "load professors")
	}
	var result []models.UserAccount
	for _, p := range professors {
		if p.UserID != supervisorID && p.JudgeCapacity > 0 {
			result = append(result, p)
		}
	}
	return result, nil
}

// AvailableExternalJudges lists external judges with remaining capacity.
func (s *DefenseService) AvailableExternalJudges() ([]models.UserAccount, error) {
	judges, err := s.users.List(models.RoleExternalJudge)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrPersistence.Code, "load external judges")
	}
	var result []models.UserAccount
	for _, j := range judges {
		if j.JudgeCapacity > 0 {
			result = append(result, j)
		}
	}
	return result, nil
}

// Approve schedules the defense: it records the date and the two judges,
// then decrements each judge's capacity. The approval itself is durable
// first; a capacity decrement that fails afterwards is reported as a
// warning rather than rolling the approval back.
func (s *DefenseService) Approve(professorID, requestID, defenseDate, internalJudgeID, externalJudgeID string) (*models.DefenseRequest, []string, error) {
	request, err := s.pendingOwnedBy(professorID, requestID)
	if err != nil {
		return nil, nil, err
	}

	date, err := time.Parse(models.DateLayout, defenseDate)
	if err != nil {
		return nil, nil, appErrors.Clone(appErrors.ErrValidation, "defense date must be in YYYY-MM-DD format")
	}
	if date.Before(s.today()) {
		return nil, nil, appErrors.Clone(appErrors.ErrValidation, "defense date must not be in the past")
	}

	if internalJudgeID == professorID {
		return nil, nil, appErrors.Clone(appErrors.ErrValidation, "the supervising professor cannot be the internal judge")
	}
	internal, err := s.users.FindByID(models.RoleProfessor, internalJudgeID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, nil, appErrors.Clone(appErrors.ErrNotFound, "internal judge not found")
		}
		return nil, nil, appErrors.Wrap(err, appErrors.ErrPersistence.Code, "load internal judge")
	}
	if internal.JudgeCapacity < 1 {
		return nil, nil, appErrors.Clone(appErrors.ErrPreconditionFailed, "internal judge has no remaining capacity")
	}
	external, err := s.users.FindByID(models.RoleExternalJudge, externalJudgeID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, nil, appErrors.Clone(appErrors.ErrNotFound, "external judge not found")
		}
		return nil, nil, appErrors.Wrap(err, appErrors.ErrPersistence.Code, "load external judge")
	}
	if external.JudgeCapacity < 1 {
		return nil, nil, appErrors.Clone(appErrors.ErrPreconditionFailed, "external judge has no remaining capacity")
	}

	request.Status = models.DefenseStatusApproved
	request.DefenseDate = date.Format(models.DateLayout)
	request.ApprovedDate = s.now().Format(models.DateLayout)
	request.InternalJudgeID = internalJudgeID
	request.ExternalJudgeID = externalJudgeID
	if err := s.defenses.Update(*request); err != nil {
		return nil, nil, appErrors.Wrap(err, appErrors.ErrPersistence.Code, "save defense request")
	}

	var warnings []string
	seats := []struct {
		role   models.UserRole
		userID string
	}{
		{models.RoleProfessor, internalJudgeID},
		{models.RoleExternalJudge, externalJudgeID},
	}
	for _, seat := range seats {
		if err := s.ledger.AdjustJudgeCapacity(seat.role, seat.userID, -1); err != nil {
			s.logger.Warn("judge capacity decrement failed after approval",
				zap.String("request_id", requestID),
				zap.String("judge_id", seat.userID),
				zap.Error(err))
			warnings = append(warnings, fmt.Sprintf("capacity for judge %s could not be updated: %v", seat.userID, err))
		}
	}

	s.logger.Info("defense request approved",
		zap.String("request_id", requestID),
		zap.String("professor_id", professorID),
		zap.String("defense_date", request.DefenseDate))
	return request, warnings, nil
}

// Reject records the professor's rejection. The student may file a new
// request afterwards; the rejected record stays behind for history.
func (s *DefenseService) Reject(professorID, requestID string) (*models.DefenseRequest, error) {
	request, err := s.pendingOwnedBy(professorID, requestID)
	if err != nil {
		return nil, err
	}

	request.Status = models.DefenseStatusRejected
	request.RejectedDate = s.now().Format(models.DateLayout)
	if err := s.defenses.Update(*request); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrPersistence.Code, "save defense request")
	}

	s.logger.Info("defense request rejected",
		zap.String("request_id", requestID),
		zap.String("professor_id", professorID))
	return request, nil
}

// LatestForStudent returns the student's most recent defense request for
// status display, or nil when none exists.
func (s *DefenseService) LatestForStudent(studentID string) (*models.DefenseRequest, error) {
	request, err := s.defenses.FindLatestByStudent(studentID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, nil
		}
		return nil, appErrors.Wrap(err, appErrors.ErrPersistence.Code, "load defense requests")
	}
	return request, nil
}

func (s *DefenseService) pendingOwnedBy(professorID, requestID string) (*models.DefenseRequest, error) {
	request, err := s.defenses.FindByID(requestID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "defense request not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrPersistence.Code, "load defense request")
	}
	if request.ProfessorID != professorID {
		return nil, appErrors.Clone(appErrors.ErrForbidden, "request belongs to another professor")
	}
	if request.Status != models.DefenseStatusPending {
		return nil, appErrors.Clone(appErrors.ErrPreconditionFailed, "request has already been decided")
	}
	return request, nil
}

func (s *DefenseService) today() time.Time {
	now := s.now()
	return time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
}

func checkArtifact(path string, wantExts ...string) error {
	info, err := os.Stat(path)
	if err != nil {
		return appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("file %s does not exist", path))
	}
	if info.IsDir() {
		return appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("%s is a directory, not a file", path))
	}
	for _, ext := range wantExts {
		if strings.EqualFold(filepath.Ext(path), ext) {
			return nil
		}
	}
	return appErrors.Clone(appErrors.ErrValidation,
		fmt.Sprintf("file %s must have one of the extensions %s", path, strings.Join(wantExts, ", ")))
}
