package service

import (
	"errors"
	"time"

	"go.uber.org/zap"

	"thesisflow/internal/models"
	"thesisflow/internal/repository"
	appErrors "thesisflow/pkg/errors"
)

type enrollmentRepository interface {
	ListByStudent(studentID string) ([]models.EnrollmentRequest, error)
	ListPendingByProfessor(professorID string) ([]models.EnrollmentRequest, error)
	FindByID(id string) (*models.EnrollmentRequest, error)
	Append(request *models.EnrollmentRequest) error
	Update(request models.EnrollmentRequest) error
}

type enrollmentCourseRepository interface {
	List() ([]models.Course, error)
	FindByID(courseID string) (*models.Course, error)
}

type courseCapacityLedger interface {
	AdjustCourseCapacity(courseID string, delta int) error
}

// EnrollmentService runs the thesis-course enrollment workflow: course
// discovery, request submission, and the supervising professor's decision.
type EnrollmentService struct {
	enrollments enrollmentRepository
	courses     enrollmentCourseRepository
	ledger      courseCapacityLedger
	logger      *zap.Logger
	now         func() time.Time
}

// NewEnrollmentService constructs the service with sane defaults.
func NewEnrollmentService(enrollments enrollmentRepository, courses enrollmentCourseRepository, ledger courseCapacityLedger, logger *zap.Logger) *EnrollmentService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &EnrollmentService{
		enrollments: enrollments,
		courses:     courses,
		ledger:      ledger,
		logger:      logger,
		now:         time.Now,
	}
}

// AvailableCourses lists thesis courses that still have open seats.
func (s *EnrollmentService) AvailableCourses() ([]models.Course, error) {
	courses, err := s.courses.List()
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrPersistence.Code, "load courses")
	}
	var result []models.Course
	for _, course := range courses {
		if course.IsThesisCourse() && course.Capacity > 0 {
			result = append(result, course)
		}
	}
	return result, nil
}

// Submit files a new enrollment request. A student gets one thesis
// enrollment request ever, across all thesis courses; the course seat is
// consumed immediately so a pending request keeps its place while the
// professor decides.
func (s *EnrollmentService) Submit(studentID, courseID string) (*models.EnrollmentRequest, error) {
	course, err := s.courses.FindByID(courseID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "course not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrPersistence.Code, "load course")
	}
	if !course.IsThesisCourse() {
		return nil, appErrors.Clone(appErrors.ErrValidation, "course is not a thesis course")
	}

	existing, err := s.enrollments.ListByStudent(studentID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrPersistence.Code, "load enrollment requests")
	}
	if len(existing) > 0 {
		return nil, appErrors.Clone(appErrors.ErrConflict, "student has already requested a thesis enrollment")
	}

	if err := s.ledger.AdjustCourseCapacity(courseID, -1); err != nil {
		if errors.Is(err, appErrors.ErrPreconditionFailed) {
			return nil, appErrors.Clone(appErrors.ErrPreconditionFailed, "course has no remaining capacity")
		}
		return nil, err
	}

	request := &models.EnrollmentRequest{
		StudentID:   studentID,
		CourseID:    courseID,
		ProfessorID: course.ProfessorID,
		Status:      models.EnrollmentStatusPending,
		CreatedAt:   s.now().Format(models.DateLayout),
	}
	if err := s.enrollments.Append(request); err != nil {
		// Hand the seat back so a failed write does not leak capacity.
		if restoreErr := s.ledger.AdjustCourseCapacity(courseID, 1); restoreErr != nil {
			s.logger.Error("failed to restore course capacity",
				zap.String("course_id", courseID), zap.Error(restoreErr))
		}
		return nil, appErrors.Wrap(err, appErrors.ErrPersistence.Code, "save enrollment request")
	}

	s.logger.Info("enrollment request submitted",
		zap.String("request_id", request.ID),
		zap.String("student_id", studentID),
		zap.String("course_id", courseID))
	return request, nil
}

// PendingForProfessor lists requests awaiting the professor's decision.
func (s *EnrollmentService) PendingForProfessor(professorID string) ([]models.EnrollmentRequest, error) {
	requests, err := s.enrollments.ListPendingByProfessor(professorID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrPersistence.Code, "load enrollment requests")
	}
	return requests, nil
}

// Approve records the professor's approval. The approval date starts the
// defense cooldown clock.
func (s *EnrollmentService) Approve(professorID, requestID string) (*models.EnrollmentRequest, error) {
	request, err := s.pendingOwnedBy(professorID, requestID)
	if err != nil {
		return nil, err
	}

	request.Status = models.EnrollmentStatusApproved
	request.ApprovedDate = s.now().Format(models.DateLayout)
	if err := s.enrollments.Update(*request); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrPersistence.Code, "save enrollment request")
	}

	s.logger.Info("enrollment request approved",
		zap.String("request_id", requestID),
		zap.String("professor_id", professorID))
	return request, nil
}

// Reject records the professor's rejection and frees the course seat the
// request was holding.
func (s *EnrollmentService) Reject(professorID, requestID string) (*models.EnrollmentRequest, error) {
	request, err := s.pendingOwnedBy(professorID, requestID)
	if err != nil {
		return nil, err
	}

	request.Status = models.EnrollmentStatusRejected
	request.RejectedDate = s.now().Format(models.DateLayout)
	if err := s.enrollments.Update(*request); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrPersistence.Code, "save enrollment request")
	}
	if err := s.ledger.AdjustCourseCapacity(request.CourseID, 1); err != nil {
		return nil, err
	}

	s.logger.Info("enrollment request rejected",
		zap.String("request_id", requestID),
		zap.String("professor_id", professorID))
	return request, nil
}

// LatestForStudent returns the student's most recent request for status
// display, or nil when none exists.
func (s *EnrollmentService) LatestForStudent(studentID string) (*models.EnrollmentRequest, error) {
	requests, err := s.enrollments.ListByStudent(studentID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrPersistence.Code, "load enrollment requests")
	}
	if len(requests) == 0 {
		return nil, nil
	}
	latest := requests[len(requests)-1]
	return &latest, nil
}

func (s *EnrollmentService) pendingOwnedBy(professorID, requestID string) (*models.EnrollmentRequest, error) {
	request, err := s.enrollments.FindByID(requestID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "enrollment request not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrPersistence.Code, "load enrollment request")
	}
	if request.ProfessorID != professorID {
		return nil, appErrors.Clone(appErrors.ErrForbidden, "request belongs to another professor")
	}
	if request.Status != models.EnrollmentStatusPending {
		return nil, appErrors.Clone(appErrors.ErrPreconditionFailed, "request has already been decided")
	}
	return request, nil
}
