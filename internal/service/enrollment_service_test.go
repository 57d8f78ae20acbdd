package service

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"thesisflow/internal/models"
	"thesisflow/internal/repository"
	appErrors "thesisflow/pkg/errors"
)

type fakeEnrollmentRepo struct {
	requests  []models.EnrollmentRequest
	appendErr error
}

func (f *fakeEnrollmentRepo) ListByStudent(studentID string) ([]models.EnrollmentRequest, error) {
	var result []models.EnrollmentRequest
	for _, req := range f.requests {
		if req.StudentID == studentID {
			result = append(result, req)
		}
	}
	return result, nil
}

func (f *fakeEnrollmentRepo) ListPendingByProfessor(professorID string) ([]models.EnrollmentRequest, error) {
	var result []models.EnrollmentRequest
	for _, req := range f.requests {
		if req.ProfessorID == professorID && req.Status == models.EnrollmentStatusPending {
			result = append(result, req)
		}
	}
	return result, nil
}

func (f *fakeEnrollmentRepo) FindByID(id string) (*models.EnrollmentRequest, error) {
	for i := range f.requests {
		if f.requests[i].ID == id {
			req := f.requests[i]
			return &req, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (f *fakeEnrollmentRepo) Append(request *models.EnrollmentRequest) error {
	if f.appendErr != nil {
		return f.appendErr
	}
	if request.ID == "" {
		request.ID = "generated"
	}
	f.requests = append(f.requests, *request)
	return nil
}

func (f *fakeEnrollmentRepo) Update(request models.EnrollmentRequest) error {
	for i := range f.requests {
		if f.requests[i].ID == request.ID {
			f.requests[i] = request
			return nil
		}
	}
	return repository.ErrNotFound
}

type fakeCourseCatalog struct {
	courses []models.Course
}

func (f *fakeCourseCatalog) List() ([]models.Course, error) {
	return f.courses, nil
}

func (f *fakeCourseCatalog) FindByID(courseID string) (*models.Course, error) {
	for i := range f.courses {
		if f.courses[i].CourseID == courseID {
			course := f.courses[i]
			return &course, nil
		}
	}
	return nil, repository.ErrNotFound
}

type capacityCall struct {
	courseID string
	delta    int
}

type fakeCourseLedger struct {
	calls []capacityCall
	err   error
}

func (f *fakeCourseLedger) AdjustCourseCapacity(courseID string, delta int) error {
	if f.err != nil && delta < 0 {
		return f.err
	}
	f.calls = append(f.calls, capacityCall{courseID: courseID, delta: delta})
	return nil
}

func fixedClock(day string) func() time.Time {
	parsed, _ := time.Parse(models.DateLayout, day)
	return func() time.Time { return parsed }
}

func thesisCourse(id string, capacity int) models.Course {
	return models.Course{
		CourseID:    id,
		Title:       models.ThesisCoursePrefix + " کارشناسی",
		ProfessorID: "p1",
		Capacity:    capacity,
	}
}

func TestAvailableCoursesFiltersNonThesisAndFull(t *testing.T) {
	catalog := &fakeCourseCatalog{courses: []models.Course{
		thesisCourse("c1", 2),
		thesisCourse("c2", 0),
		{CourseID: "c3", Title: "مدارهای منطقی", Capacity: 5},
	}}
	svc := NewEnrollmentService(&fakeEnrollmentRepo{}, catalog, &fakeCourseLedger{}, nil)

	courses, err := svc.AvailableCourses()
	require.NoError(t, err)
	require.Len(t, courses, 1)
	assert.Equal(t, "c1", courses[0].CourseID)
}

func TestSubmitEnrollment(t *testing.T) {
	repo := &fakeEnrollmentRepo{}
	ledger := &fakeCourseLedger{}
	svc := NewEnrollmentService(repo, &fakeCourseCatalog{courses: []models.Course{thesisCourse("c1", 2)}}, ledger, nil)
	svc.now = fixedClock("2024-01-10")

	request, err := svc.Submit("s1", "c1")
	require.NoError(t, err)
	assert.Equal(t, models.EnrollmentStatusPending, request.Status)
	assert.Equal(t, "p1", request.ProfessorID)
	assert.Equal(t, "2024-01-10", request.CreatedAt)
	assert.Equal(t, []capacityCall{{courseID: "c1", delta: -1}}, ledger.calls)
}

func TestSubmitEnrollmentRejectsSecondOpenRequest(t *testing.T) {
	repo := &fakeEnrollmentRepo{requests: []models.EnrollmentRequest{
		{ID: "r1", StudentID: "s1", Status: models.EnrollmentStatusApproved},
	}}
	svc := NewEnrollmentService(repo, &fakeCourseCatalog{courses: []models.Course{thesisCourse("c1", 2)}}, &fakeCourseLedger{}, nil)

	_, err := svc.Submit("s1", "c1")
	assert.ErrorIs(t, err, appErrors.ErrConflict)
}

func TestSubmitEnrollmentBlocksRetryAfterRejection(t *testing.T) {
	repo := &fakeEnrollmentRepo{requests: []models.EnrollmentRequest{
		{ID: "r1", StudentID: "s1", Status: models.EnrollmentStatusRejected},
	}}
	ledger := &fakeCourseLedger{}
	svc := NewEnrollmentService(repo, &fakeCourseCatalog{courses: []models.Course{thesisCourse("c1", 2)}}, ledger, nil)

	_, err := svc.Submit("s1", "c1")
	assert.ErrorIs(t, err, appErrors.ErrConflict, "one enrollment request per student, ever")
	assert.Empty(t, ledger.calls)
}

func TestSubmitEnrollmentRefusesFullCourse(t *testing.T) {
	ledger := &fakeCourseLedger{err: appErrors.Clone(appErrors.ErrPreconditionFailed, "course capacity exhausted")}
	svc := NewEnrollmentService(&fakeEnrollmentRepo{}, &fakeCourseCatalog{courses: []models.Course{thesisCourse("c1", 0)}}, ledger, nil)

	_, err := svc.Submit("s1", "c1")
	assert.ErrorIs(t, err, appErrors.ErrPreconditionFailed)
}

func TestSubmitEnrollmentRestoresSeatWhenSaveFails(t *testing.T) {
	repo := &fakeEnrollmentRepo{appendErr: errors.New("disk full")}
	ledger := &fakeCourseLedger{}
	svc := NewEnrollmentService(repo, &fakeCourseCatalog{courses: []models.Course{thesisCourse("c1", 2)}}, ledger, nil)

	_, err := svc.Submit("s1", "c1")
	assert.ErrorIs(t, err, appErrors.ErrPersistence)
	assert.Equal(t, []capacityCall{
		{courseID: "c1", delta: -1},
		{courseID: "c1", delta: 1},
	}, ledger.calls)
}

func TestApproveEnrollment(t *testing.T) {
	repo := &fakeEnrollmentRepo{requests: []models.EnrollmentRequest{
		{ID: "r1", StudentID: "s1", CourseID: "c1", ProfessorID: "p1", Status: models.EnrollmentStatusPending},
	}}
	svc := NewEnrollmentService(repo, &fakeCourseCatalog{}, &fakeCourseLedger{}, nil)
	svc.now = fixedClock("2024-02-01")

	request, err := svc.Approve("p1", "r1")
	require.NoError(t, err)
	assert.Equal(t, models.EnrollmentStatusApproved, request.Status)
	assert.Equal(t, "2024-02-01", request.ApprovedDate)
	assert.Equal(t, models.EnrollmentStatusApproved, repo.requests[0].Status)
}

func TestRejectEnrollmentReleasesSeat(t *testing.T) {
	repo := &fakeEnrollmentRepo{requests: []models.EnrollmentRequest{
		{ID: "r1", StudentID: "s1", CourseID: "c1", ProfessorID: "p1", Status: models.EnrollmentStatusPending},
	}}
	ledger := &fakeCourseLedger{}
	svc := NewEnrollmentService(repo, &fakeCourseCatalog{}, ledger, nil)
	svc.now = fixedClock("2024-02-01")

	request, err := svc.Reject("p1", "r1")
	require.NoError(t, err)
	assert.Equal(t, models.EnrollmentStatusRejected, request.Status)
	assert.Equal(t, "2024-02-01", request.RejectedDate)
	assert.Equal(t, []capacityCall{{courseID: "c1", delta: 1}}, ledger.calls)
}

func TestDecisionGuards(t *testing.T) {
	repo := &fakeEnrollmentRepo{requests: []models.EnrollmentRequest{
		{ID: "r1", ProfessorID: "p1", Status: models.EnrollmentStatusApproved},
		{ID: "r2", ProfessorID: "p1", Status: models.EnrollmentStatusPending},
	}}
	svc := NewEnrollmentService(repo, &fakeCourseCatalog{}, &fakeCourseLedger{}, nil)

	_, err := svc.Approve("p1", "missing")
	assert.ErrorIs(t, err, appErrors.ErrNotFound)

	_, err = svc.Approve("p2", "r2")
	assert.ErrorIs(t, err, appErrors.ErrForbidden)

	_, err = svc.Approve("p1", "r1")
	assert.ErrorIs(t, err, appErrors.ErrPreconditionFailed)
}

func TestLatestForStudent(t *testing.T) {
	repo := &fakeEnrollmentRepo{requests: []models.EnrollmentRequest{
		{ID: "r1", StudentID: "s1", Status: models.EnrollmentStatusRejected},
		{ID: "r2", StudentID: "s1", Status: models.EnrollmentStatusPending},
	}}
	svc := NewEnrollmentService(repo, &fakeCourseCatalog{}, &fakeCourseLedger{}, nil)

	latest, err := svc.LatestForStudent("s1")
	require.NoError(t, err)
	assert.Equal(t, "r2", latest.ID)

	none, err := svc.LatestForStudent("s2")
	require.NoError(t, err)
	assert.Nil(t, none)
}
