package repository

import (
	"path/filepath"

	"github.com/google/uuid"

	"thesisflow/internal/models"
)

// EnrollmentRepository handles persistence of enrollment requests.
type EnrollmentRepository struct {
	store *Store[models.EnrollmentRequest]
}

// NewEnrollmentRepository constructs the repository over the data directory.
func NewEnrollmentRepository(dataDir string) *EnrollmentRepository {
	return &EnrollmentRepository{
		store: NewStore[models.EnrollmentRequest](filepath.Join(dataDir, "requests", "enrollment_requests.json")),
	}
}

// List returns all enrollment requests in submission order.
func (r *EnrollmentRepository) List() ([]models.EnrollmentRequest, error) {
	return r.store.Load()
}

// ListByStudent returns the student's requests in submission order.
func (r *EnrollmentRepository) ListByStudent(studentID string) ([]models.EnrollmentRequest, error) {
	requests, err := r.store.Load()
	if err != nil {
		return nil, err
	}
	var result []models.EnrollmentRequest
	for _, req := range requests {
		if req.StudentID == studentID {
			result = append(result, req)
		}
	}
	return result, nil
}

// ListPendingByProfessor returns requests awaiting the professor's decision.
func (r *EnrollmentRepository) ListPendingByProfessor(professorID string) ([]models.EnrollmentRequest, error) {
	requests, err := r.store.Load()
	if err != nil {
		return nil, err
	}
	var result []models.EnrollmentRequest
	for _, req := range requests {
		if req.ProfessorID == professorID && req.Status == models.EnrollmentStatusPending {
			result = append(result, req)
		}
	}
	return result, nil
}

// FindApprovedByStudent returns the student's approved request, if any.
func (r *EnrollmentRepository) FindApprovedByStudent(studentID string) (*models.EnrollmentRequest, error) {
	requests, err := r.store.Load()
	if err != nil {
		return nil, err
	}
	for i := range requests {
		if requests[i].StudentID == studentID && requests[i].Status == models.EnrollmentStatusApproved {
			return &requests[i], nil
		}
	}
	return nil, ErrNotFound
}

// FindByID returns a request by its ID.
func (r *EnrollmentRepository) FindByID(id string) (*models.EnrollmentRequest, error) {
	requests, err := r.store.Load()
	if err != nil {
		return nil, err
	}
	for i := range requests {
		if requests[i].ID == id {
			return &requests[i], nil
		}
	}
	return nil, ErrNotFound
}

// Append persists a new request at the end of the collection, assigning an
// ID when missing.
func (r *EnrollmentRepository) Append(request *models.EnrollmentRequest) error {
	if request.ID == "" {
		request.ID = uuid.NewString()
	}
	requests, err := r.store.Load()
	if err != nil {
		return err
	}
	requests = append(requests, *request)
	return r.store.Save(requests)
}

// Update replaces the stored request with the same ID.
func (r *EnrollmentRepository) Update(request models.EnrollmentRequest) error {
	requests, err := r.store.Load()
	if err != nil {
		return err
	}
	for i := range requests {
		if requests[i].ID == request.ID {
			requests[i] = request
			return r.store.Save(requests)
		}
	}
	return ErrNotFound
}
