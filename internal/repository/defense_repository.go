package repository

import (
	"path/filepath"

	"github.com/google/uuid"

	"thesisflow/internal/models"
)

// DefenseRepository handles persistence of defense requests.
type DefenseRepository struct {
	store *Store[models.DefenseRequest]
}

// NewDefenseRepository constructs the repository over the data directory.
func NewDefenseRepository(dataDir string) *DefenseRepository {
	return &DefenseRepository{
		store: NewStore[models.DefenseRequest](filepath.Join(dataDir, "requests", "defense_requests.json")),
	}
}

// List returns all defense requests in submission order.
func (r *DefenseRepository) List() ([]models.DefenseRequest, error) {
	return r.store.Load()
}

// FindByID returns a request by its ID.
func (r *DefenseRepository) FindByID(id string) (*models.DefenseRequest, error) {
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

// FindActiveByStudent returns the student's non-rejected request, if any.
// At most one can exist; rejected requests stay behind for history.
func (r *DefenseRepository) FindActiveByStudent(studentID string) (*models.DefenseRequest, error) {
	requests, err := r.store.Load()
	if err != nil {
		return nil, err
	}
	for i := range requests {
		if requests[i].StudentID == studentID && requests[i].Active() {
			return &requests[i], nil
		}
	}
	return nil, ErrNotFound
}

// FindLatestByStudent returns the student's most recent request, if any.
func (r *DefenseRepository) FindLatestByStudent(studentID string) (*models.DefenseRequest, error) {
	requests, err := r.store.Load()
	if err != nil {
		return nil, err
	}
	for i := len(requests) - 1; i >= 0; i-- {
		if requests[i].StudentID == studentID {
			return &requests[i], nil
		}
	}
	return nil, ErrNotFound
}

// ListPendingByProfessor returns requests awaiting the supervising
// professor's decision.
func (r *DefenseRepository) ListPendingByProfessor(professorID string) ([]models.DefenseRequest, error) {
	requests, err := r.store.Load()
	if err != nil {
		return nil, err
	}
	var result []models.DefenseRequest
	for _, req := range requests {
		if req.ProfessorID == professorID && req.Status == models.DefenseStatusPending {
			result = append(result, req)
		}
	}
	return result, nil
}

// ListApprovedByJudge returns approved requests on which the user occupies
// either judging seat.
func (r *DefenseRepository) ListApprovedByJudge(judgeID string) ([]models.DefenseRequest, error) {
	requests, err := r.store.Load()
	if err != nil {
		return nil, err
	}
	var result []models.DefenseRequest
	for _, req := range requests {
		if req.Status != models.DefenseStatusApproved {
			continue
		}
		if _, ok := req.JudgeRoleFor(judgeID); ok {
			result = append(result, req)
		}
	}
	return result, nil
}

// Append persists a new request at the end of the collection, assigning an
// ID when missing.
func (r *DefenseRepository) Append(request *models.DefenseRequest) error {
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
func (r *DefenseRepository) Update(request models.DefenseRequest) error {
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
