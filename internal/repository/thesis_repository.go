package repository

import (
	"path/filepath"

	"thesisflow/internal/models"
)

// ThesisRepository handles the append-only archive of defended theses.
type ThesisRepository struct {
	store *Store[models.ArchivedThesis]
}

// NewThesisRepository constructs the repository over the data directory.
func NewThesisRepository(dataDir string) *ThesisRepository {
	return &ThesisRepository{
		store: NewStore[models.ArchivedThesis](filepath.Join(dataDir, "theses", "defended_theses.json")),
	}
}

// List returns the archive in archival order.
func (r *ThesisRepository) List() ([]models.ArchivedThesis, error) {
	return r.store.Load()
}

// Append adds a snapshot to the archive. Archived records are never updated.
func (r *ThesisRepository) Append(thesis models.ArchivedThesis) error {
	theses, err := r.store.Load()
	if err != nil {
		return err
	}
	theses = append(theses, thesis)
	return r.store.Save(theses)
}
