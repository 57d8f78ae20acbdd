package repository

import (
	"path/filepath"

	"thesisflow/internal/models"
)

// CourseRepository handles persistence of the course catalogue.
type CourseRepository struct {
	store *Store[models.Course]
}

// NewCourseRepository constructs the repository over the data directory.
func NewCourseRepository(dataDir string) *CourseRepository {
	return &CourseRepository{
		store: NewStore[models.Course](filepath.Join(dataDir, "courses", "thesis_courses.json")),
	}
}

// List returns all seeded courses in file order.
func (r *CourseRepository) List() ([]models.Course, error) {
	return r.store.Load()
}

// FindByID returns a course by its ID.
func (r *CourseRepository) FindByID(courseID string) (*models.Course, error) {
	courses, err := r.store.Load()
	if err != nil {
		return nil, err
	}
	for i := range courses {
		if courses[i].CourseID == courseID {
			return &courses[i], nil
		}
	}
	return nil, ErrNotFound
}

// Update replaces the stored course with the same ID.
func (r *CourseRepository) Update(course models.Course) error {
	courses, err := r.store.Load()
	if err != nil {
		return err
	}
	for i := range courses {
		if courses[i].CourseID == course.CourseID {
			courses[i] = course
			return r.store.Save(courses)
		}
	}
	return ErrNotFound
}
