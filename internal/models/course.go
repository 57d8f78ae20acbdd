package models

import "strings"

// ThesisCoursePrefix marks the course category whose completion is a
// prerequisite to requesting a defense. Matching is by title prefix, the
// same convention the seeded course data uses.
const ThesisCoursePrefix = "پایان نامه"

// Course represents a seeded course offering.
type Course struct {
	CourseID      string `json:"course_id"`
	Title         string `json:"title"`
	ProfessorID   string `json:"professor_id"`
	Capacity      int    `json:"capacity"`
	Year          string `json:"year"`
	Semester      string `json:"semester"`
	SessionsCount int    `json:"sessions_count"`
	Units         int    `json:"units"`
	Resources     string `json:"resources"`
}

// IsThesisCourse reports whether the course belongs to the thesis category.
func (c Course) IsThesisCourse() bool {
	return strings.HasPrefix(c.Title, ThesisCoursePrefix)
}
