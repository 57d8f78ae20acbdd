package models

// DateLayout is the wire format for all persisted dates.
const DateLayout = "2006-01-02"

// EnrollmentStatus is the status domain for enrollment requests.
type EnrollmentStatus string

const (
	// EnrollmentStatusPending awaits the supervising professor's decision.
	EnrollmentStatusPending EnrollmentStatus = "PENDING_PROFESSOR"
	// EnrollmentStatusApproved is terminal for this entity.
	EnrollmentStatusApproved EnrollmentStatus = "APPROVED"
	// EnrollmentStatusRejected is terminal and frees the course seat.
	EnrollmentStatusRejected EnrollmentStatus = "REJECTED"
)

// EnrollmentRequest represents a student's request to take a thesis course.
// Date fields hold DateLayout strings; empty means not yet set.
type EnrollmentRequest struct {
	ID           string           `json:"id"`
	StudentID    string           `json:"student_id"`
	CourseID     string           `json:"course_id"`
	ProfessorID  string           `json:"professor_id"`
	Status       EnrollmentStatus `json:"status"`
	CreatedAt    string           `json:"created_at"`
	ApprovedDate string           `json:"approved_date,omitempty"`
	RejectedDate string           `json:"rejected_date,omitempty"`
}
