package models

// DefenseStatus is the status domain for defense requests.
type DefenseStatus string

const (
	// DefenseStatusPending awaits the supervising professor's decision.
	DefenseStatusPending DefenseStatus = "PENDING_PROFESSOR"
	// DefenseStatusApproved has a defense date and two assigned judges.
	DefenseStatusApproved DefenseStatus = "APPROVED"
	// DefenseStatusRejected is terminal; the student may resubmit.
	DefenseStatusRejected DefenseStatus = "REJECTED"
	// DefenseStatusClosed means both judges graded and the thesis is archived.
	DefenseStatusClosed DefenseStatus = "CLOSED"
)

// DefenseRequest tracks one thesis defense through its whole lifecycle.
// Grades are pointers so "not yet graded" is distinguishable from zero.
type DefenseRequest struct {
	ID             string        `json:"id"`
	StudentID      string        `json:"student_id"`
	ProfessorID    string        `json:"professor_id"`
	CourseID       string        `json:"course_id"`
	Title          string        `json:"title"`
	Abstract       string        `json:"abstract"`
	Keywords       []string      `json:"keywords"`
	Status         DefenseStatus `json:"status"`
	SubmissionDate string        `json:"submission_date"`
	FilePath       string        `json:"file_path"`
	ImagePaths     []string      `json:"image_paths"`

	DefenseDate  string `json:"defense_date,omitempty"`
	ApprovedDate string `json:"approved_date,omitempty"`
	RejectedDate string `json:"rejected_date,omitempty"`

	InternalJudgeID string `json:"internal_judge_id,omitempty"`
	ExternalJudgeID string `json:"external_judge_id,omitempty"`

	InternalGrade     *float64 `json:"internal_grade,omitempty"`
	InternalGradeDate string   `json:"internal_grade_date,omitempty"`
	ExternalGrade     *float64 `json:"external_grade,omitempty"`
	ExternalGradeDate string   `json:"external_grade_date,omitempty"`

	FinalGrade       *float64    `json:"final_grade,omitempty"`
	FinalLetterGrade LetterGrade `json:"final_letter_grade,omitempty"`
}

// Active reports whether the request counts toward the single-open-request
// rule. Rejected requests do not; they allow resubmission.
func (d DefenseRequest) Active() bool {
	return d.Status != DefenseStatusRejected
}

// JudgeRoleFor resolves which judging seat, if any, the given user occupies
// on this request. The supervising professor may judge other defenses, so
// disambiguation is always per record.
func (d DefenseRequest) JudgeRoleFor(userID string) (JudgeRole, bool) {
	switch userID {
	case d.InternalJudgeID:
		return JudgeRoleInternal, true
	case d.ExternalJudgeID:
		return JudgeRoleExternal, true
	}
	return "", false
}

// JudgeRole identifies which seat a judge occupies on one defense.
type JudgeRole string

const (
	JudgeRoleInternal JudgeRole = "INTERNAL"
	JudgeRoleExternal JudgeRole = "EXTERNAL"
)
