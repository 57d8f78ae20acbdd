package models

// UserRole represents the available roles for workflow gating.
type UserRole string

const (
	RoleStudent       UserRole = "STUDENT"
	RoleProfessor     UserRole = "PROFESSOR"
	RoleExternalJudge UserRole = "EXTERNAL_JUDGE"
)

// IsJudgeRole reports whether the role can be assigned to grade a defense.
func (r UserRole) IsJudgeRole() bool {
	return r == RoleProfessor || r == RoleExternalJudge
}

// UserAccount represents one roster entry. Professors and external judges
// additionally carry a judging capacity counter; students never do.
type UserAccount struct {
	UserID        string   `json:"user_id"`
	NationalID    string   `json:"national_id"`
	Name          string   `json:"name"`
	PasswordHash  string   `json:"password_hash"`
	JudgeCapacity int      `json:"judge_capacity,omitempty"`
	Role          UserRole `json:"-"`
}
