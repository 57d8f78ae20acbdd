package models

// Grade bounds for a single judge's score, inclusive on both ends.
const (
	GradeMin = 0.0
	GradeMax = 20.0
)

// LetterGrade is the coarse categorical grade derived from a numeric score.
type LetterGrade string

const (
	LetterGradeA LetterGrade = "الف"
	LetterGradeB LetterGrade = "ب"
	LetterGradeC LetterGrade = "ج"
	LetterGradeD LetterGrade = "د"
)

// LetterGradeFor maps a numeric grade onto the fixed thresholds. The 10, 14
// and 17 boundaries are closed upward: 14.0 is already a "ب".
func LetterGradeFor(grade float64) LetterGrade {
	switch {
	case grade >= 17:
		return LetterGradeA
	case grade >= 14:
		return LetterGradeB
	case grade >= 10:
		return LetterGradeC
	default:
		return LetterGradeD
	}
}
