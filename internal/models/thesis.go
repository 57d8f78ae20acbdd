package models

import (
	"fmt"
	"time"
)

// ArchivedThesis is an independent snapshot of a DefenseRequest taken at the
// moment both grades are present. Append-only; never mutated after archival.
type ArchivedThesis DefenseRequest

// Snapshot copies a defense request into its archival form.
func Snapshot(d DefenseRequest) ArchivedThesis {
	archived := ArchivedThesis(d)
	archived.Keywords = append([]string(nil), d.Keywords...)
	archived.ImagePaths = append([]string(nil), d.ImagePaths...)
	return archived
}

// SearchField selects which archived-thesis attribute a query matches.
type SearchField string

const (
	SearchByTitle     SearchField = "title"
	SearchByProfessor SearchField = "professor"
	SearchByKeywords  SearchField = "keywords"
	SearchByAuthor    SearchField = "author"
	SearchByYear      SearchField = "year"
	SearchByJudges    SearchField = "judges"
)

// SemesterLabel derives the academic year/semester label from a defense
// date. Months 1-6 fall in the second semester of the academic year that
// started the previous calendar year.
func SemesterLabel(defenseDate string) string {
	parsed, err := time.Parse(DateLayout, defenseDate)
	if err != nil {
		return ""
	}
	year := parsed.Year()
	if parsed.Month() <= 6 {
		return fmt.Sprintf("%d-%d (نیمسال دوم)", year-1, year)
	}
	return fmt.Sprintf("%d-%d (نیمسال اول)", year, year+1)
}
