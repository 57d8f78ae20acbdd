package cli

import (
	"strings"

	"thesisflow/internal/models"
	"thesisflow/internal/service"
)

var searchFields = []struct {
	label string
	field models.SearchField
}{
	{"Title", models.SearchByTitle},
	{"Supervising professor", models.SearchByProfessor},
	{"Keywords", models.SearchByKeywords},
	{"Author", models.SearchByAuthor},
	{"Defense year", models.SearchByYear},
	{"Judges", models.SearchByJudges},
}

func (a *App) searchMenu() error {
	labels := make([]string, len(searchFields))
	for i, f := range searchFields {
		labels[i] = f.label
	}
	choice, err := a.console.Menu("Search Defended Theses", "Back", labels...)
	if err != nil {
		return err
	}
	if choice == 0 {
		return nil
	}
	field := searchFields[choice-1].field

	query, err := a.console.Prompt("Search for")
	if err != nil {
		return err
	}
	records, err := a.archive.Search(field, query)
	if err != nil {
		a.showError(err)
		return nil
	}
	if len(records) == 0 {
		a.console.Println("No defended theses matched.")
		return nil
	}
	return a.resultsMenu(records)
}

func (a *App) resultsMenu(records []service.ThesisRecord) error {
	for i, record := range records {
		a.console.Printf("%d. %q by %s, defended %s\n",
			i+1, record.Title, record.AuthorName, record.DefenseDate)
	}

	for {
		choice, err := a.console.Menu("Search Results", "Back",
			"Show details",
			"Open thesis file",
			"Export to CSV",
			"Export to PDF")
		if err != nil {
			return err
		}
		switch choice {
		case 0:
			return nil
		case 1:
			idx, ok, err := a.pickIndex("Result number", len(records))
			if err != nil {
				return err
			}
			if ok {
				a.showThesis(records[idx])
			}
		case 2:
			idx, ok, err := a.pickIndex("Result number", len(records))
			if err != nil {
				return err
			}
			if ok {
				path := a.documents.Path(records[idx].FilePath)
				if err := openFile(path); err != nil {
					a.console.Printf("Could not open the file; it is stored at %s\n", path)
				}
			}
		case 3:
			path, err := a.archive.ExportCSV(records)
			if err != nil {
				a.showError(err)
				continue
			}
			a.console.Printf("Exported to %s\n", path)
		case 4:
			path, err := a.archive.ExportPDF(records)
			if err != nil {
				a.showError(err)
				continue
			}
			a.console.Printf("Exported to %s\n", path)
		}
	}
}

func (a *App) showThesis(record service.ThesisRecord) {
	a.console.Printf("\nTitle: %s\n", record.Title)
	a.console.Printf("Author: %s (%s)\n", record.AuthorName, record.StudentID)
	a.console.Printf("Supervisor: %s\n", record.ProfessorName)
	a.console.Printf("Internal judge: %s\n", record.InternalJudgeName)
	a.console.Printf("External judge: %s\n", record.ExternalJudgeName)
	a.console.Printf("Defense date: %s\n", record.DefenseDate)
	if semester := record.Semester(); semester != "" {
		a.console.Printf("Semester: %s\n", semester)
	}
	a.console.Printf("Keywords: %s\n", strings.Join(record.Keywords, ", "))
	a.console.Printf("Abstract: %s\n", record.Abstract)
	if record.FinalGrade != nil {
		a.console.Printf("Final grade: %.2f (%s)\n", *record.FinalGrade, record.FinalLetterGrade)
	}
	a.console.Printf("Thesis file: %s\n", a.documents.Path(record.FilePath))
	for _, image := range record.ImagePaths {
		a.console.Printf("Page image: %s\n", a.documents.Path(image))
	}
}
