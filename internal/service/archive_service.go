package service

import (
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"thesisflow/internal/models"
	appErrors "thesisflow/pkg/errors"
	"thesisflow/pkg/export"
)

type archiveThesisRepository interface {
	List() ([]models.ArchivedThesis, error)
}

type archiveUserRepository interface {
	List(role models.UserRole) ([]models.UserAccount, error)
}

type exportStore interface {
	Save(filename string, data []byte) (string, error)
	Path(filename string) string
}

// ThesisRecord is an archived thesis with participant IDs resolved to
// display names for search and presentation.
type ThesisRecord struct {
	models.ArchivedThesis
	AuthorName        string
	ProfessorName     string
	InternalJudgeName string
	ExternalJudgeName string
}

// Semester derives the academic-semester label from the defense date.
func (r ThesisRecord) Semester() string {
	return models.SemesterLabel(r.DefenseDate)
}

// ArchiveService searches the defended-theses archive and exports result
// sets to CSV or PDF files.
type ArchiveService struct {
	theses  archiveThesisRepository
	users   archiveUserRepository
	csv     *export.CSVExporter
	pdf     *export.PDFExporter
	exports exportStore
	logger  *zap.Logger
	now     func() time.Time
}

// NewArchiveService constructs the service with sane defaults.
func NewArchiveService(theses archiveThesisRepository, users archiveUserRepository, exports exportStore, logger *zap.Logger) *ArchiveService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ArchiveService{
		theses:  theses,
		users:   users,
		csv:     export.NewCSVExporter(),
		pdf:     export.NewPDFExporter(),
		exports: exports,
		logger:  logger,
		now:     time.Now,
	}
}

// Search matches archived theses on one field. Name fields match either the
// resolved display name or the raw ID; the year field matches the leading
// digits of the defense date. Matching is case-insensitive and substring
// based, except year which is a prefix.
func (s *ArchiveService) Search(field models.SearchField, query string) ([]ThesisRecord, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, appErrors.Clone(appErrors.ErrValidation, "search query must not be empty")
	}

	records, err := s.All()
	if err != nil {
		return nil, err
	}

	needle := strings.ToLower(query)
	var result []ThesisRecord
	for _, record := range records {
		matched := false
		switch field {
		case models.SearchByTitle:
			matched = containsFold(record.Title, needle)
		case models.SearchByProfessor:
			matched = containsFold(record.ProfessorName, needle) || containsFold(record.ProfessorID, needle)
		case models.SearchByKeywords:
			for _, keyword := range record.Keywords {
				if containsFold(keyword, needle) {
					matched = true
					break
				}
			}
		case models.SearchByAuthor:
			matched = containsFold(record.AuthorName, needle) || containsFold(record.StudentID, needle)
		case models.SearchByYear:
			matched = strings.HasPrefix(record.DefenseDate, query)
		case models.SearchByJudges:
			matched = containsFold(record.InternalJudgeName, needle) ||
				containsFold(record.ExternalJudgeName, needle) ||
				containsFold(record.InternalJudgeID, needle) ||
				containsFold(record.ExternalJudgeID, needle)
		default:
			return nil, appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("unknown search field %q", field))
		}
		if matched {
			result = append(result, record)
		}
	}
	return result, nil
}

// All returns the whole archive with names resolved, in archival order.
func (s *ArchiveService) All() ([]ThesisRecord, error) {
	theses, err := s.theses.List()
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrPersistence.Code, "load thesis archive")
	}

	names, err := s.nameIndex()
	if err != nil {
		return nil, err
	}

	records := make([]ThesisRecord, 0, len(theses))
	for _, thesis := range theses {
		records = append(records, ThesisRecord{
			ArchivedThesis:    thesis,
			AuthorName:        names[thesis.StudentID],
			ProfessorName:     names[thesis.ProfessorID],
			InternalJudgeName: names[thesis.InternalJudgeID],
			ExternalJudgeName: names[thesis.ExternalJudgeID],
		})
	}
	return records, nil
}

// ExportCSV writes the result set as a CSV file in the exports directory
// and returns the file's path.
func (s *ArchiveService) ExportCSV(records []ThesisRecord) (string, error) {
	data, err := s.csv.Render(datasetFrom(records))
	if err != nil {
		return "", appErrors.Wrap(err, appErrors.ErrInternal.Code, "render csv export")
	}
	return s.saveExport("csv", data)
}

// ExportPDF writes the result set as a PDF file in the exports directory
// and returns the file's path.
func (s *ArchiveService) ExportPDF(records []ThesisRecord) (string, error) {
	data, err := s.pdf.Render(datasetFrom(records), "Defended Theses")
	if err != nil {
		return "", appErrors.Wrap(err, appErrors.ErrInternal.Code, "render pdf export")
	}
	return s.saveExport("pdf", data)
}

func (s *ArchiveService) saveExport(ext string, data []byte) (string, error) {
	filename := fmt.Sprintf("search_results_%s.%s", s.now().Format("20060102_150405"), ext)
	if _, err := s.exports.Save(filename, data); err != nil {
		return "", appErrors.Wrap(err, appErrors.ErrPersistence.Code, "save export file")
	}
	path := s.exports.Path(filename)
	s.logger.Info("search results exported", zap.String("path", path))
	return path, nil
}

func (s *ArchiveService) nameIndex() (map[string]string, error) {
	names := make(map[string]string)
	for _, role := range []models.UserRole{models.RoleStudent, models.RoleProfessor, models.RoleExternalJudge} {
		accounts, err := s.users.List(role)
		if err != nil {
			return nil, appErrors.Wrap(err, appErrors.ErrPersistence.Code, "load user roster")
		}
		for _, account := range accounts {
			names[account.UserID] = account.Name
		}
	}
	return names, nil
}

func datasetFrom(records []ThesisRecord) export.Dataset {
	headers := []string{"Title", "Author", "Supervisor", "Internal Judge", "External Judge", "Defense Date", "Semester", "Final Grade", "Letter"}
	rows := make([]map[string]string, 0, len(records))
	for _, record := range records {
		finalGrade := ""
		if record.FinalGrade != nil {
			finalGrade = fmt.Sprintf("%.2f", *record.FinalGrade)
		}
		rows = append(rows, map[string]string{
			"Title":          record.Title,
			"Author":         record.AuthorName,
			"Supervisor":     record.ProfessorName,
			"Internal Judge": record.InternalJudgeName,
			"External Judge": record.ExternalJudgeName,
			"Defense Date":   record.DefenseDate,
			"Semester":       record.Semester(),
			"Final Grade":    finalGrade,
			"Letter":         string(record.FinalLetterGrade),
		})
	}
	return export.Dataset{Headers: headers, Rows: rows}
}

func containsFold(haystack, lowerNeedle string) bool {
	return strings.Contains(strings.ToLower(haystack), lowerNeedle)
}
