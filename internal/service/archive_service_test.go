package service

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"thesisflow/internal/models"
	appErrors "thesisflow/pkg/errors"
)

type fakeArchiveTheses struct {
	theses []models.ArchivedThesis
}

func (f *fakeArchiveTheses) List() ([]models.ArchivedThesis, error) {
	return f.theses, nil
}

type fakeExportStore struct {
	saved map[string][]byte
}

func (f *fakeExportStore) Save(filename string, data []byte) (string, error) {
	if f.saved == nil {
		f.saved = make(map[string][]byte)
	}
	f.saved[filename] = data
	return filename, nil
}

func (f *fakeExportStore) Path(filename string) string {
	return filepath.Join("exports", filename)
}

func newArchiveFixture(t *testing.T) (*ArchiveService, *fakeExportStore) {
	t.Helper()
	theses := &fakeArchiveTheses{theses: []models.ArchivedThesis{
		{
			StudentID:        "s1",
			ProfessorID:      "p1",
			InternalJudgeID:  "p2",
			ExternalJudgeID:  "j1",
			Title:            "Graph Partitioning Heuristics",
			Keywords:         []string{"graphs", "heuristics"},
			DefenseDate:      "2024-05-20",
			FinalGrade:       grade(17),
			FinalLetterGrade: models.LetterGradeA,
		},
		{
			StudentID:       "s2",
			ProfessorID:     "p3",
			InternalJudgeID: "p1",
			ExternalJudgeID: "j2",
			Title:           "Compiler Optimizations",
			Keywords:        []string{"compilers"},
			DefenseDate:     "2023-11-02",
		},
	}}
	users := &fakeUserRoster{accounts: map[models.UserRole][]models.UserAccount{
		models.RoleStudent: {
			{UserID: "s1", Name: "Sara Ahmadi"},
			{UserID: "s2", Name: "Reza Moradi"},
		},
		models.RoleProfessor: {
			{UserID: "p1", Name: "Dr. Karimi"},
			{UserID: "p2", Name: "Dr. Hosseini"},
			{UserID: "p3", Name: "Dr. Rahimi"},
		},
		models.RoleExternalJudge: {
			{UserID: "j1", Name: "Dr. Naderi"},
			{UserID: "j2", Name: "Dr. Sadeghi"},
		},
	}}
	exports := &fakeExportStore{}
	svc := NewArchiveService(theses, users, exports, nil)
	svc.now = fixedClock("2024-06-01")
	return svc, exports
}

func TestSearchByTitle(t *testing.T) {
	svc, _ := newArchiveFixture(t)

	records, err := svc.Search(models.SearchByTitle, "graph")
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, "Sara Ahmadi", records[0].AuthorName)
	assert.Equal(t, "Dr. Karimi", records[0].ProfessorName)
	assert.Equal(t, "Dr. Hosseini", records[0].InternalJudgeName)
	assert.Equal(t, "Dr. Naderi", records[0].ExternalJudgeName)
}

func TestSearchByResolvedNames(t *testing.T) {
	svc, _ := newArchiveFixture(t)

	byProfessor, err := svc.Search(models.SearchByProfessor, "karimi")
	require.NoError(t, err)
	require.Len(t, byProfessor, 1)
	assert.Equal(t, "s1", byProfessor[0].StudentID)

	byAuthor, err := svc.Search(models.SearchByAuthor, "reza")
	require.NoError(t, err)
	require.Len(t, byAuthor, 1)
	assert.Equal(t, "s2", byAuthor[0].StudentID)

	// Dr. Karimi also sits as internal judge on the second thesis.
	byJudge, err := svc.Search(models.SearchByJudges, "karimi")
	require.NoError(t, err)
	require.Len(t, byJudge, 1)
	assert.Equal(t, "s2", byJudge[0].StudentID)
}

func TestSearchByKeywordsAndYear(t *testing.T) {
	svc, _ := newArchiveFixture(t)

	byKeyword, err := svc.Search(models.SearchByKeywords, "heuristics")
	require.NoError(t, err)
	assert.Len(t, byKeyword, 1)

	byYear, err := svc.Search(models.SearchByYear, "2023")
	require.NoError(t, err)
	require.Len(t, byYear, 1)
	assert.Equal(t, "s2", byYear[0].StudentID)
}

func TestSearchGuards(t *testing.T) {
	svc, _ := newArchiveFixture(t)

	_, err := svc.Search(models.SearchByTitle, "   ")
	assert.ErrorIs(t, err, appErrors.ErrValidation)

	_, err = svc.Search(models.SearchField("unknown"), "x")
	assert.ErrorIs(t, err, appErrors.ErrValidation)
}

func TestSemesterOnRecord(t *testing.T) {
	svc, _ := newArchiveFixture(t)
	records, err := svc.All()
	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.Equal(t, "2023-2024 (نیمسال دوم)", records[0].Semester())
	assert.Equal(t, "2023-2024 (نیمسال اول)", records[1].Semester())
}

func TestExportCSV(t *testing.T) {
	svc, exports := newArchiveFixture(t)
	records, err := svc.All()
	require.NoError(t, err)

	path, err := svc.ExportCSV(records)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join("exports", "search_results_20240601_000000.csv"), path)

	content := string(exports.saved["search_results_20240601_000000.csv"])
	assert.Contains(t, content, "Title,Author,Supervisor")
	assert.Contains(t, content, "Graph Partitioning Heuristics")
	assert.Contains(t, content, "17.00")
}

func TestExportPDF(t *testing.T) {
	svc, exports := newArchiveFixture(t)
	records, err := svc.All()
	require.NoError(t, err)

	path, err := svc.ExportPDF(records)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join("exports", "search_results_20240601_000000.pdf"), path)
	assert.Contains(t, string(exports.saved["search_results_20240601_000000.pdf"][:5]), "%PDF")
}
