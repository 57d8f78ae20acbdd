package repository

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"thesisflow/internal/models"
)

func TestEnrollmentRepositoryAppendAssignsID(t *testing.T) {
	repo := NewEnrollmentRepository(t.TempDir())

	request := &models.EnrollmentRequest{StudentID: "s1", Status: models.EnrollmentStatusPending}
	require.NoError(t, repo.Append(request))
	assert.NotEmpty(t, request.ID)

	stored, err := repo.FindByID(request.ID)
	require.NoError(t, err)
	assert.Equal(t, "s1", stored.StudentID)
}

func TestEnrollmentRepositoryFindApprovedByStudent(t *testing.T) {
	repo := NewEnrollmentRepository(t.TempDir())
	require.NoError(t, repo.Append(&models.EnrollmentRequest{StudentID: "s1", Status: models.EnrollmentStatusRejected}))
	require.NoError(t, repo.Append(&models.EnrollmentRequest{StudentID: "s1", Status: models.EnrollmentStatusApproved}))
	require.NoError(t, repo.Append(&models.EnrollmentRequest{StudentID: "s2", Status: models.EnrollmentStatusApproved}))

	found, err := repo.FindApprovedByStudent("s1")
	require.NoError(t, err)
	assert.Equal(t, models.EnrollmentStatusApproved, found.Status)
	assert.Equal(t, "s1", found.StudentID)

	_, err = repo.FindApprovedByStudent("s3")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestDefenseRepositoryFindActiveSkipsRejected(t *testing.T) {
	repo := NewDefenseRepository(t.TempDir())
	require.NoError(t, repo.Append(&models.DefenseRequest{StudentID: "s1", Status: models.DefenseStatusRejected}))

	_, err := repo.FindActiveByStudent("s1")
	assert.ErrorIs(t, err, ErrNotFound)

	require.NoError(t, repo.Append(&models.DefenseRequest{StudentID: "s1", Status: models.DefenseStatusPending}))
	active, err := repo.FindActiveByStudent("s1")
	require.NoError(t, err)
	assert.Equal(t, models.DefenseStatusPending, active.Status)
}

func TestDefenseRepositoryListApprovedByJudge(t *testing.T) {
	repo := NewDefenseRepository(t.TempDir())
	require.NoError(t, repo.Append(&models.DefenseRequest{
		StudentID: "s1", Status: models.DefenseStatusApproved,
		InternalJudgeID: "p2", ExternalJudgeID: "j1",
	}))
	require.NoError(t, repo.Append(&models.DefenseRequest{
		StudentID: "s2", Status: models.DefenseStatusPending,
		InternalJudgeID: "p2",
	}))
	require.NoError(t, repo.Append(&models.DefenseRequest{
		StudentID: "s3", Status: models.DefenseStatusApproved,
		InternalJudgeID: "p3", ExternalJudgeID: "j1",
	}))

	byInternal, err := repo.ListApprovedByJudge("p2")
	require.NoError(t, err)
	require.Len(t, byInternal, 1)
	assert.Equal(t, "s1", byInternal[0].StudentID)

	byExternal, err := repo.ListApprovedByJudge("j1")
	require.NoError(t, err)
	assert.Len(t, byExternal, 2)
}

func TestUserRepositoryStampsRole(t *testing.T) {
	dir := t.TempDir()
	repo := NewUserRepository(dir)

	store := NewStore[models.UserAccount](repo.stores[models.RoleProfessor].Path())
	require.NoError(t, store.Save([]models.UserAccount{{UserID: "p1", Name: "Dr. Karimi", JudgeCapacity: 3}}))

	account, err := repo.FindByID(models.RoleProfessor, "p1")
	require.NoError(t, err)
	assert.Equal(t, models.RoleProfessor, account.Role)

	accounts, err := repo.List(models.RoleProfessor)
	require.NoError(t, err)
	require.Len(t, accounts, 1)
	assert.Equal(t, models.RoleProfessor, accounts[0].Role)
}

func TestUserRepositoryUpdatePersists(t *testing.T) {
	repo := NewUserRepository(t.TempDir())
	store := repo.stores[models.RoleStudent]
	require.NoError(t, store.Save([]models.UserAccount{{UserID: "s1", PasswordHash: "old"}}))

	require.NoError(t, repo.Update(models.UserAccount{UserID: "s1", PasswordHash: "new", Role: models.RoleStudent}))

	account, err := repo.FindByID(models.RoleStudent, "s1")
	require.NoError(t, err)
	assert.Equal(t, "new", account.PasswordHash)
}

func TestThesisRepositoryAppendKeepsOrder(t *testing.T) {
	repo := NewThesisRepository(t.TempDir())
	require.NoError(t, repo.Append(models.ArchivedThesis{Title: "first"}))
	require.NoError(t, repo.Append(models.ArchivedThesis{Title: "second"}))

	theses, err := repo.List()
	require.NoError(t, err)
	require.Len(t, theses, 2)
	assert.Equal(t, "first", theses[0].Title)
	assert.Equal(t, "second", theses[1].Title)
}

func TestCourseRepositoryUpdate(t *testing.T) {
	repo := NewCourseRepository(t.TempDir())
	require.NoError(t, repo.store.Save([]models.Course{{CourseID: "c1", Capacity: 2}}))

	require.NoError(t, repo.Update(models.Course{CourseID: "c1", Capacity: 1}))
	course, err := repo.FindByID("c1")
	require.NoError(t, err)
	assert.Equal(t, 1, course.Capacity)

	assert.ErrorIs(t, repo.Update(models.Course{CourseID: "missing"}), ErrNotFound)
}
