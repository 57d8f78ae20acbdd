package repository

import (
	"fmt"
	"path/filepath"

	"thesisflow/internal/models"
)

// UserRepository handles the three role rosters. Each role is its own
// collection, mirroring the seeded data layout.
type UserRepository struct {
	stores map[models.UserRole]*Store[models.UserAccount]
}

// NewUserRepository constructs the repository over the data directory.
func NewUserRepository(dataDir string) *UserRepository {
	usersDir := filepath.Join(dataDir, "users")
	return &UserRepository{
		stores: map[models.UserRole]*Store[models.UserAccount]{
			models.RoleStudent:       NewStore[models.UserAccount](filepath.Join(usersDir, "students.json")),
			models.RoleProfessor:     NewStore[models.UserAccount](filepath.Join(usersDir, "professors.json")),
			models.RoleExternalJudge: NewStore[models.UserAccount](filepath.Join(usersDir, "external_judges.json")),
		},
	}
}

// List returns the roster for a role, with Role stamped on each account.
func (r *UserRepository) List(role models.UserRole) ([]models.UserAccount, error) {
	store, ok := r.stores[role]
	if !ok {
		return nil, fmt.Errorf("unknown role %q", role)
	}
	accounts, err := store.Load()
	if err != nil {
		return nil, err
	}
	for i := range accounts {
		accounts[i].Role = role
	}
	return accounts, nil
}

// FindByID returns the account with the given user ID within a role roster.
func (r *UserRepository) FindByID(role models.UserRole, userID string) (*models.UserAccount, error) {
	accounts, err := r.List(role)
	if err != nil {
		return nil, err
	}
	for i := range accounts {
		if accounts[i].UserID == userID {
			return &accounts[i], nil
		}
	}
	return nil, ErrNotFound
}

// Update replaces the stored account with the same user ID. The account's
// Role selects the roster.
func (r *UserRepository) Update(account models.UserAccount) error {
	store, ok := r.stores[account.Role]
	if !ok {
		return fmt.Errorf("unknown role %q", account.Role)
	}
	accounts, err := store.Load()
	if err != nil {
		return err
	}
	for i := range accounts {
		if accounts[i].UserID == account.UserID {
			accounts[i] = account
			return store.Save(accounts)
		}
	}
	return ErrNotFound
}
