package service

import (
	"errors"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"thesisflow/internal/models"
	"thesisflow/internal/repository"
	appErrors "thesisflow/pkg/errors"
)

type authUserRepository interface {
	FindByID(role models.UserRole, userID string) (*models.UserAccount, error)
	Update(account models.UserAccount) error
}

// AuthService verifies credentials against a role roster and manages
// password changes. Lookup failures and bad passwords are reported the same
// way so a caller cannot probe which user IDs exist.
type AuthService struct {
	users      authUserRepository
	bcryptCost int
	logger     *zap.Logger
}

// NewAuthService constructs the service. A zero bcrypt cost falls back to
// the library default.
func NewAuthService(users authUserRepository, bcryptCost int, logger *zap.Logger) *AuthService {
	if bcryptCost == 0 {
		bcryptCost = bcrypt.DefaultCost
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AuthService{users: users, bcryptCost: bcryptCost, logger: logger}
}

// Authenticate checks a user ID and password against the given role roster.
func (s *AuthService) Authenticate(role models.UserRole, userID, password string) (*models.UserAccount, error) {
	account, err := s.users.FindByID(role, userID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, appErrors.Clone(appErrors.ErrInvalidCredentials, "")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrPersistence.Code, "load user")
	}

	if err := bcrypt.CompareHashAndPassword([]byte(account.PasswordHash), []byte(password)); err != nil {
		return nil, appErrors.Clone(appErrors.ErrInvalidCredentials, "")
	}

	s.logger.Info("user authenticated",
		zap.String("user_id", account.UserID),
		zap.String("role", string(role)))
	return account, nil
}

// ChangePassword replaces a user's password after re-verifying the current
// one and checking the confirmation copy.
func (s *AuthService) ChangePassword(role models.UserRole, userID, currentPassword, newPassword, confirmPassword string) error {
	if newPassword == "" {
		return appErrors.Clone(appErrors.ErrValidation, "new password must not be empty")
	}
	if newPassword != confirmPassword {
		return appErrors.Clone(appErrors.ErrValidation, "password confirmation does not match")
	}

	account, err := s.Authenticate(role, userID, currentPassword)
	if err != nil {
		return err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(newPassword), s.bcryptCost)
	if err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, "hash password")
	}
	account.PasswordHash = string(hash)
	if err := s.users.Update(*account); err != nil {
		return appErrors.Wrap(err, appErrors.ErrPersistence.Code, "update password")
	}

	s.logger.Info("password changed", zap.String("user_id", userID), zap.String("role", string(role)))
	return nil
}
