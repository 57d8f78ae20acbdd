package cli

import (
	"errors"
	"io"

	"go.uber.org/zap"

	"thesisflow/internal/models"
	"thesisflow/internal/service"
	appErrors "thesisflow/pkg/errors"
	"thesisflow/pkg/storage"
)

// App wires the workflow services behind the interactive menus. One App
// serves consecutive sessions until the operator exits.
type App struct {
	auth        *service.AuthService
	enrollments *service.EnrollmentService
	defenses    *service.DefenseService
	grading     *service.GradingService
	archive     *service.ArchiveService
	documents   *storage.LocalStorage
	console     *Console
	logger      *zap.Logger
}

// NewApp constructs the application shell.
func NewApp(
	auth *service.AuthService,
	enrollments *service.EnrollmentService,
	defenses *service.DefenseService,
	grading *service.GradingService,
	archive *service.ArchiveService,
	documents *storage.LocalStorage,
	console *Console,
	logger *zap.Logger,
) *App {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &App{
		auth:        auth,
		enrollments: enrollments,
		defenses:    defenses,
		grading:     grading,
		archive:     archive,
		documents:   documents,
		console:     console,
		logger:      logger,
	}
}

// Run drives the top-level menu until exit or end of input.
func (a *App) Run() error {
	err := a.run()
	if errors.Is(err, io.EOF) {
		return nil
	}
	return err
}

func (a *App) run() error {
	for {
		choice, err := a.console.Menu("Thesis Defense Management", "Exit",
			"Log in as student",
			"Log in as professor",
			"Log in as external judge")
		if err != nil {
			return err
		}
		switch choice {
		case 0:
			a.console.Println("Goodbye.")
			return nil
		case 1:
			err = a.session(models.RoleStudent)
		case 2:
			err = a.session(models.RoleProfessor)
		case 3:
			err = a.session(models.RoleExternalJudge)
		}
		if err != nil {
			return err
		}
	}
}

func (a *App) session(role models.UserRole) error {
	userID, err := a.console.Prompt("User ID")
	if err != nil {
		return err
	}
	password, err := a.console.Prompt("Password")
	if err != nil {
		return err
	}

	account, err := a.auth.Authenticate(role, userID, password)
	if err != nil {
		a.showError(err)
		return nil
	}
	a.console.Printf("\nWelcome, %s.\n", account.Name)

	switch role {
	case models.RoleStudent:
		return a.studentMenu(account)
	case models.RoleProfessor:
		return a.professorMenu(account)
	case models.RoleExternalJudge:
		return a.externalJudgeMenu(account)
	}
	return nil
}

// showError reports a failed operation and keeps the session alive. Only
// input/output errors terminate the program.
func (a *App) showError(err error) {
	appErr := appErrors.FromError(err)
	a.console.Printf("Error: %s\n", appErr.Message)
	a.logger.Debug("operation failed", zap.String("code", appErr.Code), zap.Error(err))
}

func (a *App) changePassword(account *models.UserAccount) error {
	current, err := a.console.Prompt("Current password")
	if err != nil {
		return err
	}
	next, err := a.console.Prompt("New password")
	if err != nil {
		return err
	}
	confirm, err := a.console.Prompt("Repeat new password")
	if err != nil {
		return err
	}

	if err := a.auth.ChangePassword(account.Role, account.UserID, current, next, confirm); err != nil {
		a.showError(err)
		return nil
	}
	a.console.Println("Password changed.")
	return nil
}

// pickIndex asks for a 1-based selection from a list just printed.
func (a *App) pickIndex(label string, count int) (int, bool, error) {
	raw, err := a.console.Prompt(label + " (blank to cancel)")
	if err != nil {
		return 0, false, err
	}
	if raw == "" {
		return 0, false, nil
	}
	var idx int
	for _, r := range raw {
		if r < '0' || r > '9' {
			a.console.Println("Invalid selection.")
			return 0, false, nil
		}
		idx = idx*10 + int(r-'0')
	}
	if idx < 1 || idx > count {
		a.console.Println("Invalid selection.")
		return 0, false, nil
	}
	return idx - 1, true, nil
}
