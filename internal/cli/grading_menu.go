package cli

import (
	"errors"

	"thesisflow/internal/models"
	appErrors "thesisflow/pkg/errors"
)

func (a *App) externalJudgeMenu(account *models.UserAccount) error {
	for {
		choice, err := a.console.Menu("External Judge Menu", "Log out",
			"Grade defenses",
			"Search defended theses",
			"Change password")
		if err != nil {
			return err
		}
		switch choice {
		case 0:
			return nil
		case 1:
			err = a.gradeDefenses(account)
		case 2:
			err = a.searchMenu()
		case 3:
			err = a.changePassword(account)
		}
		if err != nil {
			return err
		}
	}
}

func (a *App) gradeDefenses(account *models.UserAccount) error {
	requests, err := a.grading.GradableForJudge(account.UserID)
	if err != nil {
		a.showError(err)
		return nil
	}
	if len(requests) == 0 {
		a.console.Println("No defenses awaiting your grade.")
		return nil
	}
	for i, request := range requests {
		seat, _ := request.JudgeRoleFor(account.UserID)
		a.console.Printf("%d. %q by student %s, defended %s (your seat: %s)\n",
			i+1, request.Title, request.StudentID, request.DefenseDate, seat)
	}

	idx, ok, err := a.pickIndex("Defense number", len(requests))
	if err != nil || !ok {
		return err
	}
	request := requests[idx]

	grade, err := a.console.PromptFloat("Grade (0-20)")
	if err != nil {
		if errors.Is(err, errNotANumber) {
			a.console.Println("Invalid grade input.")
			return nil
		}
		return err
	}

	outcome, err := a.grading.SubmitGrade(account.UserID, request.ID, grade, false)
	if errors.Is(err, appErrors.ErrConflict) {
		confirmed, cerr := a.console.Confirm("A grade is already recorded for this seat. Overwrite it?")
		if cerr != nil {
			return cerr
		}
		if !confirmed {
			a.console.Println("Kept the existing grade.")
			return nil
		}
		outcome, err = a.grading.SubmitGrade(account.UserID, request.ID, grade, true)
	}
	if err != nil {
		a.showError(err)
		return nil
	}

	a.console.Printf("Grade %.2f (%s) recorded for the %s seat.\n", grade, outcome.Letter, outcome.Seat)
	for _, warning := range outcome.Warnings {
		a.console.Printf("Warning: %s\n", warning)
	}
	if outcome.Finalized {
		a.console.Printf("Both grades are in. Final grade %.2f (%s); the thesis has been archived.\n",
			*outcome.Request.FinalGrade, outcome.Request.FinalLetterGrade)
	}
	return nil
}
