package cli

import (
	"thesisflow/internal/models"
)

func (a *App) professorMenu(account *models.UserAccount) error {
	for {
		choice, err := a.console.Menu("Professor Menu", "Log out",
			"Review enrollment requests",
			"Review defense requests",
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
			err = a.reviewEnrollments(account)
		case 2:
			err = a.reviewDefenses(account)
		case 3:
			err = a.gradeDefenses(account)
		case 4:
			err = a.searchMenu()
		case 5:
			err = a.changePassword(account)
		}
		if err != nil {
			return err
		}
	}
}

func (a *App) reviewEnrollments(account *models.UserAccount) error {
	requests, err := a.enrollments.PendingForProfessor(account.UserID)
	if err != nil {
		a.showError(err)
		return nil
	}
	if len(requests) == 0 {
		a.console.Println("No pending enrollment requests.")
		return nil
	}
	for i, request := range requests {
		a.console.Printf("%d. student %s, course %s, filed %s\n",
			i+1, request.StudentID, request.CourseID, request.CreatedAt)
	}

	idx, ok, err := a.pickIndex("Request number", len(requests))
	if err != nil || !ok {
		return err
	}
	request := requests[idx]

	approve, err := a.console.Confirm("Approve this request? (no rejects it)")
	if err != nil {
		return err
	}
	if approve {
		if _, err := a.enrollments.Approve(account.UserID, request.ID); err != nil {
			a.showError(err)
			return nil
		}
		a.console.Println("Enrollment approved.")
		return nil
	}
	if _, err := a.enrollments.Reject(account.UserID, request.ID); err != nil {
		a.showError(err)
		return nil
	}
	a.console.Println("Enrollment rejected; the course seat was released.")
	return nil
}

func (a *App) reviewDefenses(account *models.UserAccount) error {
	requests, err := a.defenses.PendingForProfessor(account.UserID)
	if err != nil {
		a.showError(err)
		return nil
	}
	if len(requests) == 0 {
		a.console.Println("No pending defense requests.")
		return nil
	}
	for i, request := range requests {
		a.console.Printf("%d. %q by student %s, filed %s\n",
			i+1, request.Title, request.StudentID, request.SubmissionDate)
	}

	idx, ok, err := a.pickIndex("Request number", len(requests))
	if err != nil || !ok {
		return err
	}
	request := requests[idx]
	a.console.Printf("\nTitle: %s\nAbstract: %s\nThesis file: %s\n",
		request.Title, request.Abstract, a.documents.Path(request.FilePath))

	view, err := a.console.Confirm("Open the thesis file?")
	if err != nil {
		return err
	}
	if view {
		if err := openFile(a.documents.Path(request.FilePath)); err != nil {
			a.console.Println("Could not open the file with the default application.")
		}
	}

	approve, err := a.console.Confirm("Approve this request? (no rejects it)")
	if err != nil {
		return err
	}
	if !approve {
		if _, err := a.defenses.Reject(account.UserID, request.ID); err != nil {
			a.showError(err)
			return nil
		}
		a.console.Println("Defense request rejected; the student may resubmit.")
		return nil
	}

	defenseDate, err := a.console.Prompt("Defense date (YYYY-MM-DD)")
	if err != nil {
		return err
	}

	internalID, ok, err := a.pickJudge("Internal judge",
		func() ([]models.UserAccount, error) { return a.defenses.AvailableInternalJudges(account.UserID) })
	if err != nil || !ok {
		return err
	}
	externalID, ok, err := a.pickJudge("External judge", a.defenses.AvailableExternalJudges)
	if err != nil || !ok {
		return err
	}

	_, warnings, err := a.defenses.Approve(account.UserID, request.ID, defenseDate, internalID, externalID)
	if err != nil {
		a.showError(err)
		return nil
	}
	a.console.Println("Defense scheduled.")
	for _, warning := range warnings {
		a.console.Printf("Warning: %s\n", warning)
	}
	return nil
}

func (a *App) pickJudge(label string, list func() ([]models.UserAccount, error)) (string, bool, error) {
	judges, err := list()
	if err != nil {
		a.showError(err)
		return "", false, nil
	}
	if len(judges) == 0 {
		a.console.Printf("No %s candidates with remaining capacity.\n", label)
		return "", false, nil
	}
	a.console.Printf("\n%s candidates:\n", label)
	for i, judge := range judges {
		a.console.Printf("%d. %s (%s), capacity %d\n", i+1, judge.Name, judge.UserID, judge.JudgeCapacity)
	}
	idx, ok, err := a.pickIndex(label+" number", len(judges))
	if err != nil || !ok {
		return "", ok, err
	}
	return judges[idx].UserID, true, nil
}
