package cli

import (
	"strings"

	"thesisflow/internal/models"
	"thesisflow/internal/service"
)

func (a *App) studentMenu(account *models.UserAccount) error {
	for {
		choice, err := a.console.Menu("Student Menu", "Log out",
			"Browse open thesis courses",
			"Request thesis enrollment",
			"My request status",
			"Request thesis defense",
			"Search defended theses",
			"Change password")
		if err != nil {
			return err
		}
		switch choice {
		case 0:
			return nil
		case 1:
			err = a.browseCourses()
		case 2:
			err = a.requestEnrollment(account)
		case 3:
			err = a.requestStatus(account)
		case 4:
			err = a.requestDefense(account)
		case 5:
			err = a.searchMenu()
		case 6:
			err = a.changePassword(account)
		}
		if err != nil {
			return err
		}
	}
}

func (a *App) browseCourses() error {
	courses, err := a.enrollments.AvailableCourses()
	if err != nil {
		a.showError(err)
		return nil
	}
	if len(courses) == 0 {
		a.console.Println("No thesis courses with open capacity.")
		return nil
	}
	for _, course := range courses {
		a.console.Printf("\n[%s] %s\n", course.CourseID, course.Title)
		a.console.Printf("  Professor: %s | Capacity: %d | %s %s\n",
			course.ProfessorID, course.Capacity, course.Year, course.Semester)
		a.console.Printf("  Units: %d | Sessions: %d | Resources: %s\n",
			course.Units, course.SessionsCount, course.Resources)
	}
	return nil
}

func (a *App) requestEnrollment(account *models.UserAccount) error {
	courseID, err := a.console.Prompt("Course ID")
	if err != nil {
		return err
	}
	request, err := a.enrollments.Submit(account.UserID, courseID)
	if err != nil {
		a.showError(err)
		return nil
	}
	a.console.Printf("Enrollment request %s filed; awaiting professor approval.\n", request.ID)
	return nil
}

func (a *App) requestStatus(account *models.UserAccount) error {
	enrollment, err := a.enrollments.LatestForStudent(account.UserID)
	if err != nil {
		a.showError(err)
		return nil
	}
	if enrollment == nil {
		a.console.Println("No enrollment request on file.")
	} else {
		a.console.Printf("Enrollment in %s: %s (filed %s)\n",
			enrollment.CourseID, enrollment.Status, enrollment.CreatedAt)
		if enrollment.ApprovedDate != "" {
			a.console.Printf("  Approved on %s\n", enrollment.ApprovedDate)
		}
		if enrollment.RejectedDate != "" {
			a.console.Printf("  Rejected on %s\n", enrollment.RejectedDate)
		}
	}

	defense, err := a.defenses.LatestForStudent(account.UserID)
	if err != nil {
		a.showError(err)
		return nil
	}
	if defense == nil {
		a.console.Println("No defense request on file.")
		return nil
	}
	a.console.Printf("Defense of %q: %s (filed %s)\n",
		defense.Title, defense.Status, defense.SubmissionDate)
	if defense.DefenseDate != "" {
		a.console.Printf("  Scheduled for %s\n", defense.DefenseDate)
	}
	if defense.FinalGrade != nil {
		a.console.Printf("  Final grade: %.2f (%s)\n", *defense.FinalGrade, defense.FinalLetterGrade)
	}
	return nil
}

func (a *App) requestDefense(account *models.UserAccount) error {
	eligibility, err := a.defenses.Eligibility(account.UserID)
	if err != nil {
		a.showError(err)
		return nil
	}
	if !eligibility.Eligible {
		a.console.Printf("Cannot request a defense: %s.\n", eligibility.Reason)
		if eligibility.EligibleOn != "" {
			a.console.Printf("Eligible from %s (%d month(s) and %d day(s) remaining).\n",
				eligibility.EligibleOn, eligibility.MonthsLeft, eligibility.DaysLeft)
		}
		return nil
	}

	title, err := a.console.Prompt("Thesis title")
	if err != nil {
		return err
	}
	abstract, err := a.console.Prompt("Abstract")
	if err != nil {
		return err
	}
	rawKeywords, err := a.console.Prompt("Keywords (comma separated)")
	if err != nil {
		return err
	}
	var keywords []string
	for _, keyword := range strings.Split(rawKeywords, ",") {
		if keyword = strings.TrimSpace(keyword); keyword != "" {
			keywords = append(keywords, keyword)
		}
	}
	thesisFile, err := a.console.Prompt("Path to thesis PDF")
	if err != nil {
		return err
	}
	firstPage, err := a.console.Prompt("Path to first page image (JPG)")
	if err != nil {
		return err
	}
	secondPage, err := a.console.Prompt("Path to second page image (JPG)")
	if err != nil {
		return err
	}

	request, err := a.defenses.Submit(account.UserID, service.DefenseSubmission{
		Title:      title,
		Abstract:   abstract,
		Keywords:   keywords,
		ThesisFile: thesisFile,
		FirstPage:  firstPage,
		SecondPage: secondPage,
	})
	if err != nil {
		a.showError(err)
		return nil
	}
	a.console.Printf("Defense request %s filed; awaiting professor approval.\n", request.ID)
	return nil
}
