package job

import (
	"strings"
	"time"

	"carenet/internal/domain"
	"carenet/internal/domain/profile"

	"github.com/google/uuid"
)

type ApplicationStatus string

const (
	StatusPending     ApplicationStatus = "pending"
	StatusReviewed    ApplicationStatus = "reviewed"
	StatusShortlisted ApplicationStatus = "shortlisted"
	StatusAccepted    ApplicationStatus = "accepted"
	StatusRejected    ApplicationStatus = "rejected"
)

const maxYearsOfExperience = 70

func (s ApplicationStatus) Valid() bool {
	switch s {
	case StatusPending, StatusReviewed, StatusShortlisted, StatusAccepted, StatusRejected:
		return true
	default:
		return false
	}
}

type Application struct {
	ID                   uuid.UUID
	JobID                uuid.UUID
	ApplicantID          uuid.UUID
	CoverLetter          string
	LicenseNumber        string
	Specialization       string
	YearsOfExperience    int
	HighestQualification string
	PhoneNumber          string
	CurrentWorkplace     string
	ExpectedSalary       string
	ResumeKey            string
	Status               ApplicationStatus
	CreatedAt            time.Time
	UpdatedAt            time.Time

	Job       Job
	Applicant profile.Summary
	// ApplicantEmail is filled only on the employer's detail view.
	ApplicantEmail string
}

// Normalize trims the form and checks the credential fields every application must carry.
func (a *Application) Normalize() error {
	a.CoverLetter = strings.TrimSpace(a.CoverLetter)
	a.LicenseNumber = strings.TrimSpace(a.LicenseNumber)
	a.Specialization = strings.TrimSpace(a.Specialization)
	a.HighestQualification = strings.TrimSpace(a.HighestQualification)
	a.PhoneNumber = strings.TrimSpace(a.PhoneNumber)
	a.CurrentWorkplace = strings.TrimSpace(a.CurrentWorkplace)
	a.ExpectedSalary = strings.TrimSpace(a.ExpectedSalary)
	a.ResumeKey = strings.TrimSpace(a.ResumeKey)

	if a.LicenseNumber == "" {
		return domain.NewValidationError("license_number", "license or registration number is required")
	}
	if a.Specialization == "" {
		return domain.NewValidationError("specialization", "specialization is required")
	}
	if a.HighestQualification == "" {
		return domain.NewValidationError("highest_qualification", "highest qualification is required")
	}
	if a.YearsOfExperience < 0 || a.YearsOfExperience > maxYearsOfExperience {
		return domain.NewValidationError("years_of_experience", "years of experience must be between 0 and 70")
	}
	if a.Status == "" {
		a.Status = StatusPending
	}
	return nil
}
