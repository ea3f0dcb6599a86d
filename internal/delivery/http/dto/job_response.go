package dto

import (
	"time"

	"carenet/internal/domain/job"

	"github.com/google/uuid"
)

type JobResponse struct {
	ID              uuid.UUID      `json:"id"`
	EmployerID      uuid.UUID      `json:"employer_id"`
	Title           string         `json:"title"`
	Company         string         `json:"company"`
	Location        string         `json:"location"`
	JobType         string         `json:"job_type"`
	ExperienceLevel string         `json:"experience_level"`
	SalaryRange     string         `json:"salary_range"`
	Description     string         `json:"description"`
	Requirements    string         `json:"requirements"`
	Benefits        string         `json:"benefits"`
	IsActive        bool           `json:"is_active"`
	CreatedAt       time.Time      `json:"created_at"`
	Employer        ProfileSummary `json:"employer"`
}

func NewJobResponse(j job.Job) JobResponse {
	return JobResponse{
		ID:              j.ID,
		EmployerID:      j.EmployerID,
		Title:           j.Title,
		Company:         j.Company,
		Location:        j.Location,
		JobType:         j.JobType,
		ExperienceLevel: j.ExperienceLevel,
		SalaryRange:     j.SalaryRange,
		Description:     j.Description,
		Requirements:    j.Requirements,
		Benefits:        j.Benefits,
		IsActive:        j.IsActive,
		CreatedAt:       j.CreatedAt,
		Employer:        NewProfileSummary(j.Employer),
	}
}

func NewJobResponses(in []job.Job) []JobResponse {
	out := make([]JobResponse, 0, len(in))
	for _, j := range in {
		out = append(out, NewJobResponse(j))
	}
	return out
}

type JobDetailResponse struct {
	JobResponse
	HasApplied bool `json:"has_applied"`
}

type ApplicationResponse struct {
	ID                   uuid.UUID      `json:"id"`
	JobID                uuid.UUID      `json:"job_id"`
	ApplicantID          uuid.UUID      `json:"applicant_id"`
	CoverLetter          string         `json:"cover_letter"`
	LicenseNumber        string         `json:"license_number"`
	Specialization       string         `json:"specialization"`
	YearsOfExperience    int            `json:"years_of_experience"`
	HighestQualification string         `json:"highest_qualification"`
	PhoneNumber          string         `json:"phone_number"`
	CurrentWorkplace     string         `json:"current_workplace"`
	ExpectedSalary       string         `json:"expected_salary"`
	HasResume            bool           `json:"has_resume"`
	Status               string         `json:"status"`
	CreatedAt            time.Time      `json:"created_at"`
	UpdatedAt            time.Time      `json:"updated_at"`
	Job                  JobResponse    `json:"job"`
	Applicant            ProfileSummary `json:"applicant"`
	ApplicantEmail       string         `json:"applicant_email,omitempty"`
}

func NewApplicationResponse(a job.Application) ApplicationResponse {
	return ApplicationResponse{
		ID:                   a.ID,
		JobID:                a.JobID,
		ApplicantID:          a.ApplicantID,
		CoverLetter:          a.CoverLetter,
		LicenseNumber:        a.LicenseNumber,
		Specialization:       a.Specialization,
		YearsOfExperience:    a.YearsOfExperience,
		HighestQualification: a.HighestQualification,
		PhoneNumber:          a.PhoneNumber,
		CurrentWorkplace:     a.CurrentWorkplace,
		ExpectedSalary:       a.ExpectedSalary,
		HasResume:            a.ResumeKey != "",
		Status:               string(a.Status),
		CreatedAt:            a.CreatedAt,
		UpdatedAt:            a.UpdatedAt,
		Job:                  NewJobResponse(a.Job),
		Applicant:            NewProfileSummary(a.Applicant),
		ApplicantEmail:       a.ApplicantEmail,
	}
}

func NewApplicationResponses(in []job.Application) []ApplicationResponse {
	out := make([]ApplicationResponse, 0, len(in))
	for _, a := range in {
		out = append(out, NewApplicationResponse(a))
	}
	return out
}
