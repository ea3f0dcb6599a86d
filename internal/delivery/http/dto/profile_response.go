package dto

import (
	"time"

	"carenet/internal/domain/profile"

	"github.com/google/uuid"
)

type ProfileSummary struct {
	ID           uuid.UUID `json:"id"`
	FullName     string    `json:"full_name"`
	Headline     string    `json:"headline"`
	UserType     string    `json:"user_type"`
	ProfilePhoto string    `json:"profile_photo"`
}

func NewProfileSummary(s profile.Summary) ProfileSummary {
	return ProfileSummary{
		ID:           s.ID,
		FullName:     s.FullName,
		Headline:     s.Headline,
		UserType:     s.UserType,
		ProfilePhoto: s.ProfilePhoto,
	}
}

func NewProfileSummaries(in []profile.Summary) []ProfileSummary {
	out := make([]ProfileSummary, 0, len(in))
	for _, s := range in {
		out = append(out, NewProfileSummary(s))
	}
	return out
}

type ProfileResponse struct {
	ID                   uuid.UUID            `json:"id"`
	Email                string               `json:"email"`
	FullName             string               `json:"full_name"`
	UserType             string               `json:"user_type"`
	Headline             string               `json:"headline"`
	Bio                  string               `json:"bio"`
	Location             string               `json:"location"`
	Phone                string               `json:"phone"`
	LinkedInURL          string               `json:"linkedin_url"`
	ProfilePhoto         string               `json:"profile_photo"`
	CoverPhoto           string               `json:"cover_photo"`
	Skills               []string             `json:"skills"`
	Experience           []profile.Experience `json:"experience"`
	Education            []profile.Education  `json:"education"`
	LicenseNumber        string               `json:"license_number"`
	Specialization       string               `json:"specialization"`
	HighestQualification string               `json:"highest_qualification"`
	YearsOfExperience    int                  `json:"years_of_experience"`
	AccountStatus        string               `json:"account_status"`
	CreatedAt            time.Time            `json:"created_at"`
	UpdatedAt            time.Time            `json:"updated_at"`
}

func NewProfileResponse(p profile.Profile) ProfileResponse {
	res := ProfileResponse{
		ID:                   p.ID,
		Email:                p.Email,
		FullName:             p.FullName,
		UserType:             p.UserType,
		Headline:             p.Headline,
		Bio:                  p.Bio,
		Location:             p.Location,
		Phone:                p.Phone,
		LinkedInURL:          p.LinkedInURL,
		ProfilePhoto:         p.ProfilePhoto,
		CoverPhoto:           p.CoverPhoto,
		Skills:               p.Skills,
		Experience:           p.Experience,
		Education:            p.Education,
		LicenseNumber:        p.LicenseNumber,
		Specialization:       p.Specialization,
		HighestQualification: p.HighestQualification,
		YearsOfExperience:    p.YearsOfExperience,
		AccountStatus:        string(p.AccountStatus),
		CreatedAt:            p.CreatedAt,
		UpdatedAt:            p.UpdatedAt,
	}
	if res.Skills == nil {
		res.Skills = []string{}
	}
	if res.Experience == nil {
		res.Experience = []profile.Experience{}
	}
	if res.Education == nil {
		res.Education = []profile.Education{}
	}
	return res
}

type ProfileStatsResponse struct {
	ProfileViews int64 `json:"profile_views"`
	Connections  int64 `json:"connections"`
}
