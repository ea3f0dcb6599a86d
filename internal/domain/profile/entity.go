package profile

import (
	"time"

	"github.com/google/uuid"
)

type AccountStatus string

const (
	StatusActive      AccountStatus = "active"
	StatusDeactivated AccountStatus = "deactivated"
	StatusDeleted     AccountStatus = "deleted"
)

const DefaultUserType = "doctor"

var userTypes = map[string]bool{
	"doctor":     true,
	"nurse":      true,
	"pharmacist": true,
	"therapist":  true,
	"technician": true,
	"student":    true,
	"employer":   true,
	"other":      true,
}

func ValidUserType(t string) bool {
	return userTypes[t]
}

type Experience struct {
	Title       string `json:"title"`
	Company     string `json:"company"`
	StartDate   string `json:"startDate"`
	EndDate     string `json:"endDate"`
	Current     bool   `json:"current"`
	Description string `json:"description"`
}

type Education struct {
	School    string `json:"school"`
	Degree    string `json:"degree"`
	Field     string `json:"field"`
	StartYear string `json:"startYear"`
	EndYear   string `json:"endYear"`
}

type Profile struct {
	ID                   uuid.UUID
	Email                string
	FullName             string
	UserType             string
	Headline             string
	Bio                  string
	Location             string
	Phone                string
	LinkedInURL          string
	ProfilePhoto         string
	CoverPhoto           string
	Skills               []string
	Experience           []Experience
	Education            []Education
	LicenseNumber        string
	Specialization       string
	HighestQualification string
	YearsOfExperience    int
	AccountStatus        AccountStatus
	DeactivatedAt        *time.Time
	CreatedAt            time.Time
	UpdatedAt            time.Time
}

// Summary is the display identity joined onto messages, posts and requests.
type Summary struct {
	ID           uuid.UUID
	FullName     string
	Headline     string
	UserType     string
	ProfilePhoto string
}

func (p Profile) Summary() Summary {
	return Summary{
		ID:           p.ID,
		FullName:     p.FullName,
		Headline:     p.Headline,
		UserType:     p.UserType,
		ProfilePhoto: p.ProfilePhoto,
	}
}

type Stats struct {
	ProfileViews int64
	Connections  int64
}

type PhotoKind string

const (
	PhotoProfile PhotoKind = "profile"
	PhotoCover   PhotoKind = "cover"
)
