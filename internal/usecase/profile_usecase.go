package usecase

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"strings"
	"time"

	"carenet/internal/domain"
	"carenet/internal/domain/profile"
	"carenet/internal/domain/user"

	"github.com/google/uuid"
)

type UpdateProfileInput struct {
	FullName             *string
	UserType             *string
	Headline             *string
	Bio                  *string
	Location             *string
	Phone                *string
	LinkedInURL          *string
	LicenseNumber        *string
	Specialization       *string
	HighestQualification *string
	YearsOfExperience    *int
	Skills               []string
	Experience           json.RawMessage
	Education            json.RawMessage
}

type ProfileUsecase interface {
	GetMe(ctx context.Context, userID uuid.UUID) (profile.Profile, error)
	Get(ctx context.Context, viewerID, profileID uuid.UUID) (profile.Profile, error)
	UpdateMe(ctx context.Context, userID uuid.UUID, in UpdateProfileInput) (profile.Profile, error)
	Stats(ctx context.Context, profileID uuid.UUID) (profile.Stats, error)
	UploadPhoto(ctx context.Context, userID uuid.UUID, kind profile.PhotoKind, up Upload) (string, error)
}

type Profiles struct {
	profiles      profile.Repository
	users         user.Repository
	images        ImageHost
	cache         Cache
	statsTTL      time.Duration
	maxImageBytes int64
	logger        *log.Logger
}

func NewProfileUsecase(profiles profile.Repository, users user.Repository, images ImageHost, cache Cache, statsTTL time.Duration, maxImageBytes int64, logger *log.Logger) *Profiles {
	return &Profiles{
		profiles:      profiles,
		users:         users,
		images:        images,
		cache:         cache,
		statsTTL:      statsTTL,
		maxImageBytes: maxImageBytes,
		logger:        logger,
	}
}

func statsCacheKey(id uuid.UUID) string {
	return "profile:stats:" + id.String()
}

// GetMe returns the caller's profile, creating a default one when the row is missing.
func (u *Profiles) GetMe(ctx context.Context, userID uuid.UUID) (profile.Profile, error) {
	p, err := u.profiles.GetByID(ctx, userID)
	if err == nil {
		return p, nil
	}
	if !errors.Is(err, profile.ErrNotFound) {
		return profile.Profile{}, ErrInternal
	}

	usr, err := u.users.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, user.ErrNotFound) {
			return profile.Profile{}, ErrNotFound
		}
		return profile.Profile{}, ErrInternal
	}

	if err := u.profiles.Create(ctx, profile.Profile{
		ID:            usr.ID,
		Email:         usr.Email,
		FullName:      "User",
		UserType:      profile.DefaultUserType,
		AccountStatus: profile.StatusActive,
	}); err != nil {
		return profile.Profile{}, ErrInternal
	}
	if u.logger != nil {
		u.logger.Printf("Profile created | user_id=%s", userID)
	}

	p, err = u.profiles.GetByID(ctx, userID)
	if err != nil {
		return profile.Profile{}, ErrInternal
	}
	return p, nil
}

// Get returns another member's profile and records the view. Inactive accounts are hidden from others.
func (u *Profiles) Get(ctx context.Context, viewerID, profileID uuid.UUID) (profile.Profile, error) {
	if viewerID == profileID {
		return u.GetMe(ctx, viewerID)
	}

	p, err := u.profiles.GetByID(ctx, profileID)
	if err != nil {
		if errors.Is(err, profile.ErrNotFound) {
			return profile.Profile{}, ErrNotFound
		}
		return profile.Profile{}, ErrInternal
	}
	if p.AccountStatus != profile.StatusActive {
		return profile.Profile{}, ErrNotFound
	}

	if err := u.profiles.RecordView(ctx, profileID, viewerID); err != nil {
		if u.logger != nil {
			u.logger.Printf("Profile view not recorded | profile_id=%s viewer_id=%s error=%v", profileID, viewerID, err)
		}
	} else {
		u.invalidateStats(ctx, profileID)
	}
	return p, nil
}

func (u *Profiles) UpdateMe(ctx context.Context, userID uuid.UUID, in UpdateProfileInput) (profile.Profile, error) {
	p, err := u.GetMe(ctx, userID)
	if err != nil {
		return profile.Profile{}, err
	}

	setString(&p.FullName, in.FullName)
	setString(&p.Headline, in.Headline)
	setString(&p.Bio, in.Bio)
	setString(&p.Location, in.Location)
	setString(&p.Phone, in.Phone)
	setString(&p.LinkedInURL, in.LinkedInURL)
	setString(&p.LicenseNumber, in.LicenseNumber)
	setString(&p.Specialization, in.Specialization)
	setString(&p.HighestQualification, in.HighestQualification)

	if in.FullName != nil && p.FullName == "" {
		return profile.Profile{}, domain.NewValidationError("full_name", "is required")
	}
	if in.UserType != nil {
		t := strings.ToLower(strings.TrimSpace(*in.UserType))
		if !profile.ValidUserType(t) {
			return profile.Profile{}, domain.NewValidationError("user_type", "unknown user type")
		}
		p.UserType = t
	}
	if in.YearsOfExperience != nil {
		if *in.YearsOfExperience < 0 || *in.YearsOfExperience > 70 {
			return profile.Profile{}, domain.NewValidationError("years_of_experience", "must be between 0 and 70")
		}
		p.YearsOfExperience = *in.YearsOfExperience
	}
	if in.Skills != nil {
		skills, err := profile.NormalizeSkills(in.Skills)
		if err != nil {
			return profile.Profile{}, err
		}
		p.Skills = skills
	}
	if len(in.Experience) > 0 {
		exp, err := profile.ValidateExperience(ctx, in.Experience)
		if err != nil {
			return profile.Profile{}, err
		}
		p.Experience = exp
	}
	if len(in.Education) > 0 {
		edu, err := profile.ValidateEducation(ctx, in.Education)
		if err != nil {
			return profile.Profile{}, err
		}
		p.Education = edu
	}

	if err := u.profiles.Update(ctx, p); err != nil {
		return profile.Profile{}, ErrInternal
	}

	updated, err := u.profiles.GetByID(ctx, userID)
	if err != nil {
		return profile.Profile{}, ErrInternal
	}
	return updated, nil
}

func (u *Profiles) Stats(ctx context.Context, profileID uuid.UUID) (profile.Stats, error) {
	key := statsCacheKey(profileID)
	if u.cache != nil {
		var cached profile.Stats
		if ok, err := u.cache.GetJSON(ctx, key, &cached); err == nil && ok {
			return cached, nil
		}
	}

	st, err := u.profiles.Stats(ctx, profileID)
	if err != nil {
		if errors.Is(err, profile.ErrNotFound) {
			return profile.Stats{}, ErrNotFound
		}
		return profile.Stats{}, ErrInternal
	}

	if u.cache != nil {
		if err := u.cache.SetJSON(ctx, key, st, u.statsTTL); err != nil && u.logger != nil {
			u.logger.Printf("Profile stats cache set failed | profile_id=%s error=%v", profileID, err)
		}
	}
	return st, nil
}

func (u *Profiles) UploadPhoto(ctx context.Context, userID uuid.UUID, kind profile.PhotoKind, up Upload) (string, error) {
	if kind != profile.PhotoProfile && kind != profile.PhotoCover {
		return "", domain.NewValidationError("kind", "must be profile or cover")
	}
	if !strings.HasPrefix(strings.ToLower(up.ContentType), "image/") {
		return "", domain.NewValidationError("file", "must be an image")
	}
	if up.Size <= 0 || (u.maxImageBytes > 0 && up.Size > u.maxImageBytes) {
		return "", domain.NewValidationError("file", "image is empty or too large")
	}
	if u.images == nil {
		return "", ErrUnavailable
	}

	url, err := u.images.UploadImage(ctx, up.Filename, up.Body)
	if err != nil {
		if u.logger != nil {
			u.logger.Printf("Photo upload failed | user_id=%s kind=%s error=%v", userID, kind, err)
		}
		return "", ErrInternal
	}
	if err := u.profiles.SetPhoto(ctx, userID, kind, url); err != nil {
		if errors.Is(err, profile.ErrNotFound) {
			return "", ErrNotFound
		}
		return "", ErrInternal
	}
	return url, nil
}

func (u *Profiles) invalidateStats(ctx context.Context, id uuid.UUID) {
	if u.cache == nil {
		return
	}
	_ = u.cache.Delete(ctx, statsCacheKey(id))
}

func setString(dst *string, v *string) {
	if v != nil {
		*dst = strings.TrimSpace(*v)
	}
}
