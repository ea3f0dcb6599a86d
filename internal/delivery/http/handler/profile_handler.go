package handler

import (
	"encoding/json"
	"strings"

	"carenet/internal/delivery/http/dto"
	"carenet/internal/delivery/http/middleware"
	"carenet/internal/domain/profile"
	"carenet/internal/pkg/response"
	"carenet/internal/usecase"

	"github.com/gofiber/fiber/v3"
)

type ProfileHandler struct {
	uc usecase.ProfileUsecase
}

type updateProfileRequest struct {
	FullName             *string         `json:"full_name"`
	UserType             *string         `json:"user_type"`
	Headline             *string         `json:"headline"`
	Bio                  *string         `json:"bio"`
	Location             *string         `json:"location"`
	Phone                *string         `json:"phone"`
	LinkedInURL          *string         `json:"linkedin_url"`
	LicenseNumber        *string         `json:"license_number"`
	Specialization       *string         `json:"specialization"`
	HighestQualification *string         `json:"highest_qualification"`
	YearsOfExperience    *int            `json:"years_of_experience"`
	Skills               []string        `json:"skills"`
	Experience           json.RawMessage `json:"experience"`
	Education            json.RawMessage `json:"education"`
}

func NewProfileHandler(uc usecase.ProfileUsecase) *ProfileHandler {
	return &ProfileHandler{uc: uc}
}

func (h *ProfileHandler) RegisterRoutes(r fiber.Router) {
	if r == nil {
		return
	}

	r.Get("/me", h.GetMe)
	r.Put("/me", h.UpdateMe)
	r.Post("/me/photo", h.UploadPhoto)
	r.Get("/:id", h.Get)
	r.Get("/:id/stats", h.Stats)
}

func (h *ProfileHandler) GetMe(c fiber.Ctx) error {
	userID, err := currentUser(c)
	if err != nil {
		return err
	}

	prof, err := h.uc.GetMe(c.Context(), userID)
	if err != nil {
		return mapUsecaseError(err, "Profile")
	}
	return response.Success(c, fiber.StatusOK, response.MessageOK, dto.NewProfileResponse(prof))
}

func (h *ProfileHandler) Get(c fiber.Ctx) error {
	viewerID, err := currentUser(c)
	if err != nil {
		return err
	}
	profileID, err := uuidParam(c, "id")
	if err != nil {
		return err
	}

	prof, err := h.uc.Get(c.Context(), viewerID, profileID)
	if err != nil {
		return mapUsecaseError(err, "Profile")
	}
	return response.Success(c, fiber.StatusOK, response.MessageOK, dto.NewProfileResponse(prof))
}

func (h *ProfileHandler) UpdateMe(c fiber.Ctx) error {
	userID, err := currentUser(c)
	if err != nil {
		return err
	}

	var req updateProfileRequest
	if err := bindBody(c, &req); err != nil {
		return err
	}

	prof, err := h.uc.UpdateMe(c.Context(), userID, usecase.UpdateProfileInput{
		FullName:             req.FullName,
		UserType:             req.UserType,
		Headline:             req.Headline,
		Bio:                  req.Bio,
		Location:             req.Location,
		Phone:                req.Phone,
		LinkedInURL:          req.LinkedInURL,
		LicenseNumber:        req.LicenseNumber,
		Specialization:       req.Specialization,
		HighestQualification: req.HighestQualification,
		YearsOfExperience:    req.YearsOfExperience,
		Skills:               req.Skills,
		Experience:           req.Experience,
		Education:            req.Education,
	})
	if err != nil {
		return mapUsecaseError(err, "Profile")
	}
	return response.Success(c, fiber.StatusOK, response.MessageOK, dto.NewProfileResponse(prof))
}

func (h *ProfileHandler) Stats(c fiber.Ctx) error {
	if _, err := currentUser(c); err != nil {
		return err
	}
	profileID, err := uuidParam(c, "id")
	if err != nil {
		return err
	}

	st, err := h.uc.Stats(c.Context(), profileID)
	if err != nil {
		return mapUsecaseError(err, "Profile")
	}
	return response.Success(c, fiber.StatusOK, response.MessageOK, dto.ProfileStatsResponse{
		ProfileViews: st.ProfileViews,
		Connections:  st.Connections,
	})
}

// UploadPhoto accepts a multipart "file" field; ?kind=cover switches to the cover photo.
func (h *ProfileHandler) UploadPhoto(c fiber.Ctx) error {
	userID, err := currentUser(c)
	if err != nil {
		return err
	}

	kind := profile.PhotoKind(strings.ToLower(c.Query("kind", string(profile.PhotoProfile))))
	up, closeFn, err := formUpload(c, "file")
	if err != nil {
		return err
	}
	defer closeFn()

	url, err := h.uc.UploadPhoto(c.Context(), userID, kind, up)
	if err != nil {
		return mapUsecaseError(err, "Profile")
	}
	return response.Success(c, fiber.StatusOK, response.MessageOK, fiber.Map{"url": url, "kind": kind})
}

func formUpload(c fiber.Ctx, field string) (usecase.Upload, func(), error) {
	fh, err := c.FormFile(field)
	if err != nil {
		return usecase.Upload{}, nil, middleware.NewAppError(fiber.StatusBadRequest, "Missing file", nil, err)
	}
	f, err := fh.Open()
	if err != nil {
		return usecase.Upload{}, nil, middleware.NewAppError(fiber.StatusBadRequest, "Unreadable file", nil, err)
	}
	return usecase.Upload{
		Filename:    fh.Filename,
		ContentType: fh.Header.Get("Content-Type"),
		Size:        fh.Size,
		Body:        f,
	}, func() { _ = f.Close() }, nil
}
