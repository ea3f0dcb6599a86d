package handler

import (
	"carenet/internal/delivery/http/dto"
	"carenet/internal/domain"
	"carenet/internal/domain/job"
	"carenet/internal/pkg/response"
	"carenet/internal/usecase"

	"github.com/gofiber/fiber/v3"
)

type JobHandler struct {
	uc usecase.JobUsecase
}

type createJobRequest struct {
	Title           string `json:"title"`
	Company         string `json:"company"`
	Location        string `json:"location"`
	JobType         string `json:"job_type"`
	ExperienceLevel string `json:"experience_level"`
	SalaryRange     string `json:"salary_range"`
	Description     string `json:"description"`
	Requirements    string `json:"requirements"`
	Benefits        string `json:"benefits"`
}

type applyRequest struct {
	CoverLetter          string `json:"cover_letter"`
	LicenseNumber        string `json:"license_number"`
	Specialization       string `json:"specialization"`
	YearsOfExperience    *int   `json:"years_of_experience"`
	HighestQualification string `json:"highest_qualification"`
	PhoneNumber          string `json:"phone_number"`
	CurrentWorkplace     string `json:"current_workplace"`
	ExpectedSalary       string `json:"expected_salary"`
	ResumeKey            string `json:"resume_key"`
}

type updateStatusRequest struct {
	Status string `json:"status"`
}

func NewJobHandler(uc usecase.JobUsecase) *JobHandler {
	return &JobHandler{uc: uc}
}

func (h *JobHandler) RegisterRoutes(r fiber.Router) {
	if r == nil {
		return
	}

	r.Get("/jobs", h.List)
	r.Post("/jobs", h.Create)
	r.Get("/jobs/:id", h.Detail)
	r.Post("/jobs/:id/applications", h.Apply)

	r.Post("/applications/resume", h.UploadResume)
	r.Get("/applications/sent", h.Sent)
	r.Get("/applications/received", h.Received)
	r.Get("/applications/:id", h.Application)
	r.Get("/applications/:id/resume-url", h.ResumeURL)
	r.Patch("/applications/:id/status", h.UpdateStatus)
}

func (h *JobHandler) List(c fiber.Ctx) error {
	if _, err := currentUser(c); err != nil {
		return err
	}

	f := job.ListFilter{
		JobType: c.Query("job_type"),
		Limit:   queryInt(c, "limit", 20),
		Offset:  queryInt(c, "offset", 0),
	}
	items, err := h.uc.List(c.Context(), f)
	if err != nil {
		return mapUsecaseError(err, "Job")
	}
	return response.List(c, response.MessageOK, dto.NewJobResponses(items), f.Limit, f.Offset)
}

func (h *JobHandler) Create(c fiber.Ctx) error {
	userID, err := currentUser(c)
	if err != nil {
		return err
	}

	var req createJobRequest
	if err := bindBody(c, &req); err != nil {
		return err
	}

	j, err := h.uc.Create(c.Context(), userID, job.Job{
		Title:           req.Title,
		Company:         req.Company,
		Location:        req.Location,
		JobType:         req.JobType,
		ExperienceLevel: req.ExperienceLevel,
		SalaryRange:     req.SalaryRange,
		Description:     req.Description,
		Requirements:    req.Requirements,
		Benefits:        req.Benefits,
	})
	if err != nil {
		return mapUsecaseError(err, "Profile")
	}
	return response.Created(c, "Job posted", dto.NewJobResponse(j))
}

func (h *JobHandler) Detail(c fiber.Ctx) error {
	userID, err := currentUser(c)
	if err != nil {
		return err
	}
	jobID, err := uuidParam(c, "id")
	if err != nil {
		return err
	}

	d, err := h.uc.Detail(c.Context(), userID, jobID)
	if err != nil {
		return mapUsecaseError(err, "Job")
	}
	return response.Success(c, fiber.StatusOK, response.MessageOK, dto.JobDetailResponse{
		JobResponse: dto.NewJobResponse(d.Job),
		HasApplied:  d.HasApplied,
	})
}

func (h *JobHandler) Apply(c fiber.Ctx) error {
	userID, err := currentUser(c)
	if err != nil {
		return err
	}
	jobID, err := uuidParam(c, "id")
	if err != nil {
		return err
	}

	var req applyRequest
	if err := bindBody(c, &req); err != nil {
		return err
	}
	if req.YearsOfExperience == nil {
		return mapUsecaseError(domain.NewValidationError("years_of_experience", "years of experience is required"), "Job")
	}

	a, err := h.uc.Apply(c.Context(), userID, jobID, job.Application{
		CoverLetter:          req.CoverLetter,
		LicenseNumber:        req.LicenseNumber,
		Specialization:       req.Specialization,
		YearsOfExperience:    *req.YearsOfExperience,
		HighestQualification: req.HighestQualification,
		PhoneNumber:          req.PhoneNumber,
		CurrentWorkplace:     req.CurrentWorkplace,
		ExpectedSalary:       req.ExpectedSalary,
		ResumeKey:            req.ResumeKey,
	})
	if err != nil {
		return mapUsecaseError(err, "Job")
	}
	return response.Created(c, "Application submitted", dto.NewApplicationResponse(a))
}

func (h *JobHandler) UploadResume(c fiber.Ctx) error {
	userID, err := currentUser(c)
	if err != nil {
		return err
	}

	up, closeFn, err := formUpload(c, "resume")
	if err != nil {
		return err
	}
	defer closeFn()

	key, err := h.uc.UploadResume(c.Context(), userID, up)
	if err != nil {
		return mapUsecaseError(err, "Resume")
	}
	return response.Created(c, "Resume uploaded", fiber.Map{"resume_key": key})
}

func (h *JobHandler) Sent(c fiber.Ctx) error {
	userID, err := currentUser(c)
	if err != nil {
		return err
	}

	items, err := h.uc.Sent(c.Context(), userID)
	if err != nil {
		return mapUsecaseError(err, "Application")
	}
	return response.Success(c, fiber.StatusOK, response.MessageOK, dto.NewApplicationResponses(items))
}

func (h *JobHandler) Received(c fiber.Ctx) error {
	userID, err := currentUser(c)
	if err != nil {
		return err
	}

	items, err := h.uc.Received(c.Context(), userID)
	if err != nil {
		return mapUsecaseError(err, "Application")
	}
	return response.Success(c, fiber.StatusOK, response.MessageOK, dto.NewApplicationResponses(items))
}

func (h *JobHandler) Application(c fiber.Ctx) error {
	userID, err := currentUser(c)
	if err != nil {
		return err
	}
	appID, err := uuidParam(c, "id")
	if err != nil {
		return err
	}

	a, err := h.uc.Application(c.Context(), userID, appID)
	if err != nil {
		return mapUsecaseError(err, "Application")
	}
	return response.Success(c, fiber.StatusOK, response.MessageOK, dto.NewApplicationResponse(a))
}

func (h *JobHandler) ResumeURL(c fiber.Ctx) error {
	userID, err := currentUser(c)
	if err != nil {
		return err
	}
	appID, err := uuidParam(c, "id")
	if err != nil {
		return err
	}

	url, err := h.uc.ResumeURL(c.Context(), userID, appID)
	if err != nil {
		return mapUsecaseError(err, "Resume")
	}
	return response.Success(c, fiber.StatusOK, response.MessageOK, fiber.Map{"url": url})
}

func (h *JobHandler) UpdateStatus(c fiber.Ctx) error {
	userID, err := currentUser(c)
	if err != nil {
		return err
	}
	appID, err := uuidParam(c, "id")
	if err != nil {
		return err
	}

	var req updateStatusRequest
	if err := bindBody(c, &req); err != nil {
		return err
	}

	a, err := h.uc.UpdateStatus(c.Context(), userID, appID, job.ApplicationStatus(req.Status))
	if err != nil {
		return mapUsecaseError(err, "Application")
	}
	return response.Success(c, fiber.StatusOK, "Status updated", dto.NewApplicationResponse(a))
}
