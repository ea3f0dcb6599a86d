package handler

import (
	"carenet/internal/delivery/http/dto"
	"carenet/internal/pkg/response"
	"carenet/internal/usecase"

	"github.com/gofiber/fiber/v3"
	"github.com/google/uuid"
)

const defaultSuggestionLimit = 10

type CareTeamHandler struct {
	uc usecase.CareTeamUsecase
}

type careTeamRequest struct {
	ReceiverID uuid.UUID `json:"receiver_id"`
}

func NewCareTeamHandler(uc usecase.CareTeamUsecase) *CareTeamHandler {
	return &CareTeamHandler{uc: uc}
}

func (h *CareTeamHandler) RegisterRoutes(r fiber.Router) {
	if r == nil {
		return
	}

	r.Get("/", h.Overview)
	r.Get("/status/:userId", h.Status)
	r.Get("/suggestions", h.Suggestions)
	r.Post("/requests", h.SendRequest)
	r.Post("/requests/:id/accept", h.Accept)
	r.Delete("/requests/:id", h.DeleteRequest)
	r.Delete("/connections/:userId", h.RemoveConnection)
}

func (h *CareTeamHandler) Overview(c fiber.Ctx) error {
	userID, err := currentUser(c)
	if err != nil {
		return err
	}

	o, err := h.uc.Overview(c.Context(), userID)
	if err != nil {
		return mapUsecaseError(err, "Care team")
	}
	return response.Success(c, fiber.StatusOK, response.MessageOK, dto.NewCareTeamOverviewResponse(userID, o))
}

func (h *CareTeamHandler) Status(c fiber.Ctx) error {
	userID, err := currentUser(c)
	if err != nil {
		return err
	}
	otherID, err := uuidParam(c, "userId")
	if err != nil {
		return err
	}

	st, err := h.uc.Status(c.Context(), userID, otherID)
	if err != nil {
		return mapUsecaseError(err, "Care team request")
	}
	res := dto.CareTeamStatusResponse{Relation: string(st.Relation)}
	if st.Request != nil {
		r := dto.NewCareTeamRequestResponse(*st.Request)
		res.Request = &r
	}
	return response.Success(c, fiber.StatusOK, response.MessageOK, res)
}

func (h *CareTeamHandler) Suggestions(c fiber.Ctx) error {
	userID, err := currentUser(c)
	if err != nil {
		return err
	}

	items, err := h.uc.Suggestions(c.Context(), userID, queryInt(c, "limit", defaultSuggestionLimit))
	if err != nil {
		return mapUsecaseError(err, "Profile")
	}
	return response.Success(c, fiber.StatusOK, response.MessageOK, dto.NewProfileSummaries(items))
}

func (h *CareTeamHandler) SendRequest(c fiber.Ctx) error {
	userID, err := currentUser(c)
	if err != nil {
		return err
	}

	var req careTeamRequest
	if err := bindBody(c, &req); err != nil {
		return err
	}

	r, err := h.uc.SendRequest(c.Context(), userID, req.ReceiverID)
	if err != nil {
		return mapUsecaseError(err, "User")
	}
	return response.Created(c, "Request sent", dto.NewCareTeamRequestResponse(r))
}

func (h *CareTeamHandler) Accept(c fiber.Ctx) error {
	userID, err := currentUser(c)
	if err != nil {
		return err
	}
	reqID, err := uuidParam(c, "id")
	if err != nil {
		return err
	}

	if err := h.uc.Accept(c.Context(), userID, reqID); err != nil {
		return mapUsecaseError(err, "Care team request")
	}
	return response.Success(c, fiber.StatusOK, "Request accepted", nil)
}

func (h *CareTeamHandler) DeleteRequest(c fiber.Ctx) error {
	userID, err := currentUser(c)
	if err != nil {
		return err
	}
	reqID, err := uuidParam(c, "id")
	if err != nil {
		return err
	}

	if err := h.uc.DeleteRequest(c.Context(), userID, reqID); err != nil {
		return mapUsecaseError(err, "Care team request")
	}
	return response.Success(c, fiber.StatusOK, "Request removed", nil)
}

func (h *CareTeamHandler) RemoveConnection(c fiber.Ctx) error {
	userID, err := currentUser(c)
	if err != nil {
		return err
	}
	otherID, err := uuidParam(c, "userId")
	if err != nil {
		return err
	}

	if err := h.uc.RemoveConnection(c.Context(), userID, otherID); err != nil {
		return mapUsecaseError(err, "Connection")
	}
	return response.Success(c, fiber.StatusOK, "Connection removed", nil)
}
