package handler

import (
	"carenet/internal/pkg/response"
	"carenet/internal/usecase"

	"github.com/gofiber/fiber/v3"
)

type AccountHandler struct {
	uc usecase.AccountUsecase
}

type registerDeviceRequest struct {
	Token    string `json:"token"`
	Platform string `json:"platform"`
}

func NewAccountHandler(uc usecase.AccountUsecase) *AccountHandler {
	return &AccountHandler{uc: uc}
}

func (h *AccountHandler) RegisterRoutes(r fiber.Router) {
	if r == nil {
		return
	}

	r.Post("/account/deactivate", h.Deactivate)
	r.Delete("/account", h.Delete)
	r.Post("/devices", h.RegisterDevice)
}

func (h *AccountHandler) Deactivate(c fiber.Ctx) error {
	userID, err := currentUser(c)
	if err != nil {
		return err
	}
	if err := h.uc.Deactivate(c.Context(), userID); err != nil {
		return mapUsecaseError(err, "Account")
	}
	return response.Success(c, fiber.StatusOK, "Account deactivated. Log in again to reactivate it.", nil)
}

func (h *AccountHandler) Delete(c fiber.Ctx) error {
	userID, err := currentUser(c)
	if err != nil {
		return err
	}
	if err := h.uc.Delete(c.Context(), userID); err != nil {
		return mapUsecaseError(err, "Account")
	}
	return response.Success(c, fiber.StatusOK, "Account deleted", nil)
}

func (h *AccountHandler) RegisterDevice(c fiber.Ctx) error {
	userID, err := currentUser(c)
	if err != nil {
		return err
	}

	var req registerDeviceRequest
	if err := bindBody(c, &req); err != nil {
		return err
	}
	if err := h.uc.RegisterDevice(c.Context(), userID, req.Token, req.Platform); err != nil {
		return mapUsecaseError(err, "Device")
	}
	return response.Created(c, "Device registered", nil)
}
