package handler

import (
	"errors"
	"log"

	"carenet/internal/delivery/http/dto"
	"carenet/internal/delivery/http/middleware"
	"carenet/internal/domain"
	"carenet/internal/usecase"

	"github.com/gofiber/fiber/v3"
	"github.com/google/uuid"
)

// StartConversationHandler serves POST /api/start-conversation. Unlike the v1 API it answers
// with a bare JSON object: {conversationId} on success, {error} otherwise.
type StartConversationHandler struct {
	uc     usecase.MessagingUsecase
	logger *log.Logger
}

type startConversationPayload struct {
	CurrentUserID string `json:"currentUserId"`
	OtherUserID   string `json:"otherUserId"`
}

func NewStartConversationHandler(uc usecase.MessagingUsecase, logger *log.Logger) *StartConversationHandler {
	return &StartConversationHandler{uc: uc, logger: logger}
}

func (h *StartConversationHandler) Handle(c fiber.Ctx) error {
	tokenUser, ok := middleware.UserID(c)
	if !ok {
		return rawError(c, fiber.StatusUnauthorized, "Unauthorized")
	}

	var req startConversationPayload
	if err := c.Bind().Body(&req); err != nil {
		return rawError(c, fiber.StatusBadRequest, "Invalid request body")
	}
	if req.CurrentUserID == "" || req.OtherUserID == "" {
		return rawError(c, fiber.StatusBadRequest, "Missing user IDs")
	}
	current, err1 := uuid.Parse(req.CurrentUserID)
	other, err2 := uuid.Parse(req.OtherUserID)
	if err1 != nil || err2 != nil {
		return rawError(c, fiber.StatusBadRequest, "Invalid user IDs")
	}
	if current != tokenUser {
		return rawError(c, fiber.StatusForbidden, "Forbidden")
	}

	id, err := h.uc.StartConversation(c.Context(), current, other)
	if err != nil {
		var ve *domain.ValidationError
		switch {
		case errors.As(err, &ve):
			return rawError(c, fiber.StatusBadRequest, ve.Message)
		case errors.Is(err, usecase.ErrInvalidInput):
			return rawError(c, fiber.StatusBadRequest, "Invalid user IDs")
		case errors.Is(err, usecase.ErrNotFound):
			return rawError(c, fiber.StatusBadRequest, "User not found")
		default:
			if h.logger != nil {
				h.logger.Printf("Start conversation failed | current_user_id=%s other_user_id=%s error=%v", current, other, err)
			}
			return rawError(c, fiber.StatusInternalServerError, "Internal server error")
		}
	}

	return c.Status(fiber.StatusOK).JSON(dto.StartConversationResponse{ConversationID: id})
}

func rawError(c fiber.Ctx, status int, msg string) error {
	return c.Status(status).JSON(fiber.Map{"error": msg})
}
