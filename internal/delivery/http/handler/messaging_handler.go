package handler

import (
	"carenet/internal/delivery/http/dto"
	"carenet/internal/pkg/response"
	"carenet/internal/usecase"

	"github.com/gofiber/fiber/v3"
	"github.com/google/uuid"
)

type MessagingHandler struct {
	uc usecase.MessagingUsecase
}

type startConversationRequest struct {
	OtherUserID uuid.UUID `json:"other_user_id"`
}

type sendMessageRequest struct {
	Content string `json:"content"`
}

func NewMessagingHandler(uc usecase.MessagingUsecase) *MessagingHandler {
	return &MessagingHandler{uc: uc}
}

func (h *MessagingHandler) RegisterRoutes(r fiber.Router) {
	if r == nil {
		return
	}

	r.Get("/conversations", h.ListConversations)
	r.Post("/conversations", h.StartConversation)
	r.Get("/conversations/:id/messages", h.Messages)
	r.Post("/conversations/:id/messages", h.Send)
	r.Post("/conversations/:id/read", h.MarkRead)
	r.Get("/messages/:id", h.GetMessage)
}

func (h *MessagingHandler) ListConversations(c fiber.Ctx) error {
	userID, err := currentUser(c)
	if err != nil {
		return err
	}

	items, err := h.uc.ListConversations(c.Context(), userID)
	if err != nil {
		return mapUsecaseError(err, "Conversation")
	}
	return response.Success(c, fiber.StatusOK, response.MessageOK, dto.NewConversationResponses(items))
}

func (h *MessagingHandler) StartConversation(c fiber.Ctx) error {
	userID, err := currentUser(c)
	if err != nil {
		return err
	}

	var req startConversationRequest
	if err := bindBody(c, &req); err != nil {
		return err
	}

	id, err := h.uc.StartConversation(c.Context(), userID, req.OtherUserID)
	if err != nil {
		return mapUsecaseError(err, "User")
	}
	return response.Success(c, fiber.StatusOK, response.MessageOK, fiber.Map{"conversation_id": id})
}

func (h *MessagingHandler) Messages(c fiber.Ctx) error {
	userID, err := currentUser(c)
	if err != nil {
		return err
	}
	convID, err := uuidParam(c, "id")
	if err != nil {
		return err
	}

	msgs, err := h.uc.Messages(c.Context(), userID, convID)
	if err != nil {
		return mapUsecaseError(err, "Conversation")
	}
	return response.Success(c, fiber.StatusOK, response.MessageOK, dto.NewMessageResponses(msgs))
}

func (h *MessagingHandler) Send(c fiber.Ctx) error {
	userID, err := currentUser(c)
	if err != nil {
		return err
	}
	convID, err := uuidParam(c, "id")
	if err != nil {
		return err
	}

	var req sendMessageRequest
	if err := bindBody(c, &req); err != nil {
		return err
	}

	msg, err := h.uc.Send(c.Context(), userID, convID, req.Content)
	if err != nil {
		return mapUsecaseError(err, "Conversation")
	}
	return response.Created(c, response.MessageCreated, dto.NewMessageResponse(msg))
}

func (h *MessagingHandler) MarkRead(c fiber.Ctx) error {
	userID, err := currentUser(c)
	if err != nil {
		return err
	}
	convID, err := uuidParam(c, "id")
	if err != nil {
		return err
	}

	n, err := h.uc.MarkRead(c.Context(), userID, convID)
	if err != nil {
		return mapUsecaseError(err, "Conversation")
	}
	return response.Success(c, fiber.StatusOK, response.MessageOK, fiber.Map{"marked": n})
}

func (h *MessagingHandler) GetMessage(c fiber.Ctx) error {
	userID, err := currentUser(c)
	if err != nil {
		return err
	}
	msgID, err := uuidParam(c, "id")
	if err != nil {
		return err
	}

	msg, err := h.uc.GetMessage(c.Context(), userID, msgID)
	if err != nil {
		return mapUsecaseError(err, "Message")
	}
	return response.Success(c, fiber.StatusOK, response.MessageOK, dto.NewMessageResponse(msg))
}
