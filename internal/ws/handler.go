package ws

import (
	"context"
	"errors"
	"log"
	"net/http"
	"strings"
	"time"

	"carenet/internal/config"
	"carenet/internal/delivery/http/middleware"
	"carenet/internal/usecase"

	"github.com/gofiber/fiber/v3"
	"github.com/gofiber/fiber/v3/middleware/adaptor"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
)

type ParticipantChecker interface {
	CheckParticipant(ctx context.Context, userID, conversationID uuid.UUID) error
}

type Handler struct {
	hub          *Hub
	participants ParticipantChecker
	writeTimeout time.Duration
	pingInterval time.Duration
	logger       *log.Logger
}

func NewHandler(hub *Hub, participants ParticipantChecker, cfg config.RealtimeConfig, logger *log.Logger) *Handler {
	return &Handler{
		hub:          hub,
		participants: participants,
		writeTimeout: cfg.WriteTimeout,
		pingInterval: cfg.PingInterval,
		logger:       logger,
	}
}

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

// HandleConversationWS streams message_inserted events of one conversation to a participant.
func (h *Handler) HandleConversationWS(c fiber.Ctx) error {
	if h == nil || h.hub == nil {
		return fiber.ErrServiceUnavailable
	}

	userID, ok := middleware.UserID(c)
	if !ok {
		return middleware.NewAppError(fiber.StatusUnauthorized, "Unauthorized", nil, nil)
	}
	conversationID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return middleware.NewAppError(fiber.StatusBadRequest, "Invalid conversation id", nil, err)
	}

	if err := h.participants.CheckParticipant(c.Context(), userID, conversationID); err != nil {
		switch {
		case errors.Is(err, usecase.ErrNotFound):
			return middleware.NewAppError(fiber.StatusNotFound, "Conversation not found", nil, err)
		case errors.Is(err, usecase.ErrForbidden):
			return middleware.NewAppError(fiber.StatusForbidden, "Not a participant of this conversation", nil, err)
		default:
			return middleware.NewAppError(fiber.StatusInternalServerError, "Internal server error", nil, err)
		}
	}

	if !strings.EqualFold(c.Get("Upgrade"), "websocket") {
		return fiber.ErrUpgradeRequired
	}

	fiberHandler := adaptor.HTTPHandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			if h.logger != nil {
				h.logger.Printf("WS upgrade error | conversation_id=%s error=%v", conversationID, err)
			}
			return
		}

		client := NewClient(h.hub, conn, conversationID, userID, h.writeTimeout, h.pingInterval)
		h.hub.Register(client)
		go client.WritePump()
		go client.ReadPump()
	})

	return fiberHandler(c)
}
