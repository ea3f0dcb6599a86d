package v1

import (
	"carenet/internal/delivery/http/handler"

	"github.com/gofiber/fiber/v3"
)

func RegisterMessaging(r fiber.Router, messagingHandler *handler.MessagingHandler) {
	if r == nil || messagingHandler == nil {
		return
	}

	messagingHandler.RegisterRoutes(r)
}

func RegisterNetwork(r fiber.Router, careTeamHandler *handler.CareTeamHandler, postHandler *handler.PostHandler) {
	if r == nil {
		return
	}
	if careTeamHandler != nil {
		careTeamHandler.RegisterRoutes(r.Group("/care-team"))
	}
	if postHandler != nil {
		postHandler.RegisterRoutes(r.Group("/posts"))
	}
}
