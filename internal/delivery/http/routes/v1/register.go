package v1

import (
	"carenet/internal/delivery/http/handler"

	"github.com/gofiber/fiber/v3"
)

type Handlers struct {
	Auth      *handler.AuthHandler
	Profile   *handler.ProfileHandler
	Account   *handler.AccountHandler
	Messaging *handler.MessagingHandler
	CareTeam  *handler.CareTeamHandler
	Post      *handler.PostHandler
	Job       *handler.JobHandler
}

// Register mounts the /api/v1 routes. Everything except /auth requires authMw.
func Register(r fiber.Router, authMw fiber.Handler, h Handlers) {
	if r == nil {
		return
	}

	if h.Auth != nil {
		h.Auth.RegisterRoutes(r.Group("/auth"))
	}

	protected := r.Group("", authMw)

	if h.Profile != nil {
		h.Profile.RegisterRoutes(protected.Group("/profiles"))
	}
	if h.Account != nil {
		h.Account.RegisterRoutes(protected)
	}
	RegisterMessaging(protected, h.Messaging)
	RegisterNetwork(protected, h.CareTeam, h.Post)
	RegisterJobs(protected, h.Job)
}
