package v1

import (
	"carenet/internal/delivery/http/handler"

	"github.com/gofiber/fiber/v3"
)

func RegisterJobs(r fiber.Router, jobHandler *handler.JobHandler) {
	if r == nil {
		return
	}
	if jobHandler == nil {
		return
	}

	jobHandler.RegisterRoutes(r)
}
