package routes

import (
	"carenet/internal/delivery/http/handler"
	"carenet/internal/delivery/http/middleware"
	v1 "carenet/internal/delivery/http/routes/v1"
	"carenet/internal/ws"

	"github.com/gofiber/fiber/v3"
)

type Registry struct {
	auth              *middleware.AuthMiddleware
	health            *handler.HealthHandler
	startConversation *handler.StartConversationHandler
	realtime          *ws.Handler
	v1                v1.Handlers
}

func NewRegistry(auth *middleware.AuthMiddleware, health *handler.HealthHandler, startConversation *handler.StartConversationHandler, realtime *ws.Handler, v1Handlers v1.Handlers) *Registry {
	return &Registry{
		auth:              auth,
		health:            health,
		startConversation: startConversation,
		realtime:          realtime,
		v1:                v1Handlers,
	}
}

func (r *Registry) Register(app *fiber.App) {
	if app == nil {
		return
	}

	r.registerHealth(app)
	r.registerAPI(app)
	r.registerRealtime(app)
}

func (r *Registry) registerHealth(app *fiber.App) {
	if r.health != nil {
		r.health.RegisterRoutes(app)
	}
}

func (r *Registry) registerAPI(app *fiber.App) {
	api := app.Group("/api")
	authMw := r.auth.Middleware()

	if r.startConversation != nil {
		api.Post("/start-conversation", r.auth.Optional(), r.startConversation.Handle)
	}
	RegisterV1(api.Group("/v1"), authMw, r.v1)
}

func (r *Registry) registerRealtime(app *fiber.App) {
	if r.realtime == nil {
		return
	}
	app.Get("/ws/conversations/:id", r.auth.Middleware(), r.realtime.HandleConversationWS)
}
