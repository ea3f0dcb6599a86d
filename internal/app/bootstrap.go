package app

import (
	"fmt"
	"log"
	"strings"

	"carenet/internal/config"
	"carenet/internal/delivery/http/handler"
	"carenet/internal/delivery/http/middleware"
	"carenet/internal/delivery/http/routes"
	v1 "carenet/internal/delivery/http/routes/v1"
	"carenet/internal/ws"

	"github.com/gofiber/fiber/v3"
	"github.com/gofiber/fiber/v3/middleware/cors"
)

type App struct {
	Fiber     *fiber.App
	Container *Container
}

func New(cfg config.Config, c *Container) *App {
	f := fiber.New(fiber.Config{
		AppName: cfg.App.AppName,
	})

	registerGlobalMiddleware(f, cfg, c.Logger)
	registerRoutes(f, c)

	return &App{Fiber: f, Container: c}
}

func Bootstrap(cfg config.Config) (*App, func() error, error) {
	logger := log.Default()

	c, err := NewContainer(cfg, logger)
	if err != nil {
		return nil, nil, err
	}
	c.Start()

	logger.Printf("App bootstrapped | env=%s cache=%t", cfg.App.Environment, c.Cache.Available())
	return New(cfg, c), c.Close, nil
}

func registerGlobalMiddleware(app *fiber.App, cfg config.Config, logger *log.Logger) {
	if app == nil {
		return
	}

	accessLog := middleware.NewAccessLogMiddleware(logger, "/health")
	app.Use(accessLog.Middleware())

	errMw := middleware.NewErrorMiddleware(logger)
	app.Use(errMw.Middleware())

	app.Use(cors.New(cors.Config{
		AllowOrigins: allowedOrigins(cfg.App.AllowedOrigins),
		AllowHeaders: []string{"Origin", "Content-Type", "Accept", "Authorization"},
	}))
}

func registerRoutes(app *fiber.App, c *Container) {
	if app == nil || c == nil {
		return
	}

	authMw := middleware.NewAuthMiddleware(c.JWT)
	registry := routes.NewRegistry(
		authMw,
		handler.NewHealthHandler(c.DB, c.Cache),
		handler.NewStartConversationHandler(c.Messaging, c.Logger),
		ws.NewHandler(c.Hub, c.Messaging, c.Config.Realtime, c.Logger),
		v1.Handlers{
			Auth:      handler.NewAuthHandler(c.Auth),
			Profile:   handler.NewProfileHandler(c.Profiles),
			Account:   handler.NewAccountHandler(c.Account),
			Messaging: handler.NewMessagingHandler(c.Messaging),
			CareTeam:  handler.NewCareTeamHandler(c.CareTeam),
			Post:      handler.NewPostHandler(c.Posts),
			Job:       handler.NewJobHandler(c.Jobs),
		},
	)
	registry.Register(app)
}

func allowedOrigins(raw string) []string {
	var out []string
	for _, o := range strings.Split(raw, ",") {
		if o = strings.TrimSpace(o); o != "" {
			out = append(out, o)
		}
	}
	if len(out) == 0 {
		return []string{"*"}
	}
	return out
}

func ListenAddr(port string) (string, error) {
	p := strings.TrimSpace(port)
	if p == "" {
		return "", fmt.Errorf("empty HTTP port")
	}
	if strings.HasPrefix(p, ":") {
		return p, nil
	}
	return ":" + p, nil
}
