package middleware

import (
	"bytes"
	"errors"
	"io"
	"log"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"carenet/internal/pkg/jwt"

	"github.com/gofiber/fiber/v3"
	"github.com/google/uuid"
)

func newJWT() *jwt.HMACService {
	return jwt.NewHMACService("access-secret", "refresh-secret", time.Minute, time.Hour)
}

func authApp(svc jwt.Service) *fiber.App {
	app := fiber.New()
	app.Use(NewErrorMiddleware(log.New(io.Discard, "", 0)).Middleware())
	app.Get("/me", NewAuthMiddleware(svc).Middleware(), func(c fiber.Ctx) error {
		id, _ := UserID(c)
		return c.SendString(id.String())
	})
	return app
}

func get(t *testing.T, app *fiber.App, path string, headers map[string]string) (int, string) {
	t.Helper()
	req := httptest.NewRequest("GET", path, nil)
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	defer resp.Body.Close()
	b, _ := io.ReadAll(resp.Body)
	return resp.StatusCode, string(b)
}

func TestAuthMiddleware(t *testing.T) {
	svc := newJWT()
	app := authApp(svc)
	id := uuid.New()

	access, err := svc.GenerateAccessToken(id, "doc@example.com")
	if err != nil {
		t.Fatalf("token: %v", err)
	}
	refresh, err := svc.GenerateRefreshToken(id)
	if err != nil {
		t.Fatalf("token: %v", err)
	}

	if status, body := get(t, app, "/me", map[string]string{"Authorization": "Bearer " + access}); status != 200 || body != id.String() {
		t.Fatalf("expected 200 with user id, got %d %q", status, body)
	}
	if status, _ := get(t, app, "/me", nil); status != 401 {
		t.Fatalf("expected 401 without token, got %d", status)
	}
	if status, _ := get(t, app, "/me", map[string]string{"Authorization": "Bearer " + refresh}); status != 401 {
		t.Fatalf("refresh token must not authenticate, got %d", status)
	}
	if status, _ := get(t, app, "/me?token="+access, nil); status != 401 {
		t.Fatalf("query token only allowed on websocket upgrade, got %d", status)
	}
	status, body := get(t, app, "/me?token="+access, map[string]string{"Upgrade": "websocket", "Connection": "Upgrade"})
	if status != 200 || body != id.String() {
		t.Fatalf("expected query token on upgrade, got %d %q", status, body)
	}
}

func TestAuthMiddleware_Optional(t *testing.T) {
	svc := newJWT()
	app := fiber.New()
	app.Get("/opt", NewAuthMiddleware(svc).Optional(), func(c fiber.Ctx) error {
		if _, ok := UserID(c); ok {
			return c.SendString("user")
		}
		return c.SendString("anonymous")
	})

	if _, body := get(t, app, "/opt", nil); body != "anonymous" {
		t.Fatalf("expected anonymous, got %q", body)
	}
	if _, body := get(t, app, "/opt", map[string]string{"Authorization": "Bearer garbage"}); body != "anonymous" {
		t.Fatalf("invalid token should be ignored, got %q", body)
	}
	tok, _ := svc.GenerateAccessToken(uuid.New(), "")
	if _, body := get(t, app, "/opt", map[string]string{"Authorization": "Bearer " + tok}); body != "user" {
		t.Fatalf("expected user, got %q", body)
	}
}

func TestErrorMiddleware_HidesServerErrors(t *testing.T) {
	app := fiber.New()
	app.Use(NewErrorMiddleware(log.New(io.Discard, "", 0)).Middleware())
	app.Get("/boom", func(c fiber.Ctx) error {
		return NewAppError(500, "pq: relation does not exist", nil, errors.New("db"))
	})
	app.Get("/panic", func(c fiber.Ctx) error {
		panic("nil map")
	})
	app.Get("/unavailable", func(c fiber.Ctx) error {
		return NewAppError(503, "redis down", nil, nil)
	})
	app.Get("/field", func(c fiber.Ctx) error {
		return NewAppError(422, "content: is required", fiber.Map{"field": "content"}, nil)
	})

	if status, body := get(t, app, "/boom", nil); status != 500 || body != `{"status":500,"message":"internal server error","data":null}` {
		t.Fatalf("unexpected %d %s", status, body)
	}
	if status, _ := get(t, app, "/panic", nil); status != 500 {
		t.Fatalf("expected recovered panic, got %d", status)
	}
	if status, body := get(t, app, "/unavailable", nil); status != 503 || body != `{"status":503,"message":"service unavailable","data":null}` {
		t.Fatalf("unexpected %d %s", status, body)
	}
	if status, body := get(t, app, "/field", nil); status != 422 || body != `{"status":422,"message":"content: is required","data":{"field":"content"}}` {
		t.Fatalf("unexpected %d %s", status, body)
	}
}

func TestErrorMiddleware_LogsRequestID(t *testing.T) {
	var buf bytes.Buffer
	logger := log.New(&buf, "", 0)

	app := fiber.New()
	app.Use(NewAccessLogMiddleware(logger).Middleware())
	app.Use(NewErrorMiddleware(logger).Middleware())
	app.Get("/db", func(c fiber.Ctx) error {
		return errors.New("conn refused")
	})
	app.Get("/gone", func(c fiber.Ctx) error {
		return fiber.NewError(fiber.StatusNotFound, "conversation not found")
	})

	status, body := get(t, app, "/db", map[string]string{"X-Request-ID": "rid-42"})
	if status != 500 || body != `{"status":500,"message":"internal server error","data":null}` {
		t.Fatalf("unexpected %d %s", status, body)
	}
	if !strings.Contains(buf.String(), "HTTP request failed | rid=rid-42") || !strings.Contains(buf.String(), "conn refused") {
		t.Fatalf("expected failure logged with request id, got %q", buf.String())
	}

	if status, body := get(t, app, "/gone", nil); status != 404 || body != `{"status":404,"message":"conversation not found","data":null}` {
		t.Fatalf("unexpected %d %s", status, body)
	}
}
