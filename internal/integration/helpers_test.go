package integration

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log"
	"net"
	"net/http"
	"os"
	"testing"
	"time"

	"carenet/internal/app"
	"carenet/internal/config"

	"github.com/gofiber/fiber/v3"
	"github.com/google/uuid"
)

type semanticResponse struct {
	Status  int             `json:"status"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

type testServer struct {
	baseURL string
	http    *http.Client
}

type account struct {
	id    uuid.UUID
	email string
	token string
}

func testConfig(t *testing.T) config.Config {
	t.Helper()
	host := stringsOrDefault(os.Getenv("CARENET_TEST_DB_HOST"), os.Getenv("DB_HOST"))
	port := stringsOrDefault(os.Getenv("CARENET_TEST_DB_PORT"), os.Getenv("DB_PORT"))
	name := stringsOrDefault(os.Getenv("CARENET_TEST_DB_NAME"), os.Getenv("DB_NAME"))
	user := stringsOrDefault(os.Getenv("CARENET_TEST_DB_USER"), os.Getenv("DB_USER"))
	pass := stringsOrDefault(os.Getenv("CARENET_TEST_DB_PASSWORD"), os.Getenv("DB_PASSWORD"))
	ssl := stringsOrDefault(os.Getenv("CARENET_TEST_DB_SSL_MODE"), os.Getenv("DB_SSL_MODE"))
	if host == "" || port == "" || name == "" || user == "" {
		t.Skip("missing test DB env vars: set CARENET_TEST_DB_HOST/PORT/NAME/USER/PASSWORD (or DB_HOST/DB_PORT/DB_NAME/DB_USER/DB_PASSWORD)")
	}
	if ssl == "" {
		ssl = "disable"
	}

	return config.Config{
		App: config.AppConfig{AppName: "carenet-it", Environment: "test", HTTPPort: "0", AllowedOrigins: "*"},
		Database: config.DatabaseConfig{
			DBHost:         host,
			DBPort:         port,
			DBName:         name,
			DBUser:         user,
			DBPassword:     pass,
			DBSSLMode:      ssl,
			ConnectTimeout: 5 * time.Second,
			PoolMaxConns:   4,
		},
		JWT: config.JWTConfig{
			AccessSecret:     "it-access-secret",
			RefreshSecret:    "it-refresh-secret",
			AccessExpiresIn:  15 * time.Minute,
			RefreshExpiresIn: time.Hour,
		},
		// nothing listens on port 1, so the cache degrades to local fan-out
		Redis:    config.RedisConfig{Host: "127.0.0.1", Port: "1"},
		Realtime: config.RealtimeConfig{Channel: "realtime:messages:it"},
	}
}

// startServer boots the full container and serves it on a random local port.
func startServer(t *testing.T) *testServer {
	t.Helper()
	cfg := testConfig(t)

	c, err := app.NewContainer(cfg, log.New(io.Discard, "", 0))
	if err != nil {
		t.Fatalf("container: %v", err)
	}
	c.Start()
	a := app.New(cfg, c)

	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("listen: %v", err)
	}
	errCh := make(chan error, 1)
	go func() {
		errCh <- a.Fiber.Listener(ln, fiber.ListenConfig{DisableStartupMessage: true})
	}()

	t.Cleanup(func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = a.Fiber.ShutdownWithContext(ctx)
		<-errCh
		_ = c.Close()
	})

	return &testServer{baseURL: "http://" + ln.Addr().String(), http: &http.Client{Timeout: 10 * time.Second}}
}

func (s *testServer) call(t *testing.T, method, path, token string, body any) (int, semanticResponse) {
	t.Helper()
	var r io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("marshal: %v", err)
		}
		r = bytes.NewReader(b)
	}
	req, err := http.NewRequest(method, s.baseURL+path, r)
	if err != nil {
		t.Fatalf("request: %v", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := s.http.Do(req)
	if err != nil {
		t.Fatalf("%s %s: %v", method, path, err)
	}
	defer resp.Body.Close()

	var sr semanticResponse
	raw, _ := io.ReadAll(resp.Body)
	_ = json.Unmarshal(raw, &sr)
	if sr.Data == nil {
		sr.Data = raw
	}
	return resp.StatusCode, sr
}

func (s *testServer) register(t *testing.T, fullName, userType string) account {
	t.Helper()
	email := "it-" + uuid.NewString() + "@example.com"
	status, sr := s.call(t, http.MethodPost, "/api/v1/auth/register", "", map[string]string{
		"email":     email,
		"password":  "password123",
		"full_name": fullName,
		"user_type": userType,
	})
	if status != http.StatusCreated {
		t.Fatalf("register %s: expected 201, got %d (%s)", fullName, status, sr.Message)
	}

	var data struct {
		User struct {
			ID uuid.UUID `json:"id"`
		} `json:"user"`
		AccessToken string `json:"access_token"`
	}
	decode(t, sr.Data, &data)
	acc := account{id: data.User.ID, email: email, token: data.AccessToken}

	t.Cleanup(func() {
		_, _ = s.call(t, http.MethodDelete, "/api/v1/account", acc.token, nil)
	})
	return acc
}

func decode(t *testing.T, raw json.RawMessage, out any) {
	t.Helper()
	if err := json.Unmarshal(raw, out); err != nil {
		t.Fatalf("decode %s: %v", string(raw), err)
	}
}

func stringsOrDefault(v, def string) string {
	if v != "" {
		return v
	}
	return def
}
