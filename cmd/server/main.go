package main

import (
	"context"
	"errors"
	"log"
	"os/signal"
	"syscall"

	"carenet/internal/app"
	"carenet/internal/config"

	"github.com/gofiber/fiber/v3"
)

func main() {
	if err := run(); err != nil {
		log.Fatalf("carenet: %v", err)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	addr, err := app.ListenAddr(cfg.App.HTTPPort)
	if err != nil {
		return err
	}

	server, cleanup, err := app.Bootstrap(cfg)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		errCh <- server.Fiber.Listen(addr, fiber.ListenConfig{DisableStartupMessage: true})
	}()
	log.Printf("HTTP server listening | addr=%s env=%s", addr, cfg.App.Environment)

	var serveErr error
	select {
	case serveErr = <-errCh:
	case <-ctx.Done():
		log.Printf("Shutting down | timeout=%s", cfg.App.ShutdownTimeout)
		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.App.ShutdownTimeout)
		defer cancel()
		serveErr = server.Fiber.ShutdownWithContext(shutdownCtx)
	}

	// Realtime fan-out and the pools close after the listener.
	return errors.Join(serveErr, cleanup())
}
