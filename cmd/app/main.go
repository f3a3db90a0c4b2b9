package main

import (
	"context"
	"log"
	"log/slog"
	"net"
	"os"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"

	"github.com/israelbalbino/backend-fastprint/external/efi"
	"github.com/israelbalbino/backend-fastprint/internal/config"
	"github.com/israelbalbino/backend-fastprint/internal/db"
	"github.com/israelbalbino/backend-fastprint/internal/repository"
	"github.com/israelbalbino/backend-fastprint/internal/services"
)

func main() {
	// ======================
	// CONFIG + LOGGER
	// ======================
	_ = godotenv.Load()

	slog.SetDefault(slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	})))

	cfg, err := config.Load()
	if err != nil {
		log.Fatal(err)
	}

	// ======================
	// INFRA
	// ======================
	ctx := context.Background()

	store, err := db.Connect(ctx, cfg)
	if err != nil {
		log.Fatal(err)
	}
	defer store.Close()

	// ======================
	// EXTERNALS
	// ======================
	gateway, err := efi.NewClient(efi.Config{
		ClientID:      cfg.EfiClientID,
		ClientSecret:  cfg.EfiClientSecret,
		CertPath:      cfg.EfiCertPath,
		Sandbox:       cfg.EfiSandbox,
		SkipMTLSCheck: cfg.EfiSkipMTLSCheck,
	})
	if err != nil {
		log.Fatal(err)
	}

	// ======================
	// REPOSITORIES + SERVICES
	// ======================
	orderRepo := repository.NewOrderRepository(store)
	pixSvc := services.NewPixService(orderRepo, gateway, cfg.EfiPixKey)

	// ======================
	// ECHO
	// ======================
	e := echo.New()
	e.HideBanner = true
	e.Use(echomw.Logger())
	e.Use(echomw.Recover())
	e.Use(echomw.CORS())
	e.Use(echomw.RequestIDWithConfig(echomw.RequestIDConfig{
		Generator: uuid.NewString,
	}))

	// ======================
	// ROUTES (ONLY REGISTRATION)
	// ======================
	var webhookReady atomic.Bool

	registerPixRoutes(e, pixSvc)
	registerWebhookRoutes(e, pixSvc)
	registerHealthRoutes(e, &webhookReady)

	// ======================
	// WEBHOOK SELF-REGISTRATION
	// ======================
	// Efí probes the callback URL during registration, so wait until the
	// local listener accepts before registering. Failure keeps /ready at
	// 503 but never stops the server.
	go func() {
		addr := net.JoinHostPort("127.0.0.1", cfg.Port)
		for i := 0; i < 50; i++ {
			conn, err := net.DialTimeout("tcp", addr, 200*time.Millisecond)
			if err == nil {
				conn.Close()
				break
			}
			time.Sleep(100 * time.Millisecond)
		}

		// Efí appends "/pix" to the registered URL, which is why the
		// delivery route ends in /pix/pix.
		callback := cfg.BaseURL + "/webhook/efi/pix"
		if err := pixSvc.RegisterWebhook(ctx, callback); err != nil {
			slog.Error("webhook registration failed", "url", callback, "err", err)
			return
		}
		webhookReady.Store(true)
		slog.Info("webhook registered", "url", callback)
	}()

	// ======================
	// SERVER
	// ======================
	e.Logger.Fatal(e.Start(":" + cfg.Port))
}
