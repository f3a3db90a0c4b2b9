package main

import (
	"log/slog"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/israelbalbino/backend-fastprint/internal/services"
)

func registerWebhookRoutes(e *echo.Echo, ps *services.PixService) {
	// ============================
	// EFI REGISTRATION PROBE
	// (Efí POSTs here to validate the callback URL)
	// ============================
	e.POST("/webhook/efi/pix", func(c echo.Context) error {
		return c.NoContent(http.StatusOK)
	})

	// ============================
	// EFI PIX NOTIFICATIONS
	// (NO auth, must be public; Efí appends /pix to the registered URL)
	// ============================
	e.POST("/webhook/efi/pix/pix", func(c echo.Context) error {
		var payload struct {
			Pix []services.PixNotification `json:"pix"`
		}
		if err := c.Bind(&payload); err != nil {
			// IMPORTANT:
			// Efí retries delivery on any non-2xx response
			return c.JSON(http.StatusInternalServerError, echo.Map{
				"error": "invalid payload",
			})
		}

		slog.Info("webhook received", "events", len(payload.Pix))

		if len(payload.Pix) == 0 {
			return c.NoContent(http.StatusOK)
		}

		if err := ps.ConfirmPayments(c.Request().Context(), payload.Pix); err != nil {
			slog.Error("webhook processing failed", "err", err)
			return c.JSON(http.StatusInternalServerError, echo.Map{
				"error": "failed to process notifications",
			})
		}

		return c.NoContent(http.StatusOK)
	})
}
