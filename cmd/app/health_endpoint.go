package main

import (
	"net/http"
	"sync/atomic"

	"github.com/labstack/echo/v4"
)

func registerHealthRoutes(e *echo.Echo, webhookReady *atomic.Bool) {
	e.GET("/health", func(c echo.Context) error {
		return c.JSON(http.StatusOK, echo.Map{"ok": true})
	})

	// Readiness tracks webhook self-registration with Efí; until it
	// succeeds the provider has nowhere to deliver confirmations.
	e.GET("/ready", func(c echo.Context) error {
		registered := webhookReady.Load()
		status := http.StatusOK
		if !registered {
			status = http.StatusServiceUnavailable
		}
		return c.JSON(status, echo.Map{
			"ok":                registered,
			"webhookRegistered": registered,
		})
	})
}
