package main

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/israelbalbino/backend-fastprint/internal/services"
)

func registerPixRoutes(e *echo.Echo, ps *services.PixService) {
	e.POST("/api/pix/create", func(c echo.Context) error {
		var req struct {
			OrderID     string      `json:"orderId"`
			Amount      json.Number `json:"amount"`
			Description string      `json:"description"`
		}
		if err := c.Bind(&req); err != nil {
			return c.JSON(http.StatusBadRequest, echo.Map{
				"error": "corpo da requisição inválido",
			})
		}

		if req.OrderID == "" || req.Amount == "" {
			return c.JSON(http.StatusBadRequest, echo.Map{
				"error": "orderId e amount obrigatórios",
			})
		}

		charge, err := ps.CreateCharge(
			c.Request().Context(),
			req.OrderID,
			req.Amount.String(),
			req.Description,
		)
		if err != nil {
			if errors.Is(err, services.ErrInvalidAmount) {
				return c.JSON(http.StatusBadRequest, echo.Map{
					"error": "amount inválido",
				})
			}
			slog.Error("pix charge creation failed", "orderId", req.OrderID, "err", err)
			return c.JSON(http.StatusInternalServerError, echo.Map{
				"error": "Falha ao criar Pix",
			})
		}

		return c.JSON(http.StatusOK, charge)
	})
}
