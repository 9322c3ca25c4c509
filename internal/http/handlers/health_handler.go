package handlers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/jmoiron/sqlx"

	applog "storefront/internal/log"
)

type HealthHandler struct {
	DB *sqlx.DB
}

func (h *HealthHandler) Check(c *fiber.Ctx) error {
	if err := h.DB.PingContext(c.UserContext()); err != nil {
		applog.Error(c, "health.db", err, nil)
		return problem(c, fiber.StatusServiceUnavailable, "Store unavailable", "")
	}
	return c.JSON(fiber.Map{"ok": true})
}
