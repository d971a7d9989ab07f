package handler

import (
	"padhai-karo/internal/domain"

	"github.com/gofiber/fiber/v2"
)

// HealthHandler answers liveness probes.
type HealthHandler struct {
	cache domain.Cache
}

// NewHealthHandler creates a new HealthHandler instance
func NewHealthHandler(cache domain.Cache) *HealthHandler {
	return &HealthHandler{cache: cache}
}

// Check godoc
// @Summary Liveness probe
// @Description Reports process health and cache connectivity
// @Tags health
// @Produce json
// @Success 200 {object} map[string]string
// @Router /healthz [get]
func (h *HealthHandler) Check(c *fiber.Ctx) error {
	cacheStatus := "ok"
	if err := h.cache.Ping(c.Context()); err != nil {
		cacheStatus = "unavailable"
	}
	return c.JSON(fiber.Map{
		"status": "ok",
		"cache":  cacheStatus,
	})
}
