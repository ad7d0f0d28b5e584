package handler

import (
	"skill-match/internal/database"
	"skill-match/internal/infrastructure/cache"
	"skill-match/internal/pkg/response"

	"github.com/gofiber/fiber/v3"
)

type HealthHandler struct {
	db    database.DB
	cache *cache.Redis
}

func NewHealthHandler(db database.DB, cache *cache.Redis) *HealthHandler {
	return &HealthHandler{db: db, cache: cache}
}

func (h *HealthHandler) RegisterRoutes(r fiber.Router) {
	if r == nil {
		return
	}
	r.Get("/health", h.Health)
}

// Health reports liveness of the service and its backing stores. A dead
// database makes the service unhealthy; a dead cache only degrades it.
func (h *HealthHandler) Health(c fiber.Ctx) error {
	checks := map[string]string{
		"database": "up",
		"cache":    "up",
	}
	status := fiber.StatusOK

	if h.db == nil || h.db.Ping(c.Context()) != nil {
		checks["database"] = "down"
		status = fiber.StatusServiceUnavailable
	}
	if h.cache == nil || h.cache.Ping(c.Context()) != nil {
		checks["cache"] = "down"
	}

	if status != fiber.StatusOK {
		return response.Error(c, status, "Service unhealthy", checks)
	}
	return response.Success(c, fiber.StatusOK, response.MessageOK, checks)
}
