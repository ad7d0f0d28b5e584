package routes

import (
	"skill-match/internal/database"
	v1 "skill-match/internal/delivery/http/routes/v1"
	"skill-match/internal/infrastructure/cache"
	"skill-match/internal/pkg/logging"

	"github.com/gofiber/fiber/v3"
)

func RegisterV1(r fiber.Router, db database.DB, redis *cache.Redis, logger *logging.Logger) {
	if r == nil {
		return
	}

	v1.Register(r, db, redis, logger)
}
