package routes

import (
	"skill-match/internal/database"
	"skill-match/internal/delivery/http/handler"
	"skill-match/internal/infrastructure/cache"
	"skill-match/internal/pkg/logging"
	"skill-match/internal/ws"

	"github.com/gofiber/fiber/v3"
)

type Registry struct {
	db     database.DB
	cache  *cache.Redis
	hub    *ws.Hub
	logger *logging.Logger
}

func NewRegistry(db database.DB, redis *cache.Redis, hub *ws.Hub, logger *logging.Logger) *Registry {
	return &Registry{db: db, cache: redis, hub: hub, logger: logger}
}

func (r *Registry) Register(app *fiber.App) {
	if app == nil {
		return
	}

	r.registerHealth(app)
	r.registerWS(app)
	r.registerAPI(app)
}

func (r *Registry) registerHealth(app *fiber.App) {
	handler.NewHealthHandler(r.db, r.cache).RegisterRoutes(app)
}

func (r *Registry) registerWS(app *fiber.App) {
	h := ws.NewHandler(r.hub, r.logger)
	app.Get("/ws/review", h.HandleReviewWS)
}

func (r *Registry) registerAPI(app *fiber.App) {
	api := app.Group("/api")
	RegisterV1(api.Group("/v1"), r.db, r.cache, r.logger)
}
