package app

import (
	"context"
	"fmt"
	"strings"
	"time"

	"skill-match/internal/config"
	"skill-match/internal/database/migration"
	"skill-match/internal/database/seeder"
	"skill-match/internal/delivery/http/middleware"
	"skill-match/internal/delivery/http/routes"
	"skill-match/internal/pkg/logging"
	"skill-match/internal/ws"

	"github.com/gofiber/fiber/v3"
)

type App struct {
	Fiber     *fiber.App
	Container *Container
}

// Bootstrap builds the full service: config is already loaded, so it wires
// logger, database, cache and the review hub, applies migrations (and seeders
// when enabled), then registers middleware and routes. The returned cleanup
// func releases every resource the container owns.
func Bootstrap(cfg config.Config) (*App, func() error, error) {
	logger := logging.New(cfg.App.LogLevel, cfg.App.Environment)

	c, err := NewContainer(cfg, logger)
	if err != nil {
		return nil, nil, err
	}

	if err := runMigrations(c); err != nil {
		_ = c.Close()
		return nil, nil, err
	}
	if err := runSeeders(c); err != nil {
		_ = c.Close()
		return nil, nil, err
	}

	ws.SetDefaultHub(c.Hub)
	go c.Hub.Run()

	f := fiber.New(fiber.Config{AppName: cfg.App.AppName})
	registerGlobalMiddleware(f, logger)
	routes.NewRegistry(c.DB, c.Cache, c.Hub, logger).Register(f)

	return &App{Fiber: f, Container: c}, c.Close, nil
}

func runMigrations(c *Container) error {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	runner := migration.Runner{Dir: c.Config.App.MigrationsDir, Logger: c.Logger}
	if err := runner.Run(ctx, c.DB.SQLDB()); err != nil {
		return fmt.Errorf("run migrations: %w", err)
	}
	c.Logger.Info("migrations applied")
	return nil
}

func runSeeders(c *Container) error {
	if !c.Config.App.RunSeeders {
		return nil
	}

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	r := seeder.Runner{Seeders: seeder.Defaults(), Logger: c.Logger}
	if err := r.Run(ctx, c.DB); err != nil {
		return fmt.Errorf("run seeders: %w", err)
	}
	c.Logger.Info("seeders applied")
	return nil
}

func registerGlobalMiddleware(app *fiber.App, logger *logging.Logger) {
	if app == nil {
		return
	}

	app.Use(middleware.NewAccessLogMiddleware(logger).Middleware())
	app.Use(middleware.NewErrorMiddleware(logger).Middleware())
}

func ListenAddr(port string) (string, error) {
	p := strings.TrimSpace(port)
	if p == "" {
		return "", fmt.Errorf("empty HTTP port")
	}
	if strings.HasPrefix(p, ":") {
		return p, nil
	}
	return ":" + p, nil
}
