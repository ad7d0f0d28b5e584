package app

import (
	"context"
	"time"

	"skill-match/internal/config"
	"skill-match/internal/database"
	dbpostgres "skill-match/internal/database/postgres"
	"skill-match/internal/infrastructure/cache"
	"skill-match/internal/pkg/logging"
	"skill-match/internal/ws"
)

type Container struct {
	Config config.Config
	Logger *logging.Logger
	DB     database.DB
	Cache  *cache.Redis
	Hub    *ws.Hub
}

func NewContainer(cfg config.Config, logger *logging.Logger) (*Container, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	db, err := dbpostgres.Connect(ctx, cfg.Database)
	if err != nil {
		return nil, err
	}

	return &Container{
		Config: cfg,
		Logger: logger,
		DB:     db,
		Cache:  cache.NewRedis(logger),
		Hub:    ws.NewHub(logger),
	}, nil
}

func (c *Container) Close() error {
	if c == nil {
		return nil
	}
	if c.Logger != nil {
		_ = c.Logger.Sync()
	}
	if c.DB == nil {
		return nil
	}
	return c.DB.Close()
}
