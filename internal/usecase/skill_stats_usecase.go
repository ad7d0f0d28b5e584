package usecase

import (
	"context"
	"time"

	"skill-match/internal/domain/taxonomy"
	"skill-match/internal/pkg/logging"
	"skill-match/internal/repository"
)

type SkillStatsUsecase interface {
	UsageCounts(ctx context.Context, category string, from, to *time.Time) ([]repository.SkillUsage, error)
}

type SkillStats struct {
	stats  repository.SkillStatsRepository
	cache  CorrelationCache
	ttl    time.Duration
	logger *logging.Logger
}

func NewSkillStatsUsecase(
	stats repository.SkillStatsRepository,
	cache CorrelationCache,
	ttl time.Duration,
	logger *logging.Logger,
) *SkillStats {
	return &SkillStats{stats: stats, cache: cache, ttl: ttl, logger: logger}
}

func (u *SkillStats) UsageCounts(ctx context.Context, category string, from, to *time.Time) ([]repository.SkillUsage, error) {
	if category != "" {
		layer, err := taxonomy.ParseLayer(category)
		if err != nil {
			return nil, err
		}
		category = string(layer)
	}
	if from != nil && to != nil && from.After(*to) {
		return nil, ErrInvalidInput
	}

	key := statsCacheKey(category, from, to)
	var cached []repository.SkillUsage
	if ok, err := u.cache.GetJSON(ctx, key, &cached); err != nil {
		u.logger.Warn("stats cache read", "error", err)
	} else if ok {
		return cached, nil
	}

	usage, err := u.stats.UsageCounts(ctx, category, from, to)
	if err != nil {
		u.logger.Error("skill usage counts", "error", err)
		return nil, ErrInternal
	}

	if err := u.cache.SetJSON(ctx, key, usage, u.ttl); err != nil {
		u.logger.Warn("stats cache write", "error", err)
	}
	return usage, nil
}
