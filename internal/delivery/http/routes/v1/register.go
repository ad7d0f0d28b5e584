package v1

import (
	"skill-match/internal/database"
	"skill-match/internal/delivery/http/handler"
	"skill-match/internal/infrastructure/cache"
	"skill-match/internal/pkg/logging"
	"skill-match/internal/repository"
	"skill-match/internal/usecase"

	"github.com/gofiber/fiber/v3"
)

func Register(r fiber.Router, db database.DB, redis *cache.Redis, logger *logging.Logger) {
	if r == nil {
		return
	}

	dictRepo := repository.NewPostgresDictionaryRepository(db)
	unknownRepo := repository.NewPostgresUnknownSkillRepository(db)
	auditRepo := repository.NewPostgresReviewAuditRepository(db)
	specRepo := repository.NewPostgresJDSpecRepository(db)
	resumeRepo := repository.NewPostgresResumeRepository(db)
	statsRepo := repository.NewPostgresSkillStatsRepository(db)

	ttl := cache.DefaultTTLFromEnv()

	dictUC := usecase.NewDictionaryUsecase(dictRepo, logger)
	reviewUC := usecase.NewReviewUsecase(unknownRepo, auditRepo, dictUC, logger)
	specUC := usecase.NewJDSpecUsecase(specRepo, dictUC, reviewUC, redis, logger)
	correlationUC := usecase.NewCorrelationUsecase(specRepo, resumeRepo, redis, ttl, logger)
	statsUC := usecase.NewSkillStatsUsecase(statsRepo, redis, ttl, logger)

	handler.NewDictionaryHandler(dictUC).RegisterRoutes(r)
	handler.NewReviewHandler(reviewUC).RegisterRoutes(r)
	handler.NewJDSpecHandler(specUC).RegisterRoutes(r)
	handler.NewCorrelationHandler(correlationUC).RegisterRoutes(r)
	handler.NewSkillStatsHandler(statsUC).RegisterRoutes(r)
}
