package handler

import (
	"errors"
	"time"

	"skill-match/internal/delivery/http/dto"
	"skill-match/internal/delivery/http/middleware"
	"skill-match/internal/domain/taxonomy"
	"skill-match/internal/pkg/response"
	"skill-match/internal/usecase"

	"github.com/gofiber/fiber/v3"
)

type SkillStatsHandler struct {
	uc usecase.SkillStatsUsecase
}

func NewSkillStatsHandler(uc usecase.SkillStatsUsecase) *SkillStatsHandler {
	return &SkillStatsHandler{uc: uc}
}

func (h *SkillStatsHandler) RegisterRoutes(r fiber.Router) {
	if r == nil {
		return
	}
	r.Get("/skills/stats", h.UsageCounts)
}

func (h *SkillStatsHandler) UsageCounts(c fiber.Ctx) error {
	from, err := parseQueryTime(c, "from")
	if err != nil {
		return middleware.NewAppError(fiber.StatusBadRequest, "Invalid from date", nil, err)
	}
	to, err := parseQueryTime(c, "to")
	if err != nil {
		return middleware.NewAppError(fiber.StatusBadRequest, "Invalid to date", nil, err)
	}

	usage, err := h.uc.UsageCounts(c.Context(), c.Query("category"), from, to)
	if err != nil {
		return mapSkillStatsError(err)
	}

	out := make([]dto.SkillUsageResponse, 0, len(usage))
	for _, u := range usage {
		out = append(out, dto.SkillUsageResponse{
			Skill:       u.SkillName,
			Layer:       string(u.Layer),
			SpecCount:   u.SpecCount,
			ResumeCount: u.ResumeCount,
			TotalCount:  u.SpecCount + u.ResumeCount,
		})
	}
	return response.Success(c, fiber.StatusOK, response.MessageOK, out)
}

func mapSkillStatsError(err error) error {
	if err == nil {
		return nil
	}

	switch {
	case errors.Is(err, taxonomy.ErrUnknownLayer):
		return middleware.NewAppError(fiber.StatusBadRequest, "Unknown category", nil, err)
	case errors.Is(err, usecase.ErrInvalidInput):
		return middleware.NewAppError(fiber.StatusBadRequest, "Bad request", nil, err)
	default:
		return middleware.NewAppError(fiber.StatusInternalServerError, response.MessageInternalServerError, nil, err)
	}
}

func parseQueryTime(c fiber.Ctx, key string) (*time.Time, error) {
	s := c.Query(key)
	if s == "" {
		return nil, nil
	}
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return &t, nil
	}
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		return nil, err
	}
	return &t, nil
}
