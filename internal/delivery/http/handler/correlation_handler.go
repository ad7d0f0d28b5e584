package handler

import (
	"errors"

	"skill-match/internal/delivery/http/dto"
	"skill-match/internal/delivery/http/middleware"
	"skill-match/internal/domain/correlation"
	"skill-match/internal/pkg/response"
	"skill-match/internal/usecase"

	"github.com/gofiber/fiber/v3"
	"github.com/google/uuid"
)

type CorrelationHandler struct {
	uc usecase.CorrelationUsecase
}

func NewCorrelationHandler(uc usecase.CorrelationUsecase) *CorrelationHandler {
	return &CorrelationHandler{uc: uc}
}

// RegisterRoutes nests under /jd-specs: every read starts from a stored spec.
func (h *CorrelationHandler) RegisterRoutes(r fiber.Router) {
	if r == nil {
		return
	}

	grp := r.Group("/jd-specs")
	grp.Get("/:id/correlate/:other_id", h.CorrelateSpecs)
	grp.Get("/:id/similar", h.SimilarSpecs)
	grp.Get("/:id/match/resumes", h.MatchAllResumes)
	grp.Get("/:id/match/resumes/:resume_id", h.MatchResume)
}

func (h *CorrelationHandler) CorrelateSpecs(c fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return middleware.NewAppError(fiber.StatusBadRequest, "Invalid spec id", nil, err)
	}
	otherID, err := uuid.Parse(c.Params("other_id"))
	if err != nil {
		return middleware.NewAppError(fiber.StatusBadRequest, "Invalid spec id", nil, err)
	}

	res, err := h.uc.CorrelateSpecs(c.Context(), id, otherID)
	if err != nil {
		return mapCorrelationError(err)
	}
	return response.Success(c, fiber.StatusOK, response.MessageOK, correlationResponse(res))
}

func (h *CorrelationHandler) SimilarSpecs(c fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return middleware.NewAppError(fiber.StatusBadRequest, "Invalid spec id", nil, err)
	}
	limit, err := parseQueryIntStrict(c, "limit", 0)
	if err != nil {
		return middleware.NewAppError(fiber.StatusBadRequest, "Invalid limit", nil, err)
	}

	similar, err := h.uc.SimilarSpecs(c.Context(), id, limit)
	if err != nil {
		return mapCorrelationError(err)
	}

	out := make([]dto.SpecSimilarityResponse, 0, len(similar))
	for _, s := range similar {
		out = append(out, dto.SpecSimilarityResponse{SpecID: s.SpecID, Role: s.Role, Score: s.Score})
	}
	return response.Success(c, fiber.StatusOK, response.MessageOK, out)
}

func (h *CorrelationHandler) MatchResume(c fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return middleware.NewAppError(fiber.StatusBadRequest, "Invalid spec id", nil, err)
	}
	resumeID, err := uuid.Parse(c.Params("resume_id"))
	if err != nil {
		return middleware.NewAppError(fiber.StatusBadRequest, "Invalid resume id", nil, err)
	}

	match, err := h.uc.MatchResume(c.Context(), id, resumeID)
	if err != nil {
		return mapCorrelationError(err)
	}
	return response.Success(c, fiber.StatusOK, response.MessageOK, resumeMatchResponse(match))
}

func (h *CorrelationHandler) MatchAllResumes(c fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return middleware.NewAppError(fiber.StatusBadRequest, "Invalid spec id", nil, err)
	}
	limit, err := parseQueryIntStrict(c, "limit", 0)
	if err != nil {
		return middleware.NewAppError(fiber.StatusBadRequest, "Invalid limit", nil, err)
	}
	offset, err := parseQueryIntStrict(c, "offset", 0)
	if err != nil {
		return middleware.NewAppError(fiber.StatusBadRequest, "Invalid offset", nil, err)
	}
	minScore, err := parseQueryFloatStrict(c, "min_score", 0)
	if err != nil {
		return middleware.NewAppError(fiber.StatusBadRequest, "Invalid min_score", nil, err)
	}

	page, err := h.uc.MatchAllResumes(c.Context(), id, usecase.MatchParams{
		Limit:    limit,
		Offset:   offset,
		MinScore: minScore,
	})
	if err != nil {
		return mapCorrelationError(err)
	}

	matches := make([]dto.ResumeMatchResponse, 0, len(page.Matches))
	for _, m := range page.Matches {
		matches = append(matches, resumeMatchResponse(m))
	}
	return response.Success(c, fiber.StatusOK, response.MessageOK, dto.ResumeMatchPageResponse{
		Matches: matches,
		Total:   page.Total,
	})
}

func correlationResponse(res correlation.Result) dto.CorrelationResponse {
	layers := make([]dto.LayerScoreResponse, 0, len(res.LayerBreakdown))
	for _, lr := range res.LayerBreakdown {
		layers = append(layers, dto.LayerScoreResponse{
			Layer:          string(lr.Layer),
			Score:          lr.Score,
			Weight:         lr.Weight,
			MatchingSkills: lr.MatchingSkills,
			MissingSkills:  lr.MissingSkills,
		})
	}
	return dto.CorrelationResponse{
		OverallScore:      res.OverallScore,
		LayerBreakdown:    layers,
		DictionaryVersion: res.DictionaryVersion,
	}
}

func resumeMatchResponse(m usecase.ResumeMatch) dto.ResumeMatchResponse {
	return dto.ResumeMatchResponse{
		ResumeID:      m.ResumeID,
		CandidateName: m.CandidateName,
		Correlation:   correlationResponse(m.Result),
	}
}

func mapCorrelationError(err error) error {
	if err == nil {
		return nil
	}

	switch {
	case errors.Is(err, usecase.ErrSpecNotFound):
		return middleware.NewAppError(fiber.StatusNotFound, "JD spec not found", nil, err)
	case errors.Is(err, usecase.ErrResumeNotFound):
		return middleware.NewAppError(fiber.StatusNotFound, "Resume not found", nil, err)
	case errors.Is(err, usecase.ErrInvalidInput):
		return middleware.NewAppError(fiber.StatusBadRequest, "Bad request", nil, err)
	default:
		return middleware.NewAppError(fiber.StatusInternalServerError, response.MessageInternalServerError, nil, err)
	}
}
