package handler

import (
	"errors"

	"skill-match/internal/delivery/http/dto"
	"skill-match/internal/delivery/http/middleware"
	"skill-match/internal/domain/dictionary"
	"skill-match/internal/domain/taxonomy"
	"skill-match/internal/pkg/response"
	"skill-match/internal/usecase"

	"github.com/gofiber/fiber/v3"
)

type ReviewHandler struct {
	uc usecase.ReviewUsecase
}

type approveCanonicalRequest struct {
	Category string `json:"category"`
}

type approveVariationRequest struct {
	CanonicalName string `json:"canonical_name"`
}

type rejectRequest struct {
	Reason string `json:"reason"`
}

func NewReviewHandler(uc usecase.ReviewUsecase) *ReviewHandler {
	return &ReviewHandler{uc: uc}
}

func (h *ReviewHandler) RegisterRoutes(r fiber.Router) {
	if r == nil {
		return
	}

	grp := r.Group("/review")
	grp.Get("/", h.ListPending)
	grp.Post("/:name/approve-canonical", h.ApproveAsCanonical)
	grp.Post("/:name/approve-variation", h.ApproveAsVariation)
	grp.Post("/:name/reject", h.Reject)
}

func (h *ReviewHandler) ListPending(c fiber.Ctx) error {
	items, err := h.uc.ListPending(c.Context())
	if err != nil {
		return mapReviewError(err)
	}

	res := make([]dto.ReviewItemResponse, 0, len(items))
	for _, it := range items {
		res = append(res, dto.ReviewItemResponse{
			Name:      it.Name,
			Frequency: it.Frequency,
			FirstSeen: it.FirstSeen,
			LastSeen:  it.LastSeen,
			Sources:   it.Sources,
		})
	}
	return response.Success(c, fiber.StatusOK, response.MessageOK, res)
}

func (h *ReviewHandler) ApproveAsCanonical(c fiber.Ctx) error {
	var req approveCanonicalRequest
	if err := c.Bind().Body(&req); err != nil {
		return middleware.NewAppError(fiber.StatusBadRequest, "Bad request", nil, err)
	}

	decision, err := h.uc.ApproveAsCanonical(c.Context(), c.Params("name"), req.Category)
	if err != nil {
		return mapReviewError(err)
	}
	return response.Success(c, fiber.StatusOK, response.MessageOK, decisionResponse(decision))
}

func (h *ReviewHandler) ApproveAsVariation(c fiber.Ctx) error {
	var req approveVariationRequest
	if err := c.Bind().Body(&req); err != nil {
		return middleware.NewAppError(fiber.StatusBadRequest, "Bad request", nil, err)
	}

	decision, err := h.uc.ApproveAsVariation(c.Context(), c.Params("name"), req.CanonicalName)
	if err != nil {
		return mapReviewError(err)
	}
	return response.Success(c, fiber.StatusOK, response.MessageOK, decisionResponse(decision))
}

func (h *ReviewHandler) Reject(c fiber.Ctx) error {
	var req rejectRequest
	if err := c.Bind().Body(&req); err != nil {
		return middleware.NewAppError(fiber.StatusBadRequest, "Bad request", nil, err)
	}

	decision, err := h.uc.Reject(c.Context(), c.Params("name"), req.Reason)
	if err != nil {
		return mapReviewError(err)
	}
	return response.Success(c, fiber.StatusOK, response.MessageOK, decisionResponse(decision))
}

func decisionResponse(d usecase.ReviewDecision) dto.ReviewDecisionResponse {
	return dto.ReviewDecisionResponse{
		Skill:             d.SkillName,
		Action:            d.Action,
		DictionaryVersion: d.DictionaryVersion,
	}
}

func mapReviewError(err error) error {
	if err == nil {
		return nil
	}

	switch {
	case errors.Is(err, usecase.ErrReviewItemNotFound):
		return middleware.NewAppError(fiber.StatusNotFound, "Review item not found", nil, err)
	case errors.Is(err, taxonomy.ErrUnknownLayer):
		return middleware.NewAppError(fiber.StatusBadRequest, "Unknown category", nil, err)
	case errors.Is(err, dictionary.ErrDuplicateSkill):
		return middleware.NewAppError(fiber.StatusConflict, "Skill already exists", nil, err)
	case errors.Is(err, dictionary.ErrDuplicateVariation):
		return middleware.NewAppError(fiber.StatusConflict, "Variation already mapped", nil, err)
	case errors.Is(err, dictionary.ErrSkillNotFound):
		return middleware.NewAppError(fiber.StatusNotFound, "Canonical skill not found", nil, err)
	case errors.Is(err, usecase.ErrDictionaryConflict):
		return middleware.NewAppError(fiber.StatusConflict, "Dictionary was updated concurrently, retry", nil, err)
	default:
		return middleware.NewAppError(fiber.StatusInternalServerError, response.MessageInternalServerError, nil, err)
	}
}
