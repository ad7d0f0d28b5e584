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

type DictionaryHandler struct {
	uc usecase.DictionaryUsecase
}

type addSkillRequest struct {
	Name     string `json:"name"`
	Category string `json:"category"`
}

type addVariationRequest struct {
	Variation string `json:"variation"`
}

type importDictionaryRequest struct {
	Mode       string              `json:"mode"`
	AllowOlder bool                `json:"allow_older"`
	Document   dictionary.Document `json:"document"`
}

func NewDictionaryHandler(uc usecase.DictionaryUsecase) *DictionaryHandler {
	return &DictionaryHandler{uc: uc}
}

func (h *DictionaryHandler) RegisterRoutes(r fiber.Router) {
	if r == nil {
		return
	}

	grp := r.Group("/dictionary")
	grp.Get("/", h.Current)
	grp.Get("/export", h.Export)
	grp.Post("/import", h.Import)
	grp.Get("/versions/:version", h.GetVersion)
	grp.Post("/skills", h.AddSkill)
	grp.Delete("/skills/:name", h.RemoveSkill)
	grp.Post("/skills/:name/variations", h.AddVariation)
}

func (h *DictionaryHandler) Current(c fiber.Ctx) error {
	snap, err := h.uc.Current(c.Context())
	if err != nil {
		return mapDictionaryError(err)
	}
	return response.Success(c, fiber.StatusOK, response.MessageOK, dictionaryResponse(snap))
}

func (h *DictionaryHandler) GetVersion(c fiber.Ctx) error {
	snap, err := h.uc.GetVersion(c.Context(), c.Params("version"))
	if err != nil {
		return mapDictionaryError(err)
	}
	return response.Success(c, fiber.StatusOK, response.MessageOK, dictionaryResponse(snap))
}

func (h *DictionaryHandler) AddSkill(c fiber.Ctx) error {
	var req addSkillRequest
	if err := c.Bind().Body(&req); err != nil {
		return middleware.NewAppError(fiber.StatusBadRequest, "Bad request", nil, err)
	}

	snap, err := h.uc.AddSkill(c.Context(), req.Name, req.Category)
	if err != nil {
		return mapDictionaryError(err)
	}
	return response.Success(c, fiber.StatusCreated, response.MessageCreated, dictionaryResponse(snap))
}

func (h *DictionaryHandler) RemoveSkill(c fiber.Ctx) error {
	snap, err := h.uc.RemoveSkill(c.Context(), c.Params("name"))
	if err != nil {
		return mapDictionaryError(err)
	}
	return response.Success(c, fiber.StatusOK, response.MessageOK, dictionaryResponse(snap))
}

func (h *DictionaryHandler) AddVariation(c fiber.Ctx) error {
	var req addVariationRequest
	if err := c.Bind().Body(&req); err != nil {
		return middleware.NewAppError(fiber.StatusBadRequest, "Bad request", nil, err)
	}

	snap, err := h.uc.AddVariation(c.Context(), req.Variation, c.Params("name"))
	if err != nil {
		return mapDictionaryError(err)
	}
	return response.Success(c, fiber.StatusCreated, response.MessageCreated, dictionaryResponse(snap))
}

func (h *DictionaryHandler) Export(c fiber.Ctx) error {
	doc, err := h.uc.Export(c.Context())
	if err != nil {
		return mapDictionaryError(err)
	}
	return response.Success(c, fiber.StatusOK, response.MessageOK, doc)
}

func (h *DictionaryHandler) Import(c fiber.Ctx) error {
	var req importDictionaryRequest
	if err := c.Bind().Body(&req); err != nil {
		return middleware.NewAppError(fiber.StatusBadRequest, "Bad request", nil, err)
	}

	mode := dictionary.ImportMode(req.Mode)
	if req.Mode == "" {
		mode = dictionary.ImportReplace
	}

	outcome, err := h.uc.Import(c.Context(), req.Document, mode, req.AllowOlder)
	if err != nil {
		return mapDictionaryError(err)
	}

	res := dto.ImportOutcomeResponse{
		Mode:            string(outcome.Mode),
		Version:         outcome.Version,
		SkillCount:      outcome.SkillCount,
		SkillsAdded:     outcome.SkillsAdded,
		VariationsAdded: outcome.VariationsAdded,
		Skipped:         outcome.Skipped,
	}
	return response.Success(c, fiber.StatusOK, response.MessageOK, res)
}

func dictionaryResponse(snap *dictionary.Snapshot) dto.DictionaryResponse {
	skills := snap.Skills()
	out := make([]dto.DictionarySkillResponse, 0, len(skills))
	for _, s := range skills {
		out = append(out, dto.DictionarySkillResponse{
			Name:       s.Name,
			Category:   string(s.Category),
			Variations: s.Variations,
		})
	}
	return dto.DictionaryResponse{
		Version:    snap.Version(),
		SkillCount: len(skills),
		Skills:     out,
	}
}

func mapDictionaryError(err error) error {
	if err == nil {
		return nil
	}

	switch {
	case errors.Is(err, taxonomy.ErrUnknownLayer):
		return middleware.NewAppError(fiber.StatusBadRequest, "Unknown category", nil, err)
	case errors.Is(err, taxonomy.ErrBlankSkill):
		return middleware.NewAppError(fiber.StatusBadRequest, "Blank skill name", nil, err)
	case errors.Is(err, dictionary.ErrDuplicateSkill):
		return middleware.NewAppError(fiber.StatusConflict, "Skill already exists", nil, err)
	case errors.Is(err, dictionary.ErrDuplicateVariation):
		return middleware.NewAppError(fiber.StatusConflict, "Variation already mapped", nil, err)
	case errors.Is(err, dictionary.ErrSkillNotFound):
		return middleware.NewAppError(fiber.StatusNotFound, "Skill not found", nil, err)
	case errors.Is(err, dictionary.ErrVersionConflict):
		return middleware.NewAppError(fiber.StatusConflict, "Imported version is older than the current dictionary", nil, err)
	case errors.Is(err, usecase.ErrVersionNotFound):
		return middleware.NewAppError(fiber.StatusNotFound, "Dictionary version not found", nil, err)
	case errors.Is(err, usecase.ErrDictionaryConflict):
		return middleware.NewAppError(fiber.StatusConflict, "Dictionary was updated concurrently, retry", nil, err)
	case errors.Is(err, usecase.ErrInvalidInput):
		return middleware.NewAppError(fiber.StatusBadRequest, "Bad request", nil, err)
	default:
		return middleware.NewAppError(fiber.StatusInternalServerError, response.MessageInternalServerError, nil, err)
	}
}
