package handler

import (
	"errors"
	"strconv"

	"skill-match/internal/delivery/http/dto"
	"skill-match/internal/delivery/http/middleware"
	"skill-match/internal/domain/taxonomy"
	"skill-match/internal/pkg/response"
	"skill-match/internal/repository"
	"skill-match/internal/usecase"

	"github.com/gofiber/fiber/v3"
	"github.com/google/uuid"
)

type JDSpecHandler struct {
	uc usecase.JDSpecUsecase
}

type skillEntryRequest struct {
	Skill  string  `json:"skill"`
	Weight float64 `json:"weight"`
}

type jdSpecRequest struct {
	Role         string                         `json:"role"`
	LayerWeights taxonomy.LayerWeights          `json:"layer_weights"`
	Skills       map[string][]skillEntryRequest `json:"skills"`
}

func NewJDSpecHandler(uc usecase.JDSpecUsecase) *JDSpecHandler {
	return &JDSpecHandler{uc: uc}
}

func (h *JDSpecHandler) RegisterRoutes(r fiber.Router) {
	if r == nil {
		return
	}

	grp := r.Group("/jd-specs")
	grp.Post("/", h.Create)
	grp.Get("/", h.List)
	grp.Get("/:id", h.GetByID)
	grp.Put("/:id", h.Update)
	grp.Delete("/:id", h.Delete)
}

func (h *JDSpecHandler) Create(c fiber.Ctx) error {
	var req jdSpecRequest
	if err := c.Bind().Body(&req); err != nil {
		return middleware.NewAppError(fiber.StatusBadRequest, "Bad request", nil, err)
	}

	res, err := h.uc.Create(c.Context(), specInput(req))
	if err != nil {
		return mapJDSpecError(err)
	}

	return response.Success(c, fiber.StatusCreated, response.MessageCreated, dto.JDSpecUpsertResponse{
		Spec:          jdSpecResponse(res.Spec),
		UnknownSkills: res.UnknownSkills,
	})
}

func (h *JDSpecHandler) List(c fiber.Ctx) error {
	limit, err := parseQueryIntStrict(c, "limit", 0)
	if err != nil {
		return middleware.NewAppError(fiber.StatusBadRequest, "Invalid limit", nil, err)
	}
	offset, err := parseQueryIntStrict(c, "offset", 0)
	if err != nil {
		return middleware.NewAppError(fiber.StatusBadRequest, "Invalid offset", nil, err)
	}

	items, total, err := h.uc.List(c.Context(), limit, offset)
	if err != nil {
		return mapJDSpecError(err)
	}

	out := make([]dto.JDSpecResponse, 0, len(items))
	for _, it := range items {
		out = append(out, jdSpecResponse(it))
	}
	return response.Success(c, fiber.StatusOK, response.MessageOK, dto.JDSpecListResponse{Items: out, Total: total})
}

func (h *JDSpecHandler) GetByID(c fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return middleware.NewAppError(fiber.StatusBadRequest, "Invalid spec id", nil, err)
	}

	spec, err := h.uc.GetByID(c.Context(), id)
	if err != nil {
		return mapJDSpecError(err)
	}
	return response.Success(c, fiber.StatusOK, response.MessageOK, jdSpecResponse(spec))
}

func (h *JDSpecHandler) Update(c fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return middleware.NewAppError(fiber.StatusBadRequest, "Invalid spec id", nil, err)
	}

	var req jdSpecRequest
	if err := c.Bind().Body(&req); err != nil {
		return middleware.NewAppError(fiber.StatusBadRequest, "Bad request", nil, err)
	}

	res, err := h.uc.Update(c.Context(), id, specInput(req))
	if err != nil {
		return mapJDSpecError(err)
	}

	return response.Success(c, fiber.StatusOK, response.MessageOK, dto.JDSpecUpsertResponse{
		Spec:          jdSpecResponse(res.Spec),
		UnknownSkills: res.UnknownSkills,
	})
}

func (h *JDSpecHandler) Delete(c fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return middleware.NewAppError(fiber.StatusBadRequest, "Invalid spec id", nil, err)
	}

	if err := h.uc.Delete(c.Context(), id); err != nil {
		return mapJDSpecError(err)
	}
	return response.Success(c, fiber.StatusOK, response.MessageOK, nil)
}

func specInput(req jdSpecRequest) usecase.JDSpecInput {
	skills := make(map[string][]usecase.SkillInput, len(req.Skills))
	for layer, entries := range req.Skills {
		list := make([]usecase.SkillInput, 0, len(entries))
		for _, e := range entries {
			list = append(list, usecase.SkillInput{Skill: e.Skill, Weight: e.Weight})
		}
		skills[layer] = list
	}
	return usecase.JDSpecInput{
		Role:         req.Role,
		LayerWeights: req.LayerWeights,
		Skills:       skills,
	}
}

func jdSpecResponse(spec repository.JDSpec) dto.JDSpecResponse {
	skills := make(map[string][]dto.SkillTermResponse, len(spec.Skills))
	for layer, terms := range spec.Skills {
		list := make([]dto.SkillTermResponse, 0, len(terms))
		for _, term := range terms {
			list = append(list, dto.SkillTermResponse{
				Skill:    term.Name,
				Weight:   term.Weight,
				Resolved: term.Resolved,
			})
		}
		skills[string(layer)] = list
	}

	return dto.JDSpecResponse{
		ID:   spec.ID,
		Role: spec.Role,
		LayerWeights: dto.LayerWeightsResponse{
			Frontend: spec.LayerWeights.Frontend,
			Backend:  spec.LayerWeights.Backend,
			Database: spec.LayerWeights.Database,
			Cloud:    spec.LayerWeights.Cloud,
			DevOps:   spec.LayerWeights.Devops,
			Others:   spec.LayerWeights.Others,
		},
		Skills:            skills,
		DictionaryVersion: spec.DictionaryVersion,
		CreatedAt:         spec.CreatedAt,
		UpdatedAt:         spec.UpdatedAt,
	}
}

func mapJDSpecError(err error) error {
	if err == nil {
		return nil
	}

	switch {
	case errors.Is(err, usecase.ErrBlankRole):
		return middleware.NewAppError(fiber.StatusBadRequest, "Role is required", nil, err)
	case errors.Is(err, taxonomy.ErrUnknownLayer):
		return middleware.NewAppError(fiber.StatusBadRequest, "Unknown layer", nil, err)
	case errors.Is(err, taxonomy.ErrBlankSkill):
		return middleware.NewAppError(fiber.StatusUnprocessableEntity, "Blank skill name", nil, err)
	case errors.Is(err, taxonomy.ErrWeightRange):
		return middleware.NewAppError(fiber.StatusUnprocessableEntity, "Weight out of range", nil, err)
	case errors.Is(err, taxonomy.ErrLayerWeightSum):
		return middleware.NewAppError(fiber.StatusUnprocessableEntity, "Layer weights must sum to 1.0", nil, err)
	case errors.Is(err, taxonomy.ErrSkillWeightSum):
		return middleware.NewAppError(fiber.StatusUnprocessableEntity, "Skill weights must sum to 1.0 per weighted layer", nil, err)
	case errors.Is(err, taxonomy.ErrEmptyLayer):
		return middleware.NewAppError(fiber.StatusUnprocessableEntity, "Weighted layer has no skills", nil, err)
	case errors.Is(err, usecase.ErrSpecNotFound):
		return middleware.NewAppError(fiber.StatusNotFound, "JD spec not found", nil, err)
	case errors.Is(err, usecase.ErrInvalidInput):
		return middleware.NewAppError(fiber.StatusBadRequest, "Bad request", nil, err)
	default:
		return middleware.NewAppError(fiber.StatusInternalServerError, response.MessageInternalServerError, nil, err)
	}
}

func parseQueryIntStrict(c fiber.Ctx, key string, defaultVal int) (int, error) {
	s := c.Query(key)
	if s == "" {
		return defaultVal, nil
	}
	v, err := strconv.Atoi(s)
	if err != nil {
		return 0, err
	}
	return v, nil
}

func parseQueryFloatStrict(c fiber.Ctx, key string, defaultVal float64) (float64, error) {
	s := c.Query(key)
	if s == "" {
		return defaultVal, nil
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, err
	}
	return v, nil
}
