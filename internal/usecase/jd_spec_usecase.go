package usecase

import (
	"context"
	"errors"
	"strings"
	"time"

	"skill-match/internal/domain/normalize"
	"skill-match/internal/domain/taxonomy"
	"skill-match/internal/pkg/logging"
	"skill-match/internal/repository"

	"github.com/google/uuid"
)

var (
	ErrSpecNotFound = errors.New("jd spec not found")
	ErrBlankRole    = errors.New("blank role")
)

const (
	defaultListLimit = 20
	maxListLimit     = 100
)

type SkillInput struct {
	Skill  string
	Weight float64
}

type JDSpecInput struct {
	Role         string
	LayerWeights taxonomy.LayerWeights
	Skills       map[string][]SkillInput
}

// JDSpecResult is the builder's partial-success surface: the spec is stored
// even when some terms stayed unresolved, and those terms come back raw.
type JDSpecResult struct {
	Spec          repository.JDSpec
	UnknownSkills []string
}

type JDSpecUsecase interface {
	Create(ctx context.Context, in JDSpecInput) (JDSpecResult, error)
	Update(ctx context.Context, id uuid.UUID, in JDSpecInput) (JDSpecResult, error)
	GetByID(ctx context.Context, id uuid.UUID) (repository.JDSpec, error)
	List(ctx context.Context, limit, offset int) ([]repository.JDSpec, int, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

type JDSpecBuilder struct {
	specs  repository.JDSpecRepository
	dict   DictionaryUsecase
	review ReviewUsecase
	cache  CorrelationCache
	logger *logging.Logger
}

func NewJDSpecUsecase(
	specs repository.JDSpecRepository,
	dict DictionaryUsecase,
	review ReviewUsecase,
	cache CorrelationCache,
	logger *logging.Logger,
) *JDSpecBuilder {
	return &JDSpecBuilder{specs: specs, dict: dict, review: review, cache: cache, logger: logger}
}

func (u *JDSpecBuilder) Create(ctx context.Context, in JDSpecInput) (JDSpecResult, error) {
	id := uuid.New()
	spec, unknown, err := u.build(ctx, id, in)
	if err != nil {
		return JDSpecResult{}, err
	}

	if err := u.specs.Create(ctx, spec); err != nil {
		u.logger.Error("create jd spec", "id", id, "error", err)
		return JDSpecResult{}, ErrInternal
	}

	u.recordUnknowns(ctx, unknown, id)
	u.invalidate(ctx, id)
	return JDSpecResult{Spec: spec, UnknownSkills: unknown}, nil
}

func (u *JDSpecBuilder) Update(ctx context.Context, id uuid.UUID, in JDSpecInput) (JDSpecResult, error) {
	if id == uuid.Nil {
		return JDSpecResult{}, ErrInvalidInput
	}

	existing, err := u.specs.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrJDSpecNotFound) {
			return JDSpecResult{}, ErrSpecNotFound
		}
		u.logger.Error("load jd spec", "id", id, "error", err)
		return JDSpecResult{}, ErrInternal
	}

	// the full pipeline runs again against the current dictionary version,
	// which re-pins the spec even when the skills did not change
	spec, unknown, err := u.build(ctx, id, in)
	if err != nil {
		return JDSpecResult{}, err
	}
	spec.CreatedAt = existing.CreatedAt

	if err := u.specs.Update(ctx, spec); err != nil {
		if errors.Is(err, repository.ErrJDSpecNotFound) {
			return JDSpecResult{}, ErrSpecNotFound
		}
		u.logger.Error("update jd spec", "id", id, "error", err)
		return JDSpecResult{}, ErrInternal
	}

	u.recordUnknowns(ctx, unknown, id)
	u.invalidate(ctx, id)
	return JDSpecResult{Spec: spec, UnknownSkills: unknown}, nil
}

func (u *JDSpecBuilder) GetByID(ctx context.Context, id uuid.UUID) (repository.JDSpec, error) {
	if id == uuid.Nil {
		return repository.JDSpec{}, ErrSpecNotFound
	}
	spec, err := u.specs.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrJDSpecNotFound) {
			return repository.JDSpec{}, ErrSpecNotFound
		}
		u.logger.Error("load jd spec", "id", id, "error", err)
		return repository.JDSpec{}, ErrInternal
	}
	return spec, nil
}

func (u *JDSpecBuilder) List(ctx context.Context, limit, offset int) ([]repository.JDSpec, int, error) {
	if limit < 0 || offset < 0 {
		return nil, 0, ErrInvalidInput
	}
	if limit == 0 {
		limit = defaultListLimit
	}
	if limit > maxListLimit {
		limit = maxListLimit
	}

	items, err := u.specs.List(ctx, limit, offset)
	if err != nil {
		u.logger.Error("list jd specs", "error", err)
		return nil, 0, ErrInternal
	}
	total, err := u.specs.Count(ctx)
	if err != nil {
		u.logger.Error("count jd specs", "error", err)
		return nil, 0, ErrInternal
	}
	return items, total, nil
}

func (u *JDSpecBuilder) Delete(ctx context.Context, id uuid.UUID) error {
	if id == uuid.Nil {
		return ErrSpecNotFound
	}
	if err := u.specs.Delete(ctx, id); err != nil {
		if errors.Is(err, repository.ErrJDSpecNotFound) {
			return ErrSpecNotFound
		}
		u.logger.Error("delete jd spec", "id", id, "error", err)
		return ErrInternal
	}
	u.invalidate(ctx, id)
	return nil
}

// build validates structure first, then normalizes. Structural rejections
// happen before any normalization or queue write; unknown vocabulary is not a
// rejection.
func (u *JDSpecBuilder) build(ctx context.Context, id uuid.UUID, in JDSpecInput) (repository.JDSpec, []string, error) {
	role := strings.TrimSpace(in.Role)
	if role == "" {
		return repository.JDSpec{}, nil, ErrBlankRole
	}
	if err := in.LayerWeights.Validate(); err != nil {
		return repository.JDSpec{}, nil, err
	}

	skills := taxonomy.LayerSkills{}
	for rawLayer, entries := range in.Skills {
		layer, err := taxonomy.ParseLayer(rawLayer)
		if err != nil {
			return repository.JDSpec{}, nil, err
		}
		for _, e := range entries {
			skills[layer] = append(skills[layer], taxonomy.SkillTerm{
				Name:   strings.TrimSpace(e.Skill),
				Weight: e.Weight,
			})
		}
	}
	if err := skills.Validate(in.LayerWeights); err != nil {
		return repository.JDSpec{}, nil, err
	}

	snap, err := u.dict.Current(ctx)
	if err != nil {
		return repository.JDSpec{}, nil, err
	}

	unknown := make([]string, 0)
	seen := map[string]struct{}{}
	for _, layer := range taxonomy.Layers() {
		terms := skills[layer]
		if len(terms) == 0 {
			continue
		}
		// Two inputs resolving to the same canonical skill collapse into one
		// entry: weights summed, first position kept.
		merged := make([]taxonomy.SkillTerm, 0, len(terms))
		index := make(map[string]int, len(terms))
		for _, t := range terms {
			res := normalize.Resolve(t.Name, snap)
			if !res.Resolved {
				key := strings.ToLower(res.Input)
				if _, dup := seen[key]; !dup {
					seen[key] = struct{}{}
					unknown = append(unknown, res.Input)
				}
				merged = append(merged, t)
				continue
			}
			if at, dup := index[res.CanonicalName]; dup {
				merged[at].Weight += t.Weight
				continue
			}
			index[res.CanonicalName] = len(merged)
			merged = append(merged, taxonomy.SkillTerm{
				Name:     res.CanonicalName,
				Weight:   t.Weight,
				Resolved: true,
			})
		}
		skills[layer] = merged
	}

	now := time.Now().UTC()
	return repository.JDSpec{
		ID:                id,
		Role:              role,
		LayerWeights:      in.LayerWeights,
		Skills:            skills,
		DictionaryVersion: snap.Version(),
		CreatedAt:         now,
		UpdatedAt:         now,
	}, unknown, nil
}

// recordUnknowns feeds the review queue after the spec is persisted. The
// spec's fate no longer depends on the queue, so failures stay best-effort.
func (u *JDSpecBuilder) recordUnknowns(ctx context.Context, unknown []string, specID uuid.UUID) {
	for _, raw := range unknown {
		_ = u.review.RecordUnknown(ctx, raw, specID.String())
	}
}

func (u *JDSpecBuilder) invalidate(ctx context.Context, specID uuid.UUID) {
	if err := u.cache.InvalidateSpecCorrelations(ctx, specID.String()); err != nil {
		u.logger.Warn("invalidate correlation cache", "spec_id", specID, "error", err)
	}
}
