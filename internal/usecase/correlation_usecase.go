package usecase

import (
	"context"
	"errors"
	"sort"
	"time"

	"skill-match/internal/domain/correlation"
	"skill-match/internal/pkg/logging"
	"skill-match/internal/repository"

	"github.com/google/uuid"
)

var ErrResumeNotFound = errors.New("resume not found")

const (
	defaultSimilarLimit = 10
	maxSimilarLimit     = 50
)

type SpecSimilarity struct {
	SpecID uuid.UUID `json:"spec_id"`
	Role   string    `json:"role"`
	Score  float64   `json:"score"`
}

type ResumeMatch struct {
	ResumeID      uuid.UUID          `json:"resume_id"`
	CandidateName string             `json:"candidate_name"`
	Result        correlation.Result `json:"result"`
}

type MatchParams struct {
	Limit    int
	Offset   int
	MinScore float64
}

type MatchPage struct {
	Matches []ResumeMatch `json:"matches"`
	Total   int           `json:"total"`
}

type CorrelationUsecase interface {
	CorrelateSpecs(ctx context.Context, currentID, targetID uuid.UUID) (correlation.Result, error)
	SimilarSpecs(ctx context.Context, specID uuid.UUID, limit int) ([]SpecSimilarity, error)
	MatchResume(ctx context.Context, specID, resumeID uuid.UUID) (ResumeMatch, error)
	MatchAllResumes(ctx context.Context, specID uuid.UUID, params MatchParams) (MatchPage, error)
}

// Correlator scores stored layer profiles against each other. It never
// touches the dictionary: terms were canonicalized when the profiles were
// written, and results carry the current side's pinned dictionary version.
type Correlator struct {
	specs   repository.JDSpecRepository
	resumes repository.ResumeRepository
	cache   CorrelationCache
	ttl     time.Duration
	logger  *logging.Logger
}

func NewCorrelationUsecase(
	specs repository.JDSpecRepository,
	resumes repository.ResumeRepository,
	cache CorrelationCache,
	ttl time.Duration,
	logger *logging.Logger,
) *Correlator {
	return &Correlator{specs: specs, resumes: resumes, cache: cache, ttl: ttl, logger: logger}
}

func (u *Correlator) CorrelateSpecs(ctx context.Context, currentID, targetID uuid.UUID) (correlation.Result, error) {
	key := correlateCacheKey(currentID.String(), targetID.String())
	var cached correlation.Result
	if ok, err := u.cache.GetJSON(ctx, key, &cached); err != nil {
		u.logger.Warn("correlation cache read", "error", err)
	} else if ok {
		return cached, nil
	}

	current, err := u.loadSpec(ctx, currentID)
	if err != nil {
		return correlation.Result{}, err
	}
	target, err := u.loadSpec(ctx, targetID)
	if err != nil {
		return correlation.Result{}, err
	}

	res := correlation.Correlate(current.Skills, current.LayerWeights, target.Skills)
	res.DictionaryVersion = current.DictionaryVersion

	u.store(ctx, key, res)
	return res, nil
}

func (u *Correlator) SimilarSpecs(ctx context.Context, specID uuid.UUID, limit int) ([]SpecSimilarity, error) {
	if limit < 0 {
		return nil, ErrInvalidInput
	}
	if limit == 0 {
		limit = defaultSimilarLimit
	}
	if limit > maxSimilarLimit {
		limit = maxSimilarLimit
	}

	key := similarCacheKey(specID.String(), limit)
	var cached []SpecSimilarity
	if ok, err := u.cache.GetJSON(ctx, key, &cached); err != nil {
		u.logger.Warn("similar cache read", "error", err)
	} else if ok {
		return cached, nil
	}

	current, err := u.loadSpec(ctx, specID)
	if err != nil {
		return nil, err
	}
	others, err := u.specs.ListExcept(ctx, specID)
	if err != nil {
		u.logger.Error("list jd specs", "error", err)
		return nil, ErrInternal
	}

	similarities := make([]SpecSimilarity, 0, len(others))
	for _, other := range others {
		res := correlation.Correlate(current.Skills, current.LayerWeights, other.Skills)
		similarities = append(similarities, SpecSimilarity{
			SpecID: other.ID,
			Role:   other.Role,
			Score:  res.OverallScore,
		})
	}
	sort.SliceStable(similarities, func(i, j int) bool {
		if similarities[i].Score != similarities[j].Score {
			return similarities[i].Score > similarities[j].Score
		}
		return similarities[i].SpecID.String() < similarities[j].SpecID.String()
	})
	if len(similarities) > limit {
		similarities = similarities[:limit]
	}

	u.store(ctx, key, similarities)
	return similarities, nil
}

func (u *Correlator) MatchResume(ctx context.Context, specID, resumeID uuid.UUID) (ResumeMatch, error) {
	key := matchCacheKey(specID.String(), resumeID.String())
	var cached ResumeMatch
	if ok, err := u.cache.GetJSON(ctx, key, &cached); err != nil {
		u.logger.Warn("match cache read", "error", err)
	} else if ok {
		return cached, nil
	}

	spec, err := u.loadSpec(ctx, specID)
	if err != nil {
		return ResumeMatch{}, err
	}
	resume, err := u.loadResume(ctx, resumeID)
	if err != nil {
		return ResumeMatch{}, err
	}

	match := u.score(spec, resume)
	u.store(ctx, key, match)
	return match, nil
}

func (u *Correlator) MatchAllResumes(ctx context.Context, specID uuid.UUID, params MatchParams) (MatchPage, error) {
	if params.Limit < 0 || params.Offset < 0 || params.MinScore < 0 || params.MinScore > 1 {
		return MatchPage{}, ErrInvalidInput
	}
	if params.Limit == 0 {
		params.Limit = defaultListLimit
	}
	if params.Limit > maxListLimit {
		params.Limit = maxListLimit
	}

	key := matchPageCacheKey(specID.String(), params.Limit, params.Offset, params.MinScore)
	var cached MatchPage
	if ok, err := u.cache.GetJSON(ctx, key, &cached); err != nil {
		u.logger.Warn("match page cache read", "error", err)
	} else if ok {
		return cached, nil
	}

	spec, err := u.loadSpec(ctx, specID)
	if err != nil {
		return MatchPage{}, err
	}
	resumes, err := u.resumes.List(ctx)
	if err != nil {
		u.logger.Error("list resumes", "error", err)
		return MatchPage{}, ErrInternal
	}

	matches := make([]ResumeMatch, 0, len(resumes))
	for _, resume := range resumes {
		match := u.score(spec, resume)
		if match.Result.OverallScore >= params.MinScore {
			matches = append(matches, match)
		}
	}
	sort.SliceStable(matches, func(i, j int) bool {
		if matches[i].Result.OverallScore != matches[j].Result.OverallScore {
			return matches[i].Result.OverallScore > matches[j].Result.OverallScore
		}
		return matches[i].ResumeID.String() < matches[j].ResumeID.String()
	})

	page := MatchPage{Total: len(matches), Matches: []ResumeMatch{}}
	if params.Offset < len(matches) {
		end := params.Offset + params.Limit
		if end > len(matches) {
			end = len(matches)
		}
		page.Matches = matches[params.Offset:end]
	}

	u.store(ctx, key, page)
	return page, nil
}

// score runs the engine with the spec as the current side, so the spec's
// layer weights drive the overall score and missing skills read as the
// candidate's gaps.
func (u *Correlator) score(spec repository.JDSpec, resume repository.Resume) ResumeMatch {
	res := correlation.Correlate(spec.Skills, spec.LayerWeights, resume.Skills)
	res.DictionaryVersion = spec.DictionaryVersion
	return ResumeMatch{
		ResumeID:      resume.ID,
		CandidateName: resume.CandidateName,
		Result:        res,
	}
}

func (u *Correlator) loadSpec(ctx context.Context, id uuid.UUID) (repository.JDSpec, error) {
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

func (u *Correlator) loadResume(ctx context.Context, id uuid.UUID) (repository.Resume, error) {
	resume, err := u.resumes.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrResumeNotFound) {
			return repository.Resume{}, ErrResumeNotFound
		}
		u.logger.Error("load resume", "id", id, "error", err)
		return repository.Resume{}, ErrInternal
	}
	return resume, nil
}

func (u *Correlator) store(ctx context.Context, key string, value any) {
	if err := u.cache.SetJSON(ctx, key, value, u.ttl); err != nil {
		u.logger.Warn("correlation cache write", "key", key, "error", err)
	}
}
