package usecase

import (
	"context"
	"errors"
	"testing"
	"time"

	"skill-match/internal/domain/taxonomy"
	"skill-match/internal/repository"

	"github.com/google/uuid"
)

type mockSpecRepo struct {
	specs map[uuid.UUID]repository.JDSpec
	order []uuid.UUID
	err   error
}

func (m *mockSpecRepo) Create(_ context.Context, spec repository.JDSpec) error {
	if m.err != nil {
		return m.err
	}
	if m.specs == nil {
		m.specs = map[uuid.UUID]repository.JDSpec{}
	}
	m.specs[spec.ID] = spec
	m.order = append(m.order, spec.ID)
	return nil
}

func (m *mockSpecRepo) Update(_ context.Context, spec repository.JDSpec) error {
	if m.err != nil {
		return m.err
	}
	if _, ok := m.specs[spec.ID]; !ok {
		return repository.ErrJDSpecNotFound
	}
	m.specs[spec.ID] = spec
	return nil
}

func (m *mockSpecRepo) GetByID(_ context.Context, id uuid.UUID) (repository.JDSpec, error) {
	spec, ok := m.specs[id]
	if !ok {
		return repository.JDSpec{}, repository.ErrJDSpecNotFound
	}
	return spec, nil
}

func (m *mockSpecRepo) List(_ context.Context, limit, offset int) ([]repository.JDSpec, error) {
	out := []repository.JDSpec{}
	for i := offset; i < len(m.order) && len(out) < limit; i++ {
		out = append(out, m.specs[m.order[i]])
	}
	return out, nil
}

func (m *mockSpecRepo) ListExcept(_ context.Context, id uuid.UUID) ([]repository.JDSpec, error) {
	out := []repository.JDSpec{}
	for _, sid := range m.order {
		if sid != id {
			out = append(out, m.specs[sid])
		}
	}
	return out, nil
}

func (m *mockSpecRepo) Delete(_ context.Context, id uuid.UUID) error {
	if _, ok := m.specs[id]; !ok {
		return repository.ErrJDSpecNotFound
	}
	delete(m.specs, id)
	for i, sid := range m.order {
		if sid == id {
			m.order = append(m.order[:i], m.order[i+1:]...)
			break
		}
	}
	return nil
}

func (m *mockSpecRepo) Count(context.Context) (int, error) { return len(m.order), nil }

type spyReview struct {
	recorded []string
	sources  []string
}

func (s *spyReview) ListPending(context.Context) ([]ReviewItem, error) { return nil, nil }
func (s *spyReview) RecordUnknown(_ context.Context, name, sourceID string) error {
	s.recorded = append(s.recorded, name)
	s.sources = append(s.sources, sourceID)
	return nil
}
func (s *spyReview) ApproveAsCanonical(context.Context, string, string) (ReviewDecision, error) {
	return ReviewDecision{}, nil
}
func (s *spyReview) ApproveAsVariation(context.Context, string, string) (ReviewDecision, error) {
	return ReviewDecision{}, nil
}
func (s *spyReview) Reject(context.Context, string, string) (ReviewDecision, error) {
	return ReviewDecision{}, nil
}

type spyCache struct {
	invalidated []string
}

func (c *spyCache) GetJSON(context.Context, string, any) (bool, error)    { return false, nil }
func (c *spyCache) SetJSON(context.Context, string, any, time.Duration) error { return nil }
func (c *spyCache) InvalidateSpecCorrelations(_ context.Context, specID string) error {
	c.invalidated = append(c.invalidated, specID)
	return nil
}

func newJDSpecFixture(t *testing.T) (*JDSpecBuilder, *mockSpecRepo, *spyReview, *spyCache, DictionaryUsecase) {
	t.Helper()
	specs := &mockSpecRepo{}
	review := &spyReview{}
	cache := &spyCache{}
	dict := NewDictionaryUsecase(&mockDictRepo{}, nil)

	ctx := context.Background()
	for _, s := range []struct{ name, category string }{
		{"React", "frontend"},
		{"Node.js", "backend"},
		{"Go", "backend"},
		{"PostgreSQL", "database"},
	} {
		if _, err := dict.AddSkill(ctx, s.name, s.category); err != nil {
			t.Fatalf("seed dictionary: %v", err)
		}
	}
	for variation, canonical := range map[string]string{
		"react.js": "React",
		"golang":   "Go",
	} {
		if _, err := dict.AddVariation(ctx, variation, canonical); err != nil {
			t.Fatalf("seed variation: %v", err)
		}
	}

	return NewJDSpecUsecase(specs, dict, review, cache, nil), specs, review, cache, dict
}

func frontendBackendInput() JDSpecInput {
	return JDSpecInput{
		Role:         "Frontend Engineer",
		LayerWeights: taxonomy.LayerWeights{Frontend: 0.6, Backend: 0.4},
		Skills: map[string][]SkillInput{
			"frontend": {{Skill: "react.js", Weight: 1.0}},
			"backend":  {{Skill: "node.js", Weight: 0.5}, {Skill: "golang", Weight: 0.5}},
		},
	}
}

func TestJDSpecUsecase_Create_CanonicalizesKnownTerms(t *testing.T) {
	uc, specs, review, cache, dict := newJDSpecFixture(t)
	ctx := context.Background()

	res, err := uc.Create(ctx, frontendBackendInput())
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if len(res.UnknownSkills) != 0 {
		t.Fatalf("expected no unknown skills, got %v", res.UnknownSkills)
	}

	front := res.Spec.Skills[taxonomy.LayerFrontend]
	if len(front) != 1 || front[0].Name != "React" || !front[0].Resolved {
		t.Fatalf("expected react.js canonicalized to React, got %+v", front)
	}
	if front[0].Weight != 1.0 {
		t.Fatalf("weight must survive normalization, got %v", front[0].Weight)
	}
	back := res.Spec.Skills[taxonomy.LayerBackend]
	if len(back) != 2 || back[0].Name != "Node.js" || back[1].Name != "Go" {
		t.Fatalf("expected backend [Node.js Go], got %+v", back)
	}

	snap, err := dict.Current(ctx)
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if res.Spec.DictionaryVersion != snap.Version() {
		t.Fatalf("expected pinned version %q, got %q", snap.Version(), res.Spec.DictionaryVersion)
	}

	if _, ok := specs.specs[res.Spec.ID]; !ok {
		t.Fatalf("expected spec persisted")
	}
	if len(review.recorded) != 0 {
		t.Fatalf("no queue writes expected, got %v", review.recorded)
	}
	if len(cache.invalidated) != 1 || cache.invalidated[0] != res.Spec.ID.String() {
		t.Fatalf("expected one invalidation for the new spec, got %v", cache.invalidated)
	}
}

func TestJDSpecUsecase_Create_MergesDuplicateCanonicals(t *testing.T) {
	uc, _, review, _, _ := newJDSpecFixture(t)

	// "React" and "react.js" are the same skill once normalized
	in := frontendBackendInput()
	in.Skills["frontend"] = []SkillInput{
		{Skill: "React", Weight: 0.6},
		{Skill: "react.js", Weight: 0.4},
	}

	res, err := uc.Create(context.Background(), in)
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}

	front := res.Spec.Skills[taxonomy.LayerFrontend]
	if len(front) != 1 {
		t.Fatalf("expected duplicates merged into one entry, got %+v", front)
	}
	if front[0].Name != "React" || !front[0].Resolved {
		t.Fatalf("expected canonical React, got %+v", front[0])
	}
	if !almostEqual(front[0].Weight, 1.0) {
		t.Fatalf("expected summed weight 1.0, got %v", front[0].Weight)
	}
	if len(res.UnknownSkills) != 0 || len(review.recorded) != 0 {
		t.Fatalf("merged duplicates are not unknowns, got %v / %v", res.UnknownSkills, review.recorded)
	}
}

func TestJDSpecUsecase_Create_PartialSuccessQueuesUnknowns(t *testing.T) {
	uc, specs, review, _, _ := newJDSpecFixture(t)

	in := frontendBackendInput()
	in.Skills["frontend"] = []SkillInput{
		{Skill: "NextJS", Weight: 0.5},
		{Skill: "react.js", Weight: 0.5},
	}

	res, err := uc.Create(context.Background(), in)
	if err != nil {
		t.Fatalf("unknown vocabulary must not reject the spec: %v", err)
	}
	if len(res.UnknownSkills) != 1 || res.UnknownSkills[0] != "NextJS" {
		t.Fatalf("expected unknown [NextJS], got %v", res.UnknownSkills)
	}

	front := res.Spec.Skills[taxonomy.LayerFrontend]
	if front[0].Name != "NextJS" || front[0].Resolved {
		t.Fatalf("unknown term must stay raw and unresolved, got %+v", front[0])
	}
	if front[1].Name != "React" || !front[1].Resolved {
		t.Fatalf("known term must still canonicalize, got %+v", front[1])
	}

	if _, ok := specs.specs[res.Spec.ID]; !ok {
		t.Fatalf("partial success must still persist the spec")
	}
	if len(review.recorded) != 1 || review.recorded[0] != "NextJS" {
		t.Fatalf("expected NextJS queued once, got %v", review.recorded)
	}
	if review.sources[0] != res.Spec.ID.String() {
		t.Fatalf("queue entry must reference the spec, got %q", review.sources[0])
	}
}

func TestJDSpecUsecase_Create_DeduplicatesUnknowns(t *testing.T) {
	uc, _, review, _, _ := newJDSpecFixture(t)

	in := frontendBackendInput()
	in.Skills["frontend"] = []SkillInput{
		{Skill: "NextJS", Weight: 0.4},
		{Skill: "nextjs", Weight: 0.3},
		{Skill: "react.js", Weight: 0.3},
	}

	res, err := uc.Create(context.Background(), in)
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if len(res.UnknownSkills) != 1 || res.UnknownSkills[0] != "NextJS" {
		t.Fatalf("expected case-insensitive dedup to [NextJS], got %v", res.UnknownSkills)
	}
	if len(review.recorded) != 1 {
		t.Fatalf("expected a single queue write, got %v", review.recorded)
	}
}

func TestJDSpecUsecase_Create_BlankRole(t *testing.T) {
	uc, specs, _, _, _ := newJDSpecFixture(t)

	in := frontendBackendInput()
	in.Role = "   "
	if _, err := uc.Create(context.Background(), in); !errors.Is(err, ErrBlankRole) {
		t.Fatalf("expected ErrBlankRole, got %v", err)
	}
	if len(specs.order) != 0 {
		t.Fatalf("rejected spec must not persist")
	}
}

func TestJDSpecUsecase_Create_WeightSumRejected(t *testing.T) {
	uc, _, _, _, _ := newJDSpecFixture(t)

	in := frontendBackendInput()
	in.LayerWeights = taxonomy.LayerWeights{Frontend: 0.7, Backend: 0.4}
	if _, err := uc.Create(context.Background(), in); !errors.Is(err, taxonomy.ErrLayerWeightSum) {
		t.Fatalf("expected ErrLayerWeightSum, got %v", err)
	}

	in.LayerWeights = taxonomy.LayerWeights{}
	if _, err := uc.Create(context.Background(), in); !errors.Is(err, taxonomy.ErrLayerWeightSum) {
		t.Fatalf("expected ErrLayerWeightSum for all-zero weights, got %v", err)
	}
}

func TestJDSpecUsecase_Create_StructuralRejectBeforeNormalization(t *testing.T) {
	uc, _, review, _, _ := newJDSpecFixture(t)

	// skill weights don't sum to 1.0, so the unknown term must never reach the queue
	in := frontendBackendInput()
	in.Skills["frontend"] = []SkillInput{{Skill: "NextJS", Weight: 0.5}}
	if _, err := uc.Create(context.Background(), in); !errors.Is(err, taxonomy.ErrSkillWeightSum) {
		t.Fatalf("expected ErrSkillWeightSum, got %v", err)
	}
	if len(review.recorded) != 0 {
		t.Fatalf("structural rejection must not queue terms, got %v", review.recorded)
	}
}

func TestJDSpecUsecase_Create_UnknownLayerKey(t *testing.T) {
	uc, _, _, _, _ := newJDSpecFixture(t)

	in := frontendBackendInput()
	in.Skills["systems"] = []SkillInput{{Skill: "Rust", Weight: 1.0}}
	if _, err := uc.Create(context.Background(), in); !errors.Is(err, taxonomy.ErrUnknownLayer) {
		t.Fatalf("expected ErrUnknownLayer, got %v", err)
	}
}

func TestJDSpecUsecase_Create_EmptyWeightedLayer(t *testing.T) {
	uc, _, _, _, _ := newJDSpecFixture(t)

	in := frontendBackendInput()
	delete(in.Skills, "backend")
	if _, err := uc.Create(context.Background(), in); !errors.Is(err, taxonomy.ErrEmptyLayer) {
		t.Fatalf("expected ErrEmptyLayer, got %v", err)
	}
}

func TestJDSpecUsecase_Update_RepinsDictionaryVersion(t *testing.T) {
	uc, _, _, cache, dict := newJDSpecFixture(t)
	ctx := context.Background()

	created, err := uc.Create(ctx, frontendBackendInput())
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}

	// dictionary moves on between create and update
	if _, err := dict.AddSkill(ctx, "Svelte", "frontend"); err != nil {
		t.Fatalf("unexpected err: %v", err)
	}

	updated, err := uc.Update(ctx, created.Spec.ID, frontendBackendInput())
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if updated.Spec.DictionaryVersion == created.Spec.DictionaryVersion {
		t.Fatalf("update must re-pin to the current dictionary version")
	}
	if !updated.Spec.CreatedAt.Equal(created.Spec.CreatedAt) {
		t.Fatalf("update must preserve CreatedAt")
	}
	if len(cache.invalidated) != 2 {
		t.Fatalf("expected invalidation on create and update, got %v", cache.invalidated)
	}
}

func TestJDSpecUsecase_Update_NotFound(t *testing.T) {
	uc, _, _, _, _ := newJDSpecFixture(t)
	if _, err := uc.Update(context.Background(), uuid.New(), frontendBackendInput()); !errors.Is(err, ErrSpecNotFound) {
		t.Fatalf("expected ErrSpecNotFound, got %v", err)
	}
}

func TestJDSpecUsecase_List_Paging(t *testing.T) {
	uc, _, _, _, _ := newJDSpecFixture(t)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		if _, err := uc.Create(ctx, frontendBackendInput()); err != nil {
			t.Fatalf("unexpected err: %v", err)
		}
	}

	items, total, err := uc.List(ctx, 2, 0)
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if len(items) != 2 || total != 3 {
		t.Fatalf("expected 2 of 3, got %d of %d", len(items), total)
	}

	if _, _, err := uc.List(ctx, -1, 0); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput, got %v", err)
	}
}

func TestJDSpecUsecase_Delete(t *testing.T) {
	uc, specs, _, cache, _ := newJDSpecFixture(t)
	ctx := context.Background()

	created, err := uc.Create(ctx, frontendBackendInput())
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if err := uc.Delete(ctx, created.Spec.ID); err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if len(specs.order) != 0 {
		t.Fatalf("expected spec removed")
	}
	if len(cache.invalidated) != 2 {
		t.Fatalf("expected invalidation on delete, got %v", cache.invalidated)
	}

	if err := uc.Delete(ctx, created.Spec.ID); !errors.Is(err, ErrSpecNotFound) {
		t.Fatalf("expected ErrSpecNotFound, got %v", err)
	}
}
