package usecase

import (
	"context"
	"errors"
	"testing"

	"skill-match/internal/domain/dictionary"
	"skill-match/internal/domain/taxonomy"
	"skill-match/internal/repository"

	"github.com/jackc/pgx/v5/pgconn"
)

type mockDictRepo struct {
	docs    map[string]dictionary.Document
	latest  string
	saveErr error
	saves   int
}

func (m *mockDictRepo) LoadLatest(context.Context) (dictionary.Document, bool, error) {
	if m.latest == "" {
		return dictionary.Document{}, false, nil
	}
	return m.docs[m.latest], true, nil
}

func (m *mockDictRepo) LoadByVersion(_ context.Context, version string) (dictionary.Document, error) {
	doc, ok := m.docs[version]
	if !ok {
		return dictionary.Document{}, repository.ErrDictionaryVersionNotFound
	}
	return doc, nil
}

func (m *mockDictRepo) Save(_ context.Context, doc dictionary.Document) error {
	m.saves++
	if m.saveErr != nil {
		return m.saveErr
	}
	if m.docs == nil {
		m.docs = map[string]dictionary.Document{}
	}
	m.docs[doc.Version] = doc
	if m.latest == "" || dictionary.CompareVersions(doc.Version, m.latest) > 0 {
		m.latest = doc.Version
	}
	return nil
}

func TestDictionaryUsecase_BootstrapsFirstVersion(t *testing.T) {
	repo := &mockDictRepo{}
	uc := NewDictionaryUsecase(repo, nil)

	snap, err := uc.Current(context.Background())
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if snap.Version() != dictionary.FirstVersion {
		t.Fatalf("expected version %q, got %q", dictionary.FirstVersion, snap.Version())
	}
	if snap.Len() != 0 {
		t.Fatalf("expected empty dictionary, got %d skills", snap.Len())
	}
	if _, ok := repo.docs[dictionary.FirstVersion]; !ok {
		t.Fatalf("expected bootstrap version persisted")
	}
}

func TestDictionaryUsecase_AddSkill_PublishesNewVersions(t *testing.T) {
	repo := &mockDictRepo{}
	uc := NewDictionaryUsecase(repo, nil)

	snap, err := uc.AddSkill(context.Background(), "React", "frontend")
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if snap.Version() != "2" {
		t.Fatalf("expected version 2 after first mutation, got %q", snap.Version())
	}

	snap, err = uc.AddVariation(context.Background(), "React.js", "React")
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if snap.Version() != "3" {
		t.Fatalf("expected version 3, got %q", snap.Version())
	}
	hit, ok := snap.Find("react.js")
	if !ok || hit.Name != "React" {
		t.Fatalf("expected react.js to resolve to React, got %+v ok=%v", hit, ok)
	}
	if _, ok := repo.docs["3"]; !ok {
		t.Fatalf("expected version 3 persisted")
	}
}

func TestDictionaryUsecase_AddSkill_UnknownCategory(t *testing.T) {
	uc := NewDictionaryUsecase(&mockDictRepo{}, nil)
	if _, err := uc.AddSkill(context.Background(), "Verilog", "hardware"); !errors.Is(err, taxonomy.ErrUnknownLayer) {
		t.Fatalf("expected ErrUnknownLayer, got %v", err)
	}
}

func TestDictionaryUsecase_AddSkill_Duplicate(t *testing.T) {
	uc := NewDictionaryUsecase(&mockDictRepo{}, nil)
	if _, err := uc.AddSkill(context.Background(), "React", "frontend"); err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if _, err := uc.AddSkill(context.Background(), "react", "frontend"); !errors.Is(err, dictionary.ErrDuplicateSkill) {
		t.Fatalf("expected ErrDuplicateSkill, got %v", err)
	}
}

func TestDictionaryUsecase_RemoveSkill_NotFound(t *testing.T) {
	uc := NewDictionaryUsecase(&mockDictRepo{}, nil)
	if _, err := uc.RemoveSkill(context.Background(), "Cobol"); !errors.Is(err, dictionary.ErrSkillNotFound) {
		t.Fatalf("expected ErrSkillNotFound, got %v", err)
	}
}

func TestDictionaryUsecase_GetVersion(t *testing.T) {
	repo := &mockDictRepo{}
	uc := NewDictionaryUsecase(repo, nil)

	if _, err := uc.AddSkill(context.Background(), "Go", "backend"); err != nil {
		t.Fatalf("unexpected err: %v", err)
	}

	old, err := uc.GetVersion(context.Background(), "1")
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if old.Version() != "1" || old.Len() != 0 {
		t.Fatalf("expected empty version 1, got version %q with %d skills", old.Version(), old.Len())
	}

	cur, err := uc.GetVersion(context.Background(), "2")
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if _, ok := cur.Find("go"); !ok {
		t.Fatalf("expected Go in version 2")
	}

	if _, err := uc.GetVersion(context.Background(), "99"); !errors.Is(err, ErrVersionNotFound) {
		t.Fatalf("expected ErrVersionNotFound, got %v", err)
	}
}

func TestDictionaryUsecase_ConcurrentPublishConflict(t *testing.T) {
	repo := &mockDictRepo{}
	uc := NewDictionaryUsecase(repo, nil)
	if _, err := uc.Current(context.Background()); err != nil {
		t.Fatalf("unexpected err: %v", err)
	}

	// another process published the same next version first
	repo.saveErr = &pgconn.PgError{Code: "23505"}
	if _, err := uc.AddSkill(context.Background(), "React", "frontend"); !errors.Is(err, ErrDictionaryConflict) {
		t.Fatalf("expected ErrDictionaryConflict, got %v", err)
	}
	repo.saveErr = nil

	// the retry sees a fresh snapshot and lands on the next free version
	snap, err := uc.AddSkill(context.Background(), "React", "frontend")
	if err != nil {
		t.Fatalf("unexpected err on retry: %v", err)
	}
	if _, ok := snap.Find("react"); !ok {
		t.Fatalf("expected React present after retry")
	}
}

func TestDictionaryUsecase_Import_Replace(t *testing.T) {
	repo := &mockDictRepo{}
	uc := NewDictionaryUsecase(repo, nil)
	if _, err := uc.AddSkill(context.Background(), "React", "frontend"); err != nil {
		t.Fatalf("unexpected err: %v", err)
	}

	doc := dictionary.Document{
		Version: "2",
		Skills: []dictionary.CanonicalSkill{
			{Name: "Go", Category: taxonomy.LayerBackend, Variations: []string{"golang"}},
		},
	}
	outcome, err := uc.Import(context.Background(), doc, dictionary.ImportReplace, false)
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if outcome.Version != "3" {
		t.Fatalf("expected published version 3, got %q", outcome.Version)
	}
	if outcome.SkillCount != 1 {
		t.Fatalf("expected 1 skill after replace, got %d", outcome.SkillCount)
	}

	snap, err := uc.Current(context.Background())
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if _, ok := snap.Find("react"); ok {
		t.Fatalf("replace should have dropped React")
	}
	if _, ok := snap.Find("golang"); !ok {
		t.Fatalf("expected golang variation after replace")
	}
}

func TestDictionaryUsecase_Import_OlderVersionRejected(t *testing.T) {
	repo := &mockDictRepo{}
	uc := NewDictionaryUsecase(repo, nil)
	for _, name := range []string{"React", "Vue"} {
		if _, err := uc.AddSkill(context.Background(), name, "frontend"); err != nil {
			t.Fatalf("unexpected err: %v", err)
		}
	}

	doc := dictionary.Document{Version: "1"}
	if _, err := uc.Import(context.Background(), doc, dictionary.ImportReplace, false); !errors.Is(err, dictionary.ErrVersionConflict) {
		t.Fatalf("expected ErrVersionConflict, got %v", err)
	}

	outcome, err := uc.Import(context.Background(), doc, dictionary.ImportReplace, true)
	if err != nil {
		t.Fatalf("unexpected err with allow_older: %v", err)
	}
	if outcome.Version != "4" {
		t.Fatalf("expected version 4, got %q", outcome.Version)
	}
}

func TestDictionaryUsecase_Import_MergeReportsConflicts(t *testing.T) {
	repo := &mockDictRepo{}
	uc := NewDictionaryUsecase(repo, nil)
	if _, err := uc.AddSkill(context.Background(), "React", "frontend"); err != nil {
		t.Fatalf("unexpected err: %v", err)
	}

	doc := dictionary.Document{
		Version: "2",
		Skills: []dictionary.CanonicalSkill{
			{Name: "React", Category: taxonomy.LayerBackend},
			{Name: "Go", Category: taxonomy.LayerBackend, Variations: []string{"golang"}},
		},
	}
	outcome, err := uc.Import(context.Background(), doc, dictionary.ImportMerge, false)
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if outcome.SkillsAdded != 1 || outcome.VariationsAdded != 1 {
		t.Fatalf("expected 1 skill + 1 variation added, got %d/%d", outcome.SkillsAdded, outcome.VariationsAdded)
	}
	if len(outcome.Skipped) != 1 {
		t.Fatalf("expected 1 skipped conflict, got %v", outcome.Skipped)
	}

	snap, err := uc.Current(context.Background())
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	hit, ok := snap.Find("react")
	if !ok || hit.Category != taxonomy.LayerFrontend {
		t.Fatalf("merge must not recategorize React, got %+v", hit)
	}
}

func TestDictionaryUsecase_Import_UnknownMode(t *testing.T) {
	uc := NewDictionaryUsecase(&mockDictRepo{}, nil)
	if _, err := uc.Import(context.Background(), dictionary.Document{Version: "1"}, dictionary.ImportMode("append"), false); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput, got %v", err)
	}
}
