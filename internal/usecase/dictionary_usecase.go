package usecase

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"time"

	"skill-match/internal/domain/dictionary"
	"skill-match/internal/domain/taxonomy"
	"skill-match/internal/pkg/logging"
	"skill-match/internal/repository"

	"github.com/jackc/pgx/v5/pgconn"
)

var (
	ErrInternal           = errors.New("internal error")
	ErrInvalidInput       = errors.New("invalid input")
	ErrVersionNotFound    = errors.New("dictionary version not found")
	ErrDictionaryConflict = errors.New("dictionary modified concurrently")
)

type ImportOutcome struct {
	Mode            dictionary.ImportMode `json:"mode"`
	Version         string                `json:"version"`
	SkillCount      int                   `json:"skill_count"`
	SkillsAdded     int                   `json:"skills_added"`
	VariationsAdded int                   `json:"variations_added"`
	Skipped         []string              `json:"skipped"`
}

type DictionaryUsecase interface {
	Current(ctx context.Context) (*dictionary.Snapshot, error)
	GetVersion(ctx context.Context, version string) (*dictionary.Snapshot, error)
	AddSkill(ctx context.Context, name, category string) (*dictionary.Snapshot, error)
	RemoveSkill(ctx context.Context, name string) (*dictionary.Snapshot, error)
	AddVariation(ctx context.Context, variation, canonicalName string) (*dictionary.Snapshot, error)
	Export(ctx context.Context) (dictionary.Document, error)
	Import(ctx context.Context, doc dictionary.Document, mode dictionary.ImportMode, allowOlder bool) (ImportOutcome, error)
}

// Dictionary owns the one mutable piece of state in the system: the current
// dictionary snapshot. Readers take the published pointer without locking;
// mutations are serialized by the mutex, persisted, and only then published.
// The version column's primary key backstops concurrent writers in other
// processes.
type Dictionary struct {
	repo   repository.DictionaryRepository
	logger *logging.Logger

	mu      sync.Mutex
	current atomic.Pointer[dictionary.Snapshot]
}

func NewDictionaryUsecase(repo repository.DictionaryRepository, logger *logging.Logger) *Dictionary {
	return &Dictionary{repo: repo, logger: logger}
}

func (u *Dictionary) Current(ctx context.Context) (*dictionary.Snapshot, error) {
	if snap := u.current.Load(); snap != nil {
		return snap, nil
	}
	u.mu.Lock()
	defer u.mu.Unlock()
	return u.ensureLocked(ctx)
}

func (u *Dictionary) GetVersion(ctx context.Context, version string) (*dictionary.Snapshot, error) {
	snap, err := u.Current(ctx)
	if err != nil {
		return nil, err
	}
	if dictionary.CompareVersions(snap.Version(), version) == 0 {
		return snap, nil
	}

	doc, err := u.repo.LoadByVersion(ctx, version)
	if err != nil {
		if errors.Is(err, repository.ErrDictionaryVersionNotFound) {
			return nil, ErrVersionNotFound
		}
		u.logger.Error("load dictionary version", "version", version, "error", err)
		return nil, ErrInternal
	}
	pinned, err := dictionary.FromDocument(doc)
	if err != nil {
		u.logger.Error("corrupt dictionary document", "version", version, "error", err)
		return nil, ErrInternal
	}
	return pinned, nil
}

func (u *Dictionary) AddSkill(ctx context.Context, name, category string) (*dictionary.Snapshot, error) {
	return u.mutate(ctx, func(snap *dictionary.Snapshot, now time.Time) (*dictionary.Snapshot, error) {
		return snap.WithSkill(name, taxonomy.TechLayer(category), now)
	})
}

func (u *Dictionary) RemoveSkill(ctx context.Context, name string) (*dictionary.Snapshot, error) {
	return u.mutate(ctx, func(snap *dictionary.Snapshot, now time.Time) (*dictionary.Snapshot, error) {
		return snap.WithoutSkill(name, now)
	})
}

func (u *Dictionary) AddVariation(ctx context.Context, variation, canonicalName string) (*dictionary.Snapshot, error) {
	return u.mutate(ctx, func(snap *dictionary.Snapshot, now time.Time) (*dictionary.Snapshot, error) {
		return snap.WithVariation(variation, canonicalName, now)
	})
}

func (u *Dictionary) Export(ctx context.Context) (dictionary.Document, error) {
	snap, err := u.Current(ctx)
	if err != nil {
		return dictionary.Document{}, err
	}
	return snap.Document(), nil
}

func (u *Dictionary) Import(ctx context.Context, doc dictionary.Document, mode dictionary.ImportMode, allowOlder bool) (ImportOutcome, error) {
	outcome := ImportOutcome{Mode: mode, Skipped: []string{}}

	switch mode {
	case dictionary.ImportReplace:
		next, err := u.mutate(ctx, func(snap *dictionary.Snapshot, now time.Time) (*dictionary.Snapshot, error) {
			return snap.ReplaceDocument(doc, allowOlder, now)
		})
		if err != nil {
			return ImportOutcome{}, err
		}
		outcome.Version = next.Version()
		outcome.SkillCount = next.Len()
		outcome.SkillsAdded = next.Len()
		return outcome, nil

	case dictionary.ImportMerge:
		var rep dictionary.MergeReport
		next, err := u.mutate(ctx, func(snap *dictionary.Snapshot, now time.Time) (*dictionary.Snapshot, error) {
			merged, r, err := snap.MergeDocument(doc, allowOlder, now)
			if err != nil {
				return nil, err
			}
			rep = r
			return merged, nil
		})
		if err != nil {
			return ImportOutcome{}, err
		}
		outcome.Version = next.Version()
		outcome.SkillCount = next.Len()
		outcome.SkillsAdded = rep.SkillsAdded
		outcome.VariationsAdded = rep.VariationsAdded
		outcome.Skipped = rep.Skipped
		return outcome, nil

	default:
		return ImportOutcome{}, ErrInvalidInput
	}
}

func (u *Dictionary) mutate(ctx context.Context, op func(snap *dictionary.Snapshot, now time.Time) (*dictionary.Snapshot, error)) (*dictionary.Snapshot, error) {
	u.mu.Lock()
	defer u.mu.Unlock()

	snap, err := u.ensureLocked(ctx)
	if err != nil {
		return nil, err
	}

	next, err := op(snap, time.Now().UTC())
	if err != nil {
		return nil, err
	}

	if err := u.repo.Save(ctx, next.Document()); err != nil {
		if isUniqueViolation(err) {
			// another process published this version first; drop the stale
			// snapshot so the next read observes their edit
			u.current.Store(nil)
			return nil, ErrDictionaryConflict
		}
		u.logger.Error("persist dictionary version", "version", next.Version(), "error", err)
		return nil, ErrInternal
	}

	u.current.Store(next)
	u.logger.Info("dictionary version published", "version", next.Version(), "skills", next.Len())
	return next, nil
}

func (u *Dictionary) ensureLocked(ctx context.Context) (*dictionary.Snapshot, error) {
	if snap := u.current.Load(); snap != nil {
		return snap, nil
	}

	doc, found, err := u.repo.LoadLatest(ctx)
	if err != nil {
		u.logger.Error("load dictionary", "error", err)
		return nil, ErrInternal
	}

	if !found {
		snap := dictionary.Empty(time.Now().UTC())
		saveErr := u.repo.Save(ctx, snap.Document())
		if saveErr == nil {
			u.current.Store(snap)
			return snap, nil
		}
		if !isUniqueViolation(saveErr) {
			u.logger.Error("bootstrap dictionary", "error", saveErr)
			return nil, ErrInternal
		}
		// lost the bootstrap race, take the winner's document
		doc, found, err = u.repo.LoadLatest(ctx)
		if err != nil || !found {
			u.logger.Error("load dictionary after bootstrap race", "error", err)
			return nil, ErrInternal
		}
	}

	snap, err := dictionary.FromDocument(doc)
	if err != nil {
		u.logger.Error("corrupt dictionary document", "version", doc.Version, "error", err)
		return nil, ErrInternal
	}
	u.current.Store(snap)
	return snap, nil
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == "23505"
	}
	return false
}
