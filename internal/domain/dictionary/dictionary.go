package dictionary

import (
	"errors"
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"

	"skill-match/internal/domain/taxonomy"
)

var (
	ErrDuplicateSkill     = errors.New("canonical skill already exists")
	ErrDuplicateVariation = errors.New("variation already resolves to a skill")
	ErrSkillNotFound      = errors.New("canonical skill not found")
	ErrVersionConflict    = errors.New("imported dictionary version is older than current")
)

const FirstVersion = "1"

type ImportMode string

const (
	ImportReplace ImportMode = "replace"
	ImportMerge   ImportMode = "merge"
)

type CanonicalSkill struct {
	Name       string             `json:"name"`
	Category   taxonomy.TechLayer `json:"category"`
	Variations []string           `json:"variations"`
}

// Document is the serializable form of one dictionary version, used for
// persistence and export/import.
type Document struct {
	Version   string           `json:"version"`
	Skills    []CanonicalSkill `json:"skills"`
	CreatedAt time.Time        `json:"created_at"`
	UpdatedAt time.Time        `json:"updated_at"`
}

type MergeReport struct {
	SkillsAdded     int      `json:"skills_added"`
	VariationsAdded int      `json:"variations_added"`
	Skipped         []string `json:"skipped"`
}

// Snapshot is one immutable published dictionary version. Mutating methods
// never modify the receiver; they return a fresh snapshot carrying the next
// version so historical results stay pinned to the version they were built
// against.
type Snapshot struct {
	version   string
	createdAt time.Time
	updatedAt time.Time
	skills    []CanonicalSkill
	byTerm    map[string]int
}

func Empty(now time.Time) *Snapshot {
	return &Snapshot{
		version:   FirstVersion,
		createdAt: now,
		updatedAt: now,
		skills:    []CanonicalSkill{},
		byTerm:    map[string]int{},
	}
}

// FromDocument rebuilds a snapshot from its persisted form, rejecting
// documents whose terms do not resolve to exactly one skill each.
func FromDocument(doc Document) (*Snapshot, error) {
	version := strings.TrimSpace(doc.Version)
	if version == "" {
		version = FirstVersion
	}
	return build(version, doc.Skills, doc.CreatedAt, doc.UpdatedAt)
}

func (s *Snapshot) Version() string      { return s.version }
func (s *Snapshot) CreatedAt() time.Time { return s.createdAt }
func (s *Snapshot) UpdatedAt() time.Time { return s.updatedAt }
func (s *Snapshot) Len() int             { return len(s.skills) }

func (s *Snapshot) Skills() []CanonicalSkill {
	out := make([]CanonicalSkill, len(s.skills))
	for i, sk := range s.skills {
		out[i] = CanonicalSkill{
			Name:       sk.Name,
			Category:   sk.Category,
			Variations: append([]string(nil), sk.Variations...),
		}
	}
	return out
}

// Find resolves a term to its canonical skill, matching canonical names and
// variations case-insensitively after trimming.
func (s *Snapshot) Find(term string) (CanonicalSkill, bool) {
	if s == nil {
		return CanonicalSkill{}, false
	}
	i, ok := s.byTerm[fold(term)]
	if !ok {
		return CanonicalSkill{}, false
	}
	return s.skills[i], true
}

func (s *Snapshot) Document() Document {
	return Document{
		Version:   s.version,
		Skills:    s.Skills(),
		CreatedAt: s.createdAt,
		UpdatedAt: s.updatedAt,
	}
}

func (s *Snapshot) WithSkill(name string, category taxonomy.TechLayer, now time.Time) (*Snapshot, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, taxonomy.ErrBlankSkill
	}
	layer, err := taxonomy.ParseLayer(string(category))
	if err != nil {
		return nil, err
	}
	if _, ok := s.Find(name); ok {
		return nil, fmt.Errorf("%w: %s", ErrDuplicateSkill, name)
	}

	skills := append(s.Skills(), CanonicalSkill{Name: name, Category: layer, Variations: []string{}})
	return build(nextVersion(s.version), skills, s.createdAt, now)
}

func (s *Snapshot) WithoutSkill(name string, now time.Time) (*Snapshot, error) {
	key := fold(name)
	skills := s.Skills()
	for i, sk := range skills {
		if fold(sk.Name) != key {
			continue
		}
		skills = append(skills[:i], skills[i+1:]...)
		return build(nextVersion(s.version), skills, s.createdAt, now)
	}
	return nil, fmt.Errorf("%w: %s", ErrSkillNotFound, strings.TrimSpace(name))
}

func (s *Snapshot) WithVariation(variation, canonicalName string, now time.Time) (*Snapshot, error) {
	variation = strings.TrimSpace(variation)
	if variation == "" {
		return nil, taxonomy.ErrBlankSkill
	}
	target, ok := s.Find(canonicalName)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrSkillNotFound, strings.TrimSpace(canonicalName))
	}
	if _, ok := s.Find(variation); ok {
		return nil, fmt.Errorf("%w: %s", ErrDuplicateVariation, variation)
	}

	key := fold(target.Name)
	skills := s.Skills()
	for i, sk := range skills {
		if fold(sk.Name) == key {
			skills[i].Variations = append(skills[i].Variations, variation)
			break
		}
	}
	return build(nextVersion(s.version), skills, s.createdAt, now)
}

// ReplaceDocument swaps the whole skill set for the imported one. The
// imported version only gates the conflict check; the published snapshot
// always carries the next version in this dictionary's own sequence.
func (s *Snapshot) ReplaceDocument(doc Document, allowOlder bool, now time.Time) (*Snapshot, error) {
	if !allowOlder && CompareVersions(doc.Version, s.version) < 0 {
		return nil, fmt.Errorf("%w: imported %s, current %s", ErrVersionConflict, doc.Version, s.version)
	}
	return build(nextVersion(s.version), doc.Skills, s.createdAt, now)
}

// MergeDocument adds imported skills and variations that are not already
// present. Conflicting items (same name under a different category, or terms
// that already resolve elsewhere) are skipped one by one instead of failing
// the whole import.
func (s *Snapshot) MergeDocument(doc Document, allowOlder bool, now time.Time) (*Snapshot, MergeReport, error) {
	if !allowOlder && CompareVersions(doc.Version, s.version) < 0 {
		return nil, MergeReport{}, fmt.Errorf("%w: imported %s, current %s", ErrVersionConflict, doc.Version, s.version)
	}

	rep := MergeReport{Skipped: []string{}}
	skills := s.Skills()
	taken := make(map[string]int, len(s.byTerm))
	for term, i := range s.byTerm {
		taken[term] = i
	}

	for _, in := range doc.Skills {
		name := strings.TrimSpace(in.Name)
		if name == "" {
			continue
		}
		layer, err := taxonomy.ParseLayer(string(in.Category))
		if err != nil {
			rep.Skipped = append(rep.Skipped, name)
			continue
		}

		idx, exists := taken[fold(name)]
		if exists && fold(skills[idx].Name) != fold(name) {
			// resolves to another skill's variation
			rep.Skipped = append(rep.Skipped, name)
			continue
		}
		if exists && skills[idx].Category != layer {
			rep.Skipped = append(rep.Skipped, name)
			continue
		}
		if !exists {
			skills = append(skills, CanonicalSkill{Name: name, Category: layer, Variations: []string{}})
			idx = len(skills) - 1
			taken[fold(name)] = idx
			rep.SkillsAdded++
		}

		for _, v := range in.Variations {
			v = strings.TrimSpace(v)
			if v == "" {
				continue
			}
			if _, clash := taken[fold(v)]; clash {
				continue
			}
			skills[idx].Variations = append(skills[idx].Variations, v)
			taken[fold(v)] = idx
			rep.VariationsAdded++
		}
	}

	next, err := build(nextVersion(s.version), skills, s.createdAt, now)
	if err != nil {
		return nil, MergeReport{}, err
	}
	return next, rep, nil
}

// CompareVersions orders two version strings numerically, falling back to a
// plain string compare when either side is not a decimal counter.
func CompareVersions(a, b string) int {
	na, errA := strconv.ParseInt(strings.TrimSpace(a), 10, 64)
	nb, errB := strconv.ParseInt(strings.TrimSpace(b), 10, 64)
	if errA == nil && errB == nil {
		switch {
		case na < nb:
			return -1
		case na > nb:
			return 1
		default:
			return 0
		}
	}
	return strings.Compare(strings.TrimSpace(a), strings.TrimSpace(b))
}

func nextVersion(v string) string {
	n, err := strconv.ParseInt(strings.TrimSpace(v), 10, 64)
	if err != nil || n < 0 {
		n = 0
	}
	return strconv.FormatInt(n+1, 10)
}

func fold(term string) string {
	return strings.ToLower(strings.TrimSpace(term))
}

func build(version string, skills []CanonicalSkill, createdAt, updatedAt time.Time) (*Snapshot, error) {
	out := make([]CanonicalSkill, 0, len(skills))
	byTerm := make(map[string]int, len(skills))

	for _, sk := range skills {
		name := strings.TrimSpace(sk.Name)
		if name == "" {
			return nil, taxonomy.ErrBlankSkill
		}
		layer, err := taxonomy.ParseLayer(string(sk.Category))
		if err != nil {
			return nil, fmt.Errorf("%w: skill %s", err, name)
		}
		if _, dup := byTerm[fold(name)]; dup {
			return nil, fmt.Errorf("%w: %s", ErrDuplicateSkill, name)
		}

		idx := len(out)
		byTerm[fold(name)] = idx
		variations := make([]string, 0, len(sk.Variations))
		for _, v := range sk.Variations {
			v = strings.TrimSpace(v)
			if v == "" {
				return nil, taxonomy.ErrBlankSkill
			}
			if _, dup := byTerm[fold(v)]; dup {
				return nil, fmt.Errorf("%w: %s", ErrDuplicateVariation, v)
			}
			byTerm[fold(v)] = idx
			variations = append(variations, v)
		}
		out = append(out, CanonicalSkill{Name: name, Category: layer, Variations: variations})
	}

	sort.Slice(out, func(i, j int) bool { return fold(out[i].Name) < fold(out[j].Name) })

	byTerm = make(map[string]int, len(byTerm))
	for i, sk := range out {
		byTerm[fold(sk.Name)] = i
		for _, v := range sk.Variations {
			byTerm[fold(v)] = i
		}
	}

	return &Snapshot{
		version:   version,
		createdAt: createdAt,
		updatedAt: updatedAt,
		skills:    out,
		byTerm:    byTerm,
	}, nil
}
