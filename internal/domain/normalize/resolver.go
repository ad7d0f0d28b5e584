package normalize

import (
	"strings"

	"skill-match/internal/domain/dictionary"
	"skill-match/internal/domain/taxonomy"
)

// Resolution is the outcome of matching one raw skill term against a
// dictionary snapshot.
type Resolution struct {
	Input         string             `json:"input"`
	CanonicalName string             `json:"canonical_name,omitempty"`
	Category      taxonomy.TechLayer `json:"category,omitempty"`
	Resolved      bool               `json:"resolved"`
}

// Resolve matches raw against the snapshot's canonical names and variations,
// case-insensitively after trimming. No stemming, no fuzzy distance: a term
// either resolves exactly or stays unknown. Pure function of its inputs, safe
// to call concurrently.
func Resolve(raw string, snap *dictionary.Snapshot) Resolution {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return Resolution{Input: trimmed}
	}
	sk, ok := snap.Find(trimmed)
	if !ok {
		return Resolution{Input: trimmed}
	}
	return Resolution{
		Input:         trimmed,
		CanonicalName: sk.Name,
		Category:      sk.Category,
		Resolved:      true,
	}
}
