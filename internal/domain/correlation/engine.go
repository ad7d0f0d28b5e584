package correlation

import (
	"skill-match/internal/domain/taxonomy"
)

type LayerResult struct {
	Layer          taxonomy.TechLayer `json:"layer"`
	Score          float64            `json:"score"`
	Weight         float64            `json:"weight"`
	MatchingSkills []string           `json:"matching_skills"`
	MissingSkills  []string           `json:"missing_skills"`
}

type Result struct {
	OverallScore      float64       `json:"overall_score"`
	LayerBreakdown    []LayerResult `json:"layer_breakdown"`
	DictionaryVersion string        `json:"dictionary_version,omitempty"`
}

// Correlate scores how well target covers current, layer by layer. Each layer
// score is the dot product of the two weight vectors over skills present on
// both sides; the overall score weighs layers by currentWeights. Skill
// identity is exact string match: both sides are expected to be canonicalized
// already, and terms still marked unresolved are ignored on both sides so two
// raw spellings of the same unknown skill can never correlate.
//
// missingSkills is one-directional: skills current lists that target lacks.
// Correlate(A, B) and Correlate(B, A) agree on every score but report
// different missing lists.
//
// Zero-weight layers stay in the breakdown with score 0 and empty skill
// lists. DictionaryVersion is left for the caller to stamp; the engine never
// consults the dictionary.
func Correlate(currentSkills taxonomy.LayerSkills, currentWeights taxonomy.LayerWeights, targetSkills taxonomy.LayerSkills) Result {
	breakdown := make([]LayerResult, 0, len(taxonomy.Layers()))
	overall := 0.0

	for _, layer := range taxonomy.Layers() {
		weight := currentWeights.Get(layer)
		if weight <= 0 {
			breakdown = append(breakdown, LayerResult{
				Layer:          layer,
				Score:          0,
				Weight:         weight,
				MatchingSkills: []string{},
				MissingSkills:  []string{},
			})
			continue
		}

		currentNames, currentByName := collapse(currentSkills[layer])
		_, targetByName := collapse(targetSkills[layer])

		matched := make([]string, 0, len(currentNames))
		missing := make([]string, 0)
		score := 0.0

		for _, name := range currentNames {
			tw, ok := targetByName[name]
			if !ok {
				missing = append(missing, name)
				continue
			}
			matched = append(matched, name)
			score += currentByName[name] * tw
		}

		score = clamp01(score)
		overall += score * weight

		breakdown = append(breakdown, LayerResult{
			Layer:          layer,
			Score:          score,
			Weight:         weight,
			MatchingSkills: matched,
			MissingSkills:  missing,
		})
	}

	return Result{
		OverallScore:   clamp01(overall),
		LayerBreakdown: breakdown,
	}
}

// collapse folds a layer's term list into per-name weights, summing
// duplicates and keeping first-appearance order. Unresolved terms are
// dropped.
func collapse(terms []taxonomy.SkillTerm) ([]string, map[string]float64) {
	names := make([]string, 0, len(terms))
	byName := make(map[string]float64, len(terms))
	for _, t := range terms {
		if !t.Resolved || t.Name == "" {
			continue
		}
		if _, seen := byName[t.Name]; !seen {
			names = append(names, t.Name)
		}
		byName[t.Name] += t.Weight
	}
	return names, byName
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
