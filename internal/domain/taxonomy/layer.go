package taxonomy

import (
	"errors"
	"fmt"
	"math"
	"strings"
)

type TechLayer string

const (
	LayerFrontend TechLayer = "frontend"
	LayerBackend  TechLayer = "backend"
	LayerDatabase TechLayer = "database"
	LayerCloud    TechLayer = "cloud"
	LayerDevops   TechLayer = "devops"
	LayerOthers   TechLayer = "others"
)

// WeightTolerance is the allowed deviation when a weight set must sum to 1.0.
const WeightTolerance = 0.001

var (
	ErrUnknownLayer   = errors.New("unknown tech layer")
	ErrWeightRange    = errors.New("weight out of range")
	ErrLayerWeightSum = errors.New("layer weights must sum to 1.0")
	ErrSkillWeightSum = errors.New("skill weights must sum to 1.0")
	ErrEmptyLayer     = errors.New("weighted layer has no skills")
	ErrBlankSkill     = errors.New("blank skill name")
)

func Layers() []TechLayer {
	return []TechLayer{LayerFrontend, LayerBackend, LayerDatabase, LayerCloud, LayerDevops, LayerOthers}
}

func ParseLayer(s string) (TechLayer, error) {
	switch TechLayer(strings.ToLower(strings.TrimSpace(s))) {
	case LayerFrontend:
		return LayerFrontend, nil
	case LayerBackend:
		return LayerBackend, nil
	case LayerDatabase:
		return LayerDatabase, nil
	case LayerCloud:
		return LayerCloud, nil
	case LayerDevops:
		return LayerDevops, nil
	case LayerOthers:
		return LayerOthers, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownLayer, s)
	}
}

type LayerWeights struct {
	Frontend float64 `json:"frontend"`
	Backend  float64 `json:"backend"`
	Database float64 `json:"database"`
	Cloud    float64 `json:"cloud"`
	Devops   float64 `json:"devops"`
	Others   float64 `json:"others"`
}

func (w LayerWeights) Get(layer TechLayer) float64 {
	switch layer {
	case LayerFrontend:
		return w.Frontend
	case LayerBackend:
		return w.Backend
	case LayerDatabase:
		return w.Database
	case LayerCloud:
		return w.Cloud
	case LayerDevops:
		return w.Devops
	case LayerOthers:
		return w.Others
	default:
		return 0
	}
}

func (w LayerWeights) Sum() float64 {
	return w.Frontend + w.Backend + w.Database + w.Cloud + w.Devops + w.Others
}

func (w LayerWeights) Validate() error {
	for _, l := range Layers() {
		v := w.Get(l)
		if v < 0 || v > 1 {
			return fmt.Errorf("%w: layer %s = %v", ErrWeightRange, l, v)
		}
	}
	if math.Abs(w.Sum()-1.0) > WeightTolerance {
		return fmt.Errorf("%w: got %v", ErrLayerWeightSum, w.Sum())
	}
	return nil
}

// SkillTerm is one weighted skill entry. Resolved entries carry the canonical
// dictionary name; unresolved entries keep the raw text as submitted so that
// two different raw spellings are never treated as the same skill downstream.
type SkillTerm struct {
	Name     string  `json:"name"`
	Weight   float64 `json:"weight"`
	Resolved bool    `json:"resolved"`
}

type LayerSkills map[TechLayer][]SkillTerm

// Validate enforces the builder invariants: every entry has a non-blank name
// and a weight in (0,1]; every layer with nonzero weight is non-empty and its
// skill weights sum to 1.0 within tolerance. Zero-weight layers may carry
// skills; they are inert and their sums are not checked.
func (ls LayerSkills) Validate(weights LayerWeights) error {
	for layer, terms := range ls {
		if _, err := ParseLayer(string(layer)); err != nil {
			return err
		}
		for _, t := range terms {
			if strings.TrimSpace(t.Name) == "" {
				return fmt.Errorf("%w: layer %s", ErrBlankSkill, layer)
			}
			if t.Weight <= 0 || t.Weight > 1 {
				return fmt.Errorf("%w: skill %s = %v", ErrWeightRange, t.Name, t.Weight)
			}
		}
	}

	for _, layer := range Layers() {
		lw := weights.Get(layer)
		if lw <= 0 {
			continue
		}
		terms := ls[layer]
		if len(terms) == 0 {
			return fmt.Errorf("%w: layer %s has weight %v", ErrEmptyLayer, layer, lw)
		}
		sum := 0.0
		for _, t := range terms {
			sum += t.Weight
		}
		if math.Abs(sum-1.0) > WeightTolerance {
			return fmt.Errorf("%w: layer %s got %v", ErrSkillWeightSum, layer, sum)
		}
	}
	return nil
}
