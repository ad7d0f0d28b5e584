package correlation

import (
	"math"
	"testing"

	"skill-match/internal/domain/taxonomy"
)

func almost(a, b float64) bool {
	return math.Abs(a-b) < 1e-9
}

func layerOf(t *testing.T, res Result, layer taxonomy.TechLayer) LayerResult {
	t.Helper()
	for _, lr := range res.LayerBreakdown {
		if lr.Layer == layer {
			return lr
		}
	}
	t.Fatalf("layer %s missing from breakdown", layer)
	return LayerResult{}
}

func TestCorrelate_WeightedOverlap(t *testing.T) {
	current := taxonomy.LayerSkills{
		taxonomy.LayerFrontend: {{Name: "React", Weight: 1.0, Resolved: true}},
	}
	target := taxonomy.LayerSkills{
		taxonomy.LayerFrontend: {
			{Name: "React", Weight: 0.6, Resolved: true},
			{Name: "Vue", Weight: 0.4, Resolved: true},
		},
	}
	weights := taxonomy.LayerWeights{Frontend: 1.0}

	res := Correlate(current, weights, target)

	if !almost(res.OverallScore, 0.6) {
		t.Fatalf("expected overall 0.6, got %f", res.OverallScore)
	}
	fe := layerOf(t, res, taxonomy.LayerFrontend)
	if !almost(fe.Score, 0.6) {
		t.Fatalf("expected frontend score 0.6, got %f", fe.Score)
	}
	if len(fe.MatchingSkills) != 1 || fe.MatchingSkills[0] != "React" {
		t.Fatalf("expected matching [React], got %v", fe.MatchingSkills)
	}
	if len(fe.MissingSkills) != 0 {
		t.Fatalf("target's extra skills must not count as missing, got %v", fe.MissingSkills)
	}
}

func TestCorrelate_SelfCorrelation(t *testing.T) {
	skills := taxonomy.LayerSkills{
		taxonomy.LayerBackend:  {{Name: "Go", Weight: 0.7, Resolved: true}, {Name: "PostgreSQL", Weight: 0.3, Resolved: true}},
		taxonomy.LayerFrontend: {{Name: "React", Weight: 1.0, Resolved: true}},
	}
	weights := taxonomy.LayerWeights{Backend: 0.6, Frontend: 0.4}

	res := Correlate(skills, weights, skills)

	// per-layer dot product of a vector with itself: 0.49+0.09 and 1.0
	wantBackend := 0.7*0.7 + 0.3*0.3
	be := layerOf(t, res, taxonomy.LayerBackend)
	if !almost(be.Score, wantBackend) {
		t.Fatalf("expected backend %f, got %f", wantBackend, be.Score)
	}
	fe := layerOf(t, res, taxonomy.LayerFrontend)
	if !almost(fe.Score, 1.0) {
		t.Fatalf("single full-weight skill must self-correlate to 1.0, got %f", fe.Score)
	}
	want := wantBackend*0.6 + 1.0*0.4
	if !almost(res.OverallScore, want) {
		t.Fatalf("expected overall %f, got %f", want, res.OverallScore)
	}
	if res.OverallScore < 0 || res.OverallScore > 1 {
		t.Fatalf("overall out of bounds: %f", res.OverallScore)
	}
}

func TestCorrelate_DisjointSets(t *testing.T) {
	current := taxonomy.LayerSkills{
		taxonomy.LayerBackend: {{Name: "Go", Weight: 1.0, Resolved: true}},
	}
	target := taxonomy.LayerSkills{
		taxonomy.LayerBackend: {{Name: "Java", Weight: 1.0, Resolved: true}},
	}
	weights := taxonomy.LayerWeights{Backend: 1.0}

	res := Correlate(current, weights, target)

	if res.OverallScore != 0 {
		t.Fatalf("disjoint sets must score 0, got %f", res.OverallScore)
	}
	be := layerOf(t, res, taxonomy.LayerBackend)
	if len(be.MissingSkills) != 1 || be.MissingSkills[0] != "Go" {
		t.Fatalf("expected missing [Go], got %v", be.MissingSkills)
	}
	if len(be.MatchingSkills) != 0 {
		t.Fatalf("expected no matches, got %v", be.MatchingSkills)
	}
}

func TestCorrelate_MissingSkillsAsymmetry(t *testing.T) {
	a := taxonomy.LayerSkills{
		taxonomy.LayerBackend: {{Name: "Go", Weight: 0.5, Resolved: true}, {Name: "Redis", Weight: 0.5, Resolved: true}},
	}
	b := taxonomy.LayerSkills{
		taxonomy.LayerBackend: {{Name: "Go", Weight: 0.5, Resolved: true}, {Name: "Kafka", Weight: 0.5, Resolved: true}},
	}
	weights := taxonomy.LayerWeights{Backend: 1.0}

	ab := Correlate(a, weights, b)
	ba := Correlate(b, weights, a)

	if !almost(ab.OverallScore, ba.OverallScore) {
		t.Fatalf("scores must be symmetric: %f vs %f", ab.OverallScore, ba.OverallScore)
	}
	if got := layerOf(t, ab, taxonomy.LayerBackend).MissingSkills; len(got) != 1 || got[0] != "Redis" {
		t.Fatalf("A->B missing expected [Redis], got %v", got)
	}
	if got := layerOf(t, ba, taxonomy.LayerBackend).MissingSkills; len(got) != 1 || got[0] != "Kafka" {
		t.Fatalf("B->A missing expected [Kafka], got %v", got)
	}
}

func TestCorrelate_ZeroWeightLayerInert(t *testing.T) {
	current := taxonomy.LayerSkills{
		taxonomy.LayerFrontend: {{Name: "React", Weight: 1.0, Resolved: true}},
		taxonomy.LayerDevops:   {{Name: "Docker", Weight: 1.0, Resolved: true}},
	}
	weights := taxonomy.LayerWeights{Frontend: 1.0}

	res := Correlate(current, weights, current)

	if !almost(res.OverallScore, 1.0) {
		t.Fatalf("expected overall 1.0, got %f", res.OverallScore)
	}
	if len(res.LayerBreakdown) != len(taxonomy.Layers()) {
		t.Fatalf("every layer must appear in the breakdown, got %d", len(res.LayerBreakdown))
	}
	dv := layerOf(t, res, taxonomy.LayerDevops)
	if dv.Score != 0 || len(dv.MatchingSkills) != 0 || len(dv.MissingSkills) != 0 {
		t.Fatalf("zero-weight layer must stay inert, got %+v", dv)
	}
}

func TestCorrelate_IgnoresUnresolvedTerms(t *testing.T) {
	current := taxonomy.LayerSkills{
		taxonomy.LayerFrontend: {
			{Name: "React", Weight: 0.5, Resolved: true},
			{Name: "NextJS", Weight: 0.5, Resolved: false},
		},
	}
	target := taxonomy.LayerSkills{
		taxonomy.LayerFrontend: {
			{Name: "React", Weight: 0.5, Resolved: true},
			{Name: "NextJS", Weight: 0.5, Resolved: false},
		},
	}
	weights := taxonomy.LayerWeights{Frontend: 1.0}

	res := Correlate(current, weights, target)

	fe := layerOf(t, res, taxonomy.LayerFrontend)
	if len(fe.MatchingSkills) != 1 || fe.MatchingSkills[0] != "React" {
		t.Fatalf("unresolved terms must never correlate, got %v", fe.MatchingSkills)
	}
	if len(fe.MissingSkills) != 0 {
		t.Fatalf("unresolved terms must not be reported missing, got %v", fe.MissingSkills)
	}
	if !almost(fe.Score, 0.25) {
		t.Fatalf("expected 0.5*0.5, got %f", fe.Score)
	}
}

func TestCorrelate_MergesDuplicateNames(t *testing.T) {
	current := taxonomy.LayerSkills{
		taxonomy.LayerBackend: {
			{Name: "Go", Weight: 0.3, Resolved: true},
			{Name: "Go", Weight: 0.2, Resolved: true},
			{Name: "Redis", Weight: 0.5, Resolved: true},
		},
	}
	target := taxonomy.LayerSkills{
		taxonomy.LayerBackend: {{Name: "Go", Weight: 1.0, Resolved: true}},
	}
	weights := taxonomy.LayerWeights{Backend: 1.0}

	res := Correlate(current, weights, target)

	be := layerOf(t, res, taxonomy.LayerBackend)
	if !almost(be.Score, 0.5) {
		t.Fatalf("duplicate entries must merge by weight sum, got %f", be.Score)
	}
	if len(be.MatchingSkills) != 1 {
		t.Fatalf("merged skill must be listed once, got %v", be.MatchingSkills)
	}
}

func TestCorrelate_Bounded(t *testing.T) {
	// weights deliberately overcommitted: the engine still clamps
	current := taxonomy.LayerSkills{
		taxonomy.LayerBackend:  {{Name: "Go", Weight: 1.0, Resolved: true}},
		taxonomy.LayerFrontend: {{Name: "React", Weight: 1.0, Resolved: true}},
	}
	weights := taxonomy.LayerWeights{Backend: 0.9, Frontend: 0.9}

	res := Correlate(current, weights, current)
	if res.OverallScore > 1 || res.OverallScore < 0 {
		t.Fatalf("overall must stay in [0,1], got %f", res.OverallScore)
	}
	for _, lr := range res.LayerBreakdown {
		if lr.Score < 0 || lr.Score > 1 {
			t.Fatalf("layer %s out of bounds: %f", lr.Layer, lr.Score)
		}
	}
}
