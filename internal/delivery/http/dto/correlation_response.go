package dto

import "github.com/google/uuid"

type LayerScoreResponse struct {
	Layer          string   `json:"layer"`
	Score          float64  `json:"score"`
	Weight         float64  `json:"weight"`
	MatchingSkills []string `json:"matching_skills"`
	MissingSkills  []string `json:"missing_skills"`
}

type CorrelationResponse struct {
	OverallScore      float64              `json:"overall_score"`
	LayerBreakdown    []LayerScoreResponse `json:"layer_breakdown"`
	DictionaryVersion string               `json:"dictionary_version"`
}

type SpecSimilarityResponse struct {
	SpecID uuid.UUID `json:"spec_id"`
	Role   string    `json:"role"`
	Score  float64   `json:"score"`
}

type ResumeMatchResponse struct {
	ResumeID      uuid.UUID           `json:"resume_id"`
	CandidateName string              `json:"candidate_name"`
	Correlation   CorrelationResponse `json:"correlation"`
}

type ResumeMatchPageResponse struct {
	Matches []ResumeMatchResponse `json:"matches"`
	Total   int                   `json:"total"`
}
