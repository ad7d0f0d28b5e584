package dto

import (
	"time"

	"github.com/google/uuid"
)

type SkillTermResponse struct {
	Skill    string  `json:"skill"`
	Weight   float64 `json:"weight"`
	Resolved bool    `json:"resolved"`
}

type LayerWeightsResponse struct {
	Frontend float64 `json:"frontend"`
	Backend  float64 `json:"backend"`
	Database float64 `json:"database"`
	Cloud    float64 `json:"cloud"`
	DevOps   float64 `json:"devops"`
	Others   float64 `json:"others"`
}

type JDSpecResponse struct {
	ID                uuid.UUID                      `json:"id"`
	Role              string                         `json:"role"`
	LayerWeights      LayerWeightsResponse           `json:"layer_weights"`
	Skills            map[string][]SkillTermResponse `json:"skills"`
	DictionaryVersion string                         `json:"dictionary_version"`
	CreatedAt         time.Time                      `json:"created_at"`
	UpdatedAt         time.Time                      `json:"updated_at"`
}

type JDSpecUpsertResponse struct {
	Spec          JDSpecResponse `json:"spec"`
	UnknownSkills []string       `json:"unknown_skills"`
}

type JDSpecListResponse struct {
	Items []JDSpecResponse `json:"items"`
	Total int              `json:"total"`
}
