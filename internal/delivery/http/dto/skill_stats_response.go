package dto

type SkillUsageResponse struct {
	Skill       string `json:"skill"`
	Layer       string `json:"layer"`
	SpecCount   int    `json:"spec_count"`
	ResumeCount int    `json:"resume_count"`
	TotalCount  int    `json:"total_count"`
}
