package dto

type DictionarySkillResponse struct {
	Name       string   `json:"name"`
	Category   string   `json:"category"`
	Variations []string `json:"variations"`
}

type DictionaryResponse struct {
	Version    string                    `json:"version"`
	SkillCount int                       `json:"skill_count"`
	Skills     []DictionarySkillResponse `json:"skills"`
}

type ImportOutcomeResponse struct {
	Mode            string   `json:"mode"`
	Version         string   `json:"version"`
	SkillCount      int      `json:"skill_count"`
	SkillsAdded     int      `json:"skills_added"`
	VariationsAdded int      `json:"variations_added"`
	Skipped         []string `json:"skipped"`
}
