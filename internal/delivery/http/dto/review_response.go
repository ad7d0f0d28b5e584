package dto

import "time"

type ReviewItemResponse struct {
	Name      string    `json:"name"`
	Frequency int       `json:"frequency"`
	FirstSeen time.Time `json:"first_seen"`
	LastSeen  time.Time `json:"last_seen"`
	Sources   []string  `json:"sources"`
}

type ReviewDecisionResponse struct {
	Skill             string `json:"skill"`
	Action            string `json:"action"`
	DictionaryVersion string `json:"dictionary_version,omitempty"`
}
