package ws

import (
	"encoding/json"
	"strings"
	"sync/atomic"
	"time"
)

// ReviewEvent is the wire shape pushed to review-queue subscribers. Action
// and DictionaryVersion are only set on resolution events; Frequency only
// when a new sighting lands in the queue.
type ReviewEvent struct {
	Type              string `json:"type"`
	Skill             string `json:"skill"`
	Action            string `json:"action,omitempty"`
	Frequency         int    `json:"frequency,omitempty"`
	DictionaryVersion string `json:"dictionary_version,omitempty"`
	Timestamp         string `json:"timestamp"`
}

var defaultHub atomic.Pointer[Hub]

func SetDefaultHub(h *Hub) {
	defaultHub.Store(h)
}

// NotifyUnknownRecorded announces a queue sighting: a term no spec could
// resolve was recorded (or its frequency bumped).
func NotifyUnknownRecorded(skill string, frequency int) {
	publish(ReviewEvent{
		Type:      "unknown_skill_recorded",
		Skill:     skill,
		Frequency: frequency,
	})
}

// NotifyReviewResolved announces that a reviewer closed a queue item. For
// approvals the event carries the dictionary version the decision published.
func NotifyReviewResolved(skill, action, dictionaryVersion string) {
	publish(ReviewEvent{
		Type:              "review_resolved",
		Skill:             skill,
		Action:            action,
		DictionaryVersion: dictionaryVersion,
	})
}

func publish(evt ReviewEvent) {
	h := defaultHub.Load()
	if h == nil {
		return
	}

	evt.Skill = strings.TrimSpace(evt.Skill)
	if evt.Skill == "" {
		return
	}
	evt.Timestamp = time.Now().UTC().Format(time.RFC3339)

	b, err := json.Marshal(evt)
	if err != nil {
		return
	}
	h.Broadcast(b)
}
