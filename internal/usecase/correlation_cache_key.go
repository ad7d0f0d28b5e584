package usecase

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"time"
)

// Cache keys hash a canonical JSON payload so arbitrary identifiers never
// leak raw into the keyspace. Resume-match keys carry the spec id as a plain
// segment, which is what spec-scoped invalidation patterns on.

type correlatePairKey struct {
	Current string `json:"current"`
	Target  string `json:"target"`
}

type similarListKey struct {
	Spec  string `json:"spec"`
	Limit int    `json:"limit"`
}

type resumeMatchKey struct {
	Resume string `json:"resume"`
}

type resumeMatchPageKey struct {
	Limit    int     `json:"limit"`
	Offset   int     `json:"offset"`
	MinScore float64 `json:"min_score"`
}

type usageStatsKey struct {
	Category string `json:"category"`
	From     string `json:"from"`
	To       string `json:"to"`
}

func correlateCacheKey(currentID, targetID string) string {
	return hashedKey("correlate:", correlatePairKey{Current: currentID, Target: targetID})
}

func similarCacheKey(specID string, limit int) string {
	return hashedKey("similar:", similarListKey{Spec: specID, Limit: limit})
}

func matchCacheKey(specID, resumeID string) string {
	return hashedKey("match:"+specID+":", resumeMatchKey{Resume: resumeID})
}

func matchPageCacheKey(specID string, limit, offset int, minScore float64) string {
	return hashedKey("match:"+specID+":", resumeMatchPageKey{Limit: limit, Offset: offset, MinScore: minScore})
}

func statsCacheKey(category string, from, to *time.Time) string {
	key := usageStatsKey{Category: category}
	if from != nil {
		key.From = from.UTC().Format(time.RFC3339)
	}
	if to != nil {
		key.To = to.UTC().Format(time.RFC3339)
	}
	return hashedKey("stats:", key)
}

func hashedKey(family string, payload any) string {
	raw, err := json.Marshal(payload)
	if err != nil {
		raw = []byte(family)
	}
	sum := sha256.Sum256(raw)
	return family + hex.EncodeToString(sum[:])
}
