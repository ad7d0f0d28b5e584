package usecase

import (
	"context"
	"time"
)

// CorrelationCache fronts correlation and stats reads. Implementations must
// degrade to cache misses when the backing store is unavailable so scoring
// never depends on it.
type CorrelationCache interface {
	GetJSON(ctx context.Context, key string, out any) (bool, error)
	SetJSON(ctx context.Context, key string, value any, ttl time.Duration) error
	InvalidateSpecCorrelations(ctx context.Context, specID string) error
}
