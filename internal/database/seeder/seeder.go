package seeder

import (
	"context"

	"skill-match/internal/database"
)

// Seeder loads baseline data into an empty database. Implementations must be
// idempotent: reruns against an already-seeded database are no-ops.
type Seeder interface {
	Name() string
	Run(ctx context.Context, db database.DB) error
}
