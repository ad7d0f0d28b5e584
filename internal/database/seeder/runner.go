package seeder

import (
	"context"
	"fmt"
	"time"

	"skill-match/internal/database"
	"skill-match/internal/pkg/logging"
)

// Runner executes seeders in order and stops at the first failure. Order
// matters: later seeders may reference rows earlier ones created.
type Runner struct {
	Seeders []Seeder
	Logger  *logging.Logger
}

func (r Runner) Run(ctx context.Context, db database.DB) error {
	if db == nil {
		return fmt.Errorf("nil db")
	}
	for _, s := range r.Seeders {
		if s == nil {
			continue
		}
		start := time.Now()
		if err := s.Run(ctx, db); err != nil {
			return fmt.Errorf("seed %s: %w", s.Name(), err)
		}
		r.Logger.Info("seeder finished", "name", s.Name(), "took", time.Since(start).String())
	}
	return nil
}
