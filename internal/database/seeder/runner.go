package seeder

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"carenet/internal/database"
)

// Runner checks the schema every seeder needs before writing anything, then runs the
// seeders in order and stops at the first failure.
type Runner struct {
	Seeders []Seeder
	Logger  *log.Logger
}

func (r Runner) Run(ctx context.Context, db database.DB) error {
	if db == nil {
		return errors.New("nil db")
	}

	need := Columns{}
	for _, s := range r.Seeders {
		if s == nil {
			continue
		}
		for table, cols := range s.Requires() {
			need[table] = append(need[table], cols...)
		}
	}
	if err := checkColumns(ctx, db, need); err != nil {
		return err
	}

	for _, s := range r.Seeders {
		if s == nil {
			continue
		}
		start := time.Now()
		if err := s.Run(ctx, db); err != nil {
			return fmt.Errorf("seed %s: %w", s.Name(), err)
		}
		if r.Logger != nil {
			r.Logger.Printf("Seeder done | name=%s elapsed=%s", s.Name(), time.Since(start).Round(time.Millisecond))
		}
	}
	return nil
}
