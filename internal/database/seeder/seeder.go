package seeder

import (
	"context"

	"carenet/internal/database"
)

// Columns maps a table to the columns a seeder writes.
type Columns map[string][]string

// Seeder inserts one idempotent slice of demo data.
type Seeder interface {
	Name() string
	Requires() Columns
	Run(ctx context.Context, db database.DB) error
}
