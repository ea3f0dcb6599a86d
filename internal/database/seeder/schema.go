package seeder

import (
	"context"
	"fmt"
	"slices"
	"strings"

	"carenet/internal/database"
)

// checkColumns loads the public schema for every table in need with one query and reports
// all missing columns together.
func checkColumns(ctx context.Context, db database.DB, need Columns) error {
	if len(need) == 0 {
		return nil
	}
	tables := make([]string, 0, len(need))
	for table, cols := range need {
		if table == "" || slices.Contains(cols, "") {
			return fmt.Errorf("seeder requirement has an empty name: table=%q", table)
		}
		tables = append(tables, table)
	}
	slices.Sort(tables)

	rows, err := db.Query(ctx,
		`SELECT table_name, column_name FROM information_schema.columns
		 WHERE table_schema = 'public' AND table_name = ANY($1)`,
		tables,
	)
	if err != nil {
		return err
	}
	defer rows.Close()

	have := map[string]bool{}
	for rows.Next() {
		var table, col string
		if err := rows.Scan(&table, &col); err != nil {
			return err
		}
		have[table+"."+col] = true
	}
	if err := rows.Err(); err != nil {
		return err
	}

	var missing []string
	for _, table := range tables {
		for _, col := range need[table] {
			if !have[table+"."+col] {
				missing = append(missing, table+"."+col)
			}
		}
	}
	if len(missing) > 0 {
		return fmt.Errorf("schema mismatch: missing columns %s", strings.Join(missing, ", "))
	}
	return nil
}
