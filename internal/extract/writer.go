//-------------------------------------------------------------------------
//
// pgEdge ETL Pipeline
//
// Portions copyright (c) 2025 - 2026, pgEdge, Inc.
// This software is released under The PostgreSQL License
//
//-------------------------------------------------------------------------

package extract

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"

	"github.com/pgEdge/pgedge-etl/internal/table"
)

// WriteTable writes t as a CSV artifact into dir, creating the directory
// if needed. Null cells are written as empty fields.
func WriteTable(dir, filename string, t *table.Table) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}

	path := filepath.Join(dir, filename)
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", filename, err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write(t.ColumnNames()); err != nil {
		return fmt.Errorf("%s: failed to write header: %w", filename, err)
	}

	row := make([]string, t.NumCols())
	for i := 0; i < t.NumRows(); i++ {
		for j, col := range t.Columns() {
			row[j] = col.Format(i)
		}
		if err := w.Write(row); err != nil {
			return fmt.Errorf("%s: failed to write row %d: %w", filename, i, err)
		}
	}

	w.Flush()
	if err := w.Error(); err != nil {
		return fmt.Errorf("%s: flush failed: %w", filename, err)
	}
	return nil
}
