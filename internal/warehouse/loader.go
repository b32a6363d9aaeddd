//-------------------------------------------------------------------------
//
// pgEdge ETL Pipeline
//
// Portions copyright (c) 2025 - 2026, pgEdge, Inc.
// This software is released under The PostgreSQL License
//
//-------------------------------------------------------------------------

package warehouse

import (
	"context"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/pgEdge/pgedge-etl/internal/logging"
	"github.com/pgEdge/pgedge-etl/internal/table"
)

// defaultBatchSize is used when the caller gives no batch size.
const defaultBatchSize = 500

// Loader writes tables into the warehouse with replace semantics: each
// load drops and recreates the target table. Concurrent runs against the
// same warehouse must be serialized by the caller.
type Loader struct {
	pool      *pgxpool.Pool
	schema    string
	batchSize int
}

// NewLoader creates a loader writing into the given warehouse schema.
// Rows are copied in batches of batchSize.
func NewLoader(pool *pgxpool.Pool, schema string, batchSize int) *Loader {
	if batchSize < 1 {
		batchSize = defaultBatchSize
	}
	return &Loader{pool: pool, schema: schema, batchSize: batchSize}
}

// EnsureSchema creates the target schema if it does not exist.
func (l *Loader) EnsureSchema(ctx context.Context) error {
	_, err := l.pool.Exec(ctx,
		fmt.Sprintf("CREATE SCHEMA IF NOT EXISTS %s", pgx.Identifier{l.schema}.Sanitize()))
	if err != nil {
		return fmt.Errorf("failed to create schema %s: %w", l.schema, err)
	}
	return nil
}

// Load replaces the named warehouse table with the contents of t.
func (l *Loader) Load(ctx context.Context, name string, t *table.Table) error {
	ident := pgx.Identifier{l.schema, name}

	if _, err := l.pool.Exec(ctx,
		fmt.Sprintf("DROP TABLE IF EXISTS %s", ident.Sanitize())); err != nil {
		return fmt.Errorf("failed to drop %s: %w", name, err)
	}

	defs := make([]string, 0, t.NumCols())
	names := make([]string, 0, t.NumCols())
	for _, col := range t.Columns() {
		defs = append(defs, fmt.Sprintf("%s %s",
			pgx.Identifier{col.Name()}.Sanitize(), sqlType(col.Type())))
		names = append(names, col.Name())
	}
	createSQL := fmt.Sprintf("CREATE TABLE %s (%s)",
		ident.Sanitize(), strings.Join(defs, ", "))
	if _, err := l.pool.Exec(ctx, createSQL); err != nil {
		return fmt.Errorf("failed to create %s: %w", name, err)
	}

	rows := make([][]any, t.NumRows())
	for i := range rows {
		row := make([]any, t.NumCols())
		for j, col := range t.Columns() {
			row[j] = col.Value(i)
		}
		rows[i] = row
	}

	var copied int64
	for start := 0; start < len(rows); start += l.batchSize {
		end := start + l.batchSize
		if end > len(rows) {
			end = len(rows)
		}
		n, err := l.pool.CopyFrom(ctx, ident, names, pgx.CopyFromRows(rows[start:end]))
		if err != nil {
			return fmt.Errorf("failed to copy into %s: %w", name, err)
		}
		copied += n
	}

	logging.Info().
		Str("table", name).
		Int64("rows", copied).
		Msg("Loaded table into warehouse")

	return nil
}

func sqlType(t table.Type) string {
	switch t {
	case table.String:
		return "TEXT"
	case table.Int:
		return "BIGINT"
	case table.Float:
		return "DOUBLE PRECISION"
	case table.Time:
		return "TIMESTAMP"
	default:
		return "TEXT"
	}
}
