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
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/pgEdge/pgedge-etl/internal/logging"
)

const errorLogTable = "etl_error_log"

// ErrorLog appends run failures to the warehouse error-log table. The
// table is created on first use.
type ErrorLog struct {
	pool   *pgxpool.Pool
	schema string
}

// NewErrorLog creates an error log writing into the given schema.
func NewErrorLog(pool *pgxpool.Pool, schema string) *ErrorLog {
	return &ErrorLog{pool: pool, schema: schema}
}

// Append records one failure with the failed table's name and the
// failure time.
func (e *ErrorLog) Append(ctx context.Context, tableName, message string, at time.Time) error {
	ident := pgx.Identifier{e.schema, errorLogTable}

	createSQL := fmt.Sprintf(`
CREATE TABLE IF NOT EXISTS %s (
    id            BIGSERIAL PRIMARY KEY,
    table_name    TEXT DEFAULT 'unknown',
    error_message TEXT NOT NULL,
    error_time    TIMESTAMP NOT NULL
)`, ident.Sanitize())
	if _, err := e.pool.Exec(ctx, createSQL); err != nil {
		return fmt.Errorf("failed to create error log table: %w", err)
	}

	insertSQL := fmt.Sprintf(`
INSERT INTO %s (table_name, error_message, error_time) VALUES ($1, $2, $3)`,
		ident.Sanitize())
	if _, err := e.pool.Exec(ctx, insertSQL, tableName, message, at); err != nil {
		return fmt.Errorf("failed to append to error log: %w", err)
	}

	logging.Debug().
		Str("table", tableName).
		Str("message", message).
		Msg("Recorded failure in error log")

	return nil
}
