//-------------------------------------------------------------------------
//
// pgEdge ETL Pipeline
//
// Portions copyright (c) 2025 - 2026, pgEdge, Inc.
// This software is released under The PostgreSQL License
//
//-------------------------------------------------------------------------

package entities

import (
	"github.com/pgEdge/pgedge-etl/internal/schema"
	"github.com/pgEdge/pgedge-etl/internal/table"
)

type ordersProcessor struct{}

func init() {
	Register(ordersProcessor{})
}

func (ordersProcessor) Name() string {
	return "orders"
}

// Process validates the orders table. The timestamp columns arrive parsed
// by the extract reader, which coerces malformed timestamp text to null
// for this entity only.
func (ordersProcessor) Process(t *table.Table) (*table.Table, error) {
	if err := schema.Orders.Validate(t); err != nil {
		return nil, err
	}
	return t, nil
}
