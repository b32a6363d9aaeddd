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

type sellersProcessor struct{}

func init() {
	Register(sellersProcessor{})
}

func (sellersProcessor) Name() string {
	return "sellers"
}

func (sellersProcessor) Process(t *table.Table) (*table.Table, error) {
	titleCaseColumn(t, "seller_city")
	if err := schema.Sellers.Validate(t); err != nil {
		return nil, err
	}
	return t, nil
}
