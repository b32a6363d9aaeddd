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

type customersProcessor struct{}

func init() {
	Register(customersProcessor{})
}

func (customersProcessor) Name() string {
	return "customers"
}

func (customersProcessor) Process(t *table.Table) (*table.Table, error) {
	titleCaseColumn(t, "customer_city")
	if err := schema.Customers.Validate(t); err != nil {
		return nil, err
	}
	return t, nil
}
