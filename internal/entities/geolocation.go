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

type geolocationProcessor struct{}

func init() {
	Register(geolocationProcessor{})
}

func (geolocationProcessor) Name() string {
	return "geolocation"
}

func (geolocationProcessor) Process(t *table.Table) (*table.Table, error) {
	t = dedupeRows(t)
	titleCaseColumn(t, "geolocation_city")
	if err := schema.Geolocation.Validate(t); err != nil {
		return nil, err
	}
	return t, nil
}
