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

type categoriesProcessor struct{}

func init() {
	Register(categoriesProcessor{})
}

func (categoriesProcessor) Name() string {
	return "category_translation"
}

func (categoriesProcessor) Process(t *table.Table) (*table.Table, error) {
	t = dedupeRows(t)
	fillString(t, "product_category_name", "unknown")
	snakeCaseColumn(t, "product_category_name")
	snakeCaseColumn(t, "product_category_name_english")
	if err := schema.CategoryTranslation.Validate(t); err != nil {
		return nil, err
	}
	return t, nil
}
