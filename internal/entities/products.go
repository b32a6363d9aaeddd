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

// productDimensionColumns are the physical measurements without which a
// product row is unrecoverable.
var productDimensionColumns = []string{
	"product_weight_g", "product_length_cm", "product_height_cm", "product_width_cm",
}

type productsProcessor struct{}

func init() {
	Register(productsProcessor{})
}

func (productsProcessor) Name() string {
	return "products"
}

func (productsProcessor) Process(t *table.Table) (*table.Table, error) {
	// The source extract misspells the two length columns.
	if t.HasCol("product_name_lenght") {
		if err := t.RenameColumn("product_name_lenght", "product_name_length"); err != nil {
			return nil, err
		}
	}
	if t.HasCol("product_description_lenght") {
		if err := t.RenameColumn("product_description_lenght", "product_description_length"); err != nil {
			return nil, err
		}
	}

	t = dropNullRows(t, productDimensionColumns...)
	fillString(t, "product_category_name", "unknown")
	fillFloatMedian(t, "product_name_length")
	fillFloatMedian(t, "product_description_length")
	fillInt(t, "product_photos_qty", 1)

	if err := schema.Products.Validate(t); err != nil {
		return nil, err
	}
	return t, nil
}
