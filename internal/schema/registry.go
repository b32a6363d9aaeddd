//-------------------------------------------------------------------------
//
// pgEdge ETL Pipeline
//
// Portions copyright (c) 2025 - 2026, pgEdge, Inc.
// This software is released under The PostgreSQL License
//
//-------------------------------------------------------------------------

// Package schema declares the expected shape of every source entity: the
// column types the extract reader must produce, and the constraint models
// the cleaned tables must satisfy.
package schema

import (
	"fmt"

	"github.com/pgEdge/pgedge-etl/internal/table"
)

// ColumnSpec declares one expected column of a raw extract.
type ColumnSpec struct {
	Name string
	Type table.Type
}

// FileSchema declares how a raw extract is typed when read.
type FileSchema struct {
	// File is the extract file name.
	File string

	// Columns lists the expected columns in file order. Time columns are
	// parsed as calendar timestamps.
	Columns []ColumnSpec

	// LenientDates coerces unparseable timestamp text to null instead of
	// failing the read. Only the orders extract needs this.
	LenientDates bool
}

// TimeColumns returns the names of the columns parsed as timestamps.
func (fs FileSchema) TimeColumns() []string {
	var names []string
	for _, c := range fs.Columns {
		if c.Type == table.Time {
			names = append(names, c.Name)
		}
	}
	return names
}

// registry maps entity name to its file schema. One entry per base entity
// plus order items.
var registry = map[string]FileSchema{
	"customers": {
		File: "olist_customers_dataset.csv",
		Columns: []ColumnSpec{
			{"customer_id", table.String},
			{"customer_unique_id", table.String},
			{"customer_zip_code_prefix", table.Int},
			{"customer_city", table.String},
			{"customer_state", table.String},
		},
	},
	"geolocation": {
		File: "olist_geolocation_dataset.csv",
		Columns: []ColumnSpec{
			{"geolocation_zip_code_prefix", table.Int},
			{"geolocation_lat", table.Float},
			{"geolocation_lng", table.Float},
			{"geolocation_city", table.String},
			{"geolocation_state", table.String},
		},
	},
	"order_items": {
		File: "olist_order_items_dataset.csv",
		Columns: []ColumnSpec{
			{"order_id", table.String},
			{"order_item_id", table.Int},
			{"product_id", table.String},
			{"seller_id", table.String},
			{"shipping_limit_date", table.Time},
			{"price", table.Float},
			{"freight_value", table.Float},
		},
	},
	"order_payments": {
		File: "olist_order_payments_dataset.csv",
		Columns: []ColumnSpec{
			{"order_id", table.String},
			{"payment_sequential", table.Int},
			{"payment_type", table.String},
			{"payment_installments", table.Int},
			{"payment_value", table.Float},
		},
	},
	"order_reviews": {
		File: "olist_order_reviews_dataset.csv",
		Columns: []ColumnSpec{
			{"review_id", table.String},
			{"order_id", table.String},
			{"review_score", table.Int},
			{"review_comment_title", table.String},
			{"review_comment_message", table.String},
			{"review_creation_date", table.Time},
			{"review_answer_timestamp", table.Time},
		},
	},
	"orders": {
		File: "olist_orders_dataset.csv",
		Columns: []ColumnSpec{
			{"order_id", table.String},
			{"customer_id", table.String},
			{"order_status", table.String},
			{"order_purchase_timestamp", table.Time},
			{"order_approved_at", table.Time},
			{"order_delivered_carrier_date", table.Time},
			{"order_delivered_customer_date", table.Time},
			{"order_estimated_delivery_date", table.Time},
		},
		LenientDates: true,
	},
	"products": {
		File: "olist_products_dataset.csv",
		Columns: []ColumnSpec{
			{"product_id", table.String},
			{"product_category_name", table.String},
			{"product_name_lenght", table.Float},
			{"product_description_lenght", table.Float},
			{"product_photos_qty", table.Int},
			{"product_weight_g", table.Int},
			{"product_length_cm", table.Int},
			{"product_height_cm", table.Int},
			{"product_width_cm", table.Int},
		},
	},
	"sellers": {
		File: "olist_sellers_dataset.csv",
		Columns: []ColumnSpec{
			{"seller_id", table.String},
			{"seller_zip_code_prefix", table.Int},
			{"seller_city", table.String},
			{"seller_state", table.String},
		},
	},
	"category_translation": {
		File: "product_category_name_translation.csv",
		Columns: []ColumnSpec{
			{"product_category_name", table.String},
			{"product_category_name_english", table.String},
		},
	},
}

// FileSchemaFor returns the file schema for the named entity.
func FileSchemaFor(entity string) (FileSchema, error) {
	fs, ok := registry[entity]
	if !ok {
		return FileSchema{}, fmt.Errorf("unknown entity: %s", entity)
	}
	return fs, nil
}

// Entities returns the names of all registered entities.
func Entities() []string {
	names := make([]string, 0, len(registry))
	for name := range registry {
		names = append(names, name)
	}
	return names
}
