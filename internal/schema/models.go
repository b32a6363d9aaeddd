//-------------------------------------------------------------------------
//
// pgEdge ETL Pipeline
//
// Portions copyright (c) 2025 - 2026, pgEdge, Inc.
// This software is released under The PostgreSQL License
//
//-------------------------------------------------------------------------

package schema

import "github.com/pgEdge/pgedge-etl/internal/table"

// PaymentTypes is the allowed set for the payment_type column.
var PaymentTypes = []string{
	"credit_card", "boleto", "voucher", "debit_card", "not_defined",
}

// Customers is the constraint model for the cleaned customers table.
var Customers = Model{
	Entity: "customers",
	Fields: []Field{
		{Name: "customer_id", Type: table.String, Unique: true},
		{Name: "customer_unique_id", Type: table.String},
		{Name: "customer_zip_code_prefix", Type: table.Int, Nullable: true, Min: bound(1000)},
		{Name: "customer_city", Type: table.String},
		{Name: "customer_state", Type: table.String},
	},
}

// Geolocation is the constraint model for the cleaned geolocation table.
var Geolocation = Model{
	Entity: "geolocation",
	Fields: []Field{
		{Name: "geolocation_zip_code_prefix", Type: table.Int, Nullable: true, Min: bound(1000)},
		{Name: "geolocation_lat", Type: table.Float, Min: bound(-90), Max: bound(90)},
		{Name: "geolocation_lng", Type: table.Float, Min: bound(-180), Max: bound(180)},
		{Name: "geolocation_city", Type: table.String},
		{Name: "geolocation_state", Type: table.String},
	},
}

// OrderItems is the constraint model for the order items table, applied
// before the derived measures are attached.
var OrderItems = Model{
	Entity: "order_items",
	Fields: []Field{
		{Name: "order_id", Type: table.String},
		{Name: "order_item_id", Type: table.Int, Nullable: true, Min: bound(1)},
		{Name: "product_id", Type: table.String},
		{Name: "seller_id", Type: table.String},
		{Name: "shipping_limit_date", Type: table.Time},
		{Name: "price", Type: table.Float, Min: bound(0)},
		{Name: "freight_value", Type: table.Float, Min: bound(0)},
	},
}

// OrderPayments is the constraint model for the cleaned payments table.
var OrderPayments = Model{
	Entity: "order_payments",
	Fields: []Field{
		{Name: "order_id", Type: table.String},
		{Name: "payment_sequential", Type: table.Int, Nullable: true, Min: bound(1)},
		{Name: "payment_type", Type: table.String, In: PaymentTypes},
		{Name: "payment_installments", Type: table.Int, Nullable: true, Min: bound(1)},
		{Name: "payment_value", Type: table.Float, Min: bound(0)},
	},
}

// OrderReviews is the constraint model for the cleaned reviews table.
var OrderReviews = Model{
	Entity: "order_reviews",
	Fields: []Field{
		{Name: "review_id", Type: table.String, Unique: true},
		{Name: "order_id", Type: table.String},
		{Name: "review_score", Type: table.Int, Nullable: true, Min: bound(1), Max: bound(5)},
		{Name: "review_comment_title", Type: table.String, Nullable: true},
		{Name: "review_comment_message", Type: table.String, Nullable: true},
		{Name: "review_creation_date", Type: table.Time},
		{Name: "review_answer_timestamp", Type: table.Time, Nullable: true},
	},
}

// Orders is the constraint model for the cleaned orders table.
var Orders = Model{
	Entity: "orders",
	Fields: []Field{
		{Name: "order_id", Type: table.String, Unique: true},
		{Name: "customer_id", Type: table.String},
		{Name: "order_status", Type: table.String},
		{Name: "order_purchase_timestamp", Type: table.Time},
		{Name: "order_approved_at", Type: table.Time, Nullable: true},
		{Name: "order_delivered_carrier_date", Type: table.Time, Nullable: true},
		{Name: "order_delivered_customer_date", Type: table.Time, Nullable: true},
		{Name: "order_estimated_delivery_date", Type: table.Time},
	},
}

// Products is the constraint model for the cleaned products table, after
// the misspelled length columns have been renamed.
var Products = Model{
	Entity: "products",
	Fields: []Field{
		{Name: "product_id", Type: table.String, Unique: true},
		{Name: "product_category_name", Type: table.String, Nullable: true},
		{Name: "product_name_length", Type: table.Float, Nullable: true, Min: bound(0)},
		{Name: "product_description_length", Type: table.Float, Nullable: true, Min: bound(0)},
		{Name: "product_photos_qty", Type: table.Int, Nullable: true, Min: bound(0)},
		{Name: "product_weight_g", Type: table.Int, Nullable: true, Min: bound(0)},
		{Name: "product_length_cm", Type: table.Int, Nullable: true, Min: bound(0)},
		{Name: "product_height_cm", Type: table.Int, Nullable: true, Min: bound(0)},
		{Name: "product_width_cm", Type: table.Int, Nullable: true, Min: bound(0)},
	},
}

// Sellers is the constraint model for the cleaned sellers table.
var Sellers = Model{
	Entity: "sellers",
	Fields: []Field{
		{Name: "seller_id", Type: table.String, Unique: true},
		{Name: "seller_zip_code_prefix", Type: table.Int, Nullable: true, Min: bound(1000)},
		{Name: "seller_city", Type: table.String},
		{Name: "seller_state", Type: table.String},
	},
}

// CategoryTranslation is the constraint model for the cleaned category
// translation table.
var CategoryTranslation = Model{
	Entity: "category_translation",
	Fields: []Field{
		{Name: "product_category_name", Type: table.String, Unique: true},
		{Name: "product_category_name_english", Type: table.String},
	},
}
