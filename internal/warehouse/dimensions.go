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
	"github.com/pgEdge/pgedge-etl/internal/table"
)

// UnknownCategory is the sentinel English category used when no category
// translation table is available at all.
const UnknownCategory = "Unknown"

// BuildCustomerDimension enriches the cleaned customers table with
// geolocation coordinates averaged per postal prefix. The join is
// best-effort: a customer without a matching prefix, or a missing
// geolocation table, yields null coordinates rather than a dropped row.
func BuildCustomerDimension(customers, geolocation *table.Table) (*table.Table, error) {
	type coords struct {
		lat, lng float64
		n        int64
	}
	byPrefix := make(map[int64]*coords)
	if geolocation != nil {
		prefix := geolocation.Col("geolocation_zip_code_prefix")
		lat := geolocation.Col("geolocation_lat")
		lng := geolocation.Col("geolocation_lng")
		for i := 0; i < geolocation.NumRows(); i++ {
			if prefix.IsNull(i) {
				continue
			}
			c, ok := byPrefix[prefix.IntAt(i)]
			if !ok {
				c = &coords{}
				byPrefix[prefix.IntAt(i)] = c
			}
			c.lat += lat.FloatAt(i)
			c.lng += lng.FloatAt(i)
			c.n++
		}
	}

	n := customers.NumRows()
	custPrefix := customers.Col("customer_zip_code_prefix")
	latB := table.NewBuilder("geolocation_lat", table.Float)
	lngB := table.NewBuilder("geolocation_lng", table.Float)
	for i := 0; i < n; i++ {
		if custPrefix.IsNull(i) {
			latB.AppendNull()
			lngB.AppendNull()
			continue
		}
		c, ok := byPrefix[custPrefix.IntAt(i)]
		if !ok {
			latB.AppendNull()
			lngB.AppendNull()
			continue
		}
		latB.AppendFloat(c.lat / float64(c.n))
		lngB.AppendFloat(c.lng / float64(c.n))
	}

	dim, err := customers.Select("customer_id", "customer_unique_id",
		"customer_zip_code_prefix", "customer_city", "customer_state")
	if err != nil {
		return nil, err
	}
	dim = dim.WithName("dim_customers")
	if err := dim.AddColumn(latB.Finish()); err != nil {
		return nil, err
	}
	if err := dim.AddColumn(lngB.Finish()); err != nil {
		return nil, err
	}
	return dim, nil
}

// BuildProductDimension enriches the cleaned products table with the
// English category name. A product whose category has no translation row
// keeps a null English name; a missing translation table degrades to the
// "Unknown" sentinel for every product.
func BuildProductDimension(products, translation *table.Table) (*table.Table, error) {
	n := products.NumRows()
	english := table.NewBuilder("product_category_name_english", table.String)

	if translation == nil {
		for i := 0; i < n; i++ {
			english.AppendString(UnknownCategory)
		}
	} else {
		byCategory := make(map[string]string, translation.NumRows())
		name := translation.Col("product_category_name")
		eng := translation.Col("product_category_name_english")
		for i := 0; i < translation.NumRows(); i++ {
			byCategory[name.StringAt(i)] = eng.StringAt(i)
		}

		category := products.Col("product_category_name")
		for i := 0; i < n; i++ {
			v, ok := byCategory[category.StringAt(i)]
			if !ok {
				english.AppendNull()
				continue
			}
			english.AppendString(v)
		}
	}

	dim, err := products.Select(products.ColumnNames()...)
	if err != nil {
		return nil, err
	}
	dim = dim.WithName("dim_products")
	if err := dim.AddColumn(english.Finish()); err != nil {
		return nil, err
	}
	return dim, nil
}
