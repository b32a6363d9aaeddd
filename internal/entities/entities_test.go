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
	"sync"
	"testing"
	"time"

	"github.com/pgEdge/pgedge-etl/internal/table"
)

func mustTable(t *testing.T, name string, cols ...*table.Column) *table.Table {
	t.Helper()
	tbl, err := table.New(name, cols...)
	if err != nil {
		t.Fatalf("Failed to build table: %v", err)
	}
	return tbl
}

func mustProcess(t *testing.T, entity string, tbl *table.Table) *table.Table {
	t.Helper()
	p, err := Get(entity)
	if err != nil {
		t.Fatalf("Get(%q) failed: %v", entity, err)
	}
	out, err := p.Process(tbl)
	if err != nil {
		t.Fatalf("Process(%q) failed: %v", entity, err)
	}
	return out
}

func TestRegistryListsAllEntities(t *testing.T) {
	want := []string{
		"category_translation", "customers", "geolocation", "order_payments",
		"order_reviews", "orders", "products", "sellers",
	}
	got := List()
	if len(got) != len(want) {
		t.Fatalf("List() = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("List()[%d] = %q, want %q", i, got[i], want[i])
		}
	}

	if _, err := Get("no_such_entity"); err == nil {
		t.Error("Expected error for unknown entity")
	}
}

func TestCustomersTitleCasesCity(t *testing.T) {
	tbl := mustTable(t, "customers",
		table.NewString("customer_id", []string{"c1", "c2"}),
		table.NewString("customer_unique_id", []string{"u1", "u2"}),
		table.NewInt("customer_zip_code_prefix", []int64{13720, 89254}),
		table.NewString("customer_city", []string{"sao paulo", "rio de janeiro"}),
		table.NewString("customer_state", []string{"SP", "RJ"}),
	)
	out := mustProcess(t, "customers", tbl)

	city := out.Col("customer_city")
	if city.StringAt(0) != "Sao Paulo" || city.StringAt(1) != "Rio De Janeiro" {
		t.Errorf("Cities = %q, %q", city.StringAt(0), city.StringAt(1))
	}
}

// Entities process on concurrent goroutines, and x/text casers are not
// safe for shared use. Run under the race detector.
func TestTitleCaseColumnConcurrent(t *testing.T) {
	const workers = 8
	tables := make([]*table.Table, workers)
	for i := range tables {
		tables[i] = mustTable(t, "cities",
			table.NewString("city", []string{"sao paulo", "mogi guacu", "rio de janeiro"}),
		)
	}

	var wg sync.WaitGroup
	for _, tbl := range tables {
		wg.Add(1)
		go func(tbl *table.Table) {
			defer wg.Done()
			titleCaseColumn(tbl, "city")
		}(tbl)
	}
	wg.Wait()

	for i, tbl := range tables {
		col := tbl.Col("city")
		if col.StringAt(0) != "Sao Paulo" || col.StringAt(2) != "Rio De Janeiro" {
			t.Errorf("Table %d: cities = %q, %q, %q",
				i, col.StringAt(0), col.StringAt(1), col.StringAt(2))
		}
	}
}

func TestGeolocationDedupesFullRows(t *testing.T) {
	tbl := mustTable(t, "geolocation",
		table.NewInt("geolocation_zip_code_prefix", []int64{1037, 1037, 1046}),
		table.NewFloat("geolocation_lat", []float64{-23.5, -23.5, -23.6}),
		table.NewFloat("geolocation_lng", []float64{-46.6, -46.6, -46.7}),
		table.NewString("geolocation_city", []string{"sao paulo", "sao paulo", "sao paulo"}),
		table.NewString("geolocation_state", []string{"SP", "SP", "SP"}),
	)
	out := mustProcess(t, "geolocation", tbl)

	if out.NumRows() != 2 {
		t.Fatalf("Expected 2 rows after dedupe, got %d", out.NumRows())
	}
	if out.Col("geolocation_city").StringAt(0) != "Sao Paulo" {
		t.Errorf("City = %q", out.Col("geolocation_city").StringAt(0))
	}
}

func TestPaymentsNormalization(t *testing.T) {
	typeCol := table.NewBuilder("payment_type", table.String)
	typeCol.AppendString("credit_card")
	typeCol.AppendNull()
	tbl := mustTable(t, "order_payments",
		table.NewString("order_id", []string{"o1", "o2"}),
		table.NewInt("payment_sequential", []int64{1, 1}),
		typeCol.Finish(),
		table.NewInt("payment_installments", []int64{0, 3}),
		table.NewFloat("payment_value", []float64{59.9, 120}),
	)
	out := mustProcess(t, "order_payments", tbl)

	if got := out.Col("payment_installments").IntAt(0); got != 1 {
		t.Errorf("Zero installments should become 1, got %d", got)
	}
	if got := out.Col("payment_installments").IntAt(1); got != 3 {
		t.Errorf("Installments = %d, want 3", got)
	}
	if got := out.Col("payment_type").StringAt(1); got != "not_defined" {
		t.Errorf("Null payment type should become not_defined, got %q", got)
	}
}

func TestReviewsDedupeByID(t *testing.T) {
	created := time.Date(2018, 1, 1, 0, 0, 0, 0, time.UTC)
	answered := table.NewBuilder("review_answer_timestamp", table.Time)
	answered.AppendTime(created.Add(24 * time.Hour))
	answered.AppendNull()
	answered.AppendNull()
	title := table.NewBuilder("review_comment_title", table.String)
	title.AppendString("ok")
	title.AppendNull()
	title.AppendNull()
	msg := table.NewBuilder("review_comment_message", table.String)
	msg.AppendNull()
	msg.AppendNull()
	msg.AppendNull()
	tbl := mustTable(t, "order_reviews",
		table.NewString("review_id", []string{"r1", "r1", "r2"}),
		table.NewString("order_id", []string{"o1", "o1", "o2"}),
		table.NewInt("review_score", []int64{5, 5, 1}),
		title.Finish(),
		msg.Finish(),
		table.NewTime("review_creation_date", []time.Time{created, created, created}),
		answered.Finish(),
	)
	out := mustProcess(t, "order_reviews", tbl)

	if out.NumRows() != 2 {
		t.Fatalf("Expected 2 rows after dedupe, got %d", out.NumRows())
	}
	if out.Col("review_comment_message").IsNull(0) {
		t.Error("Null comment message should be filled with empty text")
	}
}

func TestProductsNormalization(t *testing.T) {
	category := table.NewBuilder("product_category_name", table.String)
	category.AppendString("beleza_saude")
	category.AppendNull()
	category.AppendString("moveis_decoracao")
	category.AppendString("esporte_lazer")
	nameLen := table.NewBuilder("product_name_lenght", table.Float)
	nameLen.AppendFloat(40)
	nameLen.AppendNull()
	nameLen.AppendFloat(50)
	nameLen.AppendFloat(60)
	descLen := table.NewBuilder("product_description_lenght", table.Float)
	descLen.AppendFloat(100)
	descLen.AppendFloat(200)
	descLen.AppendFloat(300)
	descLen.AppendFloat(400)
	photos := table.NewBuilder("product_photos_qty", table.Int)
	photos.AppendNull()
	photos.AppendInt(2)
	photos.AppendInt(3)
	photos.AppendInt(4)
	weight := table.NewBuilder("product_weight_g", table.Int)
	weight.AppendInt(500)
	weight.AppendInt(600)
	weight.AppendNull()
	weight.AppendInt(700)
	tbl := mustTable(t, "products",
		table.NewString("product_id", []string{"p1", "p2", "p3", "p4"}),
		category.Finish(),
		nameLen.Finish(),
		descLen.Finish(),
		photos.Finish(),
		weight.Finish(),
		table.NewInt("product_length_cm", []int64{10, 20, 30, 40}),
		table.NewInt("product_height_cm", []int64{5, 10, 15, 20}),
		table.NewInt("product_width_cm", []int64{5, 10, 15, 20}),
	)
	out := mustProcess(t, "products", tbl)

	// p3 lacks a weight and is dropped.
	if out.NumRows() != 3 {
		t.Fatalf("Expected 3 rows after dropping null dimensions, got %d", out.NumRows())
	}
	if !out.HasCol("product_name_length") || out.HasCol("product_name_lenght") {
		t.Error("Misspelled length column was not renamed")
	}
	if got := out.Col("product_category_name").StringAt(1); got != "unknown" {
		t.Errorf("Null category should become unknown, got %q", got)
	}
	// The drop happens before imputation, so the median is taken over the
	// surviving values 40 and 60.
	if got := out.Col("product_name_length").FloatAt(1); got != 50 {
		t.Errorf("Imputed name length = %v, want median 50", got)
	}
	if got := out.Col("product_photos_qty").IntAt(0); got != 1 {
		t.Errorf("Null photo count should default to 1, got %d", got)
	}
}

func TestCategoryTranslationSnakeCases(t *testing.T) {
	tbl := mustTable(t, "category_translation",
		table.NewString("product_category_name", []string{"Beleza Saude", "esporte_lazer"}),
		table.NewString("product_category_name_english", []string{"Health Beauty", "sports_leisure"}),
	)
	out := mustProcess(t, "category_translation", tbl)

	if got := out.Col("product_category_name").StringAt(0); got != "beleza_saude" {
		t.Errorf("Category = %q, want beleza_saude", got)
	}
	if got := out.Col("product_category_name_english").StringAt(0); got != "health_beauty" {
		t.Errorf("English category = %q, want health_beauty", got)
	}
}

func TestFillFloatMedian(t *testing.T) {
	tests := []struct {
		name string
		vals []float64
		want float64
	}{
		{"odd count", []float64{3, 1, 2}, 2},
		{"even count", []float64{1, 2, 3, 4}, 2.5},
		{"single value", []float64{7}, 7},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			b := table.NewBuilder("v", table.Float)
			for _, v := range tc.vals {
				b.AppendFloat(v)
			}
			b.AppendNull()
			tbl := mustTable(t, "t", b.Finish())
			fillFloatMedian(tbl, "v")
			col := tbl.Col("v")
			i := col.Len() - 1
			if col.IsNull(i) || col.FloatAt(i) != tc.want {
				t.Errorf("Imputed value = %v, want %v", col.FloatAt(i), tc.want)
			}
		})
	}

	t.Run("all null column unchanged", func(t *testing.T) {
		b := table.NewBuilder("v", table.Float)
		b.AppendNull()
		tbl := mustTable(t, "t", b.Finish())
		fillFloatMedian(tbl, "v")
		if !tbl.Col("v").IsNull(0) {
			t.Error("All-null column should stay null")
		}
	})
}
