//-------------------------------------------------------------------------
//
// pgEdge ETL Pipeline
//
// Portions copyright (c) 2025 - 2026, pgEdge, Inc.
// This software is released under The PostgreSQL License
//
//-------------------------------------------------------------------------

package schema

import (
	"errors"
	"testing"

	"github.com/pgEdge/pgedge-etl/internal/table"
)

func TestModelValidate(t *testing.T) {
	model := Model{
		Entity: "test",
		Fields: []Field{
			{Name: "id", Type: table.String, Unique: true},
			{Name: "score", Type: table.Int, Min: bound(1), Max: bound(5)},
			{Name: "kind", Type: table.String, Nullable: true, In: []string{"a", "b"}},
		},
	}

	// Column arrays are immutable, so each subtest builds its table from
	// scratch. A nil value marks a null cell.
	strCol := func(name string, vals ...any) *table.Column {
		b := table.NewBuilder(name, table.String)
		for _, v := range vals {
			if v == nil {
				b.AppendNull()
			} else {
				b.AppendString(v.(string))
			}
		}
		return b.Finish()
	}
	build := func(id, score, kind *table.Column) *table.Table {
		tbl, err := table.New("test", id, score, kind)
		if err != nil {
			t.Fatalf("Failed to build table: %v", err)
		}
		return tbl
	}
	valid := func() *table.Table {
		return build(
			table.NewString("id", []string{"x", "y"}),
			table.NewInt("score", []int64{1, 5}),
			table.NewString("kind", []string{"a", "b"}),
		)
	}

	t.Run("valid table passes", func(t *testing.T) {
		if err := model.Validate(valid()); err != nil {
			t.Errorf("Expected no error, got %v", err)
		}
	})

	t.Run("missing column", func(t *testing.T) {
		tbl, _ := table.New("test",
			table.NewString("id", []string{"x"}),
			table.NewInt("score", []int64{3}),
		)
		checkViolation(t, model.Validate(tbl), "kind", "required column")
	})

	t.Run("undeclared column", func(t *testing.T) {
		tbl := valid()
		if err := tbl.AddColumn(table.NewString("extra", []string{"", ""})); err != nil {
			t.Fatalf("AddColumn failed: %v", err)
		}
		checkViolation(t, model.Validate(tbl), "extra", "strict schema")
	})

	t.Run("wrong column type", func(t *testing.T) {
		tbl, _ := table.New("test",
			table.NewString("id", []string{"x"}),
			table.NewFloat("score", []float64{3}),
			table.NewString("kind", []string{"a"}),
		)
		checkViolation(t, model.Validate(tbl), "score", "column type")
	})

	t.Run("null in non-nullable column", func(t *testing.T) {
		tbl := build(
			strCol("id", nil, "y"),
			table.NewInt("score", []int64{1, 5}),
			table.NewString("kind", []string{"a", "b"}),
		)
		checkViolation(t, model.Validate(tbl), "id", "not nullable")
	})

	t.Run("null in nullable column allowed", func(t *testing.T) {
		tbl := build(
			table.NewString("id", []string{"x", "y"}),
			table.NewInt("score", []int64{1, 5}),
			strCol("kind", "a", nil),
		)
		if err := model.Validate(tbl); err != nil {
			t.Errorf("Expected no error, got %v", err)
		}
	})

	t.Run("duplicate in unique column", func(t *testing.T) {
		tbl := build(
			table.NewString("id", []string{"x", "x"}),
			table.NewInt("score", []int64{1, 5}),
			table.NewString("kind", []string{"a", "b"}),
		)
		checkViolation(t, model.Validate(tbl), "id", "unique")
	})

	t.Run("bounds are inclusive", func(t *testing.T) {
		if err := model.Validate(valid()); err != nil {
			t.Errorf("Boundary values 1 and 5 should pass, got %v", err)
		}
	})

	t.Run("value below minimum", func(t *testing.T) {
		tbl := build(
			table.NewString("id", []string{"x", "y"}),
			table.NewInt("score", []int64{0, 5}),
			table.NewString("kind", []string{"a", "b"}),
		)
		checkViolation(t, model.Validate(tbl), "score", "minimum")
	})

	t.Run("value above maximum", func(t *testing.T) {
		tbl := build(
			table.NewString("id", []string{"x", "y"}),
			table.NewInt("score", []int64{1, 6}),
			table.NewString("kind", []string{"a", "b"}),
		)
		checkViolation(t, model.Validate(tbl), "score", "maximum")
	})

	t.Run("value outside allowed set", func(t *testing.T) {
		tbl := build(
			table.NewString("id", []string{"x", "y"}),
			table.NewInt("score", []int64{1, 5}),
			table.NewString("kind", []string{"z", "b"}),
		)
		checkViolation(t, model.Validate(tbl), "kind", "allowed values")
	})
}

func checkViolation(t *testing.T, err error, column, constraint string) {
	t.Helper()
	if err == nil {
		t.Fatal("Expected a violation, got nil")
	}
	var v *ViolationError
	if !errors.As(err, &v) {
		t.Fatalf("Expected *ViolationError, got %T", err)
	}
	if v.Column != column || v.Constraint != constraint {
		t.Errorf("Got violation (%s, %s), want (%s, %s)",
			v.Column, v.Constraint, column, constraint)
	}
}

func TestFileSchemaRegistry(t *testing.T) {
	entities := Entities()
	if len(entities) != 9 {
		t.Fatalf("Expected 9 registered entities, got %d", len(entities))
	}

	for _, name := range entities {
		fs, err := FileSchemaFor(name)
		if err != nil {
			t.Errorf("FileSchemaFor(%q) failed: %v", name, err)
			continue
		}
		if fs.File == "" {
			t.Errorf("Entity %q has no source file", name)
		}
		if len(fs.Columns) == 0 {
			t.Errorf("Entity %q declares no columns", name)
		}
	}

	if _, err := FileSchemaFor("no_such_entity"); err == nil {
		t.Error("Expected error for unknown entity")
	}

	fs, err := FileSchemaFor("orders")
	if err != nil {
		t.Fatalf("FileSchemaFor(orders) failed: %v", err)
	}
	if !fs.LenientDates {
		t.Error("Orders should parse timestamps leniently")
	}
	if fs.File != "olist_orders_dataset.csv" {
		t.Errorf("Orders file = %q", fs.File)
	}
}

func TestProductsModelRenamedColumns(t *testing.T) {
	want := map[string]bool{
		"product_name_length":        false,
		"product_description_length": false,
	}
	for _, f := range Products.Fields {
		if _, ok := want[f.Name]; ok {
			want[f.Name] = true
		}
		if f.Name == "product_name_lenght" || f.Name == "product_description_lenght" {
			t.Errorf("Model still declares misspelled column %q", f.Name)
		}
	}
	for name, found := range want {
		if !found {
			t.Errorf("Products model missing column %q", name)
		}
	}
}
