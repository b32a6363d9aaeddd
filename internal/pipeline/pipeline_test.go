//-------------------------------------------------------------------------
//
// pgEdge ETL Pipeline
//
// Portions copyright (c) 2025 - 2026, pgEdge, Inc.
// This software is released under The PostgreSQL License
//
//-------------------------------------------------------------------------

package pipeline

import (
	"context"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/pgEdge/pgedge-etl/internal/datagen"
	"github.com/pgEdge/pgedge-etl/internal/table"
	"github.com/pgEdge/pgedge-etl/internal/warehouse"
)

// memorySink collects error records in memory.
type memorySink struct {
	mu      sync.Mutex
	entries []string
}

func (s *memorySink) Append(_ context.Context, tableName, _ string, _ time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries = append(s.entries, tableName)
	return nil
}

// memoryLoader collects loaded tables in memory.
type memoryLoader struct {
	mu     sync.Mutex
	tables map[string]*table.Table
}

func newMemoryLoader() *memoryLoader {
	return &memoryLoader{tables: make(map[string]*table.Table)}
}

func (l *memoryLoader) EnsureSchema(context.Context) error { return nil }

func (l *memoryLoader) Load(_ context.Context, name string, t *table.Table) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.tables[name] = t
	return nil
}

func generateSample(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	gen := datagen.NewGenerator(datagen.SampleConfig{Orders: 50, Seed: 42})
	if err := gen.Generate(dir); err != nil {
		t.Fatalf("Failed to generate sample extracts: %v", err)
	}
	return dir
}

func TestRunEndToEnd(t *testing.T) {
	inputDir := generateSample(t)
	outputDir := t.TempDir()

	runner := &Runner{InputDir: inputDir, OutputDir: outputDir, Workers: 4}
	rep := runner.Run(context.Background())

	for _, name := range []string{
		"customers", "geolocation", "orders", "order_payments", "order_reviews",
		"products", "sellers", "category_translation", StageOrderItems,
		StageAnalytics,
	} {
		res, ok := rep.Get(name)
		if !ok {
			t.Errorf("Unit %q missing from report", name)
			continue
		}
		if res.Status != StatusOK {
			t.Errorf("Unit %q = %s (err: %v)", name, res.Status, res.Err)
		}
	}

	items := rep.Table(StageOrderItems)
	if items == nil {
		t.Fatal("Order items table missing")
	}
	for _, col := range []string{
		"total_price", "profit_margin", "delivery_time_days", "payment_installments",
	} {
		if !items.HasCol(col) {
			t.Errorf("Order items missing derived column %q", col)
		}
	}

	for _, file := range []string{
		"clean_olist_orders_dataset.csv",
		"clean_olist_customers_dataset.csv",
		"window_customer_sales.csv",
		"window_category_delivery_time.csv",
	} {
		if _, err := os.Stat(filepath.Join(outputDir, file)); err != nil {
			t.Errorf("Artifact %s not written: %v", file, err)
		}
	}

	if failed := rep.Failed(); len(failed) != 0 {
		t.Errorf("Expected no failures, got %d", len(failed))
	}
}

func TestRunIsolatesEntityFailure(t *testing.T) {
	inputDir := generateSample(t)
	outputDir := t.TempDir()

	// Corrupt the orders extract so its validation fails.
	ordersFile := filepath.Join(inputDir, "olist_orders_dataset.csv")
	content := "order_id,customer_id,order_status,order_purchase_timestamp," +
		"order_approved_at,order_delivered_carrier_date," +
		"order_delivered_customer_date,order_estimated_delivery_date\n" +
		"dup,c1,delivered,2018-01-01 00:00:00,,,,2018-01-20 00:00:00\n" +
		"dup,c1,delivered,2018-01-02 00:00:00,,,,2018-01-21 00:00:00\n"
	if err := os.WriteFile(ordersFile, []byte(content), 0o644); err != nil {
		t.Fatalf("Failed to corrupt orders extract: %v", err)
	}

	sink := &memorySink{}
	runner := &Runner{InputDir: inputDir, OutputDir: outputDir, Workers: 2, Errors: sink}
	rep := runner.Run(context.Background())

	res, ok := rep.Get("orders")
	if !ok || res.Status != StatusFailed {
		t.Fatalf("Orders should fail, got %v (present %v)", res.Status, ok)
	}

	// Dependent stages are skipped, not failed.
	if res, _ := rep.Get(StageOrderItems); res.Status != StatusSkipped {
		t.Errorf("Order items = %s, want skipped", res.Status)
	}
	if res, _ := rep.Get(StageAnalytics); res.Status != StatusSkipped {
		t.Errorf("Analytics = %s, want skipped", res.Status)
	}

	// Independent entities still succeed.
	for _, name := range []string{"customers", "sellers", "products"} {
		if res, _ := rep.Get(name); res.Status != StatusOK {
			t.Errorf("Entity %q = %s, want ok", name, res.Status)
		}
	}

	if len(sink.entries) != 1 || sink.entries[0] != "orders" {
		t.Errorf("Error sink entries = %v, want [orders]", sink.entries)
	}
}

func TestLoadWarehouse(t *testing.T) {
	inputDir := generateSample(t)
	outputDir := t.TempDir()

	runner := &Runner{InputDir: inputDir, OutputDir: outputDir, Workers: 4}
	rep := runner.Run(context.Background())

	loader := newMemoryLoader()
	if err := runner.LoadWarehouse(context.Background(), rep, loader); err != nil {
		t.Fatalf("LoadWarehouse failed: %v", err)
	}

	for _, name := range []string{
		"dim_date", "dim_customers", "dim_products", "dim_sellers", "fact_order_items",
	} {
		if loader.tables[name] == nil {
			t.Errorf("Warehouse table %q not loaded", name)
		}
	}

	fact := loader.tables["fact_order_items"]
	if fact == nil {
		t.Fatal("Fact table missing")
	}
	got := fact.ColumnNames()
	if len(got) != len(warehouse.FactColumns) {
		t.Fatalf("Fact has %d columns, want %d", len(got), len(warehouse.FactColumns))
	}
	for i, want := range warehouse.FactColumns {
		if got[i] != want {
			t.Errorf("Fact column %d = %q, want %q", i, got[i], want)
		}
	}

	if res, _ := rep.Get(StageWarehouse); res.Status != StatusOK {
		t.Errorf("Warehouse stage = %s, want ok", res.Status)
	}
}

func TestLoadWarehouseSkipsOnMissingDeps(t *testing.T) {
	runner := &Runner{}
	rep := NewReport()

	loader := newMemoryLoader()
	if err := runner.LoadWarehouse(context.Background(), rep, loader); err == nil {
		t.Fatal("Expected error when dependencies are missing")
	}
	if res, _ := rep.Get(StageWarehouse); res.Status != StatusSkipped {
		t.Errorf("Warehouse stage = %s, want skipped", res.Status)
	}
	if len(loader.tables) != 0 {
		t.Errorf("No tables should be loaded, got %d", len(loader.tables))
	}
}

func TestReport(t *testing.T) {
	rep := NewReport()
	tbl, err := table.New("orders", table.NewString("order_id", []string{"o1"}))
	if err != nil {
		t.Fatalf("Failed to build table: %v", err)
	}

	rep.add(Result{Name: "orders", Status: StatusOK, Table: tbl})
	rep.add(Result{Name: "products", Status: StatusFailed, Err: os.ErrNotExist})

	if rep.Table("orders") == nil {
		t.Error("Succeeded unit should expose its table")
	}
	if rep.Table("products") != nil {
		t.Error("Failed unit should not expose a table")
	}
	if rep.Table("absent") != nil {
		t.Error("Unknown unit should not expose a table")
	}

	if !rep.Succeeded("orders") {
		t.Error("Succeeded(orders) should be true")
	}
	if rep.Succeeded("orders", "products") {
		t.Error("Succeeded should be false when any unit failed")
	}

	if len(rep.Failed()) != 1 {
		t.Errorf("Failed() = %d entries, want 1", len(rep.Failed()))
	}
	if got := rep.Results(); len(got) != 2 || got[0].Name != "orders" {
		t.Errorf("Results order incorrect: %v", got)
	}
}
