//-------------------------------------------------------------------------
//
// pgEdge ETL Pipeline
//
// Portions copyright (c) 2025 - 2026, pgEdge, Inc.
// This software is released under The PostgreSQL License
//
//-------------------------------------------------------------------------

// Package pipeline sequences the transformation stages: concurrent
// per-entity validation, the order-items enrichment barrier, the
// analytics stage, and the dimensional warehouse load. A failure in one
// unit is recorded and logged but never aborts independent work.
package pipeline

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/pgEdge/pgedge-etl/internal/analytics"
	"github.com/pgEdge/pgedge-etl/internal/entities"
	"github.com/pgEdge/pgedge-etl/internal/extract"
	"github.com/pgEdge/pgedge-etl/internal/logging"
	"github.com/pgEdge/pgedge-etl/internal/schema"
	"github.com/pgEdge/pgedge-etl/internal/table"
	"github.com/pgEdge/pgedge-etl/internal/warehouse"
)

// ErrorSink receives failure records for the warehouse error log. A nil
// sink disables external error logging.
type ErrorSink interface {
	Append(ctx context.Context, tableName, message string, at time.Time) error
}

// TableLoader writes a finished table into the warehouse.
type TableLoader interface {
	EnsureSchema(ctx context.Context) error
	Load(ctx context.Context, name string, t *table.Table) error
}

// Stage and view names used as report keys.
const (
	StageOrderItems = "order_items"
	StageAnalytics  = "analytics"
	StageWarehouse  = "warehouse"

	ViewCustomerSales        = "customer_sales"
	ViewCategoryDeliveryTime = "category_delivery_time"
)

// analyticsDeps are the validated tables the analytics stage requires.
var analyticsDeps = []string{"orders", "order_items", "customers", "products"}

// warehouseDeps are the validated tables the dimensional build requires.
var warehouseDeps = []string{"order_items", "customers", "products", "sellers", "orders"}

// Runner executes one pipeline run over an immutable extract snapshot.
type Runner struct {
	InputDir  string
	OutputDir string

	// Workers bounds concurrent entity validations.
	Workers int

	// Errors receives failure records; may be nil.
	Errors ErrorSink
}

// Run processes every base entity, the order-items barrier, and the
// analytics stage, writing artifacts along the way. It always returns a
// report; per-unit failures are recorded in it, not returned.
func (r *Runner) Run(ctx context.Context) *Report {
	rep := NewReport()

	r.runBaseEntities(ctx, rep)
	r.runOrderItems(ctx, rep)
	r.runAnalytics(ctx, rep)

	return rep
}

// baseEntities returns the registered entities excluding order items,
// which has its own stage.
func baseEntities() []string {
	var names []string
	for _, name := range entities.List() {
		if name != StageOrderItems {
			names = append(names, name)
		}
	}
	return names
}

func (r *Runner) runBaseEntities(ctx context.Context, rep *Report) {
	workers := r.Workers
	if workers < 1 {
		workers = 1
	}

	var wg sync.WaitGroup
	sem := make(chan struct{}, workers)
	for _, name := range baseEntities() {
		wg.Add(1)
		sem <- struct{}{}
		go func(name string) {
			defer wg.Done()
			defer func() { <-sem }()
			r.processEntity(ctx, rep, name)
		}(name)
	}
	wg.Wait()
}

func (r *Runner) processEntity(ctx context.Context, rep *Report, name string) {
	logging.Info().Str("entity", name).Msg("Processing entity")

	cleaned, err := r.cleanEntity(name)
	if err != nil {
		r.fail(ctx, rep, name, err)
		return
	}

	if err := r.writeArtifact(name, cleaned); err != nil {
		r.fail(ctx, rep, name, err)
		return
	}

	rep.add(Result{Name: name, Status: StatusOK, Table: cleaned})
}

func (r *Runner) cleanEntity(name string) (*table.Table, error) {
	raw, err := extract.ReadEntity(r.InputDir, name)
	if err != nil {
		return nil, err
	}
	proc, err := entities.Get(name)
	if err != nil {
		return nil, err
	}
	return proc.Process(raw)
}

func (r *Runner) runOrderItems(ctx context.Context, rep *Report) {
	if !rep.Succeeded("orders", "order_payments") {
		r.skip(rep, StageOrderItems, "requires validated orders and payments")
		return
	}

	logging.Info().Msg("Processing order items")

	raw, err := extract.ReadEntity(r.InputDir, StageOrderItems)
	if err != nil {
		r.fail(ctx, rep, StageOrderItems, err)
		return
	}

	items, err := entities.ProcessOrderItems(raw,
		rep.Table("orders"), rep.Table("order_payments"))
	if err != nil {
		r.fail(ctx, rep, StageOrderItems, err)
		return
	}

	if err := r.writeArtifact(StageOrderItems, items); err != nil {
		r.fail(ctx, rep, StageOrderItems, err)
		return
	}

	rep.add(Result{Name: StageOrderItems, Status: StatusOK, Table: items})
}

func (r *Runner) runAnalytics(ctx context.Context, rep *Report) {
	if !rep.Succeeded(analyticsDeps...) {
		r.skip(rep, StageAnalytics, "requires validated orders, order items, customers and products")
		return
	}

	logging.Info().Msg("Computing analytics views")

	sales, err := analytics.CustomerSales(
		rep.Table("order_items"), rep.Table("orders"), rep.Table("customers"))
	if err != nil {
		r.fail(ctx, rep, StageAnalytics, err)
		return
	}
	delivery, err := analytics.CategoryDeliveryTime(
		rep.Table("order_items"), rep.Table("products"), rep.Table("orders"))
	if err != nil {
		r.fail(ctx, rep, StageAnalytics, err)
		return
	}

	for name, t := range map[string]*table.Table{
		ViewCustomerSales:        sales,
		ViewCategoryDeliveryTime: delivery,
	} {
		file := fmt.Sprintf("window_%s.csv", name)
		if err := extract.WriteTable(r.OutputDir, file, t); err != nil {
			r.fail(ctx, rep, StageAnalytics, err)
			return
		}
		rep.add(Result{Name: name, Status: StatusOK, Table: t})
		logging.Info().Str("artifact", file).Msg("Saved analytics view")
	}

	rep.add(Result{Name: StageAnalytics, Status: StatusOK})
}

// LoadWarehouse builds the dimensional model from the run's tables and
// loads it through the given loader. It fails as a single stage: a
// missing dependency or load error is recorded against the warehouse
// stage and reported, leaving earlier results intact.
func (r *Runner) LoadWarehouse(ctx context.Context, rep *Report, loader TableLoader) error {
	if !rep.Succeeded(warehouseDeps...) {
		r.skip(rep, StageWarehouse, "requires all validated fact table entities")
		return fmt.Errorf("warehouse load skipped: missing validated entities")
	}

	if err := loader.EnsureSchema(ctx); err != nil {
		r.fail(ctx, rep, StageWarehouse, err)
		return err
	}

	orders := rep.Table("orders")

	logging.Info().Msg("Building date dimension")
	dimDate, dateIdx, err := warehouse.BuildDateDimension(orders)
	if err != nil {
		r.fail(ctx, rep, StageWarehouse, err)
		return err
	}

	logging.Info().Msg("Building customer dimension")
	dimCustomers, err := warehouse.BuildCustomerDimension(
		rep.Table("customers"), rep.Table("geolocation"))
	if err != nil {
		r.fail(ctx, rep, StageWarehouse, err)
		return err
	}

	logging.Info().Msg("Building product dimension")
	dimProducts, err := warehouse.BuildProductDimension(
		rep.Table("products"), rep.Table("category_translation"))
	if err != nil {
		r.fail(ctx, rep, StageWarehouse, err)
		return err
	}

	logging.Info().Msg("Building fact table")
	fact, err := warehouse.BuildFactTable(
		rep.Table("order_items"), orders, rep.Table("order_payments"), dateIdx)
	if err != nil {
		r.fail(ctx, rep, StageWarehouse, err)
		return err
	}
	fact, err = fact.Select(warehouse.FactColumns...)
	if err != nil {
		r.fail(ctx, rep, StageWarehouse, err)
		return err
	}

	for _, target := range []struct {
		name string
		t    *table.Table
	}{
		{"dim_date", dimDate},
		{"dim_customers", dimCustomers},
		{"dim_products", dimProducts},
		{"dim_sellers", rep.Table("sellers")},
		{"fact_order_items", fact},
	} {
		if err := loader.Load(ctx, target.name, target.t); err != nil {
			r.fail(ctx, rep, StageWarehouse, err)
			return err
		}
	}

	rep.add(Result{Name: StageWarehouse, Status: StatusOK})
	logging.Info().Msg("Warehouse load complete")
	return nil
}

// writeArtifact saves a cleaned entity table under its clean_ file name.
func (r *Runner) writeArtifact(name string, t *table.Table) error {
	fs, err := schema.FileSchemaFor(name)
	if err != nil {
		return err
	}
	file := "clean_" + fs.File
	if err := extract.WriteTable(r.OutputDir, file, t); err != nil {
		return err
	}
	logging.Info().Str("artifact", file).Msg("Saved cleaned table")
	return nil
}

func (r *Runner) skip(rep *Report, name, reason string) {
	logging.Warn().Str("stage", name).Str("reason", reason).Msg("Stage skipped")
	rep.add(Result{Name: name, Status: StatusSkipped, Reason: reason})
}

func (r *Runner) fail(ctx context.Context, rep *Report, name string, err error) {
	logging.Error().Str("unit", name).Err(err).Msg("Unit failed")
	rep.add(Result{Name: name, Status: StatusFailed, Err: err})
	if r.Errors != nil {
		if sinkErr := r.Errors.Append(ctx, name, err.Error(), time.Now()); sinkErr != nil {
			logging.Warn().Err(sinkErr).Msg("Could not record failure in error sink")
		}
	}
}
