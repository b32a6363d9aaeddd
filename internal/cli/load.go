package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/pgEdge/pgedge-etl/internal/db"
	"github.com/pgEdge/pgedge-etl/internal/logging"
	"github.com/pgEdge/pgedge-etl/internal/pipeline"
	"github.com/pgEdge/pgedge-etl/internal/warehouse"
)

var loadSchema string

var loadCmd = &cobra.Command{
	Use:   "load",
	Short: "Build the dimensional model and load it into the warehouse",
	Long: `Process the raw extracts and load the star schema into PostgreSQL:
dim_date, dim_customers, dim_products, dim_sellers and fact_order_items.
Each target table is replaced in full.

Example:
  pgedge-etl load --connection "postgres://..." --input-dir data/raw`,
	RunE: runLoadCmd,
}

func init() {
	loadCmd.Flags().StringVar(&loadSchema, "schema", "",
		"target warehouse schema (default: dw)")
}

func runLoadCmd(cmd *cobra.Command, args []string) error {
	if loadSchema != "" {
		cfg.Load.Schema = loadSchema
	}

	if err := cfg.ValidateLoad(); err != nil {
		return err
	}

	logging.Info().
		Str("schema", cfg.Load.Schema).
		Msg("Starting warehouse load")

	ctx := context.Background()
	pool, err := db.Connect(ctx, cfg.Connection)
	if err != nil {
		return fmt.Errorf("failed to connect to warehouse: %w", err)
	}
	defer pool.Close()

	runner := &pipeline.Runner{
		InputDir:  cfg.InputDir,
		OutputDir: cfg.OutputDir,
		Workers:   cfg.Run.Workers,
		Errors:    warehouse.NewErrorLog(pool, cfg.Load.Schema),
	}

	rep := runner.Run(ctx)

	loader := warehouse.NewLoader(pool, cfg.Load.Schema, cfg.Load.BatchSize)
	loadErr := runner.LoadWarehouse(ctx, rep, loader)

	printReport(cmd, rep)
	return loadErr
}
