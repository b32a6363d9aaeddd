package cli

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/spf13/cobra"

	"github.com/pgEdge/pgedge-etl/internal/db"
	"github.com/pgEdge/pgedge-etl/internal/logging"
	"github.com/pgEdge/pgedge-etl/internal/pipeline"
	"github.com/pgEdge/pgedge-etl/internal/warehouse"
)

var (
	runWorkers int
	runLoad    bool
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run the transformation pipeline over a raw extract set",
	Long: `Run the full transformation pipeline: validate and clean every entity,
derive the order-item measures, compute the analytics views, and write
all artifacts to the output directory.

With --load (and a connection string), the run continues into the
dimensional model build and warehouse load.

Example:
  pgedge-etl run --input-dir data/raw --output-dir data/processed
  pgedge-etl run --load --connection "postgres://..."`,
	RunE: runRun,
}

func init() {
	runCmd.Flags().IntVar(&runWorkers, "workers", 0,
		"number of concurrent entity validations")
	runCmd.Flags().BoolVar(&runLoad, "load", false,
		"continue into the warehouse load after processing")
}

func runRun(cmd *cobra.Command, args []string) error {
	// Override config with CLI flags
	if runWorkers > 0 {
		cfg.Run.Workers = runWorkers
	}
	if runLoad {
		cfg.Run.Load = true
	}

	if err := cfg.ValidateRun(); err != nil {
		return err
	}

	logging.Info().
		Str("input_dir", cfg.InputDir).
		Str("output_dir", cfg.OutputDir).
		Int("workers", cfg.Run.Workers).
		Msg("Starting pipeline run")

	ctx := context.Background()

	runner := &pipeline.Runner{
		InputDir:  cfg.InputDir,
		OutputDir: cfg.OutputDir,
		Workers:   cfg.Run.Workers,
	}

	// The error sink lives in the warehouse; it is only available when a
	// connection is configured.
	var pool *pgxpool.Pool
	if cfg.Connection != "" {
		var err error
		pool, err = db.Connect(ctx, cfg.Connection)
		if err != nil {
			if cfg.Run.Load {
				return fmt.Errorf("failed to connect to warehouse: %w", err)
			}
			logging.Warn().Err(err).Msg("Warehouse unreachable; error sink disabled")
		} else {
			defer pool.Close()
			runner.Errors = warehouse.NewErrorLog(pool, cfg.Load.Schema)
		}
	}

	rep := runner.Run(ctx)

	var loadErr error
	if cfg.Run.Load && pool != nil {
		loader := warehouse.NewLoader(pool, cfg.Load.Schema, cfg.Load.BatchSize)
		loadErr = runner.LoadWarehouse(ctx, rep, loader)
	}

	printReport(cmd, rep)
	return loadErr
}

func printReport(cmd *cobra.Command, rep *pipeline.Report) {
	cmd.Println()
	cmd.Println("Run report:")
	for _, res := range rep.Results() {
		switch res.Status {
		case pipeline.StatusOK:
			rows := 0
			if res.Table != nil {
				rows = res.Table.NumRows()
			}
			cmd.Printf("  %-24s ok       %d rows\n", res.Name, rows)
		case pipeline.StatusSkipped:
			cmd.Printf("  %-24s skipped  %s\n", res.Name, res.Reason)
		case pipeline.StatusFailed:
			cmd.Printf("  %-24s failed   %v\n", res.Name, res.Err)
		}
	}
	cmd.Println()
}
