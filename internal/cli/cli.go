//-------------------------------------------------------------------------
//
// pgEdge ETL Pipeline
//
// Portions copyright (c) 2025 - 2026, pgEdge, Inc.
// This software is released under The PostgreSQL License
//
//-------------------------------------------------------------------------

// Package cli implements the command-line interface for pgedge-etl.
package cli

import (
	"github.com/spf13/cobra"

	"github.com/pgEdge/pgedge-etl/internal/config"
	"github.com/pgEdge/pgedge-etl/internal/entities"
	"github.com/pgEdge/pgedge-etl/internal/logging"
	"github.com/pgEdge/pgedge-etl/pkg/version"
)

var (
	// Global flags
	cfgFile    string
	connection string
	inputDir   string
	outputDir  string
	logLevel   string

	// Global config
	cfg *config.Config

	rootCmd = &cobra.Command{
		Use:   "pgedge-etl",
		Short: "E-commerce extract transformation and warehouse loader",
		Long: `pgedge-etl ingests raw e-commerce transactional extracts, validates and
cleans each entity against a declared schema, derives window-function
analytics, and assembles a dimensional (star-schema) model in a
PostgreSQL warehouse.

Each entity is validated independently; a failure in one entity is
logged and recorded without stopping the rest of the run.`,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return initConfig()
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}
)

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	// Global flags
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "",
		"config file (default: ./pgedge-etl.yaml)")
	rootCmd.PersistentFlags().StringVar(&connection, "connection", "",
		"PostgreSQL warehouse connection string")
	rootCmd.PersistentFlags().StringVar(&inputDir, "input-dir", "",
		"directory containing the raw CSV extracts")
	rootCmd.PersistentFlags().StringVar(&outputDir, "output-dir", "",
		"directory for cleaned and analytics artifacts")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "",
		"log level (debug, info, warn, error)")

	// Add subcommands
	rootCmd.AddCommand(versionCmd)
	rootCmd.AddCommand(runCmd)
	rootCmd.AddCommand(loadCmd)
	rootCmd.AddCommand(sampleCmd)
	rootCmd.AddCommand(entitiesCmd)
}

func initConfig() error {
	var err error
	cfg, err = config.Load(cfgFile)
	if err != nil {
		return err
	}

	// Override with CLI flags
	if connection != "" {
		cfg.Connection = connection
	}
	if inputDir != "" {
		cfg.InputDir = inputDir
	}
	if outputDir != "" {
		cfg.OutputDir = outputDir
	}
	if logLevel != "" {
		cfg.LogLevel = logLevel
	}

	// Reinitialize logger with config
	return logging.Init(logging.Config{
		Level:  cfg.LogLevel,
		Pretty: true,
		Dir:    cfg.LogDir,
	})
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, args []string) {
		cmd.Println(version.Info())
	},
}

var entitiesCmd = &cobra.Command{
	Use:   "entities",
	Short: "List the source entities the pipeline processes",
	Long: `List all registered source entities. Base entities are validated
independently and concurrently; order items are processed afterwards
because their derived measures need validated orders and payments.`,
	Run: func(cmd *cobra.Command, args []string) {
		cmd.Println("Base entities:")
		for _, name := range entities.List() {
			cmd.Printf("  %s\n", name)
		}
		cmd.Println()
		cmd.Println("Dependent stages:")
		cmd.Println("  order_items - needs validated orders and payments")
		cmd.Println("  analytics   - needs orders, order_items, customers, products")
		cmd.Println("  warehouse   - needs all fact table entities")
	},
}
