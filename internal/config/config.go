//-------------------------------------------------------------------------
//
// pgEdge ETL Pipeline
//
// Portions copyright (c) 2025 - 2026, pgEdge, Inc.
// This software is released under The PostgreSQL License
//
//-------------------------------------------------------------------------

// Package config handles configuration management for pgedge-etl.
// Configuration is loaded from config files and CLI flags (no environment
// variables). CLI flags take precedence over config file values.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/viper"
)

// Config holds all configuration for pgedge-etl.
type Config struct {
	// Connection is the PostgreSQL warehouse connection string.
	Connection string `mapstructure:"connection"`

	// InputDir is the directory containing the raw CSV extracts.
	InputDir string `mapstructure:"input_dir"`

	// OutputDir is the directory for cleaned and analytics artifacts.
	OutputDir string `mapstructure:"output_dir"`

	// LogLevel controls logging verbosity (debug, info, warn, error).
	LogLevel string `mapstructure:"log_level"`

	// LogDir, when set, enables a timestamped log file in that directory.
	LogDir string `mapstructure:"log_dir"`

	// Run holds configuration for the run subcommand.
	Run RunConfig `mapstructure:"run"`

	// Load holds configuration for the warehouse load.
	Load LoadConfig `mapstructure:"load"`

	// Sample holds configuration for the sample subcommand.
	Sample SampleConfig `mapstructure:"sample"`
}

// RunConfig holds configuration for pipeline execution.
type RunConfig struct {
	// Workers is the number of concurrent entity validations.
	Workers int `mapstructure:"workers"`

	// Load continues into the warehouse load after processing.
	Load bool `mapstructure:"load"`
}

// LoadConfig holds configuration for the warehouse load.
type LoadConfig struct {
	// Schema is the target warehouse schema.
	Schema string `mapstructure:"schema"`

	// BatchSize is the number of rows per COPY batch.
	BatchSize int `mapstructure:"batch_size"`
}

// SampleConfig holds configuration for synthetic extract generation.
type SampleConfig struct {
	// Orders is the number of synthetic orders to generate.
	Orders int `mapstructure:"orders"`

	// Seed makes generation reproducible when non-zero.
	Seed uint64 `mapstructure:"seed"`
}

// DefaultConfig returns a Config with default values.
func DefaultConfig() *Config {
	return &Config{
		InputDir:  "data/raw",
		OutputDir: "data/processed",
		LogLevel:  "info",
		Run: RunConfig{
			Workers: 4,
		},
		Load: LoadConfig{
			Schema:    "dw",
			BatchSize: 500,
		},
		Sample: SampleConfig{
			Orders: 1000,
		},
	}
}

// Load reads configuration from config files.
// Config file locations (in order of precedence):
// 1. Path specified by configFile parameter
// 2. ./pgedge-etl.yaml
// 3. ~/.config/pgedge-etl/config.yaml
func Load(configFile string) (*Config, error) {
	v := viper.New()

	v.SetConfigName("pgedge-etl")
	v.SetConfigType("yaml")

	v.AddConfigPath(".")
	if home, err := os.UserHomeDir(); err == nil {
		v.AddConfigPath(filepath.Join(home, ".config", "pgedge-etl"))
	}

	if configFile != "" {
		v.SetConfigFile(configFile)
	}

	// Read config file (ignore if not found)
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	cfg := DefaultConfig()

	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("error parsing config: %w", err)
	}

	return cfg, nil
}

// Validate checks that required configuration is present.
func (c *Config) Validate() error {
	if c.InputDir == "" {
		return fmt.Errorf("input directory is required")
	}
	if c.OutputDir == "" {
		return fmt.Errorf("output directory is required")
	}
	return nil
}

// ValidateRun checks configuration required for the run command.
func (c *Config) ValidateRun() error {
	if err := c.Validate(); err != nil {
		return err
	}
	if c.Run.Workers < 1 {
		return fmt.Errorf("workers must be at least 1")
	}
	if c.Run.Load && c.Connection == "" {
		return fmt.Errorf("connection string is required when run.load is set")
	}
	return nil
}

// ValidateLoad checks configuration required for the load command.
func (c *Config) ValidateLoad() error {
	if err := c.Validate(); err != nil {
		return err
	}
	if c.Connection == "" {
		return fmt.Errorf("connection string is required")
	}
	if c.Load.Schema == "" {
		return fmt.Errorf("warehouse schema is required")
	}
	if c.Load.BatchSize < 1 {
		return fmt.Errorf("batch_size must be at least 1")
	}
	return nil
}

// ValidateSample checks configuration required for the sample command.
func (c *Config) ValidateSample() error {
	if c.InputDir == "" {
		return fmt.Errorf("input directory is required")
	}
	if c.Sample.Orders < 1 {
		return fmt.Errorf("sample.orders must be at least 1")
	}
	return nil
}
