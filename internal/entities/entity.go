//-------------------------------------------------------------------------
//
// pgEdge ETL Pipeline
//
// Portions copyright (c) 2025 - 2026, pgEdge, Inc.
// This software is released under The PostgreSQL License
//
//-------------------------------------------------------------------------

// Package entities implements per-entity cleaning and validation. Each
// source entity has a Processor that normalizes its raw table and checks
// it against the entity's constraint model. Processors register
// themselves at startup; the pipeline resolves them by entity name.
package entities

import (
	"fmt"
	"sort"
	"sync"

	"github.com/pgEdge/pgedge-etl/internal/table"
)

// Processor cleans and validates one entity's raw table. Process returns
// a new validated table; it never mutates validated state and has no side
// effects beyond the returned table.
type Processor interface {
	// Name returns the entity name.
	Name() string

	// Process normalizes and validates the raw table.
	Process(t *table.Table) (*table.Table, error)
}

var (
	registry = make(map[string]Processor)
	mu       sync.RWMutex
)

// Register adds a processor to the registry.
func Register(p Processor) {
	mu.Lock()
	defer mu.Unlock()
	registry[p.Name()] = p
}

// Get retrieves a processor by entity name.
func Get(name string) (Processor, error) {
	mu.RLock()
	defer mu.RUnlock()

	p, ok := registry[name]
	if !ok {
		return nil, fmt.Errorf("unknown entity: %s", name)
	}
	return p, nil
}

// List returns all registered entity names in sorted order.
func List() []string {
	mu.RLock()
	defer mu.RUnlock()

	names := make([]string, 0, len(registry))
	for name := range registry {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
