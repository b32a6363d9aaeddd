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
	"fmt"

	"github.com/pgEdge/pgedge-etl/internal/table"
)

// ViolationError reports one failed constraint on a cleaned table. It
// names the entity, the offending column, and the violated constraint.
type ViolationError struct {
	Entity     string
	Column     string
	Constraint string
	Detail     string
}

func (e *ViolationError) Error() string {
	if e.Detail != "" {
		return fmt.Sprintf("%s: column %q violates %s: %s",
			e.Entity, e.Column, e.Constraint, e.Detail)
	}
	return fmt.Sprintf("%s: column %q violates %s", e.Entity, e.Column, e.Constraint)
}

// Field declares the constraints on one column of a cleaned table.
type Field struct {
	Name     string
	Type     table.Type
	Nullable bool
	Unique   bool

	// Min and Max are inclusive numeric bounds; nil means unbounded.
	Min *float64
	Max *float64

	// In restricts a string column to a fixed allowed set.
	In []string
}

// Model is the constraint set a cleaned entity table must satisfy. Models
// are strict: every declared column must be present and no undeclared
// column may appear.
type Model struct {
	Entity string
	Fields []Field
}

// Validate checks t against the model and returns nil on success or a
// *ViolationError naming the first violated constraint.
func (m Model) Validate(t *table.Table) error {
	declared := make(map[string]Field, len(m.Fields))
	for _, f := range m.Fields {
		declared[f.Name] = f
		col := t.Col(f.Name)
		if col == nil {
			return &ViolationError{m.Entity, f.Name, "required column", "column is missing"}
		}
		if col.Type() != f.Type {
			return &ViolationError{m.Entity, f.Name, "column type",
				fmt.Sprintf("have %s, want %s", col.Type(), f.Type)}
		}
	}
	for _, name := range t.ColumnNames() {
		if _, ok := declared[name]; !ok {
			return &ViolationError{m.Entity, name, "strict schema", "column is not declared"}
		}
	}

	for _, f := range m.Fields {
		if err := m.validateField(t, f); err != nil {
			return err
		}
	}
	return nil
}

func (m Model) validateField(t *table.Table, f Field) error {
	col := t.Col(f.Name)
	n := col.Len()

	if !f.Nullable {
		for i := 0; i < n; i++ {
			if col.IsNull(i) {
				return &ViolationError{m.Entity, f.Name, "not nullable",
					fmt.Sprintf("null value at row %d", i)}
			}
		}
	}

	if f.Unique {
		seen := make(map[string]struct{}, n)
		for i := 0; i < n; i++ {
			if col.IsNull(i) {
				continue
			}
			k := col.Format(i)
			if _, dup := seen[k]; dup {
				return &ViolationError{m.Entity, f.Name, "unique",
					fmt.Sprintf("duplicate value %q", k)}
			}
			seen[k] = struct{}{}
		}
	}

	if f.Min != nil || f.Max != nil {
		for i := 0; i < n; i++ {
			v, ok := col.Number(i)
			if !ok {
				continue
			}
			if f.Min != nil && v < *f.Min {
				return &ViolationError{m.Entity, f.Name, "minimum",
					fmt.Sprintf("value %v below %v at row %d", v, *f.Min, i)}
			}
			if f.Max != nil && v > *f.Max {
				return &ViolationError{m.Entity, f.Name, "maximum",
					fmt.Sprintf("value %v above %v at row %d", v, *f.Max, i)}
			}
		}
	}

	if len(f.In) > 0 {
		allowed := make(map[string]struct{}, len(f.In))
		for _, v := range f.In {
			allowed[v] = struct{}{}
		}
		for i := 0; i < n; i++ {
			if col.IsNull(i) {
				continue
			}
			if _, ok := allowed[col.StringAt(i)]; !ok {
				return &ViolationError{m.Entity, f.Name, "allowed values",
					fmt.Sprintf("value %q not in allowed set", col.StringAt(i))}
			}
		}
	}

	return nil
}

func bound(v float64) *float64 { return &v }
