//-------------------------------------------------------------------------
//
// pgEdge ETL Pipeline
//
// Portions copyright (c) 2025 - 2026, pgEdge, Inc.
// This software is released under The PostgreSQL License
//
//-------------------------------------------------------------------------

// Package table implements the in-memory column-oriented table that flows
// between pipeline stages. Columns are typed (string, int, float, time)
// and backed by Apache Arrow arrays, whose validity bitmaps keep missing
// values from being conflated with zero values.
package table

import (
	"fmt"
	"sort"
	"strings"
)

// Table is an ordered collection of equal-length columns.
type Table struct {
	name   string
	cols   []*Column
	byName map[string]*Column
}

// New creates a table from the given columns. All columns must have the
// same length and distinct names.
func New(name string, cols ...*Column) (*Table, error) {
	t := &Table{name: name, byName: make(map[string]*Column, len(cols))}
	for _, c := range cols {
		if err := t.AddColumn(c); err != nil {
			return nil, err
		}
	}
	return t, nil
}

// Name returns the table name.
func (t *Table) Name() string { return t.name }

// NumRows returns the number of rows.
func (t *Table) NumRows() int {
	if len(t.cols) == 0 {
		return 0
	}
	return t.cols[0].Len()
}

// NumCols returns the number of columns.
func (t *Table) NumCols() int { return len(t.cols) }

// Columns returns the columns in declaration order.
func (t *Table) Columns() []*Column { return t.cols }

// ColumnNames returns the column names in declaration order.
func (t *Table) ColumnNames() []string {
	names := make([]string, len(t.cols))
	for i, c := range t.cols {
		names[i] = c.name
	}
	return names
}

// Col returns the column with the given name, or nil if absent.
func (t *Table) Col(name string) *Column {
	return t.byName[name]
}

// HasCol reports whether a column with the given name exists.
func (t *Table) HasCol(name string) bool {
	_, ok := t.byName[name]
	return ok
}

// AddColumn appends a column to the table.
func (t *Table) AddColumn(c *Column) error {
	if _, ok := t.byName[c.name]; ok {
		return fmt.Errorf("table %s: duplicate column %q", t.name, c.name)
	}
	if len(t.cols) > 0 && c.Len() != t.NumRows() {
		return fmt.Errorf("table %s: column %q has %d rows, want %d",
			t.name, c.name, c.Len(), t.NumRows())
	}
	t.cols = append(t.cols, c)
	t.byName[c.name] = c
	return nil
}

// ReplaceColumn swaps in a column for the existing column of the same
// name, keeping its position. The backing arrays are immutable, so
// transforms rebuild a column through a Builder and replace it rather
// than mutating cells.
func (t *Table) ReplaceColumn(c *Column) error {
	old, ok := t.byName[c.name]
	if !ok {
		return fmt.Errorf("table %s: no column %q", t.name, c.name)
	}
	if c.Len() != old.Len() {
		return fmt.Errorf("table %s: column %q has %d rows, want %d",
			t.name, c.name, c.Len(), old.Len())
	}
	for i, cur := range t.cols {
		if cur == old {
			t.cols[i] = c
		}
	}
	t.byName[c.name] = c
	return nil
}

// RenameColumn renames a column in place.
func (t *Table) RenameColumn(old, new string) error {
	c, ok := t.byName[old]
	if !ok {
		return fmt.Errorf("table %s: no column %q", t.name, old)
	}
	if _, ok := t.byName[new]; ok {
		return fmt.Errorf("table %s: column %q already exists", t.name, new)
	}
	delete(t.byName, old)
	c.name = new
	t.byName[new] = c
	return nil
}

// Select returns a new table holding only the named columns, in the given
// order. Column data is shared, not copied.
func (t *Table) Select(names ...string) (*Table, error) {
	out := &Table{name: t.name, byName: make(map[string]*Column, len(names))}
	for _, n := range names {
		c, ok := t.byName[n]
		if !ok {
			return nil, fmt.Errorf("table %s: no column %q", t.name, n)
		}
		out.cols = append(out.cols, c)
		out.byName[n] = c
	}
	return out, nil
}

// Gather returns a new table holding the rows selected by perm, in perm
// order. Rows may be repeated or dropped.
func (t *Table) Gather(perm []int) *Table {
	out := &Table{name: t.name, byName: make(map[string]*Column, len(t.cols))}
	for _, c := range t.cols {
		gc := c.gather(perm)
		out.cols = append(out.cols, gc)
		out.byName[gc.name] = gc
	}
	return out
}

// Filter returns a new table holding only the rows for which keep returns
// true. Row order is preserved.
func (t *Table) Filter(keep func(row int) bool) *Table {
	perm := make([]int, 0, t.NumRows())
	for i := 0; i < t.NumRows(); i++ {
		if keep(i) {
			perm = append(perm, i)
		}
	}
	return t.Gather(perm)
}

// SortStable returns a new table with rows reordered by the given
// comparison. The sort is stable: ties keep their input order.
func (t *Table) SortStable(less func(i, j int) bool) *Table {
	perm := make([]int, t.NumRows())
	for i := range perm {
		perm[i] = i
	}
	sort.SliceStable(perm, func(a, b int) bool {
		return less(perm[a], perm[b])
	})
	return t.Gather(perm)
}

// RowKey renders row i as a single string, used for full-row
// de-duplication. Null cells and empty strings are distinguished.
func (t *Table) RowKey(i int) string {
	var sb strings.Builder
	for _, c := range t.cols {
		if c.IsNull(i) {
			sb.WriteString("\x00~null")
		} else {
			sb.WriteString(c.Format(i))
		}
		sb.WriteByte('\x1f')
	}
	return sb.String()
}

// WithName returns the table under a new name. Column data is shared.
func (t *Table) WithName(name string) *Table {
	out := *t
	out.name = name
	return &out
}
