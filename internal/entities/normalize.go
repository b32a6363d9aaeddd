//-------------------------------------------------------------------------
//
// pgEdge ETL Pipeline
//
// Portions copyright (c) 2025 - 2026, pgEdge, Inc.
// This software is released under The PostgreSQL License
//
//-------------------------------------------------------------------------

package entities

import (
	"sort"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/pgEdge/pgedge-etl/internal/table"
)

// mustReplace swaps a rebuilt column into t. The builder was seeded from
// an existing column of the same name and length, so the replace cannot
// fail.
func mustReplace(t *table.Table, b *table.Builder) {
	if err := t.ReplaceColumn(b.Finish()); err != nil {
		panic(err)
	}
}

// titleCaseColumn title-cases every value of a free-text string column.
// Null cells are left alone. The caser is constructed per call: x/text
// casers hold internal state and are not safe for concurrent use, and
// entities are processed on concurrent goroutines.
func titleCaseColumn(t *table.Table, name string) {
	col := t.Col(name)
	if col == nil {
		return
	}
	caser := cases.Title(language.Und)
	b := table.NewBuilder(name, table.String)
	for i := 0; i < col.Len(); i++ {
		if col.IsNull(i) {
			b.AppendNull()
			continue
		}
		b.AppendString(caser.String(col.StringAt(i)))
	}
	mustReplace(t, b)
}

// snakeCaseColumn lowercases a string column and replaces spaces with
// underscores.
func snakeCaseColumn(t *table.Table, name string) {
	col := t.Col(name)
	if col == nil {
		return
	}
	b := table.NewBuilder(name, table.String)
	for i := 0; i < col.Len(); i++ {
		if col.IsNull(i) {
			b.AppendNull()
			continue
		}
		b.AppendString(strings.ReplaceAll(strings.ToLower(col.StringAt(i)), " ", "_"))
	}
	mustReplace(t, b)
}

// fillString replaces null cells of a string column with the given
// default.
func fillString(t *table.Table, name, def string) {
	col := t.Col(name)
	if col == nil {
		return
	}
	b := table.NewBuilder(name, table.String)
	for i := 0; i < col.Len(); i++ {
		if col.IsNull(i) {
			b.AppendString(def)
			continue
		}
		b.AppendString(col.StringAt(i))
	}
	mustReplace(t, b)
}

// fillInt replaces null cells of an int column with the given default.
func fillInt(t *table.Table, name string, def int64) {
	col := t.Col(name)
	if col == nil {
		return
	}
	b := table.NewBuilder(name, table.Int)
	for i := 0; i < col.Len(); i++ {
		if col.IsNull(i) {
			b.AppendInt(def)
			continue
		}
		b.AppendInt(col.IntAt(i))
	}
	mustReplace(t, b)
}

// fillFloatMedian replaces null cells of a float column with the median
// of its non-null values. An all-null column is left unchanged.
func fillFloatMedian(t *table.Table, name string) {
	col := t.Col(name)
	if col == nil {
		return
	}
	var vals []float64
	for i := 0; i < col.Len(); i++ {
		if !col.IsNull(i) {
			vals = append(vals, col.FloatAt(i))
		}
	}
	if len(vals) == 0 {
		return
	}
	sort.Float64s(vals)
	var med float64
	mid := len(vals) / 2
	if len(vals)%2 == 1 {
		med = vals[mid]
	} else {
		med = (vals[mid-1] + vals[mid]) / 2
	}
	b := table.NewBuilder(name, table.Float)
	for i := 0; i < col.Len(); i++ {
		if col.IsNull(i) {
			b.AppendFloat(med)
			continue
		}
		b.AppendFloat(col.FloatAt(i))
	}
	mustReplace(t, b)
}

// dedupeRows drops rows equal to an earlier row across every column,
// keeping the first occurrence.
func dedupeRows(t *table.Table) *table.Table {
	seen := make(map[string]struct{}, t.NumRows())
	return t.Filter(func(i int) bool {
		k := t.RowKey(i)
		if _, dup := seen[k]; dup {
			return false
		}
		seen[k] = struct{}{}
		return true
	})
}

// dedupeByColumn drops rows whose value in the named column equals an
// earlier row's value, keeping the first occurrence.
func dedupeByColumn(t *table.Table, name string) *table.Table {
	col := t.Col(name)
	if col == nil {
		return t
	}
	seen := make(map[string]struct{}, t.NumRows())
	return t.Filter(func(i int) bool {
		if col.IsNull(i) {
			return true
		}
		k := col.Format(i)
		if _, dup := seen[k]; dup {
			return false
		}
		seen[k] = struct{}{}
		return true
	})
}

// dropNullRows drops every row holding a null in any of the named
// columns.
func dropNullRows(t *table.Table, names ...string) *table.Table {
	cols := make([]*table.Column, 0, len(names))
	for _, n := range names {
		if c := t.Col(n); c != nil {
			cols = append(cols, c)
		}
	}
	return t.Filter(func(i int) bool {
		for _, c := range cols {
			if c.IsNull(i) {
				return false
			}
		}
		return true
	})
}
