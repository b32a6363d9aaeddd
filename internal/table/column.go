//-------------------------------------------------------------------------
//
// pgEdge ETL Pipeline
//
// Portions copyright (c) 2025 - 2026, pgEdge, Inc.
// This software is released under The PostgreSQL License
//
//-------------------------------------------------------------------------

package table

import (
	"fmt"
	"strconv"
	"time"

	"github.com/apache/arrow-go/v18/arrow"
	"github.com/apache/arrow-go/v18/arrow/array"
	"github.com/apache/arrow-go/v18/arrow/memory"
)

// Type identifies the value type of a column.
type Type int

const (
	String Type = iota
	Int
	Float
	Time
)

// timeLayout is the canonical text form for timestamps in artifacts.
const timeLayout = "2006-01-02 15:04:05"

func (t Type) String() string {
	switch t {
	case String:
		return "string"
	case Int:
		return "int"
	case Float:
		return "float"
	case Time:
		return "time"
	default:
		return "unknown"
	}
}

// Column wraps an Arrow array under a name. The array carries the
// per-row validity bitmap, so missing values survive every
// transformation without being conflated with zero values. Arrays are
// immutable; transforms rebuild a column through a Builder and swap it
// in with Table.ReplaceColumn. Reading a null cell returns the type's
// zero value; callers interested in nullness must check IsNull first.
type Column struct {
	name string
	typ  Type
	arr  arrow.Array
}

// NewString creates a string column with every row valid.
func NewString(name string, vals []string) *Column {
	b := array.NewStringBuilder(memory.NewGoAllocator())
	defer b.Release()
	b.AppendValues(vals, nil)
	return &Column{name: name, typ: String, arr: b.NewArray()}
}

// NewInt creates an int column with every row valid.
func NewInt(name string, vals []int64) *Column {
	b := array.NewInt64Builder(memory.NewGoAllocator())
	defer b.Release()
	b.AppendValues(vals, nil)
	return &Column{name: name, typ: Int, arr: b.NewArray()}
}

// NewFloat creates a float column with every row valid.
func NewFloat(name string, vals []float64) *Column {
	b := array.NewFloat64Builder(memory.NewGoAllocator())
	defer b.Release()
	b.AppendValues(vals, nil)
	return &Column{name: name, typ: Float, arr: b.NewArray()}
}

// NewTime creates a time column with every row valid.
func NewTime(name string, vals []time.Time) *Column {
	b := array.NewTimestampBuilder(memory.NewGoAllocator(),
		&arrow.TimestampType{Unit: arrow.Nanosecond})
	defer b.Release()
	for _, v := range vals {
		b.Append(arrow.Timestamp(v.UnixNano()))
	}
	return &Column{name: name, typ: Time, arr: b.NewArray()}
}

// Name returns the column name.
func (c *Column) Name() string { return c.name }

// Type returns the column type.
func (c *Column) Type() Type { return c.typ }

// Len returns the number of rows.
func (c *Column) Len() int { return c.arr.Len() }

// IsNull reports whether row i holds no value.
func (c *Column) IsNull(i int) bool { return c.arr.IsNull(i) }

// StringAt returns the string value at row i.
func (c *Column) StringAt(i int) string {
	a, ok := c.arr.(*array.String)
	if !ok || a.IsNull(i) {
		return ""
	}
	return a.Value(i)
}

// IntAt returns the int value at row i.
func (c *Column) IntAt(i int) int64 {
	a, ok := c.arr.(*array.Int64)
	if !ok || a.IsNull(i) {
		return 0
	}
	return a.Value(i)
}

// FloatAt returns the float value at row i.
func (c *Column) FloatAt(i int) float64 {
	a, ok := c.arr.(*array.Float64)
	if !ok || a.IsNull(i) {
		return 0
	}
	return a.Value(i)
}

// TimeAt returns the time value at row i.
func (c *Column) TimeAt(i int) time.Time {
	a, ok := c.arr.(*array.Timestamp)
	if !ok || a.IsNull(i) {
		return time.Time{}
	}
	return time.Unix(0, int64(a.Value(i))).UTC()
}

// Number returns the value at row i as a float64 for numeric columns.
// Used by range-bound validation, which treats int and float uniformly.
func (c *Column) Number(i int) (float64, bool) {
	if c.arr.IsNull(i) {
		return 0, false
	}
	switch a := c.arr.(type) {
	case *array.Int64:
		return float64(a.Value(i)), true
	case *array.Float64:
		return a.Value(i), true
	default:
		return 0, false
	}
}

// Format renders the value at row i for text artifacts. Null cells render
// as the empty string.
func (c *Column) Format(i int) string {
	if c.arr.IsNull(i) {
		return ""
	}
	switch a := c.arr.(type) {
	case *array.String:
		return a.Value(i)
	case *array.Int64:
		return strconv.FormatInt(a.Value(i), 10)
	case *array.Float64:
		return strconv.FormatFloat(a.Value(i), 'f', -1, 64)
	case *array.Timestamp:
		return time.Unix(0, int64(a.Value(i))).UTC().Format(timeLayout)
	default:
		return ""
	}
}

// Value returns the value at row i as an interface value suitable for
// database parameters: nil for null, otherwise string, int64, float64 or
// time.Time.
func (c *Column) Value(i int) any {
	if c.arr.IsNull(i) {
		return nil
	}
	switch a := c.arr.(type) {
	case *array.String:
		return a.Value(i)
	case *array.Int64:
		return a.Value(i)
	case *array.Float64:
		return a.Value(i)
	case *array.Timestamp:
		return time.Unix(0, int64(a.Value(i))).UTC()
	default:
		return nil
	}
}

// gather returns a new column holding the rows of c selected by perm,
// in perm order.
func (c *Column) gather(perm []int) *Column {
	b := NewBuilder(c.name, c.typ)
	for _, i := range perm {
		b.copyValue(c, i)
	}
	return b.Finish()
}

// Builder constructs a column row by row, allowing nulls. It wraps the
// Arrow builder for the column's type.
type Builder struct {
	name string
	typ  Type
	b    array.Builder
}

// NewBuilder creates a builder for a column of the given name and type.
func NewBuilder(name string, typ Type) *Builder {
	mem := memory.NewGoAllocator()
	var b array.Builder
	switch typ {
	case Int:
		b = array.NewInt64Builder(mem)
	case Float:
		b = array.NewFloat64Builder(mem)
	case Time:
		b = array.NewTimestampBuilder(mem, &arrow.TimestampType{Unit: arrow.Nanosecond})
	default:
		b = array.NewStringBuilder(mem)
	}
	return &Builder{name: name, typ: typ, b: b}
}

// AppendString appends a string value.
func (b *Builder) AppendString(v string) {
	b.b.(*array.StringBuilder).Append(v)
}

// AppendInt appends an int value.
func (b *Builder) AppendInt(v int64) {
	b.b.(*array.Int64Builder).Append(v)
}

// AppendFloat appends a float value.
func (b *Builder) AppendFloat(v float64) {
	b.b.(*array.Float64Builder).Append(v)
}

// AppendTime appends a time value.
func (b *Builder) AppendTime(v time.Time) {
	b.b.(*array.TimestampBuilder).Append(arrow.Timestamp(v.UnixNano()))
}

// AppendNull appends a null cell.
func (b *Builder) AppendNull() {
	b.b.AppendNull()
}

// Copy appends the value at row i of src, preserving nulls. The source
// column must have the same type as the builder.
func (b *Builder) Copy(src *Column, i int) error {
	if src.typ != b.typ {
		return fmt.Errorf("cannot copy %s value into %s column %q",
			src.typ, b.typ, b.name)
	}
	b.copyValue(src, i)
	return nil
}

// copyValue appends the value at row i of src, which must hold the
// builder's type.
func (b *Builder) copyValue(src *Column, i int) {
	if src.arr.IsNull(i) {
		b.b.AppendNull()
		return
	}
	switch a := src.arr.(type) {
	case *array.String:
		b.b.(*array.StringBuilder).Append(a.Value(i))
	case *array.Int64:
		b.b.(*array.Int64Builder).Append(a.Value(i))
	case *array.Float64:
		b.b.(*array.Float64Builder).Append(a.Value(i))
	case *array.Timestamp:
		b.b.(*array.TimestampBuilder).Append(a.Value(i))
	}
}

// Len returns the number of rows appended so far.
func (b *Builder) Len() int { return b.b.Len() }

// Finish returns the built column and releases the builder.
func (b *Builder) Finish() *Column {
	arr := b.b.NewArray()
	b.b.Release()
	return &Column{name: b.name, typ: b.typ, arr: arr}
}
