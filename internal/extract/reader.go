//-------------------------------------------------------------------------
//
// pgEdge ETL Pipeline
//
// Portions copyright (c) 2025 - 2026, pgEdge, Inc.
// This software is released under The PostgreSQL License
//
//-------------------------------------------------------------------------

// Package extract reads raw delimited extracts into typed tables and
// writes table artifacts back out. Typing follows the schema registry;
// the transformation stages never touch files themselves.
package extract

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/pgEdge/pgedge-etl/internal/schema"
	"github.com/pgEdge/pgedge-etl/internal/table"
)

// timeLayouts are the accepted timestamp forms, tried in order.
var timeLayouts = []string{
	"2006-01-02 15:04:05",
	"2006-01-02",
}

// ReadEntity reads the named entity's raw extract from dir, typed
// according to the schema registry. Columns the registry does not
// declare are read as strings so that strict validation can reject them.
// Empty cells become nulls. Malformed timestamp text fails the read
// unless the entity's schema is marked lenient, in which case it becomes
// a null.
func ReadEntity(dir, entity string) (*table.Table, error) {
	fs, err := schema.FileSchemaFor(entity)
	if err != nil {
		return nil, err
	}

	path := filepath.Join(dir, fs.File)
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open extract: %w", err)
	}
	defer f.Close()

	r := csv.NewReader(f)

	header, err := r.Read()
	if err != nil {
		return nil, fmt.Errorf("%s: failed to read header: %w", fs.File, err)
	}
	// Reuse record buffers only after the header is read. With reuse on,
	// the header slice would share its backing array with every following
	// record and error messages would report cell values as column names.
	r.ReuseRecord = true

	declared := make(map[string]table.Type, len(fs.Columns))
	for _, c := range fs.Columns {
		declared[c.Name] = c.Type
	}

	builders := make([]*table.Builder, len(header))
	types := make([]table.Type, len(header))
	for i, name := range header {
		typ, ok := declared[name]
		if !ok {
			typ = table.String
		}
		types[i] = typ
		builders[i] = table.NewBuilder(name, typ)
	}

	line := 1
	for {
		record, err := r.Read()
		if err != nil {
			if errors.Is(err, io.EOF) {
				break
			}
			return nil, fmt.Errorf("%s: read error at line %d: %w", fs.File, line+1, err)
		}
		line++

		for i, cell := range record {
			if i >= len(builders) {
				break
			}
			if err := appendCell(builders[i], types[i], cell, fs.LenientDates); err != nil {
				return nil, fmt.Errorf("%s: line %d column %q: %w",
					fs.File, line, header[i], err)
			}
		}
	}

	cols := make([]*table.Column, len(builders))
	for i, b := range builders {
		cols[i] = b.Finish()
	}
	return table.New(entity, cols...)
}

func appendCell(b *table.Builder, typ table.Type, cell string, lenientDates bool) error {
	if cell == "" {
		b.AppendNull()
		return nil
	}
	switch typ {
	case table.String:
		b.AppendString(cell)
	case table.Int:
		v, err := strconv.ParseInt(cell, 10, 64)
		if err != nil {
			return fmt.Errorf("invalid integer %q", cell)
		}
		b.AppendInt(v)
	case table.Float:
		v, err := strconv.ParseFloat(cell, 64)
		if err != nil {
			return fmt.Errorf("invalid number %q", cell)
		}
		b.AppendFloat(v)
	case table.Time:
		ts, ok := parseTime(cell)
		if !ok {
			if lenientDates {
				b.AppendNull()
				return nil
			}
			return fmt.Errorf("invalid timestamp %q", cell)
		}
		b.AppendTime(ts)
	}
	return nil
}

func parseTime(cell string) (time.Time, bool) {
	for _, layout := range timeLayouts {
		if ts, err := time.ParseInLocation(layout, cell, time.UTC); err == nil {
			return ts, true
		}
	}
	return time.Time{}, false
}
