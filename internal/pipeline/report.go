//-------------------------------------------------------------------------
//
// pgEdge ETL Pipeline
//
// Portions copyright (c) 2025 - 2026, pgEdge, Inc.
// This software is released under The PostgreSQL License
//
//-------------------------------------------------------------------------

package pipeline

import (
	"sync"
	"time"

	"github.com/pgEdge/pgedge-etl/internal/table"
)

// Status classifies the outcome of one unit of work.
type Status int

const (
	// StatusOK means the unit produced a table.
	StatusOK Status = iota

	// StatusSkipped means a required upstream unit was unavailable.
	StatusSkipped

	// StatusFailed means the unit itself failed.
	StatusFailed
)

func (s Status) String() string {
	switch s {
	case StatusOK:
		return "ok"
	case StatusSkipped:
		return "skipped"
	case StatusFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// Result is the outcome of one entity or stage.
type Result struct {
	Name   string
	Status Status

	// Table holds the produced table when Status is StatusOK.
	Table *table.Table

	// Reason names the missing dependency when Status is StatusSkipped.
	Reason string

	// Err is the failure when Status is StatusFailed.
	Err error

	// At is when the outcome was recorded.
	At time.Time
}

// Report aggregates the results of one pipeline run. A unit absent from
// the report never started; callers detect missing output by checking
// presence.
type Report struct {
	mu      sync.Mutex
	results map[string]Result
	order   []string
}

// NewReport creates an empty run report.
func NewReport() *Report {
	return &Report{results: make(map[string]Result)}
}

func (r *Report) add(res Result) {
	res.At = time.Now()
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.results[res.Name]; !ok {
		r.order = append(r.order, res.Name)
	}
	r.results[res.Name] = res
}

// Get returns the result for the named unit.
func (r *Report) Get(name string) (Result, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	res, ok := r.results[name]
	return res, ok
}

// Table returns the table produced by the named unit, or nil when the
// unit did not succeed.
func (r *Report) Table(name string) *table.Table {
	res, ok := r.Get(name)
	if !ok || res.Status != StatusOK {
		return nil
	}
	return res.Table
}

// Succeeded reports whether every named unit produced a table.
func (r *Report) Succeeded(names ...string) bool {
	for _, n := range names {
		if r.Table(n) == nil {
			return false
		}
	}
	return true
}

// Results returns all results in recording order.
func (r *Report) Results() []Result {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]Result, 0, len(r.order))
	for _, name := range r.order {
		out = append(out, r.results[name])
	}
	return out
}

// Failed returns the results of failed units in recording order.
func (r *Report) Failed() []Result {
	var out []Result
	for _, res := range r.Results() {
		if res.Status == StatusFailed {
			out = append(out, res)
		}
	}
	return out
}
