//-------------------------------------------------------------------------
//
// pgEdge ETL Pipeline
//
// Portions copyright (c) 2025 - 2026, pgEdge, Inc.
// This software is released under The PostgreSQL License
//
//-------------------------------------------------------------------------

// Package analytics computes grouped, order-sensitive aggregates over the
// validated tables: running sums, share-of-total, dense ranks, and
// trailing rolling means. The views it produces are recomputed on every
// run and never feed back into the base tables.
package analytics

import (
	"math"
	"sort"
)

// round2 rounds to two decimal places.
func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

// rollingMean computes the trailing rolling mean of vals with the given
// window size and a minimum of one observation, so the first element's
// mean equals itself. Results are rounded to two decimals.
func rollingMean(vals []float64, window int) []float64 {
	out := make([]float64, len(vals))
	var sum float64
	for i, v := range vals {
		sum += v
		if i >= window {
			sum -= vals[i-window]
		}
		n := i + 1
		if n > window {
			n = window
		}
		out[i] = round2(sum / float64(n))
	}
	return out
}

// denseRankDesc assigns dense ranks to vals with the highest value
// ranked 1. Equal values share a rank and ranks have no gaps.
func denseRankDesc(vals []float64) []int64 {
	distinct := make([]float64, 0, len(vals))
	seen := make(map[float64]struct{}, len(vals))
	for _, v := range vals {
		if _, ok := seen[v]; !ok {
			seen[v] = struct{}{}
			distinct = append(distinct, v)
		}
	}
	sort.Sort(sort.Reverse(sort.Float64Slice(distinct)))

	rank := make(map[float64]int64, len(distinct))
	for i, v := range distinct {
		rank[v] = int64(i + 1)
	}

	out := make([]int64, len(vals))
	for i, v := range vals {
		out[i] = rank[v]
	}
	return out
}
