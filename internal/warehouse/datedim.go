//-------------------------------------------------------------------------
//
// pgEdge ETL Pipeline
//
// Portions copyright (c) 2025 - 2026, pgEdge, Inc.
// This software is released under The PostgreSQL License
//
//-------------------------------------------------------------------------

// Package warehouse assembles the star schema from the validated tables
// and loads it into the PostgreSQL warehouse: a synthesized date
// dimension, enriched customer and product dimensions, and the order-item
// fact table with surrogate-key resolution.
package warehouse

import (
	"sort"
	"time"

	"github.com/pgEdge/pgedge-etl/internal/table"
)

// DateIndex maps a calendar date's surrogate key (YYYYMMDD) to itself,
// recording which dates have a dimension row. Resolution is exact: a
// date absent from the index has no surrogate key.
type DateIndex map[int64]struct{}

// Resolve returns the surrogate key for ts, or 0 when ts is null or its
// calendar date has no dimension row.
func (idx DateIndex) Resolve(ts time.Time, valid bool) int64 {
	if !valid {
		return 0
	}
	key := DateKey(ts)
	if _, ok := idx[key]; !ok {
		return 0
	}
	return key
}

// DateKey formats a date as its 8-digit integer surrogate key.
func DateKey(ts time.Time) int64 {
	y, m, d := ts.Date()
	return int64(y)*10000 + int64(m)*100 + int64(d)
}

// BuildDateDimension synthesizes one row per distinct calendar date
// appearing as either a purchase or a delivered-to-customer date across
// all orders, sorted ascending. The surrogate key is the date formatted
// as YYYYMMDD; calendar attributes follow the Monday=0 day-of-week
// convention with Saturday and Sunday flagged as weekend.
func BuildDateDimension(orders *table.Table) (*table.Table, DateIndex, error) {
	purchase := orders.Col("order_purchase_timestamp")
	delivered := orders.Col("order_delivered_customer_date")

	distinct := make(map[int64]time.Time)
	collect := func(c *table.Column) {
		for i := 0; i < c.Len(); i++ {
			if c.IsNull(i) {
				continue
			}
			ts := c.TimeAt(i)
			y, m, d := ts.Date()
			date := time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
			distinct[DateKey(date)] = date
		}
	}
	collect(purchase)
	collect(delivered)

	keys := make([]int64, 0, len(distinct))
	for k := range distinct {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(a, b int) bool { return keys[a] < keys[b] })

	n := len(keys)
	dates := make([]time.Time, n)
	years := make([]int64, n)
	months := make([]int64, n)
	days := make([]int64, n)
	quarters := make([]int64, n)
	weekdays := make([]int64, n)
	weekends := make([]int64, n)

	idx := make(DateIndex, n)
	for i, k := range keys {
		date := distinct[k]
		idx[k] = struct{}{}

		y, m, d := date.Date()
		dates[i] = date
		years[i] = int64(y)
		months[i] = int64(m)
		days[i] = int64(d)
		quarters[i] = (int64(m)-1)/3 + 1
		// Monday=0 .. Sunday=6
		weekdays[i] = (int64(date.Weekday()) + 6) % 7
		if weekdays[i] >= 5 {
			weekends[i] = 1
		}
	}

	dim, err := table.New("dim_date",
		table.NewTime("date", dates),
		table.NewInt("date_id", keys),
		table.NewInt("year", years),
		table.NewInt("month", months),
		table.NewInt("day", days),
		table.NewInt("quarter", quarters),
		table.NewInt("day_of_week", weekdays),
		table.NewInt("is_weekend", weekends),
	)
	if err != nil {
		return nil, nil, err
	}
	return dim, idx, nil
}
