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
	"time"

	"github.com/pgEdge/pgedge-etl/internal/schema"
	"github.com/pgEdge/pgedge-etl/internal/table"
)

const hoursPerDay = 24

// ProcessOrderItems validates the raw order items table and attaches the
// derived measures: total price, profit margin, and, when the cleaned
// orders and payments tables are available, fractional delivery time in
// days and the aggregated per-order installment count. Rows without a
// matching order or payment record carry nulls, not zeros.
func ProcessOrderItems(items, orders, payments *table.Table) (*table.Table, error) {
	if err := schema.OrderItems.Validate(items); err != nil {
		return nil, err
	}

	n := items.NumRows()
	price := items.Col("price")
	freight := items.Col("freight_value")

	total := make([]float64, n)
	margin := make([]float64, n)
	for i := 0; i < n; i++ {
		total[i] = price.FloatAt(i) + freight.FloatAt(i)
		margin[i] = price.FloatAt(i) - freight.FloatAt(i)
	}
	if err := items.AddColumn(table.NewFloat("total_price", total)); err != nil {
		return nil, err
	}
	if err := items.AddColumn(table.NewFloat("profit_margin", margin)); err != nil {
		return nil, err
	}

	orderID := items.Col("order_id")

	if orders != nil {
		type orderDates struct {
			purchase  time.Time
			delivered time.Time
			hasBoth   bool
		}
		dates := make(map[string]orderDates, orders.NumRows())
		oid := orders.Col("order_id")
		purchase := orders.Col("order_purchase_timestamp")
		delivered := orders.Col("order_delivered_customer_date")
		for i := 0; i < orders.NumRows(); i++ {
			dates[oid.StringAt(i)] = orderDates{
				purchase:  purchase.TimeAt(i),
				delivered: delivered.TimeAt(i),
				hasBoth:   !purchase.IsNull(i) && !delivered.IsNull(i),
			}
		}

		b := table.NewBuilder("delivery_time_days", table.Float)
		for i := 0; i < n; i++ {
			d, ok := dates[orderID.StringAt(i)]
			if !ok || !d.hasBoth {
				b.AppendNull()
				continue
			}
			b.AppendFloat(d.delivered.Sub(d.purchase).Hours() / hoursPerDay)
		}
		if err := items.AddColumn(b.Finish()); err != nil {
			return nil, err
		}
	}

	if payments != nil {
		counts := SumInstallments(payments)
		b := table.NewBuilder("payment_installments", table.Int)
		for i := 0; i < n; i++ {
			sum, ok := counts[orderID.StringAt(i)]
			if !ok {
				b.AppendNull()
				continue
			}
			b.AppendInt(sum)
		}
		if err := items.AddColumn(b.Finish()); err != nil {
			return nil, err
		}
	}

	return items, nil
}

// SumInstallments aggregates the installment count per order across all
// payment records. Null installment cells do not contribute to the sum.
func SumInstallments(payments *table.Table) map[string]int64 {
	oid := payments.Col("order_id")
	inst := payments.Col("payment_installments")
	counts := make(map[string]int64)
	for i := 0; i < payments.NumRows(); i++ {
		if oid.IsNull(i) {
			continue
		}
		key := oid.StringAt(i)
		if _, ok := counts[key]; !ok {
			counts[key] = 0
		}
		if !inst.IsNull(i) {
			counts[key] += inst.IntAt(i)
		}
	}
	return counts
}
