//-------------------------------------------------------------------------
//
// pgEdge ETL Pipeline
//
// Portions copyright (c) 2025 - 2026, pgEdge, Inc.
// This software is released under The PostgreSQL License
//
//-------------------------------------------------------------------------

package analytics

import (
	"fmt"
	"sort"

	"github.com/pgEdge/pgedge-etl/internal/table"
)

// rollingWindows are the trailing window sizes for the per-category
// delivery-time rolling means.
var rollingWindows = []int{3, 7, 14}

// CategoryDeliveryTime joins order items to product categories and to
// delivered orders with a strictly positive delivery time, then computes
// per category, in ascending delivery-time order: trailing rolling means
// over 3, 7 and 14 rows (minimum one observation) and the category's
// overall mean delivery time.
func CategoryDeliveryTime(items, products, orders *table.Table) (*table.Table, error) {
	// Fractional delivery time per delivered order, positive only.
	deliveryDays := make(map[string]float64, orders.NumRows())
	oid := orders.Col("order_id")
	purchase := orders.Col("order_purchase_timestamp")
	delivered := orders.Col("order_delivered_customer_date")
	for i := 0; i < orders.NumRows(); i++ {
		if purchase.IsNull(i) || delivered.IsNull(i) {
			continue
		}
		days := delivered.TimeAt(i).Sub(purchase.TimeAt(i)).Hours() / 24
		if days > 0 {
			deliveryDays[oid.StringAt(i)] = days
		}
	}

	category := make(map[string]string, products.NumRows())
	pid := products.Col("product_id")
	cat := products.Col("product_category_name")
	for i := 0; i < products.NumRows(); i++ {
		category[pid.StringAt(i)] = cat.StringAt(i)
	}

	type row struct {
		orderID   string
		productID string
		category  string
		days      float64
	}

	itemOrder := items.Col("order_id")
	itemProduct := items.Col("product_id")

	rows := make([]row, 0, items.NumRows())
	for i := 0; i < items.NumRows(); i++ {
		c, ok := category[itemProduct.StringAt(i)]
		if !ok {
			continue
		}
		days, ok := deliveryDays[itemOrder.StringAt(i)]
		if !ok {
			continue
		}
		rows = append(rows, row{
			orderID:   itemOrder.StringAt(i),
			productID: itemProduct.StringAt(i),
			category:  c,
			days:      days,
		})
	}

	sort.SliceStable(rows, func(a, b int) bool {
		if rows[a].category != rows[b].category {
			return rows[a].category < rows[b].category
		}
		return rows[a].days < rows[b].days
	})

	n := len(rows)
	orderCol := make([]string, n)
	productCol := make([]string, n)
	categoryCol := make([]string, n)
	daysCol := make([]float64, n)
	rolling := make(map[int][]float64, len(rollingWindows))
	for _, w := range rollingWindows {
		rolling[w] = make([]float64, n)
	}
	meanCol := make([]float64, n)

	for start := 0; start < n; {
		end := start
		for end < n && rows[end].category == rows[start].category {
			end++
		}

		days := make([]float64, 0, end-start)
		var sum float64
		for i := start; i < end; i++ {
			orderCol[i] = rows[i].orderID
			productCol[i] = rows[i].productID
			categoryCol[i] = rows[i].category
			daysCol[i] = rows[i].days
			days = append(days, rows[i].days)
			sum += rows[i].days
		}

		for _, w := range rollingWindows {
			for i, v := range rollingMean(days, w) {
				rolling[w][start+i] = v
			}
		}

		mean := round2(sum / float64(end-start))
		for i := start; i < end; i++ {
			meanCol[i] = mean
		}

		start = end
	}

	cols := []*table.Column{
		table.NewString("order_id", orderCol),
		table.NewString("product_id", productCol),
		table.NewString("product_category_name", categoryCol),
		table.NewFloat("delivery_time_days", daysCol),
	}
	for _, w := range rollingWindows {
		cols = append(cols, table.NewFloat(fmt.Sprintf("rolling_avg_%dd", w), rolling[w]))
	}
	cols = append(cols, table.NewFloat("category_mean", meanCol))

	return table.New("category_delivery_time", cols...)
}
