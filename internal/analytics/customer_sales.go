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
	"sort"
	"time"

	"github.com/pgEdge/pgedge-etl/internal/table"
)

// CustomerSales resolves each order item to its real-world customer and
// computes, per customer in shipping-deadline order: a running sum of
// item price, the customer's total spend, the running share of that
// total, and a dense rank of price with the highest price ranked 1.
//
// Order items whose order or customer cannot be resolved are dropped
// (inner-join semantics). Ties on the shipping deadline keep their input
// order.
func CustomerSales(items, orders, customers *table.Table) (*table.Table, error) {
	orderCustomer := make(map[string]string, orders.NumRows())
	oid := orders.Col("order_id")
	ocid := orders.Col("customer_id")
	for i := 0; i < orders.NumRows(); i++ {
		orderCustomer[oid.StringAt(i)] = ocid.StringAt(i)
	}

	uniqueID := make(map[string]string, customers.NumRows())
	cid := customers.Col("customer_id")
	cuid := customers.Col("customer_unique_id")
	for i := 0; i < customers.NumRows(); i++ {
		uniqueID[cid.StringAt(i)] = cuid.StringAt(i)
	}

	type row struct {
		customer string
		orderID  string
		price    float64
		shipDate time.Time
	}

	itemOrder := items.Col("order_id")
	itemPrice := items.Col("price")
	shipLimit := items.Col("shipping_limit_date")

	rows := make([]row, 0, items.NumRows())
	for i := 0; i < items.NumRows(); i++ {
		customerID, ok := orderCustomer[itemOrder.StringAt(i)]
		if !ok {
			continue
		}
		unique, ok := uniqueID[customerID]
		if !ok {
			continue
		}
		rows = append(rows, row{
			customer: unique,
			orderID:  itemOrder.StringAt(i),
			price:    itemPrice.FloatAt(i),
			shipDate: shipLimit.TimeAt(i),
		})
	}

	sort.SliceStable(rows, func(a, b int) bool {
		if rows[a].customer != rows[b].customer {
			return rows[a].customer < rows[b].customer
		}
		return rows[a].shipDate.Before(rows[b].shipDate)
	})

	n := len(rows)
	customerCol := make([]string, n)
	orderCol := make([]string, n)
	priceCol := make([]float64, n)
	cumulative := make([]float64, n)
	groupTotal := make([]float64, n)
	percent := make([]float64, n)
	rankCol := make([]int64, n)

	for start := 0; start < n; {
		end := start
		for end < n && rows[end].customer == rows[start].customer {
			end++
		}

		var total float64
		for i := start; i < end; i++ {
			total += rows[i].price
		}

		prices := make([]float64, 0, end-start)
		var running float64
		for i := start; i < end; i++ {
			running += rows[i].price
			customerCol[i] = rows[i].customer
			orderCol[i] = rows[i].orderID
			priceCol[i] = rows[i].price
			cumulative[i] = running
			groupTotal[i] = total
			percent[i] = round2(running / total * 100)
			prices = append(prices, rows[i].price)
		}
		for i, r := range denseRankDesc(prices) {
			rankCol[start+i] = r
		}

		start = end
	}

	return table.New("customer_sales",
		table.NewString("customer_unique_id", customerCol),
		table.NewString("order_id", orderCol),
		table.NewFloat("price", priceCol),
		table.NewFloat("cumulative_sales", cumulative),
		table.NewFloat("total_customer_sales", groupTotal),
		table.NewFloat("percent_of_total", percent),
		table.NewInt("price_rank", rankCol),
	)
}
