//-------------------------------------------------------------------------
//
// pgEdge ETL Pipeline
//
// Portions copyright (c) 2025 - 2026, pgEdge, Inc.
// This software is released under The PostgreSQL License
//
//-------------------------------------------------------------------------

package warehouse

import (
	"time"

	"github.com/pgEdge/pgedge-etl/internal/entities"
	"github.com/pgEdge/pgedge-etl/internal/table"
)

// FactColumns is the fixed output column order of the fact table.
var FactColumns = []string{
	"order_id", "order_item_id", "product_id", "seller_id", "customer_id",
	"purchase_date_id", "delivery_date_id", "price", "freight_value",
	"total_price", "profit_margin", "delivery_time", "payment_installments",
}

// BuildFactTable assembles one fact row per order item: foreign
// references to product, seller and customer, both date-dimension
// surrogate keys, and the derived measures. Delivery time here is whole
// days truncated toward zero, 0 when the order has not been delivered;
// the delivery surrogate key likewise defaults to 0 so "not yet
// delivered" is distinguishable from a null join miss.
func BuildFactTable(items, orders, payments *table.Table, idx DateIndex) (*table.Table, error) {
	type orderInfo struct {
		customerID   string
		purchase     time.Time
		hasPurchase  bool
		delivered    time.Time
		hasDelivered bool
	}
	byOrder := make(map[string]orderInfo, orders.NumRows())
	oid := orders.Col("order_id")
	cid := orders.Col("customer_id")
	purchase := orders.Col("order_purchase_timestamp")
	delivered := orders.Col("order_delivered_customer_date")
	for i := 0; i < orders.NumRows(); i++ {
		byOrder[oid.StringAt(i)] = orderInfo{
			customerID:   cid.StringAt(i),
			purchase:     purchase.TimeAt(i),
			hasPurchase:  !purchase.IsNull(i),
			delivered:    delivered.TimeAt(i),
			hasDelivered: !delivered.IsNull(i),
		}
	}

	// Installment counts come from the order items table when validation
	// already attached them, otherwise from the payments table directly,
	// defaulting to 1 for orders without any payment record.
	var installments map[string]int64
	itemInstallments := items.Col("payment_installments")
	if itemInstallments == nil && payments != nil {
		installments = entities.SumInstallments(payments)
	}

	n := items.NumRows()
	itemOrder := items.Col("order_id")
	price := items.Col("price")
	freight := items.Col("freight_value")
	totalPrice := items.Col("total_price")
	profitMargin := items.Col("profit_margin")

	customerB := table.NewBuilder("customer_id", table.String)
	purchaseID := make([]int64, n)
	deliveryID := make([]int64, n)
	total := make([]float64, n)
	margin := make([]float64, n)
	deliveryDays := make([]int64, n)
	installmentB := table.NewBuilder("payment_installments", table.Int)

	for i := 0; i < n; i++ {
		info, ok := byOrder[itemOrder.StringAt(i)]
		if ok {
			customerB.AppendString(info.customerID)
		} else {
			customerB.AppendNull()
		}

		purchaseID[i] = idx.Resolve(info.purchase, ok && info.hasPurchase)
		deliveryID[i] = idx.Resolve(info.delivered, ok && info.hasDelivered)

		if totalPrice != nil {
			total[i] = totalPrice.FloatAt(i)
		} else {
			total[i] = price.FloatAt(i) + freight.FloatAt(i)
		}
		if profitMargin != nil {
			margin[i] = profitMargin.FloatAt(i)
		} else {
			margin[i] = price.FloatAt(i) - freight.FloatAt(i)
		}

		if ok && info.hasPurchase && info.hasDelivered {
			deliveryDays[i] = int64(info.delivered.Sub(info.purchase).Hours() / 24)
		}

		switch {
		case itemInstallments != nil:
			if err := installmentB.Copy(itemInstallments, i); err != nil {
				return nil, err
			}
		case installments != nil:
			if sum, found := installments[itemOrder.StringAt(i)]; found {
				installmentB.AppendInt(sum)
			} else {
				installmentB.AppendInt(1)
			}
		default:
			installmentB.AppendInt(1)
		}
	}

	keyCols, err := items.Select("order_id", "order_item_id", "product_id", "seller_id")
	if err != nil {
		return nil, err
	}

	fact := keyCols.WithName("fact_order_items")
	for _, col := range []*table.Column{
		customerB.Finish(),
		table.NewInt("purchase_date_id", purchaseID),
		table.NewInt("delivery_date_id", deliveryID),
	} {
		if err := fact.AddColumn(col); err != nil {
			return nil, err
		}
	}
	priceCols, err := items.Select("price", "freight_value")
	if err != nil {
		return nil, err
	}
	for _, col := range priceCols.Columns() {
		if err := fact.AddColumn(col); err != nil {
			return nil, err
		}
	}
	for _, col := range []*table.Column{
		table.NewFloat("total_price", total),
		table.NewFloat("profit_margin", margin),
		table.NewInt("delivery_time", deliveryDays),
		installmentB.Finish(),
	} {
		if err := fact.AddColumn(col); err != nil {
			return nil, err
		}
	}

	return fact, nil
}
