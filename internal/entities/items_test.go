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
	"math"
	"testing"
	"time"

	"github.com/pgEdge/pgedge-etl/internal/table"
)

func itemsFixture(t *testing.T) *table.Table {
	t.Helper()
	ship := time.Date(2018, 2, 1, 12, 0, 0, 0, time.UTC)
	return mustTable(t, "order_items",
		table.NewString("order_id", []string{"o1", "o2", "o3"}),
		table.NewInt("order_item_id", []int64{1, 1, 1}),
		table.NewString("product_id", []string{"p1", "p2", "p3"}),
		table.NewString("seller_id", []string{"s1", "s2", "s3"}),
		table.NewTime("shipping_limit_date", []time.Time{ship, ship, ship}),
		table.NewFloat("price", []float64{100, 50, 20}),
		table.NewFloat("freight_value", []float64{10, 5, 2}),
	)
}

func ordersFixture(t *testing.T) *table.Table {
	t.Helper()
	purchase := time.Date(2018, 1, 1, 0, 0, 0, 0, time.UTC)
	estimate := purchase.Add(30 * 24 * time.Hour)
	delivered := table.NewBuilder("order_delivered_customer_date", table.Time)
	delivered.AppendTime(purchase.Add(60 * time.Hour))
	delivered.AppendNull()
	approved := table.NewBuilder("order_approved_at", table.Time)
	approved.AppendTime(purchase.Add(time.Hour))
	approved.AppendTime(purchase.Add(time.Hour))
	carrier := table.NewBuilder("order_delivered_carrier_date", table.Time)
	carrier.AppendTime(purchase.Add(24 * time.Hour))
	carrier.AppendNull()
	return mustTable(t, "orders",
		table.NewString("order_id", []string{"o1", "o2"}),
		table.NewString("customer_id", []string{"c1", "c2"}),
		table.NewString("order_status", []string{"delivered", "shipped"}),
		table.NewTime("order_purchase_timestamp", []time.Time{purchase, purchase}),
		approved.Finish(),
		carrier.Finish(),
		delivered.Finish(),
		table.NewTime("order_estimated_delivery_date", []time.Time{estimate, estimate}),
	)
}

func paymentsFixture(t *testing.T) *table.Table {
	t.Helper()
	return mustTable(t, "order_payments",
		table.NewString("order_id", []string{"o1", "o1", "o2"}),
		table.NewInt("payment_sequential", []int64{1, 2, 1}),
		table.NewString("payment_type", []string{"credit_card", "voucher", "boleto"}),
		table.NewInt("payment_installments", []int64{3, 1, 2}),
		table.NewFloat("payment_value", []float64{80, 30, 55}),
	)
}

func TestProcessOrderItemsDerivedMeasures(t *testing.T) {
	out, err := ProcessOrderItems(itemsFixture(t), ordersFixture(t), paymentsFixture(t))
	if err != nil {
		t.Fatalf("ProcessOrderItems failed: %v", err)
	}

	t.Run("total price and profit margin", func(t *testing.T) {
		if got := out.Col("total_price").FloatAt(0); got != 110 {
			t.Errorf("total_price = %v, want 110", got)
		}
		if got := out.Col("profit_margin").FloatAt(0); got != 90 {
			t.Errorf("profit_margin = %v, want 90", got)
		}
	})

	t.Run("fractional delivery time", func(t *testing.T) {
		col := out.Col("delivery_time_days")
		// o1 was delivered 60 hours after purchase.
		if got := col.FloatAt(0); math.Abs(got-2.5) > 1e-9 {
			t.Errorf("delivery_time_days = %v, want 2.5", got)
		}
		// o2 has no delivery timestamp.
		if !col.IsNull(1) {
			t.Error("Undelivered order should carry a null delivery time")
		}
		// o3 has no matching order row.
		if !col.IsNull(2) {
			t.Error("Unmatched order should carry a null delivery time")
		}
	})

	t.Run("aggregated installments", func(t *testing.T) {
		col := out.Col("payment_installments")
		if got := col.IntAt(0); got != 4 {
			t.Errorf("Installments for o1 = %d, want 3+1=4", got)
		}
		if got := col.IntAt(1); got != 2 {
			t.Errorf("Installments for o2 = %d, want 2", got)
		}
		if !col.IsNull(2) {
			t.Error("Order without payments should carry a null installment count")
		}
	})
}

func TestProcessOrderItemsWithoutCollaborators(t *testing.T) {
	out, err := ProcessOrderItems(itemsFixture(t), nil, nil)
	if err != nil {
		t.Fatalf("ProcessOrderItems failed: %v", err)
	}
	if !out.HasCol("total_price") || !out.HasCol("profit_margin") {
		t.Error("Price measures should be attached even without collaborators")
	}
	if out.HasCol("delivery_time_days") || out.HasCol("payment_installments") {
		t.Error("Join-derived columns require the collaborator tables")
	}
}

func TestProcessOrderItemsRejectsInvalidInput(t *testing.T) {
	items := itemsFixture(t)
	col := items.Col("price")
	b := table.NewBuilder("price", table.Float)
	b.AppendFloat(-1)
	for i := 1; i < col.Len(); i++ {
		b.AppendFloat(col.FloatAt(i))
	}
	if err := items.ReplaceColumn(b.Finish()); err != nil {
		t.Fatalf("ReplaceColumn failed: %v", err)
	}
	if _, err := ProcessOrderItems(items, nil, nil); err == nil {
		t.Error("Expected validation error for negative price")
	}
}

func TestSumInstallments(t *testing.T) {
	inst := table.NewBuilder("payment_installments", table.Int)
	inst.AppendInt(2)
	inst.AppendInt(3)
	inst.AppendNull()
	payments := mustTable(t, "order_payments",
		table.NewString("order_id", []string{"o1", "o1", "o2"}),
		inst.Finish(),
	)

	counts := SumInstallments(payments)
	if counts["o1"] != 5 {
		t.Errorf("o1 = %d, want 5", counts["o1"])
	}
	// o2's only record has a null count; the order is still present.
	got, ok := counts["o2"]
	if !ok || got != 0 {
		t.Errorf("o2 = %d (present %v), want 0 present", got, ok)
	}
}
