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
	"github.com/pgEdge/pgedge-etl/internal/schema"
	"github.com/pgEdge/pgedge-etl/internal/table"
)

type paymentsProcessor struct{}

func init() {
	Register(paymentsProcessor{})
}

func (paymentsProcessor) Name() string {
	return "order_payments"
}

func (paymentsProcessor) Process(t *table.Table) (*table.Table, error) {
	// A zero installment count means a single payment.
	if col := t.Col("payment_installments"); col != nil {
		b := table.NewBuilder("payment_installments", table.Int)
		for i := 0; i < col.Len(); i++ {
			switch {
			case col.IsNull(i):
				b.AppendNull()
			case col.IntAt(i) == 0:
				b.AppendInt(1)
			default:
				b.AppendInt(col.IntAt(i))
			}
		}
		mustReplace(t, b)
	}
	fillString(t, "payment_type", "not_defined")
	if err := schema.OrderPayments.Validate(t); err != nil {
		return nil, err
	}
	return t, nil
}
