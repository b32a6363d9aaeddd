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

type reviewsProcessor struct{}

func init() {
	Register(reviewsProcessor{})
}

func (reviewsProcessor) Name() string {
	return "order_reviews"
}

func (reviewsProcessor) Process(t *table.Table) (*table.Table, error) {
	t = dedupeByColumn(t, "review_id")
	fillString(t, "review_comment_title", "")
	fillString(t, "review_comment_message", "")
	if err := schema.OrderReviews.Validate(t); err != nil {
		return nil, err
	}
	return t, nil
}
