package service

import (
	"context"
	"time"

	"order-etl/internal/model"
)

// ETLService runs the order extract-transform-load job.
type ETLService interface {
	// Run extracts every order, loads the documents and returns a summary.
	Run(ctx context.Context) (*RunSummary, error)

	// Extract reads and aggregates all orders in source order.
	Extract(ctx context.Context) ([]model.Order, error)

	// Load writes the aggregated orders to the document store in one bulk operation.
	Load(ctx context.Context, orders []model.Order) (model.LoadResult, error)
}

// WeekdayResolver returns the uppercase abbreviated weekday name of a time.
type WeekdayResolver interface {
	ShortName(t time.Time) (string, error)
}

// RunRecorder receives job measurements.
type RunRecorder interface {
	ObserveExtract(orders, items int)
	ObserveLoad(result model.LoadResult)
	ObserveRun(duration time.Duration, err error)
}

// RunSummary describes a finished run.
type RunSummary struct {
	RunID    string
	Orders   int
	Items    int
	Load     model.LoadResult
	Duration time.Duration
}
