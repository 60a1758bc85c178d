package metrics

import (
	"context"
	"fmt"
	"time"

	"order-etl/internal/model"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/push"
)

// Registry holds the job's metrics. Values are pushed once at exit.
type Registry struct {
	reg               *prometheus.Registry
	OrdersExtracted   prometheus.Counter
	ItemsExtracted    prometheus.Counter
	DocumentsInserted prometheus.Counter
	DuplicatesSkipped prometheus.Counter
	RunDurationSec    prometheus.Gauge
	LastSuccessUnix   prometheus.Gauge
	RunFailed         prometheus.Gauge
}

// NewRegistry creates the job metrics on a dedicated registry.
func NewRegistry() *Registry {
	r := prometheus.NewRegistry()
	orders := prometheus.NewCounter(prometheus.CounterOpts{Name: "order_etl_orders_extracted_total"})
	items := prometheus.NewCounter(prometheus.CounterOpts{Name: "order_etl_items_extracted_total"})
	inserted := prometheus.NewCounter(prometheus.CounterOpts{Name: "order_etl_documents_inserted_total"})
	duplicates := prometheus.NewCounter(prometheus.CounterOpts{Name: "order_etl_duplicates_skipped_total"})
	duration := prometheus.NewGauge(prometheus.GaugeOpts{Name: "order_etl_run_duration_seconds"})
	lastSuccess := prometheus.NewGauge(prometheus.GaugeOpts{Name: "order_etl_last_success_timestamp_seconds"})
	failed := prometheus.NewGauge(prometheus.GaugeOpts{Name: "order_etl_run_failed"})

	r.MustRegister(orders, items, inserted, duplicates, duration, lastSuccess, failed)
	return &Registry{
		reg:               r,
		OrdersExtracted:   orders,
		ItemsExtracted:    items,
		DocumentsInserted: inserted,
		DuplicatesSkipped: duplicates,
		RunDurationSec:    duration,
		LastSuccessUnix:   lastSuccess,
		RunFailed:         failed,
	}
}

// ObserveExtract counts extracted orders and items.
func (r *Registry) ObserveExtract(orders, items int) {
	r.OrdersExtracted.Add(float64(orders))
	r.ItemsExtracted.Add(float64(items))
}

// ObserveLoad counts inserted and skipped documents.
func (r *Registry) ObserveLoad(result model.LoadResult) {
	r.DocumentsInserted.Add(float64(result.Inserted))
	r.DuplicatesSkipped.Add(float64(result.Duplicates))
}

// ObserveRun records the run duration and outcome.
func (r *Registry) ObserveRun(duration time.Duration, err error) {
	r.RunDurationSec.Set(duration.Seconds())
	if err != nil {
		r.RunFailed.Set(1)
		return
	}
	r.RunFailed.Set(0)
	r.LastSuccessUnix.SetToCurrentTime()
}

// Push sends all metrics to a Prometheus Pushgateway, replacing the job's group.
func (r *Registry) Push(ctx context.Context, url, job string) error {
	if err := push.New(url, job).Gatherer(r.reg).PushContext(ctx); err != nil {
		return fmt.Errorf("failed to push metrics: %w", err)
	}
	return nil
}
