package service

import (
	"context"
	"fmt"
	"time"

	"order-etl/internal/archive"
	"order-etl/internal/model"
	"order-etl/internal/repository"

	"github.com/jackc/pgx/v5"
	"github.com/rs/zerolog"
)

// ETLConfig holds per-run settings of the ETL service.
type ETLConfig struct {
	RunID     string
	FetchSize int
}

// etlService implements ETLService.
type etlService struct {
	source     repository.SourceRepository
	documents  repository.OrderDocumentRepository
	aggregator *Aggregator
	archiver   archive.Archiver
	recorder   RunRecorder
	cfg        ETLConfig
	logger     zerolog.Logger
}

// NewETLService creates a new ETL service. archiver and recorder may be nil.
func NewETLService(
	source repository.SourceRepository,
	documents repository.OrderDocumentRepository,
	aggregator *Aggregator,
	archiver archive.Archiver,
	recorder RunRecorder,
	cfg ETLConfig,
	logger zerolog.Logger,
) ETLService {
	if cfg.FetchSize < 1 {
		cfg.FetchSize = 100
	}

	return &etlService{
		source:     source,
		documents:  documents,
		aggregator: aggregator,
		archiver:   archiver,
		recorder:   recorder,
		cfg:        cfg,
		logger:     logger.With().Str("service", "etl").Logger(),
	}
}

// Run extracts every order and loads them in one bulk operation.
func (s *etlService) Run(ctx context.Context) (*RunSummary, error) {
	start := time.Now()
	summary := &RunSummary{RunID: s.cfg.RunID}

	err := s.run(ctx, summary)
	summary.Duration = time.Since(start)

	if s.recorder != nil {
		s.recorder.ObserveRun(summary.Duration, err)
	}

	if err != nil {
		return summary, err
	}

	s.logger.Info().
		Int("count", summary.Orders).
		Int("items", summary.Items).
		Int("inserted", summary.Load.Inserted).
		Int("duplicates", summary.Load.Duplicates).
		Dur("duration", summary.Duration).
		Msg("orders processed")

	return summary, nil
}

func (s *etlService) run(ctx context.Context, summary *RunSummary) error {
	orders, err := s.Extract(ctx)
	if err != nil {
		return err
	}

	summary.Orders = len(orders)
	for _, o := range orders {
		summary.Items += len(o.OrderItems)
	}
	if s.recorder != nil {
		s.recorder.ObserveExtract(summary.Orders, summary.Items)
	}

	summary.Load, err = s.Load(ctx, orders)
	return err
}

// Extract reads the order cursor page by page and aggregates each order.
// The read transaction is committed on success and rolled back on any error.
func (s *etlService) Extract(ctx context.Context) (orders []model.Order, err error) {
	tx, err := s.source.BeginReadTx(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to extract orders: %w", err)
	}

	defer func() {
		if err != nil {
			if rbErr := tx.Rollback(ctx); rbErr != nil {
				s.logger.Error().Err(rbErr).Msg("failed to rollback read transaction")
			}
		}
	}()

	if err = s.source.OpenOrderCursor(ctx, tx); err != nil {
		return nil, fmt.Errorf("failed to extract orders: %w", err)
	}

	orders = []model.Order{}
	for {
		var page []model.OrderRow
		page, err = s.source.FetchOrders(ctx, tx, s.cfg.FetchSize)
		if err != nil {
			return nil, fmt.Errorf("failed to extract orders: %w", err)
		}
		if len(page) == 0 {
			break
		}

		for _, row := range page {
			var order model.Order
			order, err = s.buildOrder(ctx, tx, row)
			if err != nil {
				s.logger.Error().Err(err).Str("order_uid", row.UID).Msg("failed to build order")
				return nil, err
			}
			orders = append(orders, order)
		}

		s.logger.Debug().Int("fetched", len(page)).Int("total", len(orders)).Msg("order page processed")
	}

	if err = s.source.CloseOrderCursor(ctx, tx); err != nil {
		return nil, fmt.Errorf("failed to extract orders: %w", err)
	}

	if err = tx.Commit(ctx); err != nil {
		s.logger.Error().Err(err).Msg("failed to commit read transaction")
		return nil, fmt.Errorf("failed to extract orders: %w", err)
	}

	return orders, nil
}

// buildOrder resolves the client, items and products of one order row.
func (s *etlService) buildOrder(ctx context.Context, tx pgx.Tx, row model.OrderRow) (model.Order, error) {
	client, err := s.source.GetClientByUID(ctx, tx, row.ClientUID)
	if err != nil {
		return model.Order{}, fmt.Errorf("order %s: %w", row.UID, err)
	}
	if client == nil {
		return model.Order{}, model.ClientNotFound(row.UID, row.ClientUID)
	}

	items, err := s.source.GetOrderItemsByOrderUID(ctx, tx, row.UID)
	if err != nil {
		return model.Order{}, fmt.Errorf("order %s: %w", row.UID, err)
	}

	uids := make([]string, 0, len(items))
	seen := make(map[string]struct{}, len(items))
	for _, item := range items {
		if _, ok := seen[item.ProductUID]; !ok {
			seen[item.ProductUID] = struct{}{}
			uids = append(uids, item.ProductUID)
		}
	}

	products, err := s.source.GetProductsByUIDs(ctx, tx, uids)
	if err != nil {
		return model.Order{}, fmt.Errorf("order %s: %w", row.UID, err)
	}

	lines := make([]ItemLine, len(items))
	for i, item := range items {
		product, ok := products[item.ProductUID]
		if !ok {
			return model.Order{}, model.ProductNotFound(row.UID, item.ProductUID)
		}
		lines[i] = ItemLine{Item: item, Product: product}
	}

	return s.aggregator.Aggregate(row, client, lines)
}

// Load ensures the unique uid index and bulk-inserts the order documents.
// Duplicate uids are skipped; other write failures are returned.
func (s *etlService) Load(ctx context.Context, orders []model.Order) (model.LoadResult, error) {
	docs := model.NewOrderDocuments(orders)

	s.logger.Info().Int("count", len(docs)).Msg("loading order documents")
	if e := s.logger.Debug(); e.Enabled() {
		e.Interface("documents", docs).Msg("order documents")
	}

	if err := s.documents.EnsureUniqueIndex(ctx); err != nil {
		return model.LoadResult{Requested: len(docs)}, fmt.Errorf("failed to load orders: %w", err)
	}

	result, err := s.documents.InsertMany(ctx, docs)
	if s.recorder != nil {
		s.recorder.ObserveLoad(result)
	}
	if err != nil {
		return result, fmt.Errorf("failed to load orders: %w", err)
	}

	if result.Duplicates > 0 {
		s.logger.Info().
			Int("duplicates", result.Duplicates).
			Msg("documents already present were skipped")
	}

	s.archive(ctx, docs)

	return result, nil
}

// archive stores a copy of the batch. Failures are logged, not returned.
func (s *etlService) archive(ctx context.Context, docs []model.OrderDocument) {
	if s.archiver == nil {
		return
	}

	name := archive.ObjectName(s.cfg.RunID)
	if err := s.archiver.Archive(ctx, name, docs); err != nil {
		s.logger.Warn().Err(err).Str("name", name).Msg("failed to archive order documents")
	}
}
