package repository

import (
	"context"
	"errors"
	"fmt"

	"order-etl/internal/model"

	"github.com/rs/zerolog"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const duplicateKeyCode = 11000

// orderDocumentRepository implements the OrderDocumentRepository interface using MongoDB.
type orderDocumentRepository struct {
	collection *mongo.Collection
	logger     zerolog.Logger
}

// NewOrderDocumentRepository creates a new MongoDB-backed order document repository.
func NewOrderDocumentRepository(collection *mongo.Collection, logger zerolog.Logger) OrderDocumentRepository {
	return &orderDocumentRepository{
		collection: collection,
		logger: logger.With().
			Str("repository", "order_document").
			Str("collection", collection.Name()).
			Logger(),
	}
}

// EnsureUniqueIndex creates the unique uid index. Re-creating an identical index is a no-op.
func (r *orderDocumentRepository) EnsureUniqueIndex(ctx context.Context) error {
	index := mongo.IndexModel{
		Keys:    bson.D{{Key: "uid", Value: 1}},
		Options: options.Index().SetUnique(true),
	}

	name, err := r.collection.Indexes().CreateOne(ctx, index)
	if err != nil {
		r.logger.Error().Err(err).Msg("failed to ensure unique uid index")
		return fmt.Errorf("failed to ensure unique uid index: %w", err)
	}

	r.logger.Debug().Str("index", name).Msg("unique uid index ensured")

	return nil
}

// InsertMany performs one unordered bulk insert. Duplicate-key conflicts are
// counted and absorbed; any other write failure is returned.
func (r *orderDocumentRepository) InsertMany(ctx context.Context, docs []model.OrderDocument) (model.LoadResult, error) {
	result := model.LoadResult{Requested: len(docs)}
	if len(docs) == 0 {
		return result, nil
	}

	payload := make([]interface{}, len(docs))
	for i := range docs {
		payload[i] = docs[i]
	}

	_, err := r.collection.InsertMany(ctx, payload, options.InsertMany().SetOrdered(false))
	if err == nil {
		result.Inserted = len(docs)
		r.logger.Debug().Int("inserted", result.Inserted).Msg("documents inserted")
		return result, nil
	}

	var bulkErr mongo.BulkWriteException
	if errors.As(err, &bulkErr) {
		failed := 0
		for _, we := range bulkErr.WriteErrors {
			if we.Code == duplicateKeyCode {
				result.Duplicates++
				continue
			}
			failed++
		}
		result.Inserted = len(docs) - len(bulkErr.WriteErrors)

		if failed == 0 && bulkErr.WriteConcernError == nil {
			r.logger.Debug().
				Int("inserted", result.Inserted).
				Int("duplicates", result.Duplicates).
				Msg("duplicate uids skipped")
			return result, nil
		}

		r.logger.Error().
			Err(err).
			Int("inserted", result.Inserted).
			Int("duplicates", result.Duplicates).
			Int("failed", failed).
			Msg("bulk insert failed")
		return result, fmt.Errorf("bulk insert failed: %w", err)
	}

	if mongo.IsDuplicateKeyError(err) {
		r.logger.Debug().Err(err).Msg("duplicate uid skipped")
		return result, nil
	}

	r.logger.Error().Err(err).Int("requested", len(docs)).Msg("bulk insert failed")
	return result, fmt.Errorf("bulk insert failed: %w", err)
}
