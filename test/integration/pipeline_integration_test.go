package integration

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"order-etl/internal/archive"
	"order-etl/internal/model"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo/options"
)

func findAll(t *testing.T, env *TestEnv) []model.OrderDocument {
	t.Helper()

	ctx := context.Background()
	cursor, err := env.Collection.Find(ctx, bson.D{}, options.Find().SetSort(bson.D{{Key: "uid", Value: 1}}))
	require.NoError(t, err)

	var docs []model.OrderDocument
	require.NoError(t, cursor.All(ctx, &docs))
	return docs
}

func TestPipeline_Integration(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}

	env := SetupTestEnv(t)
	ctx := context.Background()

	t.Run("Extract preserves source order", func(t *testing.T) {
		CleanupSource(t, env.Pool)
		SeedSource(t, env.Pool)

		etl, _ := env.NewETL(t, "extract", nil)

		orders, err := etl.Extract(ctx)
		require.NoError(t, err)
		require.Len(t, orders, 3)
		assert.Equal(t, []string{"O3", "O1", "O2"}, []string{orders[0].UID, orders[1].UID, orders[2].UID})

		// Item order follows the order_items query.
		require.Len(t, orders[1].OrderItems, 3)
		assert.Equal(t, "P3", orders[1].OrderItems[0].UID)
		assert.Equal(t, "P1", orders[1].OrderItems[1].UID)
		assert.Equal(t, "P2", orders[1].OrderItems[2].UID)
	})

	t.Run("Full run loads denormalised documents", func(t *testing.T) {
		CleanupSource(t, env.Pool)
		SeedSource(t, env.Pool)
		require.NoError(t, env.Collection.Drop(ctx))

		etl, _ := env.NewETL(t, "full", nil)

		summary, err := etl.Run(ctx)
		require.NoError(t, err)
		assert.Equal(t, 3, summary.Orders)
		assert.Equal(t, 5, summary.Items)
		assert.Equal(t, model.LoadResult{Requested: 3, Inserted: 3}, summary.Load)

		docs := findAll(t, env)
		require.Len(t, docs, 3)

		o3 := docs[2]
		assert.Equal(t, "O3", o3.UID)
		assert.Equal(t, "Jane Doe", o3.ClientName)
		assert.Equal(t, "1 Main St", o3.ClientAddress)
		// 2*10 + 1*5 = 25, last tax rate 0.2
		assert.InDelta(t, 25.0, o3.Subtotal, 1e-9)
		assert.InDelta(t, 5.0, o3.Taxes, 1e-9)
		assert.InDelta(t, 30.0, o3.Total, 1e-9)
		assert.True(t, o3.IsPromotionDay)
		assert.Equal(t, "Acme", o3.MostPopularBrand)
		assert.InDelta(t, 19.432608, o3.Latitude, 1e-9)

		o1 := docs[0]
		// Tie on quantity 3: first encountered wins.
		assert.Equal(t, "Cotton", o1.MostPopularBrand)
		assert.False(t, o1.IsPromotionDay)

		o2 := docs[1]
		assert.Empty(t, o2.OrderItems)
		assert.Equal(t, model.NoBrand, o2.MostPopularBrand)
		assert.Equal(t, 0.0, o2.Total)
	})

	t.Run("Re-run absorbs duplicate keys", func(t *testing.T) {
		CleanupSource(t, env.Pool)
		SeedSource(t, env.Pool)
		require.NoError(t, env.Collection.Drop(ctx))

		first, _ := env.NewETL(t, "first", nil)
		_, err := first.Run(ctx)
		require.NoError(t, err)

		second, _ := env.NewETL(t, "second", nil)
		summary, err := second.Run(ctx)
		require.NoError(t, err)
		assert.Equal(t, model.LoadResult{Requested: 3, Inserted: 0, Duplicates: 3}, summary.Load)

		assert.Len(t, findAll(t, env), 3)
	})

	t.Run("Conflicting document does not block the rest of the batch", func(t *testing.T) {
		CleanupSource(t, env.Pool)
		SeedSource(t, env.Pool)
		require.NoError(t, env.Collection.Drop(ctx))

		_, err := env.Collection.InsertOne(ctx, model.OrderDocument{UID: "O1", Status: "STALE"})
		require.NoError(t, err)

		etl, _ := env.NewETL(t, "partial", nil)
		summary, err := etl.Run(ctx)
		require.NoError(t, err)
		assert.Equal(t, model.LoadResult{Requested: 3, Inserted: 2, Duplicates: 1}, summary.Load)

		docs := findAll(t, env)
		require.Len(t, docs, 3)
		assert.Equal(t, "STALE", docs[0].Status)
	})

	t.Run("Missing client aborts the run", func(t *testing.T) {
		CleanupSource(t, env.Pool)
		SeedSource(t, env.Pool)
		require.NoError(t, env.Collection.Drop(ctx))

		_, err := env.Pool.Exec(ctx, `INSERT INTO orders (uid, date_of_order, client_uid, status, latitude, longitude)
			VALUES ('O4', '2024-03-07 10:00:00+00', 'C404', 'PENDING', 0, 0)`)
		require.NoError(t, err)

		etl, registry := env.NewETL(t, "orphan", nil)
		_, err = etl.Run(ctx)

		require.Error(t, err)
		assert.ErrorIs(t, err, model.ErrClientNotFound)
		assert.Empty(t, findAll(t, env))
		assert.Equal(t, 1.0, testutil.ToFloat64(registry.RunFailed))
	})

	t.Run("Archive is written after the load", func(t *testing.T) {
		CleanupSource(t, env.Pool)
		SeedSource(t, env.Pool)
		require.NoError(t, env.Collection.Drop(ctx))

		dir := t.TempDir()
		etl, _ := env.NewETL(t, "archived", archive.NewFileArchiver(dir, zerolog.Nop()))

		_, err := etl.Run(ctx)
		require.NoError(t, err)

		info, err := os.Stat(filepath.Join(dir, archive.ObjectName("archived")))
		require.NoError(t, err)
		assert.Greater(t, info.Size(), int64(0))
	})
}
