package seoblog

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
)

func TestMongoCacheService(t *testing.T) {
	db := startMongo(t, "seoblog_cache_test")
	ctx := context.Background()
	service := NewMongoCacheService(NewMongoRepository[CacheEntry](db))
	require.NoError(t, service.EnsureIndexes(ctx))

	t.Run("set and get", func(t *testing.T) {
		require.NoError(t, service.Set(ctx, "blogs-list", []byte(`[]`), []string{"blogs"}, time.Minute))
		got, err := service.Get(ctx, "blogs-list")
		require.NoError(t, err)
		assert.Equal(t, []byte(`[]`), got)

		require.NoError(t, service.Set(ctx, "blogs-list", []byte(`[{}]`), []string{"blogs"}, time.Minute))
		got, err = service.Get(ctx, "blogs-list")
		require.NoError(t, err)
		assert.Equal(t, []byte(`[{}]`), got)
	})

	t.Run("miss", func(t *testing.T) {
		got, err := service.Get(ctx, "never-set")
		require.NoError(t, err)
		assert.Nil(t, got)
	})

	t.Run("expired entries are dropped on read", func(t *testing.T) {
		require.NoError(t, service.Set(ctx, "stale", []byte("x"), nil, -time.Minute))
		got, err := service.Get(ctx, "stale")
		require.NoError(t, err)
		assert.Nil(t, got)

		n, err := db.Collection("cache_entries").CountDocuments(ctx, bson.M{"_id": "stale"})
		require.NoError(t, err)
		assert.Zero(t, n)
	})

	t.Run("invalidate by tag", func(t *testing.T) {
		require.NoError(t, service.Set(ctx, "category-go", []byte("go"), []string{"categories", "blogs"}, time.Minute))
		require.NoError(t, service.Set(ctx, "tags-list", []byte("tags"), []string{"tags"}, time.Minute))

		require.NoError(t, service.Invalidate(ctx, "blogs"))

		got, err := service.Get(ctx, "category-go")
		require.NoError(t, err)
		assert.Nil(t, got)
		got, err = service.Get(ctx, "blogs-list")
		require.NoError(t, err)
		assert.Nil(t, got)
		got, err = service.Get(ctx, "tags-list")
		require.NoError(t, err)
		assert.Equal(t, []byte("tags"), got)

		assert.NoError(t, service.Invalidate(ctx))
	})

	t.Run("purge expired", func(t *testing.T) {
		require.NoError(t, service.Set(ctx, "old-1", []byte("1"), nil, -time.Hour))
		require.NoError(t, service.Set(ctx, "old-2", []byte("2"), nil, -time.Hour))

		purged, err := service.PurgeExpired(ctx)
		require.NoError(t, err)
		assert.EqualValues(t, 2, purged)

		got, err := service.Get(ctx, "tags-list")
		require.NoError(t, err)
		assert.NotNil(t, got)
	})
}
