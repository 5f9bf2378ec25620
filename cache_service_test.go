package seoblog

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

func TestNopCacheService(t *testing.T) {
	ctx := context.Background()
	var service CacheService = NopCacheService{}

	assert.NoError(t, service.Set(ctx, "k", []byte("v"), []string{"blogs"}, time.Minute))
	got, err := service.Get(ctx, "k")
	assert.NoError(t, err)
	assert.Nil(t, got)
	assert.NoError(t, service.Invalidate(ctx, "blogs"))
}

func TestInvalidateTags(t *testing.T) {
	ctx := context.Background()

	service := new(MockCacheService)
	service.On("Invalidate", mock.Anything, []string{"categories", "blogs"}).Return(errors.New("cache down"))
	assert.NotPanics(t, func() { InvalidateTags(ctx, service, "categories", "blogs") })
	service.AssertExpectations(t)

	assert.NotPanics(t, func() { InvalidateTags(ctx, nil, "blogs") })
}

func TestCacheEntryExpiry(t *testing.T) {
	now := time.Now()
	assert.False(t, (&CacheEntry{TTL: now.Add(time.Minute).Unix()}).IsExpired())
	assert.True(t, (&CacheEntry{TTL: now.Add(-time.Minute).Unix()}).IsExpired())
	assert.Equal(t, "cache_entries", CacheEntry{}.GetCollectionName())
}
