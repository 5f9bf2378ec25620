package seoblog

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/rs/zerolog/log"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// CacheService defines the interface for caching operations
type CacheService interface {
	// Set stores a value in the cache with the given key, tags, and duration
	Set(ctx context.Context, key string, data []byte, tags []string, duration time.Duration) error

	// Get retrieves a value from the cache by key. A miss returns nil, nil.
	Get(ctx context.Context, key string) ([]byte, error)

	// Invalidate removes all cache entries associated with the given tags
	Invalidate(ctx context.Context, tags ...string) error
}

// NopCacheService never stores anything. It stands in when caching is off.
type NopCacheService struct{}

func (NopCacheService) Set(context.Context, string, []byte, []string, time.Duration) error {
	return nil
}

func (NopCacheService) Get(context.Context, string) ([]byte, error) {
	return nil, nil
}

func (NopCacheService) Invalidate(context.Context, ...string) error {
	return nil
}

// InvalidateTags drops tagged entries and only logs failures; a stale
// cache must not fail the write that triggered it.
func InvalidateTags(ctx context.Context, service CacheService, tags ...string) {
	if service == nil {
		return
	}
	if err := service.Invalidate(ctx, tags...); err != nil {
		log.Warn().Err(err).Strs("tags", tags).Msg("cache invalidation failed")
	}
}

// GuardedCache counts invalidations per tag so the cache middleware can
// drop a response that was computed before an invalidation landed.
type GuardedCache struct {
	CacheService
	mu       sync.Mutex
	versions map[string]uint64
}

func NewGuardedCache(service CacheService) *GuardedCache {
	return &GuardedCache{CacheService: service, versions: make(map[string]uint64)}
}

// Invalidate bumps the tag versions before deleting, so a request that read
// the old data observes the change when it tries to store.
func (g *GuardedCache) Invalidate(ctx context.Context, tags ...string) error {
	g.mu.Lock()
	for _, tag := range tags {
		g.versions[tag]++
	}
	g.mu.Unlock()
	return g.CacheService.Invalidate(ctx, tags...)
}

// TagVersion sums the invalidation counters of tags.
func (g *GuardedCache) TagVersion(tags []string) uint64 {
	g.mu.Lock()
	defer g.mu.Unlock()
	var version uint64
	for _, tag := range tags {
		version += g.versions[tag]
	}
	return version
}

type MongoCacheService struct {
	repo *MongoRepository[CacheEntry]
}

func NewMongoCacheService(repo *MongoRepository[CacheEntry]) *MongoCacheService {
	return &MongoCacheService{repo: repo}
}

func (s *MongoCacheService) Set(ctx context.Context, key string, data []byte, tags []string, duration time.Duration) error {
	now := time.Now()
	entry := CacheEntry{
		Key:       key,
		Data:      data,
		Tags:      tags,
		TTL:       now.Add(duration).Unix(),
		CreatedAt: now.Unix(),
	}
	return s.repo.SaveOrUpdate(ctx, entry)
}

func (s *MongoCacheService) Get(ctx context.Context, key string) ([]byte, error) {
	entry, err := s.repo.FindById(ctx, key)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	if entry.IsExpired() {
		_ = s.repo.Delete(ctx, key)
		return nil, nil
	}

	return entry.Data, nil
}

func (s *MongoCacheService) Invalidate(ctx context.Context, tags ...string) error {
	if len(tags) == 0 {
		return nil
	}
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()
	_, err := s.repo.Query().DeleteMany(ctx, bson.M{"tags": bson.M{"$in": tags}})
	return err
}

// PurgeExpired deletes entries whose TTL has passed.
func (s *MongoCacheService) PurgeExpired(ctx context.Context) (int64, error) {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()
	res, err := s.repo.Query().DeleteMany(ctx, bson.M{"ttl": bson.M{"$lt": time.Now().Unix()}})
	if err != nil {
		return 0, err
	}
	return res.DeletedCount, nil
}

func (s *MongoCacheService) EnsureIndexes(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()
	_, err := s.repo.Query().Indexes().CreateMany(ctx, []mongo.IndexModel{
		{Keys: bson.D{{Key: "tags", Value: 1}}, Options: options.Index().SetName("tags_1")},
		{Keys: bson.D{{Key: "ttl", Value: 1}}, Options: options.Index().SetName("ttl_1")},
	})
	return err
}
