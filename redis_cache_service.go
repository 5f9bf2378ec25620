package seoblog

import (
	"context"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
)

// RedisCacheService keeps each entry under cache:<key> and a set of member
// keys under tag:<tag> for invalidation.
type RedisCacheService struct {
	client *redis.Client
}

func NewRedisCacheService(client *redis.Client) *RedisCacheService {
	return &RedisCacheService{client: client}
}

// NewRedisClient dials addr and verifies the connection with PING.
func NewRedisClient(ctx context.Context, addr, password string, db int) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, err
	}
	return client, nil
}

func (s *RedisCacheService) Set(ctx context.Context, key string, data []byte, tags []string, duration time.Duration) error {
	pipe := s.client.TxPipeline()
	pipe.Set(ctx, CacheKeyPrefix+key, data, duration)
	for _, tag := range tags {
		pipe.SAdd(ctx, TagKeyPrefix+tag, key)
		pipe.Expire(ctx, TagKeyPrefix+tag, duration)
	}
	_, err := pipe.Exec(ctx)
	return err
}

func (s *RedisCacheService) Get(ctx context.Context, key string) ([]byte, error) {
	data, err := s.client.Get(ctx, CacheKeyPrefix+key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return data, nil
}

func (s *RedisCacheService) Invalidate(ctx context.Context, tags ...string) error {
	for _, tag := range tags {
		tagKey := TagKeyPrefix + tag
		members, err := s.client.SMembers(ctx, tagKey).Result()
		if err != nil {
			return err
		}
		keys := make([]string, 0, len(members)+1)
		for _, member := range members {
			keys = append(keys, CacheKeyPrefix+member)
		}
		keys = append(keys, tagKey)
		if err := s.client.Del(ctx, keys...).Err(); err != nil {
			return err
		}
	}
	return nil
}
