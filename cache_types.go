package seoblog

import "time"

// CacheEntry is a cached response body stored in Mongo.
type CacheEntry struct {
	Key       string   `json:"key" bson:"_id"`
	Data      []byte   `json:"data" bson:"data"`
	Tags      []string `json:"tags,omitempty" bson:"tags,omitempty"`
	TTL       int64    `json:"ttl" bson:"ttl"`
	CreatedAt int64    `json:"createdAt" bson:"createdAt"`
}

func (c CacheEntry) GetCollectionName() string {
	return "cache_entries"
}

const (
	CacheKeyPrefix = "cache:"
	TagKeyPrefix   = "tag:"
)

// Helper to check if cache is expired
func (e *CacheEntry) IsExpired() bool {
	return time.Now().Unix() > e.TTL
}
