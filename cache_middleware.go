package seoblog

import (
	"bytes"
	"context"
	"crypto/sha256"
	"encoding/hex"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
)

// CacheKeyGenerator defines a function to generate a cache key from the request
type CacheKeyGenerator func(c *gin.Context) string

// TagGenerator defines a function to generate tags for the cache entry
type TagGenerator func(c *gin.Context) []string

type cacheWriter struct {
	gin.ResponseWriter
	body *bytes.Buffer
}

func (w *cacheWriter) Write(b []byte) (int, error) {
	w.body.Write(b)
	return w.ResponseWriter.Write(b)
}

func (w *cacheWriter) WriteString(s string) (int, error) {
	w.body.WriteString(s)
	return w.ResponseWriter.WriteString(s)
}

// DefaultKeyGenerator generates a key based on the request URL and query parameters
func DefaultKeyGenerator(c *gin.Context) string {
	url := c.Request.URL.String()
	hash := sha256.Sum256([]byte(url))
	return hex.EncodeToString(hash[:])
}

type tagVersioner interface {
	TagVersion(tags []string) uint64
}

// StaticTags tags every entry with the same fixed tags.
func StaticTags(tags ...string) TagGenerator {
	return func(*gin.Context) []string {
		return tags
	}
}

// CacheMiddleware returns a Gin middleware that caches successful GET
// responses and replays them as JSON.
func CacheMiddleware(service CacheService, duration time.Duration, tagGen TagGenerator, keyGen CacheKeyGenerator) gin.HandlerFunc {
	if keyGen == nil {
		keyGen = DefaultKeyGenerator
	}

	return func(c *gin.Context) {
		if c.Request.Method != http.MethodGet {
			c.Next()
			return
		}

		key := keyGen(c)

		cachedData, err := service.Get(c.Request.Context(), key)
		if err != nil {
			log.Warn().Err(err).Msg("cache lookup failed")
		}
		if err == nil && cachedData != nil {
			c.Header("X-Cache", "HIT")
			c.Data(http.StatusOK, "application/json; charset=utf-8", cachedData)
			c.Abort()
			return
		}

		c.Header("X-Cache", "MISS")
		tags := []string{}
		if tagGen != nil {
			tags = tagGen(c)
		}
		versioner, guarded := service.(tagVersioner)
		var version uint64
		if guarded {
			version = versioner.TagVersion(tags)
		}
		writer := &cacheWriter{
			ResponseWriter: c.Writer,
			body:           &bytes.Buffer{},
		}
		c.Writer = writer

		c.Next()

		if c.Writer.Status() != http.StatusOK {
			return
		}
		if guarded && versioner.TagVersion(tags) != version {
			log.Debug().Strs("tags", tags).Msg("cache store skipped, tags invalidated mid-request")
			return
		}
		if err := service.Set(context.Background(), key, writer.body.Bytes(), tags, duration); err != nil {
			log.Warn().Err(err).Msg("cache store failed")
		}
	}
}

// TaggedCache binds a service and duration so routes only name their tags.
// A nil service yields a pass-through middleware.
func TaggedCache(service CacheService, duration time.Duration) func(tags ...string) gin.HandlerFunc {
	return func(tags ...string) gin.HandlerFunc {
		if service == nil {
			return func(c *gin.Context) { c.Next() }
		}
		return CacheMiddleware(service, duration, StaticTags(tags...), nil)
	}
}
