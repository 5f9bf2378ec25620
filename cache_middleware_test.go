package seoblog

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

type MockCacheService struct {
	mock.Mock
}

func (m *MockCacheService) Set(ctx context.Context, key string, data []byte, tags []string, duration time.Duration) error {
	args := m.Called(ctx, key, data, tags, duration)
	return args.Error(0)
}

func (m *MockCacheService) Get(ctx context.Context, key string) ([]byte, error) {
	args := m.Called(ctx, key)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]byte), args.Error(1)
}

func (m *MockCacheService) Invalidate(ctx context.Context, tags ...string) error {
	args := m.Called(ctx, tags)
	return args.Error(0)
}

func cachedRouter(service CacheService, handler gin.HandlerFunc) *gin.Engine {
	r := gin.New()
	cache := TaggedCache(service, time.Minute)
	r.GET("/blogs", cache("blogs", "categories"), handler)
	r.POST("/blogs", cache("blogs"), handler)
	return r
}

func TestCacheMiddlewareMiss(t *testing.T) {
	gin.SetMode(gin.TestMode)
	service := new(MockCacheService)
	service.On("Get", mock.Anything, mock.Anything).Return(nil, nil)
	service.On("Set", mock.Anything, mock.Anything, []byte(`[{"slug":"hello"}]`), []string{"blogs", "categories"}, time.Minute).Return(nil)

	r := cachedRouter(service, func(c *gin.Context) {
		c.String(http.StatusOK, `[{"slug":"hello"}]`)
	})
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/blogs", nil))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "MISS", w.Header().Get("X-Cache"))
	assert.Equal(t, `[{"slug":"hello"}]`, w.Body.String())
	service.AssertExpectations(t)
}

func TestCacheMiddlewareHit(t *testing.T) {
	gin.SetMode(gin.TestMode)
	service := new(MockCacheService)
	service.On("Get", mock.Anything, DefaultKeyGenerator(&gin.Context{Request: httptest.NewRequest(http.MethodGet, "/blogs", nil)})).
		Return([]byte(`[{"slug":"cached"}]`), nil)

	r := cachedRouter(service, func(c *gin.Context) {
		t.Error("handler must not run on a hit")
	})
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/blogs", nil))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "HIT", w.Header().Get("X-Cache"))
	assert.Equal(t, "application/json; charset=utf-8", w.Header().Get("Content-Type"))
	assert.Equal(t, `[{"slug":"cached"}]`, w.Body.String())
	service.AssertNotCalled(t, "Set", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestCacheMiddlewareSkipsErrorsAndWrites(t *testing.T) {
	gin.SetMode(gin.TestMode)
	service := new(MockCacheService)
	service.On("Get", mock.Anything, mock.Anything).Return(nil, errors.New("cache down"))

	r := cachedRouter(service, func(c *gin.Context) {
		c.JSON(http.StatusNotFound, ErrorResponse{ErrorCode: "NOT_FOUND", Message: "Blog not found"})
	})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/blogs", nil))
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/blogs", nil))
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Empty(t, w.Header().Get("X-Cache"))

	service.AssertNumberOfCalls(t, "Get", 1)
	service.AssertNotCalled(t, "Set", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestCacheKeysIncludeTheQuery(t *testing.T) {
	key := func(target string) string {
		return DefaultKeyGenerator(&gin.Context{Request: httptest.NewRequest(http.MethodGet, target, nil)})
	}
	assert.Equal(t, key("/blogs/search?search=go"), key("/blogs/search?search=go"))
	assert.NotEqual(t, key("/blogs/search?search=go"), key("/blogs/search?search=rust"))
}

func TestTaggedCacheWithoutService(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := cachedRouter(nil, func(c *gin.Context) {
		c.String(http.StatusOK, "fresh")
	})
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/blogs", nil))

	assert.Equal(t, "fresh", w.Body.String())
	assert.Empty(t, w.Header().Get("X-Cache"))
}

func TestCacheMiddlewareSkipsStoreAfterInvalidation(t *testing.T) {
	gin.SetMode(gin.TestMode)
	tests := []struct {
		name        string
		invalidated string
		stored      bool
	}{
		{name: "listing tag invalidated", invalidated: "blogs", stored: false},
		{name: "unrelated tag invalidated", invalidated: "users", stored: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			service := new(MockCacheService)
			service.On("Get", mock.Anything, mock.Anything).Return(nil, nil)
			service.On("Invalidate", mock.Anything, []string{tt.invalidated}).Return(nil)
			service.On("Set", mock.Anything, mock.Anything, []byte("stale"), []string{"blogs", "categories"}, time.Minute).Return(nil)
			guarded := NewGuardedCache(service)

			r := cachedRouter(guarded, func(c *gin.Context) {
				// a write lands while this listing is being rendered
				InvalidateTags(c.Request.Context(), guarded, tt.invalidated)
				c.String(http.StatusOK, "stale")
			})
			w := httptest.NewRecorder()
			r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/blogs", nil))

			assert.Equal(t, http.StatusOK, w.Code)
			assert.Equal(t, "stale", w.Body.String())
			if tt.stored {
				service.AssertCalled(t, "Set", mock.Anything, mock.Anything, []byte("stale"), []string{"blogs", "categories"}, time.Minute)
			} else {
				service.AssertNotCalled(t, "Set", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
			}
		})
	}
}

func TestGuardedCacheTagVersion(t *testing.T) {
	service := new(MockCacheService)
	service.On("Invalidate", mock.Anything, mock.Anything).Return(nil)
	guarded := NewGuardedCache(service)

	assert.Equal(t, uint64(0), guarded.TagVersion([]string{"blogs", "tags"}))
	assert.NoError(t, guarded.Invalidate(context.Background(), "blogs"))
	assert.NoError(t, guarded.Invalidate(context.Background(), "blogs", "tags"))
	assert.Equal(t, uint64(2), guarded.TagVersion([]string{"blogs"}))
	assert.Equal(t, uint64(3), guarded.TagVersion([]string{"blogs", "tags"}))
	assert.Equal(t, uint64(0), guarded.TagVersion([]string{"categories"}))
	service.AssertNumberOfCalls(t, "Invalidate", 2)
}
