package middleware

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/klass-lk/seoblog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type MockAuthenticator struct {
	mock.Mock
}

func (m *MockAuthenticator) Authenticate(ctx context.Context, token string) (seoblog.AuthContext, error) {
	args := m.Called(ctx, token)
	return args.Get(0).(seoblog.AuthContext), args.Error(1)
}

var (
	author = seoblog.AuthContext{UserID: "author-1", Username: "author", Role: seoblog.RoleAuthor}
	other  = seoblog.AuthContext{UserID: "author-2", Username: "other", Role: seoblog.RoleAuthor}
	admin  = seoblog.AuthContext{UserID: "admin-1", Username: "admin", Role: seoblog.RoleAdmin}
)

func newRouter(auth Authenticator, caps ...Capability) *gin.Engine {
	r := gin.New()
	guard := NewGuard(auth)
	handlers := append(guard.Require(caps...), func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"ok": true})
	})
	r.PUT("/blog/:slug", handlers...)
	return r
}

func call(r http.Handler, token string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPut, "/blog/hello", nil)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func errorMessage(t *testing.T, w *httptest.ResponseRecorder) string {
	var body seoblog.ErrorResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	return body.Message
}

func ownedBy(id string) OwnerResolver {
	return func(*gin.Context) (string, error) { return id, nil }
}

func TestAuthenticateMissingToken(t *testing.T) {
	auth := new(MockAuthenticator)
	w := call(newRouter(auth, Any), "")

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, "No authorization token was found", errorMessage(t, w))
	auth.AssertNotCalled(t, "Authenticate", mock.Anything, mock.Anything)
}

func TestAuthenticateInvalidToken(t *testing.T) {
	auth := new(MockAuthenticator)
	auth.On("Authenticate", mock.Anything, "bad").Return(seoblog.AuthContext{}, seoblog.ErrUnauthorized.New("Invalid or expired token"))

	w := call(newRouter(auth, Any), "bad")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestAuthenticateReadsCookie(t *testing.T) {
	auth := new(MockAuthenticator)
	auth.On("Authenticate", mock.Anything, "from-cookie").Return(author, nil)

	req := httptest.NewRequest(http.MethodPut, "/blog/hello", nil)
	req.AddCookie(&http.Cookie{Name: seoblog.TokenCookie, Value: "from-cookie"})
	w := httptest.NewRecorder()
	newRouter(auth, Any).ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	auth.AssertExpectations(t)
}

func TestPolicy(t *testing.T) {
	tests := []struct {
		name    string
		subject seoblog.AuthContext
		caps    []Capability
		status  int
		message string
	}{
		{name: "any allows authors", subject: author, caps: []Capability{Any}, status: http.StatusOK},
		{name: "admin allows admins", subject: admin, caps: []Capability{Admin}, status: http.StatusOK},
		{name: "admin rejects authors", subject: author, caps: []Capability{Admin}, status: http.StatusForbidden, message: "Access denied!"},
		{name: "owner allows the owner", subject: author, caps: []Capability{Owner(ownedBy("author-1")), Admin}, status: http.StatusOK},
		{name: "owner set allows admins", subject: admin, caps: []Capability{Owner(ownedBy("author-1")), Admin}, status: http.StatusOK},
		{name: "owner set rejects others", subject: other, caps: []Capability{Owner(ownedBy("author-1")), Admin}, status: http.StatusForbidden, message: "You are not authorized"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			auth := new(MockAuthenticator)
			auth.On("Authenticate", mock.Anything, "token").Return(tt.subject, nil)

			w := call(newRouter(auth, tt.caps...), "token")
			assert.Equal(t, tt.status, w.Code)
			if tt.message != "" {
				assert.Equal(t, tt.message, errorMessage(t, w))
			}
		})
	}
}

func TestPolicyOwnerLookupFailure(t *testing.T) {
	auth := new(MockAuthenticator)
	auth.On("Authenticate", mock.Anything, "token").Return(other, nil)
	missing := func(*gin.Context) (string, error) {
		return "", seoblog.ErrNotFound.New("Blog")
	}

	w := call(newRouter(auth, Owner(missing)), "token")
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "Blog not found", errorMessage(t, w))
}

func TestPolicyOwnerResolverError(t *testing.T) {
	auth := new(MockAuthenticator)
	auth.On("Authenticate", mock.Anything, "token").Return(other, nil)
	broken := func(*gin.Context) (string, error) { return "", errors.New("boom") }

	w := call(newRouter(auth, Owner(broken)), "token")
	assert.Equal(t, http.StatusInternalServerError, w.Code)
}

func TestLoginLimiter(t *testing.T) {
	now := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	limiter := NewLoginLimiter(2, time.Minute)
	limiter.now = func() time.Time { return now }

	assert.True(t, limiter.Check("203.0.113.10"))
	limiter.Record("203.0.113.10")
	limiter.Record("203.0.113.10")
	assert.False(t, limiter.Check("203.0.113.10"))
	assert.True(t, limiter.Check("203.0.113.11"), "limits are per ip")

	now = now.Add(2 * time.Minute)
	assert.True(t, limiter.Check("203.0.113.10"), "attempts expire with the window")

	limiter.Record("203.0.113.12")
	now = now.Add(2 * time.Minute)
	limiter.Cleanup()
	limiter.mu.Lock()
	assert.Empty(t, limiter.attempts)
	limiter.mu.Unlock()
}

func TestLoginLimiterMiddleware(t *testing.T) {
	limiter := NewLoginLimiter(2, time.Minute)
	r := gin.New()
	status := http.StatusBadRequest
	r.POST("/signin", limiter.Middleware(), func(c *gin.Context) {
		c.JSON(status, gin.H{})
	})

	post := func() int {
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/signin", nil))
		return w.Code
	}

	assert.Equal(t, http.StatusBadRequest, post())
	assert.Equal(t, http.StatusBadRequest, post())
	assert.Equal(t, http.StatusTooManyRequests, post())

	limiter.Reset("192.0.2.1")
	status = http.StatusOK
	assert.Equal(t, http.StatusOK, post())
}
