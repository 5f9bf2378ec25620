package seoblog

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAuthContextRoundTrip(t *testing.T) {
	gin.SetMode(gin.TestMode)
	c, _ := gin.CreateTestContext(httptest.NewRecorder())

	_, err := NewContext(c).GetAuthContext()
	var apiErr ApiError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusUnauthorized, apiErr.Status)

	SetAuthContext(c, AuthContext{UserID: "650000000000000000000001", Username: "alice", Role: RoleAdmin})
	auth, err := NewContext(c).GetAuthContext()
	require.NoError(t, err)
	assert.Equal(t, "alice", auth.Username)
	assert.True(t, auth.IsAdmin())
	assert.False(t, AuthContext{Role: RoleAuthor}.IsAdmin())
}

type signinRequest struct {
	Email    string `json:"email" binding:"required,email" msg:"Must be a valid email address"`
	Password string `json:"password" binding:"required,min=6" msg:"Password must be at least 6 characters long"`
}

func TestGetRequest(t *testing.T) {
	gin.SetMode(gin.TestMode)

	tests := []struct {
		name    string
		body    string
		status  int
		message string
	}{
		{name: "valid", body: `{"email":"alice@example.com","password":"secret12"}`},
		{name: "malformed", body: `{"email":`, status: http.StatusBadRequest, message: "Invalid request body"},
		{name: "bad email", body: `{"email":"alice","password":"secret12"}`, status: http.StatusUnprocessableEntity, message: "Must be a valid email address"},
		{name: "short password", body: `{"email":"alice@example.com","password":"abc"}`, status: http.StatusUnprocessableEntity, message: "Password must be at least 6 characters long"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, _ := gin.CreateTestContext(httptest.NewRecorder())
			c.Request = httptest.NewRequest(http.MethodPost, "/signin", strings.NewReader(tt.body))
			c.Request.Header.Set("Content-Type", "application/json")

			var req signinRequest
			err := NewContext(c).GetRequest(&req)
			if tt.status == 0 {
				require.NoError(t, err)
				assert.Equal(t, "alice@example.com", req.Email)
				return
			}
			var apiErr ApiError
			require.ErrorAs(t, err, &apiErr)
			assert.Equal(t, tt.status, apiErr.Status)
			assert.Equal(t, tt.message, apiErr.Message)
		})
	}
}

func TestTokenCookie(t *testing.T) {
	gin.SetMode(gin.TestMode)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodPost, "/signin", nil)
	NewContext(c).SetTokenCookie("abc", time.Hour)

	cookies := w.Result().Cookies()
	require.Len(t, cookies, 1)
	assert.Equal(t, TokenCookie, cookies[0].Name)
	assert.Equal(t, "abc", cookies[0].Value)
	assert.Equal(t, 3600, cookies[0].MaxAge)
	assert.True(t, cookies[0].HttpOnly)

	w = httptest.NewRecorder()
	c, _ = gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, "/signout", nil)
	NewContext(c).ClearTokenCookie()
	cookies = w.Result().Cookies()
	require.Len(t, cookies, 1)
	assert.Equal(t, "", cookies[0].Value)
	assert.True(t, cookies[0].MaxAge < 0)
}

func TestSendBinary(t *testing.T) {
	gin.SetMode(gin.TestMode)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	NewContext(c).SendBinary("", []byte("raw"))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "application/octet-stream", w.Header().Get("Content-Type"))
	assert.Equal(t, "raw", w.Body.String())
}
