package seoblog

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

const (
	authUserIDKey   = "user_id"
	authUsernameKey = "username"
	authRoleKey     = "role"

	TokenCookie = "token"
)

type AuthContext struct {
	UserID   string
	Username string
	Role     int
}

// IsAdmin reports whether the subject holds the administrator role.
func (a AuthContext) IsAdmin() bool {
	return a.Role == RoleAdmin
}

const (
	RoleAuthor = 0
	RoleAdmin  = 1
)

// SetAuthContext attaches the authenticated subject to the request.
func SetAuthContext(c *gin.Context, auth AuthContext) {
	c.Set(authUserIDKey, auth.UserID)
	c.Set(authUsernameKey, auth.Username)
	c.Set(authRoleKey, auth.Role)
}

func GetAuthContext(c *gin.Context) (AuthContext, error) {
	userID := c.GetString(authUserIDKey)
	if userID == "" {
		return AuthContext{}, ErrUnauthorized.New("Unauthorized")
	}
	role, exists := c.Get(authRoleKey)
	if !exists {
		return AuthContext{}, ErrUnauthorized.New("Unauthorized")
	}
	return AuthContext{
		UserID:   userID,
		Username: c.GetString(authUsernameKey),
		Role:     role.(int),
	}, nil
}

type Context struct {
	*gin.Context
}

func NewContext(c *gin.Context) *Context {
	return &Context{Context: c}
}

// GetAuthContext returns the current auth context
func (c *Context) GetAuthContext() (AuthContext, error) {
	return GetAuthContext(c.Context)
}

func (c *Context) GetRequest(request interface{}) error {
	if err := c.ShouldBind(request); err != nil {
		return bindError(err, request)
	}
	return nil
}

func (c *Context) SetTokenCookie(token string, ttl time.Duration) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(TokenCookie, token, int(ttl.Seconds()), "/", "", false, true)
}

func (c *Context) ClearTokenCookie() {
	c.SetCookie(TokenCookie, "", -1, "/", "", false, true)
}

// SendBinary writes raw bytes with the given content type.
func (c *Context) SendBinary(contentType string, data []byte) {
	if contentType == "" {
		contentType = "application/octet-stream"
	}
	c.Data(http.StatusOK, contentType, data)
}

func (c *Context) SendError(err error) {
	SendError(c.Context, err)
}
