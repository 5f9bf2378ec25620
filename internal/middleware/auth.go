package middleware

import (
	"context"

	"github.com/gin-gonic/gin"
	"github.com/klass-lk/seoblog"
)

// Authenticator resolves a session token to the subject it was issued to.
type Authenticator interface {
	Authenticate(ctx context.Context, token string) (seoblog.AuthContext, error)
}

// Authenticate requires a valid session token, read from the Authorization
// header or the token cookie, and attaches the subject to the request.
func Authenticate(auth Authenticator) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := seoblog.ExtractToken(c)
		if token == "" {
			seoblog.SendError(c, seoblog.ErrUnauthorized.New("No authorization token was found"))
			return
		}
		subject, err := auth.Authenticate(c.Request.Context(), token)
		if err != nil {
			seoblog.SendError(c, err)
			return
		}
		seoblog.SetAuthContext(c, subject)
		c.Next()
	}
}
