package seoblog

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

const tokenIssuer = "seoblog"

var ErrInvalidToken = errors.New("token is invalid or expired")

// SessionClaims is carried by the sign-in token.
type SessionClaims struct {
	UserID string `json:"_id"`
	Role   int    `json:"role"`
	jwt.RegisteredClaims
}

// ActivationClaims is carried by the account activation link. It holds the
// password hash, never the password itself.
type ActivationClaims struct {
	Name           string `json:"name"`
	Email          string `json:"email"`
	HashedPassword string `json:"hashed_password"`
	jwt.RegisteredClaims
}

// ResetClaims is carried by the password reset link.
type ResetClaims struct {
	UserID string `json:"_id"`
	jwt.RegisteredClaims
}

// NewRegisteredClaims fills in the standard claims for a token valid for ttl.
func NewRegisteredClaims(subject string, ttl time.Duration) jwt.RegisteredClaims {
	now := time.Now()
	return jwt.RegisteredClaims{
		ID:        uuid.New().String(),
		Issuer:    tokenIssuer,
		Subject:   subject,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
	}
}

func GenerateToken(claims jwt.Claims, secretKey string) (string, error) {
	if secretKey == "" {
		return "", errors.New("jwt secret is not configured")
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(secretKey))
}

// ParseToken verifies tokenString with secretKey and decodes it into claims.
func ParseToken(tokenString string, secretKey string, claims jwt.Claims) error {
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return []byte(secretKey), nil
	}, jwt.WithIssuer(tokenIssuer), jwt.WithExpirationRequired())
	if err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}
	if !token.Valid {
		return ErrInvalidToken
	}
	return nil
}

// ExtractToken reads the bearer token from the Authorization header and
// falls back to the token cookie.
func ExtractToken(c *gin.Context) string {
	header := c.GetHeader("Authorization")
	if header != "" {
		parts := strings.SplitN(header, " ", 2)
		if len(parts) == 2 && strings.EqualFold(parts[0], "Bearer") {
			return strings.TrimSpace(parts[1])
		}
	}
	if cookie, err := c.Cookie(TokenCookie); err == nil {
		return cookie
	}
	return ""
}
