package service

import (
	"context"
	"testing"
	"time"

	"github.com/klass-lk/seoblog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testAuthConfig() AuthConfig {
	return AuthConfig{
		AppName:          "SEOBLOG",
		ClientURL:        "http://localhost:3000",
		EmailFrom:        "noreply@example.com",
		SessionSecret:    "session-secret",
		ActivationSecret: "activation-secret",
		ResetSecret:      "reset-secret",
		SessionTTL:       time.Hour,
		ActivationTTL:    10 * time.Minute,
		ResetTTL:         10 * time.Minute,
	}
}

func TestSignupRejectsBadToken(t *testing.T) {
	svc := NewAuthService(nil, nil, nil, testAuthConfig())

	_, err := svc.Signup(context.Background(), SignupRequest{Token: "garbage"})
	assert.Equal(t, ErrActivationExpired, err)
}

func TestSignupRejectsTokenSignedWithOtherSecret(t *testing.T) {
	cfg := testAuthConfig()
	svc := NewAuthService(nil, nil, nil, cfg)

	token, err := seoblog.GenerateToken(seoblog.ActivationClaims{
		Name:             "Jane",
		Email:            "jane@example.com",
		RegisteredClaims: seoblog.NewRegisteredClaims("jane@example.com", time.Minute),
	}, cfg.ResetSecret)
	require.NoError(t, err)

	_, err = svc.Signup(context.Background(), SignupRequest{Token: token})
	assert.Equal(t, ErrActivationExpired, err)
}

func TestResetPasswordRejectsExpiredToken(t *testing.T) {
	cfg := testAuthConfig()
	svc := NewAuthService(nil, nil, nil, cfg)

	token, err := seoblog.GenerateToken(seoblog.ResetClaims{
		UserID:           "abc",
		RegisteredClaims: seoblog.NewRegisteredClaims("abc", -time.Minute),
	}, cfg.ResetSecret)
	require.NoError(t, err)

	_, err = svc.ResetPassword(context.Background(), ResetPasswordRequest{ResetPasswordLink: token, NewPassword: "secret1"})
	assert.Equal(t, ErrResetExpired, err)
}

func TestAuthenticateRejectsInvalidToken(t *testing.T) {
	svc := NewAuthService(nil, nil, nil, testAuthConfig())

	_, err := svc.Authenticate(context.Background(), "not-a-token")
	var apiErr seoblog.ApiError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, 401, apiErr.Status)
}

func TestPreSignupRejectsLongName(t *testing.T) {
	svc := NewAuthService(nil, nil, nil, testAuthConfig())

	_, err := svc.PreSignup(context.Background(), PreSignupRequest{
		Name:     "a very long name that goes past the limit",
		Email:    "jane@example.com",
		Password: "secret1",
	})
	assert.Equal(t, ErrNameTooLong, err)
}
