package app

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/klass-lk/seoblog/internal/mailer"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// assembleOffline builds the app over a client that never dials, for
// routes that fail before touching the database.
func assembleOffline(t *testing.T, trustedProxies ...string) *App {
	t.Helper()
	client, err := mongo.Connect(context.Background(), options.Client().ApplyURI("mongodb://127.0.0.1:1"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = client.Disconnect(context.Background()) })

	cfg := testConfig()
	cfg.TrustedProxies = trustedProxies
	a, err := Assemble(cfg, client.Database("seoblog_offline"), Deps{Mailer: &mailer.Recorder{}})
	require.NoError(t, err)
	return a
}

func signinFrom(a *App, remoteAddr, forwardedFor string) int {
	req := httptest.NewRequest(http.MethodPost, "/api/signin", strings.NewReader(`{}`))
	req.Header.Set("Content-Type", "application/json")
	req.RemoteAddr = remoteAddr
	if forwardedFor != "" {
		req.Header.Set("X-Forwarded-For", forwardedFor)
	}
	w := httptest.NewRecorder()
	a.Server().Engine().ServeHTTP(w, req)
	return w.Code
}

func TestLoginLimiterIgnoresForwardedForFromUntrustedClients(t *testing.T) {
	a := assembleOffline(t)
	for i := 0; i < 5; i++ {
		a.limiter.Record("10.0.0.1")
	}

	assert.Equal(t, http.StatusTooManyRequests, signinFrom(a, "10.0.0.1:4321", ""))
	assert.Equal(t, http.StatusTooManyRequests, signinFrom(a, "10.0.0.1:4321", "198.51.100.7"))
	assert.Equal(t, http.StatusUnprocessableEntity, signinFrom(a, "10.0.0.2:4321", ""))
}

func TestLoginLimiterUsesForwardedForBehindTrustedProxy(t *testing.T) {
	a := assembleOffline(t, "10.0.0.0/8")
	for i := 0; i < 5; i++ {
		a.limiter.Record("198.51.100.7")
	}

	assert.Equal(t, http.StatusTooManyRequests, signinFrom(a, "10.0.0.1:4321", "198.51.100.7"))
	assert.Equal(t, http.StatusUnprocessableEntity, signinFrom(a, "10.0.0.1:4321", "198.51.100.8"))
}
