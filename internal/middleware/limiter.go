package middleware

import (
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/klass-lk/seoblog"
)

// LoginLimiter counts failed sign-ins per client IP inside a sliding
// window.
type LoginLimiter struct {
	mu       sync.Mutex
	attempts map[string][]time.Time
	max      int
	window   time.Duration
	now      func() time.Time
}

func NewLoginLimiter(max int, window time.Duration) *LoginLimiter {
	return &LoginLimiter{
		attempts: make(map[string][]time.Time),
		max:      max,
		window:   window,
		now:      time.Now,
	}
}

// Check reports whether ip may try again. It does not record an attempt.
func (l *LoginLimiter) Check(ip string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.prune(ip)) < l.max
}

// Record registers a failed attempt for ip.
func (l *LoginLimiter) Record(ip string) {
	l.mu.Lock()
	l.attempts[ip] = append(l.prune(ip), l.now())
	l.mu.Unlock()
}

func (l *LoginLimiter) Reset(ip string) {
	l.mu.Lock()
	delete(l.attempts, ip)
	l.mu.Unlock()
}

// Clear forgets every recorded attempt.
func (l *LoginLimiter) Clear() {
	l.mu.Lock()
	l.attempts = make(map[string][]time.Time)
	l.mu.Unlock()
}

// Cleanup drops every expired attempt. It is run periodically by the
// housekeeping scheduler.
func (l *LoginLimiter) Cleanup() {
	l.mu.Lock()
	defer l.mu.Unlock()
	for ip := range l.attempts {
		if len(l.prune(ip)) == 0 {
			delete(l.attempts, ip)
		}
	}
}

// prune must be called with mu held.
func (l *LoginLimiter) prune(ip string) []time.Time {
	cutoff := l.now().Add(-l.window)
	hits := l.attempts[ip]
	kept := hits[:0]
	for _, t := range hits {
		if t.After(cutoff) {
			kept = append(kept, t)
		}
	}
	l.attempts[ip] = kept
	return kept
}

// Middleware rejects blocked clients with 429 and records the attempt when
// the handler answers 400 or 401. A successful sign-in clears the history.
func (l *LoginLimiter) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		ip := c.ClientIP()
		if !l.Check(ip) {
			seoblog.SendError(c, seoblog.ErrTooManyRequests.New("Too many login attempts. Please try again later."))
			return
		}
		c.Next()
		switch c.Writer.Status() {
		case http.StatusBadRequest, http.StatusUnauthorized:
			l.Record(ip)
		case http.StatusOK:
			l.Reset(ip)
		}
	}
}
