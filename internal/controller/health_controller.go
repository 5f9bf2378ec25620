package controller

import (
	"context"
	"time"

	"github.com/klass-lk/seoblog"
	"github.com/rs/zerolog/log"
)

// Pinger checks a backing store.
type Pinger interface {
	Ping(ctx context.Context) error
}

// PingFunc adapts a function to Pinger.
type PingFunc func(ctx context.Context) error

func (f PingFunc) Ping(ctx context.Context) error {
	return f(ctx)
}

var errUnavailable = seoblog.ErrUnavailable.WithMessage("Database unavailable")

type HealthController struct {
	db Pinger
}

func NewHealthController(db Pinger) *HealthController {
	return &HealthController{db: db}
}

func (ctl *HealthController) Register(group *seoblog.ControllerGroup) {
	group.GET("/health", ctl.Health)
}

func (ctl *HealthController) Health(c *seoblog.Context) (map[string]string, error) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
	defer cancel()
	if err := ctl.db.Ping(ctx); err != nil {
		log.Error().Err(err).Msg("health check failed")
		return nil, errUnavailable
	}
	return map[string]string{"status": "ok"}, nil
}
