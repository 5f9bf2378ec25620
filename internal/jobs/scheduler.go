// Package jobs runs periodic housekeeping next to the API server.
package jobs

import (
	"context"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog/log"
)

// DefaultSpec runs housekeeping every quarter hour.
const DefaultSpec = "@every 15m"

const jobTimeout = time.Minute

// ExpiredCachePurger deletes cache entries past their TTL.
type ExpiredCachePurger interface {
	PurgeExpired(ctx context.Context) (int64, error)
}

// ResetLinkCleaner blanks password reset tokens that expired before now.
type ResetLinkCleaner interface {
	ClearExpiredResetLinks(ctx context.Context, now time.Time) (int64, error)
}

// Task is a named unit of housekeeping.
type Task struct {
	Name string
	Run  func(ctx context.Context) (int64, error)
}

func PurgeCacheTask(purger ExpiredCachePurger) Task {
	return Task{Name: "purge-cache", Run: purger.PurgeExpired}
}

func ClearResetLinksTask(cleaner ResetLinkCleaner) Task {
	return Task{Name: "clear-reset-links", Run: func(ctx context.Context) (int64, error) {
		return cleaner.ClearExpiredResetLinks(ctx, time.Now())
	}}
}

// FuncTask wraps a job that reports no count.
func FuncTask(name string, fn func()) Task {
	return Task{Name: name, Run: func(context.Context) (int64, error) {
		fn()
		return 0, nil
	}}
}

type Scheduler struct {
	cron  *cron.Cron
	tasks []Task
}

func NewScheduler(tasks ...Task) *Scheduler {
	return &Scheduler{
		cron:  cron.New(cron.WithChain(cron.Recover(cron.DefaultLogger))),
		tasks: tasks,
	}
}

// Start schedules every task on spec and starts the cron loop.
func (s *Scheduler) Start(spec string) error {
	if spec == "" {
		spec = DefaultSpec
	}
	for _, task := range s.tasks {
		task := task // per-iteration copy; go.mod targets go 1.21
		if _, err := s.cron.AddFunc(spec, func() { RunTask(context.Background(), task) }); err != nil {
			return err
		}
	}
	s.cron.Start()
	log.Info().Str("spec", spec).Int("tasks", len(s.tasks)).Msg("housekeeping scheduler started")
	return nil
}

// Stop waits for running tasks to finish.
func (s *Scheduler) Stop() {
	<-s.cron.Stop().Done()
	log.Info().Msg("housekeeping scheduler stopped")
}

// RunTask executes task once with a bounded context and logs the outcome.
func RunTask(ctx context.Context, task Task) {
	ctx, cancel := context.WithTimeout(ctx, jobTimeout)
	defer cancel()

	n, err := task.Run(ctx)
	if err != nil {
		log.Error().Err(err).Str("task", task.Name).Msg("housekeeping task failed")
		return
	}
	log.Debug().Str("task", task.Name).Int64("affected", n).Msg("housekeeping task done")
}
