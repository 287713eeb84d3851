package cron

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/cmlabs-hris/pointage-backend/internal/pkg/dateutil"
)

// checkInterval is how often the scheduler looks at the clock.
const checkInterval = time.Hour

// Job runs once per local day, during Hour.
type Job struct {
	Name string
	Hour int
	Fn   func(ctx context.Context) error

	lastRun time.Time
}

// Scheduler runs daily jobs against the business time zone.
type Scheduler struct {
	jobs   []*Job
	loc    *time.Location
	now    func() time.Time
	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup
	mu     sync.Mutex
}

func NewScheduler(loc *time.Location) *Scheduler {
	ctx, cancel := context.WithCancel(context.Background())
	return &Scheduler{
		loc:    loc,
		now:    time.Now,
		ctx:    ctx,
		cancel: cancel,
	}
}

// AddDailyJob registers fn to run once a day when the local clock is at hour.
func (s *Scheduler) AddDailyJob(name string, hour int, fn func(ctx context.Context) error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.jobs = append(s.jobs, &Job{Name: name, Hour: hour, Fn: fn})
	slog.Info("Cron job registered", "name", name, "hour", hour)
}

// Start checks the jobs immediately and then every checkInterval until Stop.
func (s *Scheduler) Start() {
	s.wg.Add(1)
	go func() {
		defer s.wg.Done()

		ticker := time.NewTicker(checkInterval)
		defer ticker.Stop()

		s.RunOnce(s.ctx)
		for {
			select {
			case <-s.ctx.Done():
				return
			case <-ticker.C:
				s.RunOnce(s.ctx)
			}
		}
	}()
	slog.Info("Cron scheduler started", "job_count", len(s.jobs))
}

// Stop cancels the running check and waits for it to return.
func (s *Scheduler) Stop() {
	s.cancel()
	s.wg.Wait()
	slog.Info("Cron scheduler stopped")
}

// RunOnce runs every job that is due and has not run yet today.
func (s *Scheduler) RunOnce(ctx context.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now().In(s.loc)
	today := dateutil.Day(now)
	for _, job := range s.jobs {
		if now.Hour() != job.Hour || job.lastRun.Equal(today) {
			continue
		}
		job.lastRun = today
		s.execute(ctx, job)
	}
}

func (s *Scheduler) execute(ctx context.Context, job *Job) {
	start := time.Now()
	if err := job.Fn(ctx); err != nil {
		slog.Error("Cron job failed", "name", job.Name, "error", err, "duration", time.Since(start))
		return
	}
	slog.Debug("Cron job completed", "name", job.Name, "duration", time.Since(start))
}
