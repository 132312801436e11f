// Package scheduler runs the recurring-transaction batch and the FD-rate
// scraper on cron schedules.
package scheduler

import (
	"context"
	"log/slog"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/paisatrack/backend/internal/metrics"
)

// BatchJob is a background task that processes a batch of records and
// reports how many it handled.
type BatchJob func(ctx context.Context) (int, error)

// Config holds the scheduler configuration
type Config struct {
	// RecurringSchedule is a cron expression for the daily recurring batch
	// (due transactions and auto-save contributions)
	RecurringSchedule string
	// RatesSchedule is a cron expression for the FD-rate scrape
	RatesSchedule string
	// Timeout is the maximum duration for a single job run
	Timeout time.Duration
	// Enabled determines if the scheduler should run
	Enabled bool
}

// DefaultConfig returns the default scheduler configuration
func DefaultConfig() Config {
	return Config{
		RecurringSchedule: "0 1 * * *", // daily at 01:00
		RatesSchedule:     "0 * * * *", // hourly
		Timeout:           5 * time.Minute,
		Enabled:           true,
	}
}

// Scheduler manages the background jobs
type Scheduler struct {
	cron      *cron.Cron
	config    Config
	logger    *slog.Logger
	recurring BatchJob
	autoSave  BatchJob
	rates     BatchJob
}

// New creates a new Scheduler instance
func New(cfg Config, recurring, autoSave, rates BatchJob, logger *slog.Logger) *Scheduler {
	if logger == nil {
		logger = slog.Default()
	}

	return &Scheduler{
		cron:      cron.New(cron.WithSeconds()),
		config:    cfg,
		logger:    logger,
		recurring: recurring,
		autoSave:  autoSave,
		rates:     rates,
	}
}

// Start begins the scheduler
func (s *Scheduler) Start() error {
	if !s.config.Enabled {
		s.logger.Info("Scheduler is disabled, skipping start")
		return nil
	}

	// Convert standard cron (5 fields) to cron with seconds (6 fields)
	if _, err := s.cron.AddFunc("0 "+s.config.RecurringSchedule, func() {
		s.run("recurring_due", s.recurring)
		s.run("auto_save", s.autoSave)
	}); err != nil {
		return err
	}

	if _, err := s.cron.AddFunc("0 "+s.config.RatesSchedule, func() {
		s.run("rates_scrape", s.rates)
	}); err != nil {
		return err
	}

	s.cron.Start()

	s.logger.Info("Scheduler started",
		slog.String("recurring_schedule", s.config.RecurringSchedule),
		slog.String("rates_schedule", s.config.RatesSchedule),
		slog.Duration("timeout", s.config.Timeout),
	)

	return nil
}

// Stop gracefully stops the scheduler
func (s *Scheduler) Stop() context.Context {
	s.logger.Info("Stopping scheduler...")
	return s.cron.Stop()
}

// RunRatesNow triggers an immediate rate scrape (useful for manual triggers)
func (s *Scheduler) RunRatesNow() {
	go s.run("rates_scrape", s.rates)
}

func (s *Scheduler) run(job string, fn BatchJob) {
	ctx, cancel := context.WithTimeout(context.Background(), s.config.Timeout)
	defer cancel()

	startTime := time.Now()
	s.logger.Info("Starting scheduled job", slog.String("job", job))

	count, err := fn(ctx)
	duration := time.Since(startTime)

	if err != nil {
		metrics.SchedulerRuns.WithLabelValues(job, "error").Inc()
		s.logger.Error("Scheduled job failed",
			slog.String("job", job),
			slog.String("error", err.Error()),
			slog.Duration("duration", duration),
		)
		return
	}

	metrics.SchedulerRuns.WithLabelValues(job, "ok").Inc()
	s.logger.Info("Scheduled job completed",
		slog.String("job", job),
		slog.Int("processed", count),
		slog.Duration("duration", duration),
	)
}

// IsRunning returns true if the scheduler has active entries
func (s *Scheduler) IsRunning() bool {
	return s.cron != nil && len(s.cron.Entries()) > 0
}
