package scheduler

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func stubJob(count int, err error) BatchJob {
	return func(ctx context.Context) (int, error) {
		return count, err
	}
}

func TestScheduler_DisabledStart(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Enabled = false

	s := New(cfg, stubJob(0, nil), stubJob(0, nil), stubJob(0, nil), nil)
	assert.NoError(t, s.Start())
	assert.False(t, s.IsRunning())
}

func TestScheduler_StartAndStop(t *testing.T) {
	cfg := DefaultConfig()
	s := New(cfg, stubJob(0, nil), stubJob(0, nil), stubJob(0, nil), nil)

	assert.NoError(t, s.Start())
	assert.True(t, s.IsRunning())

	ctx := s.Stop()
	select {
	case <-ctx.Done():
	case <-time.After(time.Second):
		t.Fatal("scheduler did not stop in time")
	}
}

func TestScheduler_InvalidSchedule(t *testing.T) {
	cfg := DefaultConfig()
	cfg.RecurringSchedule = "not a cron expression"

	s := New(cfg, stubJob(0, nil), stubJob(0, nil), stubJob(0, nil), nil)
	assert.Error(t, s.Start())
}

func TestScheduler_RunHandlesJobError(t *testing.T) {
	ran := false
	job := func(ctx context.Context) (int, error) {
		ran = true
		return 0, errors.New("scrape failed")
	}

	s := New(DefaultConfig(), stubJob(0, nil), stubJob(0, nil), job, nil)
	s.run("rates_scrape", job)
	assert.True(t, ran)
}

func TestScheduler_RunRespectsTimeout(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Timeout = 10 * time.Millisecond

	var deadlineSet bool
	job := func(ctx context.Context) (int, error) {
		_, deadlineSet = ctx.Deadline()
		return 0, nil
	}

	s := New(cfg, stubJob(0, nil), stubJob(0, nil), job, nil)
	s.run("rates_scrape", job)
	assert.True(t, deadlineSet)
}
