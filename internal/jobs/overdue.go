// Package jobs holds background work that runs alongside the HTTP server.
package jobs

import (
	"context"
	"log/slog"
	"time"

	"github.com/robfig/cron/v3"

	"taskhub/internal/domain"
)

// OverdueSweeper periodically promotes past-due pending and in-progress
// tasks to the overdue status.
type OverdueSweeper struct {
	tasks    domain.TaskRepository
	logger   *slog.Logger
	schedule string
	cron     *cron.Cron
}

// NewOverdueSweeper creates a sweeper on the given cron schedule. An empty
// schedule disables it.
func NewOverdueSweeper(tasks domain.TaskRepository, schedule string, logger *slog.Logger) *OverdueSweeper {
	return &OverdueSweeper{
		tasks:    tasks,
		logger:   logger.With("component", "overdue-sweeper"),
		schedule: schedule,
	}
}

// Start registers the cron entry and begins running sweeps. It returns
// immediately; sweeps run on the cron goroutine.
func (s *OverdueSweeper) Start() error {
	if s.schedule == "" {
		s.logger.Info("overdue sweep disabled")
		return nil
	}

	s.cron = cron.New()
	_, err := s.cron.AddFunc(s.schedule, func() {
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		if _, err := s.RunOnce(ctx); err != nil {
			s.logger.Error("overdue sweep failed", "error", err)
		}
	})
	if err != nil {
		return err
	}

	s.cron.Start()
	s.logger.Info("overdue sweep scheduled", "schedule", s.schedule)
	return nil
}

// Stop halts the cron scheduler and waits for a running sweep to finish.
func (s *OverdueSweeper) Stop() {
	if s.cron != nil {
		<-s.cron.Stop().Done()
	}
}

// RunOnce performs a single sweep and returns the number of tasks flipped.
func (s *OverdueSweeper) RunOnce(ctx context.Context) (int64, error) {
	n, err := s.tasks.MarkOverdue(ctx, time.Now().UTC())
	if err != nil {
		return 0, err
	}
	if n > 0 {
		s.logger.Info("tasks marked overdue", "count", n)
	}
	return n, nil
}
