// Package scheduler runs periodic housekeeping against the local database.
package scheduler

import (
	"context"
	"log/slog"
	"runtime/debug"
	"time"
)

// Store is the subset of database.DB the scheduler maintains.
type Store interface {
	DeleteExpiredSessions() (int64, error)
	CleanOldGenerations(days int) (int64, error)
}

type Scheduler struct {
	store         Store
	interval      time.Duration
	retentionDays int
}

func New(store Store, interval time.Duration, retentionDays int) *Scheduler {
	if interval <= 0 {
		interval = time.Hour
	}
	return &Scheduler{store: store, interval: interval, retentionDays: retentionDays}
}

// Run performs housekeeping once immediately and then on every tick until
// ctx is cancelled.
func (s *Scheduler) Run(ctx context.Context) {
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	slog.Info("Scheduler started", "interval", s.interval)

	s.safeTick()

	for {
		select {
		case <-ctx.Done():
			slog.Info("Scheduler stopped")
			return
		case <-ticker.C:
			s.safeTick()
		}
	}
}

func (s *Scheduler) safeTick() {
	defer func() {
		if r := recover(); r != nil {
			slog.Error("Panic in scheduler tick", "panic", r, "stack", string(debug.Stack()))
		}
	}()
	s.tick()
}

func (s *Scheduler) tick() {
	if n, err := s.store.DeleteExpiredSessions(); err != nil {
		slog.Error("Failed to delete expired sessions", "error", err)
	} else if n > 0 {
		slog.Debug("Cleaned up expired sessions", "count", n)
	}

	if s.retentionDays <= 0 {
		return
	}
	if n, err := s.store.CleanOldGenerations(s.retentionDays); err != nil {
		slog.Error("Failed to prune generation log", "error", err)
	} else if n > 0 {
		slog.Debug("Pruned generation log", "count", n, "retention_days", s.retentionDays)
	}
}
