package services

import (
	"context"
	"time"

	"go.uber.org/zap"

	"ovab-go/internal/session"
)

// Janitor reaps expired sessions on a fixed interval. The manager's store
// only marks entries expired; the sweep is what actually shuts their
// loops down.
type Janitor struct {
	log      *zap.Logger
	manager  *session.Manager
	interval time.Duration
}

func NewJanitor(log *zap.Logger, manager *session.Manager, interval time.Duration) *Janitor {
	return &Janitor{
		log:      log,
		manager:  manager,
		interval: interval,
	}
}

// Start runs the janitor in a goroutine until ctx is canceled.
func (j *Janitor) Start(ctx context.Context) {
	j.log.Info("Starting session janitor...", zap.Duration("interval", j.interval))
	go func() {
		ticker := time.NewTicker(j.interval)
		defer ticker.Stop()

		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				j.sweep()
			}
		}
	}()
}

func (j *Janitor) sweep() {
	before := j.manager.Len()
	j.manager.SweepExpired()
	after := j.manager.Len()

	if reaped := before - after; reaped > 0 {
		j.log.Info("Swept expired sessions", zap.Int("reaped", reaped), zap.Int("active", after))
		return
	}
	j.log.Debug("Session sweep found nothing to reap", zap.Int("active", after))
}
