// Package job provides background job schedulers.
package job

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"
)

// SessionStore is the part of the session registry the reaper drives.
type SessionStore interface {
	Reap() int
	Len() int
}

// SessionReaper periodically closes sessions that have been idle too long.
type SessionReaper struct {
	store    SessionStore
	interval time.Duration
	logger   *zap.Logger

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// NewSessionReaper creates a new SessionReaper.
//
// Parameters:
//   - store: Registry whose idle sessions are reaped
//   - interval: Time between two sweeps
//   - logger: Structured logger for operational visibility
func NewSessionReaper(store SessionStore, interval time.Duration, logger *zap.Logger) *SessionReaper {
	return &SessionReaper{
		store:    store,
		interval: interval,
		logger:   logger,
	}
}

// Start begins the background sweep.
func (r *SessionReaper) Start() {
	r.ctx, r.cancel = context.WithCancel(context.Background())

	r.logger.Info("starting session reaper", zap.Duration("interval", r.interval))

	r.wg.Add(1)
	go r.run()
}

// Stop gracefully stops the reaper.
func (r *SessionReaper) Stop() {
	r.logger.Info("stopping session reaper")
	r.cancel()
	r.wg.Wait()
	r.logger.Info("session reaper stopped")
}

// run is the main loop of the reaper.
func (r *SessionReaper) run() {
	defer r.wg.Done()

	ticker := time.NewTicker(r.interval)
	defer ticker.Stop()

	for {
		select {
		case <-r.ctx.Done():
			return
		case <-ticker.C:
			r.sweep()
		}
	}
}

func (r *SessionReaper) sweep() {
	removed := r.store.Reap()
	if removed == 0 {
		return
	}

	r.logger.Info("idle sessions reaped",
		zap.Int("removed", removed),
		zap.Int("active", r.store.Len()),
	)
}
