package app

import (
	"time"

	"member-gateway/internal/logger"
	"member-gateway/internal/ratelimit"
	"member-gateway/internal/session"
)

// janitor runs the periodic cleanup schedule: evict idle sessions, close
// their gateways, and prune stale rate-limit buckets.
type janitor struct {
	store    *session.Store
	limiter  *ratelimit.Limiter
	interval time.Duration

	stop chan struct{}
	done chan struct{}
}

func newJanitor(store *session.Store, limiter *ratelimit.Limiter, interval time.Duration) *janitor {
	return &janitor{
		store:    store,
		limiter:  limiter,
		interval: interval,
		stop:     make(chan struct{}),
		done:     make(chan struct{}),
	}
}

func (j *janitor) Start() {
	go j.run()
}

// Stop cancels the schedule and joins the running loop, so no tick can
// fire after Stop returns.
func (j *janitor) Stop() {
	close(j.stop)
	<-j.done
}

func (j *janitor) run() {
	defer close(j.done)

	ticker := time.NewTicker(j.interval)
	defer ticker.Stop()

	for {
		select {
		case <-j.stop:
			return
		case now := <-ticker.C:
			j.sweep(now)
		}
	}
}

func (j *janitor) sweep(now time.Time) {
	for _, s := range j.store.SweepExpired(now) {
		release := s.Acquire()
		if err := s.Gateway.Close(); err != nil {
			logger.Warn("gateway close failed", map[string]any{
				"session_id": s.ID,
				"error":      err.Error(),
			})
		}
		release()

		logger.Info("inactive session cleaned up", map[string]any{
			"session_id": s.ID,
		})
	}

	j.limiter.Prune(now)
}
