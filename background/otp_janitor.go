// Package background contains tasks that run independently of the HTTP
// request-response cycle.
package background

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"
)

// ExpiredDeleter removes rows whose expiry lies before the given instant and
// reports how many were removed. The auth package's OTP model satisfies it.
type ExpiredDeleter interface {
	DeleteExpired(ctx context.Context, now time.Time) (int64, error)
}

// sweepTimeout bounds each delete statement so a stuck database cannot wedge
// the janitor between ticks.
const sweepTimeout = 30 * time.Second

// OTPJanitor periodically deletes expired OTP rows. Unconsumed codes would
// otherwise accumulate forever: consumption only deletes rows whose reset
// flow completed.
type OTPJanitor struct {
	store    ExpiredDeleter
	interval time.Duration
	logger   *zap.Logger

	stop chan struct{}
	wg   sync.WaitGroup
}

// NewOTPJanitor creates a janitor sweeping at the given interval.
func NewOTPJanitor(store ExpiredDeleter, interval time.Duration, logger *zap.Logger) *OTPJanitor {
	return &OTPJanitor{
		store:    store,
		interval: interval,
		logger:   logger,
		stop:     make(chan struct{}),
	}
}

// Start launches the sweep loop in its own goroutine and returns immediately.
func (j *OTPJanitor) Start() {
	j.wg.Add(1)
	go func() {
		defer j.wg.Done()

		ticker := time.NewTicker(j.interval)
		defer ticker.Stop()

		j.logger.Info("otp janitor started", zap.Duration("interval", j.interval))
		for {
			select {
			case <-ticker.C:
				j.sweep()
			case <-j.stop:
				j.logger.Info("otp janitor stopped")
				return
			}
		}
	}()
}

// Stop signals the loop to exit and waits for the in-flight sweep to finish.
func (j *OTPJanitor) Stop() {
	close(j.stop)
	j.wg.Wait()
}

func (j *OTPJanitor) sweep() {
	ctx, cancel := context.WithTimeout(context.Background(), sweepTimeout)
	defer cancel()

	removed, err := j.store.DeleteExpired(ctx, time.Now())
	if err != nil {
		j.logger.Error("otp sweep failed", zap.Error(err))
		return
	}
	if removed > 0 {
		j.logger.Info("expired otp codes removed", zap.Int64("count", removed))
	}
}
