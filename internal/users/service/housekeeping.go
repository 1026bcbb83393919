package service

import (
	"context"
	"log/slog"
	"sync/atomic"
	"time"

	"github.com/aussiebroadwan/users/internal/users/credential"
	"github.com/aussiebroadwan/users/internal/users/store"
)

// HousekeepingService periodically clears lockouts that have run out so
// stored failure counters match what the next login would see. Login still
// resets an expired lockout on its own; the sweep only keeps listings fresh.
type HousekeepingService struct {
	Store    store.Store
	Policy   *credential.Policy
	Logger   *slog.Logger
	Interval time.Duration

	started atomic.Bool
	stopCh  chan struct{}
	doneCh  chan struct{}
}

// NewHousekeepingService creates a housekeeping service with the given
// interval. A non-positive interval defaults to one minute.
func NewHousekeepingService(st store.Store, policy *credential.Policy, logger *slog.Logger, interval time.Duration) *HousekeepingService {
	if interval <= 0 {
		interval = time.Minute
	}

	return &HousekeepingService{
		Store:    st,
		Policy:   policy,
		Logger:   logger,
		Interval: interval,
		stopCh:   make(chan struct{}),
		doneCh:   make(chan struct{}),
	}
}

// Start begins the background worker. It is non-blocking; call Stop to
// shut the worker down.
func (s *HousekeepingService) Start() {
	if !s.started.CompareAndSwap(false, true) {
		return
	}
	go s.run()
	s.Logger.Info("housekeeping service started", "interval", s.Interval)
}

// Stop shuts down the worker and waits for an in-progress sweep. Stopping
// a service that was never started is a no-op.
func (s *HousekeepingService) Stop() {
	if !s.started.Load() {
		return
	}
	close(s.stopCh)
	<-s.doneCh
	s.Logger.Info("housekeeping service stopped")
}

func (s *HousekeepingService) run() {
	defer close(s.doneCh)

	ticker := time.NewTicker(s.Interval)
	defer ticker.Stop()

	s.cleanup()

	for {
		select {
		case <-ticker.C:
			s.cleanup()
		case <-s.stopCh:
			return
		}
	}
}

func (s *HousekeepingService) cleanup() {
	ctx, cancel := context.WithTimeout(context.Background(), s.Interval)
	defer cancel()

	n, err := s.Sweep(ctx)
	if err != nil {
		s.Logger.Error("failed to clear expired lockouts", "error", err)
		return
	}
	if n > 0 {
		s.Logger.Info("cleared expired lockouts", "users", n)
	}
}

// Sweep runs one pass and returns the number of users whose lockout was
// cleared.
func (s *HousekeepingService) Sweep(ctx context.Context) (int64, error) {
	attempts, before := s.Policy.ExpiredLockoutCutoff()
	return s.Store.Users().ClearExpiredLockouts(ctx, attempts, before)
}
