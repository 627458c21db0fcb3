package service

import (
	"context"
	"log/slog"
	"time"

	"github.com/aussiebroadwan/collab/internal/collab/store"
)

// DefaultInviteRetention is how long an expired, unused invite is kept
// before housekeeping removes it.
const DefaultInviteRetention = 30 * 24 * time.Hour

// HousekeepingService periodically prunes invite tokens that expired unused
// a while ago. Used tokens are kept as a record of who joined through them.
type HousekeepingService struct {
	Store     store.Store
	Logger    *slog.Logger
	Interval  time.Duration
	Retention time.Duration
	Now       func() time.Time

	stopCh chan struct{}
	doneCh chan struct{}
}

// NewHousekeepingService creates a new housekeeping service. A non-positive
// interval defaults to one hour and a non-positive retention to
// DefaultInviteRetention.
func NewHousekeepingService(store store.Store, logger *slog.Logger, interval, retention time.Duration) *HousekeepingService {
	if interval <= 0 {
		interval = time.Hour
	}
	if retention <= 0 {
		retention = DefaultInviteRetention
	}

	return &HousekeepingService{
		Store:     store,
		Logger:    logger,
		Interval:  interval,
		Retention: retention,
		stopCh:    make(chan struct{}),
		doneCh:    make(chan struct{}),
	}
}

// Start runs the worker in the background. Call Stop to shut it down.
func (s *HousekeepingService) Start() {
	go s.run()
	s.Logger.Info("housekeeping service started", "interval", s.Interval)
}

// Stop blocks until any in-progress cleanup has finished.
func (s *HousekeepingService) Stop() {
	close(s.stopCh)
	<-s.doneCh
	s.Logger.Info("housekeeping service stopped")
}

func (s *HousekeepingService) run() {
	defer close(s.doneCh)

	ticker := time.NewTicker(s.Interval)
	defer ticker.Stop()

	// Run cleanup immediately on startup
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
	ctx := context.Background()
	cutoff := clock(s.Now).Add(-s.Retention)

	n, err := s.Store.Invites().DeleteStaleInvites(ctx, cutoff)
	if err != nil {
		s.Logger.Error("failed to delete stale invites", "error", err)
		return
	}
	s.Logger.Info("housekeeping cleanup completed", "stale_invites_deleted", n, "cutoff", cutoff)
}
