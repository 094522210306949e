package services

import (
	"context"
	"io"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
)

const (
	DefaultSweepInterval = time.Hour
	SweepLockKey         = "blacklist:sweep:lock"
)

// ExpirySweeper is the part of the registry the scheduler drives
type ExpirySweeper interface {
	ExpireOverdue(ctx context.Context) (int64, error)
}

// ExpiryScheduler runs the expiry sweep on a fixed interval. With a Locker
// set, only the replica holding the lease sweeps in a given interval.
type ExpiryScheduler struct {
	sweeper  ExpirySweeper
	interval time.Duration
	locker   Locker
	owner    string
	logger   *slog.Logger

	mu      sync.Mutex
	cancel  context.CancelFunc
	done    chan struct{}
	running bool
}

type SchedulerOption func(*ExpiryScheduler)

// WithSweepLock enables the cross-replica lease
func WithSweepLock(locker Locker) SchedulerOption {
	return func(s *ExpiryScheduler) {
		s.locker = locker
	}
}

func WithSchedulerLogger(logger *slog.Logger) SchedulerOption {
	return func(s *ExpiryScheduler) {
		if logger != nil {
			s.logger = logger
		}
	}
}

func NewExpiryScheduler(sweeper ExpirySweeper, interval time.Duration, opts ...SchedulerOption) *ExpiryScheduler {
	if interval <= 0 {
		interval = DefaultSweepInterval
	}
	s := &ExpiryScheduler{
		sweeper:  sweeper,
		interval: interval,
		owner:    uuid.NewString(),
		logger:   slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Start launches the ticker loop. Calling Start on a running scheduler is a no-op.
func (s *ExpiryScheduler) Start(ctx context.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.running {
		return
	}

	ctx, cancel := context.WithCancel(ctx)
	s.cancel = cancel
	s.done = make(chan struct{})
	s.running = true

	go s.loop(ctx, s.done)
	s.logger.Info("blacklist expiry scheduler started", "interval", s.interval.String())
}

// Stop cancels the loop and waits for an in-flight sweep to return
func (s *ExpiryScheduler) Stop() {
	s.mu.Lock()
	if !s.running {
		s.mu.Unlock()
		return
	}
	cancel, done := s.cancel, s.done
	s.running = false
	s.mu.Unlock()

	cancel()
	<-done
	s.logger.Info("blacklist expiry scheduler stopped")
}

func (s *ExpiryScheduler) loop(ctx context.Context, done chan struct{}) {
	defer close(done)

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.RunOnce(ctx)
		}
	}
}

// RunOnce performs a single sweep. Errors are logged; the next tick retries.
func (s *ExpiryScheduler) RunOnce(ctx context.Context) (int64, bool) {
	if s.locker != nil {
		// lease ends before the next tick
		ttl := s.interval - s.interval/10
		acquired, err := s.locker.TryLock(ctx, SweepLockKey, s.owner, ttl)
		if err != nil {
			s.logger.WarnContext(ctx, "blacklist sweep lock failed", "error", err)
			return 0, false
		}
		if !acquired {
			s.logger.DebugContext(ctx, "blacklist sweep skipped, lock held elsewhere")
			return 0, false
		}
	}

	n, err := s.sweeper.ExpireOverdue(ctx)
	if err != nil {
		s.logger.ErrorContext(ctx, "blacklist expiry sweep failed", "error", err)
		return 0, false
	}
	return n, true
}
