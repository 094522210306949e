package services

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"cloudphone-backend/shared/utils/cache"
)

type mockSweeper struct {
	mock.Mock
}

func (m *mockSweeper) ExpireOverdue(ctx context.Context) (int64, error) {
	args := m.Called(ctx)
	return args.Get(0).(int64), args.Error(1)
}

type countingSweeper struct{ calls atomic.Int64 }

func (s *countingSweeper) ExpireOverdue(ctx context.Context) (int64, error) {
	s.calls.Add(1)
	return 0, nil
}

func TestRunOnceWithoutLock(t *testing.T) {
	sweeper := &mockSweeper{}
	sweeper.On("ExpireOverdue", mock.Anything).Return(int64(3), nil).Once()

	n, ran := NewExpiryScheduler(sweeper, time.Hour).RunOnce(context.Background())
	assert.True(t, ran)
	assert.EqualValues(t, 3, n)
	sweeper.AssertExpectations(t)
}

func TestRunOnceReportsSweepFailure(t *testing.T) {
	sweeper := &mockSweeper{}
	sweeper.On("ExpireOverdue", mock.Anything).Return(int64(0), errors.New("db down"))

	_, ran := NewExpiryScheduler(sweeper, time.Hour).RunOnce(context.Background())
	assert.False(t, ran)
}

func TestRunOnceHonoursSweepLock(t *testing.T) {
	locks := cache.NewMemoryCache(nil)
	sweeper := &mockSweeper{}
	sweeper.On("ExpireOverdue", mock.Anything).Return(int64(0), nil).Once()

	first := NewExpiryScheduler(sweeper, time.Hour, WithSweepLock(locks))
	second := NewExpiryScheduler(sweeper, time.Hour, WithSweepLock(locks))

	_, ran := first.RunOnce(context.Background())
	assert.True(t, ran)
	_, ran = second.RunOnce(context.Background())
	assert.False(t, ran, "lease held by the first replica")

	sweeper.AssertNumberOfCalls(t, "ExpireOverdue", 1)
}

func TestSchedulerTicksUntilStopped(t *testing.T) {
	sweeper := &countingSweeper{}
	s := NewExpiryScheduler(sweeper, 10*time.Millisecond)

	s.Start(context.Background())
	s.Start(context.Background())

	require.Eventually(t, func() bool { return sweeper.calls.Load() >= 2 }, time.Second, 5*time.Millisecond)
	s.Stop()

	stopped := sweeper.calls.Load()
	time.Sleep(30 * time.Millisecond)
	assert.Equal(t, stopped, sweeper.calls.Load())

	s.Stop()
}

func TestSchedulerStopsWithParentContext(t *testing.T) {
	sweeper := &countingSweeper{}
	s := NewExpiryScheduler(sweeper, 10*time.Millisecond)

	ctx, cancel := context.WithCancel(context.Background())
	s.Start(ctx)
	cancel()

	done := make(chan struct{})
	go func() {
		s.Stop()
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("scheduler did not stop")
	}
}

func TestNewExpirySchedulerDefaultsInterval(t *testing.T) {
	s := NewExpiryScheduler(&countingSweeper{}, 0)
	assert.Equal(t, DefaultSweepInterval, s.interval)
}
