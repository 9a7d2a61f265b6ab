package scheduler

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vfg2006/bizdash-api/internal/config"
	"github.com/vfg2006/bizdash-api/internal/usecases/authenticating"
)

type cleanerFunc func(ctx context.Context, now time.Time) (authenticating.CleanupResult, error)

func (f cleanerFunc) CleanupExpired(ctx context.Context, now time.Time) (authenticating.CleanupResult, error) {
	return f(ctx, now)
}

func newTestService(cleaner Cleaner) *SessionCleanupService {
	svc := NewSessionCleanupService(cleaner, &config.Config{
		Cleanup: config.Cleanup{CronSchedule: "0 3 * * *", Enabled: true},
	})
	svc.now = func() time.Time { return time.Date(2024, 5, 1, 3, 0, 0, 0, time.UTC) }
	return svc
}

func TestSessionCleanupService_RunCleanup(t *testing.T) {
	var calledWith time.Time
	svc := newTestService(cleanerFunc(func(_ context.Context, now time.Time) (authenticating.CleanupResult, error) {
		calledWith = now
		return authenticating.CleanupResult{Sessions: 4, Verifications: 2}, nil
	}))

	require.NoError(t, svc.RunCleanup(context.Background()))

	assert.Equal(t, time.Date(2024, 5, 1, 3, 0, 0, 0, time.UTC), calledWith)

	status := svc.GetStatus()
	assert.Equal(t, false, status["running"])
	assert.Equal(t, authenticating.CleanupResult{Sessions: 4, Verifications: 2}, status["last_result"])
	assert.Equal(t, "", status["last_error"])
}

func TestSessionCleanupService_RunCleanupError(t *testing.T) {
	svc := newTestService(cleanerFunc(func(context.Context, time.Time) (authenticating.CleanupResult, error) {
		return authenticating.CleanupResult{}, errors.New("banco indisponível")
	}))

	err := svc.RunCleanup(context.Background())

	assert.EqualError(t, err, "banco indisponível")
	assert.Equal(t, "banco indisponível", svc.GetStatus()["last_error"])
}

func TestSessionCleanupService_IgnoresOverlappingRuns(t *testing.T) {
	release := make(chan struct{})
	started := make(chan struct{})
	var calls atomic.Int32

	svc := newTestService(cleanerFunc(func(context.Context, time.Time) (authenticating.CleanupResult, error) {
		if calls.Add(1) == 1 {
			close(started)
		}
		<-release
		return authenticating.CleanupResult{}, nil
	}))

	require.True(t, svc.TriggerManualSync())
	<-started

	assert.False(t, svc.TriggerManualSync())
	assert.NoError(t, svc.RunCleanup(context.Background()))

	close(release)
	assert.Eventually(t, func() bool { return !svc.IsRunning() }, time.Second, 10*time.Millisecond)
	assert.Equal(t, int32(1), calls.Load())
}

func TestSessionCleanupService_StartDisabled(t *testing.T) {
	svc := NewSessionCleanupService(nil, &config.Config{})

	assert.NoError(t, svc.Start(context.Background()))
}
