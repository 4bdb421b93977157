package scheduler_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/SscSPs/property_ledger/internal/scheduler"
)

type MockOverdueSvc struct {
	mock.Mock
}

func (m *MockOverdueSvc) MarkOverdue(ctx context.Context, userID string) (int64, error) {
	args := m.Called(ctx, userID)
	return args.Get(0).(int64), args.Error(1)
}

type fakeLocker struct {
	held     bool
	err      error
	released int
}

func (f *fakeLocker) TryLock(_ context.Context, _ string, _ time.Duration) (func(context.Context) error, bool, error) {
	if f.err != nil {
		return nil, false, f.err
	}
	if f.held {
		return nil, false, nil
	}
	f.held = true
	return func(context.Context) error {
		f.held = false
		f.released++
		return nil
	}, true, nil
}

func TestOverdueSweeper_RunOnceWithoutLocker(t *testing.T) {
	svc := new(MockOverdueSvc)
	svc.On("MarkOverdue", mock.Anything, "").Return(int64(3), nil).Once()

	sweeper, err := scheduler.NewOverdueSweeper("@hourly", svc, nil, nil)
	require.NoError(t, err)

	ran, err := sweeper.RunOnce(context.Background())
	require.NoError(t, err)
	assert.True(t, ran)
	svc.AssertExpectations(t)
}

func TestOverdueSweeper_SkipsWhenLockHeld(t *testing.T) {
	svc := new(MockOverdueSvc)
	locker := &fakeLocker{held: true}

	sweeper, err := scheduler.NewOverdueSweeper("*/5 * * * *", svc, locker, nil)
	require.NoError(t, err)

	ran, err := sweeper.RunOnce(context.Background())
	require.NoError(t, err)
	assert.False(t, ran)
	svc.AssertNotCalled(t, "MarkOverdue", mock.Anything, mock.Anything)
}

func TestOverdueSweeper_ReleasesLockAfterRun(t *testing.T) {
	svc := new(MockOverdueSvc)
	svc.On("MarkOverdue", mock.Anything, "").Return(int64(0), errors.New("db down")).Once()
	locker := &fakeLocker{}

	sweeper, err := scheduler.NewOverdueSweeper("@every 1h", svc, locker, nil)
	require.NoError(t, err)

	ran, err := sweeper.RunOnce(context.Background())
	assert.True(t, ran)
	assert.EqualError(t, err, "db down")
	assert.False(t, locker.held)
	assert.Equal(t, 1, locker.released)
}

func TestOverdueSweeper_LockError(t *testing.T) {
	svc := new(MockOverdueSvc)
	sweeper, err := scheduler.NewOverdueSweeper("@hourly", svc, &fakeLocker{err: errors.New("redis unreachable")}, nil)
	require.NoError(t, err)

	ran, err := sweeper.RunOnce(context.Background())
	assert.False(t, ran)
	assert.Error(t, err)
	svc.AssertNotCalled(t, "MarkOverdue", mock.Anything, mock.Anything)
}

func TestNewOverdueSweeper_InvalidSchedule(t *testing.T) {
	_, err := scheduler.NewOverdueSweeper("whenever", new(MockOverdueSvc), nil, nil)
	assert.Error(t, err)
}

func TestOverdueSweeper_StartStop(t *testing.T) {
	sweeper, err := scheduler.NewOverdueSweeper("@daily", new(MockOverdueSvc), nil, nil)
	require.NoError(t, err)

	sweeper.Start()
	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	sweeper.Stop(ctx)
}
