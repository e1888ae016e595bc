package worker

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDispatcher_NilClientDropsJobs(t *testing.T) {
	// A nil client keeps the services usable without Redis (unit tests,
	// degraded mode): enqueues succeed and go nowhere.
	d := NewDispatcher(nil)
	assert.NoError(t, d.EnqueueNotification(context.Background(), NotificationPayload{
		Event:   EventOrderSubmitted,
		OrderID: "abc",
	}))
	assert.NoError(t, d.EnqueueMediaCleanup(context.Background(), MediaCleanupPayload{
		StoragePath: "drafts/face.jpg",
	}))

	var nilDispatcher *Dispatcher
	assert.NoError(t, nilDispatcher.EnqueueNotification(context.Background(), NotificationPayload{}))
}

func TestWithRetry_SucceedsWithoutRetry(t *testing.T) {
	calls := 0
	err := withRetry(context.Background(), 3, func(attempt int) error {
		calls++
		assert.Equal(t, 0, attempt)
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, 1, calls)
}

func TestWithRetry_ExhaustsAttempts(t *testing.T) {
	boom := errors.New("sidecar indisponible")
	calls := 0
	err := withRetry(context.Background(), 1, func(attempt int) error {
		calls++
		return boom
	})
	require.ErrorIs(t, err, boom)
	assert.Equal(t, 1, calls)
}

func TestWithRetry_ContextCancelStopsBackoff(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	calls := 0
	err := withRetry(ctx, 3, func(attempt int) error {
		calls++
		cancel()
		return errors.New("échec transitoire")
	})
	require.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, 1, calls)
}
