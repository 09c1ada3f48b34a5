package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	model "ekklesia_backend/internals/features/quality/model"
	"ekklesia_backend/internals/features/quality/queue"
)

func waitForWrites(t *testing.T, store *fakeProjectionStore, want int) {
	t.Helper()
	deadline := time.After(2 * time.Second)
	for {
		store.mu.Lock()
		n := store.writes
		store.mu.Unlock()
		if n >= want {
			return
		}
		select {
		case <-deadline:
			t.Fatalf("timed out waiting for %d writes, have %d", want, n)
		case <-time.After(5 * time.Millisecond):
		}
	}
}

// Full pipeline over the in-memory bus: a person present at 17 of 20
// meetings is recalculated to HIGH, and redelivering the same request
// afterwards neither writes again nor changes the tier.
func TestPipelineRecalculatesToHigh(t *testing.T) {
	att := &fakeAttendance{percentage: 17.0 / 20.0 * 100}
	store := newFakeProjectionStore()
	consumer := testConsumer(t, att, store)

	bus := queue.NewMemoryBus(32)
	require.NoError(t, bus.Subscribe(context.Background(), 3, consumer.Handle))

	req := recalcRequest(time.Now())
	require.NoError(t, bus.Publish(context.Background(), req))
	waitForWrites(t, store, 1)

	assert.Equal(t, model.TierHigh, store.get(t, req).QualityProjectionTierCode)

	// at-least-once redelivery of the identical message
	require.NoError(t, bus.Publish(context.Background(), req))
	require.NoError(t, bus.Publish(context.Background(), req))

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	require.NoError(t, bus.Close(ctx))

	store.mu.Lock()
	writes := store.writes
	store.mu.Unlock()
	assert.Equal(t, 1, writes)
	assert.Equal(t, model.TierHigh, store.get(t, req).QualityProjectionTierCode)
}

// Concurrent workers racing on requests for the same person must end on the
// projection with the newest computed-as-of regardless of interleaving.
func TestPipelineConcurrentWorkersConverge(t *testing.T) {
	att := &fakeAttendance{percentage: 90}
	store := newFakeProjectionStore()
	consumer := testConsumer(t, att, store)

	bus := queue.NewMemoryBus(128)
	require.NoError(t, bus.Subscribe(context.Background(), 4, consumer.Handle))

	base := time.Now()
	first := recalcRequest(base)
	newest := base
	for i := 0; i < 20; i++ {
		req := first
		req.RequestedAt = base.Add(time.Duration(i) * time.Second)
		if req.RequestedAt.After(newest) {
			newest = req.RequestedAt
		}
		require.NoError(t, bus.Publish(context.Background(), req))
	}

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	require.NoError(t, bus.Close(ctx))

	row := store.get(t, first)
	assert.Equal(t, model.TierHigh, row.QualityProjectionTierCode)
	assert.False(t, row.QualityProjectionComputedAsOf.After(newest))
}
