package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	gocache "github.com/patrickmn/go-cache"

	"ekklesia_backend/internals/constants"
	dto "ekklesia_backend/internals/features/metrics/dto"
)

// SnapshotSource computes metrics snapshots; MetricsAggregator is the real one.
type SnapshotSource interface {
	ChurchSnapshot(ctx context.Context, churchID uuid.UUID, eventType constants.EventType, windowStart, windowEnd time.Time) (*dto.AttendanceMetricsSnapshot, error)
	HomeGroupSnapshot(ctx context.Context, homeGroupID uuid.UUID, eventType constants.EventType, windowStart, windowEnd time.Time) (*dto.AttendanceMetricsSnapshot, error)
}

// MetricsCache is the get-or-compute wrapper around the aggregator. Entries
// live for a fixed TTL and are NOT invalidated by the recalculation
// pipeline: metrics may lag the latest attendance writes by up to the TTL.
// That staleness bound is a documented property, not a bug.
type MetricsCache struct {
	aggregator SnapshotSource
	store      *gocache.Cache
	ttl        time.Duration
}

// NewMetricsCache builds the cache at process start; there is no teardown
// beyond process exit.
func NewMetricsCache(aggregator SnapshotSource, ttl time.Duration) *MetricsCache {
	if ttl <= 0 {
		ttl = 20 * time.Minute
	}
	return &MetricsCache{
		aggregator: aggregator,
		store:      gocache.New(ttl, 2*ttl),
		ttl:        ttl,
	}
}

func (m *MetricsCache) ChurchSnapshot(
	ctx context.Context,
	churchID uuid.UUID,
	eventType constants.EventType,
	windowStart, windowEnd time.Time,
) (*dto.AttendanceMetricsSnapshot, error) {
	key := cacheKey("church", churchID, eventType, windowStart, windowEnd)
	if v, ok := m.store.Get(key); ok {
		return v.(*dto.AttendanceMetricsSnapshot), nil
	}

	snap, err := m.aggregator.ChurchSnapshot(ctx, churchID, eventType, windowStart, windowEnd)
	if err != nil {
		return nil, err
	}
	m.store.Set(key, snap, m.ttl)
	return snap, nil
}

func (m *MetricsCache) HomeGroupSnapshot(
	ctx context.Context,
	homeGroupID uuid.UUID,
	eventType constants.EventType,
	windowStart, windowEnd time.Time,
) (*dto.AttendanceMetricsSnapshot, error) {
	key := cacheKey("home_group", homeGroupID, eventType, windowStart, windowEnd)
	if v, ok := m.store.Get(key); ok {
		return v.(*dto.AttendanceMetricsSnapshot), nil
	}

	snap, err := m.aggregator.HomeGroupSnapshot(ctx, homeGroupID, eventType, windowStart, windowEnd)
	if err != nil {
		return nil, err
	}
	m.store.Set(key, snap, m.ttl)
	return snap, nil
}

func cacheKey(kind string, contextID uuid.UUID, eventType constants.EventType, start, end time.Time) string {
	return fmt.Sprintf("%s:%s:%s:%d:%d", kind, contextID, eventType, start.Unix(), end.Unix())
}
