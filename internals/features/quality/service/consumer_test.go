package service

import (
	"context"
	"fmt"
	"io"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ekklesia_backend/internals/constants"
	"ekklesia_backend/internals/features/quality/classifier"
	dto "ekklesia_backend/internals/features/quality/dto"
	model "ekklesia_backend/internals/features/quality/model"
)

type fakeAttendance struct {
	missing    map[uuid.UUID]bool
	percentage float64
	pctErr     error
}

func (f *fakeAttendance) PersonExists(_ context.Context, personID uuid.UUID) (bool, error) {
	return !f.missing[personID], nil
}

func (f *fakeAttendance) Percentage(
	_ context.Context,
	_ uuid.UUID,
	_ constants.EventType,
	_, _ time.Time,
) (float64, error) {
	return f.percentage, f.pctErr
}

// fakeProjectionStore mirrors the conditional-upsert contract of the real
// repository: a write only lands when its computed-as-of is strictly newer.
type fakeProjectionStore struct {
	mu     sync.Mutex
	rows   map[string]model.QualityProjectionModel
	writes int
}

func newFakeProjectionStore() *fakeProjectionStore {
	return &fakeProjectionStore{rows: make(map[string]model.QualityProjectionModel)}
}

func scopeKey(personID, contextID uuid.UUID, eventType constants.EventType) string {
	return fmt.Sprintf("%s|%s|%s", personID, contextID, eventType)
}

func (f *fakeProjectionStore) Find(
	_ context.Context,
	personID, contextID uuid.UUID,
	eventType constants.EventType,
) (*model.QualityProjectionModel, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	row, ok := f.rows[scopeKey(personID, contextID, eventType)]
	if !ok {
		return nil, nil
	}
	return &row, nil
}

func (f *fakeProjectionStore) UpsertIfNewer(_ context.Context, p *model.QualityProjectionModel) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	key := scopeKey(p.QualityProjectionPersonID, p.QualityProjectionContextID, p.QualityProjectionEventType)
	if existing, ok := f.rows[key]; ok {
		if !existing.QualityProjectionComputedAsOf.Before(p.QualityProjectionComputedAsOf) {
			return false, nil
		}
	}
	f.rows[key] = *p
	f.writes++
	return true, nil
}

func (f *fakeProjectionStore) get(t *testing.T, req dto.RecalculationRequest) model.QualityProjectionModel {
	t.Helper()
	f.mu.Lock()
	defer f.mu.Unlock()
	row, ok := f.rows[scopeKey(req.PersonID, req.ContextID, req.EventType)]
	require.True(t, ok, "projection missing")
	return row
}

func quietLogger() *logrus.Logger {
	l := logrus.New()
	l.SetOutput(io.Discard)
	return l
}

func testConsumer(t *testing.T, att *fakeAttendance, store *fakeProjectionStore) *RecalcConsumer {
	t.Helper()
	cls, err := classifier.New([]model.QualityTierModel{
		{QualityTierCode: model.TierNotYet, QualityTierRank: 0, QualityTierMinPercentage: 0},
		{QualityTierCode: model.TierLow, QualityTierRank: 1, QualityTierMinPercentage: 35},
		{QualityTierCode: model.TierMedium, QualityTierRank: 2, QualityTierMinPercentage: 60},
		{QualityTierCode: model.TierHigh, QualityTierRank: 3, QualityTierMinPercentage: 85},
	})
	require.NoError(t, err)
	return NewRecalcConsumer(att, store, cls, quietLogger())
}

func recalcRequest(asOf time.Time) dto.RecalculationRequest {
	end := asOf
	return dto.RecalculationRequest{
		PersonID:    uuid.New(),
		ContextID:   uuid.New(),
		EventType:   constants.EventTypeTempleWorship,
		WindowStart: end.AddDate(0, -3, 0),
		WindowEnd:   end,
		RequestedAt: asOf,
	}
}

// 17 present out of 20 meetings is 85%, exactly the HIGH threshold.
func TestHandleClassifiesAndWrites(t *testing.T) {
	att := &fakeAttendance{percentage: 17.0 / 20.0 * 100}
	store := newFakeProjectionStore()
	consumer := testConsumer(t, att, store)

	req := recalcRequest(time.Now())
	require.NoError(t, consumer.Handle(context.Background(), req))

	row := store.get(t, req)
	assert.Equal(t, model.TierHigh, row.QualityProjectionTierCode)
	assert.Equal(t, 1, store.writes)
}

func TestHandleSkipsWhenTierUnchanged(t *testing.T) {
	att := &fakeAttendance{percentage: 72}
	store := newFakeProjectionStore()
	consumer := testConsumer(t, att, store)

	req := recalcRequest(time.Now())
	require.NoError(t, consumer.Handle(context.Background(), req))
	require.Equal(t, 1, store.writes)

	// attendance moved but the tier bucket did not
	att.percentage = 68
	later := req
	later.RequestedAt = req.RequestedAt.Add(time.Minute)
	require.NoError(t, consumer.Handle(context.Background(), later))

	assert.Equal(t, 1, store.writes, "unchanged tier must not write")
	assert.Equal(t, model.TierMedium, store.get(t, req).QualityProjectionTierCode)
}

// At-least-once delivery: replaying the exact same message converges on the
// same state with no extra writes.
func TestHandleReplayIsIdempotent(t *testing.T) {
	att := &fakeAttendance{percentage: 40}
	store := newFakeProjectionStore()
	consumer := testConsumer(t, att, store)

	req := recalcRequest(time.Now())
	for i := 0; i < 5; i++ {
		require.NoError(t, consumer.Handle(context.Background(), req))
	}

	assert.Equal(t, 1, store.writes)
	assert.Equal(t, model.TierLow, store.get(t, req).QualityProjectionTierCode)
}

// Two recalculations for the same person race; whichever processing order the
// bus produces, the state requested later wins.
func TestHandleOutOfOrderDeliveryKeepsNewest(t *testing.T) {
	base := time.Now()
	first := recalcRequest(base)
	second := first
	second.RequestedAt = base.Add(2 * time.Minute)
	second.WindowEnd = second.RequestedAt
	second.WindowStart = second.RequestedAt.AddDate(0, -3, 0)

	run := func(t *testing.T, order []dto.RecalculationRequest, pcts []float64) model.QualityProjectionModel {
		att := &fakeAttendance{}
		store := newFakeProjectionStore()
		consumer := testConsumer(t, att, store)
		for i, req := range order {
			att.percentage = pcts[i]
			require.NoError(t, consumer.Handle(context.Background(), req))
		}
		return store.get(t, first)
	}

	t.Run("in order", func(t *testing.T) {
		// first computes HIGH, second computes LOW
		row := run(t, []dto.RecalculationRequest{first, second}, []float64{90, 40})
		assert.Equal(t, model.TierLow, row.QualityProjectionTierCode)
		assert.True(t, row.QualityProjectionComputedAsOf.Equal(second.RequestedAt))
	})

	t.Run("reversed", func(t *testing.T) {
		// second lands first; the late replay of first must be dropped
		row := run(t, []dto.RecalculationRequest{second, first}, []float64{40, 90})
		assert.Equal(t, model.TierLow, row.QualityProjectionTierCode)
		assert.True(t, row.QualityProjectionComputedAsOf.Equal(second.RequestedAt))
	})
}

func TestHandleConcurrentRecalculations(t *testing.T) {
	base := time.Now()
	newest := base.Add(10 * time.Minute)

	att := &fakeAttendance{percentage: 90}
	store := newFakeProjectionStore()
	consumer := testConsumer(t, att, store)

	first := recalcRequest(base)
	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		req := first
		req.RequestedAt = base.Add(time.Duration(i) * time.Minute)
		wg.Add(1)
		go func() {
			defer wg.Done()
			assert.NoError(t, consumer.Handle(context.Background(), req))
		}()
	}
	wg.Wait()

	row := store.get(t, first)
	assert.Equal(t, model.TierHigh, row.QualityProjectionTierCode)
	assert.False(t, row.QualityProjectionComputedAsOf.After(newest))
}

func TestHandleMissingPersonFailsMessage(t *testing.T) {
	req := recalcRequest(time.Now())
	att := &fakeAttendance{missing: map[uuid.UUID]bool{req.PersonID: true}}
	store := newFakeProjectionStore()
	consumer := testConsumer(t, att, store)

	err := consumer.Handle(context.Background(), req)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not found")
	assert.Equal(t, 0, store.writes)
}

func TestHandlePercentageErrorPropagates(t *testing.T) {
	att := &fakeAttendance{pctErr: fmt.Errorf("connection reset")}
	store := newFakeProjectionStore()
	consumer := testConsumer(t, att, store)

	err := consumer.Handle(context.Background(), recalcRequest(time.Now()))
	require.Error(t, err)
	assert.Equal(t, 0, store.writes)
}
