package service

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"ekklesia_backend/internals/constants"
	dto "ekklesia_backend/internals/features/quality/dto"
	"ekklesia_backend/internals/features/quality/queue"
	repository "ekklesia_backend/internals/features/quality/repository"
)

type stubBus struct {
	published  []dto.RecalculationRequest
	publishErr error
	failAfter  int
}

func (b *stubBus) Publish(_ context.Context, req dto.RecalculationRequest) error {
	if b.publishErr != nil && len(b.published) >= b.failAfter {
		return b.publishErr
	}
	b.published = append(b.published, req)
	return nil
}

func (b *stubBus) Subscribe(context.Context, int, queue.Handler) error { return nil }
func (b *stubBus) Close(context.Context) error                         { return nil }

func newMockDB(t *testing.T) (*gorm.DB, sqlmock.Sqlmock) {
	t.Helper()
	sqlDB, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	t.Cleanup(func() { _ = sqlDB.Close() })

	db, err := gorm.Open(postgres.New(postgres.Config{
		Conn:                 sqlDB,
		PreferSimpleProtocol: true,
	}), &gorm.Config{SkipDefaultTransaction: true})
	require.NoError(t, err)
	return db, mock
}

func TestWindowBounds(t *testing.T) {
	p := NewRecalcProducer(nil, &stubBus{}, nil, 3)

	asOf := time.Date(2026, 6, 15, 12, 0, 0, 0, time.UTC)
	start, end := p.Window(asOf)

	assert.Equal(t, time.Date(2026, 3, 15, 12, 0, 0, 0, time.UTC), start)
	assert.Equal(t, asOf, end)
}

func TestOnAttendanceChangedPublishesForMeetingContext(t *testing.T) {
	db, mock := newMockDB(t)
	bus := &stubBus{}
	producer := NewRecalcProducer(db, bus, nil, 3)

	meetingID := uuid.New()
	personID := uuid.New()
	contextID := uuid.New()
	asOf := time.Now()

	mock.ExpectQuery(`SELECT "meeting_context_id" FROM "meetings" WHERE meeting_id = .*`).
		WillReturnRows(sqlmock.NewRows([]string{"meeting_context_id"}).AddRow(contextID))

	err := producer.OnAttendanceChanged(context.Background(), meetingID, personID, constants.EventTypeGroupMeeting, asOf)
	require.NoError(t, err)
	require.Len(t, bus.published, 1)

	req := bus.published[0]
	assert.Equal(t, personID, req.PersonID)
	assert.Equal(t, contextID, req.ContextID)
	assert.Equal(t, constants.EventTypeGroupMeeting, req.EventType)
	assert.True(t, req.WindowEnd.Equal(asOf))
	assert.True(t, req.WindowStart.Equal(asOf.AddDate(0, -3, 0)))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestOnAttendanceChangedUnknownMeeting(t *testing.T) {
	db, mock := newMockDB(t)
	bus := &stubBus{}
	producer := NewRecalcProducer(db, bus, nil, 3)

	mock.ExpectQuery(`SELECT "meeting_context_id" FROM "meetings" WHERE meeting_id = .*`).
		WillReturnRows(sqlmock.NewRows([]string{"meeting_context_id"}))

	err := producer.OnAttendanceChanged(context.Background(), uuid.New(), uuid.New(), constants.EventTypeTempleWorship, time.Now())
	require.ErrorIs(t, err, gorm.ErrRecordNotFound)
	assert.Empty(t, bus.published)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestFanOutContextPublishesPerPerson(t *testing.T) {
	db, mock := newMockDB(t)
	bus := &stubBus{}
	producer := NewRecalcProducer(db, bus, nil, 3)

	churchID := uuid.New()
	ids := []uuid.UUID{uuid.New(), uuid.New(), uuid.New()}

	rows := sqlmock.NewRows([]string{"person_id"})
	for _, id := range ids {
		rows.AddRow(id)
	}
	// temple worship fans out over church membership
	mock.ExpectQuery(`SELECT "person_id" FROM "persons" WHERE person_church_id = .*`).
		WillReturnRows(rows)

	n, err := producer.FanOutContext(context.Background(), churchID, constants.EventTypeTempleWorship, time.Now())
	require.NoError(t, err)
	assert.Equal(t, 3, n)
	require.Len(t, bus.published, 3)
	for i, req := range bus.published {
		assert.Equal(t, ids[i], req.PersonID)
		assert.Equal(t, churchID, req.ContextID)
		assert.Equal(t, constants.EventTypeTempleWorship, req.EventType)
	}
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestFanOutContextReportsPartialProgress(t *testing.T) {
	db, mock := newMockDB(t)
	bus := &stubBus{publishErr: assert.AnError, failAfter: 2}
	producer := NewRecalcProducer(db, bus, nil, 3)

	groupID := uuid.New()
	rows := sqlmock.NewRows([]string{"person_id"})
	for i := 0; i < 4; i++ {
		rows.AddRow(uuid.New())
	}
	mock.ExpectQuery(`SELECT "person_id" FROM "persons" WHERE person_home_group_id = .*`).
		WillReturnRows(rows)

	n, err := producer.FanOutContext(context.Background(), groupID, constants.EventTypeGroupMeeting, time.Now())
	require.Error(t, err)
	assert.Equal(t, 2, n)
}

func TestOnPersonCreatedSeedsProjections(t *testing.T) {
	db, mock := newMockDB(t)
	projections := repository.NewProjectionRepository(db)
	producer := NewRecalcProducer(db, &stubBus{}, projections, 3)

	groupID := uuid.New()

	// one seed per scope, both tolerant of existing rows
	mock.ExpectQuery(`INSERT INTO "quality_projections" .*DO NOTHING`).
		WillReturnRows(sqlmock.NewRows([]string{"quality_projection_id"}).AddRow(uuid.New()))
	mock.ExpectQuery(`INSERT INTO "quality_projections" .*DO NOTHING`).
		WillReturnRows(sqlmock.NewRows([]string{"quality_projection_id"}).AddRow(uuid.New()))

	err := producer.OnPersonCreated(context.Background(), uuid.New(), uuid.New(), &groupID, time.Now())
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestOnPersonCreatedWithoutHomeGroup(t *testing.T) {
	db, mock := newMockDB(t)
	projections := repository.NewProjectionRepository(db)
	producer := NewRecalcProducer(db, &stubBus{}, projections, 3)

	mock.ExpectQuery(`INSERT INTO "quality_projections" .*DO NOTHING`).
		WillReturnRows(sqlmock.NewRows([]string{"quality_projection_id"}).AddRow(uuid.New()))

	err := producer.OnPersonCreated(context.Background(), uuid.New(), uuid.New(), nil, time.Now())
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}
