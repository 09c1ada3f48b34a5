package scheduler

import (
	"context"
	"fmt"
	"io"
	"sync"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"ekklesia_backend/internals/constants"
	dto "ekklesia_backend/internals/features/quality/dto"
	"ekklesia_backend/internals/features/quality/queue"
)

type captureBus struct {
	mu         sync.Mutex
	published  []dto.RecalculationRequest
	publishErr error
}

func (b *captureBus) Publish(_ context.Context, req dto.RecalculationRequest) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.publishErr != nil {
		return b.publishErr
	}
	b.published = append(b.published, req)
	return nil
}

func (b *captureBus) Subscribe(context.Context, int, queue.Handler) error { return nil }

func (b *captureBus) Close(context.Context) error { return nil }

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

func quietLogger() *logrus.Logger {
	l := logrus.New()
	l.SetOutput(io.Discard)
	return l
}

const pagePattern = `SELECT person_id, person_church_id, person_home_group_id FROM "persons" WHERE person_id > .* ORDER BY person_id ASC LIMIT .*`

func pageColumns() []string {
	return []string{"person_id", "person_church_id", "person_home_group_id"}
}

func TestRunSweepsAllPages(t *testing.T) {
	db, mock := newMockDB(t)
	bus := &captureBus{}
	job := NewReconciliationJob(db, bus, 3, 2, quietLogger())

	churchID := uuid.New()
	groupID := uuid.New()
	personA := uuid.New()
	personB := uuid.New()
	personC := uuid.New()

	// page 1: A has no home group, B has one
	mock.ExpectQuery(pagePattern).WillReturnRows(sqlmock.NewRows(pageColumns()).
		AddRow(personA, churchID, nil).
		AddRow(personB, churchID, groupID))
	// page 2: C, short page
	mock.ExpectQuery(pagePattern).WillReturnRows(sqlmock.NewRows(pageColumns()).
		AddRow(personC, churchID, groupID))
	// page 3: empty terminates the sweep
	mock.ExpectQuery(pagePattern).WillReturnRows(sqlmock.NewRows(pageColumns()))

	n, err := job.Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 5, n)
	require.Len(t, bus.published, 5)
	assert.NoError(t, mock.ExpectationsWereMet())

	perType := map[constants.EventType]int{}
	for _, req := range bus.published {
		perType[req.EventType]++
		switch req.EventType {
		case constants.EventTypeTempleWorship:
			assert.Equal(t, churchID, req.ContextID)
		case constants.EventTypeGroupMeeting:
			assert.Equal(t, groupID, req.ContextID)
		}
		assert.True(t, req.WindowStart.Before(req.WindowEnd))
		assert.True(t, req.RequestedAt.Equal(req.WindowEnd))
	}
	assert.Equal(t, 3, perType[constants.EventTypeTempleWorship])
	assert.Equal(t, 2, perType[constants.EventTypeGroupMeeting])
}

func TestRunEmptyTable(t *testing.T) {
	db, mock := newMockDB(t)
	bus := &captureBus{}
	job := NewReconciliationJob(db, bus, 3, 200, quietLogger())

	mock.ExpectQuery(pagePattern).WillReturnRows(sqlmock.NewRows(pageColumns()))

	n, err := job.Run(context.Background())
	require.NoError(t, err)
	assert.Zero(t, n)
	assert.Empty(t, bus.published)
}

func TestRunStopsOnPublishError(t *testing.T) {
	db, mock := newMockDB(t)
	bus := &captureBus{publishErr: fmt.Errorf("broker unavailable")}
	job := NewReconciliationJob(db, bus, 3, 10, quietLogger())

	mock.ExpectQuery(pagePattern).WillReturnRows(sqlmock.NewRows(pageColumns()).
		AddRow(uuid.New(), uuid.New(), nil))

	n, err := job.Run(context.Background())
	require.Error(t, err)
	assert.Zero(t, n)
}
