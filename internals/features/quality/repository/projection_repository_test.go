package repository

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
	model "ekklesia_backend/internals/features/quality/model"
)

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

func sampleProjection() *model.QualityProjectionModel {
	return &model.QualityProjectionModel{
		QualityProjectionPersonID:     uuid.New(),
		QualityProjectionContextID:    uuid.New(),
		QualityProjectionEventType:    constants.EventTypeTempleWorship,
		QualityProjectionTierCode:     model.TierMedium,
		QualityProjectionComputedAsOf: time.Now(),
	}
}

// The whole race-closure strategy hangs on this one statement: the upsert
// must carry the conflict target AND the computed-as-of guard in its WHERE.
const upsertPattern = `INSERT INTO "quality_projections" .*` +
	`ON CONFLICT \("quality_projection_person_id","quality_projection_context_id","quality_projection_event_type"\) ` +
	`DO UPDATE SET .*` +
	`WHERE quality_projections\.quality_projection_computed_as_of < excluded\.quality_projection_computed_as_of`

func TestUpsertIfNewerApplied(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewProjectionRepository(db)

	mock.ExpectQuery(upsertPattern).
		WillReturnRows(sqlmock.NewRows([]string{"quality_projection_id"}).AddRow(uuid.New()))

	applied, err := repo.UpsertIfNewer(context.Background(), sampleProjection())
	require.NoError(t, err)
	assert.True(t, applied)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUpsertIfNewerStaleWriteDropped(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewProjectionRepository(db)

	// the guard filtered the update out: no row touched, no error
	mock.ExpectQuery(upsertPattern).
		WillReturnRows(sqlmock.NewRows([]string{"quality_projection_id"}))

	applied, err := repo.UpsertIfNewer(context.Background(), sampleProjection())
	require.NoError(t, err)
	assert.False(t, applied)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestFindReturnsNilWhenAbsent(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewProjectionRepository(db)

	mock.ExpectQuery(`SELECT \* FROM "quality_projections" WHERE quality_projection_person_id = .*`).
		WillReturnRows(sqlmock.NewRows([]string{"quality_projection_id"}))

	got, err := repo.Find(context.Background(), uuid.New(), uuid.New(), constants.EventTypeTempleWorship)
	require.NoError(t, err)
	assert.Nil(t, got)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestFindReturnsRow(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewProjectionRepository(db)

	personID := uuid.New()
	contextID := uuid.New()
	mock.ExpectQuery(`SELECT \* FROM "quality_projections" WHERE quality_projection_person_id = .*`).
		WillReturnRows(sqlmock.NewRows([]string{
			"quality_projection_id",
			"quality_projection_person_id",
			"quality_projection_context_id",
			"quality_projection_event_type",
			"quality_projection_tier_code",
		}).AddRow(uuid.New(), personID, contextID, "temple_worship", "HIGH"))

	got, err := repo.Find(context.Background(), personID, contextID, constants.EventTypeTempleWorship)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, model.TierHigh, got.QualityProjectionTierCode)
	assert.Equal(t, personID, got.QualityProjectionPersonID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSeedNotYetDoesNothingOnConflict(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewProjectionRepository(db)

	mock.ExpectQuery(`INSERT INTO "quality_projections" .*ON CONFLICT \("quality_projection_person_id","quality_projection_context_id","quality_projection_event_type"\) DO NOTHING`).
		WillReturnRows(sqlmock.NewRows([]string{"quality_projection_id"}))

	err := repo.SeedNotYet(context.Background(), uuid.New(), uuid.New(), constants.EventTypeGroupMeeting, time.Now())
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}
