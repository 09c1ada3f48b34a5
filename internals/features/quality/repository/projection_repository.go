package repository

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"ekklesia_backend/internals/constants"
	model "ekklesia_backend/internals/features/quality/model"
)

type ProjectionRepository struct {
	DB *gorm.DB
}

func NewProjectionRepository(db *gorm.DB) *ProjectionRepository {
	return &ProjectionRepository{DB: db}
}

// Find returns the projection for (person, context, event_type), or nil
// when none exists yet.
func (r *ProjectionRepository) Find(
	ctx context.Context,
	personID, contextID uuid.UUID,
	eventType constants.EventType,
) (*model.QualityProjectionModel, error) {
	var m model.QualityProjectionModel
	err := r.DB.WithContext(ctx).
		Where("quality_projection_person_id = ?", personID).
		Where("quality_projection_context_id = ?", contextID).
		Where("quality_projection_event_type = ?", eventType).
		Take(&m).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &m, nil
}

// UpsertIfNewer writes the projection atomically, guarded by computed_as_of
// monotonicity: a row that already carries a newer as-of is left untouched
// and (false, nil) is returned. This single statement closes the lost-update
// race between concurrent consumers without a read-modify-write cycle.
func (r *ProjectionRepository) UpsertIfNewer(ctx context.Context, p *model.QualityProjectionModel) (bool, error) {
	res := r.DB.WithContext(ctx).Clauses(clause.OnConflict{
		Columns: []clause.Column{
			{Name: "quality_projection_person_id"},
			{Name: "quality_projection_context_id"},
			{Name: "quality_projection_event_type"},
		},
		DoUpdates: clause.AssignmentColumns([]string{
			"quality_projection_tier_code",
			"quality_projection_computed_as_of",
			"quality_projection_updated_at",
		}),
		Where: clause.Where{Exprs: []clause.Expression{
			gorm.Expr("quality_projections.quality_projection_computed_as_of < excluded.quality_projection_computed_as_of"),
		}},
	}).Create(p)
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

// SeedNotYet inserts the initial NOT_YET projection for a person, doing
// nothing if any projection already exists for the key. Safe to call from
// the synchronous person-created path while recalculations are in flight:
// any real computation carries a later as-of and will overwrite it.
func (r *ProjectionRepository) SeedNotYet(
	ctx context.Context,
	personID, contextID uuid.UUID,
	eventType constants.EventType,
	asOf time.Time,
) error {
	m := model.QualityProjectionModel{
		QualityProjectionPersonID:     personID,
		QualityProjectionContextID:    contextID,
		QualityProjectionEventType:    eventType,
		QualityProjectionTierCode:     model.TierNotYet,
		QualityProjectionComputedAsOf: asOf,
	}
	return r.DB.WithContext(ctx).Clauses(clause.OnConflict{
		Columns: []clause.Column{
			{Name: "quality_projection_person_id"},
			{Name: "quality_projection_context_id"},
			{Name: "quality_projection_event_type"},
		},
		DoNothing: true,
	}).Create(&m).Error
}

// ListByContext exposes current tiers for a context, for read surfaces.
func (r *ProjectionRepository) ListByContext(
	ctx context.Context,
	contextID uuid.UUID,
	eventType constants.EventType,
) ([]model.QualityProjectionModel, error) {
	var rows []model.QualityProjectionModel
	err := r.DB.WithContext(ctx).
		Where("quality_projection_context_id = ?", contextID).
		Where("quality_projection_event_type = ?", eventType).
		Order("quality_projection_person_id").
		Find(&rows).Error
	return rows, err
}
