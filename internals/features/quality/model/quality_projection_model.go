package model

import (
	"time"

	"github.com/google/uuid"

	"ekklesia_backend/internals/constants"
)

// QualityProjectionModel is the derived attendance-health classification of
// one person within one context (church or home group) and event type.
// Identity is the composite (person, context, event_type); the tier is a
// plain FK column, never part of the key. ComputedAsOf guards against
// out-of-order recalculations overwriting newer state.
type QualityProjectionModel struct {
	QualityProjectionID uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey;column:quality_projection_id" json:"quality_projection_id"`

	QualityProjectionPersonID  uuid.UUID           `gorm:"type:uuid;not null;uniqueIndex:ux_quality_projection_scope,priority:1;column:quality_projection_person_id" json:"quality_projection_person_id"`
	QualityProjectionContextID uuid.UUID           `gorm:"type:uuid;not null;uniqueIndex:ux_quality_projection_scope,priority:2;column:quality_projection_context_id" json:"quality_projection_context_id"`
	QualityProjectionEventType constants.EventType `gorm:"type:varchar(24);not null;uniqueIndex:ux_quality_projection_scope,priority:3;column:quality_projection_event_type" json:"quality_projection_event_type"`

	QualityProjectionTierCode QualityTierCode `gorm:"type:varchar(16);not null;column:quality_projection_tier_code;references:quality_tiers(quality_tier_code)" json:"quality_projection_tier_code"`

	QualityProjectionComputedAsOf time.Time `gorm:"not null;column:quality_projection_computed_as_of" json:"quality_projection_computed_as_of"`

	QualityProjectionCreatedAt time.Time  `gorm:"column:quality_projection_created_at;autoCreateTime" json:"quality_projection_created_at"`
	QualityProjectionUpdatedAt *time.Time `gorm:"column:quality_projection_updated_at;autoUpdateTime" json:"quality_projection_updated_at,omitempty"`
}

func (QualityProjectionModel) TableName() string { return "quality_projections" }
