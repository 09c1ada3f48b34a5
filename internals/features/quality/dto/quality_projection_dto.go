package dto

import (
	"time"

	"github.com/google/uuid"

	"ekklesia_backend/internals/constants"
	model "ekklesia_backend/internals/features/quality/model"
)

type QualityProjectionResponse struct {
	QualityProjectionPersonID     uuid.UUID             `json:"quality_projection_person_id"`
	QualityProjectionContextID    uuid.UUID             `json:"quality_projection_context_id"`
	QualityProjectionEventType    constants.EventType   `json:"quality_projection_event_type"`
	QualityProjectionTierCode     model.QualityTierCode `json:"quality_projection_tier_code"`
	QualityProjectionComputedAsOf time.Time             `json:"quality_projection_computed_as_of"`
}

func FromProjectionModel(m model.QualityProjectionModel) QualityProjectionResponse {
	return QualityProjectionResponse{
		QualityProjectionPersonID:     m.QualityProjectionPersonID,
		QualityProjectionContextID:    m.QualityProjectionContextID,
		QualityProjectionEventType:    m.QualityProjectionEventType,
		QualityProjectionTierCode:     m.QualityProjectionTierCode,
		QualityProjectionComputedAsOf: m.QualityProjectionComputedAsOf,
	}
}
