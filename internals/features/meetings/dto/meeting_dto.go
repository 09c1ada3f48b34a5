package dto

import (
	"time"

	"github.com/google/uuid"

	"ekklesia_backend/internals/constants"
	model "ekklesia_backend/internals/features/meetings/model"
)

type MeetingResponse struct {
	MeetingID        uuid.UUID           `json:"meeting_id"`
	MeetingContextID uuid.UUID           `json:"meeting_context_id"`
	MeetingEventType constants.EventType `json:"meeting_event_type"`
	MeetingTitle     *string             `json:"meeting_title,omitempty"`
	MeetingStartsAt  time.Time           `json:"meeting_starts_at"`
	MeetingCreatedAt time.Time           `json:"meeting_created_at"`
}

func FromModel(m model.MeetingModel) MeetingResponse {
	return MeetingResponse{
		MeetingID:        m.MeetingID,
		MeetingContextID: m.MeetingContextID,
		MeetingEventType: m.MeetingEventType,
		MeetingTitle:     m.MeetingTitle,
		MeetingStartsAt:  m.MeetingStartsAt,
		MeetingCreatedAt: m.MeetingCreatedAt,
	}
}

type CreateMeetingRequest struct {
	MeetingContextID uuid.UUID           `json:"meeting_context_id" validate:"required"`
	MeetingEventType constants.EventType `json:"meeting_event_type" validate:"required,oneof=temple_worship group_meeting"`
	MeetingTitle     *string             `json:"meeting_title" validate:"omitempty,max=160"`
	MeetingStartsAt  time.Time           `json:"meeting_starts_at" validate:"required"`
}

func (r CreateMeetingRequest) ToModel() model.MeetingModel {
	return model.MeetingModel{
		MeetingContextID: r.MeetingContextID,
		MeetingEventType: r.MeetingEventType,
		MeetingTitle:     r.MeetingTitle,
		MeetingStartsAt:  r.MeetingStartsAt,
	}
}
