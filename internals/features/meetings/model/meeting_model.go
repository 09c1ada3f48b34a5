package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"ekklesia_backend/internals/constants"
)

// MeetingModel is one scheduled occurrence of temple worship or a home
// group meeting. MeetingContextID points at a church for temple_worship
// and at a home group for group_meeting.
type MeetingModel struct {
	MeetingID uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey;column:meeting_id" json:"meeting_id"`

	MeetingContextID uuid.UUID           `gorm:"type:uuid;not null;index:idx_meetings_context_type;column:meeting_context_id" json:"meeting_context_id"`
	MeetingEventType constants.EventType `gorm:"type:varchar(24);not null;index:idx_meetings_context_type;column:meeting_event_type" json:"meeting_event_type"`

	MeetingTitle    *string   `gorm:"type:varchar(160);column:meeting_title" json:"meeting_title,omitempty"`
	MeetingStartsAt time.Time `gorm:"not null;index;column:meeting_starts_at" json:"meeting_starts_at"`

	MeetingCreatedAt time.Time      `gorm:"column:meeting_created_at;autoCreateTime" json:"meeting_created_at"`
	MeetingUpdatedAt *time.Time     `gorm:"column:meeting_updated_at;autoUpdateTime" json:"meeting_updated_at,omitempty"`
	MeetingDeletedAt gorm.DeletedAt `gorm:"column:meeting_deleted_at;index" json:"meeting_deleted_at,omitempty"`
}

func (MeetingModel) TableName() string { return "meetings" }
