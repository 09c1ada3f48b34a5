package model

import (
	"time"

	"github.com/google/uuid"

	"ekklesia_backend/internals/constants"
)

// AttendanceRecordModel is one person's presence at one meeting occurrence.
// At most one row per (person, meeting, event_type). The write path is a
// toggle: marking attendance again for the same key deletes the row.
type AttendanceRecordModel struct {
	AttendanceRecordID uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey;column:attendance_record_id" json:"attendance_record_id"`

	AttendanceRecordPersonID  uuid.UUID           `gorm:"type:uuid;not null;uniqueIndex:ux_attendance_person_meeting,priority:1;column:attendance_record_person_id" json:"attendance_record_person_id"`
	AttendanceRecordMeetingID uuid.UUID           `gorm:"type:uuid;not null;uniqueIndex:ux_attendance_person_meeting,priority:2;column:attendance_record_meeting_id" json:"attendance_record_meeting_id"`
	AttendanceRecordEventType constants.EventType `gorm:"type:varchar(24);not null;uniqueIndex:ux_attendance_person_meeting,priority:3;column:attendance_record_event_type" json:"attendance_record_event_type"`

	AttendanceRecordStatus constants.AttendanceStatus `gorm:"type:varchar(10);not null;default:'present';column:attendance_record_status" json:"attendance_record_status"`

	AttendanceRecordIsNewAttendee bool `gorm:"not null;default:false;column:attendance_record_is_new_attendee" json:"attendance_record_is_new_attendee"`

	AttendanceRecordCreatedAt time.Time `gorm:"column:attendance_record_created_at;autoCreateTime" json:"attendance_record_created_at"`
}

func (AttendanceRecordModel) TableName() string { return "attendance_records" }
