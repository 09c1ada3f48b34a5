package dto

import (
	"time"

	"github.com/google/uuid"

	"ekklesia_backend/internals/constants"
	model "ekklesia_backend/internals/features/attendance/model"
)

type AttendanceRecordResponse struct {
	AttendanceRecordID            uuid.UUID                  `json:"attendance_record_id"`
	AttendanceRecordPersonID      uuid.UUID                  `json:"attendance_record_person_id"`
	AttendanceRecordMeetingID     uuid.UUID                  `json:"attendance_record_meeting_id"`
	AttendanceRecordEventType     constants.EventType        `json:"attendance_record_event_type"`
	AttendanceRecordStatus        constants.AttendanceStatus `json:"attendance_record_status"`
	AttendanceRecordIsNewAttendee bool                       `json:"attendance_record_is_new_attendee"`
	AttendanceRecordCreatedAt     time.Time                  `json:"attendance_record_created_at"`
}

func FromModel(m model.AttendanceRecordModel) AttendanceRecordResponse {
	return AttendanceRecordResponse{
		AttendanceRecordID:            m.AttendanceRecordID,
		AttendanceRecordPersonID:      m.AttendanceRecordPersonID,
		AttendanceRecordMeetingID:     m.AttendanceRecordMeetingID,
		AttendanceRecordEventType:     m.AttendanceRecordEventType,
		AttendanceRecordStatus:        m.AttendanceRecordStatus,
		AttendanceRecordIsNewAttendee: m.AttendanceRecordIsNewAttendee,
		AttendanceRecordCreatedAt:     m.AttendanceRecordCreatedAt,
	}
}

// ToggleAttendanceRequest marks or unmarks one person at one meeting.
// Event type comes from the meeting row, not the client.
type ToggleAttendanceRequest struct {
	AttendanceRecordPersonID      uuid.UUID `json:"attendance_record_person_id" validate:"required"`
	AttendanceRecordMeetingID     uuid.UUID `json:"attendance_record_meeting_id" validate:"required"`
	AttendanceRecordIsNewAttendee bool      `json:"attendance_record_is_new_attendee"`
}

type ToggleAttendanceResponse struct {
	Marked bool                      `json:"marked"` // false when the toggle removed an existing record
	Record *AttendanceRecordResponse `json:"record,omitempty"`
}
