package dto

import (
	"time"

	"github.com/google/uuid"

	"ekklesia_backend/internals/constants"
)

// AttendanceMetricsSnapshot is a derived, cache-only aggregate; it is never
// persisted. A church-level snapshot nests one entry per known home group
// and child church, zero-valued when no data exists in the window.
type AttendanceMetricsSnapshot struct {
	ContextID uuid.UUID           `json:"context_id"`
	EventType constants.EventType `json:"event_type"`

	NewAttendees        int64 `json:"new_attendees"`
	TotalPeople         int64 `json:"total_people"`
	TotalPeopleAttended int64 `json:"total_people_attended"`
	TotalMeetings       int64 `json:"total_meetings"`

	AttendanceRate              float64 `json:"attendance_rate"`
	AbsenceRate                 float64 `json:"absence_rate"`
	AverageAttendancePerMeeting float64 `json:"average_attendance_per_meeting"`

	WindowStart time.Time `json:"window_start"`
	WindowEnd   time.Time `json:"window_end"`

	HomeGroups    []AttendanceMetricsSnapshot `json:"home_groups,omitempty"`
	ChildChurches []AttendanceMetricsSnapshot `json:"child_churches,omitempty"`
}
