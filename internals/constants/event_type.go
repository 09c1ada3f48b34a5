package constants

// EventType partitions attendance, quality and metrics between the two
// meeting kinds the system tracks.
type EventType string

const (
	EventTypeTempleWorship EventType = "temple_worship"
	EventTypeGroupMeeting  EventType = "group_meeting"
)

func (e EventType) Valid() bool {
	return e == EventTypeTempleWorship || e == EventTypeGroupMeeting
}

// AttendanceStatus is the state stored on one attendance record.
type AttendanceStatus string

const (
	AttendancePresent AttendanceStatus = "present"
	AttendanceAbsent  AttendanceStatus = "absent"
)
