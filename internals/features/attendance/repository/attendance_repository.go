package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"ekklesia_backend/internals/constants"
)

type AttendanceRepository struct {
	DB *gorm.DB
}

func NewAttendanceRepository(db *gorm.DB) *AttendanceRepository {
	return &AttendanceRepository{DB: db}
}

// PersonExists reports whether the person row is present and not soft-deleted.
func (r *AttendanceRepository) PersonExists(ctx context.Context, personID uuid.UUID) (bool, error) {
	var exists bool
	err := r.DB.WithContext(ctx).
		Raw("SELECT EXISTS(SELECT 1 FROM persons WHERE person_id = ? AND person_deleted_at IS NULL)", personID).
		Scan(&exists).Error
	return exists, err
}

// Percentage returns the share (0..100) of context meetings inside the
// half-open window (windowStart, windowEnd] the person was present at.
// The denominator is the number of meetings *scheduled* for the person's
// context in the window; 0 is returned when no meetings occurred.
func (r *AttendanceRepository) Percentage(
	ctx context.Context,
	personID uuid.UUID,
	eventType constants.EventType,
	windowEnd, windowStart time.Time,
) (float64, error) {
	contextID, err := r.personContextID(ctx, personID, eventType)
	if err != nil {
		return 0, err
	}
	if contextID == nil {
		// e.g. person not enrolled in any home group
		return 0, nil
	}

	var totalMeetings int64
	if err := r.DB.WithContext(ctx).
		Table("meetings").
		Where("meeting_context_id = ?", *contextID).
		Where("meeting_event_type = ?", eventType).
		Where("meeting_starts_at > ? AND meeting_starts_at <= ?", windowStart, windowEnd).
		Where("meeting_deleted_at IS NULL").
		Count(&totalMeetings).Error; err != nil {
		return 0, err
	}
	if totalMeetings == 0 {
		return 0, nil
	}

	var attended int64
	if err := r.DB.WithContext(ctx).
		Table("attendance_records AS a").
		Joins("JOIN meetings m ON m.meeting_id = a.attendance_record_meeting_id").
		Where("a.attendance_record_person_id = ?", personID).
		Where("a.attendance_record_event_type = ?", eventType).
		Where("a.attendance_record_status = ?", constants.AttendancePresent).
		Where("m.meeting_context_id = ?", *contextID).
		Where("m.meeting_starts_at > ? AND m.meeting_starts_at <= ?", windowStart, windowEnd).
		Where("m.meeting_deleted_at IS NULL").
		Count(&attended).Error; err != nil {
		return 0, err
	}

	return float64(attended) / float64(totalMeetings) * 100, nil
}

// personContextID resolves which context the event type scopes to:
// the person's church for temple worship, their home group otherwise.
// Returns gorm.ErrRecordNotFound when the person does not exist.
func (r *AttendanceRepository) personContextID(
	ctx context.Context,
	personID uuid.UUID,
	eventType constants.EventType,
) (*uuid.UUID, error) {
	var row struct {
		ChurchID    uuid.UUID  `gorm:"column:person_church_id"`
		HomeGroupID *uuid.UUID `gorm:"column:person_home_group_id"`
	}
	err := r.DB.WithContext(ctx).
		Table("persons").
		Select("person_church_id, person_home_group_id").
		Where("person_id = ? AND person_deleted_at IS NULL", personID).
		Take(&row).Error
	if err != nil {
		return nil, err
	}

	if eventType == constants.EventTypeTempleWorship {
		return &row.ChurchID, nil
	}
	return row.HomeGroupID, nil
}

// ContextAttendanceAggregate is one context's raw attendance projection for
// a window, before rates are derived.
type ContextAttendanceAggregate struct {
	ContextID           uuid.UUID
	TotalMeetings       int64
	TotalPeopleAttended int64
	NewAttendees        int64
}

// AggregateByContexts runs one batched projection query across the given
// context ids. Contexts with no data are absent from the result map;
// callers default them to zero-valued aggregates.
func (r *AttendanceRepository) AggregateByContexts(
	ctx context.Context,
	contextIDs []uuid.UUID,
	eventType constants.EventType,
	windowStart, windowEnd time.Time,
) (map[uuid.UUID]ContextAttendanceAggregate, error) {
	out := make(map[uuid.UUID]ContextAttendanceAggregate, len(contextIDs))
	if len(contextIDs) == 0 {
		return out, nil
	}

	type meetingRow struct {
		ContextID uuid.UUID `gorm:"column:context_id"`
		Total     int64     `gorm:"column:total"`
	}
	var meetings []meetingRow
	if err := r.DB.WithContext(ctx).
		Table("meetings").
		Select("meeting_context_id AS context_id, COUNT(*) AS total").
		Where("meeting_context_id IN ?", contextIDs).
		Where("meeting_event_type = ?", eventType).
		Where("meeting_starts_at > ? AND meeting_starts_at <= ?", windowStart, windowEnd).
		Where("meeting_deleted_at IS NULL").
		Group("meeting_context_id").
		Find(&meetings).Error; err != nil {
		return nil, err
	}
	for _, m := range meetings {
		agg := out[m.ContextID]
		agg.ContextID = m.ContextID
		agg.TotalMeetings = m.Total
		out[m.ContextID] = agg
	}

	type attendanceRow struct {
		ContextID    uuid.UUID `gorm:"column:context_id"`
		Attended     int64     `gorm:"column:attended"`
		NewAttendees int64     `gorm:"column:new_attendees"`
	}
	var attendance []attendanceRow
	if err := r.DB.WithContext(ctx).
		Table("attendance_records AS a").
		Select(`m.meeting_context_id AS context_id,
			COUNT(DISTINCT a.attendance_record_person_id) AS attended,
			COUNT(DISTINCT a.attendance_record_person_id) FILTER (WHERE a.attendance_record_is_new_attendee) AS new_attendees`).
		Joins("JOIN meetings m ON m.meeting_id = a.attendance_record_meeting_id").
		Where("m.meeting_context_id IN ?", contextIDs).
		Where("a.attendance_record_event_type = ?", eventType).
		Where("a.attendance_record_status = ?", constants.AttendancePresent).
		Where("m.meeting_starts_at > ? AND m.meeting_starts_at <= ?", windowStart, windowEnd).
		Where("m.meeting_deleted_at IS NULL").
		Group("m.meeting_context_id").
		Find(&attendance).Error; err != nil {
		return nil, err
	}
	for _, a := range attendance {
		agg := out[a.ContextID]
		agg.ContextID = a.ContextID
		agg.TotalPeopleAttended = a.Attended
		agg.NewAttendees = a.NewAttendees
		out[a.ContextID] = agg
	}

	return out, nil
}
