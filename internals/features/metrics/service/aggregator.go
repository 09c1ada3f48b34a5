package service

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"ekklesia_backend/internals/constants"
	attendancerepo "ekklesia_backend/internals/features/attendance/repository"
	dto "ekklesia_backend/internals/features/metrics/dto"
)

// MetricsAggregator composes attendance-store queries into hierarchical
// snapshots: a church rolls up its own context, its home groups and its
// child churches. Synchronous and uncached; MetricsCache is the TTL
// wrapper.
type MetricsAggregator struct {
	DB         *gorm.DB
	Attendance *attendancerepo.AttendanceRepository
}

func NewMetricsAggregator(db *gorm.DB, attendance *attendancerepo.AttendanceRepository) *MetricsAggregator {
	return &MetricsAggregator{DB: db, Attendance: attendance}
}

type contextMembers struct {
	ContextID   uuid.UUID `gorm:"column:context_id"`
	TotalPeople int64     `gorm:"column:total_people"`
}

func (a *MetricsAggregator) ChurchSnapshot(
	ctx context.Context,
	churchID uuid.UUID,
	eventType constants.EventType,
	windowStart, windowEnd time.Time,
) (*dto.AttendanceMetricsSnapshot, error) {
	// (1) home groups under the church, with member counts
	var groups []contextMembers
	if err := a.DB.WithContext(ctx).
		Table("home_groups AS g").
		Select(`g.home_group_id AS context_id,
			COUNT(p.person_id) AS total_people`).
		Joins(`LEFT JOIN persons p ON p.person_home_group_id = g.home_group_id
			AND p.person_is_active AND p.person_deleted_at IS NULL`).
		Where("g.home_group_church_id = ?", churchID).
		Where("g.home_group_deleted_at IS NULL").
		Group("g.home_group_id").
		Find(&groups).Error; err != nil {
		return nil, err
	}

	// (2) child churches, with member counts
	var children []contextMembers
	if err := a.DB.WithContext(ctx).
		Table("churches AS c").
		Select(`c.church_id AS context_id,
			COUNT(p.person_id) AS total_people`).
		Joins(`LEFT JOIN persons p ON p.person_church_id = c.church_id
			AND p.person_is_active AND p.person_deleted_at IS NULL`).
		Where("c.church_parent_id = ?", churchID).
		Where("c.church_deleted_at IS NULL").
		Group("c.church_id").
		Find(&children).Error; err != nil {
		return nil, err
	}

	// (3) the church's own member count
	var ownMembers int64
	if err := a.DB.WithContext(ctx).
		Table("persons").
		Where("person_church_id = ?", churchID).
		Where("person_is_active AND person_deleted_at IS NULL").
		Count(&ownMembers).Error; err != nil {
		return nil, err
	}

	// (4) one aggregate query per tier of the hierarchy
	churchAgg, err := a.Attendance.AggregateByContexts(ctx, []uuid.UUID{churchID}, eventType, windowStart, windowEnd)
	if err != nil {
		return nil, err
	}
	groupAgg, err := a.Attendance.AggregateByContexts(ctx, contextIDs(groups), eventType, windowStart, windowEnd)
	if err != nil {
		return nil, err
	}
	childAgg, err := a.Attendance.AggregateByContexts(ctx, contextIDs(children), eventType, windowStart, windowEnd)
	if err != nil {
		return nil, err
	}

	// (5)+(6) derive rates and assemble the nested snapshot
	snap := buildSnapshot(churchID, eventType, ownMembers, churchAgg[churchID], windowStart, windowEnd)
	for _, g := range groups {
		snap.HomeGroups = append(snap.HomeGroups,
			buildSnapshot(g.ContextID, eventType, g.TotalPeople, groupAgg[g.ContextID], windowStart, windowEnd))
	}
	for _, c := range children {
		snap.ChildChurches = append(snap.ChildChurches,
			buildSnapshot(c.ContextID, eventType, c.TotalPeople, childAgg[c.ContextID], windowStart, windowEnd))
	}
	return &snap, nil
}

func (a *MetricsAggregator) HomeGroupSnapshot(
	ctx context.Context,
	homeGroupID uuid.UUID,
	eventType constants.EventType,
	windowStart, windowEnd time.Time,
) (*dto.AttendanceMetricsSnapshot, error) {
	var members int64
	if err := a.DB.WithContext(ctx).
		Table("persons").
		Where("person_home_group_id = ?", homeGroupID).
		Where("person_is_active AND person_deleted_at IS NULL").
		Count(&members).Error; err != nil {
		return nil, err
	}

	agg, err := a.Attendance.AggregateByContexts(ctx, []uuid.UUID{homeGroupID}, eventType, windowStart, windowEnd)
	if err != nil {
		return nil, err
	}

	snap := buildSnapshot(homeGroupID, eventType, members, agg[homeGroupID], windowStart, windowEnd)
	return &snap, nil
}

// buildSnapshot derives the rates with the zero-division guards the read
// surface promises: no people means 0% attendance / 100% absence, no
// meetings means a 0 average, never NaN.
func buildSnapshot(
	contextID uuid.UUID,
	eventType constants.EventType,
	totalPeople int64,
	agg attendancerepo.ContextAttendanceAggregate,
	windowStart, windowEnd time.Time,
) dto.AttendanceMetricsSnapshot {
	snap := dto.AttendanceMetricsSnapshot{
		ContextID:           contextID,
		EventType:           eventType,
		NewAttendees:        agg.NewAttendees,
		TotalPeople:         totalPeople,
		TotalPeopleAttended: agg.TotalPeopleAttended,
		TotalMeetings:       agg.TotalMeetings,
		WindowStart:         windowStart,
		WindowEnd:           windowEnd,
	}

	if totalPeople > 0 {
		snap.AttendanceRate = float64(agg.TotalPeopleAttended) / float64(totalPeople) * 100
	}
	snap.AbsenceRate = 100 - snap.AttendanceRate

	if agg.TotalMeetings > 0 {
		snap.AverageAttendancePerMeeting = float64(agg.TotalPeopleAttended) / float64(agg.TotalMeetings)
	}
	return snap
}

func contextIDs(rows []contextMembers) []uuid.UUID {
	ids := make([]uuid.UUID, 0, len(rows))
	for _, r := range rows {
		ids = append(ids, r.ContextID)
	}
	return ids
}
