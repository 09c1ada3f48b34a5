package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"ekklesia_backend/internals/constants"
	dto "ekklesia_backend/internals/features/quality/dto"
	"ekklesia_backend/internals/features/quality/queue"
	repository "ekklesia_backend/internals/features/quality/repository"
	"ekklesia_backend/internals/logger"
)

// RecalcProducer reacts to attendance-affecting domain events. Callers must
// dispatch only after the originating transaction commits; a rolled-back
// attendance write must never trigger a recalculation.
type RecalcProducer struct {
	DB           *gorm.DB
	Bus          queue.Bus
	Projections  *repository.ProjectionRepository
	WindowMonths int
}

func NewRecalcProducer(db *gorm.DB, bus queue.Bus, projections *repository.ProjectionRepository, windowMonths int) *RecalcProducer {
	if windowMonths < 1 {
		windowMonths = 3
	}
	return &RecalcProducer{DB: db, Bus: bus, Projections: projections, WindowMonths: windowMonths}
}

// Window returns the rolling (start, end] bounds ending at asOf.
func (p *RecalcProducer) Window(asOf time.Time) (time.Time, time.Time) {
	return asOf.AddDate(0, -p.WindowMonths, 0), asOf
}

// OnAttendanceChanged publishes one recalculation request for the person
// whose attendance at the meeting was toggled.
func (p *RecalcProducer) OnAttendanceChanged(
	ctx context.Context,
	meetingID, personID uuid.UUID,
	eventType constants.EventType,
	asOf time.Time,
) error {
	var row struct {
		ContextID uuid.UUID `gorm:"column:meeting_context_id"`
	}
	if err := p.DB.WithContext(ctx).
		Table("meetings").
		Select("meeting_context_id").
		Where("meeting_id = ?", meetingID).
		Take(&row).Error; err != nil {
		return fmt.Errorf("resolve meeting context: %w", err)
	}

	start, end := p.Window(asOf)
	return p.Bus.Publish(ctx, dto.RecalculationRequest{
		PersonID:    personID,
		ContextID:   row.ContextID,
		EventType:   eventType,
		WindowStart: start,
		WindowEnd:   end,
		RequestedAt: asOf,
	})
}

// FanOutContext enqueues one request per active person in the context (the
// batch variant, e.g. after a bulk attendance import). Each message is
// queued independently; a crash mid-loop leaves some persons stale until
// the next triggering event, which is the accepted failure mode.
func (p *RecalcProducer) FanOutContext(
	ctx context.Context,
	contextID uuid.UUID,
	eventType constants.EventType,
	asOf time.Time,
) (int, error) {
	col := "person_home_group_id"
	if eventType == constants.EventTypeTempleWorship {
		col = "person_church_id"
	}

	var personIDs []uuid.UUID
	if err := p.DB.WithContext(ctx).
		Table("persons").
		Where(col+" = ?", contextID).
		Where("person_is_active AND person_deleted_at IS NULL").
		Pluck("person_id", &personIDs).Error; err != nil {
		return 0, err
	}

	start, end := p.Window(asOf)
	published := 0
	for _, personID := range personIDs {
		err := p.Bus.Publish(ctx, dto.RecalculationRequest{
			PersonID:    personID,
			ContextID:   contextID,
			EventType:   eventType,
			WindowStart: start,
			WindowEnd:   end,
			RequestedAt: asOf,
		})
		if err != nil {
			return published, fmt.Errorf("fan-out publish after %d of %d: %w", published, len(personIDs), err)
		}
		published++
	}
	return published, nil
}

// OnPersonCreated seeds NOT_YET projections synchronously. There is nothing
// to compute for a brand-new person, so this path bypasses the queue.
func (p *RecalcProducer) OnPersonCreated(
	ctx context.Context,
	personID, churchID uuid.UUID,
	homeGroupID *uuid.UUID,
	createdAt time.Time,
) error {
	if err := p.Projections.SeedNotYet(ctx, personID, churchID, constants.EventTypeTempleWorship, createdAt); err != nil {
		return err
	}
	if homeGroupID != nil {
		if err := p.Projections.SeedNotYet(ctx, personID, *homeGroupID, constants.EventTypeGroupMeeting, createdAt); err != nil {
			return err
		}
	}

	logger.WithFields(logrus.Fields{
		"person_id": personID,
		"church_id": churchID,
	}).Debug("seeded NOT_YET quality projections")
	return nil
}
