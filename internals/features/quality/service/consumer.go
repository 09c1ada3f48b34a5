package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"ekklesia_backend/internals/constants"
	"ekklesia_backend/internals/features/quality/classifier"
	dto "ekklesia_backend/internals/features/quality/dto"
	model "ekklesia_backend/internals/features/quality/model"
)

// AttendanceSource is the slice of the attendance store the consumer needs.
type AttendanceSource interface {
	PersonExists(ctx context.Context, personID uuid.UUID) (bool, error)
	Percentage(ctx context.Context, personID uuid.UUID, eventType constants.EventType, windowEnd, windowStart time.Time) (float64, error)
}

// ProjectionStore persists quality projections with the monotonic guard.
type ProjectionStore interface {
	Find(ctx context.Context, personID, contextID uuid.UUID, eventType constants.EventType) (*model.QualityProjectionModel, error)
	UpsertIfNewer(ctx context.Context, p *model.QualityProjectionModel) (bool, error)
}

// RecalcConsumer processes recalculation requests from the bus. It is fully
// idempotent: replaying a request converges on the same projection state,
// and the computed-as-of guard in the store rejects out-of-order writes, so
// no ordering is required from the bus. A failed write surfaces as a handler
// error and rides the bus's redelivery; a redelivered message whose write
// already landed short-circuits on the tier comparison, which together give
// the write-and-ack-or-neither behavior the pipeline needs.
type RecalcConsumer struct {
	Attendance  AttendanceSource
	Projections ProjectionStore
	Classifier  *classifier.Classifier
	Log         *logrus.Logger
}

func NewRecalcConsumer(
	attendance AttendanceSource,
	projections ProjectionStore,
	cls *classifier.Classifier,
	log *logrus.Logger,
) *RecalcConsumer {
	return &RecalcConsumer{
		Attendance:  attendance,
		Projections: projections,
		Classifier:  cls,
		Log:         log,
	}
}

// Handle implements queue.Handler.
func (s *RecalcConsumer) Handle(ctx context.Context, req dto.RecalculationRequest) error {
	// (1) the person must exist; a missing person fails the message so the
	// bus redelivers / dead-letters it instead of silently dropping
	exists, err := s.Attendance.PersonExists(ctx, req.PersonID)
	if err != nil {
		return fmt.Errorf("resolve person: %w", err)
	}
	if !exists {
		return fmt.Errorf("person %s not found: %w", req.PersonID, gorm.ErrRecordNotFound)
	}

	// (2) rolling-window percentage
	percentage, err := s.Attendance.Percentage(ctx, req.PersonID, req.EventType, req.WindowEnd, req.WindowStart)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fmt.Errorf("person %s vanished mid-recalc: %w", req.PersonID, err)
		}
		return fmt.Errorf("attendance percentage: %w", err)
	}

	// (3) classify
	newTier := s.Classifier.Classify(percentage)

	// monitoring contract: these fields feed the alerting consumers
	fields := logrus.Fields{
		"person_id":  req.PersonID,
		"context_id": req.ContextID,
		"event_type": req.EventType,
		"new_tier":   newTier,
		"percentage": percentage,
	}

	// (4) current projection, if any
	existing, err := s.Projections.Find(ctx, req.PersonID, req.ContextID, req.EventType)
	if err != nil {
		return fmt.Errorf("load projection: %w", err)
	}

	oldTier := model.QualityTierCode("")
	if existing != nil {
		oldTier = existing.QualityProjectionTierCode
	}
	fields["old_tier"] = oldTier

	// (5) idempotency guard: unchanged tier means no write and no
	// downstream churn, which matters under redelivery storms
	if existing != nil && existing.QualityProjectionTierCode == newTier {
		fields["skipped"] = true
		s.Log.WithFields(fields).Info("quality recalculation skipped (tier unchanged)")
		return nil
	}

	// (6) guarded upsert; a stale as-of is dropped inside the statement
	proj := &model.QualityProjectionModel{
		QualityProjectionPersonID:     req.PersonID,
		QualityProjectionContextID:    req.ContextID,
		QualityProjectionEventType:    req.EventType,
		QualityProjectionTierCode:     newTier,
		QualityProjectionComputedAsOf: req.RequestedAt,
	}
	applied, err := s.Projections.UpsertIfNewer(ctx, proj)
	if err != nil {
		return fmt.Errorf("upsert projection: %w", err)
	}
	if !applied {
		// a newer computation already landed; not an error
		fields["skipped"] = true
		s.Log.WithFields(fields).Debug("quality recalculation dropped (stale computed-as-of)")
		return nil
	}

	fields["skipped"] = false
	s.Log.WithFields(fields).Info("quality projection updated")
	return nil
}
