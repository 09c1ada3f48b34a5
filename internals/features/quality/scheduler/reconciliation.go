package scheduler

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/robfig/cron/v3"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"ekklesia_backend/internals/constants"
	dto "ekklesia_backend/internals/features/quality/dto"
	"ekklesia_backend/internals/features/quality/queue"
)

// ReconciliationJob is the periodic sweep that re-enqueues recalculation
// for every active person. It exists because attendance quality decays with
// inactivity: a person who simply stops showing up generates no triggering
// event, so without the sweep their tier would stay frozen as the window
// slides past their last attendance. The job only enqueues recompute
// requests and never writes projections itself, so re-running it (or
// crashing mid-sweep) is harmless.
type ReconciliationJob struct {
	DB           *gorm.DB
	Bus          queue.Bus
	WindowMonths int
	BatchSize    int
	Log          *logrus.Logger
}

func NewReconciliationJob(db *gorm.DB, bus queue.Bus, windowMonths, batchSize int, log *logrus.Logger) *ReconciliationJob {
	if windowMonths < 1 {
		windowMonths = 3
	}
	if batchSize < 1 {
		batchSize = 200
	}
	return &ReconciliationJob{DB: db, Bus: bus, WindowMonths: windowMonths, BatchSize: batchSize, Log: log}
}

type personPage struct {
	PersonID    uuid.UUID  `gorm:"column:person_id"`
	ChurchID    uuid.UUID  `gorm:"column:person_church_id"`
	HomeGroupID *uuid.UUID `gorm:"column:person_home_group_id"`
}

// Run sweeps all active persons in keyset-paged batches and enqueues one
// request per person per context. Returns how many requests were published.
func (j *ReconciliationJob) Run(ctx context.Context) (int, error) {
	now := time.Now().UTC()
	windowStart := now.AddDate(0, -j.WindowMonths, 0)

	published := 0
	lastID := uuid.Nil
	for {
		var page []personPage
		err := j.DB.WithContext(ctx).
			Table("persons").
			Select("person_id, person_church_id, person_home_group_id").
			Where("person_id > ?", lastID).
			Where("person_is_active AND person_deleted_at IS NULL").
			Order("person_id ASC").
			Limit(j.BatchSize).
			Find(&page).Error
		if err != nil {
			return published, err
		}
		if len(page) == 0 {
			break
		}

		for _, p := range page {
			if err := j.Bus.Publish(ctx, dto.RecalculationRequest{
				PersonID:    p.PersonID,
				ContextID:   p.ChurchID,
				EventType:   constants.EventTypeTempleWorship,
				WindowStart: windowStart,
				WindowEnd:   now,
				RequestedAt: now,
			}); err != nil {
				return published, err
			}
			published++

			if p.HomeGroupID != nil {
				if err := j.Bus.Publish(ctx, dto.RecalculationRequest{
					PersonID:    p.PersonID,
					ContextID:   *p.HomeGroupID,
					EventType:   constants.EventTypeGroupMeeting,
					WindowStart: windowStart,
					WindowEnd:   now,
					RequestedAt: now,
				}); err != nil {
					return published, err
				}
				published++
			}
		}

		lastID = page[len(page)-1].PersonID
	}

	return published, nil
}

// StartReconciliationCron wires the sweep onto a cron schedule. Overlapping
// runs are skipped rather than stacked.
func StartReconciliationCron(job *ReconciliationJob, schedule string) *cron.Cron {
	c := cron.New(cron.WithChain(cron.SkipIfStillRunning(cron.DefaultLogger)))

	_, err := c.AddFunc(schedule, func() {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Minute)
		defer cancel()

		start := time.Now()
		n, err := job.Run(ctx)
		if err != nil {
			job.Log.WithFields(logrus.Fields{"published": n}).
				Errorf("reconciliation sweep failed: %v", err)
			return
		}
		job.Log.WithFields(logrus.Fields{
			"published": n,
			"took":      time.Since(start).String(),
		}).Info("reconciliation sweep finished")
	})
	if err != nil {
		job.Log.Fatalf("add reconciliation cron failed: %v", err)
	}

	job.Log.Infof("reconciliation cron started schedule=%q batch=%d window=%dmo",
		schedule, job.BatchSize, job.WindowMonths)
	c.Start()
	return c
}
