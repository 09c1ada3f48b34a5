package controller

import (
	"errors"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"ekklesia_backend/internals/constants"
	dto "ekklesia_backend/internals/features/attendance/dto"
	model "ekklesia_backend/internals/features/attendance/model"
	meetingModel "ekklesia_backend/internals/features/meetings/model"
	qualityService "ekklesia_backend/internals/features/quality/service"
	helper "ekklesia_backend/internals/helpers"
	"ekklesia_backend/internals/logger"
)

type AttendanceController struct {
	DB       *gorm.DB
	Producer *qualityService.RecalcProducer
	Validate *validator.Validate
}

func NewAttendanceController(db *gorm.DB, producer *qualityService.RecalcProducer) *AttendanceController {
	return &AttendanceController{DB: db, Producer: producer, Validate: validator.New()}
}

/* POST /api/a/attendance/toggle

Toggle contract: create-if-absent / delete-if-present for the
(person, meeting, event_type) key. Marking twice removes the record
rather than flipping a status field.
TODO(attendance-rework): owners are deciding whether a second mark should
flip status instead of deleting; keep the toggle until that lands. */
func (h *AttendanceController) Toggle(c *fiber.Ctx) error {
	var req dto.ToggleAttendanceRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.Error(c, fiber.StatusBadRequest, "Invalid request body")
	}
	if err := h.Validate.Struct(req); err != nil {
		return helper.ValidationError(c, err)
	}

	var (
		meeting meetingModel.MeetingModel
		record  model.AttendanceRecordModel
		marked  bool
	)

	err := h.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&meeting, "meeting_id = ?", req.AttendanceRecordMeetingID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return fiber.NewError(fiber.StatusNotFound, "Meeting not found")
			}
			return err
		}

		err := tx.
			Where("attendance_record_person_id = ?", req.AttendanceRecordPersonID).
			Where("attendance_record_meeting_id = ?", req.AttendanceRecordMeetingID).
			Where("attendance_record_event_type = ?", meeting.MeetingEventType).
			Take(&record).Error
		switch {
		case err == nil:
			// present -> toggle off
			marked = false
			return tx.Delete(&record).Error
		case errors.Is(err, gorm.ErrRecordNotFound):
			marked = true
			record = model.AttendanceRecordModel{
				AttendanceRecordPersonID:      req.AttendanceRecordPersonID,
				AttendanceRecordMeetingID:     req.AttendanceRecordMeetingID,
				AttendanceRecordEventType:     meeting.MeetingEventType,
				AttendanceRecordStatus:        constants.AttendancePresent,
				AttendanceRecordIsNewAttendee: req.AttendanceRecordIsNewAttendee,
			}
			return tx.Create(&record).Error
		default:
			return err
		}
	})
	if err != nil {
		var fe *fiber.Error
		if errors.As(err, &fe) {
			return helper.Error(c, fe.Code, fe.Message)
		}
		return fiber.NewError(fiber.StatusInternalServerError, err.Error())
	}

	// dispatch only after the transaction committed; a failed publish means
	// the tier goes stale until the next event, never that it goes wrong
	asOf := time.Now().UTC()
	if err := h.Producer.OnAttendanceChanged(
		c.UserContext(),
		req.AttendanceRecordMeetingID,
		req.AttendanceRecordPersonID,
		meeting.MeetingEventType,
		asOf,
	); err != nil {
		logger.WithFields(logrus.Fields{
			"person_id":  req.AttendanceRecordPersonID,
			"meeting_id": req.AttendanceRecordMeetingID,
		}).Warnf("recalculation publish failed: %v", err)
	}

	resp := dto.ToggleAttendanceResponse{Marked: marked}
	if marked {
		r := dto.FromModel(record)
		resp.Record = &r
	}
	return helper.Success(c, "Attendance toggled", resp)
}

/* GET /api/a/meetings/:meeting_id/attendance */
func (h *AttendanceController) ListByMeeting(c *fiber.Ctx) error {
	meetingID, err := helper.ParseUUIDParam(c, "meeting_id")
	if err != nil {
		return err
	}

	var rows []model.AttendanceRecordModel
	if err := h.DB.
		Where("attendance_record_meeting_id = ?", meetingID).
		Order("attendance_record_created_at ASC").
		Find(&rows).Error; err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, err.Error())
	}

	out := make([]dto.AttendanceRecordResponse, 0, len(rows))
	for _, m := range rows {
		out = append(out, dto.FromModel(m))
	}
	return helper.Success(c, "OK", out)
}
