package controller

import (
	"errors"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	dto "ekklesia_backend/internals/features/meetings/dto"
	model "ekklesia_backend/internals/features/meetings/model"
	helper "ekklesia_backend/internals/helpers"
)

type MeetingController struct {
	DB       *gorm.DB
	Validate *validator.Validate
}

func NewMeetingController(db *gorm.DB) *MeetingController {
	return &MeetingController{DB: db, Validate: validator.New()}
}

/* POST /api/a/meetings */
func (h *MeetingController) Create(c *fiber.Ctx) error {
	var req dto.CreateMeetingRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.Error(c, fiber.StatusBadRequest, "Invalid request body")
	}
	if err := h.Validate.Struct(req); err != nil {
		return helper.ValidationError(c, err)
	}

	m := req.ToModel()
	if err := h.DB.Create(&m).Error; err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, err.Error())
	}
	return helper.SuccessWithCode(c, fiber.StatusCreated, "Meeting created", dto.FromModel(m))
}

/* GET /api/a/meetings/:meeting_id */
func (h *MeetingController) GetByID(c *fiber.Ctx) error {
	id, err := helper.ParseUUIDParam(c, "meeting_id")
	if err != nil {
		return err
	}

	var m model.MeetingModel
	if err := h.DB.First(&m, "meeting_id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return helper.Error(c, fiber.StatusNotFound, "Meeting not found")
		}
		return fiber.NewError(fiber.StatusInternalServerError, err.Error())
	}
	return helper.Success(c, "OK", dto.FromModel(m))
}

/* GET /api/a/contexts/:context_id/meetings?event_type=&start=&end= */
func (h *MeetingController) ListByContext(c *fiber.Ctx) error {
	contextID, err := helper.ParseUUIDParam(c, "context_id")
	if err != nil {
		return err
	}
	p := helper.ParsePage(c, 25, 200)

	q := h.DB.Where("meeting_context_id = ?", contextID)
	if et := c.Query("event_type"); et != "" {
		q = q.Where("meeting_event_type = ?", et)
	}
	start := helper.ParseTimeQuery(c, "start", time.Time{})
	if !start.IsZero() {
		q = q.Where("meeting_starts_at > ?", start)
	}
	end := helper.ParseTimeQuery(c, "end", time.Time{})
	if !end.IsZero() {
		q = q.Where("meeting_starts_at <= ?", end)
	}

	var rows []model.MeetingModel
	if err := q.
		Order("meeting_starts_at DESC").
		Limit(p.PerPage).Offset(p.Offset()).
		Find(&rows).Error; err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, err.Error())
	}

	out := make([]dto.MeetingResponse, 0, len(rows))
	for _, m := range rows {
		out = append(out, dto.FromModel(m))
	}
	return helper.Success(c, "OK", out)
}
