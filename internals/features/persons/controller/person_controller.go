package controller

import (
	"errors"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	dto "ekklesia_backend/internals/features/persons/dto"
	model "ekklesia_backend/internals/features/persons/model"
	qualityService "ekklesia_backend/internals/features/quality/service"
	helper "ekklesia_backend/internals/helpers"
	"ekklesia_backend/internals/logger"
)

type PersonController struct {
	DB       *gorm.DB
	Producer *qualityService.RecalcProducer
	Validate *validator.Validate
}

func NewPersonController(db *gorm.DB, producer *qualityService.RecalcProducer) *PersonController {
	return &PersonController{DB: db, Producer: producer, Validate: validator.New()}
}

/* POST /api/a/persons */
func (h *PersonController) Create(c *fiber.Ctx) error {
	var req dto.CreatePersonRequest
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

	// after-commit: seed NOT_YET projections so the person shows up in
	// quality views before their first attendance lands
	if err := h.Producer.OnPersonCreated(
		c.UserContext(), m.PersonID, m.PersonChurchID, m.PersonHomeGroupID, m.PersonCreatedAt,
	); err != nil {
		logger.WithFields(logrus.Fields{"person_id": m.PersonID}).
			Warnf("quality projection seeding failed: %v", err)
	}

	return helper.SuccessWithCode(c, fiber.StatusCreated, "Person created", dto.FromModel(m))
}

/* GET /api/a/persons/:person_id */
func (h *PersonController) GetByID(c *fiber.Ctx) error {
	id, err := helper.ParseUUIDParam(c, "person_id")
	if err != nil {
		return err
	}

	var m model.PersonModel
	if err := h.DB.First(&m, "person_id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return helper.Error(c, fiber.StatusNotFound, "Person not found")
		}
		return fiber.NewError(fiber.StatusInternalServerError, err.Error())
	}
	return helper.Success(c, "OK", dto.FromModel(m))
}

/* GET /api/a/churches/:church_id/persons */
func (h *PersonController) ListByChurch(c *fiber.Ctx) error {
	churchID, err := helper.ParseUUIDParam(c, "church_id")
	if err != nil {
		return err
	}
	p := helper.ParsePage(c, 25, 200)

	var rows []model.PersonModel
	if err := h.DB.
		Where("person_church_id = ?", churchID).
		Order("person_full_name ASC").
		Limit(p.PerPage).Offset(p.Offset()).
		Find(&rows).Error; err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, err.Error())
	}

	out := make([]dto.PersonResponse, 0, len(rows))
	for _, m := range rows {
		out = append(out, dto.FromModel(m))
	}
	return helper.Success(c, "OK", out)
}

/* PATCH /api/a/persons/:person_id */
func (h *PersonController) Update(c *fiber.Ctx) error {
	id, err := helper.ParseUUIDParam(c, "person_id")
	if err != nil {
		return err
	}

	var req dto.UpdatePersonRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.Error(c, fiber.StatusBadRequest, "Invalid request body")
	}
	if err := h.Validate.Struct(req); err != nil {
		return helper.ValidationError(c, err)
	}

	var m model.PersonModel
	if err := h.DB.First(&m, "person_id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return helper.Error(c, fiber.StatusNotFound, "Person not found")
		}
		return fiber.NewError(fiber.StatusInternalServerError, err.Error())
	}

	req.Apply(&m)
	if err := h.DB.Save(&m).Error; err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, err.Error())
	}
	return helper.Success(c, "Person updated", dto.FromModel(m))
}

/* DELETE /api/a/persons/:person_id (soft) */
func (h *PersonController) Delete(c *fiber.Ctx) error {
	id, err := helper.ParseUUIDParam(c, "person_id")
	if err != nil {
		return err
	}

	res := h.DB.Delete(&model.PersonModel{}, "person_id = ?", id)
	if res.Error != nil {
		return fiber.NewError(fiber.StatusInternalServerError, res.Error.Error())
	}
	if res.RowsAffected == 0 {
		return helper.Error(c, fiber.StatusNotFound, "Person not found")
	}
	return helper.Success(c, "Person deleted", nil)
}
