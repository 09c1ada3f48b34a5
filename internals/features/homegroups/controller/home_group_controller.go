package controller

import (
	"errors"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	dto "ekklesia_backend/internals/features/homegroups/dto"
	model "ekklesia_backend/internals/features/homegroups/model"
	helper "ekklesia_backend/internals/helpers"
)

type HomeGroupController struct {
	DB       *gorm.DB
	Validate *validator.Validate
}

func NewHomeGroupController(db *gorm.DB) *HomeGroupController {
	return &HomeGroupController{DB: db, Validate: validator.New()}
}

/* POST /api/a/home-groups */
func (h *HomeGroupController) Create(c *fiber.Ctx) error {
	var req dto.CreateHomeGroupRequest
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
	return helper.SuccessWithCode(c, fiber.StatusCreated, "Home group created", dto.FromModel(m))
}

/* GET /api/a/churches/:church_id/home-groups */
func (h *HomeGroupController) ListByChurch(c *fiber.Ctx) error {
	churchID, err := helper.ParseUUIDParam(c, "church_id")
	if err != nil {
		return err
	}

	var rows []model.HomeGroupModel
	if err := h.DB.
		Where("home_group_church_id = ?", churchID).
		Order("home_group_name ASC").
		Find(&rows).Error; err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, err.Error())
	}

	out := make([]dto.HomeGroupResponse, 0, len(rows))
	for _, m := range rows {
		out = append(out, dto.FromModel(m))
	}
	return helper.Success(c, "OK", out)
}

/* PATCH /api/a/home-groups/:home_group_id */
func (h *HomeGroupController) Update(c *fiber.Ctx) error {
	id, err := helper.ParseUUIDParam(c, "home_group_id")
	if err != nil {
		return err
	}

	var req dto.UpdateHomeGroupRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.Error(c, fiber.StatusBadRequest, "Invalid request body")
	}
	if err := h.Validate.Struct(req); err != nil {
		return helper.ValidationError(c, err)
	}

	var m model.HomeGroupModel
	if err := h.DB.First(&m, "home_group_id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return helper.Error(c, fiber.StatusNotFound, "Home group not found")
		}
		return fiber.NewError(fiber.StatusInternalServerError, err.Error())
	}

	req.Apply(&m)
	if err := h.DB.Save(&m).Error; err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, err.Error())
	}
	return helper.Success(c, "Home group updated", dto.FromModel(m))
}

/* DELETE /api/a/home-groups/:home_group_id (soft) */
func (h *HomeGroupController) Delete(c *fiber.Ctx) error {
	id, err := helper.ParseUUIDParam(c, "home_group_id")
	if err != nil {
		return err
	}

	res := h.DB.Delete(&model.HomeGroupModel{}, "home_group_id = ?", id)
	if res.Error != nil {
		return fiber.NewError(fiber.StatusInternalServerError, res.Error.Error())
	}
	if res.RowsAffected == 0 {
		return helper.Error(c, fiber.StatusNotFound, "Home group not found")
	}
	return helper.Success(c, "Home group deleted", nil)
}
