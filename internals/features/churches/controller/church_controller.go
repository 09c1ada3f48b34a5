package controller

import (
	"errors"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/lib/pq"
	"gorm.io/gorm"

	dto "ekklesia_backend/internals/features/churches/dto"
	model "ekklesia_backend/internals/features/churches/model"
	helper "ekklesia_backend/internals/helpers"
)

type ChurchController struct {
	DB       *gorm.DB
	Validate *validator.Validate
}

func NewChurchController(db *gorm.DB) *ChurchController {
	return &ChurchController{DB: db, Validate: validator.New()}
}

/* POST /api/a/churches */
func (h *ChurchController) Create(c *fiber.Ctx) error {
	var req dto.CreateChurchRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.Error(c, fiber.StatusBadRequest, "Invalid request body")
	}
	if err := h.Validate.Struct(req); err != nil {
		return helper.ValidationError(c, err)
	}

	m := req.ToModel()
	if err := h.DB.Create(&m).Error; err != nil {
		if isUniqueViolation(err) {
			return helper.Error(c, fiber.StatusConflict, "Church slug already in use")
		}
		return fiber.NewError(fiber.StatusInternalServerError, err.Error())
	}

	return helper.SuccessWithCode(c, fiber.StatusCreated, "Church created", dto.FromModel(m))
}

/* GET /api/a/churches/:church_id */
func (h *ChurchController) GetByID(c *fiber.Ctx) error {
	id, err := helper.ParseUUIDParam(c, "church_id")
	if err != nil {
		return err
	}

	var m model.ChurchModel
	if err := h.DB.First(&m, "church_id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return helper.Error(c, fiber.StatusNotFound, "Church not found")
		}
		return fiber.NewError(fiber.StatusInternalServerError, err.Error())
	}

	return helper.Success(c, "OK", dto.FromModel(m))
}

/* GET /api/a/churches?page=&per_page= */
func (h *ChurchController) List(c *fiber.Ctx) error {
	p := helper.ParsePage(c, 25, 200)

	var rows []model.ChurchModel
	if err := h.DB.
		Order("church_created_at DESC").
		Limit(p.PerPage).Offset(p.Offset()).
		Find(&rows).Error; err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, err.Error())
	}

	out := make([]dto.ChurchResponse, 0, len(rows))
	for _, m := range rows {
		out = append(out, dto.FromModel(m))
	}
	return helper.Success(c, "OK", out)
}

/* PATCH /api/a/churches/:church_id */
func (h *ChurchController) Update(c *fiber.Ctx) error {
	id, err := helper.ParseUUIDParam(c, "church_id")
	if err != nil {
		return err
	}

	var req dto.UpdateChurchRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.Error(c, fiber.StatusBadRequest, "Invalid request body")
	}
	if err := h.Validate.Struct(req); err != nil {
		return helper.ValidationError(c, err)
	}

	var m model.ChurchModel
	if err := h.DB.First(&m, "church_id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return helper.Error(c, fiber.StatusNotFound, "Church not found")
		}
		return fiber.NewError(fiber.StatusInternalServerError, err.Error())
	}

	req.Apply(&m)
	if err := h.DB.Save(&m).Error; err != nil {
		if isUniqueViolation(err) {
			return helper.Error(c, fiber.StatusConflict, "Church slug already in use")
		}
		return fiber.NewError(fiber.StatusInternalServerError, err.Error())
	}

	return helper.Success(c, "Church updated", dto.FromModel(m))
}

/* DELETE /api/a/churches/:church_id (soft) */
func (h *ChurchController) Delete(c *fiber.Ctx) error {
	id, err := helper.ParseUUIDParam(c, "church_id")
	if err != nil {
		return err
	}

	res := h.DB.Delete(&model.ChurchModel{}, "church_id = ?", id)
	if res.Error != nil {
		return fiber.NewError(fiber.StatusInternalServerError, res.Error.Error())
	}
	if res.RowsAffected == 0 {
		return helper.Error(c, fiber.StatusNotFound, "Church not found")
	}

	return helper.Success(c, "Church deleted", nil)
}

// isUniqueViolation recognizes Postgres error 23505 from either driver:
// pgx is the default, lib/pq shows up when DATABASE_DSN targets it.
func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == "23505"
	}
	var pqErr *pq.Error
	return errors.As(err, &pqErr) && pqErr.Code == "23505"
}
