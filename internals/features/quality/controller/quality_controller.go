package controller

import (
	"time"

	"github.com/gofiber/fiber/v2"

	"ekklesia_backend/internals/constants"
	dto "ekklesia_backend/internals/features/quality/dto"
	repository "ekklesia_backend/internals/features/quality/repository"
	service "ekklesia_backend/internals/features/quality/service"
	helper "ekklesia_backend/internals/helpers"
)

type QualityController struct {
	Projections *repository.ProjectionRepository
	Producer    *service.RecalcProducer
}

func NewQualityController(projections *repository.ProjectionRepository, producer *service.RecalcProducer) *QualityController {
	return &QualityController{Projections: projections, Producer: producer}
}

/* GET /api/a/quality/contexts/:context_id/projections?event_type= */
func (h *QualityController) ListByContext(c *fiber.Ctx) error {
	contextID, err := helper.ParseUUIDParam(c, "context_id")
	if err != nil {
		return err
	}
	eventType := constants.EventType(c.Query("event_type", string(constants.EventTypeTempleWorship)))
	if !eventType.Valid() {
		return helper.Error(c, fiber.StatusBadRequest, "invalid event_type")
	}

	rows, err := h.Projections.ListByContext(c.UserContext(), contextID, eventType)
	if err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, err.Error())
	}

	out := make([]dto.QualityProjectionResponse, 0, len(rows))
	for _, m := range rows {
		out = append(out, dto.FromProjectionModel(m))
	}
	return helper.Success(c, "OK", out)
}

/* POST /api/a/quality/contexts/:context_id/recalculate?event_type=

Batch variant: fans out one recalculation request per active person in the
context. Meant for after bulk attendance imports; results land
asynchronously. */
func (h *QualityController) RecalculateContext(c *fiber.Ctx) error {
	contextID, err := helper.ParseUUIDParam(c, "context_id")
	if err != nil {
		return err
	}
	eventType := constants.EventType(c.Query("event_type", string(constants.EventTypeTempleWorship)))
	if !eventType.Valid() {
		return helper.Error(c, fiber.StatusBadRequest, "invalid event_type")
	}

	n, err := h.Producer.FanOutContext(c.UserContext(), contextID, eventType, time.Now().UTC())
	if err != nil {
		// partial fan-out is tolerated: already-published messages will
		// still be consumed, the rest stay stale until the next trigger
		return helper.ErrorWithDetails(c, fiber.StatusInternalServerError,
			"Fan-out incomplete", fiber.Map{"published": n, "error": err.Error()})
	}

	return helper.SuccessWithCode(c, fiber.StatusAccepted, "Recalculation enqueued", fiber.Map{
		"published": n,
	})
}
