package route

import (
	"github.com/gofiber/fiber/v2"

	controller "ekklesia_backend/internals/features/quality/controller"
	repository "ekklesia_backend/internals/features/quality/repository"
	service "ekklesia_backend/internals/features/quality/service"
)

func QualityRoutes(admin fiber.Router, projections *repository.ProjectionRepository, producer *service.RecalcProducer) {
	ctrl := controller.NewQualityController(projections, producer)

	admin.Get("/quality/contexts/:context_id/projections", ctrl.ListByContext)
	admin.Post("/quality/contexts/:context_id/recalculate", ctrl.RecalculateContext)
}
