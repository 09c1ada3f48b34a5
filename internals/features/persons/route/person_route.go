package route

import (
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	controller "ekklesia_backend/internals/features/persons/controller"
	qualityService "ekklesia_backend/internals/features/quality/service"
)

func PersonRoutes(admin fiber.Router, db *gorm.DB, producer *qualityService.RecalcProducer) {
	ctrl := controller.NewPersonController(db, producer)

	admin.Post("/persons", ctrl.Create)
	admin.Get("/persons/:person_id", ctrl.GetByID)
	admin.Get("/churches/:church_id/persons", ctrl.ListByChurch)
	admin.Patch("/persons/:person_id", ctrl.Update)
	admin.Delete("/persons/:person_id", ctrl.Delete)
}
