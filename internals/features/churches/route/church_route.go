package route

import (
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	controller "ekklesia_backend/internals/features/churches/controller"
)

func ChurchRoutes(admin fiber.Router, db *gorm.DB) {
	ctrl := controller.NewChurchController(db)

	g := admin.Group("/churches")
	g.Post("/", ctrl.Create)
	g.Get("/", ctrl.List)
	g.Get("/:church_id", ctrl.GetByID)
	g.Patch("/:church_id", ctrl.Update)
	g.Delete("/:church_id", ctrl.Delete)
}
