package route

import (
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	controller "ekklesia_backend/internals/features/homegroups/controller"
)

func HomeGroupRoutes(admin fiber.Router, db *gorm.DB) {
	ctrl := controller.NewHomeGroupController(db)

	admin.Post("/home-groups", ctrl.Create)
	admin.Get("/churches/:church_id/home-groups", ctrl.ListByChurch)
	admin.Patch("/home-groups/:home_group_id", ctrl.Update)
	admin.Delete("/home-groups/:home_group_id", ctrl.Delete)
}
