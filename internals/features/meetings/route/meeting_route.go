package route

import (
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	controller "ekklesia_backend/internals/features/meetings/controller"
)

func MeetingRoutes(admin fiber.Router, db *gorm.DB) {
	ctrl := controller.NewMeetingController(db)

	admin.Post("/meetings", ctrl.Create)
	admin.Get("/meetings/:meeting_id", ctrl.GetByID)
	admin.Get("/contexts/:context_id/meetings", ctrl.ListByContext)
}
