package route

import (
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	controller "ekklesia_backend/internals/features/attendance/controller"
	qualityService "ekklesia_backend/internals/features/quality/service"
)

func AttendanceRoutes(admin fiber.Router, db *gorm.DB, producer *qualityService.RecalcProducer) {
	ctrl := controller.NewAttendanceController(db, producer)

	admin.Post("/attendance/toggle", ctrl.Toggle)
	admin.Get("/meetings/:meeting_id/attendance", ctrl.ListByMeeting)
}
