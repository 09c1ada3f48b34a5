package route

import (
	"github.com/gofiber/fiber/v2"

	controller "ekklesia_backend/internals/features/metrics/controller"
	service "ekklesia_backend/internals/features/metrics/service"
)

func MetricsRoutes(admin fiber.Router, cache *service.MetricsCache) {
	ctrl := controller.NewMetricsController(cache)

	admin.Get("/metrics/churches/:church_id/attendance", ctrl.ChurchAttendance)
	admin.Get("/metrics/home-groups/:home_group_id/attendance", ctrl.HomeGroupAttendance)
}
