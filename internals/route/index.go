package routes

import (
	"log"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	attendanceRoute "ekklesia_backend/internals/features/attendance/route"
	churchRoute "ekklesia_backend/internals/features/churches/route"
	homeGroupRoute "ekklesia_backend/internals/features/homegroups/route"
	meetingRoute "ekklesia_backend/internals/features/meetings/route"
	metricsRoute "ekklesia_backend/internals/features/metrics/route"
	metricsService "ekklesia_backend/internals/features/metrics/service"
	personRoute "ekklesia_backend/internals/features/persons/route"
	qualityRepo "ekklesia_backend/internals/features/quality/repository"
	qualityRoute "ekklesia_backend/internals/features/quality/route"
	qualityService "ekklesia_backend/internals/features/quality/service"
)

// Deps carries the engine singletons the route tree needs; everything else
// is built per-feature from the DB handle.
type Deps struct {
	Producer     *qualityService.RecalcProducer
	Projections  *qualityRepo.ProjectionRepository
	MetricsCache *metricsService.MetricsCache
}

func SetupRoutes(app *fiber.App, db *gorm.DB, deps Deps) {
	// ===================== ADMIN =====================
	log.Println("[INFO] Setting up ADMIN group...")
	admin := app.Group("/api/a")

	churchRoute.ChurchRoutes(admin, db)
	homeGroupRoute.HomeGroupRoutes(admin, db)
	personRoute.PersonRoutes(admin, db, deps.Producer)
	meetingRoute.MeetingRoutes(admin, db)
	attendanceRoute.AttendanceRoutes(admin, db, deps.Producer)
	qualityRoute.QualityRoutes(admin, deps.Projections, deps.Producer)
	metricsRoute.MetricsRoutes(admin, deps.MetricsCache)
}
