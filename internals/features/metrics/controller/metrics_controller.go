package controller

import (
	"time"

	"github.com/gofiber/fiber/v2"

	"ekklesia_backend/internals/constants"
	service "ekklesia_backend/internals/features/metrics/service"
	helper "ekklesia_backend/internals/helpers"
)

type MetricsController struct {
	Cache *service.MetricsCache
}

func NewMetricsController(cache *service.MetricsCache) *MetricsController {
	return &MetricsController{Cache: cache}
}

/* GET /api/a/metrics/churches/:church_id/attendance?event_type=&start=&end= */
func (h *MetricsController) ChurchAttendance(c *fiber.Ctx) error {
	churchID, err := helper.ParseUUIDParam(c, "church_id")
	if err != nil {
		return err
	}
	eventType, windowStart, windowEnd, err := metricsQuery(c, constants.EventTypeTempleWorship)
	if err != nil {
		return err
	}

	snap, err := h.Cache.ChurchSnapshot(c.UserContext(), churchID, eventType, windowStart, windowEnd)
	if err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, err.Error())
	}
	return helper.Success(c, "OK", snap)
}

/* GET /api/a/metrics/home-groups/:home_group_id/attendance?event_type=&start=&end= */
func (h *MetricsController) HomeGroupAttendance(c *fiber.Ctx) error {
	homeGroupID, err := helper.ParseUUIDParam(c, "home_group_id")
	if err != nil {
		return err
	}
	eventType, windowStart, windowEnd, err := metricsQuery(c, constants.EventTypeGroupMeeting)
	if err != nil {
		return err
	}

	snap, err := h.Cache.HomeGroupSnapshot(c.UserContext(), homeGroupID, eventType, windowStart, windowEnd)
	if err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, err.Error())
	}
	return helper.Success(c, "OK", snap)
}

func metricsQuery(c *fiber.Ctx, defaultType constants.EventType) (constants.EventType, time.Time, time.Time, error) {
	eventType := defaultType
	if raw := c.Query("event_type"); raw != "" {
		eventType = constants.EventType(raw)
		if !eventType.Valid() {
			return "", time.Time{}, time.Time{}, fiber.NewError(fiber.StatusBadRequest, "invalid event_type")
		}
	}

	now := time.Now().UTC()
	windowEnd := helper.ParseTimeQuery(c, "end", now)
	windowStart := helper.ParseTimeQuery(c, "start", windowEnd.AddDate(0, -3, 0))
	if !windowStart.Before(windowEnd) {
		return "", time.Time{}, time.Time{}, fiber.NewError(fiber.StatusBadRequest, "start must be before end")
	}
	return eventType, windowStart, windowEnd, nil
}
