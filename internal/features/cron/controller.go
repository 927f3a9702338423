package cron_feature

import (
	"github.com/gofiber/fiber/v2"
)

type CronController struct {
	service CronService
}

func NewCronController(service CronService) *CronController {
	return &CronController{service: service}
}

// GetStatus godoc
// @Summary      Scheduler status
// @Description  Schedule, next run and outcome of the last scheduled fleet sync
// @Tags         cron
// @Produce      json
// @Success      200 {object} SchedulerStatus
// @Router       /api/cron/status [get]
func (c *CronController) GetStatus(ctx *fiber.Ctx) error {
	return ctx.JSON(c.service.Status())
}
