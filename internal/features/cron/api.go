package cron_feature

import (
	"anchor-sync/internal/common/api"
	"anchor-sync/internal/config"
	"anchor-sync/internal/middleware"

	"github.com/gofiber/fiber/v2"
)

type CronApi struct {
	cronController *CronController
	config         *config.Config
}

func NewCronApi(cronController *CronController, config *config.Config) api.Route {
	return &CronApi{
		cronController: cronController,
		config:         config,
	}
}

func (h *CronApi) Setup(app *fiber.App) {
	cronGroup := app.Group("/api/cron", middleware.AuthMiddleware(h.config.Password, h.config.SkipAuth, nil), middleware.AdminMiddleware())

	cronGroup.Get("/status", h.cronController.GetStatus)
}
