package sync

import (
	"anchor-sync/internal/common/api"
	"anchor-sync/internal/config"
	"anchor-sync/internal/middleware"

	"github.com/gofiber/fiber/v2"
)

type SyncApi struct {
	controller *SyncController
	config     *config.Config
	resolver   middleware.PasswordResolver
}

func NewSyncApi(controller *SyncController, config *config.Config, resolver middleware.PasswordResolver) api.Route {
	return &SyncApi{
		controller: controller,
		config:     config,
		resolver:   resolver,
	}
}

// Setup registers the sync triggers and the sync log routes
func (h *SyncApi) Setup(app *fiber.App) {
	app.Get("/trigger", h.controller.Trigger)
	app.Post("/sync-anchor", h.controller.SyncAnchor)

	auth := middleware.AuthMiddleware(h.config.Password, h.config.SkipAuth, h.resolver)
	app.Get("/api/sync-logs", auth, h.controller.ListLogs)
	app.Get("/api/anchor-latest-sync", auth, h.controller.LatestSync)
}
