package report

import (
	"anchor-sync/internal/common/api"
	"anchor-sync/internal/config"
	"anchor-sync/internal/middleware"

	"github.com/gofiber/fiber/v2"
)

type ReportApi struct {
	controller *ReportController
	config     *config.Config
	resolver   middleware.PasswordResolver
}

func NewReportApi(controller *ReportController, config *config.Config, resolver middleware.PasswordResolver) api.Route {
	return &ReportApi{
		controller: controller,
		config:     config,
		resolver:   resolver,
	}
}

// Setup registers all report routes
func (h *ReportApi) Setup(app *fiber.App) {
	reportGroup := app.Group("/api/reports", middleware.AuthMiddleware(h.config.Password, h.config.SkipAuth, h.resolver))

	reportGroup.Get("/", h.controller.List)
	reportGroup.Get("/export", h.controller.ExportExcel)
}
