package order

import (
	"anchor-sync/internal/common/api"
	"anchor-sync/internal/config"
	"anchor-sync/internal/middleware"

	"github.com/gofiber/fiber/v2"
)

type OrderApi struct {
	controller *OrderController
	config     *config.Config
	resolver   middleware.PasswordResolver
}

func NewOrderApi(controller *OrderController, config *config.Config, resolver middleware.PasswordResolver) api.Route {
	return &OrderApi{
		controller: controller,
		config:     config,
		resolver:   resolver,
	}
}

// Setup registers all order routes
func (h *OrderApi) Setup(app *fiber.App) {
	auth := middleware.AuthMiddleware(h.config.Password, h.config.SkipAuth, h.resolver)

	apiGroup := app.Group("/api", auth)
	apiGroup.Get("/orders", h.controller.ListOrders)
	apiGroup.Get("/stats", h.controller.OrderStats)
	apiGroup.Get("/export", h.controller.ExportOrders)
	apiGroup.Get("/sellers", h.controller.ListSellers)
	apiGroup.Delete("/orders/:bizOrderId", middleware.AdminMiddleware(), h.controller.DeleteOrder)
}
