package anchor

import (
	"anchor-sync/internal/common/api"
	"anchor-sync/internal/config"
	"anchor-sync/internal/middleware"

	"github.com/gofiber/fiber/v2"
)

type AnchorApi struct {
	controller *AnchorController
	config     *config.Config
	resolver   middleware.PasswordResolver
}

func NewAnchorApi(controller *AnchorController, config *config.Config, resolver middleware.PasswordResolver) api.Route {
	return &AnchorApi{
		controller: controller,
		config:     config,
		resolver:   resolver,
	}
}

// Setup registers all anchor routes
func (h *AnchorApi) Setup(app *fiber.App) {
	anchorGroup := app.Group("/api/anchors", middleware.AuthMiddleware(h.config.Password, h.config.SkipAuth, h.resolver))

	anchorGroup.Get("/", h.controller.AnchorNames)
	anchorGroup.Get("/list", h.controller.ListAnchors)
	anchorGroup.Get("/stats", h.controller.AnchorStats)
	anchorGroup.Post("/check-password", middleware.AdminMiddleware(), h.controller.CheckPassword)
	anchorGroup.Post("/", middleware.AdminMiddleware(), h.controller.CreateAnchor)
	anchorGroup.Get("/:anchorId", h.controller.GetAnchor)
	anchorGroup.Put("/:anchorId", middleware.AdminMiddleware(), h.controller.UpdateAnchor)
	anchorGroup.Delete("/:anchorId", middleware.AdminMiddleware(), h.controller.DeleteAnchor)
}
