package system

import (
	"time"

	"anchor-sync/internal/common/api"

	"github.com/gofiber/fiber/v2"
)

type HealthApi struct {
	startedAt time.Time
}

func NewHealthApi() api.Route {
	return &HealthApi{startedAt: time.Now()}
}

// Setup registers health check route
func (h *HealthApi) Setup(app *fiber.App) {
	app.Get("/health", h.HealthCheck)
}

// HealthCheck godoc
// @Summary      Health Check
// @Description  Check if the server is up
// @Tags         health
// @Produce      json
// @Success      200  {object}  map[string]interface{}
// @Router       /health [get]
func (h *HealthApi) HealthCheck(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"status":    "ok",
		"timestamp": time.Now().UTC().Format(time.RFC3339),
		"uptime":    time.Since(h.startedAt).Seconds(),
	})
}
