package sync

import (
	"errors"

	common_api "anchor-sync/internal/common/api"
	common_models "anchor-sync/internal/common/models"
	"anchor-sync/internal/middleware"

	"github.com/gofiber/fiber/v2"
)

type SyncController struct {
	Service SyncService
}

func NewSyncController(service SyncService) *SyncController {
	return &SyncController{
		Service: service,
	}
}

// Trigger godoc
// @Summary      Run a fleet sync now
// @Description  Syncs every active anchor and waits for the run to finish
// @Tags         sync
// @Produce      json
// @Success      200 {object} map[string]interface{}
// @Router       /trigger [get]
func (ctrl *SyncController) Trigger(c *fiber.Ctx) error {
	summary := ctrl.Service.RunFleetSync(c.UserContext())

	message := "fleet sync completed"
	if summary.Skipped {
		message = "fleet sync already running, skipped"
	}
	return c.JSON(fiber.Map{
		"success": true,
		"message": message,
		"data":    summary,
	})
}

// SyncAnchor godoc
// @Summary      Sync one anchor
// @Tags         sync
// @Accept       json
// @Produce      json
// @Param        request body SyncRequest true "Anchor and optional time range"
// @Success      200 {object} SyncResponse
// @Failure      400 {object} SyncResponse
// @Router       /sync-anchor [post]
func (ctrl *SyncController) SyncAnchor(c *fiber.Ctx) error {
	var req SyncRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(SyncResponse{
			Success: false,
			Error:   "Invalid request body",
		})
	}
	if req.AnchorID == "" {
		return c.Status(fiber.StatusBadRequest).JSON(SyncResponse{
			Success: false,
			Error:   ErrAnchorIDRequired.Error(),
		})
	}

	resp := ctrl.Service.SyncOneAccount(c.UserContext(), req)
	switch {
	case resp.Success:
		return c.JSON(resp)
	case resp.Error == ErrAnchorNotFound.Error():
		return c.Status(fiber.StatusNotFound).JSON(resp)
	case resp.Data == nil:
		return c.Status(fiber.StatusBadRequest).JSON(resp)
	default:
		// the sync ran; the failure is in the payload
		return c.JSON(resp)
	}
}

// ListLogs godoc
// @Summary      List sync logs
// @Tags         sync
// @Produce      json
// @Param        page query int false "Page"
// @Param        limit query int false "Limit"
// @Param        anchorId query string false "Anchor id"
// @Param        status query string false "success or failure"
// @Router       /api/sync-logs [get]
func (ctrl *SyncController) ListLogs(c *fiber.Ctx) error {
	filter := LogFilter{
		AnchorID:   c.Query("anchorId"),
		AnchorName: c.Query("anchorName"),
		SyncStatus: c.Query("status"),
	}
	if p := middleware.GetPrincipal(c); p != nil && !p.IsAdmin() {
		filter.AnchorID = p.AnchorID
	}

	page := common_api.PageQueryFrom(c)
	logs, total, err := ctrl.Service.ListLogs(c.UserContext(), filter, page)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"success": false,
			"error":   err.Error(),
		})
	}
	stats, err := ctrl.Service.LogStats(c.UserContext(), filter)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"success": false,
			"error":   err.Error(),
		})
	}

	page = page.Normalize(SyncLogSortFields)
	return c.JSON(fiber.Map{
		"success":    true,
		"logs":       logs,
		"stats":      stats,
		"pagination": common_models.NewPagination(total, page.Page, page.Limit),
	})
}

// LatestSync godoc
// @Summary      Latest sync log of one anchor
// @Tags         sync
// @Produce      json
// @Param        anchorId query string true "Anchor id"
// @Router       /api/anchor-latest-sync [get]
func (ctrl *SyncController) LatestSync(c *fiber.Ctx) error {
	anchorID := c.Query("anchorId")
	if p := middleware.GetPrincipal(c); p != nil && !p.IsAdmin() {
		anchorID = p.AnchorID
	}
	if anchorID == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"success": false,
			"error":   ErrAnchorIDRequired.Error(),
		})
	}

	entry, err := ctrl.Service.LatestLog(c.UserContext(), anchorID)
	if errors.Is(err, ErrLogNotFound) {
		return c.JSON(fiber.Map{
			"success": true,
			"data":    nil,
		})
	} else if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"success": false,
			"error":   err.Error(),
		})
	}
	return c.JSON(fiber.Map{
		"success": true,
		"data":    entry,
	})
}
