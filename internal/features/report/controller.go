package report

import (
	"fmt"

	common_api "anchor-sync/internal/common/api"
	common_models "anchor-sync/internal/common/models"
	"anchor-sync/internal/middleware"

	"github.com/gofiber/fiber/v2"
)

type ReportController struct {
	ReportService ReportService
}

func NewReportController(reportService ReportService) *ReportController {
	return &ReportController{ReportService: reportService}
}

func filterFrom(c *fiber.Ctx) Filter {
	filter := Filter{
		AnchorID:   c.Query("anchorId"),
		AnchorName: c.Query("anchorName"),
		StartDate:  c.Query("startDate"),
		EndDate:    c.Query("endDate"),
	}
	if p := middleware.GetPrincipal(c); p != nil && !p.IsAdmin() {
		filter.AnchorID = p.AnchorID
	}
	return filter
}

// List godoc
// @Summary      List daily reports
// @Tags         reports
// @Produce      json
// @Param        anchorId query string false "Anchor ID"
// @Param        startDate query string false "YYYY-MM-DD"
// @Param        endDate query string false "YYYY-MM-DD"
// @Router       /api/reports [get]
func (c *ReportController) List(ctx *fiber.Ctx) error {
	page := common_api.PageQueryFrom(ctx)
	reports, total, err := c.ReportService.List(ctx.Context(), filterFrom(ctx), page)
	if err != nil {
		return ctx.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}

	page = page.Normalize(ReportSortFields)
	return ctx.JSON(fiber.Map{
		"reports":    reports,
		"pagination": common_models.NewPagination(total, page.Page, page.Limit),
		"userInfo":   middleware.GetPrincipal(ctx),
	})
}

// ExportExcel godoc
// @Summary      Export daily reports as xlsx
// @Tags         reports
// @Router       /api/reports/export [get]
func (c *ReportController) ExportExcel(ctx *fiber.Ctx) error {
	data, filename, err := c.ReportService.ExportToExcel(ctx.Context(), filterFrom(ctx))
	if err != nil {
		return ctx.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}

	ctx.Set(fiber.HeaderContentType, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	ctx.Set(fiber.HeaderContentDisposition, fmt.Sprintf("attachment; filename=%s", filename))
	return ctx.Send(data)
}
