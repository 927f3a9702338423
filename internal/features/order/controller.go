package order

import (
	"errors"
	"fmt"

	common_api "anchor-sync/internal/common/api"
	common_models "anchor-sync/internal/common/models"
	"anchor-sync/internal/middleware"

	"github.com/gofiber/fiber/v2"
)

type OrderController struct {
	Service OrderService
}

func NewOrderController(service OrderService) *OrderController {
	return &OrderController{
		Service: service,
	}
}

// filterFrom reads order filters; anchor callers only ever see their own orders
func filterFrom(c *fiber.Ctx) Filter {
	filter := Filter{
		BizOrderID:  c.Query("bizOrderId"),
		SellerNick:  c.Query("sellerNick"),
		OrderStatus: c.Query("orderStatus"),
		Anchor:      c.Query("anchor"),
		StartDate:   c.Query("startDate"),
		EndDate:     c.Query("endDate"),
	}
	if p := middleware.GetPrincipal(c); p != nil && !p.IsAdmin() {
		filter.Anchor = p.AnchorName
	}
	return filter
}

// ListOrders godoc
// @Summary      List synced orders
// @Tags         orders
// @Produce      json
// @Param        page query int false "Page"
// @Param        limit query int false "Limit"
// @Param        anchor query string false "Anchor name"
// @Param        startDate query string false "YYYY-MM-DD"
// @Param        endDate query string false "YYYY-MM-DD"
// @Router       /api/orders [get]
func (ctrl *OrderController) ListOrders(c *fiber.Ctx) error {
	page := common_api.PageQueryFrom(c)
	orders, total, err := ctrl.Service.List(c.Context(), filterFrom(c), page)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error":   "Failed to fetch orders",
			"message": err.Error(),
		})
	}

	page = page.Normalize(OrderSortFields)
	return c.JSON(fiber.Map{
		"orders":     orders,
		"pagination": common_models.NewPagination(total, page.Page, page.Limit),
		"userInfo":   middleware.GetPrincipal(c),
	})
}

// OrderStats godoc
// @Summary      Summarize orders
// @Tags         orders
// @Produce      json
// @Router       /api/stats [get]
func (ctrl *OrderController) OrderStats(c *fiber.Ctx) error {
	stats, err := ctrl.Service.Stats(c.Context(), filterFrom(c))
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error":   "Failed to fetch statistics",
			"message": err.Error(),
		})
	}
	return c.JSON(stats)
}

// ListSellers godoc
// @Summary      Distinct seller names
// @Tags         orders
// @Produce      json
// @Router       /api/sellers [get]
func (ctrl *OrderController) ListSellers(c *fiber.Ctx) error {
	sellers, err := ctrl.Service.Sellers(c.Context())
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": err.Error(),
		})
	}
	return c.JSON(fiber.Map{
		"sellerNames": sellers,
	})
}

// ExportOrders godoc
// @Summary      Export orders as xlsx
// @Tags         orders
// @Produce      application/vnd.openxmlformats-officedocument.spreadsheetml.sheet
// @Router       /api/export [get]
func (ctrl *OrderController) ExportOrders(c *fiber.Ctx) error {
	data, filename, err := ctrl.Service.ExportToExcel(c.Context(), filterFrom(c))
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error":   "Failed to export orders",
			"message": err.Error(),
		})
	}

	c.Set(fiber.HeaderContentType, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	c.Set(fiber.HeaderContentDisposition, fmt.Sprintf("attachment; filename=%s", filename))
	return c.Send(data)
}

// DeleteOrder godoc
// @Summary      Delete an order
// @Tags         orders
// @Param        bizOrderId path string true "Order ID"
// @Router       /api/orders/{bizOrderId} [delete]
func (ctrl *OrderController) DeleteOrder(c *fiber.Ctx) error {
	if err := ctrl.Service.Delete(c.Context(), c.Params("bizOrderId")); err != nil {
		status := fiber.StatusInternalServerError
		if errors.Is(err, ErrNotFound) {
			status = fiber.StatusNotFound
		}
		return c.Status(status).JSON(fiber.Map{
			"success": false,
			"error":   err.Error(),
		})
	}
	return c.JSON(fiber.Map{
		"success": true,
		"message": "Order deleted successfully",
	})
}
