package anchor

import (
	"errors"

	common_api "anchor-sync/internal/common/api"
	common_models "anchor-sync/internal/common/models"
	"anchor-sync/internal/middleware"

	"github.com/gofiber/fiber/v2"
)

type AnchorController struct {
	Service AnchorService
}

func NewAnchorController(service AnchorService) *AnchorController {
	return &AnchorController{
		Service: service,
	}
}

// ListAnchors godoc
// @Summary      List anchors
// @Tags         anchors
// @Produce      json
// @Param        page query int false "Page"
// @Param        limit query int false "Limit"
// @Param        status query string false "Status"
// @Success      200 {object} map[string]interface{}
// @Router       /api/anchors/list [get]
func (ctrl *AnchorController) ListAnchors(c *fiber.Ctx) error {
	filter := Filter{
		AnchorID:   c.Query("anchorId"),
		AnchorName: c.Query("anchorName"),
		Status:     c.Query("status"),
	}
	principal := middleware.GetPrincipal(c)
	if !principal.IsAdmin() {
		filter.AnchorID = principal.AnchorID
	}

	page := common_api.PageQueryFrom(c)
	anchors, total, err := ctrl.Service.List(c.Context(), filter, page)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": err.Error(),
		})
	}

	if !principal.IsAdmin() {
		for i := range anchors {
			anchors[i].AnchorCookie = ""
			anchors[i].Password = ""
		}
	}

	page = page.Normalize(AnchorSortFields)
	return c.JSON(fiber.Map{
		"anchors":    anchors,
		"pagination": common_models.NewPagination(total, page.Page, page.Limit),
		"userInfo":   principal,
	})
}

// AnchorNames godoc
// @Summary      Anchor names for filters, or full rows with mode=full
// @Tags         anchors
// @Produce      json
// @Param        mode query string false "names or full"
// @Router       /api/anchors [get]
func (ctrl *AnchorController) AnchorNames(c *fiber.Ctx) error {
	var filter Filter
	principal := middleware.GetPrincipal(c)
	if !principal.IsAdmin() {
		filter.AnchorID = principal.AnchorID
	}

	if c.Query("mode", "names") == "full" {
		anchors, err := ctrl.Service.Directory(c.Context(), filter)
		if err != nil {
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"error": err.Error(),
			})
		}
		return c.JSON(fiber.Map{
			"anchors":  anchors,
			"userInfo": principal,
		})
	}

	names, err := ctrl.Service.Names(c.Context(), filter)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": err.Error(),
		})
	}
	return c.JSON(fiber.Map{
		"anchorNames": names,
		"userInfo":    principal,
	})
}

// AnchorStats godoc
// @Summary      Count anchors by status
// @Tags         anchors
// @Produce      json
// @Router       /api/anchors/stats [get]
func (ctrl *AnchorController) AnchorStats(c *fiber.Ctx) error {
	stats, err := ctrl.Service.Stats(c.Context())
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": err.Error(),
		})
	}

	var total int64
	for _, n := range stats {
		total += n
	}
	return c.JSON(fiber.Map{
		"total":    total,
		"active":   stats[StatusActive],
		"invalid":  stats[StatusInvalid],
		"disabled": stats[StatusDisabled],
	})
}

// GetAnchor godoc
// @Summary      Get an anchor
// @Tags         anchors
// @Produce      json
// @Param        anchorId path string true "Anchor ID"
// @Router       /api/anchors/{anchorId} [get]
func (ctrl *AnchorController) GetAnchor(c *fiber.Ctx) error {
	anchorID := c.Params("anchorId")
	principal := middleware.GetPrincipal(c)
	if !principal.IsAdmin() && principal.AnchorID != anchorID {
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{
			"error": "Access denied",
		})
	}

	a, err := ctrl.Service.Get(c.Context(), anchorID)
	if err != nil {
		return ctrl.fail(c, err)
	}
	return c.JSON(fiber.Map{
		"success": true,
		"data":    a,
	})
}

// CreateAnchor godoc
// @Summary      Register an anchor
// @Tags         anchors
// @Accept       json
// @Produce      json
// @Router       /api/anchors [post]
func (ctrl *AnchorController) CreateAnchor(c *fiber.Ctx) error {
	var input Input
	if err := c.BodyParser(&input); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}

	a, err := ctrl.Service.Create(c.Context(), input)
	if err != nil {
		return ctrl.fail(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"success": true,
		"message": "Anchor created successfully",
		"data":    a,
	})
}

// UpdateAnchor godoc
// @Summary      Update an anchor
// @Tags         anchors
// @Accept       json
// @Produce      json
// @Param        anchorId path string true "Anchor ID"
// @Router       /api/anchors/{anchorId} [put]
func (ctrl *AnchorController) UpdateAnchor(c *fiber.Ctx) error {
	var input Input
	if err := c.BodyParser(&input); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}

	a, err := ctrl.Service.Update(c.Context(), c.Params("anchorId"), input)
	if err != nil {
		return ctrl.fail(c, err)
	}

	return c.JSON(fiber.Map{
		"success": true,
		"message": "Anchor updated successfully",
		"data":    a,
	})
}

// DeleteAnchor godoc
// @Summary      Delete an anchor
// @Tags         anchors
// @Param        anchorId path string true "Anchor ID"
// @Router       /api/anchors/{anchorId} [delete]
func (ctrl *AnchorController) DeleteAnchor(c *fiber.Ctx) error {
	if err := ctrl.Service.Delete(c.Context(), c.Params("anchorId")); err != nil {
		return ctrl.fail(c, err)
	}

	return c.JSON(fiber.Map{
		"success": true,
		"message": "Anchor deleted successfully",
	})
}

// CheckPassword godoc
// @Summary      Check whether an anchor password is available
// @Tags         anchors
// @Accept       json
// @Router       /api/anchors/check-password [post]
func (ctrl *AnchorController) CheckPassword(c *fiber.Ctx) error {
	var body struct {
		Password  string `json:"password"`
		ExcludeID string `json:"excludeId"`
	}
	if err := c.BodyParser(&body); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}

	if err := ctrl.Service.CheckPassword(c.Context(), body.Password, body.ExcludeID); err != nil {
		return c.JSON(fiber.Map{
			"isValid": false,
			"message": err.Error(),
		})
	}
	return c.JSON(fiber.Map{
		"isValid": true,
		"message": "Password is available",
	})
}

func (ctrl *AnchorController) fail(c *fiber.Ctx, err error) error {
	status := fiber.StatusInternalServerError
	switch {
	case errors.Is(err, ErrNotFound):
		status = fiber.StatusNotFound
	case errors.Is(err, ErrDuplicateID), errors.Is(err, ErrPasswordInUse):
		status = fiber.StatusConflict
	case errors.Is(err, ErrInvalidInput), errors.Is(err, ErrPasswordIsRoot):
		status = fiber.StatusBadRequest
	}
	return c.Status(status).JSON(fiber.Map{
		"success": false,
		"error":   err.Error(),
	})
}
