package api

import (
	common_models "anchor-sync/internal/common/models"

	"github.com/gofiber/fiber/v2"
)

// PageQueryFrom reads page, limit, sortField and sortOrder from the query string.
func PageQueryFrom(c *fiber.Ctx) common_models.PageQuery {
	return common_models.PageQuery{
		Page:      c.QueryInt("page", common_models.DefaultPage),
		Limit:     c.QueryInt("limit", common_models.DefaultLimit),
		SortField: c.Query("sortField"),
		SortOrder: c.Query("sortOrder"),
	}
}
