package web

import (
	"github.com/gofiber/fiber/v2"

	"tableau/views"
)

// DashboardHandler serves the derived dashboard views.
type DashboardHandler struct {
	engine *views.Engine
}

// NewDashboardHandler creates a new instance of DashboardHandler
func NewDashboardHandler(engine *views.Engine) *DashboardHandler {
	return &DashboardHandler{engine: engine}
}

// HandleStats returns the headline numbers and chart aggregates for the
// active filters.
func (h *DashboardHandler) HandleStats(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"stats":          h.engine.DashboardStats(),
		"byStatus":       h.engine.RequestsByStatus(),
		"byRole":         h.engine.UsersByRole(),
		"byCountry":      h.engine.UsersByCountry(),
		"topActiveUsers": h.engine.TopActiveUsers(5),
		"filters":        h.engine.CurrentFilters(),
	})
}

// HandleActivity returns the merged activity timeline, newest first. The
// limit query parameter truncates the list.
func (h *DashboardHandler) HandleActivity(c *fiber.Ctx) error {
	items := h.engine.RecentActivity()
	if limit := c.QueryInt("limit", 0); limit > 0 && limit < len(items) {
		items = items[:limit]
	}
	return c.JSON(fiber.Map{
		"items": items,
	})
}

type filtersRequest struct {
	Status    string `json:"status"`
	DateRange string `json:"dateRange"`
}

// HandleSetFilters updates the dashboard's status and date-range filters.
func (h *DashboardHandler) HandleSetFilters(c *fiber.Ctx) error {
	var req filtersRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "invalid request body",
		})
	}

	if req.Status != "" {
		h.engine.SetStatusFilter(req.Status)
	}
	if req.DateRange != "" {
		h.engine.SetDateRange(views.DateRange(req.DateRange))
	}

	return c.JSON(fiber.Map{
		"filters": h.engine.CurrentFilters(),
	})
}

// HandleFilteredRequests returns the requests matching the active filters.
func (h *DashboardHandler) HandleFilteredRequests(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"items": h.engine.FilteredRequests(),
	})
}
