package web

import (
	"github.com/gofiber/fiber/v2"

	"tableau/models"
	"tableau/store"
)

// UsersHandler serves the admin user collection.
type UsersHandler struct {
	store *store.Store
}

// NewUsersHandler creates a new instance of UsersHandler
func NewUsersHandler(st *store.Store) *UsersHandler {
	return &UsersHandler{store: st}
}

// HandleList refreshes and returns the unpaginated user collection.
func (h *UsersHandler) HandleList(c *fiber.Ctx) error {
	if err := h.store.Users.LoadAll(c.Context(), store.ListOptions{}); err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{
		"items":   h.store.Users.Items(),
		"loading": h.store.Users.Loading(),
	})
}

// HandleListPage refreshes and returns one page of the admin browse. Query
// parameters: page, limit.
func (h *UsersHandler) HandleListPage(c *fiber.Ctx) error {
	page := c.QueryInt("page", 1)
	limit := c.QueryInt("limit", 10)

	if err := h.store.Users.LoadAll(c.Context(), store.ListOptions{
		Page:  page,
		Limit: limit,
	}); err != nil {
		return respondError(c, err)
	}

	return c.JSON(fiber.Map{
		"items":      h.store.Users.PagedItems(),
		"pagination": h.store.Users.PageInfo(),
		"loading":    h.store.Users.PageLoading(),
	})
}

// HandleUpdate applies an admin edit to a user record.
func (h *UsersHandler) HandleUpdate(c *fiber.Ctx) error {
	var patch models.UserPatch
	if err := c.BodyParser(&patch); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "invalid request body",
		})
	}

	if err := h.store.Users.Update(c.Context(), c.Params("id"), patch); err != nil {
		return respondError(c, err)
	}

	return c.JSON(fiber.Map{
		"items": h.store.Users.Items(),
	})
}

// HandleDelete removes a user record.
func (h *UsersHandler) HandleDelete(c *fiber.Ctx) error {
	if err := h.store.Users.Delete(c.Context(), c.Params("id")); err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{
		"items": h.store.Users.Items(),
	})
}
