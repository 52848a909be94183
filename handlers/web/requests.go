package web

import (
	"github.com/gofiber/fiber/v2"

	"tableau/store"
)

// RequestsHandler serves the request collection: the user's own list, the
// paged admin table, and the moderation mutations.
type RequestsHandler struct {
	store *store.Store
}

// NewRequestsHandler creates a new instance of RequestsHandler
func NewRequestsHandler(st *store.Store) *RequestsHandler {
	return &RequestsHandler{store: st}
}

// HandleList refreshes and returns the unpaginated collection.
func (h *RequestsHandler) HandleList(c *fiber.Ctx) error {
	if err := h.store.Requests.LoadAll(c.Context(), store.ListOptions{}); err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{
		"items":   h.store.Requests.Items(),
		"loading": h.store.Requests.Loading(),
	})
}

// HandleListPage refreshes and returns one page of the admin table. Query
// parameters: page, limit, status.
func (h *RequestsHandler) HandleListPage(c *fiber.Ctx) error {
	page := c.QueryInt("page", 1)
	limit := c.QueryInt("limit", 10)
	status := c.Query("status")

	if err := h.store.Requests.LoadAll(c.Context(), store.ListOptions{
		Page:   page,
		Limit:  limit,
		Status: status,
	}); err != nil {
		return respondError(c, err)
	}

	return c.JSON(fiber.Map{
		"items":      h.store.Requests.PagedItems(),
		"pagination": h.store.Requests.PageInfo(),
		"filter":     h.store.Requests.Filter(),
		"loading":    h.store.Requests.PageLoading(),
	})
}

// HandleCreate creates a request on behalf of the signed-in user. The
// response carries the collection as it stands after the round trip, so the
// canonical record has already replaced the provisional one.
func (h *RequestsHandler) HandleCreate(c *fiber.Ctx) error {
	var input store.AddRequestInput
	if err := c.BodyParser(&input); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "invalid request body",
		})
	}

	user := h.store.Auth.User()
	input.UserID = user.ID
	input.Nom = user.Nom
	input.Prenom = user.Prenom
	input.Pseudo = user.Pseudo
	input.Avatar = user.Avatar

	if err := h.store.Requests.Add(c.Context(), input); err != nil {
		return respondError(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"items": h.store.Requests.Items(),
	})
}

// HandleApprove approves a pending request.
func (h *RequestsHandler) HandleApprove(c *fiber.Ctx) error {
	if err := h.store.Requests.Approve(c.Context(), c.Params("id")); err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{
		"items": h.store.Requests.PagedItems(),
	})
}

// HandleReject rejects a request.
func (h *RequestsHandler) HandleReject(c *fiber.Ctx) error {
	if err := h.store.Requests.Reject(c.Context(), c.Params("id")); err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{
		"items": h.store.Requests.PagedItems(),
	})
}

// HandleCancel withdraws one of the caller's pending requests.
func (h *RequestsHandler) HandleCancel(c *fiber.Ctx) error {
	if err := h.store.Requests.Cancel(c.Context(), c.Params("id")); err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{
		"items": h.store.Requests.Items(),
	})
}

type updateContentRequest struct {
	Title       string `json:"title"`
	Description string `json:"description"`
}

// HandleUpdateContent edits a request's title and description.
func (h *RequestsHandler) HandleUpdateContent(c *fiber.Ctx) error {
	var req updateContentRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "invalid request body",
		})
	}

	h.store.Requests.UpdateContent(c.Params("id"), req.Title, req.Description)
	return c.JSON(fiber.Map{
		"items": h.store.Requests.Items(),
	})
}

// HandleClear resets both request projections.
func (h *RequestsHandler) HandleClear(c *fiber.Ctx) error {
	h.store.Requests.ClearAll()
	return c.JSON(fiber.Map{"ok": true})
}
