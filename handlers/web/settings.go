package web

import (
	"github.com/gofiber/fiber/v2"

	"tableau/store"
)

// SettingsHandler serves the UI settings.
type SettingsHandler struct {
	store *store.Store
}

// NewSettingsHandler creates a new instance of SettingsHandler
func NewSettingsHandler(st *store.Store) *SettingsHandler {
	return &SettingsHandler{store: st}
}

// HandleGet returns the current settings.
func (h *SettingsHandler) HandleGet(c *fiber.Ctx) error {
	return c.JSON(h.store.Settings.Settings())
}

type settingsRequest struct {
	Language   string `json:"language"`
	ThemeColor string `json:"themeColor"`
}

// HandleUpdate applies a partial settings change; each present field is
// validated independently.
func (h *SettingsHandler) HandleUpdate(c *fiber.Ctx) error {
	var req settingsRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "invalid request body",
		})
	}

	if req.Language != "" {
		if err := h.store.Settings.SetLanguage(req.Language); err != nil {
			return respondError(c, err)
		}
	}
	if req.ThemeColor != "" {
		if err := h.store.Settings.SetThemeColor(req.ThemeColor); err != nil {
			return respondError(c, err)
		}
	}

	return c.JSON(h.store.Settings.Settings())
}
