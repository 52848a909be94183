package web

import (
	"github.com/gofiber/fiber/v2"

	"tableau/models"
	"tableau/store"
)

// AuthHandler serves login, registration and profile endpoints.
type AuthHandler struct {
	store *store.Store
}

// NewAuthHandler creates a new instance of AuthHandler
func NewAuthHandler(st *store.Store) *AuthHandler {
	return &AuthHandler{store: st}
}

type loginRequest struct {
	Pseudo   string `json:"pseudo"`
	Password string `json:"password"`
}

// HandleLogin signs a user in against the remote user collection.
func (h *AuthHandler) HandleLogin(c *fiber.Ctx) error {
	var req loginRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "invalid request body",
		})
	}

	if err := h.store.Auth.Login(c.Context(), req.Pseudo, req.Password); err != nil {
		return respondError(c, err)
	}

	return c.JSON(fiber.Map{
		"user": h.store.Auth.User(),
	})
}

// HandleRegister creates an account and signs the new user in.
func (h *AuthHandler) HandleRegister(c *fiber.Ctx) error {
	var input store.RegisterInput
	if err := c.BodyParser(&input); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "invalid request body",
		})
	}

	if err := h.store.Auth.Register(c.Context(), input); err != nil {
		return respondError(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"user": h.store.Auth.User(),
	})
}

// HandleLogout signs the user out and clears the persisted profile.
func (h *AuthHandler) HandleLogout(c *fiber.Ctx) error {
	h.store.Auth.Logout()
	return c.JSON(fiber.Map{"ok": true})
}

// HandleMe returns the authenticated-user projection.
func (h *AuthHandler) HandleMe(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"user":          h.store.Auth.User(),
		"authenticated": h.store.Auth.IsAuthenticated(),
		"status":        h.store.Auth.Status(),
	})
}

// HandleUpdateProfile applies a profile edit for the signed-in user.
func (h *AuthHandler) HandleUpdateProfile(c *fiber.Ctx) error {
	var patch models.UserPatch
	if err := c.BodyParser(&patch); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "invalid request body",
		})
	}

	if err := h.store.Auth.UpdateProfile(c.Context(), patch); err != nil {
		return respondError(c, err)
	}

	return c.JSON(fiber.Map{
		"user": h.store.Auth.User(),
	})
}

type colorRequest struct {
	Couleur string `json:"couleur"`
}

// HandleUpdateColor sets the profile's preferred background color.
func (h *AuthHandler) HandleUpdateColor(c *fiber.Ctx) error {
	var req colorRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "invalid request body",
		})
	}

	h.store.Auth.UpdatePreferredColor(req.Couleur)
	return c.JSON(fiber.Map{
		"user": h.store.Auth.User(),
	})
}
