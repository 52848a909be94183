// Package web exposes the store and view engine over a JSON API.
package web

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/nicksnyder/go-i18n/v2/i18n"

	"tableau/utils"
)

// localizer returns the request's localizer set by the locale middleware.
func localizer(c *fiber.Ctx) *i18n.Localizer {
	if loc, ok := c.Locals("localizer").(*i18n.Localizer); ok {
		return loc
	}
	return utils.Localizer
}

// respondError maps a store error onto a JSON response. Validation failures
// carry their message IDs translated into the request locale; remote and app
// errors keep their own status codes.
func respondError(c *fiber.Ctx, err error) error {
	loc := localizer(c)

	if verrs, ok := utils.AsValidation(err); ok {
		return c.Status(fiber.StatusUnprocessableEntity).JSON(fiber.Map{
			"error":  utils.T(loc, verrs[0]),
			"errors": utils.TAll(loc, verrs),
		})
	}

	var appErr *utils.AppError
	if errors.As(err, &appErr) {
		return c.Status(appErr.Code).JSON(fiber.Map{
			"error": utils.T(loc, appErr.Message),
		})
	}

	var remoteErr *utils.RemoteError
	if errors.As(err, &remoteErr) {
		code := fiber.StatusBadGateway
		if remoteErr.StatusCode >= 400 {
			code = remoteErr.StatusCode
		}
		return c.Status(code).JSON(fiber.Map{
			"error": remoteErr.Message,
		})
	}

	utils.Log.Error("Unhandled error: %v", err)
	return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
		"error": utils.RemoteMessage(err),
	})
}
