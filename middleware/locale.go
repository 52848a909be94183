package middleware

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	"tableau/utils"
)

// LocaleMiddleware detects and sets the request's locale. Resolution order:
// query parameter, cookie, Accept-Language header, then the app-wide default
// from settings.
func LocaleMiddleware(defaultLanguage func() string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		lang := c.Query("lang")

		if lang == "" {
			lang = c.Cookies("lang")
		}

		if lang == "" {
			acceptLang := c.Get("Accept-Language")
			for _, supported := range utils.SupportedLanguages {
				if strings.HasPrefix(acceptLang, supported) {
					lang = supported
					break
				}
			}
		}

		if lang == "" && defaultLanguage != nil {
			lang = defaultLanguage()
		}

		if !utils.IsSupportedLanguage(lang) {
			lang = "en"
		}

		localizer := utils.GetLocalizer(lang)

		c.Locals("localizer", localizer)
		c.Locals("lang", lang)

		utils.Log.Debug("Locale detected: %s for path: %s", lang, c.Path())

		return c.Next()
	}
}
