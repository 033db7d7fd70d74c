package handlers

import (
	"github.com/gofiber/fiber/v2"

	"thriftshop/internal/services"
)

// csrfKey is where the csrf middleware leaves the token for this request.
const csrfKey = "csrf"

func csrfToken(c *fiber.Ctx) string {
	if tok, ok := c.Locals(csrfKey).(string); ok && tok != "" {
		return tok
	}
	// fall back to the cookie
	return c.Cookies("csrf_")
}

func render(c *fiber.Ctx, tmpl string, data fiber.Map) error {
	if data == nil {
		data = fiber.Map{}
	}
	if tok := csrfToken(c); tok != "" {
		data["CSRFToken"] = tok
	}
	if _, ok := data["Theme"]; !ok {
		data["Theme"] = services.ThemeLight
	}
	return c.Render(tmpl, data)
}
