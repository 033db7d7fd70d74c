package handlers

import (
	"github.com/gofiber/fiber/v2"

	"thriftshop/internal/services"
	"thriftshop/internal/validate"
)

type PrefsHandler struct {
	Prefs *services.PrefsService
}

func (h *PrefsHandler) Theme(c *fiber.Ctx) error {
	t, err := h.Prefs.Theme(c.UserContext(), ensureSID(c))
	if err != nil {
		return fail(c, "theme.read.fail", err)
	}
	return c.JSON(fiber.Map{"theme": t})
}

func (h *PrefsHandler) CycleTheme(c *fiber.Ctx) error {
	t, err := h.Prefs.CycleTheme(c.UserContext(), ensureSID(c))
	if err != nil {
		return fail(c, "theme.cycle.fail", err)
	}
	return c.JSON(fiber.Map{"theme": t})
}

func (h *PrefsHandler) Banners(c *fiber.Ctx) error {
	flags, err := h.Prefs.Banners(c.UserContext(), ensureSID(c))
	if err != nil {
		return fail(c, "banners.read.fail", err)
	}
	return c.JSON(fiber.Map{"dismissed": flags})
}

func (h *PrefsHandler) Dismiss(c *fiber.Ctx) error {
	name, ok := validate.Slug(c.Params("name"))
	if !ok {
		return badRequest(c, "name", "invalid banner")
	}
	if err := h.Prefs.DismissBanner(c.UserContext(), ensureSID(c), name); err != nil {
		return fail(c, "banners.dismiss.fail", err)
	}
	return c.JSON(fiber.Map{"dismissed": name})
}
