package handlers

import (
	"time"

	"github.com/gofiber/fiber/v2"

	applog "thriftshop/internal/log"
	"thriftshop/internal/services"
	"thriftshop/internal/validate"
)

type SavedHandler struct {
	Source catalogSource
	Saved  *services.SavedService
}

func (h *SavedHandler) List(c *fiber.Ctx) error {
	ids, err := h.Saved.List(c.UserContext(), ensureSID(c))
	if err != nil {
		return fail(c, "saved.list.fail", err)
	}
	products, err := h.Source.products(c)
	if err != nil {
		return fail(c, "products.load.fail", err)
	}
	return c.JSON(fiber.Map{"ids": ids, "items": byIDs(products, ids, time.Now())})
}

func (h *SavedHandler) Save(c *fiber.Ctx) error {
	sid := ensureSID(c)
	var in struct {
		ProductID string `json:"productId" form:"productId"`
	}
	_ = c.BodyParser(&in)
	pid, ok := validate.ID(in.ProductID)
	if in.ProductID == "" {
		pid, ok = idParam(c)
	}
	if !ok {
		return badRequest(c, "productId", "missing productId")
	}
	if err := h.Saved.Save(c.UserContext(), sid, pid); err != nil {
		return fail(c, "saved.save.fail", err)
	}
	applog.Audit(c, "saved.save", map[string]any{"product": pid})
	return c.JSON(fiber.Map{"saved": true, "productId": pid})
}

func (h *SavedHandler) Unsave(c *fiber.Ctx) error {
	sid := ensureSID(c)
	pid, ok := idParam(c)
	if !ok {
		return badRequest(c, "id", "missing productId")
	}
	if err := h.Saved.Unsave(c.UserContext(), sid, pid); err != nil {
		return fail(c, "saved.unsave.fail", err)
	}
	applog.Audit(c, "saved.unsave", map[string]any{"product": pid})
	return c.JSON(fiber.Map{"saved": false, "productId": pid})
}
