package handlers

import (
	"time"

	"github.com/gofiber/fiber/v2"

	"thriftshop/internal/cart"
	applog "thriftshop/internal/log"
	"thriftshop/internal/services"
	"thriftshop/internal/validate"
)

type CartHandler struct {
	Source catalogSource
	Cart   *services.CartService
}

type cartResponse struct {
	Items       []productView  `json:"items"`
	Count       int            `json:"count"`
	Totals      cart.Summary   `json:"totals"`
	Formatted   cart.Formatted `json:"formatted"`
	HasDiscount bool           `json:"hasDiscount"`
}

func toCartResponse(cv services.CartView) cartResponse {
	return cartResponse{
		Items:       toViews(cv.Items),
		Count:       cv.Count,
		Totals:      cv.Totals,
		Formatted:   cv.Formatted,
		HasDiscount: cv.Totals.HasDiscount(),
	}
}

func (h *CartHandler) View(c *fiber.Ctx) error {
	cv, err := h.Cart.View(c.UserContext(), ensureSID(c))
	if err != nil {
		return fail(c, "cart.view.fail", err)
	}
	return c.JSON(toCartResponse(cv))
}

func (h *CartHandler) Add(c *fiber.Ctx) error {
	sid := ensureSID(c)
	var in struct {
		ProductID string `json:"productId" form:"productId"`
	}
	if err := c.BodyParser(&in); err != nil {
		return badRequest(c, "productId", "missing productId")
	}
	id, ok := validate.ID(in.ProductID)
	if !ok {
		return badRequest(c, "productId", "missing productId")
	}

	p, st, err := h.Source.state(c)
	if err != nil {
		return fail(c, "cart.source.fail", err)
	}
	if err := hardFailure(st); err != nil {
		return fail(c, "cart.load.fail", err)
	}
	prod, found := p.Find(id)
	if !found || !prod.Live(time.Now()) {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "This item is no longer available"})
	}

	added, err := h.Cart.Add(c.UserContext(), sid, prod)
	if err != nil {
		return fail(c, "cart.add.fail", err)
	}
	cv, err := h.Cart.View(c.UserContext(), sid)
	if err != nil {
		return fail(c, "cart.view.fail", err)
	}
	if added {
		applog.Audit(c, "cart.add", map[string]any{"product": id})
	}
	return c.JSON(fiber.Map{"added": added, "sold": prod.Sold, "cart": toCartResponse(cv)})
}

func (h *CartHandler) Remove(c *fiber.Ctx) error {
	sid := ensureSID(c)
	id, ok := idParam(c)
	if !ok {
		return badRequest(c, "id", "invalid product id")
	}
	if err := h.Cart.Remove(c.UserContext(), sid, id); err != nil {
		return fail(c, "cart.remove.fail", err)
	}
	applog.Audit(c, "cart.remove", map[string]any{"product": id})
	cv, err := h.Cart.View(c.UserContext(), sid)
	if err != nil {
		return fail(c, "cart.view.fail", err)
	}
	return c.JSON(toCartResponse(cv))
}
