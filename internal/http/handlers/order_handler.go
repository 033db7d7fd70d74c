package handlers

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"thriftshop/internal/domain"
	applog "thriftshop/internal/log"
	"thriftshop/internal/services"
)

type OrderHandler struct {
	Source catalogSource
	Order  *services.OrderService
}

func details(c *fiber.Ctx) (domain.CustomerDetails, bool) {
	var d domain.CustomerDetails
	if err := c.BodyParser(&d); err != nil {
		return d, false
	}
	return d, true
}

// latest is the catalog to re-check cart items against. A catalog that could not be
// loaded checks nothing.
func (h *OrderHandler) latest(c *fiber.Ctx) []domain.Product {
	products, err := h.Source.products(c)
	if err != nil {
		applog.Warn(c, "checkout.catalog.unavailable", err, nil)
		return nil
	}
	return products
}

// Messages composes the WhatsApp and Instagram hand-off texts. The cart is kept.
func (h *OrderHandler) Messages(c *fiber.Ctx) error {
	d, ok := details(c)
	if !ok {
		return badRequest(c, "customerDetails", "invalid customer details")
	}
	msgs, err := h.Order.Compose(c.UserContext(), ensureSID(c), d, h.latest(c))
	if err != nil {
		return fail(c, "checkout.compose.fail", err)
	}
	applog.Info(c, "checkout.compose", map[string]any{"total": msgs.Formatted.Total})
	return c.JSON(msgs)
}

// Handoff confirms the shopper opened a messaging channel and clears the cart.
func (h *OrderHandler) Handoff(c *fiber.Ctx) error {
	if err := h.Order.Handoff(c.UserContext(), ensureSID(c)); err != nil {
		return fail(c, "checkout.handoff.fail", err)
	}
	applog.Audit(c, "checkout.handoff", nil)
	return c.JSON(fiber.Map{"ok": true})
}

// Submit places the order through the automation script.
func (h *OrderHandler) Submit(c *fiber.Ctx) error {
	d, ok := details(c)
	if !ok {
		return badRequest(c, "customerDetails", "invalid customer details")
	}
	res, err := h.Order.Submit(c.UserContext(), ensureSID(c), d, h.latest(c))
	var se *domain.SubmissionError
	if errors.As(err, &se) {
		applog.Error(c, "order.submit.fail", err, map[string]any{"status": se.Status, "order": res.OrderRef})
		// the cart is kept; offer the manual channels instead
		return c.Status(fiber.StatusBadGateway).JSON(fiber.Map{
			"error":    msgSubmitFailed,
			"fallback": res.Messages,
		})
	}
	if err != nil {
		return fail(c, "order.submit.fail", err)
	}
	applog.Audit(c, "order.submit", map[string]any{"order": res.OrderRef, "total": res.Messages.Formatted.Total})
	return c.Status(fiber.StatusCreated).JSON(res)
}
