package handlers

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"thriftshop/internal/domain"
	applog "thriftshop/internal/log"
	"thriftshop/internal/services"
)

const (
	msgLoadFailed   = "Failed to load products. Please try again."
	msgCartEmpty    = "Your cart is empty."
	msgUnavailable  = "Some items in your cart are no longer available."
	msgMissing      = "Please fill in all delivery details."
	msgNoAutomation = "Online ordering is not set up. Please order via WhatsApp or Instagram."
	msgSubmitFailed = "We couldn't place your order automatically. Please send it via WhatsApp or Instagram."
	msgGeneric      = "Something went wrong. Please try again."
)

// fail writes the JSON response for the error kinds handlers expect. Anything
// else is passed on to the app's ErrorHandler.
func fail(c *fiber.Ctx, action string, err error) error {
	var (
		ce *domain.ConfigurationError
		fe *domain.FetchError
		ue *services.UnavailableError
		md *services.MissingDetailsError
		se *domain.SubmissionError
	)
	switch {
	case errors.As(err, &ce):
		applog.Warn(c, action, err, nil)
		return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{"error": ce.Reason, "retry": false})
	case errors.As(err, &fe):
		applog.Warn(c, action, err, map[string]any{"status": fe.Status, "html": fe.HTML})
		return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{"error": msgLoadFailed, "retry": true})
	case errors.As(err, &ue):
		applog.Info(c, action, map[string]any{"unavailable": ue.IDs})
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{"error": msgUnavailable, "ids": ue.IDs})
	case errors.As(err, &md):
		applog.Security(c, "validation.fail", map[string]any{"fields": md.Fields})
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": msgMissing, "fields": md.Fields})
	case errors.Is(err, services.ErrCartEmpty):
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": msgCartEmpty})
	case errors.Is(err, services.ErrNoAutomation):
		return c.Status(fiber.StatusNotImplemented).JSON(fiber.Map{"error": msgNoAutomation})
	case errors.As(err, &se):
		applog.Error(c, action, err, map[string]any{"status": se.Status})
		return c.Status(fiber.StatusBadGateway).JSON(fiber.Map{"error": msgSubmitFailed})
	}
	applog.Error(c, action, err, nil)
	return err
}

func badRequest(c *fiber.Ctx, field, msg string) error {
	applog.Security(c, "validation.fail", map[string]any{"field": field})
	return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": msg})
}
