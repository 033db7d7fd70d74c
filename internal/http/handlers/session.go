package handlers

import (
	"net/url"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"thriftshop/internal/domain"
	"thriftshop/internal/services"
	"thriftshop/internal/validate"
)

const sidCookie = "sid"

func ensureSID(c *fiber.Ctx) string {
	if sid, ok := c.Locals(sidCookie).(string); ok && sid != "" {
		return sid
	}
	sid := strings.Clone(c.Cookies(sidCookie))
	if _, err := uuid.Parse(sid); err != nil {
		sid = uuid.NewString()
		c.Cookie(&fiber.Cookie{
			Name:     sidCookie,
			Value:    sid,
			Path:     "/",
			HTTPOnly: true,
			SameSite: fiber.CookieSameSiteLaxMode,
			Secure:   false,
		})
	}
	c.Locals(sidCookie, sid)
	return sid
}

// catalogSource resolves the product provider a request should see, honoring a
// csv_url query parameter and the session's stored override.
type catalogSource struct {
	Registry *services.ProductRegistry
}

func (s catalogSource) provider(c *fiber.Ctx) (*services.ProductProvider, error) {
	sid := ensureSID(c)
	// query values point into the request buffer; the registry keeps this one
	override := strings.Clone(strings.TrimSpace(c.Query("csv_url")))
	if override == "" && c.Context().QueryArgs().Has("csv_url") {
		// an explicit empty csv_url goes back to the default sheet
		if err := s.Registry.ClearOverride(c.UserContext(), sid); err != nil {
			return nil, err
		}
	}
	return s.Registry.For(c.UserContext(), sid, override)
}

// idParam reads a product id from the route, undoing percent-encoding so ids with
// spaces or slashes can be addressed.
func idParam(c *fiber.Ctx) (string, bool) {
	raw := c.Params("id")
	if s, err := url.PathUnescape(raw); err == nil {
		raw = s
	}
	return validate.ID(strings.Clone(raw))
}

// state returns the provider and its state, running the first load if nothing
// has been fetched yet.
func (s catalogSource) state(c *fiber.Ctx) (*services.ProductProvider, services.ProviderState, error) {
	p, err := s.provider(c)
	if err != nil {
		return nil, services.ProviderState{}, err
	}
	st := p.State()
	if st.Status == services.StatusIdle {
		st = p.Load(c.UserContext())
	}
	return p, st, nil
}

// hardFailure is the error to surface when a failed load left nothing to show.
func hardFailure(st services.ProviderState) error {
	if st.Failed() && len(st.Products) == 0 && st.Err != nil {
		return st.Err
	}
	return nil
}

// products is the current list; it fails only when a hard error left nothing to show.
func (s catalogSource) products(c *fiber.Ctx) ([]domain.Product, error) {
	_, st, err := s.state(c)
	if err != nil {
		return nil, err
	}
	if err := hardFailure(st); err != nil {
		return nil, err
	}
	return st.Products, nil
}
