package handlers

import (
	"time"

	"github.com/gofiber/fiber/v2"

	applog "thriftshop/internal/log"
	"thriftshop/internal/services"
)

type ProductHandler struct {
	Source catalogSource
	Recent *services.RecentService
	Stats  *services.Stats
}

type productsResponse struct {
	Products  []productView       `json:"products"`
	Status    services.LoadStatus `json:"status"`
	Loading   bool                `json:"loading"`
	Error     string              `json:"error,omitempty"`
	Warning   string              `json:"warning,omitempty"`
	UpdatedAt time.Time           `json:"updatedAt,omitzero"`
	Source    string              `json:"source"`
	Override  bool                `json:"override"`
}

func (h *ProductHandler) respond(c *fiber.Ctx, st services.ProviderState) error {
	if err := hardFailure(st); err != nil {
		return fail(c, "products.load.fail", err)
	}
	return c.JSON(productsResponse{
		Products:  toViews(st.Products),
		Status:    st.Status,
		Loading:   st.Loading,
		Error:     st.Error,
		Warning:   st.Warning,
		UpdatedAt: st.UpdatedAt,
		Source:    st.Source,
		Override:  st.Override,
	})
}

func (h *ProductHandler) List(c *fiber.Ctx) error {
	_, st, err := h.Source.state(c)
	if err != nil {
		return fail(c, "products.source.fail", err)
	}
	return h.respond(c, st)
}

func (h *ProductHandler) Refetch(c *fiber.Ctx) error {
	p, err := h.Source.provider(c)
	if err != nil {
		return fail(c, "products.source.fail", err)
	}
	st := p.Refetch(c.UserContext())
	applog.Audit(c, "products.refetch", map[string]any{"status": string(st.Status), "count": len(st.Products)})
	return h.respond(c, st)
}

func (h *ProductHandler) Detail(c *fiber.Ctx) error {
	id, ok := idParam(c)
	if !ok {
		return badRequest(c, "id", "invalid product id")
	}
	p, st, err := h.Source.state(c)
	if err != nil {
		return fail(c, "products.source.fail", err)
	}
	if err := hardFailure(st); err != nil {
		return fail(c, "products.load.fail", err)
	}
	prod, found := p.Find(id)
	if !found || !prod.Live(time.Now()) {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "This item is no longer available"})
	}
	if err := h.Recent.Record(c.UserContext(), ensureSID(c), id); err != nil {
		applog.Warn(c, "recent.record.fail", err, map[string]any{"product": id})
	}
	return c.JSON(toView(prod))
}

func (h *ProductHandler) RecentlyViewed(c *fiber.Ctx) error {
	ids, err := h.Recent.List(c.UserContext(), ensureSID(c))
	if err != nil {
		return fail(c, "recent.list.fail", err)
	}
	products, err := h.Source.products(c)
	if err != nil {
		return fail(c, "products.load.fail", err)
	}
	return c.JSON(fiber.Map{"items": byIDs(products, ids, time.Now())})
}

func (h *ProductHandler) StatsView(c *fiber.Ctx) error {
	return c.JSON(h.Stats.Snapshot())
}

// SheetReport is the kept/dropped/hidden accounting of the default sheet's last load.
func (h *ProductHandler) SheetReport(c *fiber.Ctx) error {
	return c.JSON(h.Source.Registry.LastReport())
}

// ClearSource forgets the session's csv_url and answers with the default catalog.
func (h *ProductHandler) ClearSource(c *fiber.Ctx) error {
	if err := h.Source.Registry.ClearOverride(c.UserContext(), ensureSID(c)); err != nil {
		return fail(c, "products.source.clear.fail", err)
	}
	applog.Audit(c, "products.source.clear", nil)
	return h.List(c)
}
