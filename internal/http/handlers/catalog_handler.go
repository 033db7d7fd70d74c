package handlers

import (
	"strconv"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"

	"thriftshop/internal/catalog"
	applog "thriftshop/internal/log"
	"thriftshop/internal/services"
	"thriftshop/internal/validate"
)

type CatalogHandler struct {
	Source  catalogSource
	Catalog *services.CatalogService
	Prefs   *services.PrefsService
}

func multi(c *fiber.Ctx, key string) []string {
	var out []string
	for _, raw := range c.Context().QueryArgs().PeekMulti(key) {
		for _, v := range strings.Split(string(raw), ",") {
			if v = strings.TrimSpace(v); v != "" && len(v) <= 64 {
				out = append(out, v)
			}
		}
	}
	return out
}

func nonNegative(s string) (int64, bool) {
	n, err := strconv.ParseInt(strings.TrimSpace(s), 10, 64)
	return n, err == nil && n >= 0
}

// criteriaFromQuery reads catalog filters from the query string. Absent keys keep
// the defaults: available items, featured order.
func criteriaFromQuery(c *fiber.Ctx) (catalog.Criteria, string, bool) {
	cr := catalog.DefaultCriteria()
	if q := c.Query("q"); strings.TrimSpace(q) != "" {
		term, ok := validate.Q(q)
		if !ok {
			return cr, "q", false
		}
		cr.Search = term
	}
	if s := c.Query("status"); s != "" {
		cr.Status = catalog.ParseStatus(s)
	}
	if s := c.Query("sort"); s != "" {
		cr.Sort = catalog.ParseSort(s)
	}
	cr.Brands = multi(c, "brand")
	cr.Sizes = multi(c, "size")
	cr.Conditions = multi(c, "condition")
	cr.Categories = multi(c, "category")

	if label := c.Query("price"); label != "" {
		p, ok := catalog.Preset(label)
		if !ok {
			return cr, "price", false
		}
		cr.MinPrice, cr.MaxPrice = p.Min, p.Max
	}
	if s := c.Query("minPrice"); s != "" {
		n, ok := nonNegative(s)
		if !ok {
			return cr, "minPrice", false
		}
		cr.MinPrice = n
	}
	if s := c.Query("maxPrice"); s != "" {
		n, ok := nonNegative(s)
		if !ok {
			return cr, "maxPrice", false
		}
		cr.MaxPrice = &n
	}
	return cr, "", true
}

// Derive is the stateless catalog endpoint: criteria and the visible count come
// from the query string.
func (h *CatalogHandler) Derive(c *fiber.Ctx) error {
	cr, field, ok := criteriaFromQuery(c)
	if !ok {
		return badRequest(c, field, "invalid "+field)
	}
	visible := c.QueryInt("visible", catalog.PageSize)
	products, err := h.Source.products(c)
	if err != nil {
		return fail(c, "catalog.load.fail", err)
	}
	v := catalog.Derive(products, cr, visible, time.Now())
	return c.JSON(fiber.Map{"criteria": cr, "view": toCatalogView(v, cr)})
}

func (h *CatalogHandler) Facets(c *fiber.Ctx) error {
	products, err := h.Source.products(c)
	if err != nil {
		return fail(c, "catalog.load.fail", err)
	}
	return c.JSON(catalog.BuildFacets(products, time.Now()))
}

func (h *CatalogHandler) sessionView(c *fiber.Ctx) error {
	products, err := h.Source.products(c)
	if err != nil {
		return fail(c, "catalog.load.fail", err)
	}
	v, st, err := h.Catalog.View(c.UserContext(), ensureSID(c), products)
	if err != nil {
		return fail(c, "catalog.state.fail", err)
	}
	return c.JSON(fiber.Map{"state": st, "view": toCatalogView(v, st.Criteria)})
}

func (h *CatalogHandler) State(c *fiber.Ctx) error {
	return h.sessionView(c)
}

func (h *CatalogHandler) Apply(c *fiber.Ctx) error {
	var cr catalog.Criteria
	if err := c.BodyParser(&cr); err != nil {
		return badRequest(c, "criteria", "invalid filter state")
	}
	if cr.Status == "" {
		cr.Status = catalog.StatusAvailable
	} else {
		cr.Status = catalog.ParseStatus(string(cr.Status))
	}
	cr.Sort = catalog.ParseSort(string(cr.Sort))
	if strings.TrimSpace(cr.Search) != "" {
		term, ok := validate.Q(cr.Search)
		if !ok {
			return badRequest(c, "search", "invalid search")
		}
		cr.Search = term
	}
	if cr.MinPrice < 0 || (cr.MaxPrice != nil && *cr.MaxPrice < 0) {
		return badRequest(c, "price", "invalid price range")
	}
	if _, err := h.Catalog.Apply(c.UserContext(), ensureSID(c), cr); err != nil {
		return fail(c, "catalog.apply.fail", err)
	}
	return h.sessionView(c)
}

func (h *CatalogHandler) More(c *fiber.Ctx) error {
	if _, err := h.Catalog.LoadMore(c.UserContext(), ensureSID(c)); err != nil {
		return fail(c, "catalog.more.fail", err)
	}
	return h.sessionView(c)
}

func (h *CatalogHandler) Reset(c *fiber.Ctx) error {
	if _, err := h.Catalog.Reset(c.UserContext(), ensureSID(c)); err != nil {
		return fail(c, "catalog.reset.fail", err)
	}
	return h.sessionView(c)
}

// Search records typed input; it starts filtering after the quiet period.
func (h *CatalogHandler) Search(c *fiber.Ctx) error {
	var in struct {
		Term string `json:"term" form:"term"`
	}
	if err := c.BodyParser(&in); err != nil {
		return badRequest(c, "term", "invalid search")
	}
	term := ""
	if strings.TrimSpace(in.Term) != "" {
		t, ok := validate.Q(in.Term)
		if !ok {
			return badRequest(c, "term", "invalid search")
		}
		term = t
	}
	if _, err := h.Catalog.Type(c.UserContext(), ensureSID(c), term); err != nil {
		return fail(c, "catalog.search.fail", err)
	}
	return h.sessionView(c)
}

// Home renders the shop page from the session's catalog state.
func (h *CatalogHandler) Home(c *fiber.Ctx) error {
	sid := ensureSID(c)
	theme, err := h.Prefs.Theme(c.UserContext(), sid)
	if err != nil {
		applog.Warn(c, "theme.read.fail", err, nil)
	}
	data := fiber.Map{"Theme": theme}

	_, st, err := h.Source.state(c)
	if err != nil {
		applog.Warn(c, "shop.source.fail", err, nil)
		data["Error"] = err.Error()
		return render(c, "shop", data)
	}
	data["Loading"] = st.Loading
	data["Warning"] = st.Warning
	data["Override"] = st.Override
	if err := hardFailure(st); err != nil {
		applog.Warn(c, "shop.load.fail", err, nil)
		data["Error"] = st.Error
		if !st.IsConfigError() {
			data["Error"] = msgLoadFailed
		}
		return render(c, "shop", data)
	}

	v, cs, err := h.Catalog.View(c.UserContext(), sid, st.Products)
	if err != nil {
		return err
	}
	data["View"] = toCatalogView(v, cs.Criteria)
	data["State"] = cs
	data["Facets"] = catalog.BuildFacets(st.Products, time.Now())
	if banners, err := h.Prefs.Banners(c.UserContext(), sid); err == nil {
		data["Banners"] = banners
	}
	return render(c, "shop", data)
}
