package handlers_test

import (
	"fmt"
	"net/url"
	"strings"
	"testing"

	"github.com/gofiber/fiber/v2"

	"thriftshop/internal/catalog"
	"thriftshop/internal/http/handlers"
)

type catalogBody struct {
	View struct {
		Fresh []struct {
			ID string `json:"id"`
		} `json:"freshItems"`
		PagedOther []struct {
			ID string `json:"id"`
		} `json:"pagedOtherItems"`
		TotalOther int  `json:"totalOtherCount"`
		Visible    int  `json:"visibleCount"`
		HasMore    bool `json:"hasMore"`
		Active     int  `json:"activeFilters"`
	} `json:"view"`
	State struct {
		Visible  int `json:"visible"`
		Criteria struct {
			Sort string `json:"sort"`
		} `json:"criteria"`
	} `json:"state"`
}

func (b catalogBody) ids() string {
	var out []string
	for _, p := range b.View.PagedOther {
		out = append(out, p.ID)
	}
	return strings.Join(out, ",")
}

func TestCatalog_QueryDerivation(t *testing.T) {
	app, _ := newTestApp(t, &fakeSheet{text: sampleSheet}, handlers.Limits{})
	c := newClient(t, app)

	var body catalogBody
	c.json("GET", "/api/v1/catalog", nil, fiber.StatusOK, &body)
	if body.ids() != "p1,p2" || body.View.Active != 0 {
		t.Fatalf("default view shows available items in sheet order, got %s", body.ids())
	}

	c.json("GET", "/api/v1/catalog?status=all&sort=price_desc", nil, fiber.StatusOK, &body)
	if body.ids() != "p2,p3,p1" {
		t.Fatalf("want price descending over all items, got %s", body.ids())
	}

	c.json("GET", "/api/v1/catalog?status=all&brand=Nike&brand=Zara", nil, fiber.StatusOK, &body)
	if body.ids() != "p1,p3" || body.View.Active != 3 {
		t.Fatalf("brand filter: got %s active=%d", body.ids(), body.View.Active)
	}

	c.json("GET", "/api/v1/catalog?price="+url.QueryEscape("Under ₹1000")+"&q=denim", nil, fiber.StatusOK, &body)
	if body.ids() != "p2" {
		t.Fatalf("search with price preset: got %s", body.ids())
	}

	for _, q := range []string{strings.Repeat("क", 17), "50%", "tee/top", "(vintage)"} {
		c.json("GET", "/api/v1/catalog?q="+url.QueryEscape(q), nil, fiber.StatusOK, &body)
		if body.View.TotalOther != 0 {
			t.Fatalf("q=%s should match nothing, got %s", q, body.ids())
		}
	}

	c.json("GET", "/api/v1/catalog?minPrice=-5", nil, fiber.StatusBadRequest, nil)
	c.json("GET", "/api/v1/catalog?price=cheap", nil, fiber.StatusBadRequest, nil)
}

func TestCatalog_Facets(t *testing.T) {
	app, _ := newTestApp(t, &fakeSheet{text: sampleSheet}, handlers.Limits{})
	c := newClient(t, app)

	var f catalog.Facets
	c.json("GET", "/api/v1/catalog/facets", nil, fiber.StatusOK, &f)
	if strings.Join(f.Brands, ",") != "Levis,Nike,Zara" {
		t.Fatalf("unexpected brands %v", f.Brands)
	}
	if strings.Join(f.Sizes, ",") != "S,M,L" {
		t.Fatalf("sizes follow the size order, got %v", f.Sizes)
	}
	if len(f.PricePresets) != len(catalog.PricePresets) {
		t.Fatal("price presets missing")
	}
}

func TestCatalog_SessionState(t *testing.T) {
	var rows []string
	for i := 0; i < 30; i++ {
		rows = append(rows, fmt.Sprintf("x%02d,Item,,100,,,Tops,Nike,M,,,Good,FALSE,false,2020-01-01,", i))
	}
	app, _ := newTestApp(t, &fakeSheet{text: sheetCSV(rows...)}, handlers.Limits{})
	c := newClient(t, app)

	var body catalogBody
	c.json("GET", "/api/v1/catalog/state", nil, fiber.StatusOK, &body)
	if len(body.View.PagedOther) != catalog.PageSize || !body.View.HasMore || body.View.TotalOther != 30 {
		t.Fatalf("first page: %+v", body.View)
	}

	c.json("POST", "/api/v1/catalog/state/more", nil, fiber.StatusOK, &body)
	c.json("POST", "/api/v1/catalog/state/more", nil, fiber.StatusOK, &body)
	if len(body.View.PagedOther) != 30 || body.View.HasMore || body.State.Visible != 36 {
		t.Fatalf("after two pages: shown=%d visible=%d", len(body.View.PagedOther), body.State.Visible)
	}

	c.json("PUT", "/api/v1/catalog/state", map[string]any{"status": "Available", "sort": "NameAsc"}, fiber.StatusOK, &body)
	if body.State.Visible != catalog.PageSize || body.State.Criteria.Sort != "NameAsc" {
		t.Fatalf("criteria change resets paging: %+v", body.State)
	}

	c.json("POST", "/api/v1/catalog/state/reset", nil, fiber.StatusOK, &body)
	if body.State.Criteria.Sort != "Featured" {
		t.Fatalf("reset restores defaults: %+v", body.State)
	}
}

func TestHome_RendersShop(t *testing.T) {
	app, _ := newTestApp(t, &fakeSheet{text: sampleSheet}, handlers.Limits{})
	c := newClient(t, app)

	resp, out := c.do("GET", "/", nil)
	if resp.StatusCode != fiber.StatusOK {
		t.Fatalf("want 200, got %d", resp.StatusCode)
	}
	s := string(out)
	if !strings.Contains(s, "Tee") || !strings.Contains(s, "₹300") {
		t.Fatalf("shop page missing products: %s", s)
	}
	if strings.Contains(s, "Shirt") {
		t.Fatal("sold items are hidden by default")
	}
	if !strings.Contains(s, `data-theme="light"`) {
		t.Fatal("default theme not applied")
	}
}
