package handlers_test

import (
	"strings"
	"testing"

	"github.com/gofiber/fiber/v2"

	"thriftshop/internal/http/handlers"
)

func TestSavedItems(t *testing.T) {
	app, _ := newTestApp(t, &fakeSheet{text: sampleSheet}, handlers.Limits{})
	c := newClient(t, app)
	c.json("GET", "/api/v1/saved", nil, fiber.StatusOK, nil)

	c.json("POST", "/api/v1/saved", map[string]string{"productId": "p2"}, fiber.StatusOK, nil)
	c.json("POST", "/api/v1/saved", map[string]string{"productId": "p1"}, fiber.StatusOK, nil)
	c.json("POST", "/api/v1/saved", map[string]string{"productId": ""}, fiber.StatusBadRequest, nil)

	var list struct {
		IDs   []string `json:"ids"`
		Items []struct {
			ID         string `json:"id"`
			PriceLabel string `json:"priceLabel"`
		} `json:"items"`
	}
	c.json("GET", "/api/v1/saved", nil, fiber.StatusOK, &list)
	if len(list.Items) != 2 || list.Items[0].PriceLabel == "" {
		t.Fatalf("unexpected saved list %+v", list)
	}

	c.json("DELETE", "/api/v1/saved/p2", nil, fiber.StatusOK, nil)
	c.json("GET", "/api/v1/saved", nil, fiber.StatusOK, &list)
	if len(list.IDs) != 1 || list.IDs[0] != "p1" {
		t.Fatalf("unsave failed: %v", list.IDs)
	}
}

func TestThemeAndBanners(t *testing.T) {
	app, _ := newTestApp(t, &fakeSheet{text: sampleSheet}, handlers.Limits{})
	c := newClient(t, app)

	var theme struct {
		Theme string `json:"theme"`
	}
	c.json("GET", "/api/v1/theme", nil, fiber.StatusOK, &theme)
	if theme.Theme != "light" {
		t.Fatalf("default theme is light, got %q", theme.Theme)
	}
	c.json("POST", "/api/v1/theme/cycle", nil, fiber.StatusOK, &theme)
	if theme.Theme != "dark" {
		t.Fatalf("light cycles to dark, got %q", theme.Theme)
	}
	_, page := c.do("GET", "/", nil)
	if !strings.Contains(string(page), `data-theme="dark"`) {
		t.Fatal("shop page should use the session theme")
	}

	c.json("POST", "/api/v1/banners/welcome/dismiss", nil, fiber.StatusOK, nil)
	c.json("POST", "/api/v1/banners/Not%20A%20Slug/dismiss", nil, fiber.StatusBadRequest, nil)
	var banners struct {
		Dismissed map[string]bool `json:"dismissed"`
	}
	c.json("GET", "/api/v1/banners", nil, fiber.StatusOK, &banners)
	if !banners.Dismissed["welcome"] || len(banners.Dismissed) != 1 {
		t.Fatalf("unexpected banner flags %v", banners.Dismissed)
	}
}

func TestHealthz(t *testing.T) {
	app, _ := newTestApp(t, &fakeSheet{text: sampleSheet}, handlers.Limits{})
	c := newClient(t, app)
	var body map[string]bool
	c.json("GET", "/healthz", nil, fiber.StatusOK, &body)
	if !body["ok"] {
		t.Fatal("healthz should report ok")
	}
}
