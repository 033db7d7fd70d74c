package handlers

import (
	"thriftshop/internal/cart"
	"thriftshop/internal/clients"
	"thriftshop/internal/config"
	"thriftshop/internal/repos"
	"thriftshop/internal/services"
	"thriftshop/internal/sheet"
)

type Deps struct {
	Registry *services.ProductRegistry
	Stats    *services.Stats

	ProductHandler *ProductHandler
	CatalogHandler *CatalogHandler
	CartHandler    *CartHandler
	OrderHandler   *OrderHandler
	SavedHandler   *SavedHandler
	PrefsHandler   *PrefsHandler
}

func NewDeps(kv repos.KV, cfg config.Config, fetcher sheet.Fetcher) *Deps {
	stats := &services.Stats{}
	cache := services.NewProductCache(kv, cfg.CacheTTL, stats)
	registry := services.NewProductRegistry(services.RegistryConfig{
		DefaultURL:    cfg.CSVURL,
		AllowOverride: cfg.AllowCSVOverride,
		AllowedHosts:  cfg.OverrideHosts,
		MaxOverrides:  cfg.MaxOverrideSources,
		FetchTimeout:  cfg.FetchTimeout,
	}, fetcher, cache, kv, stats)

	// A nil *OrderScript must not end up inside the interface.
	var script services.OrderSubmitter
	if cfg.OrderScriptURL != "" {
		script = clients.NewOrderScript(cfg.OrderScriptURL, cfg.OrderRatePerMin, cfg.FetchTimeout)
	}
	composer := cart.Composer{
		StoreName:       cfg.StoreName,
		WhatsAppNumber:  cfg.WhatsAppNumber,
		InstagramHandle: cfg.InstagramHandle,
	}

	src := catalogSource{Registry: registry}
	cartSvc := services.NewCartService(kv)
	orderSvc := services.NewOrderService(cartSvc, composer, script, stats)
	catalogSvc := services.NewCatalogService(kv)
	prefsSvc := services.NewPrefsService(kv)

	return &Deps{
		Registry: registry,
		Stats:    stats,

		ProductHandler: &ProductHandler{Source: src, Recent: services.NewRecentService(kv), Stats: stats},
		CatalogHandler: &CatalogHandler{Source: src, Catalog: catalogSvc, Prefs: prefsSvc},
		CartHandler:    &CartHandler{Source: src, Cart: cartSvc},
		OrderHandler:   &OrderHandler{Source: src, Order: orderSvc},
		SavedHandler:   &SavedHandler{Source: src, Saved: services.NewSavedService(kv)},
		PrefsHandler:   &PrefsHandler{Prefs: prefsSvc},
	}
}
