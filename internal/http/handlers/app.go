package handlers

import (
	"errors"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/csrf"
	"github.com/gofiber/fiber/v2/middleware/helmet"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	html "github.com/gofiber/template/html/v2"

	"thriftshop/internal/config"
	applog "thriftshop/internal/log"
)

// Limits is the per-IP request budget. Zero fields take the defaults.
type Limits struct {
	Global  int // per minute, every route
	Refetch int // per minute, manual catalog refresh
	Orders  int // per ten minutes, automated submissions
}

func (l Limits) withDefaults() Limits {
	if l.Global <= 0 {
		l.Global = 120
	}
	if l.Refetch <= 0 {
		l.Refetch = 6
	}
	if l.Orders <= 0 {
		l.Orders = 5
	}
	return l
}

func isAPI(c *fiber.Ctx) bool {
	return strings.HasPrefix(c.Path(), "/api/")
}

// errorHandler logs and answers with a friendly message that leaks no internals.
func errorHandler(c *fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError
	msg := msgGeneric
	var fe *fiber.Error
	if errors.As(err, &fe) {
		code = fe.Code
		if code < fiber.StatusInternalServerError {
			msg = fe.Message
		}
	}
	if code >= fiber.StatusInternalServerError {
		applog.Error(c, "server.error", err, nil)
	} else {
		applog.Warn(c, "request.error", err, nil)
	}

	if isAPI(c) {
		return c.Status(code).JSON(fiber.Map{"error": msg})
	}
	if rerr := c.Status(code).Render("notfound", fiber.Map{"Message": msg}); rerr != nil {
		return c.Status(code).SendString(msg)
	}
	return nil
}

func rateLimited(action string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		applog.Security(c, action, nil)
		if isAPI(c) {
			return c.Status(fiber.StatusTooManyRequests).JSON(fiber.Map{"error": "rate limit exceeded, retry soon"})
		}
		return c.Status(fiber.StatusTooManyRequests).Render("notfound", fiber.Map{"Message": "Too many requests. Please try again later."})
	}
}

// NewApp builds the fiber app with its middleware and routes.
func NewApp(cfg config.Config, deps *Deps, limits Limits) *fiber.App {
	limits = limits.withDefaults()

	engine := html.New(cfg.TemplatesDir, ".html")
	engine.Reload(cfg.AppEnv != "production")

	app := fiber.New(fiber.Config{
		Views:        engine,
		ErrorHandler: errorHandler,
	})
	// Global body size guard
	app.Server().MaxRequestBodySize = 1 << 20 // 1 MiB

	// ---------- Middlewares ----------
	app.Use(requestid.New())
	app.Use(logger.New())
	// product media is served from Google Drive
	app.Use(helmet.New(helmet.Config{CrossOriginEmbedderPolicy: "unsafe-none"}))
	app.Use(cors.New(cors.Config{
		AllowOrigins: cfg.CORSOrigins,
		AllowHeaders: "Origin, Content-Type, Accept, X-Csrf-Token",
	}))
	app.Use(limiter.New(limiter.Config{
		Max:          limits.Global,
		Expiration:   time.Minute,
		LimitReached: rateLimited("rate.global.hit"),
	}))
	app.Use(csrf.New(csrf.Config{
		KeyLookup:      "header:X-Csrf-Token",
		CookieName:     "csrf_",
		CookieSameSite: "Lax",
		CookieSecure:   cfg.AppEnv == "production",
		ContextKey:     csrfKey,
		Expiration:     time.Hour,
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			applog.Security(c, "csrf.fail", map[string]any{"reason": err.Error()})
			if isAPI(c) {
				return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"error": "Security check failed. Please refresh and try again."})
			}
			return c.Status(fiber.StatusForbidden).Render("notfound", fiber.Map{"Message": "Security check failed. Please refresh and try again."})
		},
	}))

	// ---------- Pages ----------
	app.Get("/", deps.CatalogHandler.Home)
	app.Get("/healthz", func(c *fiber.Ctx) error { return c.JSON(fiber.Map{"ok": true}) })

	// ---------- API ----------
	api := app.Group("/api/v1")

	api.Get("/products", deps.ProductHandler.List)
	api.Post("/products/refetch", limiter.New(limiter.Config{
		Max:        limits.Refetch,
		Expiration: time.Minute,
		KeyGenerator: func(c *fiber.Ctx) string {
			return c.IP() + "|refetch"
		},
		LimitReached: rateLimited("rate.refetch.hit"),
	}), deps.ProductHandler.Refetch)
	api.Get("/products/:id", deps.ProductHandler.Detail)
	api.Get("/recent", deps.ProductHandler.RecentlyViewed)
	api.Get("/stats", deps.ProductHandler.StatsView)
	api.Get("/stats/sheet", deps.ProductHandler.SheetReport)

	api.Get("/catalog", deps.CatalogHandler.Derive)
	api.Delete("/catalog/source", deps.ProductHandler.ClearSource)
	api.Get("/catalog/facets", deps.CatalogHandler.Facets)
	api.Get("/catalog/state", deps.CatalogHandler.State)
	api.Put("/catalog/state", deps.CatalogHandler.Apply)
	api.Post("/catalog/state/more", deps.CatalogHandler.More)
	api.Post("/catalog/state/reset", deps.CatalogHandler.Reset)
	api.Post("/catalog/state/search", deps.CatalogHandler.Search)

	api.Get("/cart", deps.CartHandler.View)
	api.Post("/cart", deps.CartHandler.Add)
	api.Delete("/cart/:id", deps.CartHandler.Remove)

	api.Post("/checkout/messages", deps.OrderHandler.Messages)
	api.Post("/checkout/handoff", deps.OrderHandler.Handoff)
	api.Post("/orders", limiter.New(limiter.Config{
		Max:        limits.Orders,
		Expiration: 10 * time.Minute,
		KeyGenerator: func(c *fiber.Ctx) string {
			return c.IP() + "|orders"
		},
		LimitReached: rateLimited("rate.orders.hit"),
	}), deps.OrderHandler.Submit)

	api.Get("/saved", deps.SavedHandler.List)
	api.Post("/saved", deps.SavedHandler.Save)
	api.Delete("/saved/:id", deps.SavedHandler.Unsave)

	api.Get("/theme", deps.PrefsHandler.Theme)
	api.Post("/theme/cycle", deps.PrefsHandler.CycleTheme)
	api.Get("/banners", deps.PrefsHandler.Banners)
	api.Post("/banners/:name/dismiss", deps.PrefsHandler.Dismiss)

	// 404
	app.Use(func(c *fiber.Ctx) error {
		if isAPI(c) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Not found"})
		}
		return c.Status(fiber.StatusNotFound).Render("notfound", fiber.Map{"Message": "Page not found"})
	})

	return app
}
