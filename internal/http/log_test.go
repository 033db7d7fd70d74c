package handlers_test

import (
	"testing"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"thriftshop/internal/http/handlers"
	applog "thriftshop/internal/log"
)

func captureLogs(t *testing.T) *observer.ObservedLogs {
	t.Helper()
	core, logs := observer.New(zapcore.DebugLevel)
	applog.Use(zap.New(core))
	t.Cleanup(func() { applog.Use(zap.NewNop()) })
	return logs
}

// security events are logged with the request context
func TestSecurityEventsLogged(t *testing.T) {
	logs := captureLogs(t)
	app, _ := newTestApp(t, &fakeSheet{text: sampleSheet}, handlers.Limits{Refetch: 1})
	c := newClient(t, app)
	c.json("GET", "/api/v1/cart", nil, fiber.StatusOK, nil)

	c.noToken = true
	c.do("POST", "/api/v1/cart", map[string]string{"productId": "p1"})
	c.noToken = false

	csrfFails := logs.FilterMessage("csrf.fail").All()
	if len(csrfFails) != 1 {
		t.Fatalf("expected one csrf.fail entry, got %d", len(csrfFails))
	}
	ctx := csrfFails[0].ContextMap()
	if ctx["security"] != true || ctx["path"] != "/api/v1/cart" || ctx["method"] != "POST" {
		t.Fatalf("missing request context: %v", ctx)
	}

	c.json("POST", "/api/v1/products/refetch", nil, fiber.StatusOK, nil)
	c.json("POST", "/api/v1/products/refetch", nil, fiber.StatusTooManyRequests, nil)
	if logs.FilterMessage("rate.refetch.hit").Len() != 1 {
		t.Fatal("expected rate.refetch.hit log")
	}
}

func TestAuditTrail(t *testing.T) {
	logs := captureLogs(t)
	app, _ := newTestApp(t, &fakeSheet{text: sampleSheet}, handlers.Limits{})
	c := newClient(t, app)
	c.json("GET", "/api/v1/cart", nil, fiber.StatusOK, nil)
	c.json("POST", "/api/v1/cart", map[string]string{"productId": "p1"}, fiber.StatusOK, nil)
	c.json("POST", "/api/v1/checkout/handoff", nil, fiber.StatusOK, nil)

	adds := logs.FilterMessage("cart.add").All()
	if len(adds) != 1 || adds[0].ContextMap()["audit"] != true {
		t.Fatalf("expected audited cart.add, got %v", adds)
	}
	if logs.FilterMessage("checkout.handoff").Len() != 1 {
		t.Fatal("expected checkout.handoff log")
	}
	if logs.FilterMessage("sheet_load_failed").Len() != 0 {
		t.Fatal("healthy sheet should not log load failures")
	}
}
