package handlers_test

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"

	"thriftshop/internal/config"
	"thriftshop/internal/http/handlers"
	"thriftshop/internal/repos"
)

const sheetHeader = "id,name,description,price,imageUrls,videoUrl,category,brand,size,bust,length,condition,sold,isUpcoming,createdAt,dropDate"

func sheetCSV(rows ...string) string {
	return strings.Join(append([]string{sheetHeader}, rows...), "\n")
}

var sampleSheet = sheetCSV(
	`p1,Tee,Soft cotton,300,https://drive.google.com/file/d/img1/view,,Tops,Nike,M,38,26,Good,FALSE,false,2020-01-01,`,
	`p2,Jacket,Denim,600,,,Outerwear,Levis,L,42,28,Great,FALSE,false,2020-01-02,`,
	`p3,Shirt,Linen,450,,,Tops,Zara,S,36,25,Good,TRUE,false,2020-01-03,`,
	`bad,Broken,,notanumber,,,Tops,Nike,M,,,Good,FALSE,false,,`,
)

type fakeSheet struct {
	mu   sync.Mutex
	text string
	err  error
}

func (f *fakeSheet) Fetch(ctx context.Context, url string) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.text, f.err
}

func testConfig() config.Config {
	return config.Config{
		AppEnv:             "test",
		TemplatesDir:       "../../web/templates",
		CORSOrigins:        "*",
		CSVURL:             "https://sheet.example/export?format=csv",
		AllowCSVOverride:   true,
		OverrideHosts:      []string{"example"},
		MaxOverrideSources: 4,
		CacheTTL:           15 * time.Minute,
		FetchTimeout:       time.Second,
		WhatsAppNumber:     "919760427922",
		InstagramHandle:    "thriftbymusk",
		StoreName:          "Thrift by Musk",
	}
}

func memkv(t *testing.T) repos.KV {
	t.Helper()
	db, err := repos.OpenDB(":memory:")
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })
	return repos.NewKVRepo(db)
}

func newTestApp(t *testing.T, f *fakeSheet, limits handlers.Limits, opts ...func(*config.Config)) (*fiber.App, *handlers.Deps) {
	t.Helper()
	cfg := testConfig()
	for _, o := range opts {
		o(&cfg)
	}
	deps := handlers.NewDeps(memkv(t), cfg, f)
	return handlers.NewApp(cfg, deps, limits), deps
}

// client keeps cookies between requests and sends the csrf token back as a header.
type client struct {
	t       *testing.T
	app     *fiber.App
	cookies map[string]string
	noToken bool
}

func newClient(t *testing.T, app *fiber.App) *client {
	return &client{t: t, app: app, cookies: map[string]string{}}
}

func (c *client) do(method, path string, body any) (*http.Response, []byte) {
	c.t.Helper()
	var rd io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			c.t.Fatalf("marshal: %v", err)
		}
		rd = bytes.NewReader(b)
	}
	req := httptest.NewRequest(method, path, rd)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	for name, v := range c.cookies {
		req.AddCookie(&http.Cookie{Name: name, Value: v})
	}
	if tok := c.cookies["csrf_"]; tok != "" && !c.noToken {
		req.Header.Set("X-Csrf-Token", tok)
	}
	resp, err := c.app.Test(req, 5000)
	if err != nil {
		c.t.Fatalf("%s %s: %v", method, path, err)
	}
	for _, ck := range resp.Cookies() {
		c.cookies[ck.Name] = ck.Value
	}
	out, _ := io.ReadAll(resp.Body)
	return resp, out
}

func (c *client) json(method, path string, body any, want int, dst any) {
	c.t.Helper()
	resp, out := c.do(method, path, body)
	if resp.StatusCode != want {
		c.t.Fatalf("%s %s: want %d, got %d body=%s", method, path, want, resp.StatusCode, out)
	}
	if dst != nil {
		if err := json.Unmarshal(out, dst); err != nil {
			c.t.Fatalf("%s %s: decode: %v body=%s", method, path, err, out)
		}
	}
}
