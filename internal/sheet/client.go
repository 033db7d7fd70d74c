package sheet

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"mime"
	"net/http"
	"strings"
	"time"

	"thriftshop/internal/domain"
)

// maxBody caps a sheet download; a published catalog is a few hundred KB at most.
const maxBody = 8 << 20

// Fetcher returns the raw CSV text at url.
type Fetcher interface {
	Fetch(ctx context.Context, url string) (string, error)
}

type Client struct {
	HTTP  *http.Client
	Proxy string // CORS relay prefix, e.g. https://cors.eu.org/
	// MaxBody overrides the download cap when positive.
	MaxBody int64
}

func NewClient(proxy string, timeout time.Duration) *Client {
	return &Client{HTTP: &http.Client{Timeout: timeout}, Proxy: proxy}
}

func (c *Client) target(url string) string {
	if c.Proxy == "" {
		return url
	}
	return c.Proxy + url
}

func (c *Client) Fetch(ctx context.Context, url string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.target(url), nil)
	if err != nil {
		return "", &domain.FetchError{URL: url, Err: err}
	}
	req.Header.Set("Accept", "text/csv, text/plain;q=0.9, */*;q=0.1")

	hc := c.HTTP
	if hc == nil {
		hc = http.DefaultClient
	}
	resp, err := hc.Do(req)
	if err != nil {
		return "", &domain.FetchError{URL: url, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return "", &domain.FetchError{URL: url, Status: resp.StatusCode}
	}
	limit := int64(maxBody)
	if c.MaxBody > 0 {
		limit = c.MaxBody
	}
	body, err := io.ReadAll(io.LimitReader(resp.Body, limit+1))
	if err != nil {
		return "", &domain.FetchError{URL: url, Status: resp.StatusCode, Err: err}
	}
	if int64(len(body)) > limit {
		return "", &domain.FetchError{URL: url, Status: resp.StatusCode,
			Err: fmt.Errorf("sheet larger than %d bytes", limit)}
	}
	if looksLikeHTML(resp.Header.Get("Content-Type"), body) {
		return "", &domain.FetchError{URL: url, Status: resp.StatusCode, HTML: true}
	}
	return string(body), nil
}

// looksLikeHTML catches login and error pages served when a sheet is not published.
func looksLikeHTML(contentType string, body []byte) bool {
	if mt, _, err := mime.ParseMediaType(contentType); err == nil && mt == "text/html" {
		return true
	}
	head := bytes.TrimSpace(body)
	if len(head) > 64 {
		head = head[:64]
	}
	h := strings.ToLower(string(head))
	return strings.HasPrefix(h, "<!doctype html") || strings.HasPrefix(h, "<html")
}
