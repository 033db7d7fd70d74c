package sheet

import (
	"net/url"
	"strings"

	"thriftshop/internal/domain"
)

// Source is the CSV location a catalog is loaded from.
type Source struct {
	URL      string
	Override bool // came from a csv_url parameter rather than configuration
}

// ResolveSource picks the override when present, otherwise the configured default.
func ResolveSource(defaultURL, override string) (Source, error) {
	src := Source{URL: strings.TrimSpace(defaultURL)}
	if o := strings.TrimSpace(override); o != "" {
		src = Source{URL: o, Override: true}
	}
	if src.URL == "" {
		return Source{}, &domain.ConfigurationError{Reason: "no product sheet configured; set CSV_URL or pass csv_url"}
	}
	u, err := url.Parse(src.URL)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return Source{}, &domain.ConfigurationError{Reason: "product sheet URL must be an http(s) link: " + src.URL}
	}
	return src, nil
}

// HostAllowed reports whether rawURL points at one of hosts or a subdomain of one.
func HostAllowed(rawURL string, hosts []string) bool {
	u, err := url.Parse(rawURL)
	if err != nil {
		return false
	}
	h := strings.ToLower(u.Hostname())
	if h == "" {
		return false
	}
	for _, allowed := range hosts {
		allowed = strings.ToLower(strings.TrimSpace(allowed))
		if allowed != "" && (h == allowed || strings.HasSuffix(h, "."+allowed)) {
			return true
		}
	}
	return false
}
