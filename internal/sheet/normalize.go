package sheet

import (
	"strconv"
	"strings"
	"time"

	"thriftshop/internal/domain"
)

// dateLayouts are tried in order; the slash layouts are Google Sheets' default export.
var dateLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02",
	"1/2/2006 15:04:05",
	"1/2/2006",
}

func parseDate(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, false
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t.UTC(), true
		}
	}
	return time.Time{}, false
}

// parsePrice reads the leading integer of s, so "900", "900.50" and "900 INR" are all 900.
func parsePrice(s string) (int64, bool) {
	s = strings.TrimSpace(s)
	end := 0
	if end < len(s) && (s[end] == '-' || s[end] == '+') {
		end++
	}
	start := end
	for end < len(s) && s[end] >= '0' && s[end] <= '9' {
		end++
	}
	if end == start {
		return 0, false
	}
	n, err := strconv.ParseInt(s[:end], 10, 64)
	if err != nil {
		return 0, false
	}
	return n, true
}

func splitURLs(s string) []string {
	out := []string{}
	for _, u := range strings.Split(s, ",") {
		if u = strings.TrimSpace(u); u != "" {
			out = append(out, u)
		}
	}
	return out
}

// Normalize maps a raw row to a Product. Rejected rows come back as *domain.ParseError.
func Normalize(rec Record) (domain.Product, error) {
	id := strings.TrimSpace(rec.Get("id"))
	if id == "" {
		return domain.Product{}, &domain.ParseError{Row: rec.Line, Field: "id", Reason: "missing id"}
	}
	price, ok := parsePrice(rec.Get("price"))
	if !ok {
		return domain.Product{}, &domain.ParseError{Row: rec.Line, ID: id, Field: "price", Reason: "not a number: " + strconv.Quote(rec.Get("price"))}
	}
	if price < 0 {
		return domain.Product{}, &domain.ParseError{Row: rec.Line, ID: id, Field: "price", Reason: "negative price"}
	}

	p := domain.Product{
		ID:          id,
		Name:        rec.Get("name"),
		Description: rec.Get("description"),
		Price:       price,
		ImageURLs:   splitURLs(rec.Get("imageUrls")),
		VideoURL:    strings.TrimSpace(rec.Get("videoUrl")),
		Category:    rec.Get("category"),
		Brand:       rec.Get("brand"),
		Size:        rec.Get("size"),
		Measurements: domain.Measurements{
			Bust:   rec.Get("bust"),
			Length: rec.Get("length"),
		},
		Condition:  rec.Get("condition"),
		Sold:       strings.EqualFold(strings.TrimSpace(rec.Get("sold")), "TRUE"),
		IsUpcoming: domain.ParseUpcoming(rec.Get("isUpcoming")),
		CreatedAt:  time.Unix(0, 0).UTC(),
	}
	if t, ok := parseDate(rec.Get("createdAt")); ok {
		p.CreatedAt = t
	}
	if t, ok := parseDate(rec.Get("dropDate")); ok {
		p.DropDate = &t
	}
	return p, nil
}
