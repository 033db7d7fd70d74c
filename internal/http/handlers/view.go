package handlers

import (
	"time"

	"thriftshop/internal/catalog"
	"thriftshop/internal/domain"
	"thriftshop/internal/money"
	"thriftshop/internal/sheet"
)

const imageWidth = 800

// productView is a product as pages and API clients render it: Drive links
// resolved to embeddable URLs and the price formatted.
type productView struct {
	domain.Product
	Images     []string `json:"images"`
	Video      string   `json:"video,omitempty"`
	PriceLabel string   `json:"priceLabel"`
}

func toView(p domain.Product) productView {
	v := productView{Product: p, PriceLabel: money.Rupees(p.Price)}
	v.Images = make([]string, 0, len(p.ImageURLs))
	for _, u := range p.ImageURLs {
		v.Images = append(v.Images, sheet.FormatDriveLink(u, sheet.Image, imageWidth))
	}
	if p.VideoURL != "" {
		v.Video = sheet.FormatDriveLink(p.VideoURL, sheet.Video, 0)
	}
	return v
}

func toViews(ps []domain.Product) []productView {
	out := make([]productView, 0, len(ps))
	for _, p := range ps {
		out = append(out, toView(p))
	}
	return out
}

type catalogView struct {
	Fresh      []productView `json:"freshItems"`
	PagedOther []productView `json:"pagedOtherItems"`
	TotalOther int           `json:"totalOtherCount"`
	Visible    int           `json:"visibleCount"`
	HasMore    bool          `json:"hasMore"`
	Active     int           `json:"activeFilters"`
}

func toCatalogView(v catalog.View, c catalog.Criteria) catalogView {
	return catalogView{
		Fresh:      toViews(v.Fresh),
		PagedOther: toViews(v.PagedOther),
		TotalOther: v.TotalOther,
		Visible:    v.Visible,
		HasMore:    v.HasMore,
		Active:     catalog.ActiveFilterCount(c),
	}
}

// byIDs picks products in ids order, skipping ids missing from the catalog.
func byIDs(ps []domain.Product, ids []string, now time.Time) []productView {
	index := make(map[string]domain.Product, len(ps))
	for _, p := range ps {
		if p.Live(now) {
			index[p.ID] = p
		}
	}
	out := make([]productView, 0, len(ids))
	for _, id := range ids {
		if p, ok := index[id]; ok {
			out = append(out, toView(p))
		}
	}
	return out
}
