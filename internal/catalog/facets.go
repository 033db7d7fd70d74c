package catalog

import (
	"slices"
	"time"

	"thriftshop/internal/domain"
)

// SizeOrder is the display order of the size filter.
var SizeOrder = []string{"XS", "S", "M", "L", "XL", "XXL", "3XL", "4XL"}

type Facets struct {
	Brands       []string      `json:"brands"`
	Sizes        []string      `json:"sizes"`
	Conditions   []string      `json:"conditions"`
	Categories   []string      `json:"categories"`
	Statuses     []Status      `json:"statuses"`
	PricePresets []PricePreset `json:"pricePresets"`
}

// BuildFacets lists the filter options present among live products.
func BuildFacets(products []domain.Product, now time.Time) Facets {
	var brands, conditions, categories []string
	sizes := map[string]bool{}
	for _, p := range Live(products, now) {
		brands = append(brands, p.Brand)
		conditions = append(conditions, p.Condition)
		categories = append(categories, p.Category)
		sizes[p.Size] = true
	}
	f := Facets{
		Brands:       uniqueSorted(brands),
		Conditions:   uniqueSorted(conditions),
		Categories:   uniqueSorted(categories),
		Sizes:        []string{},
		Statuses:     []Status{StatusAll, StatusAvailable, StatusSoldOut},
		PricePresets: PricePresets,
	}
	for _, s := range SizeOrder {
		if sizes[s] {
			f.Sizes = append(f.Sizes, s)
		}
	}
	return f
}

func uniqueSorted(vs []string) []string {
	out := make([]string, 0, len(vs))
	for _, v := range vs {
		if v != "" {
			out = append(out, v)
		}
	}
	slices.Sort(out)
	return slices.Compact(out)
}
