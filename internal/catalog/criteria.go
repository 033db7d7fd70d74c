package catalog

import (
	"slices"
	"strings"

	"thriftshop/internal/domain"
)

type Status string

const (
	StatusAll       Status = "All"
	StatusAvailable Status = "Available"
	StatusSoldOut   Status = "Sold Out"
)

// ParseStatus maps user input onto a Status. Unknown values mean All.
func ParseStatus(s string) Status {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "available":
		return StatusAvailable
	case "sold out", "sold_out", "soldout", "sold":
		return StatusSoldOut
	default:
		return StatusAll
	}
}

type Sort string

const (
	SortFeatured  Sort = "Featured"
	SortNewest    Sort = "Newest"
	SortPriceAsc  Sort = "PriceAsc"
	SortPriceDesc Sort = "PriceDesc"
	SortNameAsc   Sort = "NameAsc"
)

func ParseSort(s string) Sort {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "newest":
		return SortNewest
	case "priceasc", "price_asc", "price-asc":
		return SortPriceAsc
	case "pricedesc", "price_desc", "price-desc":
		return SortPriceDesc
	case "nameasc", "name_asc", "name", "name-asc":
		return SortNameAsc
	default:
		return SortFeatured
	}
}

// Criteria is every user-settable catalog filter. The zero value matches everything.
type Criteria struct {
	Search     string   `json:"search"`
	Status     Status   `json:"status"`
	Brands     []string `json:"brands"`
	Sizes      []string `json:"sizes"`
	Conditions []string `json:"conditions"`
	Categories []string `json:"categories"`
	MinPrice   int64    `json:"minPrice"`
	MaxPrice   *int64   `json:"maxPrice,omitempty"` // nil is unbounded
	Sort       Sort     `json:"sort"`
}

// DefaultCriteria is what a new shopper starts with: only available items, source order.
func DefaultCriteria() Criteria {
	return Criteria{Status: StatusAvailable, Sort: SortFeatured}
}

func inSet(set []string, v string) bool {
	return len(set) == 0 || slices.Contains(set, v)
}

func (c Criteria) Matches(p domain.Product) bool {
	switch c.Status {
	case StatusAvailable:
		if p.Sold {
			return false
		}
	case StatusSoldOut:
		if !p.Sold {
			return false
		}
	}
	if !inSet(c.Brands, p.Brand) || !inSet(c.Sizes, p.Size) ||
		!inSet(c.Conditions, p.Condition) || !inSet(c.Categories, p.Category) {
		return false
	}
	if p.Price < c.MinPrice || (c.MaxPrice != nil && p.Price > *c.MaxPrice) {
		return false
	}
	if q := strings.ToLower(strings.TrimSpace(c.Search)); q != "" {
		hay := strings.ToLower(p.Name + "\x00" + p.Brand + "\x00" + p.Category + "\x00" + p.Description)
		return strings.Contains(hay, q)
	}
	return true
}

// Equal compares criteria as sets where order does not matter to the result.
func (c Criteria) Equal(o Criteria) bool {
	if c.Search != o.Search || c.Status != o.Status || c.Sort != o.Sort || c.MinPrice != o.MinPrice {
		return false
	}
	if (c.MaxPrice == nil) != (o.MaxPrice == nil) || (c.MaxPrice != nil && *c.MaxPrice != *o.MaxPrice) {
		return false
	}
	return sameSet(c.Brands, o.Brands) && sameSet(c.Sizes, o.Sizes) &&
		sameSet(c.Conditions, o.Conditions) && sameSet(c.Categories, o.Categories)
}

func sameSet(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	x, y := slices.Clone(a), slices.Clone(b)
	slices.Sort(x)
	slices.Sort(y)
	return slices.Equal(x, y)
}

// ActiveFilterCount is the badge number on the filter button: one per narrowing choice.
func ActiveFilterCount(c Criteria) int {
	n := len(c.Brands) + len(c.Sizes) + len(c.Conditions) + len(c.Categories)
	if strings.TrimSpace(c.Search) != "" {
		n++
	}
	if c.Status != StatusAvailable {
		n++
	}
	if c.MinPrice > 0 || c.MaxPrice != nil {
		n++
	}
	return n
}

// PricePreset is one entry of the price dropdown.
type PricePreset struct {
	Label string `json:"label"`
	Min   int64  `json:"min"`
	Max   *int64 `json:"max,omitempty"`
}

func ptr(n int64) *int64 { return &n }

var PricePresets = []PricePreset{
	{Label: "All"},
	{Label: "Under ₹1000", Max: ptr(999)},
	{Label: "₹1000 - ₹1500", Min: 1000, Max: ptr(1500)},
	{Label: "Over ₹1500", Min: 1501},
}

// Preset looks up a preset by label.
func Preset(label string) (PricePreset, bool) {
	for _, p := range PricePresets {
		if p.Label == label {
			return p, true
		}
	}
	return PricePreset{}, false
}
