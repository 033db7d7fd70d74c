// Package catalog derives the shop views from a product list and the shopper's filters.
// Everything here is pure: the same inputs always give the same view.
package catalog

import (
	"cmp"
	"slices"
	"strings"
	"time"

	"thriftshop/internal/domain"
)

const (
	PageSize  = 12
	FreshSpan = 7 * 24 * time.Hour
)

type View struct {
	Fresh      []domain.Product `json:"freshItems"`
	PagedOther []domain.Product `json:"pagedOtherItems"`
	TotalOther int              `json:"totalOtherCount"`
	Visible    int              `json:"visible"`
	HasMore    bool             `json:"hasMore"`
}

// Live drops products whose drop date is still ahead of now.
func Live(products []domain.Product, now time.Time) []domain.Product {
	out := make([]domain.Product, 0, len(products))
	for _, p := range products {
		if p.Live(now) {
			out = append(out, p)
		}
	}
	return out
}

func isFresh(p domain.Product, now time.Time) bool {
	return now.Sub(p.EffectiveDate()) < FreshSpan
}

// Derive filters, splits, sorts and pages products. visible below one page is
// treated as one page. products is never modified.
func Derive(products []domain.Product, c Criteria, visible int, now time.Time) View {
	if visible < PageSize {
		visible = PageSize
	}
	fresh := []domain.Product{}
	other := []domain.Product{}
	for _, p := range products {
		if !p.Live(now) || !c.Matches(p) {
			continue
		}
		if isFresh(p, now) {
			fresh = append(fresh, p)
		} else {
			other = append(other, p)
		}
	}

	slices.SortStableFunc(fresh, func(a, b domain.Product) int {
		return b.EffectiveDate().Compare(a.EffectiveDate())
	})
	SortProducts(other, c.Sort)

	v := View{Fresh: fresh, TotalOther: len(other), Visible: visible}
	if len(other) > visible {
		v.PagedOther = other[:visible]
		v.HasMore = true
	} else {
		v.PagedOther = other
	}
	return v
}

// SortProducts orders ps in place. Equal keys keep source order.
func SortProducts(ps []domain.Product, mode Sort) {
	switch mode {
	case SortNewest:
		slices.SortStableFunc(ps, func(a, b domain.Product) int { return b.CreatedAt.Compare(a.CreatedAt) })
	case SortPriceAsc:
		slices.SortStableFunc(ps, func(a, b domain.Product) int { return cmp.Compare(a.Price, b.Price) })
	case SortPriceDesc:
		slices.SortStableFunc(ps, func(a, b domain.Product) int { return cmp.Compare(b.Price, a.Price) })
	case SortNameAsc:
		slices.SortStableFunc(ps, func(a, b domain.Product) int {
			return cmp.Compare(strings.ToLower(a.Name), strings.ToLower(b.Name))
		})
	}
}
