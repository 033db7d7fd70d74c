package cart

import (
	"github.com/shopspring/decimal"

	"thriftshop/internal/domain"
	"thriftshop/internal/money"
)

var (
	DiscountThreshold = decimal.NewFromInt(499)
	DiscountRate      = decimal.NewFromFloat(0.20)
)

type Summary struct {
	Subtotal decimal.Decimal `json:"subtotal"`
	Discount decimal.Decimal `json:"discount"`
	Total    decimal.Decimal `json:"total"`
}

// Totals is the only place order amounts are computed. A subtotal above the threshold
// gets the flat discount.
func Totals(items []domain.CartItem) Summary {
	sub := decimal.Zero
	for _, it := range items {
		sub = sub.Add(decimal.NewFromInt(it.Price))
	}
	disc := decimal.Zero
	if sub.GreaterThan(DiscountThreshold) {
		disc = sub.Mul(DiscountRate)
	}
	return Summary{Subtotal: sub, Discount: disc, Total: sub.Sub(disc)}
}

func (s Summary) HasDiscount() bool { return s.Discount.IsPositive() }

// Formatted is the display form shared by messages and pages.
type Formatted struct {
	Subtotal string `json:"subtotal"`
	Discount string `json:"discount"`
	Total    string `json:"total"`
}

func (s Summary) Format() Formatted {
	return Formatted{
		Subtotal: money.Format(s.Subtotal),
		Discount: money.Format(s.Discount),
		Total:    money.Format(s.Total),
	}
}
