// Package money formats rupee amounts the way en-IN displays them: ₹1,23,456.
package money

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

const Symbol = "₹"

// Format renders d with Indian digit grouping and at most two fraction digits.
// Whole amounts carry no fraction.
func Format(d decimal.Decimal) string {
	d = d.Round(2)
	sign := ""
	if d.IsNegative() {
		sign = "-"
		d = d.Neg()
	}
	whole := d.Truncate(0)
	frac := d.Sub(whole)

	out := sign + Symbol + group(whole.String())
	if !frac.IsZero() {
		// "0.5" -> ".5"
		out += strings.TrimPrefix(frac.String(), "0")
	}
	return out
}

// Rupees formats a whole number of rupees.
func Rupees(n int64) string { return Format(decimal.NewFromInt(n)) }

// group inserts separators: the last three digits, then pairs.
func group(digits string) string {
	if len(digits) <= 3 {
		return digits
	}
	head, tail := digits[:len(digits)-3], digits[len(digits)-3:]
	var parts []string
	for len(head) > 2 {
		parts = append([]string{head[len(head)-2:]}, parts...)
		head = head[:len(head)-2]
	}
	if head != "" {
		parts = append([]string{head}, parts...)
	}
	return strings.Join(parts, ",") + "," + tail
}

// Parse accepts anything Format produces, plus plain numbers.
func Parse(s string) (decimal.Decimal, error) {
	clean := strings.NewReplacer(Symbol, "", ",", "", " ", "", "INR", "").Replace(strings.TrimSpace(s))
	d, err := decimal.NewFromString(clean)
	if err != nil {
		return decimal.Zero, fmt.Errorf("parse amount %q: %w", s, err)
	}
	return d, nil
}
