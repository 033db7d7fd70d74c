package domain

import (
	"strings"
	"time"
)

// UpcomingStatus is the sheet's isUpcoming column: "true", "false" or "not".
// "not" hides a product from the storefront entirely.
type UpcomingStatus string

const (
	UpcomingTrue  UpcomingStatus = "true"
	UpcomingFalse UpcomingStatus = "false"
	UpcomingNot   UpcomingStatus = "not"
)

// ParseUpcoming lowercases s and falls back to UpcomingFalse for anything unknown.
func ParseUpcoming(s string) UpcomingStatus {
	switch v := UpcomingStatus(strings.ToLower(strings.TrimSpace(s))); v {
	case UpcomingTrue, UpcomingFalse, UpcomingNot:
		return v
	default:
		return UpcomingFalse
	}
}

func (u UpcomingStatus) Hidden() bool { return u == UpcomingNot }

type Measurements struct {
	Bust   string `json:"bust"`
	Length string `json:"length"`
}

type Product struct {
	ID           string         `json:"id"`
	Name         string         `json:"name"`
	Description  string         `json:"description"`
	Price        int64          `json:"price"`
	ImageURLs    []string       `json:"imageUrls"`
	VideoURL     string         `json:"videoUrl,omitempty"`
	Category     string         `json:"category"`
	Brand        string         `json:"brand"`
	Size         string         `json:"size"`
	Measurements Measurements   `json:"measurements"`
	Condition    string         `json:"condition"`
	Sold         bool           `json:"sold"`
	IsUpcoming   UpcomingStatus `json:"isUpcoming"`
	CreatedAt    time.Time      `json:"createdAt"`
	DropDate     *time.Time     `json:"dropDate,omitempty"`
}

// Live reports whether the product's drop has happened at now.
func (p Product) Live(now time.Time) bool {
	return p.DropDate == nil || !p.DropDate.After(now)
}

// EffectiveDate is the drop date when set, otherwise the creation date.
func (p Product) EffectiveDate() time.Time {
	if p.DropDate != nil {
		return *p.DropDate
	}
	return p.CreatedAt
}

// CartItem is a product as it was when it was added to the cart.
type CartItem = Product

type CustomerDetails struct {
	Name    string `json:"name" validate:"required"`
	Phone   string `json:"phone" validate:"required"`
	Address string `json:"address" validate:"required"`
	City    string `json:"city" validate:"required"`
	State   string `json:"state" validate:"required"`
	Pincode string `json:"pincode" validate:"required"`
}

// Trimmed returns a copy with surrounding whitespace removed from every field.
func (d CustomerDetails) Trimmed() CustomerDetails {
	return CustomerDetails{
		Name:    strings.TrimSpace(d.Name),
		Phone:   strings.TrimSpace(d.Phone),
		Address: strings.TrimSpace(d.Address),
		City:    strings.TrimSpace(d.City),
		State:   strings.TrimSpace(d.State),
		Pincode: strings.TrimSpace(d.Pincode),
	}
}

// Snapshot is the persisted product cache entry.
type Snapshot struct {
	Timestamp int64     `json:"timestamp"` // unix millis
	Source    string    `json:"source"`
	Checksum  string    `json:"checksum"`
	Products  []Product `json:"products"`
}

func (s Snapshot) Age(now time.Time) time.Duration {
	return now.Sub(time.UnixMilli(s.Timestamp))
}
