package cart

import (
	"fmt"
	"net/url"
	"strings"

	"thriftshop/internal/domain"
	"thriftshop/internal/money"
)

// Message is a composed order ready to hand to a messaging app.
type Message struct {
	Channel string `json:"channel"`
	Link    string `json:"link"`
	Body    string `json:"body"` // plain text, for the clipboard
}

type Composer struct {
	StoreName       string
	WhatsAppNumber  string
	InstagramHandle string
}

func itemLines(items []domain.CartItem) string {
	lines := make([]string, len(items))
	for i, it := range items {
		lines[i] = fmt.Sprintf("- Product: %s\n  ID: %s\n  Size: %s\n  Category: %s\n  Price: %s",
			it.Name, it.ID, it.Size, it.Category, money.Rupees(it.Price))
	}
	return strings.Join(lines, "\n\n")
}

func shipping(title string, d domain.CustomerDetails) string {
	return fmt.Sprintf("\n\n%s\nName: %s\nPhone: %s\nAddress: %s, %s, %s - %s",
		title, d.Name, d.Phone, d.Address, d.City, d.State, d.Pincode)
}

func pricing(s Summary, totalLabel string) string {
	f := s.Format()
	out := "\n\nSubtotal: " + f.Subtotal
	if s.HasDiscount() {
		out += "\nDiscount (20% OFF): -" + f.Discount + " 🎉"
	}
	return out + "\n" + totalLabel + " " + f.Total
}

// encodeComponent escapes s like a browser's encodeURIComponent for the parts that
// matter in a wa.me link: spaces become %20, not "+".
func encodeComponent(s string) string {
	return strings.ReplaceAll(url.QueryEscape(s), "+", "%20")
}

func (c Composer) WhatsApp(d domain.CustomerDetails, items []domain.CartItem) Message {
	body := fmt.Sprintf("Hello %s! 👋 I'd like to place an order for the following items:\n\n*ORDER SUMMARY*\n\n", c.StoreName) +
		itemLines(items) +
		shipping("*MY SHIPPING DETAILS*", d) +
		pricing(Totals(items), "*Total:*") +
		"\n\nPlease confirm my order and let me know the next steps for payment. Thank you! ✨"
	return Message{
		Channel: "whatsapp",
		Link:    fmt.Sprintf("https://wa.me/%s?text=%s", c.WhatsAppNumber, encodeComponent(body)),
		Body:    body,
	}
}

func (c Composer) Instagram(d domain.CustomerDetails, items []domain.CartItem) Message {
	body := "Hello! 👋 I'd love to order these treasures:\n\nORDER SUMMARY\n\n" +
		itemLines(items) +
		shipping("MY SHIPPING DETAILS", d) +
		pricing(Totals(items), "Final Total:") +
		"\n\nPlease let me know the next steps for payment. Can't wait! ✨"
	return Message{
		Channel: "instagram",
		Link:    "https://ig.me/m/" + strings.TrimPrefix(c.InstagramHandle, "@"),
		Body:    body,
	}
}
