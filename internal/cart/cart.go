package cart

import "thriftshop/internal/domain"

// Cart is an insertion-ordered set of products keyed by id.
type Cart struct {
	Items []domain.CartItem `json:"items"`
}

func New(items []domain.CartItem) *Cart {
	return &Cart{Items: append([]domain.CartItem(nil), items...)}
}

func (c *Cart) Contains(id string) bool {
	for _, it := range c.Items {
		if it.ID == id {
			return true
		}
	}
	return false
}

// Add appends p unless it is sold or already present. It reports whether the cart changed.
func (c *Cart) Add(p domain.Product) bool {
	if p.Sold || c.Contains(p.ID) {
		return false
	}
	c.Items = append(c.Items, p)
	return true
}

func (c *Cart) Remove(id string) bool {
	for i, it := range c.Items {
		if it.ID == id {
			c.Items = append(c.Items[:i], c.Items[i+1:]...)
			return true
		}
	}
	return false
}

func (c *Cart) Clear() { c.Items = nil }

func (c *Cart) Len() int { return len(c.Items) }

func (c *Cart) IDs() []string {
	ids := make([]string, len(c.Items))
	for i, it := range c.Items {
		ids[i] = it.ID
	}
	return ids
}
