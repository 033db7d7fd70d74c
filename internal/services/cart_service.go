package services

import (
	"context"

	"thriftshop/internal/cart"
	"thriftshop/internal/domain"
	"thriftshop/internal/repos"
)

type CartService struct {
	KV    repos.KV
	locks stripes
}

func NewCartService(kv repos.KV) *CartService {
	return &CartService{KV: kv}
}

func (s *CartService) load(ctx context.Context, sessionID string) (*cart.Cart, error) {
	var items []domain.CartItem
	if _, err := repos.GetJSON(ctx, s.KV, NSCart, sessionID, &items); err != nil {
		return nil, err
	}
	return cart.New(items), nil
}

func (s *CartService) save(ctx context.Context, sessionID string, c *cart.Cart) error {
	if c.Len() == 0 {
		return s.KV.Delete(ctx, NSCart, sessionID)
	}
	return repos.PutJSON(ctx, s.KV, NSCart, sessionID, c.Items)
}

// Add puts p in the session's cart. Sold products and ones already present are
// ignored; added reports whether the cart changed.
func (s *CartService) Add(ctx context.Context, sessionID string, p domain.Product) (added bool, err error) {
	defer s.locks.lock(sessionID)()
	c, err := s.load(ctx, sessionID)
	if err != nil {
		return false, err
	}
	if !c.Add(p) {
		return false, nil
	}
	return true, s.save(ctx, sessionID, c)
}

func (s *CartService) Remove(ctx context.Context, sessionID, productID string) error {
	defer s.locks.lock(sessionID)()
	c, err := s.load(ctx, sessionID)
	if err != nil {
		return err
	}
	if !c.Remove(productID) {
		return nil
	}
	return s.save(ctx, sessionID, c)
}

func (s *CartService) Clear(ctx context.Context, sessionID string) error {
	defer s.locks.lock(sessionID)()
	return s.KV.Delete(ctx, NSCart, sessionID)
}

func (s *CartService) Items(ctx context.Context, sessionID string) ([]domain.CartItem, error) {
	c, err := s.load(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	return c.Items, nil
}

type CartView struct {
	Items     []domain.CartItem `json:"items"`
	Count     int               `json:"count"`
	Totals    cart.Summary      `json:"totals"`
	Formatted cart.Formatted    `json:"formatted"`
}

func (s *CartService) View(ctx context.Context, sessionID string) (CartView, error) {
	items, err := s.Items(ctx, sessionID)
	if err != nil {
		return CartView{}, err
	}
	if items == nil {
		items = []domain.CartItem{}
	}
	sum := cart.Totals(items)
	return CartView{Items: items, Count: len(items), Totals: sum, Formatted: sum.Format()}, nil
}
