package services

import (
	"context"
	"time"

	"thriftshop/internal/catalog"
	"thriftshop/internal/domain"
	"thriftshop/internal/repos"
)

// CatalogService persists each session's catalog.State and derives views from it.
type CatalogService struct {
	KV    repos.KV
	Now   func() time.Time
	locks stripes
}

func NewCatalogService(kv repos.KV) *CatalogService {
	return &CatalogService{KV: kv, Now: time.Now}
}

func (s *CatalogService) State(ctx context.Context, sessionID string) (catalog.State, error) {
	st := catalog.NewState()
	if _, err := repos.GetJSON(ctx, s.KV, NSCatalogState, sessionID, &st); err != nil {
		return catalog.NewState(), err
	}
	return st, nil
}

func (s *CatalogService) update(ctx context.Context, sessionID string, fn func(catalog.State) catalog.State) (catalog.State, error) {
	defer s.locks.lock(sessionID)()
	st, err := s.State(ctx, sessionID)
	if err != nil {
		return st, err
	}
	st = fn(st)
	return st, repos.PutJSON(ctx, s.KV, NSCatalogState, sessionID, st)
}

func (s *CatalogService) Apply(ctx context.Context, sessionID string, c catalog.Criteria) (catalog.State, error) {
	return s.update(ctx, sessionID, func(st catalog.State) catalog.State { return st.Apply(c) })
}

func (s *CatalogService) LoadMore(ctx context.Context, sessionID string) (catalog.State, error) {
	return s.update(ctx, sessionID, func(st catalog.State) catalog.State { return st.Settle(s.Now()).LoadMore() })
}

func (s *CatalogService) Reset(ctx context.Context, sessionID string) (catalog.State, error) {
	return s.update(ctx, sessionID, func(st catalog.State) catalog.State { return st.Reset() })
}

// Type records search keystrokes; the term filters once it has been quiet for
// catalog.SearchQuiet.
func (s *CatalogService) Type(ctx context.Context, sessionID, term string) (catalog.State, error) {
	now := s.Now()
	return s.update(ctx, sessionID, func(st catalog.State) catalog.State { return st.SetSearch(term, now) })
}

// View derives the session's catalog page.
func (s *CatalogService) View(ctx context.Context, sessionID string, products []domain.Product) (catalog.View, catalog.State, error) {
	st, err := s.State(ctx, sessionID)
	if err != nil {
		return catalog.View{}, st, err
	}
	now := s.Now()
	return st.View(products, now), st, nil
}
