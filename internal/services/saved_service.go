package services

import (
	"context"
	"slices"

	"thriftshop/internal/repos"
)

// SavedService keeps the ids a session hearted, newest last.
type SavedService struct {
	KV    repos.KV
	locks stripes
}

func NewSavedService(kv repos.KV) *SavedService { return &SavedService{KV: kv} }

func (s *SavedService) List(ctx context.Context, sessionID string) ([]string, error) {
	ids := []string{}
	if _, err := repos.GetJSON(ctx, s.KV, NSSaved, sessionID, &ids); err != nil {
		return nil, err
	}
	return ids, nil
}

func (s *SavedService) Save(ctx context.Context, sessionID, productID string) error {
	defer s.locks.lock(sessionID)()
	ids, err := s.List(ctx, sessionID)
	if err != nil {
		return err
	}
	if slices.Contains(ids, productID) {
		return nil
	}
	return repos.PutJSON(ctx, s.KV, NSSaved, sessionID, append(ids, productID))
}

func (s *SavedService) Unsave(ctx context.Context, sessionID, productID string) error {
	defer s.locks.lock(sessionID)()
	ids, err := s.List(ctx, sessionID)
	if err != nil {
		return err
	}
	i := slices.Index(ids, productID)
	if i < 0 {
		return nil
	}
	return repos.PutJSON(ctx, s.KV, NSSaved, sessionID, slices.Delete(ids, i, i+1))
}

func (s *SavedService) IsSaved(ctx context.Context, sessionID, productID string) (bool, error) {
	ids, err := s.List(ctx, sessionID)
	if err != nil {
		return false, err
	}
	return slices.Contains(ids, productID), nil
}
