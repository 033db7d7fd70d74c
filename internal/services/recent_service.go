package services

import (
	"context"
	"slices"

	"thriftshop/internal/repos"
)

const MaxRecent = 8

// RecentService is a session's recently viewed product ids, most recent first.
type RecentService struct {
	KV    repos.KV
	locks stripes
}

func NewRecentService(kv repos.KV) *RecentService { return &RecentService{KV: kv} }

func (s *RecentService) List(ctx context.Context, sessionID string) ([]string, error) {
	ids := []string{}
	if _, err := repos.GetJSON(ctx, s.KV, NSRecent, sessionID, &ids); err != nil {
		return nil, err
	}
	return ids, nil
}

// Record moves productID to the front, dropping the oldest beyond MaxRecent.
func (s *RecentService) Record(ctx context.Context, sessionID, productID string) error {
	defer s.locks.lock(sessionID)()
	ids, err := s.List(ctx, sessionID)
	if err != nil {
		return err
	}
	if i := slices.Index(ids, productID); i >= 0 {
		ids = slices.Delete(ids, i, i+1)
	}
	ids = append([]string{productID}, ids...)
	if len(ids) > MaxRecent {
		ids = ids[:MaxRecent]
	}
	return repos.PutJSON(ctx, s.KV, NSRecent, sessionID, ids)
}
