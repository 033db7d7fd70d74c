package services

import (
	"context"
	"sync"

	"go.uber.org/zap"

	"thriftshop/internal/domain"
	"thriftshop/internal/log"
	"thriftshop/internal/sheet"
)

// ProductFetcher is one fetch cycle. A non-nil warning means the products are stale.
type ProductFetcher interface {
	FetchProducts(ctx context.Context) ([]domain.Product, *domain.StaleDataWarning, error)
}

// ProductSource is the cache-aware pipeline for a single sheet.
type ProductSource struct {
	URL     string
	Fetcher sheet.Fetcher
	Cache   *ProductCache
	Stats   *Stats

	mu     sync.Mutex
	report sheet.Report
}

func NewProductSource(url string, f sheet.Fetcher, cache *ProductCache, stats *Stats) *ProductSource {
	if stats == nil {
		stats = &Stats{}
	}
	return &ProductSource{URL: url, Fetcher: f, Cache: cache, Stats: stats}
}

// FetchProducts serves a fresh snapshot without touching the network, otherwise loads
// the sheet. When loading fails any older snapshot is served with a warning; only a
// failure with nothing cached is an error.
func (s *ProductSource) FetchProducts(ctx context.Context) ([]domain.Product, *domain.StaleDataWarning, error) {
	if products, ok := s.Cache.Fresh(ctx, s.URL); ok {
		s.Stats.CacheHits.Add(1)
		return products, nil, nil
	}

	products, rep, err := sheet.Load(ctx, s.Fetcher, s.URL)
	if err == nil {
		s.Stats.recordLoad(rep)
		s.mu.Lock()
		s.report = rep
		s.mu.Unlock()
		if err := s.Cache.Save(ctx, s.URL, products); err != nil {
			log.L().Warn("product_cache_write", zap.String("source", s.URL), zap.Error(err))
		}
		return products, nil, nil
	}

	s.Stats.LoadFailures.Add(1)
	log.L().Warn("sheet_load_failed", zap.String("source", s.URL), zap.Error(err))
	if snap, ok := s.Cache.Stale(ctx, s.URL); ok {
		s.Stats.StaleServes.Add(1)
		return snap.Products, &domain.StaleDataWarning{Age: snap.Age(s.Cache.Now()), Cause: err}, nil
	}
	return nil, nil, err
}

// LastReport is the row accounting of the most recent network load.
func (s *ProductSource) LastReport() sheet.Report {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.report
}
