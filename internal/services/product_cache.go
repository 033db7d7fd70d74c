package services

import (
	"context"
	"encoding/hex"
	"encoding/json"
	"time"

	"go.uber.org/zap"
	"golang.org/x/crypto/blake2b"

	"thriftshop/internal/domain"
	"thriftshop/internal/log"
	"thriftshop/internal/repos"
)

const DefaultCacheTTL = 15 * time.Minute

// ProductCache keeps the last good product list per source. Reads never fail: a
// missing, unreadable or corrupt snapshot is simply absent.
type ProductCache struct {
	KV    repos.KV
	TTL   time.Duration
	Now   func() time.Time
	Stats *Stats
}

func NewProductCache(kv repos.KV, ttl time.Duration, stats *Stats) *ProductCache {
	if ttl <= 0 {
		ttl = DefaultCacheTTL
	}
	return &ProductCache{KV: kv, TTL: ttl, Now: time.Now, Stats: stats}
}

func sourceKey(source string) string {
	sum := blake2b.Sum256([]byte(source))
	return hex.EncodeToString(sum[:16])
}

func checksum(products []domain.Product) (string, error) {
	b, err := json.Marshal(products)
	if err != nil {
		return "", err
	}
	sum := blake2b.Sum256(b)
	return hex.EncodeToString(sum[:]), nil
}

// Save stores products as the current snapshot for source.
func (c *ProductCache) Save(ctx context.Context, source string, products []domain.Product) error {
	sum, err := checksum(products)
	if err == nil {
		snap := domain.Snapshot{
			Timestamp: c.Now().UnixMilli(),
			Source:    source,
			Checksum:  sum,
			Products:  products,
		}
		err = repos.PutJSON(ctx, c.KV, NSProducts, sourceKey(source), snap)
	}
	if c.Stats != nil {
		if err != nil {
			c.Stats.CacheErrors.Add(1)
		} else {
			c.Stats.CacheWrites.Add(1)
		}
	}
	return err
}

func (c *ProductCache) read(ctx context.Context, source string) (domain.Snapshot, bool) {
	var snap domain.Snapshot
	ok, err := repos.GetJSON(ctx, c.KV, NSProducts, sourceKey(source), &snap)
	if err != nil {
		log.L().Warn("product_cache_read", zap.String("source", source), zap.Error(err))
		return domain.Snapshot{}, false
	}
	if !ok {
		return domain.Snapshot{}, false
	}
	if sum, err := checksum(snap.Products); err != nil || sum != snap.Checksum || snap.Source != source {
		log.L().Warn("product_cache_corrupt", zap.String("source", source))
		return domain.Snapshot{}, false
	}
	return snap, true
}

// Fresh returns the snapshot's products when it is younger than the TTL.
func (c *ProductCache) Fresh(ctx context.Context, source string) ([]domain.Product, bool) {
	snap, ok := c.read(ctx, source)
	if !ok || snap.Age(c.Now()) >= c.TTL {
		return nil, false
	}
	return snap.Products, true
}

// Stale returns the snapshot whatever its age.
func (c *ProductCache) Stale(ctx context.Context, source string) (domain.Snapshot, bool) {
	return c.read(ctx, source)
}

// Forget deletes the snapshot for source.
func (c *ProductCache) Forget(ctx context.Context, source string) error {
	return c.KV.Delete(ctx, NSProducts, sourceKey(source))
}
