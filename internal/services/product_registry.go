package services

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"

	"thriftshop/internal/domain"
	"thriftshop/internal/log"
	"thriftshop/internal/repos"
	"thriftshop/internal/sheet"
)

type RegistryConfig struct {
	DefaultURL    string
	AllowOverride bool
	AllowedHosts  []string // csv_url overrides must point at one of these
	MaxOverrides  int
	FetchTimeout  time.Duration
}

// ProductRegistry hands out the provider for a session's catalog source: the default
// sheet, or a csv_url override the session picked. Override providers are created on
// first use and the least recently used is evicted past MaxOverrides.
type ProductRegistry struct {
	cfg     RegistryConfig
	fetcher sheet.Fetcher
	cache   *ProductCache
	stats   *Stats
	kv      repos.KV

	mu        sync.Mutex
	def       *ProductProvider
	defSrc    *ProductSource
	defErr    error
	overrides map[string]*ProductProvider
	lru       []string
}

func NewProductRegistry(cfg RegistryConfig, f sheet.Fetcher, cache *ProductCache, kv repos.KV, stats *Stats) *ProductRegistry {
	if cfg.MaxOverrides <= 0 {
		cfg.MaxOverrides = 8
	}
	r := &ProductRegistry{
		cfg:       cfg,
		fetcher:   f,
		cache:     cache,
		stats:     stats,
		kv:        kv,
		overrides: map[string]*ProductProvider{},
	}
	src, err := sheet.ResolveSource(cfg.DefaultURL, "")
	if err != nil {
		r.defErr = err
	} else {
		r.defSrc = NewProductSource(src.URL, f, cache, stats)
		r.def = NewProductProvider(r.defSrc, src.URL, false, cfg.FetchTimeout)
	}
	return r
}

func (r *ProductRegistry) build(src sheet.Source) *ProductProvider {
	ps := NewProductSource(src.URL, r.fetcher, r.cache, r.stats)
	return NewProductProvider(ps, src.URL, src.Override, r.cfg.FetchTimeout)
}

// LastReport is the row accounting of the default sheet's latest network load.
func (r *ProductRegistry) LastReport() sheet.Report {
	if r.defSrc == nil {
		return sheet.Report{}
	}
	return r.defSrc.LastReport()
}

// Default is the provider for the configured sheet. It errors when no valid sheet is configured.
func (r *ProductRegistry) Default() (*ProductProvider, error) {
	return r.def, r.defErr
}

// Start begins loading the default catalog.
func (r *ProductRegistry) Start() {
	if r.def != nil {
		r.def.Start()
	}
}

// For resolves the provider for a session. A non-empty override is validated, stored
// for the session and used from then on; an empty one falls back to what the session
// stored earlier, then to the default.
func (r *ProductRegistry) For(ctx context.Context, sid, override string) (*ProductProvider, error) {
	if !r.cfg.AllowOverride {
		return r.Default()
	}
	stored := false
	if override == "" && sid != "" {
		var url string
		if ok, err := repos.GetJSON(ctx, r.kv, NSSource, sid, &url); err != nil {
			log.L().Warn("source_read", zap.Error(err))
		} else if ok {
			override, stored = url, true
		}
	}
	if override == "" {
		return r.Default()
	}

	src, err := r.resolve(override)
	if err != nil {
		if stored {
			// the allowlist changed since this session picked its sheet
			log.L().Info("stored_source_dropped", zap.String("source", override))
			_ = r.ClearOverride(ctx, sid)
			return r.Default()
		}
		return nil, err
	}
	if sid != "" && !stored {
		if err := repos.PutJSON(ctx, r.kv, NSSource, sid, src.URL); err != nil {
			log.L().Warn("source_write", zap.Error(err))
		}
	}
	if r.def != nil && src.URL == r.def.url {
		return r.def, nil
	}
	return r.override(ctx, src), nil
}

// resolve validates an override and checks it against the host allowlist. The
// configured default is always accepted.
func (r *ProductRegistry) resolve(override string) (sheet.Source, error) {
	src, err := sheet.ResolveSource(r.cfg.DefaultURL, override)
	if err != nil {
		return sheet.Source{}, err
	}
	if r.def != nil && src.URL == r.def.url {
		return src, nil
	}
	if !sheet.HostAllowed(src.URL, r.cfg.AllowedHosts) {
		return sheet.Source{}, &domain.ConfigurationError{Reason: "product sheet host is not allowed: " + src.URL}
	}
	return src, nil
}

// ClearOverride drops a session's stored csv_url so it sees the default catalog again.
func (r *ProductRegistry) ClearOverride(ctx context.Context, sid string) error {
	return r.kv.Delete(ctx, NSSource, sid)
}

func (r *ProductRegistry) override(ctx context.Context, src sheet.Source) *ProductProvider {
	r.mu.Lock()
	if p, ok := r.overrides[src.URL]; ok {
		r.touch(src.URL)
		r.mu.Unlock()
		return p
	}
	var evicted []string
	for len(r.lru) >= r.cfg.MaxOverrides {
		oldest := r.lru[0]
		r.lru = r.lru[1:]
		delete(r.overrides, oldest)
		evicted = append(evicted, oldest)
	}
	p := r.build(src)
	r.overrides[src.URL] = p
	r.lru = append(r.lru, src.URL)
	r.mu.Unlock()

	for _, url := range evicted {
		if err := r.cache.Forget(ctx, url); err != nil {
			log.L().Warn("override_snapshot_delete", zap.String("source", url), zap.Error(err))
		}
		log.L().Info("override_source_evicted", zap.String("source", url))
	}
	return p
}

func (r *ProductRegistry) touch(url string) {
	for i, u := range r.lru {
		if u == url {
			r.lru = append(r.lru[:i], r.lru[i+1:]...)
			break
		}
	}
	r.lru = append(r.lru, url)
}

// Overrides is the number of live override providers.
func (r *ProductRegistry) Overrides() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.overrides)
}
