package services

import (
	"context"
	"errors"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"

	"thriftshop/internal/domain"
)

type LoadStatus string

const (
	StatusIdle    LoadStatus = "idle"
	StatusLoading LoadStatus = "loading"
	StatusSuccess LoadStatus = "success"
	StatusStale   LoadStatus = "stale"
	StatusFailed  LoadStatus = "failed"
)

const (
	MsgEmptyOverride = "No products found. Check if the Google Sheet is empty or if the column headers are correct."
	MsgStale         = "Couldn't refresh product list. Showing last available data."
)

// ProviderState is what catalog consumers see.
type ProviderState struct {
	Products  []domain.Product `json:"products"`
	Status    LoadStatus       `json:"status"`
	Loading   bool             `json:"loading"`
	Error     string           `json:"error,omitempty"`
	Warning   string           `json:"warning,omitempty"`
	UpdatedAt time.Time        `json:"updatedAt,omitzero"`
	Source    string           `json:"source"`
	Override  bool             `json:"override"`

	Err error `json:"-"` // last hard error, for status mapping
}

// Failed reports a hard error with nothing to show.
func (s ProviderState) Failed() bool { return s.Status == StatusFailed }

// ProductProvider owns the product list for one source. Loads are coalesced: a load
// requested while another is running waits for that one instead of starting a second.
type ProductProvider struct {
	src      ProductFetcher
	url      string
	override bool
	timeout  time.Duration
	now      func() time.Time

	group singleflight.Group

	mu      sync.RWMutex
	state   ProviderState
	started uint64
	applied uint64
}

func NewProductProvider(src ProductFetcher, url string, override bool, timeout time.Duration) *ProductProvider {
	if timeout <= 0 {
		timeout = 15 * time.Second
	}
	return &ProductProvider{
		src:      src,
		url:      url,
		override: override,
		timeout:  timeout,
		now:      time.Now,
		state: ProviderState{
			Products: []domain.Product{},
			Status:   StatusIdle,
			Source:   url,
			Override: override,
		},
	}
}

func (p *ProductProvider) State() ProviderState {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.state
}

// Load runs a fetch cycle, or joins the one in flight, and returns the resulting state.
// If ctx ends first the current state is returned while the cycle finishes on its own.
func (p *ProductProvider) Load(ctx context.Context) ProviderState {
	ch := p.group.DoChan("load", func() (any, error) {
		p.run(context.WithoutCancel(ctx))
		return nil, nil
	})
	select {
	case <-ch:
	case <-ctx.Done():
	}
	return p.State()
}

// Refetch is the manual retry. It is coalesced with any load already running.
func (p *ProductProvider) Refetch(ctx context.Context) ProviderState { return p.Load(ctx) }

// Start kicks off the first load once; later calls are no-ops.
func (p *ProductProvider) Start() {
	p.mu.RLock()
	idle := p.state.Status == StatusIdle
	p.mu.RUnlock()
	if idle {
		go p.Load(context.Background())
	}
}

func (p *ProductProvider) run(parent context.Context) {
	ctx, cancel := context.WithTimeout(parent, p.timeout)
	defer cancel()

	gen := p.begin()
	products, warn, err := p.src.FetchProducts(ctx)
	p.finish(gen, products, warn, err)
}

func (p *ProductProvider) begin() uint64 {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.started++
	p.state.Loading = true
	p.state.Error = ""
	p.state.Err = nil
	if p.state.Status == StatusIdle {
		p.state.Status = StatusLoading
	}
	return p.started
}

func (p *ProductProvider) finish(gen uint64, products []domain.Product, warn *domain.StaleDataWarning, err error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if gen < p.applied {
		// an older cycle finishing late never overwrites a newer result
		return
	}
	p.applied = gen
	p.state.Loading = gen < p.started
	p.state.UpdatedAt = p.now()

	switch {
	case err != nil:
		p.state.Status = StatusFailed
		p.state.Err = err
		p.state.Error = err.Error()
		p.state.Warning = ""
	case warn != nil:
		p.state.Status = StatusStale
		p.state.Products = products
		p.state.Warning = MsgStale
	case len(products) == 0 && p.override:
		p.state.Status = StatusFailed
		p.state.Err = &domain.ConfigurationError{Reason: MsgEmptyOverride}
		p.state.Error = MsgEmptyOverride
		p.state.Warning = ""
	default:
		p.state.Status = StatusSuccess
		p.state.Products = products
		p.state.Warning = ""
	}
}

// Find returns the product with id from the current list.
func (p *ProductProvider) Find(id string) (domain.Product, bool) {
	p.mu.RLock()
	defer p.mu.RUnlock()
	for _, pr := range p.state.Products {
		if pr.ID == id {
			return pr, true
		}
	}
	return domain.Product{}, false
}

// IsConfigError reports whether the provider failed because of its source setup.
func (s ProviderState) IsConfigError() bool {
	var ce *domain.ConfigurationError
	return errors.As(s.Err, &ce)
}
