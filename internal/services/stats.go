package services

import (
	"sync/atomic"

	"thriftshop/internal/sheet"
)

// Stats counts ingestion and checkout events since process start.
type Stats struct {
	Loads        atomic.Int64
	LoadFailures atomic.Int64
	CacheHits    atomic.Int64
	StaleServes  atomic.Int64
	RowsKept     atomic.Int64
	RowsDropped  atomic.Int64
	RowsHidden   atomic.Int64
	CacheWrites  atomic.Int64
	CacheErrors  atomic.Int64
	OrdersSent   atomic.Int64
	OrdersFailed atomic.Int64
	Handoffs     atomic.Int64
}

func (s *Stats) recordLoad(r sheet.Report) {
	s.Loads.Add(1)
	s.RowsKept.Add(int64(r.Kept))
	s.RowsDropped.Add(int64(r.Dropped))
	s.RowsHidden.Add(int64(r.Hidden))
}

func (s *Stats) Snapshot() map[string]int64 {
	return map[string]int64{
		"loads":         s.Loads.Load(),
		"load_failures": s.LoadFailures.Load(),
		"cache_hits":    s.CacheHits.Load(),
		"stale_serves":  s.StaleServes.Load(),
		"rows_kept":     s.RowsKept.Load(),
		"rows_dropped":  s.RowsDropped.Load(),
		"rows_hidden":   s.RowsHidden.Load(),
		"cache_writes":  s.CacheWrites.Load(),
		"cache_errors":  s.CacheErrors.Load(),
		"orders_sent":   s.OrdersSent.Load(),
		"orders_failed": s.OrdersFailed.Load(),
		"handoffs":      s.Handoffs.Load(),
	}
}
