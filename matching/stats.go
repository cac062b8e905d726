package matching

import "sync/atomic"

// Stats accumulates monotonically non-decreasing engine-wide counters.
// Writes happen only on the engine goroutine; reads may happen from
// any goroutine (dashboard, metrics endpoint) using atomic loads,
// since the engine is the sole writer.
type Stats struct {
	totalTrades    atomic.Uint64
	totalVolume    atomic.Uint64
	totalValueTick atomic.Int64 // sum of price*quantity, still in ticks
	marketMatched  atomic.Uint64
	limitMatched   atomic.Uint64
}

// Snapshot is a point-in-time copy of Stats safe to hand to callers.
type Snapshot struct {
	TotalTrades         uint64
	TotalVolume         uint64
	TotalValue          float64
	MarketOrdersMatched uint64
	LimitOrdersMatched  uint64
}

func (s *Stats) recordTrade(qty uint64, price int64) {
	s.totalTrades.Add(1)
	s.totalVolume.Add(qty)
	s.totalValueTick.Add(price * int64(qty))
}

func (s *Stats) recordMarketMatch() { s.marketMatched.Add(1) }
func (s *Stats) recordLimitMatch()  { s.limitMatched.Add(1) }

// Snapshot reads every counter with an atomic load.
func (s *Stats) Snapshot() Snapshot {
	return Snapshot{
		TotalTrades:         s.totalTrades.Load(),
		TotalVolume:         s.totalVolume.Load(),
		TotalValue:          float64(s.totalValueTick.Load()) / 100.0,
		MarketOrdersMatched: s.marketMatched.Load(),
		LimitOrdersMatched:  s.limitMatched.Load(),
	}
}
