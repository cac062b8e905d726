package risk

// Position tracks one symbol's open quantity, volume-weighted average
// price, realized/unrealized P&L and gross trading volume. The zero
// value is a flat position with no history, matching the original
// RiskManager's default-constructed Position.
type Position struct {
	Symbol        string
	Quantity      int64 // positive long, negative short
	AveragePrice  float64
	RealizedPnL   float64
	UnrealizedPnL float64
	GrossBought   uint64
	GrossSold     uint64
}

// IsFlat reports whether the position currently carries no quantity.
func (p *Position) IsFlat() bool { return p.Quantity == 0 }

// IsLong reports whether the position is net long.
func (p *Position) IsLong() bool { return p.Quantity > 0 }

// IsShort reports whether the position is net short.
func (p *Position) IsShort() bool { return p.Quantity < 0 }

// MarketValue returns the absolute value of the position at
// currentPrice.
func (p *Position) MarketValue(currentPrice float64) float64 {
	return absInt64(p.Quantity) * currentPrice
}

// updateUnrealized recomputes UnrealizedPnL against currentPrice.
// Meaningless (and forced to zero) when flat.
func (p *Position) updateUnrealized(currentPrice float64) {
	if p.Quantity == 0 {
		p.UnrealizedPnL = 0
		return
	}
	p.UnrealizedPnL = float64(p.Quantity) * (currentPrice - p.AveragePrice)
}

func absInt64(v int64) float64 {
	if v < 0 {
		return float64(-v)
	}
	return float64(v)
}

func minInt64(a, b int64) int64 {
	if a < b {
		return a
	}
	return b
}
