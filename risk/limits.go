// Package risk implements the pre-trade risk gate and the per-symbol
// position/P&L accounting that must stay consistent with every
// executed trade, grounded in the original engine's RiskManager.
package risk

import "limitless/quote"

// Limits configures the pre-trade checks a Manager enforces. Zero
// value fields disable the corresponding check (treated as
// "unlimited") rather than rejecting everything, so a Manager can be
// built incrementally.
type Limits struct {
	MaxOrderSize       quote.Quantity // max single order quantity, 0 = unlimited
	MaxOrderValue      float64        // max single order value, 0 = unlimited
	MaxPositionSize    int64          // max absolute position size, 0 = unlimited
	MaxPositionValue   float64        // max absolute position value, 0 = unlimited
	MaxDailyLoss       float64        // positive threshold; daily P&L below -this rejects
	MaxDrawdown        float64        // positive threshold; peak-to-trough equity drop
	MaxOrdersPerSecond int            // rate cap; carried but not checked by Manager.Validate
}

// DefaultLimits mirrors the original RiskLimits defaults.
func DefaultLimits() Limits {
	return Limits{
		MaxOrderSize:       10000,
		MaxOrderValue:      1_000_000.0,
		MaxPositionSize:    50000,
		MaxPositionValue:   5_000_000.0,
		MaxDailyLoss:       100_000.0,
		MaxDrawdown:        200_000.0,
		MaxOrdersPerSecond: 100,
	}
}

// Result is the outcome of validating an order against Limits. The
// zero value, Accepted, means the order cleared every check.
type Result int

const (
	Accepted Result = iota
	RejectedOrderSize
	RejectedOrderValue
	RejectedPositionLimit
	RejectedPositionValue
	RejectedDailyLoss
	RejectedDrawdown
	RejectedRateLimit
)

func (r Result) String() string {
	switch r {
	case Accepted:
		return "ACCEPTED"
	case RejectedOrderSize:
		return "REJECTED_ORDER_SIZE"
	case RejectedOrderValue:
		return "REJECTED_ORDER_VALUE"
	case RejectedPositionLimit:
		return "REJECTED_POSITION_LIMIT"
	case RejectedPositionValue:
		return "REJECTED_POSITION_VALUE"
	case RejectedDailyLoss:
		return "REJECTED_DAILY_LOSS"
	case RejectedDrawdown:
		return "REJECTED_DRAWDOWN"
	case RejectedRateLimit:
		return "REJECTED_RATE_LIMIT"
	default:
		return "UNKNOWN"
	}
}
