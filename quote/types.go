// Package quote defines the scalar types shared by the book, matching,
// risk and wire-codec packages: order identifiers, fixed-point prices,
// quantities, timestamps and the small closed enumerations used
// throughout the engine.
package quote

// OrderID uniquely identifies an order for the lifetime of one engine
// process. Ids are assigned monotonically by the caller or by
// Engine.NextOrderID and are never reused.
type OrderID uint64

// Price is a fixed-point price in hundredths of the quote currency
// (scale=100). A displayed price of 150.25 is represented as 15025.
type Price int64

// Quantity is a count of discrete tradable units.
type Quantity uint64

// Timestamp is a count of nanoseconds from an unspecified monotonic
// epoch, supplied by a Clock rather than read directly from the OS.
type Timestamp uint64

// Symbol names the single tradable instrument an engine instance
// serves. Treated opaquely other than equality comparison.
type Symbol string

// Side is the direction of an order: BUY or SELL.
type Side uint8

const (
	Buy Side = iota
	Sell
)

func (s Side) String() string {
	if s == Buy {
		return "BUY"
	}
	return "SELL"
}

// Opposite returns the other side.
func (s Side) Opposite() Side {
	if s == Buy {
		return Sell
	}
	return Buy
}

// OrderType is the execution style requested for an order. STOP and
// STOP_LIMIT are accepted and carried but have no runtime matching
// semantics: no activation state machine observes the tape on their
// behalf, so they behave like LIMIT once submitted.
type OrderType uint8

const (
	Market OrderType = iota
	Limit
	Stop
	StopLimit
)

func (t OrderType) String() string {
	switch t {
	case Market:
		return "MARKET"
	case Limit:
		return "LIMIT"
	case Stop:
		return "STOP"
	case StopLimit:
		return "STOP_LIMIT"
	default:
		return "UNKNOWN"
	}
}

// OrderStatus tracks an order's lifecycle.
type OrderStatus uint8

const (
	New OrderStatus = iota
	PartiallyFilled
	Filled
	Cancelled
	Rejected
)

func (s OrderStatus) String() string {
	switch s {
	case New:
		return "NEW"
	case PartiallyFilled:
		return "PARTIALLY_FILLED"
	case Filled:
		return "FILLED"
	case Cancelled:
		return "CANCELLED"
	case Rejected:
		return "REJECTED"
	default:
		return "UNKNOWN"
	}
}

// ToFloat converts a fixed-point Price to its decimal representation.
func (p Price) ToFloat() float64 {
	return float64(p) / 100.0
}

// PriceFromFloat truncates a decimal price into fixed-point ticks.
func PriceFromFloat(v float64) Price {
	return Price(v * 100.0)
}
