package quote

import "fmt"

// Order is a request to trade a quantity of Symbol, immutable except
// for Remaining and Status which the book and matching engine mutate
// while the order rests.
type Order struct {
	ID        OrderID
	Symbol    Symbol
	Side      Side
	Type      OrderType
	Price     Price // 0 for market orders
	Quantity  Quantity
	Remaining Quantity
	Status    OrderStatus
	Created   Timestamp
}

// NewOrder builds an order in its initial NEW state with Remaining
// set to the full requested Quantity.
func NewOrder(id OrderID, symbol Symbol, side Side, typ OrderType, price Price, qty Quantity, at Timestamp) Order {
	return Order{
		ID:        id,
		Symbol:    symbol,
		Side:      side,
		Type:      typ,
		Price:     price,
		Quantity:  qty,
		Remaining: qty,
		Status:    New,
		Created:   at,
	}
}

// IsActive reports whether the order can still rest on or be matched
// against the book.
func (o *Order) IsActive() bool {
	return o.Status == New || o.Status == PartiallyFilled
}

// Fill reduces Remaining by qty (clamped to Remaining) and advances
// Status to PARTIALLY_FILLED or FILLED accordingly.
func (o *Order) Fill(qty Quantity) {
	if qty > o.Remaining {
		qty = o.Remaining
	}
	o.Remaining -= qty
	if o.Remaining == 0 {
		o.Status = Filled
	} else {
		o.Status = PartiallyFilled
	}
}

// Cancel marks the order CANCELLED and zeroes its remaining quantity.
func (o *Order) Cancel() {
	o.Status = Cancelled
	o.Remaining = 0
}

func (o Order) String() string {
	return fmt.Sprintf("Order[id=%d symbol=%s side=%s type=%s price=%.2f qty=%d remaining=%d status=%s]",
		o.ID, o.Symbol, o.Side, o.Type, o.Price.ToFloat(), o.Quantity, o.Remaining, o.Status)
}
