// Package book implements the price-indexed order book: PriceLevel, the
// per-price FIFO queue of resting orders, and OrderBook, the two-sided
// bid/ask index with an id-to-order lookup for cancel and modify.
package book

import (
	"container/list"
	"fmt"

	"limitless/quote"
)

// priceLevel holds every active order resting at one price, in strict
// FIFO arrival order, alongside a cached sum of their remaining
// quantities. All contained orders share price and side; mutating
// that invariant is a programming error and panics rather than
// returning an error, per the fatal-invariant-violation policy.
type priceLevel struct {
	price    quote.Price
	side     quote.Side
	orders   *list.List
	nodes    map[quote.OrderID]*list.Element
	totalQty quote.Quantity
}

func newPriceLevel(price quote.Price, side quote.Side) *priceLevel {
	return &priceLevel{
		price:  price,
		side:   side,
		orders: list.New(),
		nodes:  make(map[quote.OrderID]*list.Element),
	}
}

// add appends order to the tail of the FIFO, requiring it match this
// level's price and side.
func (l *priceLevel) add(order *quote.Order) {
	if order.Price != l.price {
		panic(fmt.Sprintf("price level %d received order %d at price %d", l.price, order.ID, order.Price))
	}
	if order.Side != l.side {
		panic(fmt.Sprintf("price level side mismatch for order %d", order.ID))
	}
	el := l.orders.PushBack(order)
	l.nodes[order.ID] = el
	l.totalQty += order.Remaining
}

// remove splices the given order out of the FIFO if present, returning
// whether it was found.
func (l *priceLevel) remove(id quote.OrderID) bool {
	el, ok := l.nodes[id]
	if !ok {
		return false
	}
	order := el.Value.(*quote.Order)
	l.totalQty -= order.Remaining
	l.orders.Remove(el)
	delete(l.nodes, id)
	return true
}

// front peeks the order with time priority at this level, or nil if
// the level holds no orders.
func (l *priceLevel) front() *quote.Order {
	el := l.orders.Front()
	if el == nil {
		return nil
	}
	return el.Value.(*quote.Order)
}

// applyFill records that filledQty of order id was just matched,
// removing the order from the level once its remaining quantity hits
// zero. The order's Remaining/Status must already be updated by the
// caller (matching.Engine) before calling applyFill.
func (l *priceLevel) applyFill(id quote.OrderID, filledQty quote.Quantity) {
	l.totalQty -= filledQty
	el, ok := l.nodes[id]
	if !ok {
		return
	}
	order := el.Value.(*quote.Order)
	if order.Remaining == 0 {
		l.orders.Remove(el)
		delete(l.nodes, id)
	}
}

func (l *priceLevel) empty() bool { return l.orders.Len() == 0 }

func (l *priceLevel) totalQuantity() quote.Quantity { return l.totalQty }

func (l *priceLevel) orderCount() int { return l.orders.Len() }
