package book

import (
	"sort"

	"limitless/quote"
)

// DepthLevel summarizes one price level for depth queries and the
// dashboard projection: the price, the aggregate resting quantity and
// the number of orders contributing to it.
type DepthLevel struct {
	Price      quote.Price
	Quantity   quote.Quantity
	OrderCount int
}

// OrderBook is the two-sided index for a single symbol: bids ordered
// descending by price, asks ordered ascending, plus an id-to-order
// index for O(log P) cancel and modify. Not internally synchronized —
// it must only ever be driven from a single goroutine at a time; that
// single-threaded ownership is what makes concurrent access safe.
type OrderBook struct {
	Symbol quote.Symbol
	bids   []*priceLevel // descending by price
	asks   []*priceLevel // ascending by price
	index  map[quote.OrderID]*quote.Order
}

// New builds an empty order book for symbol.
func New(symbol quote.Symbol) *OrderBook {
	return &OrderBook{
		Symbol: symbol,
		index:  make(map[quote.OrderID]*quote.Order),
	}
}

func (b *OrderBook) levels(side quote.Side) []*priceLevel {
	if side == quote.Buy {
		return b.bids
	}
	return b.asks
}

func (b *OrderBook) setLevels(side quote.Side, levels []*priceLevel) {
	if side == quote.Buy {
		b.bids = levels
	} else {
		b.asks = levels
	}
}

// less reports whether price a sorts before price b on the given
// side: bids descending (higher price first), asks ascending (lower
// price first).
func less(side quote.Side, a, b quote.Price) bool {
	if side == quote.Buy {
		return a > b
	}
	return a < b
}

// findLevel returns the index of the level at price and whether it
// exists, using the side's sort order.
func (b *OrderBook) findLevel(side quote.Side, price quote.Price) (int, bool) {
	levels := b.levels(side)
	idx := sort.Search(len(levels), func(i int) bool {
		return !less(side, levels[i].price, price)
	})
	if idx < len(levels) && levels[idx].price == price {
		return idx, true
	}
	return idx, false
}

// getOrCreateLevel locates the level at price on side, inserting a new
// empty one in sorted position if none exists yet.
func (b *OrderBook) getOrCreateLevel(side quote.Side, price quote.Price) *priceLevel {
	idx, found := b.findLevel(side, price)
	levels := b.levels(side)
	if found {
		return levels[idx]
	}
	lvl := newPriceLevel(price, side)
	levels = append(levels, nil)
	copy(levels[idx+1:], levels[idx:])
	levels[idx] = lvl
	b.setLevels(side, levels)
	return lvl
}

// removeLevelIfEmpty drops the level at price from the sorted slice if
// it has become empty. No-op if the level doesn't exist or isn't
// empty.
func (b *OrderBook) removeLevelIfEmpty(side quote.Side, price quote.Price) {
	idx, found := b.findLevel(side, price)
	if !found {
		return
	}
	levels := b.levels(side)
	if !levels[idx].empty() {
		return
	}
	b.setLevels(side, append(levels[:idx], levels[idx+1:]...))
}

// AddOrder rests order in the book. It rejects (returns false) when
// the symbol doesn't match or the order id is already indexed;
// otherwise the order gains time priority strictly after every order
// already resting at its price.
func (b *OrderBook) AddOrder(order *quote.Order) bool {
	if order.Symbol != b.Symbol {
		return false
	}
	if _, exists := b.index[order.ID]; exists {
		return false
	}
	lvl := b.getOrCreateLevel(order.Side, order.Price)
	lvl.add(order)
	b.index[order.ID] = order
	return true
}

// CancelOrder marks the order CANCELLED, zeroes its remaining
// quantity and removes it from the book. Returns false if the id
// isn't currently resting.
func (b *OrderBook) CancelOrder(id quote.OrderID) bool {
	order, ok := b.index[id]
	if !ok {
		return false
	}
	order.Cancel()
	lvl, found := b.findLevel(order.Side, order.Price)
	if found {
		b.levels(order.Side)[lvl].remove(id)
		b.removeLevelIfEmpty(order.Side, order.Price)
	}
	delete(b.index, id)
	return true
}

// ModifyOrder replaces the resting order's price and/or quantity with
// an atomic cancel-and-re-add, preserving symbol/side/type but
// forfeiting the order's original time priority — this is the
// documented design choice, not an oversight.
func (b *OrderBook) ModifyOrder(id quote.OrderID, newPrice quote.Price, newQty quote.Quantity) bool {
	old, ok := b.index[id]
	if !ok {
		return false
	}
	symbol, side, typ, created := old.Symbol, old.Side, old.Type, old.Created
	if !b.CancelOrder(id) {
		return false
	}
	replacement := quote.NewOrder(id, symbol, side, typ, newPrice, newQty, created)
	return b.AddOrder(&replacement)
}

// Order returns the currently resting order for id, if any.
func (b *OrderBook) Order(id quote.OrderID) (*quote.Order, bool) {
	o, ok := b.index[id]
	return o, ok
}

// BestBid returns the highest resting bid price, if the bid side is
// non-empty.
func (b *OrderBook) BestBid() (quote.Price, bool) {
	if len(b.bids) == 0 {
		return 0, false
	}
	return b.bids[0].price, true
}

// BestAsk returns the lowest resting ask price, if the ask side is
// non-empty.
func (b *OrderBook) BestAsk() (quote.Price, bool) {
	if len(b.asks) == 0 {
		return 0, false
	}
	return b.asks[0].price, true
}

// Spread returns bestAsk - bestBid, defined only when both sides are
// non-empty.
func (b *OrderBook) Spread() (quote.Price, bool) {
	bid, okBid := b.BestBid()
	ask, okAsk := b.BestAsk()
	if !okBid || !okAsk {
		return 0, false
	}
	return ask - bid, true
}

// MidPrice returns the average of the best bid and ask, defined only
// when both sides are non-empty.
func (b *OrderBook) MidPrice() (float64, bool) {
	bid, okBid := b.BestBid()
	ask, okAsk := b.BestAsk()
	if !okBid || !okAsk {
		return 0, false
	}
	return (bid.ToFloat() + ask.ToFloat()) / 2.0, true
}

// Depth returns up to n (price, aggregate quantity, order count)
// levels on side, in priority order.
func (b *OrderBook) Depth(side quote.Side, n int) []DepthLevel {
	levels := b.levels(side)
	if n > len(levels) {
		n = len(levels)
	}
	out := make([]DepthLevel, 0, n)
	for i := 0; i < n; i++ {
		out = append(out, DepthLevel{
			Price:      levels[i].price,
			Quantity:   levels[i].totalQuantity(),
			OrderCount: levels[i].orderCount(),
		})
	}
	return out
}

// FrontOrder returns the order with time priority at the given price
// on side, or nil if the level doesn't exist or is empty. This
// resolves the stubbed getBestBidOrder/getBestAskOrder accessors the
// original matching engine left unimplemented.
func (b *OrderBook) FrontOrder(side quote.Side, price quote.Price) *quote.Order {
	idx, found := b.findLevel(side, price)
	if !found {
		return nil
	}
	return b.levels(side)[idx].front()
}

// PeekBest returns the front (time-priority) order at the best price
// on side, or nil if that side is empty.
func (b *OrderBook) PeekBest(side quote.Side) *quote.Order {
	levels := b.levels(side)
	if len(levels) == 0 {
		return nil
	}
	return levels[0].front()
}

// ApplyFill records that filledQty was just matched against order,
// whose Remaining/Status the caller has already updated. If the order
// is now fully filled it is removed from its level and the book's id
// index; an emptied level is removed from the side.
func (b *OrderBook) ApplyFill(order *quote.Order, filledQty quote.Quantity) {
	idx, found := b.findLevel(order.Side, order.Price)
	if !found {
		return
	}
	lvl := b.levels(order.Side)[idx]
	lvl.applyFill(order.ID, filledQty)
	if order.Remaining == 0 {
		delete(b.index, order.ID)
	}
	b.removeLevelIfEmpty(order.Side, order.Price)
}
