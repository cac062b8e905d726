// Package matching implements the submit/cancel/modify protocol that
// walks the opposite side of an OrderBook in price-time priority,
// emits trades, mutates resting orders, and rests any residual limit
// quantity.
package matching

import (
	"sync/atomic"

	"limitless/book"
	"limitless/quote"
)

// TradeObserver is invoked once per trade, in emission order, during
// Submit. aggressor is the side of the order that initiated the
// match (Submit's incoming order), not an inference from the trade
// itself — callers needing to update per-side P&L must use it rather
// than guessing. Observers must not block and must not re-enter the
// engine (no recursive Submit/Cancel/Modify); if they need to, they
// must enqueue a new command instead.
type TradeObserver func(trade quote.Trade, aggressor quote.Side)

// OrderObserver is invoked once per mutated order: the incoming order
// exactly once at the end of Submit, and once per resting order that
// was filled, cancelled, or modified.
type OrderObserver func(order *quote.Order)

// Engine is the single-symbol matching protocol. It is not safe for
// concurrent use: every method must be called from one logical
// executor, typically a goroutine draining an inbound command queue.
type Engine struct {
	symbol        quote.Symbol
	book          *book.OrderBook
	clock         quote.Clock
	nextID        atomic.Uint64
	Stats         Stats
	onTrade       TradeObserver
	onOrderUpdate OrderObserver
}

// New builds an engine for symbol using clock as the timestamp source
// for trades and newly-created orders.
func New(symbol quote.Symbol, clock quote.Clock) *Engine {
	return &Engine{
		symbol: symbol,
		book:   book.New(symbol),
		clock:  clock,
	}
}

// Book exposes the underlying order book for read-only queries
// (depth, best bid/ask, spread) by the dashboard and tests.
func (e *Engine) Book() *book.OrderBook { return e.book }

// SetTradeObserver installs the trade callback. Pass nil to disable.
func (e *Engine) SetTradeObserver(fn TradeObserver) { e.onTrade = fn }

// SetOrderObserver installs the order-update callback. Pass nil to
// disable.
func (e *Engine) SetOrderObserver(fn OrderObserver) { e.onOrderUpdate = fn }

// NextOrderID returns a fresh, monotonically increasing order id.
// Safe to call from any goroutine (it only touches an atomic
// counter), unlike the rest of Engine's methods.
func (e *Engine) NextOrderID() quote.OrderID {
	return quote.OrderID(e.nextID.Add(1))
}

// Submit runs the canonical matching loop for an incoming order:
// walk the opposite side while it crosses, emit trades, then rest any
// limit residual. Symbol mismatch or a duplicate order id rejects the
// order with an empty trade list and no mutation or observer calls.
func (e *Engine) Submit(incoming quote.Order) []quote.Trade {
	if incoming.Symbol != e.symbol {
		return nil
	}
	if _, exists := e.book.Order(incoming.ID); exists {
		return nil
	}

	incoming.Status = quote.New
	incoming.Remaining = incoming.Quantity
	if incoming.Created == 0 {
		incoming.Created = e.clock.Now()
	}

	opposite := incoming.Side.Opposite()
	var trades []quote.Trade
	var touched []*quote.Order

	for incoming.Remaining > 0 {
		bestPrice, ok := e.bestOppositePrice(opposite)
		if !ok {
			break
		}
		if !crosses(incoming, bestPrice) {
			break
		}
		resting := e.book.FrontOrder(opposite, bestPrice)
		if resting == nil {
			break
		}

		fillQty := minQty(incoming.Remaining, resting.Remaining)
		tradePrice := bestPrice

		incoming.Fill(fillQty)
		resting.Fill(fillQty)
		e.book.ApplyFill(resting, fillQty)

		trades = append(trades, quote.Trade{
			BuyOrderID:  buyOrderID(incoming, resting),
			SellOrderID: sellOrderID(incoming, resting),
			Symbol:      e.symbol,
			Price:       tradePrice,
			Quantity:    fillQty,
			Timestamp:   e.clock.Now(),
		})
		touched = append(touched, resting)
		e.Stats.recordTrade(uint64(fillQty), int64(tradePrice))
	}

	if incoming.Type == quote.Market {
		e.Stats.recordMarketMatch()
	} else {
		e.Stats.recordLimitMatch()
	}

	final := incoming
	if restable(incoming.Type) && incoming.Remaining > 0 {
		e.book.AddOrder(&final)
	}

	for _, trade := range trades {
		if e.onTrade != nil {
			e.onTrade(trade, incoming.Side)
		}
	}
	if e.onOrderUpdate != nil {
		e.onOrderUpdate(&final)
		for _, order := range touched {
			e.onOrderUpdate(order)
		}
	}

	return trades
}

// Cancel removes a resting order by id. Returns false, with no
// mutation, if the id isn't currently resting.
func (e *Engine) Cancel(id quote.OrderID) bool {
	order, ok := e.book.Order(id)
	if !ok {
		return false
	}
	if !e.book.CancelOrder(id) {
		return false
	}
	if e.onOrderUpdate != nil {
		e.onOrderUpdate(order)
	}
	return true
}

// Modify is equivalent to Cancel(id) followed by Submit of a new order
// carrying the same id/symbol/side/type with the new price and
// quantity — including re-entering the matching loop, so a modify can
// generate trades if the amended order now crosses. Observers never
// see the intermediate cancelled-but-not-yet-resubmitted state: both
// steps run before any callback fires.
func (e *Engine) Modify(id quote.OrderID, newPrice quote.Price, newQty quote.Quantity) ([]quote.Trade, bool) {
	existing, ok := e.book.Order(id)
	if !ok {
		return nil, false
	}
	symbol, side, typ := existing.Symbol, existing.Side, existing.Type

	// Cancel without firing the cancel observer: the replacement's
	// Submit call reports the final state, and no interleaved
	// cancelled-but-not-yet-resubmitted state should be visible to
	// observers.
	if !e.book.CancelOrder(id) {
		return nil, false
	}
	replacement := quote.NewOrder(id, symbol, side, typ, newPrice, newQty, e.clock.Now())
	trades := e.Submit(replacement)
	return trades, true
}

func (e *Engine) bestOppositePrice(side quote.Side) (quote.Price, bool) {
	if side == quote.Buy {
		return e.book.BestBid()
	}
	return e.book.BestAsk()
}

// crosses reports whether the incoming order would trade against a
// resting order quoted at bestOpposite. Market orders always cross.
// STOP and STOP_LIMIT orders carry no activation logic, so they fall
// through to the same price test as LIMIT.
func crosses(incoming quote.Order, bestOpposite quote.Price) bool {
	if incoming.Type == quote.Market {
		return true
	}
	if incoming.Side == quote.Buy {
		return bestOpposite <= incoming.Price
	}
	return bestOpposite >= incoming.Price
}

// restable reports whether a fully- or partially-unfilled order of
// this type should rest on the book. Market orders never rest; their
// residual is discarded after being reported to observers.
func restable(t quote.OrderType) bool {
	return t != quote.Market
}

func buyOrderID(incoming quote.Order, resting *quote.Order) quote.OrderID {
	if incoming.Side == quote.Buy {
		return incoming.ID
	}
	return resting.ID
}

func sellOrderID(incoming quote.Order, resting *quote.Order) quote.OrderID {
	if incoming.Side == quote.Sell {
		return incoming.ID
	}
	return resting.ID
}

func minQty(a, b quote.Quantity) quote.Quantity {
	if a < b {
		return a
	}
	return b
}
