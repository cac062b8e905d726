// Package dashboard broadcasts order book, trade, and statistics
// snapshots over WebSocket: a single fan-out hub serving the three
// JSON message shapes a live trading dashboard expects.
package dashboard

import (
	"encoding/json"
	"net/http"
	"strconv"
	"sync"

	"github.com/gorilla/websocket"
	"github.com/sirupsen/logrus"

	"limitless/book"
	"limitless/matching"
	"limitless/quote"
)

// money renders as a JSON number fixed to two decimal places instead
// of Go's shortest round-trip float formatting, the display precision
// the dashboard feed requires for every price/value field.
type money float64

func (m money) MarshalJSON() ([]byte, error) {
	return []byte(strconv.FormatFloat(float64(m), 'f', 2, 64)), nil
}

// OrderBookSnapshot mirrors the "orderbook_snapshot" dashboard
// message: top-of-book summary plus up to ten depth levels per side.
type OrderBookSnapshot struct {
	Type      string       `json:"type"`
	Timestamp int64        `json:"timestamp"`
	BestBid   *money       `json:"best_bid,omitempty"`
	BestAsk   *money       `json:"best_ask,omitempty"`
	Spread    *money       `json:"spread,omitempty"`
	MidPrice  *money       `json:"mid_price,omitempty"`
	Bids      []DepthEntry `json:"bids"`
	Asks      []DepthEntry `json:"asks"`
}

// DepthEntry is one row of a dashboard depth table.
type DepthEntry struct {
	Price    money  `json:"price"`
	Quantity uint64 `json:"quantity"`
	Orders   int    `json:"orders"`
}

// TradeMessage mirrors the "trade" dashboard message.
type TradeMessage struct {
	Type        string `json:"type"`
	Timestamp   int64  `json:"timestamp"`
	Symbol      string `json:"symbol"`
	BuyOrderID  uint64 `json:"buy_order_id"`
	SellOrderID uint64 `json:"sell_order_id"`
	Price       money  `json:"price"`
	Quantity    uint64 `json:"quantity"`
	Value       money  `json:"value"`
}

// StatisticsMessage mirrors the "statistics" dashboard message.
type StatisticsMessage struct {
	Type             string `json:"type"`
	Timestamp        int64  `json:"timestamp"`
	TotalOrders      uint64 `json:"total_orders"`
	BidLevels        int    `json:"bid_levels"`
	AskLevels        int    `json:"ask_levels"`
	TotalBidQuantity uint64 `json:"total_bid_quantity"`
	TotalAskQuantity uint64 `json:"total_ask_quantity"`
}

const maxDepthLevels = 10

// toDepthEntries converts the book's raw depth rows into dashboard
// DepthEntry values, capping at maxDepthLevels per side.
func toDepthEntries(levels []book.DepthLevel) []DepthEntry {
	if len(levels) > maxDepthLevels {
		levels = levels[:maxDepthLevels]
	}
	out := make([]DepthEntry, len(levels))
	for i, lvl := range levels {
		out[i] = DepthEntry{
			Price:    money(lvl.Price.ToFloat()),
			Quantity: uint64(lvl.Quantity),
			Orders:   lvl.OrderCount,
		}
	}
	return out
}

// BuildSnapshot reads ob under the caller's ownership of the engine
// goroutine and renders the orderbook_snapshot message.
func BuildSnapshot(ob *book.OrderBook, now int64) OrderBookSnapshot {
	snap := OrderBookSnapshot{
		Type:      "orderbook_snapshot",
		Timestamp: now,
		Bids:      toDepthEntries(ob.Depth(quote.Buy, maxDepthLevels)),
		Asks:      toDepthEntries(ob.Depth(quote.Sell, maxDepthLevels)),
	}

	if bid, ok := ob.BestBid(); ok {
		v := money(bid.ToFloat())
		snap.BestBid = &v
	}
	if ask, ok := ob.BestAsk(); ok {
		v := money(ask.ToFloat())
		snap.BestAsk = &v
	}
	if spread, ok := ob.Spread(); ok {
		v := money(spread.ToFloat())
		snap.Spread = &v
	}
	if mid, ok := ob.MidPrice(); ok {
		v := money(mid)
		snap.MidPrice = &v
	}
	return snap
}

// BuildTrade renders the trade message for a single execution.
func BuildTrade(trade quote.Trade) TradeMessage {
	return TradeMessage{
		Type:        "trade",
		Timestamp:   int64(trade.Timestamp),
		Symbol:      string(trade.Symbol),
		BuyOrderID:  uint64(trade.BuyOrderID),
		SellOrderID: uint64(trade.SellOrderID),
		Price:       money(trade.Price.ToFloat()),
		Quantity:    uint64(trade.Quantity),
		Value:       money(trade.Value()),
	}
}

// BuildStatistics renders the statistics message from engine-wide
// counters and the book's current level counts.
func BuildStatistics(ob *book.OrderBook, stats matching.Snapshot, now int64) StatisticsMessage {
	bids := ob.Depth(quote.Buy, 1<<30)
	asks := ob.Depth(quote.Sell, 1<<30)

	var bidQty, askQty uint64
	for _, lvl := range bids {
		bidQty += uint64(lvl.Quantity)
	}
	for _, lvl := range asks {
		askQty += uint64(lvl.Quantity)
	}

	return StatisticsMessage{
		Type:             "statistics",
		Timestamp:        now,
		TotalOrders:      stats.TotalTrades,
		BidLevels:        len(bids),
		AskLevels:        len(asks),
		TotalBidQuantity: bidQty,
		TotalAskQuantity: askQty,
	}
}

type subscription struct {
	ch chan []byte
}

// Hub fans broadcast JSON payloads out to every connected WebSocket
// client. It broadcasts pre-encoded byte-slice payloads so one
// Broadcast implementation serves all three message shapes without a
// type parameter per shape.
type Hub struct {
	mu       sync.RWMutex
	subs     map[*subscription]struct{}
	upgrader websocket.Upgrader
	log      *logrus.Logger
}

// NewHub builds an empty Hub. log may be nil, in which case a
// standard logrus.Logger is used.
func NewHub(log *logrus.Logger) *Hub {
	if log == nil {
		log = logrus.StandardLogger()
	}
	return &Hub{
		subs: make(map[*subscription]struct{}),
		upgrader: websocket.Upgrader{
			CheckOrigin: func(*http.Request) bool { return true },
		},
		log: log,
	}
}

// Broadcast encodes payload as pretty-printed JSON and fans it out to
// every connected client. A client whose outbound buffer is full is
// skipped rather than blocking the broadcaster, per the engine's
// "broadcast to a dead peer is silently skipped" transport-failure
// policy.
func (h *Hub) Broadcast(payload any) {
	data, err := json.MarshalIndent(payload, "", "  ")
	if err != nil {
		h.log.WithError(err).Error("dashboard: marshal broadcast payload")
		return
	}

	h.mu.RLock()
	defer h.mu.RUnlock()
	for sub := range h.subs {
		select {
		case sub.ch <- data:
		default:
		}
	}
}

// ServeWS upgrades the HTTP request to a WebSocket connection and
// streams every subsequent Broadcast call to it until the connection
// breaks or the write fails.
func (h *Hub) ServeWS(w http.ResponseWriter, r *http.Request) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.log.WithError(err).Warn("dashboard: websocket upgrade failed")
		return
	}
	defer conn.Close()

	sub := &subscription{ch: make(chan []byte, 64)}
	h.mu.Lock()
	h.subs[sub] = struct{}{}
	h.mu.Unlock()
	defer func() {
		h.mu.Lock()
		delete(h.subs, sub)
		h.mu.Unlock()
	}()

	for payload := range sub.ch {
		if err := conn.WriteMessage(websocket.TextMessage, payload); err != nil {
			h.log.WithError(err).Debug("dashboard: client write failed, dropping connection")
			return
		}
	}
}
