package risk

import (
	"math"
	"sync"

	"limitless/quote"
)

// Manager enforces Limits before submission and accounts
// position/P&L after every executed trade. A Manager is safe for
// concurrent validate/update calls (guarded by an internal mutex) so
// it can be shared between the engine goroutine and a read-only
// dashboard snapshot path, but in the engine's own hot path it is
// only ever touched from the single matching goroutine, same as
// OrderBook.
type Manager struct {
	mu            sync.Mutex
	limits        Limits
	positions     map[quote.Symbol]*Position
	dailyPnL      float64
	peakEquity    float64
	currentEquity float64
}

// New builds a Manager enforcing limits.
func New(limits Limits) *Manager {
	return &Manager{
		limits:    limits,
		positions: make(map[quote.Symbol]*Position),
	}
}

// Limits returns the currently enforced limits.
func (m *Manager) Limits() Limits {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.limits
}

// SetLimits replaces the enforced limits.
func (m *Manager) SetLimits(limits Limits) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.limits = limits
}

// Validate runs the fixed-order pre-trade checks — order size, order
// value, position limit, position value, daily loss, drawdown — and
// the first failing check wins. referencePrice is the order's own
// limit price for LIMIT orders, and the caller-supplied last/mark
// price for MARKET orders (which carry no price of their own).
func (m *Manager) Validate(order quote.Order, referencePrice float64) Result {
	m.mu.Lock()
	defer m.mu.Unlock()

	if order.Quantity > m.limits.MaxOrderSize && m.limits.MaxOrderSize > 0 {
		return RejectedOrderSize
	}

	price := referencePrice
	if order.Type != quote.Market {
		price = order.Price.ToFloat()
	}
	orderValue := float64(order.Quantity) * price
	if m.limits.MaxOrderValue > 0 && orderValue > m.limits.MaxOrderValue {
		return RejectedOrderValue
	}

	pos := m.positions[order.Symbol]
	newQuantity := int64(0)
	if pos != nil {
		newQuantity = pos.Quantity
	}
	if order.Side == quote.Buy {
		newQuantity += int64(order.Quantity)
	} else {
		newQuantity -= int64(order.Quantity)
	}

	if m.limits.MaxPositionSize > 0 && absInt64(newQuantity) > float64(m.limits.MaxPositionSize) {
		return RejectedPositionLimit
	}

	newPositionValue := absInt64(newQuantity) * price
	if m.limits.MaxPositionValue > 0 && newPositionValue > m.limits.MaxPositionValue {
		return RejectedPositionValue
	}

	if m.limits.MaxDailyLoss > 0 && m.dailyPnL < -m.limits.MaxDailyLoss {
		return RejectedDailyLoss
	}

	drawdown := m.peakEquity - m.currentEquity
	if m.limits.MaxDrawdown > 0 && drawdown > m.limits.MaxDrawdown {
		return RejectedDrawdown
	}

	return Accepted
}

// Update applies a trade's effect on the relevant symbol's Position.
// aggressorSide must be derived by the caller from the order that
// triggered the trade — it is never inferred or hard-coded here.
func (m *Manager) Update(trade quote.Trade, aggressorSide quote.Side) {
	m.mu.Lock()
	defer m.mu.Unlock()

	pos, ok := m.positions[trade.Symbol]
	if !ok {
		pos = &Position{Symbol: string(trade.Symbol)}
		m.positions[trade.Symbol] = pos
	}

	tradePrice := trade.Price.ToFloat()
	tradeQty := int64(trade.Quantity)

	if aggressorSide == quote.Buy {
		pos.GrossBought += uint64(trade.Quantity)
		if pos.Quantity >= 0 {
			pos.AveragePrice = (float64(pos.Quantity)*pos.AveragePrice + float64(tradeQty)*tradePrice) /
				float64(pos.Quantity+tradeQty)
			pos.Quantity += tradeQty
		} else {
			closingQty := minInt64(tradeQty, -pos.Quantity)
			pnl := float64(closingQty) * (pos.AveragePrice - tradePrice)
			pos.RealizedPnL += pnl
			m.dailyPnL += pnl
			pos.Quantity += tradeQty
			if pos.Quantity > 0 {
				pos.AveragePrice = tradePrice
			}
		}
	} else {
		pos.GrossSold += uint64(trade.Quantity)
		if pos.Quantity <= 0 {
			pos.AveragePrice = (absInt64(pos.Quantity)*pos.AveragePrice + float64(tradeQty)*tradePrice) /
				(absInt64(pos.Quantity) + float64(tradeQty))
			pos.Quantity -= tradeQty
		} else {
			closingQty := minInt64(tradeQty, pos.Quantity)
			pnl := float64(closingQty) * (tradePrice - pos.AveragePrice)
			pos.RealizedPnL += pnl
			m.dailyPnL += pnl
			pos.Quantity -= tradeQty
			if pos.Quantity < 0 {
				pos.AveragePrice = tradePrice
			}
		}
	}

	m.recomputeEquity()
}

// MarkPrice updates the unrealized P&L of symbol's position against
// an externally-supplied mark and recomputes equity/drawdown.
func (m *Manager) MarkPrice(symbol quote.Symbol, price float64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	pos, ok := m.positions[symbol]
	if !ok {
		return
	}
	pos.updateUnrealized(price)
	m.recomputeEquity()
}

func (m *Manager) recomputeEquity() {
	equity := m.dailyPnL
	for _, pos := range m.positions {
		equity += pos.UnrealizedPnL
	}
	m.currentEquity = equity
	if equity > m.peakEquity {
		m.peakEquity = equity
	}
}

// Position returns a copy of symbol's position. The zero Position is
// returned when the symbol has no trading history.
func (m *Manager) Position(symbol quote.Symbol) Position {
	m.mu.Lock()
	defer m.mu.Unlock()
	pos, ok := m.positions[symbol]
	if !ok {
		return Position{Symbol: string(symbol)}
	}
	return *pos
}

// Positions returns a copy of every tracked position, keyed by symbol.
func (m *Manager) Positions() map[quote.Symbol]Position {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make(map[quote.Symbol]Position, len(m.positions))
	for sym, pos := range m.positions {
		out[sym] = *pos
	}
	return out
}

// TotalPnL returns daily realized P&L plus unrealized P&L across
// every tracked position.
func (m *Manager) TotalPnL() float64 {
	m.mu.Lock()
	defer m.mu.Unlock()
	total := m.dailyPnL
	for _, pos := range m.positions {
		total += pos.UnrealizedPnL
	}
	return total
}

// DailyPnL returns the accrued realized P&L for the current day.
func (m *Manager) DailyPnL() float64 {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.dailyPnL
}

// Drawdown returns peak equity minus current equity (always >= 0 once
// at least one trade has updated equity; 0 before that).
func (m *Manager) Drawdown() float64 {
	m.mu.Lock()
	defer m.mu.Unlock()
	return math.Max(0, m.peakEquity-m.currentEquity)
}

// ResetDaily zeroes daily P&L and every tracked position's realized
// P&L without touching quantities or average prices.
func (m *Manager) ResetDaily() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.dailyPnL = 0
	for _, pos := range m.positions {
		pos.RealizedPnL = 0
	}
}
