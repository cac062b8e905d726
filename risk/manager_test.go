package risk

import (
	"testing"

	"github.com/stretchr/testify/require"

	"limitless/quote"
)

func limitOrder(side quote.Side, price float64, qty quote.Quantity) quote.Order {
	return quote.NewOrder(1, "LMT", side, quote.Limit, quote.PriceFromFloat(price), qty, 0)
}

func TestManager_ValidateAcceptsWithinAllLimits(t *testing.T) {
	m := New(DefaultLimits())
	result := m.Validate(limitOrder(quote.Buy, 100, 10), 0)
	require.Equal(t, Accepted, result)
}

func TestManager_ValidateRejectsOversizeOrder(t *testing.T) {
	m := New(Limits{MaxOrderSize: 100})
	result := m.Validate(limitOrder(quote.Buy, 100, 500), 0)
	require.Equal(t, RejectedOrderSize, result)
}

func TestManager_ValidateRejectsOversizeOrderValue(t *testing.T) {
	m := New(Limits{MaxOrderValue: 1000})
	result := m.Validate(limitOrder(quote.Buy, 100, 50), 0)
	require.Equal(t, RejectedOrderValue, result)
}

func TestManager_ValidateRejectsPositionLimitBeforeTrading(t *testing.T) {
	m := New(Limits{MaxPositionSize: 5})
	result := m.Validate(limitOrder(quote.Buy, 100, 10), 0)
	require.Equal(t, RejectedPositionLimit, result)
}

func TestManager_ValidateRejectsPositionLimitAfterExistingPosition(t *testing.T) {
	m := New(Limits{MaxPositionSize: 15})
	m.Update(quote.Trade{Symbol: "LMT", BuyOrderID: 1, SellOrderID: 2, Price: quote.PriceFromFloat(100), Quantity: 10}, quote.Buy)

	// existing long 10, another buy of 10 would push to 20 > 15
	result := m.Validate(limitOrder(quote.Buy, 100, 10), 0)
	require.Equal(t, RejectedPositionLimit, result)
}

func TestManager_ValidateChecksInFixedOrder_SizeBeforeValue(t *testing.T) {
	// Both size and value would fail; size check must fire first.
	m := New(Limits{MaxOrderSize: 1, MaxOrderValue: 1})
	result := m.Validate(limitOrder(quote.Buy, 100, 500), 0)
	require.Equal(t, RejectedOrderSize, result)
}

func TestManager_ValidateRejectsDailyLoss(t *testing.T) {
	m := New(Limits{MaxDailyLoss: 50})
	// Build a short position, then buy back at a higher price to realize a loss exceeding 50.
	m.Update(quote.Trade{Symbol: "LMT", Price: quote.PriceFromFloat(100), Quantity: 10}, quote.Sell)
	m.Update(quote.Trade{Symbol: "LMT", Price: quote.PriceFromFloat(110), Quantity: 10}, quote.Buy)

	require.Less(t, m.DailyPnL(), -50.0)
	result := m.Validate(limitOrder(quote.Buy, 100, 1), 0)
	require.Equal(t, RejectedDailyLoss, result)
}

func TestManager_UpdateBuildsLongPositionWithWeightedAverage(t *testing.T) {
	m := New(DefaultLimits())
	m.Update(quote.Trade{Symbol: "LMT", Price: quote.PriceFromFloat(100), Quantity: 10}, quote.Buy)
	m.Update(quote.Trade{Symbol: "LMT", Price: quote.PriceFromFloat(110), Quantity: 10}, quote.Buy)

	pos := m.Position("LMT")
	require.Equal(t, int64(20), pos.Quantity)
	require.InDelta(t, 105.0, pos.AveragePrice, 0.0001)
}

func TestManager_UpdateRealizesPnLOnClosingTrade(t *testing.T) {
	m := New(DefaultLimits())
	m.Update(quote.Trade{Symbol: "LMT", Price: quote.PriceFromFloat(100), Quantity: 10}, quote.Buy)
	m.Update(quote.Trade{Symbol: "LMT", Price: quote.PriceFromFloat(110), Quantity: 10}, quote.Sell)

	pos := m.Position("LMT")
	require.Equal(t, int64(0), pos.Quantity)
	require.InDelta(t, 100.0, pos.RealizedPnL, 0.0001)
}

func TestManager_UpdateFlipsFromLongToShortResetsAveragePrice(t *testing.T) {
	m := New(DefaultLimits())
	m.Update(quote.Trade{Symbol: "LMT", Price: quote.PriceFromFloat(100), Quantity: 10}, quote.Buy)
	// Sell 15: closes the 10 long (realizing P&L) and opens a 5 short at 90.
	m.Update(quote.Trade{Symbol: "LMT", Price: quote.PriceFromFloat(90), Quantity: 15}, quote.Sell)

	pos := m.Position("LMT")
	require.Equal(t, int64(-5), pos.Quantity)
	require.InDelta(t, 90.0, pos.AveragePrice, 0.0001)
	require.InDelta(t, -100.0, pos.RealizedPnL, 0.0001)
}

func TestManager_PnLAdditivityAcrossMultipleTrades(t *testing.T) {
	m := New(DefaultLimits())
	m.Update(quote.Trade{Symbol: "LMT", Price: quote.PriceFromFloat(100), Quantity: 10}, quote.Buy)
	m.Update(quote.Trade{Symbol: "LMT", Price: quote.PriceFromFloat(105), Quantity: 5}, quote.Sell)
	m.Update(quote.Trade{Symbol: "LMT", Price: quote.PriceFromFloat(95), Quantity: 5}, quote.Sell)

	pos := m.Position("LMT")
	expected := 5.0*(105-100) + 5.0*(95-100)
	require.InDelta(t, expected, pos.RealizedPnL, 0.0001)
	require.InDelta(t, pos.RealizedPnL, m.DailyPnL(), 0.0001)
}

func TestManager_MarkPriceUpdatesUnrealizedAndDrawdown(t *testing.T) {
	m := New(DefaultLimits())
	m.Update(quote.Trade{Symbol: "LMT", Price: quote.PriceFromFloat(100), Quantity: 10}, quote.Buy)

	m.MarkPrice("LMT", 110)
	pos := m.Position("LMT")
	require.InDelta(t, 100.0, pos.UnrealizedPnL, 0.0001)
	require.Equal(t, 0.0, m.Drawdown())

	m.MarkPrice("LMT", 90)
	require.Greater(t, m.Drawdown(), 0.0)
}

func TestManager_ResetDailyZeroesRealizedPnLButNotPosition(t *testing.T) {
	m := New(DefaultLimits())
	m.Update(quote.Trade{Symbol: "LMT", Price: quote.PriceFromFloat(100), Quantity: 10}, quote.Buy)
	m.Update(quote.Trade{Symbol: "LMT", Price: quote.PriceFromFloat(110), Quantity: 5}, quote.Sell)

	require.NotEqual(t, 0.0, m.DailyPnL())
	m.ResetDaily()

	require.Equal(t, 0.0, m.DailyPnL())
	pos := m.Position("LMT")
	require.Equal(t, 0.0, pos.RealizedPnL)
	require.Equal(t, int64(5), pos.Quantity, "quantity must survive a daily reset")
}

func TestPosition_ZeroValueIsFlat(t *testing.T) {
	var pos Position
	require.True(t, pos.IsFlat())
	require.False(t, pos.IsLong())
	require.False(t, pos.IsShort())
}
