package fixcodec

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"limitless/quote"
)

func soh(parts ...string) []byte {
	return []byte(strings.Join(parts, string(rune(SOH))) + string(rune(SOH)))
}

func TestCodec_ParseSplitsTagValuePairs(t *testing.T) {
	c := New()
	raw := soh("8=FIX.4.2", "35=D", "55=LMT", "54=1")
	msg := c.Parse(raw)

	v, ok := msg.Get(TagSymbol)
	require.True(t, ok)
	require.Equal(t, "LMT", v)
	require.Equal(t, byte('D'), msg.Type())
}

func TestCodec_ParseDuplicateTagLastWins(t *testing.T) {
	c := New()
	raw := soh("35=D", "55=LMT", "55=OTHER")
	msg := c.Parse(raw)

	v, _ := msg.Get(TagSymbol)
	require.Equal(t, "OTHER", v)
}

func TestCodec_ParseSkipsMalformedSegments(t *testing.T) {
	c := New()
	raw := soh("35=D", "garbage", "notanumber=5", "55=LMT")
	msg := c.Parse(raw)

	v, ok := msg.Get(TagSymbol)
	require.True(t, ok)
	require.Equal(t, "LMT", v)
}

func TestCodec_SerializeEmitsHeaderBodyLengthAndChecksum(t *testing.T) {
	c := New()
	msg := NewMessage()
	msg.SetType(MsgNewOrder)
	msg.Set(TagSymbol, "LMT")

	out := c.Serialize(msg)
	parsed := c.Parse(out)

	beginString, ok := parsed.Get(TagBeginString)
	require.True(t, ok)
	require.Equal(t, ProtocolVersion, beginString)

	_, ok = parsed.Get(TagBodyLength)
	require.True(t, ok)
	_, ok = parsed.Get(TagCheckSum)
	require.True(t, ok)
}

func TestCodec_RoundTripParseSerializePreservesBodyFields(t *testing.T) {
	c := New()
	original := NewMessage()
	original.SetType(MsgNewOrder)
	original.SetUint(TagClOrdID, 42)
	original.Set(TagSymbol, "LMT")
	original.Set(TagSide, "1")
	original.Set(TagOrdType, "2")
	original.SetUint(TagOrderQty, 100)
	original.Set(TagPrice, "150.25")

	wire := c.Serialize(original)
	roundTripped := c.Parse(wire)

	require.True(t, original.Equal(roundTripped), "body fields must survive a serialize/parse round trip")
}

func TestCodec_ToCommandNewOrder(t *testing.T) {
	c := New()
	msg := NewMessage()
	msg.SetType(MsgNewOrder)
	msg.SetUint(TagClOrdID, 7)
	msg.Set(TagSymbol, "LMT")
	msg.Set(TagSide, "1")
	msg.Set(TagOrdType, "2")
	msg.SetUint(TagOrderQty, 100)
	msg.Set(TagPrice, "150.25")

	cmd, ok := c.ToCommand(msg)
	require.True(t, ok)
	require.Equal(t, CommandNew, cmd.Kind)
	require.Equal(t, quote.OrderID(7), cmd.Order.ID)
	require.Equal(t, quote.Symbol("LMT"), cmd.Order.Symbol)
	require.Equal(t, quote.Buy, cmd.Order.Side)
	require.Equal(t, quote.Limit, cmd.Order.Type)
	require.Equal(t, quote.Quantity(100), cmd.Order.Quantity)
	require.Equal(t, quote.PriceFromFloat(150.25), cmd.Order.Price)
}

func TestCodec_ToCommandNewOrderMissingPriceForLimitFails(t *testing.T) {
	c := New()
	msg := NewMessage()
	msg.SetType(MsgNewOrder)
	msg.SetUint(TagClOrdID, 7)
	msg.Set(TagSymbol, "LMT")
	msg.Set(TagSide, "1")
	msg.Set(TagOrdType, "2")
	msg.SetUint(TagOrderQty, 100)
	// TagPrice intentionally omitted.

	_, ok := c.ToCommand(msg)
	require.False(t, ok)
}

func TestCodec_ToCommandMarketOrderDoesNotRequirePrice(t *testing.T) {
	c := New()
	msg := NewMessage()
	msg.SetType(MsgNewOrder)
	msg.SetUint(TagClOrdID, 7)
	msg.Set(TagSymbol, "LMT")
	msg.Set(TagSide, "2")
	msg.Set(TagOrdType, "1")
	msg.SetUint(TagOrderQty, 100)

	cmd, ok := c.ToCommand(msg)
	require.True(t, ok)
	require.Equal(t, quote.Market, cmd.Order.Type)
	require.Equal(t, quote.Sell, cmd.Order.Side)
}

func TestCodec_ToCommandCancel(t *testing.T) {
	c := New()
	msg := NewMessage()
	msg.SetType(MsgCancel)
	msg.SetUint(TagOrderID, 99)

	cmd, ok := c.ToCommand(msg)
	require.True(t, ok)
	require.Equal(t, CommandCancel, cmd.Kind)
	require.Equal(t, quote.OrderID(99), cmd.OrderID)
}

func TestCodec_ToCommandModify(t *testing.T) {
	c := New()
	msg := NewMessage()
	msg.SetType(MsgModify)
	msg.SetUint(TagOrderID, 99)
	msg.Set(TagPrice, "101.50")
	msg.SetUint(TagOrderQty, 20)

	cmd, ok := c.ToCommand(msg)
	require.True(t, ok)
	require.Equal(t, CommandModify, cmd.Kind)
	require.Equal(t, quote.OrderID(99), cmd.OrderID)
	require.Equal(t, quote.PriceFromFloat(101.50), cmd.NewPrice)
	require.Equal(t, quote.Quantity(20), cmd.NewQty)
}

func TestCodec_ToCommandUnknownMessageTypeFails(t *testing.T) {
	c := New()
	msg := NewMessage()
	msg.SetType(MsgHeartbeat)

	_, ok := c.ToCommand(msg)
	require.False(t, ok)
}

func TestCodec_ExecutionReportOmitsLastFieldsWhenNoFill(t *testing.T) {
	c := New()
	order := quote.NewOrder(1, "LMT", quote.Buy, quote.Limit, quote.PriceFromFloat(100), 10, 0)

	report := c.ExecutionReport(&order, "EXEC1", ExecTypeNew, 0, 0)
	require.False(t, report.Has(TagLastQty))
	require.False(t, report.Has(TagLastPx))
}

func TestCodec_ExecutionReportIncludesLastFieldsOnFill(t *testing.T) {
	c := New()
	order := quote.NewOrder(1, "LMT", quote.Buy, quote.Limit, quote.PriceFromFloat(100), 10, 0)
	order.Fill(4)

	report := c.ExecutionReport(&order, "EXEC2", ExecTypePartial, 4, quote.PriceFromFloat(100))
	require.True(t, report.Has(TagLastQty))
	require.True(t, report.Has(TagLastPx))

	leaves, ok := report.GetUint(TagLeavesQty)
	require.True(t, ok)
	require.Equal(t, uint64(6), leaves)

	cum, ok := report.GetUint(TagCumQty)
	require.True(t, ok)
	require.Equal(t, uint64(4), cum)
}

func TestCodec_NewOrderMessageIsInverseOfToCommand(t *testing.T) {
	c := New()
	order := quote.NewOrder(5, "LMT", quote.Sell, quote.Limit, quote.PriceFromFloat(99.50), 30, 0)

	msg := c.NewOrderMessage(order)
	cmd, ok := c.ToCommand(msg)
	require.True(t, ok)
	require.Equal(t, order.ID, cmd.Order.ID)
	require.Equal(t, order.Side, cmd.Order.Side)
	require.Equal(t, order.Price, cmd.Order.Price)
	require.Equal(t, order.Quantity, cmd.Order.Quantity)
}
