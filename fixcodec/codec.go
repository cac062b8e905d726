package fixcodec

import (
	"fmt"
	"strconv"
	"strings"

	"limitless/quote"
)

// CommandKind distinguishes the engine commands ToCommand can produce.
type CommandKind int

const (
	CommandNew CommandKind = iota
	CommandCancel
	CommandModify
)

// Command is the lifted form of an inbound message: something the
// engine's Submit/Cancel/Modify can act on directly.
type Command struct {
	Kind     CommandKind
	Order    quote.Order    // populated for CommandNew
	OrderID  quote.OrderID  // populated for CommandCancel/CommandModify
	NewPrice quote.Price    // populated for CommandModify
	NewQty   quote.Quantity // populated for CommandModify
}

// Codec parses wire bytes into Messages/Commands and serializes
// Messages/execution reports back into wire bytes. It is stateless
// and safe for concurrent use.
type Codec struct{}

// New returns a ready-to-use Codec.
func New() Codec { return Codec{} }

// Parse splits rawMessage on SOH into tag=value fields. Duplicate tags
// overwrite (last wins); fields missing '=' or with a non-integer tag
// are skipped; a missing checksum trailer is tolerated (permissive
// ingress parser).
func (Codec) Parse(rawMessage []byte) *Message {
	msg := NewMessage()
	for _, token := range strings.Split(string(rawMessage), string(rune(SOH))) {
		if token == "" {
			continue
		}
		eq := strings.IndexByte(token, '=')
		if eq < 0 {
			continue
		}
		tag, err := strconv.Atoi(token[:eq])
		if err != nil {
			continue
		}
		msg.Set(tag, token[eq+1:])
	}
	return msg
}

// Serialize renders message to wire bytes in the fixed order: the
// protocol-version tag, the body-length tag (computed over the body
// fields, excluding the checksum), the body fields in tag order, then the checksum
// tag carrying the modulo-256 additive sum of every preceding byte.
func (Codec) Serialize(message *Message) []byte {
	var body strings.Builder
	for _, tag := range message.bodyTags() {
		value, _ := message.Get(tag)
		fmt.Fprintf(&body, "%d=%s%c", tag, value, SOH)
	}
	bodyStr := body.String()

	var out strings.Builder
	fmt.Fprintf(&out, "%d=%s%c", TagBeginString, ProtocolVersion, SOH)
	fmt.Fprintf(&out, "%d=%d%c", TagBodyLength, len(bodyStr), SOH)
	out.WriteString(bodyStr)

	checksum := checksumOf(out.String())
	fmt.Fprintf(&out, "%d=%03d%c", TagCheckSum, checksum, SOH)

	return []byte(out.String())
}

func checksumOf(s string) int {
	sum := 0
	for i := 0; i < len(s); i++ {
		sum += int(s[i])
	}
	return sum % 256
}

// ToCommand lifts a new-order-single message ('D') into a Command
// suitable for Engine.Submit. Required fields: client order id,
// symbol, side, order type, quantity; price is required iff the order
// type is LIMIT. Cancel ('F') and modify ('G') messages are lifted
// the same way, referencing the target order id via tag 37. Any other
// message type, or a 'D'/'F'/'G' missing a required field, returns
// (Command{}, false) with no partial command.
func (Codec) ToCommand(message *Message) (Command, bool) {
	switch message.Type() {
	case MsgNewOrder:
		return newOrderCommand(message)
	case MsgCancel:
		return cancelCommand(message)
	case MsgModify:
		return modifyCommand(message)
	default:
		return Command{}, false
	}
}

func newOrderCommand(message *Message) (Command, bool) {
	clOrdID, ok := message.GetUint(TagClOrdID)
	if !ok {
		return Command{}, false
	}
	symbol, ok := message.Get(TagSymbol)
	if !ok || symbol == "" {
		return Command{}, false
	}
	sideField, ok := message.Get(TagSide)
	if !ok || len(sideField) == 0 {
		return Command{}, false
	}
	side, ok := parseSide(sideField[0])
	if !ok {
		return Command{}, false
	}
	typeField, ok := message.Get(TagOrdType)
	if !ok || len(typeField) == 0 {
		return Command{}, false
	}
	orderType, ok := parseOrdType(typeField[0])
	if !ok {
		return Command{}, false
	}
	qty, ok := message.GetUint(TagOrderQty)
	if !ok {
		return Command{}, false
	}

	var price quote.Price
	if orderType == quote.Limit {
		priceFloat, ok := message.GetFloat(TagPrice)
		if !ok {
			return Command{}, false
		}
		price = quote.PriceFromFloat(priceFloat)
	}

	return Command{
		Kind: CommandNew,
		Order: quote.Order{
			ID:        quote.OrderID(clOrdID),
			Symbol:    quote.Symbol(symbol),
			Side:      side,
			Type:      orderType,
			Price:     price,
			Quantity:  quote.Quantity(qty),
			Remaining: quote.Quantity(qty),
			Status:    quote.New,
		},
	}, true
}

func cancelCommand(message *Message) (Command, bool) {
	orderID, ok := message.GetUint(TagOrderID)
	if !ok {
		return Command{}, false
	}
	return Command{Kind: CommandCancel, OrderID: quote.OrderID(orderID)}, true
}

func modifyCommand(message *Message) (Command, bool) {
	orderID, ok := message.GetUint(TagOrderID)
	if !ok {
		return Command{}, false
	}
	priceFloat, ok := message.GetFloat(TagPrice)
	if !ok {
		return Command{}, false
	}
	qty, ok := message.GetUint(TagOrderQty)
	if !ok {
		return Command{}, false
	}
	return Command{
		Kind:     CommandModify,
		OrderID:  quote.OrderID(orderID),
		NewPrice: quote.PriceFromFloat(priceFloat),
		NewQty:   quote.Quantity(qty),
	}, true
}

// ExecutionReport builds an execution-report message ('8') for order.
// lastQty/lastPx are populated only when a fill occurred (lastQty >
// 0); otherwise those tags are omitted entirely.
func (Codec) ExecutionReport(order *quote.Order, execID string, execType byte, lastQty quote.Quantity, lastPx quote.Price) *Message {
	msg := NewMessage()
	msg.SetType(MsgExecReport)
	msg.SetUint(TagOrderID, uint64(order.ID))
	msg.SetUint(TagClOrdID, uint64(order.ID))
	msg.Set(TagExecID, execID)
	msg.Set(TagExecType, string(execType))
	msg.Set(TagSymbol, string(order.Symbol))
	msg.Set(TagSide, string(sideField(order.Side)))
	msg.SetUint(TagOrderQty, uint64(order.Quantity))
	msg.SetUint(TagLeavesQty, uint64(order.Remaining))
	msg.SetUint(TagCumQty, uint64(order.Quantity-order.Remaining))

	if lastQty > 0 {
		msg.SetUint(TagLastQty, uint64(lastQty))
		msg.Set(TagLastPx, strconv.FormatFloat(lastPx.ToFloat(), 'f', -1, 64))
	}

	return msg
}

// NewOrderMessage builds a new-order-single message ('D') for order,
// the inverse counterpart to ToCommand — used by ingress clients that
// construct wire messages directly rather than parsing bytes.
func (Codec) NewOrderMessage(order quote.Order) *Message {
	msg := NewMessage()
	msg.SetType(MsgNewOrder)
	msg.SetUint(TagClOrdID, uint64(order.ID))
	msg.Set(TagSymbol, string(order.Symbol))
	msg.Set(TagSide, string(sideField(order.Side)))
	msg.Set(TagOrdType, string(ordTypeField(order.Type)))
	msg.SetUint(TagOrderQty, uint64(order.Quantity))
	if order.Type == quote.Limit {
		msg.Set(TagPrice, strconv.FormatFloat(order.Price.ToFloat(), 'f', -1, 64))
	}
	return msg
}

func parseSide(b byte) (quote.Side, bool) {
	switch b {
	case SideBuyField:
		return quote.Buy, true
	case SideSellField:
		return quote.Sell, true
	default:
		return 0, false
	}
}

func sideField(s quote.Side) byte {
	if s == quote.Buy {
		return SideBuyField
	}
	return SideSellField
}

func parseOrdType(b byte) (quote.OrderType, bool) {
	switch b {
	case OrdTypeMarketField:
		return quote.Market, true
	case OrdTypeLimitField:
		return quote.Limit, true
	default:
		return 0, false
	}
}

func ordTypeField(t quote.OrderType) byte {
	if t == quote.Market {
		return OrdTypeMarketField
	}
	return OrdTypeLimitField
}
