// Package fixcodec implements a tag=value, SOH-delimited wire format:
// parsing inbound messages into engine commands, and building
// execution reports from engine events.
package fixcodec

// SOH is the field delimiter used throughout the wire format.
const SOH = '\x01'

// Tags, grounded in the original FIXMessage's subset of FIX 4.2.
const (
	TagBeginString  = 8
	TagBodyLength   = 9
	TagMsgType      = 35
	TagCheckSum     = 10
	TagClOrdID      = 11
	TagSymbol       = 55
	TagSide         = 54
	TagOrderQty     = 38
	TagOrdType      = 40
	TagPrice        = 44
	TagExecType     = 150
	TagOrderID      = 37
	TagExecID       = 17
	TagLastPx       = 31
	TagLastQty      = 32
	TagCumQty       = 14
	TagLeavesQty    = 151
)

// Message types.
const (
	MsgNewOrder      = 'D'
	MsgCancel        = 'F'
	MsgModify        = 'G'
	MsgExecReport    = '8'
	MsgReject        = '3'
	MsgHeartbeat     = '0'
	MsgLogon         = 'A'
	MsgLogout        = '5'
)

// Side field values.
const (
	SideBuyField  = '1'
	SideSellField = '2'
)

// OrdType field values.
const (
	OrdTypeMarketField = '1'
	OrdTypeLimitField  = '2'
)

// ExecType field values.
const (
	ExecTypeNew       = '0'
	ExecTypePartial   = '1'
	ExecTypeFilled    = '2'
	ExecTypeCancelled = '4'
	ExecTypeRejected  = '8'
)

// ProtocolVersion is the fixed header value emitted in every
// serialized message's BeginString tag.
const ProtocolVersion = "FIX.4.2"
