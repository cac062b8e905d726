package quote

import "fmt"

// Trade is an immutable record of one execution between a resting and
// an incoming order. The buy/sell role reflects the side of the two
// matched orders, not which one was the aggressor.
type Trade struct {
	BuyOrderID  OrderID
	SellOrderID OrderID
	Symbol      Symbol
	Price       Price
	Quantity    Quantity
	Timestamp   Timestamp
}

// Value returns price * quantity in the quote currency (not ticks).
func (t Trade) Value() float64 {
	return t.Price.ToFloat() * float64(t.Quantity)
}

// CSV renders the trade as one line of the trade log format:
// timestamp,buyOrderId,sellOrderId,symbol,price,quantity,value.
func (t Trade) CSV() string {
	return fmt.Sprintf("%d,%d,%d,%s,%.2f,%d,%.2f",
		t.Timestamp, t.BuyOrderID, t.SellOrderID, t.Symbol, t.Price.ToFloat(), t.Quantity, t.Value())
}

func (t Trade) String() string {
	return fmt.Sprintf("Trade[buy=%d sell=%d symbol=%s price=%.2f qty=%d value=%.2f]",
		t.BuyOrderID, t.SellOrderID, t.Symbol, t.Price.ToFloat(), t.Quantity, t.Value())
}
