// Package broker is the boundary to the market-data and order APIs. The
// core only sees the Client interface; authentication and session
// management live with the concrete implementation.
package broker

import (
	"context"
	"time"

	"github.com/quantfold/gohat/types"
)

// Order is a concrete instruction for the broker.
type Order struct {
	Contract  types.Contract
	Side      types.Side
	Quantity  int
	OrderType string  // LIMIT or MARKET
	Product   string  // e.g. NRML for positional
	Price     float64 // limit price, ignored for MARKET
}

// Receipt acknowledges an accepted order.
type Receipt struct {
	OrderID string
}

// Client is everything the core needs from a broker. Calls are
// synchronous; the implementation owns retries below the contract level.
type Client interface {
	// Candles returns closed bars for a symbol, oldest first.
	Candles(ctx context.Context, symbol, timeframe string, from, to time.Time) ([]types.Candle, error)
	// LTP returns the last traded price of a contract.
	LTP(c types.Contract) (float64, error)
	// OptionQuote returns the current quote for an option contract.
	OptionQuote(c types.Contract) (types.Quote, error)
	// PlaceOrder submits an order; a nil error means the broker accepted
	// it, not that it filled.
	PlaceOrder(ctx context.Context, o Order) (Receipt, error)
}
