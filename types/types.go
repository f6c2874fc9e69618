package types

import "time"

type Side string

const (
	Buy  Side = "BUY"
	Sell Side = "SELL"
)

// OptionType follows the NSE/MCX contract suffix convention.
type OptionType string

const (
	Call OptionType = "CE"
	Put  OptionType = "PE"
)

// Candle is one closed OHLCV bar. Immutable once emitted by the feed.
type Candle struct {
	Timestamp time.Time
	Open      float64
	High      float64
	Low       float64
	Close     float64
	Volume    float64
}

// Contract identifies a tradable option (or future) on an exchange.
type Contract struct {
	Symbol   string // trading symbol, e.g. CRUDEOIL25NOV5300CE
	Exchange string // NFO, MCX, ...
}

// Quote is the subset of a market quote the core consumes.
type Quote struct {
	LastPrice float64
	Bid       float64
	Ask       float64
}

// OrderIntent is what the state machine emits; the broker boundary turns
// it into an actual order.
type OrderIntent struct {
	Contract Contract
	Side     Side
	Quantity int
	Price    float64 // limit price; 0 = market
	Reason   string  // entry, pyramid, supertrend_exit, sl_exit
}
