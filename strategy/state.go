package strategy

import (
	"github.com/quantfold/gohat/types"
)

// Position is the direction of the open futures-level view. An empty
// value means flat. Long and Short are both expressed through bought
// options (CE for long, PE for short), so closing either side is a sell.
type Position string

const (
	PositionNone  Position = ""
	PositionLong  Position = "BUY"
	PositionShort Position = "SELL"
)

// Lot records one filled tranche, the first entry or a pyramid add.
type Lot struct {
	Contract         types.Contract `json:"contract"`
	OrderID          string         `json:"order_id"`
	EntryPrice       float64        `json:"entry_price"`
	EntryOptionPrice float64        `json:"entry_option_price"`
}

// TradingState is the whole persisted per-symbol machine. Pointer fields
// distinguish "never set" from a legitimate zero. BrokerAck reports
// whether the most recent entry or pyramid order was accepted; state
// advances either way so a rejected order is visible instead of silently
// retried.
type TradingState struct {
	Position  Position `json:"position"`
	ArmedBuy  bool     `json:"armed_buy"`
	ArmedSell bool     `json:"armed_sell"`

	PyramidingCount     int      `json:"pyramiding_count"`
	FirstEntryPrice     *float64 `json:"first_entry_price,omitempty"`
	LastPyramidingPrice *float64 `json:"last_pyramiding_price,omitempty"`

	EntryPrices []float64 `json:"entry_prices"`
	Lots        []Lot     `json:"lots"`

	InitialSL *float64 `json:"initial_sl,omitempty"`
	CurrentSL *float64 `json:"current_sl,omitempty"`

	Contract  types.Contract `json:"contract"`
	BrokerAck bool           `json:"broker_ack"`
}

// Reset returns the state to flat. Arming flags survive an exit so a
// symbol that is still stretched past its channel can re-enter without
// waiting for another arming touch.
func (s *TradingState) Reset() {
	s.Position = PositionNone
	s.PyramidingCount = 0
	s.FirstEntryPrice = nil
	s.LastPyramidingPrice = nil
	s.EntryPrices = nil
	s.Lots = nil
	s.InitialSL = nil
	s.CurrentSL = nil
	s.Contract = types.Contract{}
	s.BrokerAck = false
}

// Open reports whether any position is held.
func (s *TradingState) Open() bool {
	return s.Position != PositionNone
}

func floatPtr(v float64) *float64 { return &v }
