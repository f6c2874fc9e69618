package strategy

import "errors"

// Error taxonomy for one evaluation pass. Only data errors surface from
// Evaluate: they abort the candle before any transition. Selection and
// broker failures are handled in place — a failed selection blocks just
// the entry or pyramid step, and a rejected broker order is logged while
// position state still advances.
var (
	// ErrData marks missing or null indicator input for the candle.
	ErrData = errors.New("indicator data not ready")
	// ErrSelection marks a failed option selection.
	ErrSelection = errors.New("option selection failed")
	// ErrBroker marks an order the broker did not accept.
	ErrBroker = errors.New("broker rejected order")
)
