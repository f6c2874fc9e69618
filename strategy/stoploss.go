package strategy

import (
	"math"

	"github.com/quantfold/gohat/indicator"
	"github.com/quantfold/gohat/types"
)

// slLookback is how many prior candles the initial stop scans for the
// extreme Heikin-Ashi low (long) or high (short).
const slLookback = 5

// InitialStopLoss derives the protective stop for a fresh entry from the
// rows leading up to and including the entry candle. The extreme of the
// last slLookback candles before the entry candle is padded by
// ATR(atrPeriod)*mult away from the position. With fewer candles the
// whole available prefix is scanned, and when the ATR is still warming
// up the raw extreme is used without padding.
func InitialStopLoss(rows []indicator.Row, side types.Side, atrPeriod int, mult float64) (float64, error) {
	if len(rows) == 0 {
		return 0, ErrData
	}
	window := rows[:len(rows)-1]
	if len(window) == 0 {
		window = rows
	}
	if len(window) > slLookback {
		window = window[len(window)-slLookback:]
	}

	extreme := math.NaN()
	for _, r := range window {
		switch side {
		case types.Buy:
			if math.IsNaN(extreme) || r.HALow < extreme {
				extreme = r.HALow
			}
		case types.Sell:
			if math.IsNaN(extreme) || r.HAHigh > extreme {
				extreme = r.HAHigh
			}
		}
	}
	if math.IsNaN(extreme) {
		return 0, ErrData
	}

	atr := lastATR(rows, atrPeriod)
	if !indicator.Valid(atr) {
		return extreme, nil
	}
	if side == types.Buy {
		return extreme - atr*mult, nil
	}
	return extreme + atr*mult, nil
}

// AverageEntryPrice is the mean of all filled entry prices, used as the
// trailing stop after a pyramid add.
func AverageEntryPrice(prices []float64) (float64, error) {
	if len(prices) == 0 {
		return 0, ErrData
	}
	var sum float64
	for _, p := range prices {
		sum += p
	}
	return sum / float64(len(prices)), nil
}

// lastATR recomputes the Heikin-Ashi ATR over the full row history and
// returns its final value, NaN while warming up.
func lastATR(rows []indicator.Row, period int) float64 {
	ha := make([]indicator.HACandle, len(rows))
	for i, r := range rows {
		ha[i] = indicator.HACandle{
			Timestamp: r.Timestamp,
			Open:      r.HAOpen,
			High:      r.HAHigh,
			Low:       r.HALow,
			Close:     r.HAClose,
			Volume:    r.Volume,
		}
	}
	atr := indicator.ATR(ha, period)
	if len(atr) == 0 {
		return math.NaN()
	}
	return atr[len(atr)-1]
}
