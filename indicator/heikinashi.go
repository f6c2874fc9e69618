// Package indicator derives Heikin-Ashi candles and the indicator rows the
// trading engine consumes: ATR, EMA, dual Keltner Channels, Supertrend and
// a volume moving average. Undefined warm-up values are represented as NaN
// and propagate instead of raising; callers use Valid to gate on them.
package indicator

import (
	"math"
	"time"

	"github.com/quantfold/gohat/types"
)

// HACandle is a Heikin-Ashi candle derived from one raw candle.
type HACandle struct {
	Timestamp time.Time
	Open      float64
	High      float64
	Low       float64
	Close     float64
	Volume    float64
}

// Valid reports whether v is a defined indicator value.
func Valid(v float64) bool { return !math.IsNaN(v) }

// HeikinAshi converts a raw candle sequence into Heikin-Ashi candles.
// The recursion depends on the previous HA candle, so the input must be in
// strictly increasing timestamp order; output is parallel to the input.
func HeikinAshi(candles []types.Candle) []HACandle {
	out := make([]HACandle, len(candles))
	var prevOpen, prevClose float64
	for i, c := range candles {
		haClose := (c.Open + c.High + c.Low + c.Close) / 4
		var haOpen float64
		if i == 0 {
			haOpen = (c.Open + c.Close) / 2
		} else {
			haOpen = (prevOpen + prevClose) / 2
		}
		out[i] = HACandle{
			Timestamp: c.Timestamp,
			Open:      haOpen,
			High:      math.Max(c.High, math.Max(haOpen, haClose)),
			Low:       math.Min(c.Low, math.Min(haOpen, haClose)),
			Close:     haClose,
			Volume:    c.Volume,
		}
		prevOpen, prevClose = haOpen, haClose
	}
	return out
}
