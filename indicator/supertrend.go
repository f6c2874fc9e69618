package indicator

import "math"

// SupertrendResult carries the Supertrend value, its sticky final bands and
// the trend flag per row. Trend is +1 (up), -1 (down) or 0 while the ATR
// warm-up has not elapsed.
type SupertrendResult struct {
	Value      []float64
	Trend      []int
	FinalUpper []float64
	FinalLower []float64
}

// Supertrend on Heikin-Ashi close. Basic bands are midpoint(high, low)
// +/- ATR*mult. Final bands are sticky: the upper band only moves when the
// close breaks above the previous final upper (symmetrically for the
// lower), so an established band never widens back out. The first row with
// a defined ATR seeds both final bands from the basic bands.
//
// The recursion depends on the previous final bands, so rows are computed
// as an explicit fold in input order.
func Supertrend(ha []HACandle, period int, mult float64) SupertrendResult {
	n := len(ha)
	res := SupertrendResult{
		Value:      make([]float64, n),
		Trend:      make([]int, n),
		FinalUpper: make([]float64, n),
		FinalLower: make([]float64, n),
	}
	atr := ATR(ha, period)

	prevUpper := math.NaN()
	prevLower := math.NaN()
	for i := 0; i < n; i++ {
		if !Valid(atr[i]) {
			res.Value[i] = math.NaN()
			res.FinalUpper[i] = math.NaN()
			res.FinalLower[i] = math.NaN()
			continue
		}
		mid := (ha[i].High + ha[i].Low) / 2
		basicUpper := mid + atr[i]*mult
		basicLower := mid - atr[i]*mult
		close := ha[i].Close

		finalUpper := basicUpper
		if Valid(prevUpper) && close <= prevUpper {
			finalUpper = prevUpper
		}
		finalLower := basicLower
		if Valid(prevLower) && close >= prevLower {
			finalLower = prevLower
		}

		if close < finalUpper {
			res.Value[i] = finalUpper
			res.Trend[i] = -1
		} else {
			res.Value[i] = finalLower
			res.Trend[i] = 1
		}
		res.FinalUpper[i] = finalUpper
		res.FinalLower[i] = finalLower
		prevUpper, prevLower = finalUpper, finalLower
	}
	return res
}
