package indicator

import "math"

// TrueRange over Heikin-Ashi OHLC. The first bar has no previous close, so
// its true range is the bare high-low span.
func TrueRange(ha []HACandle) []float64 {
	tr := make([]float64, len(ha))
	for i, c := range ha {
		hl := math.Abs(c.High - c.Low)
		if i == 0 {
			tr[i] = hl
			continue
		}
		prevClose := ha[i-1].Close
		hc := math.Abs(c.High - prevClose)
		lc := math.Abs(c.Low - prevClose)
		tr[i] = math.Max(hl, math.Max(hc, lc))
	}
	return tr
}

// ATR is a simple rolling mean of the true range. The first period-1 rows
// are NaN.
func ATR(ha []HACandle, period int) []float64 {
	return SMA(TrueRange(ha), period)
}

// SMA is a simple rolling mean with NaN for the first period-1 rows.
func SMA(values []float64, period int) []float64 {
	out := make([]float64, len(values))
	var sum float64
	for i, v := range values {
		sum += v
		if i >= period {
			sum -= values[i-period]
		}
		if i < period-1 {
			out[i] = math.NaN()
			continue
		}
		out[i] = sum / float64(period)
	}
	return out
}
