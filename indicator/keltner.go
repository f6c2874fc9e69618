package indicator

import "math"

// Channel holds one Keltner Channel, parallel to the input candles.
type Channel struct {
	Upper  []float64
	Middle []float64
	Lower  []float64
}

// Keltner computes an EMA-centered channel sized by ATR*mult. Middle is
// defined from row 0; the bands inherit the ATR warm-up NaNs.
func Keltner(ha []HACandle, length int, mult float64, atrPeriod int) Channel {
	closes := make([]float64, len(ha))
	for i, c := range ha {
		closes[i] = c.Close
	}
	middle := EMA(closes, length)
	atr := ATR(ha, atrPeriod)

	upper := make([]float64, len(ha))
	lower := make([]float64, len(ha))
	for i := range ha {
		if !Valid(atr[i]) {
			upper[i] = math.NaN()
			lower[i] = math.NaN()
			continue
		}
		upper[i] = middle[i] + atr[i]*mult
		lower[i] = middle[i] - atr[i]*mult
	}
	return Channel{Upper: upper, Middle: middle, Lower: lower}
}
