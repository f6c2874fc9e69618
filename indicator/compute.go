package indicator

import (
	"time"

	"github.com/quantfold/gohat/config"
	"github.com/quantfold/gohat/types"
)

// Row is one fully-derived indicator row per input candle. Warm-up fields
// are NaN (Trend: 0) and must not drive decisions; Ready reports whether
// every field the state machine needs is defined.
type Row struct {
	Timestamp time.Time

	HAOpen  float64
	HAHigh  float64
	HALow   float64
	HAClose float64

	Volume   float64
	VolumeMA float64

	KC1Upper  float64
	KC1Middle float64
	KC1Lower  float64
	KC2Upper  float64
	KC2Middle float64
	KC2Lower  float64

	Supertrend float64
	Trend      int // +1 up, -1 down, 0 undefined
	FinalUpper float64
	FinalLower float64
}

// Ready reports whether the row can drive a state-machine transition.
func (r *Row) Ready() bool {
	return r.Trend != 0 &&
		Valid(r.VolumeMA) &&
		Valid(r.KC1Upper) && Valid(r.KC1Lower) &&
		Valid(r.KC2Upper) && Valid(r.KC2Lower) &&
		Valid(r.Supertrend)
}

// Compute runs the whole pipeline for one symbol: Heikin-Ashi conversion,
// both Keltner channels, Supertrend and the volume moving average, using
// the per-symbol settings. The returned slice is parallel to the input.
func Compute(candles []types.Candle, s *config.Settings) []Row {
	ha := HeikinAshi(candles)

	kc1 := Keltner(ha, s.KC1Length, s.KC1Mult, s.KC1ATRPeriod)
	kc2 := Keltner(ha, s.KC2Length, s.KC2Mult, s.KC2ATRPeriod)
	st := Supertrend(ha, s.SupertrendPeriod, s.SupertrendMult)

	volumes := make([]float64, len(ha))
	for i, c := range ha {
		volumes[i] = c.Volume
	}
	volMA := SMA(volumes, s.VolumeMAPeriod)

	rows := make([]Row, len(ha))
	for i, c := range ha {
		rows[i] = Row{
			Timestamp:  c.Timestamp,
			HAOpen:     c.Open,
			HAHigh:     c.High,
			HALow:      c.Low,
			HAClose:    c.Close,
			Volume:     c.Volume,
			VolumeMA:   volMA[i],
			KC1Upper:   kc1.Upper[i],
			KC1Middle:  kc1.Middle[i],
			KC1Lower:   kc1.Lower[i],
			KC2Upper:   kc2.Upper[i],
			KC2Middle:  kc2.Middle[i],
			KC2Lower:   kc2.Lower[i],
			Supertrend: st.Value[i],
			Trend:      st.Trend[i],
			FinalUpper: st.FinalUpper[i],
			FinalLower: st.FinalLower[i],
		}
	}
	return rows
}
