package indicator

import (
	"math"
	"math/rand"
	"testing"
	"time"

	"github.com/quantfold/gohat/types"
)

func candleAt(i int, o, h, l, c, v float64) types.Candle {
	base := time.Date(2025, 11, 3, 9, 0, 0, 0, time.UTC)
	return types.Candle{
		Timestamp: base.Add(time.Duration(i) * 5 * time.Minute),
		Open:      o, High: h, Low: l, Close: c, Volume: v,
	}
}

// randomWalk produces a plausible candle series for property tests.
func randomWalk(n int, seed int64) []types.Candle {
	rng := rand.New(rand.NewSource(seed))
	price := 5000.0
	out := make([]types.Candle, n)
	for i := 0; i < n; i++ {
		open := price
		close := open + rng.NormFloat64()*20
		high := math.Max(open, close) + rng.Float64()*15
		low := math.Min(open, close) - rng.Float64()*15
		out[i] = candleAt(i, open, high, low, close, 1000+rng.Float64()*500)
		price = close
	}
	return out
}

func TestHeikinAshiSeed(t *testing.T) {
	in := []types.Candle{candleAt(0, 100, 110, 90, 104, 1000)}
	ha := HeikinAshi(in)
	if len(ha) != 1 {
		t.Fatalf("expected 1 row, got %d", len(ha))
	}
	wantClose := (100.0 + 110 + 90 + 104) / 4
	wantOpen := (100.0 + 104) / 2
	if ha[0].Close != wantClose {
		t.Fatalf("ha_close = %f, want %f", ha[0].Close, wantClose)
	}
	if ha[0].Open != wantOpen {
		t.Fatalf("ha_open = %f, want %f", ha[0].Open, wantOpen)
	}
}

func TestHeikinAshiRecursion(t *testing.T) {
	in := []types.Candle{
		candleAt(0, 100, 110, 90, 104, 1000),
		candleAt(1, 104, 112, 101, 109, 1100),
	}
	ha := HeikinAshi(in)
	wantOpen := (ha[0].Open + ha[0].Close) / 2
	if ha[1].Open != wantOpen {
		t.Fatalf("ha_open[1] = %f, want %f", ha[1].Open, wantOpen)
	}
}

// ha_high must bound ha_open/ha_close from above, ha_low from below, on
// any input sequence.
func TestHeikinAshiBoundsProperty(t *testing.T) {
	for seed := int64(1); seed <= 5; seed++ {
		ha := HeikinAshi(randomWalk(300, seed))
		for i, c := range ha {
			if c.High < math.Max(c.Open, c.Close) {
				t.Fatalf("seed %d row %d: ha_high %f < max(open, close)", seed, i, c.High)
			}
			if c.Low > math.Min(c.Open, c.Close) {
				t.Fatalf("seed %d row %d: ha_low %f > min(open, close)", seed, i, c.Low)
			}
		}
	}
}
