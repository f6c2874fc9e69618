package strategy

import (
	"math"
	"testing"
	"time"

	"github.com/quantfold/gohat/indicator"
	"github.com/quantfold/gohat/types"
)

// slRows builds rows with HAHigh=close+2, HALow=close-2, one bar apart.
func slRows(closes ...float64) []indicator.Row {
	ts := time.Date(2025, 10, 20, 9, 0, 0, 0, time.UTC)
	rows := make([]indicator.Row, len(closes))
	for i, c := range closes {
		rows[i] = indicator.Row{
			Timestamp: ts.Add(time.Duration(i) * 5 * time.Minute),
			HAOpen:    c - 1,
			HAHigh:    c + 2,
			HALow:     c - 2,
			HAClose:   c,
			Volume:    1000,
		}
	}
	return rows
}

func TestInitialStopLossLong(t *testing.T) {
	// Window is the 5 candles before the last: closes 101..105, lows
	// 99..103. With unit steps every true range is 4, so ATR(2)=4 and
	// the stop sits 4*1.5 under the lowest low.
	rows := slRows(100, 101, 102, 103, 104, 105, 106)
	sl, err := InitialStopLoss(rows, types.Buy, 2, 1.5)
	if err != nil {
		t.Fatalf("InitialStopLoss: %v", err)
	}
	if math.Abs(sl-93.0) > 1e-9 {
		t.Fatalf("long SL = %v, want 93", sl)
	}
}

func TestInitialStopLossShort(t *testing.T) {
	rows := slRows(100, 101, 102, 103, 104, 105, 106)
	sl, err := InitialStopLoss(rows, types.Sell, 2, 1.5)
	if err != nil {
		t.Fatalf("InitialStopLoss: %v", err)
	}
	// Highest high in the window is 107, padded up by 6.
	if math.Abs(sl-113.0) > 1e-9 {
		t.Fatalf("short SL = %v, want 113", sl)
	}
}

func TestInitialStopLossShortHistory(t *testing.T) {
	// Only two prior candles exist; ATR(14) is still warming up so the
	// raw extreme is used without padding.
	rows := slRows(100, 101, 102)
	sl, err := InitialStopLoss(rows, types.Buy, 14, 1.5)
	if err != nil {
		t.Fatalf("InitialStopLoss: %v", err)
	}
	if math.Abs(sl-98.0) > 1e-9 {
		t.Fatalf("SL = %v, want raw low 98", sl)
	}
}

func TestInitialStopLossSingleCandle(t *testing.T) {
	rows := slRows(100)
	sl, err := InitialStopLoss(rows, types.Buy, 14, 1.5)
	if err != nil {
		t.Fatalf("InitialStopLoss: %v", err)
	}
	if math.Abs(sl-98.0) > 1e-9 {
		t.Fatalf("SL = %v, want 98", sl)
	}
}

func TestInitialStopLossNoRows(t *testing.T) {
	if _, err := InitialStopLoss(nil, types.Buy, 14, 1.5); err == nil {
		t.Fatal("expected error for empty history")
	}
}

func TestAverageEntryPrice(t *testing.T) {
	avg, err := AverageEntryPrice([]float64{100, 106, 112})
	if err != nil {
		t.Fatalf("AverageEntryPrice: %v", err)
	}
	if math.Abs(avg-106.0) > 1e-9 {
		t.Fatalf("avg = %v, want 106", avg)
	}
	if _, err := AverageEntryPrice(nil); err == nil {
		t.Fatal("expected error for no entries")
	}
}
