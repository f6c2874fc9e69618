package broker

import (
	"testing"
	"time"

	"github.com/quantfold/gohat/types"
)

func histCandle(i int) types.Candle {
	ts := time.Date(2025, 10, 20, 9, 0, 0, 0, time.UTC)
	return types.Candle{
		Timestamp: ts.Add(time.Duration(i) * 5 * time.Minute),
		Open:      100 + float64(i),
		High:      102 + float64(i),
		Low:       98 + float64(i),
		Close:     101 + float64(i),
		Volume:    1000,
	}
}

func TestHistoryWindowTrims(t *testing.T) {
	h := NewHistory(3)
	for i := 0; i < 5; i++ {
		h.Add(histCandle(i))
	}
	if h.Len() != 3 {
		t.Fatalf("len = %d, want 3", h.Len())
	}
	got := h.Candles()
	if got[0].Close != 103 || got[2].Close != 105 {
		t.Fatalf("window = %v", got)
	}
}

func TestHistoryDropsStaleAndDuplicate(t *testing.T) {
	h := NewHistory(10)
	h.Add(histCandle(1))
	h.Add(histCandle(1)) // duplicate timestamp
	h.Add(histCandle(0)) // older than the newest
	if h.Len() != 1 {
		t.Fatalf("len = %d, want 1", h.Len())
	}

	h.Extend([]types.Candle{histCandle(2), histCandle(3)})
	last, ok := h.Last()
	if !ok || last.Close != 104 {
		t.Fatalf("last = %v, %v", last, ok)
	}
}

func TestHistoryEmpty(t *testing.T) {
	h := NewHistory(0) // default cap
	if _, ok := h.Last(); ok {
		t.Fatal("empty history should report no last candle")
	}
	if h.Candles() == nil || len(h.Candles()) != 0 {
		t.Fatalf("candles = %v", h.Candles())
	}
}
