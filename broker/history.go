package broker

import "github.com/quantfold/gohat/types"

// History keeps a rolling window of closed candles per symbol so the
// evaluation loop works on a bounded slice instead of refetching the
// whole session every candle.
type History struct {
	max int
	buf []types.Candle
}

func NewHistory(max int) *History {
	if max <= 0 {
		max = 512
	}
	return &History{max: max}
}

// Add appends a candle, dropping duplicates of the last timestamp, and
// trims the window to its maximum length.
func (h *History) Add(c types.Candle) {
	if n := len(h.buf); n > 0 && !c.Timestamp.After(h.buf[n-1].Timestamp) {
		return
	}
	h.buf = append(h.buf, c)
	if len(h.buf) > h.max {
		h.buf = h.buf[len(h.buf)-h.max:]
	}
}

// Extend adds a batch of candles in feed order.
func (h *History) Extend(candles []types.Candle) {
	for _, c := range candles {
		h.Add(c)
	}
}

// Candles returns a copy of the window, oldest first.
func (h *History) Candles() []types.Candle {
	out := make([]types.Candle, len(h.buf))
	copy(out, h.buf)
	return out
}

func (h *History) Len() int {
	return len(h.buf)
}

// Last returns the newest candle; ok is false while the window is empty.
func (h *History) Last() (types.Candle, bool) {
	if len(h.buf) == 0 {
		return types.Candle{}, false
	}
	return h.buf[len(h.buf)-1], true
}
