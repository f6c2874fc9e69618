// Package sched aligns evaluation with candle boundaries.
package sched

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// TimeframeMinutes parses broker-style timeframe names: "minute" is one
// minute, "5minute" is five, "60minute" an hour.
func TimeframeMinutes(tf string) (int, error) {
	tf = strings.TrimSpace(strings.ToLower(tf))
	if tf == "minute" {
		return 1, nil
	}
	n, ok := strings.CutSuffix(tf, "minute")
	if !ok {
		return 0, fmt.Errorf("unsupported timeframe %q", tf)
	}
	m, err := strconv.Atoi(n)
	if err != nil || m <= 0 {
		return 0, fmt.Errorf("unsupported timeframe %q", tf)
	}
	return m, nil
}

// NextBoundary returns the first candle close strictly after now for the
// given timeframe, aligned to the start of the hour.
func NextBoundary(now time.Time, minutes int) time.Time {
	period := time.Duration(minutes) * time.Minute
	aligned := now.Truncate(period)
	if !aligned.After(now) {
		aligned = aligned.Add(period)
	}
	return aligned
}

// WaitDuration is how long to sleep until the next boundary, plus a
// small grace so the broker has finished writing the candle.
func WaitDuration(now time.Time, minutes int, grace time.Duration) time.Duration {
	return NextBoundary(now, minutes).Sub(now) + grace
}
