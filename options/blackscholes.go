// Package options selects the option contract to trade for an entry or a
// pyramiding add: it builds the strike grid around ATM, derives implied
// volatility from each candidate's market price and picks the contract with
// the extreme Black-Scholes delta inside the configured cap.
package options

import (
	"math"

	"github.com/quantfold/gohat/types"
)

// DefaultVol is the fallback sigma used when a delta is needed but implied
// volatility could not be derived.
const DefaultVol = 0.20

// YearSeconds converts time-to-expiry durations to year fractions.
const YearSeconds = 365.25 * 24 * 3600

func normCDF(x float64) float64 {
	return 0.5 * math.Erfc(-x/math.Sqrt2)
}

func d1(s, k, t, r, sigma float64) float64 {
	return (math.Log(s/k) + (r+sigma*sigma/2)*t) / (sigma * math.Sqrt(t))
}

// Price returns the Black-Scholes value of a European option.
func Price(s, k, t, r, sigma float64, typ types.OptionType) float64 {
	if t <= 0 || sigma <= 0 {
		// Expired or flat vol: intrinsic value.
		if typ == types.Call {
			return math.Max(s-k, 0)
		}
		return math.Max(k-s, 0)
	}
	dOne := d1(s, k, t, r, sigma)
	dTwo := dOne - sigma*math.Sqrt(t)
	if typ == types.Call {
		return s*normCDF(dOne) - k*math.Exp(-r*t)*normCDF(dTwo)
	}
	return k*math.Exp(-r*t)*normCDF(-dTwo) - s*normCDF(-dOne)
}

// Delta returns N(d1) for calls and N(d1)-1 for puts. With an expired
// contract or zero volatility it degrades to the ITM/OTM step function.
func Delta(s, k, t, r, sigma float64, typ types.OptionType) float64 {
	if t <= 0 || sigma <= 0 {
		if typ == types.Call {
			if s > k {
				return 1.0
			}
			return 0.0
		}
		if s < k {
			return -1.0
		}
		return 0.0
	}
	dOne := d1(s, k, t, r, sigma)
	if typ == types.Call {
		return normCDF(dOne)
	}
	return normCDF(dOne) - 1
}
