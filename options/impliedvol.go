package options

import (
	"errors"
	"fmt"
	"math"

	"github.com/quantfold/gohat/types"
)

var (
	// ErrBelowIntrinsic means the quoted price is at or under the
	// contract's intrinsic value; no positive volatility explains it.
	ErrBelowIntrinsic = errors.New("option price at or below intrinsic value")
	// ErrAboveMaximum means the quoted price exceeds the no-arbitrage
	// ceiling (S for calls, discounted K for puts).
	ErrAboveMaximum = errors.New("option price above maximum value")
)

const (
	ivLow  = 1e-4
	ivHigh = 5.0
	ivTol  = 1e-8
)

// ImpliedVol inverts Black-Scholes for sigma by bisection. Price must lie
// strictly between intrinsic and the no-arbitrage maximum, otherwise the
// inversion cannot converge and a sentinel error is returned. Callers
// must never substitute a guessed market price to dodge these errors.
func ImpliedVol(price, s, k, t, r float64, typ types.OptionType) (float64, error) {
	if t <= 0 {
		return 0, fmt.Errorf("implied vol: non-positive time to expiry %f", t)
	}
	if price <= 0 {
		return 0, fmt.Errorf("implied vol: non-positive option price %f", price)
	}

	var intrinsic, maxPrice float64
	if typ == types.Call {
		intrinsic = math.Max(s-k*math.Exp(-r*t), 0)
		maxPrice = s
	} else {
		intrinsic = math.Max(k*math.Exp(-r*t)-s, 0)
		maxPrice = k * math.Exp(-r*t)
	}
	if price <= intrinsic {
		return 0, ErrBelowIntrinsic
	}
	if price >= maxPrice {
		return 0, ErrAboveMaximum
	}

	lo, hi := ivLow, ivHigh
	for i := 0; i < 200; i++ {
		mid := (lo + hi) / 2
		v := Price(s, k, t, r, mid, typ)
		if math.Abs(v-price) < ivTol {
			return mid, nil
		}
		if v < price {
			lo = mid
		} else {
			hi = mid
		}
		if hi-lo < ivTol {
			break
		}
	}
	return (lo + hi) / 2, nil
}
