package options

import (
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/quantfold/gohat/logger"
	"github.com/quantfold/gohat/metrics"
	"github.com/quantfold/gohat/types"
)

// Delta caps: a call never trades above +0.80 delta, a put never below
// -0.80.
const (
	MaxCallDelta = 0.80
	MinPutDelta  = -0.80
)

var (
	ErrExpired     = errors.New("option selection: contract expired")
	ErrNoCandidate = errors.New("option selection: no candidate inside the delta cap")

	errNoPrice = errors.New("no usable market price")
)

// Quoter supplies option market prices. Lookups may hit the network; they
// are the only blocking calls in the selection path.
type Quoter interface {
	OptionQuote(c types.Contract) (types.Quote, error)
}

// Candidate is one evaluated strike. Ephemeral: computed per selection
// call, kept only for the audit log.
type Candidate struct {
	Strike      int
	Contract    types.Contract
	ImpliedVol  float64
	Delta       float64
	MarketPrice float64
}

// Request describes one selection run.
type Request struct {
	Symbol       string
	Exchange     string
	Expiry       time.Time
	Now          time.Time
	Strikes      []int
	Underlying   float64 // future/underlying last price
	Type         types.OptionType
	RiskFreeRate float64
}

// Selector picks the contract with the extreme capped delta.
type Selector struct {
	quotes Quoter
	log    logger.Logger
}

func NewSelector(q Quoter, log logger.Logger) *Selector {
	return &Selector{quotes: q, log: log}
}

// Select evaluates every strike and returns the winner plus the full
// evaluated list for audit logging.
//
// Per strike: fetch the market price (skip when unavailable or
// non-positive), invert Black-Scholes for implied volatility (one refetch
// retry on failure, then skip), then compute delta. Calls take the maximum
// delta not exceeding +0.80; puts take the least-negative delta that stays
// >= -0.80 — not the largest magnitude.
func (s *Selector) Select(req Request) (*Candidate, []Candidate, error) {
	tte := req.Expiry.Sub(req.Now).Seconds() / YearSeconds
	if tte <= 0 {
		return nil, nil, ErrExpired
	}

	evaluated := make([]Candidate, 0, len(req.Strikes))
	var best *Candidate
	bestDelta := math.Inf(-1)

	for _, strike := range req.Strikes {
		contract := types.Contract{
			Symbol:   OptionSymbol(req.Symbol, req.Expiry, strike, req.Type),
			Exchange: req.Exchange,
		}
		cand, err := s.evaluate(req, contract, strike, tte)
		if err != nil {
			s.skip(contract, strike, err)
			continue
		}
		evaluated = append(evaluated, *cand)

		switch req.Type {
		case types.Call:
			if cand.Delta <= MaxCallDelta && cand.Delta > bestDelta {
				bestDelta = cand.Delta
				best = cand
			}
		case types.Put:
			if cand.Delta >= MinPutDelta && cand.Delta > bestDelta {
				bestDelta = cand.Delta
				best = cand
			}
		}
	}

	if best == nil {
		return nil, evaluated, ErrNoCandidate
	}
	s.log.Info("option_selected",
		logger.String("contract", best.Contract.Symbol),
		logger.Int("strike", best.Strike),
		logger.Float64("delta", best.Delta),
		logger.Float64("iv", best.ImpliedVol),
		logger.Float64("market_price", best.MarketPrice),
		logger.Float64("underlying", req.Underlying),
		logger.Float64("tte_years", tte),
	)
	return best, evaluated, nil
}

// evaluate prices a single strike. The market price is never guessed: a
// missing or non-positive quote skips the strike outright.
func (s *Selector) evaluate(req Request, contract types.Contract, strike int, tte float64) (*Candidate, error) {
	quote, err := s.quotes.OptionQuote(contract)
	if err != nil {
		return nil, fmt.Errorf("quote unavailable (%v): %w", err, errNoPrice)
	}
	price := quote.LastPrice
	if price <= 0 {
		return nil, fmt.Errorf("market price %f: %w", price, errNoPrice)
	}

	iv, err := ImpliedVol(price, req.Underlying, float64(strike), tte, req.RiskFreeRate, req.Type)
	if err != nil {
		// Quotes go stale between the fetch and the inversion; one
		// refetch before giving up on the strike.
		s.log.Warn("iv_retry",
			logger.String("contract", contract.Symbol),
			logger.Float64("price", price),
			logger.Err(err),
		)
		quote, qerr := s.quotes.OptionQuote(contract)
		if qerr != nil || quote.LastPrice <= 0 {
			return nil, fmt.Errorf("iv failed and refetch unusable: %w", err)
		}
		price = quote.LastPrice
		iv, err = ImpliedVol(price, req.Underlying, float64(strike), tte, req.RiskFreeRate, req.Type)
		if err != nil {
			return nil, fmt.Errorf("iv failed after refetch: %w", err)
		}
	}

	delta := Delta(req.Underlying, float64(strike), tte, req.RiskFreeRate, iv, req.Type)
	if math.IsNaN(delta) {
		delta = Delta(req.Underlying, float64(strike), tte, req.RiskFreeRate, DefaultVol, req.Type)
	}
	return &Candidate{
		Strike:      strike,
		Contract:    contract,
		ImpliedVol:  iv,
		Delta:       delta,
		MarketPrice: price,
	}, nil
}

func (s *Selector) skip(contract types.Contract, strike int, err error) {
	reason := "iv_failed"
	switch {
	case errors.Is(err, errNoPrice):
		reason = "no_price"
	case errors.Is(err, ErrBelowIntrinsic), errors.Is(err, ErrAboveMaximum):
		reason = "unpriceable"
	}
	metrics.StrikesSkipped.WithLabelValues(reason).Inc()
	s.log.Warn("strike_skipped",
		logger.String("contract", contract.Symbol),
		logger.Int("strike", strike),
		logger.Err(err),
	)
}
