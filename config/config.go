package config

import (
	"errors"
	"fmt"
	"time"
)

// Settings holds all tunable parameters for one traded symbol/expiry pair,
// one row of TradeSettings.csv.
type Settings struct {
	Symbol    string // underlying, e.g. CRUDEOIL
	Exchange  string // option exchange, NFO when the column is absent
	Expiry    string // DD-MM-YYYY, e.g. 19-11-2025
	Timeframe string // e.g. "5minute"

	// Option chain
	StrikeStep   int // strike grid step, e.g. 50
	StrikeNumber int // strikes each side of ATM
	LotSize      int

	// Indicators
	VolumeMAPeriod   int
	SupertrendPeriod int
	SupertrendMult   float64
	KC1Length        int
	KC1Mult          float64
	KC1ATRPeriod     int
	KC2Length        int
	KC2Mult          float64
	KC2ATRPeriod     int

	// Pyramiding
	PyramidingDistance float64
	PyramidingNumber   int

	// Initial stop loss
	SLATRPeriod  int
	SLMultiplier float64
}

// Key identifies the trading state for this settings row.
func (s *Settings) Key() string {
	return fmt.Sprintf("%s_%s", s.Symbol, s.Expiry)
}

// ExpiryDate parses the DD-MM-YYYY expiry column.
func (s *Settings) ExpiryDate() (time.Time, error) {
	return time.Parse("02-01-2006", s.Expiry)
}

// MaxPositions is the initial lot plus every allowed pyramiding add.
func (s *Settings) MaxPositions() int {
	return s.PyramidingNumber + 1
}

// RiskFreeRate is the annualized rate used for option pricing. Commodity
// options on MCX price against a higher rate than the equity exchanges.
func (s *Settings) RiskFreeRate() float64 {
	if s.Exchange == "MCX" {
		return 0.10
	}
	return 0.06
}

// Validate checks that all fields are within sensible bounds.
// It returns the first encountered error, allowing the caller to surface a
// clear configuration problem before any trading starts.
func (s *Settings) Validate() error {
	if s.Symbol == "" {
		return errors.New("Symbol is required")
	}
	if _, err := s.ExpiryDate(); err != nil {
		return fmt.Errorf("Expiry %q must be DD-MM-YYYY: %w", s.Expiry, err)
	}
	if s.Timeframe == "" {
		return errors.New("Timeframe is required")
	}
	if s.StrikeStep <= 0 {
		return fmt.Errorf("StrikeStep (%d) must be positive", s.StrikeStep)
	}
	if s.StrikeNumber <= 0 {
		return fmt.Errorf("StrikeNumber (%d) must be positive", s.StrikeNumber)
	}
	if s.LotSize <= 0 {
		return fmt.Errorf("Lotsize (%d) must be positive", s.LotSize)
	}
	if s.VolumeMAPeriod <= 0 {
		return errors.New("VolumeMa must be positive")
	}
	if s.SupertrendPeriod <= 0 {
		return errors.New("SupertrendPeriod must be positive")
	}
	if s.SupertrendMult <= 0 {
		return errors.New("SupertrendMul must be positive")
	}
	if s.KC1Length <= 0 || s.KC2Length <= 0 {
		return errors.New("Keltner lengths must be positive")
	}
	if s.KC1Mult <= 0 || s.KC2Mult <= 0 {
		return errors.New("Keltner multipliers must be positive")
	}
	if s.KC1ATRPeriod <= 0 || s.KC2ATRPeriod <= 0 {
		return errors.New("Keltner ATR periods must be positive")
	}
	if s.PyramidingDistance < 0 {
		return errors.New("PyramidingDistance cannot be negative")
	}
	if s.PyramidingNumber < 0 {
		return errors.New("PyramidingNumber cannot be negative")
	}
	if s.SLATRPeriod <= 0 {
		return errors.New("SLATR must be positive")
	}
	if s.SLMultiplier < 0 {
		return errors.New("SLMULTIPLIER cannot be negative")
	}
	return nil
}
