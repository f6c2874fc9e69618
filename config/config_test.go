package config

import (
	"strings"
	"testing"
)

func validSettings() Settings {
	return Settings{
		Symbol:             "CRUDEOIL",
		Expiry:             "19-11-2025",
		Timeframe:          "5minute",
		StrikeStep:         50,
		StrikeNumber:       6,
		LotSize:            100,
		VolumeMAPeriod:     20,
		SupertrendPeriod:   10,
		SupertrendMult:     3.0,
		KC1Length:          29,
		KC1Mult:            3.75,
		KC1ATRPeriod:       14,
		KC2Length:          50,
		KC2Mult:            2.75,
		KC2ATRPeriod:       12,
		PyramidingDistance: 30,
		PyramidingNumber:   3,
		SLATRPeriod:        14,
		SLMultiplier:       2.0,
	}
}

func TestValidateSuccess(t *testing.T) {
	s := validSettings()
	if err := s.Validate(); err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if got := s.Key(); got != "CRUDEOIL_19-11-2025" {
		t.Fatalf("unexpected key %q", got)
	}
	if got := s.MaxPositions(); got != 4 {
		t.Fatalf("expected 4 max positions, got %d", got)
	}
}

func TestValidateFailsOnBadExpiry(t *testing.T) {
	s := validSettings()
	s.Expiry = "2025-11-19" // wrong order
	if err := s.Validate(); err == nil {
		t.Fatal("expected validation error for non DD-MM-YYYY expiry")
	}
}

func TestValidateFailsOnBadStrikeStep(t *testing.T) {
	s := validSettings()
	s.StrikeStep = 0
	if err := s.Validate(); err == nil {
		t.Fatal("expected validation error for zero StrikeStep")
	}
}

const settingsCSV = `Symbol,Expiery,Timeframe,StrikeStep,StrikeNumber,Lotsize,VolumeMa,SupertrendPeriod,SupertrendMul,KC1_Length,KC1_Mul,KC1_ATR,KC2_Length,KC2_Mul,KC2_ATR,PyramidingDistance,PyramidingNumber,SLATR,SLMULTIPLIER
CRUDEOIL,19-11-2025,5minute,50,6,100,20,10,3.0,29,3.75,14,50,2.75,12,30,3,14,2.0
NATURALGAS,25-11-2025,15minute,5,6,1250,20,10,3.0,29,3.75,14,50,2.75,12,4,2,14,2.0
BADROW,not-a-date,5minute,50,6,100,20,10,3.0,29,3.75,14,50,2.75,12,30,3,14,2.0
`

func TestParseCSV(t *testing.T) {
	settings, rowErrs, err := Parse(strings.NewReader(settingsCSV))
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	if len(settings) != 2 {
		t.Fatalf("expected 2 valid rows, got %d", len(settings))
	}
	if len(rowErrs) != 1 {
		t.Fatalf("expected 1 rejected row, got %d", len(rowErrs))
	}
	s := settings[0]
	if s.Symbol != "CRUDEOIL" || s.KC1Mult != 3.75 || s.PyramidingNumber != 3 {
		t.Fatalf("row parsed incorrectly: %+v", s)
	}
	if s.LotSize != 100 || s.SLMultiplier != 2.0 {
		t.Fatalf("row parsed incorrectly: %+v", s)
	}
}

func TestParseCSVMissingColumn(t *testing.T) {
	// Lotsize column dropped entirely: every row must be rejected, the
	// file itself still parses.
	broken := `Symbol,Expiery,Timeframe,StrikeStep,StrikeNumber
CRUDEOIL,19-11-2025,5minute,50,6
`
	settings, rowErrs, err := Parse(strings.NewReader(broken))
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	if len(settings) != 0 {
		t.Fatalf("expected 0 valid rows, got %d", len(settings))
	}
	if len(rowErrs) != 1 {
		t.Fatalf("expected 1 rejected row, got %d", len(rowErrs))
	}
}
