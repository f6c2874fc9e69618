package options

import (
	"errors"
	"math"
	"testing"

	"github.com/quantfold/gohat/types"
)

func TestImpliedVolRoundtrip(t *testing.T) {
	s, r := 5300.0, 0.06
	tte := 30.0 / 365.25
	for _, sigma := range []float64{0.1, 0.25, 0.6} {
		for _, typ := range []types.OptionType{types.Call, types.Put} {
			k := 5350.0
			price := Price(s, k, tte, r, sigma, typ)
			iv, err := ImpliedVol(price, s, k, tte, r, typ)
			if err != nil {
				t.Fatalf("%s sigma=%f: %v", typ, sigma, err)
			}
			if math.Abs(iv-sigma) > 1e-4 {
				t.Fatalf("%s: recovered iv %f, want %f", typ, iv, sigma)
			}
		}
	}
}

func TestImpliedVolBelowIntrinsic(t *testing.T) {
	s, k, r := 5300.0, 5000.0, 0.06
	tte := 30.0 / 365.25
	// Deep ITM call quoted at under its intrinsic value.
	_, err := ImpliedVol(100, s, k, tte, r, types.Call)
	if !errors.Is(err, ErrBelowIntrinsic) {
		t.Fatalf("expected ErrBelowIntrinsic, got %v", err)
	}
}

func TestImpliedVolAboveMaximum(t *testing.T) {
	_, err := ImpliedVol(6000, 5300, 5300, 30.0/365.25, 0.06, types.Call)
	if !errors.Is(err, ErrAboveMaximum) {
		t.Fatalf("expected ErrAboveMaximum, got %v", err)
	}
}

func TestImpliedVolRejectsBadInputs(t *testing.T) {
	if _, err := ImpliedVol(10, 5300, 5300, 0, 0.06, types.Call); err == nil {
		t.Fatal("expected error for zero time to expiry")
	}
	if _, err := ImpliedVol(0, 5300, 5300, 0.1, 0.06, types.Call); err == nil {
		t.Fatal("expected error for zero price")
	}
}
