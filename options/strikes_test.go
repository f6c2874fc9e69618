package options

import (
	"reflect"
	"testing"
	"time"

	"github.com/quantfold/gohat/types"
)

func TestNormalizeStrike(t *testing.T) {
	cases := []struct {
		ltp  float64
		step int
		want int
	}{
		{5319, 50, 5300},
		{5326, 50, 5350},
		{5325, 50, 5350}, // exact midpoint rounds up
		{212.4, 5, 210},
	}
	for _, c := range cases {
		if got := NormalizeStrike(c.ltp, c.step); got != c.want {
			t.Fatalf("NormalizeStrike(%f, %d) = %d, want %d", c.ltp, c.step, got, c.want)
		}
	}
}

func TestStrikeList(t *testing.T) {
	got := StrikeList(5300, 50, 2)
	want := []int{5200, 5250, 5300, 5350, 5400}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("StrikeList = %v, want %v", got, want)
	}
}

func TestStrikeFilters(t *testing.T) {
	all := StrikeList(5300, 50, 2)
	below := StrikesAtOrBelow(all, 5300)
	above := StrikesAtOrAbove(all, 5300)
	if !reflect.DeepEqual(below, []int{5200, 5250, 5300}) {
		t.Fatalf("below = %v", below)
	}
	if !reflect.DeepEqual(above, []int{5300, 5350, 5400}) {
		t.Fatalf("above = %v", above)
	}
}

func TestSymbolConstruction(t *testing.T) {
	expiry := time.Date(2025, time.November, 19, 0, 0, 0, 0, time.UTC)
	if got := OptionSymbol("CRUDEOIL", expiry, 5300, types.Call); got != "CRUDEOIL25NOV5300CE" {
		t.Fatalf("option symbol = %q", got)
	}
	if got := OptionSymbol("CRUDEOIL", expiry, 5300, types.Put); got != "CRUDEOIL25NOV5300PE" {
		t.Fatalf("option symbol = %q", got)
	}
	if got := FutureSymbol("CRUDEOIL", expiry); got != "CRUDEOIL25NOVFUT" {
		t.Fatalf("future symbol = %q", got)
	}
}
