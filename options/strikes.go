package options

import (
	"fmt"
	"math"
	"time"

	"github.com/quantfold/gohat/types"
)

// NormalizeStrike rounds the underlying price to the nearest strike on the
// grid: 5319 with step 50 becomes 5300.
func NormalizeStrike(ltp float64, step int) int {
	return int(math.Round(ltp/float64(step))) * step
}

// StrikeList builds the strike grid ATM +/- n steps, in increasing order.
func StrikeList(atm, step, n int) []int {
	out := make([]int, 0, 2*n+1)
	for i := -n; i <= n; i++ {
		out = append(out, atm+i*step)
	}
	return out
}

// StrikesAtOrBelow keeps the grid entries usable for call entries.
func StrikesAtOrBelow(strikes []int, atm int) []int {
	out := make([]int, 0, len(strikes))
	for _, s := range strikes {
		if s <= atm {
			out = append(out, s)
		}
	}
	return out
}

// StrikesAtOrAbove keeps the grid entries usable for put entries.
func StrikesAtOrAbove(strikes []int, atm int) []int {
	out := make([]int, 0, len(strikes))
	for _, s := range strikes {
		if s >= atm {
			out = append(out, s)
		}
	}
	return out
}

var monthAbbr = [...]string{
	"JAN", "FEB", "MAR", "APR", "MAY", "JUN",
	"JUL", "AUG", "SEP", "OCT", "NOV", "DEC",
}

// OptionSymbol builds the exchange trading symbol
// {SYMBOL}{YY}{MMM}{STRIKE}{CE|PE}, e.g. CRUDEOIL25NOV5300CE.
func OptionSymbol(symbol string, expiry time.Time, strike int, typ types.OptionType) string {
	return fmt.Sprintf("%s%02d%s%d%s",
		symbol, expiry.Year()%100, monthAbbr[expiry.Month()-1], strike, typ)
}

// FutureSymbol builds {SYMBOL}{YY}{MMM}FUT, e.g. CRUDEOIL25NOVFUT.
func FutureSymbol(symbol string, expiry time.Time) string {
	return fmt.Sprintf("%s%02d%sFUT",
		symbol, expiry.Year()%100, monthAbbr[expiry.Month()-1])
}
