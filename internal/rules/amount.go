package rules

import (
	"fmt"
	"strconv"
	"strings"
)

// Amount is a currency amount in cents. Balances and wagers are never
// fractional cents.
type Amount int64

// Dollars converts a whole dollar value to an Amount
func Dollars(d int64) Amount {
	return Amount(d * 100)
}

// MulRatio multiplies the amount by num/den, rounding toward zero.
func (a Amount) MulRatio(num, den int64) Amount {
	return Amount(int64(a) * num / den)
}

// Float returns the amount in dollars
func (a Amount) Float() float64 {
	return float64(a) / 100
}

// String formats the amount as dollars, e.g. "$25" or "$12.50"
func (a Amount) String() string {
	sign := ""
	v := int64(a)
	if v < 0 {
		sign = "-"
		v = -v
	}
	if v%100 == 0 {
		return fmt.Sprintf("%s$%d", sign, v/100)
	}
	return fmt.Sprintf("%s$%d.%02d", sign, v/100, v%100)
}

// ParseAmount parses dollar strings like "25", "$5" or "12.50"
func ParseAmount(s string) (Amount, error) {
	s = strings.TrimPrefix(strings.TrimSpace(s), "$")
	if s == "" {
		return 0, fmt.Errorf("empty amount")
	}
	if s[0] == '-' || s[0] == '+' {
		return 0, fmt.Errorf("invalid amount %q", s)
	}
	whole, frac, hasFrac := strings.Cut(s, ".")
	d, err := strconv.ParseInt(whole, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid amount %q", s)
	}
	cents := int64(0)
	if hasFrac {
		if len(frac) == 0 || len(frac) > 2 {
			return 0, fmt.Errorf("invalid amount %q", s)
		}
		if len(frac) == 1 {
			frac += "0"
		}
		cents, err = strconv.ParseInt(frac, 10, 64)
		if err != nil || frac[0] == '-' || frac[0] == '+' {
			return 0, fmt.Errorf("invalid amount %q", s)
		}
	}
	return Amount(d*100 + cents), nil
}
