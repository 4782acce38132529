// Package core holds the domain model of the expense automation robot.
//
// This file contains money formatting helpers. Amounts are held as integer
// cents so aggregation sums stay exact; floats appear only at the display
// edge.
package core

import (
	"fmt"
	"strconv"
)

// Dollars returns the dollar value as a float64 for display purposes.
// Note: use cents for calculations to avoid floating-point precision issues.
func (m Money) Dollars() float64 {
	return float64(m.Cents) / 100.0
}

// Add returns the sum of two amounts.
func (m Money) Add(o Money) Money {
	return Money{Cents: m.Cents + o.Cents}
}

// FormatDollars renders cents as a dollar string, e.g. "$12.34".
func FormatDollars(cents int64) string {
	neg := cents < 0
	if neg {
		cents = -cents
	}
	dollars := cents / 100
	rem := cents % 100
	s := strconv.FormatInt(dollars, 10) + "." + fmt.Sprintf("%02d", rem)
	if neg {
		return "-$" + s
	}
	return "$" + s
}

// String implements fmt.Stringer.
func (m Money) String() string {
	return FormatDollars(m.Cents)
}
