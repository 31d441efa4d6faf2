// Package money holds the comparison helpers used wherever two monetary
// values are checked for equality. Amounts are decimals but user input and
// derived values can still disagree below the cent, so all comparisons go
// through a shared epsilon.
package money

import "github.com/shopspring/decimal"

// Epsilon is the tolerance for monetary comparisons: one cent's worth, 0.01.
var Epsilon = decimal.New(1, -2)

// IsZero reports whether d is zero within Epsilon.
func IsZero(d decimal.Decimal) bool {
	return d.Abs().LessThan(Epsilon)
}

// Equal reports whether a and b are equal within Epsilon.
func Equal(a, b decimal.Decimal) bool {
	return IsZero(a.Sub(b))
}

// Covers reports whether paid covers due, allowing a shortfall below Epsilon.
func Covers(paid, due decimal.Decimal) bool {
	return paid.Sub(due).GreaterThan(Epsilon.Neg())
}
