package money

import (
	"github.com/shopspring/decimal"
)

// Money represents a monetary amount with proper financial precision.
type Money struct {
	decimal.Decimal
}

// FromDecimal creates a Money from a decimal.Decimal.
func FromDecimal(d decimal.Decimal) Money {
	return Money{d}
}

// Round rounds the amount to cents using banker's rounding.
func (m Money) Round() Money {
	return Money{m.Decimal.Round(2)}
}

// String returns the amount with two decimal places.
func (m Money) String() string {
	return m.Decimal.StringFixed(2)
}

// Format formats the amount with a currency symbol.
func (m Money) Format() string {
	return "$" + m.String()
}

// FormatWhole formats the amount with a currency symbol, rounded to whole
// dollars for console tables.
func (m Money) FormatWhole() string {
	return "$" + m.Decimal.StringFixed(0)
}

// RoundDollar rounds an amount to the nearest whole dollar. This is the
// rounding used when extrapolating rate tables to future years.
func RoundDollar(d decimal.Decimal) decimal.Decimal {
	return d.Round(0)
}

// RoundUpTen rounds an amount up to the nearest $10, the IRS convention for
// partially deductible IRA contributions. Deliberately not interchangeable
// with RoundDollar.
func RoundUpTen(d decimal.Decimal) decimal.Decimal {
	ten := decimal.NewFromInt(10)
	return d.Div(ten).Ceil().Mul(ten)
}
