package calculation

import (
	"github.com/shopspring/decimal"

	"github.com/planfolio/planfolio/internal/domain"
	"github.com/planfolio/planfolio/pkg/money"
)

// TaxCalculator computes progressive income tax and related figures against
// one resolved rate table.
type TaxCalculator struct {
	Table  *domain.RateTable
	Logger Logger
}

// NewTaxCalculator creates a calculator over a resolved rate table.
func NewTaxCalculator(table *domain.RateTable) *TaxCalculator {
	return &TaxCalculator{Table: table, Logger: NopLogger{}}
}

// OrdinaryTax walks the brackets in order, taxing the slice of income that
// falls in each bracket at that bracket's rate.
func OrdinaryTax(taxableIncome decimal.Decimal, brackets []domain.TaxBracket) decimal.Decimal {
	if taxableIncome.LessThanOrEqual(decimal.Zero) {
		return decimal.Zero
	}

	tax := decimal.Zero
	remaining := taxableIncome
	for _, bracket := range brackets {
		if remaining.LessThanOrEqual(decimal.Zero) {
			break
		}
		if bracket.Unbounded() {
			tax = tax.Add(remaining.Mul(bracket.Rate))
			break
		}
		width := bracket.Max.Sub(bracket.Min)
		if width.LessThanOrEqual(decimal.Zero) {
			continue
		}
		incomeInBracket := decimal.Min(remaining, width)
		tax = tax.Add(incomeInBracket.Mul(bracket.Rate))
		remaining = remaining.Sub(incomeInBracket)
	}
	return tax
}

// MarginalRate returns the rate of the first bracket whose upper bound
// covers the income. The top bracket's rate is the fallback.
func MarginalRate(income decimal.Decimal, brackets []domain.TaxBracket) decimal.Decimal {
	if len(brackets) == 0 {
		return decimal.Zero
	}
	for _, bracket := range brackets {
		if bracket.Unbounded() || bracket.Max.GreaterThanOrEqual(income) {
			return bracket.Rate
		}
	}
	return brackets[len(brackets)-1].Rate
}

// OrdinaryTax computes tax on taxable income for a filing status.
func (tc *TaxCalculator) OrdinaryTax(taxableIncome decimal.Decimal, status domain.FilingStatus) decimal.Decimal {
	return OrdinaryTax(taxableIncome, tc.Table.Brackets(status))
}

// MarginalRate returns the ordinary marginal rate at an income level.
func (tc *TaxCalculator) MarginalRate(income decimal.Decimal, status domain.FilingStatus) decimal.Decimal {
	return MarginalRate(income, tc.Table.Brackets(status))
}

// LTCGRate returns the long-term capital gains rate at a taxable income
// level.
func (tc *TaxCalculator) LTCGRate(taxableIncome decimal.Decimal, status domain.FilingStatus) decimal.Decimal {
	return MarginalRate(taxableIncome, tc.Table.CapitalGainsBrackets(status))
}

// StandardDeduction returns the deduction for a filing status plus one
// additional increment per qualifying age/blind condition. The caller counts
// conditions per filer (age 65+ and blind each count once per spouse); that
// count is supplied, not re-derived here.
func (tc *TaxCalculator) StandardDeduction(status domain.FilingStatus, additionalCount int) decimal.Decimal {
	deduction := tc.Table.Deduction(status)
	for i := 0; i < additionalCount; i++ {
		deduction = deduction.Add(tc.Table.AdditionalStandardDeduction)
	}
	return deduction
}

// DeductibleIRAContribution returns how much of an IRA contribution is
// deductible at a MAGI, phasing out linearly across the filing status's
// phase-out band. Partially deductible amounts round up to the nearest $10
// per IRS convention; this rounding is intentionally different from the
// nearest-dollar rounding used for table extrapolation.
func (tc *TaxCalculator) DeductibleIRAContribution(contribution, magi decimal.Decimal, status domain.FilingStatus) decimal.Decimal {
	band, ok := tc.Table.PhaseoutFor(status)
	if !ok {
		return contribution
	}
	if magi.LessThanOrEqual(band.Start) {
		return contribution
	}
	if magi.GreaterThanOrEqual(band.End) {
		return decimal.Zero
	}

	width := band.End.Sub(band.Start)
	fraction := band.End.Sub(magi).Div(width)
	deductible := contribution.Mul(fraction)
	deductible = money.RoundUpTen(deductible)
	if deductible.GreaterThan(contribution) {
		return contribution
	}
	return deductible
}

// FICATax computes Social Security tax on wages, capped at the wage base
// from the rate table.
func (tc *TaxCalculator) FICATax(wages decimal.Decimal) decimal.Decimal {
	if wages.LessThanOrEqual(decimal.Zero) {
		return decimal.Zero
	}
	taxable := decimal.Min(wages, tc.Table.SocialSecurityWageBase)
	return taxable.Mul(tc.Table.SocialSecurityRate)
}
