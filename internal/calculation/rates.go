package calculation

import (
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/planfolio/planfolio/internal/domain"
	"github.com/planfolio/planfolio/pkg/money"
)

// DefaultInflationRate is the fallback annual rate used to extrapolate rate
// tables past the latest known year. It is a fraction (0.025 = 2.5%), not a
// percent like SimulationParameters.InflationRate.
var DefaultInflationRate = decimal.NewFromFloat(0.025)

// NoRateDataError indicates a rate table lookup against an empty table set.
// There is no recovery; the caller must supply at least one year of data.
type NoRateDataError struct {
	Year int
}

func (e *NoRateDataError) Error() string {
	return fmt.Sprintf("no rate data available for year %d: rate table is empty", e.Year)
}

// RateResolver looks up per-year rate tables and synthesizes tables for
// future years by compounding inflation from the latest known year.
type RateResolver struct {
	Tables map[int]*domain.RateTable
	Logger Logger
}

// NewRateResolver creates a resolver over a set of year-keyed tables.
func NewRateResolver(tables map[int]*domain.RateTable) *RateResolver {
	return &RateResolver{Tables: tables, Logger: NopLogger{}}
}

// Resolve returns the rate table for a year. An explicitly stored year is
// returned unchanged. Unknown years are extrapolated from the latest stored
// year at or before the requested one, compounding inflationRate (or the
// 2.5% default when nil) over the gap. Only an empty table set fails.
//
// inflationRate is a fraction: pass 0.025 for 2.5%. Simulation rates are
// expressed in percent and must be divided by 100 before use here.
func (rr *RateResolver) Resolve(year int, inflationRate *decimal.Decimal) (*domain.RateTable, error) {
	if len(rr.Tables) == 0 {
		return nil, &NoRateDataError{Year: year}
	}

	if table, ok := rr.Tables[year]; ok {
		return table, nil
	}

	base, baseYear := rr.latestAtOrBefore(year)
	if base == nil {
		// Requested year predates all known data; use the earliest table
		// without deflating it.
		base, baseYear = rr.earliest()
	}

	delta := year - baseYear
	if delta <= 0 {
		return base, nil
	}

	rate := DefaultInflationRate
	if inflationRate != nil {
		rate = *inflationRate
	}
	factor := decimal.NewFromInt(1).Add(rate).Pow(decimal.NewFromInt(int64(delta)))
	rr.Logger.Debugf("extrapolating rate table %d from %d (factor %s)", year, baseYear, factor)

	projected := inflateTable(base, factor)
	projected.Year = year
	return projected, nil
}

func (rr *RateResolver) latestAtOrBefore(year int) (*domain.RateTable, int) {
	var best *domain.RateTable
	bestYear := 0
	for y, t := range rr.Tables {
		if y <= year && y > bestYear {
			best, bestYear = t, y
		}
	}
	return best, bestYear
}

func (rr *RateResolver) earliest() (*domain.RateTable, int) {
	var best *domain.RateTable
	bestYear := 0
	for y, t := range rr.Tables {
		if best == nil || y < bestYear {
			best, bestYear = t, y
		}
	}
	return best, bestYear
}

// inflateAmount scales one dollar-denominated leaf and rounds it to the
// nearest whole dollar. Rates and ages are never passed through here.
func inflateAmount(d decimal.Decimal, factor decimal.Decimal) decimal.Decimal {
	if d.IsZero() {
		return d
	}
	return money.RoundDollar(d.Mul(factor))
}

func inflateBrackets(brackets []domain.TaxBracket, factor decimal.Decimal) []domain.TaxBracket {
	out := make([]domain.TaxBracket, len(brackets))
	for i, b := range brackets {
		out[i] = domain.TaxBracket{
			Min:  inflateAmount(b.Min, factor),
			Max:  inflateAmount(b.Max, factor),
			Rate: b.Rate,
		}
	}
	return out
}

func inflateBracketMap(m map[domain.FilingStatus][]domain.TaxBracket, factor decimal.Decimal) map[domain.FilingStatus][]domain.TaxBracket {
	if m == nil {
		return nil
	}
	out := make(map[domain.FilingStatus][]domain.TaxBracket, len(m))
	for status, brackets := range m {
		out[status] = inflateBrackets(brackets, factor)
	}
	return out
}

// inflateTable walks the typed RateTable schema and scales every
// dollar-denominated field by factor. Percentage rates and age bounds pass
// through unchanged; a generic numeric walk would silently inflate them.
func inflateTable(base *domain.RateTable, factor decimal.Decimal) *domain.RateTable {
	out := &domain.RateTable{
		Year:                        base.Year,
		OrdinaryBrackets:            inflateBracketMap(base.OrdinaryBrackets, factor),
		LTCGBrackets:                inflateBracketMap(base.LTCGBrackets, factor),
		AdditionalStandardDeduction: inflateAmount(base.AdditionalStandardDeduction, factor),
		SocialSecurityWageBase:      inflateAmount(base.SocialSecurityWageBase, factor),
		SocialSecurityRate:          base.SocialSecurityRate,
		ContributionLimits: domain.ContributionLimits{
			Employee:           inflateAmount(base.ContributionLimits.Employee, factor),
			CatchUp:            inflateAmount(base.ContributionLimits.CatchUp, factor),
			SuperCatchUp:       inflateAmount(base.ContributionLimits.SuperCatchUp, factor),
			SuperCatchUpMinAge: base.ContributionLimits.SuperCatchUpMinAge,
			SuperCatchUpMaxAge: base.ContributionLimits.SuperCatchUpMaxAge,
			IRA:                inflateAmount(base.ContributionLimits.IRA, factor),
			IRACatchUp:         inflateAmount(base.ContributionLimits.IRACatchUp, factor),
		},
	}

	if base.StandardDeduction != nil {
		out.StandardDeduction = make(map[domain.FilingStatus]decimal.Decimal, len(base.StandardDeduction))
		for status, d := range base.StandardDeduction {
			out.StandardDeduction[status] = inflateAmount(d, factor)
		}
	}
	if base.IRAPhaseout != nil {
		out.IRAPhaseout = make(map[domain.FilingStatus]domain.PhaseoutBand, len(base.IRAPhaseout))
		for status, band := range base.IRAPhaseout {
			out.IRAPhaseout[status] = domain.PhaseoutBand{
				Start: inflateAmount(band.Start, factor),
				End:   inflateAmount(band.End, factor),
			}
		}
	}
	if base.IRMAAThresholds != nil {
		out.IRMAAThresholds = make([]domain.IRMAAThreshold, len(base.IRMAAThresholds))
		for i, th := range base.IRMAAThresholds {
			out.IRMAAThresholds[i] = domain.IRMAAThreshold{
				IncomeThresholdSingle: inflateAmount(th.IncomeThresholdSingle, factor),
				IncomeThresholdJoint:  inflateAmount(th.IncomeThresholdJoint, factor),
				MonthlySurcharge:      inflateAmount(th.MonthlySurcharge, factor),
			}
		}
	}
	return out
}

// ContributionLimitFor returns the annual employee contribution limit for an
// age, applying the age-50 catch-up and the super catch-up age band.
func ContributionLimitFor(table *domain.RateTable, age int) decimal.Decimal {
	limits := table.ContributionLimits
	limit := limits.Employee
	if limits.SuperCatchUpMinAge > 0 && age >= limits.SuperCatchUpMinAge && age <= limits.SuperCatchUpMaxAge {
		return limit.Add(limits.SuperCatchUp)
	}
	if age >= 50 {
		return limit.Add(limits.CatchUp)
	}
	return limit
}
