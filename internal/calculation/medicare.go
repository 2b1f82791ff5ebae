package calculation

import (
	"github.com/shopspring/decimal"

	"github.com/planfolio/planfolio/internal/domain"
)

// MedicareCalculator computes Medicare Part B premiums including IRMAA
// surcharges from a resolved rate table's thresholds.
type MedicareCalculator struct {
	BasePremium decimal.Decimal
	Thresholds  []domain.IRMAAThreshold
}

// NewMedicareCalculator creates a Medicare calculator from a resolved rate
// table.
func NewMedicareCalculator(basePremium decimal.Decimal, table *domain.RateTable) *MedicareCalculator {
	return &MedicareCalculator{
		BasePremium: basePremium,
		Thresholds:  table.IRMAAThresholds,
	}
}

// MonthlyPartBPremium returns the monthly Part B premium for a MAGI,
// cumulatively adding the surcharge of each exceeded tier and stopping at
// the first threshold not exceeded.
func (mc *MedicareCalculator) MonthlyPartBPremium(magi decimal.Decimal, status domain.FilingStatus) decimal.Decimal {
	premium := mc.BasePremium
	joint := domain.NormalizeFilingStatus(string(status)) == domain.FilingMarriedFilingJointly

	for _, threshold := range mc.Thresholds {
		applicable := threshold.IncomeThresholdSingle
		if joint {
			applicable = threshold.IncomeThresholdJoint
		}
		if magi.GreaterThan(applicable) {
			premium = premium.Add(threshold.MonthlySurcharge)
		} else {
			break
		}
	}
	return premium
}

// AnnualPartBCost returns the annual Part B cost for a MAGI.
func (mc *MedicareCalculator) AnnualPartBCost(magi decimal.Decimal, status domain.FilingStatus) decimal.Decimal {
	return mc.MonthlyPartBPremium(magi, status).Mul(decimal.NewFromInt(12))
}
