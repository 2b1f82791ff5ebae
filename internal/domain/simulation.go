package domain

import (
	"github.com/shopspring/decimal"
)

// WithdrawalStrategy selects how the annual decumulation withdrawal is sized.
type WithdrawalStrategy string

const (
	// FixedPercentInitial fixes the withdrawal at a percentage of the first
	// retirement year's total balance, then escalates it by inflation.
	FixedPercentInitial WithdrawalStrategy = "fixed_percent_initial"
	// DynamicPercentOfBalance recomputes the withdrawal every year as a
	// percentage of the current total balance.
	DynamicPercentOfBalance WithdrawalStrategy = "dynamic_percent_of_balance"
	// FixedRealIncome withdraws a target annual spending amount,
	// inflation-escalated from the plan's start year.
	FixedRealIncome WithdrawalStrategy = "fixed_real_income"
)

// AssetClass is one simulated bucket of the portfolio. Rates are expressed
// in percent per year (7.0 means 7%).
type AssetClass struct {
	Name            string           `yaml:"name" json:"name"`
	StartingBalance decimal.Decimal  `yaml:"starting_balance" json:"starting_balance"`
	ExpectedReturn  decimal.Decimal  `yaml:"expected_return" json:"expected_return"`
	Volatility      decimal.Decimal  `yaml:"volatility" json:"volatility"`
	Treatment       AccountTreatment `yaml:"treatment" json:"treatment"`

	// ReturnSchedule optionally overrides ExpectedReturn per projection year,
	// e.g. a declining glide path. Years past the end of the schedule use the
	// last entry.
	ReturnSchedule []decimal.Decimal `yaml:"return_schedule,omitempty" json:"return_schedule,omitempty"`
}

// ExpectedReturnForYear returns the expected return for a zero-based
// projection year, honoring the optional schedule.
func (ac *AssetClass) ExpectedReturnForYear(year int) decimal.Decimal {
	if len(ac.ReturnSchedule) == 0 {
		return ac.ExpectedReturn
	}
	if year >= len(ac.ReturnSchedule) {
		return ac.ReturnSchedule[len(ac.ReturnSchedule)-1]
	}
	return ac.ReturnSchedule[year]
}

// SimulationParameters is the immutable input to one simulation batch.
type SimulationParameters struct {
	AssetClasses []AssetClass `yaml:"asset_classes" json:"asset_classes"`

	CurrentAge    int `yaml:"current_age" json:"current_age"`
	RetirementAge int `yaml:"retirement_age" json:"retirement_age"`
	EndAge        int `yaml:"end_age" json:"end_age"`

	InflationRate decimal.Decimal `yaml:"inflation_rate" json:"inflation_rate"`

	AnnualContribution     decimal.Decimal            `yaml:"annual_contribution" json:"annual_contribution"`
	ContributionGrowthRate decimal.Decimal            `yaml:"contribution_growth_rate" json:"contribution_growth_rate"`
	ContributionAllocation map[string]decimal.Decimal `yaml:"contribution_allocation" json:"contribution_allocation"`

	Strategy              WithdrawalStrategy `yaml:"strategy" json:"strategy"`
	InitialWithdrawalRate decimal.Decimal    `yaml:"initial_withdrawal_rate" json:"initial_withdrawal_rate"`
	DynamicRate           decimal.Decimal    `yaml:"dynamic_rate" json:"dynamic_rate"`
	TargetAnnualIncome    decimal.Decimal    `yaml:"target_annual_income" json:"target_annual_income"`

	Seed int64 `yaml:"seed" json:"seed"`
}

// AccumulationYears returns the number of years before retirement.
func (sp *SimulationParameters) AccumulationYears() int {
	return sp.RetirementAge - sp.CurrentAge
}

// ProjectionYears returns the total number of simulated years.
func (sp *SimulationParameters) ProjectionYears() int {
	return sp.EndAge - sp.CurrentAge
}

// ProjectionPath is the ordered per-year total wealth of one trial.
type ProjectionPath []decimal.Decimal

// SimulationResult is the output of one Monte Carlo batch. Paths[i] and
// Insolvent[i] describe the same trial; every path has full length even when
// the trial went insolvent.
type SimulationResult struct {
	Paths     []ProjectionPath `json:"paths"`
	Insolvent []bool           `json:"insolvent"`
}

// InsolvencyRate returns the fraction of trials that ran out of money.
func (sr *SimulationResult) InsolvencyRate() decimal.Decimal {
	if len(sr.Insolvent) == 0 {
		return decimal.Zero
	}
	count := 0
	for _, ins := range sr.Insolvent {
		if ins {
			count++
		}
	}
	return decimal.NewFromInt(int64(count)).Div(decimal.NewFromInt(int64(len(sr.Insolvent))))
}

// PercentileTable holds per-year percentile bands across all trials.
type PercentileTable struct {
	Percentiles []int            `json:"percentiles"`
	Years       []PercentileYear `json:"years"`
}

// PercentileYear is one projection year's percentile values, keyed in the
// same order as PercentileTable.Percentiles.
type PercentileYear struct {
	Year   int               `json:"year"`
	Values []decimal.Decimal `json:"values"`
}
