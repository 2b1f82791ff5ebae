package domain

import (
	"github.com/shopspring/decimal"
)

// FilingStatus identifies the federal filing status used for bracket and
// deduction lookups.
type FilingStatus string

const (
	FilingSingle                  FilingStatus = "single"
	FilingMarriedFilingJointly    FilingStatus = "married_filing_jointly"
	FilingMarriedFilingSeparately FilingStatus = "married_filing_separately"
	FilingHeadOfHousehold         FilingStatus = "head_of_household"
)

// NormalizeFilingStatus maps accepted aliases onto canonical statuses.
// Unrecognized statuses fall back to single.
func NormalizeFilingStatus(s string) FilingStatus {
	switch FilingStatus(s) {
	case FilingSingle, FilingMarriedFilingJointly, FilingMarriedFilingSeparately, FilingHeadOfHousehold:
		return FilingStatus(s)
	}
	if s == "married" || s == "mfj" {
		return FilingMarriedFilingJointly
	}
	return FilingSingle
}

// TaxBracket is one rung of a progressive schedule. Brackets are kept in
// ascending order; a non-positive Max marks the unbounded top bracket.
type TaxBracket struct {
	Min  decimal.Decimal `yaml:"min" json:"min"`
	Max  decimal.Decimal `yaml:"max" json:"max"`
	Rate decimal.Decimal `yaml:"rate" json:"rate"`
}

// Unbounded reports whether the bracket has no upper income limit.
func (b TaxBracket) Unbounded() bool {
	return !b.Max.IsPositive()
}

// IRMAAThreshold is one Medicare Part B income tier and its monthly
// surcharge per person.
type IRMAAThreshold struct {
	IncomeThresholdSingle decimal.Decimal `yaml:"income_threshold_single" json:"income_threshold_single"`
	IncomeThresholdJoint  decimal.Decimal `yaml:"income_threshold_joint" json:"income_threshold_joint"`
	MonthlySurcharge      decimal.Decimal `yaml:"monthly_surcharge" json:"monthly_surcharge"`
}

// ContributionLimits holds annual retirement contribution limits, including
// the age-50 catch-up and the higher "super catch-up" for a limited age band.
type ContributionLimits struct {
	Employee           decimal.Decimal `yaml:"employee" json:"employee"`
	CatchUp            decimal.Decimal `yaml:"catch_up" json:"catch_up"`
	SuperCatchUp       decimal.Decimal `yaml:"super_catch_up" json:"super_catch_up"`
	SuperCatchUpMinAge int             `yaml:"super_catch_up_min_age" json:"super_catch_up_min_age"`
	SuperCatchUpMaxAge int             `yaml:"super_catch_up_max_age" json:"super_catch_up_max_age"`
	IRA                decimal.Decimal `yaml:"ira" json:"ira"`
	IRACatchUp         decimal.Decimal `yaml:"ira_catch_up" json:"ira_catch_up"`
}

// PhaseoutBand is a MAGI band over which a deduction phases out linearly.
type PhaseoutBand struct {
	Start decimal.Decimal `yaml:"start" json:"start"`
	End   decimal.Decimal `yaml:"end" json:"end"`
}

// RateTable is an immutable snapshot of every year-keyed figure the tax
// calculators need. Tables for years beyond the latest known year are
// synthesized by inflation extrapolation, never stored.
type RateTable struct {
	Year int `yaml:"year" json:"year"`

	OrdinaryBrackets map[FilingStatus][]TaxBracket `yaml:"ordinary_brackets" json:"ordinary_brackets"`
	LTCGBrackets     map[FilingStatus][]TaxBracket `yaml:"ltcg_brackets" json:"ltcg_brackets"`

	StandardDeduction           map[FilingStatus]decimal.Decimal `yaml:"standard_deduction" json:"standard_deduction"`
	AdditionalStandardDeduction decimal.Decimal                  `yaml:"additional_standard_deduction" json:"additional_standard_deduction"`

	ContributionLimits ContributionLimits            `yaml:"contribution_limits" json:"contribution_limits"`
	IRAPhaseout        map[FilingStatus]PhaseoutBand `yaml:"ira_phaseout" json:"ira_phaseout"`

	SocialSecurityWageBase decimal.Decimal `yaml:"social_security_wage_base" json:"social_security_wage_base"`
	SocialSecurityRate     decimal.Decimal `yaml:"social_security_rate" json:"social_security_rate"`

	IRMAAThresholds []IRMAAThreshold `yaml:"irmaa_thresholds" json:"irmaa_thresholds"`
}

// Brackets returns the ordinary-income schedule for a filing status,
// normalizing aliases and falling back to single.
func (rt *RateTable) Brackets(status FilingStatus) []TaxBracket {
	return lookupByStatus(rt.OrdinaryBrackets, status)
}

// CapitalGainsBrackets returns the LTCG schedule for a filing status.
func (rt *RateTable) CapitalGainsBrackets(status FilingStatus) []TaxBracket {
	return lookupByStatus(rt.LTCGBrackets, status)
}

// Deduction returns the base standard deduction for a filing status.
func (rt *RateTable) Deduction(status FilingStatus) decimal.Decimal {
	if rt.StandardDeduction == nil {
		return decimal.Zero
	}
	status = NormalizeFilingStatus(string(status))
	if d, ok := rt.StandardDeduction[status]; ok {
		return d
	}
	return rt.StandardDeduction[FilingSingle]
}

// PhaseoutFor returns the IRA deductibility phase-out band for a filing
// status, and whether one is configured.
func (rt *RateTable) PhaseoutFor(status FilingStatus) (PhaseoutBand, bool) {
	if rt.IRAPhaseout == nil {
		return PhaseoutBand{}, false
	}
	status = NormalizeFilingStatus(string(status))
	if band, ok := rt.IRAPhaseout[status]; ok {
		return band, true
	}
	band, ok := rt.IRAPhaseout[FilingSingle]
	return band, ok
}

func lookupByStatus(m map[FilingStatus][]TaxBracket, status FilingStatus) []TaxBracket {
	if m == nil {
		return nil
	}
	status = NormalizeFilingStatus(string(status))
	if b, ok := m[status]; ok {
		return b
	}
	return m[FilingSingle]
}
