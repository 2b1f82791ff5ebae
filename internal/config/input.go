package config

import (
	"fmt"
	"os"

	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"

	"github.com/planfolio/planfolio/internal/domain"
)

// InputParser handles parsing of plan input files.
type InputParser struct{}

// NewInputParser creates a new input parser.
func NewInputParser() *InputParser {
	return &InputParser{}
}

// LoadFromFile loads a plan from a YAML file.
func (ip *InputParser) LoadFromFile(filename string) (*domain.Plan, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to read file %s: %w", filename, err)
	}

	var plan domain.Plan
	if err := yaml.Unmarshal(data, &plan); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}

	if err := ip.ValidatePlan(&plan); err != nil {
		return nil, fmt.Errorf("plan validation failed: %w", err)
	}

	return &plan, nil
}

// ValidatePlan validates the loaded plan.
func (ip *InputParser) ValidatePlan(plan *domain.Plan) error {
	if err := ip.validateSimulation(&plan.Simulation); err != nil {
		return fmt.Errorf("simulation validation failed: %w", err)
	}
	for year, table := range plan.RateTables {
		if err := ip.validateRateTable(year, table); err != nil {
			return fmt.Errorf("rate table %d validation failed: %w", year, err)
		}
	}
	return nil
}

func (ip *InputParser) validateSimulation(params *domain.SimulationParameters) error {
	if len(params.AssetClasses) == 0 {
		return fmt.Errorf("at least one asset class is required")
	}
	for _, ac := range params.AssetClasses {
		if ac.Name == "" {
			return fmt.Errorf("asset class name is required")
		}
		if ac.StartingBalance.IsNegative() {
			return fmt.Errorf("asset class %s: starting balance cannot be negative", ac.Name)
		}
		if ac.Volatility.IsNegative() {
			return fmt.Errorf("asset class %s: volatility cannot be negative", ac.Name)
		}
		switch ac.Treatment {
		case "", domain.Taxable, domain.TaxDeferred, domain.TaxFree:
		default:
			return fmt.Errorf("asset class %s: treatment must be 'taxable', 'tax_deferred', or 'tax_free'", ac.Name)
		}
	}

	if params.CurrentAge <= 0 {
		return fmt.Errorf("current age must be positive")
	}
	if params.RetirementAge < params.CurrentAge {
		return fmt.Errorf("retirement age cannot precede current age")
	}
	if params.EndAge <= params.RetirementAge {
		return fmt.Errorf("end age must be after retirement age")
	}
	if params.InflationRate.LessThan(decimal.NewFromInt(-10)) {
		return fmt.Errorf("inflation rate cannot be less than -10%% (extreme deflation)")
	}
	if params.AnnualContribution.IsNegative() {
		return fmt.Errorf("annual contribution cannot be negative")
	}

	switch params.Strategy {
	case domain.FixedPercentInitial:
	case domain.DynamicPercentOfBalance:
		if !params.DynamicRate.IsPositive() {
			return fmt.Errorf("dynamic rate is required for the %s strategy", params.Strategy)
		}
	case domain.FixedRealIncome:
		if !params.TargetAnnualIncome.IsPositive() {
			return fmt.Errorf("target annual income is required for the %s strategy", params.Strategy)
		}
	default:
		return fmt.Errorf("withdrawal strategy must be '%s', '%s', or '%s'",
			domain.FixedPercentInitial, domain.DynamicPercentOfBalance, domain.FixedRealIncome)
	}

	for name, weight := range params.ContributionAllocation {
		if weight.IsNegative() {
			return fmt.Errorf("contribution allocation for %s cannot be negative", name)
		}
	}
	return nil
}

func (ip *InputParser) validateRateTable(year int, table *domain.RateTable) error {
	if table == nil {
		return fmt.Errorf("rate table is nil")
	}
	for status, brackets := range table.OrdinaryBrackets {
		if err := validateBrackets(brackets); err != nil {
			return fmt.Errorf("ordinary brackets for %s: %w", status, err)
		}
	}
	for status, brackets := range table.LTCGBrackets {
		if err := validateBrackets(brackets); err != nil {
			return fmt.Errorf("ltcg brackets for %s: %w", status, err)
		}
	}
	if table.SocialSecurityRate.IsNegative() || table.SocialSecurityRate.GreaterThan(decimal.NewFromInt(1)) {
		return fmt.Errorf("social security rate must be between 0 and 1")
	}
	if year <= 0 {
		return fmt.Errorf("year must be positive")
	}
	if table.Year != 0 && table.Year != year {
		return fmt.Errorf("table year %d does not match its key %d", table.Year, year)
	}
	return nil
}

// validateBrackets checks that a schedule ascends and only the last bracket
// is unbounded.
func validateBrackets(brackets []domain.TaxBracket) error {
	if len(brackets) == 0 {
		return fmt.Errorf("bracket list is empty")
	}
	for i, b := range brackets {
		if b.Rate.IsNegative() || b.Rate.GreaterThan(decimal.NewFromInt(1)) {
			return fmt.Errorf("bracket %d: rate must be between 0 and 1", i)
		}
		if b.Unbounded() {
			if i != len(brackets)-1 {
				return fmt.Errorf("bracket %d: only the last bracket may be unbounded", i)
			}
			continue
		}
		if b.Max.LessThanOrEqual(b.Min) {
			return fmt.Errorf("bracket %d: max must exceed min", i)
		}
		if i+1 < len(brackets) && !brackets[i+1].Min.Equal(b.Max) && brackets[i+1].Min.LessThan(b.Max) {
			return fmt.Errorf("bracket %d: overlaps the next bracket", i)
		}
	}
	return nil
}

// CreateExamplePlan creates a starter plan with a 2025 rate table and a
// balanced two-class portfolio.
func (ip *InputParser) CreateExamplePlan() *domain.Plan {
	unbounded := decimal.Zero

	single := []domain.TaxBracket{
		{Min: decimal.Zero, Max: decimal.NewFromInt(11925), Rate: decimal.NewFromFloat(0.10)},
		{Min: decimal.NewFromInt(11925), Max: decimal.NewFromInt(48475), Rate: decimal.NewFromFloat(0.12)},
		{Min: decimal.NewFromInt(48475), Max: decimal.NewFromInt(103350), Rate: decimal.NewFromFloat(0.22)},
		{Min: decimal.NewFromInt(103350), Max: decimal.NewFromInt(197300), Rate: decimal.NewFromFloat(0.24)},
		{Min: decimal.NewFromInt(197300), Max: decimal.NewFromInt(250525), Rate: decimal.NewFromFloat(0.32)},
		{Min: decimal.NewFromInt(250525), Max: decimal.NewFromInt(626350), Rate: decimal.NewFromFloat(0.35)},
		{Min: decimal.NewFromInt(626350), Max: unbounded, Rate: decimal.NewFromFloat(0.37)},
	}
	mfj := []domain.TaxBracket{
		{Min: decimal.Zero, Max: decimal.NewFromInt(23850), Rate: decimal.NewFromFloat(0.10)},
		{Min: decimal.NewFromInt(23850), Max: decimal.NewFromInt(96950), Rate: decimal.NewFromFloat(0.12)},
		{Min: decimal.NewFromInt(96950), Max: decimal.NewFromInt(206700), Rate: decimal.NewFromFloat(0.22)},
		{Min: decimal.NewFromInt(206700), Max: decimal.NewFromInt(394600), Rate: decimal.NewFromFloat(0.24)},
		{Min: decimal.NewFromInt(394600), Max: decimal.NewFromInt(501050), Rate: decimal.NewFromFloat(0.32)},
		{Min: decimal.NewFromInt(501050), Max: decimal.NewFromInt(751600), Rate: decimal.NewFromFloat(0.35)},
		{Min: decimal.NewFromInt(751600), Max: unbounded, Rate: decimal.NewFromFloat(0.37)},
	}
	ltcgSingle := []domain.TaxBracket{
		{Min: decimal.Zero, Max: decimal.NewFromInt(48350), Rate: decimal.Zero},
		{Min: decimal.NewFromInt(48350), Max: decimal.NewFromInt(533400), Rate: decimal.NewFromFloat(0.15)},
		{Min: decimal.NewFromInt(533400), Max: unbounded, Rate: decimal.NewFromFloat(0.20)},
	}
	ltcgMFJ := []domain.TaxBracket{
		{Min: decimal.Zero, Max: decimal.NewFromInt(96700), Rate: decimal.Zero},
		{Min: decimal.NewFromInt(96700), Max: decimal.NewFromInt(600050), Rate: decimal.NewFromFloat(0.15)},
		{Min: decimal.NewFromInt(600050), Max: unbounded, Rate: decimal.NewFromFloat(0.20)},
	}

	table := &domain.RateTable{
		Year: 2025,
		OrdinaryBrackets: map[domain.FilingStatus][]domain.TaxBracket{
			domain.FilingSingle:               single,
			domain.FilingMarriedFilingJointly: mfj,
		},
		LTCGBrackets: map[domain.FilingStatus][]domain.TaxBracket{
			domain.FilingSingle:               ltcgSingle,
			domain.FilingMarriedFilingJointly: ltcgMFJ,
		},
		StandardDeduction: map[domain.FilingStatus]decimal.Decimal{
			domain.FilingSingle:               decimal.NewFromInt(15000),
			domain.FilingMarriedFilingJointly: decimal.NewFromInt(30000),
		},
		AdditionalStandardDeduction: decimal.NewFromInt(1550),
		ContributionLimits: domain.ContributionLimits{
			Employee:           decimal.NewFromInt(23500),
			CatchUp:            decimal.NewFromInt(7500),
			SuperCatchUp:       decimal.NewFromInt(11250),
			SuperCatchUpMinAge: 60,
			SuperCatchUpMaxAge: 63,
			IRA:                decimal.NewFromInt(7000),
			IRACatchUp:         decimal.NewFromInt(1000),
		},
		IRAPhaseout: map[domain.FilingStatus]domain.PhaseoutBand{
			domain.FilingSingle:               {Start: decimal.NewFromInt(79000), End: decimal.NewFromInt(89000)},
			domain.FilingMarriedFilingJointly: {Start: decimal.NewFromInt(126000), End: decimal.NewFromInt(146000)},
		},
		SocialSecurityWageBase: decimal.NewFromInt(176100),
		SocialSecurityRate:     decimal.NewFromFloat(0.062),
		IRMAAThresholds: []domain.IRMAAThreshold{
			{IncomeThresholdSingle: decimal.NewFromInt(106000), IncomeThresholdJoint: decimal.NewFromInt(212000), MonthlySurcharge: decimal.NewFromFloat(74.00)},
			{IncomeThresholdSingle: decimal.NewFromInt(133000), IncomeThresholdJoint: decimal.NewFromInt(266000), MonthlySurcharge: decimal.NewFromFloat(185.00)},
			{IncomeThresholdSingle: decimal.NewFromInt(167000), IncomeThresholdJoint: decimal.NewFromInt(334000), MonthlySurcharge: decimal.NewFromFloat(295.90)},
			{IncomeThresholdSingle: decimal.NewFromInt(200000), IncomeThresholdJoint: decimal.NewFromInt(400000), MonthlySurcharge: decimal.NewFromFloat(406.90)},
			{IncomeThresholdSingle: decimal.NewFromInt(500000), IncomeThresholdJoint: decimal.NewFromInt(750000), MonthlySurcharge: decimal.NewFromFloat(517.80)},
		},
	}

	return &domain.Plan{
		FilingStatus: string(domain.FilingMarriedFilingJointly),
		Simulation: domain.SimulationParameters{
			AssetClasses: []domain.AssetClass{
				{
					Name:            "stocks",
					StartingBalance: decimal.NewFromInt(400000),
					ExpectedReturn:  decimal.NewFromFloat(7.0),
					Volatility:      decimal.NewFromFloat(15.0),
					Treatment:       domain.TaxDeferred,
				},
				{
					Name:            "bonds",
					StartingBalance: decimal.NewFromInt(200000),
					ExpectedReturn:  decimal.NewFromFloat(3.5),
					Volatility:      decimal.NewFromFloat(5.0),
					Treatment:       domain.Taxable,
				},
			},
			CurrentAge:             50,
			RetirementAge:          65,
			EndAge:                 95,
			InflationRate:          decimal.NewFromFloat(2.5),
			AnnualContribution:     decimal.NewFromInt(20000),
			ContributionGrowthRate: decimal.NewFromFloat(2.0),
			ContributionAllocation: map[string]decimal.Decimal{
				"stocks": decimal.NewFromFloat(0.7),
				"bonds":  decimal.NewFromFloat(0.3),
			},
			Strategy:              domain.FixedPercentInitial,
			InitialWithdrawalRate: decimal.NewFromInt(4),
		},
		RateTables:          map[int]*domain.RateTable{2025: table},
		MedicareBasePremium: decimal.NewFromFloat(185.00),
		TargetValue:         decimal.NewFromInt(500000),
	}
}
