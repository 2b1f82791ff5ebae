package domain

import (
	"github.com/shopspring/decimal"
)

// Plan is the top-level input file: who is filing, what to simulate, and the
// year-keyed rate tables the tax calculations resolve against.
type Plan struct {
	FilingStatus        string               `yaml:"filing_status" json:"filing_status"`
	Simulation          SimulationParameters `yaml:"simulation" json:"simulation"`
	RateTables          map[int]*RateTable   `yaml:"rate_tables" json:"rate_tables"`
	MedicareBasePremium decimal.Decimal      `yaml:"medicare_base_premium" json:"medicare_base_premium"`

	// TargetValue and TargetYear drive the success-probability readout:
	// the fraction of trials whose wealth at TargetYear (final year when
	// zero) meets TargetValue.
	TargetValue decimal.Decimal `yaml:"target_value" json:"target_value"`
	TargetYear  int             `yaml:"target_year" json:"target_year"`
}
