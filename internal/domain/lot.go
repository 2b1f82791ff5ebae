package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// AccountTreatment describes how an account is treated for tax purposes.
type AccountTreatment string

const (
	Taxable     AccountTreatment = "taxable"
	TaxDeferred AccountTreatment = "tax_deferred"
	TaxFree     AccountTreatment = "tax_free"
)

// HoldingPeriod classifies a sale for capital gains purposes.
type HoldingPeriod string

const (
	ShortTerm HoldingPeriod = "short_term"
	LongTerm  HoldingPeriod = "long_term"
)

// Lot is a discrete purchase record of an asset, tracked separately for
// cost-basis purposes. RemainingQuantity is reduced by sales that consume
// the lot; a fully consumed lot is kept at zero so transaction history and
// duplicate detection can still reference it.
type Lot struct {
	ID                string
	Ticker            string
	AcquisitionDate   time.Time
	OriginalQuantity  decimal.Decimal
	RemainingQuantity decimal.Decimal
	PricePerUnit      decimal.Decimal
	Fee               decimal.Decimal
	Treatment         AccountTreatment
}

// BasisFor returns the cost basis of consuming quantity from this lot:
// quantity priced at the purchase price plus the lot fee prorated by the
// share of the original quantity being consumed.
func (l *Lot) BasisFor(quantity decimal.Decimal) decimal.Decimal {
	basis := quantity.Mul(l.PricePerUnit)
	if !l.Fee.IsZero() && l.OriginalQuantity.IsPositive() {
		basis = basis.Add(l.Fee.Mul(quantity).Div(l.OriginalQuantity))
	}
	return basis
}

// IsExhausted reports whether the lot has no remaining quantity.
func (l *Lot) IsExhausted() bool {
	return !l.RemainingQuantity.IsPositive()
}
