package ledger

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// IncompleteSaleError signals that eligible lots could not cover the
// requested sale quantity. The sale must not be finalized; the ledger is
// left untouched. This is a recoverable precondition failure.
type IncompleteSaleError struct {
	Ticker    string
	Requested decimal.Decimal
	Filled    decimal.Decimal
}

func (e *IncompleteSaleError) Error() string {
	return fmt.Sprintf("incomplete sale of %s: requested %s, only %s available",
		e.Ticker, e.Requested, e.Filled)
}

// InvalidSpecificSelectionError signals that a specific-identification sale
// referenced a lot that does not exist, belongs to another ticker, or has no
// remaining quantity. The sale is rejected.
type InvalidSpecificSelectionError struct {
	LotID  string
	Reason string
}

func (e *InvalidSpecificSelectionError) Error() string {
	return fmt.Sprintf("invalid specific lot selection %q: %s", e.LotID, e.Reason)
}
