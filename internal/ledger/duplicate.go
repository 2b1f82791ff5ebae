package ledger

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/planfolio/planfolio/internal/domain"
	"github.com/planfolio/planfolio/pkg/dateutil"
)

// quantityTolerance absorbs broker rounding differences when matching
// imported transactions.
var quantityTolerance = decimal.NewFromFloat(1e-6)

// ImportRecord is the flat shape of one transaction row from a bulk import,
// before it becomes a buy or sell.
type ImportRecord struct {
	ExternalID   string
	Ticker       string
	Type         domain.TransactionType
	Quantity     decimal.Decimal
	PricePerUnit decimal.Decimal
	Date         time.Time
	Source       string
}

// IsDuplicate reports whether two records describe the same transaction:
// either they share an external id, or they match on ticker, type, quantity
// and price within tolerance, calendar day, and source label.
func IsDuplicate(a, b ImportRecord) bool {
	if a.ExternalID != "" && a.ExternalID == b.ExternalID {
		return true
	}
	return a.Ticker == b.Ticker &&
		a.Type == b.Type &&
		a.Source == b.Source &&
		withinTolerance(a.Quantity, b.Quantity) &&
		withinTolerance(a.PricePerUnit, b.PricePerUnit) &&
		dateutil.SameCalendarDay(a.Date, b.Date)
}

// FindDuplicates returns the indexes of incoming records that duplicate an
// existing record or an earlier incoming one.
func FindDuplicates(existing, incoming []ImportRecord) []int {
	var dupes []int
	for i, candidate := range incoming {
		if matchesAny(candidate, existing) || matchesAny(candidate, incoming[:i]) {
			dupes = append(dupes, i)
		}
	}
	return dupes
}

func matchesAny(candidate ImportRecord, records []ImportRecord) bool {
	for _, r := range records {
		if IsDuplicate(candidate, r) {
			return true
		}
	}
	return false
}

func withinTolerance(a, b decimal.Decimal) bool {
	return a.Sub(b).Abs().LessThanOrEqual(quantityTolerance)
}
