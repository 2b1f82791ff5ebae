package ledger

import (
	"fmt"
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"github.com/planfolio/planfolio/internal/domain"
	"github.com/planfolio/planfolio/pkg/dateutil"
)

// Method selects which lots a sale consumes.
type Method string

const (
	FIFO       Method = "fifo"
	LIFO       Method = "lifo"
	HIFO       Method = "hifo"
	LOFO       Method = "lofo"
	Average    Method = "average"
	SpecificID Method = "specific_id"
)

// ParseMethod parses a string into a Method.
func ParseMethod(s string) (Method, error) {
	switch Method(s) {
	case FIFO, LIFO, HIFO, LOFO, Average, SpecificID:
		return Method(s), nil
	}
	return "", fmt.Errorf("unknown lot selection method: %q", s)
}

// SpecificSelection is one caller-chosen (lot id, quantity) pair for
// specific-identification sales.
type SpecificSelection struct {
	LotID    string
	Quantity decimal.Decimal
}

// Consumption is one lot's contribution to a selection.
type Consumption struct {
	LotID     string
	Quantity  decimal.Decimal
	CostBasis decimal.Decimal
	LongTerm  bool
}

// SelectionResult is the outcome of resolving a sale against the ledger's
// lots. A positive QuantityUnfilled means the sale cannot be covered and
// must not be finalized.
type SelectionResult struct {
	Ticker           string
	AsOf             time.Time
	Consumed         []Consumption
	CostBasis        decimal.Decimal
	QuantityFilled   decimal.Decimal
	QuantityUnfilled decimal.Decimal
	HoldingPeriod    domain.HoldingPeriod
}

// Complete reports whether the requested quantity was fully covered.
func (sr *SelectionResult) Complete() bool {
	return !sr.QuantityUnfilled.IsPositive()
}

// Ledger owns the lot state for a portfolio. All lot mutation goes through
// Finalize; selection never mutates. Not safe for concurrent mutation of the
// same ticker's lots: callers serialize sells per ticker.
type Ledger struct {
	lots   []*domain.Lot
	buys   []domain.BuyTransaction
	sells  []domain.SellTransaction
	nextID int
}

// New creates an empty ledger.
func New() *Ledger {
	return &Ledger{nextID: 1}
}

// Buy records a purchase, opening a new lot, and returns a copy of it.
func (l *Ledger) Buy(buy domain.BuyTransaction) domain.Lot {
	lot := &domain.Lot{
		ID:                fmt.Sprintf("lot-%d", l.nextID),
		Ticker:            buy.Ticker,
		AcquisitionDate:   buy.Date,
		OriginalQuantity:  buy.Quantity,
		RemainingQuantity: buy.Quantity,
		PricePerUnit:      buy.PricePerUnit,
		Fee:               buy.Fee,
		Treatment:         buy.Treatment,
	}
	l.nextID++
	l.lots = append(l.lots, lot)
	l.buys = append(l.buys, buy)
	return *lot
}

// Lots returns copies of all lots for a ticker, exhausted lots included.
func (l *Ledger) Lots(ticker string) []domain.Lot {
	var out []domain.Lot
	for _, lot := range l.lots {
		if lot.Ticker == ticker {
			out = append(out, *lot)
		}
	}
	return out
}

// Sells returns all finalized sell transactions.
func (l *Ledger) Sells() []domain.SellTransaction {
	out := make([]domain.SellTransaction, len(l.sells))
	copy(out, l.sells)
	return out
}

// eligibleLots returns lots of the ticker with remaining quantity acquired
// no later than asOf, in insertion order.
func (l *Ledger) eligibleLots(ticker string, asOf time.Time) []*domain.Lot {
	var out []*domain.Lot
	for _, lot := range l.lots {
		if lot.Ticker == ticker && lot.RemainingQuantity.IsPositive() && !lot.AcquisitionDate.After(asOf) {
			out = append(out, lot)
		}
	}
	return out
}

// SelectLots resolves which lots a sale of the given quantity would consume
// under the selection method, without mutating any lot. Specific-ID sales
// supply their pairs in specific; other methods ignore it.
func (l *Ledger) SelectLots(ticker string, quantity decimal.Decimal, method Method, asOf time.Time, specific []SpecificSelection) (SelectionResult, error) {
	result := SelectionResult{Ticker: ticker, AsOf: asOf}
	if quantity.LessThanOrEqual(decimal.Zero) {
		return result, fmt.Errorf("sale quantity must be positive, got %s", quantity)
	}

	eligible := l.eligibleLots(ticker, asOf)

	switch method {
	case Average:
		return l.selectAverage(result, eligible, quantity)
	case SpecificID:
		return l.selectSpecific(result, quantity, asOf, specific)
	}

	ordered := make([]*domain.Lot, len(eligible))
	copy(ordered, eligible)
	switch method {
	case FIFO:
		sort.SliceStable(ordered, func(i, j int) bool {
			return ordered[i].AcquisitionDate.Before(ordered[j].AcquisitionDate)
		})
	case LIFO:
		sort.SliceStable(ordered, func(i, j int) bool {
			return ordered[i].AcquisitionDate.After(ordered[j].AcquisitionDate)
		})
	case HIFO:
		sort.SliceStable(ordered, func(i, j int) bool {
			return ordered[i].PricePerUnit.GreaterThan(ordered[j].PricePerUnit)
		})
	case LOFO:
		sort.SliceStable(ordered, func(i, j int) bool {
			return ordered[i].PricePerUnit.LessThan(ordered[j].PricePerUnit)
		})
	default:
		return result, fmt.Errorf("unknown lot selection method: %q", method)
	}

	l.consumeGreedy(&result, ordered, quantity)
	result.HoldingPeriod = overallHoldingPeriod(result.Consumed)
	return result, nil
}

// consumeGreedy walks ordered lots, consuming each until the requested
// quantity is filled or lots run out.
func (l *Ledger) consumeGreedy(result *SelectionResult, ordered []*domain.Lot, quantity decimal.Decimal) {
	remaining := quantity
	for _, lot := range ordered {
		if !remaining.IsPositive() {
			break
		}
		take := decimal.Min(remaining, lot.RemainingQuantity)
		basis := lot.BasisFor(take)
		result.Consumed = append(result.Consumed, Consumption{
			LotID:     lot.ID,
			Quantity:  take,
			CostBasis: basis,
			LongTerm:  dateutil.IsLongTerm(lot.AcquisitionDate, result.AsOf),
		})
		result.CostBasis = result.CostBasis.Add(basis)
		result.QuantityFilled = result.QuantityFilled.Add(take)
		remaining = remaining.Sub(take)
	}
	result.QuantityUnfilled = remaining
}

// selectAverage draws proportionally from every eligible lot at one blended
// price. The sale is long-term iff more than half the eligible quantity
// (not lot count) is long-term.
func (l *Ledger) selectAverage(result SelectionResult, eligible []*domain.Lot, quantity decimal.Decimal) (SelectionResult, error) {
	totalQty := decimal.Zero
	weightedCost := decimal.Zero
	longTermQty := decimal.Zero
	for _, lot := range eligible {
		totalQty = totalQty.Add(lot.RemainingQuantity)
		weightedCost = weightedCost.Add(lot.RemainingQuantity.Mul(lot.PricePerUnit))
		if dateutil.IsLongTerm(lot.AcquisitionDate, result.AsOf) {
			longTermQty = longTermQty.Add(lot.RemainingQuantity)
		}
	}
	if !totalQty.IsPositive() {
		result.QuantityUnfilled = quantity
		result.HoldingPeriod = domain.ShortTerm
		return result, nil
	}

	fill := decimal.Min(quantity, totalQty)
	fullSale := fill.Equal(totalQty)
	blendedPrice := weightedCost.Div(totalQty)

	longTerm := longTermQty.GreaterThan(totalQty.Sub(longTermQty))
	for _, lot := range eligible {
		// A full sale drains every lot exactly, so the basis is each lot's
		// own cost; the blended price is only needed for partial draws,
		// where its division truncation cannot reach the exact-total case.
		take := lot.RemainingQuantity
		basis := take.Mul(lot.PricePerUnit)
		if !fullSale {
			take = lot.RemainingQuantity.Mul(fill).Div(totalQty)
			basis = take.Mul(blendedPrice)
		}
		if !lot.Fee.IsZero() && lot.OriginalQuantity.IsPositive() {
			basis = basis.Add(lot.Fee.Mul(take).Div(lot.OriginalQuantity))
		}
		result.Consumed = append(result.Consumed, Consumption{
			LotID:     lot.ID,
			Quantity:  take,
			CostBasis: basis,
			LongTerm:  longTerm,
		})
		result.CostBasis = result.CostBasis.Add(basis)
		result.QuantityFilled = result.QuantityFilled.Add(take)
	}
	result.QuantityUnfilled = quantity.Sub(fill)
	if longTerm {
		result.HoldingPeriod = domain.LongTerm
	} else {
		result.HoldingPeriod = domain.ShortTerm
	}
	return result, nil
}

// selectSpecific resolves a caller-supplied (lot id, quantity) list,
// validating each id and capping each request at the lot's remaining
// quantity.
func (l *Ledger) selectSpecific(result SelectionResult, quantity decimal.Decimal, asOf time.Time, specific []SpecificSelection) (SelectionResult, error) {
	if len(specific) == 0 {
		return result, &InvalidSpecificSelectionError{Reason: "no lots specified"}
	}

	byID := make(map[string]*domain.Lot, len(l.lots))
	for _, lot := range l.lots {
		byID[lot.ID] = lot
	}

	remaining := quantity
	for _, sel := range specific {
		lot, ok := byID[sel.LotID]
		if !ok {
			return result, &InvalidSpecificSelectionError{LotID: sel.LotID, Reason: "lot not found"}
		}
		if lot.Ticker != result.Ticker {
			return result, &InvalidSpecificSelectionError{LotID: sel.LotID, Reason: "lot belongs to a different ticker"}
		}
		if !lot.RemainingQuantity.IsPositive() {
			return result, &InvalidSpecificSelectionError{LotID: sel.LotID, Reason: "lot has no remaining quantity"}
		}
		if lot.AcquisitionDate.After(asOf) {
			return result, &InvalidSpecificSelectionError{LotID: sel.LotID, Reason: "lot acquired after sale date"}
		}

		take := decimal.Min(sel.Quantity, lot.RemainingQuantity)
		take = decimal.Min(take, remaining)
		if !take.IsPositive() {
			continue
		}
		basis := lot.BasisFor(take)
		result.Consumed = append(result.Consumed, Consumption{
			LotID:     lot.ID,
			Quantity:  take,
			CostBasis: basis,
			LongTerm:  dateutil.IsLongTerm(lot.AcquisitionDate, asOf),
		})
		result.CostBasis = result.CostBasis.Add(basis)
		result.QuantityFilled = result.QuantityFilled.Add(take)
		remaining = remaining.Sub(take)
	}
	result.QuantityUnfilled = remaining
	result.HoldingPeriod = overallHoldingPeriod(result.Consumed)
	return result, nil
}

// overallHoldingPeriod labels a mixed selection short-term when any consumed
// lot is short-term. Preserved as legacy behavior even when the
// dollar-weighted majority is long-term.
func overallHoldingPeriod(consumed []Consumption) domain.HoldingPeriod {
	if len(consumed) == 0 {
		return domain.ShortTerm
	}
	for _, c := range consumed {
		if !c.LongTerm {
			return domain.ShortTerm
		}
	}
	return domain.LongTerm
}
