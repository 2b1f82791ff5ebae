package ledger

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/planfolio/planfolio/internal/domain"
	"github.com/planfolio/planfolio/pkg/dateutil"
)

// washSaleWindowDays is the number of days on either side of a loss sale in
// which a repurchase triggers the wash-sale flag (61-day inclusive span).
// TODO: verify against current IRS wash-sale rules; source material disagrees
// on whether the span is 61 days inclusive.
const washSaleWindowDays = 30

// Finalize turns a complete selection into a realized sell transaction and
// decrements the consumed lots' remaining quantities. Proceeds are
// quantity*price minus fee. Fully consumed lots are retained at zero
// quantity so history and duplicate detection can still reference them.
func (l *Ledger) Finalize(selection SelectionResult, salePrice, fee decimal.Decimal, account string) (domain.SellTransaction, error) {
	if !selection.Complete() {
		return domain.SellTransaction{}, &IncompleteSaleError{
			Ticker:    selection.Ticker,
			Requested: selection.QuantityFilled.Add(selection.QuantityUnfilled),
			Filled:    selection.QuantityFilled,
		}
	}

	byID := make(map[string]*domain.Lot, len(l.lots))
	for _, lot := range l.lots {
		byID[lot.ID] = lot
	}

	lotsUsed := make([]domain.LotConsumption, 0, len(selection.Consumed))
	for _, c := range selection.Consumed {
		lot, ok := byID[c.LotID]
		if !ok {
			return domain.SellTransaction{}, &InvalidSpecificSelectionError{LotID: c.LotID, Reason: "lot not found"}
		}
		lot.RemainingQuantity = lot.RemainingQuantity.Sub(c.Quantity)
		if lot.RemainingQuantity.IsNegative() {
			lot.RemainingQuantity = decimal.Zero
		}
		lotsUsed = append(lotsUsed, domain.LotConsumption{LotID: c.LotID, Quantity: c.Quantity})
	}

	proceeds := selection.QuantityFilled.Mul(salePrice).Sub(fee)
	gain := proceeds.Sub(selection.CostBasis)

	sell := domain.SellTransaction{
		Ticker:        selection.Ticker,
		Quantity:      selection.QuantityFilled,
		PricePerUnit:  salePrice,
		Fee:           fee,
		Date:          selection.AsOf,
		Account:       account,
		CostBasis:     selection.CostBasis,
		Proceeds:      proceeds,
		RealizedGain:  gain,
		HoldingPeriod: selection.HoldingPeriod,
		LotsUsed:      lotsUsed,
	}

	// Advisory only; a flagged sale still goes through.
	if gain.IsNegative() {
		sell.WashSale = l.hasWashSaleBuy(selection.Ticker, selection.AsOf)
	}

	l.sells = append(l.sells, sell)
	return sell, nil
}

// hasWashSaleBuy scans the full buy history, lots already fully consumed
// included, for any purchase of the ticker within the wash-sale window of
// the sale date.
func (l *Ledger) hasWashSaleBuy(ticker string, saleDate time.Time) bool {
	for _, buy := range l.buys {
		if buy.Ticker != ticker {
			continue
		}
		if dateutil.WithinDays(buy.Date, saleDate, washSaleWindowDays) {
			return true
		}
	}
	return false
}

// RemainingQuantity sums the remaining quantity across all lots of a ticker.
func (l *Ledger) RemainingQuantity(ticker string) decimal.Decimal {
	total := decimal.Zero
	for _, lot := range l.lots {
		if lot.Ticker == ticker {
			total = total.Add(lot.RemainingQuantity)
		}
	}
	return total
}

// PriceFunc supplies the current price for a ticker. The ledger never
// fetches prices itself; callers inject a quote source.
type PriceFunc func(ticker string) (decimal.Decimal, error)

// MarketValue prices a ticker's remaining position through the supplied
// quote source.
func (l *Ledger) MarketValue(ticker string, price PriceFunc) (decimal.Decimal, error) {
	p, err := price(ticker)
	if err != nil {
		return decimal.Zero, fmt.Errorf("price lookup for %s: %w", ticker, err)
	}
	return l.RemainingQuantity(ticker).Mul(p), nil
}
