package ledger

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/planfolio/planfolio/internal/domain"
)

func date(year int, month time.Month, day int) time.Time {
	return time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
}

func buy(ticker string, day time.Time, qty, price float64) domain.BuyTransaction {
	return domain.BuyTransaction{
		Ticker:       ticker,
		Quantity:     decimal.NewFromFloat(qty),
		PricePerUnit: decimal.NewFromFloat(price),
		Date:         day,
		Treatment:    domain.Taxable,
	}
}

// newTestLedger seeds three VTI lots: 10 @ 100 (Jan 2023), 10 @ 50
// (Jun 2023), 10 @ 150 (Jan 2024).
func newTestLedger() *Ledger {
	l := New()
	l.Buy(buy("VTI", date(2023, time.January, 1), 10, 100))
	l.Buy(buy("VTI", date(2023, time.June, 1), 10, 50))
	l.Buy(buy("VTI", date(2024, time.January, 1), 10, 150))
	return l
}

var saleDate = date(2024, time.July, 1)

func TestSelectLotsOrdering(t *testing.T) {
	tests := []struct {
		name          string
		method        Method
		expectedBasis int64
		expectedLots  []string
		holding       domain.HoldingPeriod
	}{
		{"fifo oldest first", FIFO, 1250, []string{"lot-1", "lot-2"}, domain.LongTerm},
		{"lifo newest first", LIFO, 1750, []string{"lot-3", "lot-2"}, domain.ShortTerm},
		{"hifo highest cost first", HIFO, 2000, []string{"lot-3", "lot-1"}, domain.ShortTerm},
		{"lofo lowest cost first", LOFO, 1000, []string{"lot-2", "lot-1"}, domain.LongTerm},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			l := newTestLedger()
			result, err := l.SelectLots("VTI", decimal.NewFromInt(15), tt.method, saleDate, nil)
			require.NoError(t, err)

			assert.True(t, result.Complete())
			assert.True(t, decimal.NewFromInt(15).Equal(result.QuantityFilled))
			assert.True(t, decimal.NewFromInt(tt.expectedBasis).Equal(result.CostBasis),
				"expected basis %d, got %s", tt.expectedBasis, result.CostBasis)
			assert.Equal(t, tt.holding, result.HoldingPeriod)

			var ids []string
			for _, c := range result.Consumed {
				ids = append(ids, c.LotID)
			}
			assert.Equal(t, tt.expectedLots, ids)
		})
	}
}

func TestSelectLotsDoesNotMutate(t *testing.T) {
	l := newTestLedger()
	_, err := l.SelectLots("VTI", decimal.NewFromInt(15), FIFO, saleDate, nil)
	require.NoError(t, err)

	assert.True(t, decimal.NewFromInt(30).Equal(l.RemainingQuantity("VTI")))
}

// TestSelectLotsQuantityConservation over-sells by 20 units and checks that
// every method fills exactly min(requested, available) and reports the rest
// unfilled.
func TestSelectLotsQuantityConservation(t *testing.T) {
	allLots := []SpecificSelection{
		{LotID: "lot-1", Quantity: decimal.NewFromInt(50)},
		{LotID: "lot-2", Quantity: decimal.NewFromInt(50)},
		{LotID: "lot-3", Quantity: decimal.NewFromInt(50)},
	}

	tests := []struct {
		name     string
		method   Method
		specific []SpecificSelection
	}{
		{"fifo", FIFO, nil},
		{"lifo", LIFO, nil},
		{"hifo", HIFO, nil},
		{"lofo", LOFO, nil},
		{"average", Average, nil},
		{"specific id", SpecificID, allLots},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			l := newTestLedger()
			result, err := l.SelectLots("VTI", decimal.NewFromInt(50), tt.method, saleDate, tt.specific)
			require.NoError(t, err)

			assert.False(t, result.Complete())
			assert.True(t, decimal.NewFromInt(30).Equal(result.QuantityFilled), "filled %s", result.QuantityFilled)
			assert.True(t, decimal.NewFromInt(20).Equal(result.QuantityUnfilled), "unfilled %s", result.QuantityUnfilled)

			consumed := decimal.Zero
			for _, c := range result.Consumed {
				consumed = consumed.Add(c.Quantity)
			}
			assert.True(t, consumed.Equal(result.QuantityFilled))
		})
	}
}

func TestSelectLotsExcludesFutureAcquisitions(t *testing.T) {
	l := newTestLedger()
	// Before lot-3's acquisition date only 20 units exist.
	result, err := l.SelectLots("VTI", decimal.NewFromInt(25), FIFO, date(2023, time.December, 1), nil)
	require.NoError(t, err)

	assert.False(t, result.Complete())
	assert.True(t, decimal.NewFromInt(20).Equal(result.QuantityFilled))
}

func TestSelectLotsRejectsNonPositiveQuantity(t *testing.T) {
	l := newTestLedger()
	_, err := l.SelectLots("VTI", decimal.Zero, FIFO, saleDate, nil)
	assert.Error(t, err)
}

func TestSelectLotsUnknownMethod(t *testing.T) {
	l := newTestLedger()
	_, err := l.SelectLots("VTI", decimal.NewFromInt(1), Method("bogus"), saleDate, nil)
	assert.Error(t, err)
}

func TestSelectAverageFullSaleMatchesTotalCost(t *testing.T) {
	l := newTestLedger()
	result, err := l.SelectLots("VTI", decimal.NewFromInt(30), Average, saleDate, nil)
	require.NoError(t, err)

	// Selling everything at the blended price recovers the exact total cost.
	assert.True(t, result.Complete())
	assert.True(t, decimal.NewFromInt(3000).Equal(result.CostBasis), "got %s", result.CostBasis)
}

// TestSelectAverageFullSaleExactOnIndivisibleQuantities pins the exactness
// of a full average-cost sale when the blended price has no finite decimal
// representation (50/3 here): the basis must equal the summed lot cost to
// the last digit, not drift by a truncated quotient.
func TestSelectAverageFullSaleExactOnIndivisibleQuantities(t *testing.T) {
	l := New()
	l.Buy(buy("VTI", date(2023, time.January, 1), 1, 10))
	l.Buy(buy("VTI", date(2023, time.June, 1), 2, 20))

	result, err := l.SelectLots("VTI", decimal.NewFromInt(3), Average, saleDate, nil)
	require.NoError(t, err)

	assert.True(t, result.Complete())
	assert.True(t, decimal.NewFromInt(50).Equal(result.CostBasis), "got %s", result.CostBasis)

	require.Len(t, result.Consumed, 2)
	assert.True(t, decimal.NewFromInt(1).Equal(result.Consumed[0].Quantity))
	assert.True(t, decimal.NewFromInt(2).Equal(result.Consumed[1].Quantity))
}

func TestSelectAveragePartialSale(t *testing.T) {
	l := newTestLedger()
	result, err := l.SelectLots("VTI", decimal.NewFromInt(15), Average, saleDate, nil)
	require.NoError(t, err)

	// Blended price is 100; half the position draws 5 units from each lot.
	assert.True(t, decimal.NewFromInt(1500).Equal(result.CostBasis), "got %s", result.CostBasis)
	require.Len(t, result.Consumed, 3)
	for _, c := range result.Consumed {
		assert.True(t, decimal.NewFromInt(5).Equal(c.Quantity), "lot %s: got %s", c.LotID, c.Quantity)
	}

	// 20 of the 30 eligible units are long-term, so the majority rules.
	assert.Equal(t, domain.LongTerm, result.HoldingPeriod)
}

func TestSelectAverageNoEligibleLots(t *testing.T) {
	l := New()
	result, err := l.SelectLots("VTI", decimal.NewFromInt(5), Average, saleDate, nil)
	require.NoError(t, err)
	assert.False(t, result.Complete())
	assert.True(t, decimal.NewFromInt(5).Equal(result.QuantityUnfilled))
}

func TestSelectSpecificCapsAtRemaining(t *testing.T) {
	l := newTestLedger()
	result, err := l.SelectLots("VTI", decimal.NewFromInt(15), SpecificID, saleDate, []SpecificSelection{
		{LotID: "lot-1", Quantity: decimal.NewFromInt(5)},
		{LotID: "lot-2", Quantity: decimal.NewFromInt(20)},
	})
	require.NoError(t, err)

	// lot-2's request exceeds its remaining 10 and is capped there.
	assert.True(t, result.Complete())
	assert.True(t, decimal.NewFromInt(1000).Equal(result.CostBasis), "got %s", result.CostBasis)
	require.Len(t, result.Consumed, 2)
	assert.True(t, decimal.NewFromInt(10).Equal(result.Consumed[1].Quantity))
}

func TestSelectSpecificErrors(t *testing.T) {
	l := newTestLedger()
	l.Buy(buy("BND", date(2023, time.March, 1), 10, 70))
	exhausted := l.Buy(buy("VTI", date(2023, time.February, 1), 1, 100))
	sel, err := l.SelectLots("VTI", decimal.NewFromInt(1), SpecificID, saleDate, []SpecificSelection{
		{LotID: exhausted.ID, Quantity: decimal.NewFromInt(1)},
	})
	require.NoError(t, err)
	_, err = l.Finalize(sel, decimal.NewFromInt(100), decimal.Zero, "brokerage")
	require.NoError(t, err)

	tests := []struct {
		name     string
		lotID    string
		asOf     time.Time
		specific []SpecificSelection
	}{
		{"unknown lot", "lot-99", saleDate, []SpecificSelection{{LotID: "lot-99", Quantity: decimal.NewFromInt(1)}}},
		{"different ticker", "lot-4", saleDate, []SpecificSelection{{LotID: "lot-4", Quantity: decimal.NewFromInt(1)}}},
		{"exhausted lot", exhausted.ID, saleDate, []SpecificSelection{{LotID: exhausted.ID, Quantity: decimal.NewFromInt(1)}}},
		{"acquired after sale date", "lot-3", date(2023, time.December, 1), []SpecificSelection{{LotID: "lot-3", Quantity: decimal.NewFromInt(1)}}},
		{"empty selection", "", saleDate, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := l.SelectLots("VTI", decimal.NewFromInt(1), SpecificID, tt.asOf, tt.specific)
			var invalid *InvalidSpecificSelectionError
			require.ErrorAs(t, err, &invalid)
		})
	}
}

func TestBasisProRatesFee(t *testing.T) {
	l := New()
	tx := buy("VTI", date(2023, time.January, 1), 10, 100)
	tx.Fee = decimal.NewFromInt(30)
	l.Buy(tx)

	result, err := l.SelectLots("VTI", decimal.NewFromInt(5), FIFO, saleDate, nil)
	require.NoError(t, err)

	// Half the lot carries half the fee: 5*100 + 15.
	assert.True(t, decimal.NewFromInt(515).Equal(result.CostBasis), "got %s", result.CostBasis)
}

func TestParseMethod(t *testing.T) {
	for _, s := range []string{"fifo", "lifo", "hifo", "lofo", "average", "specific_id"} {
		m, err := ParseMethod(s)
		require.NoError(t, err)
		assert.Equal(t, Method(s), m)
	}
	_, err := ParseMethod("mifo")
	assert.Error(t, err)
}
