package ledger

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"github.com/planfolio/planfolio/internal/domain"
)

func record(ticker string, day time.Time, qty, price float64) ImportRecord {
	return ImportRecord{
		Ticker:       ticker,
		Type:         domain.TransactionBuy,
		Quantity:     decimal.NewFromFloat(qty),
		PricePerUnit: decimal.NewFromFloat(price),
		Date:         day,
		Source:       "fidelity",
	}
}

func TestIsDuplicate(t *testing.T) {
	base := record("VTI", date(2024, time.March, 5), 10, 220.50)

	tests := []struct {
		name     string
		mutate   func(r ImportRecord) ImportRecord
		expected bool
	}{
		{
			name:     "identical fields",
			mutate:   func(r ImportRecord) ImportRecord { return r },
			expected: true,
		},
		{
			name: "same day different time of day",
			mutate: func(r ImportRecord) ImportRecord {
				r.Date = r.Date.Add(14 * time.Hour)
				return r
			},
			expected: true,
		},
		{
			name: "quantity within tolerance",
			mutate: func(r ImportRecord) ImportRecord {
				r.Quantity = r.Quantity.Add(decimal.NewFromFloat(1e-7))
				return r
			},
			expected: true,
		},
		{
			name: "quantity beyond tolerance",
			mutate: func(r ImportRecord) ImportRecord {
				r.Quantity = r.Quantity.Add(decimal.NewFromFloat(0.001))
				return r
			},
			expected: false,
		},
		{
			name: "different ticker",
			mutate: func(r ImportRecord) ImportRecord {
				r.Ticker = "BND"
				return r
			},
			expected: false,
		},
		{
			name: "different type",
			mutate: func(r ImportRecord) ImportRecord {
				r.Type = domain.TransactionSell
				return r
			},
			expected: false,
		},
		{
			name: "different source",
			mutate: func(r ImportRecord) ImportRecord {
				r.Source = "schwab"
				return r
			},
			expected: false,
		},
		{
			name: "next day",
			mutate: func(r ImportRecord) ImportRecord {
				r.Date = r.Date.AddDate(0, 0, 1)
				return r
			},
			expected: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, IsDuplicate(base, tt.mutate(base)))
		})
	}
}

func TestIsDuplicateExternalIDWins(t *testing.T) {
	a := record("VTI", date(2024, time.March, 5), 10, 220.50)
	a.ExternalID = "txn-123"

	// A matching external id overrides every field difference.
	b := record("BND", date(2024, time.August, 1), 3, 71.00)
	b.ExternalID = "txn-123"
	assert.True(t, IsDuplicate(a, b))

	// Empty external ids never match each other.
	c := record("BND", date(2024, time.August, 1), 3, 71.00)
	assert.False(t, IsDuplicate(a, c))
}

func TestFindDuplicates(t *testing.T) {
	existing := []ImportRecord{
		record("VTI", date(2024, time.March, 5), 10, 220.50),
	}
	incoming := []ImportRecord{
		record("VTI", date(2024, time.March, 5), 10, 220.50), // dup of existing
		record("BND", date(2024, time.March, 5), 3, 71.00),   // new
		record("BND", date(2024, time.March, 5), 3, 71.00),   // dup of incoming[1]
	}

	assert.Equal(t, []int{0, 2}, FindDuplicates(existing, incoming))
}

func TestFindDuplicatesEmpty(t *testing.T) {
	assert.Empty(t, FindDuplicates(nil, nil))
	assert.Empty(t, FindDuplicates(nil, []ImportRecord{record("VTI", date(2024, time.March, 5), 1, 1)}))
}
