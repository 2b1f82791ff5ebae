package money

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFormatting(t *testing.T) {
	m := FromDecimal(decimal.NewFromFloat(1234.5))

	assert.Equal(t, "1234.50", m.String())
	assert.Equal(t, "$1234.50", m.Format())
	assert.Equal(t, "$1235", m.FormatWhole())
}

func TestRound(t *testing.T) {
	m := FromDecimal(decimal.RequireFromString("99.999"))
	assert.Equal(t, "$100.00", m.Round().Format())
}

func TestRoundDollar(t *testing.T) {
	tests := []struct {
		in       string
		expected string
	}{
		{"12223.125", "12223"},
		{"12223.5", "12224"},
		{"12222.999", "12223"},
		{"15000", "15000"},
	}
	for _, tt := range tests {
		d, err := decimal.NewFromString(tt.in)
		require.NoError(t, err)
		assert.Equal(t, tt.expected, RoundDollar(d).String(), "input %s", tt.in)
	}
}

func TestRoundUpTen(t *testing.T) {
	tests := []struct {
		in       string
		expected string
	}{
		{"3251", "3260"},
		{"3259.99", "3260"},
		{"3260", "3260"},
		{"0", "0"},
		{"1", "10"},
	}
	for _, tt := range tests {
		d, err := decimal.NewFromString(tt.in)
		require.NoError(t, err)
		assert.True(t, RoundUpTen(d).Equal(decimal.RequireFromString(tt.expected)),
			"input %s: got %s", tt.in, RoundUpTen(d))
	}
}
