package output

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/planfolio/planfolio/internal/domain"
	"github.com/planfolio/planfolio/pkg/money"
)

// FormatPercentileTable renders per-year percentile bands as a fixed-width
// console table.
func FormatPercentileTable(table domain.PercentileTable) string {
	var sb strings.Builder

	sb.WriteString("Year")
	for _, p := range table.Percentiles {
		sb.WriteString(fmt.Sprintf("%14s", fmt.Sprintf("p%d", p)))
	}
	sb.WriteString("\n")

	for _, row := range table.Years {
		sb.WriteString(fmt.Sprintf("%4d", row.Year))
		for _, v := range row.Values {
			sb.WriteString(fmt.Sprintf("%14s", money.FromDecimal(v).FormatWhole()))
		}
		sb.WriteString("\n")
	}
	return sb.String()
}

// FormatSummary renders the batch-level readout: trial count, insolvency
// rate, and the probability of meeting the target.
func FormatSummary(result *domain.SimulationResult, successProbability decimal.Decimal, target decimal.Decimal) string {
	var sb strings.Builder
	hundred := decimal.NewFromInt(100)

	sb.WriteString(fmt.Sprintf("Trials:              %d\n", len(result.Paths)))
	sb.WriteString(fmt.Sprintf("Insolvency rate:     %s%%\n", result.InsolvencyRate().Mul(hundred).StringFixed(1)))
	sb.WriteString(fmt.Sprintf("Target value:        %s\n", money.FromDecimal(target).FormatWhole()))
	sb.WriteString(fmt.Sprintf("Success probability: %s%%\n", successProbability.Mul(hundred).StringFixed(1)))
	return sb.String()
}

// WritePathsCSV writes one row per trial with a column per projection year.
func WritePathsCSV(w io.Writer, paths []domain.ProjectionPath) error {
	if len(paths) == 0 {
		return nil
	}

	writer := csv.NewWriter(w)
	defer writer.Flush()

	header := make([]string, len(paths[0])+1)
	header[0] = "Trial"
	for i := range paths[0] {
		header[i+1] = fmt.Sprintf("Year%d", i+1)
	}
	if err := writer.Write(header); err != nil {
		return fmt.Errorf("failed to write header: %w", err)
	}

	row := make([]string, len(paths[0])+1)
	for i, path := range paths {
		row[0] = strconv.Itoa(i + 1)
		for j, v := range path {
			row[j+1] = money.FromDecimal(v).String()
		}
		if err := writer.Write(row); err != nil {
			return fmt.Errorf("failed to write data row: %w", err)
		}
	}
	return nil
}
