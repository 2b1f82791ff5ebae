package main

import (
	"fmt"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"

	"github.com/planfolio/planfolio/internal/calculation"
	"github.com/planfolio/planfolio/internal/config"
	"github.com/planfolio/planfolio/internal/domain"
	"github.com/planfolio/planfolio/pkg/money"
)

func newTaxCmd() *cobra.Command {
	var (
		year         int
		filingStatus string
		income       float64
	)

	cmd := &cobra.Command{
		Use:   "tax <plan.yaml>",
		Short: "Resolve a tax year's rates and compute tax for an income",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			parser := config.NewInputParser()
			plan, err := parser.LoadFromFile(args[0])
			if err != nil {
				return err
			}

			resolver := calculation.NewRateResolver(plan.RateTables)
			table, err := resolver.Resolve(year, nil)
			if err != nil {
				return err
			}

			status := domain.NormalizeFilingStatus(filingStatus)
			calc := calculation.NewTaxCalculator(table)
			taxable := decimal.NewFromFloat(income)

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Tax year:        %d\n", table.Year)
			fmt.Fprintf(out, "Filing status:   %s\n", status)
			fmt.Fprintf(out, "Taxable income:  %s\n", money.FromDecimal(taxable).FormatWhole())
			fmt.Fprintf(out, "Ordinary tax:    %s\n", money.FromDecimal(calc.OrdinaryTax(taxable, status)).Round().Format())
			fmt.Fprintf(out, "Marginal rate:   %s%%\n", calc.MarginalRate(taxable, status).Mul(decimal.NewFromInt(100)).StringFixed(1))
			fmt.Fprintf(out, "LTCG rate:       %s%%\n", calc.LTCGRate(taxable, status).Mul(decimal.NewFromInt(100)).StringFixed(1))
			return nil
		},
	}

	cmd.Flags().IntVarP(&year, "year", "y", 2025, "tax year to resolve (future years extrapolate)")
	cmd.Flags().StringVarP(&filingStatus, "status", "s", "single", "filing status")
	cmd.Flags().Float64VarP(&income, "income", "i", 100000, "taxable income")
	return cmd
}
