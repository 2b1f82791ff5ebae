package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "planfolio",
		Short: "Portfolio tax and retirement planning engine",
		Long: `planfolio models an investment portfolio for retirement and tax planning:
tax-lot accounting for sales, year-aware tax rate resolution, and Monte Carlo
wealth projections with configurable withdrawal strategies.`,
	}

	rootCmd.AddCommand(newSimulateCmd())
	rootCmd.AddCommand(newTaxCmd())
	rootCmd.AddCommand(newExampleConfigCmd())

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
