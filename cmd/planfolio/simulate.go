package main

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/planfolio/planfolio/internal/calculation"
	"github.com/planfolio/planfolio/internal/config"
	"github.com/planfolio/planfolio/internal/domain"
	"github.com/planfolio/planfolio/internal/output"
)

func newSimulateCmd() *cobra.Command {
	var (
		trials  int
		csvPath string
	)

	cmd := &cobra.Command{
		Use:   "simulate <plan.yaml>",
		Short: "Run a Monte Carlo wealth projection from a plan file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			parser := config.NewInputParser()
			plan, err := parser.LoadFromFile(args[0])
			if err != nil {
				return err
			}

			sim := calculation.NewProjectionSimulator(plan.Simulation)

			// Withdrawal-tax-aware when the plan carries rate tables.
			if len(plan.RateTables) > 0 {
				resolver := calculation.NewRateResolver(plan.RateTables)
				table, err := resolver.Resolve(time.Now().Year(), nil)
				if err != nil {
					return err
				}
				sim.Tax = calculation.NewTaxCalculator(table)
				sim.Status = domain.NormalizeFilingStatus(plan.FilingStatus)
			}

			result, err := sim.Run(trials)
			if err != nil {
				return err
			}

			table := calculation.Percentiles(result.Paths, []int{10, 25, 50, 75, 90})
			success := calculation.SuccessProbability(result.Paths, plan.TargetValue, plan.TargetYear-1)

			fmt.Fprint(cmd.OutOrStdout(), output.FormatSummary(result, success, plan.TargetValue))
			fmt.Fprintln(cmd.OutOrStdout())
			fmt.Fprint(cmd.OutOrStdout(), output.FormatPercentileTable(table))

			if csvPath != "" {
				f, err := os.Create(csvPath)
				if err != nil {
					return fmt.Errorf("failed to create CSV file: %w", err)
				}
				defer f.Close()
				if err := output.WritePathsCSV(f, result.Paths); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "\nPaths written to %s\n", csvPath)
			}
			return nil
		},
	}

	cmd.Flags().IntVarP(&trials, "trials", "n", 1000, "number of Monte Carlo trials")
	cmd.Flags().StringVar(&csvPath, "csv", "", "write per-trial paths to a CSV file")
	return cmd
}
