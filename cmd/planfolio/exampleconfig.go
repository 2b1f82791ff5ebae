package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/planfolio/planfolio/internal/config"
)

func newExampleConfigCmd() *cobra.Command {
	var outPath string

	cmd := &cobra.Command{
		Use:   "example-config",
		Short: "Write a starter plan file",
		RunE: func(cmd *cobra.Command, args []string) error {
			plan := config.NewInputParser().CreateExamplePlan()
			data, err := yaml.Marshal(plan)
			if err != nil {
				return fmt.Errorf("failed to marshal example plan: %w", err)
			}
			if err := os.WriteFile(outPath, data, 0644); err != nil {
				return fmt.Errorf("failed to write %s: %w", outPath, err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Example plan written to %s\n", outPath)
			return nil
		},
	}

	cmd.Flags().StringVarP(&outPath, "out", "o", "plan.yaml", "output file path")
	return cmd
}
