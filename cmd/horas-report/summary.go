package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"horas/internal/report"
)

var summaryCmd = &cobra.Command{
	Use:   "summary",
	Short: "Print the headline totals and the monthly summary",
	Args:  cobra.NoArgs,
	RunE:  runSummary,
}

func init() {
	rootCmd.AddCommand(summaryCmd)
}

func runSummary(cmd *cobra.Command, _ []string) error {
	d, err := render(cmd)
	if err != nil {
		return err
	}
	out := cmd.OutOrStdout()
	if d.IsEmpty() {
		fmt.Fprintln(out, "Nenhum lançamento corresponde aos filtros.")
		return nil
	}
	if err := report.WriteTotals(out, d); err != nil {
		return err
	}
	fmt.Fprintln(out)
	return report.WriteSummary(out, d)
}
