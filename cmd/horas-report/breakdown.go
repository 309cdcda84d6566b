package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"horas/internal/report"
)

var breakdownCmd = &cobra.Command{
	Use:       "breakdown <" + strings.Join(report.Dimensions, "|") + ">",
	Short:     "Print hours, billed and cost grouped by one dimension",
	Args:      cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
	ValidArgs: report.Dimensions,
	RunE:      runBreakdown,
}

func init() {
	rootCmd.AddCommand(breakdownCmd)
}

func runBreakdown(cmd *cobra.Command, args []string) error {
	d, err := render(cmd)
	if err != nil {
		return err
	}
	if d.IsEmpty() {
		fmt.Fprintln(cmd.OutOrStdout(), "Nenhum lançamento corresponde aos filtros.")
		return nil
	}
	return report.WriteBreakdown(cmd.OutOrStdout(), d, args[0])
}
