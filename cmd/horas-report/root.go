package main

import (
	"context"
	"fmt"
	"net/url"
	"os"
	"time"

	"github.com/spf13/cobra"

	"horas/internal/analytics"
	"horas/internal/backend"
	"horas/internal/cli"
	"horas/internal/config"
	apphttp "horas/internal/http"
	"horas/internal/log"
	"horas/internal/services"
)

var version = "dev"

// filterFlags maps command-line flags to the dashboard's filter parameters.
var filterFlags = map[string]string{
	"from":      "from",
	"to":        "to",
	"area":      "area",
	"performer": "performer",
	"hour-type": "hour_type",
}

var rootCmd = &cobra.Command{
	Use:   "horas-report",
	Short: "Print the hours and payments dashboard as text",
	Long: `horas-report loads the hours and payments workbooks from the configured
backend (the same DATA_BACKEND settings as the server) and prints the
dashboard views to stdout.

Filters mirror the dashboard: dates are YYYY-MM-DD or YYYY-MM, "all" or an
empty value lifts a restriction, and --client may be repeated.`,
	Example: `  # Monthly summary for the first quarter
  horas-report summary --from 2024-01 --to 2024-03

  # Hours per performer of one area
  horas-report breakdown performer --area Tributário`,
	Version:       version,
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	addFilterFlags(rootCmd)
}

func addFilterFlags(cmd *cobra.Command) {
	flags := cmd.PersistentFlags()
	flags.String("from", "", "First day included (YYYY-MM-DD or YYYY-MM)")
	flags.String("to", "", "Last day included (YYYY-MM-DD or YYYY-MM)")
	flags.String("area", analytics.All, "Area")
	flags.String("performer", analytics.All, "Performer")
	flags.String("hour-type", analytics.All, "Hour type")
	flags.StringArray("client", nil, "Client, repeatable; commas are part of the name")
	flags.Duration("timeout", 2*time.Minute, "Time allowed to download and aggregate both workbooks")
	flags.String("log-level", "warn", "Log level written to stderr")
}

// Execute runs the root command and exits non-zero on failure.
func Execute() {
	cli.LoadEnvFile()
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// filterSpec reads the filter flags the user set.
func filterSpec(cmd *cobra.Command) (analytics.FilterSpec, error) {
	q := url.Values{}
	flags := cmd.Flags()
	for flag, param := range filterFlags {
		if flags.Changed(flag) {
			v, err := flags.GetString(flag)
			if err != nil {
				return analytics.FilterSpec{}, err
			}
			q.Set(param, v)
		}
	}
	if flags.Changed("client") {
		clients, err := flags.GetStringArray("client")
		if err != nil {
			return analytics.FilterSpec{}, err
		}
		q["client"] = clients
	}
	return apphttp.ParseFilterSpec(q, analytics.DefaultFilterSpec())
}

// render builds the dashboard for the command's filters from the configured
// backend.
func render(cmd *cobra.Command) (*analytics.Dashboard, error) {
	spec, err := filterSpec(cmd)
	if err != nil {
		return nil, err
	}
	flags := cmd.Flags()
	level, _ := flags.GetString("log-level")
	timeout, _ := flags.GetDuration("timeout")

	logger := log.NewText(os.Stderr, log.ParseLevel(level), log.ComponentReport)

	cfg := config.Load()
	backendCfg, err := backend.FromAppConfig(cfg)
	if err != nil {
		return nil, err
	}
	// Every run downloads once; the expiry loop is not needed.
	backendCfg.CacheTTL = 0

	ctx, cancel := context.WithTimeout(cmd.Context(), timeout)
	defer cancel()

	result, err := backend.NewFactory(logger.WithComponent(log.ComponentBackend).Slog()).CreateBackend(ctx, backendCfg)
	if err != nil {
		return nil, fmt.Errorf("initialize %s backend: %w", backendCfg.Type, err)
	}
	defer func() {
		if err := result.Close(); err != nil {
			logger.Warn("Backend cleanup failed", log.FieldError, err)
		}
	}()

	svc := services.NewDashboardService(result.Reader, analytics.BuildOptions{
		KeepPaymentOnlyMonths: cfg.KeepPaymentOnlyMonths,
		HourTypes:             cfg.HourTypes,
	}, nil, logger)

	d, err := svc.Render(ctx, spec)
	if err != nil {
		return nil, err
	}
	for _, w := range d.Warnings {
		fmt.Fprintf(os.Stderr, "warning: %s\n", w)
	}
	return d, nil
}
