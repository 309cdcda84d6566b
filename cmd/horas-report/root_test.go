package main

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"horas/internal/analytics"
	"horas/internal/auth"
	"horas/internal/core"
)

func parsed(t *testing.T, args ...string) *cobra.Command {
	t.Helper()
	cmd := &cobra.Command{Use: "test"}
	addFilterFlags(cmd)
	require.NoError(t, cmd.ParseFlags(args))
	return cmd
}

func TestFilterSpecDefaults(t *testing.T) {
	spec, err := filterSpec(parsed(t))
	require.NoError(t, err)
	assert.Equal(t, analytics.DefaultFilterSpec(), spec)
}

func TestFilterSpecFromFlags(t *testing.T) {
	spec, err := filterSpec(parsed(t,
		"--from", "2024-01", "--to", "2024-02",
		"--area", "Tax", "--hour-type", "Serviço",
		"--client", "X", "--client", "Y"))
	require.NoError(t, err)
	assert.Equal(t, core.NewDate(2024, 1, 1), spec.Dates.From)
	assert.Equal(t, core.NewDate(2024, 2, 29), spec.Dates.To)
	assert.Equal(t, "Tax", spec.Area)
	assert.Equal(t, analytics.All, spec.Performer)
	assert.Equal(t, "Serviço", spec.HourType)
	assert.Equal(t, []string{"X", "Y"}, spec.Clients)
}

func TestFilterSpecKeepsCommasInClientNames(t *testing.T) {
	spec, err := filterSpec(parsed(t, "--client", "Empresa X, Ltda", "--client", "Y"))
	require.NoError(t, err)
	assert.Equal(t, []string{"Empresa X, Ltda", "Y"}, spec.Clients)
}

func TestFilterSpecRejectsInvertedRange(t *testing.T) {
	_, err := filterSpec(parsed(t, "--from", "2024-03-01", "--to", "2024-01-31"))
	assert.Error(t, err)
}

func TestBreakdownRejectsUnknownDimension(t *testing.T) {
	assert.Error(t, breakdownCmd.Args(breakdownCmd, []string{"month"}))
	assert.NoError(t, breakdownCmd.Args(breakdownCmd, []string{"area"}))
}

func TestHashPassword(t *testing.T) {
	var out bytes.Buffer
	hashCmd.SetIn(strings.NewReader("s3cret\n"))
	hashCmd.SetOut(&out)
	t.Cleanup(func() {
		hashCmd.SetIn(nil)
		hashCmd.SetOut(nil)
	})

	require.NoError(t, runHash(hashCmd, nil))
	hash := strings.TrimSpace(out.String())
	a, err := auth.New("admin", "", hash)
	require.NoError(t, err)
	assert.NoError(t, a.Authenticate(context.Background(), "admin", "s3cret"))

	hashCmd.SetIn(strings.NewReader(""))
	assert.Error(t, runHash(hashCmd, nil))
}
