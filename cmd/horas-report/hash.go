package main

import (
	"bufio"
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"horas/internal/auth"
)

var hashCmd = &cobra.Command{
	Use:     "hash-password",
	Short:   "Read a password from stdin and print its bcrypt hash for AUTH_PASSWORD_HASH",
	Example: `  printf '%s' 's3cret' | horas-report hash-password`,
	Args:    cobra.NoArgs,
	RunE:    runHash,
}

func init() {
	rootCmd.AddCommand(hashCmd)
}

func runHash(cmd *cobra.Command, _ []string) error {
	line, err := bufio.NewReader(cmd.InOrStdin()).ReadString('\n')
	password := strings.TrimRight(line, "\r\n")
	if password == "" {
		if err != nil {
			return fmt.Errorf("read password: %w", err)
		}
		return errors.New("empty password")
	}
	hash, err := auth.HashPassword(password)
	if err != nil {
		return err
	}
	fmt.Fprintln(cmd.OutOrStdout(), hash)
	return nil
}
