// =============================================================================
// MailPrep - Check Command
// =============================================================================
//
// This file defines the 'check' command, which verifies that a mapping file
// parses and is in normalized form (aligned keys, one blank line after every
// section). Hand-edited mapping files can be normalized with --fix.
//
// COMMAND USAGE:
//   mailprep check FILE [--fix]
//
// EXIT STATUS:
//   0 : the file is normalized (or was fixed)
//   1 : the file cannot be parsed or is not normalized
//
// =============================================================================

package cmd

import (
	"bytes"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/jepaynedev/mailprep/internal/merge"
	"github.com/jepaynedev/mailprep/pkg/utils"
)

// checkFix rewrites the file in normalized form.
var checkFix bool

var checkCmd = &cobra.Command{
	Use:   "check FILE",
	Short: "Verify that a mapping file is valid and normalized",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runCheck(cmd, args[0])
	},
}

func init() {
	rootCmd.AddCommand(checkCmd)

	checkCmd.Flags().BoolVar(&checkFix, "fix", false, "Rewrite the file in normalized form")
}

func runCheck(cmd *cobra.Command, path string) error {
	_, log, err := loadRuntime(cmd)
	if err != nil {
		return err
	}
	out := cmd.OutOrStdout()

	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read mapping: %w", err)
	}

	store, err := merge.FromStream(bytes.NewReader(data))
	if err != nil {
		return err
	}
	log.Debug("Parsed %d section(s) from %s", store.Len(), path)

	normalized := store.String()
	if normalized == string(data) {
		fmt.Fprintf(out, "%s is normalized (%d section(s))\n", path, store.Len())
		return nil
	}

	if !checkFix {
		return fmt.Errorf("%s is not normalized (run with --fix to rewrite it)", path)
	}

	if err := utils.WriteFileAtomic(path, []byte(normalized)); err != nil {
		return fmt.Errorf("failed to write mapping: %w", err)
	}
	fmt.Fprintf(out, "%s normalized (%d section(s))\n", path, store.Len())
	return nil
}
