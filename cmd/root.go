// =============================================================================
// MailPrep - Root Command
// =============================================================================
//
// This file defines the root command for the Cobra CLI. The root command is
// the base command that all other commands are attached to.
//
// COBRA CLI STRUCTURE:
//   rootCmd (mailprep)
//   ├── mapCmd     (mailprep map)
//   ├── headersCmd (mailprep headers)
//   ├── checkCmd   (mailprep check)
//   ├── jobCmd     (mailprep job show|set)
//   └── versionCmd (mailprep version)
//
// CONFIGURATION:
//   The root command is responsible for:
//   1. Setting up global flags (--config, --verbose)
//   2. Loading the configuration file
//   3. Setting up logging
//
// =============================================================================

package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/jepaynedev/mailprep/internal/config"
	"github.com/jepaynedev/mailprep/internal/logging"
)

// =============================================================================
// GLOBAL VARIABLES
// =============================================================================

// cfgFile holds the path to the configuration file.
// This can be overridden using the --config flag.
var cfgFile string

// verbose forces debug logging when set to true.
var verbose bool

// =============================================================================
// ROOT COMMAND DEFINITION
// =============================================================================

// rootCmd represents the base command when called without any subcommands.
var rootCmd = &cobra.Command{
	Use:   "mailprep",
	Short: "MailPrep - Build mail-merge field mappings from mailing list headers",
	Long: `MailPrep prepares customer mailing lists for mail merge. It reads the
header row of each list file, classifies the headers into the standard merge
fields (id, first, title, company, address, address2, city, salline) and
writes an INI mapping file with one section per list file.

Example Usage:
  mailprep map list1.xlsx list2.csv --job 12345   # Map two files into 12345.ini
  mailprep map --dir ./jobs/12345 --job 12345     # Map every list in a directory
  mailprep headers list1.xlsx                     # Show the mapping of one file
  mailprep check 12345.ini                        # Verify a mapping file is normalized
  mailprep job show 12345.mpjob                   # Show job properties`,

	SilenceUsage:  true,
	SilenceErrors: true,

	Run: func(cmd *cobra.Command, args []string) {
		cmd.Help()
	},
}

// =============================================================================
// EXECUTE FUNCTION
// =============================================================================

// Execute runs the root command. This is called by main.main().
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// =============================================================================
// INITIALIZATION
// =============================================================================

func init() {
	rootCmd.PersistentFlags().StringVar(
		&cfgFile,
		"config",
		"mailprep.yaml",
		"Path to the configuration file (defaults apply when missing)",
	)

	rootCmd.PersistentFlags().BoolVarP(
		&verbose,
		"verbose",
		"v",
		false,
		"Enable verbose output for debugging",
	)
}

// loadRuntime loads the configuration and builds the logger for a command.
// Log output goes to the command's error stream.
func loadRuntime(cmd *cobra.Command) (*config.Config, logging.Logger, error) {
	cfg, err := config.Load(cfgFile)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load config: %w", err)
	}

	level := cfg.LogLevel
	if verbose {
		level = "debug"
	}
	log := logging.New(cmd.ErrOrStderr(), level)
	log.Debug("Loaded configuration from %s", cfgFile)

	return cfg, log, nil
}
