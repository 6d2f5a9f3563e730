// =============================================================================
// MailPrep - Job Command
// =============================================================================
//
// This file defines the 'job' command group, which reads and edits the
// properties of a job file (.mpjob).
//
// COMMAND USAGE:
//   mailprep job show FILE
//   mailprep job set FILE PROPERTY VALUE
//
// Property names are matched ignoring case and spacing, so
// "use custom campus" sets "Use Custom Campus". Boolean properties accept
// true/false/1/0. An empty VALUE clears a text property.
//
// =============================================================================

package cmd

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/jepaynedev/mailprep/internal/jobsettings"
	"github.com/jepaynedev/mailprep/internal/logging"
	"github.com/jepaynedev/mailprep/pkg/utils"
)

var jobCmd = &cobra.Command{
	Use:   "job",
	Short: "Show or edit job properties",
}

var jobShowCmd = &cobra.Command{
	Use:   "show FILE",
	Short: "Show the properties of a job file",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		_, log, err := loadRuntime(cmd)
		if err != nil {
			return err
		}

		file, err := os.Open(args[0])
		if err != nil {
			return fmt.Errorf("failed to open job file: %w", err)
		}
		defer file.Close()

		settings, err := jobsettings.Load(file, log)
		if err != nil {
			return err
		}

		printProperties(cmd.OutOrStdout(), jobsettings.Resolve(settings))
		return nil
	},
}

var jobSetCmd = &cobra.Command{
	Use:   "set FILE PROPERTY VALUE",
	Short: "Set a property of a job file, creating the file if needed",
	Args:  cobra.ExactArgs(3),
	RunE: func(cmd *cobra.Command, args []string) error {
		_, log, err := loadRuntime(cmd)
		if err != nil {
			return err
		}
		return runJobSet(cmd.OutOrStdout(), log, args[0], args[1], args[2])
	},
}

func init() {
	rootCmd.AddCommand(jobCmd)
	jobCmd.AddCommand(jobShowCmd)
	jobCmd.AddCommand(jobSetCmd)
}

func runJobSet(out io.Writer, log logging.Logger, path, name, raw string) error {
	property, ok := jobsettings.LookupProperty(name)
	if !ok {
		return fmt.Errorf("unknown job property %q", name)
	}
	value, err := property.ParseValue(raw)
	if err != nil {
		return err
	}

	settings, err := loadJobSettings(path, log)
	if err != nil {
		return err
	}

	job := jobsettings.NewJob(settings)
	previous, _ := job.Value(property.Name)
	if _, err := job.SetValue(property.Name, value); err != nil {
		return err
	}

	if !job.IsChanged() {
		fmt.Fprintf(out, "%s unchanged\n", property.Name)
		return nil
	}
	job.Commit()

	var buf bytes.Buffer
	if err := settings.Save(&buf); err != nil {
		return err
	}
	if err := utils.WriteFileAtomic(path, buf.Bytes()); err != nil {
		return fmt.Errorf("failed to write job file: %w", err)
	}

	fmt.Fprintf(out, "%s: %s -> %s\n", property.Name, formatValue(previous), formatValue(value))
	return nil
}

// loadJobSettings loads a job file, or empty settings if it does not exist.
func loadJobSettings(path string, log logging.Logger) (*jobsettings.Settings, error) {
	file, err := os.Open(path)
	if errors.Is(err, os.ErrNotExist) {
		log.Info("Creating job file %s", path)
		return jobsettings.New(log), nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to open job file: %w", err)
	}
	defer file.Close()

	return jobsettings.Load(file, log)
}

// printProperties prints property values grouped under their group names.
func printProperties(out io.Writer, values []jobsettings.PropertyValue) {
	width := 0
	for _, value := range values {
		if n := len(value.Property.Name); n > width {
			width = n
		}
	}

	group := ""
	for _, value := range values {
		if value.Property.Group != group {
			group = value.Property.Group
			fmt.Fprintln(out, group)
		}
		fmt.Fprintf(out, "  %s %s\n", utils.PadRight(value.Property.Name+":", width+1), formatValue(value.Value))
	}
}

func formatValue(value any) string {
	if value == nil {
		return "(not set)"
	}
	return fmt.Sprint(value)
}
