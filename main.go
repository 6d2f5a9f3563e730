// =============================================================================
// MailPrep - Main Entry Point
// =============================================================================
//
// This is the main entry point for the MailPrep CLI application. It delegates
// command execution to the cmd package.
//
// USAGE:
//   mailprep map       - Build the mapping file for a job's mailing lists
//   mailprep headers   - Show the headers and mapping of list files
//   mailprep check     - Verify that a mapping file is normalized
//   mailprep job       - Show or edit job properties
//   mailprep version   - Display the application version
//
// ARCHITECTURE:
//   - cmd/           : CLI command definitions (Cobra)
//   - internal/      : Header classification, mapping files, job settings
//   - pkg/           : Shared utilities
//
// =============================================================================

package main

import (
	"github.com/jepaynedev/mailprep/cmd"
)

func main() {
	cmd.Execute()
}
