// =============================================================================
// MailPrep - Shared Types
// =============================================================================
//
// This package contains shared types used across multiple modules to avoid
// import cycles. Types defined here are used by:
//   - headers
//   - cmd
//
// =============================================================================

package types

import "path/filepath"

// =============================================================================
// INTAKE TYPES
// =============================================================================

// InputFile is an intake file whose header row has been read.
type InputFile struct {
	// Path is the path the file was read from. Empty for in-memory reads.
	Path string

	// Name is the base file name. Mapping sections are keyed by it.
	Name string

	// Sheet is the worksheet the headers came from. Empty for CSV files.
	Sheet string

	// Headers contains the cleaned header row in column order.
	Headers []string
}

// NewInputFile creates an InputFile named after the base of path.
func NewInputFile(path string, headers []string) *InputFile {
	return &InputFile{
		Path:    path,
		Name:    filepath.Base(path),
		Headers: headers,
	}
}
