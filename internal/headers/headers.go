// =============================================================================
// MailPrep - Header Intake
// =============================================================================
//
// This package reads the header row of intake files. Only the header row is
// needed to build a mapping, so data rows are never loaded.
//
// SUPPORTED FORMATS:
//   - .xlsx, .xlsm : Office Open XML workbooks (excelize)
//   - .csv, .txt   : delimited text in UTF-8, ISO-8859-1 or Windows-1252
//
// Legacy .xls workbooks are not supported.
//
// =============================================================================

package headers

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/jepaynedev/mailprep/internal/config"
	"github.com/jepaynedev/mailprep/internal/types"
)

var (
	// ErrUnsupportedFormat is returned for file extensions with no reader.
	ErrUnsupportedFormat = errors.New("unsupported file format")

	// ErrNoHeaderRow is returned when the file ends before the header row.
	ErrNoHeaderRow = errors.New("header row not found")
)

// =============================================================================
// OPTIONS
// =============================================================================

// Options controls how the header row is located and decoded.
type Options struct {
	// SheetName selects the worksheet. Empty means the first sheet.
	SheetName string

	// HeaderRow is the 1-based row holding the headers.
	HeaderRow int

	// Delimiter separates CSV fields. Accepts "tab", "pipe" and "semicolon".
	Delimiter string

	// Encoding of CSV files: "UTF-8", "ISO-8859-1" or "Windows-1252".
	Encoding string
}

// DefaultOptions reads the first row of the first sheet, or a UTF-8 CSV.
func DefaultOptions() Options {
	return Options{
		HeaderRow: 1,
		Delimiter: ",",
		Encoding:  "UTF-8",
	}
}

// FromConfig builds Options from the application configuration.
func FromConfig(cfg *config.Config) Options {
	return Options{
		SheetName: cfg.SheetName,
		HeaderRow: cfg.HeaderRow,
		Delimiter: cfg.CSV.Delimiter,
		Encoding:  cfg.CSV.Encoding,
	}
}

func (o Options) headerRow() int {
	if o.HeaderRow < 1 {
		return 1
	}
	return o.HeaderRow
}

// =============================================================================
// READER DISPATCH
// =============================================================================

// Read opens the file at path and reads its header row.
//
// PARAMETERS:
//   - path: The intake file. Its extension selects the reader.
//   - opts: Header location and decoding options.
//
// RETURNS:
//   - The InputFile with its cleaned headers.
//   - ErrUnsupportedFormat for unknown extensions, ErrNoHeaderRow when the
//     file is too short, or an error if the file cannot be read.
func Read(path string, opts Options) (*types.InputFile, error) {
	ext := strings.ToLower(filepath.Ext(path))
	if !IsSupported(ext) {
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedFormat, filepath.Base(path))
	}

	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open file: %w", err)
	}
	defer file.Close()

	var (
		headers []string
		sheet   string
	)
	switch ext {
	case ".xlsx", ".xlsm":
		sheet, headers, err = readXLSX(file, opts)
	default:
		headers, err = ReadCSV(file, opts)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read headers of %s: %w", filepath.Base(path), err)
	}

	input := types.NewInputFile(path, headers)
	input.Sheet = sheet
	return input, nil
}

// IsSupported reports whether ext (with leading dot) has a reader.
func IsSupported(ext string) bool {
	switch strings.ToLower(ext) {
	case ".xlsx", ".xlsm", ".csv", ".txt":
		return true
	default:
		return false
	}
}

// =============================================================================
// HELPER FUNCTIONS
// =============================================================================

// cleanHeaders trims each header and names empty ones after their column.
func cleanHeaders(headers []string) []string {
	cleaned := make([]string, len(headers))

	for i, header := range headers {
		header = strings.TrimSpace(header)
		if header == "" {
			header = fmt.Sprintf("Column_%d", i+1)
		}
		cleaned[i] = header
	}

	return cleaned
}

// trimTrailingEmpty drops empty cells after the last non-empty one.
func trimTrailingEmpty(row []string) []string {
	end := len(row)
	for end > 0 && strings.TrimSpace(row[end-1]) == "" {
		end--
	}
	return row[:end]
}
