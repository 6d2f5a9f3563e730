package headers

import (
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"
)

// ReadXLSX reads the header row of a workbook.
//
// The sheet is opts.SheetName, or the first sheet when empty. Rows are
// streamed so large workbooks are not loaded in full.
func ReadXLSX(r io.Reader, opts Options) ([]string, error) {
	_, headers, err := readXLSX(r, opts)
	return headers, err
}

func readXLSX(r io.Reader, opts Options) (string, []string, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return "", nil, fmt.Errorf("failed to open workbook: %w", err)
	}
	defer f.Close()

	sheetName := opts.SheetName
	if sheetName == "" {
		sheetName = f.GetSheetName(0)
		if sheetName == "" {
			return "", nil, fmt.Errorf("workbook has no sheets")
		}
	} else if index, err := f.GetSheetIndex(sheetName); err != nil || index == -1 {
		return "", nil, fmt.Errorf("sheet %q not found", sheetName)
	}

	rows, err := f.Rows(sheetName)
	if err != nil {
		return "", nil, fmt.Errorf("failed to read rows: %w", err)
	}
	defer rows.Close()

	target := opts.headerRow()
	for current := 1; rows.Next(); current++ {
		if current < target {
			continue
		}
		row, err := rows.Columns()
		if err != nil {
			return "", nil, fmt.Errorf("failed to read row %d: %w", current, err)
		}
		return sheetName, cleanHeaders(trimTrailingEmpty(row)), nil
	}
	if err := rows.Error(); err != nil {
		return "", nil, fmt.Errorf("failed to read rows: %w", err)
	}

	return "", nil, fmt.Errorf("%w: sheet %q has fewer than %d rows", ErrNoHeaderRow, sheetName, target)
}
