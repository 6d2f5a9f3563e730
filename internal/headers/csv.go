package headers

import (
	"bufio"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"

	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
)

// ReadCSV reads the header row of delimited text.
//
// PARAMETERS:
//   - r: The CSV content.
//   - opts: Delimiter, encoding and header row.
//
// RETURNS:
//   - The cleaned headers.
//   - ErrNoHeaderRow if the content ends before opts.HeaderRow.
func ReadCSV(r io.Reader, opts Options) ([]string, error) {
	decoder, err := decoderFor(opts.Encoding)
	if err != nil {
		return nil, err
	}

	csvReader := csv.NewReader(transform.NewReader(bufio.NewReader(r), decoder))
	configureReader(csvReader, opts.Delimiter)

	target := opts.headerRow()
	for current := 1; ; current++ {
		row, err := csvReader.Read()
		if errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("%w: file has fewer than %d rows", ErrNoHeaderRow, target)
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read CSV: %w", err)
		}
		if current == target {
			return cleanHeaders(trimTrailingEmpty(row)), nil
		}
	}
}

// decoderFor returns a decoder producing UTF-8 from the named encoding.
// A UTF-8 byte order mark is stripped whatever the encoding.
func decoderFor(name string) (transform.Transformer, error) {
	var enc encoding.Encoding
	switch strings.ToUpper(strings.TrimSpace(name)) {
	case "", "UTF-8", "UTF8":
		enc = encoding.Nop
	case "ISO-8859-1", "LATIN1":
		enc = charmap.ISO8859_1
	case "WINDOWS-1252", "CP1252":
		enc = charmap.Windows1252
	default:
		return nil, fmt.Errorf("unsupported encoding %q", name)
	}
	return unicode.BOMOverride(enc.NewDecoder()), nil
}

// configureReader applies the delimiter and lenient parsing settings.
func configureReader(reader *csv.Reader, delimiter string) {
	switch delimiter {
	case "\\t", "\t", "tab", "TAB":
		reader.Comma = '\t'
	case "|", "pipe", "PIPE":
		reader.Comma = '|'
	case ";", "semicolon", "SEMICOLON":
		reader.Comma = ';'
	default:
		if len(delimiter) > 0 {
			reader.Comma = rune(delimiter[0])
		} else {
			reader.Comma = ','
		}
	}

	// Header rows are often shorter or longer than the data rows.
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true
	reader.TrimLeadingSpace = true
}
