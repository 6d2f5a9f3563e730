package headers

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/jepaynedev/mailprep/internal/config"
)

// workbook builds an in-memory workbook with rows starting at A1 of Sheet1.
func workbook(t *testing.T, rows ...[]interface{}) []byte {
	t.Helper()

	f := excelize.NewFile()
	defer f.Close()

	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		require.NoError(t, err)
		require.NoError(t, f.SetSheetRow("Sheet1", cell, &row))
	}

	buf, err := f.WriteToBuffer()
	require.NoError(t, err)
	return buf.Bytes()
}

func TestReadXLSX(t *testing.T) {
	data := workbook(t,
		[]interface{}{"ID1", " name1 ", "", "Zip"},
		[]interface{}{"1", "Ann", "x", "12345"},
	)

	headers, err := ReadXLSX(bytes.NewReader(data), DefaultOptions())
	require.NoError(t, err)

	assert.Equal(t, []string{"ID1", "name1", "Column_3", "Zip"}, headers)
}

func TestReadXLSXHeaderRow(t *testing.T) {
	data := workbook(t,
		[]interface{}{"Mailing list export"},
		[]interface{}{"id", "city"},
	)

	opts := DefaultOptions()
	opts.HeaderRow = 2
	headers, err := ReadXLSX(bytes.NewReader(data), opts)
	require.NoError(t, err)

	assert.Equal(t, []string{"id", "city"}, headers)
}

func TestReadXLSXMissingHeaderRow(t *testing.T) {
	data := workbook(t, []interface{}{"id"})

	opts := DefaultOptions()
	opts.HeaderRow = 5
	_, err := ReadXLSX(bytes.NewReader(data), opts)

	assert.True(t, errors.Is(err, ErrNoHeaderRow))
}

func TestReadXLSXNamedSheet(t *testing.T) {
	f := excelize.NewFile()
	_, err := f.NewSheet("Data")
	require.NoError(t, err)
	require.NoError(t, f.SetSheetRow("Sheet1", "A1", &[]interface{}{"cover"}))
	require.NoError(t, f.SetSheetRow("Data", "A1", &[]interface{}{"company", "zip"}))
	buf, err := f.WriteToBuffer()
	require.NoError(t, err)
	require.NoError(t, f.Close())

	opts := DefaultOptions()
	opts.SheetName = "Data"
	headers, err := ReadXLSX(bytes.NewReader(buf.Bytes()), opts)
	require.NoError(t, err)
	assert.Equal(t, []string{"company", "zip"}, headers)

	opts.SheetName = "Missing"
	_, err = ReadXLSX(bytes.NewReader(buf.Bytes()), opts)
	assert.Error(t, err)
}

func TestReadCSV(t *testing.T) {
	tests := []struct {
		name    string
		content string
		opts    Options
		want    []string
	}{
		{
			name:    "comma",
			content: "id, first ,zip\n1,Ann,12345\n",
			opts:    DefaultOptions(),
			want:    []string{"id", "first", "zip"},
		},
		{
			name:    "byte order mark",
			content: "\ufeffid,zip\n",
			opts:    DefaultOptions(),
			want:    []string{"id", "zip"},
		},
		{
			name:    "tab",
			content: "id\tcity\n",
			opts:    Options{HeaderRow: 1, Delimiter: "tab"},
			want:    []string{"id", "city"},
		},
		{
			name:    "pipe with empty column",
			content: "id||zip\n",
			opts:    Options{HeaderRow: 1, Delimiter: "pipe"},
			want:    []string{"id", "Column_2", "zip"},
		},
		{
			name:    "trailing empty columns",
			content: "id,zip,,\n",
			opts:    DefaultOptions(),
			want:    []string{"id", "zip"},
		},
		{
			name:    "header row",
			content: "report\nid;zip\n",
			opts:    Options{HeaderRow: 2, Delimiter: ";"},
			want:    []string{"id", "zip"},
		},
		{
			name:    "quoted",
			content: "\"name, line\",zip\n",
			opts:    DefaultOptions(),
			want:    []string{"name, line", "zip"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			headers, err := ReadCSV(strings.NewReader(tt.content), tt.opts)
			require.NoError(t, err)
			assert.Equal(t, tt.want, headers)
		})
	}
}

func TestReadCSVWindows1252(t *testing.T) {
	// 0xE9 is "é" in Windows-1252 and invalid on its own in UTF-8.
	content := []byte("id,Soci\xe9t\xe9\n")

	opts := DefaultOptions()
	opts.Encoding = "Windows-1252"
	headers, err := ReadCSV(bytes.NewReader(content), opts)
	require.NoError(t, err)

	assert.Equal(t, []string{"id", "Société"}, headers)
}

func TestReadCSVErrors(t *testing.T) {
	_, err := ReadCSV(strings.NewReader(""), DefaultOptions())
	assert.True(t, errors.Is(err, ErrNoHeaderRow))

	opts := DefaultOptions()
	opts.Encoding = "EBCDIC"
	_, err = ReadCSV(strings.NewReader("id\n"), opts)
	assert.Error(t, err)
}

func TestRead(t *testing.T) {
	dir := t.TempDir()

	xlsxPath := filepath.Join(dir, "List A.xlsx")
	require.NoError(t, os.WriteFile(xlsxPath, workbook(t, []interface{}{"id", "zip"}), 0o644))

	csvPath := filepath.Join(dir, "list_b.csv")
	require.NoError(t, os.WriteFile(csvPath, []byte("company,city\n"), 0o644))

	input, err := Read(xlsxPath, DefaultOptions())
	require.NoError(t, err)
	assert.Equal(t, "List A.xlsx", input.Name)
	assert.Equal(t, "Sheet1", input.Sheet)
	assert.Equal(t, []string{"id", "zip"}, input.Headers)

	input, err = Read(csvPath, FromConfig(config.Default()))
	require.NoError(t, err)
	assert.Equal(t, "list_b.csv", input.Name)
	assert.Empty(t, input.Sheet)
	assert.Equal(t, []string{"company", "city"}, input.Headers)
}

func TestReadUnsupported(t *testing.T) {
	_, err := Read(filepath.Join(t.TempDir(), "legacy.xls"), DefaultOptions())
	assert.True(t, errors.Is(err, ErrUnsupportedFormat))

	_, err = Read(filepath.Join(t.TempDir(), "missing.csv"), DefaultOptions())
	assert.Error(t, err)
	assert.False(t, errors.Is(err, ErrUnsupportedFormat))
}
