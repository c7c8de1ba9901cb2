package ingest

// decode.go turns an uploaded payload into a table.
//
// The format is sniffed from the payload first and the file name second:
//   - XLSX workbooks start with a zip local-file header ("PK\x03\x04")
//   - legacy XLS workbooks start with the OLE2 signature and are rejected
//   - anything named *.csv or sent as text/csv is read as CSV
//
// Only the first worksheet of a workbook is read. Its first row is the header.

import (
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"mime"
	"path/filepath"
	"strings"

	"github.com/xuri/excelize/v2"
	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"

	"github.com/JonMunkholm/landsplit/internal/table"
)

// Format names reported in MalformedUploadError.
const (
	FormatXLSX = "xlsx"
	FormatCSV  = "csv"
)

var (
	zipMagic  = []byte("PK\x03\x04")
	ole2Magic = []byte{0xD0, 0xCF, 0x11, 0xE0, 0xA1, 0xB1, 0x1A, 0xE1}
)

// Decode parses an uploaded spreadsheet. filename and contentType are hints
// used only when the payload itself is not recognizably a workbook.
func Decode(data []byte, filename, contentType string) (*table.Table, error) {
	if len(bytes.TrimSpace(data)) == 0 {
		return nil, &MalformedUploadError{Err: ErrEmptyFile}
	}

	switch {
	case bytes.HasPrefix(data, zipMagic):
		return DecodeXLSX(data)
	case bytes.HasPrefix(data, ole2Magic):
		return nil, &MalformedUploadError{Format: "xls", Err: errors.New("legacy .xls workbooks are not supported; save the file as .xlsx")}
	case isCSV(filename, contentType):
		return DecodeCSV(data)
	}

	return nil, &MalformedUploadError{Err: fmt.Errorf("unrecognized spreadsheet format (file %q)", filepath.Base(filename))}
}

func isCSV(filename, contentType string) bool {
	if strings.EqualFold(filepath.Ext(filename), ".csv") {
		return true
	}
	mt, _, err := mime.ParseMediaType(contentType)
	if err != nil {
		return false
	}
	return mt == "text/csv" || mt == "application/csv"
}

// DecodeXLSX reads the first worksheet of an XLSX workbook from the stored
// cell values, not their displayed text, so number formats never round or
// group digits. Numeric and boolean cells are typed. Formula cells take their
// cached result, or are evaluated when the writer left none. Cells with a
// date or time format keep their displayed text.
func DecodeXLSX(data []byte) (*table.Table, error) {
	f, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		return nil, &MalformedUploadError{Format: FormatXLSX, Err: err}
	}
	defer f.Close()

	sheetsList := f.GetSheetList()
	if len(sheetsList) == 0 {
		return nil, &MalformedUploadError{Format: FormatXLSX, Err: errors.New("workbook has no worksheets")}
	}
	sheet := sheetsList[0]

	rows, err := f.GetRows(sheet, excelize.Options{RawCellValue: true})
	if err != nil {
		return nil, &MalformedUploadError{Format: FormatXLSX, Err: err}
	}
	if len(rows) == 0 {
		return nil, &MalformedUploadError{Format: FormatXLSX, Err: fmt.Errorf("worksheet %q is empty", sheet)}
	}

	records := make([][]any, len(rows))
	for r, row := range rows {
		rec := make([]any, len(row))
		for c, raw := range row {
			if r == 0 {
				rec[c] = raw
				continue
			}
			v, err := typedCell(f, sheet, c, r, raw)
			if err != nil {
				return nil, &MalformedUploadError{Format: FormatXLSX, Err: err}
			}
			rec[c] = v
		}
		records[r] = rec
	}

	return table.FromRecords(records), nil
}

// typedCell converts the stored value of the cell at zero-based column c,
// row r using the cell's type and number format.
func typedCell(f *excelize.File, sheet string, c, r int, raw string) (any, error) {
	axis, err := excelize.CoordinatesToCellName(c+1, r+1)
	if err != nil {
		return nil, err
	}

	if raw == "" {
		formula, err := f.GetCellFormula(sheet, axis)
		if err != nil || formula == "" {
			return nil, err
		}
		// A formula excelize cannot evaluate reads as missing, the same as
		// an uncached formula in other readers.
		raw, err = f.CalcCellValue(sheet, axis, excelize.Options{RawCellValue: true})
		if err != nil || raw == "" {
			return nil, nil
		}
		if n, ok := table.ParseNumber(raw); ok {
			return n, nil
		}
		return raw, nil
	}

	ct, err := f.GetCellType(sheet, axis)
	if err != nil {
		return nil, err
	}

	switch ct {
	case excelize.CellTypeBool:
		if b, ok := table.ParseBool(raw); ok {
			return b, nil
		}
	case excelize.CellTypeNumber, excelize.CellTypeUnset:
		dated, err := hasDateFormat(f, sheet, axis)
		if err != nil {
			return nil, err
		}
		if dated {
			return f.GetCellValue(sheet, axis)
		}
		if n, ok := table.ParseNumber(raw); ok {
			return n, nil
		}
	}
	return raw, nil
}

// hasDateFormat reports whether the cell's number format renders a date or
// time. Built-in formats 14-22 and 45-47 are dates; custom formats are dates
// when a date or time token survives once quoted text and bracketed sections
// are removed.
func hasDateFormat(f *excelize.File, sheet, axis string) (bool, error) {
	idx, err := f.GetCellStyle(sheet, axis)
	if err != nil || idx == 0 {
		return false, err
	}
	style, err := f.GetStyle(idx)
	if err != nil || style == nil {
		return false, err
	}

	switch {
	case style.NumFmt >= 14 && style.NumFmt <= 22, style.NumFmt >= 45 && style.NumFmt <= 47:
		return true, nil
	case style.CustomNumFmt != nil:
		return isDateLayout(*style.CustomNumFmt), nil
	}
	return false, nil
}

func isDateLayout(layout string) bool {
	var (
		inQuote   bool
		inBracket bool
		escaped   bool
	)
	for _, ch := range strings.ToLower(layout) {
		switch {
		case escaped:
			escaped = false
		case inQuote:
			inQuote = ch != '"'
		case inBracket:
			inBracket = ch != ']'
		case ch == '\\':
			escaped = true
		case ch == '"':
			inQuote = true
		case ch == '[':
			inBracket = true
		case strings.ContainsRune("dmyhs", ch):
			return true
		}
	}
	return false
}

// DecodeCSV reads a comma-separated file. Cells stay text; identifiers such as
// LGD codes keep their leading zeros.
//
// A byte-order mark selects the encoding, so "Unicode text" exports from
// Excel (UTF-16 with BOM) read the same as UTF-8. Without a BOM the file is
// taken as UTF-8 and invalid bytes become U+FFFD.
func DecodeCSV(data []byte) (*table.Table, error) {
	text := transform.NewReader(bytes.NewReader(data), unicode.BOMOverride(unicode.UTF8.NewDecoder()))

	r := csv.NewReader(text)
	r.FieldsPerRecord = -1
	r.LazyQuotes = true

	var records [][]any
	for {
		rec, err := r.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, &MalformedUploadError{Format: FormatCSV, Err: err}
		}
		row := make([]any, len(rec))
		for i, cell := range rec {
			row[i] = cell
		}
		records = append(records, row)
	}

	if len(records) == 0 {
		return nil, &MalformedUploadError{Format: FormatCSV, Err: ErrEmptyFile}
	}
	return table.FromRecords(records), nil
}
