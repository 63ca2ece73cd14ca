package ingest

import (
	"bytes"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/xuri/excelize/v2"

	"sales-dashboard/internal/errors"
)

// ExpectedColumnCount is the fixed width of the sales export contract.
const ExpectedColumnCount = 10

// ExpectedHeaders is the required input column order agreed with upstream
// data producers.
var ExpectedHeaders = []string{
	"item_id", "item_name", "manufacturer_id", "manufacturer_name",
	"city_id", "city_name", "category", "date", "qty_sold", "mrp",
}

// Decode turns an uploaded file's bytes into a header list and ordered raw
// rows. Spreadsheet files go through excelize (first sheet only, missing
// cells become empty strings); anything else is treated as UTF-8 CSV text.
// The CSV path splits on plain commas and strips quote characters; embedded
// commas inside quoted fields are not supported.
func Decode(data []byte, filename, mimeType string) (headers []string, rows [][]string, err error) {
	if IsSpreadsheet(filename, mimeType) {
		return decodeSpreadsheet(data)
	}
	return decodeCSV(data)
}

// IsSpreadsheet reports whether the filename or mime type indicates an Excel
// workbook rather than plain CSV text.
func IsSpreadsheet(filename, mimeType string) bool {
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".xlsx", ".xls":
		return true
	}
	return strings.Contains(mimeType, "spreadsheet") || mimeType == "application/vnd.ms-excel"
}

func decodeSpreadsheet(data []byte) ([]string, [][]string, error) {
	f, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		return nil, nil, errors.DecodeWrap(err, "Failed to read Excel file")
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, nil, errors.Decode("Excel file has no sheets")
	}

	raw, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, nil, errors.DecodeWrap(err, "Failed to read Excel sheet")
	}
	if len(raw) < 2 {
		return nil, nil, errors.Decode("Excel file has no rows")
	}

	headers := make([]string, len(raw[0]))
	for i, h := range raw[0] {
		headers[i] = strings.TrimSpace(h)
	}

	// excelize drops trailing empty cells, so rows are padded back out to the
	// header width.
	rows := make([][]string, 0, len(raw)-1)
	for _, r := range raw[1:] {
		row := make([]string, len(headers))
		for i := range headers {
			if i < len(r) {
				row[i] = strings.TrimSpace(r[i])
			}
		}
		rows = append(rows, row)
	}

	return headers, rows, nil
}

func decodeCSV(data []byte) ([]string, [][]string, error) {
	content := strings.TrimSpace(string(data))
	lines := strings.Split(content, "\n")
	if content == "" || len(lines) < 2 {
		return nil, nil, errors.Decode("File must contain at least a header row and one data row")
	}

	headers := splitLine(lines[0])
	rows := make([][]string, 0, len(lines)-1)
	for _, line := range lines[1:] {
		rows = append(rows, splitLine(line))
	}

	return headers, rows, nil
}

func splitLine(line string) []string {
	cells := strings.Split(line, ",")
	for i, c := range cells {
		cells[i] = strings.ReplaceAll(strings.TrimSpace(c), `"`, "")
	}
	return cells
}

// ValidateColumnCount rejects files whose header row is not exactly the
// fixed contract width.
func ValidateColumnCount(headers []string) error {
	if len(headers) != ExpectedColumnCount {
		return errors.Decode(fmt.Sprintf("Expected %d columns, found %d", ExpectedColumnCount, len(headers)))
	}
	return nil
}

// ValidateHeaders checks that every expected header token appears as a
// case-insensitive substring of some header. Runs once per upload, before
// any row is processed.
func ValidateHeaders(headers []string) error {
	for _, want := range ExpectedHeaders {
		found := false
		for _, h := range headers {
			if strings.Contains(strings.ToLower(h), want) {
				found = true
				break
			}
		}
		if !found {
			return errors.Structure("File must contain the required columns: " + strings.Join(ExpectedHeaders, ", "))
		}
	}
	return nil
}
