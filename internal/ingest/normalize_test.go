package ingest

import (
	"context"
	"strings"
	"testing"

	"github.com/shopspring/decimal"
)

var testHeaders = strings.Split(salesHeader, ",")

func TestNormalizeRow(t *testing.T) {
	row := []string{"10167070", "Tabasco Chips", "66", "Indo Nissin", "334", "Bhavnagar", "Organic & Premium", "9/10/2025", "1", "99"}

	rec, ok := NormalizeRow(testHeaders, row)
	if !ok {
		t.Fatal("NormalizeRow() rejected a valid row")
	}

	if rec.ItemID != 10167070 {
		t.Errorf("ItemID = %d, want 10167070", rec.ItemID)
	}
	if rec.ItemName != "Tabasco Chips" {
		t.Errorf("ItemName = %q", rec.ItemName)
	}
	if rec.ManufacturerID != 66 || rec.ManufacturerName != "Indo Nissin" {
		t.Errorf("manufacturer = %d/%q", rec.ManufacturerID, rec.ManufacturerName)
	}
	if rec.CityID != 334 || rec.CityName != "Bhavnagar" {
		t.Errorf("city = %d/%q", rec.CityID, rec.CityName)
	}
	if rec.Category != "Organic & Premium" {
		t.Errorf("Category = %q", rec.Category)
	}
	if rec.Date != "9/10/2025" {
		t.Errorf("Date = %q, should stay in source format", rec.Date)
	}
	if rec.QtySold != 1 {
		t.Errorf("QtySold = %d, want 1", rec.QtySold)
	}
	if !rec.MRP.Equal(decimal.NewFromInt(99)) {
		t.Errorf("MRP = %s, want 99", rec.MRP)
	}
	if rec.ID != "" {
		t.Error("normalizer must not assign identifiers")
	}
}

func TestNormalizeRow_CellCountMismatch(t *testing.T) {
	row := []string{"1", "Chips", "2", "Acme", "3", "Pune", "Snacks", "2025-09-10", "1"} // 9 cells

	if _, ok := NormalizeRow(testHeaders, row); ok {
		t.Error("NormalizeRow() should reject a row with 9 cells against 10 headers")
	}
}

func TestNormalizeRow_CoercionDefaults(t *testing.T) {
	row := []string{"not-a-number", "", "x", "", "", "", "", "", "bad", "bad"}

	rec, ok := NormalizeRow(testHeaders, row)
	if !ok {
		t.Fatal("NormalizeRow() should accept a row with unparsable cells")
	}

	if rec.ItemID != 0 || rec.ManufacturerID != 0 || rec.CityID != 0 || rec.QtySold != 0 {
		t.Errorf("numeric fields should default to 0, got %d/%d/%d/%d",
			rec.ItemID, rec.ManufacturerID, rec.CityID, rec.QtySold)
	}
	if !rec.MRP.IsZero() {
		t.Errorf("MRP should default to 0, got %s", rec.MRP)
	}
	if rec.ItemName != "" || rec.CityName != "" {
		t.Error("string fields should default to empty")
	}
}

func TestNormalizeRow_TruncatesDecimalsForIntFields(t *testing.T) {
	row := []string{"12.9", "Chips", "3.5", "Acme", "4.2", "Pune", "Snacks", "2025-09-10", "2.7", "10.50"}

	rec, ok := NormalizeRow(testHeaders, row)
	if !ok {
		t.Fatal("NormalizeRow() rejected row")
	}
	if rec.ItemID != 12 || rec.ManufacturerID != 3 || rec.CityID != 4 || rec.QtySold != 2 {
		t.Errorf("decimal int cells should truncate, got %d/%d/%d/%d",
			rec.ItemID, rec.ManufacturerID, rec.CityID, rec.QtySold)
	}
	if !rec.MRP.Equal(decimal.RequireFromString("10.50")) {
		t.Errorf("MRP = %s, want 10.50", rec.MRP)
	}
}

func TestNormalizeRows(t *testing.T) {
	rows := [][]string{
		{"1", "P1", "1", "M1", "1", "CityA", "Snacks", "2025-09-10", "50", "120.00"},
		{"2", "P2", "2", "M2", "2", "CityB", "Snacks", "2025-09-11", "30", "80.00"},
		{"3", "P3", "3", "M3", "3", "CityC", "Snacks", "2025-09-12", "20"}, // malformed, 9 cells
		{"4", "P4", "4", "M4", "4", "CityD", "Snacks", "2025-09-13", "10", "40.00"},
	}

	records, dropped, err := NormalizeRows(context.Background(), testHeaders, rows)
	if err != nil {
		t.Fatalf("NormalizeRows() error = %v", err)
	}

	if dropped != 1 {
		t.Errorf("dropped = %d, want 1", dropped)
	}
	if len(records) != 3 {
		t.Fatalf("got %d records, want 3", len(records))
	}

	// Input order survives the worker pool
	wantNames := []string{"P1", "P2", "P4"}
	for i, want := range wantNames {
		if records[i].ItemName != want {
			t.Errorf("records[%d].ItemName = %q, want %q", i, records[i].ItemName, want)
		}
	}
}

func TestNormalizeRows_Cancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	rows := make([][]string, 100)
	for i := range rows {
		rows[i] = []string{"1", "P", "1", "M", "1", "C", "S", "2025-09-10", "1", "1"}
	}

	if _, _, err := NormalizeRows(ctx, testHeaders, rows); err == nil {
		t.Error("NormalizeRows() should propagate context cancellation")
	}
}

func TestParseIntDefault(t *testing.T) {
	tests := []struct {
		in   string
		want int
	}{
		{"42", 42},
		{" 42 ", 42},
		{"-7", -7},
		{"3.9", 3},
		{"", 0},
		{"abc", 0},
	}

	for _, tt := range tests {
		if got := parseIntDefault(tt.in); got != tt.want {
			t.Errorf("parseIntDefault(%q) = %d, want %d", tt.in, got, tt.want)
		}
	}
}
