package services

import (
	"context"
	stderrors "errors"
	"os"
	"path/filepath"
	"testing"

	"sales-dashboard/internal/errors"
	"sales-dashboard/internal/models"
)

const uploadHeader = "item_id,item_name,manufacturer_id,manufacturer_name,city_id,city_name,category,date,qty_sold,mrp"

func TestSales_Upload(t *testing.T) {
	csv := uploadHeader + "\n" +
		"1,P1,1,M1,1,CityA,Snacks,9/10/2025,50,500\n" +
		"2,P2,2,M2,2,CityB,Snacks,9/11/2025,30,300\n" +
		"3,P1,1,M1,1,CityA,Snacks,9/12/2025,20,200"

	s := NewSales(nil)
	count, err := s.Upload(context.Background(), []byte(csv), "sales.csv", "text/csv")
	if err != nil {
		t.Fatalf("Upload() error = %v", err)
	}
	if count != 3 {
		t.Errorf("Upload() count = %d, want 3", count)
	}
	if s.Count() != 3 {
		t.Errorf("store size = %d, want 3", s.Count())
	}

	m := s.Metrics(models.FilterSpec{})
	if m.TotalQuantity != 100 {
		t.Errorf("totalQuantity = %d, want 100", m.TotalQuantity)
	}
	if m.TopProduct != "P1" || m.TopProductQuantity != 70 {
		t.Errorf("topProduct = %q/%d, want P1/70", m.TopProduct, m.TopProductQuantity)
	}
}

func TestSales_UploadDropsMalformedRows(t *testing.T) {
	// 5 rows, one with 9 cells instead of 10
	csv := uploadHeader + "\n" +
		"1,P1,1,M1,1,CityA,Snacks,9/10/2025,1,10\n" +
		"2,P2,2,M2,2,CityB,Snacks,9/11/2025,2,20\n" +
		"3,P3,3,M3,3,CityC,Snacks,9/12/2025,3\n" +
		"4,P4,4,M4,4,CityD,Snacks,9/13/2025,4,40\n" +
		"5,P5,5,M5,5,CityE,Snacks,9/14/2025,5,50"

	s := NewSales(nil)
	count, err := s.Upload(context.Background(), []byte(csv), "sales.csv", "text/csv")
	if err != nil {
		t.Fatalf("Upload() error = %v", err)
	}
	if count != 4 {
		t.Errorf("count = %d, want 4 (one malformed row dropped)", count)
	}
	if s.Count() != 4 {
		t.Errorf("store size = %d, want 4", s.Count())
	}
}

func TestSales_UploadReplacesPriorDataset(t *testing.T) {
	first := uploadHeader + "\n" +
		"1,Old Product,1,M1,1,OldCity,Snacks,9/10/2025,1,10\n" +
		"2,Old Product,1,M1,1,OldCity,Snacks,9/11/2025,1,10"
	second := uploadHeader + "\n" +
		"3,New Product,2,M2,2,NewCity,Snacks,9/12/2025,1,10"

	s := NewSales(nil)
	if _, err := s.Upload(context.Background(), []byte(first), "a.csv", "text/csv"); err != nil {
		t.Fatal(err)
	}
	if _, err := s.Upload(context.Background(), []byte(second), "b.csv", "text/csv"); err != nil {
		t.Fatal(err)
	}

	if s.Count() != 1 {
		t.Fatalf("store size = %d, want 1 after replacing upload", s.Count())
	}

	opts := s.FilterOptions()
	for _, city := range opts.Cities {
		if city == "OldCity" {
			t.Error("prior dataset should be fully gone after a new upload")
		}
	}
}

func TestSales_UploadFailuresLeaveStoreUntouched(t *testing.T) {
	valid := uploadHeader + "\n1,P1,1,M1,1,CityA,Snacks,9/10/2025,1,10"

	tests := []struct {
		name     string
		data     string
		filename string
		wantCode errors.ErrorCode
	}{
		{
			name:     "too short",
			data:     uploadHeader,
			filename: "sales.csv",
			wantCode: errors.CodeDecode,
		},
		{
			name:     "wrong column count",
			data:     "a,b,c\n1,2,3",
			filename: "sales.csv",
			wantCode: errors.CodeDecode,
		},
		{
			name: "missing header tokens",
			data: "item_id,item_name,maker_id,maker,city_id,city_name,category,date,qty,price\n" +
				"1,P1,1,M1,1,CityA,Snacks,9/10/2025,1,10",
			filename: "sales.csv",
			wantCode: errors.CodeStructure,
		},
		{
			name:     "all rows malformed",
			data:     uploadHeader + "\n1,P1,1\n2,P2",
			filename: "sales.csv",
			wantCode: errors.CodeValidation,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := NewSales(nil)
			if _, err := s.Upload(context.Background(), []byte(valid), "seed.csv", "text/csv"); err != nil {
				t.Fatal(err)
			}

			_, err := s.Upload(context.Background(), []byte(tt.data), tt.filename, "text/csv")
			if err == nil {
				t.Fatal("Upload() should have failed")
			}

			var appErr *errors.AppError
			if !stderrors.As(err, &appErr) || appErr.Code != tt.wantCode {
				t.Errorf("error code = %v, want %s", err, tt.wantCode)
			}

			// Rejected uploads never mutate the store
			if s.Count() != 1 {
				t.Errorf("store size = %d, want 1 (prior dataset intact)", s.Count())
			}
		})
	}
}

func TestSales_Clear(t *testing.T) {
	csv := uploadHeader + "\n1,P1,1,M1,1,CityA,Snacks,9/10/2025,1,10"

	s := NewSales(nil)
	if _, err := s.Upload(context.Background(), []byte(csv), "sales.csv", "text/csv"); err != nil {
		t.Fatal(err)
	}

	s.Clear()
	if s.Count() != 0 {
		t.Errorf("store size = %d after Clear, want 0", s.Count())
	}

	// Clearing twice is equivalent to once
	s.Clear()
	if s.Count() != 0 {
		t.Errorf("store size = %d after second Clear, want 0", s.Count())
	}

	m := s.Metrics(models.FilterSpec{})
	if m.TotalQuantity != 0 || !m.TotalRevenue.IsZero() || m.TopProduct != "" {
		t.Errorf("empty store should yield zero metrics, got %+v", m)
	}

	opts := s.FilterOptions()
	if len(opts.Cities) != 0 || len(opts.Manufacturers) != 0 || len(opts.Categories) != 0 || len(opts.Products) != 0 {
		t.Errorf("empty store should yield empty filter options, got %+v", opts)
	}
}

func TestSales_LoadSeedFile(t *testing.T) {
	csv := uploadHeader + "\n1,P1,1,M1,1,CityA,Snacks,9/10/2025,1,10"
	path := filepath.Join(t.TempDir(), "seed.csv")
	if err := os.WriteFile(path, []byte(csv), 0o644); err != nil {
		t.Fatal(err)
	}

	s := NewSales(nil)
	if err := s.LoadSeedFile(context.Background(), path); err != nil {
		t.Fatalf("LoadSeedFile() error = %v", err)
	}
	if s.Count() != 1 {
		t.Errorf("store size = %d, want 1", s.Count())
	}

	if err := s.LoadSeedFile(context.Background(), filepath.Join(t.TempDir(), "missing.csv")); err == nil {
		t.Error("LoadSeedFile() should fail on a missing file")
	}
}

func TestSales_Stats(t *testing.T) {
	csv := uploadHeader + "\n" +
		"1,P1,1,M1,1,CityA,Snacks,9/10/2025,1,10\n" +
		"2,P2,2,M2,2,CityB,Drinks,9/11/2025,1,10"

	s := NewSales(nil)
	if _, err := s.Upload(context.Background(), []byte(csv), "sales.csv", "text/csv"); err != nil {
		t.Fatal(err)
	}

	stats := s.Stats()
	if stats["record_count"] != 2 {
		t.Errorf("record_count = %v, want 2", stats["record_count"])
	}
	if stats["cities"] != 2 || stats["categories"] != 2 {
		t.Errorf("stats = %v", stats)
	}
}
