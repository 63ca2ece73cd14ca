package ingest

import (
	"context"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"

	"sales-dashboard/internal/models"
)

const maxWorkers = 10

// NormalizeRow converts one raw row into a typed sales record. Column
// positions are fixed by the upload contract (0=item_id .. 9=mrp). Rows
// whose cell count does not match the header count are rejected; everything
// else normalizes, with numeric fields falling back to zero and string
// fields to empty on unparsable input. The record carries no identifier;
// the store assigns one on insert.
func NormalizeRow(headers, row []string) (models.SalesRecord, bool) {
	if len(row) != len(headers) {
		return models.SalesRecord{}, false
	}

	return models.SalesRecord{
		ItemID:           parseIntDefault(row[0]),
		ItemName:         strings.TrimSpace(row[1]),
		ManufacturerID:   parseIntDefault(row[2]),
		ManufacturerName: strings.TrimSpace(row[3]),
		CityID:           parseIntDefault(row[4]),
		CityName:         strings.TrimSpace(row[5]),
		Category:         strings.TrimSpace(row[6]),
		Date:             strings.TrimSpace(row[7]),
		QtySold:          parseIntDefault(row[8]),
		MRP:              parseDecimalDefault(row[9]),
	}, true
}

// NormalizeRows fans row normalization out over a bounded worker pool,
// preserving input order. Malformed rows are dropped, never partially
// stored; the dropped count is reported so the caller can log it.
func NormalizeRows(ctx context.Context, headers []string, rows [][]string) ([]models.SalesRecord, int, error) {
	results := make([]*models.SalesRecord, len(rows))

	var g errgroup.Group
	g.SetLimit(maxWorkers)

	for i, row := range rows {
		g.Go(func() error {
			select {
			case <-ctx.Done():
				return ctx.Err()
			default:
			}

			if rec, ok := NormalizeRow(headers, row); ok {
				results[i] = &rec
			}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, 0, err
	}

	records := make([]models.SalesRecord, 0, len(rows))
	for _, rec := range results {
		if rec != nil {
			records = append(records, *rec)
		}
	}

	return records, len(rows) - len(records), nil
}

// parseIntDefault is a best-effort integer parse: plain integers first, then
// truncated decimals, then zero.
func parseIntDefault(s string) int {
	s = strings.TrimSpace(s)
	if v, err := strconv.Atoi(s); err == nil {
		return v
	}
	if f, err := strconv.ParseFloat(s, 64); err == nil {
		return int(f)
	}
	return 0
}

// parseDecimalDefault parses the money field into an exact decimal,
// defaulting to zero so a bad cell never aborts the row.
func parseDecimalDefault(s string) decimal.Decimal {
	d, err := decimal.NewFromString(strings.TrimSpace(s))
	if err != nil {
		return decimal.Zero
	}
	return d
}
