package services

import (
	"strings"
	"time"

	"sales-dashboard/internal/models"
)

// Layouts accepted when re-parsing record and filter dates. Exports commonly
// carry M/D/YYYY dates (e.g. 9/10/2025) alongside ISO ones.
var dateLayouts = []string{
	"2006-01-02",
	"1/2/2006",
	"2006/01/02",
}

func parseDate(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, false
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// endOfDay pushes a parsed day boundary to 23:59:59.999 so an inclusive
// dateTo bound covers the entire end day.
func endOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 23, 59, 59, int(999*time.Millisecond), t.Location())
}

// maxDate returns the latest parseable date in the record set, which anchors
// the last7/last30 windows instead of wall-clock time.
func maxDate(records []models.SalesRecord) (time.Time, bool) {
	var max time.Time
	found := false
	for _, r := range records {
		if t, ok := parseDate(r.Date); ok {
			if !found || t.After(max) {
				max = t
				found = true
			}
		}
	}
	return max, found
}

// ApplyFilters returns the order-preserving subset of records matching every
// set criterion. Absent fields mean the predicate is not applied; unparsable
// filter values degrade to "not applied", while records with unparsable
// dates are excluded whenever a date predicate is active.
func ApplyFilters(records []models.SalesRecord, f models.FilterSpec) []models.SalesRecord {
	data := records

	if f.DateRange != "" && f.DateRange != models.DateRangeAll {
		switch f.DateRange {
		case models.DateRangeLast7, models.DateRangeLast30:
			days := 7
			if f.DateRange == models.DateRangeLast30 {
				days = 30
			}
			to, ok := maxDate(data)
			if !ok {
				to = time.Now()
			}
			from := to.AddDate(0, 0, -(days - 1))
			data = filterDateWindow(data, from, to)
		case models.DateRangeCustom:
			from, okFrom := parseDate(f.DateFrom)
			to, okTo := parseDate(f.DateTo)
			if okFrom && okTo {
				data = filterDateWindow(data, from, endOfDay(to))
			}
		}
	}

	// Explicit dateFrom/dateTo are honored even without dateRange=custom,
	// open-ended on whichever bound is missing. Both windows can stack.
	if f.DateFrom != "" || f.DateTo != "" {
		hasFrom := false
		hasTo := false
		var from, to time.Time
		if t, ok := parseDate(f.DateFrom); ok {
			from, hasFrom = t, true
		}
		if t, ok := parseDate(f.DateTo); ok {
			to, hasTo = endOfDay(t), true
		}
		data = filterFunc(data, func(r models.SalesRecord) bool {
			t, ok := parseDate(r.Date)
			if !ok {
				return false
			}
			if hasFrom && t.Before(from) {
				return false
			}
			if hasTo && t.After(to) {
				return false
			}
			return true
		})
	}

	if f.City != "" && f.City != models.AllCities {
		data = filterFunc(data, func(r models.SalesRecord) bool {
			return r.CityName == f.City
		})
	}

	if f.Manufacturer != "" && f.Manufacturer != models.AllManufacturers {
		data = filterFunc(data, func(r models.SalesRecord) bool {
			return r.ManufacturerName == f.Manufacturer
		})
	}

	if f.Category != "" && f.Category != models.AllCategories {
		data = filterFunc(data, func(r models.SalesRecord) bool {
			return r.Category == f.Category
		})
	}

	if f.Product != "" && f.Product != models.AllProducts {
		data = filterFunc(data, func(r models.SalesRecord) bool {
			return strings.Contains(r.ItemName, f.Product)
		})
	}

	if f.Search != "" {
		needle := strings.ToLower(f.Search)
		data = filterFunc(data, func(r models.SalesRecord) bool {
			return strings.Contains(strings.ToLower(r.ItemName), needle) ||
				strings.Contains(strings.ToLower(r.CityName), needle) ||
				strings.Contains(strings.ToLower(r.ManufacturerName), needle) ||
				strings.Contains(strings.ToLower(r.Category), needle)
		})
	}

	return data
}

func filterDateWindow(records []models.SalesRecord, from, to time.Time) []models.SalesRecord {
	return filterFunc(records, func(r models.SalesRecord) bool {
		t, ok := parseDate(r.Date)
		return ok && !t.Before(from) && !t.After(to)
	})
}

func filterFunc(records []models.SalesRecord, keep func(models.SalesRecord) bool) []models.SalesRecord {
	out := make([]models.SalesRecord, 0, len(records))
	for _, r := range records {
		if keep(r) {
			out = append(out, r)
		}
	}
	return out
}
