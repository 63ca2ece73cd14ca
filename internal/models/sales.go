package models

import "github.com/shopspring/decimal"

// SalesRecord is one normalized row of a sales export. The date stays in its
// source string format and is re-parsed at query time; MRP is kept as an exact
// decimal so summing thousands of rows never accumulates float drift.
type SalesRecord struct {
	ID               string          `json:"id"`
	ItemID           int             `json:"item_id"`
	ItemName         string          `json:"item_name"`
	ManufacturerID   int             `json:"manufacturer_id"`
	ManufacturerName string          `json:"manufacturer_name"`
	CityID           int             `json:"city_id"`
	CityName         string          `json:"city_name"`
	Category         string          `json:"category"`
	Date             string          `json:"date"`
	QtySold          int             `json:"qty_sold"`
	MRP              decimal.Decimal `json:"mrp"`
}

// Date range presets accepted in FilterSpec.DateRange.
const (
	DateRangeAll    = "all"
	DateRangeLast7  = "last7"
	DateRangeLast30 = "last30"
	DateRangeCustom = "custom"
)

// Sentinel values the dashboard sends when a dropdown is left on "All ...".
const (
	AllCities        = "All Cities"
	AllManufacturers = "All Manufacturers"
	AllCategories    = "All Categories"
	AllProducts      = "All Products"
)

// FilterSpec is the set of optional query criteria narrowing a dataset view.
// Zero value means no filtering.
type FilterSpec struct {
	DateRange    string `json:"dateRange,omitempty"`
	DateFrom     string `json:"dateFrom,omitempty"`
	DateTo       string `json:"dateTo,omitempty"`
	City         string `json:"city,omitempty"`
	Manufacturer string `json:"manufacturer,omitempty"`
	Category     string `json:"category,omitempty"`
	Product      string `json:"product,omitempty"`
	Search       string `json:"search,omitempty"`
}

// IsZero reports whether no criteria are set.
func (f FilterSpec) IsZero() bool {
	return f == FilterSpec{}
}

type Metrics struct {
	TotalRevenue       decimal.Decimal `json:"totalRevenue"`
	TotalQuantity      int             `json:"totalQuantity"`
	TopProduct         string          `json:"topProduct"`
	TopProductQuantity int             `json:"topProductQuantity"`
	TopCity            string          `json:"topCity"`
	TopCityRevenue     decimal.Decimal `json:"topCityRevenue"`
}

type FilterOptions struct {
	Cities        []string `json:"cities"`
	Manufacturers []string `json:"manufacturers"`
	Categories    []string `json:"categories"`
	Products      []string `json:"products"`
}
