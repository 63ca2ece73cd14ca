package services

import (
	"github.com/shopspring/decimal"

	"sales-dashboard/internal/models"
)

// ComputeMetrics derives summary metrics over a record subset. Revenue sums
// use exact decimal arithmetic. Top-product and top-city ties go to the
// entry appearing first in the input sequence, so results are deterministic
// for a given upload.
func ComputeMetrics(records []models.SalesRecord) models.Metrics {
	if len(records) == 0 {
		return models.Metrics{}
	}

	totalRevenue := decimal.Zero
	totalQuantity := 0

	productQty := make(map[string]int)
	var productOrder []string
	cityRevenue := make(map[string]decimal.Decimal)
	var cityOrder []string

	for _, r := range records {
		totalRevenue = totalRevenue.Add(r.MRP)
		totalQuantity += r.QtySold

		if _, seen := productQty[r.ItemName]; !seen {
			productOrder = append(productOrder, r.ItemName)
		}
		productQty[r.ItemName] += r.QtySold

		if _, seen := cityRevenue[r.CityName]; !seen {
			cityOrder = append(cityOrder, r.CityName)
		}
		cityRevenue[r.CityName] = cityRevenue[r.CityName].Add(r.MRP)
	}

	var topProduct string
	topProductQty := 0
	for _, name := range productOrder {
		if qty := productQty[name]; qty > topProductQty {
			topProduct = name
			topProductQty = qty
		}
	}

	var topCity string
	topCityRevenue := decimal.Zero
	for _, name := range cityOrder {
		if rev := cityRevenue[name]; rev.GreaterThan(topCityRevenue) {
			topCity = name
			topCityRevenue = rev
		}
	}

	return models.Metrics{
		TotalRevenue:       totalRevenue,
		TotalQuantity:      totalQuantity,
		TopProduct:         topProduct,
		TopProductQuantity: topProductQty,
		TopCity:            topCity,
		TopCityRevenue:     topCityRevenue,
	}
}

// DistinctValues collects unique values of one categorical field in order of
// first appearance.
func DistinctValues(records []models.SalesRecord, field func(models.SalesRecord) string) []string {
	seen := make(map[string]struct{})
	values := make([]string, 0)
	for _, r := range records {
		v := field(r)
		if _, ok := seen[v]; ok {
			continue
		}
		seen[v] = struct{}{}
		values = append(values, v)
	}
	return values
}
