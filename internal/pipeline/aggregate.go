package pipeline

import (
	"fmt"
	"sort"

	"sales-data-pipeline/internal/model"
)

// AggregateSalesByRegion groups enriched records by their exact region
// string and computes per-region sums, counts and averages. Result order is
// first-encounter order of the regions. Empty input yields an empty slice.
func AggregateSalesByRegion(records []model.EnrichedRecord) []model.RegionAggregate {
	fmt.Printf("📊 Aggregating %d records by region\n", len(records))

	groups := make(map[string]*model.RegionAggregate)
	var order []string

	for _, rec := range records {
		agg, ok := groups[rec.Region]
		if !ok {
			agg = &model.RegionAggregate{Region: rec.Region}
			groups[rec.Region] = agg
			order = append(order, rec.Region)
		}
		agg.TotalSales++
		agg.TotalRevenue += rec.SalesAmount
		agg.TotalQuantity += rec.Quantity
		// ProductCount counts records, not distinct products.
		agg.ProductCount++
	}

	results := make([]model.RegionAggregate, 0, len(groups))
	for _, region := range order {
		agg := groups[region]
		// A group always holds at least one record, but never divide by zero.
		if agg.TotalSales > 0 {
			agg.AvgSaleAmount = agg.TotalRevenue / float64(agg.TotalSales)
			agg.AvgQuantity = float64(agg.TotalQuantity) / float64(agg.TotalSales)
		}
		results = append(results, *agg)
	}

	fmt.Printf("📊 Created aggregates for %d regions\n", len(results))
	return results
}

// AggregateSalesByProduct groups enriched records by product name. Unlike
// the region aggregate, RegionCount here is a true distinct-region count
// per product. The result is sorted by total revenue descending; ties keep
// first-encounter order. Empty input yields an empty slice.
func AggregateSalesByProduct(records []model.EnrichedRecord) []model.ProductAggregate {
	fmt.Printf("📊 Aggregating %d records by product\n", len(records))

	type productGroup struct {
		agg     model.ProductAggregate
		regions map[string]struct{}
	}

	groups := make(map[string]*productGroup)
	var order []string

	for _, rec := range records {
		g, ok := groups[rec.ProductName]
		if !ok {
			g = &productGroup{
				agg:     model.ProductAggregate{ProductName: rec.ProductName},
				regions: make(map[string]struct{}),
			}
			groups[rec.ProductName] = g
			order = append(order, rec.ProductName)
		}
		g.agg.TotalSales++
		g.agg.TotalRevenue += rec.SalesAmount
		g.agg.TotalQuantity += rec.Quantity
		g.regions[rec.Region] = struct{}{}
	}

	results := make([]model.ProductAggregate, 0, len(groups))
	for _, product := range order {
		g := groups[product]
		g.agg.RegionCount = len(g.regions)
		if g.agg.TotalSales > 0 {
			g.agg.AvgSaleAmount = g.agg.TotalRevenue / float64(g.agg.TotalSales)
			g.agg.AvgQuantity = float64(g.agg.TotalQuantity) / float64(g.agg.TotalSales)
		}
		results = append(results, g.agg)
	}

	sort.SliceStable(results, func(i, j int) bool {
		return results[i].TotalRevenue > results[j].TotalRevenue
	})

	fmt.Printf("📊 Created aggregates for %d products\n", len(results))
	return results
}
