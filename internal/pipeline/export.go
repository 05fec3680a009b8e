package pipeline

import (
	"encoding/csv"
	"fmt"
	"os"
	"strconv"

	"sales-data-pipeline/internal/model"
	"sales-data-pipeline/pkg/utils"
)

// ExportAggregates writes the computed aggregates as CSV files into the
// run's output directory and returns the written file paths.
func ExportAggregates(om *utils.OutputManager, runID string, regions []model.RegionAggregate, products []model.ProductAggregate) ([]string, error) {
	regionPath, err := om.GetOutputFilePath(runID, "region_aggregates.csv")
	if err != nil {
		return nil, err
	}
	if err := writeRegionCSV(regionPath, regions); err != nil {
		return nil, err
	}

	productPath, err := om.GetOutputFilePath(runID, "product_aggregates.csv")
	if err != nil {
		return nil, err
	}
	if err := writeProductCSV(productPath, products); err != nil {
		return []string{regionPath}, err
	}

	fmt.Printf("💾 Exported aggregates for run %s\n", runID)
	return []string{regionPath, productPath}, nil
}

func writeRegionCSV(path string, aggregates []model.RegionAggregate) error {
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create file: %w", err)
	}
	defer file.Close()

	writer := csv.NewWriter(file)
	defer writer.Flush()

	header := []string{"region", "total_sales", "total_revenue", "total_quantity",
		"product_count", "avg_sale_amount", "avg_quantity"}
	if err := writer.Write(header); err != nil {
		return fmt.Errorf("failed to write header: %w", err)
	}

	for _, agg := range aggregates {
		row := []string{
			agg.Region,
			strconv.Itoa(agg.TotalSales),
			formatFloat(agg.TotalRevenue),
			strconv.Itoa(agg.TotalQuantity),
			strconv.Itoa(agg.ProductCount),
			formatFloat(agg.AvgSaleAmount),
			formatFloat(agg.AvgQuantity),
		}
		if err := writer.Write(row); err != nil {
			return fmt.Errorf("failed to write row: %w", err)
		}
	}
	return nil
}

func writeProductCSV(path string, aggregates []model.ProductAggregate) error {
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create file: %w", err)
	}
	defer file.Close()

	writer := csv.NewWriter(file)
	defer writer.Flush()

	header := []string{"product_name", "total_sales", "total_revenue", "total_quantity",
		"region_count", "avg_sale_amount", "avg_quantity"}
	if err := writer.Write(header); err != nil {
		return fmt.Errorf("failed to write header: %w", err)
	}

	for _, agg := range aggregates {
		row := []string{
			agg.ProductName,
			strconv.Itoa(agg.TotalSales),
			formatFloat(agg.TotalRevenue),
			strconv.Itoa(agg.TotalQuantity),
			strconv.Itoa(agg.RegionCount),
			formatFloat(agg.AvgSaleAmount),
			formatFloat(agg.AvgQuantity),
		}
		if err := writer.Write(row); err != nil {
			return fmt.Errorf("failed to write row: %w", err)
		}
	}
	return nil
}

func formatFloat(f float64) string {
	return strconv.FormatFloat(f, 'f', 2, 64)
}
