package pipeline

import (
	"errors"
	"fmt"

	"sales-data-pipeline/internal/model"
)

// Post-load invariant violations. ValidateSummary returns the first one
// that holds; a failed validation is terminal for the run.
var (
	ErrNoSalesRecords = errors.New("no sales records found in database")
	ErrNoRevenue      = errors.New("total revenue should be positive")
	ErrNoRegions      = errors.New("no regional data found")
	ErrNoProducts     = errors.New("no product data found")
)

// ValidateSummary checks the persisted summary against the pipeline's
// acceptance invariants. It short-circuits on the first violation.
func ValidateSummary(summary model.PipelineSummary) error {
	fmt.Println("🔍 Validating loaded data")

	if summary.SalesRecords == 0 {
		return ErrNoSalesRecords
	}
	if summary.TotalRevenue <= 0 {
		return ErrNoRevenue
	}
	if summary.Regions == 0 {
		return ErrNoRegions
	}
	if summary.Products == 0 {
		return ErrNoProducts
	}

	fmt.Println("✅ Data validation passed")
	return nil
}
