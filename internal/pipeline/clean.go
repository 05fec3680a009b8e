package pipeline

import (
	"fmt"
	"strings"
	"time"

	"sales-data-pipeline/internal/model"
	"sales-data-pipeline/pkg/utils"
)

// saleDateFormat is the one date layout accepted throughout the pipeline.
const saleDateFormat = "2006-01-02"

// CleanStats reports the outcome of a cleaning pass.
type CleanStats struct {
	Valid   int `json:"valid"`
	Invalid int `json:"invalid"`
}

// CleanSalesRecords normalizes raw records into canonical sales records.
// Records that fail validation or coercion are dropped and counted, never
// returned as errors: one bad record must not abort the run. An all-invalid
// input yields an empty slice.
func CleanSalesRecords(raw []model.RawRecord) ([]model.SalesRecord, CleanStats) {
	fmt.Printf("🧹 Cleaning %d raw records\n", len(raw))

	cleaned := make([]model.SalesRecord, 0, len(raw))
	var stats CleanStats

	for _, rec := range raw {
		clean, ok := cleanRecord(rec)
		if !ok {
			stats.Invalid++
			continue
		}
		cleaned = append(cleaned, clean)
		stats.Valid++
	}

	fmt.Printf("🧹 Cleaning complete: %d valid, %d invalid\n", stats.Valid, stats.Invalid)
	return cleaned, stats
}

func cleanRecord(rec model.RawRecord) (model.SalesRecord, bool) {
	for _, field := range []string{"product_name", "sales_amount", "sale_date"} {
		if _, ok := rec[field]; !ok {
			return model.SalesRecord{}, false
		}
	}

	amount, ok := utils.CoerceFloat(rec["sales_amount"])
	if !ok || amount <= 0 {
		return model.SalesRecord{}, false
	}

	saleDate := utils.CoerceString(rec["sale_date"])
	if _, err := time.Parse(saleDateFormat, saleDate); err != nil {
		return model.SalesRecord{}, false
	}

	// Quantity defaults to 1 when absent and clamps to 1 when non-positive.
	// A present but uncoercible quantity rejects the record.
	quantity := 1
	if v, ok := rec["quantity"]; ok {
		q, ok := utils.CoerceInt(v)
		if !ok {
			return model.SalesRecord{}, false
		}
		if q > 0 {
			quantity = q
		}
	}

	region := "Unknown"
	if v, ok := rec["region"]; ok {
		region = utils.CoerceString(v)
	}

	customerID := ""
	if v, ok := rec["customer_id"]; ok {
		customerID = strings.TrimSpace(utils.CoerceString(v))
	}

	return model.SalesRecord{
		ProductName: utils.TitleCase(strings.TrimSpace(utils.CoerceString(rec["product_name"]))),
		SalesAmount: amount,
		SaleDate:    saleDate,
		Region:      utils.TitleCase(strings.TrimSpace(region)),
		CustomerID:  customerID,
		Quantity:    quantity,
	}, true
}
