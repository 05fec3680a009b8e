package pipeline

import (
	"fmt"
	"time"

	"sales-data-pipeline/internal/model"
)

// unknownMarker fills derived date fields when a sale date cannot be parsed.
const unknownMarker = "unknown"

// EnrichSalesRecords derives reporting fields from cleaned records: total
// value, sale month, year and quarter. The function is total — every input
// record yields exactly one output record — and does not mutate its input.
func EnrichSalesRecords(records []model.SalesRecord) []model.EnrichedRecord {
	fmt.Printf("✨ Enriching %d records\n", len(records))

	enriched := make([]model.EnrichedRecord, 0, len(records))
	for _, rec := range records {
		e := model.EnrichedRecord{
			SalesRecord: rec,
			TotalValue:  rec.SalesAmount * float64(rec.Quantity),
		}

		// Cleaning guarantees a parsable date; fall back instead of
		// failing so the stage stays total when reused on raw input.
		if d, err := time.Parse(saleDateFormat, rec.SaleDate); err == nil {
			e.SaleMonth = d.Format("2006-01")
			e.SaleYear = d.Year()
			e.SaleQuarter = fmt.Sprintf("Q%d", (int(d.Month())-1)/3+1)
		} else {
			e.SaleMonth = unknownMarker
			e.SaleYear = 0
			e.SaleQuarter = unknownMarker
		}

		enriched = append(enriched, e)
	}

	fmt.Printf("✨ Enrichment complete: %d records\n", len(enriched))
	return enriched
}
