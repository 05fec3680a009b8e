package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/google/uuid"

	"sales-data-pipeline/internal/model"
	"sales-data-pipeline/internal/pipeline"
	"sales-data-pipeline/internal/store"
)

func main() {
	dbPath := flag.String("db", "pipeline.db", "path to the SQLite database file")
	source := flag.String("source", "sample", "data source type (sample, json, csv)")
	url := flag.String("url", "", "source URL or file path for json/csv sources")
	records := flag.Int("records", 100, "number of records for the sample source")
	exportDir := flag.String("export", "", "directory for CSV aggregate exports (empty disables export)")
	regionDelete := flag.Bool("region-delete", false, "delete existing region aggregates before loading")
	productDelete := flag.Bool("product-delete", true, "delete existing product aggregates before loading")
	flag.Parse()

	st, err := store.Open(*dbPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "❌ Failed to open database: %v\n", err)
		os.Exit(1)
	}
	defer st.Close()

	spec := model.RunSpec{
		Source: model.Source{
			Type:        *source,
			URL:         *url,
			RecordCount: *records,
		},
		ConfirmRegionDelete:  *regionDelete,
		ConfirmProductDelete: productDelete,
		ExportDir:            *exportDir,
	}

	runID := uuid.New().String()
	if err := st.SaveRun(runID, spec); err != nil {
		fmt.Fprintf(os.Stderr, "❌ Failed to save run: %v\n", err)
		os.Exit(1)
	}

	summary, err := pipeline.Run(context.Background(), runID, spec, st)
	if err != nil {
		fmt.Fprintf(os.Stderr, "❌ Pipeline failed: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("📊 Summary: %d sales records, %d regions, %d products, %.2f total revenue\n",
		summary.SalesRecords, summary.Regions, summary.Products, summary.TotalRevenue)
}
