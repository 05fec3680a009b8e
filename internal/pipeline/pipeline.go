package pipeline

import (
	"context"
	"fmt"
	"time"

	"sales-data-pipeline/internal/model"
	"sales-data-pipeline/internal/store"
	"sales-data-pipeline/pkg/utils"
)

// Run executes one pipeline run end to end: extract, clean, enrich,
// aggregate, load, validate. Stages run strictly in sequence; each consumes
// the full output of the previous one. Everything up to the load stage
// recovers from bad records locally; the load and validation stages are
// fail-fast and their errors abort the run.
func Run(ctx context.Context, runID string, spec model.RunSpec, st *store.Store) (summary model.PipelineSummary, err error) {
	start := time.Now()
	fmt.Printf("🚀 Starting pipeline run: %s\n", runID)

	st.UpdateRunStatus(runID, "running")
	defer func() {
		if err != nil {
			st.UpdateRunStatus(runID, "failed")
			st.SaveRunError(runID, err)
		}
	}()

	// --- EXTRACT ---
	stageStart := time.Now()
	st.UpdateRunStatus(runID, "extracting")
	raw, err := extract(ctx, spec.Source)
	if err != nil {
		failStage(st, runID, "extract", stageStart, err)
		return summary, fmt.Errorf("extract stage: %w", err)
	}
	endStage(st, runID, "extract", stageStart, len(raw))
	st.SaveRunLog(runID, "extract", "info", fmt.Sprintf("Extracted %d raw records", len(raw)))

	// --- CLEAN ---
	stageStart = time.Now()
	st.UpdateRunStatus(runID, "cleaning")
	cleaned, stats := CleanSalesRecords(raw)
	endStage(st, runID, "clean", stageStart, len(cleaned))
	st.SaveRunLog(runID, "clean", "info",
		fmt.Sprintf("Cleaned data: %d valid, %d invalid", stats.Valid, stats.Invalid))

	// --- ENRICH ---
	stageStart = time.Now()
	st.UpdateRunStatus(runID, "enriching")
	enriched := EnrichSalesRecords(cleaned)
	endStage(st, runID, "enrich", stageStart, len(enriched))

	// --- AGGREGATE ---
	stageStart = time.Now()
	st.UpdateRunStatus(runID, "aggregating")
	regionAggs := AggregateSalesByRegion(enriched)
	productAggs := AggregateSalesByProduct(enriched)
	endStage(st, runID, "aggregate", stageStart, len(regionAggs)+len(productAggs))
	st.SaveRunLog(runID, "aggregate", "info",
		fmt.Sprintf("Created %d regional and %d product aggregates", len(regionAggs), len(productAggs)))

	// --- LOAD ---
	stageStart = time.Now()
	st.UpdateRunStatus(runID, "loading")
	loader := NewLoader(st)

	if err = loader.CreateTables(); err != nil {
		failStage(st, runID, "load", stageStart, err)
		return summary, fmt.Errorf("load stage: %w", err)
	}

	salesLoaded, err := loader.LoadSalesData(enriched)
	if err != nil {
		failStage(st, runID, "load", stageStart, err)
		return summary, fmt.Errorf("load stage: %w", err)
	}

	if _, err = loader.LoadRegionAggregates(regionAggs, spec.ConfirmRegionDelete); err != nil {
		failStage(st, runID, "load", stageStart, err)
		return summary, fmt.Errorf("load stage: %w", err)
	}

	if _, err = loader.LoadProductAggregates(productAggs, spec.ProductDeleteConfirmed()); err != nil {
		failStage(st, runID, "load", stageStart, err)
		return summary, fmt.Errorf("load stage: %w", err)
	}

	summary, err = loader.GetDataSummary()
	if err != nil {
		failStage(st, runID, "load", stageStart, err)
		return summary, fmt.Errorf("load stage: %w", err)
	}
	endStage(st, runID, "load", stageStart, salesLoaded)

	// --- VALIDATE ---
	stageStart = time.Now()
	st.UpdateRunStatus(runID, "validating")
	if err = ValidateSummary(summary); err != nil {
		failStage(st, runID, "validate", stageStart, err)
		return summary, fmt.Errorf("validate stage: %w", err)
	}
	endStage(st, runID, "validate", stageStart, summary.SalesRecords)

	// --- EXPORT (optional) ---
	if spec.ExportDir != "" {
		om := utils.NewOutputManager(spec.ExportDir)
		paths, exportErr := ExportAggregates(om, runID, regionAggs, productAggs)
		if exportErr != nil {
			// Export is a convenience output; a failure is logged but does
			// not fail an otherwise valid run.
			st.SaveRunLog(runID, "export", "warning", exportErr.Error())
		} else {
			st.SaveRunLog(runID, "export", "info", fmt.Sprintf("Wrote %d aggregate files", len(paths)))
		}
	}

	st.UpdateRunStatus(runID, "completed")
	st.SaveRunLog(runID, "pipeline", "info",
		fmt.Sprintf("Run completed: %d sales records, %d regions, %d products, %.2f revenue",
			summary.SalesRecords, summary.Regions, summary.Products, summary.TotalRevenue))

	fmt.Printf("🏁 Pipeline run %s completed in %v\n", runID, time.Since(start))
	return summary, nil
}

func extract(ctx context.Context, source model.Source) ([]model.RawRecord, error) {
	switch source.Type {
	case "", "sample":
		n := source.RecordCount
		if n == 0 {
			n = 100 // default
		}
		return ExtractSampleSalesData(n), nil
	case "json", "api":
		return ExtractFromJSON(ctx, source.URL)
	case "csv":
		return ExtractFromCSV(source.URL)
	default:
		return nil, fmt.Errorf("unknown source type: %s", source.Type)
	}
}

func endStage(st *store.Store, runID, stage string, started time.Time, records int) {
	ended := time.Now()
	st.SaveStageProgress(runID, stage, "completed", started, &ended, records)
}

func failStage(st *store.Store, runID, stage string, started time.Time, stageErr error) {
	ended := time.Now()
	st.SaveStageProgress(runID, stage, "failed", started, &ended, 0)
	st.SaveRunLog(runID, stage, "error", stageErr.Error())
}
