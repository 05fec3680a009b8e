package pipeline

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"sales-data-pipeline/internal/model"
	"sales-data-pipeline/internal/store"
)

func openRunStore(t *testing.T) *store.Store {
	t.Helper()
	st, err := store.Open(filepath.Join(t.TempDir(), "pipeline.db"))
	require.NoError(t, err)
	t.Cleanup(func() { st.Close() })
	return st
}

func TestRunEndToEnd(t *testing.T) {
	st := openRunStore(t)

	spec := model.RunSpec{Source: model.Source{Type: "sample", RecordCount: 100}}
	require.NoError(t, st.SaveRun("run-1", spec))

	summary, err := Run(context.Background(), "run-1", spec, st)
	require.NoError(t, err)

	assert.Equal(t, 100, summary.SalesRecords)
	assert.Greater(t, summary.TotalRevenue, 0.0)
	assert.Greater(t, summary.Regions, 0)
	assert.LessOrEqual(t, summary.Regions, len(sampleRegions))
	assert.Greater(t, summary.Products, 0)
	assert.LessOrEqual(t, summary.Products, len(sampleProducts))

	// Revenue in the summary matches the persisted rows.
	loader := NewLoader(st)
	persisted, err := loader.GetDataSummary()
	require.NoError(t, err)
	assert.InDelta(t, persisted.TotalRevenue, summary.TotalRevenue, 1e-6)

	run, err := st.GetRun("run-1")
	require.NoError(t, err)
	assert.Equal(t, "completed", run["status"])

	progress, err := st.GetRunProgress("run-1")
	require.NoError(t, err)
	stages := make([]string, 0, len(progress))
	for _, p := range progress {
		stages = append(stages, p["stage"].(string))
	}
	assert.Equal(t, []string{"extract", "clean", "enrich", "aggregate", "load", "validate"}, stages)
}

func TestRunTwiceNeedsRegionDeleteConfirmation(t *testing.T) {
	st := openRunStore(t)

	spec := model.RunSpec{Source: model.Source{Type: "sample", RecordCount: 50}}
	require.NoError(t, st.SaveRun("run-1", spec))
	_, err := Run(context.Background(), "run-1", spec, st)
	require.NoError(t, err)

	// A second unconfirmed run collides with the existing region rows.
	require.NoError(t, st.SaveRun("run-2", spec))
	_, err = Run(context.Background(), "run-2", spec, st)
	require.Error(t, err)

	run, err := st.GetRun("run-2")
	require.NoError(t, err)
	assert.Equal(t, "failed", run["status"])

	runErrors, err := st.GetRunErrors("run-2")
	require.NoError(t, err)
	assert.NotEmpty(t, runErrors)

	// Confirming the region delete lets the rerun go through.
	confirmed := spec
	confirmed.ConfirmRegionDelete = true
	require.NoError(t, st.SaveRun("run-3", confirmed))
	summary, err := Run(context.Background(), "run-3", confirmed, st)
	require.NoError(t, err)
	assert.Greater(t, summary.Regions, 0)
}

func TestRunFailsWithoutProductDeleteConfirmation(t *testing.T) {
	st := openRunStore(t)

	confirm := false
	spec := model.RunSpec{
		Source:               model.Source{Type: "sample", RecordCount: 20},
		ConfirmProductDelete: &confirm,
	}
	require.NoError(t, st.SaveRun("run-1", spec))

	_, err := Run(context.Background(), "run-1", spec, st)
	require.ErrorIs(t, err, ErrDeleteNotConfirmed)

	run, err := st.GetRun("run-1")
	require.NoError(t, err)
	assert.Equal(t, "failed", run["status"])
}

func TestRunUnknownSourceFails(t *testing.T) {
	st := openRunStore(t)

	spec := model.RunSpec{Source: model.Source{Type: "carrier-pigeon"}}
	require.NoError(t, st.SaveRun("run-1", spec))

	_, err := Run(context.Background(), "run-1", spec, st)
	require.Error(t, err)

	run, err := st.GetRun("run-1")
	require.NoError(t, err)
	assert.Equal(t, "failed", run["status"])
}

func TestRunWithExport(t *testing.T) {
	st := openRunStore(t)
	exportDir := t.TempDir()

	spec := model.RunSpec{
		Source:    model.Source{Type: "sample", RecordCount: 30},
		ExportDir: exportDir,
	}
	require.NoError(t, st.SaveRun("run-1", spec))

	_, err := Run(context.Background(), "run-1", spec, st)
	require.NoError(t, err)

	for _, name := range []string{"region_aggregates.csv", "product_aggregates.csv"} {
		_, err := os.Stat(filepath.Join(exportDir, "run-1", name))
		assert.NoError(t, err, "expected export file %s", name)
	}
}

func TestRunFromCSVSource(t *testing.T) {
	st := openRunStore(t)

	path := filepath.Join(t.TempDir(), "sales.csv")
	csvData := "product_name,sales_amount,sale_date,region,customer_id,quantity\n" +
		"laptop,999.99,2026-01-15,north,CUST_1001,2\n" +
		"mouse,49.50,2026-01-16,south,CUST_1002,1\n" +
		"broken,,2026-01-17,east,CUST_1003,1\n"
	require.NoError(t, os.WriteFile(path, []byte(csvData), 0644))

	spec := model.RunSpec{Source: model.Source{Type: "csv", URL: path}}
	require.NoError(t, st.SaveRun("run-1", spec))

	summary, err := Run(context.Background(), "run-1", spec, st)
	require.NoError(t, err)

	// The empty-amount row is dropped during cleaning.
	assert.Equal(t, 2, summary.SalesRecords)
	assert.InDelta(t, 1049.49, summary.TotalRevenue, 1e-6)
	assert.Equal(t, 2, summary.Regions)
	assert.Equal(t, 2, summary.Products)
}
